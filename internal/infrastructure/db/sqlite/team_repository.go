package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/automation-hub/project-requests/internal/core/domain"
)

const teamColumns = `id, registration, name, rfid, barcode, username, sector, role, level, created_at, updated_at`

type TeamMemberRepository struct {
	db *sql.DB
}

func NewTeamMemberRepository(db *sql.DB) *TeamMemberRepository {
	return &TeamMemberRepository{db: db}
}

func (r *TeamMemberRepository) FindByID(ctx context.Context, id string) (*domain.TeamMember, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM team_members WHERE id = ?`, id)
	return scanTeamMemberRow(row)
}

func (r *TeamMemberRepository) FindByRegistration(ctx context.Context, registration int64) (*domain.TeamMember, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM team_members WHERE registration = ?`, registration)
	return scanTeamMemberRow(row)
}

func (r *TeamMemberRepository) ExistsByRegistration(ctx context.Context, registration int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM team_members WHERE registration = ?)`, registration).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking team member: %w", err)
	}
	return exists, nil
}

func (r *TeamMemberRepository) List(ctx context.Context) ([]*domain.TeamMember, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+teamColumns+` FROM team_members ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing team members: %w", err)
	}
	defer rows.Close()

	members := []*domain.TeamMember{}
	for rows.Next() {
		m, err := scanTeamMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team members: %w", err)
	}
	return members, nil
}

func (r *TeamMemberRepository) Create(ctx context.Context, m *domain.TeamMember) error {
	query := `INSERT INTO team_members (` + teamColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.Registration, m.Name, m.RFID, m.Barcode, m.Username, m.Sector, m.Role, m.Level,
		formatTime(m.CreatedAt), formatTime(m.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrTeamMemberExists
		}
		return fmt.Errorf("inserting team member: %w", err)
	}
	return nil
}

func (r *TeamMemberRepository) Update(ctx context.Context, m *domain.TeamMember) error {
	query := `UPDATE team_members SET name = ?, rfid = ?, barcode = ?, username = ?, sector = ?, role = ?, level = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		m.Name, m.RFID, m.Barcode, m.Username, m.Sector, m.Role, m.Level, formatTime(m.UpdatedAt), m.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrTeamMemberExists
		}
		return fmt.Errorf("updating team member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrTeamMemberNotFound
	}
	return nil
}

func (r *TeamMemberRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM team_members WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting team member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrTeamMemberNotFound
	}
	return nil
}

func scanTeamMemberRow(row *sql.Row) (*domain.TeamMember, error) {
	m, err := scanTeamMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTeamMemberNotFound
	}
	return m, err
}

func scanTeamMember(row rowScanner) (*domain.TeamMember, error) {
	var (
		m                    domain.TeamMember
		createdAt, updatedAt string
	)
	err := row.Scan(&m.ID, &m.Registration, &m.Name, &m.RFID, &m.Barcode, &m.Username,
		&m.Sector, &m.Role, &m.Level, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning team member: %w", err)
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if m.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &m, nil
}

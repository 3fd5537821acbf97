package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/automation-hub/project-requests/internal/core/domain"
)

const approverColumns = `id, registration, name, sector, role, permission, active, created_at, updated_at`

type ApproverRepository struct {
	db *sql.DB
}

func NewApproverRepository(db *sql.DB) *ApproverRepository {
	return &ApproverRepository{db: db}
}

func (r *ApproverRepository) FindByID(ctx context.Context, id string) (*domain.Approver, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+approverColumns+` FROM approvers WHERE id = ?`, id)
	return scanApproverRow(row)
}

func (r *ApproverRepository) FindByRegistration(ctx context.Context, registration int64) (*domain.Approver, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+approverColumns+` FROM approvers WHERE registration = ?`, registration)
	return scanApproverRow(row)
}

func (r *ApproverRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Approver, error) {
	query := `SELECT ` + approverColumns + ` FROM approvers`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	rows, err := r.db.QueryContext(ctx, query+` ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing approvers: %w", err)
	}
	defer rows.Close()

	approvers := []*domain.Approver{}
	for rows.Next() {
		a, err := scanApprover(rows)
		if err != nil {
			return nil, err
		}
		approvers = append(approvers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating approvers: %w", err)
	}
	return approvers, nil
}

func (r *ApproverRepository) Create(ctx context.Context, a *domain.Approver) error {
	query := `INSERT INTO approvers (` + approverColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Registration, a.Name, a.Sector, a.Role, a.Permission, boolToInt(a.Active),
		formatTime(a.CreatedAt), formatTime(a.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrApproverExists
		}
		return fmt.Errorf("inserting approver: %w", err)
	}
	return nil
}

func (r *ApproverRepository) Update(ctx context.Context, a *domain.Approver) error {
	query := `UPDATE approvers SET name = ?, sector = ?, role = ?, permission = ?, active = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		a.Name, a.Sector, a.Role, a.Permission, boolToInt(a.Active), formatTime(a.UpdatedAt), a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating approver: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrApproverNotFound
	}
	return nil
}

func scanApproverRow(row *sql.Row) (*domain.Approver, error) {
	a, err := scanApprover(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrApproverNotFound
	}
	return a, err
}

func scanApprover(row rowScanner) (*domain.Approver, error) {
	var (
		a                    domain.Approver
		permission           sql.NullString
		active               int
		createdAt, updatedAt string
	)
	err := row.Scan(&a.ID, &a.Registration, &a.Name, &a.Sector, &a.Role, &permission, &active, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning approver: %w", err)
	}
	if permission.Valid {
		a.Permission = &permission.String
	}
	a.Active = active != 0
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &a, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/automation-hub/project-requests/internal/core/domain"
	"github.com/automation-hub/project-requests/internal/core/ports"
)

const projectColumns = `id, name, sector, description, type, urgency, tags, expected_gains, pictures,
	status, start_date, estimated_duration_time, approved_by, approved_at, paused_at, concluded_at,
	recorded_pauses, requested_by, requester_name, automation_team, timeline,
	version, created_at, updated_at, deleted_at`

// ProjectRepository stores projects with their list and record fields as JSON columns.
type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	args, err := projectArgs(p)
	if err != nil {
		return err
	}
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ? AND deleted_at IS NULL`
	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return p, nil
}

// Update writes p only if the stored row is live and still at expectedVersion.
func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project, expectedVersion int64) error {
	args, err := projectArgs(p)
	if err != nil {
		return err
	}
	query := `UPDATE projects SET
		name = ?, sector = ?, description = ?, type = ?, urgency = ?, tags = ?, expected_gains = ?, pictures = ?,
		status = ?, start_date = ?, estimated_duration_time = ?, approved_by = ?, approved_at = ?, paused_at = ?,
		concluded_at = ?, recorded_pauses = ?, requested_by = ?, requester_name = ?, automation_team = ?, timeline = ?,
		version = ?, created_at = ?, updated_at = ?, deleted_at = ?
		WHERE id = ? AND version = ? AND deleted_at IS NULL`
	args = append(args[1:], p.ID, expectedVersion)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	if n == 0 {
		if _, err := r.FindByID(ctx, p.ID); err != nil {
			return err
		}
		return domain.ErrVersionConflict
	}
	return nil
}

func (r *ProjectRepository) List(ctx context.Context, f ports.ProjectFilter) ([]*domain.Project, int64, error) {
	where := []string{"deleted_at IS NULL"}
	var args []any
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.Urgency != "" {
		where = append(where, "urgency = ?")
		args = append(args, f.Urgency)
	}
	if f.Sector != "" {
		where = append(where, "sector = ?")
		args = append(args, f.Sector)
	}
	clause := " WHERE " + strings.Join(where, " AND ")

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting projects: %w", err)
	}

	// sort column comes from a whitelist, never from user text
	sortBy := "created_at"
	if f.SortBy == ports.SortByUpdatedAt {
		sortBy = "updated_at"
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	query := `SELECT ` + projectColumns + ` FROM projects` + clause +
		fmt.Sprintf(" ORDER BY %s %s, id %s LIMIT ? OFFSET ?", sortBy, dir, dir)
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	projects := make([]*domain.Project, 0, f.Limit)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, total, nil
}

// projectArgs returns the column values in projectColumns order.
func projectArgs(p *domain.Project) ([]any, error) {
	var (
		jsonCols = []any{p.Tags, p.ExpectedGains, p.Pictures, p.RecordedPauses, p.Timeline}
		encoded  = make([]string, len(jsonCols))
	)
	for i, v := range jsonCols {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding project: %w", err)
		}
		encoded[i] = string(b)
	}
	// nil slices would otherwise be stored as null
	for i, s := range encoded {
		if s == "null" {
			encoded[i] = "[]"
		}
	}

	var team any
	if p.AutomationTeam != nil {
		b, err := json.Marshal(p.AutomationTeam)
		if err != nil {
			return nil, fmt.Errorf("encoding project: %w", err)
		}
		team = string(b)
	}
	var approvedBy any
	if p.ApprovedBy != nil {
		approvedBy = *p.ApprovedBy
	}
	estimate := p.EstimatedDurationTime
	if estimate == "" {
		estimate = domain.ZeroDuration
	}

	return []any{
		p.ID, p.Name, p.Sector, p.Description, string(p.Type), string(p.Urgency),
		encoded[0], encoded[1], encoded[2],
		string(p.Status), nullableTime(p.StartDate), string(estimate), approvedBy,
		nullableTime(p.ApprovedAt), nullableTime(p.PausedAt), nullableTime(p.ConcludedAt),
		encoded[3], p.RequestedBy, p.RequesterName, team, encoded[4],
		p.Version, formatTime(p.CreatedAt), formatTime(p.UpdatedAt), nullableTime(p.DeletedAt),
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		p                                            domain.Project
		typ, urgency, status, estimate               string
		tags, gains, pictures, pauses, timeline      string
		createdAt, updatedAt                         string
		startDate, approvedAt, pausedAt, concludedAt sql.NullString
		deletedAt, team                              sql.NullString
		approvedBy                                   sql.NullInt64
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Sector, &p.Description, &typ, &urgency, &tags, &gains, &pictures,
		&status, &startDate, &estimate, &approvedBy, &approvedAt, &pausedAt, &concludedAt,
		&pauses, &p.RequestedBy, &p.RequesterName, &team, &timeline,
		&p.Version, &createdAt, &updatedAt, &deletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	p.Type = domain.ProjectType(typ)
	p.Urgency = domain.Urgency(urgency)
	p.Status = domain.ProjectStatus(status)
	p.EstimatedDurationTime = domain.EstimatedDuration(estimate)
	if approvedBy.Valid {
		v := approvedBy.Int64
		p.ApprovedBy = &v
	}

	decode := []struct {
		src string
		dst any
	}{
		{tags, &p.Tags}, {gains, &p.ExpectedGains}, {pictures, &p.Pictures},
		{pauses, &p.RecordedPauses}, {timeline, &p.Timeline},
	}
	for _, d := range decode {
		if err := json.Unmarshal([]byte(d.src), d.dst); err != nil {
			return nil, fmt.Errorf("decoding project %s: %w", p.ID, err)
		}
	}
	if team.Valid {
		p.AutomationTeam = &domain.AssignedTeam{}
		if err := json.Unmarshal([]byte(team.String), p.AutomationTeam); err != nil {
			return nil, fmt.Errorf("decoding project %s: %w", p.ID, err)
		}
	}

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	nullable := []struct {
		src sql.NullString
		dst **time.Time
	}{
		{startDate, &p.StartDate}, {approvedAt, &p.ApprovedAt}, {pausedAt, &p.PausedAt},
		{concludedAt, &p.ConcludedAt}, {deletedAt, &p.DeletedAt},
	}
	for _, n := range nullable {
		if *n.dst, err = parseNullableTime(n.src); err != nil {
			return nil, fmt.Errorf("parsing project %s timestamps: %w", p.ID, err)
		}
	}
	return &p, nil
}

package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cuongbtq/sitejobs/internal/domain"
	"github.com/cuongbtq/sitejobs/shared/sqldb"
	"github.com/jmoiron/sqlx"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL,
		status TEXT NOT NULL,
		priority TEXT NOT NULL,
		start_date TEXT NOT NULL DEFAULT '',
		end_date TEXT NOT NULL DEFAULT '',
		estimated_duration INTEGER NOT NULL,
		assigned_workers TEXT NOT NULL DEFAULT '[]',
		created_by TEXT NOT NULL,
		created_via TEXT NOT NULL DEFAULT '',
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL,
		progress INTEGER NOT NULL DEFAULT 0,
		budget DOUBLE PRECISION,
		materials TEXT NOT NULL DEFAULT '[]',
		notes TEXT NOT NULL DEFAULT '',
		drive_folder_id TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS work_updates (
		id TEXT PRIMARY KEY,
		job_id TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		worker_id TEXT NOT NULL,
		worker_name TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL,
		status TEXT NOT NULL,
		photos TEXT NOT NULL DEFAULT '[]',
		created_at BIGINT NOT NULL,
		hours_worked DOUBLE PRECISION,
		source TEXT NOT NULL DEFAULT '',
		phone_number TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_work_updates_job ON work_updates (job_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs (status)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL,
		status TEXT NOT NULL,
		priority TEXT NOT NULL,
		start_date TEXT NOT NULL DEFAULT '',
		end_date TEXT NOT NULL DEFAULT '',
		estimated_duration INTEGER NOT NULL,
		assigned_workers TEXT NOT NULL DEFAULT '[]',
		created_by TEXT NOT NULL,
		created_via TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		progress INTEGER NOT NULL DEFAULT 0,
		budget REAL,
		materials TEXT NOT NULL DEFAULT '[]',
		notes TEXT NOT NULL DEFAULT '',
		drive_folder_id TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS work_updates (
		id TEXT PRIMARY KEY,
		job_id TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		worker_id TEXT NOT NULL,
		worker_name TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL,
		status TEXT NOT NULL,
		photos TEXT NOT NULL DEFAULT '[]',
		created_at INTEGER NOT NULL,
		hours_worked REAL,
		source TEXT NOT NULL DEFAULT '',
		phone_number TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_work_updates_job ON work_updates (job_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs (status)`,
}

const jobColumns = `id, title, description, location, status, priority, start_date, end_date,
	estimated_duration, assigned_workers, created_by, created_via, created_at, updated_at,
	progress, budget, materials, notes, drive_folder_id`

const updateColumns = `id, job_id, worker_id, worker_name, description, status, photos,
	created_at, hours_worked, source, phone_number`

const upsertJobQuery = `
	INSERT INTO jobs (` + jobColumns + `) VALUES (
		:id, :title, :description, :location, :status, :priority, :start_date, :end_date,
		:estimated_duration, :assigned_workers, :created_by, :created_via, :created_at, :updated_at,
		:progress, :budget, :materials, :notes, :drive_folder_id
	)
	ON CONFLICT (id) DO UPDATE SET
		title = excluded.title,
		description = excluded.description,
		location = excluded.location,
		status = excluded.status,
		priority = excluded.priority,
		start_date = excluded.start_date,
		end_date = excluded.end_date,
		estimated_duration = excluded.estimated_duration,
		assigned_workers = excluded.assigned_workers,
		created_by = excluded.created_by,
		created_via = excluded.created_via,
		created_at = excluded.created_at,
		updated_at = excluded.updated_at,
		progress = excluded.progress,
		budget = excluded.budget,
		materials = excluded.materials,
		notes = excluded.notes,
		drive_folder_id = excluded.drive_folder_id
`

const insertUpdateQuery = `
	INSERT INTO work_updates (` + updateColumns + `) VALUES (
		:id, :job_id, :worker_id, :worker_name, :description, :status, :photos,
		:created_at, :hours_worked, :source, :phone_number
	)
`

// SQL stores the collections in postgres or sqlite through sqlx
type SQL struct {
	client *sqldb.Client
	db     *sqlx.DB
}

// NewSQL wraps an open client. Call Migrate before first use.
func NewSQL(client *sqldb.Client) *SQL {
	return &SQL{
		client: client,
		db:     client.GetDB(),
	}
}

// Migrate creates the tables when they do not exist yet
func (s *SQL) Migrate(ctx context.Context) error {
	schema := postgresSchema
	if s.client.Driver() == sqldb.DriverSQLite {
		schema = sqliteSchema
	}
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func (s *SQL) GetJob(ctx context.Context, id string) (domain.Job, error) {
	query := s.db.Rebind(`SELECT ` + jobColumns + ` FROM jobs WHERE id = ?`)

	var row jobRow
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Job{}, domain.NewJobNotFound(id)
		}
		return domain.Job{}, fmt.Errorf("failed to get job: %w", err)
	}
	return row.toDomain(), nil
}

func (s *SQL) SaveJob(ctx context.Context, job domain.Job) error {
	if _, err := s.db.NamedExecContext(ctx, upsertJobQuery, newJobRow(job)); err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}
	return nil
}

func (s *SQL) DeleteJob(ctx context.Context, id string) error {
	return s.client.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM work_updates WHERE job_id = ?`), id); err != nil {
			return fmt.Errorf("failed to delete work updates: %w", err)
		}

		result, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM jobs WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("failed to delete job: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return domain.NewJobNotFound(id)
		}
		return nil
	})
}

func (s *SQL) ListJobs(ctx context.Context, filter JobFilter) ([]domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE 1=1`
	args := []interface{}{}

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	if filter.Priority != "" {
		query += " AND priority = ?"
		args = append(args, string(filter.Priority))
	}
	query += " ORDER BY created_at ASC, id ASC"

	var rows []jobRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	// worker membership and text search run over the decoded lists
	jobs := make([]domain.Job, 0, len(rows))
	for _, row := range rows {
		job := row.toDomain()
		if filter.Match(job) {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func (s *SQL) SaveWorkUpdate(ctx context.Context, update domain.WorkUpdate) error {
	return s.client.WithTx(ctx, func(tx *sqlx.Tx) error {
		var exists int
		err := tx.GetContext(ctx, &exists, tx.Rebind(`SELECT COUNT(*) FROM jobs WHERE id = ?`), update.JobID)
		if err != nil {
			return fmt.Errorf("failed to look up job: %w", err)
		}
		if exists == 0 {
			return domain.NewJobNotFound(update.JobID)
		}

		if _, err := tx.NamedExecContext(ctx, insertUpdateQuery, newUpdateRow(update)); err != nil {
			return fmt.Errorf("failed to save work update: %w", err)
		}
		return nil
	})
}

func (s *SQL) ListWorkUpdates(ctx context.Context, filter WorkUpdateFilter) ([]domain.WorkUpdate, error) {
	query := `SELECT ` + updateColumns + ` FROM work_updates WHERE 1=1`
	args := []interface{}{}

	if filter.JobID != "" {
		query += " AND job_id = ?"
		args = append(args, filter.JobID)
	}
	if filter.WorkerID != "" {
		query += " AND worker_id = ?"
		args = append(args, filter.WorkerID)
	}
	if filter.Source != "" {
		query += " AND source = ?"
		args = append(args, string(filter.Source))
	}
	if filter.Before != nil {
		ts := filter.Before.Timestamp.UnixNano()
		query += " AND (created_at < ? OR (created_at = ? AND id < ?))"
		args = append(args, ts, ts, filter.Before.ID)
	}

	query += " ORDER BY created_at DESC, id DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	var rows []updateRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list work updates: %w", err)
	}

	updates := make([]domain.WorkUpdate, len(rows))
	for i, row := range rows {
		updates[i] = row.toDomain()
	}
	return updates, nil
}

func (s *SQL) CountWorkUpdates(ctx context.Context, jobID string) (UpdateCounts, error) {
	query := s.db.Rebind(`
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed
		FROM work_updates
		WHERE job_id = ?
	`)

	var counts UpdateCounts
	if err := s.db.GetContext(ctx, &counts, query, string(domain.UpdateStatusCompleted), jobID); err != nil {
		return UpdateCounts{}, fmt.Errorf("failed to count work updates: %w", err)
	}
	return counts, nil
}

func (s *SQL) ReplaceAll(ctx context.Context, jobs []domain.Job, updates []domain.WorkUpdate) error {
	return s.client.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM work_updates`); err != nil {
			return fmt.Errorf("failed to clear work updates: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM jobs`); err != nil {
			return fmt.Errorf("failed to clear jobs: %w", err)
		}
		for _, job := range jobs {
			if _, err := tx.NamedExecContext(ctx, upsertJobQuery, newJobRow(job)); err != nil {
				return fmt.Errorf("failed to insert job %s: %w", job.ID, err)
			}
		}
		for _, u := range updates {
			if _, err := tx.NamedExecContext(ctx, insertUpdateQuery, newUpdateRow(u)); err != nil {
				return fmt.Errorf("failed to insert work update %s: %w", u.ID, err)
			}
		}
		return nil
	})
}

// Close is a no-op; the owner of the sqldb client closes the connection
func (s *SQL) Close() error {
	return nil
}

// stringList is stored as a JSON array in a TEXT column
type stringList []string

func (l stringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *stringList) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into string list", src)
	}
	return json.Unmarshal(data, (*[]string)(l))
}

type jobRow struct {
	ID                string          `db:"id"`
	Title             string          `db:"title"`
	Description       string          `db:"description"`
	Location          string          `db:"location"`
	Status            string          `db:"status"`
	Priority          string          `db:"priority"`
	StartDate         string          `db:"start_date"`
	EndDate           string          `db:"end_date"`
	EstimatedDuration int             `db:"estimated_duration"`
	AssignedWorkers   stringList      `db:"assigned_workers"`
	CreatedBy         string          `db:"created_by"`
	CreatedVia        string          `db:"created_via"`
	CreatedAt         int64           `db:"created_at"`
	UpdatedAt         int64           `db:"updated_at"`
	Progress          int             `db:"progress"`
	Budget            sql.NullFloat64 `db:"budget"`
	Materials         stringList      `db:"materials"`
	Notes             string          `db:"notes"`
	DriveFolderID     string          `db:"drive_folder_id"`
}

func newJobRow(j domain.Job) jobRow {
	row := jobRow{
		ID:                j.ID,
		Title:             j.Title,
		Description:       j.Description,
		Location:          j.Location,
		Status:            string(j.Status),
		Priority:          string(j.Priority),
		StartDate:         j.StartDate,
		EndDate:           j.EndDate,
		EstimatedDuration: j.EstimatedDuration,
		AssignedWorkers:   stringList(j.AssignedWorkers),
		CreatedBy:         j.CreatedBy,
		CreatedVia:        string(j.CreatedVia),
		CreatedAt:         j.CreatedAt.UnixNano(),
		UpdatedAt:         j.UpdatedAt.UnixNano(),
		Progress:          j.Progress,
		Materials:         stringList(j.Materials),
		Notes:             j.Notes,
		DriveFolderID:     j.DriveFolderID,
	}
	if j.Budget != nil {
		row.Budget = sql.NullFloat64{Float64: *j.Budget, Valid: true}
	}
	return row
}

func (r jobRow) toDomain() domain.Job {
	job := domain.Job{
		ID:                r.ID,
		Title:             r.Title,
		Description:       r.Description,
		Location:          r.Location,
		Status:            domain.JobStatus(r.Status),
		Priority:          domain.Priority(r.Priority),
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		EstimatedDuration: r.EstimatedDuration,
		AssignedWorkers:   []string(r.AssignedWorkers),
		CreatedBy:         r.CreatedBy,
		CreatedVia:        domain.Channel(r.CreatedVia),
		CreatedAt:         fromUnixNano(r.CreatedAt),
		UpdatedAt:         fromUnixNano(r.UpdatedAt),
		Progress:          r.Progress,
		Notes:             r.Notes,
		DriveFolderID:     r.DriveFolderID,
	}
	if job.AssignedWorkers == nil {
		job.AssignedWorkers = []string{}
	}
	if len(r.Materials) > 0 {
		job.Materials = []string(r.Materials)
	}
	if r.Budget.Valid {
		b := r.Budget.Float64
		job.Budget = &b
	}
	return job
}

type updateRow struct {
	ID          string          `db:"id"`
	JobID       string          `db:"job_id"`
	WorkerID    string          `db:"worker_id"`
	WorkerName  string          `db:"worker_name"`
	Description string          `db:"description"`
	Status      string          `db:"status"`
	Photos      stringList      `db:"photos"`
	CreatedAt   int64           `db:"created_at"`
	HoursWorked sql.NullFloat64 `db:"hours_worked"`
	Source      string          `db:"source"`
	PhoneNumber string          `db:"phone_number"`
}

func newUpdateRow(u domain.WorkUpdate) updateRow {
	row := updateRow{
		ID:          u.ID,
		JobID:       u.JobID,
		WorkerID:    u.WorkerID,
		WorkerName:  u.WorkerName,
		Description: u.Description,
		Status:      string(u.Status),
		Photos:      stringList(u.Photos),
		CreatedAt:   u.Timestamp.UnixNano(),
		Source:      string(u.Source),
		PhoneNumber: u.PhoneNumber,
	}
	if u.HoursWorked != nil {
		row.HoursWorked = sql.NullFloat64{Float64: *u.HoursWorked, Valid: true}
	}
	return row
}

func (r updateRow) toDomain() domain.WorkUpdate {
	u := domain.WorkUpdate{
		ID:          r.ID,
		JobID:       r.JobID,
		WorkerID:    r.WorkerID,
		WorkerName:  r.WorkerName,
		Description: r.Description,
		Status:      domain.UpdateStatus(r.Status),
		Photos:      []string(r.Photos),
		Timestamp:   fromUnixNano(r.CreatedAt),
		Source:      domain.Channel(r.Source),
		PhoneNumber: r.PhoneNumber,
	}
	if u.Photos == nil {
		u.Photos = []string{}
	}
	if r.HoursWorked.Valid {
		h := r.HoursWorked.Float64
		u.HoursWorked = &h
	}
	return u
}

func fromUnixNano(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

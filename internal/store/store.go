// Package store persists jobs and work updates.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/cuongbtq/sitejobs/internal/domain"
)

// Store is the persistence backend for the job and work update collections.
// Lookups of missing records return an error matching domain.ErrNotFound.
type Store interface {
	GetJob(ctx context.Context, id string) (domain.Job, error)
	// SaveJob inserts or replaces a job
	SaveJob(ctx context.Context, job domain.Job) error
	// DeleteJob removes a job together with its work updates
	DeleteJob(ctx context.Context, id string) error
	ListJobs(ctx context.Context, filter JobFilter) ([]domain.Job, error)

	SaveWorkUpdate(ctx context.Context, update domain.WorkUpdate) error
	// ListWorkUpdates returns updates newest first
	ListWorkUpdates(ctx context.Context, filter WorkUpdateFilter) ([]domain.WorkUpdate, error)
	CountWorkUpdates(ctx context.Context, jobID string) (UpdateCounts, error)

	// ReplaceAll swaps both collections in one step
	ReplaceAll(ctx context.Context, jobs []domain.Job, updates []domain.WorkUpdate) error
	Close() error
}

// JobFilter narrows ListJobs. Zero fields match everything.
type JobFilter struct {
	WorkerID string
	Status   domain.JobStatus
	Priority domain.Priority
	// Query is a case-insensitive substring over title, description,
	// location, materials and notes
	Query string
}

// Match reports whether job passes the filter
func (f JobFilter) Match(job domain.Job) bool {
	if f.WorkerID != "" && !job.HasWorker(f.WorkerID) {
		return false
	}
	if f.Status != "" && job.Status != f.Status {
		return false
	}
	if f.Priority != "" && job.Priority != f.Priority {
		return false
	}
	if f.Query != "" && !matchText(job, strings.ToLower(f.Query)) {
		return false
	}
	return true
}

func matchText(job domain.Job, q string) bool {
	if strings.Contains(strings.ToLower(job.Title), q) ||
		strings.Contains(strings.ToLower(job.Description), q) ||
		strings.Contains(strings.ToLower(job.Location), q) ||
		strings.Contains(strings.ToLower(job.Notes), q) {
		return true
	}
	for _, m := range job.Materials {
		if strings.Contains(strings.ToLower(m), q) {
			return true
		}
	}
	return false
}

// Cursor marks the last update of a timeline page
type Cursor struct {
	Timestamp time.Time
	ID        string
}

// WorkUpdateFilter narrows ListWorkUpdates
type WorkUpdateFilter struct {
	JobID    string
	WorkerID string
	Source   domain.Channel
	// Before returns only updates strictly older than the cursor
	Before *Cursor
	// Limit of 0 means no limit
	Limit int
}

// Match reports whether update passes the filter, ignoring paging fields
func (f WorkUpdateFilter) Match(u domain.WorkUpdate) bool {
	if f.JobID != "" && u.JobID != f.JobID {
		return false
	}
	if f.WorkerID != "" && u.WorkerID != f.WorkerID {
		return false
	}
	if f.Source != "" && u.Source != f.Source {
		return false
	}
	if f.Before != nil && !olderThan(u, *f.Before) {
		return false
	}
	return true
}

func olderThan(u domain.WorkUpdate, c Cursor) bool {
	if u.Timestamp.Equal(c.Timestamp) {
		return u.ID < c.ID
	}
	return u.Timestamp.Before(c.Timestamp)
}

// UpdateCounts summarizes the work updates of one job
type UpdateCounts struct {
	Total     int `db:"total"`
	Completed int `db:"completed"`
}

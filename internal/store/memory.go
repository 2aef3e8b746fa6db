package store

import (
	"context"
	"sort"
	"sync"

	"github.com/cuongbtq/sitejobs/internal/domain"
)

// Memory keeps both collections in process. Records are copied on the way
// in and out so callers never share slices with the store.
type Memory struct {
	mu      sync.RWMutex
	jobs    map[string]domain.Job
	updates map[string]domain.WorkUpdate
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		jobs:    make(map[string]domain.Job),
		updates: make(map[string]domain.WorkUpdate),
	}
}

func (m *Memory) GetJob(_ context.Context, id string) (domain.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, ok := m.jobs[id]
	if !ok {
		return domain.Job{}, domain.NewJobNotFound(id)
	}
	return job.Clone(), nil
}

func (m *Memory) SaveJob(_ context.Context, job domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobs[job.ID] = job.Clone()
	return nil
}

func (m *Memory) DeleteJob(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.jobs[id]; !ok {
		return domain.NewJobNotFound(id)
	}
	delete(m.jobs, id)
	for uid, u := range m.updates {
		if u.JobID == id {
			delete(m.updates, uid)
		}
	}
	return nil
}

func (m *Memory) ListJobs(_ context.Context, filter JobFilter) ([]domain.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		if filter.Match(job) {
			out = append(out, job.Clone())
		}
	}
	sortJobs(out)
	return out, nil
}

func (m *Memory) SaveWorkUpdate(_ context.Context, update domain.WorkUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.jobs[update.JobID]; !ok {
		return domain.NewJobNotFound(update.JobID)
	}
	m.updates[update.ID] = update.Clone()
	return nil
}

func (m *Memory) ListWorkUpdates(_ context.Context, filter WorkUpdateFilter) ([]domain.WorkUpdate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.WorkUpdate, 0)
	for _, u := range m.updates {
		if filter.Match(u) {
			out = append(out, u.Clone())
		}
	}
	sortUpdates(out)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *Memory) CountWorkUpdates(_ context.Context, jobID string) (UpdateCounts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var counts UpdateCounts
	for _, u := range m.updates {
		if u.JobID != jobID {
			continue
		}
		counts.Total++
		if u.Status == domain.UpdateStatusCompleted {
			counts.Completed++
		}
	}
	return counts, nil
}

func (m *Memory) ReplaceAll(_ context.Context, jobs []domain.Job, updates []domain.WorkUpdate) error {
	nextJobs := make(map[string]domain.Job, len(jobs))
	for _, j := range jobs {
		nextJobs[j.ID] = j.Clone()
	}
	nextUpdates := make(map[string]domain.WorkUpdate, len(updates))
	for _, u := range updates {
		nextUpdates[u.ID] = u.Clone()
	}

	m.mu.Lock()
	m.jobs = nextJobs
	m.updates = nextUpdates
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error {
	return nil
}

// sortJobs orders jobs oldest first
func sortJobs(jobs []domain.Job) {
	sort.Slice(jobs, func(i, k int) bool {
		if jobs[i].CreatedAt.Equal(jobs[k].CreatedAt) {
			return jobs[i].ID < jobs[k].ID
		}
		return jobs[i].CreatedAt.Before(jobs[k].CreatedAt)
	})
}

// sortUpdates orders updates newest first
func sortUpdates(updates []domain.WorkUpdate) {
	sort.Slice(updates, func(i, k int) bool {
		if updates[i].Timestamp.Equal(updates[k].Timestamp) {
			return updates[i].ID > updates[k].ID
		}
		return updates[i].Timestamp.After(updates[k].Timestamp)
	})
}

package store

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/cuongbtq/sitejobs/internal/domain"
	"github.com/cuongbtq/sitejobs/shared/sqldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

func sampleJob(id string, offset time.Duration) domain.Job {
	budget := 150000.0
	return domain.Job{
		ID:                id,
		Title:             "Downtown Office Building - Foundation",
		Description:       "Pour concrete foundation for 12-story office building",
		Location:          "123 Main St, Downtown",
		Status:            domain.JobStatusInProgress,
		Priority:          domain.PriorityHigh,
		StartDate:         "2024-03-15",
		EndDate:           "2024-03-25",
		EstimatedDuration: 10,
		AssignedWorkers:   []string{"4"},
		CreatedBy:         "1",
		CreatedVia:        domain.ChannelWeb,
		CreatedAt:         base.Add(offset),
		UpdatedAt:         base.Add(offset),
		Progress:          75,
		Budget:            &budget,
		Materials:         []string{"Concrete", "Rebar", "Forms"},
		Notes:             "Weather dependent - monitor forecast",
		DriveFolderID:     "folder_1",
	}
}

func sampleUpdate(id, jobID string, status domain.UpdateStatus, offset time.Duration) domain.WorkUpdate {
	hours := 8.0
	return domain.WorkUpdate{
		ID:          id,
		JobID:       jobID,
		WorkerID:    "4",
		WorkerName:  "Field Worker",
		Description: "Foundation concrete poured",
		Status:      status,
		Photos:      []string{"/concrete-foundation.png"},
		Timestamp:   base.Add(offset),
		HoursWorked: &hours,
		Source:      domain.ChannelWeb,
	}
}

func newSQLiteStore(t *testing.T) Store {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := sqldb.NewClient(&sqldb.Config{
		Driver: sqldb.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "jobs.db"),
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	s := NewSQL(client)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func stores() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemory() },
		"sqlite": newSQLiteStore,
	}
}

func TestStore_JobLifecycle(t *testing.T) {
	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)

			_, err := s.GetJob(ctx, "missing")
			assert.ErrorIs(t, err, domain.ErrNotFound)

			job := sampleJob("job-1", 0)
			require.NoError(t, s.SaveJob(ctx, job))

			got, err := s.GetJob(ctx, "job-1")
			require.NoError(t, err)
			assert.Equal(t, job, got)

			job.Progress = 100
			job.Status = domain.JobStatusCompleted
			job.Budget = nil
			job.Materials = nil
			require.NoError(t, s.SaveJob(ctx, job))

			got, err = s.GetJob(ctx, "job-1")
			require.NoError(t, err)
			assert.Equal(t, job, got)

			require.NoError(t, s.DeleteJob(ctx, "job-1"))
			assert.ErrorIs(t, s.DeleteJob(ctx, "job-1"), domain.ErrNotFound)
		})
	}
}

func TestStore_ListJobs(t *testing.T) {
	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)

			first := sampleJob("a", 0)
			second := sampleJob("b", time.Hour)
			second.Title = "Residential Complex A - Framing"
			second.Description = "Frame structure"
			second.Location = "456 Oak Ave"
			second.Status = domain.JobStatusPlanned
			second.Priority = domain.PriorityMedium
			second.AssignedWorkers = []string{}
			second.Materials = []string{"Lumber"}
			second.Notes = ""

			require.NoError(t, s.SaveJob(ctx, second))
			require.NoError(t, s.SaveJob(ctx, first))

			all, err := s.ListJobs(ctx, JobFilter{})
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, "a", all[0].ID)
			assert.Equal(t, "b", all[1].ID)

			tests := []struct {
				name   string
				filter JobFilter
				want   []string
			}{
				{name: "by worker", filter: JobFilter{WorkerID: "4"}, want: []string{"a"}},
				{name: "by status", filter: JobFilter{Status: domain.JobStatusPlanned}, want: []string{"b"}},
				{name: "by priority", filter: JobFilter{Priority: domain.PriorityHigh}, want: []string{"a"}},
				{name: "search material", filter: JobFilter{Query: "LUMBER"}, want: []string{"b"}},
				{name: "search notes", filter: JobFilter{Query: "forecast"}, want: []string{"a"}},
				{name: "search location", filter: JobFilter{Query: "oak"}, want: []string{"b"}},
				{name: "no match", filter: JobFilter{Query: "bridge"}, want: []string{}},
			}

			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					jobs, err := s.ListJobs(ctx, tt.filter)
					require.NoError(t, err)

					ids := make([]string, 0, len(jobs))
					for _, j := range jobs {
						ids = append(ids, j.ID)
					}
					assert.Equal(t, tt.want, ids)
				})
			}
		})
	}
}

func TestStore_WorkUpdates(t *testing.T) {
	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)

			require.NoError(t, s.SaveJob(ctx, sampleJob("job-1", 0)))
			require.NoError(t, s.SaveJob(ctx, sampleJob("job-2", 0)))

			u1 := sampleUpdate("u1", "job-1", domain.UpdateStatusCompleted, time.Hour)
			u2 := sampleUpdate("u2", "job-1", domain.UpdateStatusInProgress, 2*time.Hour)
			u2.HoursWorked = nil
			u2.Photos = []string{}
			u3 := sampleUpdate("u3", "job-1", domain.UpdateStatusCompleted, 3*time.Hour)
			u3.Source = domain.ChannelWhatsApp
			u3.PhoneNumber = "+15550001"
			u3.WorkerID = "+15550001"
			other := sampleUpdate("u4", "job-2", domain.UpdateStatusBlocked, time.Hour)

			for _, u := range []domain.WorkUpdate{u1, u2, u3, other} {
				require.NoError(t, s.SaveWorkUpdate(ctx, u))
			}

			updates, err := s.ListWorkUpdates(ctx, WorkUpdateFilter{JobID: "job-1"})
			require.NoError(t, err)
			require.Len(t, updates, 3)
			assert.Equal(t, []domain.WorkUpdate{u3, u2, u1}, updates)

			byWorker, err := s.ListWorkUpdates(ctx, WorkUpdateFilter{JobID: "job-1", WorkerID: "4"})
			require.NoError(t, err)
			assert.Len(t, byWorker, 2)

			bySource, err := s.ListWorkUpdates(ctx, WorkUpdateFilter{Source: domain.ChannelWhatsApp})
			require.NoError(t, err)
			require.Len(t, bySource, 1)
			assert.Equal(t, "u3", bySource[0].ID)

			page, err := s.ListWorkUpdates(ctx, WorkUpdateFilter{
				JobID:  "job-1",
				Before: &Cursor{Timestamp: u3.Timestamp, ID: u3.ID},
				Limit:  1,
			})
			require.NoError(t, err)
			require.Len(t, page, 1)
			assert.Equal(t, "u2", page[0].ID)

			counts, err := s.CountWorkUpdates(ctx, "job-1")
			require.NoError(t, err)
			assert.Equal(t, UpdateCounts{Total: 3, Completed: 2}, counts)

			empty, err := s.CountWorkUpdates(ctx, "nothing")
			require.NoError(t, err)
			assert.Equal(t, UpdateCounts{}, empty)

			require.NoError(t, s.DeleteJob(ctx, "job-1"))

			updates, err = s.ListWorkUpdates(ctx, WorkUpdateFilter{JobID: "job-1"})
			require.NoError(t, err)
			assert.Empty(t, updates)

			remaining, err := s.ListWorkUpdates(ctx, WorkUpdateFilter{})
			require.NoError(t, err)
			assert.Equal(t, []domain.WorkUpdate{other}, remaining)
		})
	}
}

func TestStore_ReplaceAll(t *testing.T) {
	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)

			require.NoError(t, s.SaveJob(ctx, sampleJob("old", 0)))

			jobs := []domain.Job{sampleJob("new-1", 0), sampleJob("new-2", time.Minute)}
			updates := []domain.WorkUpdate{sampleUpdate("u1", "new-2", domain.UpdateStatusDelayed, time.Hour)}
			require.NoError(t, s.ReplaceAll(ctx, jobs, updates))

			gotJobs, err := s.ListJobs(ctx, JobFilter{})
			require.NoError(t, err)
			assert.Equal(t, jobs, gotJobs)

			gotUpdates, err := s.ListWorkUpdates(ctx, WorkUpdateFilter{})
			require.NoError(t, err)
			assert.Equal(t, updates, gotUpdates)
		})
	}
}

func TestStore_SaveWorkUpdateRequiresJob(t *testing.T) {
	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)

			err := s.SaveWorkUpdate(ctx, sampleUpdate("u1", "missing", domain.UpdateStatusCompleted, 0))
			assert.ErrorIs(t, err, domain.ErrNotFound)

			updates, err := s.ListWorkUpdates(ctx, WorkUpdateFilter{})
			require.NoError(t, err)
			assert.Empty(t, updates)
		})
	}
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.SaveJob(ctx, sampleJob("job-1", 0)))

	got, err := s.GetJob(ctx, "job-1")
	require.NoError(t, err)
	got.AssignedWorkers[0] = "changed"

	again, err := s.GetJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"4"}, again.AssignedWorkers)
}

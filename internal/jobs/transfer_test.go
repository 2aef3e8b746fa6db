package jobs

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/cuongbtq/sitejobs/internal/domain"
	"github.com/cuongbtq/sitejobs/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newFixture(t)

	input := sampleNewJob()
	budget := 85000.0
	input.Budget = &budget
	input.Materials = []string{"Lumber"}
	input.AssignedWorkers = []string{"4"}
	job, err := src.svc.CreateJob(ctx, input, domain.RoleScheduler)
	require.NoError(t, err)
	_, err = src.svc.AppendWorkUpdate(ctx, webUpdate(job.ID, domain.UpdateStatusInProgress))
	require.NoError(t, err)
	_, err = src.svc.AppendWhatsAppUpdate(ctx, WhatsAppUpdate{PhoneNumber: "+15551234567", JobID: job.ID, Status: domain.UpdateStatusCompleted})
	require.NoError(t, err)

	data, err := src.svc.Export(ctx)
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, SnapshotVersion, snap.Version)
	assert.False(t, snap.ExportDate.IsZero())

	dst := newFixture(t)
	dst.createJob(t)
	require.NoError(t, dst.svc.Import(ctx, data, domain.RoleAdmin))

	wantJobs, err := src.store.ListJobs(ctx, store.JobFilter{})
	require.NoError(t, err)
	gotJobs, err := dst.store.ListJobs(ctx, store.JobFilter{})
	require.NoError(t, err)
	assert.Equal(t, wantJobs, gotJobs)

	wantUpdates, err := src.store.ListWorkUpdates(ctx, store.WorkUpdateFilter{})
	require.NoError(t, err)
	gotUpdates, err := dst.store.ListWorkUpdates(ctx, store.WorkUpdateFilter{})
	require.NoError(t, err)
	assert.Equal(t, wantUpdates, gotUpdates)
}

func TestImportRejectsBadSnapshots(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: `{`},
		{name: "missing jobs", data: `{"workUpdates": []}`},
		{name: "missing work updates", data: `{"jobs": []}`},
		{name: "unknown job status", data: `{"jobs": [{"id": "1", "status": "done", "priority": "low"}], "workUpdates": []}`},
		{name: "duplicate job", data: `{"jobs": [{"id": "1", "status": "planned", "priority": "low"}, {"id": "1", "status": "planned", "priority": "low"}], "workUpdates": []}`},
		{name: "orphan update", data: `{"jobs": [], "workUpdates": [{"id": "u1", "jobId": "1", "status": "completed"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			job := f.createJob(t)

			err := f.svc.Import(ctx, []byte(tt.data), domain.RoleAdmin)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))

			stored, err := f.store.GetJob(ctx, job.ID)
			require.NoError(t, err)
			assert.Equal(t, job, stored)
		})
	}
}

func TestImportEmptySnapshotClearsData(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createJob(t)

	require.NoError(t, f.svc.Import(ctx, []byte(`{"jobs": [], "workUpdates": []}`), domain.RoleAdmin))

	jobs, err := f.svc.ListJobs(ctx, store.JobFilter{})
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestImportRequiresClosePermission(t *testing.T) {
	data := `{"jobs": [{"id": "j1", "title": "Imported", "location": "Site", "status": "completed", "priority": "low", "assignedWorkers": ["4"], "photos": []}], "workUpdates": []}`

	for _, role := range []domain.Role{domain.RoleCoordinator, domain.RoleScheduler, domain.RoleWorker, domain.Role("foreman"), domain.Role("")} {
		t.Run(string(role), func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			job := f.createJob(t)

			err := f.svc.Import(ctx, []byte(data), role)
			require.Error(t, err)
			assert.True(t, domain.IsAuthorization(err))

			jobs, err := f.store.ListJobs(ctx, store.JobFilter{})
			require.NoError(t, err)
			assert.Equal(t, []domain.Job{job}, jobs)
		})
	}
}

func TestStatistics(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	stats, err := f.svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.AverageProgress)

	budget := 1000.5
	first := sampleNewJob()
	first.Budget = &budget
	first.Priority = domain.PriorityHigh
	first.Progress = 25
	_, err = f.svc.CreateJob(ctx, first, domain.RoleCoordinator)
	require.NoError(t, err)

	second := sampleNewJob()
	second.Status = domain.JobStatusOnHold
	second.Progress = 50
	_, err = f.svc.CreateJob(ctx, second, domain.RoleCoordinator)
	require.NoError(t, err)

	stats, err = f.svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, map[domain.JobStatus]int{domain.JobStatusPlanned: 1, domain.JobStatusOnHold: 1}, stats.ByStatus)
	assert.Equal(t, map[domain.Priority]int{domain.PriorityHigh: 1, domain.PriorityMedium: 1}, stats.ByPriority)
	assert.InDelta(t, 1000.5, stats.TotalBudget, 0.001)
	assert.Equal(t, 38, stats.AverageProgress)
}

func TestWhatsAppEntryPoints(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	job, err := f.svc.CreateJobFromWhatsApp(ctx, WhatsAppJob{
		PhoneNumber: "+15551234567",
		Title:       "Fence Repair",
		Location:    "12 Elm St",
		Priority:    domain.PriorityUrgent,
	}, domain.RoleCoordinator)
	require.NoError(t, err)
	assert.Equal(t, domain.ChannelWhatsApp, job.CreatedVia)
	assert.Equal(t, "+15551234567", job.CreatedBy)
	assert.Equal(t, "Job created via WhatsApp from +15551234567", job.Description)
	assert.Equal(t, 7, job.EstimatedDuration)
	assert.Equal(t, "2024-03-15", job.StartDate)
	assert.Equal(t, "2024-03-22", job.EndDate)
	assert.Empty(t, job.AssignedWorkers)
	assert.Equal(t, []string{"+15551234567"}, f.sender.recipients())

	_, err = f.svc.CreateJobFromWhatsApp(ctx, WhatsAppJob{PhoneNumber: "+15550000000", Title: "x", Location: "y"}, domain.RoleWorker)
	assert.True(t, domain.IsAuthorization(err))

	photo, err := f.svc.UploadWhatsAppPhoto(ctx, WhatsAppPhoto{
		PhoneNumber: "+15551234567",
		JobID:       job.ID,
		Data:        []byte("jpeg"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.UpdateStatusInProgress, photo.Status)
	assert.Equal(t, "WhatsApp User (+15551234567)", photo.WorkerName)
	assert.Equal(t, []string{"/photos/folder-" + job.ID + "/whatsapp_1.jpg"}, photo.Photos)

	update, err := f.svc.AppendWhatsAppUpdate(ctx, WhatsAppUpdate{
		PhoneNumber: "+15551234567",
		JobID:       job.ID,
		Status:      domain.UpdateStatusCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, "Status updated to completed via WhatsApp", update.Description)
	assert.Equal(t, "+15551234567", update.WorkerID)

	stored, err := f.svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, stored.Progress)
	assert.Equal(t, domain.JobStatusPlanned, stored.Status)
}

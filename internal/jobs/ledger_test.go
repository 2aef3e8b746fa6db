package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cuongbtq/sitejobs/internal/domain"
	"github.com/cuongbtq/sitejobs/internal/keylock"
	"github.com/cuongbtq/sitejobs/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveProgress(t *testing.T) {
	tests := []struct {
		name   string
		prior  store.UpdateCounts
		status domain.UpdateStatus
		want   int
		wantOK bool
	}{
		{name: "first completed update", prior: store.UpdateCounts{}, status: domain.UpdateStatusCompleted, want: 100, wantOK: true},
		{name: "two of three completed", prior: store.UpdateCounts{Total: 3, Completed: 2}, status: domain.UpdateStatusCompleted, want: 75, wantOK: true},
		{name: "none of two completed", prior: store.UpdateCounts{Total: 2}, status: domain.UpdateStatusCompleted, want: 33, wantOK: true},
		{name: "rounds half up", prior: store.UpdateCounts{Total: 7}, status: domain.UpdateStatusCompleted, want: 13, wantOK: true},
		{name: "in progress leaves progress alone", prior: store.UpdateCounts{Total: 3, Completed: 3}, status: domain.UpdateStatusInProgress},
		{name: "blocked leaves progress alone", prior: store.UpdateCounts{Total: 1}, status: domain.UpdateStatusBlocked},
		{name: "delayed leaves progress alone", prior: store.UpdateCounts{}, status: domain.UpdateStatusDelayed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DeriveProgress(tt.prior, tt.status)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAppendWorkUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("first completed update completes the job", func(t *testing.T) {
		f := newFixture(t)
		job := f.createJob(t)

		update, err := f.svc.AppendWorkUpdate(ctx, webUpdate(job.ID, domain.UpdateStatusCompleted))
		require.NoError(t, err)
		assert.Equal(t, job.ID, update.JobID)
		assert.Equal(t, domain.ChannelWeb, update.Source)
		assert.Empty(t, update.Photos)

		stored, err := f.svc.GetJob(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, 100, stored.Progress)
		assert.Equal(t, domain.JobStatusCompleted, stored.Status)
		assert.True(t, stored.UpdatedAt.After(job.UpdatedAt))
	})

	t.Run("derivation keeps the status below 100", func(t *testing.T) {
		f := newFixture(t)
		job := f.createJob(t)
		status := domain.JobStatusInProgress
		job, err := f.svc.UpdateJob(ctx, job.ID, domain.JobPatch{Status: &status}, domain.RoleCoordinator)
		require.NoError(t, err)

		f.seedUpdate(t, job.ID, domain.UpdateStatusCompleted, 1)
		f.seedUpdate(t, job.ID, domain.UpdateStatusCompleted, 2)
		f.seedUpdate(t, job.ID, domain.UpdateStatusBlocked, 3)

		_, err = f.svc.AppendWorkUpdate(ctx, webUpdate(job.ID, domain.UpdateStatusCompleted))
		require.NoError(t, err)

		stored, err := f.svc.GetJob(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, 75, stored.Progress)
		assert.Equal(t, domain.JobStatusInProgress, stored.Status)
	})

	t.Run("non completed update leaves the job untouched", func(t *testing.T) {
		f := newFixture(t)
		job := f.createJob(t)

		_, err := f.svc.AppendWorkUpdate(ctx, webUpdate(job.ID, domain.UpdateStatusBlocked))
		require.NoError(t, err)

		stored, err := f.svc.GetJob(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, job, stored)
	})

	t.Run("derivation overrides a manual progress edit", func(t *testing.T) {
		f := newFixture(t)
		job := f.createJob(t)
		progress := 90
		_, err := f.svc.UpdateJob(ctx, job.ID, domain.JobPatch{Progress: &progress}, domain.RoleCoordinator)
		require.NoError(t, err)
		f.seedUpdate(t, job.ID, domain.UpdateStatusBlocked, 1)

		_, err = f.svc.AppendWorkUpdate(ctx, webUpdate(job.ID, domain.UpdateStatusCompleted))
		require.NoError(t, err)

		stored, err := f.svc.GetJob(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, 50, stored.Progress)
	})

	t.Run("unknown job", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.AppendWorkUpdate(ctx, webUpdate("missing", domain.UpdateStatusCompleted))
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("validation", func(t *testing.T) {
		f := newFixture(t)
		job := f.createJob(t)

		input := webUpdate(job.ID, domain.UpdateStatus("finished"))
		_, err := f.svc.AppendWorkUpdate(ctx, input)
		assert.True(t, domain.IsValidation(err))

		input = webUpdate(job.ID, domain.UpdateStatusCompleted)
		input.PhoneNumber = "+15551234567"
		_, err = f.svc.AppendWorkUpdate(ctx, input)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("photos are uploaded with metadata", func(t *testing.T) {
		f := newFixture(t)
		job := f.createJob(t)

		input := webUpdate(job.ID, domain.UpdateStatusInProgress)
		input.Photos = []domain.PhotoInput{
			{Ref: "/existing.png"},
			{FileName: "wall.png", MimeType: "image/png", Data: []byte("png"), Caption: "north wall"},
			{Data: []byte("jpeg")},
		}

		update, err := f.svc.AppendWorkUpdate(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"/existing.png",
			"/photos/folder-" + job.ID + "/wall.png",
			"/photos/folder-" + job.ID + "/web_3.jpg",
		}, update.Photos)

		require.Len(t, f.photos.uploads, 2)
		captions := []string{f.photos.uploads[0].Caption, f.photos.uploads[1].Caption}
		assert.ElementsMatch(t, []string{"north wall", "Framing progress"}, captions)
		for _, meta := range f.photos.uploads {
			assert.Equal(t, "4", meta.UploadedBy)
			assert.Equal(t, job.ID, meta.JobID)
			assert.Equal(t, "web", meta.Source)
		}

		photos, err := f.svc.JobPhotos(ctx, job.ID)
		require.NoError(t, err)
		assert.Len(t, photos, 2)
	})

	t.Run("photo failure persists nothing", func(t *testing.T) {
		f := newFixture(t)
		job := f.createJob(t)
		f.photos.uploadErr = errors.New("quota exceeded")

		input := webUpdate(job.ID, domain.UpdateStatusCompleted)
		input.Photos = []domain.PhotoInput{{Data: []byte("jpeg")}}

		_, err := f.svc.AppendWorkUpdate(ctx, input)
		require.Error(t, err)
		assert.True(t, domain.IsStorage(err))

		updates, err := f.svc.WorkUpdatesByJob(ctx, job.ID)
		require.NoError(t, err)
		assert.Empty(t, updates)

		stored, err := f.svc.GetJob(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, job, stored)
	})

	t.Run("photos need a folder", func(t *testing.T) {
		f := newFixture(t)
		f.photos.folderErr = errors.New("drive unavailable")
		job := f.createJob(t)

		input := webUpdate(job.ID, domain.UpdateStatusInProgress)
		input.Photos = []domain.PhotoInput{{Data: []byte("jpeg")}}

		_, err := f.svc.AppendWorkUpdate(ctx, input)
		assert.True(t, domain.IsStorage(err))

		photos, err := f.svc.JobPhotos(ctx, job.ID)
		require.NoError(t, err)
		assert.Empty(t, photos)
	})

	t.Run("photo store timeout is a storage error", func(t *testing.T) {
		f := newFixture(t)
		job := f.createJob(t)
		f.photos.hang = true
		f.svc.photoTimeout = 20 * time.Millisecond

		input := webUpdate(job.ID, domain.UpdateStatusCompleted)
		input.Photos = []domain.PhotoInput{{Data: []byte("jpeg")}, {Data: []byte("jpeg")}}

		_, err := f.svc.AppendWorkUpdate(ctx, input)
		require.Error(t, err)
		assert.True(t, domain.IsStorage(err))
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		updates, err := f.svc.WorkUpdatesByJob(ctx, job.ID)
		require.NoError(t, err)
		assert.Empty(t, updates)

		stored, err := f.svc.GetJob(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, job, stored)
	})

	t.Run("whatsapp update is confirmed to the sender", func(t *testing.T) {
		f := newFixture(t)
		job := f.createJob(t)

		input := webUpdate(job.ID, domain.UpdateStatusInProgress)
		input.Source = domain.ChannelWhatsApp
		input.PhoneNumber = "+15551234567"

		_, err := f.svc.AppendWorkUpdate(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, []string{"+15551234567"}, f.sender.recipients())
	})
}

func TestAppendWorkUpdateConcurrent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	job := f.createJob(t)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		status := domain.UpdateStatusInProgress
		if i%2 == 0 {
			status = domain.UpdateStatusCompleted
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.AppendWorkUpdate(ctx, webUpdate(job.ID, status))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	counts, err := f.store.CountWorkUpdates(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, store.UpdateCounts{Total: n, Completed: n / 2}, counts)

	stored, err := f.svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stored.Progress, 0)
	assert.LessOrEqual(t, stored.Progress, 100)
}

func TestWorkUpdateQueries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	job := f.createJob(t)

	first, err := f.svc.AppendWorkUpdate(ctx, webUpdate(job.ID, domain.UpdateStatusInProgress))
	require.NoError(t, err)
	second, err := f.svc.AppendWhatsAppUpdate(ctx, WhatsAppUpdate{
		PhoneNumber: "+15551234567",
		JobID:       job.ID,
		Status:      domain.UpdateStatusDelayed,
	})
	require.NoError(t, err)

	timeline, err := f.svc.WorkUpdatesByJob(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, timeline, 2)
	assert.Equal(t, second.ID, timeline[0].ID)
	assert.Equal(t, first.ID, timeline[1].ID)

	byWorker, err := f.svc.WorkUpdatesByWorker(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, []domain.WorkUpdate{first}, byWorker)

	bySource, err := f.svc.WorkUpdatesBySource(ctx, domain.ChannelWhatsApp)
	require.NoError(t, err)
	assert.Equal(t, []domain.WorkUpdate{second}, bySource)
}

func TestNotificationsSentOutsideJobLock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first := f.createJob(t)
	second := f.createJob(t)

	// one stripe: every job shares the same lock
	f.svc.locks = keylock.New(1)
	gate := newGateSender()
	f.svc.notifier = gate

	appended := make(chan error, 1)
	go func() {
		_, err := f.svc.AppendWhatsAppUpdate(ctx, WhatsAppUpdate{
			PhoneNumber: "+15551234567",
			JobID:       first.ID,
			Status:      domain.UpdateStatusInProgress,
		})
		appended <- err
	}()

	select {
	case recipient := <-gate.entered:
		assert.Equal(t, "+15551234567", recipient)
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation was never sent")
	}

	updated := make(chan error, 1)
	go func() {
		title := "Renamed while a notification is pending"
		_, err := f.svc.UpdateJob(ctx, second.ID, domain.JobPatch{Title: &title}, domain.RoleCoordinator)
		updated <- err
	}()

	select {
	case err := <-updated:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		close(gate.release)
		t.Fatal("UpdateJob waited for a notification on another job")
	}

	close(gate.release)
	require.NoError(t, <-appended)

	updates, err := f.svc.WorkUpdatesByJob(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, updates, 1)
}

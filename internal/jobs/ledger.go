package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/sitejobs/internal/domain"
	"github.com/cuongbtq/sitejobs/internal/photostore"
	"github.com/cuongbtq/sitejobs/internal/store"
	"golang.org/x/sync/errgroup"
)

var errNoFolder = errors.New("job has no photo folder")

// AppendWorkUpdate records a work update and re-derives the job's progress.
// Pending photos are uploaded before anything is persisted; if one upload
// fails nothing is stored.
func (s *Service) AppendWorkUpdate(ctx context.Context, input domain.NewWorkUpdate) (domain.WorkUpdate, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return domain.WorkUpdate{}, err
	}

	job, err := s.store.GetJob(ctx, input.JobID)
	if err != nil {
		return domain.WorkUpdate{}, err
	}

	photos, err := s.resolvePhotos(ctx, job, input)
	if err != nil {
		s.logger.Error("Photo upload failed, work update discarded",
			slog.String("job_id", job.ID),
			slog.String("worker_id", input.WorkerID),
			slog.String("error", err.Error()),
		)
		return domain.WorkUpdate{}, err
	}

	update, derived, closed, err := s.recordWorkUpdate(ctx, input, photos)
	if err != nil {
		return domain.WorkUpdate{}, err
	}

	// notifications go out after the job lock is released
	if update.Source == domain.ChannelWhatsApp {
		s.notify(ctx, update.PhoneNumber, fmt.Sprintf("Update recorded for job %s: %s (progress %d%%)", derived.ID, update.Status, derived.Progress))
	}
	if closed && derived.CreatedVia == domain.ChannelWhatsApp {
		s.notify(ctx, derived.CreatedBy, fmt.Sprintf("Job %s is completed: %s", derived.ID, derived.Title))
	}

	return update, nil
}

// recordWorkUpdate persists the update and derives progress under the job
// lock. It returns the job as left by derivation and whether derivation
// closed it.
func (s *Service) recordWorkUpdate(ctx context.Context, input domain.NewWorkUpdate, photos []string) (domain.WorkUpdate, domain.Job, bool, error) {
	unlock := s.locks.Lock(input.JobID)
	defer unlock()

	// the job may have been deleted while photos were uploading
	job, err := s.store.GetJob(ctx, input.JobID)
	if err != nil {
		return domain.WorkUpdate{}, domain.Job{}, false, err
	}

	prior, err := s.store.CountWorkUpdates(ctx, job.ID)
	if err != nil {
		return domain.WorkUpdate{}, domain.Job{}, false, fmt.Errorf("failed to count work updates: %w", err)
	}

	update := domain.WorkUpdate{
		ID:          s.newID(),
		JobID:       job.ID,
		WorkerID:    input.WorkerID,
		WorkerName:  input.WorkerName,
		Description: input.Description,
		Status:      input.Status,
		Photos:      photos,
		Timestamp:   s.timestamp(),
		HoursWorked: input.HoursWorked,
		Source:      input.Source,
		PhoneNumber: input.PhoneNumber,
	}

	if err := s.store.SaveWorkUpdate(ctx, update); err != nil {
		return domain.WorkUpdate{}, domain.Job{}, false, fmt.Errorf("failed to save work update: %w", err)
	}

	s.logger.Info("Work update appended",
		slog.String("update_id", update.ID),
		slog.String("job_id", job.ID),
		slog.String("status", string(update.Status)),
		slog.Int("photos", len(update.Photos)),
	)

	derived, closed, err := s.applyProgress(ctx, job, prior, update.Status)
	if err != nil {
		return domain.WorkUpdate{}, domain.Job{}, false, err
	}
	return update, derived, closed, nil
}

// resolvePhotos uploads pending photos concurrently and returns references
// in input order
func (s *Service) resolvePhotos(ctx context.Context, job domain.Job, input domain.NewWorkUpdate) ([]string, error) {
	refs := make([]string, len(input.Photos))

	pending := 0
	for i, p := range input.Photos {
		if p.Pending() {
			pending++
			continue
		}
		refs[i] = p.Ref
	}
	if pending == 0 {
		return refs, nil
	}

	if s.photos == nil {
		return nil, domain.NewStorageError("upload photo", errors.New("photo store is not configured"))
	}
	if job.DriveFolderID == "" {
		return nil, domain.NewStorageError("upload photo", errNoFolder)
	}

	ctx, cancel := context.WithTimeout(ctx, s.photoTimeout)
	defer cancel()

	uploadedAt := s.timestamp()
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range input.Photos {
		if !p.Pending() {
			continue
		}

		i, p := i, p
		g.Go(func() error {
			name := p.FileName
			if name == "" {
				name = fmt.Sprintf("%s_%d.jpg", input.Source, i+1)
			}
			mimeType := p.MimeType
			if mimeType == "" {
				mimeType = "image/jpeg"
			}
			caption := p.Caption
			if caption == "" {
				caption = input.Description
			}

			ref, err := s.photos.UploadPhoto(gctx, job.DriveFolderID, name, p.Data, mimeType, photostore.Metadata{
				Caption:    caption,
				UploadedBy: input.WorkerID,
				Timestamp:  uploadedAt,
				Source:     string(input.Source),
				JobID:      job.ID,
			})
			if err != nil {
				return fmt.Errorf("photo %d: %w", i+1, err)
			}
			refs[i] = ref
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, domain.NewStorageError("upload photo", err)
	}
	return refs, nil
}

// WorkUpdates returns updates matching filter, newest first
func (s *Service) WorkUpdates(ctx context.Context, filter store.WorkUpdateFilter) ([]domain.WorkUpdate, error) {
	return s.store.ListWorkUpdates(ctx, filter)
}

// WorkUpdatesByJob returns the timeline of one job, newest first
func (s *Service) WorkUpdatesByJob(ctx context.Context, jobID string) ([]domain.WorkUpdate, error) {
	return s.store.ListWorkUpdates(ctx, store.WorkUpdateFilter{JobID: jobID})
}

func (s *Service) WorkUpdatesByWorker(ctx context.Context, workerID string) ([]domain.WorkUpdate, error) {
	return s.store.ListWorkUpdates(ctx, store.WorkUpdateFilter{WorkerID: workerID})
}

func (s *Service) WorkUpdatesBySource(ctx context.Context, source domain.Channel) ([]domain.WorkUpdate, error) {
	return s.store.ListWorkUpdates(ctx, store.WorkUpdateFilter{Source: source})
}

// JobPhotos lists the photos stored in the job's folder
func (s *Service) JobPhotos(ctx context.Context, jobID string) ([]photostore.Photo, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.DriveFolderID == "" || s.photos == nil {
		return []photostore.Photo{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.photoTimeout)
	defer cancel()

	photos, err := s.photos.ListPhotos(ctx, job.DriveFolderID)
	if err != nil {
		return nil, domain.NewStorageError("list photos", err)
	}
	return photos, nil
}

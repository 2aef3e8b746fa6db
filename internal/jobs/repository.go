package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/cuongbtq/sitejobs/internal/domain"
	"github.com/cuongbtq/sitejobs/internal/policy"
	"github.com/cuongbtq/sitejobs/internal/store"
)

// CreateJob creates a job on behalf of role. The photo folder is provisioned
// best effort; a job without a folder is still created.
func (s *Service) CreateJob(ctx context.Context, input domain.NewJob, role domain.Role) (domain.Job, error) {
	if err := policy.Check(role, policy.ActionCreateJob); err != nil {
		s.logger.Warn("Job creation rejected",
			slog.String("role", string(role)),
		)
		return domain.Job{}, err
	}

	input.Normalize()

	if len(input.AssignedWorkers) > 0 {
		if err := policy.Check(role, policy.ActionAssignWorkers); err != nil {
			return domain.Job{}, err
		}
	}
	if input.Status.Final() {
		if err := policy.Check(role, policy.ActionCloseJob); err != nil {
			return domain.Job{}, err
		}
	}

	if err := input.Validate(); err != nil {
		return domain.Job{}, err
	}

	now := s.timestamp()
	job := domain.Job{
		ID:                s.newID(),
		Title:             input.Title,
		Description:       input.Description,
		Location:          input.Location,
		Status:            input.Status,
		Priority:          input.Priority,
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
		EstimatedDuration: input.EstimatedDuration,
		AssignedWorkers:   input.AssignedWorkers,
		CreatedBy:         input.CreatedBy,
		CreatedVia:        input.CreatedVia,
		CreatedAt:         now,
		UpdatedAt:         now,
		Progress:          input.Progress,
		Budget:            input.Budget,
		Materials:         input.Materials,
		Notes:             input.Notes,
	}

	job.DriveFolderID = s.provisionFolder(ctx, job)

	if err := s.store.SaveJob(ctx, job); err != nil {
		s.logger.Error("Failed to create job",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()),
		)
		return domain.Job{}, fmt.Errorf("failed to create job: %w", err)
	}

	s.logger.Info("Job created",
		slog.String("job_id", job.ID),
		slog.String("created_by", job.CreatedBy),
		slog.String("created_via", string(job.CreatedVia)),
		slog.Bool("has_folder", job.DriveFolderID != ""),
	)

	if job.CreatedVia == domain.ChannelWhatsApp {
		s.notify(ctx, job.CreatedBy, fmt.Sprintf("Job %s created: %s", job.ID, job.Title))
	}
	s.notifyAssigned(ctx, job, job.AssignedWorkers)

	return job, nil
}

// provisionFolder returns the folder handle, or "" when the photo store is
// unavailable
func (s *Service) provisionFolder(ctx context.Context, job domain.Job) string {
	if s.photos == nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, s.photoTimeout)
	defer cancel()

	folder, err := s.photos.CreateFolder(ctx, job.ID, job.Title)
	if err != nil {
		storageErr := domain.NewStorageError("create folder", err)
		s.logger.Warn("Continuing without photo folder",
			slog.String("job_id", job.ID),
			slog.String("error", storageErr.Error()),
		)
		return ""
	}
	return folder
}

// UpdateJob merges patch into the job. Moving a job into the completed
// state requires the close permission; changing the assigned workers
// requires the assign permission.
func (s *Service) UpdateJob(ctx context.Context, id string, patch domain.JobPatch, role domain.Role) (domain.Job, error) {
	job, added, err := s.updateJob(ctx, id, patch, role)
	if err != nil {
		return domain.Job{}, err
	}

	s.notifyAssigned(ctx, job, added)
	return job, nil
}

// updateJob applies patch under the job lock and returns the saved job with
// the workers that were newly assigned
func (s *Service) updateJob(ctx context.Context, id string, patch domain.JobPatch, role domain.Role) (domain.Job, []string, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		return domain.Job{}, nil, err
	}

	if patch.Status != nil && patch.Status.Final() && !job.Status.Final() {
		if err := policy.Check(role, policy.ActionCloseJob); err != nil {
			s.logger.Warn("Job close rejected",
				slog.String("job_id", id),
				slog.String("role", string(role)),
			)
			return domain.Job{}, nil, err
		}
	}

	if patch.AssignedWorkers != nil && !sameWorkers(job.AssignedWorkers, patch.AssignedWorkers) {
		if err := policy.Check(role, policy.ActionAssignWorkers); err != nil {
			s.logger.Warn("Worker assignment rejected",
				slog.String("job_id", id),
				slog.String("role", string(role)),
			)
			return domain.Job{}, nil, err
		}
	}

	if err := patch.Validate(); err != nil {
		return domain.Job{}, nil, err
	}

	previous := job.AssignedWorkers
	patch.Apply(&job)
	job.UpdatedAt = s.timestamp()

	if err := s.store.SaveJob(ctx, job); err != nil {
		return domain.Job{}, nil, fmt.Errorf("failed to update job: %w", err)
	}

	s.logger.Info("Job updated",
		slog.String("job_id", id),
		slog.String("role", string(role)),
		slog.String("status", string(job.Status)),
	)

	return job, newWorkers(previous, job.AssignedWorkers), nil
}

// DeleteJob removes the job and all of its work updates. Deleting an
// unknown id returns a NotFoundError.
func (s *Service) DeleteJob(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.store.DeleteJob(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Job deleted", slog.String("job_id", id))
	return nil
}

func (s *Service) GetJob(ctx context.Context, id string) (domain.Job, error) {
	return s.store.GetJob(ctx, id)
}

// ListJobs returns the jobs matching filter, oldest first
func (s *Service) ListJobs(ctx context.Context, filter store.JobFilter) ([]domain.Job, error) {
	return s.store.ListJobs(ctx, filter)
}

func (s *Service) JobsByWorker(ctx context.Context, workerID string) ([]domain.Job, error) {
	return s.store.ListJobs(ctx, store.JobFilter{WorkerID: workerID})
}

func (s *Service) JobsByStatus(ctx context.Context, status domain.JobStatus) ([]domain.Job, error) {
	return s.store.ListJobs(ctx, store.JobFilter{Status: status})
}

func (s *Service) JobsByPriority(ctx context.Context, priority domain.Priority) ([]domain.Job, error) {
	return s.store.ListJobs(ctx, store.JobFilter{Priority: priority})
}

// SearchJobs matches query case-insensitively against title, description,
// location, materials and notes
func (s *Service) SearchJobs(ctx context.Context, query string) ([]domain.Job, error) {
	return s.store.ListJobs(ctx, store.JobFilter{Query: query})
}

func (s *Service) notifyAssigned(ctx context.Context, job domain.Job, workers []string) {
	for _, w := range workers {
		s.notify(ctx, w, fmt.Sprintf("You have been assigned to job %s: %s (%s)", job.ID, job.Title, job.Location))
	}
}

func sameWorkers(current, next []string) bool {
	a := slices.Clone(current)
	b := slices.Compact(slices.Sorted(slices.Values(next)))
	slices.Sort(a)
	b = slices.DeleteFunc(b, func(s string) bool { return s == "" })
	return slices.Equal(a, b)
}

func newWorkers(previous, current []string) []string {
	var added []string
	for _, w := range current {
		if !slices.Contains(previous, w) {
			added = append(added, w)
		}
	}
	return added
}

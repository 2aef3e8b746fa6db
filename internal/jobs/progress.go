package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/cuongbtq/sitejobs/internal/domain"
	"github.com/cuongbtq/sitejobs/internal/store"
)

// DeriveProgress computes a job's progress after one more update with the
// given status is appended to prior. Only completed reports move progress;
// for any other status ok is false.
func DeriveProgress(prior store.UpdateCounts, status domain.UpdateStatus) (progress int, ok bool) {
	if status != domain.UpdateStatusCompleted {
		return 0, false
	}

	completed := prior.Completed + 1
	total := prior.Total + 1
	progress = int(math.Round(100 * float64(completed) / float64(total)))

	return min(max(progress, 0), 100), true
}

// applyProgress writes the derived progress. It is a system transition and
// does not go through the close permission check. The caller holds the job
// lock.
func (s *Service) applyProgress(ctx context.Context, job domain.Job, prior store.UpdateCounts, status domain.UpdateStatus) (domain.Job, bool, error) {
	progress, ok := DeriveProgress(prior, status)
	if !ok {
		return job, false, nil
	}

	closed := false
	job.Progress = progress
	if progress == 100 {
		closed = job.Status != domain.JobStatusCompleted
		job.Status = domain.JobStatusCompleted
	}
	job.UpdatedAt = s.timestamp()

	if err := s.store.SaveJob(ctx, job); err != nil {
		return job, false, fmt.Errorf("failed to apply derived progress: %w", err)
	}

	s.logger.Info("Job progress derived",
		slog.String("job_id", job.ID),
		slog.Int("completed_updates", prior.Completed+1),
		slog.Int("total_updates", prior.Total+1),
		slog.Int("progress", progress),
		slog.String("status", string(job.Status)),
	)

	return job, closed, nil
}

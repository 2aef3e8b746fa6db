package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cuongbtq/sitejobs/internal/domain"
	"github.com/cuongbtq/sitejobs/internal/policy"
	"github.com/cuongbtq/sitejobs/internal/store"
)

// SnapshotVersion is written into every export
const SnapshotVersion = "1.0"

// Snapshot is the export file layout
type Snapshot struct {
	Jobs        []domain.Job        `json:"jobs"`
	WorkUpdates []domain.WorkUpdate `json:"workUpdates"`
	ExportDate  time.Time           `json:"exportDate"`
	Version     string              `json:"version"`
}

// importSnapshot tells a missing collection apart from an empty one
type importSnapshot struct {
	Jobs        *[]domain.Job        `json:"jobs"`
	WorkUpdates *[]domain.WorkUpdate `json:"workUpdates"`
}

// Export serializes both collections
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	jobs, err := s.store.ListJobs(ctx, store.JobFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to export jobs: %w", err)
	}
	updates, err := s.store.ListWorkUpdates(ctx, store.WorkUpdateFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to export work updates: %w", err)
	}

	data, err := json.MarshalIndent(Snapshot{
		Jobs:        jobs,
		WorkUpdates: updates,
		ExportDate:  s.timestamp(),
		Version:     SnapshotVersion,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	s.logger.Info("Data exported",
		slog.Int("jobs", len(jobs)),
		slog.Int("work_updates", len(updates)),
	)
	return data, nil
}

// Import replaces both collections with the content of an export. The
// current data is left untouched when the snapshot is rejected. Only roles
// allowed to close jobs may import.
func (s *Service) Import(ctx context.Context, data []byte, role domain.Role) error {
	if err := policy.Check(role, policy.ActionImportData); err != nil {
		s.logger.Warn("Import rejected",
			slog.String("role", string(role)),
		)
		return err
	}

	var snap importSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.NewValidationError("snapshot", err.Error())
	}
	if snap.Jobs == nil {
		return domain.NewValidationError("jobs", "missing")
	}
	if snap.WorkUpdates == nil {
		return domain.NewValidationError("workUpdates", "missing")
	}

	jobs, updates := *snap.Jobs, *snap.WorkUpdates

	ids := make(map[string]struct{}, len(jobs))
	for i := range jobs {
		if err := domain.ValidateJob(jobs[i]); err != nil {
			return fmt.Errorf("job %d: %w", i, err)
		}
		if _, ok := ids[jobs[i].ID]; ok {
			return domain.NewValidationError("jobs", "duplicate id "+jobs[i].ID)
		}
		ids[jobs[i].ID] = struct{}{}
		jobs[i] = jobs[i].Clone()
	}

	seen := make(map[string]struct{}, len(updates))
	for i := range updates {
		if err := domain.ValidateWorkUpdate(updates[i]); err != nil {
			return fmt.Errorf("work update %d: %w", i, err)
		}
		if _, ok := ids[updates[i].JobID]; !ok {
			return domain.NewValidationError("workUpdates", "unknown job "+updates[i].JobID)
		}
		if _, ok := seen[updates[i].ID]; ok {
			return domain.NewValidationError("workUpdates", "duplicate id "+updates[i].ID)
		}
		seen[updates[i].ID] = struct{}{}
		updates[i] = updates[i].Clone()
	}

	if err := s.store.ReplaceAll(ctx, jobs, updates); err != nil {
		return fmt.Errorf("failed to import data: %w", err)
	}

	s.logger.Info("Data imported",
		slog.Int("jobs", len(jobs)),
		slog.Int("work_updates", len(updates)),
	)
	return nil
}

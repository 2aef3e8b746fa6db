package jobs

import (
	"context"
	"math"

	"github.com/cuongbtq/sitejobs/internal/domain"
	"github.com/cuongbtq/sitejobs/internal/store"
)

// Statistics summarizes the job collection
type Statistics struct {
	Total           int                      `json:"total"`
	ByStatus        map[domain.JobStatus]int `json:"byStatus"`
	ByPriority      map[domain.Priority]int  `json:"byPriority"`
	TotalBudget     float64                  `json:"totalBudget"`
	AverageProgress int                      `json:"averageProgress"`
}

func (s *Service) Statistics(ctx context.Context) (Statistics, error) {
	jobs, err := s.store.ListJobs(ctx, store.JobFilter{})
	if err != nil {
		return Statistics{}, err
	}
	return summarize(jobs), nil
}

func summarize(jobs []domain.Job) Statistics {
	stats := Statistics{
		Total:      len(jobs),
		ByStatus:   make(map[domain.JobStatus]int),
		ByPriority: make(map[domain.Priority]int),
	}

	progress := 0
	for _, job := range jobs {
		stats.ByStatus[job.Status]++
		stats.ByPriority[job.Priority]++
		if job.Budget != nil {
			stats.TotalBudget += *job.Budget
		}
		progress += job.Progress
	}

	if len(jobs) > 0 {
		stats.AverageProgress = int(math.Round(float64(progress) / float64(len(jobs))))
	}
	return stats
}

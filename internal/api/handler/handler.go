package handler

import (
	"context"
	"log/slog"

	"github.com/cuongbtq/sitejobs/internal/domain"
	"github.com/cuongbtq/sitejobs/internal/jobs"
	"github.com/cuongbtq/sitejobs/internal/photostore"
	"github.com/cuongbtq/sitejobs/internal/store"
)

// JobService is the domain core the handlers drive
type JobService interface {
	CreateJob(ctx context.Context, input domain.NewJob, role domain.Role) (domain.Job, error)
	UpdateJob(ctx context.Context, id string, patch domain.JobPatch, role domain.Role) (domain.Job, error)
	DeleteJob(ctx context.Context, id string) error
	GetJob(ctx context.Context, id string) (domain.Job, error)
	ListJobs(ctx context.Context, filter store.JobFilter) ([]domain.Job, error)

	AppendWorkUpdate(ctx context.Context, input domain.NewWorkUpdate) (domain.WorkUpdate, error)
	WorkUpdates(ctx context.Context, filter store.WorkUpdateFilter) ([]domain.WorkUpdate, error)
	JobPhotos(ctx context.Context, jobID string) ([]photostore.Photo, error)

	Statistics(ctx context.Context) (jobs.Statistics, error)
	Export(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, data []byte, role domain.Role) error

	CreateJobFromWhatsApp(ctx context.Context, in jobs.WhatsAppJob, role domain.Role) (domain.Job, error)
	AppendWhatsAppUpdate(ctx context.Context, in jobs.WhatsAppUpdate) (domain.WorkUpdate, error)
	UploadWhatsAppPhoto(ctx context.Context, in jobs.WhatsAppPhoto) (domain.WorkUpdate, error)
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger  *slog.Logger
	Service JobService
	// PhotoRoot is served under /photos when set
	PhotoRoot string
}

// JobHandler handles job-related HTTP requests
type JobHandler struct {
	logger  *slog.Logger
	service JobService
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger:  deps.Logger,
		service: deps.Service,
	}
}

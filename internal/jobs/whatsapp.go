package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cuongbtq/sitejobs/internal/domain"
)

// whatsAppJobDays is the default scheduling window of a job reported by phone
const whatsAppJobDays = 7

// WhatsAppJob is a job reported from a phone number
type WhatsAppJob struct {
	PhoneNumber string
	Title       string
	Location    string
	Priority    domain.Priority
	Description string
}

// WhatsAppUpdate is a status report sent from a phone number
type WhatsAppUpdate struct {
	PhoneNumber string
	JobID       string
	Status      domain.UpdateStatus
	HoursWorked *float64
	Description string
}

// WhatsAppPhoto is a photo sent from a phone number for a job
type WhatsAppPhoto struct {
	PhoneNumber string
	JobID       string
	FileName    string
	MimeType    string
	Data        []byte
	Caption     string
}

// CreateJobFromWhatsApp creates a planned job on behalf of a phone number
// with a one week window starting today
func (s *Service) CreateJobFromWhatsApp(ctx context.Context, in WhatsAppJob, role domain.Role) (domain.Job, error) {
	if in.PhoneNumber == "" {
		return domain.Job{}, domain.NewValidationError("phoneNumber", "is required")
	}

	description := in.Description
	if description == "" {
		description = "Job created via WhatsApp from " + in.PhoneNumber
	}

	today := s.timestamp()
	return s.CreateJob(ctx, domain.NewJob{
		Title:             in.Title,
		Description:       description,
		Location:          in.Location,
		Status:            domain.JobStatusPlanned,
		Priority:          in.Priority,
		StartDate:         today.Format(domain.DateLayout),
		EndDate:           today.Add(whatsAppJobDays * 24 * time.Hour).Format(domain.DateLayout),
		EstimatedDuration: whatsAppJobDays,
		AssignedWorkers:   []string{},
		CreatedBy:         in.PhoneNumber,
		CreatedVia:        domain.ChannelWhatsApp,
	}, role)
}

// AppendWhatsAppUpdate records a status report with the phone number as
// the worker identity
func (s *Service) AppendWhatsAppUpdate(ctx context.Context, in WhatsAppUpdate) (domain.WorkUpdate, error) {
	description := in.Description
	if description == "" {
		description = fmt.Sprintf("Status updated to %s via WhatsApp", in.Status)
	}

	return s.AppendWorkUpdate(ctx, domain.NewWorkUpdate{
		JobID:       strings.TrimSpace(in.JobID),
		WorkerID:    in.PhoneNumber,
		WorkerName:  whatsAppWorkerName(in.PhoneNumber),
		Description: description,
		Status:      in.Status,
		HoursWorked: in.HoursWorked,
		Source:      domain.ChannelWhatsApp,
		PhoneNumber: in.PhoneNumber,
	})
}

// UploadWhatsAppPhoto stores a photo as an in-progress update of the job
func (s *Service) UploadWhatsAppPhoto(ctx context.Context, in WhatsAppPhoto) (domain.WorkUpdate, error) {
	description := in.Caption
	if description == "" {
		description = "Photo uploaded via WhatsApp"
	}

	return s.AppendWorkUpdate(ctx, domain.NewWorkUpdate{
		JobID:       strings.TrimSpace(in.JobID),
		WorkerID:    in.PhoneNumber,
		WorkerName:  whatsAppWorkerName(in.PhoneNumber),
		Description: description,
		Status:      domain.UpdateStatusInProgress,
		Photos: []domain.PhotoInput{{
			FileName: in.FileName,
			MimeType: in.MimeType,
			Data:     in.Data,
			Caption:  in.Caption,
		}},
		Source:      domain.ChannelWhatsApp,
		PhoneNumber: in.PhoneNumber,
	})
}

func whatsAppWorkerName(phone string) string {
	return fmt.Sprintf("WhatsApp User (%s)", phone)
}

package handler

import (
	"strings"
	"time"

	"github.com/cuongbtq/sitejobs/internal/api/dto"
	"github.com/cuongbtq/sitejobs/internal/domain"
	"github.com/cuongbtq/sitejobs/internal/photostore"
)

func toNewJob(req dto.CreateJobRequest, userID string) (domain.NewJob, error) {
	input := domain.NewJob{
		Title:             req.Title,
		Description:       req.Description,
		Location:          req.Location,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		EstimatedDuration: req.EstimatedDuration,
		AssignedWorkers:   req.AssignedWorkers,
		CreatedBy:         req.CreatedBy,
		CreatedVia:        domain.Channel(strings.ToLower(req.CreatedVia)),
		Progress:          req.Progress,
		Budget:            req.Budget,
		Materials:         req.Materials,
		Notes:             req.Notes,
	}
	if input.CreatedBy == "" {
		input.CreatedBy = userID
	}

	var err error
	if req.Status != "" {
		if input.Status, err = domain.ParseJobStatus(req.Status); err != nil {
			return domain.NewJob{}, err
		}
	}
	if req.Priority != "" {
		if input.Priority, err = domain.ParsePriority(req.Priority); err != nil {
			return domain.NewJob{}, err
		}
	}
	return input, nil
}

func toJobPatch(req dto.UpdateJobRequest) (domain.JobPatch, error) {
	patch := domain.JobPatch{
		Title:             req.Title,
		Description:       req.Description,
		Location:          req.Location,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		EstimatedDuration: req.EstimatedDuration,
		AssignedWorkers:   req.AssignedWorkers,
		Progress:          req.Progress,
		Budget:            req.Budget,
		Materials:         req.Materials,
		Notes:             req.Notes,
	}

	if req.Status != nil {
		status, err := domain.ParseJobStatus(*req.Status)
		if err != nil {
			return domain.JobPatch{}, err
		}
		patch.Status = &status
	}
	if req.Priority != nil {
		priority, err := domain.ParsePriority(*req.Priority)
		if err != nil {
			return domain.JobPatch{}, err
		}
		patch.Priority = &priority
	}
	return patch, nil
}

func toNewWorkUpdate(jobID string, req dto.CreateWorkUpdateRequest, userID string) (domain.NewWorkUpdate, error) {
	status, err := domain.ParseUpdateStatus(req.Status)
	if err != nil {
		return domain.NewWorkUpdate{}, err
	}

	input := domain.NewWorkUpdate{
		JobID:       jobID,
		WorkerID:    req.WorkerID,
		WorkerName:  req.WorkerName,
		Description: req.Description,
		Status:      status,
		HoursWorked: req.HoursWorked,
		Source:      domain.Channel(strings.ToLower(req.Source)),
		PhoneNumber: req.PhoneNumber,
	}
	if input.WorkerID == "" {
		input.WorkerID = userID
	}
	for _, p := range req.Photos {
		input.Photos = append(input.Photos, domain.PhotoInput{
			Ref:      p.Ref,
			FileName: p.FileName,
			MimeType: p.MimeType,
			Data:     p.Data,
			Caption:  p.Caption,
		})
	}
	return input, nil
}

func toJobDTO(job domain.Job) dto.JobDTO {
	return dto.JobDTO{
		JobID:             job.ID,
		Title:             job.Title,
		Description:       job.Description,
		Location:          job.Location,
		Status:            string(job.Status),
		Priority:          string(job.Priority),
		StartDate:         job.StartDate,
		EndDate:           job.EndDate,
		EstimatedDuration: job.EstimatedDuration,
		AssignedWorkers:   job.AssignedWorkers,
		CreatedBy:         job.CreatedBy,
		CreatedVia:        string(job.CreatedVia),
		CreatedAt:         job.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         job.UpdatedAt.Format(time.RFC3339),
		Progress:          job.Progress,
		Budget:            job.Budget,
		Materials:         job.Materials,
		Notes:             job.Notes,
		DriveFolderID:     job.DriveFolderID,
	}
}

func toUpdateDTO(u domain.WorkUpdate) dto.WorkUpdateDTO {
	return dto.WorkUpdateDTO{
		UpdateID:    u.ID,
		JobID:       u.JobID,
		WorkerID:    u.WorkerID,
		WorkerName:  u.WorkerName,
		Description: u.Description,
		Status:      string(u.Status),
		Photos:      u.Photos,
		Timestamp:   u.Timestamp.Format(time.RFC3339Nano),
		HoursWorked: u.HoursWorked,
		Source:      string(u.Source),
		PhoneNumber: u.PhoneNumber,
	}
}

func toPhotoDTO(p photostore.Photo) dto.PhotoDTO {
	return dto.PhotoDTO{
		PhotoID:     p.ID,
		Name:        p.Name,
		URL:         p.URL,
		CreatedTime: p.CreatedTime,
		Caption:     p.Metadata.Caption,
		UploadedBy:  p.Metadata.UploadedBy,
		Source:      p.Metadata.Source,
	}
}

package domain

import (
	"slices"
	"time"
)

// DateLayout is the calendar date format used for job start and end dates
const DateLayout = "2006-01-02"

// Job is a unit of construction work tracked from planning to completion
type Job struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Location          string    `json:"location"`
	Status            JobStatus `json:"status"`
	Priority          Priority  `json:"priority"`
	StartDate         string    `json:"startDate"`
	EndDate           string    `json:"endDate"`
	EstimatedDuration int       `json:"estimatedDuration"`
	AssignedWorkers   []string  `json:"assignedWorkers"`
	CreatedBy         string    `json:"createdBy"`
	CreatedVia        Channel   `json:"createdVia,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
	Progress          int       `json:"progress"`
	Budget            *float64  `json:"budget,omitempty"`
	Materials         []string  `json:"materials,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	DriveFolderID     string    `json:"driveFolderId,omitempty"`
}

// Clone returns a deep copy of the job
func (j Job) Clone() Job {
	out := j
	out.AssignedWorkers = slices.Clone(j.AssignedWorkers)
	if out.AssignedWorkers == nil {
		out.AssignedWorkers = []string{}
	}
	out.Materials = slices.Clone(j.Materials)
	if j.Budget != nil {
		b := *j.Budget
		out.Budget = &b
	}
	return out
}

// HasWorker reports whether workerID is assigned to the job
func (j Job) HasWorker(workerID string) bool {
	return slices.Contains(j.AssignedWorkers, workerID)
}

// WorkUpdate is a worker-submitted progress report attached to a job
type WorkUpdate struct {
	ID          string       `json:"id"`
	JobID       string       `json:"jobId"`
	WorkerID    string       `json:"workerId"`
	WorkerName  string       `json:"workerName"`
	Description string       `json:"description"`
	Status      UpdateStatus `json:"status"`
	Photos      []string     `json:"photos"`
	Timestamp   time.Time    `json:"timestamp"`
	HoursWorked *float64     `json:"hoursWorked,omitempty"`
	Source      Channel      `json:"source,omitempty"`
	PhoneNumber string       `json:"phoneNumber,omitempty"`
}

// Clone returns a deep copy of the work update
func (u WorkUpdate) Clone() WorkUpdate {
	out := u
	out.Photos = slices.Clone(u.Photos)
	if out.Photos == nil {
		out.Photos = []string{}
	}
	if u.HoursWorked != nil {
		h := *u.HoursWorked
		out.HoursWorked = &h
	}
	return out
}

// NewJob holds the caller-supplied fields of a job to create
type NewJob struct {
	Title             string
	Description       string
	Location          string
	Status            JobStatus
	Priority          Priority
	StartDate         string
	EndDate           string
	EstimatedDuration int
	AssignedWorkers   []string
	CreatedBy         string
	CreatedVia        Channel
	Progress          int
	Budget            *float64
	Materials         []string
	Notes             string
}

// JobPatch is a partial update. Nil fields are left untouched; a non-nil
// empty slice clears the field.
type JobPatch struct {
	Title             *string
	Description       *string
	Location          *string
	Status            *JobStatus
	Priority          *Priority
	StartDate         *string
	EndDate           *string
	EstimatedDuration *int
	AssignedWorkers   []string
	Progress          *int
	Budget            *float64
	Materials         []string
	Notes             *string
}

// Apply merges the patch into job
func (p JobPatch) Apply(job *Job) {
	if p.Title != nil {
		job.Title = *p.Title
	}
	if p.Description != nil {
		job.Description = *p.Description
	}
	if p.Location != nil {
		job.Location = *p.Location
	}
	if p.Status != nil {
		job.Status = *p.Status
	}
	if p.Priority != nil {
		job.Priority = *p.Priority
	}
	if p.StartDate != nil {
		job.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		job.EndDate = *p.EndDate
	}
	if p.EstimatedDuration != nil {
		job.EstimatedDuration = *p.EstimatedDuration
	}
	if p.AssignedWorkers != nil {
		job.AssignedWorkers = dedupe(p.AssignedWorkers)
	}
	if p.Progress != nil {
		job.Progress = *p.Progress
	}
	if p.Budget != nil {
		b := *p.Budget
		job.Budget = &b
	}
	if p.Materials != nil {
		job.Materials = nonEmpty(p.Materials)
	}
	if p.Notes != nil {
		job.Notes = *p.Notes
	}
}

// PhotoInput is one photo attached to a new work update. Either Ref points
// at an already stored photo, or Data holds bytes still to be uploaded.
type PhotoInput struct {
	Ref      string
	FileName string
	MimeType string
	Data     []byte
	Caption  string
}

// Pending reports whether the photo still has to go through the photo store
func (p PhotoInput) Pending() bool {
	return p.Ref == ""
}

// NewWorkUpdate holds the caller-supplied fields of a work update
type NewWorkUpdate struct {
	JobID       string
	WorkerID    string
	WorkerName  string
	Description string
	Status      UpdateStatus
	Photos      []PhotoInput
	HoursWorked *float64
	Source      Channel
	PhoneNumber string
}

// dedupe keeps the first occurrence of each worker id; assignment is a set
func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

func nonEmpty(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	return slices.Clone(items)
}

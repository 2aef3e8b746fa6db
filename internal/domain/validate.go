package domain

import (
	"fmt"
	"strings"
	"time"
)

// Normalize fills defaults for optional fields
func (n *NewJob) Normalize() {
	n.Title = strings.TrimSpace(n.Title)
	n.Location = strings.TrimSpace(n.Location)
	if n.Status == "" {
		n.Status = JobStatusPlanned
	}
	if n.Priority == "" {
		n.Priority = PriorityMedium
	}
	if n.CreatedVia == "" {
		n.CreatedVia = ChannelWeb
	}
	n.AssignedWorkers = dedupe(n.AssignedWorkers)
	n.Materials = nonEmpty(n.Materials)
}

// Validate checks the required fields and enumerations of a new job
func (n *NewJob) Validate() error {
	if n.Title == "" {
		return NewValidationError("title", "is required")
	}
	if n.Location == "" {
		return NewValidationError("location", "is required")
	}
	if n.CreatedBy == "" {
		return NewValidationError("createdBy", "is required")
	}
	if !n.Status.Valid() {
		return NewValidationError("status", fmt.Sprintf("unknown value %q", n.Status))
	}
	if !n.Priority.Valid() {
		return NewValidationError("priority", fmt.Sprintf("unknown value %q", n.Priority))
	}
	if !n.CreatedVia.Valid() {
		return NewValidationError("createdVia", fmt.Sprintf("unknown value %q", n.CreatedVia))
	}
	if n.EstimatedDuration <= 0 {
		return NewValidationError("estimatedDuration", "must be a positive number of days")
	}
	if err := validateDate("startDate", n.StartDate); err != nil {
		return err
	}
	if err := validateDate("endDate", n.EndDate); err != nil {
		return err
	}
	if err := validateProgress(n.Progress); err != nil {
		return err
	}
	return validateBudget(n.Budget)
}

// Validate checks the fields present in the patch
func (p JobPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return NewValidationError("title", "must not be empty")
	}
	if p.Location != nil && strings.TrimSpace(*p.Location) == "" {
		return NewValidationError("location", "must not be empty")
	}
	if p.Status != nil && !p.Status.Valid() {
		return NewValidationError("status", fmt.Sprintf("unknown value %q", *p.Status))
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return NewValidationError("priority", fmt.Sprintf("unknown value %q", *p.Priority))
	}
	if p.EstimatedDuration != nil && *p.EstimatedDuration <= 0 {
		return NewValidationError("estimatedDuration", "must be a positive number of days")
	}
	if p.StartDate != nil {
		if err := validateDate("startDate", *p.StartDate); err != nil {
			return err
		}
	}
	if p.EndDate != nil {
		if err := validateDate("endDate", *p.EndDate); err != nil {
			return err
		}
	}
	if p.Progress != nil {
		if err := validateProgress(*p.Progress); err != nil {
			return err
		}
	}
	return validateBudget(p.Budget)
}

// Empty reports whether the patch changes nothing
func (p JobPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Location == nil &&
		p.Status == nil && p.Priority == nil && p.StartDate == nil && p.EndDate == nil &&
		p.EstimatedDuration == nil && p.AssignedWorkers == nil && p.Progress == nil &&
		p.Budget == nil && p.Materials == nil && p.Notes == nil
}

// Normalize fills defaults for optional fields
func (u *NewWorkUpdate) Normalize() {
	u.JobID = strings.TrimSpace(u.JobID)
	u.WorkerID = strings.TrimSpace(u.WorkerID)
	if u.Source == "" {
		u.Source = ChannelWeb
	}
	if u.WorkerName == "" {
		u.WorkerName = u.WorkerID
	}
}

// Validate checks the required fields of a work update
func (u *NewWorkUpdate) Validate() error {
	if u.JobID == "" {
		return NewValidationError("jobId", "is required")
	}
	if u.WorkerID == "" {
		return NewValidationError("workerId", "is required")
	}
	if strings.TrimSpace(u.Description) == "" {
		return NewValidationError("description", "is required")
	}
	if !u.Status.Valid() {
		return NewValidationError("status", fmt.Sprintf("unknown value %q", u.Status))
	}
	if u.HoursWorked != nil && *u.HoursWorked < 0 {
		return NewValidationError("hoursWorked", "must not be negative")
	}
	switch u.Source {
	case ChannelWhatsApp:
		if u.PhoneNumber == "" {
			return NewValidationError("phoneNumber", "is required for whatsapp updates")
		}
	case ChannelWeb:
		if u.PhoneNumber != "" {
			return NewValidationError("phoneNumber", "is only allowed for whatsapp updates")
		}
	default:
		return NewValidationError("source", fmt.Sprintf("unknown value %q", u.Source))
	}
	for i, p := range u.Photos {
		if p.Pending() && len(p.Data) == 0 {
			return NewValidationError(fmt.Sprintf("photos[%d]", i), "needs a reference or data")
		}
	}
	return nil
}

// ValidateJob checks a stored job record, e.g. from an import file
func ValidateJob(j Job) error {
	if j.ID == "" {
		return NewValidationError("id", "is required")
	}
	if !j.Status.Valid() {
		return NewValidationError("status", fmt.Sprintf("job %s: unknown value %q", j.ID, j.Status))
	}
	if !j.Priority.Valid() {
		return NewValidationError("priority", fmt.Sprintf("job %s: unknown value %q", j.ID, j.Priority))
	}
	if j.CreatedVia != "" && !j.CreatedVia.Valid() {
		return NewValidationError("createdVia", fmt.Sprintf("job %s: unknown value %q", j.ID, j.CreatedVia))
	}
	if j.EstimatedDuration < 0 {
		return NewValidationError("estimatedDuration", fmt.Sprintf("job %s: must not be negative", j.ID))
	}
	return validateProgress(j.Progress)
}

// ValidateWorkUpdate checks a stored work update record
func ValidateWorkUpdate(u WorkUpdate) error {
	if u.ID == "" {
		return NewValidationError("id", "is required")
	}
	if u.JobID == "" {
		return NewValidationError("jobId", fmt.Sprintf("update %s: is required", u.ID))
	}
	if !u.Status.Valid() {
		return NewValidationError("status", fmt.Sprintf("update %s: unknown value %q", u.ID, u.Status))
	}
	if u.Source != "" && u.Source != ChannelWeb && u.Source != ChannelWhatsApp {
		return NewValidationError("source", fmt.Sprintf("update %s: unknown value %q", u.ID, u.Source))
	}
	if u.HoursWorked != nil && *u.HoursWorked < 0 {
		return NewValidationError("hoursWorked", fmt.Sprintf("update %s: must not be negative", u.ID))
	}
	return nil
}

func validateDate(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, value); err != nil {
		return NewValidationError(field, "must be a YYYY-MM-DD date")
	}
	return nil
}

func validateProgress(p int) error {
	if p < 0 || p > 100 {
		return NewValidationError("progress", "must be between 0 and 100")
	}
	return nil
}

func validateBudget(b *float64) error {
	if b != nil && *b < 0 {
		return NewValidationError("budget", "must not be negative")
	}
	return nil
}

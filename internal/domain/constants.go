package domain

import "strings"

// Role identifies the requester of a mutation
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleCoordinator Role = "coordinator"
	RoleScheduler   Role = "scheduler"
	RoleWorker      Role = "worker"
)

// ParseRole normalizes a role string. Unknown roles are kept as-is so the
// policy can reject them.
func ParseRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCoordinator, RoleScheduler, RoleWorker:
		return true
	default:
		return false
	}
}

// JobStatus is the lifecycle state of a job
type JobStatus string

// Job status constants
const (
	JobStatusPlanned    JobStatus = "planned"
	JobStatusInProgress JobStatus = "in-progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusOnHold     JobStatus = "on-hold"
)

// jobStatusClosed is accepted on input as the administrative close of a job
const jobStatusClosed = "closed"

// ParseJobStatus converts user input into a JobStatus. "closed" is the
// administrative finalization and maps to completed.
func ParseJobStatus(s string) (JobStatus, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == jobStatusClosed {
		return JobStatusCompleted, nil
	}
	status := JobStatus(v)
	if !status.Valid() {
		return "", NewValidationError("status", "must be one of planned, in-progress, completed, on-hold")
	}
	return status, nil
}

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPlanned, JobStatusInProgress, JobStatusCompleted, JobStatusOnHold:
		return true
	default:
		return false
	}
}

// Final reports whether the status is the terminal, close-gated state
func (s JobStatus) Final() bool {
	return s == JobStatusCompleted
}

// Priority ranks jobs for scheduling
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", NewValidationError("priority", "must be one of low, medium, high, urgent")
	}
	return p, nil
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// UpdateStatus is the status a worker reports in a work update. It is not a
// job status.
type UpdateStatus string

const (
	UpdateStatusInProgress UpdateStatus = "in-progress"
	UpdateStatusCompleted  UpdateStatus = "completed"
	UpdateStatusBlocked    UpdateStatus = "blocked"
	UpdateStatusDelayed    UpdateStatus = "delayed"
)

func ParseUpdateStatus(s string) (UpdateStatus, error) {
	st := UpdateStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", NewValidationError("status", "must be one of in-progress, completed, blocked, delayed")
	}
	return st, nil
}

func (s UpdateStatus) Valid() bool {
	switch s {
	case UpdateStatusInProgress, UpdateStatusCompleted, UpdateStatusBlocked, UpdateStatusDelayed:
		return true
	default:
		return false
	}
}

// Channel tags where a record came from
type Channel string

const (
	ChannelWeb      Channel = "web"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelAPI      Channel = "api"
)

func (c Channel) Valid() bool {
	switch c {
	case ChannelWeb, ChannelWhatsApp, ChannelAPI:
		return true
	default:
		return false
	}
}

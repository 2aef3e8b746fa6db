// Package policy answers which roles may perform which job mutations.
// Unknown roles are denied everything.
package policy

import "github.com/cuongbtq/sitejobs/internal/domain"

// Action names a gated mutation
type Action string

const (
	ActionCreateJob     Action = "create jobs"
	ActionCloseJob      Action = "close jobs"
	ActionAssignWorkers Action = "assign workers"
	// ActionImportData replaces every job and work update. Imported jobs may
	// already be closed or staffed, so it needs the close permission.
	ActionImportData Action = "import data"
)

// CanCreateJob reports whether role may create jobs
func CanCreateJob(role domain.Role) bool {
	switch role {
	case domain.RoleCoordinator, domain.RoleScheduler:
		return true
	case domain.RoleAdmin, domain.RoleWorker:
		return false
	default:
		return false
	}
}

// CanCloseJob reports whether role may move a job into its terminal state
func CanCloseJob(role domain.Role) bool {
	switch role {
	case domain.RoleAdmin:
		return true
	case domain.RoleCoordinator, domain.RoleScheduler, domain.RoleWorker:
		return false
	default:
		return false
	}
}

// CanAssignWorkers reports whether role may change a job's assigned workers
func CanAssignWorkers(role domain.Role) bool {
	switch role {
	case domain.RoleScheduler, domain.RoleAdmin:
		return true
	case domain.RoleCoordinator, domain.RoleWorker:
		return false
	default:
		return false
	}
}

// Allowed evaluates action for role
func Allowed(role domain.Role, action Action) bool {
	switch action {
	case ActionCreateJob:
		return CanCreateJob(role)
	case ActionCloseJob, ActionImportData:
		return CanCloseJob(role)
	case ActionAssignWorkers:
		return CanAssignWorkers(role)
	default:
		return false
	}
}

// Check returns an AuthorizationError when role may not perform action
func Check(role domain.Role, action Action) error {
	if Allowed(role, action) {
		return nil
	}
	return domain.NewAuthorizationError(role, string(action))
}

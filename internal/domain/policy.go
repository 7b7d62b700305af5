package domain

// workingStatuses are the statuses any authenticated user may move a task
// into. Released and incomplete are reserved for admins.
var workingStatuses = []Status{StatusToDo, StatusReview, StatusDone}

// AllowedStatuses returns the set of statuses a role may move a task into.
// Admins may target any status; regular users only the working statuses.
func AllowedStatuses(role Role) []Status {
	if role == RoleAdmin {
		statuses := make([]Status, len(AllStatuses))
		copy(statuses, AllStatuses)
		return statuses
	}
	statuses := make([]Status, len(workingStatuses))
	copy(statuses, workingStatuses)
	return statuses
}

// CanTransitionTo reports whether the role may move a task into the given
// status. The status must be both a member of the fixed status set and in
// the role's allowed set. There is deliberately no ordering constraint
// between statuses: any allowed status may move to any other allowed status.
func CanTransitionTo(role Role, status Status) bool {
	if !status.IsValid() {
		return false
	}
	for _, allowed := range AllowedStatuses(role) {
		if status == allowed {
			return true
		}
	}
	return false
}

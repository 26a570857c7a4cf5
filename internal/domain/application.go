package domain

// ApplicationStatus is the lifecycle state of a donation application.
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationCompleted ApplicationStatus = "completed"
	ApplicationCancelled ApplicationStatus = "cancelled"
	ApplicationRejected  ApplicationStatus = "rejected"
)

// CanTransition reports whether an application may move from one status
// to another. Only pending applications are mutable; every terminal
// status is final.
func CanTransition(from, to ApplicationStatus) bool {
	if from != ApplicationPending {
		return false
	}
	switch to {
	case ApplicationCompleted, ApplicationCancelled, ApplicationRejected:
		return true
	}
	return false
}

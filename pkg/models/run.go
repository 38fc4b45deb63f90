package models

// RunResult is the outcome of one monitoring run.
type RunResult string

const (
	RunSessionFailed      RunResult = "session-failed"
	RunLoginFailed        RunResult = "login-failed"
	RunActionFailed       RunResult = "action-failed"
	RunMarkerNotFound     RunResult = "marker-not-found"
	RunNotified           RunResult = "notified"
	RunNotificationFailed RunResult = "notification-failed"
	RunCancelled          RunResult = "cancelled"
	RunCrashed            RunResult = "crashed"
)

// Completed returns true if the run got as far as checking the page for the
// marker.
func (r RunResult) Completed() bool {
	switch r {
	case RunMarkerNotFound, RunNotified, RunNotificationFailed:
		return true
	default:
		return false
	}
}

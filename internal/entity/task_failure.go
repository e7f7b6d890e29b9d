package entity

// TaskFailure records a notification task which will never be retried again.
type TaskFailure struct {
	Base
	TaskID   string `gorm:"index"`
	Kind     string
	Payload  string
	Attempts int
	Reason   string

	// Exhausted is false when the task failed terminally before running out
	// of attempts.
	Exhausted bool
}

package task

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	EnrollmentCreated   Kind = "enrollment_created"
	MaterialCreated     Kind = "material_created"
	ActivityCreated     Kind = "activity_created"
	LobbyMessageCreated Kind = "lobby_message_created"
)

type EnrollmentCreatedArgs struct {
	EnrollmentID string `json:"enrollment_id"`
}

type MaterialCreatedArgs struct {
	StudentID  string `json:"student_id"`
	ActivityID string `json:"activity_id"`
	CourseID   string `json:"course_id"`
	Title      string `json:"title"`
}

type ActivityCreatedArgs struct {
	StudentID string `json:"student_id"`
	CourseID  string `json:"course_id"`
	Title     string `json:"title"`
}

type LobbyMessageCreatedArgs struct {
	MessageID int64 `json:"message_id"`
}

type Task struct {
	ID      string          `json:"id"`
	Kind    Kind            `json:"kind"`
	Args    json.RawMessage `json:"args"`
	Attempt int             `json:"attempt"`

	// NotBefore is the earliest time the task may run. Zero means now.
	NotBefore time.Time `json:"not_before"`
}

func New(kind Kind, args any) (*Task, error) {
	b, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}

	return &Task{ID: uuid.NewString(), Kind: kind, Args: b}, nil
}

func (t *Task) Bind(args any) error {
	return json.Unmarshal(t.Args, args)
}

type Handler interface {
	Handle(ctx context.Context, t *Task) error
}

type Queue interface {
	// Enqueue schedules a task of kind to run as soon as possible. The task
	// runs at least once.
	Enqueue(ctx context.Context, kind Kind, args any) error
}

type requeuer interface {
	requeue(ctx context.Context, t *Task) error
}

package task

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/questx-lab/classroom/internal/entity"
	"github.com/questx-lab/classroom/internal/repository"
	"github.com/questx-lab/classroom/pkg/errorx"
	"github.com/questx-lab/classroom/pkg/xcontext"
)

// Worker runs tasks with the handler. A task failing with errorx.NotFound or
// errorx.BadRequest is terminal. Other failures are retried with exponential
// backoff until the attempt limit is reached.
type Worker struct {
	handler         Handler
	taskFailureRepo repository.TaskFailureRepository
}

func NewWorker(handler Handler, taskFailureRepo repository.TaskFailureRepository) *Worker {
	return &Worker{handler: handler, taskFailureRepo: taskFailureRepo}
}

// Process runs the task once. It returns the task to retry, or nil if the
// task is done.
func (w *Worker) Process(ctx context.Context, t *Task) *Task {
	err := w.handler.Handle(ctx, t)
	if err == nil {
		return nil
	}

	cfg := xcontext.Configs(ctx).Task
	if isTerminal(err) {
		xcontext.Logger(ctx).Warnf("Task %s (%s) failed terminally: %v", t.ID, t.Kind, err)
		w.recordFailure(ctx, t, err, false)
		return nil
	}

	if t.Attempt+1 >= cfg.MaxAttempts {
		xcontext.Logger(ctx).Errorf("Task %s (%s) exhausted %d attempts: %v", t.ID, t.Kind, t.Attempt+1, err)
		w.recordFailure(ctx, t, errorx.New(errorx.TaskExhausted, "%v", err), true)
		return nil
	}

	delay := Backoff(t.Attempt, cfg.MinBackoff, cfg.MaxBackoff)
	xcontext.Logger(ctx).Warnf("Task %s (%s) failed, retry in %s: %v", t.ID, t.Kind, delay, err)

	return &Task{
		ID:        t.ID,
		Kind:      t.Kind,
		Args:      t.Args,
		Attempt:   t.Attempt + 1,
		NotBefore: time.Now().Add(delay),
	}
}

func (w *Worker) recordFailure(ctx context.Context, t *Task, reason error, exhausted bool) {
	err := w.taskFailureRepo.Create(ctx, &entity.TaskFailure{
		Base:      entity.Base{ID: uuid.NewString()},
		TaskID:    t.ID,
		Kind:      string(t.Kind),
		Payload:   string(t.Args),
		Attempts:  t.Attempt + 1,
		Reason:    reason.Error(),
		Exhausted: exhausted,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record failure of task %s: %v", t.ID, err)
	}
}

// Backoff returns min*2^attempt, capped at max.
func Backoff(attempt int, min, max time.Duration) time.Duration {
	d := min
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= max {
			return max
		}
	}

	if d > max {
		return max
	}

	return d
}

// isTerminal reports whether retrying cannot change the outcome of a task.
func isTerminal(err error) bool {
	return errorx.Is(err, errorx.NotFound) || errorx.Is(err, errorx.BadRequest)
}

package task

import (
	"context"
	"sync"
	"time"

	"github.com/questx-lab/classroom/pkg/xcontext"
)

type memoryQueue struct {
	c chan *Task

	// pending counts tasks which are queued, running or waiting for a retry.
	pending sync.WaitGroup
}

func NewMemoryQueue(size int) *memoryQueue {
	return &memoryQueue{c: make(chan *Task, size)}
}

func (q *memoryQueue) Enqueue(ctx context.Context, kind Kind, args any) error {
	t, err := New(kind, args)
	if err != nil {
		return err
	}

	return q.requeue(ctx, t)
}

func (q *memoryQueue) requeue(ctx context.Context, t *Task) error {
	q.pending.Add(1)
	select {
	case q.c <- t:
		return nil
	case <-ctx.Done():
		q.pending.Done()
		return ctx.Err()
	}
}

// Run feeds queued tasks to the worker until ctx is done.
func (q *memoryQueue) Run(ctx context.Context, w *Worker) {
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-q.c:
			q.process(ctx, w, t)
		}
	}
}

func (q *memoryQueue) process(ctx context.Context, w *Worker, t *Task) {
	defer q.pending.Done()

	retry := w.Process(ctx, t)
	if retry == nil {
		return
	}

	q.pending.Add(1)
	time.AfterFunc(time.Until(retry.NotBefore), func() {
		defer q.pending.Done()
		if err := q.requeue(ctx, retry); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot requeue task %s: %v", retry.ID, err)
		}
	})
}

// Wait blocks until every enqueued task is done, including its retries.
func (q *memoryQueue) Wait() {
	q.pending.Wait()
}

package task

import (
	"context"
	"encoding/json"
	"time"

	"github.com/questx-lab/classroom/pkg/pubsub"
	"github.com/questx-lab/classroom/pkg/xcontext"
)

type kafkaQueue struct {
	publisher  pubsub.Publisher
	topic      string
	retryTopic string
	worker     *Worker
}

// NewKafkaQueue returns a queue publishing new tasks to topic and retries to
// retryTopic. Its HandlePack is the subscribe handler of both topics.
func NewKafkaQueue(publisher pubsub.Publisher, topic, retryTopic string, worker *Worker) *kafkaQueue {
	return &kafkaQueue{publisher: publisher, topic: topic, retryTopic: retryTopic, worker: worker}
}

func (q *kafkaQueue) Enqueue(ctx context.Context, kind Kind, args any) error {
	t, err := New(kind, args)
	if err != nil {
		return err
	}

	return q.publish(ctx, q.topic, t)
}

func (q *kafkaQueue) requeue(ctx context.Context, t *Task) error {
	return q.publish(ctx, q.retryTopic, t)
}

func (q *kafkaQueue) publish(ctx context.Context, topic string, t *Task) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}

	return q.publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(t.ID), Msg: b})
}

// HandlePack runs the task in pack. A task which is not due yet is held until
// its time. Only retries carry a due time and they live on the retry topic, so
// the wait never holds back a new task.
func (q *kafkaQueue) HandlePack(ctx context.Context, pack *pubsub.Pack, _ time.Time) {
	var t Task
	if err := json.Unmarshal(pack.Msg, &t); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unmarshal task: %v", err)
		return
	}

	if wait := time.Until(t.NotBefore); wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}

	retry := q.worker.Process(ctx, &t)
	if retry == nil {
		return
	}

	if err := q.requeue(ctx, retry); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot republish task %s: %v", retry.ID, err)
	}
}

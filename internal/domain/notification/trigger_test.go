package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/questx-lab/classroom/internal/domain/notification/task"
	"github.com/questx-lab/classroom/internal/repository"
	"github.com/questx-lab/classroom/pkg/testutil"
	"github.com/stretchr/testify/require"
)

type enqueued struct {
	kind task.Kind
	args json.RawMessage
}

type recordQueue struct {
	tasks []enqueued
	err   error
}

func (q *recordQueue) Enqueue(_ context.Context, kind task.Kind, args any) error {
	if q.err != nil {
		return q.err
	}

	b, err := json.Marshal(args)
	if err != nil {
		return err
	}

	q.tasks = append(q.tasks, enqueued{kind: kind, args: b})
	return nil
}

func TestTrigger(t *testing.T) {
	ctx := testutil.MockContext()
	queue := &recordQueue{}
	trigger := NewTrigger(queue)

	require.NoError(t, trigger.OnEnrollmentCreated(ctx, "enrollment1"))
	require.NoError(t, trigger.OnMaterialCreated(ctx, "student1", "activity1", "course1", "Slides"))
	require.NoError(t, trigger.OnActivityCreated(ctx, "student1", "course1", "Midterm"))

	require.Len(t, queue.tasks, 3)
	require.Equal(t, task.EnrollmentCreated, queue.tasks[0].kind)
	require.JSONEq(t, `{"enrollment_id":"enrollment1"}`, string(queue.tasks[0].args))
	require.Equal(t, task.MaterialCreated, queue.tasks[1].kind)
	require.JSONEq(t,
		`{"student_id":"student1","activity_id":"activity1","course_id":"course1","title":"Slides"}`,
		string(queue.tasks[1].args))
	require.Equal(t, task.ActivityCreated, queue.tasks[2].kind)
	require.JSONEq(t,
		`{"student_id":"student1","course_id":"course1","title":"Midterm"}`,
		string(queue.tasks[2].args))
}

func TestTrigger_EnqueueError(t *testing.T) {
	ctx := testutil.MockContext()
	queue := &recordQueue{err: errors.New("broker down")}

	err := NewTrigger(queue).OnEnrollmentCreated(ctx, "enrollment1")
	require.EqualError(t, err, "broker down")
}

func TestCourseEventSource(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	queue := &recordQueue{}
	source := NewCourseEventSource(NewTrigger(queue), repository.NewEnrollmentRepository())

	require.NoError(t, source.ActivityCreated(ctx, testutil.Activity1))
	require.NoError(t, source.MaterialCreated(ctx, testutil.Activity1, "Slides"))

	// Student3 is blocked from the course and gets nothing.
	require.Len(t, queue.tasks, 4)
	students := []string{}
	for _, q := range queue.tasks {
		var args struct {
			StudentID string `json:"student_id"`
		}
		require.NoError(t, json.Unmarshal(q.args, &args))
		students = append(students, args.StudentID)
	}

	require.Equal(t, []task.Kind{
		task.ActivityCreated, task.ActivityCreated, task.MaterialCreated, task.MaterialCreated,
	}, []task.Kind{queue.tasks[0].kind, queue.tasks[1].kind, queue.tasks[2].kind, queue.tasks[3].kind})
	require.ElementsMatch(t, []string{"student1", "student2", "student1", "student2"}, students)
}

// Package notification is the entry point of producers: the CRUD layer calls
// the trigger hooks after its transaction commits.
package notification

import (
	"context"

	"github.com/questx-lab/classroom/internal/domain/notification/task"
	"github.com/questx-lab/classroom/internal/entity"
	"github.com/questx-lab/classroom/internal/repository"
	"github.com/questx-lab/classroom/pkg/xcontext"
)

type Trigger struct {
	queue task.Queue
}

func NewTrigger(queue task.Queue) *Trigger {
	return &Trigger{queue: queue}
}

func (t *Trigger) OnEnrollmentCreated(ctx context.Context, enrollmentID string) error {
	return t.enqueue(ctx, task.EnrollmentCreated, task.EnrollmentCreatedArgs{EnrollmentID: enrollmentID})
}

func (t *Trigger) OnMaterialCreated(ctx context.Context, studentID, activityID, courseID, title string) error {
	return t.enqueue(ctx, task.MaterialCreated, task.MaterialCreatedArgs{
		StudentID:  studentID,
		ActivityID: activityID,
		CourseID:   courseID,
		Title:      title,
	})
}

func (t *Trigger) OnActivityCreated(ctx context.Context, studentID, courseID, title string) error {
	return t.enqueue(ctx, task.ActivityCreated, task.ActivityCreatedArgs{
		StudentID: studentID,
		CourseID:  courseID,
		Title:     title,
	})
}

func (t *Trigger) enqueue(ctx context.Context, kind task.Kind, args any) error {
	if err := t.queue.Enqueue(ctx, kind, args); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot enqueue task %s: %v", kind, err)
		return err
	}

	return nil
}

// CourseEventSource turns a created material or activity into one trigger
// call per student enrolled in the course.
type CourseEventSource struct {
	trigger        *Trigger
	enrollmentRepo repository.EnrollmentRepository
}

func NewCourseEventSource(trigger *Trigger, enrollmentRepo repository.EnrollmentRepository) *CourseEventSource {
	return &CourseEventSource{trigger: trigger, enrollmentRepo: enrollmentRepo}
}

func (s *CourseEventSource) MaterialCreated(
	ctx context.Context, activity *entity.CourseActivity, title string,
) error {
	studentIDs, err := s.enrollmentRepo.GetStudentIDsByCourseID(ctx, activity.CourseID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get students of course %s: %v", activity.CourseID, err)
		return err
	}

	for _, studentID := range studentIDs {
		if err := s.trigger.OnMaterialCreated(ctx, studentID, activity.ID, activity.CourseID, title); err != nil {
			return err
		}
	}

	return nil
}

func (s *CourseEventSource) ActivityCreated(ctx context.Context, activity *entity.CourseActivity) error {
	studentIDs, err := s.enrollmentRepo.GetStudentIDsByCourseID(ctx, activity.CourseID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get students of course %s: %v", activity.CourseID, err)
		return err
	}

	for _, studentID := range studentIDs {
		if err := s.trigger.OnActivityCreated(ctx, studentID, activity.CourseID, activity.Title); err != nil {
			return err
		}
	}

	return nil
}

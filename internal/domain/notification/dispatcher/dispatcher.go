package dispatcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/questx-lab/classroom/internal/domain/notification/event"
	"github.com/questx-lab/classroom/internal/domain/notification/group"
	"github.com/questx-lab/classroom/internal/domain/notification/registry"
	"github.com/questx-lab/classroom/internal/domain/notification/task"
	"github.com/questx-lab/classroom/internal/entity"
	"github.com/questx-lab/classroom/internal/repository"
	"github.com/questx-lab/classroom/pkg/errorx"
	"github.com/questx-lab/classroom/pkg/xcontext"
	"github.com/questx-lab/classroom/pkg/xvalidator"
	"gorm.io/gorm"
)

const (
	newEnrollmentTitle = "New Enrollment"
	newMaterialTitle   = "New Material"
	newActivityTitle   = "New Activity"

	newLobbyMessage = "New message in the public lobby"

	maxMessageLength = 1000
)

// Dispatcher turns committed domain events into notifications and group
// sends. It is the task handler of the notification worker.
type Dispatcher struct {
	registry           registry.Registry
	userRepo           repository.UserRepository
	courseRepo         repository.CourseRepository
	courseActivityRepo repository.CourseActivityRepository
	enrollmentRepo     repository.EnrollmentRepository
	notificationRepo   repository.NotificationRepository
	lobbyMessageRepo   repository.LobbyMessageRepository
}

func NewDispatcher(
	registry registry.Registry,
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
	courseActivityRepo repository.CourseActivityRepository,
	enrollmentRepo repository.EnrollmentRepository,
	notificationRepo repository.NotificationRepository,
	lobbyMessageRepo repository.LobbyMessageRepository,
) *Dispatcher {
	return &Dispatcher{
		registry:           registry,
		userRepo:           userRepo,
		courseRepo:         courseRepo,
		courseActivityRepo: courseActivityRepo,
		enrollmentRepo:     enrollmentRepo,
		notificationRepo:   notificationRepo,
		lobbyMessageRepo:   lobbyMessageRepo,
	}
}

func (d *Dispatcher) Handle(ctx context.Context, t *task.Task) error {
	switch t.Kind {
	case task.EnrollmentCreated:
		var args task.EnrollmentCreatedArgs
		if err := t.Bind(&args); err != nil {
			return errorx.New(errorx.BadRequest, "Invalid arguments: %v", err)
		}
		return d.EnrollmentCreated(ctx, args)

	case task.MaterialCreated:
		var args task.MaterialCreatedArgs
		if err := t.Bind(&args); err != nil {
			return errorx.New(errorx.BadRequest, "Invalid arguments: %v", err)
		}
		return d.MaterialCreated(ctx, args)

	case task.ActivityCreated:
		var args task.ActivityCreatedArgs
		if err := t.Bind(&args); err != nil {
			return errorx.New(errorx.BadRequest, "Invalid arguments: %v", err)
		}
		return d.ActivityCreated(ctx, args)

	case task.LobbyMessageCreated:
		var args task.LobbyMessageCreatedArgs
		if err := t.Bind(&args); err != nil {
			return errorx.New(errorx.BadRequest, "Invalid arguments: %v", err)
		}
		return d.LobbyMessageCreated(ctx, args)
	}

	return errorx.New(errorx.BadRequest, "Unknown task kind %s", t.Kind)
}

func (d *Dispatcher) EnrollmentCreated(ctx context.Context, args task.EnrollmentCreatedArgs) error {
	enrollment, err := d.enrollmentRepo.GetByID(ctx, args.EnrollmentID)
	if err != nil {
		return notFoundOr(ctx, err, "enrollment", args.EnrollmentID)
	}

	// The preloaded course is empty when it was deleted after the enrollment.
	if enrollment.Course.ID == "" {
		return notFoundOr(ctx, gorm.ErrRecordNotFound, "course", enrollment.CourseID)
	}

	student, err := d.userRepo.GetByID(ctx, enrollment.StudentID)
	if err != nil {
		return notFoundOr(ctx, err, "student", enrollment.StudentID)
	}

	teacherID := enrollment.Course.TeacherID
	notification, err := d.createNotification(
		ctx,
		teacherID,
		newEnrollmentTitle,
		fmt.Sprintf("New enrollment for course %s - %s", enrollment.Course.Title, student.Username),
	)
	if err != nil {
		return err
	}

	err = d.registry.Send(ctx, group.EnrollmentTeacher(teacherID), event.New(
		&event.NewNotificationEvent{Message: notification.Message, Title: notification.Title},
		event.Metadata{To: group.EnrollmentTeacher(teacherID)},
	))
	if err != nil {
		return err
	}

	return d.registry.Send(ctx, group.User(student.ID), event.New(
		&event.DynamicSubscriptionEvent{
			MaterialGroup: group.Material(enrollment.CourseID),
			ActivityGroup: group.Activity(enrollment.CourseID),
		},
		event.Metadata{To: group.User(student.ID)},
	))
}

func (d *Dispatcher) MaterialCreated(ctx context.Context, args task.MaterialCreatedArgs) error {
	student, err := d.userRepo.GetByID(ctx, args.StudentID)
	if err != nil {
		return notFoundOr(ctx, err, "student", args.StudentID)
	}

	activity, err := d.courseActivityRepo.GetByID(ctx, args.ActivityID)
	if err != nil {
		return notFoundOr(ctx, err, "course activity", args.ActivityID)
	}

	course, err := d.courseRepo.GetByID(ctx, args.CourseID)
	if err != nil {
		return notFoundOr(ctx, err, "course", args.CourseID)
	}

	notification, err := d.createNotification(
		ctx,
		student.ID,
		newMaterialTitle,
		fmt.Sprintf("New material %s added to following course -> activity: %s -> %s",
			args.Title, course.Title, activity.Title),
	)
	if err != nil {
		return err
	}

	return d.sendToStudent(ctx, group.Material(course.ID), student.ID, notification)
}

func (d *Dispatcher) ActivityCreated(ctx context.Context, args task.ActivityCreatedArgs) error {
	student, err := d.userRepo.GetByID(ctx, args.StudentID)
	if err != nil {
		return notFoundOr(ctx, err, "student", args.StudentID)
	}

	course, err := d.courseRepo.GetByID(ctx, args.CourseID)
	if err != nil {
		return notFoundOr(ctx, err, "course", args.CourseID)
	}

	notification, err := d.createNotification(
		ctx,
		student.ID,
		newActivityTitle,
		fmt.Sprintf("New activity %s added to following course -> %s", args.Title, course.Title),
	)
	if err != nil {
		return err
	}

	return d.sendToStudent(ctx, group.Activity(course.ID), student.ID, notification)
}

func (d *Dispatcher) LobbyMessageCreated(ctx context.Context, args task.LobbyMessageCreatedArgs) error {
	if _, err := d.lobbyMessageRepo.GetByID(ctx, args.MessageID); err != nil {
		return notFoundOr(ctx, err, "lobby message", fmt.Sprint(args.MessageID))
	}

	return d.registry.Send(ctx, group.ChatNotifications, event.New(
		&event.ChatNotificationEvent{Message: newLobbyMessage},
		event.Metadata{To: group.ChatNotifications},
	))
}

// sendToStudent sends the notification to a course group, addressed to the
// sessions of the student only.
func (d *Dispatcher) sendToStudent(
	ctx context.Context, groupName, studentID string, notification *entity.Notification,
) error {
	return d.registry.Send(ctx, groupName, event.New(
		&event.NewNotificationEvent{Message: notification.Message, Title: notification.Title},
		event.Metadata{To: groupName, ToUser: studentID},
	))
}

func (d *Dispatcher) createNotification(
	ctx context.Context, recipientID, title, message string,
) (*entity.Notification, error) {
	notification := &entity.Notification{
		Base:        entity.Base{ID: uuid.NewString()},
		RecipientID: recipientID,
		Title:       title,
		Message:     truncate(message, maxMessageLength),
	}

	if err := xvalidator.Struct(notification); err != nil {
		return nil, err
	}

	if err := d.notificationRepo.Create(ctx, notification); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create notification: %v", err)
		return nil, err
	}

	return notification, nil
}

// notFoundOr converts a missing record to errorx.NotFound and keeps other
// errors as they are.
func notFoundOr(ctx context.Context, err error, name, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Warnf("Not found %s %s, it may be deleted", name, id)
		return errorx.New(errorx.NotFound, "Not found %s", name)
	}

	xcontext.Logger(ctx).Errorf("Cannot get %s %s: %v", name, id, err)
	return err
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n])
}

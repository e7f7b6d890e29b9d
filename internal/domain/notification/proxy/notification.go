package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/questx-lab/classroom/internal/domain/notification/directive"
	"github.com/questx-lab/classroom/internal/domain/notification/event"
	"github.com/questx-lab/classroom/internal/domain/notification/group"
	"github.com/questx-lab/classroom/internal/domain/notification/registry"
	"github.com/questx-lab/classroom/internal/entity"
	"github.com/questx-lab/classroom/internal/model"
	"github.com/questx-lab/classroom/internal/repository"
	"github.com/questx-lab/classroom/pkg/errorx"
	"github.com/questx-lab/classroom/pkg/ws"
	"github.com/questx-lab/classroom/pkg/xcontext"
	"gorm.io/gorm"
)

type NotificationProxy struct {
	registry       registry.Registry
	userRepo       repository.UserRepository
	enrollmentRepo repository.EnrollmentRepository
}

func NewNotificationProxy(
	registry registry.Registry,
	userRepo repository.UserRepository,
	enrollmentRepo repository.EnrollmentRepository,
) *NotificationProxy {
	return &NotificationProxy{
		registry:       registry,
		userRepo:       userRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// Groups returns the groups a user joins when connecting: the personal group,
// the enrollment group of teachers, the material and activity groups of every
// active enrollment, and the chat notification group.
func (p *NotificationProxy) Groups(ctx context.Context, user *entity.User) ([]string, error) {
	groups := []string{group.User(user.ID)}
	if user.IsTeacher {
		groups = append(groups, group.EnrollmentTeacher(user.ID))
	}

	enrollments, err := p.enrollmentRepo.GetActiveByStudentID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	for _, e := range enrollments {
		groups = append(groups, group.Material(e.CourseID), group.Activity(e.CourseID))
	}

	return append(groups, group.ChatNotifications), nil
}

func (p *NotificationProxy) ServeNotification(ctx context.Context, _ *model.ServeNotificationRequest) error {
	user, err := requestUser(ctx, p.userRepo)
	if err != nil {
		return err
	}

	session := NewSession(ctx, user.ID, p.registry)
	defer session.LeaveAll(ctx)

	groups, err := p.Groups(ctx, user)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get groups of user %s: %v", user.ID, err)
		return errorx.Unknown
	}

	for _, g := range groups {
		if err := session.Join(ctx, g); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot join group %s: %v", g, err)
			return errorx.Unknown
		}
	}
	session.setState(Joined)

	wsClient := xcontext.WSClient(ctx)
	for {
		select {
		case ev := <-session.C:
			if err := p.handleEvent(ctx, session, wsClient, ev); err != nil {
				return err
			}

		case msg, ok := <-wsClient.R:
			if !ok {
				return nil
			}

			p.handleDirective(ctx, session, msg)

		case <-ctx.Done():
			return nil
		}
	}
}

func (p *NotificationProxy) handleEvent(
	ctx context.Context, session *Session, wsClient *ws.Client, ev *event.EventRequest,
) error {
	switch data := ev.Data.(type) {
	case *event.NewNotificationEvent, *event.ChatNotificationEvent:
		return writeEvent(ctx, wsClient, ev)

	case *event.DynamicSubscriptionEvent:
		for _, g := range []string{data.MaterialGroup, data.ActivityGroup} {
			if !isCourseGroup(g) {
				xcontext.Logger(ctx).Warnf("Invalid dynamic subscription group %q", g)
				return nil
			}
		}

		if err := session.Join(ctx, data.MaterialGroup); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot join group %s: %v", data.MaterialGroup, err)
			return nil
		}

		if err := session.Join(ctx, data.ActivityGroup); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot join group %s: %v", data.ActivityGroup, err)
			return nil
		}

		return writeEvent(ctx, wsClient, ev)

	default:
		xcontext.Logger(ctx).Warnf("Notification session does not support event %s", ev.Op)
		return nil
	}
}

func (p *NotificationProxy) handleDirective(ctx context.Context, session *Session, msg []byte) {
	var d directive.NotificationDirective
	if err := json.Unmarshal(msg, &d); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot unmarshal directive: %v", err)
		return
	}

	switch d.Command {
	case directive.LeaveChatNotificationsCommand:
		if err := session.Leave(ctx, group.ChatNotifications); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot leave chat notifications: %v", err)
		}

	case directive.JoinChatNotificationsCommand:
		if err := session.Join(ctx, group.ChatNotifications); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot join chat notifications: %v", err)
		}

	default:
		xcontext.Logger(ctx).Debugf("Unknown command %q", d.Command)
	}
}

func isCourseGroup(name string) bool {
	return group.Valid(name) &&
		(strings.HasPrefix(name, group.Material("")) || strings.HasPrefix(name, group.Activity("")))
}

func requestUser(ctx context.Context, userRepo repository.UserRepository) (*entity.User, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	user, err := userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unauthenticated, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return user, nil
}

func writeEvent(ctx context.Context, wsClient *ws.Client, ev *event.EventRequest) error {
	b, err := event.Format(ev)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot format event %s: %v", ev.Op, err)
		return nil
	}

	if err := wsClient.Write(b); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot send event to client: %v", err)
		return errorx.New(errorx.ConnectionClosed, "Connection is closed")
	}

	return nil
}

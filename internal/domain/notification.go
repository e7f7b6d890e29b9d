package domain

import (
	"context"
	"errors"

	"github.com/questx-lab/classroom/internal/model"
	"github.com/questx-lab/classroom/internal/repository"
	"github.com/questx-lab/classroom/pkg/errorx"
	"github.com/questx-lab/classroom/pkg/xcontext"
	"gorm.io/gorm"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

type NotificationDomain interface {
	GetNotifications(context.Context, *model.GetNotificationsRequest) (*model.GetNotificationsResponse, error)
	ToggleNotificationRead(context.Context, *model.ToggleNotificationReadRequest) (*model.ToggleNotificationReadResponse, error)
}

type notificationDomain struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationDomain(notificationRepo repository.NotificationRepository) *notificationDomain {
	return &notificationDomain{notificationRepo: notificationRepo}
}

func (d *notificationDomain) GetNotifications(
	ctx context.Context, req *model.GetNotificationsRequest,
) (*model.GetNotificationsResponse, error) {
	if req.Offset < 0 {
		return nil, errorx.New(errorx.BadRequest, "Offset must not be negative")
	}

	if req.Limit == 0 {
		req.Limit = defaultNotificationLimit
	}

	if req.Limit < 0 || req.Limit > maxNotificationLimit {
		return nil, errorx.New(errorx.BadRequest, "Limit must be in range 1-%d", maxNotificationLimit)
	}

	notifications, err := d.notificationRepo.GetList(ctx, repository.NotificationFilter{
		RecipientID: xcontext.RequestUserID(ctx),
		UnreadOnly:  req.UnreadOnly,
		Offset:      req.Offset,
		Limit:       req.Limit,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get notifications: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetNotificationsResponse{Notifications: []model.Notification{}}
	for i := range notifications {
		resp.Notifications = append(resp.Notifications, model.ConvertNotification(&notifications[i]))
	}

	return resp, nil
}

func (d *notificationDomain) ToggleNotificationRead(
	ctx context.Context, req *model.ToggleNotificationReadRequest,
) (*model.ToggleNotificationReadResponse, error) {
	if req.ID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty id")
	}

	err := d.notificationRepo.ToggleRead(ctx, req.ID, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found notification")
		}

		xcontext.Logger(ctx).Errorf("Cannot toggle notification read: %v", err)
		return nil, errorx.Unknown
	}

	notification, err := d.notificationRepo.GetByID(ctx, req.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get notification: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ToggleNotificationReadResponse{
		Notification: model.ConvertNotification(notification),
	}, nil
}

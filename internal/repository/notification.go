package repository

import (
	"context"
	"errors"

	"github.com/questx-lab/classroom/internal/entity"
	"github.com/questx-lab/classroom/pkg/xcontext"
	"gorm.io/gorm"
)

type NotificationFilter struct {
	RecipientID string
	UnreadOnly  bool
	Offset      int
	Limit       int
}

type NotificationRepository interface {
	Create(ctx context.Context, data *entity.Notification) error
	GetByID(ctx context.Context, id string) (*entity.Notification, error)
	GetList(ctx context.Context, filter NotificationFilter) ([]entity.Notification, error)

	// ToggleRead flips the read flag of the notification only if it belongs to
	// recipientID. It returns gorm.ErrRecordNotFound otherwise.
	ToggleRead(ctx context.Context, id, recipientID string) error
}

type notificationRepository struct{}

func NewNotificationRepository() *notificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) Create(ctx context.Context, data *entity.Notification) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	var result entity.Notification
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *notificationRepository) GetList(
	ctx context.Context, filter NotificationFilter,
) ([]entity.Notification, error) {
	var result []entity.Notification
	tx := xcontext.DB(ctx).
		Where("recipient_id=?", filter.RecipientID).
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit)

	if filter.UnreadOnly {
		tx = tx.Where("is_read=?", false)
	}

	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *notificationRepository) ToggleRead(ctx context.Context, id, recipientID string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Notification{}).
		Where("id=? AND recipient_id=?", id, recipientID).
		Update("is_read", gorm.Expr("NOT is_read"))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

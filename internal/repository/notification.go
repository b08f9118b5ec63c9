package repository

import (
	"context"

	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/pkg/xcontext"
)

type NotificationRepository interface {
	CreateMany(ctx context.Context, data []entity.Notification) error
	GetList(ctx context.Context, userID string, unreadOnly bool, offset, limit int) ([]entity.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
}

type notificationRepository struct{}

func NewNotificationRepository() *notificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) CreateMany(ctx context.Context, data []entity.Notification) error {
	if len(data) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Omit("User").Create(&data).Error
}

func (r *notificationRepository) GetList(
	ctx context.Context, userID string, unreadOnly bool, offset, limit int,
) ([]entity.Notification, error) {
	tx := xcontext.DB(ctx).Where("user_id=?", userID)
	if unreadOnly {
		tx = tx.Where("is_read=?", false)
	}

	var result []entity.Notification
	err := tx.Order("created_at DESC").Offset(offset).Limit(limit).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// MarkRead only touches a notification owned by userID.
func (r *notificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	return singleRow(xcontext.DB(ctx).
		Model(&entity.Notification{}).
		Where("id=? AND user_id=?", id, userID).
		Update("is_read", true))
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.Notification{}).
		Where("user_id=? AND is_read=?", userID, false).
		Update("is_read", true)
	return tx.RowsAffected, tx.Error
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Notification{}).
		Where("user_id=? AND is_read=?", userID, false).
		Count(&count).Error
	return count, err
}

package domain

import (
	"context"
	"errors"

	"github.com/ywitter/backend/internal/model"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/errorx"
	"github.com/ywitter/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type NotificationDomain interface {
	GetList(context.Context, *model.GetNotificationsRequest) (*model.GetNotificationsResponse, error)
	MarkRead(context.Context, *model.MarkNotificationReadRequest) (*model.MarkNotificationReadResponse, error)
	MarkAllRead(context.Context, *model.MarkAllNotificationsReadRequest) (*model.MarkAllNotificationsReadResponse, error)
	CountUnread(context.Context, *model.CountUnreadNotificationsRequest) (*model.CountUnreadNotificationsResponse, error)
}

type notificationDomain struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationDomain(notificationRepo repository.NotificationRepository) *notificationDomain {
	return &notificationDomain{notificationRepo: notificationRepo}
}

func (d *notificationDomain) GetList(
	ctx context.Context, req *model.GetNotificationsRequest,
) (*model.GetNotificationsResponse, error) {
	if err := checkPagination(ctx, req.Offset, &req.Limit); err != nil {
		return nil, err
	}

	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	notifications, err := d.notificationRepo.GetList(ctx, userID, req.UnreadOnly, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get notifications: %v", err)
		return nil, errorx.Unknown
	}

	clientNotifications := []model.Notification{}
	for i := range notifications {
		clientNotifications = append(clientNotifications, model.ConvertNotification(&notifications[i]))
	}

	return &model.GetNotificationsResponse{Notifications: clientNotifications}, nil
}

func (d *notificationDomain) MarkRead(
	ctx context.Context, req *model.MarkNotificationReadRequest,
) (*model.MarkNotificationReadResponse, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	// A notification of another user looks the same as a missing one.
	if err := d.notificationRepo.MarkRead(ctx, req.ID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found notification")
		}

		xcontext.Logger(ctx).Errorf("Cannot mark notification as read: %v", err)
		return nil, errorx.Unknown
	}

	return &model.MarkNotificationReadResponse{}, nil
}

func (d *notificationDomain) MarkAllRead(
	ctx context.Context, req *model.MarkAllNotificationsReadRequest,
) (*model.MarkAllNotificationsReadResponse, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	count, err := d.notificationRepo.MarkAllRead(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mark all notifications as read: %v", err)
		return nil, errorx.Unknown
	}

	return &model.MarkAllNotificationsReadResponse{Count: count}, nil
}

func (d *notificationDomain) CountUnread(
	ctx context.Context, req *model.CountUnreadNotificationsRequest,
) (*model.CountUnreadNotificationsResponse, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	count, err := d.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count unread notifications: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CountUnreadNotificationsResponse{Count: count}, nil
}

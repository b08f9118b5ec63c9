package repository

import (
	"context"
	"fmt"

	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/pkg/xcontext"
)

type WebhookRepository interface {
	Create(ctx context.Context, data *entity.Webhook) error
	GetByID(ctx context.Context, id string) (*entity.Webhook, error)
	GetListByUserID(ctx context.Context, userID string) ([]entity.Webhook, error)
	// GetActiveByEvent returns the active webhooks of userIDs subscribed to
	// event.
	GetActiveByEvent(ctx context.Context, event entity.EventType, userIDs []string) ([]entity.Webhook, error)
	Delete(ctx context.Context, id, userID string) error
}

type webhookRepository struct{}

func NewWebhookRepository() *webhookRepository {
	return &webhookRepository{}
}

func (r *webhookRepository) Create(ctx context.Context, data *entity.Webhook) error {
	return xcontext.DB(ctx).Omit("User").Create(data).Error
}

func (r *webhookRepository) GetByID(ctx context.Context, id string) (*entity.Webhook, error) {
	var result entity.Webhook
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *webhookRepository) GetListByUserID(ctx context.Context, userID string) ([]entity.Webhook, error) {
	var result []entity.Webhook
	err := xcontext.DB(ctx).Where("user_id=?", userID).Order("created_at ASC").Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *webhookRepository) GetActiveByEvent(
	ctx context.Context, event entity.EventType, userIDs []string,
) ([]entity.Webhook, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var result []entity.Webhook
	err := xcontext.DB(ctx).
		Where("is_active=? AND user_id IN (?)", true, userIDs).
		Where("events LIKE ?", fmt.Sprintf("%%%q%%", event)).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *webhookRepository) Delete(ctx context.Context, id, userID string) error {
	return singleRow(xcontext.DB(ctx).Delete(&entity.Webhook{}, "id=? AND user_id=?", id, userID))
}

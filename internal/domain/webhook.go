package domain

import (
	"context"
	"errors"

	"github.com/ywitter/backend/internal/common"
	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/internal/model"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/crypto"
	"github.com/ywitter/backend/pkg/enum"
	"github.com/ywitter/backend/pkg/errorx"
	"github.com/ywitter/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const (
	maxWebhooksPerUser = 10
	webhookSecretSize  = 32
)

type WebhookDomain interface {
	Create(context.Context, *model.CreateWebhookRequest) (*model.CreateWebhookResponse, error)
	GetList(context.Context, *model.GetWebhooksRequest) (*model.GetWebhooksResponse, error)
	Delete(context.Context, *model.DeleteWebhookRequest) (*model.DeleteWebhookResponse, error)
}

type webhookDomain struct {
	webhookRepo repository.WebhookRepository
}

func NewWebhookDomain(webhookRepo repository.WebhookRepository) *webhookDomain {
	return &webhookDomain{webhookRepo: webhookRepo}
}

func (d *webhookDomain) Create(
	ctx context.Context, req *model.CreateWebhookRequest,
) (*model.CreateWebhookResponse, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	if !common.IsHTTPURL(req.URL) {
		return nil, errorx.New(errorx.BadRequest, "Invalid webhook url")
	}

	if len(req.Events) == 0 {
		return nil, errorx.New(errorx.BadRequest, "Webhook needs at least one event")
	}

	events := entity.Array[entity.EventType]{}
	seen := map[entity.EventType]bool{}
	for _, e := range req.Events {
		event, err := enum.ToEnum[entity.EventType](e)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Invalid webhook event: %v", err)
			return nil, errorx.New(errorx.BadRequest, "Invalid event %s", e)
		}

		if !seen[event] {
			seen[event] = true
			events = append(events, event)
		}
	}

	existing, err := d.webhookRepo.GetListByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get webhooks: %v", err)
		return nil, errorx.Unknown
	}

	if len(existing) >= maxWebhooksPerUser {
		return nil, errorx.New(errorx.BadRequest, "Too many webhooks (at most %d)", maxWebhooksPerUser)
	}

	secret, err := crypto.RandomHex(webhookSecretSize)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate webhook secret: %v", err)
		return nil, errorx.Unknown
	}

	webhook := &entity.Webhook{
		Base:     entity.Base{ID: newID()},
		UserID:   userID,
		URL:      req.URL,
		Events:   events,
		Secret:   secret,
		IsActive: true,
	}

	if err := d.webhookRepo.Create(ctx, webhook); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create webhook: %v", err)
		return nil, errorx.Unknown
	}

	// The secret is only shown once.
	return &model.CreateWebhookResponse{Webhook: model.ConvertWebhook(webhook, true)}, nil
}

func (d *webhookDomain) GetList(
	ctx context.Context, req *model.GetWebhooksRequest,
) (*model.GetWebhooksResponse, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	webhooks, err := d.webhookRepo.GetListByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get webhooks: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Webhook{}
	for i := range webhooks {
		result = append(result, model.ConvertWebhook(&webhooks[i], false))
	}

	return &model.GetWebhooksResponse{Webhooks: result}, nil
}

func (d *webhookDomain) Delete(
	ctx context.Context, req *model.DeleteWebhookRequest,
) (*model.DeleteWebhookResponse, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := d.webhookRepo.Delete(ctx, req.ID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found webhook")
		}

		xcontext.Logger(ctx).Errorf("Cannot delete webhook: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteWebhookResponse{}, nil
}

package webhookprocessor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ywitter/backend/internal/common"
	"github.com/ywitter/backend/internal/domain/event"
	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/crypto"
	"github.com/ywitter/backend/pkg/pubsub"
	"github.com/ywitter/backend/pkg/xcontext"
	"golang.org/x/sync/errgroup"
)

const (
	SignatureHeader = "X-Ywitter-Signature"
	EventHeader     = "X-Ywitter-Event"
	DeliveryHeader  = "X-Ywitter-Delivery"

	maxConcurrentDeliveries = 8
)

// Payload is the body posted to every subscribed webhook.
type Payload struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data"`
}

type subscribeHandler struct {
	webhookRepo repository.WebhookRepository
	client      *http.Client
}

func NewSubscribeHandler(webhookRepo repository.WebhookRepository, client *http.Client) *subscribeHandler {
	return &subscribeHandler{webhookRepo: webhookRepo, client: client}
}

// Subscribe delivers one event to the active webhooks of its audience. Failed
// deliveries are logged and counted, they never stop the consumer.
func (h *subscribeHandler) Subscribe(ctx context.Context, topic string, pack *pubsub.Pack, t time.Time) error {
	var ev event.Event
	if err := json.Unmarshal(pack.Msg, &ev); err != nil {
		xcontext.Logger(ctx).Errorf("Unable to unmarshal event: %v", err)
		return nil
	}

	webhooks, err := h.webhookRepo.GetActiveByEvent(ctx, ev.Type, ev.Audience)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get webhooks of event %s: %v", ev.Type, err)
		return err
	}

	if len(webhooks) == 0 {
		return nil
	}

	body, err := json.Marshal(Payload{
		ID:         ev.ID,
		Type:       string(ev.Type),
		OccurredAt: ev.OccurredAt,
		Data:       ev.Data,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Unable to marshal payload: %v", err)
		return nil
	}

	g := errgroup.Group{}
	g.SetLimit(maxConcurrentDeliveries)
	for i := range webhooks {
		webhook := webhooks[i]
		g.Go(func() error {
			if err := h.deliver(ctx, &webhook, &ev, body); err != nil {
				xcontext.Logger(ctx).Warnf("Cannot deliver event %s to webhook %s: %v", ev.ID, webhook.ID, err)
				common.IncreaseCounter(common.WebhookDeliveryTotal, "failure")
				return nil
			}

			common.IncreaseCounter(common.WebhookDeliveryTotal, "success")
			return nil
		})
	}

	return g.Wait()
}

func (h *subscribeHandler) deliver(ctx context.Context, webhook *entity.Webhook, ev *event.Event, body []byte) error {
	cfg := xcontext.Configs(ctx).Webhook
	signature := crypto.SignSHA256(body, []byte(webhook.Secret))

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(cfg.RetryDelay), uint64(attempts-1)),
		ctx,
	)

	return backoff.Retry(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhook.URL, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(SignatureHeader, signature)
		req.Header.Set(EventHeader, string(ev.Type))
		req.Header.Set(DeliveryHeader, ev.ID)

		resp, err := h.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return nil
		case resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests:
			return backoff.Permanent(fmt.Errorf("receiver rejected with status %d", resp.StatusCode))
		default:
			return fmt.Errorf("receiver responded with status %d", resp.StatusCode)
		}
	}, policy)
}

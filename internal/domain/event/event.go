package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fatih/structs"
	"github.com/google/uuid"
	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/pkg/pubsub"
	"github.com/ywitter/backend/pkg/xcontext"
)

// Event is published to the broker after the transaction producing it was
// committed. Audience holds the ids of the users whose webhooks receive it.
type Event struct {
	ID         string           `json:"id"`
	Type       entity.EventType `json:"type"`
	OccurredAt time.Time        `json:"occurred_at"`
	Audience   []string         `json:"audience"`
	Data       map[string]any   `json:"data"`
}

type PostData struct {
	PostID   string `structs:"post_id"`
	AuthorID string `structs:"author_id"`
	Content  string `structs:"content"`
}

type EngagementData struct {
	PostID string `structs:"post_id"`
	UserID string `structs:"user_id"`
}

type FollowData struct {
	FollowerID string `structs:"follower_id"`
	FollowedID string `structs:"followed_id"`
}

type ReportData struct {
	ReportID string `structs:"report_id"`
	Status   string `structs:"status"`
}

type Emitter interface {
	Emit(ctx context.Context, eventType entity.EventType, audience []string, data any)
}

type emitter struct {
	publisher pubsub.Publisher
}

func NewEmitter(publisher pubsub.Publisher) *emitter {
	return &emitter{publisher: publisher}
}

// Emit logs and drops publish failures.
func (e *emitter) Emit(ctx context.Context, eventType entity.EventType, audience []string, data any) {
	ev := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now(),
		Audience:   audience,
		Data:       structs.Map(data),
	}

	b, err := json.Marshal(ev)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal event %s: %v", eventType, err)
		return
	}

	topic := xcontext.Configs(ctx).Webhook.Topic
	err = e.publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(eventType), Msg: b})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish event %s: %v", eventType, err)
	}
}

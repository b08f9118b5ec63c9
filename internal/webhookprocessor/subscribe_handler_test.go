package webhookprocessor

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/ywitter/backend/internal/common"
	"github.com/ywitter/backend/internal/domain/event"
	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/crypto"
	"github.com/ywitter/backend/pkg/pubsub"
	"github.com/ywitter/backend/pkg/testutil"
	"github.com/ywitter/backend/pkg/xcontext"
)

const testSecret = "receiver-secret"

// setup seeds the fixtures, replaces the fixture webhook by one pointing at
// url and returns the packed post.liked event for User1.
func setup(t *testing.T, url string) (context.Context, *pubsub.Pack) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	cfg := xcontext.Configs(ctx)
	cfg.Webhook.RetryDelay = time.Millisecond
	ctx = xcontext.WithConfigs(ctx, cfg)

	webhookRepo := repository.NewWebhookRepository()
	require.NoError(t, webhookRepo.Delete(ctx, testutil.Webhook1.ID, testutil.User1.ID))
	require.NoError(t, webhookRepo.Create(ctx, &entity.Webhook{
		Base:     entity.Base{ID: "receiver"},
		UserID:   testutil.User1.ID,
		URL:      url,
		Events:   entity.Array[entity.EventType]{entity.EventPostLiked},
		Secret:   testSecret,
		IsActive: true,
	}))

	publisher := testutil.NewRecordPublisher()
	event.NewEmitter(publisher).Emit(ctx, entity.EventPostLiked, []string{testutil.User1.ID},
		event.EngagementData{PostID: testutil.Post1.ID, UserID: testutil.User2.ID})

	packs := publisher.Get(cfg.Webhook.Topic)
	require.Len(t, packs, 1)
	return ctx, packs[0]
}

func deliveries(result string) float64 {
	return promtestutil.ToFloat64(common.PromCounters[common.WebhookDeliveryTotal].WithLabelValues(result))
}

func Test_subscribeHandler_Subscribe(t *testing.T) {
	var calls int32
	var received Payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.True(t, crypto.VerifySHA256(body, []byte(testSecret), r.Header.Get(SignatureHeader)))
		require.Equal(t, "post.liked", r.Header.Get(EventHeader))
		require.NoError(t, json.Unmarshal(body, &received))

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, pack := setup(t, server.URL)
	before := deliveries("success")

	h := NewSubscribeHandler(repository.NewWebhookRepository(), server.Client())
	require.NoError(t, h.Subscribe(ctx, "webhook", pack, time.Now()))

	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
	require.Equal(t, "post.liked", received.Type)
	require.Equal(t, testutil.Post1.ID, received.Data["post_id"])
	require.Equal(t, testutil.User2.ID, received.Data["user_id"])
	require.Equal(t, before+1, deliveries("success"))
}

func Test_subscribeHandler_Retry(t *testing.T) {
	tests := []struct {
		name       string
		statuses   []int
		wantCalls  int32
		wantResult string
	}{
		{
			name:       "succeed after server errors",
			statuses:   []int{http.StatusInternalServerError, http.StatusBadGateway, http.StatusOK},
			wantCalls:  3,
			wantResult: "success",
		},
		{
			name:       "give up after max attempts",
			statuses:   []int{http.StatusInternalServerError, http.StatusInternalServerError, http.StatusInternalServerError, http.StatusOK},
			wantCalls:  3,
			wantResult: "failure",
		},
		{
			name:       "no retry on client error",
			statuses:   []int{http.StatusGone, http.StatusOK},
			wantCalls:  1,
			wantResult: "failure",
		},
		{
			name:       "retry on too many requests",
			statuses:   []int{http.StatusTooManyRequests, http.StatusOK},
			wantCalls:  2,
			wantResult: "success",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.statuses[n-1])
			}))
			defer server.Close()

			ctx, pack := setup(t, server.URL)
			before := deliveries(tt.wantResult)

			h := NewSubscribeHandler(repository.NewWebhookRepository(), server.Client())
			require.NoError(t, h.Subscribe(ctx, "webhook", pack, time.Now()))

			require.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
			require.Equal(t, before+1, deliveries(tt.wantResult))
		})
	}
}

func Test_subscribeHandler_NoAudience(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	ctx, _ := setup(t, server.URL)

	publisher := testutil.NewRecordPublisher()
	event.NewEmitter(publisher).Emit(ctx, entity.EventPostLiked, []string{testutil.User2.ID},
		event.EngagementData{PostID: testutil.Post2.ID, UserID: testutil.User1.ID})

	h := NewSubscribeHandler(repository.NewWebhookRepository(), server.Client())
	for _, pack := range publisher.Get(xcontext.Configs(ctx).Webhook.Topic) {
		require.NoError(t, h.Subscribe(ctx, "webhook", pack, time.Now()))
	}

	require.NoError(t, h.Subscribe(ctx, "webhook", &pubsub.Pack{Msg: []byte("not json")}, time.Now()))
	require.Zero(t, atomic.LoadInt32(&calls))
}

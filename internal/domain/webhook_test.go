package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ywitter/backend/internal/model"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/errorx"
	"github.com/ywitter/backend/pkg/testutil"
	"github.com/ywitter/backend/pkg/xcontext"
)

func Test_webhookDomain_Create(t *testing.T) {
	tests := []struct {
		name    string
		req     *model.CreateWebhookRequest
		wantErr error
	}{
		{
			name: "happy case",
			req: &model.CreateWebhookRequest{
				URL:    "https://example.com/new-hook",
				Events: []string{"post.created", "post.liked", "post.created"},
			},
		},
		{
			name: "invalid url",
			req: &model.CreateWebhookRequest{
				URL:    "ftp://example.com/hook",
				Events: []string{"post.created"},
			},
			wantErr: errorx.New(errorx.BadRequest, "Invalid webhook url"),
		},
		{
			name:    "no event",
			req:     &model.CreateWebhookRequest{URL: "https://example.com/hook"},
			wantErr: errorx.New(errorx.BadRequest, "Webhook needs at least one event"),
		},
		{
			name: "unknown event",
			req: &model.CreateWebhookRequest{
				URL:    "https://example.com/hook",
				Events: []string{"post.deleted"},
			},
			wantErr: errorx.New(errorx.BadRequest, "Invalid event post.deleted"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContextWithUserID(testutil.User2.ID)
			testutil.CreateFixtureDb(ctx)
			d := NewWebhookDomain(repository.NewWebhookRepository())

			got, err := d.Create(ctx, tt.req)
			if tt.wantErr != nil {
				require.Equal(t, tt.wantErr, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, []string{"post.created", "post.liked"}, got.Webhook.Events)
			require.Len(t, got.Webhook.Secret, 2*webhookSecretSize)
			require.True(t, got.Webhook.IsActive)

			list, err := d.GetList(ctx, &model.GetWebhooksRequest{})
			require.NoError(t, err)
			require.Len(t, list.Webhooks, 1)
			require.Empty(t, list.Webhooks[0].Secret)
		})
	}
}

func Test_webhookDomain_Delete(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	d := NewWebhookDomain(repository.NewWebhookRepository())

	_, err := d.Delete(ctx, &model.DeleteWebhookRequest{ID: testutil.Webhook1.ID})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found webhook"), err)

	ctx = xcontext.WithRequestUserID(ctx, testutil.User1.ID)
	list, err := d.GetList(ctx, &model.GetWebhooksRequest{})
	require.NoError(t, err)
	require.Len(t, list.Webhooks, 1)

	_, err = d.Delete(ctx, &model.DeleteWebhookRequest{ID: testutil.Webhook1.ID})
	require.NoError(t, err)

	list, err = d.GetList(ctx, &model.GetWebhooksRequest{})
	require.NoError(t, err)
	require.Empty(t, list.Webhooks)
}

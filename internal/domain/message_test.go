package domain

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ywitter/backend/internal/model"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/errorx"
	"github.com/ywitter/backend/pkg/testutil"
)

func newTestMessageDomain() *messageDomain {
	return NewMessageDomain(repository.NewMessageRepository(), repository.NewUserRepository())
}

func Test_messageDomain_Send(t *testing.T) {
	type args struct {
		ctx context.Context
		req *model.SendMessageRequest
	}
	tests := []struct {
		name    string
		args    args
		wantErr error
	}{
		{
			name: "happy case",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User1.ID),
				req: &model.SendMessageRequest{Username: testutil.User2.Username, Body: " hey "},
			},
		},
		{
			name: "yourself",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User1.ID),
				req: &model.SendMessageRequest{Username: testutil.User1.Username, Body: "hey"},
			},
			wantErr: errorx.New(errorx.BadRequest, "Cannot message yourself"),
		},
		{
			name: "recipient does not accept messages",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User1.ID),
				req: &model.SendMessageRequest{Username: testutil.User5.Username, Body: "hey"},
			},
			wantErr: errorx.New(errorx.PermissionDenied, "User does not accept messages"),
		},
		{
			name: "empty body",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User1.ID),
				req: &model.SendMessageRequest{Username: testutil.User2.Username, Body: "  "},
			},
			wantErr: errorx.New(errorx.BadRequest, "Message body is required"),
		},
		{
			name: "too long body",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User1.ID),
				req: &model.SendMessageRequest{Username: testutil.User2.Username, Body: strings.Repeat("a", 1001)},
			},
			wantErr: errorx.New(errorx.BadRequest, "Message is too long (at most %d characters)", 1000),
		},
		{
			name: "not found recipient",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User1.ID),
				req: &model.SendMessageRequest{Username: "nobody", Body: "hey"},
			},
			wantErr: errorx.New(errorx.NotFound, "Not found user"),
		},
		{
			name: "banned sender",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User6.ID),
				req: &model.SendMessageRequest{Username: testutil.User1.Username, Body: "hey"},
			},
			wantErr: errorx.New(errorx.PermissionDenied, "User is banned"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.CreateFixtureDb(tt.args.ctx)
			d := newTestMessageDomain()

			got, err := d.Send(tt.args.ctx, tt.args.req)
			if tt.wantErr != nil {
				require.Equal(t, tt.wantErr, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, "hey", got.Message.Body)
			require.Equal(t, testutil.User2.ID, got.Message.RecipientID)
			require.NotEmpty(t, got.Message.ID)
		})
	}
}

func Test_messageDomain_GetConversation(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestMessageDomain()

	sent, err := d.Send(ctx, &model.SendMessageRequest{Username: testutil.User2.Username, Body: "newest"})
	require.NoError(t, err)

	resp, err := d.GetConversation(ctx, &model.GetConversationRequest{Username: testutil.User2.Username})
	require.NoError(t, err)
	require.Empty(t, resp.NextID)
	require.Equal(t, []string{"1001", "1002", sent.Message.ID}, messageIDs(resp.Messages))

	// Page backwards from the newest message.
	resp, err = d.GetConversation(ctx, &model.GetConversationRequest{Username: testutil.User2.Username, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, []string{"1002", sent.Message.ID}, messageIDs(resp.Messages))
	require.Equal(t, "1002", resp.NextID)

	resp, err = d.GetConversation(ctx, &model.GetConversationRequest{
		Username: testutil.User2.Username,
		BeforeID: resp.NextID,
		Limit:    2,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"1001"}, messageIDs(resp.Messages))
	require.Empty(t, resp.NextID)

	_, err = d.GetConversation(ctx, &model.GetConversationRequest{Username: testutil.User2.Username, BeforeID: "abc"})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid before id"), err)
}

func Test_messageDomain_GetDialogs(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestMessageDomain()

	resp, err := d.GetDialogs(ctx, &model.GetDialogsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Dialogs, 2)
	require.Equal(t, testutil.User2.Username, resp.Dialogs[0].User.Username)
	require.Equal(t, "1002", resp.Dialogs[0].LastMessage.ID)
	require.Equal(t, testutil.User3.Username, resp.Dialogs[1].User.Username)
	require.Equal(t, "1000", resp.Dialogs[1].LastMessage.ID)

	// A new message to charlie moves the dialog to the top.
	_, err = d.Send(ctx, &model.SendMessageRequest{Username: testutil.User3.Username, Body: "thanks"})
	require.NoError(t, err)

	resp, err = d.GetDialogs(ctx, &model.GetDialogsRequest{})
	require.NoError(t, err)
	require.Equal(t, testutil.User3.Username, resp.Dialogs[0].User.Username)
	require.Equal(t, "thanks", resp.Dialogs[0].LastMessage.Body)
}

func messageIDs(messages []model.Message) []string {
	ids := []string{}
	for _, m := range messages {
		ids = append(ids, m.ID)
	}

	return ids
}

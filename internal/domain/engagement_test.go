package domain

import (
	"context"
	"encoding/json"
	"testing"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/ywitter/backend/internal/common"
	"github.com/ywitter/backend/internal/domain/event"
	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/internal/model"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/errorx"
	"github.com/ywitter/backend/pkg/pubsub"
	"github.com/ywitter/backend/pkg/testutil"
	"github.com/ywitter/backend/pkg/xcontext"
)

func newTestEngagementDomain(publisher pubsub.Publisher) *engagementDomain {
	return NewEngagementDomain(
		repository.NewPostRepository(),
		repository.NewUserRepository(),
		repository.NewFollowRepository(),
		repository.NewLikeRepository(),
		repository.NewRetweetRepository(),
		repository.NewReactionRepository(),
		event.NewEmitter(publisher),
	)
}

func engagementCount(action string) float64 {
	return promtestutil.ToFloat64(common.PromCounters[common.EngagementActionTotal].WithLabelValues(action))
}

func Test_engagementDomain_ToggleLike(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)

	publisher := testutil.NewRecordPublisher()
	d := newTestEngagementDomain(publisher)
	likesBefore := engagementCount("like")

	resp, err := d.ToggleLike(ctx, &model.ToggleLikeRequest{PostID: testutil.Post1.ID})
	require.NoError(t, err)
	require.Equal(t, &model.ToggleLikeResponse{Liked: true, LikeCount: 2}, resp)
	require.Equal(t, likesBefore+1, engagementCount("like"))

	packs := publisher.Get(testutil.MockConfigs().Webhook.Topic)
	require.Len(t, packs, 1)
	require.Equal(t, []byte(entity.EventPostLiked), packs[0].Key)

	var ev event.Event
	require.NoError(t, json.Unmarshal(packs[0].Msg, &ev))
	require.Equal(t, []string{testutil.User1.ID}, ev.Audience)
	require.Equal(t, testutil.User3.ID, ev.Data["user_id"])

	resp, err = d.ToggleLike(ctx, &model.ToggleLikeRequest{PostID: testutil.Post1.ID})
	require.NoError(t, err)
	require.Equal(t, &model.ToggleLikeResponse{Liked: false, LikeCount: 1}, resp)
	require.Len(t, publisher.Get(testutil.MockConfigs().Webhook.Topic), 1)

	require.Equal(t, testutil.Post1.LikeCount, getPost(ctx, testutil.Post1.ID).LikeCount)
}

func Test_engagementDomain_ToggleLike_ExistingLike(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestEngagementDomain(&testutil.MockPublisher{})

	resp, err := d.ToggleLike(ctx, &model.ToggleLikeRequest{PostID: testutil.Post1.ID})
	require.NoError(t, err)
	require.Equal(t, &model.ToggleLikeResponse{Liked: false, LikeCount: 0}, resp)

	post, err := newTestPostDomain().Get(ctx, &model.GetPostRequest{PostID: testutil.Post1.ID})
	require.NoError(t, err)
	require.False(t, post.Post.Liked)
}

func Test_engagementDomain_ToggleLike_Errors(t *testing.T) {
	type args struct {
		ctx context.Context
		req *model.ToggleLikeRequest
	}
	tests := []struct {
		name    string
		args    args
		wantErr error
	}{
		{
			name: "not found post",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User1.ID),
				req: &model.ToggleLikeRequest{PostID: "invalid-post"},
			},
			wantErr: errorx.New(errorx.NotFound, "Not found post"),
		},
		{
			name: "private post",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User3.ID),
				req: &model.ToggleLikeRequest{PostID: testutil.Post2.ID},
			},
			wantErr: errorx.New(errorx.PermissionDenied, "This account is private"),
		},
		{
			name: "banned user",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User6.ID),
				req: &model.ToggleLikeRequest{PostID: testutil.Post1.ID},
			},
			wantErr: errorx.New(errorx.PermissionDenied, "User is banned"),
		},
		{
			name: "anonymous",
			args: args{
				ctx: testutil.MockContext(),
				req: &model.ToggleLikeRequest{PostID: testutil.Post1.ID},
			},
			wantErr: errorx.New(errorx.Unauthenticated, "You need to authenticate before"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.CreateFixtureDb(tt.args.ctx)
			d := newTestEngagementDomain(&testutil.MockPublisher{})

			_, err := d.ToggleLike(tt.args.ctx, tt.args.req)
			require.Equal(t, tt.wantErr, err)
		})
	}
}

func Test_engagementDomain_ToggleReaction(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestEngagementDomain(&testutil.MockPublisher{})

	_, err := d.ToggleReaction(ctx, &model.ToggleReactionRequest{PostID: testutil.Post3.ID, Type: "smile"})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid reaction type"), err)

	resp, err := d.ToggleReaction(ctx, &model.ToggleReactionRequest{PostID: testutil.Post3.ID, Type: "heart"})
	require.NoError(t, err)
	require.Equal(t, &model.ToggleReactionResponse{Added: true, Count: 1}, resp)

	resp, err = d.ToggleReaction(ctx, &model.ToggleReactionRequest{PostID: testutil.Post3.ID, Type: "wow"})
	require.NoError(t, err)
	require.Equal(t, &model.ToggleReactionResponse{Added: true, Count: 1}, resp)

	otherCtx := xcontext.WithRequestUserID(ctx, testutil.User2.ID)
	resp, err = d.ToggleReaction(otherCtx, &model.ToggleReactionRequest{PostID: testutil.Post3.ID, Type: "heart"})
	require.NoError(t, err)
	require.Equal(t, &model.ToggleReactionResponse{Added: true, Count: 2}, resp)

	reactions, err := d.GetReactions(ctx, &model.GetReactionsRequest{PostID: testutil.Post3.ID})
	require.NoError(t, err)
	require.ElementsMatch(t, []model.Reaction{{Type: "heart", Count: 2}, {Type: "wow", Count: 1}}, reactions.Reactions)
	require.Equal(t, []string{"heart", "wow"}, reactions.Mine)

	reactions, err = d.GetReactions(otherCtx, &model.GetReactionsRequest{PostID: testutil.Post3.ID})
	require.NoError(t, err)
	require.Equal(t, []string{"heart"}, reactions.Mine)

	reactions, err = d.GetReactions(xcontext.WithRequestUserID(ctx, ""), &model.GetReactionsRequest{PostID: testutil.Post3.ID})
	require.NoError(t, err)
	require.Len(t, reactions.Reactions, 2)
	require.Empty(t, reactions.Mine)

	resp, err = d.ToggleReaction(ctx, &model.ToggleReactionRequest{PostID: testutil.Post3.ID, Type: "heart"})
	require.NoError(t, err)
	require.Equal(t, &model.ToggleReactionResponse{Added: false, Count: 1}, resp)
}

func Test_engagementDomain_Retweet(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)

	publisher := testutil.NewRecordPublisher()
	d := newTestEngagementDomain(publisher)

	resp, err := d.Retweet(ctx, &model.RetweetRequest{PostID: testutil.Post1.ID})
	require.NoError(t, err)
	require.Equal(t, 1, resp.RetweetCount)

	_, err = d.Retweet(ctx, &model.RetweetRequest{PostID: testutil.Post1.ID})
	require.Equal(t, errorx.New(errorx.AlreadyExists, "Already retweeted"), err)
	require.Equal(t, 1, getPost(ctx, testutil.Post1.ID).RetweetCount)

	packs := publisher.Get(testutil.MockConfigs().Webhook.Topic)
	require.Len(t, packs, 1)
	require.Equal(t, []byte(entity.EventPostRetweeted), packs[0].Key)

	post, err := newTestPostDomain().Get(ctx, &model.GetPostRequest{PostID: testutil.Post1.ID})
	require.NoError(t, err)
	require.True(t, post.Post.Retweeted)
}

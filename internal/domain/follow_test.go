package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ywitter/backend/internal/domain/event"
	"github.com/ywitter/backend/internal/model"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/errorx"
	"github.com/ywitter/backend/pkg/testutil"
	"github.com/ywitter/backend/pkg/xcontext"
)

func newFollowDomain() *followDomain {
	return NewFollowDomain(
		repository.NewFollowRepository(),
		repository.NewUserRepository(),
		event.NewEmitter(&testutil.MockPublisher{}),
	)
}

func Test_followDomain_Follow(t *testing.T) {
	type args struct {
		ctx context.Context
		req *model.FollowRequest
	}
	tests := []struct {
		name    string
		args    args
		wantErr error
	}{
		{
			name: "happy case",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User2.ID),
				req: &model.FollowRequest{Username: testutil.User1.Username},
			},
		},
		{
			name: "follow yourself",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User1.ID),
				req: &model.FollowRequest{Username: testutil.User1.Username},
			},
			wantErr: errorx.New(errorx.BadRequest, "Cannot follow yourself"),
		},
		{
			name: "already followed",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User1.ID),
				req: &model.FollowRequest{Username: testutil.User2.Username},
			},
			wantErr: errorx.New(errorx.AlreadyExists, "Already followed"),
		},
		{
			name: "not found user",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User1.ID),
				req: &model.FollowRequest{Username: "nobody"},
			},
			wantErr: errorx.New(errorx.NotFound, "Not found user"),
		},
		{
			name: "banned user",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User6.ID),
				req: &model.FollowRequest{Username: testutil.User1.Username},
			},
			wantErr: errorx.New(errorx.PermissionDenied, "User is banned"),
		},
		{
			name: "unauthenticated",
			args: args{
				ctx: testutil.MockContext(),
				req: &model.FollowRequest{Username: testutil.User1.Username},
			},
			wantErr: errorx.New(errorx.Unauthenticated, "You need to authenticate before"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.CreateFixtureDb(tt.args.ctx)
			d := newFollowDomain()

			_, err := d.Follow(tt.args.ctx, tt.args.req)
			if tt.wantErr != nil {
				require.Equal(t, tt.wantErr, err)
				return
			}

			require.NoError(t, err)
		})
	}
}

func Test_followDomain_FollowUnfollowCycle(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User5.ID)
	testutil.CreateFixtureDb(ctx)
	d := newFollowDomain()

	isFollowing := func() bool {
		resp, err := d.IsFollowing(ctx, &model.IsFollowingRequest{Username: testutil.User1.Username})
		require.NoError(t, err)
		return resp.Following
	}

	require.False(t, isFollowing())

	_, err := d.Follow(ctx, &model.FollowRequest{Username: testutil.User1.Username})
	require.NoError(t, err)

	_, err = d.Follow(ctx, &model.FollowRequest{Username: testutil.User1.Username})
	require.Equal(t, errorx.New(errorx.AlreadyExists, "Already followed"), err)
	require.True(t, isFollowing())

	count, err := repository.NewFollowRepository().CountFollowers(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	_, err = d.Unfollow(ctx, &model.UnfollowRequest{Username: testutil.User1.Username})
	require.NoError(t, err)
	require.False(t, isFollowing())

	_, err = d.Unfollow(ctx, &model.UnfollowRequest{Username: testutil.User1.Username})
	require.Equal(t, errorx.New(errorx.NotFound, "Not following this user"), err)
}

func Test_followDomain_GetFollowers(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newFollowDomain()

	followers, err := d.GetFollowers(ctx, &model.GetFollowersRequest{Username: testutil.User1.Username})
	require.NoError(t, err)
	require.Len(t, followers.Users, 1)
	require.Equal(t, testutil.User3.ID, followers.Users[0].ID)

	following, err := d.GetFollowing(ctx, &model.GetFollowingRequest{Username: testutil.User1.Username})
	require.NoError(t, err)
	require.Len(t, following.Users, 1)
	require.Equal(t, testutil.User2.Username, following.Users[0].Username)

	_, err = d.GetFollowers(ctx, &model.GetFollowersRequest{Username: testutil.User1.Username, Offset: -1})
	require.Equal(t, errorx.New(errorx.BadRequest, "Not allow negative offset"), err)

	maxLimit := xcontext.Configs(ctx).ApiServer.MaxLimit
	_, err = d.GetFollowers(ctx, &model.GetFollowersRequest{Username: testutil.User1.Username, Limit: maxLimit + 1})
	require.Equal(t, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", maxLimit), err)
}

func Test_followDomain_FollowEmitsEvent(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)

	publisher := testutil.NewRecordPublisher()
	d := NewFollowDomain(
		repository.NewFollowRepository(),
		repository.NewUserRepository(),
		event.NewEmitter(publisher),
	)

	_, err := d.Follow(ctx, &model.FollowRequest{Username: testutil.User1.Username})
	require.NoError(t, err)

	packs := publisher.Get(xcontext.Configs(ctx).Webhook.Topic)
	require.Len(t, packs, 1)
	require.Equal(t, "user.followed", string(packs[0].Key))
}

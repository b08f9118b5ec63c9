package domain

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ywitter/backend/internal/domain/event"
	"github.com/ywitter/backend/internal/domain/search"
	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/internal/model"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/errorx"
	"github.com/ywitter/backend/pkg/testutil"
	"github.com/ywitter/backend/pkg/xcontext"
)

func Test_postDomain_Create(t *testing.T) {
	type args struct {
		ctx context.Context
		req *model.CreatePostRequest
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
				req: &model.CreatePostRequest{Content: "my first post"},
			},
		},
		{
			name: "media only",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User1.ID),
				req: &model.CreatePostRequest{MediaType: "image", MediaFilename: "cat.png"},
			},
		},
		{
			name: "empty content",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User1.ID),
				req: &model.CreatePostRequest{Content: "   "},
			},
			wantErr: errorx.New(errorx.BadRequest, "Post content is required"),
		},
		{
			name: "too long content",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User1.ID),
				req: &model.CreatePostRequest{Content: strings.Repeat("a", 281)},
			},
			wantErr: errorx.New(errorx.BadRequest, "Content is too long (at most %d characters)", 280),
		},
		{
			name: "invalid media type",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User1.ID),
				req: &model.CreatePostRequest{Content: "x", MediaType: "poll", MediaFilename: "a"},
			},
			wantErr: errorx.New(errorx.BadRequest, "Invalid media type"),
		},
		{
			name: "media without filename",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User1.ID),
				req: &model.CreatePostRequest{Content: "x", MediaType: "video"},
			},
			wantErr: errorx.New(errorx.BadRequest, "Media filename is required"),
		},
		{
			name: "reply to not found post",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User1.ID),
				req: &model.CreatePostRequest{Content: "x", ReplyToID: "invalid-post"},
			},
			wantErr: errorx.New(errorx.NotFound, "Not found reply post"),
		},
		{
			name: "reply to private post by stranger",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User5.ID),
				req: &model.CreatePostRequest{Content: "peek", ReplyToID: testutil.Post2.ID},
			},
			wantErr: errorx.New(errorx.PermissionDenied, "This account is private"),
		},
		{
			name: "reply to private post by follower",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User1.ID),
				req: &model.CreatePostRequest{Content: "agreed", ReplyToID: testutil.Post2.ID},
			},
		},
		{
			name: "banned author",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User6.ID),
				req: &model.CreatePostRequest{Content: "spam"},
			},
			wantErr: errorx.New(errorx.PermissionDenied, "User is banned"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.CreateFixtureDb(tt.args.ctx)
			d := newTestPostDomain()

			got, err := d.Create(tt.args.ctx, tt.args.req)
			if tt.wantErr != nil {
				require.Equal(t, tt.wantErr, err)
				if tt.args.req.ReplyToID == testutil.Post2.ID {
					parent := getPost(tt.args.ctx, tt.args.req.ReplyToID)
					require.Zero(t, parent.ReplyCount)
				}
				return
			}

			require.NoError(t, err)
			require.Equal(t, strings.TrimSpace(tt.args.req.Content), got.Post.Content)
			require.Equal(t, testutil.User1.Username, got.Post.Author.Username)
		})
	}
}

func Test_postDomain_Create_Mentions(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestPostDomain()

	resp, err := d.Create(ctx, &model.CreatePostRequest{Content: "hello @alice and @nobody @charlie @alice"})
	require.NoError(t, err)

	notifications := getNotificationsByPostID(ctx, resp.Post.ID)
	require.Len(t, notifications, 1)
	require.Equal(t, testutil.User1.ID, notifications[0].UserID)
	require.Equal(t, entity.NotificationMention, notifications[0].Type)
	require.Equal(t, `You were mentioned in a post: "hello @alice and @nobody @charlie @alice"`,
		notifications[0].Message)
	require.Equal(t, testutil.User3.ID, notifications[0].ActorID.String)
}

func Test_postDomain_Create_MentionPreview(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestPostDomain()

	content := "@alice " + strings.Repeat("b", 150)
	resp, err := d.Create(ctx, &model.CreatePostRequest{Content: content, ReplyToID: testutil.Post1.ID})
	require.NoError(t, err)

	notifications := getNotificationsByPostID(ctx, resp.Post.ID)
	require.Len(t, notifications, 1)
	require.Equal(t, `You were mentioned in a reply: "`+content[:100]+`"`, notifications[0].Message)

	parent := getPost(ctx, testutil.Post1.ID)
	require.Equal(t, testutil.Post1.ReplyCount+1, parent.ReplyCount)
}

func Test_postDomain_Create_Hashtags(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestPostDomain()

	resp, err := d.Create(ctx, &model.CreatePostRequest{Content: "#Go and #golang again"})
	require.NoError(t, err)

	byGo, err := d.GetByHashtag(ctx, &model.GetPostsByHashtagRequest{Hashtag: "#go"})
	require.NoError(t, err)
	require.Len(t, byGo.Posts, 1)
	require.Equal(t, resp.Post.ID, byGo.Posts[0].ID)

	byGolang, err := d.GetByHashtag(ctx, &model.GetPostsByHashtagRequest{Hashtag: "golang"})
	require.NoError(t, err)
	require.Len(t, byGolang.Posts, 2)
	require.Equal(t, resp.Post.ID, byGolang.Posts[0].ID)
	require.Equal(t, testutil.Post1.ID, byGolang.Posts[1].ID)

	trending, err := d.GetTrendingHashtags(ctx, &model.GetTrendingHashtagsRequest{})
	require.NoError(t, err)
	require.Equal(t, []model.Hashtag{{Name: "golang", Count: 2}, {Name: "go", Count: 1}}, trending.Hashtags)

	_, err = d.GetByHashtag(ctx, &model.GetPostsByHashtagRequest{Hashtag: "rust"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found hashtag"), err)
}

func Test_postDomain_Edit(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestPostDomain()

	_, err := d.Edit(ctx, &model.EditPostRequest{PostID: testutil.Post1.ID, Content: "second version #rust"})
	require.NoError(t, err)

	resp, err := d.Edit(ctx, &model.EditPostRequest{PostID: testutil.Post1.ID, Content: "third version"})
	require.NoError(t, err)
	require.True(t, resp.Post.IsEdited)
	require.Equal(t, "third version", resp.Post.Content)

	history, err := d.GetEditHistory(ctx, &model.GetEditHistoryRequest{PostID: testutil.Post1.ID})
	require.NoError(t, err)
	require.Len(t, history.History, 2)
	require.Equal(t, testutil.Post1.Content, history.History[0].Content)
	require.Equal(t, "second version #rust", history.History[1].Content)
	require.LessOrEqual(t, history.History[0].EditedAt, history.History[1].EditedAt)

	// The hashtags follow the latest content.
	_, err = d.GetByHashtag(ctx, &model.GetPostsByHashtagRequest{Hashtag: "rust"})
	require.NoError(t, err)
	byGolang, err := d.GetByHashtag(ctx, &model.GetPostsByHashtagRequest{Hashtag: "golang"})
	require.NoError(t, err)
	require.Empty(t, byGolang.Posts)
}

func Test_postDomain_Edit_Errors(t *testing.T) {
	type args struct {
		ctx context.Context
		req *model.EditPostRequest
	}
	tests := []struct {
		name    string
		args    args
		wantErr error
	}{
		{
			name: "not author",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User2.ID),
				req: &model.EditPostRequest{PostID: testutil.Post1.ID, Content: "hacked"},
			},
			wantErr: errorx.New(errorx.PermissionDenied, "Only author can edit this post"),
		},
		{
			name: "empty content",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User1.ID),
				req: &model.EditPostRequest{PostID: testutil.Post1.ID},
			},
			wantErr: errorx.New(errorx.BadRequest, "Post content is required"),
		},
		{
			name: "not found post",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User1.ID),
				req: &model.EditPostRequest{PostID: "invalid-post", Content: "x"},
			},
			wantErr: errorx.New(errorx.NotFound, "Not found post"),
		},
		{
			name: "poll post",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User1.ID),
				req: &model.EditPostRequest{PostID: testutil.Post4.ID, Content: "x"},
			},
			wantErr: errorx.New(errorx.BadRequest, "Cannot edit a poll"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.CreateFixtureDb(tt.args.ctx)
			d := newTestPostDomain()

			_, err := d.Edit(tt.args.ctx, tt.args.req)
			require.Equal(t, tt.wantErr, err)

			post := getPost(tt.args.ctx, testutil.Post1.ID)
			require.Equal(t, testutil.Post1.Content, post.Content)
			require.Empty(t, post.EditHistory)
		})
	}
}

func Test_postDomain_Delete(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	deleted := []string{}
	d := NewPostDomain(
		repository.NewPostRepository(),
		repository.NewUserRepository(),
		repository.NewFollowRepository(),
		repository.NewHashtagRepository(),
		repository.NewNotificationRepository(),
		repository.NewLikeRepository(),
		repository.NewRetweetRepository(),
		&testutil.MockSearchIndex{
			DeletePostFunc: func(ctx context.Context, id string) error {
				deleted = append(deleted, id)
				return nil
			},
		},
		event.NewEmitter(&testutil.MockPublisher{}),
	)

	_, err := d.Delete(ctx, &model.DeletePostRequest{PostID: testutil.Post3.ID})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Only author can delete this post"), err)

	_, err = d.Delete(ctx, &model.DeletePostRequest{PostID: testutil.Post1.ID})
	require.NoError(t, err)
	require.Equal(t, []string{testutil.Post1.ID}, deleted)

	_, err = d.Get(ctx, &model.GetPostRequest{PostID: testutil.Post1.ID})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found post"), err)

	// The reply survives and shows its parent as deleted.
	reply, err := d.Get(ctx, &model.GetPostRequest{PostID: testutil.Post3.ID})
	require.NoError(t, err)
	require.Equal(t, testutil.Post1.ID, reply.Post.ReplyToID)
	require.NotNil(t, reply.Parent)
	require.True(t, reply.Parent.IsDeleted)
	require.Empty(t, reply.Parent.Content)

	replies, err := d.GetReplies(ctx, &model.GetRepliesRequest{PostID: testutil.Post1.ID})
	require.NoError(t, err)
	require.Len(t, replies.Posts, 1)

	_, err = d.Delete(ctx, &model.DeletePostRequest{PostID: testutil.Post1.ID})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found post"), err)
}

func Test_postDomain_Get(t *testing.T) {
	type args struct {
		ctx context.Context
		req *model.GetPostRequest
	}
	tests := []struct {
		name      string
		args      args
		wantLiked bool
		wantErr   error
	}{
		{
			name: "liked by viewer",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User2.ID),
				req: &model.GetPostRequest{PostID: testutil.Post1.ID},
			},
			wantLiked: true,
		},
		{
			name: "anonymous viewer",
			args: args{
				ctx: testutil.MockContext(),
				req: &model.GetPostRequest{PostID: testutil.Post1.ID},
			},
		},
		{
			name: "private post seen by follower",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User1.ID),
				req: &model.GetPostRequest{PostID: testutil.Post2.ID},
			},
		},
		{
			name: "private post seen by stranger",
			args: args{
				ctx: testutil.MockContextWithUserID(testutil.User3.ID),
				req: &model.GetPostRequest{PostID: testutil.Post2.ID},
			},
			wantErr: errorx.New(errorx.PermissionDenied, "This account is private"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.CreateFixtureDb(tt.args.ctx)
			d := newTestPostDomain()

			got, err := d.Get(tt.args.ctx, tt.args.req)
			if tt.wantErr != nil {
				require.Equal(t, tt.wantErr, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.args.req.PostID, got.Post.ID)
			require.Equal(t, tt.wantLiked, got.Post.Liked)
		})
	}
}

func Test_postDomain_Get_PrivateParent(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestPostDomain()

	reply, err := d.Create(ctx, &model.CreatePostRequest{Content: "agreed", ReplyToID: testutil.Post2.ID})
	require.NoError(t, err)

	got, err := d.Get(ctx, &model.GetPostRequest{PostID: reply.Post.ID})
	require.NoError(t, err)
	require.NotNil(t, got.Parent)
	require.Equal(t, testutil.Post2.Content, got.Parent.Content)

	strangerCtx := xcontext.WithRequestUserID(ctx, testutil.User5.ID)
	got, err = d.Get(strangerCtx, &model.GetPostRequest{PostID: reply.Post.ID})
	require.NoError(t, err)
	require.Equal(t, "agreed", got.Post.Content)
	require.Nil(t, got.Parent)

	got, err = d.Get(xcontext.WithRequestUserID(ctx, ""), &model.GetPostRequest{PostID: reply.Post.ID})
	require.NoError(t, err)
	require.Nil(t, got.Parent)
}

func Test_postDomain_Create_Rollback(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)

	notificationRepo := &mockNotificationRepository{
		NotificationRepository: repository.NewNotificationRepository(),
		CreateManyFunc: func(ctx context.Context, data []entity.Notification) error {
			return errors.New("disk is full")
		},
	}
	d := NewPostDomain(
		repository.NewPostRepository(),
		repository.NewUserRepository(),
		repository.NewFollowRepository(),
		repository.NewHashtagRepository(),
		notificationRepo,
		repository.NewLikeRepository(),
		repository.NewRetweetRepository(),
		&testutil.MockSearchIndex{},
		event.NewEmitter(&testutil.MockPublisher{}),
	)

	_, err := d.Create(ctx, &model.CreatePostRequest{
		Content:   "thanks @alice #rollback",
		ReplyToID: testutil.Post1.ID,
	})
	require.Equal(t, errorx.Unknown, err)

	require.Zero(t, countRows(ctx, &entity.Post{}, "author_id=? AND content=?",
		testutil.User3.ID, "thanks @alice #rollback"))
	require.Zero(t, countRows(ctx, &entity.Hashtag{}, "name=?", "rollback"))
	require.Equal(t, testutil.Post1.ReplyCount, getPost(ctx, testutil.Post1.ID).ReplyCount)
	require.EqualValues(t, len(testutil.Notifications),
		countRows(ctx, &entity.Notification{}, "user_id=?", testutil.User1.ID))
}

func Test_postDomain_GetTimeline(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	d := newTestPostDomain()

	resp, err := d.GetTimeline(ctx, &model.GetTimelineRequest{})
	require.NoError(t, err)

	ids := []string{}
	for _, p := range resp.Posts {
		ids = append(ids, p.ID)
	}
	require.Equal(t, []string{testutil.Post4.ID, testutil.Post2.ID, testutil.Post1.ID}, ids)

	_, err = d.GetTimeline(testutil.MockContext(), &model.GetTimelineRequest{})
	require.Equal(t, errorx.New(errorx.Unauthenticated, "You need to authenticate before"), err)
}

func Test_postDomain_Search(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)

	d := newTestPostDomain()
	d.searchIndex = &testutil.MockSearchIndex{
		SearchPostsFunc: func(ctx context.Context, query string, offset, limit int) ([]string, error) {
			return []string{testutil.Post4.ID, testutil.Post2.ID, "stale-id", testutil.Post1.ID}, nil
		},
	}

	resp, err := d.Search(ctx, &model.SearchPostsRequest{Q: "anything"})
	require.NoError(t, err)

	// Post2 is private and the search result keeps the index ranking.
	ids := []string{}
	for _, p := range resp.Posts {
		ids = append(ids, p.ID)
	}
	require.Equal(t, []string{testutil.Post4.ID, testutil.Post1.ID}, ids)
}

var _ search.Index = &testutil.MockSearchIndex{}

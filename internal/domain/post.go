package domain

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ywitter/backend/internal/common"
	"github.com/ywitter/backend/internal/domain/event"
	"github.com/ywitter/backend/internal/domain/search"
	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/internal/model"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/errorx"
	"github.com/ywitter/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const trendingWindow = 7 * 24 * time.Hour

type PostDomain interface {
	Create(context.Context, *model.CreatePostRequest) (*model.CreatePostResponse, error)
	Edit(context.Context, *model.EditPostRequest) (*model.EditPostResponse, error)
	GetEditHistory(context.Context, *model.GetEditHistoryRequest) (*model.GetEditHistoryResponse, error)
	Delete(context.Context, *model.DeletePostRequest) (*model.DeletePostResponse, error)
	Get(context.Context, *model.GetPostRequest) (*model.GetPostResponse, error)
	GetReplies(context.Context, *model.GetRepliesRequest) (*model.GetRepliesResponse, error)
	GetTimeline(context.Context, *model.GetTimelineRequest) (*model.GetTimelineResponse, error)
	GetByHashtag(context.Context, *model.GetPostsByHashtagRequest) (*model.GetPostsByHashtagResponse, error)
	GetTrendingHashtags(context.Context, *model.GetTrendingHashtagsRequest) (*model.GetTrendingHashtagsResponse, error)
	Search(context.Context, *model.SearchPostsRequest) (*model.SearchPostsResponse, error)
}

type postDomain struct {
	postRepo     repository.PostRepository
	userRepo     repository.UserRepository
	hashtagRepo  repository.HashtagRepository
	roleVerifier *common.GlobalRoleVerifier
	writer       *postWriter
	presenter    *postPresenter
	searchIndex  search.Index
	emitter      event.Emitter
}

func NewPostDomain(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	hashtagRepo repository.HashtagRepository,
	notificationRepo repository.NotificationRepository,
	likeRepo repository.LikeRepository,
	retweetRepo repository.RetweetRepository,
	searchIndex search.Index,
	emitter event.Emitter,
) *postDomain {
	return &postDomain{
		postRepo:     postRepo,
		userRepo:     userRepo,
		hashtagRepo:  hashtagRepo,
		roleVerifier: common.NewGlobalRoleVerifier(userRepo),
		writer: newPostWriter(
			postRepo, userRepo, followRepo, hashtagRepo, notificationRepo, searchIndex, emitter),
		presenter:   newPostPresenter(userRepo, followRepo, likeRepo, retweetRepo),
		searchIndex: searchIndex,
		emitter:     emitter,
	}
}

func (d *postDomain) Create(
	ctx context.Context, req *model.CreatePostRequest,
) (*model.CreatePostResponse, error) {
	author, err := d.roleVerifier.VerifyActive(ctx)
	if err != nil {
		return nil, err
	}

	post := &entity.Post{
		Base:          entity.Base{ID: newID()},
		AuthorID:      author.ID,
		Content:       strings.TrimSpace(req.Content),
		MediaFilename: req.MediaFilename,
	}

	if req.ReplyToID != "" {
		post.ReplyToID = sql.NullString{Valid: true, String: req.ReplyToID}
	}

	post.MediaType, err = checkPostMedia(req.MediaType, req.MediaFilename)
	if err != nil {
		return nil, err
	}

	if err := checkPostContent(ctx, post.Content, post.MediaType != entity.MediaNone); err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.writer.create(ctx, post); err != nil {
		return nil, err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit post: %v", err)
		return nil, errorx.Unknown
	}

	d.writer.afterCreate(ctx, post, author)

	clientPost, err := d.presenter.presentOne(ctx, post)
	if err != nil {
		return nil, err
	}

	return &model.CreatePostResponse{Post: clientPost}, nil
}

func (d *postDomain) Edit(
	ctx context.Context, req *model.EditPostRequest,
) (*model.EditPostResponse, error) {
	author, err := d.roleVerifier.VerifyActive(ctx)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if err := checkPostContent(ctx, content, false); err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	post, err := d.postRepo.GetByIDForUpdate(ctx, req.PostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found post")
		}

		xcontext.Logger(ctx).Errorf("Cannot get post: %v", err)
		return nil, errorx.Unknown
	}

	if post.AuthorID != author.ID {
		return nil, errorx.New(errorx.PermissionDenied, "Only author can edit this post")
	}

	if post.MediaType == entity.MediaPoll {
		return nil, errorx.New(errorx.BadRequest, "Cannot edit a poll")
	}

	post.EditHistory = append(post.EditHistory, entity.EditHistoryEntry{
		Content:  post.Content,
		EditedAt: time.Now(),
	})
	post.Content = content
	post.IsEdited = true

	if err := d.postRepo.UpdateContent(ctx, post.ID, post.Content, post.EditHistory); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update post content: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.writer.syncHashtags(ctx, post); err != nil {
		return nil, err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit post edit: %v", err)
		return nil, errorx.Unknown
	}

	d.writer.index(ctx, post, author)
	d.emitter.Emit(ctx, entity.EventPostEdited, []string{post.AuthorID}, event.PostData{
		PostID:   post.ID,
		AuthorID: post.AuthorID,
		Content:  post.Content,
	})

	clientPost, err := d.presenter.presentOne(ctx, post)
	if err != nil {
		return nil, err
	}

	return &model.EditPostResponse{Post: clientPost}, nil
}

func (d *postDomain) GetEditHistory(
	ctx context.Context, req *model.GetEditHistoryRequest,
) (*model.GetEditHistoryResponse, error) {
	post, err := d.presenter.visiblePost(ctx, d.postRepo, req.PostID)
	if err != nil {
		return nil, err
	}

	return &model.GetEditHistoryResponse{History: model.ConvertEditHistory(post.EditHistory)}, nil
}

func (d *postDomain) Delete(
	ctx context.Context, req *model.DeletePostRequest,
) (*model.DeletePostResponse, error) {
	author, err := d.roleVerifier.VerifyActive(ctx)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	post, err := d.postRepo.GetByIDForUpdate(ctx, req.PostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found post")
		}

		xcontext.Logger(ctx).Errorf("Cannot get post: %v", err)
		return nil, errorx.Unknown
	}

	if post.AuthorID != author.ID {
		return nil, errorx.New(errorx.PermissionDenied, "Only author can delete this post")
	}

	if err := d.writer.delete(ctx, post); err != nil {
		return nil, err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit post deletion: %v", err)
		return nil, errorx.Unknown
	}

	d.writer.afterDelete(ctx, post)

	return &model.DeletePostResponse{}, nil
}

func (d *postDomain) Get(
	ctx context.Context, req *model.GetPostRequest,
) (*model.GetPostResponse, error) {
	post, err := d.presenter.visiblePost(ctx, d.postRepo, req.PostID)
	if err != nil {
		return nil, err
	}

	posts := []entity.Post{*post}
	if post.ReplyToID.Valid {
		parent, err := d.postRepo.GetByIDUnscoped(ctx, post.ReplyToID.String)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get parent post: %v", err)
			return nil, errorx.Unknown
		}

		// A parent hidden by the privacy of its author is left out.
		err = checkVisible(ctx, d.userRepo, d.presenter.followRepo, parent)
		switch {
		case err == nil:
			posts = append(posts, *parent)
		case !errorx.Is(err, errorx.PermissionDenied):
			return nil, err
		}
	}

	clientPosts, err := d.presenter.present(ctx, posts)
	if err != nil {
		return nil, err
	}

	resp := &model.GetPostResponse{Post: clientPosts[0]}
	if len(clientPosts) > 1 {
		resp.Parent = &clientPosts[1]
	}

	return resp, nil
}

func (d *postDomain) GetReplies(
	ctx context.Context, req *model.GetRepliesRequest,
) (*model.GetRepliesResponse, error) {
	if err := checkPagination(ctx, req.Offset, &req.Limit); err != nil {
		return nil, err
	}

	// Replies of a deleted post are still readable.
	if _, err := d.postRepo.GetByIDUnscoped(ctx, req.PostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found post")
		}

		xcontext.Logger(ctx).Errorf("Cannot get post: %v", err)
		return nil, errorx.Unknown
	}

	replies, err := d.postRepo.GetReplies(ctx, req.PostID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get replies: %v", err)
		return nil, errorx.Unknown
	}

	posts, err := d.presentVisible(ctx, replies)
	if err != nil {
		return nil, err
	}

	return &model.GetRepliesResponse{Posts: posts}, nil
}

func (d *postDomain) GetTimeline(
	ctx context.Context, req *model.GetTimelineRequest,
) (*model.GetTimelineResponse, error) {
	if err := checkPagination(ctx, req.Offset, &req.Limit); err != nil {
		return nil, err
	}

	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	timeline, err := d.postRepo.GetTimeline(ctx, userID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get timeline: %v", err)
		return nil, errorx.Unknown
	}

	posts, err := d.presenter.present(ctx, timeline)
	if err != nil {
		return nil, err
	}

	return &model.GetTimelineResponse{Posts: posts}, nil
}

func (d *postDomain) GetByHashtag(
	ctx context.Context, req *model.GetPostsByHashtagRequest,
) (*model.GetPostsByHashtagResponse, error) {
	if err := checkPagination(ctx, req.Offset, &req.Limit); err != nil {
		return nil, err
	}

	name := strings.ToLower(strings.TrimPrefix(req.Hashtag, "#"))
	hashtag, err := d.hashtagRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found hashtag")
		}

		xcontext.Logger(ctx).Errorf("Cannot get hashtag: %v", err)
		return nil, errorx.Unknown
	}

	hashtagPosts, err := d.postRepo.GetByHashtagID(ctx, hashtag.ID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get posts by hashtag: %v", err)
		return nil, errorx.Unknown
	}

	posts, err := d.presentVisible(ctx, hashtagPosts)
	if err != nil {
		return nil, err
	}

	return &model.GetPostsByHashtagResponse{Posts: posts}, nil
}

func (d *postDomain) GetTrendingHashtags(
	ctx context.Context, req *model.GetTrendingHashtagsRequest,
) (*model.GetTrendingHashtagsResponse, error) {
	if err := checkPagination(ctx, 0, &req.Limit); err != nil {
		return nil, err
	}

	trending, err := d.hashtagRepo.GetTrending(ctx, time.Now().Add(-trendingWindow), req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get trending hashtags: %v", err)
		return nil, errorx.Unknown
	}

	hashtags := []model.Hashtag{}
	for _, h := range trending {
		hashtags = append(hashtags, model.Hashtag{Name: h.Name, Count: h.Count})
	}

	return &model.GetTrendingHashtagsResponse{Hashtags: hashtags}, nil
}

func (d *postDomain) Search(
	ctx context.Context, req *model.SearchPostsRequest,
) (*model.SearchPostsResponse, error) {
	if err := checkPagination(ctx, req.Offset, &req.Limit); err != nil {
		return nil, err
	}

	ids, err := d.searchIndex.SearchPosts(ctx, req.Q, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot search posts: %v", err)
		return nil, errorx.Unknown
	}

	found, err := d.postRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get posts by ids: %v", err)
		return nil, errorx.Unknown
	}

	// Keep the ranking of the search engine.
	postMap := map[string]entity.Post{}
	for _, p := range found {
		postMap[p.ID] = p
	}

	ranked := []entity.Post{}
	for _, id := range ids {
		if p, ok := postMap[id]; ok {
			ranked = append(ranked, p)
		}
	}

	posts, err := d.presentVisible(ctx, ranked)
	if err != nil {
		return nil, err
	}

	return &model.SearchPostsResponse{Posts: posts}, nil
}

func (d *postDomain) presentVisible(ctx context.Context, posts []entity.Post) ([]model.Post, error) {
	visible, err := d.presenter.filterVisible(ctx, posts)
	if err != nil {
		return nil, err
	}

	return d.presenter.present(ctx, visible)
}

func checkPostMedia(mediaType, filename string) (entity.MediaType, error) {
	t, err := enumMediaType(mediaType)
	if err != nil {
		return "", err
	}

	if t != entity.MediaNone && filename == "" {
		return "", errorx.New(errorx.BadRequest, "Media filename is required")
	}

	return t, nil
}

func enumMediaType(mediaType string) (entity.MediaType, error) {
	switch entity.MediaType(mediaType) {
	case entity.MediaNone, entity.MediaImage, entity.MediaVideo:
		return entity.MediaType(mediaType), nil
	}

	return "", errorx.New(errorx.BadRequest, "Invalid media type")
}

func checkPostContent(ctx context.Context, content string, hasMedia bool) error {
	if content == "" && !hasMedia {
		return errorx.New(errorx.BadRequest, "Post content is required")
	}

	maxLength := xcontext.Configs(ctx).Post.MaxContentLength
	if utf8.RuneCountInString(content) > maxLength {
		return errorx.New(errorx.BadRequest, "Content is too long (at most %d characters)", maxLength)
	}

	return nil
}

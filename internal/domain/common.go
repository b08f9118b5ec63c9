package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/internal/model"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/errorx"
	"github.com/ywitter/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// checkPagination applies the default limit and rejects invalid offset and
// limit values.
func checkPagination(ctx context.Context, offset int, limit *int) error {
	if offset < 0 {
		return errorx.New(errorx.BadRequest, "Not allow negative offset")
	}

	apiCfg := xcontext.Configs(ctx).ApiServer
	if *limit == 0 {
		*limit = apiCfg.DefaultLimit
	}

	if *limit < 0 {
		return errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if *limit > apiCfg.MaxLimit {
		return errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", apiCfg.MaxLimit)
	}

	return nil
}

// postPresenter converts posts to their client form with authors and the
// engagement flags of the request user.
type postPresenter struct {
	userRepo    repository.UserRepository
	followRepo  repository.FollowRepository
	likeRepo    repository.LikeRepository
	retweetRepo repository.RetweetRepository
}

func newPostPresenter(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	likeRepo repository.LikeRepository,
	retweetRepo repository.RetweetRepository,
) *postPresenter {
	return &postPresenter{
		userRepo:    userRepo,
		followRepo:  followRepo,
		likeRepo:    likeRepo,
		retweetRepo: retweetRepo,
	}
}

// canView reports whether the request user may see the content of author. A
// private profile is visible to its owner and followers only.
func (p *postPresenter) canView(ctx context.Context, author *entity.User) (bool, error) {
	return canViewAuthor(ctx, p.followRepo, author)
}

func canViewAuthor(
	ctx context.Context, followRepo repository.FollowRepository, author *entity.User,
) (bool, error) {
	viewerID := xcontext.RequestUserID(ctx)
	if !author.IsPrivate || viewerID == author.ID {
		return true, nil
	}

	if viewerID == "" {
		return false, nil
	}

	return followRepo.Exists(ctx, viewerID, author.ID)
}

// checkVisible fails with PermissionDenied when the author of post hides it
// from the request user.
func checkVisible(
	ctx context.Context,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	post *entity.Post,
) error {
	author, err := userRepo.GetByID(ctx, post.AuthorID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get post author: %v", err)
		return errorx.Unknown
	}

	ok, err := canViewAuthor(ctx, followRepo, author)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check follow: %v", err)
		return errorx.Unknown
	}

	if !ok {
		return errorx.New(errorx.PermissionDenied, "This account is private")
	}

	return nil
}

// visiblePost returns the post unless it is deleted or hidden by the privacy of
// its author.
func (p *postPresenter) visiblePost(
	ctx context.Context, postRepo repository.PostRepository, postID string,
) (*entity.Post, error) {
	post, err := postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found post")
		}

		xcontext.Logger(ctx).Errorf("Cannot get post: %v", err)
		return nil, errorx.Unknown
	}

	if err := checkVisible(ctx, p.userRepo, p.followRepo, post); err != nil {
		return nil, err
	}

	return post, nil
}

// filterVisible drops the posts of private authors the request user cannot
// view.
func (p *postPresenter) filterVisible(ctx context.Context, posts []entity.Post) ([]entity.Post, error) {
	authorIDs := []string{}
	for _, post := range posts {
		authorIDs = append(authorIDs, post.AuthorID)
	}

	if len(authorIDs) == 0 {
		return posts, nil
	}

	authors, err := p.userRepo.GetByIDs(ctx, authorIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get post authors: %v", err)
		return nil, errorx.Unknown
	}

	visible := map[string]bool{}
	for i := range authors {
		ok, err := p.canView(ctx, &authors[i])
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot check follow: %v", err)
			return nil, errorx.Unknown
		}

		visible[authors[i].ID] = ok
	}

	result := []entity.Post{}
	for _, post := range posts {
		if visible[post.AuthorID] {
			result = append(result, post)
		}
	}

	return result, nil
}

func (p *postPresenter) present(ctx context.Context, posts []entity.Post) ([]model.Post, error) {
	result := []model.Post{}
	if len(posts) == 0 {
		return result, nil
	}

	authorIDs := []string{}
	postIDs := []string{}
	for _, post := range posts {
		authorIDs = append(authorIDs, post.AuthorID)
		postIDs = append(postIDs, post.ID)
	}

	authors, err := p.userRepo.GetByIDs(ctx, authorIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get post authors: %v", err)
		return nil, errorx.Unknown
	}

	authorMap := map[string]model.ShortUser{}
	for i := range authors {
		authorMap[authors[i].ID] = model.ConvertShortUser(&authors[i])
	}

	liked := map[string]bool{}
	retweeted := map[string]bool{}
	if viewerID := xcontext.RequestUserID(ctx); viewerID != "" {
		likedIDs, err := p.likeRepo.GetLikedPostIDs(ctx, viewerID, postIDs)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get liked posts: %v", err)
			return nil, errorx.Unknown
		}

		for _, id := range likedIDs {
			liked[id] = true
		}

		retweetedIDs, err := p.retweetRepo.GetRetweetedPostIDs(ctx, viewerID, postIDs)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get retweeted posts: %v", err)
			return nil, errorx.Unknown
		}

		for _, id := range retweetedIDs {
			retweeted[id] = true
		}
	}

	for i := range posts {
		post := &posts[i]
		result = append(result, model.ConvertPost(
			post, authorMap[post.AuthorID], liked[post.ID], retweeted[post.ID]))
	}

	return result, nil
}

func (p *postPresenter) presentOne(ctx context.Context, post *entity.Post) (model.Post, error) {
	posts, err := p.present(ctx, []entity.Post{*post})
	if err != nil {
		return model.Post{}, err
	}

	return posts[0], nil
}

func requireUserID(ctx context.Context) (string, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return "", errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	return userID, nil
}

func newID() string {
	return uuid.NewString()
}

package domain

import (
	"context"
	"errors"

	"github.com/ywitter/backend/internal/common"
	"github.com/ywitter/backend/internal/domain/event"
	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/internal/model"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/enum"
	"github.com/ywitter/backend/pkg/errorx"
	"github.com/ywitter/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type EngagementDomain interface {
	ToggleLike(context.Context, *model.ToggleLikeRequest) (*model.ToggleLikeResponse, error)
	ToggleReaction(context.Context, *model.ToggleReactionRequest) (*model.ToggleReactionResponse, error)
	Retweet(context.Context, *model.RetweetRequest) (*model.RetweetResponse, error)
	GetReactions(context.Context, *model.GetReactionsRequest) (*model.GetReactionsResponse, error)
}

type engagementDomain struct {
	postRepo     repository.PostRepository
	likeRepo     repository.LikeRepository
	retweetRepo  repository.RetweetRepository
	reactionRepo repository.ReactionRepository
	roleVerifier *common.GlobalRoleVerifier
	presenter    *postPresenter
	emitter      event.Emitter
}

func NewEngagementDomain(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	likeRepo repository.LikeRepository,
	retweetRepo repository.RetweetRepository,
	reactionRepo repository.ReactionRepository,
	emitter event.Emitter,
) *engagementDomain {
	return &engagementDomain{
		postRepo:     postRepo,
		likeRepo:     likeRepo,
		retweetRepo:  retweetRepo,
		reactionRepo: reactionRepo,
		roleVerifier: common.NewGlobalRoleVerifier(userRepo),
		presenter:    newPostPresenter(userRepo, followRepo, likeRepo, retweetRepo),
		emitter:      emitter,
	}
}

func (d *engagementDomain) ToggleLike(
	ctx context.Context, req *model.ToggleLikeRequest,
) (*model.ToggleLikeResponse, error) {
	user, err := d.roleVerifier.VerifyActive(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := d.presenter.visiblePost(ctx, d.postRepo, req.PostID); err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	liked := false
	err = d.likeRepo.Delete(ctx, user.ID, req.PostID)
	switch {
	case err == nil:
		err = d.postRepo.UpdateCounter(ctx, req.PostID, repository.LikeCounter, -1)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot decrease like count: %v", err)
			return nil, errorx.Unknown
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		liked = true
		err = d.likeRepo.Create(ctx, &entity.Like{UserID: user.ID, PostID: req.PostID})
		if err != nil && !errors.Is(err, repository.ErrDuplicateRecord) {
			xcontext.Logger(ctx).Errorf("Cannot create like: %v", err)
			return nil, errorx.Unknown
		}

		// A concurrent request inserted the same like first.
		if err == nil {
			err = d.postRepo.UpdateCounter(ctx, req.PostID, repository.LikeCounter, 1)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot increase like count: %v", err)
				return nil, errorx.Unknown
			}
		}

	default:
		xcontext.Logger(ctx).Errorf("Cannot delete like: %v", err)
		return nil, errorx.Unknown
	}

	post, err := d.postRepo.GetByID(ctx, req.PostID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get post: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit like: %v", err)
		return nil, errorx.Unknown
	}

	if liked {
		common.IncreaseCounter(common.EngagementActionTotal, "like")
		d.emitter.Emit(ctx, entity.EventPostLiked, []string{post.AuthorID},
			event.EngagementData{PostID: post.ID, UserID: user.ID})
	} else {
		common.IncreaseCounter(common.EngagementActionTotal, "unlike")
	}

	return &model.ToggleLikeResponse{Liked: liked, LikeCount: post.LikeCount}, nil
}

func (d *engagementDomain) ToggleReaction(
	ctx context.Context, req *model.ToggleReactionRequest,
) (*model.ToggleReactionResponse, error) {
	reactionType, err := enum.ToEnum[entity.ReactionType](req.Type)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid reaction type: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid reaction type")
	}

	user, err := d.roleVerifier.VerifyActive(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := d.presenter.visiblePost(ctx, d.postRepo, req.PostID); err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	added := false
	err = d.reactionRepo.Delete(ctx, user.ID, req.PostID, reactionType)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot delete reaction: %v", err)
			return nil, errorx.Unknown
		}

		added = true
		err = d.reactionRepo.Create(ctx, &entity.Reaction{
			UserID: user.ID,
			PostID: req.PostID,
			Type:   reactionType,
		})
		if err != nil && !errors.Is(err, repository.ErrDuplicateRecord) {
			xcontext.Logger(ctx).Errorf("Cannot create reaction: %v", err)
			return nil, errorx.Unknown
		}
	}

	count, err := d.reactionRepo.Count(ctx, req.PostID, reactionType)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count reactions: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit reaction: %v", err)
		return nil, errorx.Unknown
	}

	common.IncreaseCounter(common.EngagementActionTotal, "reaction")

	return &model.ToggleReactionResponse{Added: added, Count: count}, nil
}

func (d *engagementDomain) Retweet(
	ctx context.Context, req *model.RetweetRequest,
) (*model.RetweetResponse, error) {
	user, err := d.roleVerifier.VerifyActive(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := d.presenter.visiblePost(ctx, d.postRepo, req.PostID); err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.retweetRepo.Create(ctx, &entity.Retweet{UserID: user.ID, PostID: req.PostID})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateRecord) {
			return nil, errorx.New(errorx.AlreadyExists, "Already retweeted")
		}

		xcontext.Logger(ctx).Errorf("Cannot create retweet: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.postRepo.UpdateCounter(ctx, req.PostID, repository.RetweetCounter, 1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase retweet count: %v", err)
		return nil, errorx.Unknown
	}

	post, err := d.postRepo.GetByID(ctx, req.PostID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get post: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit retweet: %v", err)
		return nil, errorx.Unknown
	}

	common.IncreaseCounter(common.EngagementActionTotal, "retweet")
	d.emitter.Emit(ctx, entity.EventPostRetweeted, []string{post.AuthorID},
		event.EngagementData{PostID: post.ID, UserID: user.ID})

	return &model.RetweetResponse{RetweetCount: post.RetweetCount}, nil
}

func (d *engagementDomain) GetReactions(
	ctx context.Context, req *model.GetReactionsRequest,
) (*model.GetReactionsResponse, error) {
	if _, err := d.presenter.visiblePost(ctx, d.postRepo, req.PostID); err != nil {
		return nil, err
	}

	counts, err := d.reactionRepo.CountByPostID(ctx, req.PostID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count reactions: %v", err)
		return nil, errorx.Unknown
	}

	reactions := []model.Reaction{}
	for _, c := range counts {
		reactions = append(reactions, model.Reaction{Type: string(c.Type), Count: c.Count})
	}

	mine := []string{}
	if viewerID := xcontext.RequestUserID(ctx); viewerID != "" {
		types, err := d.reactionRepo.GetUserTypes(ctx, viewerID, req.PostID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get user reactions: %v", err)
			return nil, errorx.Unknown
		}

		for _, t := range types {
			mine = append(mine, string(t))
		}
	}

	return &model.GetReactionsResponse{Reactions: reactions, Mine: mine}, nil
}

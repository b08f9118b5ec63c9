package domain

import (
	"context"
	"errors"

	"github.com/ywitter/backend/internal/common"
	"github.com/ywitter/backend/internal/domain/event"
	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/internal/model"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/errorx"
	"github.com/ywitter/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type FollowDomain interface {
	Follow(context.Context, *model.FollowRequest) (*model.FollowResponse, error)
	Unfollow(context.Context, *model.UnfollowRequest) (*model.UnfollowResponse, error)
	IsFollowing(context.Context, *model.IsFollowingRequest) (*model.IsFollowingResponse, error)
	GetFollowers(context.Context, *model.GetFollowersRequest) (*model.GetFollowersResponse, error)
	GetFollowing(context.Context, *model.GetFollowingRequest) (*model.GetFollowingResponse, error)
}

type followDomain struct {
	followRepo   repository.FollowRepository
	userRepo     repository.UserRepository
	roleVerifier *common.GlobalRoleVerifier
	emitter      event.Emitter
}

func NewFollowDomain(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	emitter event.Emitter,
) *followDomain {
	return &followDomain{
		followRepo:   followRepo,
		userRepo:     userRepo,
		roleVerifier: common.NewGlobalRoleVerifier(userRepo),
		emitter:      emitter,
	}
}

func (d *followDomain) Follow(
	ctx context.Context, req *model.FollowRequest,
) (*model.FollowResponse, error) {
	follower, err := d.roleVerifier.VerifyActive(ctx)
	if err != nil {
		return nil, err
	}

	followed, err := d.getUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	if follower.ID == followed.ID {
		return nil, errorx.New(errorx.BadRequest, "Cannot follow yourself")
	}

	err = d.followRepo.Create(ctx, &entity.Follow{FollowerID: follower.ID, FollowedID: followed.ID})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateRecord) {
			return nil, errorx.New(errorx.AlreadyExists, "Already followed")
		}

		xcontext.Logger(ctx).Errorf("Cannot create follow: %v", err)
		return nil, errorx.Unknown
	}

	d.emitter.Emit(ctx, entity.EventUserFollowed, []string{followed.ID},
		event.FollowData{FollowerID: follower.ID, FollowedID: followed.ID})

	return &model.FollowResponse{}, nil
}

func (d *followDomain) Unfollow(
	ctx context.Context, req *model.UnfollowRequest,
) (*model.UnfollowResponse, error) {
	follower, err := d.roleVerifier.VerifyActive(ctx)
	if err != nil {
		return nil, err
	}

	followed, err := d.getUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	if err := d.followRepo.Delete(ctx, follower.ID, followed.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not following this user")
		}

		xcontext.Logger(ctx).Errorf("Cannot delete follow: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UnfollowResponse{}, nil
}

func (d *followDomain) IsFollowing(
	ctx context.Context, req *model.IsFollowingRequest,
) (*model.IsFollowingResponse, error) {
	followed, err := d.getUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	following, err := d.followRepo.Exists(ctx, xcontext.RequestUserID(ctx), followed.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check follow: %v", err)
		return nil, errorx.Unknown
	}

	return &model.IsFollowingResponse{Following: following}, nil
}

func (d *followDomain) GetFollowers(
	ctx context.Context, req *model.GetFollowersRequest,
) (*model.GetFollowersResponse, error) {
	if err := checkPagination(ctx, req.Offset, &req.Limit); err != nil {
		return nil, err
	}

	user, err := d.getUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	followers, err := d.followRepo.GetFollowers(ctx, user.ID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get followers: %v", err)
		return nil, errorx.Unknown
	}

	users := []model.ShortUser{}
	for i := range followers {
		users = append(users, model.ConvertShortUser(&followers[i]))
	}

	return &model.GetFollowersResponse{Users: users}, nil
}

func (d *followDomain) GetFollowing(
	ctx context.Context, req *model.GetFollowingRequest,
) (*model.GetFollowingResponse, error) {
	if err := checkPagination(ctx, req.Offset, &req.Limit); err != nil {
		return nil, err
	}

	user, err := d.getUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	following, err := d.followRepo.GetFollowing(ctx, user.ID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get following: %v", err)
		return nil, errorx.Unknown
	}

	users := []model.ShortUser{}
	for i := range following {
		users = append(users, model.ConvertShortUser(&following[i]))
	}

	return &model.GetFollowingResponse{Users: users}, nil
}

func (d *followDomain) getUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := d.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return user, nil
}

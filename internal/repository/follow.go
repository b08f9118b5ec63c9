package repository

import (
	"context"

	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/pkg/xcontext"
)

type FollowRepository interface {
	Create(ctx context.Context, data *entity.Follow) error
	Delete(ctx context.Context, followerID, followedID string) error
	Exists(ctx context.Context, followerID, followedID string) (bool, error)
	GetFollowers(ctx context.Context, userID string, offset, limit int) ([]entity.User, error)
	GetFollowing(ctx context.Context, userID string, offset, limit int) ([]entity.User, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
}

type followRepository struct{}

func NewFollowRepository() *followRepository {
	return &followRepository{}
}

// Create inserts the edge, it returns ErrDuplicateRecord if the edge existed.
func (r *followRepository) Create(ctx context.Context, data *entity.Follow) error {
	return createIgnoreConflict(xcontext.DB(ctx), data)
}

func (r *followRepository) Delete(ctx context.Context, followerID, followedID string) error {
	return singleRow(xcontext.DB(ctx).
		Delete(&entity.Follow{}, "follower_id=? AND followed_id=?", followerID, followedID))
}

func (r *followRepository) Exists(ctx context.Context, followerID, followedID string) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Follow{}).
		Where("follower_id=? AND followed_id=?", followerID, followedID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *followRepository) GetFollowers(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.User, error) {
	var result []entity.User
	err := xcontext.DB(ctx).
		Joins("JOIN follows ON follows.follower_id=users.id").
		Where("follows.followed_id=?", userID).
		Order("follows.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *followRepository) GetFollowing(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.User, error) {
	var result []entity.User
	err := xcontext.DB(ctx).
		Joins("JOIN follows ON follows.followed_id=users.id").
		Where("follows.follower_id=?", userID).
		Order("follows.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Follow{}).Where("followed_id=?", userID).Count(&count).Error
	return count, err
}

func (r *followRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Follow{}).Where("follower_id=?", userID).Count(&count).Error
	return count, err
}

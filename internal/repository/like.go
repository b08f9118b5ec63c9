package repository

import (
	"context"

	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/pkg/xcontext"
)

type LikeRepository interface {
	Create(ctx context.Context, data *entity.Like) error
	Delete(ctx context.Context, userID, postID string) error
	GetLikedPostIDs(ctx context.Context, userID string, postIDs []string) ([]string, error)
}

type likeRepository struct{}

func NewLikeRepository() *likeRepository {
	return &likeRepository{}
}

func (r *likeRepository) Create(ctx context.Context, data *entity.Like) error {
	return createIgnoreConflict(xcontext.DB(ctx), data)
}

func (r *likeRepository) Delete(ctx context.Context, userID, postID string) error {
	return singleRow(xcontext.DB(ctx).Delete(&entity.Like{}, "user_id=? AND post_id=?", userID, postID))
}

func (r *likeRepository) GetLikedPostIDs(ctx context.Context, userID string, postIDs []string) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).Model(&entity.Like{}).
		Where("user_id=? AND post_id IN (?)", userID, postIDs).
		Pluck("post_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

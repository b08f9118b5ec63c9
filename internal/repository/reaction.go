package repository

import (
	"context"

	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/pkg/xcontext"
)

type ReactionCount struct {
	Type  entity.ReactionType
	Count int64
}

type ReactionRepository interface {
	Create(ctx context.Context, data *entity.Reaction) error
	Delete(ctx context.Context, userID, postID string, reactionType entity.ReactionType) error
	Count(ctx context.Context, postID string, reactionType entity.ReactionType) (int64, error)
	CountByPostID(ctx context.Context, postID string) ([]ReactionCount, error)
	GetUserTypes(ctx context.Context, userID, postID string) ([]entity.ReactionType, error)
}

type reactionRepository struct{}

func NewReactionRepository() *reactionRepository {
	return &reactionRepository{}
}

func (r *reactionRepository) Create(ctx context.Context, data *entity.Reaction) error {
	return createIgnoreConflict(xcontext.DB(ctx), data)
}

func (r *reactionRepository) Delete(
	ctx context.Context, userID, postID string, reactionType entity.ReactionType,
) error {
	return singleRow(xcontext.DB(ctx).Delete(&entity.Reaction{},
		"user_id=? AND post_id=? AND type=?", userID, postID, reactionType))
}

func (r *reactionRepository) Count(
	ctx context.Context, postID string, reactionType entity.ReactionType,
) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Reaction{}).
		Where("post_id=? AND type=?", postID, reactionType).
		Count(&count).Error
	return count, err
}

func (r *reactionRepository) CountByPostID(ctx context.Context, postID string) ([]ReactionCount, error) {
	var result []ReactionCount
	err := xcontext.DB(ctx).Model(&entity.Reaction{}).
		Select("type, COUNT(*) AS count").
		Where("post_id=?", postID).
		Group("type").
		Order("type").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *reactionRepository) GetUserTypes(
	ctx context.Context, userID, postID string,
) ([]entity.ReactionType, error) {
	var result []entity.ReactionType
	err := xcontext.DB(ctx).Model(&entity.Reaction{}).
		Where("user_id=? AND post_id=?", userID, postID).
		Order("type").
		Pluck("type", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

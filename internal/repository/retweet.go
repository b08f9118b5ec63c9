package repository

import (
	"context"

	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/pkg/xcontext"
)

type RetweetRepository interface {
	Create(ctx context.Context, data *entity.Retweet) error
	GetRetweetedPostIDs(ctx context.Context, userID string, postIDs []string) ([]string, error)
}

type retweetRepository struct{}

func NewRetweetRepository() *retweetRepository {
	return &retweetRepository{}
}

func (r *retweetRepository) Create(ctx context.Context, data *entity.Retweet) error {
	return createIgnoreConflict(xcontext.DB(ctx), data)
}

func (r *retweetRepository) GetRetweetedPostIDs(
	ctx context.Context, userID string, postIDs []string,
) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).Model(&entity.Retweet{}).
		Where("user_id=? AND post_id IN (?)", userID, postIDs).
		Pluck("post_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

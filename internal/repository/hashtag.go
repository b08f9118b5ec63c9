package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type HashtagCount struct {
	Name  string
	Count int64
}

type HashtagRepository interface {
	// GetOrCreate returns the hashtags of names, creating the missing ones.
	GetOrCreate(ctx context.Context, names []string) ([]entity.Hashtag, error)
	GetByName(ctx context.Context, name string) (*entity.Hashtag, error)
	LinkPost(ctx context.Context, postID string, hashtagIDs []string) error
	UnlinkPost(ctx context.Context, postID string) error
	GetTrending(ctx context.Context, since time.Time, limit int) ([]HashtagCount, error)
}

type hashtagRepository struct{}

func NewHashtagRepository() *hashtagRepository {
	return &hashtagRepository{}
}

func (r *hashtagRepository) GetOrCreate(ctx context.Context, names []string) ([]entity.Hashtag, error) {
	if len(names) == 0 {
		return nil, nil
	}

	hashtags := make([]entity.Hashtag, 0, len(names))
	for _, name := range names {
		hashtags = append(hashtags, entity.Hashtag{Base: entity.Base{ID: uuid.NewString()}, Name: name})
	}

	err := xcontext.DB(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&hashtags).Error
	if err != nil {
		return nil, err
	}

	var result []entity.Hashtag
	if err := xcontext.DB(ctx).Find(&result, "name IN (?)", names).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *hashtagRepository) GetByName(ctx context.Context, name string) (*entity.Hashtag, error) {
	var result entity.Hashtag
	if err := xcontext.DB(ctx).Take(&result, "name=?", name).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *hashtagRepository) LinkPost(ctx context.Context, postID string, hashtagIDs []string) error {
	if len(hashtagIDs) == 0 {
		return nil
	}

	links := make([]entity.PostHashtag, 0, len(hashtagIDs))
	for _, id := range hashtagIDs {
		links = append(links, entity.PostHashtag{PostID: postID, HashtagID: id})
	}

	return xcontext.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

func (r *hashtagRepository) UnlinkPost(ctx context.Context, postID string) error {
	return xcontext.DB(ctx).Delete(&entity.PostHashtag{}, "post_id=?", postID).Error
}

func (r *hashtagRepository) GetTrending(ctx context.Context, since time.Time, limit int) ([]HashtagCount, error) {
	var result []HashtagCount
	err := xcontext.DB(ctx).Model(&entity.PostHashtag{}).
		Select("hashtags.name AS name, COUNT(*) AS count").
		Joins("JOIN hashtags ON hashtags.id=post_hashtags.hashtag_id").
		Joins("JOIN posts ON posts.id=post_hashtags.post_id AND posts.deleted_at IS NULL").
		Where("post_hashtags.created_at>=?", since).
		Group("hashtags.name").
		Order("count DESC, name ASC").
		Limit(limit).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PostCounter string

const (
	LikeCounter    PostCounter = "like_count"
	RetweetCounter PostCounter = "retweet_count"
	ReplyCounter   PostCounter = "reply_count"
)

type PostRepository interface {
	Create(ctx context.Context, data *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	GetByIDUnscoped(ctx context.Context, id string) (*entity.Post, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Post, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Post, error)
	GetReplies(ctx context.Context, postID string, offset, limit int) ([]entity.Post, error)
	GetByAuthorID(ctx context.Context, authorID string, offset, limit int) ([]entity.Post, error)
	GetTimeline(ctx context.Context, userID string, offset, limit int) ([]entity.Post, error)
	GetByHashtagID(ctx context.Context, hashtagID string, offset, limit int) ([]entity.Post, error)
	GetList(ctx context.Context, offset, limit int) ([]entity.Post, error)
	CountByAuthorID(ctx context.Context, authorID string) (int64, error)
	UpdateContent(ctx context.Context, id, content string, history entity.Array[entity.EditHistoryEntry]) error
	UpdateCounter(ctx context.Context, id string, counter PostCounter, delta int) error
	Delete(ctx context.Context, id string) error
}

type postRepository struct{}

func NewPostRepository() *postRepository {
	return &postRepository{}
}

func (r *postRepository) Create(ctx context.Context, data *entity.Post) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	var result entity.Post
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// GetByIDUnscoped also returns soft deleted posts, it is used to render the
// parent of a reply whose parent was deleted.
func (r *postRepository) GetByIDUnscoped(ctx context.Context, id string) (*entity.Post, error) {
	var result entity.Post
	if err := xcontext.DB(ctx).Unscoped().Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *postRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Post, error) {
	var result entity.Post
	if err := forUpdate(xcontext.DB(ctx)).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *postRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Post, error) {
	var result []entity.Post
	if err := xcontext.DB(ctx).Find(&result, "id IN (?)", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *postRepository) GetReplies(ctx context.Context, postID string, offset, limit int) ([]entity.Post, error) {
	var result []entity.Post
	err := xcontext.DB(ctx).
		Where("reply_to_id=?", postID).
		Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *postRepository) GetByAuthorID(
	ctx context.Context, authorID string, offset, limit int,
) ([]entity.Post, error) {
	var result []entity.Post
	err := xcontext.DB(ctx).
		Where("author_id=?", authorID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetTimeline returns the posts of userID and of the users followed by userID,
// newest first.
func (r *postRepository) GetTimeline(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.Post, error) {
	following := xcontext.DB(ctx).Model(&entity.Follow{}).
		Select("followed_id").Where("follower_id=?", userID)

	var result []entity.Post
	err := xcontext.DB(ctx).
		Where("author_id=? OR author_id IN (?)", userID, following).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *postRepository) GetByHashtagID(
	ctx context.Context, hashtagID string, offset, limit int,
) ([]entity.Post, error) {
	var result []entity.Post
	err := xcontext.DB(ctx).
		Joins("JOIN post_hashtags ON post_hashtags.post_id=posts.id").
		Where("post_hashtags.hashtag_id=?", hashtagID).
		Order("posts.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *postRepository) GetList(ctx context.Context, offset, limit int) ([]entity.Post, error) {
	var result []entity.Post
	err := xcontext.DB(ctx).Order("created_at ASC").Offset(offset).Limit(limit).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *postRepository) CountByAuthorID(ctx context.Context, authorID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Post{}).Where("author_id=?", authorID).Count(&count).Error
	return count, err
}

func (r *postRepository) UpdateContent(
	ctx context.Context, id, content string, history entity.Array[entity.EditHistoryEntry],
) error {
	return singleRow(xcontext.DB(ctx).
		Model(&entity.Post{}).
		Where("id=?", id).
		Updates(map[string]any{
			"content":      content,
			"edit_history": history,
			"is_edited":    true,
		}))
}

// UpdateCounter adds delta to the counter, a counter never goes below zero.
func (r *postRepository) UpdateCounter(ctx context.Context, id string, counter PostCounter, delta int) error {
	column := string(counter)
	tx := xcontext.DB(ctx).Model(&entity.Post{}).Where("id=?", id)
	if delta < 0 {
		tx = tx.Where(fmt.Sprintf("%s>=?", column), -delta)
	}

	return singleRow(tx.Update(column, gorm.Expr(fmt.Sprintf("%s+?", column), delta)))
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	return singleRow(xcontext.DB(ctx).Delete(&entity.Post{}, "id=?", id))
}

package repository

import (
	"context"

	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/pkg/xcontext"
)

type DraftRepository interface {
	Create(ctx context.Context, data *entity.Draft) error
	GetByID(ctx context.Context, id string) (*entity.Draft, error)
	GetListByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.Draft, error)
	Update(ctx context.Context, data *entity.Draft) error
	Delete(ctx context.Context, id string) error
}

type draftRepository struct{}

func NewDraftRepository() *draftRepository {
	return &draftRepository{}
}

func (r *draftRepository) Create(ctx context.Context, data *entity.Draft) error {
	return xcontext.DB(ctx).Omit("User").Create(data).Error
}

func (r *draftRepository) GetByID(ctx context.Context, id string) (*entity.Draft, error) {
	var result entity.Draft
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *draftRepository) GetListByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.Draft, error) {
	var result []entity.Draft
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("updated_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *draftRepository) Update(ctx context.Context, data *entity.Draft) error {
	return singleRow(xcontext.DB(ctx).
		Model(&entity.Draft{}).
		Where("id=?", data.ID).
		Updates(map[string]any{
			"content":        data.Content,
			"media_type":     data.MediaType,
			"media_filename": data.MediaFilename,
		}))
}

func (r *draftRepository) Delete(ctx context.Context, id string) error {
	return singleRow(xcontext.DB(ctx).Unscoped().Delete(&entity.Draft{}, "id=?", id))
}

package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type LiveStreamRepository interface {
	Create(ctx context.Context, data *entity.LiveStream) error
	GetByID(ctx context.Context, id string) (*entity.LiveStream, error)
	GetLive(ctx context.Context, offset, limit int) ([]entity.LiveStream, error)
	// End returns ErrRecordNotFound if the stream is not live.
	End(ctx context.Context, id string, endedAt time.Time) error
	IncreaseViewers(ctx context.Context, id string) error
}

type liveStreamRepository struct{}

func NewLiveStreamRepository() *liveStreamRepository {
	return &liveStreamRepository{}
}

func (r *liveStreamRepository) Create(ctx context.Context, data *entity.LiveStream) error {
	return xcontext.DB(ctx).Omit("User").Create(data).Error
}

func (r *liveStreamRepository) GetByID(ctx context.Context, id string) (*entity.LiveStream, error) {
	var result entity.LiveStream
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *liveStreamRepository) GetLive(ctx context.Context, offset, limit int) ([]entity.LiveStream, error) {
	var result []entity.LiveStream
	err := xcontext.DB(ctx).
		Where("is_live=?", true).
		Order("viewers_count DESC, started_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *liveStreamRepository) End(ctx context.Context, id string, endedAt time.Time) error {
	return singleRow(xcontext.DB(ctx).
		Model(&entity.LiveStream{}).
		Where("id=? AND is_live=?", id, true).
		Updates(map[string]any{
			"is_live":  false,
			"ended_at": sql.NullTime{Valid: true, Time: endedAt},
		}))
}

func (r *liveStreamRepository) IncreaseViewers(ctx context.Context, id string) error {
	return singleRow(xcontext.DB(ctx).
		Model(&entity.LiveStream{}).
		Where("id=? AND is_live=?", id, true).
		Update("viewers_count", gorm.Expr("viewers_count+1")))
}

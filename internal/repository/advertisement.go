package repository

import (
	"context"
	"time"

	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type AdvertisementRepository interface {
	Create(ctx context.Context, data *entity.Advertisement) error
	GetByID(ctx context.Context, id string) (*entity.Advertisement, error)
	GetList(ctx context.Context, status entity.AdStatus, offset, limit int) ([]entity.Advertisement, error)
	// GetActive returns the active ads running at now whose budget is not spent.
	GetActive(ctx context.Context, now time.Time, limit int) ([]entity.Advertisement, error)
	// UpdateStatus returns ErrRecordNotFound if the ad is not in status from.
	UpdateStatus(ctx context.Context, id string, from, to entity.AdStatus) error
	CreateImpression(ctx context.Context, data *entity.AdImpression) error
	CreateClick(ctx context.Context, data *entity.AdClick, cost float64) error
}

type advertisementRepository struct{}

func NewAdvertisementRepository() *advertisementRepository {
	return &advertisementRepository{}
}

func (r *advertisementRepository) Create(ctx context.Context, data *entity.Advertisement) error {
	return xcontext.DB(ctx).Omit("CreatedByUser").Create(data).Error
}

func (r *advertisementRepository) GetByID(ctx context.Context, id string) (*entity.Advertisement, error) {
	var result entity.Advertisement
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *advertisementRepository) GetList(
	ctx context.Context, status entity.AdStatus, offset, limit int,
) ([]entity.Advertisement, error) {
	tx := xcontext.DB(ctx)
	if status != "" {
		tx = tx.Where("status=?", status)
	}

	var result []entity.Advertisement
	err := tx.Order("created_at DESC").Offset(offset).Limit(limit).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *advertisementRepository) GetActive(
	ctx context.Context, now time.Time, limit int,
) ([]entity.Advertisement, error) {
	var result []entity.Advertisement
	err := xcontext.DB(ctx).
		Where("status=? AND start_date<=? AND end_date>? AND spent<budget", entity.AdActive, now, now).
		Order("spent ASC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *advertisementRepository) UpdateStatus(ctx context.Context, id string, from, to entity.AdStatus) error {
	return singleRow(xcontext.DB(ctx).
		Model(&entity.Advertisement{}).
		Where("id=? AND status=?", id, from).
		Update("status", to))
}

func (r *advertisementRepository) CreateImpression(ctx context.Context, data *entity.AdImpression) error {
	if err := xcontext.DB(ctx).Omit("Ad", "User").Create(data).Error; err != nil {
		return err
	}

	return singleRow(xcontext.DB(ctx).
		Model(&entity.Advertisement{}).
		Where("id=?", data.AdID).
		Update("impressions", gorm.Expr("impressions+1")))
}

func (r *advertisementRepository) CreateClick(ctx context.Context, data *entity.AdClick, cost float64) error {
	if err := xcontext.DB(ctx).Omit("Ad", "User").Create(data).Error; err != nil {
		return err
	}

	return singleRow(xcontext.DB(ctx).
		Model(&entity.Advertisement{}).
		Where("id=?", data.AdID).
		Updates(map[string]any{
			"clicks": gorm.Expr("clicks+1"),
			"spent":  gorm.Expr("spent+?", cost),
		}))
}

package repository

import (
	"context"

	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type UserSecurityRepository interface {
	Get(ctx context.Context, userID string) (*entity.UserSecurity, error)
	GetForUpdate(ctx context.Context, userID string) (*entity.UserSecurity, error)
	Upsert(ctx context.Context, data *entity.UserSecurity) error
}

type userSecurityRepository struct{}

func NewUserSecurityRepository() *userSecurityRepository {
	return &userSecurityRepository{}
}

func (r *userSecurityRepository) Get(ctx context.Context, userID string) (*entity.UserSecurity, error) {
	var result entity.UserSecurity
	if err := xcontext.DB(ctx).Take(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userSecurityRepository) GetForUpdate(ctx context.Context, userID string) (*entity.UserSecurity, error) {
	var result entity.UserSecurity
	if err := forUpdate(xcontext.DB(ctx)).Take(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userSecurityRepository) Upsert(ctx context.Context, data *entity.UserSecurity) error {
	return xcontext.DB(ctx).Omit("User").Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"two_factor_enabled",
			"two_factor_secret",
			"backup_codes",
			"last_password_change",
			"login_history",
			"updated_at",
		}),
	}).Create(data).Error
}

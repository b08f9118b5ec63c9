package repository

import (
	"context"

	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/pkg/xcontext"
)

type UserWithFollowers struct {
	entity.User
	FollowerCount int64
}

type UserRepository interface {
	Create(ctx context.Context, data *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByUsernames(ctx context.Context, usernames []string) ([]entity.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetList(ctx context.Context, offset, limit int) ([]entity.User, error)
	GetPopular(ctx context.Context, limit int) ([]UserWithFollowers, error)
	UpdateSettings(ctx context.Context, id string, settings map[string]any) error
	UpdateBanned(ctx context.Context, id string, banned bool) error
	UpdateRole(ctx context.Context, id string, role entity.GlobalRole) error
	UpdateModerator(ctx context.Context, id string, isModerator bool) error
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, data *entity.User) error {
	return createIgnoreConflict(xcontext.DB(ctx), data)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	var result []entity.User
	if err := xcontext.DB(ctx).Find(&result, "id IN (?)", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "username=?", username).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetByUsernames(ctx context.Context, usernames []string) ([]entity.User, error) {
	var result []entity.User
	if len(usernames) == 0 {
		return result, nil
	}

	if err := xcontext.DB(ctx).Find(&result, "username IN (?)", usernames).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.User{}).Where("username=?", username).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.User{}).Where("email=?", email).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) GetList(ctx context.Context, offset, limit int) ([]entity.User, error) {
	var result []entity.User
	err := xcontext.DB(ctx).Order("created_at ASC").Offset(offset).Limit(limit).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) GetPopular(ctx context.Context, limit int) ([]UserWithFollowers, error) {
	var result []UserWithFollowers
	err := xcontext.DB(ctx).Model(&entity.User{}).
		Select("users.*, COUNT(follows.follower_id) AS follower_count").
		Joins("LEFT JOIN follows ON follows.followed_id=users.id").
		Where("users.is_banned=?", false).
		Group("users.id").
		Order("follower_count DESC, users.created_at ASC").
		Limit(limit).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) UpdateSettings(ctx context.Context, id string, settings map[string]any) error {
	return singleRow(xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).Updates(settings))
}

func (r *userRepository) UpdateBanned(ctx context.Context, id string, banned bool) error {
	return singleRow(xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).Update("is_banned", banned))
}

func (r *userRepository) UpdateRole(ctx context.Context, id string, role entity.GlobalRole) error {
	return singleRow(xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).Update("role", role))
}

func (r *userRepository) UpdateModerator(ctx context.Context, id string, isModerator bool) error {
	return singleRow(xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=?", id).Update("is_moderator", isModerator))
}

package migration

import (
	"context"
	"errors"

	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// PromoteSuperAdmin grants the super admin role to the configured bootstrap
// user. It is a no-op if no username is configured or the user has not
// registered yet.
func PromoteSuperAdmin(ctx context.Context, userRepo repository.UserRepository) error {
	username := xcontext.Configs(ctx).Moderation.SuperAdminUsername
	if username == "" {
		return nil
	}

	user, err := userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Warnf("Super admin %s is not registered yet", username)
			return nil
		}

		return err
	}

	if user.Role == entity.RoleSuperAdmin {
		return nil
	}

	xcontext.Logger(ctx).Infof("Promote %s to super admin", username)
	return userRepo.UpdateRole(ctx, user.ID, entity.RoleSuperAdmin)
}

package common

import (
	"context"
	"errors"

	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/errorx"
	"github.com/ywitter/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type GlobalRoleVerifier struct {
	userRepo repository.UserRepository
}

func NewGlobalRoleVerifier(userRepo repository.UserRepository) *GlobalRoleVerifier {
	return &GlobalRoleVerifier{userRepo: userRepo}
}

func (verifier *GlobalRoleVerifier) Verify(ctx context.Context, requiredRoles ...entity.GlobalRole) error {
	u, err := verifier.requestUser(ctx)
	if err != nil {
		return err
	}

	if !slices.Contains(requiredRoles, u.Role) {
		return errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	return nil
}

// VerifyModerator passes for users with the moderator flag and for global
// admins. A banned moderator loses the capability.
func (verifier *GlobalRoleVerifier) VerifyModerator(ctx context.Context) (*entity.User, error) {
	u, err := verifier.VerifyActive(ctx)
	if err != nil {
		return nil, err
	}

	if !u.CanModerate() {
		return nil, errorx.New(errorx.PermissionDenied, "Only moderators can do this action")
	}

	return u, nil
}

// VerifyActive returns the request user unless they are banned.
func (verifier *GlobalRoleVerifier) VerifyActive(ctx context.Context) (*entity.User, error) {
	u, err := verifier.requestUser(ctx)
	if err != nil {
		return nil, err
	}

	if u.IsBanned {
		return nil, errorx.New(errorx.PermissionDenied, "User is banned")
	}

	return u, nil
}

func (verifier *GlobalRoleVerifier) requestUser(ctx context.Context) (*entity.User, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	u, err := verifier.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unauthenticated, "User is not valid")
		}

		xcontext.Logger(ctx).Errorf("Cannot get request user: %v", err)
		return nil, errorx.Unknown
	}

	return u, nil
}

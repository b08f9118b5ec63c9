package middleware

import (
	"context"

	"github.com/ywitter/backend/internal/common"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/router"
)

type NotBanned struct {
	globalRoleVerifier *common.GlobalRoleVerifier
}

func NewNotBanned(userRepo repository.UserRepository) *NotBanned {
	return &NotBanned{
		globalRoleVerifier: common.NewGlobalRoleVerifier(userRepo),
	}
}

// Middleware rejects write requests of banned users early. Domains check it
// again inside their own flows.
func (a *NotBanned) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if _, err := a.globalRoleVerifier.VerifyActive(ctx); err != nil {
			return nil, err
		}

		return nil, nil
	}
}

package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/ywitter/backend/internal/model"
	"github.com/ywitter/backend/pkg/errorx"
	"github.com/ywitter/backend/pkg/router"
	"github.com/ywitter/backend/pkg/token"
	"github.com/ywitter/backend/pkg/xcontext"
)

const bearerPrefix = "Bearer "

// Authenticate puts the user of the bearer token into the context. Requests
// without an Authorization header continue anonymously.
func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		header := xcontext.HTTPRequest(ctx).Header.Get("Authorization")
		if header == "" {
			return nil, nil
		}

		if !strings.HasPrefix(header, bearerPrefix) {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid authorization header")
		}

		var accessToken model.AccessToken
		err := xcontext.TokenEngine(ctx).Verify(strings.TrimPrefix(header, bearerPrefix), &accessToken)
		if err != nil {
			if errors.Is(err, token.ErrExpired) {
				return nil, errorx.New(errorx.Unauthenticated, "Token is expired")
			}

			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestUserID(ctx, accessToken.ID), nil
	}
}

func RequireUser() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if xcontext.RequestUserID(ctx) == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return nil, nil
	}
}

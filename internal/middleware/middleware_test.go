package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/ywitter/backend/internal/common"
	"github.com/ywitter/backend/internal/model"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/errorx"
	"github.com/ywitter/backend/pkg/router"
	"github.com/ywitter/backend/pkg/testutil"
	"github.com/ywitter/backend/pkg/xcontext"
)

type whoamiRequest struct{}

type whoamiResponse struct {
	UserID string `json:"user_id"`
}

func whoami(ctx context.Context, req *whoamiRequest) (*whoamiResponse, error) {
	return &whoamiResponse{UserID: xcontext.RequestUserID(ctx)}, nil
}

type envelope struct {
	Code  int64          `json:"code"`
	Error string         `json:"error"`
	Data  whoamiResponse `json:"data"`
}

func newTestRouter(ctx context.Context) *router.Router {
	r := router.New(ctx)
	r.Before(WithStartTime())
	r.Before(Authenticate())
	r.AddCloser(Logger())
	r.AddCloser(Prometheus())

	router.GET(r, "/whoami", whoami)

	write := r.Branch()
	write.Before(RequireUser())
	write.Before(NewNotBanned(repository.NewUserRepository()).Middleware())
	router.POST(write, "/write", whoami)

	return r
}

func call(t *testing.T, r *router.Router, method, path, token string) envelope {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	var resp envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func bearer(t *testing.T, ctx context.Context, userID string, expiration time.Duration) string {
	token, err := xcontext.TokenEngine(ctx).Generate(expiration, model.AccessToken{ID: userID})
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthenticate(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	r := newTestRouter(ctx)

	tests := []struct {
		name       string
		token      string
		wantUserID string
		wantErr    error
	}{
		{
			name: "anonymous",
		},
		{
			name:       "valid token",
			token:      bearer(t, ctx, testutil.User1.ID, time.Hour),
			wantUserID: testutil.User1.ID,
		},
		{
			name:    "expired token",
			token:   bearer(t, ctx, testutil.User1.ID, -time.Minute),
			wantErr: errorx.New(errorx.Unauthenticated, "Token is expired"),
		},
		{
			name:    "not a bearer token",
			token:   "Basic abc",
			wantErr: errorx.New(errorx.Unauthenticated, "Invalid authorization header"),
		},
		{
			name:    "malformed token",
			token:   "Bearer abc",
			wantErr: errorx.New(errorx.Unauthenticated, "Invalid access token"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(t, r, http.MethodGet, "/whoami", tt.token)
			if tt.wantErr != nil {
				errx := tt.wantErr.(errorx.Error)
				require.Equal(t, int64(errx.Code), resp.Code)
				require.Equal(t, errx.Message, resp.Error)
				return
			}

			require.Zero(t, resp.Code)
			require.Equal(t, tt.wantUserID, resp.Data.UserID)
		})
	}
}

func TestNotBanned(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	r := newTestRouter(ctx)

	resp := call(t, r, http.MethodPost, "/write", "")
	require.Equal(t, int64(errorx.Unauthenticated), resp.Code)

	resp = call(t, r, http.MethodPost, "/write", bearer(t, ctx, testutil.User6.ID, time.Hour))
	require.Equal(t, int64(errorx.PermissionDenied), resp.Code)
	require.Equal(t, "User is banned", resp.Error)

	resp = call(t, r, http.MethodPost, "/write", bearer(t, ctx, testutil.User1.ID, time.Hour))
	require.Zero(t, resp.Code)
	require.Equal(t, testutil.User1.ID, resp.Data.UserID)
}

func TestPrometheus(t *testing.T) {
	ctx := testutil.MockContext()
	r := newTestRouter(ctx)

	counter := common.PromCounters[common.HTTPRequestTotal].WithLabelValues("/whoami", "0")
	before := promtestutil.ToFloat64(counter)

	call(t, r, http.MethodGet, "/whoami", "")
	require.Equal(t, before+1, promtestutil.ToFloat64(counter))
}

package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ywitter/backend/internal/common"
)

func TestNewHandler(t *testing.T) {
	common.IncreaseCounter(common.WebhookDeliveryTotal, "success")

	rec := httptest.NewRecorder()
	NewHandler("webhook").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `webhook_deliveries_total{result="success",service="webhook"}`)
	require.Contains(t, rec.Body.String(), "go_goroutines")
}

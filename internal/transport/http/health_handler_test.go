package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/dataprocessing"
	"salespulse/internal/services"
)

func TestHealthHandler_Endpoints(t *testing.T) {
	table, err := dataprocessing.LoadFile(context.Background(), "../../dataprocessing/testdata/golden_sales.csv")
	require.NoError(t, err)

	loaded := NewHealthHandler(services.NewHealthService("v1.0.0-test", services.NewDashboardService(table, nil, nil), nil), nil)
	empty := NewHealthHandler(services.NewHealthService("v1.0.0-test", nil, nil), nil)

	tests := []struct {
		name           string
		handlerFunc    http.HandlerFunc
		expectedStatus int
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name:           "health check",
			handlerFunc:    loaded.HealthCheck,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				assert.Equal(t, "ok", response["status"])
				assert.Equal(t, "v1.0.0-test", response["version"])
				assert.Contains(t, response, "timestamp")
			},
		},
		{
			name:           "ready with dataset",
			handlerFunc:    loaded.ReadinessCheck,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				assert.Equal(t, "ready", response["status"])
				data := response["services"].(map[string]interface{})["data"].(map[string]interface{})
				assert.Equal(t, 4.0, data["rows"])
			},
		},
		{
			name:           "not ready without dataset",
			handlerFunc:    empty.ReadinessCheck,
			expectedStatus: http.StatusServiceUnavailable,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				assert.Equal(t, "not_ready", response["status"])
			},
		},
		{
			name:           "liveness",
			handlerFunc:    empty.LivenessCheck,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				assert.Equal(t, "alive", response["status"])
				assert.Contains(t, response, "runtime")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handlerFunc(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
			tt.checkResponse(t, response)
		})
	}
}

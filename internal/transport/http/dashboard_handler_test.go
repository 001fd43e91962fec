package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"salespulse/internal/dataprocessing"
	apierrors "salespulse/internal/errors"
	"salespulse/internal/metrics"
	"salespulse/internal/middleware"
	"salespulse/internal/services"
	"salespulse/pkg/contracts/domain"
)

// MockDashboardService is a mock implementation of DashboardServiceInterface
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) FilterOptions(ctx context.Context) (services.FilterOptions, error) {
	args := m.Called()
	return args.Get(0).(services.FilterOptions), args.Error(1)
}

func (m *MockDashboardService) KPIs(ctx context.Context, sel metrics.Selection) (domain.KPISet, error) {
	args := m.Called(sel)
	return args.Get(0).(domain.KPISet), args.Error(1)
}

func (m *MockDashboardService) Rollup(ctx context.Context, dimension string, sel metrics.Selection) (domain.Rollup, error) {
	args := m.Called(dimension, sel)
	return args.Get(0).(domain.Rollup), args.Error(1)
}

func (m *MockDashboardService) Monthly(ctx context.Context, sel metrics.Selection) ([]domain.MonthlySummary, error) {
	args := m.Called(sel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlySummary), args.Error(1)
}

func (m *MockDashboardService) Snapshot(ctx context.Context, sel metrics.Selection) (domain.BusinessSnapshot, error) {
	args := m.Called(sel)
	return args.Get(0).(domain.BusinessSnapshot), args.Error(1)
}

func (m *MockDashboardService) View(ctx context.Context, sel metrics.Selection) (services.DashboardView, error) {
	args := m.Called(sel)
	return args.Get(0).(services.DashboardView), args.Error(1)
}

func newTestRouter(service DashboardServiceInterface) http.Handler {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	errorHandler := apierrors.NewErrorHandler(logger, false)
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Mount("/api", NewDashboardHandler(service, logger, errorHandler).Routes())
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestDashboardHandler_GetKPIs(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		selection      metrics.Selection
		kpis           domain.KPISet
		err            error
		expectedStatus int
		checkBody      func(t *testing.T, body map[string]interface{})
	}{
		{
			name:           "no selection",
			selection:      metrics.Selection{},
			kpis:           domain.KPISet{Revenue: 189, Orders: 4, AvgTicket: 47.25, AvgRating: 8.175, GrossIncome: 180},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "success", body["status"])
				data := body["data"].(map[string]interface{})
				assert.Equal(t, 189.0, data["revenue"])
				assert.Equal(t, 4.0, data["orders"])
			},
		},
		{
			name:           "repeated and comma separated parameters",
			query:          "?city=Toronto&city=Chicago&month=2024-01,2024-02",
			selection:      metrics.Selection{Months: []string{"2024-01", "2024-02"}, Cities: []string{"Toronto", "Chicago"}},
			kpis:           domain.KPISet{Revenue: 157.5, Orders: 3},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "dataset not loaded",
			selection:      metrics.Selection{},
			err:            services.ErrDatasetNotLoaded,
			expectedStatus: http.StatusServiceUnavailable,
			checkBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "DATASET_UNAVAILABLE", body["error_code"])
				assert.NotEmpty(t, body["trace_id"])
			},
		},
		{
			name:           "unexpected error",
			selection:      metrics.Selection{},
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockDashboardService)
			service.On("KPIs", tt.selection).Return(tt.kpis, tt.err)

			rec := httptest.NewRecorder()
			newTestRouter(service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/kpis"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.checkBody != nil {
				tt.checkBody(t, decodeBody(t, rec))
			}
			service.AssertExpectations(t)
		})
	}
}

func TestDashboardHandler_InvalidSelection(t *testing.T) {
	service := new(MockDashboardService)

	rec := httptest.NewRecorder()
	newTestRouter(service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/kpis?month=2024-1", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "VALIDATION_FAILED", body["error_code"])
	service.AssertNotCalled(t, "KPIs", mock.Anything)
}

func TestDashboardHandler_GetRollup(t *testing.T) {
	service := new(MockDashboardService)
	service.On("Rollup", "weekday", metrics.Selection{}).
		Return(domain.Rollup{}, services.ErrUnknownDimension)

	rec := httptest.NewRecorder()
	newTestRouter(service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rollups/weekday", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	details := body["details"].(map[string]interface{})
	assert.Equal(t, "dimension", details["field"])
	assert.Contains(t, details["message"], "product_line")
	service.AssertExpectations(t)
}

func TestDashboardHandler_GetMonthlyEmpty(t *testing.T) {
	service := new(MockDashboardService)
	service.On("Monthly", metrics.Selection{Cities: []string{"Nowhere"}}).Return(nil, nil)

	rec := httptest.NewRecorder()
	newTestRouter(service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/monthly?city=Nowhere", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","data":[]}`, rec.Body.String())
}

func TestDashboardHandler_GoldenDataset(t *testing.T) {
	table, err := dataprocessing.LoadFile(context.Background(), "../../dataprocessing/testdata/golden_sales.csv")
	require.NoError(t, err)
	router := newTestRouter(services.NewDashboardService(table, nil, nil))

	tests := []struct {
		name  string
		path  string
		check func(t *testing.T, data interface{})
	}{
		{
			name: "filters",
			path: "/api/filters",
			check: func(t *testing.T, data interface{}) {
				m := data.(map[string]interface{})
				assert.Equal(t, []interface{}{"2024-01", "2024-02"}, m["months"])
				assert.Len(t, m["cities"], 3)
			},
		},
		{
			name: "city rollup ordered by total",
			path: "/api/rollups/city",
			check: func(t *testing.T, data interface{}) {
				entries := data.(map[string]interface{})["entries"].([]interface{})
				require.Len(t, entries, 3)
				first := entries[0].(map[string]interface{})
				assert.Equal(t, "Toronto", first["key"])
				assert.Equal(t, 94.5, first["total"])
			},
		},
		{
			name: "filtered kpis",
			path: "/api/kpis?product_line=Health+and+beauty",
			check: func(t *testing.T, data interface{}) {
				m := data.(map[string]interface{})
				assert.Equal(t, 94.5, m["revenue"])
				assert.Equal(t, 2.0, m["orders"])
			},
		},
		{
			name: "snapshot",
			path: "/api/snapshot",
			check: func(t *testing.T, data interface{}) {
				kpis := data.(map[string]interface{})["kpis"].(map[string]interface{})
				assert.Equal(t, 66.67, kpis["cashless_share_pct"])
				assert.Equal(t, -50.0, kpis["growth_pct_first_to_last_month"])
			},
		},
		{
			name: "dashboard view",
			path: "/api/dashboard?month=2024-01",
			check: func(t *testing.T, data interface{}) {
				m := data.(map[string]interface{})
				assert.Equal(t, 2.0, m["rows"])
				assert.Len(t, m["monthly"], 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			body := decodeBody(t, rec)
			assert.Equal(t, "success", body["status"])
			tt.check(t, body["data"])
		})
	}
}

package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "salespulse/internal/errors"
	"salespulse/internal/middleware"
	"salespulse/internal/services"
	"salespulse/pkg/contracts/domain"
)

// DashboardHandler serves the dashboard queries
type DashboardHandler struct {
	service      DashboardServiceInterface
	queries      *middleware.QueryValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		service:      service,
		queries:      middleware.NewQueryValidator(logger, errorHandler),
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/filters", h.GetFilters)

	r.Group(func(r chi.Router) {
		r.Use(h.queries.Selection)
		r.Get("/kpis", h.GetKPIs)
		r.Get("/rollups/{dimension}", h.GetRollup)
		r.Get("/monthly", h.GetMonthly)
		r.Get("/snapshot", h.GetSnapshot)
		r.Get("/dashboard", h.GetDashboard)
	})

	return r
}

// GetFilters handles GET /filters
func (h *DashboardHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	options, err := h.service.FilterOptions(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, r, options)
}

// GetKPIs handles GET /kpis
func (h *DashboardHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.service.KPIs(r.Context(), middleware.SelectionFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, r, kpis)
}

// GetRollup handles GET /rollups/{dimension}
func (h *DashboardHandler) GetRollup(w http.ResponseWriter, r *http.Request) {
	dimension := chi.URLParam(r, "dimension")
	rollup, err := h.service.Rollup(r.Context(), dimension, middleware.SelectionFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, r, rollup)
}

// GetMonthly handles GET /monthly
func (h *DashboardHandler) GetMonthly(w http.ResponseWriter, r *http.Request) {
	monthly, err := h.service.Monthly(r.Context(), middleware.SelectionFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if monthly == nil {
		monthly = []domain.MonthlySummary{}
	}
	respond(w, r, monthly)
}

// GetSnapshot handles GET /snapshot
func (h *DashboardHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Snapshot(r.Context(), middleware.SelectionFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, r, snapshot)
}

// GetDashboard handles GET /dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.View(r.Context(), middleware.SelectionFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond(w, r, view)
}

// fail maps service errors onto API errors
func (h *DashboardHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrDatasetNotLoaded):
		err = apierrors.ErrDatasetUnavailable
	case errors.Is(err, services.ErrUnknownDimension):
		names := make([]string, 0, len(domain.Dimensions()))
		for _, d := range domain.Dimensions() {
			names = append(names, string(d))
		}
		err = apierrors.ErrValidation("dimension",
			fmt.Sprintf("dimension must be one of: %s", strings.Join(names, ", ")))
	}
	h.errorHandler.HandleError(w, r, err)
}

func respond(w http.ResponseWriter, r *http.Request, data interface{}) {
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   data,
	})
}

package jobshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"kpitrack/internal/domain/auth"
	"kpitrack/internal/platform/jobs"
	"kpitrack/internal/transport/http/api"
	"kpitrack/internal/transport/http/middleware"
)

type Handler struct {
	Jobs  *jobs.Service
	Perms middleware.PermissionStore
}

func NewHandler(jobService *jobs.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Jobs: jobService, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin/jobs", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermSystemAdmin, h.Perms)).Post("/overdue-scan", h.handleOverdueScan)
	})
}

func (h *Handler) handleOverdueScan(w http.ResponseWriter, r *http.Request) {
	details, err := h.Jobs.RunOverdueScan(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "job_run_failed", "overdue scan failed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, details, middleware.GetRequestID(r.Context()))
}

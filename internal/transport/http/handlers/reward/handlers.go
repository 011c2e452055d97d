package rewardhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kpitrack/internal/domain/audit"
	"kpitrack/internal/domain/auth"
	"kpitrack/internal/domain/employee"
	"kpitrack/internal/domain/notifications"
	"kpitrack/internal/domain/reward"
	"kpitrack/internal/platform/config"
	"kpitrack/internal/transport/http/api"
	"kpitrack/internal/transport/http/middleware"
	"kpitrack/internal/transport/http/shared"
)

type Handler struct {
	Service   *reward.Service
	Employees *employee.Store
	Perms     middleware.PermissionStore
	Notify    *notifications.Service
	Audit     *audit.Service
	Cfg       config.Config
}

func NewHandler(service *reward.Service, employees *employee.Store, perms middleware.PermissionStore, notify *notifications.Service, auditSvc *audit.Service, cfg config.Config) *Handler {
	return &Handler{Service: service, Employees: employees, Perms: perms, Notify: notify, Audit: auditSvc, Cfg: cfg}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/rewards", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermRewardsCompute, h.Perms)).Post("/calculate", h.handleCalculate)
		r.With(middleware.RequirePermission(auth.PermRewardsRead, h.Perms)).Get("/records", h.handleListRecords)
		r.With(middleware.RequirePermission(auth.PermRewardsWrite, h.Perms)).Post("/records", h.handleCreateRecord)
		r.With(middleware.RequirePermission(auth.PermRewardsRead, h.Perms)).Get("/records/{recordID}", h.handleGetRecord)
		r.With(middleware.RequirePermission(auth.PermRewardsWrite, h.Perms)).Put("/records/{recordID}", h.handleUpdateRecord)
		r.With(middleware.RequirePermission(auth.PermRewardsWrite, h.Perms)).Delete("/records/{recordID}", h.handleDeleteRecord)
		r.With(middleware.RequirePermission(auth.PermRewardsRead, h.Perms)).Get("/statements/{employeeID}/{period}", h.handleStatement)
	})
}

func failDomain(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, reward.ErrRecordNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "bonus/penalty record not found", reqID)
	case errors.Is(err, reward.ErrInvalidType):
		api.Fail(w, http.StatusBadRequest, "validation_error", "type must be bonus or penalty", reqID)
	case errors.Is(err, reward.ErrInvalidAmount):
		api.Fail(w, http.StatusBadRequest, "validation_error", "amount must be greater than zero", reqID)
	case errors.Is(err, reward.ErrEmptyReason):
		api.Fail(w, http.StatusBadRequest, "validation_error", "reason must not be empty", reqID)
	case errors.Is(err, reward.ErrInvalidPeriod):
		api.Fail(w, http.StatusBadRequest, "validation_error", "period must match Q<n>-<year> or M<n>-<year>", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "operation failed", reqID)
	}
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		EmployeeID         string        `json:"employeeId"`
		Role               string        `json:"role"`
		Period             string        `json:"period"`
		Metrics            reward.Bundle `json:"metrics"`
		SupplementalSalary float64       `json:"supplementalSalary"`
		Persist            bool          `json:"persist"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("role", payload.Role, "role is required")
	v.Required("period", payload.Period, "period is required")
	if payload.Persist {
		v.Required("employeeId", payload.EmployeeID, "employee id is required when persisting")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	result := h.Service.Compute(payload.Role, payload.Period, payload.Metrics, payload.SupplementalSalary)

	response := map[string]any{"calculation": result}
	if payload.Persist {
		rec, err := h.Service.SaveResult(r.Context(), payload.EmployeeID, result, user.UserID)
		if err != nil && !errors.Is(err, reward.ErrInvalidAmount) {
			failDomain(w, r, err)
			return
		}
		if err == nil {
			response["record"] = rec
			if err := h.Audit.Record(r.Context(), user.UserID, "rewards.calculate.persist", "bonus_penalty_record", rec.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, result); err != nil {
				slog.Warn("audit rewards.calculate.persist failed", "err", err)
			}
			h.notifyRecorded(r, rec)
		}
	}

	api.Success(w, response, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	employeeID := r.URL.Query().Get("employeeId")
	period := r.URL.Query().Get("period")

	if user.RoleName == auth.RoleEmployee {
		selfID, err := h.Employees.EmployeeIDByUserID(r.Context(), user.UserID)
		if err != nil {
			slog.Warn("reward list self lookup failed", "err", err)
			api.Success(w, map[string]any{"items": []reward.BonusPenaltyRecord{}, "total": 0}, middleware.GetRequestID(r.Context()))
			return
		}
		employeeID = selfID
	}

	page := shared.ParsePagination(r, 50, 200)
	records, total, err := h.Service.List(r.Context(), employeeID, period, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "reward_list_failed", "failed to list records", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"items": records, "total": total}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload reward.BonusPenaltyRecord
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	payload.CreatedBy = user.UserID

	rec, err := h.Service.Create(r.Context(), payload)
	if err != nil {
		failDomain(w, r, err)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "rewards.record.create", "bonus_penalty_record", rec.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, rec); err != nil {
		slog.Warn("audit rewards.record.create failed", "err", err)
	}
	h.notifyRecorded(r, rec)
	api.Created(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) notifyRecorded(r *http.Request, rec reward.BonusPenaltyRecord) {
	if h.Notify == nil {
		return
	}
	userID, err := h.Employees.UserIDByEmployeeID(r.Context(), rec.EmployeeID)
	if err != nil || userID == "" {
		return
	}
	title := "Bonus recorded"
	body := "A bonus has been recorded for " + rec.Period + "."
	if rec.Type == reward.TypePenalty {
		title = "Penalty recorded"
		body = "A penalty has been recorded for " + rec.Period + "."
	}
	if err := h.Notify.Create(r.Context(), userID, notifications.TypeBonusRecorded, title, body); err != nil {
		slog.Warn("bonus recorded notification failed", "err", err)
	}
}

func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.Get(r.Context(), chi.URLParam(r, "recordID"))
	if err != nil {
		failDomain(w, r, err)
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	recordID := chi.URLParam(r, "recordID")
	var payload reward.BonusPenaltyRecord
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	rec, err := h.Service.Update(r.Context(), recordID, payload)
	if err != nil {
		failDomain(w, r, err)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "rewards.record.update", "bonus_penalty_record", recordID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, rec); err != nil {
		slog.Warn("audit rewards.record.update failed", "err", err)
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	recordID := chi.URLParam(r, "recordID")
	if err := h.Service.Delete(r.Context(), recordID); err != nil {
		failDomain(w, r, err)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "rewards.record.delete", "bonus_penalty_record", recordID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit rewards.record.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"id": recordID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStatement(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	period := chi.URLParam(r, "period")

	path, err := h.Service.GenerateStatementPDF(r.Context(), employeeID, period, h.Cfg.StatementDir, h.Cfg.Currency)
	if err != nil {
		failDomain(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="statement-`+employeeID+`-`+period+`.pdf"`)
	http.ServeFile(w, r, path)
}

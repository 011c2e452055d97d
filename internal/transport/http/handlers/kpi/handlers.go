package kpihandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kpitrack/internal/domain/audit"
	"kpitrack/internal/domain/auth"
	"kpitrack/internal/domain/employee"
	"kpitrack/internal/domain/kpi"
	"kpitrack/internal/domain/notifications"
	"kpitrack/internal/transport/http/api"
	"kpitrack/internal/transport/http/middleware"
	"kpitrack/internal/transport/http/shared"
)

type Handler struct {
	Service   *kpi.Service
	Employees *employee.Store
	Perms     middleware.PermissionStore
	Notify    *notifications.Service
	Audit     *audit.Service
	DB        *pgxpool.Pool
}

func NewHandler(service *kpi.Service, employees *employee.Store, perms middleware.PermissionStore, notify *notifications.Service, auditSvc *audit.Service, db *pgxpool.Pool) *Handler {
	return &Handler{Service: service, Employees: employees, Perms: perms, Notify: notify, Audit: auditSvc, DB: db}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/kpi", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermKpiRead, h.Perms)).Get("/definitions", h.handleListDefinitions)
		r.With(middleware.RequirePermission(auth.PermKpiAssign, h.Perms)).Post("/definitions", h.handleCreateDefinition)
		r.With(middleware.RequirePermission(auth.PermKpiRead, h.Perms)).Get("/definitions/{definitionID}", h.handleGetDefinition)
		r.With(middleware.RequirePermission(auth.PermKpiAssign, h.Perms)).Put("/definitions/{definitionID}", h.handleUpdateDefinition)
		r.With(middleware.RequirePermission(auth.PermKpiAssign, h.Perms)).Delete("/definitions/{definitionID}", h.handleArchiveDefinition)

		r.With(middleware.RequirePermission(auth.PermKpiRead, h.Perms)).Get("/records", h.handleListRecords)
		r.With(middleware.RequirePermission(auth.PermKpiAssign, h.Perms)).Post("/records/assign", h.handleBatchAssign)
		r.With(middleware.RequirePermission(auth.PermKpiRead, h.Perms)).Get("/records/{recordID}", h.handleGetRecord)
		r.With(middleware.RequirePermission(auth.PermKpiWrite, h.Perms)).Patch("/records/{recordID}/progress", h.handleRecordProgress)
		r.With(middleware.RequirePermission(auth.PermKpiWrite, h.Perms)).Post("/records/{recordID}/submission", h.handleSubmit)
		r.With(middleware.RequirePermission(auth.PermKpiApprove, h.Perms)).Post("/records/{recordID}/decision", h.handleDecide)
		r.With(middleware.RequirePermission(auth.PermKpiAssign, h.Perms)).Delete("/records/{recordID}", h.handleDeleteRecord)
	})
}

// failDomain translates domain errors into stable API error codes.
func failDomain(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())

	var ve *kpi.ValidationError
	if errors.As(err, &ve) {
		api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "payload validation failed",
			map[string]any{"fields": []shared.ValidationIssue{{Field: ve.Field, Reason: ve.Reason}}}, reqID)
		return
	}
	var te *kpi.InvalidTransitionError
	if errors.As(err, &te) {
		api.Fail(w, http.StatusConflict, "invalid_state", te.Error(), reqID)
		return
	}
	switch {
	case errors.Is(err, kpi.ErrZeroTarget):
		api.Fail(w, http.StatusBadRequest, "division_by_zero", "target must not be zero", reqID)
	case errors.Is(err, kpi.ErrRecordNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "kpi record not found", reqID)
	case errors.Is(err, kpi.ErrDefinitionNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "kpi definition not found", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "operation failed", reqID)
	}
}

func (h *Handler) handleListDefinitions(w http.ResponseWriter, r *http.Request) {
	includeArchived := r.URL.Query().Get("includeArchived") == "true"
	defs, err := h.Service.ListDefinitions(r.Context(), includeArchived)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "definition_list_failed", "failed to list definitions", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, defs, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateDefinition(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload kpi.Definition
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	payload.CreatedBy = user.UserID

	def, err := h.Service.CreateDefinition(r.Context(), payload)
	if err != nil {
		failDomain(w, r, err)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "kpi.definition.create", "kpi_definition", def.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, def); err != nil {
		slog.Warn("audit kpi.definition.create failed", "err", err)
	}
	api.Created(w, def, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetDefinition(w http.ResponseWriter, r *http.Request) {
	def, err := h.Service.GetDefinition(r.Context(), chi.URLParam(r, "definitionID"))
	if err != nil {
		failDomain(w, r, err)
		return
	}
	api.Success(w, def, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateDefinition(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	definitionID := chi.URLParam(r, "definitionID")
	var payload kpi.Definition
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	def, err := h.Service.UpdateDefinition(r.Context(), definitionID, payload)
	if err != nil {
		failDomain(w, r, err)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "kpi.definition.update", "kpi_definition", definitionID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, def); err != nil {
		slog.Warn("audit kpi.definition.update failed", "err", err)
	}
	api.Success(w, def, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleArchiveDefinition(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	definitionID := chi.URLParam(r, "definitionID")
	if err := h.Service.ArchiveDefinition(r.Context(), definitionID); err != nil {
		failDomain(w, r, err)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "kpi.definition.archive", "kpi_definition", definitionID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit kpi.definition.archive failed", "err", err)
	}
	api.Success(w, map[string]string{"id": definitionID, "status": kpi.DefinitionStatusArchived}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	query := r.URL.Query()
	filter := kpi.RecordFilter{
		EmployeeID:   query.Get("employeeId"),
		DefinitionID: query.Get("kpiDefinitionId"),
		Period:       query.Get("period"),
		Status:       query.Get("status"),
	}

	// Plain employees only ever see their own records.
	if user.RoleName == auth.RoleEmployee {
		selfID, err := h.Employees.EmployeeIDByUserID(r.Context(), user.UserID)
		if err != nil {
			slog.Warn("record list self lookup failed", "err", err)
			api.Success(w, map[string]any{"items": []kpi.Record{}, "total": 0}, middleware.GetRequestID(r.Context()))
			return
		}
		filter.EmployeeID = selfID
	}

	page := shared.ParsePagination(r, 50, 200)
	records, total, err := h.Service.ListRecords(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "record_list_failed", "failed to list records", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"items": records, "total": total}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.GetRecord(r.Context(), chi.URLParam(r, "recordID"))
	if err != nil {
		failDomain(w, r, err)
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleBatchAssign(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		KpiDefinitionID string   `json:"kpiDefinitionId"`
		EmployeeIDs     []string `json:"employeeIds"`
		Period          string   `json:"period"`
		Target          float64  `json:"target"`
		StartDate       string   `json:"startDate"`
		EndDate         string   `json:"endDate"`
	}
	raw := json.NewDecoder(r.Body)
	if err := raw.Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("kpiDefinitionId", payload.KpiDefinitionID, "kpi definition id is required")
	// Dates are optional; when both are omitted the coordinator derives them
	// from the period bounds.
	var start, end time.Time
	startOK, endOK := false, false
	if payload.StartDate != "" {
		start, startOK = v.Date("startDate", payload.StartDate)
	}
	if payload.EndDate != "" {
		end, endOK = v.Date("endDate", payload.EndDate)
	}
	if startOK && endOK {
		v.DateOrder("startDate", start, "endDate", end)
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	req := kpi.BatchRequest{
		DefinitionID: payload.KpiDefinitionID,
		EmployeeIDs:  payload.EmployeeIDs,
		Period:       payload.Period,
		Target:       payload.Target,
		StartDate:    start,
		EndDate:      end,
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")
	requestHash := ""
	if idempotencyKey != "" {
		encoded, _ := json.Marshal(payload)
		requestHash = middleware.RequestHash(encoded)
		stored, found, err := middleware.CheckIdempotency(r.Context(), h.DB, user.UserID, "kpi.records.assign", idempotencyKey, requestHash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key already used with a different payload", middleware.GetRequestID(r.Context()))
			return
		}
		if err != nil {
			slog.Warn("batch assign idempotency check failed", "err", err)
		}
		if found {
			var cached kpi.BatchResult
			if err := json.Unmarshal(stored, &cached); err == nil {
				api.Success(w, cached, middleware.GetRequestID(r.Context()))
				return
			}
		}
	}

	result, err := h.Service.BatchAssign(r.Context(), req)
	if err != nil {
		failDomain(w, r, err)
		return
	}

	if idempotencyKey != "" {
		if encoded, err := json.Marshal(result); err != nil {
			slog.Warn("batch assign result marshal failed", "err", err)
		} else if err := middleware.SaveIdempotency(r.Context(), h.DB, user.UserID, "kpi.records.assign", idempotencyKey, requestHash, encoded); err != nil {
			slog.Warn("batch assign idempotency save failed", "err", err)
		}
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "kpi.records.assign", "kpi_batch", result.RunID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, result); err != nil {
		slog.Warn("audit kpi.records.assign failed", "err", err)
	}
	h.notifyAssigned(r, req, result)

	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) notifyAssigned(r *http.Request, req kpi.BatchRequest, result kpi.BatchResult) {
	if h.Notify == nil || result.SuccessCount == 0 {
		return
	}
	failed := map[string]struct{}{}
	for _, assignErr := range result.Errors {
		failed[assignErr.EmployeeID] = struct{}{}
	}
	for _, employeeID := range req.EmployeeIDs {
		if _, bad := failed[employeeID]; bad {
			continue
		}
		userID, err := h.Employees.UserIDByEmployeeID(r.Context(), employeeID)
		if err != nil || userID == "" {
			continue
		}
		if err := h.Notify.Create(r.Context(), userID, notifications.TypeKpiAssigned, "KPI assigned", "A new KPI has been assigned to you for "+req.Period+"."); err != nil {
			slog.Warn("kpi assigned notification failed", "err", err)
		}
	}
}

func (h *Handler) handleRecordProgress(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	recordID := chi.URLParam(r, "recordID")
	var payload struct {
		Actual float64 `json:"actual"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	rec, err := h.Service.RecordProgress(r.Context(), recordID, payload.Actual)
	if err != nil {
		failDomain(w, r, err)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "kpi.record.progress", "kpi_record", recordID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit kpi.record.progress failed", "err", err)
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	recordID := chi.URLParam(r, "recordID")
	var payload struct {
		Actual        float64 `json:"actual"`
		Details       string  `json:"details"`
		AttachmentRef string  `json:"attachmentRef"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	rec, err := h.Service.Submit(r.Context(), recordID, payload.Actual, payload.Details, payload.AttachmentRef)
	if err != nil {
		failDomain(w, r, err)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "kpi.record.submit", "kpi_record", recordID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit kpi.record.submit failed", "err", err)
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDecide(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	recordID := chi.URLParam(r, "recordID")
	var payload struct {
		Decision string `json:"decision"`
		Feedback string `json:"feedback"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	rec, err := h.Service.Decide(r.Context(), recordID, payload.Decision, user.UserID, payload.Feedback)
	if err != nil {
		failDomain(w, r, err)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "kpi.record.decide", "kpi_record", recordID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit kpi.record.decide failed", "err", err)
	}
	if h.Notify != nil {
		ownerUserID, err := h.Employees.UserIDByEmployeeID(r.Context(), rec.EmployeeID)
		if err != nil {
			slog.Warn("decision owner lookup failed", "err", err)
		}
		if ownerUserID != "" {
			ntype := notifications.TypeKpiApproved
			title := "KPI approved"
			body := "Your KPI submission has been approved."
			if rec.Status == kpi.StatusRejected {
				ntype = notifications.TypeKpiRejected
				title = "KPI rejected"
				body = "Your KPI submission has been rejected. Review the feedback and resubmit."
			}
			if err := h.Notify.Create(r.Context(), ownerUserID, ntype, title, body); err != nil {
				slog.Warn("decision notification failed", "err", err)
			}
		}
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
	if err := h.Service.DeleteRecord(r.Context(), recordID); err != nil {
		failDomain(w, r, err)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "kpi.record.delete", "kpi_record", recordID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit kpi.record.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"id": recordID}, middleware.GetRequestID(r.Context()))
}

package kpihandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"kpitrack/internal/domain/kpi"
	"kpitrack/internal/transport/http/api"
)

func invokeFailDomain(t *testing.T, err error) (int, api.Envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	failDomain(rec, req, err)

	var env api.Envelope
	if decodeErr := json.NewDecoder(rec.Body).Decode(&env); decodeErr != nil {
		t.Fatalf("decode envelope: %v", decodeErr)
	}
	return rec.Code, env
}

func TestFailDomainValidationError(t *testing.T) {
	status, env := invokeFailDomain(t, &kpi.ValidationError{Field: "period", Reason: "must match Q<n>-<year>"})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if env.Error == nil || env.Error.Code != "validation_error" {
		t.Fatalf("unexpected error payload: %+v", env.Error)
	}
	if env.Error.Details == nil {
		t.Fatal("expected field details on validation failure")
	}
}

func TestFailDomainInvalidTransition(t *testing.T) {
	status, env := invokeFailDomain(t, &kpi.InvalidTransitionError{Status: kpi.StatusApproved, Action: "submit"})
	if status != http.StatusConflict {
		t.Fatalf("expected 409, got %d", status)
	}
	if env.Error == nil || env.Error.Code != "invalid_state" {
		t.Fatalf("unexpected error payload: %+v", env.Error)
	}
}

func TestFailDomainZeroTarget(t *testing.T) {
	status, env := invokeFailDomain(t, kpi.ErrZeroTarget)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if env.Error == nil || env.Error.Code != "division_by_zero" {
		t.Fatalf("unexpected error payload: %+v", env.Error)
	}
}

func TestFailDomainNotFound(t *testing.T) {
	for _, err := range []error{kpi.ErrRecordNotFound, kpi.ErrDefinitionNotFound} {
		status, env := invokeFailDomain(t, err)
		if status != http.StatusNotFound {
			t.Fatalf("expected 404 for %v, got %d", err, status)
		}
		if env.Error == nil || env.Error.Code != "not_found" {
			t.Fatalf("unexpected error payload for %v: %+v", err, env.Error)
		}
	}
}

func TestFailDomainDefaultsToInternal(t *testing.T) {
	status, env := invokeFailDomain(t, errors.New("connection reset"))
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if env.Error == nil || env.Error.Code != "internal_error" {
		t.Fatalf("unexpected error payload: %+v", env.Error)
	}
}

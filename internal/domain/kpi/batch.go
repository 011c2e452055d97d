package kpi

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BatchRequest struct {
	DefinitionID string
	EmployeeIDs  []string
	Period       string
	Target       float64
	StartDate    time.Time
	EndDate      time.Time
}

type AssignmentError struct {
	EmployeeID string `json:"employeeId"`
	Reason     string `json:"reason"`
}

type BatchResult struct {
	RunID        string            `json:"runId"`
	SuccessCount int               `json:"successCount"`
	FailureCount int               `json:"failureCount"`
	Errors       []AssignmentError `json:"errors"`
}

// BatchAssign assigns one definition to many employees for one period with
// validate-then-commit semantics: every candidate is validated first, then
// the valid subset is written in a single bulk insert. Per-employee failures
// never abort the batch; they are itemized in the result. Validation and
// commit are deliberately not interleaved so the duplicate check of every
// candidate runs against the same pre-batch state.
func (s *Service) BatchAssign(ctx context.Context, req BatchRequest) (BatchResult, error) {
	def, err := s.GetDefinition(ctx, req.DefinitionID)
	if err != nil {
		return BatchResult{}, err
	}
	if def.Status != DefinitionStatusActive {
		return BatchResult{}, &ValidationError{Field: "kpiDefinitionId", Reason: "definition is not active"}
	}
	if len(req.EmployeeIDs) == 0 {
		return BatchResult{}, &ValidationError{Field: "employeeIds", Reason: "must not be empty"}
	}
	period := req.Period
	if period == "" {
		now := time.Now().UTC()
		if def.Frequency == FrequencyMonthly {
			period = CurrentMonthlyPeriod(now)
		} else {
			period = CurrentPeriod(now)
		}
	}
	if !ValidPeriod(period) {
		return BatchResult{}, &ValidationError{Field: "period", Reason: "must match Q<n>-<year> or M<n>-<year>"}
	}
	target := req.Target
	if target == 0 {
		target = def.Target
	}
	if target <= 0 {
		return BatchResult{}, &ValidationError{Field: "target", Reason: "must be greater than zero"}
	}
	startDate, endDate := req.StartDate, req.EndDate
	if startDate.IsZero() && endDate.IsZero() {
		startDate, endDate, _ = PeriodBounds(period)
	}
	if startDate.IsZero() || endDate.IsZero() {
		return BatchResult{}, &ValidationError{Field: "startDate", Reason: "start and end dates are required"}
	}
	if endDate.Before(startDate) {
		return BatchResult{}, &ValidationError{Field: "endDate", Reason: "must not be before startDate"}
	}

	result := BatchResult{RunID: uuid.NewString(), Errors: []AssignmentError{}}

	var commit []Record
	for _, employeeID := range req.EmployeeIDs {
		if employeeID == "" {
			result.Errors = append(result.Errors, AssignmentError{EmployeeID: employeeID, Reason: "employee id must not be empty"})
			continue
		}
		departmentID, active, err := s.Employees.ActiveDepartment(ctx, employeeID)
		if errors.Is(err, pgx.ErrNoRows) {
			result.Errors = append(result.Errors, AssignmentError{EmployeeID: employeeID, Reason: "employee not found"})
			continue
		}
		if err != nil {
			return BatchResult{}, err
		}
		if !active {
			result.Errors = append(result.Errors, AssignmentError{EmployeeID: employeeID, Reason: "employee is not active"})
			continue
		}
		exists, err := s.Store.ActiveRecordExists(ctx, req.DefinitionID, employeeID, period)
		if err != nil {
			return BatchResult{}, err
		}
		if exists {
			result.Errors = append(result.Errors, AssignmentError{EmployeeID: employeeID, Reason: "an active record already exists for this KPI and period"})
			continue
		}
		commit = append(commit, Record{
			ID:           uuid.NewString(),
			DefinitionID: req.DefinitionID,
			EmployeeID:   employeeID,
			DepartmentID: departmentID,
			Period:       period,
			Target:       target,
			Status:       StatusNotStarted,
			StartDate:    startDate,
			EndDate:      endDate,
		})
	}

	if len(commit) == 0 {
		result.FailureCount = len(result.Errors)
		return result, nil
	}

	// One bulk write for the whole commit set. A failure here is assumed to
	// be structural for the batch, so there is no row-by-row fallback.
	if err := s.Store.BulkInsertRecords(ctx, commit); err != nil {
		for _, rec := range commit {
			result.Errors = append(result.Errors, AssignmentError{EmployeeID: rec.EmployeeID, Reason: err.Error()})
		}
		result.FailureCount = len(result.Errors)
		return result, nil
	}

	result.SuccessCount = len(commit)
	result.FailureCount = len(result.Errors)
	return result, nil
}

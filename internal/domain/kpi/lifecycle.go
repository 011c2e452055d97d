package kpi

import (
	"math"
	"strings"
	"time"
)

// The record lifecycle is not_started -> in_progress -> completed ->
// pending_approval -> approved|rejected. Approval is the only terminal
// state: a rejected record still accepts progress and may be resubmitted.

// RecordProgress applies a new actual value to the record. A not-started
// record advances to in_progress; no other field changes besides actual and
// the recomputed percentage.
func RecordProgress(rec *Record, actual float64) error {
	if rec.Status == StatusApproved {
		return &InvalidTransitionError{Status: rec.Status, Action: "record progress on"}
	}
	if err := validActual(actual); err != nil {
		return err
	}
	pct, err := Progress(actual, rec.Target)
	if err != nil {
		return err
	}
	rec.Actual = actual
	rec.Progress = pct
	rec.Status = StartOnProgress(rec.Status)
	return nil
}

// Submit records the final actual value with supporting details and moves
// the record to pending_approval. This is the single operation that takes a
// record out of employee-editable territory.
func Submit(rec *Record, actual float64, details, attachmentRef string, now time.Time) error {
	if rec.Status == StatusApproved || rec.Status == StatusPendingApproval {
		return &InvalidTransitionError{Status: rec.Status, Action: "submit"}
	}
	if strings.TrimSpace(details) == "" {
		return &ValidationError{Field: "submissionDetails", Reason: "must not be empty"}
	}
	if err := validActual(actual); err != nil {
		return err
	}
	pct, err := Progress(actual, rec.Target)
	if err != nil {
		return err
	}
	rec.Actual = actual
	rec.Progress = pct
	rec.SubmissionDetails = strings.TrimSpace(details)
	rec.AttachmentRef = strings.TrimSpace(attachmentRef)
	submitted := now
	rec.SubmittedAt = &submitted
	rec.Status = StatusPendingApproval
	return nil
}

// Decide approves or rejects a pending record. Rejection keeps the actual
// value and progress so the employee can revise and resubmit.
func Decide(rec *Record, decision, approverID, feedback string, now time.Time) error {
	if rec.Status != StatusPendingApproval {
		return &InvalidTransitionError{Status: rec.Status, Action: "decide on"}
	}
	switch decision {
	case DecisionApprove:
		rec.Status = StatusApproved
	case DecisionReject:
		rec.Status = StatusRejected
	default:
		return &ValidationError{Field: "decision", Reason: "must be approve or reject"}
	}
	decided := now
	rec.DecidedAt = &decided
	rec.ApproverID = approverID
	rec.Feedback = strings.TrimSpace(feedback)
	return nil
}

func validActual(actual float64) error {
	if actual < 0 || math.IsNaN(actual) || math.IsInf(actual, 0) {
		return &ValidationError{Field: "actual", Reason: "must be a non-negative number"}
	}
	return nil
}

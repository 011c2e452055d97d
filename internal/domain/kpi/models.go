package kpi

import "time"

type Definition struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	DepartmentID  string    `json:"departmentId"`
	Target        float64   `json:"target"`
	Unit          string    `json:"unit"`
	Frequency     string    `json:"frequency"`
	Status        string    `json:"status"`
	RewardConfig  string    `json:"rewardConfig"`
	PenaltyConfig string    `json:"penaltyConfig"`
	CreatedBy     string    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Record is one employee's assignment of a Definition for one period.
// Target is copied from the definition at assignment time and does not track
// later definition edits.
type Record struct {
	ID                string     `json:"id"`
	DefinitionID      string     `json:"kpiDefinitionId"`
	EmployeeID        string     `json:"employeeId"`
	DepartmentID      string     `json:"departmentId"`
	Period            string     `json:"period"`
	Target            float64    `json:"target"`
	Actual            float64    `json:"actual"`
	Progress          float64    `json:"progress"`
	Status            string     `json:"status"`
	Overdue           bool       `json:"overdue"`
	StartDate         time.Time  `json:"startDate"`
	EndDate           time.Time  `json:"endDate"`
	SubmittedAt       *time.Time `json:"submittedAt,omitempty"`
	SubmissionDetails string     `json:"submissionDetails,omitempty"`
	AttachmentRef     string     `json:"attachmentRef,omitempty"`
	DecidedAt         *time.Time `json:"decidedAt,omitempty"`
	ApproverID        string     `json:"approverId,omitempty"`
	Feedback          string     `json:"feedback,omitempty"`
	BonusPenalty      *float64   `json:"bonusPenalty,omitempty"`
	Score             *float64   `json:"score,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// IsOverdue reports whether the record's end date has passed while work is
// still open. The Overdue field is derived from it at read time and never
// stored: a rejected record stays resubmittable and does not stick as
// overdue.
func (r Record) IsOverdue(now time.Time) bool {
	if r.Status != StatusNotStarted && r.Status != StatusInProgress {
		return false
	}
	return !r.EndDate.IsZero() && r.EndDate.Before(now)
}

type RecordFilter struct {
	EmployeeID   string
	DefinitionID string
	Period       string
	Status       string
}

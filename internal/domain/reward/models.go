package reward

import "time"

// Bundle is a role-scoped map of named measurements for one employee and
// period. Values are numeric or boolean; missing fields simply keep rules
// from firing.
type Bundle map[string]any

type LineItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Achieved bool    `json:"achieved"`
	Reason   string  `json:"reason"`
}

type CalculationResult struct {
	Role               string     `json:"role"`
	Period             string     `json:"period"`
	Quarterly          []LineItem `json:"quarterlyBonuses"`
	Annual             []LineItem `json:"annualBonuses"`
	Penalties          []LineItem `json:"penalties"`
	QuarterlyTotal     float64    `json:"quarterlyTotal"`
	AnnualTotal        float64    `json:"annualTotal"`
	PenaltyTotal       float64    `json:"penaltyTotal"`
	SupplementalSalary float64    `json:"supplementalSalary"`
	Net                float64    `json:"net"`
}

// BonusPenaltyRecord is a standalone monetary adjustment with its own
// lifecycle, created by an administrator or from an engine calculation.
type BonusPenaltyRecord struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employeeId"`
	KpiRecordID string    `json:"kpiRecordId,omitempty"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Reason      string    `json:"reason"`
	Period      string    `json:"period"`
	CreatedBy   string    `json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

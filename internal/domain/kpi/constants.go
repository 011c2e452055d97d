package kpi

const (
	StatusNotStarted      = "not_started"
	StatusInProgress      = "in_progress"
	StatusCompleted       = "completed"
	StatusPendingApproval = "pending_approval"
	StatusApproved        = "approved"
	StatusRejected        = "rejected"
)

const (
	DefinitionStatusActive   = "active"
	DefinitionStatusPaused   = "paused"
	DefinitionStatusArchived = "archived"
)

const (
	FrequencyDaily     = "daily"
	FrequencyWeekly    = "weekly"
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
	FrequencyYearly    = "yearly"
)

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

var Frequencies = []string{
	FrequencyDaily,
	FrequencyWeekly,
	FrequencyMonthly,
	FrequencyQuarterly,
	FrequencyYearly,
}

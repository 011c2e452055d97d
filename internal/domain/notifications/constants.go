package notifications

const (
	TypeKpiAssigned   = "kpi_assigned"
	TypeKpiSubmitted  = "kpi_submitted"
	TypeKpiApproved   = "kpi_approved"
	TypeKpiRejected   = "kpi_rejected"
	TypeKpiOverdue    = "kpi_overdue"
	TypeBonusRecorded = "bonus_recorded"
)

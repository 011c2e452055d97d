package reward

// Each role maps to an ordered list of independent rules interpreted by the
// generic evaluator in engine.go. A rule reads one bundle field, compares it
// against a threshold and, when the predicate holds, contributes a fixed
// amount to its bucket. No rule depends on another rule's outcome.

type comparator string

const (
	cmpGTE comparator = "gte"
	cmpLTE comparator = "lte"
	cmpEQ  comparator = "eq"
	cmpGT  comparator = "gt"
	cmpLT  comparator = "lt"
)

type Rule struct {
	ID        string
	Name      string
	Field     string
	Cmp       comparator
	Threshold float64
	Amount    float64
	Reason    string // fmt template; the observed value is substituted when a verb is present
	Bucket    string
}

var roleRules = map[string][]Rule{
	RoleITStaff: {
		{ID: "system_uptime", Name: "System uptime", Field: "systemUptime", Cmp: cmpGTE, Threshold: 99.5, Amount: 2000000, Reason: "system uptime %.2f%% met the 99.5%% target", Bucket: BucketQuarterly},
		{ID: "backup_completion", Name: "Backup completion", Field: "backupCompleted", Cmp: cmpEQ, Threshold: 1, Amount: 1000000, Reason: "all scheduled backups completed", Bucket: BucketQuarterly},
		{ID: "low_repair_jobs", Name: "Low repair jobs", Field: "repairJobs", Cmp: cmpLTE, Threshold: 5, Amount: 1500000, Reason: "%.0f repair jobs stayed within the limit of 5", Bucket: BucketQuarterly},
		{ID: "annual_uptime", Name: "Annual uptime", Field: "annualUptime", Cmp: cmpGTE, Threshold: 99.9, Amount: 5000000, Reason: "annual uptime %.2f%% met the 99.9%% target", Bucket: BucketAnnual},
		{ID: "certifications", Name: "New certifications", Field: "newCertifications", Cmp: cmpGTE, Threshold: 1, Amount: 2000000, Reason: "earned %.0f new certification(s) this year", Bucket: BucketAnnual},
		{ID: "system_downtime", Name: "System downtime", Field: "systemDowntime", Cmp: cmpGT, Threshold: 24, Amount: 1000000, Reason: "%.1f hours of downtime exceeded the 24 hour allowance", Bucket: BucketPenalty},
		{ID: "slow_repairs", Name: "Slow repairs", Field: "avgRepairHours", Cmp: cmpGT, Threshold: 48, Amount: 500000, Reason: "average repair time of %.1f hours exceeded 48 hours", Bucket: BucketPenalty},
	},
	RoleSales: {
		{ID: "revenue_target", Name: "Revenue target", Field: "revenueAchievement", Cmp: cmpGTE, Threshold: 100, Amount: 3000000, Reason: "revenue achievement %.1f%% met the quarterly target", Bucket: BucketQuarterly},
		{ID: "new_customers", Name: "New customers", Field: "newCustomers", Cmp: cmpGTE, Threshold: 10, Amount: 1500000, Reason: "signed %.0f new customers", Bucket: BucketQuarterly},
		{ID: "customer_retention", Name: "Customer retention", Field: "customerRetention", Cmp: cmpGTE, Threshold: 90, Amount: 1000000, Reason: "retention of %.1f%% met the 90%% target", Bucket: BucketQuarterly},
		{ID: "annual_quota", Name: "Annual quota", Field: "annualQuotaAchievement", Cmp: cmpGTE, Threshold: 100, Amount: 10000000, Reason: "annual quota achievement %.1f%%", Bucket: BucketAnnual},
		{ID: "missed_quota", Name: "Missed quota", Field: "revenueAchievement", Cmp: cmpLT, Threshold: 70, Amount: 2000000, Reason: "revenue achievement %.1f%% fell below 70%%", Bucket: BucketPenalty},
		{ID: "customer_churn", Name: "Customer churn", Field: "customerChurn", Cmp: cmpGT, Threshold: 15, Amount: 1000000, Reason: "churn of %.1f%% exceeded 15%%", Bucket: BucketPenalty},
	},
	RoleCustomerService: {
		{ID: "satisfaction", Name: "Customer satisfaction", Field: "satisfactionScore", Cmp: cmpGTE, Threshold: 4.5, Amount: 1500000, Reason: "satisfaction score %.2f met the 4.5 target", Bucket: BucketQuarterly},
		{ID: "response_time", Name: "Response time", Field: "avgResponseMinutes", Cmp: cmpLTE, Threshold: 15, Amount: 1000000, Reason: "average response of %.1f minutes stayed within 15 minutes", Bucket: BucketQuarterly},
		{ID: "first_contact_resolution", Name: "First contact resolution", Field: "firstContactResolution", Cmp: cmpGTE, Threshold: 80, Amount: 1000000, Reason: "first contact resolution %.1f%% met the 80%% target", Bucket: BucketQuarterly},
		{ID: "annual_satisfaction", Name: "Annual satisfaction", Field: "annualSatisfaction", Cmp: cmpGTE, Threshold: 4.5, Amount: 3000000, Reason: "annual satisfaction score %.2f", Bucket: BucketAnnual},
		{ID: "escalated_complaints", Name: "Escalated complaints", Field: "escalatedComplaints", Cmp: cmpGT, Threshold: 10, Amount: 750000, Reason: "%.0f escalated complaints exceeded the limit of 10", Bucket: BucketPenalty},
	},
	RoleManager: {
		{ID: "team_target", Name: "Team target", Field: "teamAchievement", Cmp: cmpGTE, Threshold: 100, Amount: 4000000, Reason: "team achievement %.1f%% met the quarterly target", Bucket: BucketQuarterly},
		{ID: "budget_discipline", Name: "Budget discipline", Field: "budgetVariance", Cmp: cmpLTE, Threshold: 5, Amount: 1500000, Reason: "budget variance of %.1f%% stayed within 5%%", Bucket: BucketQuarterly},
		{ID: "team_retention", Name: "Team retention", Field: "teamRetention", Cmp: cmpGTE, Threshold: 90, Amount: 5000000, Reason: "team retention %.1f%% met the 90%% target", Bucket: BucketAnnual},
		{ID: "team_attrition", Name: "Team attrition", Field: "teamAttrition", Cmp: cmpGT, Threshold: 20, Amount: 2000000, Reason: "attrition of %.1f%% exceeded 20%%", Bucket: BucketPenalty},
	},
}

// defaultRules applies to any role code without a dedicated rule set, so an
// unrecognized role still yields a valid (if generic) calculation.
var defaultRules = []Rule{
	{ID: "goal_achievement", Name: "Goal achievement", Field: "goalAchievement", Cmp: cmpGTE, Threshold: 100, Amount: 1000000, Reason: "goal achievement %.1f%% met the target", Bucket: BucketQuarterly},
	{ID: "attendance", Name: "Attendance", Field: "attendanceRate", Cmp: cmpGTE, Threshold: 95, Amount: 500000, Reason: "attendance of %.1f%% met the 95%% target", Bucket: BucketQuarterly},
	{ID: "annual_goal", Name: "Annual goal", Field: "annualGoalAchievement", Cmp: cmpGTE, Threshold: 100, Amount: 2000000, Reason: "annual goal achievement %.1f%%", Bucket: BucketAnnual},
	{ID: "low_achievement", Name: "Low achievement", Field: "goalAchievement", Cmp: cmpLT, Threshold: 50, Amount: 500000, Reason: "goal achievement %.1f%% fell below 50%%", Bucket: BucketPenalty},
}

// RulesForRole returns the rule set for a role code, falling back to the
// default set for unknown roles.
func RulesForRole(role string) []Rule {
	if rules, ok := roleRules[role]; ok {
		return rules
	}
	return defaultRules
}

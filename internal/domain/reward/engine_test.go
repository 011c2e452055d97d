package reward

import "testing"

func TestCalculateITStaffQuarterly(t *testing.T) {
	bundle := Bundle{
		"systemUptime":    99.6,
		"backupCompleted": true,
		"repairJobs":      3,
	}

	result := Calculate(RoleITStaff, "Q1-2026", bundle, 0)

	if len(result.Quarterly) != 3 {
		t.Fatalf("expected exactly 3 quarterly line items, got %+v", result.Quarterly)
	}
	wantIDs := []string{"system_uptime", "backup_completion", "low_repair_jobs"}
	for i, want := range wantIDs {
		if result.Quarterly[i].ID != want {
			t.Fatalf("expected item %d to be %s, got %s", i, want, result.Quarterly[i].ID)
		}
		if !result.Quarterly[i].Achieved {
			t.Fatalf("expected %s to be achieved", want)
		}
	}
	if result.QuarterlyTotal != 4500000 {
		t.Fatalf("expected quarterly total 4500000, got %v", result.QuarterlyTotal)
	}
	if len(result.Penalties) != 0 {
		t.Fatalf("expected no penalties when systemDowntime is absent, got %+v", result.Penalties)
	}
	if result.Net != 4500000 {
		t.Fatalf("expected net 4500000, got %v", result.Net)
	}
}

func TestCalculateUnknownRoleUsesDefaultRules(t *testing.T) {
	result := Calculate("UNKNOWN_ROLE", "Q1-2026", Bundle{"goalAchievement": 120.0}, 0)
	if result.Role != "UNKNOWN_ROLE" {
		t.Fatalf("unexpected role %q", result.Role)
	}
	if len(result.Quarterly) != 1 || result.Quarterly[0].ID != "goal_achievement" {
		t.Fatalf("expected default goal_achievement item, got %+v", result.Quarterly)
	}
	if result.Net != 1000000 {
		t.Fatalf("expected net 1000000, got %v", result.Net)
	}
}

func TestCalculateMissingFieldsNeverFire(t *testing.T) {
	result := Calculate(RoleITStaff, "Q1-2026", Bundle{}, 0)
	if len(result.Quarterly)+len(result.Annual)+len(result.Penalties) != 0 {
		t.Fatalf("expected no line items for an empty bundle, got %+v", result)
	}
	if result.Net != 0 {
		t.Fatalf("expected net 0, got %v", result.Net)
	}
}

func TestCalculatePenaltySubtractsFromNet(t *testing.T) {
	bundle := Bundle{
		"systemUptime":   99.6,
		"systemDowntime": 30.0,
	}
	result := Calculate(RoleITStaff, "Q2-2026", bundle, 0)
	if len(result.Penalties) != 1 || result.Penalties[0].ID != "system_downtime" {
		t.Fatalf("expected system_downtime penalty, got %+v", result.Penalties)
	}
	if result.Net != 2000000-1000000 {
		t.Fatalf("expected net 1000000, got %v", result.Net)
	}
}

func TestCalculateAddsSupplementalSalary(t *testing.T) {
	result := Calculate(RoleITStaff, "Q1-2026", Bundle{"repairJobs": 2}, 250000)
	if result.SupplementalSalary != 250000 {
		t.Fatalf("expected supplemental 250000, got %v", result.SupplementalSalary)
	}
	if result.Net != 1500000+250000 {
		t.Fatalf("expected net 1750000, got %v", result.Net)
	}
}

func TestCalculateAnnualBucket(t *testing.T) {
	bundle := Bundle{
		"annualUptime":      99.95,
		"newCertifications": 2,
	}
	result := Calculate(RoleITStaff, "Q4-2026", bundle, 0)
	if len(result.Annual) != 2 {
		t.Fatalf("expected two annual items, got %+v", result.Annual)
	}
	if result.AnnualTotal != 7000000 {
		t.Fatalf("expected annual total 7000000, got %v", result.AnnualTotal)
	}
}

func TestCalculateBooleanFalseDoesNotFire(t *testing.T) {
	result := Calculate(RoleITStaff, "Q1-2026", Bundle{"backupCompleted": false}, 0)
	if len(result.Quarterly) != 0 {
		t.Fatalf("expected no items for failed backups, got %+v", result.Quarterly)
	}
}

func TestCalculateIgnoresNonNumericValues(t *testing.T) {
	result := Calculate(RoleITStaff, "Q1-2026", Bundle{"systemUptime": "high"}, 0)
	if len(result.Quarterly) != 0 {
		t.Fatalf("expected non-numeric value to be ignored, got %+v", result.Quarterly)
	}
}

func TestCalculateRulesAreIndependent(t *testing.T) {
	full := Calculate(RoleSales, "Q1-2026", Bundle{
		"revenueAchievement": 110.0,
		"newCustomers":       12,
	}, 0)
	partial := Calculate(RoleSales, "Q1-2026", Bundle{"newCustomers": 12}, 0)

	if len(full.Quarterly) != 2 {
		t.Fatalf("expected 2 items, got %+v", full.Quarterly)
	}
	if len(partial.Quarterly) != 1 || partial.Quarterly[0].ID != "new_customers" {
		t.Fatalf("dropping one field must not affect the other rule, got %+v", partial.Quarterly)
	}
}

package reward

import (
	"fmt"
	"strings"
)

// Calculate evaluates the role's rule set over the bundle and aggregates the
// fired line items. The engine is pure: it never persists anything and never
// fails on unknown roles or missing fields.
func Calculate(role, period string, bundle Bundle, supplementalSalary float64) CalculationResult {
	result := CalculationResult{
		Role:               role,
		Period:             period,
		Quarterly:          []LineItem{},
		Annual:             []LineItem{},
		Penalties:          []LineItem{},
		SupplementalSalary: supplementalSalary,
	}

	for _, rule := range RulesForRole(role) {
		value, ok := metricValue(bundle[rule.Field])
		if !ok || !compare(rule.Cmp, value, rule.Threshold) {
			continue
		}
		item := LineItem{
			ID:       rule.ID,
			Name:     rule.Name,
			Amount:   rule.Amount,
			Achieved: true,
			Reason:   reason(rule.Reason, value),
		}
		switch rule.Bucket {
		case BucketAnnual:
			result.Annual = append(result.Annual, item)
			result.AnnualTotal += item.Amount
		case BucketPenalty:
			result.Penalties = append(result.Penalties, item)
			result.PenaltyTotal += item.Amount
		default:
			result.Quarterly = append(result.Quarterly, item)
			result.QuarterlyTotal += item.Amount
		}
	}

	result.Net = result.QuarterlyTotal + result.AnnualTotal - result.PenaltyTotal + supplementalSalary
	return result
}

// metricValue normalizes a bundle value to a float64. Booleans count as 1/0
// so equality rules can match them. Anything else (missing, string, nil)
// means the rule does not fire.
func metricValue(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func compare(cmp comparator, value, threshold float64) bool {
	switch cmp {
	case cmpGTE:
		return value >= threshold
	case cmpLTE:
		return value <= threshold
	case cmpEQ:
		return value == threshold
	case cmpGT:
		return value > threshold
	case cmpLT:
		return value < threshold
	default:
		return false
	}
}

func reason(template string, value float64) string {
	if strings.Contains(template, "%") {
		return fmt.Sprintf(template, value)
	}
	return template
}

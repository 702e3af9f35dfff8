package usecase

import (
	"strconv"

	"fastbulk/internal/domain"
)

// toFloat coerces rule values that may arrive from JSON as numbers or
// numeric strings. Anything else fails coercion.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// EvaluateCondition checks one condition against a metric snapshot.
// Missing metrics read as zero; non-numeric actuals or thresholds make
// the condition false rather than erroring.
func EvaluateCondition(metrics domain.MetricRow, cond domain.RuleCondition) bool {
	raw, ok := metrics[cond.Metric]
	var actual float64
	if ok && raw != nil {
		actual, ok = toFloat(raw)
		if !ok {
			return false
		}
	}

	value, ok := toFloat(cond.Value)
	if !ok {
		return false
	}

	switch cond.Operator {
	case ">":
		return actual > value
	case ">=":
		return actual >= value
	case "<":
		return actual < value
	case "<=":
		return actual <= value
	case "==":
		return actual == value
	case "!=":
		return actual != value
	}
	return false
}

// EvaluateRule reports whether every condition in the rule holds.
// Disabled rules and rules without conditions never match.
func EvaluateRule(metrics domain.MetricRow, rule domain.CustomRule) bool {
	if !rule.IsEnabled() {
		return false
	}
	if len(rule.Conditions) == 0 {
		return false
	}
	for _, c := range rule.Conditions {
		if !EvaluateCondition(metrics, c) {
			return false
		}
	}
	return true
}

// FindMatchingRule returns the first enabled rule whose conditions all
// hold, or nil. Rule order is significant: first match wins, not best.
func FindMatchingRule(metrics domain.MetricRow, rules []domain.CustomRule) *domain.CustomRule {
	for i := range rules {
		if EvaluateRule(metrics, rules[i]) {
			return &rules[i]
		}
	}
	return nil
}

package domain

// Custom rule categories recognized by the suggestion engine.
const (
	RuleCategoryExact     = "exact"
	RuleCategoryNegatives = "negatives"
	RuleCategoryPause     = "pause"
	RuleCategoryPlacement = "placement"
	RuleCategoryBids      = "bids"
)

// RuleCondition compares one metric against a threshold. Value arrives
// from JSON so it may be a number or a numeric string; anything that
// cannot be coerced makes the condition false.
type RuleCondition struct {
	Metric   string `json:"metric"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// RuleAction carries the category-specific parameters applied when a
// rule matches. Zero-valued fields fall back to the threshold defaults.
type RuleAction struct {
	Type          string  `json:"type,omitempty"`
	MatchType     string  `json:"match_type,omitempty"`
	BidMultiplier float64 `json:"bid_multiplier,omitempty"`
	Step          float64 `json:"step,omitempty"`
	Value         float64 `json:"value,omitempty"`
}

// CustomRule is a conjunction of conditions plus an action payload.
// Rules are evaluated in list order; the first match wins.
type CustomRule struct {
	ID         string          `json:"id"`
	Enabled    *bool           `json:"enabled,omitempty"`
	Conditions []RuleCondition `json:"conditions"`
	Action     RuleAction      `json:"action"`
}

// IsEnabled reports whether the rule participates in matching. A rule
// whose flag was never set counts as enabled.
func (r CustomRule) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// CustomRules maps a rule category to its ordered rule list.
type CustomRules map[string][]CustomRule

package usecase

import (
	"testing"

	"fastbulk/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNegativesFlagsWastingTerm(t *testing.T) {
	e := NewSuggestionEngine()
	terms := []domain.SearchTerm{termFix("bad term", 15, 0, 20, 0)}

	out, seen := e.negativeSearchTerms(terms, nil, DefaultThresholds())
	require.Len(t, out, 1)
	assert.Equal(t, domain.CategoryNegatives, out[0].Category)
	assert.Equal(t, domain.SeverityHigh, out[0].Severity)

	action := requireActionByEntity(t, out[0].Actions, domain.EntityCampaignNegativeKW)
	assert.Equal(t, domain.MatchNegativeExact, action[domain.ColMatchType])
	assert.Equal(t, domain.OperationCreate, action[domain.ColOperation])
	assert.Equal(t, "100", action[domain.ColCampaignID])
	assert.Equal(t, "bad term", action[domain.ColKeywordText])

	assert.Contains(t, seen, "100|bad term")
}

func TestNegativesSkipsExactSource(t *testing.T) {
	e := NewSuggestionEngine()
	term := termFix("some term", 15, 0, 20, 0)
	term.SourceType = "exact"

	out, _ := e.negativeSearchTerms([]domain.SearchTerm{term}, nil, DefaultThresholds())
	assert.Empty(t, out)
}

func TestNegativesSkipsConvertingTerm(t *testing.T) {
	e := NewSuggestionEngine()
	terms := []domain.SearchTerm{termFix("good term", 15, 3, 20, 60)}

	out, _ := e.negativeSearchTerms(terms, nil, DefaultThresholds())
	assert.Empty(t, out)
}

func TestNegativesSkipsExistingNegative(t *testing.T) {
	e := NewSuggestionEngine()
	terms := []domain.SearchTerm{termFix("bad term", 15, 0, 20, 0)}
	existing := newSet([]string{"100|bad term"})

	out, _ := e.negativeSearchTerms(terms, existing, DefaultThresholds())
	assert.Empty(t, out)
}

func TestNegativesDoesNotMutateCallerSet(t *testing.T) {
	e := NewSuggestionEngine()
	terms := []domain.SearchTerm{termFix("bad term", 15, 0, 20, 0)}
	existing := map[string]struct{}{}

	_, seen := e.negativeSearchTerms(terms, existing, DefaultThresholds())
	assert.Empty(t, existing)
	assert.Len(t, seen, 1)
}

func TestNegativesCustomRuleOverridesDefaults(t *testing.T) {
	e := NewSuggestionEngine()
	// Only 5 clicks, below the default threshold of 10.
	terms := []domain.SearchTerm{termFix("low clicks", 5, 0, 20, 0)}

	out, _ := e.negativeSearchTerms(terms, nil, DefaultThresholds())
	assert.Empty(t, out)

	th := DefaultThresholds()
	th.CustomRules = domain.CustomRules{
		domain.RuleCategoryNegatives: {
			{
				ID: "custom_1",
				Conditions: []domain.RuleCondition{
					{Metric: "clicks", Operator: ">=", Value: 3},
					{Metric: "orders", Operator: "==", Value: 0},
				},
				Action: domain.RuleAction{Type: "add_negative", MatchType: "Negative Phrase"},
			},
		},
	}
	out, _ = e.negativeSearchTerms(terms, nil, th)
	require.Len(t, out, 1)
	action := requireActionByEntity(t, out[0].Actions, domain.EntityCampaignNegativeKW)
	assert.Equal(t, "Negative Phrase", action[domain.ColMatchType])
}

func TestNegativesDisabledRuleIsIgnored(t *testing.T) {
	e := NewSuggestionEngine()
	terms := []domain.SearchTerm{termFix("test", 5, 0, 20, 0)}

	th := DefaultThresholds()
	th.CustomRules = domain.CustomRules{
		domain.RuleCategoryNegatives: {
			{
				ID:         "disabled_1",
				Enabled:    boolPtr(false),
				Conditions: []domain.RuleCondition{{Metric: "clicks", Operator: ">=", Value: 1}},
				Action:     domain.RuleAction{Type: "add_negative"},
			},
		},
	}
	out, _ := e.negativeSearchTerms(terms, nil, th)
	assert.Empty(t, out)
}

package usecase

import (
	"testing"

	"fastbulk/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlacementsDetectsIneffective(t *testing.T) {
	e := NewSuggestionEngine()
	camp := campFix()
	camp.CPC = 1.0
	placements := []domain.Placement{
		placementFix("Placement Top", 100, 30, 120, 30),           // ACOS 25%, keeps traffic
		placementFix("Placement Rest Of Search", 50, 20, 40, 20), // ACOS 50%, drops to zero
	}
	tgt := targetFix(25, 3)
	tgt.KeywordText = "kw1"
	tgt.Bid = 0.80
	targetsByCamp := map[string][]domain.Target{"100": {tgt}}

	out := e.optimizePlacements([]domain.Campaign{camp}, placements, targetsByCamp, DefaultThresholds())
	require.Len(t, out, 1)
	assert.Contains(t, out[0].Title, "Placement Rest Of Search")

	kwActions := actionsByEntity(out[0].Actions, domain.EntityKeyword)
	require.NotEmpty(t, kwActions)
	assert.Contains(t, kwActions[0], domain.ColBid)
	assert.Equal(t, "kw1", kwActions[0][domain.ColKeywordText])
	assert.Equal(t, "Broad", kwActions[0][domain.ColMatchType])
	// Base bid halves, and so does each target bid.
	assert.Equal(t, 0.40, kwActions[0][domain.ColBid])

	adjActions := actionsByEntity(out[0].Actions, domain.EntityBiddingAdjustment)
	require.Len(t, adjActions, 2)
	byPlacement := make(map[string]int)
	for _, a := range adjActions {
		byPlacement[a[domain.ColPlacement].(string)] = a[domain.ColPercentage].(int)
	}
	// Best placement raised so its effective CPC holds; bad one zeroed.
	assert.Equal(t, 300, byPlacement["Placement Top"])
	assert.Equal(t, 0, byPlacement["Placement Rest Of Search"])
}

func TestPlacementsSkipsWhenAllEffective(t *testing.T) {
	e := NewSuggestionEngine()
	camp := campFix()
	camp.CPC = 1.0
	placements := []domain.Placement{
		placementFix("Placement Top", 100, 30, 120, 30), // ACOS 25%
	}

	out := e.optimizePlacements([]domain.Campaign{camp}, placements, nil, DefaultThresholds())
	assert.Empty(t, out)
}

func TestPlacementsSkipsWhenIneffectiveAlreadyAtZero(t *testing.T) {
	e := NewSuggestionEngine()
	camp := campFix()
	camp.CPC = 1.0
	placements := []domain.Placement{
		placementFix("Placement Top", 100, 30, 120, 30),          // good
		placementFix("Placement Rest Of Search", 0, 20, 40, 20), // bad, but 0→0 is a no-op
	}

	out := e.optimizePlacements([]domain.Campaign{camp}, placements, nil, DefaultThresholds())
	assert.Empty(t, out)
}

func TestPlacementsOnlyAdjustsNonZeroIneffective(t *testing.T) {
	e := NewSuggestionEngine()
	camp := campFix()
	camp.CPC = 1.0
	placements := []domain.Placement{
		placementFix("Placement Top", 100, 20, 100, 20),          // ACOS 20%, good
		placementFix("Placement Product Pages", 50, 15, 30, 15),  // ACOS 50%, reducible
		placementFix("Placement Rest Of Search", 0, 15, 30, 15),  // ACOS 50%, already 0%
	}
	tgt := targetFix(20, 0)
	tgt.KeywordText = "kw1"
	tgt.Bid = 0.80
	targetsByCamp := map[string][]domain.Target{"100": {tgt}}

	out := e.optimizePlacements([]domain.Campaign{camp}, placements, targetsByCamp, DefaultThresholds())
	require.Len(t, out, 1)
	assert.Contains(t, out[0].Title, "Placement Product Pages")
	assert.NotContains(t, out[0].Title, "Placement Rest Of Search")
}

func TestPlacementsSkipsLowSpendCampaign(t *testing.T) {
	e := NewSuggestionEngine()
	camp := campFix()
	camp.Spend = 3
	placements := []domain.Placement{
		placementFix("Placement Rest Of Search", 50, 2, 2, 5),
	}

	out := e.optimizePlacements([]domain.Campaign{camp}, placements, nil, DefaultThresholds())
	assert.Empty(t, out)
}

func TestPlacementsBidFloor(t *testing.T) {
	e := NewSuggestionEngine()
	camp := campFix()
	camp.CPC = 0.03
	placements := []domain.Placement{
		placementFix("Placement Top", 0, 30, 120, 30),
		placementFix("Placement Rest Of Search", 50, 20, 40, 20),
	}
	tgt := targetFix(20, 0)
	tgt.Bid = 0.03
	targetsByCamp := map[string][]domain.Target{"100": {tgt}}

	out := e.optimizePlacements([]domain.Campaign{camp}, placements, targetsByCamp, DefaultThresholds())
	require.Len(t, out, 1)
	for _, a := range actionsByEntity(out[0].Actions, domain.EntityKeyword) {
		bid, ok := a[domain.ColBid].(float64)
		require.True(t, ok)
		assert.GreaterOrEqual(t, bid, 0.02)
	}
}

func TestPlacementsCustomRuleSetPercentage(t *testing.T) {
	e := NewSuggestionEngine()
	camp := campFix()
	camp.CPC = 1.0
	placements := []domain.Placement{
		placementFix("Placement Top", 100, 30, 120, 30),
		placementFix("Placement Rest Of Search", 50, 20, 80, 20), // ACOS 25%, passes default gate
	}

	th := DefaultThresholds()
	th.CustomRules = domain.CustomRules{
		domain.RuleCategoryPlacement: {
			{
				ID: "plc_1",
				Conditions: []domain.RuleCondition{
					{Metric: "acos", Operator: ">=", Value: 25},
				},
				Action: domain.RuleAction{Type: "set_percentage", Value: 10},
			},
		},
	}

	out := e.optimizePlacements([]domain.Campaign{camp}, placements, nil, th)
	require.Len(t, out, 1)

	adjActions := actionsByEntity(out[0].Actions, domain.EntityBiddingAdjustment)
	found := false
	for _, a := range adjActions {
		if a[domain.ColPlacement] == "Placement Rest Of Search" {
			assert.Equal(t, 10, a[domain.ColPercentage])
			found = true
		}
	}
	assert.True(t, found)
}

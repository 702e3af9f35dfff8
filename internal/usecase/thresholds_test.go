package usecase

import (
	"testing"

	"fastbulk/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultThresholds(t *testing.T) {
	d := DefaultThresholds()

	assert.Equal(t, 0.35, d.ACOSIneffective)
	assert.Equal(t, 15.0, d.SpendCampaignPause)
	assert.Equal(t, 10.0, d.SpendTargetPause)
	assert.Equal(t, 10, d.ClicksNegative)
	assert.Equal(t, "Negative Exact", d.NegativeMatchType)
	assert.Equal(t, 2, d.OrdersCreateExact)
	assert.Equal(t, 0.20, d.CVRCreateExact)
	assert.Equal(t, 1.1, d.BidMultiplier)
	assert.Equal(t, 0.30, d.CVRBidIncrease)
	assert.Equal(t, 0.20, d.ACOSBidIncrease)
	assert.Equal(t, 0.25, d.ACOSTargetIncrease)
	assert.Equal(t, 0.15, d.BidIncreaseStep)
	assert.Equal(t, 900, d.MaxPlacementPct)
	assert.Equal(t, 0.5, d.BidReductionRatio)
	assert.Nil(t, d.CustomRules)
}

func TestApplyNilOverrides(t *testing.T) {
	d := DefaultThresholds()
	got, err := d.Apply(nil)
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestApplyPartialOverrides(t *testing.T) {
	clicks := 5
	acos := 0.5
	match := "Negative Phrase"

	got, err := DefaultThresholds().Apply(&ThresholdOverrides{
		ClicksNegative:    &clicks,
		ACOSIneffective:   &acos,
		NegativeMatchType: &match,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, got.ClicksNegative)
	assert.Equal(t, 0.5, got.ACOSIneffective)
	assert.Equal(t, "Negative Phrase", got.NegativeMatchType)
	// Untouched keys keep their defaults.
	assert.Equal(t, 15.0, got.SpendCampaignPause)
	assert.Equal(t, 900, got.MaxPlacementPct)
}

func TestApplyRejectsNegativeValues(t *testing.T) {
	spend := -1.0
	_, err := DefaultThresholds().Apply(&ThresholdOverrides{SpendCampaignPause: &spend})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidOverrides)

	clicks := -5
	_, err = DefaultThresholds().Apply(&ThresholdOverrides{ClicksNegative: &clicks})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidOverrides)
}

func TestApplyRejectsNonPositivePlacementCap(t *testing.T) {
	zero := 0
	_, err := DefaultThresholds().Apply(&ThresholdOverrides{MaxPlacementPct: &zero})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidOverrides)
}

func TestApplyCustomRules(t *testing.T) {
	rules := domain.CustomRules{
		domain.RuleCategoryNegatives: {
			{ID: "r1", Conditions: []domain.RuleCondition{{Metric: "clicks", Operator: ">=", Value: 3}}},
		},
	}
	got, err := DefaultThresholds().Apply(&ThresholdOverrides{CustomRules: rules})
	require.NoError(t, err)
	assert.Len(t, got.rulesFor(domain.RuleCategoryNegatives), 1)
	assert.Nil(t, got.rulesFor(domain.RuleCategoryPause))
}

package usecase

import (
	"errors"
	"fmt"

	"fastbulk/internal/domain"
)

// ErrInvalidOverrides marks threshold overrides rejected by validation.
var ErrInvalidOverrides = errors.New("invalid threshold overrides")

// Thresholds enumerates every heuristic constant the generators read.
// ACOS/CVR style values are fractions (0.35 == 35%); the max placement
// percentage and bid step follow the bulk-file units.
type Thresholds struct {
	ACOSIneffective    float64
	ACOSTarget         float64
	SpendCampaignPause float64
	SpendTargetPause   float64
	ClicksNegative     int
	SpendNegative      float64
	NegativeMatchType  string
	CTRNegative        float64
	OrdersCreateExact  int
	CVRCreateExact     float64
	BidMultiplier      float64
	CVRBidIncrease     float64
	ACOSBidIncrease    float64
	ACOSTargetIncrease float64
	BidIncreaseStep    float64
	OrdersBidIncrease  int
	ClicksBidIncrease  int
	MaxPlacementPct    int
	BidReductionRatio  float64
	ACOSPause          float64

	CustomRules domain.CustomRules
}

// DefaultThresholds returns the stock heuristics. The bid-increase gate
// ACOS (0.20) is intentionally stricter than the ceiling used to size
// the increase (0.25): gate conservatively, size against a looser target.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ACOSIneffective:    0.35,
		ACOSTarget:         0.30,
		SpendCampaignPause: 15,
		SpendTargetPause:   10,
		ClicksNegative:     10,
		SpendNegative:      5,
		NegativeMatchType:  domain.MatchNegativeExact,
		CTRNegative:        0.002,
		OrdersCreateExact:  2,
		CVRCreateExact:     0.20,
		BidMultiplier:      1.1,
		CVRBidIncrease:     0.30,
		ACOSBidIncrease:    0.20,
		ACOSTargetIncrease: 0.25,
		BidIncreaseStep:    0.15,
		OrdersBidIncrease:  3,
		ClicksBidIncrease:  10,
		MaxPlacementPct:    900,
		BidReductionRatio:  0.5,
		ACOSPause:          1.0,
	}
}

// ThresholdOverrides is the caller-supplied partial override set. Nil
// fields keep their defaults.
type ThresholdOverrides struct {
	ACOSIneffective    *float64 `json:"acos_ineffective,omitempty"`
	ACOSTarget         *float64 `json:"acos_target,omitempty"`
	SpendCampaignPause *float64 `json:"spend_campaign_pause,omitempty"`
	SpendTargetPause   *float64 `json:"spend_target_pause,omitempty"`
	ClicksNegative     *int     `json:"clicks_negative,omitempty"`
	SpendNegative      *float64 `json:"spend_negative,omitempty"`
	NegativeMatchType  *string  `json:"negative_match_type,omitempty"`
	CTRNegative        *float64 `json:"ctr_negative,omitempty"`
	OrdersCreateExact  *int     `json:"orders_create_exact,omitempty"`
	CVRCreateExact     *float64 `json:"cvr_create_exact,omitempty"`
	BidMultiplier      *float64 `json:"bid_multiplier,omitempty"`
	CVRBidIncrease     *float64 `json:"cvr_bid_increase,omitempty"`
	ACOSBidIncrease    *float64 `json:"acos_bid_increase,omitempty"`
	ACOSTargetIncrease *float64 `json:"acos_target_increase,omitempty"`
	BidIncreaseStep    *float64 `json:"bid_increase_step,omitempty"`
	OrdersBidIncrease  *int     `json:"orders_bid_increase,omitempty"`
	ClicksBidIncrease  *int     `json:"clicks_bid_increase,omitempty"`
	MaxPlacementPct    *int     `json:"max_placement_pct,omitempty"`
	BidReductionRatio  *float64 `json:"bid_reduction_ratio,omitempty"`
	ACOSPause          *float64 `json:"acos_pause,omitempty"`

	CustomRules domain.CustomRules `json:"custom_rules,omitempty"`
}

// Apply merges the overrides onto t and validates the result. Only the
// supplied keys are replaced.
func (t Thresholds) Apply(o *ThresholdOverrides) (Thresholds, error) {
	if o == nil {
		return t, nil
	}

	setFloat := func(dst *float64, src *float64, name string) error {
		if src == nil {
			return nil
		}
		if *src < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidOverrides, name, *src)
		}
		*dst = *src
		return nil
	}
	setInt := func(dst *int, src *int, name string) error {
		if src == nil {
			return nil
		}
		if *src < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalidOverrides, name, *src)
		}
		*dst = *src
		return nil
	}

	floats := []struct {
		dst  *float64
		src  *float64
		name string
	}{
		{&t.ACOSIneffective, o.ACOSIneffective, "acos_ineffective"},
		{&t.ACOSTarget, o.ACOSTarget, "acos_target"},
		{&t.SpendCampaignPause, o.SpendCampaignPause, "spend_campaign_pause"},
		{&t.SpendTargetPause, o.SpendTargetPause, "spend_target_pause"},
		{&t.SpendNegative, o.SpendNegative, "spend_negative"},
		{&t.CTRNegative, o.CTRNegative, "ctr_negative"},
		{&t.CVRCreateExact, o.CVRCreateExact, "cvr_create_exact"},
		{&t.BidMultiplier, o.BidMultiplier, "bid_multiplier"},
		{&t.CVRBidIncrease, o.CVRBidIncrease, "cvr_bid_increase"},
		{&t.ACOSBidIncrease, o.ACOSBidIncrease, "acos_bid_increase"},
		{&t.ACOSTargetIncrease, o.ACOSTargetIncrease, "acos_target_increase"},
		{&t.BidIncreaseStep, o.BidIncreaseStep, "bid_increase_step"},
		{&t.BidReductionRatio, o.BidReductionRatio, "bid_reduction_ratio"},
		{&t.ACOSPause, o.ACOSPause, "acos_pause"},
	}
	for _, f := range floats {
		if err := setFloat(f.dst, f.src, f.name); err != nil {
			return Thresholds{}, err
		}
	}

	ints := []struct {
		dst  *int
		src  *int
		name string
	}{
		{&t.ClicksNegative, o.ClicksNegative, "clicks_negative"},
		{&t.OrdersCreateExact, o.OrdersCreateExact, "orders_create_exact"},
		{&t.OrdersBidIncrease, o.OrdersBidIncrease, "orders_bid_increase"},
		{&t.ClicksBidIncrease, o.ClicksBidIncrease, "clicks_bid_increase"},
	}
	for _, i := range ints {
		if err := setInt(i.dst, i.src, i.name); err != nil {
			return Thresholds{}, err
		}
	}

	if o.MaxPlacementPct != nil {
		if *o.MaxPlacementPct <= 0 {
			return Thresholds{}, fmt.Errorf("%w: max_placement_pct must be positive, got %d", ErrInvalidOverrides, *o.MaxPlacementPct)
		}
		t.MaxPlacementPct = *o.MaxPlacementPct
	}
	if o.NegativeMatchType != nil && *o.NegativeMatchType != "" {
		t.NegativeMatchType = *o.NegativeMatchType
	}
	if o.CustomRules != nil {
		t.CustomRules = o.CustomRules
	}

	return t, nil
}

// rulesFor returns the custom rule list for one category, or nil.
func (t Thresholds) rulesFor(category string) []domain.CustomRule {
	if t.CustomRules == nil {
		return nil
	}
	return t.CustomRules[category]
}

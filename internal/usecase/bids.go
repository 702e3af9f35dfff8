package usecase

import (
	"fmt"
	"math"

	"fastbulk/internal/domain"
)

// increaseBids raises bids on campaigns that convert strongly and run
// below the target ACOS. The new CPC is capped at the maximum the unit
// economics sustain (target ACOS × CVR × average order value) and the
// resulting ratio is propagated to every enabled target; when a
// placement breakdown exists the best placement's percentage is raised
// by the same factor so its effective CPC tracks the increase.
func (e *SuggestionEngine) increaseBids(
	campaigns []domain.Campaign,
	placements []domain.Placement,
	targetsByCamp map[string][]domain.Target,
	t Thresholds,
) []domain.Suggestion {
	customRules := t.rulesFor(domain.RuleCategoryBids)

	plcByCamp := make(map[string][]domain.Placement)
	for _, p := range placements {
		plcByCamp[p.CampaignID] = append(plcByCamp[p.CampaignID], p)
	}

	var out []domain.Suggestion
	for _, c := range campaigns {
		if c.Sales <= 0 {
			continue
		}

		var cvr float64
		if c.Clicks > 0 {
			cvr = float64(c.Orders) / float64(c.Clicks)
		}
		acosFrac := c.Spend / c.Sales

		data := domain.MetricRow{
			"clicks":      c.Clicks,
			"orders":      c.Orders,
			"spend":       c.Spend,
			"sales":       c.Sales,
			"cvr":         round2(cvr * 100),
			"acos":        round2(acosFrac * 100),
			"ctr":         c.CTR,
			"cpc":         c.CPC,
			"impressions": c.Impressions,
			"roas":        c.ROAS,
		}

		step := t.BidIncreaseStep
		if matched := FindMatchingRule(data, customRules); matched != nil {
			if matched.Action.Step > 0 {
				step = matched.Action.Step / 100
			}
		} else {
			if c.Clicks < t.ClicksBidIncrease || c.Orders < t.OrdersBidIncrease {
				continue
			}
			if cvr < t.CVRBidIncrease || acosFrac > t.ACOSBidIncrease {
				continue
			}
		}

		cpc := c.CPC
		if cpc <= 0 {
			continue
		}

		var aov float64
		if c.Orders > 0 {
			aov = c.Sales / float64(c.Orders)
		}
		maxCPC := t.ACOSTargetIncrease * cvr * aov
		if maxCPC <= cpc {
			continue
		}

		newCPC := round2(math.Min(cpc*(1+step), maxCPC))
		bidRatio := newCPC / cpc

		var actions []domain.BulkRow
		for _, tgt := range targetsByCamp[c.CampaignID] {
			actions = append(actions, targetBidRow(tgt, c.Name, round2(tgt.Bid*bidRatio)))
		}

		if campPlacements := plcByCamp[c.CampaignID]; len(campPlacements) > 0 {
			var best *domain.Placement
			for i := range campPlacements {
				if campPlacements[i].Spend <= 0 {
					continue
				}
				if best == nil || acosKey(campPlacements[i].ACOS) < acosKey(best.ACOS) {
					best = &campPlacements[i]
				}
			}
			if best != nil {
				oldFactor := 1 + best.Percentage/100
				newFactor := newCPC / cpc * oldFactor
				newPct := int(math.Round((newFactor - 1) * 100))
				if newPct > t.MaxPlacementPct {
					newPct = t.MaxPlacementPct
				}
				if newPct != int(best.Percentage) {
					actions = append(actions, domain.BulkRow{
						domain.ColProduct:      domain.ProductSponsored,
						domain.ColEntity:       domain.EntityBiddingAdjustment,
						domain.ColOperation:    domain.OperationUpdate,
						domain.ColCampaignID:   c.CampaignID,
						domain.ColCampaignName: c.Name,
						domain.ColPlacement:    best.Placement,
						domain.ColPercentage:   newPct,
					})
				}
			}
		}

		if len(actions) == 0 {
			continue
		}

		out = append(out, domain.Suggestion{
			Category: domain.CategoryIncreaseBids,
			Severity: domain.SeverityLow,
			Title: fmt.Sprintf("Boost '%s' — CVR %.0f%%, ACOS %.0f%%, %d orders",
				truncate(c.Name, 40), cvr*100, acosFrac*100, c.Orders),
			Detail: fmt.Sprintf("Strong campaign. Suggested CPC increase: $%.2f → $%.2f. "+
				"Max CPC at %.0f%% ACOS target: $%.2f.",
				cpc, newCPC, t.ACOSTargetIncrease*100, maxCPC),
			Metrics: map[string]any{
				"cvr":           round1(cvr * 100),
				"acos":          round1(acosFrac * 100),
				"orders":        c.Orders,
				"spend":         c.Spend,
				"sales":         c.Sales,
				"current_cpc":   cpc,
				"suggested_cpc": newCPC,
				"max_cpc":       round2(maxCPC),
			},
			Actions: actions,
		})
	}

	return out
}

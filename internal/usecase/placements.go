package usecase

import (
	"fmt"
	"math"
	"strings"

	"fastbulk/internal/domain"
)

type classifiedPlacement struct {
	placement domain.Placement
	rule      *domain.CustomRule
}

// optimizePlacements rebalances campaigns whose spend concentrates in
// high-ACOS placements. The base bid is reduced by the configured ratio
// and the best placement's percentage is raised so its realized
// effective CPC stays where it was; ineffective placements drop to the
// rule-specified percentage or zero. Rows are only emitted for values
// that actually change.
func (e *SuggestionEngine) optimizePlacements(
	campaigns []domain.Campaign,
	placements []domain.Placement,
	targetsByCamp map[string][]domain.Target,
	t Thresholds,
) []domain.Suggestion {
	customRules := t.rulesFor(domain.RuleCategoryPlacement)

	plcByCamp := make(map[string][]domain.Placement)
	var campOrder []string
	for _, p := range placements {
		if _, ok := plcByCamp[p.CampaignID]; !ok {
			campOrder = append(campOrder, p.CampaignID)
		}
		plcByCamp[p.CampaignID] = append(plcByCamp[p.CampaignID], p)
	}

	campByID := make(map[string]domain.Campaign, len(campaigns))
	for _, c := range campaigns {
		campByID[c.CampaignID] = c
	}

	var out []domain.Suggestion
	for _, cid := range campOrder {
		camp, ok := campByID[cid]
		if !ok {
			continue
		}
		if camp.Spend < 5 {
			continue
		}
		campPlacements := plcByCamp[cid]

		var effective []domain.Placement
		var ineffective []classifiedPlacement
		for _, p := range campPlacements {
			if p.Spend <= 0 {
				continue
			}

			data := domain.MetricRow{
				"acos":        p.ACOS,
				"spend":       p.Spend,
				"sales":       p.Sales,
				"clicks":      p.Clicks,
				"orders":      p.Orders,
				"impressions": p.Impressions,
				"percentage":  int(p.Percentage),
				"cvr":         p.CVR,
				"ctr":         ctrOf(p.Clicks, p.Impressions),
				"cpc":         p.CPC,
			}

			if matched := FindMatchingRule(data, customRules); matched != nil {
				// A rule match only yields an adjustment when there is
				// allocation left to remove.
				if int(p.Percentage) > 0 {
					ineffective = append(ineffective, classifiedPlacement{p, matched})
				}
			} else if p.ACOS/100 > t.ACOSIneffective {
				if int(p.Percentage) > 0 {
					ineffective = append(ineffective, classifiedPlacement{p, nil})
				}
			} else {
				effective = append(effective, p)
			}
		}

		if len(ineffective) == 0 {
			continue
		}

		ineffByName := make(map[string]classifiedPlacement, len(ineffective))
		for _, cp := range ineffective {
			ineffByName[cp.placement.Placement] = cp
		}

		var best *domain.Placement
		for i := range effective {
			if best == nil || acosKey(effective[i].ACOS) < acosKey(best.ACOS) {
				best = &effective[i]
			}
		}

		if camp.CPC <= 0 {
			continue
		}

		var bestPct float64
		if best != nil {
			bestPct = best.Percentage
		}
		bestFactor := 1 + bestPct/100
		baseBid := camp.CPC
		if bestFactor > 0 {
			baseBid = round2(camp.CPC / bestFactor)
		}

		newBase := round2(baseBid * t.BidReductionRatio)
		if newBase < 0.02 {
			newBase = 0.02
		}

		oldEffective := baseBid * bestFactor
		desiredFactor := 1.0
		if newBase > 0 {
			desiredFactor = oldEffective / newBase
		}
		newBestPct := int(math.Round((desiredFactor - 1) * 100))
		if newBestPct > t.MaxPlacementPct {
			newBestPct = t.MaxPlacementPct
		}

		var actions []domain.BulkRow
		var placementChanges []string

		bidRatio := 1.0
		if baseBid > 0 {
			bidRatio = newBase / baseBid
		}
		for _, tgt := range targetsByCamp[cid] {
			newBid := round2(tgt.Bid * bidRatio)
			if newBid < 0.02 {
				newBid = 0.02
			}
			actions = append(actions, targetBidRow(tgt, camp.Name, newBid))
		}

		for _, p := range campPlacements {
			oldPct := int(p.Percentage)
			var newPct int
			if cp, flagged := ineffByName[p.Placement]; flagged {
				if cp.rule != nil {
					if cp.rule.Action.Type == "set_percentage" {
						newPct = int(cp.rule.Action.Value)
					} else {
						newPct = 0
					}
				} else {
					newPct = 0
				}
			} else if best != nil && p.Placement == best.Placement {
				newPct = newBestPct
			} else {
				newPct = oldPct
			}

			if newPct != oldPct {
				placementChanges = append(placementChanges,
					fmt.Sprintf("%s: %d%% → %d%%", p.Placement, oldPct, newPct))
				actions = append(actions, domain.BulkRow{
					domain.ColProduct:      domain.ProductSponsored,
					domain.ColEntity:       domain.EntityBiddingAdjustment,
					domain.ColOperation:    domain.OperationUpdate,
					domain.ColCampaignID:   cid,
					domain.ColCampaignName: camp.Name,
					domain.ColPlacement:    p.Placement,
					domain.ColPercentage:   newPct,
				})
			}
		}

		if len(actions) == 0 {
			continue
		}

		ineffNames := make([]string, len(ineffective))
		for i, cp := range ineffective {
			ineffNames[i] = cp.placement.Placement
		}

		out = append(out, domain.Suggestion{
			Category: domain.CategoryPlacements,
			Severity: domain.SeverityMedium,
			Title: fmt.Sprintf("Adjust placements for '%s' — ineffective: %s",
				truncate(camp.Name, 40), strings.Join(ineffNames, ", ")),
			Detail: fmt.Sprintf("Reduce exposure on high-ACOS placements. Changes: %s. Base bid $%.2f → $%.2f.",
				strings.Join(placementChanges, "; "), baseBid, newBase),
			Metrics: map[string]any{
				"campaign_spend":         camp.Spend,
				"campaign_acos":          camp.ACOS,
				"ineffective_placements": len(ineffective),
				"new_base_bid":           newBase,
			},
			Actions: actions,
		})
	}

	return out
}

// acosKey orders placements by ACOS with zero (no sales data) sorted last.
func acosKey(acos float64) float64 {
	if acos > 0 {
		return acos
	}
	return 9999
}

// targetBidRow builds the Update row carrying a target's new bid along
// with the fields that identify it in the bulk file.
func targetBidRow(tgt domain.Target, campaignName string, newBid float64) domain.BulkRow {
	row := domain.BulkRow{
		domain.ColProduct:      domain.ProductSponsored,
		domain.ColEntity:       tgt.Entity,
		domain.ColOperation:    domain.OperationUpdate,
		domain.ColCampaignID:   tgt.CampaignID,
		domain.ColAdGroupID:    tgt.AdGroupID,
		domain.ColCampaignName: campaignName,
		domain.ColAdGroupName:  tgt.AdGroupName,
		domain.ColBid:          newBid,
		domain.ColState:        domain.StateEnabled,
	}
	if tgt.Entity == domain.EntityKeyword {
		row[domain.ColKeywordID] = tgt.KeywordID
		row[domain.ColKeywordText] = tgt.KeywordText
		row[domain.ColMatchType] = tgt.MatchType
	} else {
		row[domain.ColProductTargetingID] = tgt.ProductTargetingID
		row[domain.ColProductTargetingExp] = tgt.ProductTargetingExpression
	}
	return row
}

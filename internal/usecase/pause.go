package usecase

import (
	"fmt"

	"fastbulk/internal/domain"
)

// pauseCampaigns flags campaigns that spend without a single order. A
// matching custom "pause" rule pauses unconditionally; otherwise the
// default gate is spend at or above the floor with zero orders.
func (e *SuggestionEngine) pauseCampaigns(campaigns []domain.Campaign, t Thresholds) []domain.Suggestion {
	customRules := t.rulesFor(domain.RuleCategoryPause)

	var out []domain.Suggestion
	for _, c := range campaigns {
		var acosPct, cvrPct float64
		if c.Sales > 0 {
			acosPct = round2(c.Spend / c.Sales * 100)
		}
		if c.Clicks > 0 {
			cvrPct = round2(float64(c.Orders) / float64(c.Clicks) * 100)
		}

		data := domain.MetricRow{
			"spend":       c.Spend,
			"orders":      c.Orders,
			"clicks":      c.Clicks,
			"sales":       c.Sales,
			"impressions": c.Impressions,
			"acos":        acosPct,
			"cvr":         cvrPct,
			"ctr":         c.CTR,
			"cpc":         c.CPC,
			"roas":        c.ROAS,
		}

		if FindMatchingRule(data, customRules) == nil {
			if c.Spend < t.SpendCampaignPause || c.Orders > 0 {
				continue
			}
		}

		out = append(out, domain.Suggestion{
			Category: domain.CategoryPauseCamps,
			Severity: domain.SeverityHigh,
			Title:    fmt.Sprintf("Pause '%s' — $%.2f spend, 0 orders", truncate(c.Name, 50), c.Spend),
			Detail:   "Campaign is spending with no conversions.",
			Metrics: map[string]any{
				"spend":       c.Spend,
				"orders":      c.Orders,
				"clicks":      c.Clicks,
				"impressions": c.Impressions,
				"cpc":         c.CPC,
			},
			Actions: []domain.BulkRow{
				{
					domain.ColProduct:      domain.ProductSponsored,
					domain.ColEntity:       domain.EntityCampaign,
					domain.ColOperation:    domain.OperationUpdate,
					domain.ColCampaignID:   c.CampaignID,
					domain.ColCampaignName: c.Name,
					domain.ColState:        domain.StatePaused,
				},
			},
		})
	}
	return out
}

// pauseTargets flags unprofitable keywords and product targets. When
// the owning campaign has at most one target, the emitted action pauses
// the campaign instead: pausing the sole driver of traffic would leave
// an effectively empty enabled campaign behind.
func (e *SuggestionEngine) pauseTargets(targets []domain.Target, targetsPerCampaign map[string]int, t Thresholds) []domain.Suggestion {
	customRules := t.rulesFor(domain.RuleCategoryPause)

	var out []domain.Suggestion
	for _, tgt := range targets {
		var acosPct, cvrPct float64
		if tgt.Sales > 0 {
			acosPct = round2(tgt.Spend / tgt.Sales * 100)
		}
		if tgt.Clicks > 0 {
			cvrPct = round2(float64(tgt.Orders) / float64(tgt.Clicks) * 100)
		}

		data := domain.MetricRow{
			"spend":       tgt.Spend,
			"orders":      tgt.Orders,
			"clicks":      tgt.Clicks,
			"sales":       tgt.Sales,
			"impressions": tgt.Impressions,
			"acos":        acosPct,
			"cvr":         cvrPct,
			"cpc":         tgt.CPC,
			"bid":         tgt.Bid,
		}

		if FindMatchingRule(data, customRules) == nil {
			if tgt.Spend < t.SpendTargetPause || tgt.Orders > 0 {
				continue
			}
		}

		targetLabel := tgt.KeywordText
		if targetLabel == "" {
			targetLabel = tgt.ProductTargetingExpression
		}
		if targetLabel == "" {
			targetLabel = "?"
		}

		if targetsPerCampaign[tgt.CampaignID] <= 1 {
			out = append(out, domain.Suggestion{
				Category: domain.CategoryPauseTargets,
				Severity: domain.SeverityHigh,
				Title: fmt.Sprintf("Pause campaign '%s' (sole target '%s') — $%.2f, 0 orders",
					truncate(tgt.CampaignName, 40), truncate(targetLabel, 30), tgt.Spend),
				Detail: "Only target in campaign is unprofitable. Pause the entire campaign.",
				Metrics: map[string]any{
					"target": targetLabel,
					"spend":  tgt.Spend,
					"clicks": tgt.Clicks,
					"orders": 0,
				},
				Actions: []domain.BulkRow{
					{
						domain.ColProduct:      domain.ProductSponsored,
						domain.ColEntity:       domain.EntityCampaign,
						domain.ColOperation:    domain.OperationUpdate,
						domain.ColCampaignID:   tgt.CampaignID,
						domain.ColCampaignName: tgt.CampaignName,
						domain.ColState:        domain.StatePaused,
					},
				},
			})
			continue
		}

		action := domain.BulkRow{
			domain.ColProduct:    domain.ProductSponsored,
			domain.ColEntity:     tgt.Entity,
			domain.ColOperation:  domain.OperationUpdate,
			domain.ColCampaignID: tgt.CampaignID,
			domain.ColAdGroupID:  tgt.AdGroupID,
			domain.ColState:      domain.StatePaused,
		}
		if tgt.Entity == domain.EntityKeyword {
			action[domain.ColKeywordText] = tgt.KeywordText
			action[domain.ColMatchType] = tgt.MatchType
		} else {
			action[domain.ColProductTargetingExp] = tgt.ProductTargetingExpression
		}

		entityLower := "keyword"
		if tgt.Entity != domain.EntityKeyword {
			entityLower = "product targeting"
		}

		out = append(out, domain.Suggestion{
			Category: domain.CategoryPauseTargets,
			Severity: domain.SeverityHigh,
			Title: fmt.Sprintf("Pause %s '%s' in '%s' — $%.2f, 0 orders",
				entityLower, truncate(targetLabel, 40), truncate(tgt.CampaignName, 30), tgt.Spend),
			Detail: fmt.Sprintf("This %s is wasting spend with no conversions.", entityLower),
			Metrics: map[string]any{
				"target":   targetLabel,
				"spend":    tgt.Spend,
				"clicks":   tgt.Clicks,
				"orders":   0,
				"campaign": tgt.CampaignName,
			},
			Actions: []domain.BulkRow{action},
		})
	}
	return out
}

package usecase

import (
	"fmt"
	"strings"
	"time"

	"fastbulk/internal/domain"
)

// createExactCampaigns promotes converting non-exact search terms into
// dedicated exact-match campaigns. For each promoted term it emits five
// Create rows: Campaign, Ad Group, Product Ad, exact Keyword, and a
// negative exact in the source campaign so the term stops matching there.
// The returned set is a copy of existingExact extended with the terms
// promoted in this run; the caller's set is never mutated.
func (e *SuggestionEngine) createExactCampaigns(
	searchTerms []domain.SearchTerm,
	existingExact map[string]struct{},
	rc *runContext,
) ([]domain.Suggestion, map[string]struct{}) {
	t := rc.thresholds
	seen := copySet(existingExact)
	customRules := t.rulesFor(domain.RuleCategoryExact)
	startDate := time.Now().Format("20060102")

	var out []domain.Suggestion
	for _, r := range searchTerms {
		if !isNonExactSource(r.SourceType) {
			continue
		}

		var cvr float64
		if r.Clicks > 0 {
			cvr = float64(r.Orders) / float64(r.Clicks)
		}
		var acosPct float64
		if r.Sales > 0 {
			acosPct = round2(r.Spend / r.Sales * 100)
		}

		data := domain.MetricRow{
			"orders":      r.Orders,
			"clicks":      r.Clicks,
			"spend":       r.Spend,
			"sales":       r.Sales,
			"cvr":         round2(cvr * 100),
			"acos":        acosPct,
			"ctr":         ctrOf(r.Clicks, r.Impressions),
			"cpc":         r.CPC,
			"impressions": r.Impressions,
		}

		bidMultiplier := t.BidMultiplier
		if matched := FindMatchingRule(data, customRules); matched != nil {
			if matched.Action.BidMultiplier > 0 {
				bidMultiplier = matched.Action.BidMultiplier
			}
		} else {
			if r.Orders <= t.OrdersCreateExact {
				continue
			}
			if cvr < t.CVRCreateExact {
				continue
			}
		}

		termNorm := normKeyword(r.SearchTerm)
		if termNorm == "" {
			continue
		}
		if _, ok := seen[termNorm]; ok {
			continue
		}
		seen[termNorm] = struct{}{}

		cpc := 0.50
		if r.Clicks > 0 {
			cpc = round2(r.Spend / float64(r.Clicks))
		}
		suggestedBid := round2(cpc * bidMultiplier)

		camp := rc.campByID[r.CampaignID]
		campBudget := camp.DailyBudget
		if campBudget == 0 {
			campBudget = 10
		}
		newBudget := round2(max(5, campBudget*0.5))

		asin := rc.campASIN[r.CampaignID]
		if asin == "" {
			asin = extractASIN(r.CampaignName)
		}
		if asin == "" {
			asin = extractASIN(camp.Name)
		}
		sku := rc.campSKU[r.CampaignID]
		availableSKUs := rc.campAllSKUs[r.CampaignID]

		portfolioID := rc.campPortfolio[r.CampaignID]
		portfolioName := rc.portfolioByID[portfolioID]

		// Amazon links Create rows by Campaign ID = Campaign Name and
		// Ad Group ID = Ad Group Name.
		kwDisplay := truncate(r.SearchTerm, 60)
		newCampName := "SP Kw Ex " + kwDisplay
		if asin != "" {
			newCampName += " - " + asin
		}
		newAGName := newCampName

		actions := []domain.BulkRow{
			{
				domain.ColProduct:         domain.ProductSponsored,
				domain.ColEntity:          domain.EntityCampaign,
				domain.ColOperation:       domain.OperationCreate,
				domain.ColCampaignID:      newCampName,
				domain.ColCampaignName:    newCampName,
				domain.ColPortfolioID:     portfolioID,
				domain.ColStartDate:       startDate,
				domain.ColTargetingType:   "Manual",
				domain.ColState:           domain.StateEnabled,
				domain.ColDailyBudget:     newBudget,
				domain.ColBiddingStrategy: "Dynamic bids - down only",
			},
			{
				domain.ColProduct:           domain.ProductSponsored,
				domain.ColEntity:            domain.EntityAdGroup,
				domain.ColOperation:         domain.OperationCreate,
				domain.ColCampaignID:        newCampName,
				domain.ColAdGroupID:         newAGName,
				domain.ColCampaignName:      newCampName,
				domain.ColAdGroupName:       newAGName,
				domain.ColState:             domain.StateEnabled,
				domain.ColAdGroupDefaultBid: suggestedBid,
			},
			{
				domain.ColProduct:      domain.ProductSponsored,
				domain.ColEntity:       domain.EntityProductAd,
				domain.ColOperation:    domain.OperationCreate,
				domain.ColCampaignID:   newCampName,
				domain.ColAdGroupID:    newAGName,
				domain.ColCampaignName: newCampName,
				domain.ColAdGroupName:  newAGName,
				domain.ColSKU:          sku,
				domain.ColASIN:         asin,
				domain.ColState:        domain.StateEnabled,
			},
			{
				domain.ColProduct:      domain.ProductSponsored,
				domain.ColEntity:       domain.EntityKeyword,
				domain.ColOperation:    domain.OperationCreate,
				domain.ColCampaignID:   newCampName,
				domain.ColAdGroupID:    newAGName,
				domain.ColCampaignName: newCampName,
				domain.ColAdGroupName:  newAGName,
				domain.ColKeywordText:  r.SearchTerm,
				domain.ColMatchType:    domain.MatchExact,
				domain.ColState:        domain.StateEnabled,
				domain.ColBid:          suggestedBid,
			},
			{
				domain.ColProduct:      domain.ProductSponsored,
				domain.ColEntity:       domain.EntityCampaignNegativeKW,
				domain.ColOperation:    domain.OperationCreate,
				domain.ColCampaignID:   r.CampaignID,
				domain.ColCampaignName: r.CampaignName,
				domain.ColKeywordText:  r.SearchTerm,
				domain.ColMatchType:    domain.MatchNegativeExact,
				domain.ColState:        domain.StateEnabled,
			},
		}

		out = append(out, domain.Suggestion{
			Category: domain.CategoryCreateExact,
			Severity: domain.SeverityMedium,
			Title: fmt.Sprintf("Create exact campaign for '%s' — %d orders, CVR %.0f%%, ACOS %.0f%%",
				kwDisplay, r.Orders, cvr*100, acosPct),
			Detail: fmt.Sprintf("This search term from '%s' converts well via %s. "+
				"Create a dedicated exact campaign and negative it in the source.",
				r.CampaignName, r.SourceType),
			Metrics: map[string]any{
				"search_term":           r.SearchTerm,
				"orders":                r.Orders,
				"clicks":                r.Clicks,
				"cvr":                   round1(cvr * 100),
				"acos":                  acosPct,
				"spend":                 r.Spend,
				"sales":                 r.Sales,
				"suggested_bid":         suggestedBid,
				"asin":                  asin,
				"sku":                   sku,
				"available_skus":        availableSKUs,
				"source_portfolio_id":   portfolioID,
				"source_portfolio_name": portfolioName,
				"amazon_url":            "https://www.amazon.com/s?k=" + strings.ReplaceAll(r.SearchTerm, " ", "+"),
			},
			Actions: actions,
		})
	}

	return out, seen
}

func ctrOf(clicks, impressions int) float64 {
	if impressions == 0 {
		return 0
	}
	return round2(float64(clicks) / float64(impressions) * 100)
}

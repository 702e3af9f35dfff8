package usecase

import (
	"fmt"
	"strings"

	"fastbulk/internal/domain"
)

// negativeSearchTerms flags non-exact search terms that spend without
// converting and emits a campaign-level negative keyword for each.
// Dedup is keyed by "{campaign_id}|{normalized term}" against both the
// caller-supplied existing set and terms already flagged this run; the
// returned set is an extended copy.
func (e *SuggestionEngine) negativeSearchTerms(
	searchTerms []domain.SearchTerm,
	existingNegatives map[string]struct{},
	t Thresholds,
) ([]domain.Suggestion, map[string]struct{}) {
	seen := copySet(existingNegatives)
	customRules := t.rulesFor(domain.RuleCategoryNegatives)

	var out []domain.Suggestion
	for _, r := range searchTerms {
		if !isNonExactSource(r.SourceType) {
			continue
		}

		var acosPct, cvrPct float64
		if r.Sales > 0 {
			acosPct = round2(r.Spend / r.Sales * 100)
		}
		if r.Clicks > 0 {
			cvrPct = round2(float64(r.Orders) / float64(r.Clicks) * 100)
		}

		data := domain.MetricRow{
			"clicks":      r.Clicks,
			"orders":      r.Orders,
			"spend":       r.Spend,
			"sales":       r.Sales,
			"acos":        acosPct,
			"cvr":         cvrPct,
			"ctr":         ctrOf(r.Clicks, r.Impressions),
			"cpc":         r.CPC,
			"impressions": r.Impressions,
		}

		var matchType string
		if matched := FindMatchingRule(data, customRules); matched != nil {
			matchType = matched.Action.MatchType
			if matchType == "" {
				matchType = domain.MatchNegativeExact
			}
		} else if r.Clicks >= t.ClicksNegative && r.Orders == 0 {
			matchType = t.NegativeMatchType
			if matchType == "" {
				matchType = domain.MatchNegativeExact
			}
		} else {
			continue
		}

		dedupKey := r.CampaignID + "|" + normKeyword(r.SearchTerm)
		if _, ok := seen[dedupKey]; ok {
			continue
		}
		seen[dedupKey] = struct{}{}

		out = append(out, domain.Suggestion{
			Category: domain.CategoryNegatives,
			Severity: domain.SeverityHigh,
			Title: fmt.Sprintf("Negative '%s' in '%s' — %d clicks, $%.2f, 0 orders",
				truncate(r.SearchTerm, 60), r.CampaignName, r.Clicks, r.Spend),
			Detail: fmt.Sprintf("Wasting spend via %s. Add as campaign-level negative exact.", r.SourceType),
			Metrics: map[string]any{
				"search_term": r.SearchTerm,
				"clicks":      r.Clicks,
				"spend":       r.Spend,
				"source":      r.SourceType,
				"cpc":         r.CPC,
				"amazon_url":  "https://www.amazon.com/s?k=" + strings.ReplaceAll(r.SearchTerm, " ", "+"),
			},
			Actions: []domain.BulkRow{
				{
					domain.ColProduct:      domain.ProductSponsored,
					domain.ColEntity:       domain.EntityCampaignNegativeKW,
					domain.ColOperation:    domain.OperationCreate,
					domain.ColCampaignID:   r.CampaignID,
					domain.ColCampaignName: r.CampaignName,
					domain.ColKeywordText:  r.SearchTerm,
					domain.ColMatchType:    matchType,
					domain.ColState:        domain.StateEnabled,
				},
			},
		})
	}

	return out, seen
}

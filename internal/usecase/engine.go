package usecase

import (
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"strings"

	"fastbulk/internal/domain"
)

var asinPattern = regexp.MustCompile(`\bB0[A-Z0-9]{8}\b`)

// normKeyword normalizes a term for dedup: trimmed, lower-cased, inner
// whitespace collapsed to single spaces.
func normKeyword(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// extractASIN pulls the first ASIN-shaped token (B0 + 8 alphanumerics)
// out of a string, typically a campaign name.
func extractASIN(text string) string {
	return asinPattern.FindString(text)
}

// isNonExactSource reports whether a search term arrived through broad,
// phrase, auto or category targeting rather than an exact keyword.
func isNonExactSource(sourceType string) bool {
	s := strings.TrimSpace(strings.ToLower(sourceType))
	return s != "exact" && s != "exact match"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// truncate cuts a display string to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func copySet(src map[string]struct{}) map[string]struct{} {
	dst := make(map[string]struct{}, len(src))
	for k := range src {
		dst[k] = struct{}{}
	}
	return dst
}

func newSet(keys []string) map[string]struct{} {
	s := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// runContext holds the per-run lookups the generators share. It is
// built once from the snapshot and read-only afterwards.
type runContext struct {
	thresholds Thresholds

	campByID      map[string]domain.Campaign
	campASIN      map[string]string
	campSKU       map[string]string
	campAllSKUs   map[string][]string
	campPortfolio map[string]string
	portfolioByID map[string]string

	targetsPerCampaign map[string]int
	// enabled targets with a positive bid, grouped by campaign
	targetsByCamp map[string][]domain.Target
}

func newRunContext(a *domain.Analysis, t Thresholds) *runContext {
	rc := &runContext{
		thresholds:         t,
		campByID:           make(map[string]domain.Campaign, len(a.CampaignsTable)),
		campASIN:           make(map[string]string),
		campSKU:            make(map[string]string),
		campAllSKUs:        make(map[string][]string),
		campPortfolio:      make(map[string]string),
		portfolioByID:      make(map[string]string, len(a.Portfolios)),
		targetsPerCampaign: make(map[string]int),
		targetsByCamp:      make(map[string][]domain.Target),
	}

	for _, c := range a.CampaignsTable {
		rc.campByID[c.CampaignID] = c
		if c.PortfolioID != "" {
			rc.campPortfolio[c.CampaignID] = c.PortfolioID
		}
	}

	for _, pa := range a.ProductAds {
		cid := pa.CampaignID
		if pa.ASIN != "" {
			if _, ok := rc.campASIN[cid]; !ok {
				rc.campASIN[cid] = pa.ASIN
			}
		}
		if pa.SKU != "" {
			if _, ok := rc.campSKU[cid]; !ok {
				rc.campSKU[cid] = pa.SKU
			}
			known := false
			for _, s := range rc.campAllSKUs[cid] {
				if s == pa.SKU {
					known = true
					break
				}
			}
			if !known {
				rc.campAllSKUs[cid] = append(rc.campAllSKUs[cid], pa.SKU)
			}
		}
	}

	for _, p := range a.Portfolios {
		rc.portfolioByID[p.PortfolioID] = p.Name
	}

	for _, tgt := range a.Targets {
		rc.targetsPerCampaign[tgt.CampaignID]++
		if strings.EqualFold(tgt.State, domain.StateEnabled) && tgt.Bid > 0 {
			rc.targetsByCamp[tgt.CampaignID] = append(rc.targetsByCamp[tgt.CampaignID], tgt)
		}
	}

	return rc
}

// SuggestionEngine runs the six generators over one analysis snapshot.
// It is stateless; all per-run state lives in the runContext and the
// dedup set copies, so concurrent Generate calls are safe.
type SuggestionEngine struct{}

func NewSuggestionEngine() *SuggestionEngine {
	return &SuggestionEngine{}
}

// Generate evaluates the snapshot against the resolved thresholds and
// returns all suggestions in fixed category order. An empty result is a
// normal outcome, not an error.
func (e *SuggestionEngine) Generate(analysis *domain.Analysis, t Thresholds) []domain.Suggestion {
	rc := newRunContext(analysis, t)

	existingExact := make(map[string]struct{}, len(analysis.ExistingExactKeywords))
	for _, k := range analysis.ExistingExactKeywords {
		if norm := normKeyword(k); norm != "" {
			existingExact[norm] = struct{}{}
		}
	}
	existingNegatives := newSet(analysis.ExistingNegatives)

	var suggestions []domain.Suggestion

	exact, _ := e.createExactCampaigns(analysis.SearchTermsDetail, existingExact, rc)
	suggestions = append(suggestions, exact...)

	negatives, _ := e.negativeSearchTerms(analysis.SearchTermsDetail, existingNegatives, t)
	suggestions = append(suggestions, negatives...)

	suggestions = append(suggestions, e.pauseCampaigns(analysis.CampaignsTable, t)...)
	suggestions = append(suggestions, e.pauseTargets(analysis.Targets, rc.targetsPerCampaign, t)...)
	suggestions = append(suggestions, e.optimizePlacements(analysis.CampaignsTable, analysis.Placements, rc.targetsByCamp, t)...)
	suggestions = append(suggestions, e.increaseBids(analysis.CampaignsTable, analysis.Placements, rc.targetsByCamp, t)...)

	for i := range suggestions {
		suggestions[i].ID = suggestionID(i, suggestions[i])
	}

	return suggestions
}

// suggestionID derives a run-stable identifier from the position and a
// content digest over category and title, so repeated runs on the same
// snapshot produce the same ids.
func suggestionID(seq int, s domain.Suggestion) string {
	h := fnv.New32a()
	h.Write([]byte(s.Category))
	h.Write([]byte{'|'})
	h.Write([]byte(s.Title))
	return fmt.Sprintf("adv_%d_%05d", seq, h.Sum32()%100000)
}

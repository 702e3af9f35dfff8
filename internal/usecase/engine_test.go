package usecase

import (
	"testing"

	"fastbulk/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Shared fixtures covering the common shapes the generators consume.

func campFix() domain.Campaign {
	return domain.Campaign{
		CampaignID:    "100",
		Name:          "C1",
		State:         "enabled",
		TargetingType: "Manual",
		DailyBudget:   10,
		Impressions:   10000,
		Clicks:        200,
		Spend:         50,
		Sales:         100,
		Orders:        5,
		CTR:           2,
		CPC:           0.25,
		ACOS:          50,
		ROAS:          2,
	}
}

func targetFix(spend float64, orders int) domain.Target {
	t := domain.Target{
		Entity:       domain.EntityKeyword,
		CampaignID:   "100",
		AdGroupID:    "200",
		CampaignName: "C1",
		AdGroupName:  "AG1",
		KeywordText:  "test kw",
		MatchType:    "Broad",
		Bid:          0.5,
		State:        "enabled",
		Impressions:  1000,
		Clicks:       30,
		Spend:        spend,
		Orders:       orders,
	}
	if orders > 0 {
		t.Sales = spend * 2
	}
	if t.Clicks > 0 {
		t.CPC = round2(spend / float64(t.Clicks))
		t.CVR = round2(float64(orders) / float64(t.Clicks) * 100)
	}
	return t
}

func termFix(term string, clicks, orders int, spend, sales float64) domain.SearchTerm {
	s := domain.SearchTerm{
		SearchTerm:   term,
		CampaignID:   "100",
		CampaignName: "C1",
		AdGroupID:    "200",
		AdGroupName:  "AG1",
		SourceType:   "broad",
		Impressions:  1000,
		Clicks:       clicks,
		Spend:        spend,
		Sales:        sales,
		Orders:       orders,
	}
	if clicks > 0 {
		s.CPC = round2(spend / float64(clicks))
		s.CVR = round2(float64(orders) / float64(clicks) * 100)
	}
	if sales > 0 {
		s.ACOS = round2(spend / sales * 100)
	}
	return s
}

func placementFix(name string, pct, spend, sales float64, clicks int) domain.Placement {
	p := domain.Placement{
		CampaignID:      "100",
		CampaignName:    "C1",
		Placement:       name,
		Percentage:      pct,
		BiddingStrategy: "Fixed bid",
		Impressions:     5000,
		Clicks:          clicks,
		Spend:           spend,
		Sales:           sales,
		Orders:          5,
	}
	if clicks > 0 {
		p.CPC = round2(spend / float64(clicks))
		p.CVR = round2(5.0 / float64(clicks) * 100)
	}
	if sales > 0 {
		p.ACOS = round2(spend / sales * 100)
	}
	return p
}

func actionsByEntity(actions []domain.BulkRow, entity string) []domain.BulkRow {
	var out []domain.BulkRow
	for _, a := range actions {
		if a[domain.ColEntity] == entity {
			out = append(out, a)
		}
	}
	return out
}

func requireActionByEntity(t *testing.T, actions []domain.BulkRow, entity string) domain.BulkRow {
	t.Helper()
	matches := actionsByEntity(actions, entity)
	require.Len(t, matches, 1, "expected exactly one %s action", entity)
	return matches[0]
}

func TestNormKeyword(t *testing.T) {
	assert.Equal(t, "dog bowl", normKeyword("  Dog   Bowl "))
	assert.Equal(t, "", normKeyword("   "))
	assert.Equal(t, "a b c", normKeyword("A\tB\nC"))
}

func TestExtractASIN(t *testing.T) {
	assert.Equal(t, "B0TEST1234", extractASIN("SP Auto - B0TEST1234 broad"))
	assert.Equal(t, "", extractASIN("no asin here"))
	assert.Equal(t, "", extractASIN("B0short"))
}

func TestIsNonExactSource(t *testing.T) {
	assert.False(t, isNonExactSource("exact"))
	assert.False(t, isNonExactSource("Exact Match"))
	assert.True(t, isNonExactSource("broad"))
	assert.True(t, isNonExactSource("close-match"))
	assert.True(t, isNonExactSource(""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}

func TestGenerateFullPipeline(t *testing.T) {
	engine := NewSuggestionEngine()

	wasting := campFix()
	wasting.CampaignID = "1"
	wasting.Spend = 25
	wasting.Orders = 0
	wasting.Sales = 0

	strong := campFix()
	strong.CampaignID = "2"
	strong.Spend = 50
	strong.Sales = 500
	strong.Orders = 50
	strong.Clicks = 100
	strong.CPC = 0.5

	badTarget := targetFix(15, 0)
	badTarget.CampaignID = "1"

	analysis := &domain.Analysis{
		CampaignsTable:    []domain.Campaign{wasting, strong},
		Targets:           []domain.Target{badTarget},
		SearchTermsDetail: []domain.SearchTerm{termFix("wasted", 20, 0, 15, 0)},
	}

	suggestions := engine.Generate(analysis, DefaultThresholds())
	require.NotEmpty(t, suggestions)

	categories := make(map[string]bool)
	for _, s := range suggestions {
		categories[s.Category] = true
		assert.NotEmpty(t, s.ID)
		assert.NotEmpty(t, s.Title)
		assert.NotEmpty(t, s.Actions)
	}
	assert.True(t, categories[domain.CategoryPauseCamps])
	assert.True(t, categories[domain.CategoryNegatives])
}

func TestGenerateIDsAreStable(t *testing.T) {
	engine := NewSuggestionEngine()
	analysis := &domain.Analysis{
		CampaignsTable: []domain.Campaign{func() domain.Campaign {
			c := campFix()
			c.Spend = 20
			c.Orders = 0
			c.Sales = 0
			return c
		}()},
	}

	first := engine.Generate(analysis, DefaultThresholds())
	second := engine.Generate(analysis, DefaultThresholds())
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestGenerateEmptyAnalysis(t *testing.T) {
	engine := NewSuggestionEngine()
	suggestions := engine.Generate(&domain.Analysis{}, DefaultThresholds())
	assert.Empty(t, suggestions)
}

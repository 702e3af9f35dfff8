package infrastructure

import (
	"context"
	"path/filepath"
	"testing"

	"fastbulk/internal/domain"
	"fastbulk/pkg/logger"
	"fastbulk/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// promauto registers in the default registry, so the test binary gets
// exactly one Metrics instance.
var testMetrics = metrics.New()

func writeFixture(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Sponsored Products Campaigns"))
	spHeaders := []any{
		"Product", "Entity", "Operation", "Campaign ID", "Ad Group ID",
		"Portfolio ID", "Campaign Name", "Ad Group Name", "State",
		"Targeting Type", "Daily Budget", "Impressions", "Clicks",
		"Spend", "Sales", "Orders", "Bid", "Keyword Text", "Match Type",
		"Product Targeting Expression", "Placement", "Percentage",
		"Bidding Strategy", "SKU", "ASIN",
	}
	spRows := [][]any{
		spHeaders,
		{"Sponsored Products", "Campaign", "", "100", "", "P1", "C1", "", "enabled",
			"Manual", 10, 10000, 200, 50.0, 100.0, 5},
		{"Sponsored Products", "Campaign", "", "200", "", "", "C2", "", "enabled",
			"Auto", 15, 5000, 100, 120.0, 60.0, 2},
		{"Sponsored Products", "Ad Group", "", "100", "AG1", "", "C1", "Group 1", "enabled"},
		{"Sponsored Products", "Keyword", "", "100", "AG1", "", "C1", "Group 1", "enabled",
			"", "", 2000, 40, 10.0, 30.0, 2, 0.5, "dog bowl", "Exact"},
		{"Sponsored Products", "Keyword", "", "100", "AG1", "", "C1", "Group 1", "enabled",
			"", "", 3000, 60, 25.0, 0.0, 0, 0.4, "cat bowl", "Broad"},
		{"Sponsored Products", "Product Targeting", "", "200", "AG2", "", "C2", "Group 2", "enabled",
			"", "", 1000, 20, 8.0, 16.0, 1, 0.3, "", "", `asin="B0FIXTURE1"`},
		{"Sponsored Products", "Bidding Adjustment", "", "100", "", "", "C1", "", "",
			"", "", 4000, 80, 30.0, 90.0, 3, "", "", "", "", "Placement Top", 50.0, "Fixed bid"},
		{"Sponsored Products", "Product Ad", "", "100", "AG1", "", "C1", "Group 1", "enabled",
			"", "", "", "", "", "", "", "", "", "", "", "", "", "", "SKU-1", "B0FIXTURE1"},
		{"Sponsored Products", "Campaign Negative Keyword", "", "100", "", "", "C1", "", "enabled",
			"", "", "", "", "", "", "", "", "bad term", "Negative Exact"},
	}
	for i, row := range spRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sponsored Products Campaigns", cell, &row))
	}

	_, err := f.NewSheet("SP Search Term Report")
	require.NoError(t, err)
	stHeaders := []any{
		"Customer Search Term", "Campaign ID", "Ad Group ID",
		"Campaign Name (Informational only)", "Ad Group Name (Informational only)",
		"Keyword Text", "Match Type", "Product Targeting Expression",
		"Impressions", "Clicks", "Spend", "Sales", "Orders",
	}
	stRows := [][]any{
		stHeaders,
		{"steel dog bowl", "100", "AG1", "C1", "Group 1", "cat bowl", "Broad", "",
			500, 12, 6.0, 30.0, 3},
		{"steel dog bowl", "100", "AG1", "C1", "Group 1", "cat bowl", "Broad", "",
			300, 8, 4.0, 10.0, 1},
		{"rubber chew toy", "200", "AG2", "C2", "Group 2", "", "", "close-match",
			900, 15, 9.0, 0.0, 0},
	}
	for i, row := range stRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("SP Search Term Report", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "bulk.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParseBulkFile(t *testing.T) {
	parser := NewBulkFileParser(logger.New("error"), testMetrics)

	analysis, err := parser.Parse(context.Background(), writeFixture(t))
	require.NoError(t, err)

	// Sheets and overview counts.
	sheetNames := make([]string, len(analysis.SheetsFound))
	for i, s := range analysis.SheetsFound {
		sheetNames[i] = s.Name
	}
	assert.Contains(t, sheetNames, "Sponsored Products Campaigns")
	assert.Contains(t, sheetNames, "SP Search Term Report")

	assert.Equal(t, 2, analysis.Overview["campaigns"])
	assert.Equal(t, 1, analysis.Overview["ad_groups"])
	assert.Equal(t, 2, analysis.Overview["keywords"])
	assert.Equal(t, 1, analysis.Overview["product_targets"])
	assert.Equal(t, 1, analysis.Overview["negative_keywords"])
	assert.Equal(t, 2, analysis.Overview["search_terms_total"])
	assert.Equal(t, 1, analysis.Overview["search_terms_wasted"])

	// Campaigns sorted by spend, descending.
	require.Len(t, analysis.CampaignsTable, 2)
	assert.Equal(t, "200", analysis.CampaignsTable[0].CampaignID)
	assert.Equal(t, "100", analysis.CampaignsTable[1].CampaignID)

	c1 := analysis.CampaignsTable[1]
	assert.Equal(t, "C1", c1.Name)
	assert.Equal(t, "P1", c1.PortfolioID)
	assert.Equal(t, 10.0, c1.DailyBudget)
	assert.Equal(t, 50.0, c1.Spend)
	assert.Equal(t, 0.25, c1.CPC)
	assert.Equal(t, 50.0, c1.ACOS)

	// Campaign-level aggregation only, no sub-entity double counting.
	assert.Equal(t, 170.0, analysis.PerformanceSummary.Spend)
	assert.Equal(t, 7, analysis.PerformanceSummary.Orders)

	// Targets carry both keyword and product targeting rows.
	require.Len(t, analysis.Targets, 3)
	var pt *domain.Target
	for i := range analysis.Targets {
		if analysis.Targets[i].Entity == "Product Targeting" {
			pt = &analysis.Targets[i]
		}
	}
	require.NotNil(t, pt)
	assert.Equal(t, `asin="B0FIXTURE1"`, pt.ProductTargetingExpression)
	assert.Equal(t, 0.3, pt.Bid)

	// Placements.
	require.Len(t, analysis.Placements, 1)
	assert.Equal(t, "Placement Top", analysis.Placements[0].Placement)
	assert.Equal(t, 50.0, analysis.Placements[0].Percentage)

	// Product ads.
	require.Len(t, analysis.ProductAds, 1)
	assert.Equal(t, "SKU-1", analysis.ProductAds[0].SKU)
	assert.Equal(t, "B0FIXTURE1", analysis.ProductAds[0].ASIN)

	// Dedup sets, normalized.
	assert.Equal(t, []string{"dog bowl"}, analysis.ExistingExactKeywords)
	assert.Equal(t, []string{"100|bad term"}, analysis.ExistingNegatives)

	// Search terms aggregate per term while the detail rows stay split.
	require.Len(t, analysis.SearchTermsDetail, 3)
	require.Len(t, analysis.SearchTermsTop, 2)
	top := analysis.SearchTermsTop[0]
	assert.Equal(t, "steel dog bowl", top.SearchTerm)
	assert.Equal(t, 10.0, top.Spend)
	assert.Equal(t, 20, top.Clicks)
	assert.Equal(t, 4, top.Orders)

	require.Len(t, analysis.SearchTermsWasted, 1)
	assert.Equal(t, "rubber chew toy", analysis.SearchTermsWasted[0].SearchTerm)

	// Source type resolution: match type for keyword-sourced terms,
	// targeting expression for auto.
	var broadTerm, autoTerm *domain.SearchTerm
	for i := range analysis.SearchTermsDetail {
		switch analysis.SearchTermsDetail[i].SearchTerm {
		case "steel dog bowl":
			broadTerm = &analysis.SearchTermsDetail[i]
		case "rubber chew toy":
			autoTerm = &analysis.SearchTermsDetail[i]
		}
	}
	require.NotNil(t, broadTerm)
	require.NotNil(t, autoTerm)
	assert.Equal(t, "Broad", broadTerm.SourceType)
	assert.Equal(t, "close-match", autoTerm.SourceType)
	assert.Equal(t, "C1", broadTerm.CampaignName)

	// Portfolios inferred from campaign rows when no Portfolios sheet.
	require.Len(t, analysis.Portfolios, 1)
	assert.Equal(t, "P1", analysis.Portfolios[0].PortfolioID)
}

func TestParseMissingFile(t *testing.T) {
	parser := NewBulkFileParser(logger.New("error"), testMetrics)

	_, err := parser.Parse(context.Background(), filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}

func TestParseEmptyWorkbook(t *testing.T) {
	f := excelize.NewFile()
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	parser := NewBulkFileParser(logger.New("error"), testMetrics)
	analysis, err := parser.Parse(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, analysis.CampaignsTable)
	assert.Empty(t, analysis.Targets)
	assert.Equal(t, 0, analysis.Overview["campaigns"])
}

package infrastructure

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"fastbulk/internal/domain"
	"fastbulk/pkg/logger"
	"fastbulk/pkg/metrics"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSPCampaigns  = "Sponsored Products Campaigns"
	sheetSPSearchTerm = "SP Search Term Report"
	sheetSBSearchTerm = "SB Search Term Report"
	sheetPortfolios   = "Portfolios"
)

// BulkFileParser turns an Amazon bulk XLSX file into an in-memory
// analysis snapshot. It never writes anything back to the file.
type BulkFileParser struct {
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewBulkFileParser(logger *logger.Logger, metrics *metrics.Metrics) *BulkFileParser {
	return &BulkFileParser{
		logger:  logger,
		metrics: metrics,
	}
}

func safeFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// sheetRow is one data row keyed by its header.
type sheetRow map[string]string

func (r sheetRow) str(key string) string  { return strings.TrimSpace(r[key]) }
func (r sheetRow) num(key string) float64 { return safeFloat(r[key]) }
func (r sheetRow) count(key string) int   { return int(safeFloat(r[key])) }

// campaignName prefers the editable column and falls back to the
// informational one that search term reports carry.
func (r sheetRow) campaignName() string {
	if name := r.str("Campaign Name"); name != "" {
		return name
	}
	return r.str("Campaign Name (Informational only)")
}

func (r sheetRow) adGroupName() string {
	if name := r.str("Ad Group Name"); name != "" {
		return name
	}
	return r.str("Ad Group Name (Informational only)")
}

func readSheet(f *excelize.File, name string) ([]sheetRow, error) {
	idx, err := f.GetSheetIndex(name)
	if err != nil || idx < 0 {
		return nil, nil
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	data := make([]sheetRow, 0, len(rows)-1)
	for _, raw := range rows[1:] {
		row := make(sheetRow, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(raw) {
				row[h] = raw[i]
			}
		}
		data = append(data, row)
	}
	return data, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ratio2(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return round2(num / den)
}

// Parse reads the workbook at filepath and builds the analysis snapshot
// the suggestion engine consumes.
func (p *BulkFileParser) Parse(ctx context.Context, filepath string) (*domain.Analysis, error) {
	start := time.Now()
	p.metrics.IncAnalysesInProgress()
	defer p.metrics.DecAnalysesInProgress()

	f, err := excelize.OpenFile(filepath)
	if err != nil {
		p.metrics.RecordAnalysis("failed", time.Since(start))
		p.metrics.RecordAnalysisParseError("open")
		return nil, fmt.Errorf("failed to open bulk file: %w", err)
	}
	defer f.Close()

	analysis := &domain.Analysis{
		Overview: make(map[string]int),
	}

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		analysis.SheetsFound = append(analysis.SheetsFound, domain.SheetInfo{
			Name: name,
			Rows: len(rows),
		})
	}

	spData, err := readSheet(f, sheetSPCampaigns)
	if err != nil {
		p.metrics.RecordAnalysis("failed", time.Since(start))
		p.metrics.RecordAnalysisParseError("sheet")
		return nil, err
	}
	p.metrics.RecordAnalysisRows(sheetSPCampaigns, len(spData))

	p.buildEntityBreakdown(analysis, spData)
	p.buildCampaignsTable(analysis, spData)
	p.buildTargets(analysis, spData)
	p.buildPlacements(analysis, spData)
	p.buildProductAds(analysis, spData)
	p.buildDedupSets(analysis, spData)

	stData, err := readSheet(f, sheetSPSearchTerm)
	if err != nil {
		p.metrics.RecordAnalysis("failed", time.Since(start))
		p.metrics.RecordAnalysisParseError("sheet")
		return nil, err
	}
	sbData, err := readSheet(f, sheetSBSearchTerm)
	if err != nil {
		p.metrics.RecordAnalysis("failed", time.Since(start))
		p.metrics.RecordAnalysisParseError("sheet")
		return nil, err
	}
	stData = append(stData, sbData...)
	p.metrics.RecordAnalysisRows(sheetSPSearchTerm, len(stData))

	p.buildSearchTerms(analysis, stData)
	p.buildPortfolios(analysis, f, spData)

	p.metrics.RecordAnalysis("success", time.Since(start))
	p.logger.WithContext(ctx).WithFields(map[string]any{
		"sheets":       len(analysis.SheetsFound),
		"campaigns":    len(analysis.CampaignsTable),
		"targets":      len(analysis.Targets),
		"search_terms": len(analysis.SearchTermsDetail),
		"duration_ms":  time.Since(start).Milliseconds(),
	}).Info("Parsed bulk file")

	return analysis, nil
}

func (p *BulkFileParser) buildEntityBreakdown(analysis *domain.Analysis, spData []sheetRow) {
	type acc struct {
		count int
		spend float64
	}
	counts := make(map[string]*acc)
	var order []string
	for _, row := range spData {
		entity := row.str("Entity")
		if entity == "" {
			continue
		}
		a, ok := counts[entity]
		if !ok {
			a = &acc{}
			counts[entity] = a
			order = append(order, entity)
		}
		a.count++
		a.spend += row.num("Spend")
	}

	breakdown := make([]domain.EntityStat, 0, len(order))
	for _, entity := range order {
		breakdown = append(breakdown, domain.EntityStat{
			Entity: entity,
			Count:  counts[entity].count,
			Spend:  counts[entity].spend,
		})
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Spend > breakdown[j].Spend
	})
	analysis.EntityBreakdown = breakdown

	negEntities := map[string]bool{
		"Negative Keyword":                    true,
		"Campaign Negative Keyword":           true,
		"Campaign Negative Product Targeting": true,
		"Negative Product Targeting":          true,
	}
	var negatives int
	for entity, a := range counts {
		if negEntities[entity] {
			negatives += a.count
		}
	}
	get := func(entity string) int {
		if a := counts[entity]; a != nil {
			return a.count
		}
		return 0
	}
	analysis.Overview["campaigns"] = get("Campaign")
	analysis.Overview["ad_groups"] = get("Ad Group")
	analysis.Overview["keywords"] = get("Keyword")
	analysis.Overview["product_targets"] = get("Product Targeting")
	analysis.Overview["negative_keywords"] = negatives
	analysis.Overview["total_rows_sp"] = len(spData)
}

func (p *BulkFileParser) buildCampaignsTable(analysis *domain.Analysis, spData []sheetRow) {
	var perf domain.PerformanceSummary
	var table []domain.Campaign

	for _, row := range spData {
		if row.str("Entity") != domain.EntityCampaign {
			continue
		}
		spend := row.num("Spend")
		sales := row.num("Sales")
		clicks := row.count("Clicks")
		imps := row.count("Impressions")
		orders := row.count("Orders")

		// Aggregate only campaign rows so sub-entity rows never
		// double-count spend.
		perf.Impressions += imps
		perf.Clicks += clicks
		perf.Spend += spend
		perf.Sales += sales
		perf.Orders += orders

		table = append(table, domain.Campaign{
			CampaignID:    row.str("Campaign ID"),
			PortfolioID:   row.str("Portfolio ID"),
			Name:          row.campaignName(),
			State:         row.str("State"),
			TargetingType: row.str("Targeting Type"),
			DailyBudget:   row.num("Daily Budget"),
			Impressions:   imps,
			Clicks:        clicks,
			Spend:         round2(spend),
			Sales:         round2(sales),
			Orders:        orders,
			CTR:           ratio2(float64(clicks)*100, float64(imps)),
			CPC:           ratio2(spend, float64(clicks)),
			ACOS:          ratio2(spend*100, sales),
			ROAS:          ratio2(sales, spend),
		})
	}

	perf.CTR = ratio2(float64(perf.Clicks)*100, float64(perf.Impressions))
	perf.CPC = ratio2(perf.Spend, float64(perf.Clicks))
	perf.ACOS = ratio2(perf.Spend*100, perf.Sales)
	perf.ROAS = ratio2(perf.Sales, perf.Spend)
	analysis.PerformanceSummary = perf

	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Spend > table[j].Spend
	})
	analysis.CampaignsTable = table
}

func (p *BulkFileParser) buildTargets(analysis *domain.Analysis, spData []sheetRow) {
	for _, row := range spData {
		entity := row.str("Entity")
		if entity != domain.EntityKeyword && entity != domain.EntityProductTargeting {
			continue
		}
		spend := row.num("Spend")
		sales := row.num("Sales")
		clicks := row.count("Clicks")
		orders := row.count("Orders")

		analysis.Targets = append(analysis.Targets, domain.Target{
			Entity:                     entity,
			CampaignID:                 row.str("Campaign ID"),
			CampaignName:               row.campaignName(),
			AdGroupID:                  row.str("Ad Group ID"),
			AdGroupName:                row.adGroupName(),
			KeywordID:                  row.str("Keyword ID"),
			ProductTargetingID:         row.str("Product Targeting ID"),
			KeywordText:                row.str("Keyword Text"),
			MatchType:                  row.str("Match Type"),
			ProductTargetingExpression: row.str("Product Targeting Expression"),
			Bid:                        row.num("Bid"),
			State:                      row.str("State"),
			Impressions:                row.count("Impressions"),
			Clicks:                     clicks,
			Spend:                      round2(spend),
			Sales:                      round2(sales),
			Orders:                     orders,
			CVR:                        ratio2(float64(orders)*100, float64(clicks)),
			ACOS:                       ratio2(spend*100, sales),
			CPC:                        ratio2(spend, float64(clicks)),
		})
	}
}

func (p *BulkFileParser) buildPlacements(analysis *domain.Analysis, spData []sheetRow) {
	for _, row := range spData {
		if row.str("Entity") != domain.EntityBiddingAdjustment {
			continue
		}
		spend := row.num("Spend")
		sales := row.num("Sales")
		clicks := row.count("Clicks")
		orders := row.count("Orders")

		analysis.Placements = append(analysis.Placements, domain.Placement{
			CampaignID:      row.str("Campaign ID"),
			CampaignName:    row.campaignName(),
			Placement:       row.str("Placement"),
			Percentage:      row.num("Percentage"),
			BiddingStrategy: row.str("Bidding Strategy"),
			Impressions:     row.count("Impressions"),
			Clicks:          clicks,
			Spend:           round2(spend),
			Sales:           round2(sales),
			Orders:          orders,
			CPC:             ratio2(spend, float64(clicks)),
			ACOS:            ratio2(spend*100, sales),
			CVR:             ratio2(float64(orders)*100, float64(clicks)),
		})
	}
}

func (p *BulkFileParser) buildProductAds(analysis *domain.Analysis, spData []sheetRow) {
	for _, row := range spData {
		if row.str("Entity") != domain.EntityProductAd {
			continue
		}
		analysis.ProductAds = append(analysis.ProductAds, domain.ProductAd{
			CampaignID:   row.str("Campaign ID"),
			AdGroupID:    row.str("Ad Group ID"),
			CampaignName: row.campaignName(),
			AdGroupName:  row.adGroupName(),
			SKU:          row.str("SKU"),
			ASIN:         row.str("ASIN"),
		})
	}
}

func (p *BulkFileParser) buildDedupSets(analysis *domain.Analysis, spData []sheetRow) {
	exactSeen := make(map[string]bool)
	negSeen := make(map[string]bool)
	for _, row := range spData {
		entity := row.str("Entity")
		switch entity {
		case domain.EntityKeyword:
			mt := strings.ToLower(row.str("Match Type"))
			kw := strings.ToLower(row.str("Keyword Text"))
			if mt == "exact" && kw != "" && !exactSeen[kw] {
				exactSeen[kw] = true
				analysis.ExistingExactKeywords = append(analysis.ExistingExactKeywords, kw)
			}
		case domain.EntityCampaignNegativeKW, "Negative Keyword":
			kw := strings.ToLower(row.str("Keyword Text"))
			cid := row.str("Campaign ID")
			if kw != "" && cid != "" {
				key := cid + "|" + kw
				if !negSeen[key] {
					negSeen[key] = true
					analysis.ExistingNegatives = append(analysis.ExistingNegatives, key)
				}
			}
		}
	}
}

func (p *BulkFileParser) buildSearchTerms(analysis *domain.Analysis, stData []sheetRow) {
	type agg struct {
		impressions int
		clicks      int
		spend       float64
		sales       float64
		orders      int
	}
	byTerm := make(map[string]*agg)
	var order []string

	for _, row := range stData {
		term := row.str("Customer Search Term")
		if term == "" {
			continue
		}
		a, ok := byTerm[term]
		if !ok {
			a = &agg{}
			byTerm[term] = a
			order = append(order, term)
		}
		spend := row.num("Spend")
		sales := row.num("Sales")
		clicks := row.count("Clicks")
		orders := row.count("Orders")
		a.impressions += row.count("Impressions")
		a.clicks += clicks
		a.spend += spend
		a.sales += sales
		a.orders += orders

		// Source type: a targeting expression means the term came
		// through auto or category targeting.
		matchType := row.str("Match Type")
		ptExpr := row.str("Product Targeting Expression")
		sourceType := "unknown"
		if ptExpr != "" && strings.ToLower(ptExpr) != "none" {
			sourceType = ptExpr
		} else if matchType != "" {
			sourceType = matchType
		}

		analysis.SearchTermsDetail = append(analysis.SearchTermsDetail, domain.SearchTerm{
			SearchTerm:   term,
			CampaignID:   row.str("Campaign ID"),
			CampaignName: row.str("Campaign Name (Informational only)"),
			AdGroupID:    row.str("Ad Group ID"),
			AdGroupName:  row.str("Ad Group Name (Informational only)"),
			SourceType:   sourceType,
			KeywordText:  row.str("Keyword Text"),
			Impressions:  row.count("Impressions"),
			Clicks:       clicks,
			Spend:        round2(spend),
			Sales:        round2(sales),
			Orders:       orders,
			CVR:          ratio2(float64(orders)*100, float64(clicks)),
			ACOS:         ratio2(spend*100, sales),
			CPC:          ratio2(spend, float64(clicks)),
		})
	}

	allTerms := make([]domain.TermStat, 0, len(order))
	var wastedTotal int
	for _, term := range order {
		a := byTerm[term]
		stat := domain.TermStat{
			SearchTerm:  term,
			Impressions: a.impressions,
			Clicks:      a.clicks,
			Spend:       a.spend,
			Sales:       a.sales,
			Orders:      a.orders,
			CTR:         ratio2(float64(a.clicks)*100, float64(a.impressions)),
			CPC:         ratio2(a.spend, float64(a.clicks)),
			ACOS:        ratio2(a.spend*100, a.sales),
			ROAS:        ratio2(a.sales, a.spend),
		}
		if stat.Spend > 0 && stat.Orders == 0 {
			wastedTotal++
		}
		allTerms = append(allTerms, stat)
	}

	sort.SliceStable(allTerms, func(i, j int) bool {
		return allTerms[i].Spend > allTerms[j].Spend
	})

	top := allTerms
	if len(top) > 50 {
		top = top[:50]
	}
	analysis.SearchTermsTop = append([]domain.TermStat(nil), top...)

	var wasted []domain.TermStat
	for _, t := range allTerms {
		if t.Spend > 0 && t.Orders == 0 {
			wasted = append(wasted, t)
			if len(wasted) == 50 {
				break
			}
		}
	}
	analysis.SearchTermsWasted = wasted

	analysis.Overview["search_terms_total"] = len(allTerms)
	analysis.Overview["search_terms_wasted"] = wastedTotal
}

func (p *BulkFileParser) buildPortfolios(analysis *domain.Analysis, f *excelize.File, spData []sheetRow) {
	portData, err := readSheet(f, sheetPortfolios)
	if err == nil && len(portData) > 0 {
		for _, row := range portData {
			pid := row.str("Portfolio ID")
			if pid == "" {
				continue
			}
			name := row.str("Portfolio Name")
			if name == "" {
				name = row.str("Name")
			}
			analysis.Portfolios = append(analysis.Portfolios, domain.Portfolio{
				PortfolioID: pid,
				Name:        name,
			})
		}
		return
	}

	// No Portfolios sheet: infer the set of IDs from campaign rows.
	seen := make(map[string]bool)
	for _, row := range spData {
		if row.str("Entity") != domain.EntityCampaign {
			continue
		}
		pid := row.str("Portfolio ID")
		if pid != "" && !seen[pid] {
			seen[pid] = true
			analysis.Portfolios = append(analysis.Portfolios, domain.Portfolio{PortfolioID: pid})
		}
	}
}

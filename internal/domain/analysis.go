package domain

// MetricRow is a partial metric snapshot used for rule evaluation.
// Missing keys read as zero; non-numeric values fail conditions closed.
type MetricRow map[string]any

type Campaign struct {
	CampaignID    string  `json:"campaign_id"`
	PortfolioID   string  `json:"portfolio_id"`
	Name          string  `json:"name"`
	State         string  `json:"state"`
	TargetingType string  `json:"targeting_type"`
	DailyBudget   float64 `json:"daily_budget"`
	Impressions   int     `json:"impressions"`
	Clicks        int     `json:"clicks"`
	Spend         float64 `json:"spend"`
	Sales         float64 `json:"sales"`
	Orders        int     `json:"orders"`
	CTR           float64 `json:"ctr"`
	CPC           float64 `json:"cpc"`
	ACOS          float64 `json:"acos"`
	ROAS          float64 `json:"roas"`
}

// Target is a Keyword or Product Targeting row with its aggregate metrics.
type Target struct {
	Entity                     string  `json:"entity"`
	CampaignID                 string  `json:"campaign_id"`
	CampaignName               string  `json:"campaign_name"`
	AdGroupID                  string  `json:"ad_group_id"`
	AdGroupName                string  `json:"ad_group_name"`
	KeywordID                  string  `json:"keyword_id"`
	ProductTargetingID         string  `json:"product_targeting_id"`
	KeywordText                string  `json:"keyword_text"`
	MatchType                  string  `json:"match_type"`
	ProductTargetingExpression string  `json:"product_targeting_expression"`
	Bid                        float64 `json:"bid"`
	State                      string  `json:"state"`
	Impressions                int     `json:"impressions"`
	Clicks                     int     `json:"clicks"`
	Spend                      float64 `json:"spend"`
	Sales                      float64 `json:"sales"`
	Orders                     int     `json:"orders"`
	CVR                        float64 `json:"cvr"`
	ACOS                       float64 `json:"acos"`
	CPC                        float64 `json:"cpc"`
}

type Placement struct {
	CampaignID      string  `json:"campaign_id"`
	CampaignName    string  `json:"campaign_name"`
	Placement       string  `json:"placement"`
	Percentage      float64 `json:"percentage"`
	BiddingStrategy string  `json:"bidding_strategy"`
	Impressions     int     `json:"impressions"`
	Clicks          int     `json:"clicks"`
	Spend           float64 `json:"spend"`
	Sales           float64 `json:"sales"`
	Orders          int     `json:"orders"`
	CPC             float64 `json:"cpc"`
	ACOS            float64 `json:"acos"`
	CVR             float64 `json:"cvr"`
}

// SearchTerm is one customer search term row with the match context it
// came through. SourceType is the originating match type or auto/category
// targeting expression ("broad", "close-match", ...).
type SearchTerm struct {
	SearchTerm   string  `json:"search_term"`
	CampaignID   string  `json:"campaign_id"`
	CampaignName string  `json:"campaign_name"`
	AdGroupID    string  `json:"ad_group_id"`
	AdGroupName  string  `json:"ad_group_name"`
	SourceType   string  `json:"source_type"`
	KeywordText  string  `json:"keyword_text"`
	Impressions  int     `json:"impressions"`
	Clicks       int     `json:"clicks"`
	Spend        float64 `json:"spend"`
	Sales        float64 `json:"sales"`
	Orders       int     `json:"orders"`
	CVR          float64 `json:"cvr"`
	ACOS         float64 `json:"acos"`
	CPC          float64 `json:"cpc"`
}

type ProductAd struct {
	CampaignID   string `json:"campaign_id"`
	AdGroupID    string `json:"ad_group_id"`
	CampaignName string `json:"campaign_name"`
	AdGroupName  string `json:"ad_group_name"`
	SKU          string `json:"sku"`
	ASIN         string `json:"asin"`
}

type Portfolio struct {
	PortfolioID string `json:"portfolio_id"`
	Name        string `json:"name"`
}

type SheetInfo struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
}

type EntityStat struct {
	Entity string  `json:"entity"`
	Count  int     `json:"count"`
	Spend  float64 `json:"spend"`
}

// TermStat is an account-wide aggregate for one search term.
type TermStat struct {
	SearchTerm  string  `json:"search_term"`
	Impressions int     `json:"impressions"`
	Clicks      int     `json:"clicks"`
	Spend       float64 `json:"spend"`
	Sales       float64 `json:"sales"`
	Orders      int     `json:"orders"`
	CTR         float64 `json:"ctr"`
	CPC         float64 `json:"cpc"`
	ACOS        float64 `json:"acos"`
	ROAS        float64 `json:"roas"`
}

type PerformanceSummary struct {
	Impressions int     `json:"impressions"`
	Clicks      int     `json:"clicks"`
	Spend       float64 `json:"spend"`
	Sales       float64 `json:"sales"`
	Orders      int     `json:"orders"`
	CTR         float64 `json:"ctr"`
	CPC         float64 `json:"cpc"`
	ACOS        float64 `json:"acos"`
	ROAS        float64 `json:"roas"`
}

// Analysis is the full in-memory snapshot parsed from one bulk file.
// Everything the suggestion engine consumes lives here; the engine never
// goes back to the file.
type Analysis struct {
	SheetsFound        []SheetInfo        `json:"sheets_found"`
	Overview           map[string]int     `json:"overview"`
	PerformanceSummary PerformanceSummary `json:"performance_summary"`
	CampaignsTable     []Campaign         `json:"campaigns_table"`
	EntityBreakdown    []EntityStat       `json:"entity_breakdown"`
	SearchTermsTop     []TermStat         `json:"search_terms_top"`
	SearchTermsWasted  []TermStat         `json:"search_terms_wasted"`
	Targets            []Target           `json:"targets"`
	Placements         []Placement        `json:"placements"`
	SearchTermsDetail  []SearchTerm       `json:"search_terms_detail"`
	ProductAds         []ProductAd        `json:"product_ads"`
	Portfolios         []Portfolio        `json:"portfolios"`

	// Idempotency sets: normalized exact keyword texts, and
	// "{campaign_id}|{normalized term}" negative keys.
	ExistingExactKeywords []string `json:"existing_exact_keywords"`
	ExistingNegatives     []string `json:"existing_negatives"`
}

package domain

import "time"

// Bulk file column names (exact Amazon bulk sheet spelling).
const (
	ColProduct             = "Product"
	ColEntity              = "Entity"
	ColOperation           = "Operation"
	ColCampaignID          = "Campaign ID"
	ColAdGroupID           = "Ad Group ID"
	ColPortfolioID         = "Portfolio ID"
	ColAdID                = "Ad ID"
	ColKeywordID           = "Keyword ID"
	ColProductTargetingID  = "Product Targeting ID"
	ColCampaignName        = "Campaign Name"
	ColAdGroupName         = "Ad Group Name"
	ColStartDate           = "Start Date"
	ColEndDate             = "End Date"
	ColTargetingType       = "Targeting Type"
	ColState               = "State"
	ColDailyBudget         = "Daily Budget"
	ColSKU                 = "SKU"
	ColASIN                = "ASIN"
	ColAdGroupDefaultBid   = "Ad Group Default Bid"
	ColBid                 = "Bid"
	ColKeywordText         = "Keyword Text"
	ColMatchType           = "Match Type"
	ColBiddingStrategy     = "Bidding Strategy"
	ColPlacement           = "Placement"
	ColPercentage          = "Percentage"
	ColProductTargetingExp = "Product Targeting Expression"
)

// BulkColumns is the fixed export column order.
var BulkColumns = []string{
	ColProduct, ColEntity, ColOperation,
	ColCampaignID, ColAdGroupID, ColPortfolioID,
	ColAdID, ColKeywordID, ColProductTargetingID,
	ColCampaignName, ColAdGroupName,
	ColStartDate, ColEndDate,
	ColTargetingType, ColState,
	ColDailyBudget, ColSKU, ColASIN,
	ColAdGroupDefaultBid, ColBid,
	ColKeywordText, ColMatchType,
	ColBiddingStrategy, ColPlacement, ColPercentage,
	ColProductTargetingExp,
}

// Entity, operation and state values used in bulk rows.
const (
	ProductSponsored = "Sponsored Products"

	EntityCampaign           = "Campaign"
	EntityAdGroup            = "Ad Group"
	EntityProductAd          = "Product Ad"
	EntityKeyword            = "Keyword"
	EntityProductTargeting   = "Product Targeting"
	EntityCampaignNegativeKW = "Campaign Negative Keyword"
	EntityBiddingAdjustment  = "Bidding Adjustment"

	OperationCreate = "Create"
	OperationUpdate = "Update"

	StateEnabled = "enabled"
	StatePaused  = "paused"

	MatchExact         = "Exact"
	MatchNegativeExact = "Negative Exact"
)

// BulkRow is one bulk-edit record keyed by column name. Values are
// numbers or strings; the serializer stringifies anything else.
type BulkRow map[string]any

// JobSummary counts the exported rows by entity and operation.
type JobSummary struct {
	TotalActions int            `json:"total_actions"`
	ByEntity     map[string]int `json:"by_entity"`
	ByOperation  map[string]int `json:"by_operation"`
}

// BulkJob is the persisted record of one generated export file.
type BulkJob struct {
	ID             string     `json:"id"`
	Status         string     `json:"status"`
	Summary        JobSummary `json:"summary"`
	OutputFilePath string     `json:"output_file_path"`
	Filename       string     `json:"filename"`
	CreatedAt      time.Time  `json:"created_at"`
}

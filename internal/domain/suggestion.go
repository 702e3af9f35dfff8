package domain

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Suggestion categories in generator invocation order.
const (
	CategoryCreateExact  = "Create Exact Campaign"
	CategoryNegatives    = "Search Term Negatives"
	CategoryPauseCamps   = "Pause Campaigns"
	CategoryPauseTargets = "Pause Targets"
	CategoryPlacements   = "Placement Optimization"
	CategoryIncreaseBids = "Increase Bids"
)

// Suggestion is one reviewable optimization action with its bulk-file
// rows attached. Severity is informational; it does not affect ordering.
type Suggestion struct {
	ID       string         `json:"id"`
	Category string         `json:"category"`
	Severity Severity       `json:"severity"`
	Title    string         `json:"title"`
	Detail   string         `json:"detail"`
	Metrics  map[string]any `json:"metrics"`
	Actions  []BulkRow      `json:"actions"`
}

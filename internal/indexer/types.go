package indexer

// Request paths.
const (
	PathEvents       = "/events"
	PathStats        = "/stats"
	PathHealth       = "/health"
	PathAuditors     = "/auditors"
	PathSubscription = "/subscription"
	PathTreasury     = "/treasury"
	PathOUCStatus    = "/ouc/status"
	PathTier         = "/subscription/tier"
	PathAutoRenew    = "/subscription/auto-renew"
)

// GetEventsOptions configures a GetEvents request. Zero values are omitted
// from the query string.
type GetEventsOptions struct {
	Contract string
	Topic    string
	Chain    string
	From     int64 // Lower timestamp bound (ns)
	To       int64 // Upper timestamp bound (ns)
	Cursor   string
	Limit    int
}

// tierRequest is the body of POST /subscription/tier.
type tierRequest struct {
	Tier string `json:"tier"`
}

// autoRenewRequest is the body of POST /subscription/auto-renew.
type autoRenewRequest struct {
	AutoRenew bool `json:"autoRenew"`
}

// internal/models/query.go
package models

// Sort orders understood by the inventory store.
type SortOrder string

const (
	SortPriceAsc   SortOrder = "price_asc"
	SortRecentDesc SortOrder = "recent_desc"
)

// InventoryQuery is a structured inventory filter. The zero filter is
// valid and returns the most-recently-listed available items.
type InventoryQuery struct {
	Brand         string    `json:"brand,omitempty"`
	Text          string    `json:"query,omitempty"`
	MaxPrice      int       `json:"maxPrice,omitempty"`
	MinPrice      int       `json:"minPrice,omitempty"`
	AvailableOnly bool      `json:"availableOnly"`
	Limit         int       `json:"limit"`
	Sort          SortOrder `json:"sort,omitempty"`
}

// MatchResult is the outcome of one matcher invocation. Suggestions is
// populated if and only if Matches is empty.
type MatchResult struct {
	Matches     []Phone `json:"matches"`
	Suggestions []Phone `json:"suggestions"`
	Note        string  `json:"note,omitempty"`
}

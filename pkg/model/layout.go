// pkg/model/layout.go
package model

// Priority tags merchandising urgency relative to the median product profit.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
)

// SectionCount is the number of shelf sections available in a store.
// Section assignments must stay in [0, SectionCount).
const SectionCount = 30

// LayoutRecommendation places one product on the shelf grid.
type LayoutRecommendation struct {
	ProductName string   `json:"product_name"`
	SubCategory string   `json:"sub_category"`
	Section     int      `json:"section"`
	Priority    Priority `json:"priority"`
}

// StoreLayout maps product id to its shelf placement.
type StoreLayout map[string]LayoutRecommendation

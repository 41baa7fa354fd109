// pkg/layout/planner.go
package layout

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/David-Botos/retail-pipeline/pkg/cluster"
	"github.com/David-Botos/retail-pipeline/pkg/model"
)

// sectionsPerCluster is the width of the contiguous shelf band each
// cluster owns; additional products round-robin back through the band.
const sectionsPerCluster = 4

// LayoutError reports a section assignment outside the storage range.
type LayoutError struct {
	ProductID string
	Section   int
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("invalid section %d for product %s: must be in [0, %d)",
		e.Section, e.ProductID, model.SectionCount)
}

// LayoutPlanner converts cluster membership into shelf sections and
// priority tags.
type LayoutPlanner struct {
	logger *zap.Logger
}

// NewLayoutPlanner creates a new LayoutPlanner instance
func NewLayoutPlanner(logger *zap.Logger) (*LayoutPlanner, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &LayoutPlanner{logger: logger}, nil
}

// Plan assigns every product a shelf section and a priority tag. Products
// are traversed in ascending product id order (the order metrics arrive
// in); each cluster keeps its own rolling counter so placement does not
// depend on map iteration order. Priority is "high" when the product's
// summed profit strictly exceeds the median profit across all products.
func (p *LayoutPlanner) Plan(metrics []model.ProductMetric, clusters map[string]int) (model.StoreLayout, error) {
	median := medianProfit(metrics)

	layout := make(model.StoreLayout, len(metrics))
	counters := make([]int, cluster.ClusterCount)

	for _, m := range metrics {
		c, ok := clusters[m.ProductID]
		if !ok {
			return nil, fmt.Errorf("product %s has no cluster assignment", m.ProductID)
		}

		section := c*sectionsPerCluster + counters[c]%sectionsPerCluster
		counters[c]++

		if section < 0 || section >= model.SectionCount {
			return nil, &LayoutError{ProductID: m.ProductID, Section: section}
		}

		priority := model.PriorityMedium
		if m.Profit > median {
			priority = model.PriorityHigh
		}

		layout[m.ProductID] = model.LayoutRecommendation{
			ProductName: m.ProductName,
			SubCategory: m.SubCategory,
			Section:     section,
			Priority:    priority,
		}
	}

	p.logger.Info("Planned store layout",
		zap.Int("products", len(layout)),
		zap.Float64("medianProfit", median))

	return layout, nil
}

// medianProfit computes the median summed profit across products,
// averaging the two middle values for even-sized sets.
func medianProfit(metrics []model.ProductMetric) float64 {
	if len(metrics) == 0 {
		return 0
	}

	profits := make([]float64, len(metrics))
	for i, m := range metrics {
		profits[i] = m.Profit
	}
	sort.Float64s(profits)

	mid := len(profits) / 2
	if len(profits)%2 == 0 {
		return (profits[mid-1] + profits[mid]) / 2
	}
	return profits[mid]
}

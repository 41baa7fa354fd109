// pkg/analytics/products.go
package analytics

import (
	"sort"

	"github.com/David-Botos/retail-pipeline/pkg/model"
)

// ProductMetrics rolls cleaned rows up into one aggregate per product id:
// summed sales, profit and quantity plus mean discount. Product name and
// sub-category take the first value seen for that product. The result is
// ordered by ascending product id so downstream traversal is deterministic.
func ProductMetrics(rows []model.CleanedRow) []model.ProductMetric {
	type accumulator struct {
		metric model.ProductMetric
		count  int
	}

	groups := make(map[string]*accumulator)
	for _, row := range rows {
		acc, ok := groups[row.ProductID]
		if !ok {
			acc = &accumulator{metric: model.ProductMetric{
				ProductID:   row.ProductID,
				ProductName: row.ProductName,
				SubCategory: row.SubCategory,
			}}
			groups[row.ProductID] = acc
		}
		acc.metric.Sales += row.Sales
		acc.metric.Profit += row.Profit
		acc.metric.Quantity += row.Quantity
		acc.metric.Discount += row.Discount
		acc.count++
	}

	metrics := make([]model.ProductMetric, 0, len(groups))
	for _, acc := range groups {
		acc.metric.Discount /= float64(acc.count)
		metrics = append(metrics, acc.metric)
	}

	sort.Slice(metrics, func(i, j int) bool {
		return metrics[i].ProductID < metrics[j].ProductID
	})

	return metrics
}

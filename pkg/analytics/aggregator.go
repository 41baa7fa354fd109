// pkg/analytics/aggregator.go
package analytics

import (
	"errors"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/David-Botos/retail-pipeline/pkg/model"
)

// TopProductCount caps the product performance ranking.
const TopProductCount = 10

var (
	// ErrInsufficientData indicates the cleaned dataset is empty.
	ErrInsufficientData = errors.New("cannot analyze an empty dataset")
	// ErrZeroTotalSales indicates the profit margin is undefined.
	ErrZeroTotalSales = errors.New("total sales is zero; profit margin is undefined")
)

// MetricsAggregator computes dataset-level KPIs, per-sub-category rollups
// and the top-product ranking over a cleaned dataset.
type MetricsAggregator struct {
	logger *zap.Logger
}

// NewMetricsAggregator creates a new MetricsAggregator instance
func NewMetricsAggregator(logger *zap.Logger) (*MetricsAggregator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &MetricsAggregator{logger: logger}, nil
}

// Analyze computes the full AnalysisResult for a cleaned dataset. It is a
// pure function over the rows; persistence is the orchestrator's concern.
func (a *MetricsAggregator) Analyze(rows []model.CleanedRow) (*model.AnalysisResult, error) {
	if len(rows) == 0 {
		return nil, ErrInsufficientData
	}

	metrics, err := a.computeMetrics(rows)
	if err != nil {
		return nil, err
	}

	result := &model.AnalysisResult{
		Metrics:             metrics,
		SubCategoryAnalysis: subCategoryAnalysis(rows),
		TopProducts:         topProducts(rows),
	}

	a.logger.Info("Computed analysis",
		zap.Float64("totalSales", metrics.TotalSales),
		zap.Float64("totalProfit", metrics.TotalProfit),
		zap.Int("totalOrders", metrics.TotalOrders),
		zap.Int("totalProducts", metrics.TotalProducts),
		zap.Int("subCategories", len(result.SubCategoryAnalysis)),
		zap.Int("topProducts", len(result.TopProducts)))

	return result, nil
}

// computeMetrics aggregates the global KPIs.
func (a *MetricsAggregator) computeMetrics(rows []model.CleanedRow) (model.Metrics, error) {
	var totalSales, totalProfit, totalDiscount float64
	orderSales := make(map[string]float64)
	products := make(map[string]struct{})

	for _, row := range rows {
		totalSales += row.Sales
		totalProfit += row.Profit
		totalDiscount += row.Discount
		orderSales[row.OrderID] += row.Sales
		products[row.ProductID] = struct{}{}
	}

	if totalSales == 0 {
		return model.Metrics{}, ErrZeroTotalSales
	}

	// Average order value is the mean of per-order sales sums, not a flat
	// per-row average.
	var orderSum float64
	for _, sales := range orderSales {
		orderSum += sales
	}

	return model.Metrics{
		TotalSales:        totalSales,
		TotalProfit:       totalProfit,
		AverageOrderValue: orderSum / float64(len(orderSales)),
		TotalOrders:       len(orderSales),
		TotalProducts:     len(products),
		AverageDiscount:   totalDiscount / float64(len(rows)),
		ProfitMargin:      totalProfit / totalSales * 100,
	}, nil
}

// subCategoryAnalysis groups rows by sub-category and aggregates
// sum(sales), sum(profit), sum(quantity) and mean(discount).
func subCategoryAnalysis(rows []model.CleanedRow) map[string]model.SubCategoryMetrics {
	type accumulator struct {
		sales, profit, quantity, discount float64
		count                             int
	}

	groups := make(map[string]*accumulator)
	for _, row := range rows {
		acc, ok := groups[row.SubCategory]
		if !ok {
			acc = &accumulator{}
			groups[row.SubCategory] = acc
		}
		acc.sales += row.Sales
		acc.profit += row.Profit
		acc.quantity += row.Quantity
		acc.discount += row.Discount
		acc.count++
	}

	analysis := make(map[string]model.SubCategoryMetrics, len(groups))
	for subCategory, acc := range groups {
		analysis[subCategory] = model.SubCategoryMetrics{
			Sales:    round2(acc.sales),
			Profit:   round2(acc.profit),
			Quantity: round2(acc.quantity),
			Discount: round2(acc.discount / float64(acc.count)),
		}
	}

	return analysis
}

// topProducts ranks (product id, product name) groups by summed sales
// descending and keeps the first TopProductCount. The sort is stable, so
// groups with equal sales keep the order they were first encountered in.
func topProducts(rows []model.CleanedRow) model.TopProducts {
	type accumulator struct {
		productID, productName            string
		sales, profit, quantity, discount float64
		count                             int
	}

	groups := make(map[[2]string]*accumulator)
	order := make([][2]string, 0)

	for _, row := range rows {
		key := [2]string{row.ProductID, row.ProductName}
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{productID: row.ProductID, productName: row.ProductName}
			groups[key] = acc
			order = append(order, key)
		}
		acc.sales += row.Sales
		acc.profit += row.Profit
		acc.quantity += row.Quantity
		acc.discount += row.Discount
		acc.count++
	}

	ranked := make(model.TopProducts, 0, len(order))
	for _, key := range order {
		acc := groups[key]
		ranked = append(ranked, model.TopProduct{
			Key:         acc.productID + "_" + acc.productName,
			ProductID:   acc.productID,
			ProductName: acc.productName,
			Sales:       round2(acc.sales),
			Profit:      round2(acc.profit),
			Quantity:    round2(acc.quantity),
			Discount:    round2(acc.discount / float64(acc.count)),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Sales > ranked[j].Sales
	})

	if len(ranked) > TopProductCount {
		ranked = ranked[:TopProductCount]
	}

	return ranked
}

// round2 rounds to 2 decimal places
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// pkg/model/analysis.go
package model

import (
	"bytes"
	"encoding/json"
)

// Metrics holds the global KPIs for one dataset.
type Metrics struct {
	TotalSales        float64 `json:"total_sales"`
	TotalProfit       float64 `json:"total_profit"`
	AverageOrderValue float64 `json:"average_order_value"`
	TotalOrders       int     `json:"total_orders"`
	TotalProducts     int     `json:"total_products"`
	AverageDiscount   float64 `json:"average_discount"`
	ProfitMargin      float64 `json:"profit_margin"`
}

// SubCategoryMetrics is the per-sub-category rollup, rounded to 2 decimals.
type SubCategoryMetrics struct {
	Sales    float64 `json:"Sales"`
	Profit   float64 `json:"Profit"`
	Quantity float64 `json:"Quantity"`
	Discount float64 `json:"Discount"`
}

// TopProduct is one entry of the top-N product ranking. Key is the composite
// "<product id>_<product name>" identifier used for output keying.
type TopProduct struct {
	Key         string  `json:"-"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Sales       float64 `json:"Sales"`
	Profit      float64 `json:"Profit"`
	Quantity    float64 `json:"Quantity"`
	Discount    float64 `json:"Discount"`
}

// TopProducts is an ordered ranking. It marshals as a JSON object keyed by
// the composite identifier so the ranking order survives serialization.
type TopProducts []TopProduct

// MarshalJSON emits entries in ranking order rather than sorted-key order.
func (tp TopProducts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range tp {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		entry, err := json.Marshal(TopProduct(p))
		if err != nil {
			return nil, err
		}
		buf.Write(entry)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores the ranking from an object, sorted by Sales descending
// (object key order is not recoverable from encoding/json).
func (tp *TopProducts) UnmarshalJSON(data []byte) error {
	raw := map[string]TopProduct{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(TopProducts, 0, len(raw))
	for key, p := range raw {
		p.Key = key
		out = append(out, p)
	}
	sortTopProducts(out)
	*tp = out
	return nil
}

func sortTopProducts(tp TopProducts) {
	// Insertion sort keeps this dependency-free; rankings are capped at 10.
	for i := 1; i < len(tp); i++ {
		for j := i; j > 0 && (tp[j].Sales > tp[j-1].Sales ||
			(tp[j].Sales == tp[j-1].Sales && tp[j].Key < tp[j-1].Key)); j-- {
			tp[j], tp[j-1] = tp[j-1], tp[j]
		}
	}
}

// AnalysisResult is the full analytical output of one pipeline run.
type AnalysisResult struct {
	Metrics             Metrics                       `json:"metrics"`
	SubCategoryAnalysis map[string]SubCategoryMetrics `json:"sub_category_analysis"`
	TopProducts         TopProducts                   `json:"top_products"`
}

// ProductMetric is the per-product aggregate the clustering branch consumes.
type ProductMetric struct {
	ProductID   string
	ProductName string
	SubCategory string
	Sales       float64
	Profit      float64
	Quantity    float64
	Discount    float64
}

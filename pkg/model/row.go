// pkg/model/row.go
package model

import "time"

// CleanedRow is one transaction line that survived projection, deduplication
// and type coercion. All fields are populated; numeric fields are finite.
type CleanedRow struct {
	RowID         string
	OrderID       string
	OrderDate     time.Time
	ShipDate      time.Time
	ShipMode      string
	CustomerID    string
	CustomerName  string
	Segment       string
	Country       string
	City          string
	StateProvince string
	PostalCode    string
	Region        string
	ProductID     string
	Category      string
	SubCategory   string
	ProductName   string
	Sales         float64
	Quantity      float64
	Discount      float64
	Profit        float64
}

// Customer is the identity/geography record extracted once per distinct
// customer id (first occurrence wins).
type Customer struct {
	CustomerID    string `db:"customer_id"`
	CustomerName  string `db:"customer_name"`
	Segment       string `db:"segment"`
	Country       string `db:"country"`
	Region        string `db:"region"`
	City          string `db:"city"`
	StateProvince string `db:"state_province"`
	PostalCode    string `db:"postal_code"`
}

// Product is the catalog record extracted once per distinct product id.
type Product struct {
	ProductID   string `db:"product_id"`
	SubCategory string `db:"sub_category"`
	ProductName string `db:"product_name"`
}

// Sale is one durable transaction line.
type Sale struct {
	OrderID    string  `db:"order_id"`
	CustomerID string  `db:"customer_id"`
	ProductID  string  `db:"product_id"`
	Sales      float64 `db:"sales"`
	Quantity   int     `db:"quantity"`
	Discount   float64 `db:"discount"`
	Profit     float64 `db:"profit"`
}

// NormalizedRow is the denormalized analytical row stored per cleaned line.
type NormalizedRow struct {
	OrderID     string  `db:"order_id"`
	CustomerID  string  `db:"customer_id"`
	ProductID   string  `db:"product_id"`
	SubCategory string  `db:"sub_category"`
	Sales       float64 `db:"sales"`
	Quantity    int     `db:"quantity"`
	Profit      float64 `db:"profit"`
}

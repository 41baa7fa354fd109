// pkg/pipeline/extract.go
package pipeline

import "github.com/David-Botos/retail-pipeline/pkg/model"

// extractCustomers returns one customer record per distinct customer id,
// first occurrence wins, input order preserved.
func extractCustomers(rows []model.CleanedRow) []model.Customer {
	seen := make(map[string]struct{})
	customers := make([]model.Customer, 0)

	for _, row := range rows {
		if _, ok := seen[row.CustomerID]; ok {
			continue
		}
		seen[row.CustomerID] = struct{}{}
		customers = append(customers, model.Customer{
			CustomerID:    row.CustomerID,
			CustomerName:  row.CustomerName,
			Segment:       row.Segment,
			Country:       row.Country,
			Region:        row.Region,
			City:          row.City,
			StateProvince: row.StateProvince,
			PostalCode:    row.PostalCode,
		})
	}

	return customers
}

// extractProducts returns one product record per distinct product id,
// first occurrence wins, input order preserved.
func extractProducts(rows []model.CleanedRow) []model.Product {
	seen := make(map[string]struct{})
	products := make([]model.Product, 0)

	for _, row := range rows {
		if _, ok := seen[row.ProductID]; ok {
			continue
		}
		seen[row.ProductID] = struct{}{}
		products = append(products, model.Product{
			ProductID:   row.ProductID,
			SubCategory: row.SubCategory,
			ProductName: row.ProductName,
		})
	}

	return products
}

// extractSales returns one sale record per cleaned row.
func extractSales(rows []model.CleanedRow) []model.Sale {
	sales := make([]model.Sale, 0, len(rows))
	for _, row := range rows {
		sales = append(sales, model.Sale{
			OrderID:    row.OrderID,
			CustomerID: row.CustomerID,
			ProductID:  row.ProductID,
			Sales:      row.Sales,
			Quantity:   int(row.Quantity),
			Discount:   row.Discount,
			Profit:     row.Profit,
		})
	}
	return sales
}

// extractNormalizedRows returns one denormalized analytical row per
// cleaned row.
func extractNormalizedRows(rows []model.CleanedRow) []model.NormalizedRow {
	normalized := make([]model.NormalizedRow, 0, len(rows))
	for _, row := range rows {
		normalized = append(normalized, model.NormalizedRow{
			OrderID:     row.OrderID,
			CustomerID:  row.CustomerID,
			ProductID:   row.ProductID,
			SubCategory: row.SubCategory,
			Sales:       row.Sales,
			Quantity:    int(row.Quantity),
			Profit:      row.Profit,
		})
	}
	return normalized
}

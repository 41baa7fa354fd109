// pkg/cleaner/operations.go
package cleaner

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/David-Botos/retail-pipeline/pkg/model"
)

// Positions within a projected row. Must mirror model.RequiredColumns.
const (
	colRowID = iota
	colOrderID
	colOrderDate
	colShipDate
	colShipMode
	colCustomerID
	colCustomerName
	colSegment
	colCountry
	colCity
	colStateProvince
	colPostalCode
	colRegion
	colProductID
	colCategory
	colSubCategory
	colProductName
	colSales
	colQuantity
	colDiscount
	colProfit
)

// rowKey builds the deduplication key over all projected fields.
// The separator cannot occur in delimited or spreadsheet cell data.
func rowKey(fields []string) string {
	return strings.Join(fields, "\x1f")
}

// coerceRow converts projected string fields into a typed CleanedRow.
// Returns ok=false when any required value is empty or fails coercion.
func coerceRow(fields []string) (model.CleanedRow, bool) {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return model.CleanedRow{}, false
		}
	}

	orderDate, err := toDate(fields[colOrderDate])
	if err != nil {
		return model.CleanedRow{}, false
	}

	shipDate, err := toDate(fields[colShipDate])
	if err != nil {
		return model.CleanedRow{}, false
	}

	sales, err := toNumeric(fields[colSales])
	if err != nil {
		return model.CleanedRow{}, false
	}

	quantity, err := toNumeric(fields[colQuantity])
	if err != nil {
		return model.CleanedRow{}, false
	}

	discount, err := toNumeric(fields[colDiscount])
	if err != nil {
		return model.CleanedRow{}, false
	}

	profit, err := toNumeric(fields[colProfit])
	if err != nil {
		return model.CleanedRow{}, false
	}

	return model.CleanedRow{
		RowID:         strings.TrimSpace(fields[colRowID]),
		OrderID:       strings.TrimSpace(fields[colOrderID]),
		OrderDate:     orderDate,
		ShipDate:      shipDate,
		ShipMode:      strings.TrimSpace(fields[colShipMode]),
		CustomerID:    strings.TrimSpace(fields[colCustomerID]),
		CustomerName:  strings.TrimSpace(fields[colCustomerName]),
		Segment:       strings.TrimSpace(fields[colSegment]),
		Country:       strings.TrimSpace(fields[colCountry]),
		City:          strings.TrimSpace(fields[colCity]),
		StateProvince: strings.TrimSpace(fields[colStateProvince]),
		PostalCode:    strings.TrimSpace(fields[colPostalCode]),
		Region:        strings.TrimSpace(fields[colRegion]),
		ProductID:     strings.TrimSpace(fields[colProductID]),
		Category:      strings.TrimSpace(fields[colCategory]),
		SubCategory:   strings.TrimSpace(fields[colSubCategory]),
		ProductName:   strings.TrimSpace(fields[colProductName]),
		Sales:         sales,
		Quantity:      quantity,
		Discount:      discount,
		Profit:        profit,
	}, true
}

// toNumeric attempts to convert a cell to a finite float64
func toNumeric(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return 0, errors.New("empty string")
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, err
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, errors.New("non-finite value")
	}

	return value, nil
}

// dateFormats are tried in order when coercing date cells
var dateFormats = []string{
	"2006-01-02",
	"1/2/2006",
	"2006/01/02",
	"01-02-2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// toDate attempts to convert a cell to a date value
func toDate(s string) (time.Time, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return time.Time{}, errors.New("empty string")
	}

	for _, format := range dateFormats {
		if t, err := time.Parse(format, cleaned); err == nil {
			return t, nil
		}
	}

	return time.Time{}, errors.New("cannot parse date from '" + cleaned + "'")
}

// pkg/model/table.go
package model

// RequiredColumns is the exact set of columns a sales export must carry,
// in the order missing columns are reported.
var RequiredColumns = []string{
	"Row ID",
	"Order ID",
	"Order Date",
	"Ship Date",
	"Ship Mode",
	"Customer ID",
	"Customer Name",
	"Segment",
	"Country/Region",
	"City",
	"State/Province",
	"Postal Code",
	"Region",
	"Product ID",
	"Category",
	"Sub-Category",
	"Product Name",
	"Sales",
	"Quantity",
	"Discount",
	"Profit",
}

// Table is a raw parsed tabular export. Header names are kept verbatim;
// cell values are untyped strings until the cleaner coerces them.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of a column by exact name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table carries a column with the exact name.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

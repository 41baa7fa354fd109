// pkg/cleaner/cleaner_test.go
package cleaner

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/David-Botos/retail-pipeline/pkg/model"
)

// sampleRow returns a valid raw row aligned with model.RequiredColumns.
func sampleRow(rowID, orderID string) []string {
	return []string{
		rowID, orderID, "2024-01-15", "2024-01-18", "Standard Class",
		"CG-12520", "Claire Gute", "Consumer", "United States", "Henderson",
		"Kentucky", "42420", "South", "FUR-BO-10001798", "Furniture",
		"Bookcases", "Bush Somerset Collection Bookcase", "261.96", "2", "0", "41.91",
	}
}

func makeTable(rows ...[]string) *model.Table {
	cols := make([]string, len(model.RequiredColumns))
	copy(cols, model.RequiredColumns)
	return &model.Table{Columns: cols, Rows: rows}
}

func newTestCleaner(t *testing.T) *DataCleaner {
	t.Helper()
	c, err := NewDataCleaner(zap.NewNop())
	if err != nil {
		t.Fatalf("NewDataCleaner() error = %v", err)
	}
	return c
}

func TestNewDataCleaner(t *testing.T) {
	t.Run("nil logger", func(t *testing.T) {
		if _, err := NewDataCleaner(nil); err == nil {
			t.Error("expected error for nil logger")
		}
	})
}

func TestCleanSchemaValidation(t *testing.T) {
	c := newTestCleaner(t)

	t.Run("missing column is fatal", func(t *testing.T) {
		table := makeTable(sampleRow("1", "US-2024-100001"))
		table.Columns[len(table.Columns)-1] = "Margin" // replaces Profit

		_, _, err := c.Clean(table)
		if err == nil {
			t.Fatal("expected schema error")
		}

		var schemaErr *SchemaError
		if !errors.As(err, &schemaErr) {
			t.Fatalf("expected *SchemaError, got %T", err)
		}
		if len(schemaErr.MissingColumns) != 1 || schemaErr.MissingColumns[0] != "Profit" {
			t.Errorf("MissingColumns = %v, want [Profit]", schemaErr.MissingColumns)
		}
	})

	t.Run("extra columns are ignored", func(t *testing.T) {
		table := makeTable(append(sampleRow("1", "US-2024-100001"), "extra"))
		table.Columns = append(table.Columns, "Internal Notes")

		rows, stats, err := c.Clean(table)
		if err != nil {
			t.Fatalf("Clean() error = %v", err)
		}
		if stats.RowsSurvived != 1 || len(rows) != 1 {
			t.Errorf("survived = %d, want 1", stats.RowsSurvived)
		}
	})
}

func TestCleanDeduplication(t *testing.T) {
	c := newTestCleaner(t)

	table := makeTable(
		sampleRow("1", "US-2024-100001"),
		sampleRow("1", "US-2024-100001"),
		sampleRow("2", "US-2024-100002"),
		sampleRow("1", "US-2024-100001"),
	)

	rows, stats, err := c.Clean(table)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if stats.Duplicates != 2 {
		t.Errorf("Duplicates = %d, want 2", stats.Duplicates)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0].RowID != "1" || rows[1].RowID != "2" {
		t.Errorf("row order = [%s, %s], want first occurrences in input order", rows[0].RowID, rows[1].RowID)
	}
}

func TestCleanCoercion(t *testing.T) {
	c := newTestCleaner(t)

	t.Run("typed fields", func(t *testing.T) {
		rows, _, err := c.Clean(makeTable(sampleRow("1", "US-2024-100001")))
		if err != nil {
			t.Fatalf("Clean() error = %v", err)
		}

		row := rows[0]
		if got := row.OrderDate.Format("2006-01-02"); got != "2024-01-15" {
			t.Errorf("OrderDate = %s, want 2024-01-15", got)
		}
		if row.Sales != 261.96 {
			t.Errorf("Sales = %v, want 261.96", row.Sales)
		}
		if row.Quantity != 2 {
			t.Errorf("Quantity = %v, want 2", row.Quantity)
		}
	})

	t.Run("slash dates accepted", func(t *testing.T) {
		row := sampleRow("1", "US-2024-100001")
		row[2] = "1/15/2024"
		row[3] = "2024/01/18"

		rows, _, err := c.Clean(makeTable(row))
		if err != nil {
			t.Fatalf("Clean() error = %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("len(rows) = %d, want 1", len(rows))
		}
		if got := rows[0].OrderDate.Format("2006-01-02"); got != "2024-01-15" {
			t.Errorf("OrderDate = %s, want 2024-01-15", got)
		}
	})

	t.Run("unparseable date drops the row", func(t *testing.T) {
		bad := sampleRow("2", "US-2024-100002")
		bad[2] = "not a date"

		rows, stats, err := c.Clean(makeTable(sampleRow("1", "US-2024-100001"), bad))
		if err != nil {
			t.Fatalf("Clean() error = %v", err)
		}
		if stats.RowsDropped != 1 {
			t.Errorf("RowsDropped = %d, want 1", stats.RowsDropped)
		}
		if len(rows) != 1 || rows[0].RowID != "1" {
			t.Errorf("expected only row 1 to survive, got %d rows", len(rows))
		}
	})

	t.Run("unparseable numeric drops the row", func(t *testing.T) {
		bad := sampleRow("2", "US-2024-100002")
		bad[17] = "$261.96"

		_, stats, err := c.Clean(makeTable(bad))
		if err != nil {
			t.Fatalf("Clean() error = %v", err)
		}
		if stats.RowsSurvived != 0 {
			t.Errorf("RowsSurvived = %d, want 0", stats.RowsSurvived)
		}
	})

	t.Run("empty cell drops the row", func(t *testing.T) {
		bad := sampleRow("2", "US-2024-100002")
		bad[6] = "   "

		_, stats, err := c.Clean(makeTable(bad))
		if err != nil {
			t.Fatalf("Clean() error = %v", err)
		}
		if stats.RowsDropped != 1 {
			t.Errorf("RowsDropped = %d, want 1", stats.RowsDropped)
		}
	})

	t.Run("whitespace trimmed from text fields", func(t *testing.T) {
		row := sampleRow("1", "US-2024-100001")
		row[6] = "  Claire Gute  "

		rows, _, err := c.Clean(makeTable(row))
		if err != nil {
			t.Fatalf("Clean() error = %v", err)
		}
		if rows[0].CustomerName != "Claire Gute" {
			t.Errorf("CustomerName = %q, want trimmed value", rows[0].CustomerName)
		}
	})
}

func TestCleanEmptyTable(t *testing.T) {
	c := newTestCleaner(t)

	rows, stats, err := c.Clean(makeTable())
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if len(rows) != 0 || stats.RowsIn != 0 {
		t.Errorf("expected empty result, got %d rows", len(rows))
	}
}

func TestToNumeric(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"integer", "42", 42, false},
		{"decimal", "261.96", 261.96, false},
		{"negative", "-41.91", -41.91, false},
		{"padded", " 3.5 ", 3.5, false},
		{"empty", "", 0, true},
		{"currency symbol", "$12.00", 0, true},
		{"nan", "NaN", 0, true},
		{"infinity", "Inf", 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := toNumeric(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("toNumeric(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Errorf("toNumeric(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

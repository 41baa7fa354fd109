// pkg/cleaner/cleaner.go
package cleaner

import (
	"errors"

	"go.uber.org/zap"

	"github.com/David-Botos/retail-pipeline/pkg/model"
)

// DataCleaner handles data validation and cleaning during ingestion
type DataCleaner struct {
	logger *zap.Logger
}

// CleanStats summarizes what cleaning did to a table
type CleanStats struct {
	RowsIn       int
	Duplicates   int
	RowsDropped  int
	RowsSurvived int
}

// NewDataCleaner creates a new DataCleaner instance
func NewDataCleaner(logger *zap.Logger) (*DataCleaner, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &DataCleaner{logger: logger}, nil
}

// Clean validates the table schema, projects it to the required columns,
// removes exact duplicates (first occurrence kept) and coerces dates and
// numeric fields. Rows that fail any coercion are dropped silently; only a
// schema violation is fatal. Row order is preserved among survivors.
func (c *DataCleaner) Clean(table *model.Table) ([]model.CleanedRow, CleanStats, error) {
	stats := CleanStats{RowsIn: len(table.Rows)}

	if err := ValidateSchema(table); err != nil {
		return nil, stats, err
	}

	indices := make([]int, len(model.RequiredColumns))
	for i, col := range model.RequiredColumns {
		indices[i] = table.ColumnIndex(col)
	}

	// Project and deduplicate over the projected fields only.
	seen := make(map[string]struct{}, len(table.Rows))
	projected := make([][]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		fields := projectRow(row, indices)
		key := rowKey(fields)
		if _, dup := seen[key]; dup {
			stats.Duplicates++
			continue
		}
		seen[key] = struct{}{}
		projected = append(projected, fields)
	}

	cleaned := make([]model.CleanedRow, 0, len(projected))
	for _, fields := range projected {
		row, ok := coerceRow(fields)
		if !ok {
			stats.RowsDropped++
			continue
		}
		cleaned = append(cleaned, row)
	}
	stats.RowsSurvived = len(cleaned)

	c.logger.Info("Cleaned dataset",
		zap.Int("rowsIn", stats.RowsIn),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("rowsDropped", stats.RowsDropped),
		zap.Int("rowsSurvived", stats.RowsSurvived))

	return cleaned, stats, nil
}

// projectRow restricts a raw row to the required columns, in declared order.
// Missing trailing cells project to empty strings and fail coercion later.
func projectRow(row []string, indices []int) []string {
	fields := make([]string, len(indices))
	for i, idx := range indices {
		if idx >= 0 && idx < len(row) {
			fields[i] = row[idx]
		}
	}
	return fields
}

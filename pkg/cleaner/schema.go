// pkg/cleaner/schema.go
package cleaner

import (
	"strings"

	"github.com/David-Botos/retail-pipeline/pkg/model"
)

// SchemaError reports every required column the table is missing,
// in declared order.
type SchemaError struct {
	MissingColumns []string
}

func (e *SchemaError) Error() string {
	return "Missing required columns: " + strings.Join(e.MissingColumns, ", ")
}

// ValidateSchema checks that the table exposes every required column by
// exact, case-sensitive name. It has no side effects.
func ValidateSchema(table *model.Table) error {
	var missing []string
	for _, col := range model.RequiredColumns {
		if !table.HasColumn(col) {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		return &SchemaError{MissingColumns: missing}
	}

	return nil
}

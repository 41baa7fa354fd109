// pkg/store/repository.go
package store

import (
	"context"
	"fmt"

	"github.com/David-Botos/retail-pipeline/pkg/model"
)

// Repository is the persistence collaborator for pipeline runs. Writers
// receive already-cleaned data; StoreAnalysisResult and
// StoreLayoutRecommendations have replace-all semantics per run.
type Repository interface {
	AddCustomer(ctx context.Context, customer model.Customer) error
	AddProduct(ctx context.Context, product model.Product) error
	AddSale(ctx context.Context, sale model.Sale) error
	StoreNormalizedRow(ctx context.Context, row model.NormalizedRow) error

	StoreAnalysisResult(ctx context.Context, result *model.AnalysisResult) error
	StoreLayoutRecommendations(ctx context.Context, layout model.StoreLayout) error
	FetchCombinedStoreData(ctx context.Context) (*CombinedStoreData, error)

	AddFileHistory(ctx context.Context, filename string) error
	UpdateFileStatus(ctx context.Context, filename string, status model.FileStatus, errorMessage string) error

	// ClearPreviousData deletes all derived rows; the file-history audit
	// log is exempt.
	ClearPreviousData(ctx context.Context) error
}

// ProductRef identifies a product within a layout entry.
type ProductRef struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// LayoutEntry is one product's placement joined to its product name.
type LayoutEntry struct {
	Section     int            `json:"section"`
	Priority    model.Priority `json:"priority"`
	SubCategory string         `json:"sub_category"`
	Products    []ProductRef   `json:"products"`
}

// CombinedStoreData joins the current layout with the most recent
// analysis result for read-side consumers.
type CombinedStoreData struct {
	Layout    map[string]LayoutEntry `json:"layout"`
	Analytics model.AnalysisResult   `json:"analytics"`
}

// PersistenceError wraps a failed repository operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// pkg/store/memory.go
package store

import (
	"context"
	"sync"
	"time"

	"github.com/David-Botos/retail-pipeline/pkg/model"
)

// MemoryStore is an in-memory Repository used by tests and local runs
// without a database. It mirrors the Postgres store's replace-all and
// audit-log semantics.
type MemoryStore struct {
	mu sync.Mutex

	Customers      []model.Customer
	Products       []model.Product
	Sales          []model.Sale
	NormalizedRows []model.NormalizedRow
	Analyses       []*model.AnalysisResult
	Layouts        []model.StoreLayout
	History        []model.FileHistory

	// Transitions records every status update in call order.
	Transitions []model.FileStatus

	// FailOn, when non-nil, makes the named operation fail. Used to
	// exercise persistence failure paths in tests.
	FailOn map[string]error
}

// NewMemoryStore creates an empty in-memory repository.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) fail(op string) error {
	if err, ok := m.FailOn[op]; ok {
		return &PersistenceError{Op: op, Err: err}
	}
	return nil
}

func (m *MemoryStore) AddCustomer(ctx context.Context, customer model.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("AddCustomer"); err != nil {
		return err
	}
	m.Customers = append(m.Customers, customer)
	return nil
}

func (m *MemoryStore) AddProduct(ctx context.Context, product model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("AddProduct"); err != nil {
		return err
	}
	m.Products = append(m.Products, product)
	return nil
}

func (m *MemoryStore) AddSale(ctx context.Context, sale model.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("AddSale"); err != nil {
		return err
	}
	m.Sales = append(m.Sales, sale)
	return nil
}

func (m *MemoryStore) StoreNormalizedRow(ctx context.Context, row model.NormalizedRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("StoreNormalizedRow"); err != nil {
		return err
	}
	m.NormalizedRows = append(m.NormalizedRows, row)
	return nil
}

func (m *MemoryStore) StoreAnalysisResult(ctx context.Context, result *model.AnalysisResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("StoreAnalysisResult"); err != nil {
		return err
	}
	m.Analyses = append(m.Analyses, result)
	return nil
}

func (m *MemoryStore) StoreLayoutRecommendations(ctx context.Context, layout model.StoreLayout) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("StoreLayoutRecommendations"); err != nil {
		return err
	}
	m.Layouts = append(m.Layouts, layout)
	return nil
}

func (m *MemoryStore) FetchCombinedStoreData(ctx context.Context) (*CombinedStoreData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("FetchCombinedStoreData"); err != nil {
		return nil, err
	}

	productNames := make(map[string]string, len(m.Products))
	for _, p := range m.Products {
		productNames[p.ProductID] = p.ProductName
	}

	combined := &CombinedStoreData{Layout: map[string]LayoutEntry{}}
	if len(m.Layouts) > 0 {
		for productID, rec := range m.Layouts[len(m.Layouts)-1] {
			combined.Layout[productID] = LayoutEntry{
				Section:     rec.Section,
				Priority:    rec.Priority,
				SubCategory: rec.SubCategory,
				Products:    []ProductRef{{Name: productNames[productID], ID: productID}},
			}
		}
	}
	if len(m.Analyses) > 0 {
		combined.Analytics = *m.Analyses[len(m.Analyses)-1]
	}

	return combined, nil
}

func (m *MemoryStore) AddFileHistory(ctx context.Context, filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("AddFileHistory"); err != nil {
		return err
	}
	m.History = append(m.History, model.FileHistory{
		ID:        len(m.History) + 1,
		Filename:  filename,
		Status:    model.StatusPending,
		CreatedAt: time.Now(),
	})
	return nil
}

func (m *MemoryStore) UpdateFileStatus(ctx context.Context, filename string, status model.FileStatus, errorMessage string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("UpdateFileStatus"); err != nil {
		return err
	}

	m.Transitions = append(m.Transitions, status)
	for i := len(m.History) - 1; i >= 0; i-- {
		if m.History[i].Filename != filename {
			continue
		}
		m.History[i].Status = status
		if errorMessage != "" {
			message := errorMessage
			m.History[i].ErrorMessage = &message
		} else {
			m.History[i].ErrorMessage = nil
		}
		return nil
	}
	return nil
}

func (m *MemoryStore) ClearPreviousData(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("ClearPreviousData"); err != nil {
		return err
	}

	m.Customers = nil
	m.Products = nil
	m.Sales = nil
	m.NormalizedRows = nil
	m.Analyses = nil
	m.Layouts = nil
	return nil
}

// StatusTrail returns the status history recorded for a filename, in
// insertion order. Test helper.
func (m *MemoryStore) StatusTrail(filename string) []model.FileStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	var trail []model.FileStatus
	for _, h := range m.History {
		if h.Filename == filename {
			trail = append(trail, h.Status)
		}
	}
	return trail
}

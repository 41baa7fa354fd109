// pkg/store/memory_test.go
package store

import (
	"context"
	"errors"
	"testing"

	"github.com/David-Botos/retail-pipeline/pkg/model"
)

func TestMemoryStoreClearPreviousData(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	if err := m.AddCustomer(ctx, model.Customer{CustomerID: "C-1"}); err != nil {
		t.Fatalf("AddCustomer() error = %v", err)
	}
	if err := m.AddProduct(ctx, model.Product{ProductID: "P-1"}); err != nil {
		t.Fatalf("AddProduct() error = %v", err)
	}
	if err := m.StoreAnalysisResult(ctx, &model.AnalysisResult{}); err != nil {
		t.Fatalf("StoreAnalysisResult() error = %v", err)
	}
	if err := m.AddFileHistory(ctx, "sales.csv"); err != nil {
		t.Fatalf("AddFileHistory() error = %v", err)
	}

	if err := m.ClearPreviousData(ctx); err != nil {
		t.Fatalf("ClearPreviousData() error = %v", err)
	}

	if len(m.Customers) != 0 || len(m.Products) != 0 || len(m.Analyses) != 0 {
		t.Error("derived data survived clearing")
	}
	if len(m.History) != 1 {
		t.Errorf("History = %d, want audit log exempt from clearing", len(m.History))
	}
}

func TestMemoryStoreFileStatus(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	if err := m.AddFileHistory(ctx, "sales.csv"); err != nil {
		t.Fatalf("AddFileHistory() error = %v", err)
	}
	if m.History[0].Status != model.StatusPending {
		t.Errorf("initial status = %s, want Pending", m.History[0].Status)
	}

	if err := m.UpdateFileStatus(ctx, "sales.csv", model.StatusReadingFailed, "bad file"); err != nil {
		t.Fatalf("UpdateFileStatus() error = %v", err)
	}

	if m.History[0].Status != model.StatusReadingFailed {
		t.Errorf("status = %s, want Reading_Failed", m.History[0].Status)
	}
	if m.History[0].ErrorMessage == nil || *m.History[0].ErrorMessage != "bad file" {
		t.Errorf("ErrorMessage = %v, want recorded", m.History[0].ErrorMessage)
	}

	t.Run("latest entry wins", func(t *testing.T) {
		if err := m.AddFileHistory(ctx, "sales.csv"); err != nil {
			t.Fatalf("AddFileHistory() error = %v", err)
		}
		if err := m.UpdateFileStatus(ctx, "sales.csv", model.StatusCompleted, ""); err != nil {
			t.Fatalf("UpdateFileStatus() error = %v", err)
		}

		if m.History[1].Status != model.StatusCompleted {
			t.Errorf("latest status = %s, want Completed", m.History[1].Status)
		}
		if m.History[0].Status != model.StatusReadingFailed {
			t.Errorf("earlier entry status = %s, should be untouched", m.History[0].Status)
		}
	})
}

func TestMemoryStoreFailureInjection(t *testing.T) {
	m := NewMemoryStore()
	m.FailOn = map[string]error{"AddSale": errors.New("disk full")}

	err := m.AddSale(context.Background(), model.Sale{OrderID: "O-1"})
	if err == nil {
		t.Fatal("expected injected failure")
	}

	var persistErr *PersistenceError
	if !errors.As(err, &persistErr) {
		t.Fatalf("expected *PersistenceError, got %T", err)
	}
	if persistErr.Op != "AddSale" {
		t.Errorf("Op = %s, want AddSale", persistErr.Op)
	}

	// Other operations still succeed.
	if err := m.AddCustomer(context.Background(), model.Customer{CustomerID: "C-1"}); err != nil {
		t.Errorf("AddCustomer() error = %v", err)
	}
}

func TestMemoryStoreFetchCombinedStoreData(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		combined, err := m.FetchCombinedStoreData(ctx)
		if err != nil {
			t.Fatalf("FetchCombinedStoreData() error = %v", err)
		}
		if combined.Layout == nil || len(combined.Layout) != 0 {
			t.Errorf("Layout = %v, want empty map", combined.Layout)
		}
	})

	t.Run("latest layout and analysis", func(t *testing.T) {
		if err := m.AddProduct(ctx, model.Product{ProductID: "P-1", ProductName: "Bookcase"}); err != nil {
			t.Fatalf("AddProduct() error = %v", err)
		}
		if err := m.StoreLayoutRecommendations(ctx, model.StoreLayout{
			"P-1": {ProductName: "Bookcase", SubCategory: "Bookcases", Section: 4, Priority: model.PriorityHigh},
		}); err != nil {
			t.Fatalf("StoreLayoutRecommendations() error = %v", err)
		}
		if err := m.StoreAnalysisResult(ctx, &model.AnalysisResult{
			Metrics: model.Metrics{TotalSales: 600},
		}); err != nil {
			t.Fatalf("StoreAnalysisResult() error = %v", err)
		}

		combined, err := m.FetchCombinedStoreData(ctx)
		if err != nil {
			t.Fatalf("FetchCombinedStoreData() error = %v", err)
		}

		entry, ok := combined.Layout["P-1"]
		if !ok {
			t.Fatal("layout entry for P-1 missing")
		}
		if entry.Section != 4 || entry.Priority != model.PriorityHigh {
			t.Errorf("entry = %+v", entry)
		}
		if len(entry.Products) != 1 || entry.Products[0].Name != "Bookcase" {
			t.Errorf("Products = %+v, want joined product name", entry.Products)
		}
		if combined.Analytics.Metrics.TotalSales != 600 {
			t.Errorf("TotalSales = %v, want 600", combined.Analytics.Metrics.TotalSales)
		}
	})
}

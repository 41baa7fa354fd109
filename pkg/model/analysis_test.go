// pkg/model/analysis_test.go
package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTopProductsMarshalJSON(t *testing.T) {
	ranking := TopProducts{
		{Key: "P-2_High", ProductID: "P-2", ProductName: "High", Sales: 500},
		{Key: "P-1_Low", ProductID: "P-1", ProductName: "Low", Sales: 10},
	}

	data, err := json.Marshal(ranking)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	s := string(data)
	if !strings.HasPrefix(s, `{"P-2_High":`) {
		t.Errorf("highest-selling entry should be the first key: %s", s)
	}
	if !strings.Contains(s, `"product_id":"P-2"`) || !strings.Contains(s, `"Sales":500`) {
		t.Errorf("entry fields missing: %s", s)
	}

	t.Run("empty ranking", func(t *testing.T) {
		data, err := json.Marshal(TopProducts{})
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if string(data) != "{}" {
			t.Errorf("empty ranking = %s, want {}", data)
		}
	})
}

func TestTopProductsUnmarshalJSON(t *testing.T) {
	data := []byte(`{
		"P-1_Low": {"product_id": "P-1", "product_name": "Low", "Sales": 10},
		"P-2_High": {"product_id": "P-2", "product_name": "High", "Sales": 500}
	}`)

	var ranking TopProducts
	if err := json.Unmarshal(data, &ranking); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if len(ranking) != 2 {
		t.Fatalf("len = %d, want 2", len(ranking))
	}
	if ranking[0].Key != "P-2_High" || ranking[1].Key != "P-1_Low" {
		t.Errorf("restored order = [%s, %s], want sales descending", ranking[0].Key, ranking[1].Key)
	}
}

func TestTableColumnIndex(t *testing.T) {
	table := &Table{Columns: []string{"Row ID", "Sales", "Profit"}}

	if got := table.ColumnIndex("Sales"); got != 1 {
		t.Errorf("ColumnIndex(Sales) = %d, want 1", got)
	}
	if got := table.ColumnIndex("sales"); got != -1 {
		t.Errorf("ColumnIndex(sales) = %d, want -1 (case sensitive)", got)
	}
	if table.HasColumn("Missing") {
		t.Error("HasColumn(Missing) = true")
	}
}

func TestFileStatusTerminal(t *testing.T) {
	cases := []struct {
		status FileStatus
		want   bool
	}{
		{StatusPending, false},
		{StatusReadingSuccess, false},
		{StatusAnalysisFailed, false},
		{StatusCompleted, true},
		{StatusFailed, true},
	}

	for _, tc := range cases {
		if got := tc.status.Terminal(); got != tc.want {
			t.Errorf("%s.Terminal() = %v, want %v", tc.status, got, tc.want)
		}
	}
}

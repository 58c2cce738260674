package domain

import "testing"

func TestPaginate(t *testing.T) {
	items := make([]int, 250)
	for i := range items {
		items[i] = i
	}

	p := Paginate(items, 3, 100)
	if p.Total != 250 || p.TotalPages != 3 || len(p.Items) != 50 || p.Items[0] != 200 {
		t.Errorf("unexpected last page: total=%d pages=%d len=%d", p.Total, p.TotalPages, len(p.Items))
	}

	p = Paginate(items, 0, 1000)
	if p.Page != 1 || p.PerPage != DefaultPerPage || len(p.Items) != 100 {
		t.Errorf("defaults not applied: %+v", p.PerPage)
	}

	p = Paginate(items, 9, 100)
	if len(p.Items) != 0 || p.Total != 250 {
		t.Errorf("expected empty window past the end, got %d items", len(p.Items))
	}
}

func TestPaginate_EmptyHasNonNilItems(t *testing.T) {
	p := Paginate[string](nil, 1, 10)
	if p.Items == nil {
		t.Error("items must be non-nil so it encodes as []")
	}
	if p.TotalPages != 1 {
		t.Errorf("expected a single empty page, got %d", p.TotalPages)
	}
}

func TestPaginate_HugePageIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		page int
	}{
		{name: "just_past_end", page: 2},
		{name: "overflowing_multiply", page: 92233720368547759},
		{name: "max_int", page: int(^uint(0) >> 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate([]int{1, 2, 3}, tt.page, 100)
			if len(p.Items) != 0 || p.Total != 3 || p.TotalPages != 1 {
				t.Errorf("expected empty window with totals kept, got %+v", p)
			}
		})
	}
}

package pagination

import "testing"

func TestDefaults(t *testing.T) {
	t.Run("fills_missing_values", func(t *testing.T) {
		req := PageRequest{}
		req.Defaults()
		if req.Page != 1 || req.PageSize != DefaultPageSize {
			t.Errorf("expected page 1 size %d, got %d/%d", DefaultPageSize, req.Page, req.PageSize)
		}
	})

	t.Run("clamps_oversized_page_size", func(t *testing.T) {
		req := PageRequest{Page: 3, PageSize: 500}
		req.Defaults()
		if req.PageSize != MaxPageSize {
			t.Errorf("expected page size clamped to %d, got %d", MaxPageSize, req.PageSize)
		}
		if req.Page != 3 {
			t.Errorf("page should be untouched, got %d", req.Page)
		}
	})
}

func TestOffset(t *testing.T) {
	req := PageRequest{Page: 3, PageSize: 20}
	if got := req.Offset(); got != 40 {
		t.Errorf("expected offset 40, got %d", got)
	}
}

func TestNewPageResponse(t *testing.T) {
	t.Run("rounds_total_pages_up", func(t *testing.T) {
		resp := NewPageResponse([]int{1, 2, 3}, 1, 20, 41)
		if resp.TotalPages != 3 {
			t.Errorf("expected 3 pages for 41 items, got %d", resp.TotalPages)
		}
	})

	t.Run("nil_data_becomes_empty_slice", func(t *testing.T) {
		resp := NewPageResponse[int](nil, 1, 20, 0)
		if resp.Data == nil {
			t.Error("data should serialize as [], not null")
		}
		if resp.TotalPages != 0 {
			t.Errorf("expected 0 pages, got %d", resp.TotalPages)
		}
	})
}

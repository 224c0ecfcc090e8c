package pagination_test

import (
	"fmt"
	"testing"

	"gorm.io/gorm"

	"zadeet/internal/models"
	"zadeet/internal/pagination"
	"zadeet/internal/testutil"
)

func TestDefaults(t *testing.T) {
	tests := []struct {
		name         string
		in           pagination.PageRequest
		wantPage     int
		wantPageSize int
	}{
		{"fills zero values", pagination.PageRequest{}, 1, pagination.DefaultPageSize},
		{"keeps explicit values", pagination.PageRequest{Page: 3, PageSize: 5}, 3, 5},
		{"clamps oversized pages", pagination.PageRequest{Page: 1, PageSize: 1000}, 1, pagination.MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.in
			req.Defaults()
			if req.Page != tt.wantPage || req.PageSize != tt.wantPageSize {
				t.Errorf("got page=%d size=%d, want page=%d size=%d", req.Page, req.PageSize, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}

func TestNewPageResponse(t *testing.T) {
	resp := pagination.NewPageResponse[int](nil, 1, 20, 41)
	if resp.Data == nil {
		t.Error("expected empty, non-nil data")
	}
	if resp.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", resp.TotalPages)
	}
}

func TestFetch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	for i := 1; i <= 5; i++ {
		testutil.CreateTestCategoryNamed(t, db, fmt.Sprintf("Category %d", i), models.CategoryKindExpense)
	}
	testutil.CreateTestCategoryNamed(t, db, "Salary", models.CategoryKindIncome)

	byName := func(q *gorm.DB) *gorm.DB { return q.Order("name ASC") }

	t.Run("returns the requested page and totals", func(t *testing.T) {
		query := db.Model(&models.Category{}).Where("kind = ?", models.CategoryKindExpense)
		resp, err := pagination.Fetch[models.Category](query, pagination.PageRequest{Page: 2, PageSize: 2}, byName)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.TotalItems != 5 || resp.TotalPages != 3 {
			t.Errorf("expected 5 items over 3 pages, got %d over %d", resp.TotalItems, resp.TotalPages)
		}
		if len(resp.Data) != 2 || resp.Data[0].Name != "Category 3" {
			t.Errorf("unexpected page content: %+v", resp.Data)
		}
	})

	t.Run("returns an empty page past the end", func(t *testing.T) {
		resp, err := pagination.Fetch[models.Category](db.Model(&models.Category{}), pagination.PageRequest{Page: 9, PageSize: 10}, byName)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.Data) != 0 || resp.TotalItems != 6 {
			t.Errorf("expected no data and 6 items, got %d and %d", len(resp.Data), resp.TotalItems)
		}
	})
}

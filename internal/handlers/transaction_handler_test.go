package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "zadeet/internal/errors"
	"zadeet/internal/models"
	"zadeet/internal/pagination"
	"zadeet/internal/services"
)

// --- mock transaction service ---

type mockTransactionService struct {
	listTransactionsFn      func(page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	getRecentTransactionsFn func(limit int) ([]models.Transaction, error)
	getMonthTransactionsFn  func(periodID string) ([]models.Transaction, error)
	createTransactionFn     func(input services.TransactionInput) (*models.Transaction, error)
	getTransactionByIDFn    func(transactionID uint) (*models.Transaction, error)
	updateTransactionFn     func(transactionID uint, patch services.TransactionPatch) (*models.Transaction, error)
	deleteTransactionFn     func(transactionID uint) error
}

func (m *mockTransactionService) ListTransactions(page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.listTransactionsFn != nil {
		return m.listTransactionsFn(page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetRecentTransactions(limit int) ([]models.Transaction, error) {
	if m.getRecentTransactionsFn != nil {
		return m.getRecentTransactionsFn(limit)
	}
	return []models.Transaction{}, nil
}

func (m *mockTransactionService) GetMonthTransactions(periodID string) ([]models.Transaction, error) {
	if m.getMonthTransactionsFn != nil {
		return m.getMonthTransactionsFn(periodID)
	}
	return []models.Transaction{}, nil
}

func (m *mockTransactionService) CreateTransaction(input services.TransactionInput) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(input)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) GetTransactionByID(transactionID uint) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) UpdateTransaction(transactionID uint, patch services.TransactionPatch) (*models.Transaction, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(transactionID, patch)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) DeleteTransaction(transactionID uint) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(transactionID)
	}
	return nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	r.POST("/transactions", handler.CreateTransaction)
	r.GET("/transactions", handler.GetTransactions)
	r.GET("/transactions/recent", handler.GetRecentTransactions)
	r.GET("/transactions/month/:period", handler.GetMonthTransactions)
	r.GET("/transactions/:id", handler.GetTransactionByID)
	r.PATCH("/transactions/:id", handler.UpdateTransaction)
	r.DELETE("/transactions/:id", handler.DeleteTransaction)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.TransactionInput
		txSvc := &mockTransactionService{
			createTransactionFn: func(input services.TransactionInput) (*models.Transaction, error) {
				got = input
				return &models.Transaction{
					Base:       models.Base{ID: 1},
					Label:      input.Label,
					Amount:     input.Amount,
					CategoryID: input.CategoryID,
					Date:       *input.Date,
				}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "POST", "/transactions",
			`{"label":"Rent January","amount":"800","category_id":2,"date":"2025-01-05"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.Amount.Equal(decimal.NewFromInt(800)) {
			t.Errorf("expected amount 800, got %s", got.Amount)
		}
		if got.Date == nil || !got.Date.Equal(time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("expected date 2025-01-05, got %v", got.Date)
		}
		tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
		if tx["amount"] != "800" {
			t.Errorf("expected amount 800, got %v", tx["amount"])
		}
	})

	t.Run("leaves the date to the service when absent", func(t *testing.T) {
		var got services.TransactionInput
		txSvc := &mockTransactionService{
			createTransactionFn: func(input services.TransactionInput) (*models.Transaction, error) {
				got = input
				return &models.Transaction{Base: models.Base{ID: 1}}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "POST", "/transactions", `{"label":"Coffee","amount":2.5,"category_id":3}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Date != nil {
			t.Errorf("expected nil date, got %v", got.Date)
		}
	})

	t.Run("returns 400 on zero amount", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

		rec := doRequest(r, "POST", "/transactions", `{"label":"Nothing","amount":"0","category_id":3}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on negative amount", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

		rec := doRequest(r, "POST", "/transactions", `{"label":"Refund","amount":"-4","category_id":3}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on missing category", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

		rec := doRequest(r, "POST", "/transactions", `{"label":"Coffee","amount":"2"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on malformed date", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

		rec := doRequest(r, "POST", "/transactions", `{"label":"Coffee","amount":"2","category_id":3,"date":"yesterday"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 404 on unknown category", func(t *testing.T) {
		txSvc := &mockTransactionService{
			createTransactionFn: func(services.TransactionInput) (*models.Transaction, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "POST", "/transactions", `{"label":"Coffee","amount":"2","category_id":99}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_NOT_FOUND")
	})
}

func TestTransactionHandler_GetTransactions(t *testing.T) {
	t.Run("passes filters and pagination", func(t *testing.T) {
		var gotPage pagination.PageRequest
		var gotFilter services.TransactionFilter
		txSvc := &mockTransactionService{
			listTransactionsFn: func(page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				gotPage = page
				gotFilter = filter
				resp := pagination.NewPageResponse([]models.Transaction{{Base: models.Base{ID: 1}}}, 2, 10, 11)
				return &resp, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "GET", "/transactions?category_id=5&search=rent&period=last_month&page=2&page_size=10", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotPage.Page != 2 || gotPage.PageSize != 10 {
			t.Errorf("unexpected page %+v", gotPage)
		}
		if gotFilter.CategoryID == nil || *gotFilter.CategoryID != 5 {
			t.Errorf("expected category 5, got %v", gotFilter.CategoryID)
		}
		if gotFilter.Search != "rent" || gotFilter.Preset != services.PresetLastMonth {
			t.Errorf("unexpected filter %+v", gotFilter)
		}
		result := parseJSON(t, rec)
		if result["total_pages"] != float64(2) {
			t.Errorf("expected 2 pages, got %v", result["total_pages"])
		}
	})

	t.Run("no filters", func(t *testing.T) {
		var gotFilter services.TransactionFilter
		txSvc := &mockTransactionService{
			listTransactionsFn: func(page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				gotFilter = filter
				resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
				return &resp, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "GET", "/transactions", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotFilter.CategoryID != nil || gotFilter.Search != "" || gotFilter.Preset != "" {
			t.Errorf("expected an empty filter, got %+v", gotFilter)
		}
	})

	t.Run("returns 400 on unknown period", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

		rec := doRequest(r, "GET", "/transactions?period=last_year", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on non-numeric category", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

		rec := doRequest(r, "GET", "/transactions?category_id=food", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetRecentTransactions(t *testing.T) {
	t.Run("passes the limit", func(t *testing.T) {
		var gotLimit int
		txSvc := &mockTransactionService{
			getRecentTransactionsFn: func(limit int) ([]models.Transaction, error) {
				gotLimit = limit
				return []models.Transaction{{Base: models.Base{ID: 1}}}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "GET", "/transactions/recent?limit=5", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotLimit != 5 {
			t.Errorf("expected limit 5, got %d", gotLimit)
		}
	})

	t.Run("returns 400 above the maximum", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

		rec := doRequest(r, "GET", "/transactions/recent?limit=500", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetMonthTransactions(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		var gotPeriod string
		txSvc := &mockTransactionService{
			getMonthTransactionsFn: func(periodID string) ([]models.Transaction, error) {
				gotPeriod = periodID
				return []models.Transaction{{Base: models.Base{ID: 1}}, {Base: models.Base{ID: 2}}}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "GET", "/transactions/month/2025-01", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotPeriod != "2025-01" {
			t.Errorf("expected 2025-01, got %s", gotPeriod)
		}
		if n := len(parseJSON(t, rec)["transactions"].([]interface{})); n != 2 {
			t.Errorf("expected 2 transactions, got %d", n)
		}
	})

	t.Run("returns 400 on malformed period", func(t *testing.T) {
		txSvc := &mockTransactionService{
			getMonthTransactionsFn: func(string) ([]models.Transaction, error) {
				return nil, apperrors.ErrInvalidPeriod
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "GET", "/transactions/month/2025-1", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_PERIOD")
	})
}

func TestTransactionHandler_GetTransactionByID(t *testing.T) {
	t.Run("returns 404 when not found", func(t *testing.T) {
		txSvc := &mockTransactionService{
			getTransactionByIDFn: func(uint) (*models.Transaction, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "GET", "/transactions/42", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")
	})

	t.Run("returns the category and its parent", func(t *testing.T) {
		parentID := uint(1)
		txSvc := &mockTransactionService{
			getTransactionByIDFn: func(id uint) (*models.Transaction, error) {
				return &models.Transaction{
					Base:       models.Base{ID: id},
					Label:      "Market",
					Amount:     decimal.NewFromInt(30),
					CategoryID: 2,
					Category: &models.Category{
						Base: models.Base{ID: 2}, Name: "Groceries", ParentID: &parentID,
						Parent: &models.Category{Base: models.Base{ID: 1}, Name: "Food"},
					},
				}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "GET", "/transactions/42", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
		cat := tx["category"].(map[string]interface{})
		parent := cat["parent"].(map[string]interface{})
		if cat["name"] != "Groceries" || parent["name"] != "Food" {
			t.Errorf("unexpected category %v", cat)
		}
	})
}

func TestTransactionHandler_UpdateTransaction(t *testing.T) {
	t.Run("passes only present fields", func(t *testing.T) {
		var got services.TransactionPatch
		txSvc := &mockTransactionService{
			updateTransactionFn: func(id uint, patch services.TransactionPatch) (*models.Transaction, error) {
				got = patch
				return &models.Transaction{Base: models.Base{ID: id}}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "PATCH", "/transactions/3", `{"amount":"12.75","date":"2025-02-01T09:00:00Z"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Amount == nil || !got.Amount.Equal(decimal.RequireFromString("12.75")) {
			t.Errorf("expected amount 12.75, got %v", got.Amount)
		}
		if got.Date == nil || !got.Date.Equal(time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected date %v", got.Date)
		}
		if got.Label != nil || got.CategoryID != nil {
			t.Errorf("expected absent fields to stay nil, got %+v", got)
		}
	})

	t.Run("returns 400 on malformed date", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

		rec := doRequest(r, "PATCH", "/transactions/3", `{"date":"02/01/2025"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

		rec := doRequest(r, "DELETE", "/transactions/3", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		txSvc := &mockTransactionService{
			deleteTransactionFn: func(uint) error { return apperrors.ErrTransactionNotFound },
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "DELETE", "/transactions/3", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

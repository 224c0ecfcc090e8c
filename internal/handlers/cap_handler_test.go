package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "zadeet/internal/errors"
	"zadeet/internal/models"
	"zadeet/internal/services"
)

// --- mock cap service ---

type mockCapService struct {
	getPeriodsFn       func() ([]models.Period, error)
	getPeriodFn        func(periodID string) (*models.Period, error)
	createCapFn        func(categoryID uint, periodID string, amount decimal.Decimal) (*models.Cap, error)
	upsertCapFn        func(categoryID uint, periodID string, amount decimal.Decimal) (*models.Cap, error)
	getCapsForPeriodFn func(periodID string) ([]models.Cap, error)
	updateCapFn        func(capID uint, amount decimal.Decimal) (*models.Cap, error)
	updateCapByKeyFn   func(categoryID uint, periodID string, amount decimal.Decimal) (*models.Cap, error)
	deleteCapFn        func(capID uint) error
	deleteCapByKeyFn   func(categoryID uint, periodID string) error
}

func (m *mockCapService) GetPeriods() ([]models.Period, error) {
	if m.getPeriodsFn != nil {
		return m.getPeriodsFn()
	}
	return []models.Period{}, nil
}

func (m *mockCapService) GetPeriod(periodID string) (*models.Period, error) {
	if m.getPeriodFn != nil {
		return m.getPeriodFn(periodID)
	}
	return &models.Period{ID: periodID}, nil
}

func (m *mockCapService) CreateCap(categoryID uint, periodID string, amount decimal.Decimal) (*models.Cap, error) {
	if m.createCapFn != nil {
		return m.createCapFn(categoryID, periodID, amount)
	}
	return &models.Cap{CategoryID: categoryID, PeriodID: periodID, Amount: amount}, nil
}

func (m *mockCapService) UpsertCap(categoryID uint, periodID string, amount decimal.Decimal) (*models.Cap, error) {
	if m.upsertCapFn != nil {
		return m.upsertCapFn(categoryID, periodID, amount)
	}
	return &models.Cap{CategoryID: categoryID, PeriodID: periodID, Amount: amount}, nil
}

func (m *mockCapService) GetCapsForPeriod(periodID string) ([]models.Cap, error) {
	if m.getCapsForPeriodFn != nil {
		return m.getCapsForPeriodFn(periodID)
	}
	return []models.Cap{}, nil
}

func (m *mockCapService) UpdateCap(capID uint, amount decimal.Decimal) (*models.Cap, error) {
	if m.updateCapFn != nil {
		return m.updateCapFn(capID, amount)
	}
	return &models.Cap{Base: models.Base{ID: capID}, Amount: amount}, nil
}

func (m *mockCapService) UpdateCapByKey(categoryID uint, periodID string, amount decimal.Decimal) (*models.Cap, error) {
	if m.updateCapByKeyFn != nil {
		return m.updateCapByKeyFn(categoryID, periodID, amount)
	}
	return &models.Cap{CategoryID: categoryID, PeriodID: periodID, Amount: amount}, nil
}

func (m *mockCapService) DeleteCap(capID uint) error {
	if m.deleteCapFn != nil {
		return m.deleteCapFn(capID)
	}
	return nil
}

func (m *mockCapService) DeleteCapByKey(categoryID uint, periodID string) error {
	if m.deleteCapByKeyFn != nil {
		return m.deleteCapByKeyFn(categoryID, periodID)
	}
	return nil
}

var _ services.CapServicer = (*mockCapService)(nil)

func setupCapRouter(handler *CapHandler) *gin.Engine {
	r := gin.New()
	r.GET("/periods", handler.GetPeriods)
	r.GET("/periods/:period", handler.GetMonthCapView)
	r.GET("/periods/:period/caps", handler.GetPeriodCaps)
	r.PUT("/periods/:period/caps/:category_id", handler.PutPeriodCap)
	r.PATCH("/periods/:period/caps/:category_id", handler.PatchPeriodCap)
	r.DELETE("/periods/:period/caps/:category_id", handler.DeletePeriodCap)
	r.POST("/caps", handler.CreateCap)
	r.PATCH("/caps/:id", handler.UpdateCap)
	r.DELETE("/caps/:id", handler.DeleteCap)
	return r
}

func TestCapHandler_GetPeriods(t *testing.T) {
	capSvc := &mockCapService{
		getPeriodsFn: func() ([]models.Period, error) {
			return []models.Period{
				{ID: "2025-02", Name: "February 2025"},
				{ID: "2025-01", Name: "January 2025"},
			}, nil
		},
	}
	r := setupCapRouter(NewCapHandler(capSvc, &mockReportService{}))

	rec := doRequest(r, "GET", "/periods", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	periods := parseJSON(t, rec)["periods"].([]interface{})
	if len(periods) != 2 || periods[0].(map[string]interface{})["id"] != "2025-02" {
		t.Errorf("unexpected periods %v", periods)
	}
}

func TestCapHandler_GetMonthCapView(t *testing.T) {
	t.Run("returns the cap view", func(t *testing.T) {
		reportSvc := &mockReportService{
			getMonthCapViewFn: func(periodID string) (*services.CapView, error) {
				return &services.CapView{
					PeriodID:   periodID,
					PeriodName: "January 2025",
					Entries: []services.CapViewEntry{
						{CategoryID: 2, CategoryName: "Rent", CapAmount: decimal.NewFromInt(800), SpentAmount: decimal.NewFromInt(800)},
					},
				}, nil
			},
		}
		r := setupCapRouter(NewCapHandler(&mockCapService{}, reportSvc))

		rec := doRequest(r, "GET", "/periods/2025-01", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		view := parseJSON(t, rec)["cap_view"].(map[string]interface{})
		entries := view["entries"].([]interface{})
		entry := entries[0].(map[string]interface{})
		if entry["category_name"] != "Rent" || entry["cap_amount"] != "800" || entry["spent_amount"] != "800" {
			t.Errorf("unexpected entry %v", entry)
		}
	})

	t.Run("returns 404 on unknown period", func(t *testing.T) {
		reportSvc := &mockReportService{
			getMonthCapViewFn: func(string) (*services.CapView, error) {
				return nil, apperrors.ErrPeriodNotFound
			},
		}
		r := setupCapRouter(NewCapHandler(&mockCapService{}, reportSvc))

		rec := doRequest(r, "GET", "/periods/2030-01", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PERIOD_NOT_FOUND")
	})
}

func TestCapHandler_GetPeriodCaps(t *testing.T) {
	var gotPeriod string
	capSvc := &mockCapService{
		getCapsForPeriodFn: func(periodID string) ([]models.Cap, error) {
			gotPeriod = periodID
			return []models.Cap{{Base: models.Base{ID: 1}, CategoryID: 2, PeriodID: periodID, Amount: decimal.NewFromInt(300)}}, nil
		},
	}
	r := setupCapRouter(NewCapHandler(capSvc, &mockReportService{}))

	rec := doRequest(r, "GET", "/periods/2025-01/caps", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotPeriod != "2025-01" {
		t.Errorf("expected 2025-01, got %s", gotPeriod)
	}
}

func TestCapHandler_PutPeriodCap(t *testing.T) {
	t.Run("upserts by natural key", func(t *testing.T) {
		var gotCategory uint
		var gotPeriod string
		var gotAmount decimal.Decimal
		capSvc := &mockCapService{
			upsertCapFn: func(categoryID uint, periodID string, amount decimal.Decimal) (*models.Cap, error) {
				gotCategory, gotPeriod, gotAmount = categoryID, periodID, amount
				return &models.Cap{Base: models.Base{ID: 9}, CategoryID: categoryID, PeriodID: periodID, Amount: amount}, nil
			},
		}
		r := setupCapRouter(NewCapHandler(capSvc, &mockReportService{}))

		rec := doRequest(r, "PUT", "/periods/2025-03/caps/4", `{"amount":"150"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotCategory != 4 || gotPeriod != "2025-03" || !gotAmount.Equal(decimal.NewFromInt(150)) {
			t.Errorf("unexpected arguments %d %s %s", gotCategory, gotPeriod, gotAmount)
		}
	})

	t.Run("accepts a zero cap", func(t *testing.T) {
		r := setupCapRouter(NewCapHandler(&mockCapService{}, &mockReportService{}))

		rec := doRequest(r, "PUT", "/periods/2025-03/caps/4", `{"amount":"0"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 on missing amount", func(t *testing.T) {
		r := setupCapRouter(NewCapHandler(&mockCapService{}, &mockReportService{}))

		rec := doRequest(r, "PUT", "/periods/2025-03/caps/4", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on negative amount", func(t *testing.T) {
		r := setupCapRouter(NewCapHandler(&mockCapService{}, &mockReportService{}))

		rec := doRequest(r, "PUT", "/periods/2025-03/caps/4", `{"amount":"-10"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on invalid category id", func(t *testing.T) {
		r := setupCapRouter(NewCapHandler(&mockCapService{}, &mockReportService{}))

		rec := doRequest(r, "PUT", "/periods/2025-03/caps/rent", `{"amount":"10"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCapHandler_PatchPeriodCap(t *testing.T) {
	capSvc := &mockCapService{
		updateCapByKeyFn: func(uint, string, decimal.Decimal) (*models.Cap, error) {
			return nil, apperrors.ErrCapNotFound
		},
	}
	r := setupCapRouter(NewCapHandler(capSvc, &mockReportService{}))

	rec := doRequest(r, "PATCH", "/periods/2025-03/caps/4", `{"amount":"10"}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "CAP_NOT_FOUND")
}

func TestCapHandler_DeletePeriodCap(t *testing.T) {
	var gotPeriod string
	capSvc := &mockCapService{
		deleteCapByKeyFn: func(_ uint, periodID string) error {
			gotPeriod = periodID
			return nil
		},
	}
	r := setupCapRouter(NewCapHandler(capSvc, &mockReportService{}))

	rec := doRequest(r, "DELETE", "/periods/2025-03/caps/4", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotPeriod != "2025-03" {
		t.Errorf("expected 2025-03, got %s", gotPeriod)
	}
}

func TestCapHandler_CreateCap(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		r := setupCapRouter(NewCapHandler(&mockCapService{}, &mockReportService{}))

		rec := doRequest(r, "POST", "/caps", `{"category_id":5,"period_id":"2025-12","amount":"200"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		capObj := parseJSON(t, rec)["cap"].(map[string]interface{})
		if capObj["period_id"] != "2025-12" || capObj["amount"] != "200" {
			t.Errorf("unexpected cap %v", capObj)
		}
	})

	t.Run("returns 409 on duplicate pair", func(t *testing.T) {
		capSvc := &mockCapService{
			createCapFn: func(uint, string, decimal.Decimal) (*models.Cap, error) {
				return nil, apperrors.ErrDuplicateCap
			},
		}
		r := setupCapRouter(NewCapHandler(capSvc, &mockReportService{}))

		rec := doRequest(r, "POST", "/caps", `{"category_id":5,"period_id":"2025-12","amount":"200"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_CAP")
	})

	t.Run("returns 400 on malformed period", func(t *testing.T) {
		r := setupCapRouter(NewCapHandler(&mockCapService{}, &mockReportService{}))

		rec := doRequest(r, "POST", "/caps", `{"category_id":5,"period_id":"12-2025","amount":"200"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCapHandler_UpdateCap(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		r := setupCapRouter(NewCapHandler(&mockCapService{}, &mockReportService{}))

		rec := doRequest(r, "PATCH", "/caps/3", `{"amount":"75.5"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		capObj := parseJSON(t, rec)["cap"].(map[string]interface{})
		if capObj["amount"] != "75.5" {
			t.Errorf("expected 75.5, got %v", capObj["amount"])
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		capSvc := &mockCapService{
			updateCapFn: func(uint, decimal.Decimal) (*models.Cap, error) {
				return nil, apperrors.ErrCapNotFound
			},
		}
		r := setupCapRouter(NewCapHandler(capSvc, &mockReportService{}))

		rec := doRequest(r, "PATCH", "/caps/3", `{"amount":"1"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestCapHandler_DeleteCap(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		r := setupCapRouter(NewCapHandler(&mockCapService{}, &mockReportService{}))

		rec := doRequest(r, "DELETE", "/caps/3", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		capSvc := &mockCapService{
			deleteCapFn: func(uint) error { return apperrors.ErrCapNotFound },
		}
		r := setupCapRouter(NewCapHandler(capSvc, &mockReportService{}))

		rec := doRequest(r, "DELETE", "/caps/3", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

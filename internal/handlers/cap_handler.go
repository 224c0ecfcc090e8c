package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"zadeet/internal/services"
)

// CapHandler handles periods and per-period category caps.
type CapHandler struct {
	capService    services.CapServicer
	reportService services.ReportServicer
}

// NewCapHandler creates a new CapHandler.
func NewCapHandler(capService services.CapServicer, reportService services.ReportServicer) *CapHandler {
	return &CapHandler{capService: capService, reportService: reportService}
}

// CreateCapRequest represents the request payload for creating a cap.
type CreateCapRequest struct {
	CategoryID uint             `json:"category_id" binding:"required,min=1"`
	PeriodID   string           `json:"period_id" binding:"required,period_id"`
	Amount     *decimal.Decimal `json:"amount" binding:"required,gte=0" swaggertype:"string"`
}

// CapAmountRequest represents the request payload for setting a cap amount.
type CapAmountRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required,gte=0" swaggertype:"string"`
}

// GetPeriods handles listing periods.
// @Summary     List periods
// @Description All periods that have caps, newest first
// @Tags        caps
// @Produce     json
// @Success     200 {array}  models.Period "Periods"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /periods [get]
func (h *CapHandler) GetPeriods(c *gin.Context) {
	periods, err := h.capService.GetPeriods()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"periods": periods})
}

// GetMonthCapView handles the cap view of one period.
// @Summary     Month cap view
// @Description Each capped category of the period with its cap and what was spent on it that month, ordered by category name
// @Tags        caps
// @Produce     json
// @Param       period path string true "Period as YYYY-MM"
// @Success     200 {object} services.CapView "Cap view"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     404 {object} ErrorResponse "Period not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /periods/{period} [get]
func (h *CapHandler) GetMonthCapView(c *gin.Context) {
	view, err := h.reportService.GetMonthCapView(c.Param("period"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cap_view": view})
}

// GetPeriodCaps handles listing the caps of one period.
// @Summary     Period caps
// @Tags        caps
// @Produce     json
// @Param       period path string true "Period as YYYY-MM"
// @Success     200 {array}  models.Cap "Caps"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     404 {object} ErrorResponse "Period not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /periods/{period}/caps [get]
func (h *CapHandler) GetPeriodCaps(c *gin.Context) {
	caps, err := h.capService.GetCapsForPeriod(c.Param("period"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"caps": caps})
}

// PutPeriodCap handles creating or replacing the cap of a category for a period.
// @Summary     Set a cap
// @Description Create the cap of a category for a period, or replace its amount if one exists. The period is created on first use.
// @Tags        caps
// @Accept      json
// @Produce     json
// @Param       period      path string true "Period as YYYY-MM"
// @Param       category_id path int    true "Category ID"
// @Param       request body CapAmountRequest true "Cap amount"
// @Success     200 {object} models.Cap "Cap"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /periods/{period}/caps/{category_id} [put]
func (h *CapHandler) PutPeriodCap(c *gin.Context) {
	categoryID, err := parsePathID(c, "category_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CapAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	capRow, err := h.capService.UpsertCap(categoryID, c.Param("period"), *req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cap": capRow})
}

// PatchPeriodCap handles changing an existing cap addressed by period and category.
// @Summary     Update a cap by key
// @Tags        caps
// @Accept      json
// @Produce     json
// @Param       period      path string true "Period as YYYY-MM"
// @Param       category_id path int    true "Category ID"
// @Param       request body CapAmountRequest true "Cap amount"
// @Success     200 {object} models.Cap "Updated cap"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Cap not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /periods/{period}/caps/{category_id} [patch]
func (h *CapHandler) PatchPeriodCap(c *gin.Context) {
	categoryID, err := parsePathID(c, "category_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CapAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	capRow, err := h.capService.UpdateCapByKey(categoryID, c.Param("period"), *req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cap": capRow})
}

// DeletePeriodCap handles deleting a cap addressed by period and category.
// @Summary     Delete a cap by key
// @Tags        caps
// @Produce     json
// @Param       period      path string true "Period as YYYY-MM"
// @Param       category_id path int    true "Category ID"
// @Success     200 {object} MessageResponse "Cap deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Cap not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /periods/{period}/caps/{category_id} [delete]
func (h *CapHandler) DeletePeriodCap(c *gin.Context) {
	categoryID, err := parsePathID(c, "category_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.capService.DeleteCapByKey(categoryID, c.Param("period")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Cap deleted successfully"})
}

// CreateCap handles the creation of a new cap.
// @Summary     Create a cap
// @Description Create the cap of a category for a period. Fails if the pair already has one.
// @Tags        caps
// @Accept      json
// @Produce     json
// @Param       request body CreateCapRequest true "Cap details"
// @Success     201 {object} models.Cap "Cap created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Duplicate cap"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /caps [post]
func (h *CapHandler) CreateCap(c *gin.Context) {
	var req CreateCapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	capRow, err := h.capService.CreateCap(req.CategoryID, req.PeriodID, *req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"cap": capRow})
}

// UpdateCap handles changing the amount of a cap.
// @Summary     Update a cap
// @Tags        caps
// @Accept      json
// @Produce     json
// @Param       id path int true "Cap ID"
// @Param       request body CapAmountRequest true "Cap amount"
// @Success     200 {object} models.Cap "Updated cap"
// @Failure     400 {object} ErrorResponse "Invalid input or cap ID"
// @Failure     404 {object} ErrorResponse "Cap not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /caps/{id} [patch]
func (h *CapHandler) UpdateCap(c *gin.Context) {
	capID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CapAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	capRow, err := h.capService.UpdateCap(capID, *req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cap": capRow})
}

// DeleteCap handles deleting a cap.
// @Summary     Delete a cap
// @Tags        caps
// @Produce     json
// @Param       id path int true "Cap ID"
// @Success     200 {object} MessageResponse "Cap deleted"
// @Failure     400 {object} ErrorResponse "Invalid cap ID"
// @Failure     404 {object} ErrorResponse "Cap not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /caps/{id} [delete]
func (h *CapHandler) DeleteCap(c *gin.Context) {
	capID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.capService.DeleteCap(capID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Cap deleted successfully"})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zadeet/internal/services"
)

// ReportHandler serves the read-only aggregation reports.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetBalance handles the running balance.
// @Summary     Total balance
// @Description Sum of income minus sum of expenses over all transactions
// @Tags        reports
// @Produce     json
// @Success     200 {object} map[string]string "Balance"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/balance [get]
func (h *ReportHandler) GetBalance(c *gin.Context) {
	balance, err := h.reportService.GetTotalBalance()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// GetLastThreeMonths handles the trailing three-month series.
// @Summary     Last three months
// @Description Income and expense totals of the current month and the two before it, oldest first
// @Tags        reports
// @Produce     json
// @Success     200 {object} services.MonthSeries "Series"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/last-three-months [get]
func (h *ReportHandler) GetLastThreeMonths(c *gin.Context) {
	series, err := h.reportService.GetLastThreeMonthsStats()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, series)
}

// GetCategoryPie handles the current-month expense breakdown.
// @Summary     Category pie
// @Description Current-month expenses grouped by root category, with a per-subcategory tooltip
// @Tags        reports
// @Produce     json
// @Success     200 {object} services.PieStats "Pie data"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/category-pie [get]
func (h *ReportHandler) GetCategoryPie(c *gin.Context) {
	stats, err := h.reportService.GetCategoryPieStats()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetDashboard handles the combined home page reports.
// @Summary     Dashboard
// @Tags        reports
// @Produce     json
// @Success     200 {object} services.Dashboard "Dashboard"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/dashboard [get]
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.reportService.GetDashboard(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// GetOverview handles the global counters.
// @Summary     Overview
// @Tags        reports
// @Produce     json
// @Success     200 {object} services.Overview "Overview"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/overview [get]
func (h *ReportHandler) GetOverview(c *gin.Context) {
	overview, err := h.reportService.GetOverview()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

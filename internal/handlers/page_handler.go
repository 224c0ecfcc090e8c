package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"zadeet/internal/models"
	"zadeet/internal/period"
	"zadeet/internal/services"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	homeTemplate      = "home.html"
	homeRecentEntries = 5
)

// LoadTemplates parses the embedded HTML templates for gin's HTML renderer.
func LoadTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	}).ParseFS(templatesFS, "templates/*.html")
}

// PageHandler renders the server-side home page.
type PageHandler struct {
	reportService      services.ReportServicer
	transactionService services.TransactionServicer
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(reportService services.ReportServicer, transactionService services.TransactionServicer) *PageHandler {
	return &PageHandler{reportService: reportService, transactionService: transactionService}
}

type homePage struct {
	Dashboard  *services.Dashboard
	MonthName  string
	Recent     []models.Transaction
	Categories []services.CategoryTotalNode
}

// Home renders the balance, the current month's expenses, the latest
// transactions and the category tree.
func (h *PageHandler) Home(c *gin.Context) {
	dashboard, err := h.reportService.GetDashboard(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	recent, err := h.transactionService.GetRecentTransactions(homeRecentEntries)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tree, err := h.reportService.GetParentCategoryTotals()
	if err != nil {
		respondWithError(c, err)
		return
	}

	page := homePage{
		Dashboard:  dashboard,
		MonthName:  dashboard.CurrentMonth,
		Recent:     recent,
		Categories: tree,
	}
	if m, err := period.Parse(dashboard.CurrentMonth); err == nil {
		page.MonthName = m.DisplayName()
	}

	c.HTML(http.StatusOK, homeTemplate, page)
}

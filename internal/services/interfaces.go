package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"zadeet/internal/models"
	"zadeet/internal/pagination"
)

// CategoryInput holds the fields of a new category.
type CategoryInput struct {
	Name       string
	Kind       models.CategoryKind
	ParentID   *uint
	MonthlyCap *decimal.Decimal
}

// CategoryPatch holds optional deltas for a category. Nil fields are left unchanged.
type CategoryPatch struct {
	Name            *string
	Kind            *models.CategoryKind
	ParentID        *uint
	ClearParent     bool
	MonthlyCap      *decimal.Decimal
	ClearMonthlyCap bool
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(input CategoryInput) (*models.Category, error)
	GetCategories(page pagination.PageRequest, kind *models.CategoryKind) (*pagination.PageResponse[models.Category], error)
	GetCategoryTree() ([]models.Category, error)
	GetCategoryByID(categoryID uint) (*models.Category, error)
	UpdateCategory(categoryID uint, patch CategoryPatch) (*models.Category, error)
	DeleteCategory(categoryID uint) error
}

// DatePreset is a named date window for listing transactions.
type DatePreset string

const (
	PresetAll          DatePreset = "all"
	PresetCurrentMonth DatePreset = "current_month"
	PresetLastMonth    DatePreset = "last_month"
	PresetLast3Months  DatePreset = "last_3_months"
)

// TransactionFilter holds optional filter parameters for listing transactions.
// Filters combine with AND.
type TransactionFilter struct {
	CategoryID *uint
	Search     string
	Preset     DatePreset
}

// TransactionInput holds the fields of a new transaction. A nil Date means now.
type TransactionInput struct {
	Label      string
	Amount     decimal.Decimal
	CategoryID uint
	Date       *time.Time
}

// TransactionPatch holds optional deltas for a transaction.
type TransactionPatch struct {
	Label      *string
	Amount     *decimal.Decimal
	CategoryID *uint
	Date       *time.Time
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	ListTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetRecentTransactions(limit int) ([]models.Transaction, error)
	GetMonthTransactions(periodID string) ([]models.Transaction, error)
	CreateTransaction(input TransactionInput) (*models.Transaction, error)
	GetTransactionByID(transactionID uint) (*models.Transaction, error)
	UpdateTransaction(transactionID uint, patch TransactionPatch) (*models.Transaction, error)
	DeleteTransaction(transactionID uint) error
}

// CapServicer defines the contract for per-period category caps.
type CapServicer interface {
	GetPeriods() ([]models.Period, error)
	GetPeriod(periodID string) (*models.Period, error)
	CreateCap(categoryID uint, periodID string, amount decimal.Decimal) (*models.Cap, error)
	UpsertCap(categoryID uint, periodID string, amount decimal.Decimal) (*models.Cap, error)
	GetCapsForPeriod(periodID string) ([]models.Cap, error)
	UpdateCap(capID uint, amount decimal.Decimal) (*models.Cap, error)
	UpdateCapByKey(categoryID uint, periodID string, amount decimal.Decimal) (*models.Cap, error)
	DeleteCap(capID uint) error
	DeleteCapByKey(categoryID uint, periodID string) error
}

// MonthSeries is the trailing three-month income/expense series, oldest first.
type MonthSeries struct {
	Labels   []string          `json:"labels"`
	Incomes  []decimal.Decimal `json:"incomes"`
	Expenses []decimal.Decimal `json:"expenses"`
}

// PieStats holds current-month expenses grouped by root category, as parallel arrays.
type PieStats struct {
	Labels   []string          `json:"labels"`
	Totals   []decimal.Decimal `json:"totals"`
	Tooltips []string          `json:"tooltips"`
}

// CapViewEntry pairs a category's cap with what was spent in the period.
type CapViewEntry struct {
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name"`
	CapAmount    decimal.Decimal `json:"cap_amount"`
	SpentAmount  decimal.Decimal `json:"spent_amount"`
}

// CapView lists the capped categories of one period.
type CapView struct {
	PeriodID   string         `json:"period_id"`
	PeriodName string         `json:"period_name"`
	Entries    []CapViewEntry `json:"entries"`
}

// CategoryTotalNode is a category with its lifetime total. For a root, Total
// includes its children; OwnTotal is what was booked on the category itself.
type CategoryTotalNode struct {
	ID         uint                `json:"id"`
	Name       string              `json:"name"`
	Kind       models.CategoryKind `json:"kind"`
	MonthlyCap *decimal.Decimal    `json:"monthly_cap,omitempty"`
	OwnTotal   decimal.Decimal     `json:"own_total"`
	Total      decimal.Decimal     `json:"total"`
	Children   []CategoryTotalNode `json:"children,omitempty"`
}

// Dashboard combines the home page reports.
type Dashboard struct {
	Balance      decimal.Decimal `json:"balance"`
	LastMonths   *MonthSeries    `json:"last_three_months"`
	CategoryPie  *PieStats       `json:"category_pie"`
	Currency     string          `json:"currency"`
	CurrentMonth string          `json:"current_month"`
}

// Overview holds global counters.
type Overview struct {
	TransactionCount int64           `json:"transaction_count"`
	CategoryCount    int64           `json:"category_count"`
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
}

// ReportServicer defines the contract for the read-only aggregation reports.
type ReportServicer interface {
	GetTotalBalance() (decimal.Decimal, error)
	GetLastThreeMonthsStats() (*MonthSeries, error)
	GetCategoryPieStats() (*PieStats, error)
	GetCategoryTotals() (map[uint]decimal.Decimal, error)
	GetParentCategoryTotals() ([]CategoryTotalNode, error)
	GetMonthCapView(periodID string) (*CapView, error)
	GetDashboard(ctx context.Context) (*Dashboard, error)
	GetOverview() (*Overview, error)
}

package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "zadeet/internal/errors"
	"zadeet/internal/models"
	"zadeet/internal/period"
)

// otherLabel names the share of a root category booked on the root itself.
const otherLabel = "Other"

// reportService computes read-only aggregates over the current store contents.
// Nothing is cached; every call recomputes from the database.
type reportService struct {
	db       *gorm.DB
	currency string
	now      func() time.Time
}

// NewReportService creates a new ReportServicer. currency is the ISO 4217
// code used in human readable amounts.
func NewReportService(db *gorm.DB, currency string) ReportServicer {
	return &reportService{db: db, currency: currency, now: time.Now}
}

// SQLite stores DECIMAL columns as REAL, so amounts are summed in Go with decimal.Add.
type kindAmount struct {
	Kind   models.CategoryKind
	Amount decimal.Decimal
}

type categoryAmount struct {
	CategoryID uint
	Amount     decimal.Decimal
}

// totalsByKind sums amounts per category kind for the transactions selected by scope.
func (s *reportService) totalsByKind(scope func(*gorm.DB) *gorm.DB) (income, expense decimal.Decimal, err error) {
	var rows []kindAmount
	err = s.db.Model(&models.Transaction{}).
		Select("categories.kind AS kind, transactions.amount AS amount").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Scopes(scope).
		Scan(&rows).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	income, expense = decimal.Zero, decimal.Zero
	for _, row := range rows {
		switch row.Kind {
		case models.CategoryKindIncome:
			income = income.Add(row.Amount)
		case models.CategoryKindExpense:
			expense = expense.Add(row.Amount)
		}
	}
	return income, expense, nil
}

// totalsByCategory sums the amounts of the transactions selected by query, per category.
func totalsByCategory(query *gorm.DB) (map[uint]decimal.Decimal, error) {
	var rows []categoryAmount
	if err := query.Select("category_id, amount").Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := make(map[uint]decimal.Decimal)
	for _, row := range rows {
		totals[row.CategoryID] = totals[row.CategoryID].Add(row.Amount)
	}
	return totals, nil
}

func allTime(db *gorm.DB) *gorm.DB { return db }

func during(m period.Month) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("transactions.date >= ? AND transactions.date < ?", m.Start(), m.End())
	}
}

// GetTotalBalance returns the sum of income minus the sum of expenses.
func (s *reportService) GetTotalBalance() (decimal.Decimal, error) {
	income, expense, err := s.totalsByKind(allTime)
	if err != nil {
		return decimal.Zero, err
	}
	return income.Sub(expense), nil
}

// GetLastThreeMonthsStats returns income and expense totals for the current
// month and the two before it, oldest first.
func (s *reportService) GetLastThreeMonthsStats() (*MonthSeries, error) {
	current := period.Of(s.now())

	series := &MonthSeries{
		Labels:   make([]string, 0, 3),
		Incomes:  make([]decimal.Decimal, 0, 3),
		Expenses: make([]decimal.Decimal, 0, 3),
	}
	for offset := -2; offset <= 0; offset++ {
		m := current.AddMonths(offset)
		income, expense, err := s.totalsByKind(during(m))
		if err != nil {
			return nil, err
		}
		series.Labels = append(series.Labels, m.Label())
		series.Incomes = append(series.Incomes, income)
		series.Expenses = append(series.Expenses, expense)
	}
	return series, nil
}

type pieGroup struct {
	label string
	total decimal.Decimal
	parts []string
	byKey map[string]decimal.Decimal
}

func (g *pieGroup) add(part string, amount decimal.Decimal) {
	if _, ok := g.byKey[part]; !ok {
		g.parts = append(g.parts, part)
	}
	g.byKey[part] = g.byKey[part].Add(amount)
	g.total = g.total.Add(amount)
}

// GetCategoryPieStats groups the current month's expenses by root category,
// in order of first appearance.
func (s *reportService) GetCategoryPieStats() (*PieStats, error) {
	current := period.Of(s.now())

	var transactions []models.Transaction
	err := s.db.
		Preload("Category.Parent").
		Where("category_id IN (?)", s.db.Model(&models.Category{}).Select("id").Where("kind = ?", models.CategoryKindExpense)).
		Scopes(during(current)).
		Order("date ASC, id ASC").
		Find(&transactions).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var order []uint
	groups := make(map[uint]*pieGroup)
	for _, t := range transactions {
		if t.Category == nil {
			continue
		}
		rootID := t.Category.RootID()
		label, part := t.Category.Name, otherLabel
		if t.Category.Parent != nil {
			label, part = t.Category.Parent.Name, t.Category.Name
		}

		g, ok := groups[rootID]
		if !ok {
			g = &pieGroup{label: label, total: decimal.Zero, byKey: make(map[string]decimal.Decimal)}
			groups[rootID] = g
			order = append(order, rootID)
		}
		g.add(part, t.Amount)
	}

	stats := &PieStats{
		Labels:   make([]string, 0, len(order)),
		Totals:   make([]decimal.Decimal, 0, len(order)),
		Tooltips: make([]string, 0, len(order)),
	}
	for _, id := range order {
		g := groups[id]
		details := make([]string, 0, len(g.parts))
		for _, part := range g.parts {
			details = append(details, fmt.Sprintf("%s: %s %s", part, g.byKey[part].StringFixed(2), s.currency))
		}
		stats.Labels = append(stats.Labels, g.label)
		stats.Totals = append(stats.Totals, g.total)
		stats.Tooltips = append(stats.Tooltips, strings.Join(details, ", "))
	}
	return stats, nil
}

// GetCategoryTotals sums every transaction ever booked, per category.
func (s *reportService) GetCategoryTotals() (map[uint]decimal.Decimal, error) {
	return totalsByCategory(s.db.Model(&models.Transaction{}))
}

// GetParentCategoryTotals returns the category tree where every root carries
// its own total plus the totals of its children.
func (s *reportService) GetParentCategoryTotals() ([]CategoryTotalNode, error) {
	totals, err := s.GetCategoryTotals()
	if err != nil {
		return nil, err
	}

	roots, err := loadCategoryTree(s.db)
	if err != nil {
		return nil, err
	}

	nodes := make([]CategoryTotalNode, 0, len(roots))
	for _, root := range roots {
		node := totalNode(root, totals)
		for _, child := range root.Children {
			childNode := totalNode(child, totals)
			node.Total = node.Total.Add(childNode.Total)
			node.Children = append(node.Children, childNode)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func totalNode(c models.Category, totals map[uint]decimal.Decimal) CategoryTotalNode {
	own, ok := totals[c.ID]
	if !ok {
		own = decimal.Zero
	}
	return CategoryTotalNode{
		ID:         c.ID,
		Name:       c.Name,
		Kind:       c.Kind,
		MonthlyCap: c.MonthlyCap,
		OwnTotal:   own,
		Total:      own,
	}
}

// GetMonthCapView pairs every cap of the period with what its category spent
// during that month. Categories without a cap are left out.
func (s *reportService) GetMonthCapView(periodID string) (*CapView, error) {
	m, err := parsePeriod(periodID)
	if err != nil {
		return nil, err
	}
	p, err := findPeriod(s.db, m.String())
	if err != nil {
		return nil, err
	}

	var caps []models.Cap
	if err := s.db.Preload("Category").Where("period_id = ?", p.ID).Find(&caps).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	view := &CapView{PeriodID: p.ID, PeriodName: p.Name, Entries: make([]CapViewEntry, 0, len(caps))}
	if len(caps) == 0 {
		return view, nil
	}

	ids := make([]uint, 0, len(caps))
	for _, c := range caps {
		ids = append(ids, c.CategoryID)
	}

	spent, err := totalsByCategory(s.db.Model(&models.Transaction{}).
		Where("category_id IN ?", ids).
		Where("date >= ? AND date < ?", m.Start(), m.End()))
	if err != nil {
		return nil, err
	}

	for _, c := range caps {
		entry := CapViewEntry{CategoryID: c.CategoryID, CapAmount: c.Amount, SpentAmount: decimal.Zero}
		if c.Category != nil {
			entry.CategoryName = c.Category.Name
		}
		if total, ok := spent[c.CategoryID]; ok {
			entry.SpentAmount = total
		}
		view.Entries = append(view.Entries, entry)
	}
	sort.SliceStable(view.Entries, func(i, j int) bool {
		return view.Entries[i].CategoryName < view.Entries[j].CategoryName
	})
	return view, nil
}

// GetDashboard runs the balance, three-month and pie reports concurrently.
func (s *reportService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	g, gctx := errgroup.WithContext(ctx)
	scoped := &reportService{db: s.db.WithContext(gctx), currency: s.currency, now: s.now}
	dashboard := &Dashboard{
		Currency:     s.currency,
		CurrentMonth: period.Of(s.now()).String(),
	}

	g.Go(func() error {
		balance, err := scoped.GetTotalBalance()
		dashboard.Balance = balance
		return err
	})
	g.Go(func() error {
		series, err := scoped.GetLastThreeMonthsStats()
		dashboard.LastMonths = series
		return err
	})
	g.Go(func() error {
		pie, err := scoped.GetCategoryPieStats()
		dashboard.CategoryPie = pie
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dashboard, nil
}

// GetOverview returns global transaction and category counters.
func (s *reportService) GetOverview() (*Overview, error) {
	overview := &Overview{}

	if err := s.db.Model(&models.Transaction{}).Count(&overview.TransactionCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.Category{}).Count(&overview.CategoryCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	income, expense, err := s.totalsByKind(allTime)
	if err != nil {
		return nil, err
	}
	overview.TotalIncome = income
	overview.TotalExpenses = expense
	return overview, nil
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"zadeet/internal/database"
	"zadeet/internal/logger"
	"zadeet/internal/models"
	"zadeet/internal/services"
)

type seedCategory struct {
	name string
	kind models.CategoryKind
}

type seedTransaction struct {
	label    string
	amount   string
	category string
	date     time.Time
}

var seedCategories = []seedCategory{
	{"Salary", models.CategoryKindIncome},
	{"Gifts / Parents", models.CategoryKindIncome},
	{"Housing", models.CategoryKindExpense},
	{"Food", models.CategoryKindExpense},
	{"Transport", models.CategoryKindExpense},
	{"Leisure", models.CategoryKindExpense},
}

var seedTransactions = []seedTransaction{
	{"Monthly salary", "1200", "Salary", day(2025, 1, 5)},
	{"Pocket money", "150", "Gifts / Parents", day(2025, 1, 12)},
	{"Rent", "500", "Housing", day(2025, 1, 3)},
	{"Groceries", "85.90", "Food", day(2025, 1, 8)},
	{"Uber", "22.50", "Transport", day(2025, 1, 10)},
	{"Cinema", "12.00", "Leisure", day(2025, 1, 15)},
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Seed error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	db := dbManager.DB()
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db)

	ids := make(map[string]uint, len(seedCategories))
	for _, sc := range seedCategories {
		c, err := categoryService.CreateCategory(services.CategoryInput{Name: sc.name, Kind: sc.kind})
		if err != nil {
			return fmt.Errorf("failed to create category %q: %w", sc.name, err)
		}
		ids[sc.name] = c.ID
	}
	log.Infow("Categories created", "count", len(ids))

	for _, st := range seedTransactions {
		date := st.date
		_, err := transactionService.CreateTransaction(services.TransactionInput{
			Label:      st.label,
			Amount:     decimal.RequireFromString(st.amount),
			CategoryID: ids[st.category],
			Date:       &date,
		})
		if err != nil {
			return fmt.Errorf("failed to create transaction %q: %w", st.label, err)
		}
	}
	log.Infow("Transactions created", "count", len(seedTransactions))

	log.Info("Seed completed")
	return nil
}

package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"zadeet/internal/models"
	"zadeet/internal/period"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestCategory creates a root category of the given kind with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB, kind models.CategoryKind) *models.Category {
	t.Helper()
	return CreateTestCategoryNamed(t, db, fmt.Sprintf("Test Category %d", nextID()), kind)
}

// CreateTestCategoryNamed creates a root category with the given name.
func CreateTestCategoryNamed(t *testing.T, db *gorm.DB, name string, kind models.CategoryKind) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, Kind: kind}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestChildCategory creates a child of parent, sharing its kind.
func CreateTestChildCategory(t *testing.T, db *gorm.DB, parent *models.Category, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, Kind: parent.Kind, ParentID: &parent.ID}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test child category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction dated now.
func CreateTestTransaction(t *testing.T, db *gorm.DB, categoryID uint, amount string) *models.Transaction {
	t.Helper()
	return CreateTestTransactionAt(t, db, categoryID, amount, time.Now())
}

// CreateTestTransactionAt creates a transaction with the given amount and date.
func CreateTestTransactionAt(t *testing.T, db *gorm.DB, categoryID uint, amount string, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		Label:      fmt.Sprintf("Test Transaction %d", nextID()),
		Amount:     decimal.RequireFromString(amount),
		Date:       date,
		CategoryID: categoryID,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestCap creates a cap, creating its period when needed.
func CreateTestCap(t *testing.T, db *gorm.DB, categoryID uint, periodID, amount string) *models.Cap {
	t.Helper()

	m, err := period.Parse(periodID)
	if err != nil {
		t.Fatalf("invalid test period: %v", err)
	}
	p := models.Period{ID: m.String(), Name: m.DisplayName()}
	if err := db.FirstOrCreate(&p, models.Period{ID: p.ID}).Error; err != nil {
		t.Fatalf("failed to create test period: %v", err)
	}

	c := &models.Cap{
		CategoryID: categoryID,
		PeriodID:   p.ID,
		Amount:     decimal.RequireFromString(amount),
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("failed to create test cap: %v", err)
	}
	return c
}

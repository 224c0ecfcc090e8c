package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction represents a dated monetary movement booked on one category.
// Amount is always positive; the category kind decides its sign in the balance.
type Transaction struct {
	Base
	Label      string          `gorm:"not null" json:"label"`
	Amount     decimal.Decimal `gorm:"type:DECIMAL(20,8);not null" json:"amount"`
	Date       time.Time       `gorm:"not null;index" json:"date"`
	CategoryID uint            `gorm:"not null;index" json:"category_id"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`
}

// BeforeSave defaults the date to now and normalizes it to UTC, so month
// range queries compare the same representation on every driver.
func (t *Transaction) BeforeSave(tx *gorm.DB) error {
	if t.Date.IsZero() {
		t.Date = time.Now()
	}
	t.Date = t.Date.UTC()
	return nil
}

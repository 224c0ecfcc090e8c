package models

import "github.com/shopspring/decimal"

// Cap is the spending limit of a category for one period. There is at most
// one cap per (category, period) pair.
type Cap struct {
	Base
	CategoryID uint            `gorm:"not null;uniqueIndex:idx_cap_category_period" json:"category_id"`
	PeriodID   string          `gorm:"not null;size:7;uniqueIndex:idx_cap_category_period" json:"period_id"`
	Amount     decimal.Decimal `gorm:"type:DECIMAL(20,8);not null" json:"amount"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category,omitempty"`
	Period   *Period   `gorm:"foreignKey:PeriodID;constraint:OnDelete:CASCADE" json:"period,omitempty"`
}

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{&Category{}, &Period{}, &Transaction{}, &Cap{}}
}

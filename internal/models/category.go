package models

import "github.com/shopspring/decimal"

// CategoryKind tells whether a category's transactions add to or subtract from the balance
type CategoryKind string

const (
	CategoryKindIncome  CategoryKind = "income"
	CategoryKindExpense CategoryKind = "expense"
)

// Category represents a transaction category. Categories form a two-level
// tree: a category is either a root or the child of a root.
type Category struct {
	Base
	Name       string           `gorm:"not null;uniqueIndex" json:"name"`
	Kind       CategoryKind     `gorm:"not null;index" json:"kind"`
	ParentID   *uint            `gorm:"index" json:"parent_id,omitempty"`
	MonthlyCap *decimal.Decimal `gorm:"type:DECIMAL(20,8)" json:"monthly_cap,omitempty"`

	// Relationships
	Parent   *Category  `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL" json:"parent,omitempty"`
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

// IsRoot reports whether the category has no parent.
func (c Category) IsRoot() bool {
	return c.ParentID == nil
}

// RootID returns the id of the category's root ancestor.
func (c Category) RootID() uint {
	if c.ParentID != nil {
		return *c.ParentID
	}
	return c.ID
}

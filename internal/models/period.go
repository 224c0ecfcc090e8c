package models

import "time"

// Period is a calendar month that caps are attached to. The ID is the
// YYYY-MM identifier and Name its display form, e.g. "January 2025".
type Period struct {
	ID        string    `gorm:"primaryKey;size:7" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

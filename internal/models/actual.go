package models

import "time"

// ActualEntry records a realized revenue or expense against a budget.
type ActualEntry struct {
	Base
	BudgetID    string    `gorm:"type:uuid;not null;index" json:"budget_id"`
	UserID      string    `gorm:"type:uuid;not null" json:"user_id"`
	Type        ItemType  `gorm:"not null" json:"type"`
	Category    string    `json:"category"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	Description string    `json:"description"`
}

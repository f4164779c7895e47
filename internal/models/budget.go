package models

import (
	"time"

	"ledgerdesk/internal/analytics"
)

// PeriodType is the length of a budget or forecast period.
type PeriodType string

const (
	PeriodMonthly   PeriodType = "monthly"
	PeriodQuarterly PeriodType = "quarterly"
	PeriodYearly    PeriodType = "yearly"
)

// BudgetStatus is a budget's place in the approval workflow.
type BudgetStatus string

const (
	BudgetStatusDraft     BudgetStatus = "draft"
	BudgetStatusSubmitted BudgetStatus = "submitted"
	BudgetStatusApproved  BudgetStatus = "approved"
	BudgetStatusActive    BudgetStatus = "active"
	BudgetStatusRejected  BudgetStatus = "rejected"
)

// Editable reports whether items and dates may still change.
func (s BudgetStatus) Editable() bool {
	return s == BudgetStatusDraft || s == BudgetStatusRejected
}

// Committed reports whether the budget is approved or running.
func (s BudgetStatus) Committed() bool {
	return s == BudgetStatusApproved || s == BudgetStatusActive
}

// ItemType separates revenue lines from expense lines.
type ItemType string

const (
	ItemTypeRevenue ItemType = "revenue"
	ItemTypeExpense ItemType = "expense"
)

// Budget is a planned set of revenue and expense lines for a period.
type Budget struct {
	Base
	UserID       string       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name         string       `gorm:"not null" json:"name"`
	PeriodType   PeriodType   `gorm:"not null" json:"period_type"`
	StartDate    time.Time    `gorm:"not null" json:"start_date"`
	EndDate      time.Time    `gorm:"not null" json:"end_date"`
	Status       BudgetStatus `gorm:"not null;default:'draft';index" json:"status"`
	ApproverID   *string      `gorm:"type:uuid;index" json:"approver_id,omitempty"`
	DecisionNote string       `json:"decision_note,omitempty"`
	SubmittedAt  *time.Time   `json:"submitted_at,omitempty"`
	DecidedAt    *time.Time   `json:"decided_at,omitempty"`

	// Relationships
	Items []BudgetItem `gorm:"foreignKey:BudgetID" json:"items"`
}

// Figures sums the budget's items into revenue and expense.
func (b *Budget) Figures() analytics.Figures {
	var f analytics.Figures
	for _, item := range b.Items {
		switch item.Type {
		case ItemTypeRevenue:
			f.Revenue += item.Amount
		case ItemTypeExpense:
			f.Expense += item.Amount
		}
	}
	return f
}

// BudgetItem is a single planned revenue or expense line.
type BudgetItem struct {
	Base
	BudgetID string   `gorm:"type:uuid;not null;index" json:"budget_id"`
	Name     string   `gorm:"not null" json:"name"`
	Type     ItemType `gorm:"not null" json:"type"`
	Category string   `json:"category"`
	Amount   float64  `gorm:"not null" json:"amount"`
}

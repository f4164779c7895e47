package models

import "ledgerdesk/internal/analytics"

// Notification types emitted by the workflow. Anything else arrives through
// the pipeline and is stored verbatim.
const (
	NotificationApprovalRequest  = "approval_request"
	NotificationApprovalApproved = "approval_decision_approved"
	NotificationApprovalRejected = "approval_decision_rejected"
	NotificationBudgetExceeded   = "budget_exceeded"
	NotificationBudgetActivated  = "budget_activated"
)

// Notification is a message addressed to one user.
type Notification struct {
	Base
	UserID    string `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      string `gorm:"not null" json:"type"`
	Title     string `gorm:"not null" json:"title"`
	Message   string `json:"message"`
	IsRead    bool   `gorm:"not null;default:false" json:"is_read"`
	ActionURL string `json:"action_url,omitempty"`

	Severity analytics.Severity `gorm:"-" json:"severity"`
}

// Classify fills in the derived severity.
func (n *Notification) Classify() {
	n.Severity = analytics.Classify(n.Type)
}

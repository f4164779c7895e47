package analytics

import "strings"

// Severity is the UI tone of a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// severityRules are checked in order; the first rule with a matching
// pattern decides. "approval_decision_rejected" therefore resolves to success.
var severityRules = []struct {
	severity Severity
	patterns []string
}{
	{SeveritySuccess, []string{"approval_decision", "approved", "success"}},
	{SeverityError, []string{"rejected", "error", "failed", "budget_exceeded"}},
	{SeverityWarning, []string{"approval_request", "pending", "warning", "deadline"}},
}

// Classify maps a raw notification type to a severity by case-insensitive
// substring match. Unknown and empty types are info.
func Classify(rawType string) Severity {
	t := strings.ToLower(rawType)
	if t == "" {
		return SeverityInfo
	}
	for _, rule := range severityRules {
		for _, p := range rule.patterns {
			if strings.Contains(t, p) {
				return rule.severity
			}
		}
	}
	return SeverityInfo
}

// IsSeverity reports whether s names one of the four severities.
func IsSeverity(s string) bool {
	switch Severity(s) {
	case SeveritySuccess, SeverityError, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		raw  string
		want Severity
	}{
		{"approval_decision_rejected", SeveritySuccess},
		{"approval_decision_approved", SeveritySuccess},
		{"budget_approved", SeveritySuccess},
		{"IMPORT_SUCCESS", SeveritySuccess},
		{"budget_rejected", SeverityError},
		{"sync_failed", SeverityError},
		{"Budget_Exceeded", SeverityError},
		{"payroll_error", SeverityError},
		{"approval_request", SeverityWarning},
		{"pending_review", SeverityWarning},
		{"deadline_tomorrow", SeverityWarning},
		{"low_balance_warning", SeverityWarning},
		{"system_announcement", SeverityInfo},
		{"", SeverityInfo},
		// "approved" (rule 1) wins over "pending" (rule 3).
		{"pending_then_approved", SeveritySuccess},
		// "failed" (rule 2) wins over "deadline" (rule 3).
		{"deadline_failed", SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.raw))
		})
	}
}

func TestIsSeverity(t *testing.T) {
	for _, s := range []string{"success", "error", "warning", "info"} {
		assert.True(t, IsSeverity(s), s)
	}
	assert.False(t, IsSeverity("critical"))
	assert.False(t, IsSeverity(""))
}

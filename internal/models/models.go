package models

// All lists every persisted model, in dependency order, for auto-migration.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Budget{},
		&BudgetItem{},
		&ActualEntry{},
		&Scenario{},
		&Forecast{},
		&Notification{},
		&AuditLog{},
	}
}

package services

import (
	"testing"

	"ledgerdesk/internal/pagination"
	"ledgerdesk/internal/testutil"
)

func TestAuditLog(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAuditService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	svc.Log(user.ID, AuditCreate, "budget", "b-1", "127.0.0.1", map[string]interface{}{"name": "Q1"})
	svc.Log(user.ID, AuditApprove, "budget", "b-1", "127.0.0.1", nil)
	svc.Log(user.ID, AuditCreate, "scenario", "s-1", "127.0.0.1", nil)
	svc.Log(other.ID, AuditLogin, "user", other.ID, "10.0.0.1", nil)

	all, err := svc.GetUserAuditLogs(user.ID, "", pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if all.TotalItems != 3 {
		t.Fatalf("expected 3 entries, got %d", all.TotalItems)
	}
	if all.Data[0].ResourceType != "scenario" {
		t.Errorf("expected newest first, got %s", all.Data[0].ResourceType)
	}

	budgets, err := svc.GetUserAuditLogs(user.ID, "budget", pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if budgets.TotalItems != 2 {
		t.Errorf("expected 2 budget entries, got %d", budgets.TotalItems)
	}
	if budgets.Data[1].Changes != `{"name":"Q1"}` {
		t.Errorf("expected serialized changes, got %q", budgets.Data[1].Changes)
	}
}

package services

import (
	"testing"

	"ledgerdesk/internal/models"
	"ledgerdesk/internal/pagination"
	"ledgerdesk/internal/testutil"
)

func TestNotify(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewNotificationService(db)
	user := testutil.CreateTestUser(t, db)

	n, err := svc.Notify(user.ID, "nightly_import_failed", "Import failed", "3 rows rejected", "")
	testutil.AssertNoError(t, err)
	if n.Severity != "error" {
		t.Errorf("expected error severity, got %s", n.Severity)
	}

	_, err = svc.Notify(user.ID, " ", "Title", "", "")
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}

func TestGetNotifications(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewNotificationService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	testutil.CreateTestNotification(t, db, user.ID, models.NotificationApprovalRequest, "Q1 budget awaiting approval")
	testutil.CreateTestNotification(t, db, user.ID, models.NotificationBudgetExceeded, "Marketing over budget")
	testutil.CreateTestNotification(t, db, user.ID, "weekly_digest", "Your weekly digest")
	testutil.CreateTestNotification(t, db, other.ID, models.NotificationBudgetExceeded, "Not yours")

	tests := []struct {
		name   string
		filter NotificationFilter
		want   []string
	}{
		{"all_newest_first", NotificationFilter{}, []string{"Your weekly digest", "Marketing over budget", "Q1 budget awaiting approval"}},
		{"search", NotificationFilter{Search: "  BUDGET "}, []string{"Marketing over budget", "Q1 budget awaiting approval"}},
		{"by_severity", NotificationFilter{Severity: "error"}, []string{"Marketing over budget"}},
		{"by_type", NotificationFilter{Type: "weekly_digest"}, []string{"Your weekly digest"}},
		{"all_keyword", NotificationFilter{Type: "all", Severity: "all"}, []string{"Your weekly digest", "Marketing over budget", "Q1 budget awaiting approval"}},
		{"anded", NotificationFilter{Search: "q1", Severity: "error"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.GetNotifications(user.ID, tt.filter, pagination.PageRequest{})
			testutil.AssertNoError(t, err)
			if len(page.Data) != len(tt.want) {
				t.Fatalf("expected %d notifications, got %d", len(tt.want), len(page.Data))
			}
			for i, title := range tt.want {
				if page.Data[i].Title != title {
					t.Errorf("position %d: expected %q, got %q", i, title, page.Data[i].Title)
				}
			}
		})
	}

	t.Run("paged_after_filtering", func(t *testing.T) {
		page, err := svc.GetNotifications(user.ID, NotificationFilter{}, pagination.PageRequest{Page: 2, PageSize: 2})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 3 || page.TotalPages != 2 || len(page.Data) != 1 {
			t.Errorf("unexpected page %+v", page)
		}
	})
}

func TestMarkRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewNotificationService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	first := testutil.CreateTestNotification(t, db, user.ID, "info", "One")
	testutil.CreateTestNotification(t, db, user.ID, "info", "Two")
	testutil.CreateTestNotification(t, db, user.ID, "info", "Three")

	count, err := svc.UnreadCount(user.ID)
	testutil.AssertNoError(t, err)
	if count != 3 {
		t.Fatalf("expected 3 unread, got %d", count)
	}

	_, err = svc.MarkRead(other.ID, first.ID)
	testutil.AssertAppError(t, err, "NOTIFICATION_NOT_FOUND")

	read, err := svc.MarkRead(user.ID, first.ID)
	testutil.AssertNoError(t, err)
	if !read.IsRead {
		t.Error("expected notification marked read")
	}

	unread, err := svc.GetNotifications(user.ID, NotificationFilter{Unread: true}, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if unread.TotalItems != 2 {
		t.Errorf("expected 2 unread, got %d", unread.TotalItems)
	}

	changed, err := svc.MarkAllRead(user.ID)
	testutil.AssertNoError(t, err)
	if changed != 2 {
		t.Errorf("expected 2 changed, got %d", changed)
	}
	count, _ = svc.UnreadCount(user.ID)
	if count != 0 {
		t.Errorf("expected 0 unread, got %d", count)
	}
}

package services

import (
	"testing"
	"time"

	"ledgerdesk/internal/models"
	"ledgerdesk/internal/pagination"
	"ledgerdesk/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("alice@example.com", "password123", "Alice", "Smith")
		testutil.AssertNoError(t, err)

		if user.ID == "" {
			t.Fatal("expected generated user ID")
		}
		if user.Role != models.UserRoleAccountant {
			t.Errorf("expected default role accountant, got %s", user.Role)
		}
		if !user.IsActive {
			t.Error("expected user to be active")
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("dup@example.com", "password123", "", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("DUP@example.com", "password456", "", "")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("", "password123", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, err = svc.CreateUser("x@example.com", "", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("email_normalized_to_lowercase", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser(" Alice@EXAMPLE.COM ", "password123", "", "")
		testutil.AssertNoError(t, err)
		if user.Email != "alice@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
	})
}

func TestGetUserByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		created := testutil.CreateTestUserWithEmail(t, db, "found@example.com")
		user, err := svc.GetUserByEmail("found@example.com")
		testutil.AssertNoError(t, err)
		if user.ID != created.ID {
			t.Errorf("expected user ID %s, got %s", created.ID, user.ID)
		}
	})

	t.Run("inactive_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user := testutil.CreateTestUserWithEmail(t, db, "inactive@example.com")
		db.Model(user).Update("is_active", false)

		_, err := svc.GetUserByEmail("inactive@example.com")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestAttemptLogin(t *testing.T) {
	t.Run("success_resets_counter", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user := testutil.CreateTestUserWithEmail(t, db, "login@example.com")
		db.Model(user).Update("failed_login_attempts", 3)

		got, err := svc.AttemptLogin("login@example.com", testutil.TestPassword)
		testutil.AssertNoError(t, err)
		if got.ID != user.ID {
			t.Errorf("expected user %s, got %s", user.ID, got.ID)
		}

		var reloaded models.User
		db.First(&reloaded, "id = ?", user.ID)
		if reloaded.FailedLoginAttempts != 0 {
			t.Errorf("expected failed attempts reset, got %d", reloaded.FailedLoginAttempts)
		}
		if reloaded.LastLoginAt == nil {
			t.Error("expected last_login_at to be set")
		}
	})

	t.Run("unknown_email_looks_like_bad_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.AttemptLogin("nobody@example.com", "whatever")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("locks_after_max_failures", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := &userService{db: db, maxFailedLogins: 3, lockout: time.Hour, now: time.Now}

		testutil.CreateTestUserWithEmail(t, db, "lock@example.com")
		for i := 0; i < 3; i++ {
			_, err := svc.AttemptLogin("lock@example.com", "wrong")
			testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
		}

		_, err := svc.AttemptLogin("lock@example.com", testutil.TestPassword)
		testutil.AssertAppError(t, err, "ACCOUNT_LOCKED")
	})

	t.Run("lock_expires", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		now := time.Now()
		svc := &userService{db: db, maxFailedLogins: 1, lockout: time.Minute, now: func() time.Time { return now }}

		testutil.CreateTestUserWithEmail(t, db, "expire@example.com")
		_, err := svc.AttemptLogin("expire@example.com", "wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")

		now = now.Add(2 * time.Minute)
		_, err = svc.AttemptLogin("expire@example.com", testutil.TestPassword)
		testutil.AssertNoError(t, err)
	})
}

func TestRefreshTokenHash(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	user := testutil.CreateTestUser(t, db)
	testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "abc123"))

	hash, err := svc.GetRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)
	if hash != "abc123" {
		t.Errorf("expected stored hash, got %q", hash)
	}

	err = svc.StoreRefreshTokenHash("0190c3a0-0000-7000-8000-00000000ffff", "x")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}

func TestListUsers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	testutil.CreateTestUserWithEmail(t, db, "b@example.com")
	testutil.CreateTestUserWithEmail(t, db, "a@example.com")
	testutil.CreateTestUserWithEmail(t, db, "c@example.com")

	result, err := svc.ListUsers(pagination.PageRequest{Page: 1, PageSize: 2})
	testutil.AssertNoError(t, err)
	if result.TotalItems != 3 || result.TotalPages != 2 {
		t.Errorf("expected 3 items over 2 pages, got %d/%d", result.TotalItems, result.TotalPages)
	}
	if len(result.Data) != 2 || result.Data[0].Email != "a@example.com" {
		t.Errorf("expected first page ordered by email, got %+v", result.Data)
	}
}

func TestSetManager(t *testing.T) {
	t.Run("assign_and_clear", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		manager := testutil.CreateTestUser(t, db)
		user := testutil.CreateTestUser(t, db)

		updated, err := svc.SetManager(user.ID, &manager.ID)
		testutil.AssertNoError(t, err)
		if updated.ManagerID == nil || *updated.ManagerID != manager.ID {
			t.Fatalf("expected manager %s, got %v", manager.ID, updated.ManagerID)
		}

		updated, err = svc.SetManager(user.ID, nil)
		testutil.AssertNoError(t, err)
		if updated.ManagerID != nil {
			t.Errorf("expected manager cleared, got %v", *updated.ManagerID)
		}
	})

	t.Run("self_manager", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user := testutil.CreateTestUser(t, db)
		_, err := svc.SetManager(user.ID, &user.ID)
		testutil.AssertAppError(t, err, "SELF_MANAGER")
	})

	t.Run("cycle_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		top := testutil.CreateTestUser(t, db)
		mid := testutil.CreateTestUserWithManager(t, db, top.ID)
		low := testutil.CreateTestUserWithManager(t, db, mid.ID)

		_, err := svc.SetManager(top.ID, &low.ID)
		testutil.AssertAppError(t, err, "SELF_MANAGER")
	})

	t.Run("unknown_manager", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user := testutil.CreateTestUser(t, db)
		ghost := "0190c3a0-0000-7000-8000-00000000ffff"
		_, err := svc.SetManager(user.ID, &ghost)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestGetHierarchy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	cfo := testutil.CreateTestUser(t, db)
	controller := testutil.CreateTestUserWithManager(t, db, cfo.ID)
	testutil.CreateTestUserWithManager(t, db, controller.ID)
	loner := testutil.CreateTestUser(t, db)

	roots, err := svc.GetHierarchy()
	testutil.AssertNoError(t, err)

	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	if roots[0].ID != cfo.ID || roots[1].ID != loner.ID {
		t.Errorf("unexpected roots %s, %s", roots[0].ID, roots[1].ID)
	}
	if len(roots[0].Children) != 1 || len(roots[0].Children[0].Children) != 1 {
		t.Errorf("expected cfo -> controller -> accountant chain")
	}
	if roots[0].Name != cfo.FullName() {
		t.Errorf("expected name %q, got %q", cfo.FullName(), roots[0].Name)
	}
}

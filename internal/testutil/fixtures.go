package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ledgerdesk/internal/models"
)

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "password123"

var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Date returns midnight UTC on the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithEmail(t, db, fmt.Sprintf("user%d@test.com", nextID()))
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	n := nextID()
	user := &models.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "Test",
		LastName:  fmt.Sprintf("User%d", n),
		Role:      models.UserRoleAccountant,
		IsActive:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestUserWithManager creates a user reporting to managerID.
func CreateTestUserWithManager(t *testing.T, db *gorm.DB, managerID string) *models.User {
	t.Helper()

	user := CreateTestUser(t, db)
	if err := db.Model(user).Update("manager_id", managerID).Error; err != nil {
		t.Fatalf("failed to set manager: %v", err)
	}
	user.ManagerID = &managerID
	return user
}

// CreateTestBudget creates a monthly draft budget for January 2026 with
// 10000 of revenue and 8000 of expenses.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID string) *models.Budget {
	t.Helper()
	return CreateTestBudgetWithItems(t, db, userID, []models.BudgetItem{
		{Name: "Sales", Type: models.ItemTypeRevenue, Category: "sales", Amount: 10000},
		{Name: "Payroll", Type: models.ItemTypeExpense, Category: "payroll", Amount: 6000},
		{Name: "Rent", Type: models.ItemTypeExpense, Category: "facilities", Amount: 2000},
	})
}

// CreateTestBudgetWithItems creates a monthly draft budget for January 2026
// holding the given items.
func CreateTestBudgetWithItems(t *testing.T, db *gorm.DB, userID string, items []models.BudgetItem) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:     userID,
		Name:       fmt.Sprintf("Test Budget %d", nextID()),
		PeriodType: models.PeriodMonthly,
		StartDate:  Date(2026, time.January, 1),
		EndDate:    Date(2026, time.January, 31),
		Status:     models.BudgetStatusDraft,
		Items:      items,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// SetBudgetStatus forces a budget into the given workflow state.
func SetBudgetStatus(t *testing.T, db *gorm.DB, budget *models.Budget, status models.BudgetStatus) {
	t.Helper()

	if err := db.Model(budget).Update("status", status).Error; err != nil {
		t.Fatalf("failed to set budget status: %v", err)
	}
	budget.Status = status
}

// CreateTestActual records an actual entry against a budget.
func CreateTestActual(t *testing.T, db *gorm.DB, budget *models.Budget, itemType models.ItemType, amount float64, date time.Time) *models.ActualEntry {
	t.Helper()

	entry := &models.ActualEntry{
		BudgetID: budget.ID,
		UserID:   budget.UserID,
		Type:     itemType,
		Category: "general",
		Amount:   amount,
		Date:     date,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test actual: %v", err)
	}
	return entry
}

// CreateTestScenario creates a scenario on a budget.
func CreateTestScenario(t *testing.T, db *gorm.DB, budget *models.Budget, scenarioType models.ScenarioType, revenue, expenses float64) *models.Scenario {
	t.Helper()

	scenario := &models.Scenario{
		BudgetID:      budget.ID,
		UserID:        budget.UserID,
		Name:          fmt.Sprintf("Scenario %d", nextID()),
		ScenarioType:  scenarioType,
		TotalRevenue:  revenue,
		TotalExpenses: expenses,
	}
	if err := db.Create(scenario).Error; err != nil {
		t.Fatalf("failed to create test scenario: %v", err)
	}
	return scenario
}

// CreateTestNotification creates an unread notification.
func CreateTestNotification(t *testing.T, db *gorm.DB, userID, notificationType, title string) *models.Notification {
	t.Helper()

	n := &models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Title:   title,
		Message: title,
	}
	if err := db.Create(n).Error; err != nil {
		t.Fatalf("failed to create test notification: %v", err)
	}
	return n
}

package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "ledgerdesk/internal/errors"
	"ledgerdesk/internal/logger"
	"ledgerdesk/internal/models"
	"ledgerdesk/internal/pagination"
)

// approvalService runs the budget approval workflow:
//
//	draft|rejected -> submitted -> approved|rejected, approved -> active
type approvalService struct {
	db       *gorm.DB
	notifier NotificationServicer
	now      func() time.Time
}

// NewApprovalService creates a new ApprovalServicer.
func NewApprovalService(db *gorm.DB, notifier NotificationServicer) ApprovalServicer {
	return &approvalService{db: db, notifier: notifier, now: time.Now}
}

func budgetURL(budgetID string) string {
	return "/budgets/" + budgetID
}

// notify delivers a workflow notification. Delivery failures are logged and
// never undo the state change.
func (s *approvalService) notify(userID, notificationType, title, message, budgetID string) {
	if _, err := s.notifier.Notify(userID, notificationType, title, message, budgetURL(budgetID)); err != nil {
		logger.Named("approval").Errorw("failed to deliver notification",
			"error", err,
			"user_id", userID,
			"type", notificationType,
			"budget_id", budgetID,
		)
	}
}

// Submit sends an editable budget for approval. The approver is the given
// user, or else the owner's manager.
func (s *approvalService) Submit(userID, budgetID string, approverID *string) (*models.Budget, error) {
	budget, err := findBudget(s.db, budgetID, ownedBy(userID))
	if err != nil {
		return nil, err
	}
	if !budget.Status.Editable() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidStatusTransition, "Only draft or rejected budgets can be submitted")
	}

	approver, err := s.resolveApprover(userID, approverID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updates := map[string]interface{}{
		"status":        models.BudgetStatusSubmitted,
		"approver_id":   approver.ID,
		"submitted_at":  now,
		"decided_at":    nil,
		"decision_note": "",
	}
	if err := s.db.Model(budget).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	budget.Status = models.BudgetStatusSubmitted
	budget.ApproverID = &approver.ID
	budget.SubmittedAt = &now
	budget.DecidedAt = nil
	budget.DecisionNote = ""

	s.notify(approver.ID, models.NotificationApprovalRequest,
		"Budget awaiting approval",
		fmt.Sprintf("%q was submitted for your approval.", budget.Name),
		budget.ID)

	return budget, nil
}

func (s *approvalService) resolveApprover(ownerID string, approverID *string) (*models.User, error) {
	var id string
	switch {
	case approverID != nil && *approverID != "":
		id = *approverID
	default:
		var owner models.User
		if err := s.db.Select("id", "manager_id").Where("id = ?", ownerID).First(&owner).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if owner.ManagerID == nil || *owner.ManagerID == "" {
			return nil, apperrors.ErrApproverRequired
		}
		id = *owner.ManagerID
	}

	if id == ownerID {
		return nil, apperrors.ErrSelfApproval
	}

	var approver models.User
	if err := s.db.Where("id = ? AND is_active = ?", id, true).First(&approver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrUserNotFound, "Approver not found")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &approver, nil
}

// decide records an approval decision by the assigned approver. The lookup
// is scoped to the owner and the approver, so anyone else gets
// BUDGET_NOT_FOUND and learns nothing about the budget.
func (s *approvalService) decide(userID, budgetID, note string, approve bool) (*models.Budget, error) {
	budget, err := findBudget(s.db, budgetID, visibleTo(userID))
	if err != nil {
		return nil, err
	}
	if budget.UserID == userID {
		return nil, apperrors.ErrSelfApproval
	}
	if budget.Status != models.BudgetStatusSubmitted {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidStatusTransition, "Only submitted budgets can be approved or rejected")
	}

	status := models.BudgetStatusRejected
	notificationType := models.NotificationApprovalRejected
	title := "Budget rejected"
	if approve {
		status = models.BudgetStatusApproved
		notificationType = models.NotificationApprovalApproved
		title = "Budget approved"
	}

	now := s.now()
	if err := s.db.Model(budget).Updates(map[string]interface{}{
		"status":        status,
		"decision_note": note,
		"decided_at":    now,
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	budget.Status = status
	budget.DecisionNote = note
	budget.DecidedAt = &now

	message := fmt.Sprintf("%q was %s.", budget.Name, status)
	if note != "" {
		message += " Note: " + note
	}
	s.notify(budget.UserID, notificationType, title, message, budget.ID)

	return budget, nil
}

// Approve moves a submitted budget to approved.
func (s *approvalService) Approve(userID, budgetID, note string) (*models.Budget, error) {
	return s.decide(userID, budgetID, note, true)
}

// Reject sends a submitted budget back to its owner.
func (s *approvalService) Reject(userID, budgetID, note string) (*models.Budget, error) {
	return s.decide(userID, budgetID, note, false)
}

// Activate starts an approved budget. Only the owner may activate it.
func (s *approvalService) Activate(userID, budgetID string) (*models.Budget, error) {
	budget, err := findBudget(s.db, budgetID, ownedBy(userID))
	if err != nil {
		return nil, err
	}
	if budget.Status != models.BudgetStatusApproved {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidStatusTransition, "Only approved budgets can be activated")
	}

	if err := s.db.Model(budget).Update("status", models.BudgetStatusActive).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	budget.Status = models.BudgetStatusActive

	if budget.ApproverID != nil {
		s.notify(*budget.ApproverID, models.NotificationBudgetActivated,
			"Budget activated",
			fmt.Sprintf("%q is now active.", budget.Name),
			budget.ID)
	}
	return budget, nil
}

// ListPending returns budgets waiting on the user's decision, oldest
// submission first.
func (s *approvalService) ListPending(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).
		Where("approver_id = ? AND status = ?", userID, models.BudgetStatusSubmitted)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Preload("Items", preloadItems).Order("submitted_at, id").
		Scopes(pagination.Paginate(page)).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

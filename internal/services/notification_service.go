package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"ledgerdesk/internal/analytics"
	apperrors "ledgerdesk/internal/errors"
	"ledgerdesk/internal/models"
	"ledgerdesk/internal/pagination"
)

// notificationService stores notifications and serves the inbox.
type notificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new NotificationServicer.
func NewNotificationService(db *gorm.DB) NotificationServicer {
	return &notificationService{db: db}
}

// Notify stores a notification for userID.
func (s *notificationService) Notify(userID, notificationType, title, message, actionURL string) (*models.Notification, error) {
	notificationType = strings.TrimSpace(notificationType)
	title = strings.TrimSpace(title)
	if userID == "" || notificationType == "" || title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "user, type and title are required")
	}

	n := &models.Notification{
		UserID:    userID,
		Type:      notificationType,
		Title:     title,
		Message:   message,
		ActionURL: actionURL,
	}
	if err := s.db.Create(n).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	n.Classify()
	return n, nil
}

func notificationSearchFields(n models.Notification) []string {
	return []string{n.Title, n.Message, n.Type}
}

// GetNotifications lists the user's notifications, newest first. Severity is
// derived rather than stored, so filtering happens after loading.
func (s *notificationService) GetNotifications(userID string, filter NotificationFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Notification], error) {
	query := s.db.Where("user_id = ?", userID)
	if filter.Unread {
		query = query.Where("is_read = ?", false)
	}

	var all []models.Notification
	if err := query.Order("created_at DESC, id DESC").Find(&all).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range all {
		all[i].Classify()
	}

	filtered := analytics.FilterItems(all, analytics.Filter[models.Notification]{
		Search:       filter.Search,
		SearchFields: notificationSearchFields,
		Categorical: []analytics.Categorical[models.Notification]{
			{Field: func(n models.Notification) string { return n.Type }, Selected: filter.Type},
			{Field: func(n models.Notification) string { return string(n.Severity) }, Selected: filter.Severity},
		},
	})

	result := pagination.Slice(filtered, page)
	return &result, nil
}

// MarkRead marks one of the user's notifications as read.
func (s *notificationService) MarkRead(userID, notificationID string) (*models.Notification, error) {
	var n models.Notification
	if err := s.db.Where("id = ? AND user_id = ?", notificationID, userID).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !n.IsRead {
		if err := s.db.Model(&n).Update("is_read", true).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	n.IsRead = true
	n.Classify()
	return &n, nil
}

// MarkAllRead marks every unread notification of the user as read and
// returns how many changed.
func (s *notificationService) MarkAllRead(userID string) (int64, error) {
	result := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected, nil
}

// UnreadCount returns the number of unread notifications.
func (s *notificationService) UnreadCount(userID string) (int64, error) {
	var count int64
	if err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count, nil
}

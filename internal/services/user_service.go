package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ledgerdesk/internal/analytics"
	"ledgerdesk/internal/config"
	apperrors "ledgerdesk/internal/errors"
	"ledgerdesk/internal/logger"
	"ledgerdesk/internal/models"
	"ledgerdesk/internal/pagination"
)

// userService handles user-related business logic.
type userService struct {
	db              *gorm.DB
	maxFailedLogins int
	lockout         time.Duration
	now             func() time.Time
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	cfg := config.Get()
	svc := &userService{db: db, maxFailedLogins: 5, lockout: 15 * time.Minute, now: time.Now}
	if cfg.MaxFailedLogins > 0 {
		svc.maxFailedLogins = cfg.MaxFailedLogins
	}
	if cfg.LockoutDur > 0 {
		svc.lockout = cfg.LockoutDur
	}
	return svc
}

// CreateUser registers a new user
func (s *userService) CreateUser(email, password, firstName, lastName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:     email,
		Password:  string(hashedPassword),
		FirstName: firstName,
		LastName:  lastName,
		Role:      models.UserRoleAccountant,
		IsActive:  true,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// GetUserByEmail retrieves an active user by email
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(email)), true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}

// AttemptLogin checks credentials and applies the failed-login lockout.
// Unknown emails and wrong passwords return the same error.
func (s *userService) AttemptLogin(email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	now := s.now()
	if user.LockedUntil != nil && user.LockedUntil.After(now) {
		return nil, apperrors.ErrAccountLocked
	}

	if !s.VerifyPassword(user, password) {
		updates := map[string]interface{}{"failed_login_attempts": user.FailedLoginAttempts + 1}
		if user.FailedLoginAttempts+1 >= s.maxFailedLogins {
			updates["failed_login_attempts"] = 0
			updates["locked_until"] = now.Add(s.lockout)
			logger.Named("auth").Warnw("account locked", "user_id", user.ID, "until", now.Add(s.lockout))
		}
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil, apperrors.ErrInvalidCredentials
	}

	err = s.db.Model(user).Updates(map[string]interface{}{
		"failed_login_attempts": 0,
		"locked_until":          nil,
		"last_login_at":         now,
	}).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

// StoreRefreshTokenHash saves the hash of the user's current refresh token.
func (s *userService) StoreRefreshTokenHash(userID, tokenHash string) error {
	result := s.db.Model(&models.User{}).Where("id = ?", userID).Update("refresh_token_hash", tokenHash)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// GetRefreshTokenHash returns the stored refresh token hash for the user.
func (s *userService) GetRefreshTokenHash(userID string) (string, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return "", err
	}
	return user.RefreshTokenHash, nil
}

// ListUsers returns active users ordered by email.
func (s *userService) ListUsers(page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
	page.Defaults()

	base := s.db.Model(&models.User{}).Where("is_active = ?", true)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var users []models.User
	if err := base.Order("email").Scopes(pagination.Paginate(page)).Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(users, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// SetManager assigns or clears a user's manager. Assignments that would
// make a user report to themselves, directly or through a chain, are
// rejected.
func (s *userService) SetManager(userID string, managerID *string) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if managerID != nil {
		if *managerID == userID {
			return nil, apperrors.ErrSelfManager
		}
		if _, err := s.GetUserByID(*managerID); err != nil {
			return nil, err
		}
		cycle, err := s.reportsTo(*managerID, userID)
		if err != nil {
			return nil, err
		}
		if cycle {
			return nil, apperrors.WithMessage(apperrors.ErrSelfManager, "This assignment would create a reporting cycle")
		}
	}

	if err := s.db.Model(user).Update("manager_id", managerID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	user.ManagerID = managerID
	return user, nil
}

// reportsTo walks the manager chain upward from userID looking for target.
func (s *userService) reportsTo(userID, target string) (bool, error) {
	var users []models.User
	if err := s.db.Select("id", "manager_id").Find(&users).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	managers := make(map[string]string, len(users))
	for _, u := range users {
		if u.ManagerID != nil {
			managers[u.ID] = *u.ManagerID
		}
	}

	seen := make(map[string]bool)
	for current := userID; current != "" && !seen[current]; current = managers[current] {
		if current == target {
			return true, nil
		}
		seen[current] = true
	}
	return false, nil
}

// GetHierarchy returns the reporting tree of all active users.
func (s *userService) GetHierarchy() ([]*analytics.TreeNode, error) {
	var users []models.User
	if err := s.db.Where("is_active = ?", true).Order("id").Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	nodes := make([]analytics.UserNode, 0, len(users))
	for i := range users {
		u := &users[i]
		node := analytics.UserNode{ID: u.ID, Name: u.FullName(), Email: u.Email, Role: string(u.Role)}
		if u.ManagerID != nil {
			node.ManagerID = *u.ManagerID
		}
		nodes = append(nodes, node)
	}
	return analytics.BuildHierarchy(nodes), nil
}

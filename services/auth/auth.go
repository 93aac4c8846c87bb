package auth

import (
	"context"
	"strings"
	"time"

	managerRepo "carental/database/repository/manager"
	"carental/models"
	"carental/services/reservation"
	"carental/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// sessionTTL bounds both the JWT lifetime and the auth-cache entry.
const sessionTTL = 72 * time.Hour

// AuthService authenticates staff and manages their accounts.
type AuthService interface {
	Login(email, password string) (*models.Manager, string, error)
	Logout(managerID string) error
	Profile(managerID string) (*models.Manager, error)
	ChangePassword(managerID, current, next string) error

	// Admin-gated account management.
	CreateManager(email, password, name string, role models.ManagerRole) (*models.Manager, error)
	ListManagers() ([]models.Manager, error)
	UpdateManager(id string, updates map[string]interface{}) (*models.Manager, error)
	DeleteManager(id string) error
}

// DefaultAuthService is the production implementation of AuthService.
type DefaultAuthService struct {
	ManagerRepo managerRepo.ManagerRepository
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login verifies credentials, issues a JWT, and records its hash both on the
// account and in the auth cache so revocation takes effect immediately.
func (s *DefaultAuthService) Login(email, password string) (*models.Manager, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", reservation.NewValidationError("email and password are required")
	}

	manager, err := s.ManagerRepo.GetByEmail(email)
	if err != nil {
		return nil, "", err
	}
	if manager == nil {
		return nil, "", NewAuthError("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(manager.PasswordHash), []byte(password)); err != nil {
		return nil, "", NewAuthError("invalid email or password")
	}

	token, err := utils.GenerateToken(manager.ID, string(manager.Role), sessionTTL)
	if err != nil {
		return nil, "", err
	}
	tokenHash := utils.HashToken(token)

	if err := s.ManagerRepo.Update(manager.ID, map[string]interface{}{"token_hash": tokenHash}); err != nil {
		return nil, "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	cacheKey := utils.AuthCachePrefix + manager.ID
	if err := utils.GetAuthCacheClient().Set(ctx, cacheKey, tokenHash, sessionTTL).Err(); err != nil {
		utils.GetLogger().Warn("Failed to cache session token", zap.String("managerID", manager.ID), zap.Error(err))
	}

	manager.PasswordHash = ""
	manager.TokenHash = ""
	return manager, token, nil
}

// Logout revokes the manager's session everywhere.
func (s *DefaultAuthService) Logout(managerID string) error {
	if err := s.ManagerRepo.Update(managerID, map[string]interface{}{"token_hash": ""}); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := utils.GetAuthCacheClient().Del(ctx, utils.AuthCachePrefix+managerID).Err(); err != nil {
		utils.GetLogger().Warn("Failed to evict session token", zap.String("managerID", managerID), zap.Error(err))
	}
	return nil
}

// Profile returns the manager's own account, sans secrets.
func (s *DefaultAuthService) Profile(managerID string) (*models.Manager, error) {
	manager, err := s.ManagerRepo.GetByID(managerID)
	if err != nil {
		return nil, err
	}
	if manager == nil {
		return nil, &reservation.NotFoundError{Resource: "manager", ID: managerID}
	}
	manager.PasswordHash = ""
	manager.TokenHash = ""
	return manager, nil
}

// ChangePassword rotates the manager's password and revokes the session so
// the new credentials must be used.
func (s *DefaultAuthService) ChangePassword(managerID, current, next string) error {
	if len(next) < 8 {
		return reservation.NewValidationError("new password must be at least 8 characters")
	}

	manager, err := s.ManagerRepo.GetByID(managerID)
	if err != nil {
		return err
	}
	if manager == nil {
		return &reservation.NotFoundError{Resource: "manager", ID: managerID}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(manager.PasswordHash), []byte(current)); err != nil {
		return NewAuthError("current password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.ManagerRepo.Update(managerID, map[string]interface{}{
		"password_hash": string(hashed),
		"token_hash":    "",
	}); err != nil {
		return err
	}
	return s.Logout(managerID)
}

// CreateManager registers a new staff account.
func (s *DefaultAuthService) CreateManager(email, password, name string, role models.ManagerRole) (*models.Manager, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, reservation.NewValidationError("a valid email is required")
	}
	if len(password) < 8 {
		return nil, reservation.NewValidationError("password must be at least 8 characters")
	}
	if role != models.RoleManager && role != models.RoleAdmin {
		return nil, reservation.NewValidationError("unknown role %q", role)
	}

	existing, err := s.ManagerRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, reservation.NewValidationError("a manager with email %s already exists", email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	manager := &models.Manager{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hashed),
		Name:         name,
		Role:         role,
	}
	if err := s.ManagerRepo.Create(manager); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("Manager account created",
		zap.String("managerID", manager.ID),
		zap.String("role", string(manager.Role)))

	manager.PasswordHash = ""
	return manager, nil
}

// ListManagers returns every staff account.
func (s *DefaultAuthService) ListManagers() ([]models.Manager, error) {
	return s.ManagerRepo.GetAll()
}

// UpdateManager edits a staff account's name or role.
func (s *DefaultAuthService) UpdateManager(id string, updates map[string]interface{}) (*models.Manager, error) {
	manager, err := s.ManagerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if manager == nil {
		return nil, &reservation.NotFoundError{Resource: "manager", ID: id}
	}

	filtered := map[string]interface{}{}
	for k, v := range updates {
		switch k {
		case "name":
			filtered[k] = v
		case "role":
			str, _ := v.(string)
			role := models.ManagerRole(str)
			if role != models.RoleManager && role != models.RoleAdmin {
				return nil, reservation.NewValidationError("unknown role %q", str)
			}
			if manager.Role == models.RoleAdmin && role != models.RoleAdmin {
				if err := s.ensureNotLastAdmin(id); err != nil {
					return nil, err
				}
			}
			filtered[k] = role
		default:
			return nil, reservation.NewValidationError("field %q is not editable", k)
		}
	}
	if len(filtered) == 0 {
		return nil, reservation.NewValidationError("no editable fields supplied")
	}

	if err := s.ManagerRepo.Update(id, filtered); err != nil {
		return nil, err
	}
	return s.Profile(id)
}

// DeleteManager removes a staff account, refusing to orphan the system of
// its last administrator.
func (s *DefaultAuthService) DeleteManager(id string) error {
	manager, err := s.ManagerRepo.GetByID(id)
	if err != nil {
		return err
	}
	if manager == nil {
		return &reservation.NotFoundError{Resource: "manager", ID: id}
	}
	if manager.Role == models.RoleAdmin {
		if err := s.ensureNotLastAdmin(id); err != nil {
			return err
		}
	}
	if err := s.ManagerRepo.Delete(id); err != nil {
		return err
	}
	return s.Logout(id)
}

func (s *DefaultAuthService) ensureNotLastAdmin(id string) error {
	admins, err := s.ManagerRepo.CountByRole(models.RoleAdmin)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return reservation.NewInvalidStateError("cannot remove the last administrator")
	}
	return nil
}

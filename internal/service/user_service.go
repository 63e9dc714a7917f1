package service

import (
	"errors"
	"fmt"
	"log"

	"user-auth-backend/internal/apperrors"
	"user-auth-backend/internal/models"
	"user-auth-backend/internal/repository"
	"user-auth-backend/pkg/utils"

	"github.com/google/uuid"
)

// UserService implements account management: signup, admin CRUD and the
// self-service profile operations.
type UserService struct {
	userRepo  *repository.UserRepository
	auditRepo *repository.AuditRepository
	email     *EmailService
}

func NewUserService(userRepo *repository.UserRepository, auditRepo *repository.AuditRepository, email *EmailService) *UserService {
	return &UserService{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		email:     email,
	}
}

// GetByID returns a user or a 404 failure
func (s *UserService) GetByID(id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, apperrors.NotFound("User")
	}
	return user, nil
}

// GetActiveByID returns an active user, 404 if absent, 400 if deactivated
func (s *UserService) GetActiveByID(id uuid.UUID) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.InactiveUser("Inactive user")
	}
	return user, nil
}

// List returns a page of users
func (s *UserService) List(skip, limit int) ([]models.User, error) {
	return s.userRepo.List(skip, limit)
}

// Register creates an account through public signup
func (s *UserService) Register(email, password string) (*models.User, error) {
	return s.createUser(email, password, models.GroupUser, false)
}

// Create creates an account on behalf of an admin. A welcome email is sent
// when the email subsystem is configured.
func (s *UserService) Create(email, password, group string) (*models.User, error) {
	return s.createUser(email, password, group, true)
}

func (s *UserService) createUser(email, password, group string, notify bool) (*models.User, error) {
	existing, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		return nil, apperrors.DuplicatingUser("A user with this email already exists")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:          email,
		HashedPassword: hash,
		UserGroup:      group,
		IsActive:       true,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.DuplicatingUser("A user with this email already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if notify && s.email.Configured() {
		if err := s.email.SendNewAccountEmail(user.Email); err != nil {
			log.Printf("Warning: failed to send new account email to %s: %v", user.Email, err)
		}
	}

	// Audit writes are best effort
	_ = s.auditRepo.CreateAuditLog(&user.ID, models.AuditSignup, fmt.Sprintf("Account %s created", user.Email))

	return user, nil
}

// UpdateMe changes the calling user's email. Collisions with another account
// are a 409.
func (s *UserService) UpdateMe(user *models.User, newEmail string) (*models.User, error) {
	if newEmail != "" && newEmail != user.Email {
		if err := s.checkEmailFree(newEmail, user.ID); err != nil {
			return nil, err
		}
		user.Email = newEmail
	}

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.DuplicatingUserConflict("User with this email already exists")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// UpdatePasswordMe changes the calling user's password after verifying the
// current one. The new password must differ.
func (s *UserService) UpdatePasswordMe(user *models.User, currentPassword, newPassword string) (*models.User, error) {
	if !utils.ComparePassword(user.HashedPassword, currentPassword) {
		return nil, apperrors.InvalidPassword("Incorrect password")
	}
	if currentPassword == newPassword {
		return nil, apperrors.InvalidPassword("The new password cannot be the same as the current one")
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hash

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}
	return user, nil
}

// DeleteMe disables the calling user's account. Admins may not delete
// themselves.
func (s *UserService) DeleteMe(user *models.User) error {
	if user.UserGroup == models.GroupAdmin {
		return apperrors.ForbiddenAction("Admins are not allowed to delete themselves")
	}
	if err := s.userRepo.Disable(user); err != nil {
		return fmt.Errorf("failed to disable user: %w", err)
	}

	_ = s.auditRepo.CreateAuditLog(&user.ID, models.AuditAccountDisable, "Account disabled by owner")
	return nil
}

// UpdateByID applies an admin update to another account
func (s *UserService) UpdateByID(id uuid.UUID, email, password, group string) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if email != "" && email != user.Email {
		if err := s.checkEmailFree(email, user.ID); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if password != "" {
		hash, err := utils.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.HashedPassword = hash
	}
	if group != "" {
		user.UserGroup = group
	}

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.DuplicatingUserConflict("User with this email already exists")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteByID disables another account. The caller may not target itself:
// admin self-deletion stays forbidden no matter which route is used.
func (s *UserService) DeleteByID(caller *models.User, id uuid.UUID) error {
	target, err := s.GetActiveByID(id)
	if err != nil {
		return err
	}
	if target.ID == caller.ID {
		return apperrors.ForbiddenAction("Admins are not allowed to delete themselves")
	}
	if err := s.userRepo.Disable(target); err != nil {
		return fmt.Errorf("failed to disable user: %w", err)
	}

	_ = s.auditRepo.CreateAuditLog(&target.ID, models.AuditAccountDisable, fmt.Sprintf("Account disabled by admin %s", caller.Email))
	return nil
}

func (s *UserService) checkEmailFree(email string, selfID uuid.UUID) error {
	existing, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil && existing.ID != selfID {
		return apperrors.DuplicatingUserConflict("User with this email already exists")
	}
	return nil
}

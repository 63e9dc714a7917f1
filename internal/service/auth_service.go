package service

import (
	"fmt"

	"user-auth-backend/internal/apperrors"
	"user-auth-backend/internal/models"
	"user-auth-backend/internal/repository"
	"user-auth-backend/pkg/token"
	"user-auth-backend/pkg/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxRefreshTokensPerUser is the login-time cap. Reaching it is treated as a
// theft signal: the next login revokes every outstanding session first. The
// cap is checked only at login; serial refreshes can exceed it until then.
const maxRefreshTokensPerUser = 5

// AuthService implements the token rotation protocol: login, refresh and
// logout, plus the password recovery flow.
type AuthService struct {
	db        *gorm.DB
	userRepo  *repository.UserRepository
	tokenRepo *repository.TokenRepository
	auditRepo *repository.AuditRepository
	codec     *token.Codec
	email     *EmailService
}

func NewAuthService(db *gorm.DB, userRepo *repository.UserRepository, tokenRepo *repository.TokenRepository, auditRepo *repository.AuditRepository, codec *token.Codec, email *EmailService) *AuthService {
	return &AuthService{
		db:        db,
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		auditRepo: auditRepo,
		codec:     codec,
		email:     email,
	}
}

// mintPair creates an access/refresh pair for a user and persists the
// refresh token through the given repository
func (s *AuthService) mintPair(tokenRepo *repository.TokenRepository, userID uuid.UUID) (*models.Tokens, error) {
	refreshToken, err := s.codec.CreateRefreshToken(userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh token: %w", err)
	}
	if _, err := tokenRepo.Create(userID, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	accessToken, err := s.codec.CreateAccessToken(userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	pair := models.NewTokens(accessToken, refreshToken)
	return &pair, nil
}

// Login verifies credentials and issues a token pair. Absent user, inactive
// user and password mismatch all produce the same failure so that callers
// cannot enumerate accounts.
func (s *AuthService) Login(email, password string) (*models.Tokens, error) {
	var pair *models.Tokens

	err := s.db.Transaction(func(tx *gorm.DB) error {
		userRepo := s.userRepo.WithTx(tx)
		tokenRepo := s.tokenRepo.WithTx(tx)
		auditRepo := s.auditRepo.WithTx(tx)

		user, err := userRepo.FindByEmail(email)
		if err != nil {
			return fmt.Errorf("failed to look up user: %w", err)
		}
		if user == nil || !user.IsActive || !utils.ComparePassword(user.HashedPassword, password) {
			return apperrors.InvalidCredentials("Incorrect email or password")
		}

		// A login from the legitimate owner revokes every outstanding
		// session once the cap is reached
		tokens, err := tokenRepo.FindAllByUser(user.ID)
		if err != nil {
			return fmt.Errorf("failed to list refresh tokens: %w", err)
		}
		if len(tokens) >= maxRefreshTokensPerUser {
			if err := tokenRepo.DeleteAllForUser(user.ID); err != nil {
				return fmt.Errorf("failed to evict refresh tokens: %w", err)
			}
		}

		pair, err = s.mintPair(tokenRepo, user.ID)
		if err != nil {
			return err
		}

		// Audit writes are best effort
		_ = auditRepo.CreateAuditLog(&user.ID, models.AuditLogin, fmt.Sprintf("User %s logged in", user.Email))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Refresh exchanges a refresh token for a new pair. The store is the sole
// authority for validity: a token that decodes fine but is absent from the
// store has already been consumed or stolen, and every session of its
// subject is revoked.
func (s *AuthService) Refresh(tokenString string) (*models.Tokens, error) {
	var pair *models.Tokens
	// The theft branch must commit its revocation and still fail the call,
	// so its error is carried past the transaction instead of returned
	// from inside it, which would roll the deletes back.
	var rejection *apperrors.Error

	err := s.db.Transaction(func(tx *gorm.DB) error {
		tokenRepo := s.tokenRepo.WithTx(tx)
		auditRepo := s.auditRepo.WithTx(tx)

		record, err := tokenRepo.FindByToken(tokenString)
		if err != nil {
			return fmt.Errorf("failed to look up refresh token: %w", err)
		}

		if record == nil {
			rejection, err = s.revokeOrphan(tokenRepo, auditRepo, tokenString)
			return err
		}

		// Single-use enforcement: the matched token is consumed before
		// its replacement is minted
		if err := tokenRepo.Delete(record); err != nil {
			return fmt.Errorf("failed to consume refresh token: %w", err)
		}

		payload, err := s.codec.VerifyRefreshToken(tokenString)
		if err != nil {
			return apperrors.InvalidBearerToken("Could not validate credentials", err)
		}
		userID, err := uuid.Parse(payload.Sub)
		if err != nil {
			return apperrors.InvalidBearerToken("Could not validate credentials", err)
		}

		pair, err = s.mintPair(tokenRepo, userID)
		if err != nil {
			return err
		}

		_ = auditRepo.CreateAuditLog(&userID, models.AuditRefresh, "Refresh token rotated")
		return nil
	})
	if err != nil {
		return nil, err
	}
	if rejection != nil {
		return nil, rejection
	}
	return pair, nil
}

// revokeOrphan handles a refresh token that is not in the store. If it still
// decodes, it was rotated away earlier and is being replayed, so the working
// hypothesis is theft and the subject loses every live session. Decode
// failure alone is not a theft signal since no subject can be extracted. The
// returned rejection is surfaced after the transaction commits.
func (s *AuthService) revokeOrphan(tokenRepo *repository.TokenRepository, auditRepo *repository.AuditRepository, tokenString string) (*apperrors.Error, error) {
	payload, err := s.codec.VerifyRefreshToken(tokenString)
	if err != nil {
		return apperrors.InvalidBearerToken("Invalid refresh token", err), nil
	}

	userID, err := uuid.Parse(payload.Sub)
	if err != nil {
		return apperrors.InvalidBearerToken("Invalid refresh token", err), nil
	}

	if err := tokenRepo.DeleteAllForUser(userID); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}

	_ = auditRepo.CreateAuditLog(&userID, models.AuditTheftRevoke, "Replayed refresh token, all sessions revoked")
	return apperrors.InvalidBearerToken("Invalid refresh token", nil), nil
}

// Logout deletes the matching refresh token. Absence is not an error.
func (s *AuthService) Logout(tokenString string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		tokenRepo := s.tokenRepo.WithTx(tx)
		auditRepo := s.auditRepo.WithTx(tx)

		record, err := tokenRepo.FindByToken(tokenString)
		if err != nil {
			return fmt.Errorf("failed to look up refresh token: %w", err)
		}
		if record == nil {
			return nil
		}
		if err := tokenRepo.Delete(record); err != nil {
			return err
		}

		_ = auditRepo.CreateAuditLog(&record.UserID, models.AuditLogout, "User logged out")
		return nil
	})
}

// RecoverPassword emails a password reset token to an active account
func (s *AuthService) RecoverPassword(email string) error {
	user, err := s.getActiveUserByEmail(email)
	if err != nil {
		return err
	}

	resetToken, err := s.codec.CreatePasswordResetToken(user.Email)
	if err != nil {
		return fmt.Errorf("failed to create password reset token: %w", err)
	}

	return s.email.SendPasswordResetEmail(user.Email, resetToken)
}

// ResetPassword sets a new password for the account named by a valid reset
// token
func (s *AuthService) ResetPassword(tokenString, newPassword string) error {
	email, err := s.codec.VerifyPasswordResetToken(tokenString)
	if err != nil {
		return apperrors.InvalidToken("Invalid password reset token", err)
	}

	user, err := s.getActiveUserByEmail(email)
	if err != nil {
		return err
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hash

	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	_ = s.auditRepo.CreateAuditLog(&user.ID, models.AuditPasswordReset, "Password reset through recovery token")
	return nil
}

func (s *AuthService) getActiveUserByEmail(email string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, apperrors.NotFound("User")
	}
	if !user.IsActive {
		return nil, apperrors.InactiveUser("Inactive user")
	}
	return user, nil
}

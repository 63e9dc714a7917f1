package repository

import (
	"errors"

	"user-auth-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicateToken is returned when the unique refresh_token constraint is
// violated. Collisions are astronomically unlikely but must not be silent.
var ErrDuplicateToken = errors.New("refresh token already exists")

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepo(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *TokenRepository) WithTx(tx *gorm.DB) *TokenRepository {
	return &TokenRepository{db: tx}
}

// Create inserts a refresh token record for a user
func (r *TokenRepository) Create(userID uuid.UUID, tokenString string) (*models.RefreshToken, error) {
	record := &models.RefreshToken{
		RefreshToken: tokenString,
		UserID:       userID,
	}
	if err := r.db.Create(record).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateToken
		}
		return nil, err
	}
	return record, nil
}

// locked adds a FOR UPDATE clause inside rotation transactions. SQLite
// serializes writers on its own and rejects the syntax, so it is skipped.
func (r *TokenRepository) locked() *gorm.DB {
	if r.db.Dialector.Name() == "sqlite" {
		return r.db
	}
	return r.db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// FindByToken looks up a refresh token by its string value, nil if absent.
// Inside a transaction the matched row is locked until commit so that two
// concurrent refreshes of the same token serialize: the loser observes the
// row as gone.
func (r *TokenRepository) FindByToken(tokenString string) (*models.RefreshToken, error) {
	var record models.RefreshToken
	err := r.locked().
		Where("refresh_token = ?", tokenString).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// FindAllByUser returns every live refresh token owned by a user
func (r *TokenRepository) FindAllByUser(userID uuid.UUID) ([]models.RefreshToken, error) {
	var records []models.RefreshToken
	err := r.locked().
		Where("user_id = ?", userID).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CountByUser returns the number of live refresh tokens owned by a user
func (r *TokenRepository) CountByUser(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.RefreshToken{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// Delete removes a refresh token record. Removal is idempotent.
func (r *TokenRepository) Delete(record *models.RefreshToken) error {
	return r.db.Delete(record).Error
}

// DeleteAllForUser removes every refresh token owned by a user
func (r *TokenRepository) DeleteAllForUser(userID uuid.UUID) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error
}

package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RefreshToken represents the refresh_token table. A row's presence is the
// sole authority for refresh validity: rotation deletes the consumed row and
// inserts the replacement.
type RefreshToken struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	RefreshToken string    `gorm:"uniqueIndex;not null;size:512" json:"refresh_token"`
	UserID       uuid.UUID `gorm:"type:char(36);not null;index" json:"user_id"`
}

// TableName specifies the table name for RefreshToken model
func (RefreshToken) TableName() string {
	return "refresh_token"
}

// BeforeCreate assigns a UUID primary key
func (t *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Tokens is the response body returned by login and refresh
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// NewTokens builds the standard bearer token pair response
func NewTokens(accessToken, refreshToken string) Tokens {
	return Tokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}
}

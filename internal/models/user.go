package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User groups used for access control
const (
	GroupUser  = "USER"
	GroupAdmin = "ADMIN"
)

// User represents the user table
type User struct {
	ID             uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	Email          string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	HashedPassword string         `gorm:"not null;size:255" json:"-"`
	UserGroup      string         `gorm:"size:20;default:'USER'" json:"user_group"`
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	Created        time.Time      `gorm:"autoCreateTime" json:"created"`
	Updated        time.Time      `gorm:"autoUpdateTime" json:"updated"`
	Tokens         []RefreshToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "user"
}

// BeforeCreate assigns a UUID primary key
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserPublic is the API representation of a user
type UserPublic struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	UserGroup string    `json:"user_group"`
	IsActive  bool      `json:"is_active"`
	Created   time.Time `json:"created"`
	Updated   time.Time `json:"updated"`
}

// UsersPublic wraps a list of users
type UsersPublic struct {
	Users []UserPublic `json:"users"`
}

// Public converts a user row to its API representation
func (u *User) Public() UserPublic {
	return UserPublic{
		ID:        u.ID,
		Email:     u.Email,
		UserGroup: u.UserGroup,
		IsActive:  u.IsActive,
		Created:   u.Created,
		Updated:   u.Updated,
	}
}

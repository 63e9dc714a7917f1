package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions recorded by the auth flows
const (
	AuditLogin          = "user_login"
	AuditRefresh        = "token_refresh"
	AuditTheftRevoke    = "token_theft_revocation"
	AuditLogout         = "user_logout"
	AuditPasswordReset  = "password_reset"
	AuditSignup         = "user_signup"
	AuditAccountDisable = "account_disable"
)

// AuditLog represents the audit_log table
// Used for security tracking of authentication events
type AuditLog struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    *uuid.UUID `gorm:"type:char(36);index" json:"user_id"`
	Action    string     `gorm:"size:100;not null" json:"action"`
	Details   string     `gorm:"type:text" json:"details"`
	CreatedAt time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName specifies the table name for AuditLog model
func (AuditLog) TableName() string {
	return "audit_log"
}

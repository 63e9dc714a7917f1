package database

import (
	"errors"
	"log"

	"user-auth-backend/internal/config"
	"user-auth-backend/internal/models"
	"user-auth-backend/pkg/utils"

	"gorm.io/gorm"
)

// Seed creates the admin account and a demo user if they do not exist yet
func Seed(db *gorm.DB, cfg *config.Config) {
	seedUser(db, cfg.Admin.Email, cfg.Admin.Password, models.GroupAdmin)
	seedUser(db, "user@email.com", "user1234", models.GroupUser)
}

func seedUser(db *gorm.DB, email, password, group string) {
	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to look up seed user %s: %v", email, err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	user := &models.User{
		Email:          email,
		HashedPassword: hash,
		UserGroup:      group,
		IsActive:       true,
	}
	if err := db.Create(user).Error; err != nil {
		log.Fatalf("Failed to create seed user %s: %v", email, err)
	}
	log.Printf("Seeded %s account %s", group, email)
}

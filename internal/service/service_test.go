package service

import (
	"path/filepath"
	"testing"
	"time"

	"user-auth-backend/internal/config"
	"user-auth-backend/internal/models"
	"user-auth-backend/internal/repository"
	"user-auth-backend/pkg/token"
	"user-auth-backend/pkg/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db        *gorm.DB
	codec     *token.Codec
	userRepo  *repository.UserRepository
	tokenRepo *repository.TokenRepository
	auth      *AuthService
	users     *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Every pooled connection of an in-memory SQLite DSN is a separate
	// database, so the pool must stay at one
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	return newEnvWithDB(t, db)
}

// newFileTestEnv backs the store with an on-disk database so that multiple
// connections observe the same data, which tests driving concurrent
// transactions need. Transactions take the write lock up front and queue on
// the busy timeout instead of failing.
func newFileTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "service_test.db") +
		"?_busy_timeout=5000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return newEnvWithDB(t, db)
}

func newEnvWithDB(t *testing.T, db *gorm.DB) *testEnv {
	t.Helper()

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RefreshToken{}, &models.AuditLog{}))

	cfg := &config.Config{}
	cfg.Project.Name = "User Auth Backend Test"
	cfg.Project.FrontendHost = "http://localhost:5173"
	cfg.JWT.ResetTokenExpiry = 24 * time.Hour

	codec := token.NewCodec(
		"access-test-key", "refresh-test-key", "reset-test-key",
		20*time.Minute, 7*24*time.Hour, 24*time.Hour,
	)

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	emailService := NewEmailService(cfg)
	userService := NewUserService(userRepo, auditRepo, emailService)
	authService := NewAuthService(db, userRepo, tokenRepo, auditRepo, codec, emailService)

	return &testEnv{
		db:        db,
		codec:     codec,
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		auth:      authService,
		users:     userService,
	}
}

func (e *testEnv) createUser(t *testing.T, email, password, group string, active bool) *models.User {
	t.Helper()

	hash, err := utils.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		Email:          email,
		HashedPassword: hash,
		UserGroup:      group,
		IsActive:       active,
	}
	require.NoError(t, e.userRepo.Create(user))
	return user
}

func (e *testEnv) tokenCount(t *testing.T, user *models.User) int64 {
	t.Helper()

	count, err := e.tokenRepo.CountByUser(user.ID)
	require.NoError(t, err)
	return count
}

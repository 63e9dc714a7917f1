package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"user-auth-backend/internal/config"
	"user-auth-backend/internal/models"
	"user-auth-backend/internal/repository"
	"user-auth-backend/internal/service"
	"user-auth-backend/pkg/token"
	"user-auth-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type apiEnv struct {
	router    *gin.Engine
	db        *gorm.DB
	codec     *token.Codec
	userRepo  *repository.UserRepository
	tokenRepo *repository.TokenRepository
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Every pooled connection of an in-memory SQLite DSN is a separate
	// database, so the pool must stay at one
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RefreshToken{}, &models.AuditLog{}))

	cfg := &config.Config{}
	cfg.Project.Name = "User Auth Backend Test"
	cfg.Project.FrontendHost = "http://localhost:5173"
	cfg.Server.GinMode = gin.TestMode
	cfg.JWT.ResetTokenExpiry = 24 * time.Hour

	codec := token.NewCodec(
		"access-test-key", "refresh-test-key", "reset-test-key",
		20*time.Minute, 7*24*time.Hour, 24*time.Hour,
	)

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	emailService := service.NewEmailService(cfg)
	userService := service.NewUserService(userRepo, auditRepo, emailService)
	authService := service.NewAuthService(db, userRepo, tokenRepo, auditRepo, codec, emailService)

	return &apiEnv{
		router:    NewRouter(cfg, codec, authService, userService, emailService),
		db:        db,
		codec:     codec,
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
	}
}

func (e *apiEnv) createUser(t *testing.T, email, password, group string, active bool) *models.User {
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

func (e *apiEnv) accessTokenFor(t *testing.T, user *models.User) string {
	t.Helper()

	accessToken, err := e.codec.CreateAccessToken(user.ID.String())
	require.NoError(t, err)
	return accessToken
}

func (e *apiEnv) do(t *testing.T, method, path string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *apiEnv) postForm(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	return e.do(t, http.MethodPost, path, strings.NewReader(form.Encode()), map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
	})
}

func (e *apiEnv) postJSON(t *testing.T, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	if headers == nil {
		headers = map[string]string{}
	}
	headers["Content-Type"] = "application/json"
	return e.do(t, http.MethodPost, path, strings.NewReader(body), headers)
}

func (e *apiEnv) login(t *testing.T, email, password string) models.Tokens {
	t.Helper()

	w := e.postForm(t, "/api/v1/login", url.Values{
		"username": {email},
		"password": {password},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var tokens models.Tokens
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokens))
	return tokens
}

func jsonBody(body string) io.Reader {
	return strings.NewReader(body)
}

func (e *apiEnv) tokenCount(t *testing.T, user *models.User) int64 {
	t.Helper()

	count, err := e.tokenRepo.CountByUser(user.ID)
	require.NoError(t, err)
	return count
}

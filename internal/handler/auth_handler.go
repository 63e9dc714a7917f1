package handler

import (
	"net/http"

	"user-auth-backend/internal/apperrors"
	"user-auth-backend/internal/service"
	"user-auth-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// LoginRequest is the OAuth2 password form: username carries the email
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=40"`
}

// Login handles credential verification and issues a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	tokens, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}

	utils.SuccessResponse(c, tokens)
}

// Refresh rotates the refresh token presented in the X-Token header
func (h *AuthHandler) Refresh(c *gin.Context) {
	tokenString := c.GetHeader("X-Token")
	if tokenString == "" {
		utils.AbortWithError(c, apperrors.InvalidBearerToken("Invalid refresh token", nil))
		return
	}

	tokens, err := h.authService.Refresh(tokenString)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}

	utils.SuccessResponse(c, tokens)
}

// Logout deletes the presented refresh token. Succeeds regardless of prior
// state.
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenString := c.GetHeader("X-Token")
	if tokenString != "" {
		if err := h.authService.Logout(tokenString); err != nil {
			utils.AbortWithError(c, err)
			return
		}
	}

	utils.MessageResponse(c, "Logout successful")
}

// RecoverPassword emails a password reset token to the given address
func (h *AuthHandler) RecoverPassword(c *gin.Context) {
	email := c.Param("email")

	if err := h.authService.RecoverPassword(email); err != nil {
		utils.AbortWithError(c, err)
		return
	}

	utils.MessageResponse(c, "Password recovery email sent")
}

// ResetPassword sets a new password using a reset token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.authService.ResetPassword(req.Token, req.NewPassword); err != nil {
		utils.AbortWithError(c, err)
		return
	}

	utils.MessageResponse(c, "Password updated successfully")
}

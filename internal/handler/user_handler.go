package handler

import (
	"net/http"
	"strconv"

	"user-auth-backend/internal/middleware"
	"user-auth-backend/internal/models"
	"user-auth-backend/internal/service"
	"user-auth-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=40"`
}

type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email,max=255"`
	Password  string `json:"password" binding:"required,min=8,max=40"`
	UserGroup string `json:"user_group" binding:"omitempty,oneof=USER ADMIN"`
}

type UpdateUserRequest struct {
	Email     string `json:"email" binding:"omitempty,email,max=255"`
	Password  string `json:"password" binding:"omitempty,min=8,max=40"`
	UserGroup string `json:"user_group" binding:"omitempty,oneof=USER ADMIN"`
}

type UpdateMeRequest struct {
	Email string `json:"email" binding:"omitempty,email,max=255"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required,min=8,max=40"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=40"`
}

// Register handles public signup
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.Register(req.Email, req.Password)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}

	utils.SuccessResponse(c, user.Public())
}

// List returns a page of users. Admin only.
func (h *UserHandler) List(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	users, err := h.userService.List(skip, limit)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}

	publicUsers := make([]models.UserPublic, 0, len(users))
	for i := range users {
		publicUsers = append(publicUsers, users[i].Public())
	}
	utils.SuccessResponse(c, models.UsersPublic{Users: publicUsers})
}

// Create creates an account on behalf of an admin
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserGroup == "" {
		req.UserGroup = models.GroupUser
	}

	user, err := h.userService.Create(req.Email, req.Password, req.UserGroup)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}

	utils.SuccessResponse(c, user.Public())
}

// GetMe returns the calling user
func (h *UserHandler) GetMe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	utils.SuccessResponse(c, user.Public())
}

// UpdateMe changes the calling user's email
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateMe(middleware.CurrentUser(c), req.Email)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}

	utils.SuccessResponse(c, user.Public())
}

// UpdatePasswordMe changes the calling user's password
func (h *UserHandler) UpdatePasswordMe(c *gin.Context) {
	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.UpdatePasswordMe(middleware.CurrentUser(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}

	utils.SuccessResponse(c, user.Public())
}

// DeleteMe disables the calling user's account
func (h *UserHandler) DeleteMe(c *gin.Context) {
	if err := h.userService.DeleteMe(middleware.CurrentUser(c)); err != nil {
		utils.AbortWithError(c, err)
		return
	}

	utils.MessageResponse(c, "User deleted successfully")
}

// GetByID returns a user by id. Admin only.
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	user, err := h.userService.GetByID(id)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}

	utils.SuccessResponse(c, user.Public())
}

// UpdateByID applies an admin update to another account
func (h *UserHandler) UpdateByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateByID(id, req.Email, req.Password, req.UserGroup)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}

	utils.SuccessResponse(c, user.Public())
}

// DeleteByID disables another account. Admin only; self-deletion is blocked.
func (h *UserHandler) DeleteByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	if err := h.userService.DeleteByID(middleware.CurrentUser(c), id); err != nil {
		utils.AbortWithError(c, err)
		return
	}

	utils.MessageResponse(c, "User deleted successfully")
}

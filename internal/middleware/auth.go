package middleware

import (
	"strings"

	"user-auth-backend/internal/apperrors"
	"user-auth-backend/internal/models"
	"user-auth-backend/internal/service"
	"user-auth-backend/pkg/token"
	"user-auth-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const currentUserKey = "currentUser"

// Auth validates the Bearer access token and loads the subject user into the
// request context. Token failures are a 403 with a Bearer challenge; a valid
// token naming a missing user is a 404; a deactivated account is a 400.
func Auth(codec *token.Codec, users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.AbortWithError(c, apperrors.InvalidBearerToken("Could not validate credentials", nil))
			return
		}

		payload, err := codec.VerifyAccessToken(parts[1])
		if err != nil {
			utils.AbortWithError(c, apperrors.InvalidBearerToken("Could not validate credentials", err))
			return
		}

		userID, err := uuid.Parse(payload.Sub)
		if err != nil {
			utils.AbortWithError(c, apperrors.InvalidBearerToken("Could not validate credentials", err))
			return
		}

		user, err := users.GetActiveByID(userID)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user loaded by Auth
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil
	}
	return value.(*models.User)
}

// RequireGroups checks the authenticated user's group against an explicit
// allowed set declared per route
func RequireGroups(groups ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			utils.AbortWithError(c, apperrors.InvalidBearerToken("Could not validate credentials", nil))
			return
		}

		for _, group := range groups {
			if user.UserGroup == group {
				c.Next()
				return
			}
		}
		utils.AbortWithError(c, apperrors.NotEnoughPrivileges("User does not have enough privileges"))
	}
}

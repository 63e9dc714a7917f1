package handler

import (
	"user-auth-backend/internal/service"
	"user-auth-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type UtilsHandler struct {
	emailService *service.EmailService
}

func NewUtilsHandler(emailService *service.EmailService) *UtilsHandler {
	return &UtilsHandler{
		emailService: emailService,
	}
}

// SendTestEmail mails a test message to verify the SMTP settings. Admin only.
func (h *UtilsHandler) SendTestEmail(c *gin.Context) {
	if err := h.emailService.SendTestEmail(c.Param("email")); err != nil {
		utils.AbortWithError(c, err)
		return
	}

	utils.MessageResponse(c, "Test email sent")
}

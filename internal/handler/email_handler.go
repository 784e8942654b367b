package handler

import (
	"net/http"

	"Lin_BookClub/internal/pkg"
	"Lin_BookClub/internal/service"

	"github.com/gin-gonic/gin"
)

type EmailHandler struct {
	svc *service.EmailService
}

func NewEmailHandler(cfg pkg.SMTPConfig) *EmailHandler {
	return &EmailHandler{
		svc: service.NewEmailService(cfg),
	}
}

// SendCode 发送验证码，:scope 为 register 或 reset
func (h *EmailHandler) SendCode(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": pkg.KindValidation, "msg": "invalid params"})
		return
	}

	if err := h.svc.SendCode(c.Param("scope"), req.Email); err != nil {
		pkg.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "code sent"})
}

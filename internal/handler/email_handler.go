package handler

import (
	"net/http"

	"Tabletop_Community/internal/pkg"
	"Tabletop_Community/internal/service"

	"github.com/gin-gonic/gin"
)

type EmailHandler struct {
	svc *service.EmailService
}

type SendCodeReq struct {
	Email string `json:"email" binding:"required,email"`
}

func NewEmailHandler(cfg pkg.SMTPConfig) *EmailHandler {
	return &EmailHandler{svc: service.NewEmailService(cfg)}
}

// SendCode 发送验证码，scope 为 register / reset
func (h *EmailHandler) SendCode(c *gin.Context) {
	var req SendCodeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.SendCode(c.Param("scope"), req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "send code successfully"})
}

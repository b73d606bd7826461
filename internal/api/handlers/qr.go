package handlers

import (
	"errors"
	"net/http"

	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/qr"

	"github.com/gin-gonic/gin"
)

type QRHandler struct {
	defaultBaseURL string
}

func NewQRHandler(defaultBaseURL string) *QRHandler {
	return &QRHandler{defaultBaseURL: defaultBaseURL}
}

type qrRequest struct {
	UserID  uint   `json:"user_id" binding:"required"`
	BaseURL string `json:"base_url"`
}

// GenerateLoginCode streams a PNG QR code pointing at the qr-login endpoint
// for the given user.
func (h *QRHandler) GenerateLoginCode(c *gin.Context) {
	var req qrRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	baseURL := req.BaseURL
	if baseURL == "" {
		baseURL = h.defaultBaseURL
	}

	png, err := qr.Generate(qr.LoginURL(baseURL, req.UserID))
	if err != nil {
		if errors.Is(err, qr.ErrEmptyData) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate qr code"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

package handlers

import (
	"strings"

	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/websocket"

	"github.com/gin-gonic/gin"
)

type WSHandler struct {
	gateway *websocket.Gateway
}

func NewWSHandler(gateway *websocket.Gateway) *WSHandler {
	return &WSHandler{gateway: gateway}
}

// HandleUserWS upgrades a user connection: /api/v1/ws?token=...
func (h *WSHandler) HandleUserWS(c *gin.Context) {
	h.gateway.ServeUser(c.Writer, c.Request, credentialFrom(c))
}

// HandleAdminWS upgrades an admin connection: /api/v1/ws/admin?token=...
func (h *WSHandler) HandleAdminWS(c *gin.Context) {
	h.gateway.ServeAdmin(c.Writer, c.Request, credentialFrom(c))
}

// credentialFrom accepts the token either as a query parameter (browser
// WebSocket clients cannot set headers) or as a bearer header.
func credentialFrom(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	return strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
}

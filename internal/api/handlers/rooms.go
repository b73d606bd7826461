package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/relay"
	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/services"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService *services.ChatService
}

func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// GetActiveRooms lists active rooms with unread counts.
func (h *ChatHandler) GetActiveRooms(c *gin.Context) {
	rooms, err := h.chatService.ActiveRooms(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rooms"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// GetRoomMessages returns a room's recent messages oldest first.
func (h *ChatHandler) GetRoomMessages(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	messages, err := h.chatService.RoomMessages(c.Request.Context(), uint(roomID), limit)
	if err != nil {
		if errors.Is(err, relay.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// MarkRoomRead flips the room's unread user messages. Safe to repeat.
func (h *ChatHandler) MarkRoomRead(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	if err := h.chatService.MarkRead(c.Request.Context(), uint(roomID)); err != nil {
		if errors.Is(err, relay.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark room read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

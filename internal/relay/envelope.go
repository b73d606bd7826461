package relay

import (
	"encoding/json"
	"time"

	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/models"
)

// EventType identifies an outbound frame.
type EventType string

const (
	EventHistory          EventType = "history"
	EventUserConnected    EventType = "user_connected"
	EventUserDisconnected EventType = "user_disconnected"
	EventUserMessage      EventType = "user_message"
	EventAdminMessage     EventType = "admin_message"
	EventAdminResponse    EventType = "admin_response"
	EventActiveRooms      EventType = "active_rooms"
)

// InboundFrame is the envelope clients send. Users send {type, message};
// admins additionally address a room with room_id.
type InboundFrame struct {
	Type    string `json:"type"`
	RoomID  uint   `json:"room_id,omitempty"`
	Message string `json:"message"`
}

// ParseInbound decodes a raw frame. A frame that is not the expected
// envelope shape is reported with ok=false and gets dropped by the session.
func ParseInbound(data []byte) (InboundFrame, bool) {
	var frame InboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return InboundFrame{}, false
	}
	if frame.Type != "message" {
		return InboundFrame{}, false
	}
	return frame, true
}

type presenceEvent struct {
	Type        EventType `json:"type"`
	UserID      uint      `json:"user_id"`
	DisplayName string    `json:"display_name,omitempty"`
	RoomID      uint      `json:"room_id"`
}

type chatEvent struct {
	Type        EventType `json:"type"`
	MessageID   uint      `json:"message_id"`
	RoomID      uint      `json:"room_id"`
	SenderID    uint      `json:"sender_id"`
	DisplayName string    `json:"display_name"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

type historyEvent struct {
	Type     EventType        `json:"type"`
	RoomID   uint             `json:"room_id"`
	Messages []models.Message `json:"messages"`
}

type activeRoomsEvent struct {
	Type  EventType            `json:"type"`
	Rooms []models.RoomSummary `json:"rooms"`
}

func newUserConnectedFrame(identity models.Identity, roomID uint) []byte {
	return marshalFrame(presenceEvent{
		Type:        EventUserConnected,
		UserID:      identity.ID,
		DisplayName: identity.DisplayName,
		RoomID:      roomID,
	})
}

func newUserDisconnectedFrame(identity models.Identity, roomID uint) []byte {
	return marshalFrame(presenceEvent{
		Type:   EventUserDisconnected,
		UserID: identity.ID,
		RoomID: roomID,
	})
}

func newChatFrame(event EventType, sender models.Identity, msg *models.Message) []byte {
	return marshalFrame(chatEvent{
		Type:        event,
		MessageID:   msg.ID,
		RoomID:      msg.RoomID,
		SenderID:    msg.SenderID,
		DisplayName: sender.DisplayName,
		Message:     msg.Body,
		CreatedAt:   msg.CreatedAt,
	})
}

func newHistoryFrame(roomID uint, messages []models.Message) []byte {
	if messages == nil {
		messages = []models.Message{}
	}
	return marshalFrame(historyEvent{
		Type:     EventHistory,
		RoomID:   roomID,
		Messages: messages,
	})
}

func newActiveRoomsFrame(rooms []models.RoomSummary) []byte {
	if rooms == nil {
		rooms = []models.RoomSummary{}
	}
	return marshalFrame(activeRoomsEvent{
		Type:  EventActiveRooms,
		Rooms: rooms,
	})
}

// marshalFrame never fails for the fixed frame shapes above.
func marshalFrame(v interface{}) []byte {
	data, _ := json.Marshal(v)
	return data
}

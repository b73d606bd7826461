package services

import (
	"context"

	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/models"
	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/relay"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 200
)

// ChatService is the read side consumed by the admin REST handlers. It only
// touches the store, never the connection registry.
type ChatService struct {
	rooms    relay.RoomStore
	messages relay.MessageStore
}

func NewChatService(rooms relay.RoomStore, messages relay.MessageStore) *ChatService {
	return &ChatService{rooms: rooms, messages: messages}
}

// ActiveRooms lists every active room together with its unread count.
func (s *ChatService) ActiveRooms(ctx context.Context) ([]models.RoomSummary, error) {
	rooms, err := s.rooms.ListActiveRooms(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		unread, err := s.messages.CountUnread(ctx, room.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, models.RoomSummary{Room: room, UnreadCount: unread})
	}
	return summaries, nil
}

// RoomMessages returns the room's most recent messages in chronological
// order. Limit falls back to the default and is capped.
func (s *ChatService) RoomMessages(ctx context.Context, roomID uint, limit int) ([]models.Message, error) {
	if _, err := s.rooms.FindRoom(ctx, roomID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultMessageLimit
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}

	recent, err := s.messages.ListRecent(ctx, roomID, limit)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}
	return recent, nil
}

// MarkRead flips all unread user messages in the room. Idempotent.
func (s *ChatService) MarkRead(ctx context.Context, roomID uint) error {
	if _, err := s.rooms.FindRoom(ctx, roomID); err != nil {
		return err
	}
	return s.messages.MarkUserMessagesRead(ctx, roomID)
}

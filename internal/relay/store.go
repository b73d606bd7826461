package relay

import (
	"context"
	"errors"

	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/models"
)

// ErrRoomNotFound is the store's answer for a room id that does not resolve.
var ErrRoomNotFound = errors.New("room not found")

// RoomStore is the persistence contract for rooms.
type RoomStore interface {
	// FindActiveRoom returns ErrRoomNotFound when the user has no active room.
	FindActiveRoom(ctx context.Context, userID uint) (*models.Room, error)
	CreateActiveRoom(ctx context.Context, userID uint) (*models.Room, error)
	// FindRoom returns ErrRoomNotFound for an unknown id.
	FindRoom(ctx context.Context, roomID uint) (*models.Room, error)
	ListActiveRooms(ctx context.Context) ([]models.Room, error)
}

// MessageStore is the persistence contract for messages and read state.
type MessageStore interface {
	Insert(ctx context.Context, roomID, senderID uint, role models.Role, body string) (*models.Message, error)
	// ListRecent returns up to limit messages, newest first.
	ListRecent(ctx context.Context, roomID uint, limit int) ([]models.Message, error)
	// MarkUserMessagesRead flips is_read on all unread user messages in the
	// room. Re-applying it is a no-op.
	MarkUserMessagesRead(ctx context.Context, roomID uint) error
	CountUnread(ctx context.Context, roomID uint) (int64, error)
}

// EventSink receives every persisted message, e.g. a Kafka feed. A nil sink
// is valid and drops everything.
type EventSink interface {
	PublishMessage(ctx context.Context, msg *models.Message) error
}

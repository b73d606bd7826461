package relay

import (
	"context"
	"errors"
	"sync"

	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/models"
)

// Resolver binds a user to their single active room, creating one lazily.
// Find-then-create runs under one mutex so that rapid reconnects for the
// same user never race two rooms into existence.
type Resolver struct {
	mu    sync.Mutex
	rooms RoomStore
}

func NewResolver(rooms RoomStore) *Resolver {
	return &Resolver{rooms: rooms}
}

// ResolveActiveRoom returns the user's active room, creating it if absent.
func (r *Resolver) ResolveActiveRoom(ctx context.Context, userID uint) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, err := r.rooms.FindActiveRoom(ctx, userID)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, ErrRoomNotFound) {
		return nil, err
	}

	return r.rooms.CreateActiveRoom(ctx, userID)
}

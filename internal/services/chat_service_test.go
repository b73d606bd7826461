package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/models"
	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/relay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore implements relay.RoomStore and relay.MessageStore in memory.
type stubStore struct {
	mu       sync.Mutex
	rooms    []models.Room
	messages []models.Message
	nextID   uint
}

func newStubStore() *stubStore {
	return &stubStore{nextID: 1}
}

func (s *stubStore) addRoom(owner uint) models.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	room := models.Room{ID: s.nextID, OwnerUserID: owner, IsActive: true, CreatedAt: time.Now()}
	s.nextID++
	s.rooms = append(s.rooms, room)
	return room
}

func (s *stubStore) addMessage(roomID uint, role models.Role, body string, read bool) models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := models.Message{
		ID: s.nextID, RoomID: roomID, SenderRole: role, Body: body,
		IsRead: read, CreatedAt: time.Now().Add(time.Duration(s.nextID) * time.Millisecond),
	}
	s.nextID++
	s.messages = append(s.messages, msg)
	return msg
}

func (s *stubStore) FindActiveRoom(_ context.Context, userID uint) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rooms {
		if s.rooms[i].OwnerUserID == userID && s.rooms[i].IsActive {
			room := s.rooms[i]
			return &room, nil
		}
	}
	return nil, relay.ErrRoomNotFound
}

func (s *stubStore) CreateActiveRoom(_ context.Context, userID uint) (*models.Room, error) {
	room := s.addRoom(userID)
	return &room, nil
}

func (s *stubStore) FindRoom(_ context.Context, roomID uint) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rooms {
		if s.rooms[i].ID == roomID {
			room := s.rooms[i]
			return &room, nil
		}
	}
	return nil, relay.ErrRoomNotFound
}

func (s *stubStore) ListActiveRooms(_ context.Context) ([]models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rooms := make([]models.Room, len(s.rooms))
	copy(rooms, s.rooms)
	return rooms, nil
}

func (s *stubStore) Insert(_ context.Context, roomID, senderID uint, role models.Role, body string) (*models.Message, error) {
	msg := s.addMessage(roomID, role, body, false)
	msg.SenderID = senderID
	return &msg, nil
}

func (s *stubStore) ListRecent(_ context.Context, roomID uint, limit int) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var recent []models.Message
	for i := len(s.messages) - 1; i >= 0 && len(recent) < limit; i-- {
		if s.messages[i].RoomID == roomID {
			recent = append(recent, s.messages[i])
		}
	}
	return recent, nil
}

func (s *stubStore) MarkUserMessagesRead(_ context.Context, roomID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].RoomID == roomID && s.messages[i].SenderRole == models.RoleUser {
			s.messages[i].IsRead = true
		}
	}
	return nil
}

func (s *stubStore) CountUnread(_ context.Context, roomID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var unread int64
	for _, msg := range s.messages {
		if msg.RoomID == roomID && msg.SenderRole == models.RoleUser && !msg.IsRead {
			unread++
		}
	}
	return unread, nil
}

func TestActiveRoomsIncludesUnreadCounts(t *testing.T) {
	store := newStubStore()
	service := NewChatService(store, store)
	ctx := context.Background()

	roomA := store.addRoom(1)
	roomB := store.addRoom(2)
	store.addMessage(roomA.ID, models.RoleUser, "one", false)
	store.addMessage(roomA.ID, models.RoleUser, "two", false)
	store.addMessage(roomA.ID, models.RoleAdmin, "reply", false)
	store.addMessage(roomB.ID, models.RoleUser, "seen", true)

	summaries, err := service.ActiveRooms(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byRoom := map[uint]int64{}
	for _, s := range summaries {
		byRoom[s.Room.ID] = s.UnreadCount
	}
	assert.Equal(t, int64(2), byRoom[roomA.ID])
	assert.Equal(t, int64(0), byRoom[roomB.ID])
}

func TestRoomMessagesChronologicalWithDefaultLimit(t *testing.T) {
	store := newStubStore()
	service := NewChatService(store, store)
	ctx := context.Background()

	room := store.addRoom(1)
	for i := 0; i < defaultMessageLimit+5; i++ {
		store.addMessage(room.ID, models.RoleUser, "msg", false)
	}

	messages, err := service.RoomMessages(ctx, room.ID, 0)
	require.NoError(t, err)
	assert.Len(t, messages, defaultMessageLimit)

	for i := 1; i < len(messages); i++ {
		assert.True(t, !messages[i].CreatedAt.Before(messages[i-1].CreatedAt))
	}
}

func TestRoomMessagesCapsLimit(t *testing.T) {
	store := newStubStore()
	service := NewChatService(store, store)
	ctx := context.Background()

	room := store.addRoom(1)
	store.addMessage(room.ID, models.RoleUser, "msg", false)

	messages, err := service.RoomMessages(ctx, room.ID, maxMessageLimit*10)
	require.NoError(t, err)
	assert.Len(t, messages, 1)
}

func TestRoomMessagesUnknownRoom(t *testing.T) {
	store := newStubStore()
	service := NewChatService(store, store)

	_, err := service.RoomMessages(context.Background(), 404, 10)
	assert.ErrorIs(t, err, relay.ErrRoomNotFound)
}

func TestMarkReadUnknownRoom(t *testing.T) {
	store := newStubStore()
	service := NewChatService(store, store)

	err := service.MarkRead(context.Background(), 404)
	assert.ErrorIs(t, err, relay.ErrRoomNotFound)
}

func TestMarkReadIdempotent(t *testing.T) {
	store := newStubStore()
	service := NewChatService(store, store)
	ctx := context.Background()

	room := store.addRoom(1)
	store.addMessage(room.ID, models.RoleUser, "one", false)

	require.NoError(t, service.MarkRead(ctx, room.ID))
	first, err := store.CountUnread(ctx, room.ID)
	require.NoError(t, err)

	require.NoError(t, service.MarkRead(ctx, room.ID))
	second, err := store.CountUnread(ctx, room.ID)
	require.NoError(t, err)

	assert.Zero(t, first)
	assert.Equal(t, first, second)
}

package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/models"
)

// fakeConn records enqueued frames; flipping broken makes every Enqueue fail
// the way a dead socket would.
type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
	broken bool
}

func (c *fakeConn) Enqueue(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broken {
		return ErrConnClosed
	}
	buf := make([]byte, len(frame))
	copy(buf, frame)
	c.frames = append(c.frames, buf)
	return nil
}

func (c *fakeConn) frameCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

// lastFrame decodes the most recent frame into a generic map.
func (c *fakeConn) lastFrame() map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.frames) == 0 {
		return nil
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(c.frames[len(c.frames)-1], &decoded); err != nil {
		return nil
	}
	return decoded
}

// fakeStore is an in-memory RoomStore + MessageStore used by router and
// resolver tests.
type fakeStore struct {
	mu            sync.Mutex
	rooms         []models.Room
	messages      []models.Message
	nextRoomID    uint
	nextMessageID uint

	findCalls     int
	createCalls   int
	markReadCalls int

	insertErr error
	findErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextRoomID: 1, nextMessageID: 1}
}

func (s *fakeStore) FindActiveRoom(_ context.Context, userID uint) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.findCalls++
	if s.findErr != nil {
		return nil, s.findErr
	}
	for i := range s.rooms {
		if s.rooms[i].OwnerUserID == userID && s.rooms[i].IsActive {
			room := s.rooms[i]
			return &room, nil
		}
	}
	return nil, ErrRoomNotFound
}

func (s *fakeStore) CreateActiveRoom(_ context.Context, userID uint) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.createCalls++
	room := models.Room{
		ID:          s.nextRoomID,
		OwnerUserID: userID,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
	s.nextRoomID++
	s.rooms = append(s.rooms, room)
	return &room, nil
}

func (s *fakeStore) FindRoom(_ context.Context, roomID uint) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rooms {
		if s.rooms[i].ID == roomID {
			room := s.rooms[i]
			return &room, nil
		}
	}
	return nil, fmt.Errorf("room %d: %w", roomID, ErrRoomNotFound)
}

func (s *fakeStore) ListActiveRooms(_ context.Context) ([]models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var active []models.Room
	for _, room := range s.rooms {
		if room.IsActive {
			active = append(active, room)
		}
	}
	return active, nil
}

func (s *fakeStore) Insert(_ context.Context, roomID, senderID uint, role models.Role, body string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.insertErr != nil {
		return nil, s.insertErr
	}
	msg := models.Message{
		ID:         s.nextMessageID,
		RoomID:     roomID,
		SenderID:   senderID,
		SenderRole: role,
		Body:       body,
		IsRead:     false,
		CreatedAt:  time.Now().Add(time.Duration(s.nextMessageID) * time.Millisecond),
	}
	s.nextMessageID++
	s.messages = append(s.messages, msg)
	return &msg, nil
}

func (s *fakeStore) ListRecent(_ context.Context, roomID uint, limit int) ([]models.Message, error) {
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

func (s *fakeStore) MarkUserMessagesRead(_ context.Context, roomID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.markReadCalls++
	for i := range s.messages {
		if s.messages[i].RoomID == roomID && s.messages[i].SenderRole == models.RoleUser {
			s.messages[i].IsRead = true
		}
	}
	return nil
}

func (s *fakeStore) CountUnread(_ context.Context, roomID uint) (int64, error) {
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

// fakeSink records published messages.
type fakeSink struct {
	mu        sync.Mutex
	published []models.Message
}

func (s *fakeSink) PublishMessage(_ context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = append(s.published, *msg)
	return nil
}

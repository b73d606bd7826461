package relay

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/models"
)

// historyLimit caps how many messages a freshly connected user receives.
const historyLimit = 50

// Router turns one inbound event into persisted records and deliveries.
// Delivery failure on one target never blocks the rest: a failed Enqueue
// evicts that connection from the registry and the fan-out continues.
type Router struct {
	registry *Registry
	rooms    RoomStore
	messages MessageStore
	events   EventSink
}

func NewRouter(registry *Registry, rooms RoomStore, messages MessageStore, events EventSink) *Router {
	return &Router{
		registry: registry,
		rooms:    rooms,
		messages: messages,
		events:   events,
	}
}

// UserConnected notifies every admin that a user came online.
func (r *Router) UserConnected(identity models.Identity, roomID uint) {
	r.broadcastAdmins(newUserConnectedFrame(identity, roomID), nil)
}

// UserDisconnected notifies every admin that a user went away.
func (r *Router) UserDisconnected(identity models.Identity, roomID uint) {
	r.broadcastAdmins(newUserDisconnectedFrame(identity, roomID), nil)
}

// UserMessage persists a user's text and fans it out to all admins.
// Whitespace-only input is dropped without error or delivery.
func (r *Router) UserMessage(ctx context.Context, sender models.Identity, roomID uint, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}

	msg, err := r.messages.Insert(ctx, roomID, sender.ID, models.RoleUser, body)
	if err != nil {
		slog.Error("Failed to persist user message", "userID", sender.ID, "roomID", roomID, "error", err)
		return
	}

	r.publish(ctx, msg)
	r.broadcastAdmins(newChatFrame(EventUserMessage, sender, msg), nil)
}

// AdminMessage persists an admin reply, marks the room's user messages read,
// delivers admin_message to the room owner and admin_response to every other
// admin connection. The originating connection gets no echo. An unknown room
// id is a no-op.
func (r *Router) AdminMessage(ctx context.Context, sender models.Identity, senderConn Conn, roomID uint, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}

	room, err := r.rooms.FindRoom(ctx, roomID)
	if err != nil {
		if !errors.Is(err, ErrRoomNotFound) {
			slog.Error("Failed to look up room", "roomID", roomID, "error", err)
		}
		return
	}

	msg, err := r.messages.Insert(ctx, room.ID, sender.ID, models.RoleAdmin, body)
	if err != nil {
		slog.Error("Failed to persist admin message", "adminID", sender.ID, "roomID", roomID, "error", err)
		return
	}

	// Replying implies the admin has seen the room. Ordered after the insert
	// so the reply itself is never swept up by the update.
	if err := r.messages.MarkUserMessagesRead(ctx, room.ID); err != nil {
		slog.Error("Failed to mark messages read", "roomID", roomID, "error", err)
	}

	r.publish(ctx, msg)
	r.deliverUser(room.OwnerUserID, newChatFrame(EventAdminMessage, sender, msg))
	r.broadcastAdmins(newChatFrame(EventAdminResponse, sender, msg), senderConn)
}

// MarkRead flips all unread user messages in the room. Idempotent.
func (r *Router) MarkRead(ctx context.Context, roomID uint) error {
	return r.messages.MarkUserMessagesRead(ctx, roomID)
}

// SendHistory pushes the room's most recent messages to one connection,
// oldest first.
func (r *Router) SendHistory(ctx context.Context, target Conn, roomID uint) error {
	recent, err := r.messages.ListRecent(ctx, roomID, historyLimit)
	if err != nil {
		return err
	}

	// The store returns newest first; the client wants chronological order.
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}

	return target.Enqueue(newHistoryFrame(roomID, recent))
}

// AdminSnapshot sends the connecting admin the current set of active rooms
// with their unread counts.
func (r *Router) AdminSnapshot(ctx context.Context, target Conn) error {
	rooms, err := r.rooms.ListActiveRooms(ctx)
	if err != nil {
		return err
	}

	summaries := make([]models.RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		unread, err := r.messages.CountUnread(ctx, room.ID)
		if err != nil {
			slog.Error("Failed to count unread messages", "roomID", room.ID, "error", err)
			continue
		}
		summaries = append(summaries, models.RoomSummary{Room: room, UnreadCount: unread})
	}

	return target.Enqueue(newActiveRoomsFrame(summaries))
}

// broadcastAdmins attempts delivery to every admin connection except the
// excluded one. A connection that fails to accept the frame is evicted and
// the loop moves on.
func (r *Router) broadcastAdmins(frame []byte, except Conn) {
	for _, admin := range r.registry.Admins() {
		if admin.Conn == except {
			continue
		}
		if err := admin.Conn.Enqueue(frame); err != nil {
			r.registry.UnregisterAdmin(admin.Conn)
			slog.Debug("Evicted admin connection", "adminID", admin.AdminID, "error", err)
		}
	}
}

// deliverUser attempts delivery to the room owner's live connection, if any.
func (r *Router) deliverUser(userID uint, frame []byte) {
	conn, ok := r.registry.LookupUser(userID)
	if !ok {
		return
	}
	if err := conn.Enqueue(frame); err != nil {
		r.registry.UnregisterUser(userID, conn)
		slog.Debug("Evicted user connection", "userID", userID, "error", err)
	}
}

func (r *Router) publish(ctx context.Context, msg *models.Message) {
	if r.events == nil {
		return
	}
	if err := r.events.PublishMessage(ctx, msg); err != nil {
		slog.Error("Failed to publish message event", "messageID", msg.ID, "error", err)
	}
}

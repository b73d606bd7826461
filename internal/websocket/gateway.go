package websocket

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/auth"
	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/models"
	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/relay"
	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/services"

	"github.com/gorilla/websocket"
)

// Gateway accepts socket connections and runs their sessions against the
// relay core.
type Gateway struct {
	registry *relay.Registry
	router   *relay.Router
	resolver *relay.Resolver
	verifier *auth.Verifier

	// presence is optional; nil disables the redis bookkeeping.
	presence *services.RedisService
}

func NewGateway(registry *relay.Registry, router *relay.Router, resolver *relay.Resolver, verifier *auth.Verifier, presence *services.RedisService) *Gateway {
	return &Gateway{
		registry: registry,
		router:   router,
		resolver: resolver,
		verifier: verifier,
		presence: presence,
	}
}

// ServeUser upgrades and runs a user session.
func (g *Gateway) ServeUser(w http.ResponseWriter, r *http.Request, credential string) {
	g.serve(w, r, credential, models.RoleUser)
}

// ServeAdmin upgrades and runs an admin session.
func (g *Gateway) ServeAdmin(w http.ResponseWriter, r *http.Request, credential string) {
	g.serve(w, r, credential, models.RoleAdmin)
}

func (g *Gateway) serve(w http.ResponseWriter, r *http.Request, credential string, want models.Role) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade WebSocket connection", "error", err)
		return
	}

	client := newClient(conn)
	client.setState(stateAuthenticating)

	identity, err := g.verifier.Verify(credential)
	if err != nil || identity.Role != want {
		// Failed verification never touches the registry.
		slog.Info("Rejected connection", "clientID", client.id, "wantRole", want, "error", err)
		client.closeWithCode(websocket.ClosePolicyViolation, "authentication failed")
		return
	}
	client.identity = identity

	switch want {
	case models.RoleUser:
		if !g.activateUser(r.Context(), client) {
			return
		}
	case models.RoleAdmin:
		g.activateAdmin(r.Context(), client)
	}

	slog.Info("Session active", "clientID", client.id, "userID", identity.ID, "role", identity.Role)

	go client.writePump()
	go client.readPump(g)
}

func (g *Gateway) activateUser(ctx context.Context, client *Client) bool {
	room, err := g.resolver.ResolveActiveRoom(ctx, client.identity.ID)
	if err != nil {
		slog.Error("Failed to resolve room", "userID", client.identity.ID, "error", err)
		client.closeWithCode(websocket.CloseInternalServerErr, "room resolution failed")
		return false
	}
	client.room = room
	client.setState(stateActive)

	if prev := g.registry.RegisterUser(client.identity.ID, client); prev != nil {
		// Supersession: close the old channel and let its session find out
		// through its own failed read.
		if old, ok := prev.(*Client); ok {
			slog.Info("Superseding user connection", "userID", client.identity.ID, "oldClientID", old.id)
			old.closeTransport()
		}
	}

	if g.presence != nil {
		g.presence.SetUserOnline(ctx, client.identity.ID)
	}

	g.router.UserConnected(client.identity, room.ID)
	if err := g.router.SendHistory(ctx, client, room.ID); err != nil {
		slog.Error("Failed to send history", "userID", client.identity.ID, "roomID", room.ID, "error", err)
	}
	return true
}

func (g *Gateway) activateAdmin(ctx context.Context, client *Client) {
	client.setState(stateActive)
	g.registry.RegisterAdmin(client.identity.ID, client)

	if err := g.router.AdminSnapshot(ctx, client); err != nil {
		slog.Error("Failed to send room snapshot", "adminID", client.identity.ID, "error", err)
	}
}

// teardown is the guaranteed cleanup path out of a session, deferred in
// readPump so it runs on transport closure, explicit close, and faults
// alike.
func (g *Gateway) teardown(c *Client) {
	c.close()
	c.conn.Close()

	switch c.identity.Role {
	case models.RoleUser:
		// Only the still-registered connection emits the disconnect notice;
		// a superseded session unregisters as a no-op.
		if g.registry.UnregisterUser(c.identity.ID, c) {
			if g.presence != nil {
				g.presence.SetUserOffline(context.Background(), c.identity.ID)
			}
			g.router.UserDisconnected(c.identity, c.room.ID)
		}
	case models.RoleAdmin:
		g.registry.UnregisterAdmin(c)
	}

	slog.Debug("Session closed", "clientID", c.id, "userID", c.identity.ID, "state", c.getState().String())
}

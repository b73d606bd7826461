package relay

import (
	"errors"
	"sync"
)

// ErrConnClosed is returned by a Conn whose peer is gone. The router treats
// it as an implicit disconnect and evicts the connection.
var ErrConnClosed = errors.New("connection closed")

// Conn is the delivery half of a live connection. The owning session keeps
// lifecycle control; the registry only holds a reference for lookup.
type Conn interface {
	// Enqueue hands a frame to the connection's writer. It must not block;
	// it returns ErrConnClosed when the connection can no longer deliver.
	Enqueue(frame []byte) error
}

// AdminConn pairs an admin connection with the admin it belongs to. One
// admin may hold several connections (multiple tabs).
type AdminConn struct {
	Conn    Conn
	AdminID uint
}

// Registry is the shared map from identities to live connections. Every
// mutation happens under one mutex; the critical section only covers the
// in-memory map operations, never I/O.
type Registry struct {
	mu     sync.RWMutex
	users  map[uint]Conn
	admins map[Conn]uint
}

func NewRegistry() *Registry {
	return &Registry{
		users:  make(map[uint]Conn),
		admins: make(map[Conn]uint),
	}
}

// RegisterUser installs conn as the user's single live connection and
// returns the previous one if the user was already connected. The caller is
// responsible for closing the superseded connection; the old session finds
// out through its own failed reads.
func (r *Registry) RegisterUser(userID uint, conn Conn) Conn {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.users[userID]
	r.users[userID] = conn
	return prev
}

// UnregisterUser removes the user's entry only if conn is still the one
// registered. A stale disconnect racing a fresh reconnect must not remove
// the live connection.
func (r *Registry) UnregisterUser(userID uint, conn Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.users[userID] != conn {
		return false
	}
	delete(r.users, userID)
	return true
}

// RegisterAdmin adds an admin connection. Unlike users, admin connections
// coexist, so there is no supersession.
func (r *Registry) RegisterAdmin(adminID uint, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.admins[conn] = adminID
}

// UnregisterAdmin removes an admin connection by identity of the connection
// itself.
func (r *Registry) UnregisterAdmin(conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.admins, conn)
}

// LookupUser returns the user's live connection, if any. The snapshot may go
// stale by the time delivery happens; the router handles that by evicting on
// send failure.
func (r *Registry) LookupUser(userID uint) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.users[userID]
	return conn, ok
}

// Admins returns a snapshot of all live admin connections.
func (r *Registry) Admins() []AdminConn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	admins := make([]AdminConn, 0, len(r.admins))
	for conn, adminID := range r.admins {
		admins = append(admins, AdminConn{Conn: conn, AdminID: adminID})
	}
	return admins
}

// UserCount reports how many users are currently connected.
func (r *Registry) UserCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// AdminCount reports how many admin connections are currently registered.
func (r *Registry) AdminCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.admins)
}

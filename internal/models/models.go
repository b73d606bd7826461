package models

import "time"

// Role distinguishes the two sides of a support conversation.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid checks if the Role is a known enum value.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Identity is the verified principal behind a connection. It is produced by
// the token verifier and never changes for the lifetime of the connection.
type Identity struct {
	ID          uint   `json:"id"`
	DisplayName string `json:"display_name"`
	Role        Role   `json:"role"`
}

/** --------------------ENTITIES-------------------- */

// Room is a one-user conversation thread with the admin pool. At most one
// active room exists per user; rooms are created lazily and never deleted.
type Room struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OwnerUserID uint      `gorm:"not null;index:idx_rooms_owner_active" json:"owner_user_id"`
	IsActive    bool      `gorm:"not null;default:true;index:idx_rooms_owner_active" json:"is_active"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// Message is a persisted chat line. Immutable once created except IsRead,
// which only ever transitions false to true.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RoomID     uint      `gorm:"not null;index" json:"room_id"`
	SenderID   uint      `gorm:"not null" json:"sender_id"`
	SenderRole Role      `gorm:"not null" json:"sender_role"`
	Body       string    `gorm:"not null" json:"body"`
	IsRead     bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	Room Room `gorm:"foreignKey:RoomID;references:ID" json:"-"`
}

/** -------------------- DTOs -------------------- */

// RoomSummary is the admin-facing view of an active room.
type RoomSummary struct {
	Room        Room  `json:"room"`
	UnreadCount int64 `json:"unread_count"`
}

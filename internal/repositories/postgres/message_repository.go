package postgres

import (
	"context"
	"fmt"

	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/models"

	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db}
}

func (r *MessageRepository) Insert(ctx context.Context, roomID, senderID uint, role models.Role, body string) (*models.Message, error) {
	msg := models.Message{
		RoomID:     roomID,
		SenderID:   senderID,
		SenderRole: role,
		Body:       body,
		IsRead:     false,
	}
	if err := r.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return &msg, nil
}

// ListRecent returns up to limit messages for the room, newest first.
// Created-at ties are broken by the sequential id so history order matches
// true send order.
func (r *MessageRepository) ListRecent(ctx context.Context, roomID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

func (r *MessageRepository) MarkUserMessagesRead(ctx context.Context, roomID uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("room_id = ? AND sender_role = ? AND is_read = ?", roomID, models.RoleUser, false).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("mark messages read: %w", err)
	}
	return nil
}

func (r *MessageRepository) CountUnread(ctx context.Context, roomID uint) (int64, error) {
	var unread int64
	err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("room_id = ? AND sender_role = ? AND is_read = ?", roomID, models.RoleUser, false).
		Count(&unread).Error
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return unread, nil
}

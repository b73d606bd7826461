package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/models"
	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/relay"

	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db}
}

func (r *RoomRepository) FindActiveRoom(ctx context.Context, userID uint) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).
		Where("owner_user_id = ? AND is_active = ?", userID, true).
		First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("active room for user %d: %w", userID, relay.ErrRoomNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find active room: %w", err)
	}
	return &room, nil
}

func (r *RoomRepository) CreateActiveRoom(ctx context.Context, userID uint) (*models.Room, error) {
	room := models.Room{
		OwnerUserID: userID,
		IsActive:    true,
	}
	if err := r.db.WithContext(ctx).Create(&room).Error; err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	return &room, nil
}

func (r *RoomRepository) FindRoom(ctx context.Context, roomID uint) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).First(&room, "id = ?", roomID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("room %d: %w", roomID, relay.ErrRoomNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find room: %w", err)
	}
	return &room, nil
}

func (r *RoomRepository) ListActiveRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("list active rooms: %w", err)
	}
	return rooms, nil
}

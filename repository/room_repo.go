// room_repo.go - Room persistence

package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"go-room-booking/models"
)

type RoomRepo struct{ db *gorm.DB }

func NewRoomRepo(db *gorm.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

func (r *RoomRepo) Create(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

// ByID loads a room without its reservations.
func (r *RoomRepo) ByID(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

// WithReservations loads a room and its reservations ordered by start time,
// each carrying the booking user's public fields.
func (r *RoomRepo) WithReservations(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).
		Preload("Reservations", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_time ASC")
		}).
		Preload("Reservations.User", selectPublicUser).
		First(&room, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

func (r *RoomRepo) List(ctx context.Context, f models.RoomFilter) ([]models.Room, error) {
	qb := r.db.WithContext(ctx).Model(&models.Room{})
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		qb = qb.Where("LOWER(name) LIKE ? OR LOWER(location) LIKE ?", like, like)
	}
	if f.MinCapacity > 0 {
		qb = qb.Where("capacity >= ?", f.MinCapacity)
	}
	if f.Location != "" {
		qb = qb.Where("location = ?", f.Location)
	}
	var out []models.Room
	if err := qb.Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites the editable fields of room.
func (r *RoomRepo) Update(ctx context.Context, room *models.Room) error {
	res := r.db.WithContext(ctx).Model(&models.Room{}).Where("id = ?", room.ID).
		Updates(map[string]any{"name": room.Name, "capacity": room.Capacity, "location": room.Location})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the room together with its reservations.
func (r *RoomRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", id).Delete(&models.Reservation{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Room{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *RoomRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Room{}).Count(&n).Error
	return n, err
}

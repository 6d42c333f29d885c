// reservation_repo.go - Reservation persistence and the transactional overlap check

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-room-booking/models"
)

// ReservationStore is what the reservation validator needs from storage.
// Calls made through the tx handed to WithTx share one transaction.
type ReservationStore interface {
	WithTx(ctx context.Context, fn func(tx ReservationStore) error) error
	// LockRoom loads the room and holds a write lock on it until the
	// transaction ends, serializing bookings for that room.
	LockRoom(ctx context.Context, roomID uint) (*models.Room, error)
	// FindOverlapping returns reservations of roomID intersecting [start, end).
	FindOverlapping(ctx context.Context, roomID uint, start, end time.Time) ([]models.Reservation, error)
	// InsertReservation persists r and attaches the booking user's public fields.
	InsertReservation(ctx context.Context, r *models.Reservation) error
}

type ReservationRepo struct{ db *gorm.DB }

func NewReservationRepo(db *gorm.DB) *ReservationRepo {
	return &ReservationRepo{db: db}
}

var _ ReservationStore = (*ReservationRepo)(nil)

func (r *ReservationRepo) WithTx(ctx context.Context, fn func(tx ReservationStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ReservationRepo{db: tx})
	})
}

func (r *ReservationRepo) LockRoom(ctx context.Context, roomID uint) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}). // ignored by SQLite, which locks the whole database
		First(&room, roomID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

func (r *ReservationRepo) FindOverlapping(ctx context.Context, roomID uint, start, end time.Time) ([]models.Reservation, error) {
	var out []models.Reservation
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Where("start_time < ? AND end_time > ?", end.UTC(), start.UTC()). // overlap condition
		Order("start_time ASC").
		Find(&out).Error
	return out, err
}

func (r *ReservationRepo) InsertReservation(ctx context.Context, res *models.Reservation) error {
	db := r.db.WithContext(ctx)
	res.StartTime = res.StartTime.UTC()
	res.EndTime = res.EndTime.UTC()
	if err := db.Omit(clause.Associations).Create(res).Error; err != nil {
		return translate(err)
	}
	var user models.User
	if err := selectPublicUser(db).First(&user, res.UserID).Error; err != nil {
		return translate(err)
	}
	res.User = &user
	return nil
}

// List returns reservations matching f, earliest first, with user fields.
func (r *ReservationRepo) List(ctx context.Context, f models.ReservationFilter) ([]models.Reservation, error) {
	qb := r.db.WithContext(ctx).Model(&models.Reservation{}).Preload("User", selectPublicUser)
	if f.RoomID != 0 {
		qb = qb.Where("room_id = ?", f.RoomID)
	}
	if f.UserID != 0 {
		qb = qb.Where("user_id = ?", f.UserID)
	}
	if !f.After.IsZero() {
		qb = qb.Where("start_time > ?", f.After.UTC())
	}
	var out []models.Reservation
	if err := qb.Order("start_time ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// NextByRoom returns, per room, the earliest reservation starting after `after`.
func (r *ReservationRepo) NextByRoom(ctx context.Context, roomIDs []uint, after time.Time) (map[uint]models.Reservation, error) {
	next := make(map[uint]models.Reservation, len(roomIDs))
	if len(roomIDs) == 0 {
		return next, nil
	}
	var upcoming []models.Reservation
	err := r.db.WithContext(ctx).
		Preload("User", selectPublicUser).
		Where("room_id IN ? AND start_time > ?", roomIDs, after.UTC()).
		Order("start_time ASC").
		Find(&upcoming).Error
	if err != nil {
		return nil, err
	}
	for _, res := range upcoming {
		if _, seen := next[res.RoomID]; !seen {
			next[res.RoomID] = res
		}
	}
	return next, nil
}

// Count returns the number of reservations, or only those starting after
// `after` when it is non-zero.
func (r *ReservationRepo) Count(ctx context.Context, after time.Time) (int64, error) {
	var n int64
	qb := r.db.WithContext(ctx).Model(&models.Reservation{})
	if !after.IsZero() {
		qb = qb.Where("start_time > ?", after.UTC())
	}
	err := qb.Count(&n).Error
	return n, err
}

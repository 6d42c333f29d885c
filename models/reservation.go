// reservation.go - Defines the Reservation model

package models

import "time"

// Reservation is a booking of one room for the half-open interval
// [StartTime, EndTime).
type Reservation struct {
	ID        uint      `gorm:"primaryKey"`
	RoomID    uint      `gorm:"not null;index:idx_reservation_window,priority:1"`
	UserID    uint      `gorm:"not null;index"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"` // preloaded on reads
	StartTime time.Time `gorm:"not null;index:idx_reservation_window,priority:2"`                 // Inclusive
	EndTime   time.Time `gorm:"not null"`                                                         // Exclusive
	CreatedAt time.Time
}

// Overlaps reports whether r shares at least one instant with [start, end).
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.StartTime.Before(end) && start.Before(r.EndTime)
}

// ReservationFilter narrows a reservation listing. Zero values match everything.
type ReservationFilter struct {
	RoomID uint
	UserID uint
	After  time.Time // only reservations starting after this instant
}

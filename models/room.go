// room.go - Defines the Room model

package models

import "time"

type Room struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Name         string        `gorm:"not null" json:"name"`
	Capacity     int           `gorm:"not null" json:"capacity"`
	Location     string        `json:"location,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Reservations []Reservation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// RoomFilter narrows a room listing. Zero values match everything.
type RoomFilter struct {
	Search      string // matched against name and location, case-insensitive
	MinCapacity int
	Location    string // exact match
}

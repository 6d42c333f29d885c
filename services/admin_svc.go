// admin_svc.go - Admin dashboard data and the booking switch

package services

import (
	"context"
	"log"
	"strings"
	"time"

	"go-room-booking/apperrors"
	"go-room-booking/auth"
	"go-room-booking/models"
	"go-room-booking/repository"
)

// Overview is everything the admin dashboard shows.
type Overview struct {
	Users        []models.User
	Rooms        []models.Room
	Reservations []models.Reservation
}

type Stats struct {
	Users        int64 `json:"users"`
	Rooms        int64 `json:"rooms"`
	Reservations int64 `json:"reservations"`
	Upcoming     int64 `json:"upcoming_reservations"`
}

type AdminSvc struct {
	users        *repository.UserRepo
	rooms        *repository.RoomRepo
	reservations *repository.ReservationRepo
	gate         *Suspension
	now          func() time.Time
}

func NewAdminSvc(users *repository.UserRepo, rooms *repository.RoomRepo, reservations *repository.ReservationRepo, gate *Suspension) *AdminSvc {
	return &AdminSvc{users: users, rooms: rooms, reservations: reservations, gate: gate, now: time.Now}
}

func (s *AdminSvc) Overview(ctx context.Context, id auth.Identity) (*Overview, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.List(ctx, models.RoomFilter{})
	if err != nil {
		return nil, err
	}
	reservations, err := s.reservations.List(ctx, models.ReservationFilter{})
	if err != nil {
		return nil, err
	}
	return &Overview{Users: users, Rooms: rooms, Reservations: reservations}, nil
}

func (s *AdminSvc) Stats(ctx context.Context, id auth.Identity) (*Stats, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	var st Stats
	var err error
	if st.Users, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if st.Rooms, err = s.rooms.Count(ctx); err != nil {
		return nil, err
	}
	if st.Reservations, err = s.reservations.Count(ctx, time.Time{}); err != nil {
		return nil, err
	}
	if st.Upcoming, err = s.reservations.Count(ctx, s.now()); err != nil {
		return nil, err
	}
	return &st, nil
}

// SuspendBookings stops new reservations until ResumeBookings is called.
func (s *AdminSvc) SuspendBookings(_ context.Context, id auth.Identity, reason string) (SuspensionState, error) {
	if err := requireAdmin(id); err != nil {
		return SuspensionState{}, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return SuspensionState{}, apperrors.Invalid("reason is required")
	}
	st := s.gate.Suspend(id.Email, reason)
	log.Printf("[admin] bookings suspended by %s: %s", id.Email, reason)
	return st, nil
}

func (s *AdminSvc) ResumeBookings(_ context.Context, id auth.Identity) error {
	if err := requireAdmin(id); err != nil {
		return err
	}
	s.gate.Resume()
	log.Printf("[admin] bookings resumed by %s", id.Email)
	return nil
}

func (s *AdminSvc) BookingStatus(_ context.Context, id auth.Identity) (SuspensionState, error) {
	if err := requireAdmin(id); err != nil {
		return SuspensionState{}, err
	}
	return s.gate.State(), nil
}

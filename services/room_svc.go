// room_svc.go - Room catalogue and admin room management

package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go-room-booking/apperrors"
	"go-room-booking/auth"
	"go-room-booking/events"
	"go-room-booking/models"
	"go-room-booking/repository"
)

// RoomInput holds the editable fields of a room.
type RoomInput struct {
	Name     string
	Capacity int
	Location string
}

func (in RoomInput) validate() (RoomInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	if in.Name == "" {
		return in, apperrors.Invalid("name is required")
	}
	if in.Capacity <= 0 {
		return in, apperrors.Invalid("capacity must be a positive integer")
	}
	return in, nil
}

// RoomSummary is a listed room with its next upcoming reservation, if any.
type RoomSummary struct {
	Room models.Room
	Next *models.Reservation
}

type RoomSvc struct {
	rooms        *repository.RoomRepo
	reservations *repository.ReservationRepo
	pub          events.Publisher
	now          func() time.Time
}

func NewRoomSvc(rooms *repository.RoomRepo, reservations *repository.ReservationRepo, pub events.Publisher) *RoomSvc {
	if pub == nil {
		pub = events.Noop
	}
	return &RoomSvc{rooms: rooms, reservations: reservations, pub: pub, now: time.Now}
}

// List returns the rooms matching f, each with its next reservation.
func (s *RoomSvc) List(ctx context.Context, id auth.Identity, f models.RoomFilter) ([]RoomSummary, error) {
	if !id.Authenticated() {
		return nil, apperrors.ErrUnauthorized
	}
	rooms, err := s.rooms.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	ids := make([]uint, len(rooms))
	for i, r := range rooms {
		ids[i] = r.ID
	}
	next, err := s.reservations.NextByRoom(ctx, ids, s.now())
	if err != nil {
		return nil, fmt.Errorf("next reservations: %w", err)
	}
	out := make([]RoomSummary, len(rooms))
	for i, r := range rooms {
		out[i] = RoomSummary{Room: r}
		if res, ok := next[r.ID]; ok {
			out[i].Next = &res
		}
	}
	return out, nil
}

// Get returns a room with its reservations ordered by start time.
func (s *RoomSvc) Get(ctx context.Context, id auth.Identity, roomID uint) (*models.Room, error) {
	if !id.Authenticated() {
		return nil, apperrors.ErrUnauthorized
	}
	room, err := s.rooms.WithReservations(ctx, roomID)
	if err != nil {
		return nil, roomErr(err)
	}
	return room, nil
}

// Exists reports whether roomID refers to a room; used before opening a watch.
func (s *RoomSvc) Exists(ctx context.Context, roomID uint) error {
	_, err := s.rooms.ByID(ctx, roomID)
	return roomErr(err)
}

func (s *RoomSvc) Create(ctx context.Context, id auth.Identity, in RoomInput) (*models.Room, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	room := &models.Room{Name: in.Name, Capacity: in.Capacity, Location: in.Location}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	s.publish(ctx, events.New(events.RoomCreated, room.ID))
	return room, nil
}

func (s *RoomSvc) Update(ctx context.Context, id auth.Identity, roomID uint, in RoomInput) (*models.Room, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	room := &models.Room{ID: roomID, Name: in.Name, Capacity: in.Capacity, Location: in.Location}
	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, roomErr(err)
	}
	updated, err := s.rooms.ByID(ctx, roomID)
	if err != nil {
		return nil, roomErr(err)
	}
	s.publish(ctx, events.New(events.RoomUpdated, roomID))
	return updated, nil
}

// Delete removes the room and all of its reservations.
func (s *RoomSvc) Delete(ctx context.Context, id auth.Identity, roomID uint) error {
	if err := requireAdmin(id); err != nil {
		return err
	}
	if err := s.rooms.Delete(ctx, roomID); err != nil {
		return roomErr(err)
	}
	s.publish(ctx, events.New(events.RoomDeleted, roomID))
	return nil
}

func (s *RoomSvc) publish(ctx context.Context, ev events.Event) {
	if err := s.pub.Publish(ctx, ev); err != nil {
		log.Printf("[rooms] publish %s: %v", ev.Type, err)
	}
}

func roomErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrRoomNotFound
	}
	return err
}

// events.go - Domain events emitted after state changes

package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Event types (also used as routing keys).
const (
	ReservationCreated = "reservation.created"
	RoomCreated        = "room.created"
	RoomUpdated        = "room.updated"
	RoomDeleted        = "room.deleted"
)

type Event struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	RoomID        uint       `json:"room_id"`
	ReservationID uint       `json:"reservation_id,omitempty"`
	UserID        uint       `json:"user_id,omitempty"`
	Start         *time.Time `json:"start,omitempty"`
	End           *time.Time `json:"end,omitempty"`
	At            time.Time  `json:"at"`
}

// New stamps an event with a fresh ID and the current time.
func New(typ string, roomID uint) Event {
	return Event{ID: uuid.NewString(), Type: typ, RoomID: roomID, At: time.Now().UTC()}
}

// Publisher delivers events to one sink.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, ev Event) error

func (f PublisherFunc) Publish(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// Noop discards events.
var Noop Publisher = PublisherFunc(func(context.Context, Event) error { return nil })

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// reservation_svc.go - Reservation creation with the overlap check

package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"go-room-booking/apperrors"
	"go-room-booking/auth"
	"go-room-booking/events"
	"go-room-booking/metrics"
	"go-room-booking/models"
	"go-room-booking/repository"
)

var tracer = otel.Tracer("go-room-booking/services")

// instantLayouts are tried in order. Layouts without an offset are read as UTC.
var instantLayouts = []string{
	time.RFC3339Nano, // also accepts RFC3339 without fractional seconds
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseInstant reads an ISO-8601 timestamp and returns it in UTC.
func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperrors.ErrInvalidTime
}

type reservationLister interface {
	List(ctx context.Context, f models.ReservationFilter) ([]models.Reservation, error)
}

type ReservationSvc struct {
	store repository.ReservationStore
	list  reservationLister
	pub   events.Publisher
	gate  *Suspension
}

func NewReservationSvc(store repository.ReservationStore, list reservationLister, pub events.Publisher, gate *Suspension) *ReservationSvc {
	if pub == nil {
		pub = events.Noop
	}
	return &ReservationSvc{store: store, list: list, pub: pub, gate: gate}
}

// Create books roomID for [startISO, endISO) on behalf of id. The overlap
// check and the insert run in one transaction holding the room lock, so two
// concurrent requests for the same slot cannot both succeed.
func (s *ReservationSvc) Create(ctx context.Context, id auth.Identity, roomID uint, startISO, endISO string) (*models.Reservation, error) {
	if !id.Authenticated() {
		return nil, apperrors.ErrUnauthorized
	}
	if err := s.gate.Check(); err != nil {
		return nil, err
	}
	start, err := ParseInstant(startISO)
	if err != nil {
		return nil, err
	}
	end, err := ParseInstant(endISO)
	if err != nil {
		return nil, err
	}
	if !start.Before(end) {
		return nil, apperrors.ErrInvalidInterval
	}

	ctx, span := tracer.Start(ctx, "ReservationSvc.Create", trace.WithAttributes(
		attribute.Int64("room.id", int64(roomID)),
		attribute.Int64("user.id", int64(id.UserID)),
	))
	defer span.End()

	res := &models.Reservation{RoomID: roomID, UserID: id.UserID, StartTime: start, EndTime: end}
	err = s.store.WithTx(ctx, func(tx repository.ReservationStore) error {
		if _, err := tx.LockRoom(ctx, roomID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.ErrRoomNotFound
			}
			return fmt.Errorf("lock room %d: %w", roomID, err)
		}
		clashes, err := tx.FindOverlapping(ctx, roomID, start, end)
		if err != nil {
			return fmt.Errorf("find overlapping: %w", err)
		}
		if len(clashes) > 0 {
			return apperrors.ErrSlotTaken
		}
		if err := tx.InsertReservation(ctx, res); err != nil {
			return fmt.Errorf("insert reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrSlotTaken) {
			metrics.ReservationConflicts.Inc()
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	metrics.ReservationsCreated.Inc()
	ev := events.New(events.ReservationCreated, roomID)
	ev.ReservationID = res.ID
	ev.UserID = res.UserID
	ev.Start, ev.End = &res.StartTime, &res.EndTime
	if err := s.pub.Publish(ctx, ev); err != nil {
		log.Printf("[reservations] publish %s: %v", ev.Type, err)
	}
	return res, nil
}

// Mine lists the caller's reservations, earliest first.
func (s *ReservationSvc) Mine(ctx context.Context, id auth.Identity) ([]models.Reservation, error) {
	if !id.Authenticated() {
		return nil, apperrors.ErrUnauthorized
	}
	return s.list.List(ctx, models.ReservationFilter{UserID: id.UserID})
}

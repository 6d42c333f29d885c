// suspension.go - Admin switch that stops new reservations
// A suspended system rejects every booking attempt with 503 until an admin
// resumes it. The state lives in this process only.

package services

import (
	"sync"
	"time"

	"go-room-booking/apperrors"
)

// SuspensionState is a snapshot of the booking switch.
type SuspensionState struct {
	Suspended   bool       `json:"suspended"`
	Reason      string     `json:"reason,omitempty"`
	SuspendedBy string     `json:"suspended_by,omitempty"`
	SuspendedAt *time.Time `json:"suspended_at,omitempty"` // nil while bookings are on
}

// Suspension guards the booking switch.
type Suspension struct {
	mu    sync.Mutex
	state SuspensionState
	now   func() time.Time
}

func NewSuspension() *Suspension {
	return &Suspension{now: time.Now}
}

// Suspend turns bookings off, recording who did it and why.
func (s *Suspension) Suspend(by, reason string) SuspensionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	at := s.now().UTC()
	s.state = SuspensionState{
		Suspended:   true,
		Reason:      reason,
		SuspendedBy: by,
		SuspendedAt: &at,
	}
	return s.state
}

// Resume clears the switch.
func (s *Suspension) Resume() {
	s.mu.Lock()
	s.state = SuspensionState{}
	s.mu.Unlock()
}

func (s *Suspension) State() SuspensionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Check returns a *SuspendedError while bookings are off.
func (s *Suspension) Check() error {
	if s == nil {
		return nil
	}
	st := s.State()
	if !st.Suspended {
		return nil
	}
	return &SuspendedError{State: st}
}

// SuspendedError is ErrBookingsSuspended plus the details of who stopped
// bookings, which the HTTP layer adds to the response body.
type SuspendedError struct {
	State SuspensionState
}

func (e *SuspendedError) Error() string {
	return apperrors.ErrBookingsSuspended.Message
}

func (e *SuspendedError) Unwrap() error {
	return apperrors.ErrBookingsSuspended
}

// Details lists the extra response fields.
func (e *SuspendedError) Details() map[string]any {
	return map[string]any{
		"reason":       e.State.Reason,
		"suspended_by": e.State.SuspendedBy,
		"suspended_at": e.State.SuspendedAt,
	}
}

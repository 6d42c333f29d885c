package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-room-booking/apperrors"
	"go-room-booking/auth"
	"go-room-booking/events"
	"go-room-booking/models"
	"go-room-booking/repository"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) WithTx(ctx context.Context, fn func(tx repository.ReservationStore) error) error {
	m.Called(ctx)
	return fn(m)
}

func (m *mockStore) LockRoom(ctx context.Context, roomID uint) (*models.Room, error) {
	args := m.Called(ctx, roomID)
	room, _ := args.Get(0).(*models.Room)
	return room, args.Error(1)
}

func (m *mockStore) FindOverlapping(ctx context.Context, roomID uint, start, end time.Time) ([]models.Reservation, error) {
	args := m.Called(ctx, roomID, start, end)
	res, _ := args.Get(0).([]models.Reservation)
	return res, args.Error(1)
}

func (m *mockStore) InsertReservation(ctx context.Context, r *models.Reservation) error {
	return m.Called(ctx, r).Error(0)
}

var member = auth.Identity{UserID: 7, Name: "Ana", Email: "ana@example.com", AccessLevel: models.AccessUser}

func TestParseInstant(t *testing.T) {
	want := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2026-03-02T10:00:00Z", want},
		{"2026-03-02T10:00:00.000Z", want},
		{"2026-03-02T12:00:00+02:00", want},
		{"2026-03-02T10:00:00", want},
		{"2026-03-02T10:00", want},
		{" 2026-03-02T10:00:00Z ", want},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseInstant(tc.in)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got))
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	for _, bad := range []string{"", "tomorrow", "2026-03-02", "10:00"} {
		_, err := ParseInstant(bad)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTime, bad)
	}
}

func TestCreateRejectsAnonymousBeforeStoreAccess(t *testing.T) {
	store := new(mockStore)
	pub := &recorder{}
	svc := NewReservationSvc(store, nil, pub, NewSuspension())

	_, err := svc.Create(context.Background(), auth.Identity{}, 1, iso(at(10, 0)), iso(at(11, 0)))
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Empty(t, store.Calls)
	assert.Empty(t, pub.types())
}

func TestCreateValidatesInputBeforeStoreAccess(t *testing.T) {
	store := new(mockStore)
	svc := NewReservationSvc(store, nil, nil, NewSuspension())
	ctx := context.Background()

	_, err := svc.Create(ctx, member, 1, "soon", iso(at(11, 0)))
	assert.ErrorIs(t, err, apperrors.ErrInvalidTime)

	_, err = svc.Create(ctx, member, 1, iso(at(11, 0)), iso(at(10, 0)))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInterval)

	_, err = svc.Create(ctx, member, 1, iso(at(10, 0)), iso(at(10, 0)))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInterval)

	assert.Empty(t, store.Calls)
}

func TestCreateConflictSkipsInsert(t *testing.T) {
	store := new(mockStore)
	pub := &recorder{}
	svc := NewReservationSvc(store, nil, pub, NewSuspension())

	store.On("WithTx", mock.Anything).Return()
	store.On("LockRoom", mock.Anything, uint(3)).Return(&models.Room{ID: 3}, nil)
	store.On("FindOverlapping", mock.Anything, uint(3), at(10, 30), at(11, 30)).
		Return([]models.Reservation{{ID: 1, RoomID: 3, StartTime: at(10, 0), EndTime: at(11, 0)}}, nil)

	_, err := svc.Create(context.Background(), member, 3, iso(at(10, 30)), iso(at(11, 30)))
	assert.ErrorIs(t, err, apperrors.ErrSlotTaken)
	assert.Equal(t, "time slot already booked", err.Error())
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "InsertReservation", mock.Anything, mock.Anything)
	assert.Empty(t, pub.types())
}

func TestCreateInsertsBoundToCaller(t *testing.T) {
	store := new(mockStore)
	pub := &recorder{}
	svc := NewReservationSvc(store, nil, pub, NewSuspension())

	store.On("WithTx", mock.Anything).Return()
	store.On("LockRoom", mock.Anything, uint(3)).Return(&models.Room{ID: 3}, nil)
	store.On("FindOverlapping", mock.Anything, uint(3), at(10, 0), at(11, 0)).Return([]models.Reservation(nil), nil)
	store.On("InsertReservation", mock.Anything, mock.MatchedBy(func(r *models.Reservation) bool {
		return r.RoomID == 3 && r.UserID == member.UserID
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Reservation).ID = 42
	}).Return(nil)

	res, err := svc.Create(context.Background(), member, 3, iso(at(10, 0)), iso(at(11, 0)))
	require.NoError(t, err)
	assert.Equal(t, uint(42), res.ID)
	store.AssertExpectations(t)

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, events.ReservationCreated, ev.Type)
	assert.Equal(t, uint(3), ev.RoomID)
	assert.Equal(t, uint(42), ev.ReservationID)
}

func TestCreateMissingRoom(t *testing.T) {
	store := new(mockStore)
	svc := NewReservationSvc(store, nil, nil, NewSuspension())

	store.On("WithTx", mock.Anything).Return()
	store.On("LockRoom", mock.Anything, uint(9)).Return(nil, repository.ErrNotFound)

	_, err := svc.Create(context.Background(), member, 9, iso(at(10, 0)), iso(at(11, 0)))
	assert.ErrorIs(t, err, apperrors.ErrRoomNotFound)
	store.AssertNotCalled(t, "FindOverlapping", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateStoreFailureIsInternal(t *testing.T) {
	store := new(mockStore)
	svc := NewReservationSvc(store, nil, nil, NewSuspension())

	store.On("WithTx", mock.Anything).Return()
	store.On("LockRoom", mock.Anything, uint(3)).Return(nil, errors.New("disk I/O error"))

	_, err := svc.Create(context.Background(), member, 3, iso(at(10, 0)), iso(at(11, 0)))
	require.Error(t, err)
	assert.True(t, apperrors.IsInternal(err))
}

func TestCreateAgainstSchedule(t *testing.T) {
	cases := []struct {
		name       string
		existing   [][2]time.Time
		start, end time.Time
		wantErr    error
	}{
		{"empty schedule", nil, at(10, 0), at(11, 0), nil},
		{"partial overlap", [][2]time.Time{{at(10, 0), at(11, 0)}}, at(10, 30), at(11, 30), apperrors.ErrSlotTaken},
		{"back to back after", [][2]time.Time{{at(10, 0), at(11, 0)}}, at(11, 0), at(12, 0), nil},
		{"back to back before", [][2]time.Time{{at(10, 0), at(11, 0)}}, at(9, 0), at(10, 0), nil},
		{"contained", [][2]time.Time{{at(10, 0), at(12, 0)}}, at(10, 30), at(11, 30), apperrors.ErrSlotTaken},
		{"containing", [][2]time.Time{{at(10, 30), at(11, 0)}}, at(10, 0), at(12, 0), apperrors.ErrSlotTaken},
		{"identical", [][2]time.Time{{at(10, 0), at(11, 0)}}, at(10, 0), at(11, 0), apperrors.ErrSlotTaken},
		{"between two", [][2]time.Time{{at(9, 0), at(10, 0)}, {at(11, 0), at(12, 0)}}, at(10, 0), at(11, 0), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newEnv(t)
			ctx := context.Background()
			ana := env.addUser(t, "Ana", "ana@example.com", models.AccessUser)
			room := env.addRoom(t, "Atlas", 6)
			for _, iv := range tc.existing {
				_, err := env.reservations.Create(ctx, ana, room.ID, iso(iv[0]), iso(iv[1]))
				require.NoError(t, err)
			}

			res, err := env.reservations.Create(ctx, ana, room.ID, iso(tc.start), iso(tc.end))
			all, listErr := env.resRepo.List(ctx, models.ReservationFilter{RoomID: room.ID})
			require.NoError(t, listErr)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Len(t, all, len(tc.existing))
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.start.Equal(res.StartTime))
			assert.True(t, tc.end.Equal(res.EndTime))
			require.NotNil(t, res.User)
			assert.Equal(t, "Ana", res.User.Name)
			assert.Equal(t, "ana@example.com", res.User.Email)
			assert.Len(t, all, len(tc.existing)+1)
		})
	}
}

func TestCreateOtherRoomDoesNotConflict(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	ana := env.addUser(t, "Ana", "ana@example.com", models.AccessUser)
	atlas := env.addRoom(t, "Atlas", 6)
	borealis := env.addRoom(t, "Borealis", 4)

	_, err := env.reservations.Create(ctx, ana, atlas.ID, iso(at(10, 0)), iso(at(11, 0)))
	require.NoError(t, err)
	_, err = env.reservations.Create(ctx, ana, borealis.ID, iso(at(10, 0)), iso(at(11, 0)))
	assert.NoError(t, err)
}

func TestCreateConcurrentSameSlot(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	room := env.addRoom(t, "Atlas", 6)

	const n = 8
	callers := make([]auth.Identity, n)
	for i := range callers {
		callers[i] = env.addUser(t, "User", "user"+string(rune('a'+i))+"@example.com", models.AccessUser)
	}

	var (
		wg      sync.WaitGroup
		created atomic.Int32
		taken   atomic.Int32
	)
	startLine := make(chan struct{})
	for _, id := range callers {
		wg.Add(1)
		go func(id auth.Identity) {
			defer wg.Done()
			<-startLine
			_, err := env.reservations.Create(ctx, id, room.ID, iso(at(10, 0)), iso(at(11, 0)))
			switch {
			case err == nil:
				created.Add(1)
			case errors.Is(err, apperrors.ErrSlotTaken):
				taken.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(id)
	}
	close(startLine)
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
	assert.Equal(t, int32(n-1), taken.Load())
	all, err := env.resRepo.List(ctx, models.ReservationFilter{RoomID: room.ID})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateWhileSuspended(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	ana := env.addUser(t, "Ana", "ana@example.com", models.AccessUser)
	room := env.addRoom(t, "Atlas", 6)

	env.gate.Suspend("admin@example.com", "fire drill")
	_, err := env.reservations.Create(ctx, ana, room.ID, iso(at(10, 0)), iso(at(11, 0)))
	assert.ErrorIs(t, err, apperrors.ErrBookingsSuspended)
	assert.Equal(t, 503, apperrors.GetStatus(err))

	var suspended *SuspendedError
	require.ErrorAs(t, err, &suspended)
	assert.Equal(t, "fire drill", suspended.Details()["reason"])
	assert.Equal(t, "admin@example.com", suspended.Details()["suspended_by"])

	env.gate.Resume()
	_, err = env.reservations.Create(ctx, ana, room.ID, iso(at(10, 0)), iso(at(11, 0)))
	assert.NoError(t, err)
}

func TestMine(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	ana := env.addUser(t, "Ana", "ana@example.com", models.AccessUser)
	ben := env.addUser(t, "Ben", "ben@example.com", models.AccessUser)
	room := env.addRoom(t, "Atlas", 6)

	_, err := env.reservations.Create(ctx, ana, room.ID, iso(at(14, 0)), iso(at(15, 0)))
	require.NoError(t, err)
	_, err = env.reservations.Create(ctx, ben, room.ID, iso(at(11, 0)), iso(at(12, 0)))
	require.NoError(t, err)
	_, err = env.reservations.Create(ctx, ana, room.ID, iso(at(9, 0)), iso(at(10, 0)))
	require.NoError(t, err)

	mine, err := env.reservations.Mine(ctx, ana)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.True(t, at(9, 0).Equal(mine[0].StartTime))
	assert.True(t, at(14, 0).Equal(mine[1].StartTime))

	_, err = env.reservations.Mine(ctx, auth.Identity{})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

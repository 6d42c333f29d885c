package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-room-booking/auth"
	"go-room-booking/config"
	"go-room-booking/database"
	"go-room-booking/events"
	"go-room-booking/models"
	"go-room-booking/repository"
)

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func iso(t time.Time) string {
	return t.Format(time.RFC3339)
}

// recorder collects published events.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, ev events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

// testEnv wires every service against a fresh SQLite database.
type testEnv struct {
	db           *gorm.DB
	users        *repository.UserRepo
	rooms        *repository.RoomRepo
	resRepo      *repository.ReservationRepo
	tokens       *auth.Tokens
	revoker      *auth.MemoryDenylist
	gate         *Suspension
	pub          *recorder
	auth         *AuthSvc
	user         *UserSvc
	room         *RoomSvc
	reservations *ReservationSvc
	admin        *AdminSvc
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Connect(&config.Config{
		DBDriver: config.DriverSQLite,
		DBPath:   filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)

	e := &testEnv{
		db:      db,
		users:   repository.NewUserRepo(db),
		rooms:   repository.NewRoomRepo(db),
		resRepo: repository.NewReservationRepo(db),
		tokens:  auth.NewTokens("test-secret", "go-room-booking", time.Hour),
		revoker: auth.NewMemoryDenylist(),
		gate:    NewSuspension(),
		pub:     &recorder{},
	}
	e.auth = NewAuthSvc(e.users, e.tokens, e.revoker)
	e.user = NewUserSvc(e.users)
	e.room = NewRoomSvc(e.rooms, e.resRepo, e.pub)
	e.reservations = NewReservationSvc(e.resRepo, e.resRepo, e.pub, e.gate)
	e.admin = NewAdminSvc(e.users, e.rooms, e.resRepo, e.gate)
	return e
}

// addUser registers an account and returns its identity.
func (e *testEnv) addUser(t *testing.T, name, email, level string) auth.Identity {
	t.Helper()
	u, err := newUser(name, email, "secret123", level)
	require.NoError(t, err)
	require.NoError(t, e.users.Create(context.Background(), u))
	return auth.NewIdentity(u, nil)
}

func (e *testEnv) addRoom(t *testing.T, name string, capacity int) *models.Room {
	t.Helper()
	room := &models.Room{Name: name, Capacity: capacity, Location: "HQ"}
	require.NoError(t, e.rooms.Create(context.Background(), room))
	return room
}

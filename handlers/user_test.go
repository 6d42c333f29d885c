// user_test.go - Tests for registration, login and profile handlers

package handlers

import (
	"bytes"         // For building request bodies
	"context"       // Service calls in helpers
	"encoding/json" // For encoding/decoding JSON
	"net/http"      // HTTP status codes
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert" // For assertions
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-room-booking/auth"
	"go-room-booking/config"
	"go-room-booking/database"
	"go-room-booking/models"
	"go-room-booking/realtime"
	"go-room-booking/repository"
	"go-room-booking/services"
)

type testApp struct {
	db     *gorm.DB
	router *gin.Engine
	h      *Handler
	hub    *realtime.Hub
}

// setupApp builds the full router on a fresh SQLite file.
func setupApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := database.Connect(&config.Config{
		DBDriver: config.DriverSQLite,
		DBPath:   filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)

	users := repository.NewUserRepo(db)
	rooms := repository.NewRoomRepo(db)
	reservations := repository.NewReservationRepo(db)
	tokens := auth.NewTokens("test-secret", "go-room-booking", time.Hour)
	hub := realtime.NewHub()
	t.Cleanup(hub.Close)
	gate := services.NewSuspension()

	h := &Handler{
		Auth:         services.NewAuthSvc(users, tokens, auth.NewMemoryDenylist()),
		Users:        services.NewUserSvc(users),
		Rooms:        services.NewRoomSvc(rooms, reservations, hub),
		Reservations: services.NewReservationSvc(reservations, reservations, hub, gate),
		Admin:        services.NewAdminSvc(users, rooms, reservations, gate),
		Hub:          hub,
	}
	return &testApp{db: db, router: NewRouter(h, h.Auth), h: h, hub: hub}
}

// call sends a JSON request and decodes the JSON response.
func (a *testApp) call(method, path, token string, in any) (*httptest.ResponseRecorder, map[string]any) {
	var body bytes.Buffer
	if in != nil {
		_ = json.NewEncoder(&body).Encode(in)
	}
	req, _ := http.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

// signup registers an account through the API and returns its token.
func (a *testApp) signup(t *testing.T, name, email string) string {
	t.Helper()
	w, _ := a.call(http.MethodPost, "/register", "", RegisterInput{Name: name, Email: email, Password: "testpass"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return a.login(t, email, "testpass")
}

func (a *testApp) login(t *testing.T, email, password string) string {
	t.Helper()
	w, out := a.call(http.MethodPost, "/login", "", LoginInput{Email: email, Password: password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return out["token"].(string)
}

// adminToken registers an account, promotes it to admin and returns its token.
func (a *testApp) adminToken(t *testing.T) string {
	t.Helper()
	tok := a.signup(t, "Root", "root@example.com")
	id, err := a.h.Auth.Authenticate(context.Background(), tok)
	require.NoError(t, err)
	require.NoError(t, a.db.Model(&models.User{}).Where("id = ?", id.UserID).
		Update("access_level", models.AccessAdmin).Error)
	return tok
}

// TestRegisterAndLogin tests user registration and login
func TestRegisterAndLogin(t *testing.T) {
	app := setupApp(t)

	// --- Test registration ---
	w, out := app.call(http.MethodPost, "/register", "", RegisterInput{Name: "Test", Email: "test@example.com", Password: "testpass"})
	assert.Equal(t, http.StatusCreated, w.Code)
	user := out["user"].(map[string]any)
	assert.Equal(t, "test@example.com", user["email"])
	assert.Equal(t, "user", user["access_level"])
	assert.NotContains(t, w.Body.String(), "password")

	// --- Duplicate registration ---
	w, out = app.call(http.MethodPost, "/register", "", RegisterInput{Name: "Test", Email: "test@example.com", Password: "testpass"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "user already exists", out["error"])

	// --- Test login ---
	w, out = app.call(http.MethodPost, "/login", "", LoginInput{Email: "test@example.com", Password: "testpass"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, out["token"])

	// --- Wrong password ---
	w, out = app.call(http.MethodPost, "/login", "", LoginInput{Email: "test@example.com", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", out["error"])
}

func TestRegisterValidation(t *testing.T) {
	app := setupApp(t)

	w, _ := app.call(http.MethodPost, "/register", "", map[string]string{"email": "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, out := app.call(http.MethodPost, "/register", "", RegisterInput{Name: "X", Email: "x@example.com", Password: "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "password must be at least 6 characters", out["error"])
}

func TestProfileFlow(t *testing.T) {
	app := setupApp(t)
	token := app.signup(t, "Ana", "ana@example.com")
	app.signup(t, "Ben", "ben@example.com")

	w, out := app.call(http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ana", out["name"])

	w, out = app.call(http.MethodPut, "/api/profile", token, ProfileInput{Name: "Ana M", Email: "ana.m@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana.m@example.com", out["email"])

	w, _ = app.call(http.MethodPut, "/api/profile", token, ProfileInput{Name: "Ana", Email: "ben@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, out = app.call(http.MethodPut, "/api/profile/password", token, PasswordInput{CurrentPassword: "wrong", NewPassword: "another1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "current password is incorrect", out["error"])

	w, _ = app.call(http.MethodPut, "/api/profile/password", token, PasswordInput{CurrentPassword: "testpass", NewPassword: "another1"})
	assert.Equal(t, http.StatusOK, w.Code)
	app.login(t, "ana.m@example.com", "another1")
}

func TestLogout(t *testing.T) {
	app := setupApp(t)
	token := app.signup(t, "Ana", "ana@example.com")

	w, _ := app.call(http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, out := app.call(http.MethodGet, "/api/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "not authorized", out["error"])
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	app := setupApp(t)
	for _, path := range []string{"/api/profile", "/api/rooms", "/api/reservations", "/api/admin"} {
		w, out := app.call(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Equal(t, "not authorized", out["error"], path)
	}
}

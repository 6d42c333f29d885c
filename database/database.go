// database.go - Handles database connection and setup

package database

import (
	"errors"
	"fmt"
	"log"
	"net/mail"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"go-room-booking/config"
	"go-room-booking/models"
)

// Connect opens the configured database and runs migrations.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseURL)
	default:
		dialector = sqlite.Open(SQLiteDSN(cfg.DBPath))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(log.New(os.Stderr, "[gorm] ", log.LstdFlags), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true, // unique violations surface as gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// SQLiteDSN builds a DSN for mattn/go-sqlite3. Every transaction starts with
// BEGIN IMMEDIATE so concurrent writers queue on the database lock instead
// of both passing the overlap check.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_txlock=immediate&_busy_timeout=5000&_foreign_keys=on", path)
}

// Migrate creates or updates the tables (create table if needed).
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Room{}, &models.Reservation{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// ErrInvalidAdmin is returned when the bootstrap admin credentials would
// produce an account that cannot log in.
var ErrInvalidAdmin = errors.New("invalid admin credentials")

// EnsureAdmin creates an admin account unless one already exists.
// It reports whether a new account was created. The email is stored in the
// same normalized form Login looks up.
func EnsureAdmin(db *gorm.DB, name, email, password string) (bool, error) {
	name = strings.TrimSpace(name)
	email = models.NormalizeEmail(email)
	switch {
	case name == "":
		return false, fmt.Errorf("%w: name is required", ErrInvalidAdmin)
	case !validEmail(email):
		return false, fmt.Errorf("%w: email %q is invalid", ErrInvalidAdmin, email)
	case len(password) < models.MinPasswordLength:
		return false, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidAdmin, models.MinPasswordLength)
	}

	var count int64
	if err := db.Model(&models.User{}).Where("access_level = ?", models.AccessAdmin).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	admin := models.User{
		Name:        name,
		Email:       email,
		Password:    string(hash),
		AccessLevel: models.AccessAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return false, err
	}
	return true, nil
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// SeedDefaultAdmin creates the default admin user if configured and none exists.
// Credentials come from the environment instead of being hardcoded.
func SeedDefaultAdmin(db *gorm.DB, cfg *config.Config) error {
	if !cfg.CreateAdmin {
		return nil
	}
	created, err := EnsureAdmin(db, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		log.Printf("[database] created default admin %s", models.NormalizeEmail(cfg.AdminEmail))
	}
	return nil
}

// user.go - Defines the User model for the database

package models

import (
	"strings"
	"time"
)

// Access levels understood by the authorization layer.
const (
	AccessAdmin = "admin"
	AccessUser  = "user"
)

// MinPasswordLength applies to every account, including the seeded admin.
const MinPasswordLength = 6

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"` // stored normalized, see NormalizeEmail
	Password    string    `gorm:"not null" json:"-"`                 // bcrypt hash
	AccessLevel string    `gorm:"not null;default:'user'" json:"access_level"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user may manage rooms and users.
func (u *User) IsAdmin() bool {
	return u.AccessLevel == AccessAdmin
}

// ValidAccessLevel reports whether level is one of the known access levels.
func ValidAccessLevel(level string) bool {
	return level == AccessAdmin || level == AccessUser
}

// NormalizeEmail is the stored and looked-up form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

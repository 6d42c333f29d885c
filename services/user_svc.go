// user_svc.go - Profile management and admin user administration

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"go-room-booking/apperrors"
	"go-room-booking/auth"
	"go-room-booking/models"
	"go-room-booking/repository"
)

type UserSvc struct {
	users *repository.UserRepo
}

func NewUserSvc(users *repository.UserRepo) *UserSvc {
	return &UserSvc{users: users}
}

func (s *UserSvc) Profile(ctx context.Context, id auth.Identity) (*models.User, error) {
	if !id.Authenticated() {
		return nil, apperrors.ErrUnauthorized
	}
	return s.load(ctx, id.UserID)
}

// UpdateProfile changes the caller's name and email.
func (s *UserSvc) UpdateProfile(ctx context.Context, id auth.Identity, name, email string) (*models.User, error) {
	if !id.Authenticated() {
		return nil, apperrors.ErrUnauthorized
	}
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return nil, apperrors.Invalid("name is required")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	taken, err := s.users.EmailTaken(ctx, email, id.UserID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrEmailTaken
	}
	u, err := s.users.UpdateProfile(ctx, id.UserID, name, email)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return nil, apperrors.ErrEmailTaken
	case errors.Is(err, repository.ErrNotFound):
		return nil, apperrors.ErrUserNotFound
	case err != nil:
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

// ChangePassword replaces the caller's password after checking the current one.
func (s *UserSvc) ChangePassword(ctx context.Context, id auth.Identity, current, next string) error {
	if !id.Authenticated() {
		return apperrors.ErrUnauthorized
	}
	u, err := s.load(ctx, id.UserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(current)); err != nil {
		return apperrors.ErrWrongPassword
	}
	if len(next) < models.MinPasswordLength {
		return apperrors.Invalid(fmt.Sprintf("password must be at least %d characters", models.MinPasswordLength))
	}
	hash, err := hashPassword(next)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, id.UserID, hash)
}

// NewUser is an account created by an admin.
type NewUser struct {
	Name        string
	Email       string
	Password    string
	AccessLevel string
}

// Create adds an account with any access level. Admin only.
func (s *UserSvc) Create(ctx context.Context, id auth.Identity, in NewUser) (*models.User, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	level := in.AccessLevel
	if level == "" {
		level = models.AccessUser
	}
	u, err := newUser(in.Name, in.Email, in.Password, level)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// List returns every account. Admin only.
func (s *UserSvc) List(ctx context.Context, id auth.Identity) ([]models.User, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

func (s *UserSvc) load(ctx context.Context, userID uint) (*models.User, error) {
	u, err := s.users.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// requireAdmin rejects anonymous callers with 401 and everyone else but
// admins with 403.
func requireAdmin(id auth.Identity) error {
	if !id.Authenticated() {
		return apperrors.ErrUnauthorized
	}
	if !id.IsAdmin() {
		return apperrors.ErrForbidden
	}
	return nil
}

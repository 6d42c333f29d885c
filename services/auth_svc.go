// auth_svc.go - Registration, login, logout and token authentication

package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"go-room-booking/apperrors"
	"go-room-booking/auth"
	"go-room-booking/models"
	"go-room-booking/repository"
)

type AuthSvc struct {
	users   *repository.UserRepo
	tokens  *auth.Tokens
	revoker auth.Revoker
}

func NewAuthSvc(users *repository.UserRepo, tokens *auth.Tokens, revoker auth.Revoker) *AuthSvc {
	return &AuthSvc{users: users, tokens: tokens, revoker: revoker}
}

// Register creates a regular user. Self-registration never grants admin.
func (s *AuthSvc) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	u, err := newUser(name, email, password, models.AccessUser)
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

// Login checks the credentials and issues an access token.
func (s *AuthSvc) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	u, err := s.users.ByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}
	token, _, err := s.tokens.Issue(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Logout revokes the token that authenticated id until it expires.
func (s *AuthSvc) Logout(ctx context.Context, id auth.Identity) error {
	if !id.Authenticated() || id.TokenID == "" {
		return apperrors.ErrUnauthorized
	}
	return s.revoker.Revoke(ctx, id.TokenID, id.ExpiresAt)
}

// Authenticate resolves a bearer token to the caller's identity. The user is
// reloaded so deletions and access-level changes apply immediately.
func (s *AuthSvc) Authenticate(ctx context.Context, token string) (auth.Identity, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return auth.Identity{}, apperrors.ErrUnauthorized
	}
	userID, err := claims.UserID()
	if err != nil {
		return auth.Identity{}, apperrors.ErrUnauthorized
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return auth.Identity{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return auth.Identity{}, apperrors.ErrUnauthorized
	}
	u, err := s.users.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return auth.Identity{}, apperrors.ErrUnauthorized
		}
		return auth.Identity{}, err
	}
	return auth.NewIdentity(u, claims), nil
}

// newUser validates the fields of a new account and hashes its password.
func newUser(name, email, password, level string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return nil, apperrors.Invalid("name is required")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(password) < models.MinPasswordLength {
		return nil, apperrors.Invalid(fmt.Sprintf("password must be at least %d characters", models.MinPasswordLength))
	}
	if !models.ValidAccessLevel(level) {
		return nil, apperrors.Invalid("access_level must be admin or user")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	return &models.User{Name: name, Email: email, Password: hash, AccessLevel: level}, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return models.NormalizeEmail(email)
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return apperrors.Invalid("email is invalid")
	}
	return nil
}

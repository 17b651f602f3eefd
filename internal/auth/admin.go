// Package auth holds the single admin credential and session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"vestadmin/internal/kv"
)

const (
	// AdminKey is where the admin record lives in the key-value store.
	AdminKey = "user_admin"

	DefaultAdminID       = "admin"
	DefaultAdminPassword = "admin1234"

	MinPasswordLength = 6
	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72
)

var (
	ErrInvalidCredentials = errors.New("invalid id or password")
	ErrIncorrectPassword  = errors.New("current password is incorrect")
	ErrPasswordTooShort   = fmt.Errorf("new password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong    = fmt.Errorf("new password must be at most %d bytes", MaxPasswordBytes)
	ErrMissingFields      = errors.New("required fields are missing")
)

// AdminUser is the stored admin record.
type AdminUser struct {
	ID           string    `json:"id"`
	PasswordHash string    `json:"password"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AdminStore reads and writes the admin credential. Writes are
// last-write-wins.
type AdminStore struct {
	store kv.Store
	cost  int
	now   func() time.Time
}

func NewAdminStore(store kv.Store) *AdminStore {
	return &AdminStore{
		store: store,
		cost:  BcryptCost,
		now:   time.Now,
	}
}

// EnsureAdmin returns the stored admin, creating the default one if the
// key is absent.
func (s *AdminStore) EnsureAdmin(ctx context.Context) (AdminUser, error) {
	var user AdminUser
	err := kv.GetJSON(ctx, s.store, AdminKey, &user)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, kv.ErrNotFound) {
		return AdminUser{}, fmt.Errorf("load admin: %w", err)
	}

	hash, err := hashPassword(DefaultAdminPassword, s.cost)
	if err != nil {
		return AdminUser{}, err
	}
	user = AdminUser{ID: DefaultAdminID, PasswordHash: hash, UpdatedAt: s.now().UTC()}
	if err := kv.SetJSON(ctx, s.store, AdminKey, user); err != nil {
		return AdminUser{}, fmt.Errorf("create default admin: %w", err)
	}

	slog.WarnContext(ctx, "Created default admin account, change its password", "id", user.ID)
	return user, nil
}

// Verify checks id and password against the stored admin. The id is
// compared exactly. Both a wrong id and a wrong password yield
// ErrInvalidCredentials.
func (s *AdminStore) Verify(ctx context.Context, id, password string) (AdminUser, error) {
	if id == "" || password == "" {
		return AdminUser{}, ErrMissingFields
	}

	user, err := s.EnsureAdmin(ctx)
	if err != nil {
		return AdminUser{}, err
	}
	if id != user.ID || !checkPassword(user.PasswordHash, password) {
		return AdminUser{}, ErrInvalidCredentials
	}
	return user, nil
}

// ChangePassword re-verifies current and stores a hash of next.
func (s *AdminStore) ChangePassword(ctx context.Context, current, next string) error {
	if current == "" || next == "" {
		return ErrMissingFields
	}
	if err := validatePassword(next); err != nil {
		return err
	}

	user, err := s.EnsureAdmin(ctx)
	if err != nil {
		return err
	}
	if !checkPassword(user.PasswordHash, current) {
		return ErrIncorrectPassword
	}

	hash, err := hashPassword(next, s.cost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = s.now().UTC()
	if err := kv.SetJSON(ctx, s.store, AdminKey, user); err != nil {
		return fmt.Errorf("save admin: %w", err)
	}

	slog.InfoContext(ctx, "Admin password changed", "id", user.ID)
	return nil
}

// SetPassword overwrites the admin password without checking the old one.
// Used by the provisioning command.
func (s *AdminStore) SetPassword(ctx context.Context, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	user, err := s.EnsureAdmin(ctx)
	if err != nil {
		return err
	}
	hash, err := hashPassword(password, s.cost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = s.now().UTC()
	if err := kv.SetJSON(ctx, s.store, AdminKey, user); err != nil {
		return fmt.Errorf("save admin: %w", err)
	}
	return nil
}

func validatePassword(password string) error {
	switch {
	case len(password) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > MaxPasswordBytes:
		return ErrPasswordTooLong
	}
	return nil
}

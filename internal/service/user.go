package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hclin/fleetflow/backend/internal/domain"
	"github.com/hclin/fleetflow/backend/internal/repo"
)

// UserService implements staff account management. PINs are 4-digit codes
// and are stored bcrypt-hashed only — the plaintext never survives the
// request that carried it.
type UserService struct {
	users repo.UserRepo
}

// NewUserService constructs a UserService backed by the provided repo.
func NewUserService(users repo.UserRepo) *UserService {
	return &UserService{users: users}
}

// Create validates and registers a new user with the given plaintext PIN.
func (s *UserService) Create(ctx context.Context, u domain.User, pin string) (domain.User, error) {
	if err := validateUser(u); err != nil {
		return domain.User{}, err
	}
	hash, err := hashPIN(pin)
	if err != nil {
		return domain.User{}, err
	}
	u.PINHash = hash

	created, err := s.users.Create(ctx, u)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single user by ID.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.GetByID: %w", err)
	}
	return u, nil
}

// List returns all users.
// Always returns a non-nil slice so callers can safely range over it.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.UserService.List: %w", err)
	}
	if users == nil {
		return []domain.User{}, nil
	}
	return users, nil
}

// Update persists changes to a user. An empty pin leaves the stored PIN
// unchanged; a non-empty pin replaces it.
func (s *UserService) Update(ctx context.Context, u domain.User, pin string) (domain.User, error) {
	if err := validateUser(u); err != nil {
		return domain.User{}, err
	}
	if pin != "" {
		hash, err := hashPIN(pin)
		if err != nil {
			return domain.User{}, err
		}
		u.PINHash = hash
	} else {
		u.PINHash = ""
	}

	updated, err := s.users.Update(ctx, u)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a user by ID.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.UserService.Delete: %w", err)
	}
	return nil
}

// validateUser enforces rules common to both Create and Update.
func validateUser(u domain.User) error {
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if !u.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", domain.ErrValidation, u.Role)
	}
	return nil
}

// hashPIN validates the 4-digit form and returns its bcrypt hash.
func hashPIN(pin string) (string, error) {
	if !validPIN(pin) {
		return "", fmt.Errorf("%w: pin must be exactly 4 digits", domain.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("service: hash pin: %w", err)
	}
	return string(hash), nil
}

// validPIN reports whether pin is exactly four ASCII digits.
func validPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

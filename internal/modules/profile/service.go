// README: Account registration and credential checks. This is the thin
// stand-in for a hosted auth provider; roles are immutable after signup.
package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"vdeliveries/internal/types"
)

var (
	ErrBadCredentials = errors.New("invalid phone or password")
	ErrBadRequest     = errors.New("bad request")
	ErrPhoneTaken     = errors.New("phone already registered")
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

type SignupCommand struct {
	FullName     string
	Phone        string
	Password     string
	Role         Role
	VehicleClass string
}

// Signup creates an account. Admin accounts are provisioned out of band, never
// through the public signup path.
func (s *Service) Signup(ctx context.Context, cmd SignupCommand) (*Profile, error) {
	if strings.TrimSpace(cmd.FullName) == "" || strings.TrimSpace(cmd.Phone) == "" || len(cmd.Password) < 6 {
		return nil, ErrBadRequest
	}
	if cmd.Role != RoleDriver && cmd.Role != RoleClient {
		return nil, ErrBadRequest
	}
	if _, err := s.store.GetByPhone(ctx, cmd.Phone); err == nil {
		return nil, ErrPhoneTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	p := &Profile{
		ID:           types.NewID(),
		FullName:     cmd.FullName,
		Phone:        cmd.Phone,
		Role:         cmd.Role,
		VehicleClass: cmd.VehicleClass,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Authenticate verifies credentials and returns the profile on success.
func (s *Service) Authenticate(ctx context.Context, phone, password string) (*Profile, error) {
	p, err := s.store.GetByPhone(ctx, phone)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Profile, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Drivers(ctx context.Context) ([]Profile, error) {
	return s.store.ListByRole(ctx, RoleDriver)
}

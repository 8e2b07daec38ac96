package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lbsshop/storefront-api/internal/core/domain"
	"github.com/lbsshop/storefront-api/internal/core/ports"
)

type UserService struct {
	users ports.UserRepository
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) List(ctx context.Context, caller ports.Caller) ([]*domain.User, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, caller ports.Caller, userID string) (*domain.User, error) {
	if !caller.CanAccess(userID) {
		return nil, domain.ErrForbidden
	}
	return s.users.FindByID(ctx, userID)
}

// UpdateProfile changes name and/or email. Role and password are not editable here.
func (s *UserService) UpdateProfile(ctx context.Context, caller ports.Caller, userID string, in ports.UpdateProfileInput) (*domain.User, error) {
	if !caller.CanAccess(userID) {
		return nil, domain.ErrForbidden
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", domain.ErrValidation)
		}
		user.Name = name
	}
	if in.Email != nil {
		email, err := normalizeEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		if email != user.Email {
			existing, err := s.users.FindByEmail(ctx, email)
			switch {
			case err == nil && existing.ID != user.ID:
				return nil, domain.ErrDuplicateEmail
			case err != nil && !errors.Is(err, domain.ErrUserNotFound):
				return nil, fmt.Errorf("update profile: %w", err)
			}
			user.Email = email
		}
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", user.ID).Str("by", caller.UserID).Msg("profile updated")
	return user, nil
}

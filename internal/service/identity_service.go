package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/it-repair-service/internal/domain"
	"github.com/spec-kit/it-repair-service/internal/line"
	"github.com/spec-kit/it-repair-service/internal/repository"
)

// ProfileFetcher retrieves a display profile from the messaging platform.
type ProfileFetcher interface {
	GetProfile(ctx context.Context, lineUserID string) (*line.Profile, error)
}

// IdentityService maps external platform user ids to internal user records
// with create-or-touch semantics.
type IdentityService struct {
	users    repository.UserRepository
	profiles ProfileFetcher
	logger   *zap.Logger
}

// NewIdentityService constructs the service.
func NewIdentityService(users repository.UserRepository, profiles ProfileFetcher, logger *zap.Logger) *IdentityService {
	return &IdentityService{users: users, profiles: profiles, logger: logger}
}

// ResolveFromPlatform returns the user for a webhook-originated interaction,
// fetching the display profile from the platform when the user is new.
// Profile fetch failure fails the resolution.
func (s *IdentityService) ResolveFromPlatform(ctx context.Context, lineUserID string) (*domain.User, error) {
	return s.resolve(ctx, lineUserID, func() (*domain.User, error) {
		profile, err := s.profiles.GetProfile(ctx, lineUserID)
		if err != nil {
			return nil, err
		}
		user := &domain.User{
			LineUserID:  lineUserID,
			DisplayName: profile.DisplayName,
		}
		if profile.PictureURL != "" {
			user.PictureURL = &profile.PictureURL
		}
		if profile.StatusMessage != "" {
			user.StatusMessage = &profile.StatusMessage
		}
		return user, nil
	})
}

// ResolveWithNickname returns the user for a ticket submission, creating one
// from the caller-supplied nickname without a platform round trip.
func (s *IdentityService) ResolveWithNickname(ctx context.Context, lineUserID, nickname string) (*domain.User, error) {
	return s.resolve(ctx, lineUserID, func() (*domain.User, error) {
		return &domain.User{LineUserID: lineUserID, DisplayName: nickname}, nil
	})
}

func (s *IdentityService) resolve(ctx context.Context, lineUserID string, build func() (*domain.User, error)) (*domain.User, error) {
	existing, err := s.users.GetByLineUserID(ctx, lineUserID)
	if err == nil {
		if err := s.users.TouchLastSeen(ctx, existing.ID); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	user, err := build()
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent resolution for the same new id may have won the insert.
		// Treat the duplicate key as "already exists" and read it back.
		if repository.IsUniqueViolation(err) {
			s.logger.Debug("concurrent user creation, falling back to read",
				zap.String("line_user_id", lineUserID))
			return s.users.GetByLineUserID(ctx, lineUserID)
		}
		return nil, err
	}
	return user, nil
}

package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/it-repair-service/internal/auth"
	"github.com/spec-kit/it-repair-service/internal/domain"
	"github.com/spec-kit/it-repair-service/internal/repository"
	apperrors "github.com/spec-kit/it-repair-service/pkg/util"
)

// RegisterInput carries a new admin account request.
type RegisterInput struct {
	Email    string
	Username string
	Password string
	FullName string
	Role     domain.AdminRole
}

// AuthResult pairs an issued token with its admin.
type AuthResult struct {
	Token string
	Admin *domain.Admin
}

// AuthService handles admin registration, login and profile reads.
type AuthService struct {
	admins repository.AdminRepository
	tokens *auth.TokenManager
	hasher *auth.Hasher
}

// NewAuthService wires the service.
func NewAuthService(admins repository.AdminRepository, tokens *auth.TokenManager, hasher *auth.Hasher) *AuthService {
	return &AuthService{admins: admins, tokens: tokens, hasher: hasher}
}

// Register creates an admin account and returns a fresh token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	exists, err := s.admins.ExistsByEmailOrUsername(ctx, input.Email, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflict("email or username already in use", nil)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = domain.AdminRoleAgent
	}

	admin := &domain.Admin{
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: hash,
		FullName:     input.FullName,
		Role:         role,
		IsActive:     true,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("email or username already in use", nil)
		}
		return nil, err
	}

	token, err := s.tokens.Issue(admin)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Admin: admin}, nil
}

// Login verifies credentials and returns a fresh token. Credential failures
// are indistinguishable from unknown accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthenticated("invalid credentials")
		}
		return nil, err
	}
	if !admin.IsActive || !s.hasher.Compare(admin.PasswordHash, password) {
		return nil, apperrors.NewUnauthenticated("invalid credentials")
	}

	token, err := s.tokens.Issue(admin)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Admin: admin}, nil
}

// Profile loads the authenticated admin.
func (s *AuthService) Profile(ctx context.Context, adminID string) (*domain.Admin, error) {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("admin", nil)
		}
		return nil, err
	}
	return admin, nil
}

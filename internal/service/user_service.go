// Package service provides business logic services for Slowish.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/prn-tf/slowish/internal/domain"
	"github.com/prn-tf/slowish/internal/pkg/crypto"
	"github.com/prn-tf/slowish/internal/repository"
)

// UserService handles provisioning of accounts and users.
type UserService struct {
	accountRepo repository.AccountRepository
	userRepo    repository.UserRepository
	tokenLength int
	logger      zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	accountRepo repository.AccountRepository,
	userRepo repository.UserRepository,
	tokenLength int,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		accountRepo: accountRepo,
		userRepo:    userRepo,
		tokenLength: tokenLength,
		logger:      logger.With().Str("service", "user").Logger(),
	}
}

// =============================================================================
// Input/Output Structs
// =============================================================================

// CreateUserInput contains the data needed to create a user.
type CreateUserInput struct {
	AccountID int64
	Username  string
	Password  string
}

// CreateUserOutput contains the result of creating a user, including
// the generated token. The token is only surfaced here; afterwards it
// lives in the store and is returned again by authentication.
type CreateUserOutput struct {
	User *domain.User
}

// ListUsersInput contains the data needed to list users.
type ListUsersInput struct {
	AccountID int64
}

// ListUsersOutput contains the result of listing users.
type ListUsersOutput struct {
	Users []*domain.User
}

// =============================================================================
// Service Methods
// =============================================================================

// CreateUser creates a user within an account, generating its bearer
// token. The account is created on first reference.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*CreateUserOutput, error) {
	if input.Username == "" || len(input.Username) > 255 {
		return nil, fmt.Errorf("%w: invalid username", ErrInternalError)
	}

	if _, _, err := s.accountRepo.CreateOrGet(ctx, input.AccountID); err != nil {
		s.logger.Error().Err(err).Int64("account_id", input.AccountID).Msg("failed to ensure account")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	token, err := crypto.GenerateToken(s.tokenLength)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to generate token")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	user := domain.NewUser(input.AccountID, input.Username, input.Password, token)

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, domain.ErrUserAlreadyExists
		}
		s.logger.Error().Err(err).Str("username", input.Username).Msg("failed to create user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Int64("account_id", input.AccountID).
		Str("username", input.Username).
		Msg("user created")

	return &CreateUserOutput{User: user}, nil
}

// ListUsers returns all users of an account.
func (s *UserService) ListUsers(ctx context.Context, input ListUsersInput) (*ListUsersOutput, error) {
	users, err := s.userRepo.ListByAccount(ctx, input.AccountID)
	if err != nil {
		s.logger.Error().Err(err).Int64("account_id", input.AccountID).Msg("failed to list users")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	return &ListUsersOutput{Users: users}, nil
}

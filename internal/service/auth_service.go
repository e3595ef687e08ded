// Package service provides business logic services for Slowish.
package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/slowish/internal/domain"
	"github.com/prn-tf/slowish/internal/repository"
)

// AuthService implements the token authentication protocol: it issues
// bearer tokens for (account, username, password) triples and validates
// presented tokens on every authorized call.
type AuthService struct {
	userRepo repository.UserRepository
	tokenTTL time.Duration
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService. tokenTTL is the advisory
// lifetime advertised at issuance; Validate never enforces it.
func NewAuthService(
	userRepo repository.UserRepository,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokenTTL: tokenTTL,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

// =============================================================================
// Input/Output Structs
// =============================================================================

// AuthenticateInput contains the credentials presented to the token endpoint.
// AccountRef may be a tenant id or a tenant name; both occupy the same
// numeric identifier space.
type AuthenticateInput struct {
	AccountRef string
	Username   string
	Password   string
}

// AuthenticateOutput contains the result of a successful authentication.
type AuthenticateOutput struct {
	User      *domain.User
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// =============================================================================
// Service Methods
// =============================================================================

// Authenticate looks up the unique user matching the exact
// (account, username, password) triple.
//
// Every possible failure - malformed account reference, missing field,
// no matching row, store error - collapses into
// domain.ErrInvalidCredentials. Callers must not be able to distinguish
// which part failed.
func (s *AuthService) Authenticate(ctx context.Context, input AuthenticateInput) (*AuthenticateOutput, error) {
	if input.Username == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	accountID, err := ParseAccountRef(input.AccountRef)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByCredentials(ctx, accountID, input.Username, input.Password)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Error().Err(err).Int64("account_id", accountID).Msg("credential lookup failed")
		}
		return nil, domain.ErrInvalidCredentials
	}

	issuedAt := time.Now().UTC()

	s.logger.Info().
		Int64("account_id", accountID).
		Str("username", user.Username).
		Msg("user authenticated")

	return &AuthenticateOutput{
		User:      user,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(s.tokenTTL),
	}, nil
}

// Validate looks up the unique user within the account whose stored
// token exactly equals the presented token. Issued tokens stay valid
// until the user record changes; elapsed time is never checked.
func (s *AuthService) Validate(ctx context.Context, accountRef, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrInvalidCredentials
	}

	accountID, err := ParseAccountRef(accountRef)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByToken(ctx, accountID, token)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Error().Err(err).Int64("account_id", accountID).Msg("token lookup failed")
		}
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// ParseAccountRef resolves a tenant reference to its numeric account id.
// Tenant names and tenant ids share the same identifier space, so both
// resolve through the same parse.
func ParseAccountRef(ref string) (int64, error) {
	return strconv.ParseInt(ref, 10, 64)
}

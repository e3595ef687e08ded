// Package service provides business logic services for Slowish.
package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/prn-tf/slowish/internal/domain"
	"github.com/prn-tf/slowish/internal/repository"
)

// AccountService handles account-level operations, primarily the
// container listing.
type AccountService struct {
	accountRepo   repository.AccountRepository
	containerRepo repository.ContainerRepository
	logger        zerolog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(
	accountRepo repository.AccountRepository,
	containerRepo repository.ContainerRepository,
	logger zerolog.Logger,
) *AccountService {
	return &AccountService{
		accountRepo:   accountRepo,
		containerRepo: containerRepo,
		logger:        logger.With().Str("service", "account").Logger(),
	}
}

// =============================================================================
// Input/Output Structs
// =============================================================================

// ListContainersInput contains the data needed to list containers.
type ListContainersInput struct {
	AccountID int64
	Marker    string
	EndMarker string
	Prefix    string
}

// ListContainersOutput contains the result of listing containers.
type ListContainersOutput struct {
	Entries []domain.ContainerEntry
}

// DeleteAccountInput contains the data needed to delete an account.
type DeleteAccountInput struct {
	AccountID int64
}

// =============================================================================
// Service Methods
// =============================================================================

// ListContainers returns the account's container names matching the
// filters, sorted ascending, with the zero size placeholders the
// listing contract requires. The result is freshly computed from
// current store state on every call.
func (s *AccountService) ListContainers(ctx context.Context, input ListContainersInput) (*ListContainersOutput, error) {
	names, err := s.containerRepo.ListNames(ctx, input.AccountID, repository.ListFilter{
		Marker:    input.Marker,
		EndMarker: input.EndMarker,
		Prefix:    input.Prefix,
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("account_id", input.AccountID).Msg("failed to list containers")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	entries := make([]domain.ContainerEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, domain.ContainerEntry{Name: name})
	}

	return &ListContainersOutput{Entries: entries}, nil
}

// DeleteAccount deletes an account; users and containers cascade.
func (s *AccountService) DeleteAccount(ctx context.Context, input DeleteAccountInput) error {
	if err := s.accountRepo.Delete(ctx, input.AccountID); err != nil {
		return err
	}

	s.logger.Info().Int64("account_id", input.AccountID).Msg("account deleted")
	return nil
}

// Package service provides business logic services for Slowish.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/prn-tf/slowish/internal/domain"
	"github.com/prn-tf/slowish/internal/repository"
)

// ContainerService handles container operations.
type ContainerService struct {
	containerRepo repository.ContainerRepository
	fileRepo      repository.FileRepository
	logger        zerolog.Logger
}

// NewContainerService creates a new ContainerService.
func NewContainerService(
	containerRepo repository.ContainerRepository,
	fileRepo repository.FileRepository,
	logger zerolog.Logger,
) *ContainerService {
	return &ContainerService{
		containerRepo: containerRepo,
		fileRepo:      fileRepo,
		logger:        logger.With().Str("service", "container").Logger(),
	}
}

// =============================================================================
// Input/Output Structs
// =============================================================================

// PutContainerInput contains the data needed to create a container.
type PutContainerInput struct {
	AccountID int64
	Name      string
}

// PutContainerOutput contains the result of a container PUT.
type PutContainerOutput struct {
	Container *domain.Container

	// Created reports whether the PUT created the container (true) or
	// found it already present (false). Either way the PUT succeeds.
	Created bool
}

// GetContainerInput contains the data needed to fetch a container.
type GetContainerInput struct {
	AccountID int64
	Name      string
}

// GetContainerOutput contains the result of fetching a container.
type GetContainerOutput struct {
	Container *domain.Container
}

// ListFilesInput contains the data needed to list files in a container.
type ListFilesInput struct {
	AccountID int64
	Container string
	Marker    string
	EndMarker string
	Prefix    string
}

// ListFilesOutput contains the result of listing files.
type ListFilesOutput struct {
	Entries []domain.FileEntry
}

// =============================================================================
// Service Methods
// =============================================================================

// PutContainer creates the container idempotently: the first PUT for a
// key creates it, every later PUT finds it. Both succeed.
func (s *ContainerService) PutContainer(ctx context.Context, input PutContainerInput) (*PutContainerOutput, error) {
	if err := domain.ValidateContainerName(input.Name); err != nil {
		return nil, err
	}

	container, created, err := s.containerRepo.CreateOrGet(ctx, input.AccountID, input.Name)
	if err != nil {
		s.logger.Error().Err(err).Str("container", input.Name).Msg("failed to put container")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if created {
		s.logger.Info().
			Int64("account_id", input.AccountID).
			Str("container", input.Name).
			Msg("container created")
	}

	return &PutContainerOutput{Container: container, Created: created}, nil
}

// GetContainer retrieves a container by (account, name).
func (s *ContainerService) GetContainer(ctx context.Context, input GetContainerInput) (*GetContainerOutput, error) {
	container, err := s.containerRepo.GetByName(ctx, input.AccountID, input.Name)
	if err != nil {
		if errors.Is(err, domain.ErrContainerNotFound) {
			return nil, domain.ErrContainerNotFound
		}
		s.logger.Error().Err(err).Str("container", input.Name).Msg("failed to get container")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	return &GetContainerOutput{Container: container}, nil
}

// ListFiles returns the container's file paths matching the filters,
// sorted ascending. Every entry reports zero bytes and the fixed
// placeholder content type, since no content is ever stored.
func (s *ContainerService) ListFiles(ctx context.Context, input ListFilesInput) (*ListFilesOutput, error) {
	container, err := s.containerRepo.GetByName(ctx, input.AccountID, input.Container)
	if err != nil {
		if errors.Is(err, domain.ErrContainerNotFound) {
			return nil, domain.ErrContainerNotFound
		}
		s.logger.Error().Err(err).Str("container", input.Container).Msg("failed to get container")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	paths, err := s.fileRepo.ListPaths(ctx, container.ID, repository.ListFilter{
		Marker:    input.Marker,
		EndMarker: input.EndMarker,
		Prefix:    input.Prefix,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("container", input.Container).Msg("failed to list files")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	entries := make([]domain.FileEntry, 0, len(paths))
	for _, path := range paths {
		entries = append(entries, domain.FileEntry{
			ContentType: domain.FileContentType,
			Name:        path,
		})
	}

	return &ListFilesOutput{Entries: entries}, nil
}

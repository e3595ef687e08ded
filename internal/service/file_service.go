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

// FileService handles file record operations. Files represent only the
// existence of an object; content bytes are never stored.
type FileService struct {
	containerRepo repository.ContainerRepository
	fileRepo      repository.FileRepository
	logger        zerolog.Logger
}

// NewFileService creates a new FileService.
func NewFileService(
	containerRepo repository.ContainerRepository,
	fileRepo repository.FileRepository,
	logger zerolog.Logger,
) *FileService {
	return &FileService{
		containerRepo: containerRepo,
		fileRepo:      fileRepo,
		logger:        logger.With().Str("service", "file").Logger(),
	}
}

// =============================================================================
// Input/Output Structs
// =============================================================================

// PutFileInput contains the data needed to record a file.
type PutFileInput struct {
	AccountID int64
	Container string
	Path      string
}

// PutFileOutput contains the result of a file PUT.
type PutFileOutput struct {
	File *domain.File

	// Created reports whether the PUT created the record (true) or
	// found it already present (false). Either way the PUT succeeds.
	Created bool
}

// GetFileInput contains the data needed to check a file's existence.
type GetFileInput struct {
	AccountID int64
	Container string
	Path      string
}

// GetFileOutput contains the result of a file existence check.
type GetFileOutput struct {
	File *domain.File
}

// =============================================================================
// Service Methods
// =============================================================================

// PutFile records a file idempotently. Containers are created on
// demand, so a file PUT into an absent container creates the container
// as well.
func (s *FileService) PutFile(ctx context.Context, input PutFileInput) (*PutFileOutput, error) {
	if err := domain.ValidateContainerName(input.Container); err != nil {
		return nil, err
	}
	if err := domain.ValidateFilePath(input.Path); err != nil {
		return nil, err
	}

	container, _, err := s.containerRepo.CreateOrGet(ctx, input.AccountID, input.Container)
	if err != nil {
		s.logger.Error().Err(err).Str("container", input.Container).Msg("failed to ensure container")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	file, created, err := s.fileRepo.CreateOrGet(ctx, container.ID, input.Path)
	if err != nil {
		s.logger.Error().Err(err).Str("path", input.Path).Msg("failed to put file")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if created {
		s.logger.Info().
			Int64("account_id", input.AccountID).
			Str("container", input.Container).
			Str("path", input.Path).
			Msg("file recorded")
	}

	return &PutFileOutput{File: file, Created: created}, nil
}

// GetFile checks whether a file record exists at (container, path).
func (s *FileService) GetFile(ctx context.Context, input GetFileInput) (*GetFileOutput, error) {
	container, err := s.containerRepo.GetByName(ctx, input.AccountID, input.Container)
	if err != nil {
		if errors.Is(err, domain.ErrContainerNotFound) {
			return nil, domain.ErrFileNotFound
		}
		s.logger.Error().Err(err).Str("container", input.Container).Msg("failed to get container")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	file, err := s.fileRepo.GetByPath(ctx, container.ID, input.Path)
	if err != nil {
		if errors.Is(err, domain.ErrFileNotFound) {
			return nil, domain.ErrFileNotFound
		}
		s.logger.Error().Err(err).Str("path", input.Path).Msg("failed to get file")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	return &GetFileOutput{File: file}, nil
}

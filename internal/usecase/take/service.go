// Package take handles take registration and lifecycle outside the
// analysis pipeline.
package take

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cineai/smartcut/internal/domain"
	domtake "github.com/cineai/smartcut/internal/domain/take"
)

// Service manages stored takes.
type Service struct {
	repo  Repository
	index Indexer
}

// New creates a take service.
func New(repo Repository, index Indexer) *Service {
	return &Service{repo: repo, index: index}
}

// Register stores a new, unanalyzed take. An empty id gets a generated
// UUID; the file name is required.
func (s *Service) Register(ctx context.Context, id, fileName, filePath, script string) (domtake.Take, error) {
	if fileName == "" {
		return domtake.Take{}, fmt.Errorf("%w: file_name is required", domain.ErrInvalidRequest)
	}
	if id == "" {
		id = uuid.NewString()
	}
	if filePath == "" {
		filePath = fileName
	}

	t := domtake.New(id, fileName, filePath, script)
	if err := s.repo.Create(ctx, t); err != nil {
		return domtake.Take{}, fmt.Errorf("create take: %w", err)
	}
	return *t, nil
}

// Get returns one stored take.
func (s *Service) Get(ctx context.Context, id string) (domtake.Take, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return domtake.Take{}, fmt.Errorf("get take: %w", err)
	}
	return t, nil
}

// List returns all stored takes.
func (s *Service) List(ctx context.Context) ([]domtake.Take, error) {
	takes, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list takes: %w", err)
	}
	return takes, nil
}

// Delete removes a take from storage and drops its vector from the
// index.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete take: %w", err)
	}
	s.index.Remove(id)
	return nil
}

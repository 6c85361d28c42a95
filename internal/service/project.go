package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hclin/fleetflow/backend/internal/domain"
	"github.com/hclin/fleetflow/backend/internal/repo"
)

// ProjectService implements project management.
type ProjectService struct {
	projects repo.ProjectRepo
}

// NewProjectService constructs a ProjectService backed by the provided repo.
func NewProjectService(projects repo.ProjectRepo) *ProjectService {
	return &ProjectService{projects: projects}
}

// Create validates and registers a new project.
func (s *ProjectService) Create(ctx context.Context, p domain.Project) (domain.Project, error) {
	if strings.TrimSpace(p.Name) == "" {
		return domain.Project{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	created, err := s.projects.Create(ctx, p)
	if err != nil {
		return domain.Project{}, fmt.Errorf("service.ProjectService.Create: %w", err)
	}
	return created, nil
}

// List returns all projects.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ProjectService.List: %w", err)
	}
	if projects == nil {
		return []domain.Project{}, nil
	}
	return projects, nil
}

// Update renames a project.
func (s *ProjectService) Update(ctx context.Context, p domain.Project) (domain.Project, error) {
	if strings.TrimSpace(p.Name) == "" {
		return domain.Project{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	updated, err := s.projects.Update(ctx, p)
	if err != nil {
		return domain.Project{}, fmt.Errorf("service.ProjectService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a project by ID.
func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.ProjectService.Delete: %w", err)
	}
	return nil
}

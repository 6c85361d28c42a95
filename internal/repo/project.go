package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/hclin/fleetflow/backend/internal/domain"
)

// ProjectRepo defines the persistence operations for Projects.
type ProjectRepo interface {
	// Create inserts a new project.
	// Returns domain.ErrConflict if the name is taken.
	Create(ctx context.Context, p domain.Project) (domain.Project, error)

	// GetByID retrieves a single project by its UUID primary key.
	// Returns domain.ErrNotFound if no project with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Project, error)

	// GetByName retrieves a project by its unique name.
	// Returns domain.ErrNotFound if no project with that name exists.
	GetByName(ctx context.Context, name string) (domain.Project, error)

	// List returns all projects ordered by name.
	List(ctx context.Context) ([]domain.Project, error)

	// Update renames a project.
	// Returns domain.ErrNotFound if it does not exist, domain.ErrConflict
	// if the new name is taken.
	Update(ctx context.Context, p domain.Project) (domain.Project, error)

	// Delete removes a project by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgProjectRepo is the Postgres implementation of ProjectRepo.
type pgProjectRepo struct {
	db db
}

// NewProjectRepo constructs a ProjectRepo backed by the provided db connection.
func NewProjectRepo(db db) ProjectRepo {
	return &pgProjectRepo{db: db}
}

func (r *pgProjectRepo) Create(ctx context.Context, p domain.Project) (domain.Project, error) {
	const q = `
		INSERT INTO projects (name)
		VALUES (@name)
		RETURNING id, name, created_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": p.Name})
	created, err := scanProject(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Project{}, fmt.Errorf("repo.ProjectRepo.Create: name taken: %w", domain.ErrConflict)
		}
		return domain.Project{}, fmt.Errorf("repo.ProjectRepo.Create: %w", err)
	}
	return created, nil
}

func (r *pgProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Project, error) {
	const q = `SELECT id, name, created_at FROM projects WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	p, err := scanProject(row)
	if err != nil {
		return domain.Project{}, fmt.Errorf("repo.ProjectRepo.GetByID: %w", err)
	}
	return p, nil
}

func (r *pgProjectRepo) GetByName(ctx context.Context, name string) (domain.Project, error) {
	const q = `SELECT id, name, created_at FROM projects WHERE name = @name`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": name})
	p, err := scanProject(row)
	if err != nil {
		return domain.Project{}, fmt.Errorf("repo.ProjectRepo.GetByName: %w", err)
	}
	return p, nil
}

func (r *pgProjectRepo) List(ctx context.Context) ([]domain.Project, error) {
	const q = `SELECT id, name, created_at FROM projects ORDER BY name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.ProjectRepo.List: %w", err)
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ProjectRepo.List: scan: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ProjectRepo.List: rows: %w", err)
	}
	return projects, nil
}

func (r *pgProjectRepo) Update(ctx context.Context, p domain.Project) (domain.Project, error) {
	const q = `
		UPDATE projects
		SET name = @name
		WHERE id = @id
		RETURNING id, name, created_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": p.ID, "name": p.Name})
	updated, err := scanProject(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Project{}, fmt.Errorf("repo.ProjectRepo.Update: name taken: %w", domain.ErrConflict)
		}
		return domain.Project{}, fmt.Errorf("repo.ProjectRepo.Update: %w", err)
	}
	return updated, nil
}

func (r *pgProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM projects WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.ProjectRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ProjectRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanProject maps a single database row into a domain.Project.
func scanProject(s scanner) (domain.Project, error) {
	var (
		p  domain.Project
		id pgtype.UUID
	)
	err := s.Scan(&id, &p.Name, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Project{}, domain.ErrNotFound
		}
		return domain.Project{}, err
	}
	p.ID = uuid.UUID(id.Bytes)
	return p, nil
}

package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/hclin/fleetflow/backend/internal/domain"
)

// VehicleRepo defines the persistence operations for Vehicles.
type VehicleRepo interface {
	// Create inserts a new vehicle and returns the persisted record.
	// Returns domain.ErrConflict if the plate number is already registered.
	Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)

	// GetByID retrieves a single vehicle by its UUID primary key.
	// Returns domain.ErrNotFound if no vehicle with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)

	// List returns all vehicles ordered by name.
	List(ctx context.Context) ([]domain.Vehicle, error)

	// Update overwrites the descriptive fields of a vehicle (plate, name,
	// type, status, starting odometer). TotalMileage is deliberately not
	// writable here — use UpdateTotalMileage.
	Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)

	// UpdateTotalMileage overwrites the derived total. Only the aggregator
	// calls this.
	UpdateTotalMileage(ctx context.Context, id uuid.UUID, total int64) error

	// Delete removes a vehicle by ID.
	// Returns domain.ErrNotFound if it does not exist and domain.ErrConflict
	// if trips still reference it.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgVehicleRepo is the Postgres implementation of VehicleRepo.
type pgVehicleRepo struct {
	db db
}

// NewVehicleRepo constructs a VehicleRepo backed by the provided db connection.
func NewVehicleRepo(db db) VehicleRepo {
	return &pgVehicleRepo{db: db}
}

const vehicleColumns = `id, plate_number, name, type, status,
	starting_odometer, total_mileage, created_at, updated_at`

func (r *pgVehicleRepo) Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	const q = `
		INSERT INTO vehicles (plate_number, name, type, status, starting_odometer)
		VALUES (@plate_number, @name, @type, @status, @starting_odometer)
		RETURNING ` + vehicleColumns

	args := pgx.NamedArgs{
		"plate_number":      v.PlateNumber,
		"name":              v.Name,
		"type":              v.Type,
		"status":            string(v.Status),
		"starting_odometer": v.StartingOdometer,
	}

	row := r.db.QueryRow(ctx, q, args)
	created, err := scanVehicle(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.Create: plate already registered: %w", domain.ErrConflict)
		}
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.Create: %w", err)
	}
	return created, nil
}

func (r *pgVehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	q := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	v, err := scanVehicle(row)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.GetByID: %w", err)
	}
	return v, nil
}

func (r *pgVehicleRepo) List(ctx context.Context) ([]domain.Vehicle, error) {
	q := `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.VehicleRepo.List: %w", err)
	}
	defer rows.Close()

	vehicles := []domain.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.VehicleRepo.List: scan: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.VehicleRepo.List: rows: %w", err)
	}
	return vehicles, nil
}

func (r *pgVehicleRepo) Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	const q = `
		UPDATE vehicles
		SET plate_number      = @plate_number,
		    name              = @name,
		    type              = @type,
		    status            = @status,
		    starting_odometer = @starting_odometer,
		    updated_at        = now()
		WHERE id = @id
		RETURNING ` + vehicleColumns

	args := pgx.NamedArgs{
		"id":                v.ID,
		"plate_number":      v.PlateNumber,
		"name":              v.Name,
		"type":              v.Type,
		"status":            string(v.Status),
		"starting_odometer": v.StartingOdometer,
	}

	row := r.db.QueryRow(ctx, q, args)
	updated, err := scanVehicle(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.Update: plate already registered: %w", domain.ErrConflict)
		}
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.Update: %w", err)
	}
	return updated, nil
}

func (r *pgVehicleRepo) UpdateTotalMileage(ctx context.Context, id uuid.UUID, total int64) error {
	const q = `
		UPDATE vehicles
		SET total_mileage = @total_mileage,
		    updated_at    = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "total_mileage": total})
	if err != nil {
		return fmt.Errorf("repo.VehicleRepo.UpdateTotalMileage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.VehicleRepo.UpdateTotalMileage: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgVehicleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM vehicles WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("repo.VehicleRepo.Delete: vehicle has trips: %w", domain.ErrConflict)
		}
		return fmt.Errorf("repo.VehicleRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.VehicleRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanVehicle maps a single database row into a domain.Vehicle.
func scanVehicle(s scanner) (domain.Vehicle, error) {
	var (
		v      domain.Vehicle
		id     pgtype.UUID
		status string
	)
	err := s.Scan(&id, &v.PlateNumber, &v.Name, &v.Type, &status,
		&v.StartingOdometer, &v.TotalMileage, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Vehicle{}, domain.ErrNotFound
		}
		return domain.Vehicle{}, err
	}
	v.ID = uuid.UUID(id.Bytes)
	v.Status = domain.VehicleStatus(status)
	return v, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

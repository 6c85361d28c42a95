// Package repo contains all database access logic for the FleetFlow API.
// Each resource has its own file with an interface and a Postgres
// implementation. No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/hclin/fleetflow/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// tripColumns is the canonical SELECT column list for trips. Every query
// that feeds scanTrip must select exactly these columns in this order.
const tripColumns = `id, owner_id, owner_name, date, start_time, end_time,
	destination, purpose, category, project_name, vehicle_id,
	start_odometer, end_odometer, distance, refueled, washed,
	mileage_reported, created_at, updated_at`

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip (and its companion links) and returns the
	// persisted record with DB-generated fields populated.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// List returns all trips ordered chronologically ascending.
	List(ctx context.Context) ([]domain.Trip, error)

	// ListPaged returns one page of trips ordered newest-first plus the
	// total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// ListByVehicle returns the full trip history of one vehicle ordered
	// chronologically ascending. This is the snapshot the reconciliation
	// and aggregation functions consume.
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.Trip, error)

	// ListByVehicleAndDate returns all trips holding the vehicle on one
	// calendar date — the scope of a collision check.
	ListByVehicleAndDate(ctx context.Context, vehicleID uuid.UUID, date time.Time) ([]domain.Trip, error)

	// ListByOwnerPending returns the owner's trips that have a vehicle
	// attached but no mileage report yet, ordered chronologically.
	ListByOwnerPending(ctx context.Context, ownerID uuid.UUID) ([]domain.Trip, error)

	// Update overwrites the mutable fields of an existing trip (including
	// its mileage sub-record and companion links) and returns the updated
	// record. Returns domain.ErrNotFound if no trip with that ID exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// UpdateMileage writes the mileage sub-record of a trip and marks it
	// reported. Returns domain.ErrNotFound if the trip does not exist.
	UpdateMileage(ctx context.Context, id uuid.UUID, m domain.TripMileage) (domain.Trip, error)

	// Delete removes a trip by ID. Companion links go with it (FK cascade).
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (owner_id, owner_name, date, start_time, end_time,
			destination, purpose, category, project_name, vehicle_id,
			start_odometer, end_odometer, distance, refueled, washed, mileage_reported)
		VALUES (@owner_id, @owner_name, @date, @start_time, @end_time,
			@destination, @purpose, @category, @project_name, @vehicle_id,
			@start_odometer, @end_odometer, @distance, @refueled, @washed, @mileage_reported)
		RETURNING ` + tripColumns

	row := r.db.QueryRow(ctx, q, tripArgs(trip))
	created, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}

	if err := r.replaceCompanions(ctx, created.ID, trip.CompanionIDs); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	created.CompanionIDs = append([]uuid.UUID{}, trip.CompanionIDs...)
	return created, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	q := `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	trip, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	trips := []domain.Trip{trip}
	if err := r.attachCompanions(ctx, trips); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return trips[0], nil
}

func (r *pgTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	q := `SELECT ` + tripColumns + ` FROM trips ORDER BY date, start_time`
	return r.queryTrips(ctx, "List", q, nil)
}

func (r *pgTripRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	q := `SELECT ` + tripColumns + `
		FROM trips
		ORDER BY date DESC, start_time DESC
		LIMIT @limit OFFSET @offset`

	trips, err := r.queryTrips(ctx, "ListPaged", q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM trips`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: count: %w", err)
	}
	return trips, total, nil
}

func (r *pgTripRepo) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.Trip, error) {
	q := `SELECT ` + tripColumns + `
		FROM trips
		WHERE vehicle_id = @vehicle_id
		ORDER BY date, start_time`
	return r.queryTrips(ctx, "ListByVehicle", q, pgx.NamedArgs{"vehicle_id": vehicleID})
}

func (r *pgTripRepo) ListByVehicleAndDate(ctx context.Context, vehicleID uuid.UUID, date time.Time) ([]domain.Trip, error) {
	q := `SELECT ` + tripColumns + `
		FROM trips
		WHERE vehicle_id = @vehicle_id AND date = @date
		ORDER BY start_time`
	return r.queryTrips(ctx, "ListByVehicleAndDate", q, pgx.NamedArgs{"vehicle_id": vehicleID, "date": date})
}

func (r *pgTripRepo) ListByOwnerPending(ctx context.Context, ownerID uuid.UUID) ([]domain.Trip, error) {
	q := `SELECT ` + tripColumns + `
		FROM trips
		WHERE owner_id = @owner_id
		  AND vehicle_id IS NOT NULL
		  AND mileage_reported = false
		ORDER BY date, start_time`
	return r.queryTrips(ctx, "ListByOwnerPending", q, pgx.NamedArgs{"owner_id": ownerID})
}

func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET owner_id         = @owner_id,
		    owner_name       = @owner_name,
		    date             = @date,
		    start_time       = @start_time,
		    end_time         = @end_time,
		    destination      = @destination,
		    purpose          = @purpose,
		    category         = @category,
		    project_name     = @project_name,
		    vehicle_id       = @vehicle_id,
		    start_odometer   = @start_odometer,
		    end_odometer     = @end_odometer,
		    distance         = @distance,
		    refueled         = @refueled,
		    washed           = @washed,
		    mileage_reported = @mileage_reported,
		    updated_at       = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := tripArgs(trip)
	args["id"] = trip.ID

	row := r.db.QueryRow(ctx, q, args)
	updated, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}

	if err := r.replaceCompanions(ctx, updated.ID, trip.CompanionIDs); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	updated.CompanionIDs = append([]uuid.UUID{}, trip.CompanionIDs...)
	return updated, nil
}

func (r *pgTripRepo) UpdateMileage(ctx context.Context, id uuid.UUID, m domain.TripMileage) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET start_odometer   = @start_odometer,
		    end_odometer     = @end_odometer,
		    distance         = @distance,
		    refueled         = @refueled,
		    washed           = @washed,
		    mileage_reported = true,
		    updated_at       = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":             id,
		"start_odometer": m.StartOdometer,
		"end_odometer":   m.EndOdometer,
		"distance":       m.Distance,
		"refueled":       m.Refueled,
		"washed":         m.Washed,
	}

	row := r.db.QueryRow(ctx, q, args)
	updated, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.UpdateMileage: %w", err)
	}
	trips := []domain.Trip{updated}
	if err := r.attachCompanions(ctx, trips); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.UpdateMileage: %w", err)
	}
	return trips[0], nil
}

func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// queryTrips runs a multi-row trip query, scans all rows, and attaches
// companion links. op names the caller for error wrapping.
func (r *pgTripRepo) queryTrips(ctx context.Context, op, q string, args pgx.NamedArgs) ([]domain.Trip, error) {
	var rows pgx.Rows
	var err error
	if args == nil {
		rows, err = r.db.Query(ctx, q)
	} else {
		rows, err = r.db.Query(ctx, q, args)
	}
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.%s: %w", op, err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.%s: scan: %w", op, err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.%s: rows: %w", op, err)
	}

	if err := r.attachCompanions(ctx, trips); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.%s: %w", op, err)
	}
	return trips, nil
}

// replaceCompanions rewrites the companion links for a trip.
// Companions are informational only, so delete-then-insert is fine here.
func (r *pgTripRepo) replaceCompanions(ctx context.Context, tripID uuid.UUID, companionIDs []uuid.UUID) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM trip_companions WHERE trip_id = @trip_id`,
		pgx.NamedArgs{"trip_id": tripID}); err != nil {
		return fmt.Errorf("clear companions: %w", err)
	}
	for _, userID := range companionIDs {
		if _, err := r.db.Exec(ctx,
			`INSERT INTO trip_companions (trip_id, user_id)
			 VALUES (@trip_id, @user_id)
			 ON CONFLICT (trip_id, user_id) DO NOTHING`,
			pgx.NamedArgs{"trip_id": tripID, "user_id": userID}); err != nil {
			return fmt.Errorf("add companion: %w", err)
		}
	}
	return nil
}

// attachCompanions loads companion links for the given trips in one query
// and fills their CompanionIDs in place.
func (r *pgTripRepo) attachCompanions(ctx context.Context, trips []domain.Trip) error {
	if len(trips) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(trips))
	index := make(map[uuid.UUID]int, len(trips))
	for i, t := range trips {
		ids[i] = t.ID
		index[t.ID] = i
		trips[i].CompanionIDs = []uuid.UUID{}
	}

	rows, err := r.db.Query(ctx,
		`SELECT trip_id, user_id
		 FROM trip_companions
		 WHERE trip_id = ANY(@trip_ids)
		 ORDER BY user_id`,
		pgx.NamedArgs{"trip_ids": ids})
	if err != nil {
		return fmt.Errorf("companions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tripID, userID pgtype.UUID
		if err := rows.Scan(&tripID, &userID); err != nil {
			return fmt.Errorf("companions: scan: %w", err)
		}
		if i, ok := index[uuid.UUID(tripID.Bytes)]; ok {
			trips[i].CompanionIDs = append(trips[i].CompanionIDs, uuid.UUID(userID.Bytes))
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("companions: rows: %w", err)
	}
	return nil
}

// tripArgs builds the NamedArgs shared by Create and Update.
// A nil mileage sub-record maps to NULL odometer columns and
// mileage_reported = false.
func tripArgs(trip domain.Trip) pgx.NamedArgs {
	args := pgx.NamedArgs{
		"owner_id":         trip.OwnerID,
		"owner_name":       trip.OwnerName,
		"date":             trip.Date,
		"start_time":       trip.StartTime,
		"end_time":         trip.EndTime,
		"destination":      trip.Destination,
		"purpose":          trip.Purpose,
		"category":         string(trip.Category),
		"project_name":     trip.ProjectName,
		"vehicle_id":       trip.VehicleID, // nil becomes NULL
		"start_odometer":   nil,
		"end_odometer":     nil,
		"distance":         nil,
		"refueled":         false,
		"washed":           false,
		"mileage_reported": false,
	}
	if m := trip.Mileage; m != nil {
		args["start_odometer"] = m.StartOdometer
		args["end_odometer"] = m.EndOdometer
		args["distance"] = m.Distance
		args["refueled"] = m.Refueled
		args["washed"] = m.Washed
		args["mileage_reported"] = true
	}
	return args
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID, date, and nullable vehicle/mileage conversions.
// CompanionIDs are attached separately by attachCompanions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		id        pgtype.UUID
		owner     pgtype.UUID
		date      pgtype.Date
		vehicle   pgtype.UUID
		startOdo  pgtype.Int8
		endOdo    pgtype.Int8
		distance  pgtype.Int8
		refueled  bool
		washed    bool
		reported  bool
		category  string
	)

	err := s.Scan(&id, &owner, &t.OwnerName, &date, &t.StartTime, &t.EndTime,
		&t.Destination, &t.Purpose, &category, &t.ProjectName, &vehicle,
		&startOdo, &endOdo, &distance, &refueled, &washed,
		&reported, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.OwnerID = uuid.UUID(owner.Bytes)
	t.Date = date.Time
	t.Category = domain.TripCategory(category)
	if vehicle.Valid {
		vid := uuid.UUID(vehicle.Bytes)
		t.VehicleID = &vid
	}
	if reported {
		t.Mileage = &domain.TripMileage{
			StartOdometer: startOdo.Int64,
			EndOdometer:   endOdo.Int64,
			Distance:      distance.Int64,
			Refueled:      refueled,
			Washed:        washed,
		}
	}
	return t, nil
}

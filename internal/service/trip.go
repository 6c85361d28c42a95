package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hclin/fleetflow/backend/internal/domain"
	"github.com/hclin/fleetflow/backend/internal/repo"
)

// VehicleSyncer recomputes a vehicle's total mileage after a
// mileage-affecting mutation. MileageService implements it; trip lifecycle
// operations depend on this narrow interface so tests can observe resyncs
// without a real aggregator.
type VehicleSyncer interface {
	SyncVehicleMileage(ctx context.Context, vehicleID uuid.UUID) (int64, error)
}

// TripService implements the trip record lifecycle: validated create/update
// with a collision check at every submit, and delete with read-before-delete
// so the vehicle resync still knows which vehicle to recompute.
type TripService struct {
	trips    repo.TripRepo
	vehicles repo.VehicleRepo
	syncer   VehicleSyncer
}

// NewTripService constructs a TripService backed by the provided repos and
// aggregator.
func NewTripService(trips repo.TripRepo, vehicles repo.VehicleRepo, syncer VehicleSyncer) *TripService {
	return &TripService{trips: trips, vehicles: vehicles, syncer: syncer}
}

// Create validates and persists a new trip. When a vehicle is reserved the
// collision check runs against the store's current snapshot at this moment,
// never against an earlier form-open check. Returns domain.ErrValidation for
// rule violations and domain.ErrConflict (with the colliding owner and
// window in the message) for double-bookings.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	if err := s.checkVehicle(ctx, trip); err != nil {
		return domain.Trip{}, err
	}
	normalizeDistance(&trip)

	created, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	if created.HasVehicle() && created.Reported() {
		if _, err := s.syncer.SyncVehicleMileage(ctx, *created.VehicleID); err != nil {
			return domain.Trip{}, err
		}
	}
	return created, nil
}

// Update validates and persists changes to an existing trip, re-running the
// collision check against the current snapshot. Only the trip's owner or an
// admin may edit; the stored owner is always preserved, so an edit can never
// reassign a trip to the editor. If the edit moved the trip off a vehicle it
// had reported mileage on, that previous vehicle is resynced too, so its
// total never keeps a distance that no longer belongs to it.
func (s *TripService) Update(ctx context.Context, trip domain.Trip, actor TokenClaims) (domain.Trip, error) {
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	previous, err := s.trips.GetByID(ctx, trip.ID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	if !canMutate(actor, previous.OwnerID) {
		return domain.Trip{}, fmt.Errorf("%w: only the trip owner or an admin may edit a trip", domain.ErrForbidden)
	}
	trip.OwnerID = previous.OwnerID
	trip.OwnerName = previous.OwnerName

	if err := s.checkVehicle(ctx, trip); err != nil {
		return domain.Trip{}, err
	}
	normalizeDistance(&trip)

	updated, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	if updated.HasVehicle() {
		if _, err := s.syncer.SyncVehicleMileage(ctx, *updated.VehicleID); err != nil {
			return domain.Trip{}, err
		}
	}
	if previous.HasVehicle() && previous.Reported() &&
		(!updated.HasVehicle() || *previous.VehicleID != *updated.VehicleID) {
		if _, err := s.syncer.SyncVehicleMileage(ctx, *previous.VehicleID); err != nil {
			return domain.Trip{}, err
		}
	}
	return updated, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// List returns all trips, oldest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// ListPaged returns one page of trips, newest first, plus the total count.
func (s *TripService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.trips.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListPaged: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// Delete removes a trip. Only the trip's owner or an admin may delete. The
// trip is read first — the record is gone after deletion, and the resync
// needs to know which vehicle (if any) to recompute. Returns
// domain.ErrNotFound if the trip does not exist.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID, actor TokenClaims) error {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if !canMutate(actor, trip.OwnerID) {
		return fmt.Errorf("%w: only the trip owner or an admin may delete a trip", domain.ErrForbidden)
	}
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if trip.HasVehicle() {
		if _, err := s.syncer.SyncVehicleMileage(ctx, *trip.VehicleID); err != nil {
			return err
		}
	}
	return nil
}

// canMutate reports whether actor may modify a trip owned by ownerID.
// Admins may mutate any trip; everyone else only their own.
func canMutate(actor TokenClaims, ownerID uuid.UUID) bool {
	return actor.Role == domain.RoleAdmin || actor.UserID == ownerID
}

// checkVehicle verifies the reserved vehicle exists and is not under
// maintenance, then runs the collision check against all trips holding
// that vehicle on the candidate's date. No-op when no vehicle is reserved.
func (s *TripService) checkVehicle(ctx context.Context, trip domain.Trip) error {
	if !trip.HasVehicle() {
		return nil
	}
	vehicle, err := s.vehicles.GetByID(ctx, *trip.VehicleID)
	if err != nil {
		return fmt.Errorf("service.TripService: vehicle: %w", err)
	}
	if vehicle.Status == domain.VehicleMaintenance {
		return fmt.Errorf("%w: vehicle is under maintenance", domain.ErrValidation)
	}

	existing, err := s.trips.ListByVehicleAndDate(ctx, *trip.VehicleID, trip.Date)
	if err != nil {
		return fmt.Errorf("service.TripService: collision scope: %w", err)
	}
	if c := CheckCollision(trip, existing); c != nil {
		return fmt.Errorf("%w: %s", domain.ErrConflict, c.Message())
	}
	return nil
}

// normalizeDistance recomputes the stored per-trip delta from the odometer
// readings before persisting, so the redundant column never drifts from its
// definition.
func normalizeDistance(trip *domain.Trip) {
	if trip.Mileage != nil {
		trip.Mileage.Distance = trip.Mileage.EndOdometer - trip.Mileage.StartOdometer
	}
}

// validateTrip enforces the submission rules shared by Create and Update.
func validateTrip(trip domain.Trip) error {
	if trip.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	if !validClock(trip.StartTime) || !validClock(trip.EndTime) {
		return fmt.Errorf("%w: times must be HH:MM", domain.ErrValidation)
	}
	if trip.StartTime >= trip.EndTime {
		return fmt.Errorf("%w: end time must be after start time", domain.ErrValidation)
	}
	if strings.TrimSpace(trip.Destination) == "" {
		return fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}
	if strings.TrimSpace(trip.Purpose) == "" {
		return fmt.Errorf("%w: purpose is required", domain.ErrValidation)
	}
	if strings.TrimSpace(trip.ProjectName) == "" {
		return fmt.Errorf("%w: project is required", domain.ErrValidation)
	}
	if !trip.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", domain.ErrValidation, trip.Category)
	}
	if m := trip.Mileage; m != nil {
		if m.StartOdometer < 0 {
			return fmt.Errorf("%w: start odometer must not be negative", domain.ErrValidation)
		}
		if m.EndOdometer <= m.StartOdometer {
			return fmt.Errorf("%w: end odometer must be greater than start odometer", domain.ErrValidation)
		}
		if !trip.HasVehicle() {
			return fmt.Errorf("%w: mileage requires a vehicle", domain.ErrValidation)
		}
	}
	return nil
}

// validClock reports whether s is a zero-padded 24h "HH:MM" clock string.
// The zero-padded form is what makes plain string comparison a correct
// time ordering.
func validClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	hh := s[:2]
	mm := s[3:]
	for _, c := range hh + mm {
		if c < '0' || c > '9' {
			return false
		}
	}
	return hh <= "23" && mm <= "59"
}

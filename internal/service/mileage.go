package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hclin/fleetflow/backend/internal/domain"
	"github.com/hclin/fleetflow/backend/internal/repo"
)

// QueueEntryFor computes the reconciliation read-model for one pending trip:
// its workflow state, whether reporting is blocked, and the odometer value
// to pre-fill as the starting reading.
//
// vehicleTrips must be the full trip history of the trip's vehicle (any
// order; the function does not require it sorted). The implied start is the
// end odometer of the most recent chronologically-earlier reported trip,
// falling back to the vehicle's recorded starting odometer when no earlier
// trip has reported. Reporting is blocked while any chronologically-earlier
// trip on the same vehicle is still unreported — each trip's starting
// reading is defined by the previous trip's ending reading, so an
// unreported gap makes every later value unknowable.
func QueueEntryFor(trip domain.Trip, vehicleTrips []domain.Trip, vehicle domain.Vehicle) domain.MileageQueueEntry {
	entry := domain.MileageQueueEntry{
		Trip:         trip,
		ImpliedStart: vehicle.StartingOdometer,
	}

	var latest *domain.Trip
	for i := range vehicleTrips {
		other := &vehicleTrips[i]
		if other.ID == trip.ID || !other.ChronoBefore(trip) {
			continue
		}
		if !other.Reported() {
			entry.Blocked = true
			continue
		}
		if latest == nil || latest.ChronoBefore(*other) {
			latest = other
		}
	}
	if latest != nil {
		entry.ImpliedStart = latest.Mileage.EndOdometer
	}
	entry.State = StateOf(trip, vehicleTrips)
	return entry
}

// StateOf places a trip in the mileage workflow state machine.
// Blocked is computed from the vehicle's trip history and never persisted.
func StateOf(trip domain.Trip, vehicleTrips []domain.Trip) domain.MileageState {
	switch {
	case !trip.HasVehicle():
		return domain.MileageNoVehicle
	case trip.Reported():
		return domain.MileageReported
	case earlierUnreported(trip, vehicleTrips):
		return domain.MileageBlocked
	}
	return domain.MileagePending
}

// earlierUnreported reports whether any chronologically-earlier trip in
// vehicleTrips is still awaiting its mileage report.
func earlierUnreported(trip domain.Trip, vehicleTrips []domain.Trip) bool {
	for _, other := range vehicleTrips {
		if other.ID == trip.ID {
			continue
		}
		if other.ChronoBefore(trip) && !other.Reported() {
			return true
		}
	}
	return false
}

// TotalMileage recomputes a vehicle's cumulative distance from scratch: the
// sum of every reported trip's distance for that vehicle. The stored
// per-trip delta is trusted when present; a missing delta is recomputed as
// end − start, and non-positive deltas count as zero. The vehicle's baseline
// starting odometer is not included — it only seeds implied-start derivation.
//
// Full recompute (never increment) is deliberate: it stays correct after
// out-of-band edits, deletes, and lost updates from concurrent writers.
func TotalMileage(vehicleID uuid.UUID, trips []domain.Trip) int64 {
	var total int64
	for _, t := range trips {
		if !t.HasVehicle() || *t.VehicleID != vehicleID || !t.Reported() {
			continue
		}
		d := t.Mileage.Distance
		if d == 0 {
			d = t.Mileage.EndOdometer - t.Mileage.StartOdometer
		}
		if d > 0 {
			total += d
		}
	}
	return total
}

// MileageService implements the mileage-report workflow: the per-driver
// pending queue, report submission, and vehicle total resync.
type MileageService struct {
	trips    repo.TripRepo
	vehicles repo.VehicleRepo
}

// NewMileageService constructs a MileageService backed by the provided repos.
func NewMileageService(trips repo.TripRepo, vehicles repo.VehicleRepo) *MileageService {
	return &MileageService{trips: trips, vehicles: vehicles}
}

// Queue returns the pending mileage-report queue for one owner: every trip
// of theirs with a vehicle attached and no report yet, annotated with
// blocking status and the pre-fill start value. Entries are ordered
// chronologically. Always returns a non-nil slice.
func (s *MileageService) Queue(ctx context.Context, ownerID uuid.UUID) ([]domain.MileageQueueEntry, error) {
	pending, err := s.trips.ListByOwnerPending(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.MileageService.Queue: %w", err)
	}

	// Cache per-vehicle history so several pending trips on the same vehicle
	// share one fetch.
	histories := map[uuid.UUID][]domain.Trip{}
	vehicles := map[uuid.UUID]domain.Vehicle{}

	entries := []domain.MileageQueueEntry{}
	for _, trip := range pending {
		vid := *trip.VehicleID
		if _, ok := histories[vid]; !ok {
			history, err := s.trips.ListByVehicle(ctx, vid)
			if err != nil {
				return nil, fmt.Errorf("service.MileageService.Queue: %w", err)
			}
			vehicle, err := s.vehicles.GetByID(ctx, vid)
			if err != nil {
				return nil, fmt.Errorf("service.MileageService.Queue: %w", err)
			}
			histories[vid] = history
			vehicles[vid] = vehicle
		}
		entries = append(entries, QueueEntryFor(trip, histories[vid], vehicles[vid]))
	}
	return entries, nil
}

// ReportMileage records the odometer readings for a trip, marks it reported,
// and resyncs the vehicle's total. Only the trip's owner or an admin may
// report.
//
// Returns domain.ErrValidation when the trip has no vehicle or the end
// reading is not greater than the start reading, and domain.ErrConflict when
// an earlier trip on the same vehicle is still unreported. Re-reporting an
// already-reported trip is allowed — that is the correction path — and
// simply overwrites the readings before resyncing.
func (s *MileageService) ReportMileage(ctx context.Context, tripID uuid.UUID, start, end int64, refueled, washed bool, actor TokenClaims) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.MileageService.ReportMileage: %w", err)
	}
	if !canMutate(actor, trip.OwnerID) {
		return domain.Trip{}, fmt.Errorf("%w: only the trip owner or an admin may report mileage", domain.ErrForbidden)
	}
	if !trip.HasVehicle() {
		return domain.Trip{}, fmt.Errorf("%w: trip has no vehicle reserved", domain.ErrValidation)
	}
	if start < 0 {
		return domain.Trip{}, fmt.Errorf("%w: start odometer must not be negative", domain.ErrValidation)
	}
	if end <= start {
		return domain.Trip{}, fmt.Errorf("%w: end odometer must be greater than start odometer", domain.ErrValidation)
	}

	if !trip.Reported() {
		history, err := s.trips.ListByVehicle(ctx, *trip.VehicleID)
		if err != nil {
			return domain.Trip{}, fmt.Errorf("service.MileageService.ReportMileage: %w", err)
		}
		if earlierUnreported(trip, history) {
			return domain.Trip{}, fmt.Errorf("%w: an earlier trip on this vehicle is still unreported", domain.ErrConflict)
		}
	}

	mileage := domain.TripMileage{
		StartOdometer: start,
		EndOdometer:   end,
		Distance:      end - start,
		Refueled:      refueled,
		Washed:        washed,
	}
	updated, err := s.trips.UpdateMileage(ctx, tripID, mileage)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.MileageService.ReportMileage: %w", err)
	}

	if _, err := s.SyncVehicleMileage(ctx, *trip.VehicleID); err != nil {
		return domain.Trip{}, err
	}
	return updated, nil
}

// SyncVehicleMileage recomputes the vehicle's total from its full trip
// history and overwrites the stored value. Exactly one vehicle write per
// call; calling it twice with no intervening trip changes yields the same
// total.
func (s *MileageService) SyncVehicleMileage(ctx context.Context, vehicleID uuid.UUID) (int64, error) {
	history, err := s.trips.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return 0, fmt.Errorf("service.MileageService.SyncVehicleMileage: %w", err)
	}
	total := TotalMileage(vehicleID, history)
	if err := s.vehicles.UpdateTotalMileage(ctx, vehicleID, total); err != nil {
		return 0, fmt.Errorf("service.MileageService.SyncVehicleMileage: %w", err)
	}
	return total, nil
}

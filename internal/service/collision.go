// Package service contains the business logic for the FleetFlow API.
// Services validate inputs, enforce business rules, and orchestrate repo
// calls. No SQL lives here — services depend on repo interfaces, not
// implementations.
//
// The scheduling core (collision detection, mileage reconciliation, total
// aggregation) is exposed as pure package-level functions over in-memory
// trip snapshots so it can be tested without any store.
package service

import "github.com/hclin/fleetflow/backend/internal/domain"

// CheckCollision decides whether candidate double-books a vehicle against
// the given existing trips. It returns a Conflict describing the colliding
// reservation, or nil when the save is safe.
//
// Rules:
//   - Trips without a vehicle are never checked.
//   - The record whose ID equals the candidate's own ID is excluded, so an
//     edit re-submitted in place never collides with itself.
//   - Two windows on the same date and vehicle overlap when
//     candidate.start < other.end && candidate.end > other.start.
//     Touching endpoints (candidate ends exactly when other starts) do not
//     count as overlapping.
//
// Callers must re-run this at the moment of every persist — a check done at
// form-open time can be stale.
func CheckCollision(candidate domain.Trip, existing []domain.Trip) *domain.Conflict {
	if !candidate.HasVehicle() {
		return nil
	}
	for _, other := range existing {
		if other.ID == candidate.ID {
			continue
		}
		if !other.HasVehicle() || *other.VehicleID != *candidate.VehicleID {
			continue
		}
		if !other.SameDay(candidate) {
			continue
		}
		if candidate.StartTime < other.EndTime && candidate.EndTime > other.StartTime {
			return &domain.Conflict{
				OwnerName: other.OwnerName,
				StartTime: other.StartTime,
				EndTime:   other.EndTime,
			}
		}
	}
	return nil
}

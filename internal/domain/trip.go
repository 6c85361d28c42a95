package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripCategory classifies why a trip was scheduled.
type TripCategory string

const (
	CategoryMeeting   TripCategory = "meeting"
	CategoryFieldwork TripCategory = "fieldwork"
	CategoryLeave     TripCategory = "leave"
	CategoryOther     TripCategory = "other"
)

// Valid reports whether c is one of the known categories.
func (c TripCategory) Valid() bool {
	switch c {
	case CategoryMeeting, CategoryFieldwork, CategoryLeave, CategoryOther:
		return true
	}
	return false
}

// Trip represents a single scheduled outbound activity by one user.
// A trip is the top-level aggregate; the optional mileage sub-record
// belongs to it.
//
// Date carries calendar-day semantics only (stored as UTC midnight); the
// time window is expressed as same-day "HH:MM" clock strings, which compare
// correctly with plain string ordering.
//
// VehicleID is nil when no vehicle is needed — such trips are exempt from
// collision checks and the mileage workflow entirely. Mileage is nil until
// the driver reports odometer readings.
type Trip struct {
	ID           uuid.UUID    `json:"id"`
	OwnerID      uuid.UUID    `json:"owner_id"`
	OwnerName    string       `json:"owner_name"` // denormalized for display and conflict messages
	Date         time.Time    `json:"date"`
	StartTime    string       `json:"start_time"`
	EndTime      string       `json:"end_time"`
	Destination  string       `json:"destination"`
	Purpose      string       `json:"purpose"`
	Category     TripCategory `json:"category"`
	ProjectName  string       `json:"project_name"`
	CompanionIDs []uuid.UUID  `json:"companion_ids"`
	VehicleID    *uuid.UUID   `json:"vehicle_id,omitempty"`
	Mileage      *TripMileage `json:"mileage,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// TripMileage is the odometer report attached to a trip once its driver has
// completed it. Distance is stored redundantly (end − start) for query
// convenience; readers should fall back to recomputing it when zero.
type TripMileage struct {
	StartOdometer int64 `json:"start_odometer"`
	EndOdometer   int64 `json:"end_odometer"`
	Distance      int64 `json:"distance"`
	Refueled      bool  `json:"refueled"`
	Washed        bool  `json:"washed"`
}

// HasVehicle reports whether a vehicle is reserved for this trip.
func (t Trip) HasVehicle() bool { return t.VehicleID != nil }

// Reported reports whether the driver has completed the mileage report.
// Trips without a vehicle never report mileage.
func (t Trip) Reported() bool { return t.Mileage != nil }

// SameDay reports whether t and other fall on the same calendar date.
func (t Trip) SameDay(other Trip) bool { return t.Date.Equal(other.Date) }

// ChronoBefore reports whether t is chronologically earlier than other,
// ordering by date first and start time second. This is the ordering the
// mileage reconciliation walks: a trip's starting odometer is defined by the
// previous trip's ending odometer, so reporting must follow this order.
func (t Trip) ChronoBefore(other Trip) bool {
	if !t.Date.Equal(other.Date) {
		return t.Date.Before(other.Date)
	}
	return t.StartTime < other.StartTime
}

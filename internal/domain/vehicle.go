package domain

import (
	"time"

	"github.com/google/uuid"
)

// VehicleStatus is the reservation availability of a vehicle.
type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "available"
	VehicleMaintenance VehicleStatus = "maintenance"
)

// Valid reports whether s is one of the known statuses.
func (s VehicleStatus) Valid() bool {
	return s == VehicleAvailable || s == VehicleMaintenance
}

// Vehicle is a reservable fleet vehicle.
//
// StartingOdometer is the baseline reading before the system began tracking
// the vehicle; it seeds the implied start of the first reported trip.
// TotalMileage is derived — the sum of all reported trips' distances,
// excluding the baseline — and is always overwritten wholesale by the
// aggregator, never edited directly.
type Vehicle struct {
	ID               uuid.UUID     `json:"id"`
	PlateNumber      string        `json:"plate_number"`
	Name             string        `json:"name"`
	Type             string        `json:"type,omitempty"`
	Status           VehicleStatus `json:"status"`
	StartingOdometer int64         `json:"starting_odometer"`
	TotalMileage     int64         `json:"total_mileage"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

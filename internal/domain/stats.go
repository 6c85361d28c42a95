package domain

import "github.com/google/uuid"

// Summary is the headline numbers for a reporting period.
// TotalKm counts reported trips only. Personnel counts the owner plus
// companions of every non-leave trip (one person may be counted once per
// trip they joined).
type Summary struct {
	TotalKm      int64 `json:"total_km"`
	VehicleTrips int   `json:"vehicle_trips"`
	Personnel    int   `json:"personnel"`
}

// ProjectUsage aggregates trips billed to one project over a period.
// VehicleDays is the number of distinct dates on which the project used a
// vehicle. ManHours sums each trip's time window across owner and companions.
type ProjectUsage struct {
	ProjectName string  `json:"project_name"`
	VehicleDays int     `json:"vehicle_days"`
	VehicleKm   int64   `json:"vehicle_km"`
	ManHours    float64 `json:"man_hours"`
	Headcount   int     `json:"headcount"`
}

// VehicleUsage aggregates one vehicle's activity over a period.
type VehicleUsage struct {
	VehicleID   uuid.UUID `json:"vehicle_id"`
	Name        string    `json:"name"`
	PlateNumber string    `json:"plate_number"`
	ActiveDays  int       `json:"active_days"`
	TripCount   int       `json:"trip_count"`
	TotalKm     int64     `json:"total_km"`
}

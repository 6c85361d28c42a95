package domain

import "fmt"

// Conflict describes a vehicle double-booking detected by the collision
// check: another trip holds the same vehicle on the same date with an
// overlapping time window.
type Conflict struct {
	OwnerName string
	StartTime string
	EndTime   string
}

// Message renders the conflict for the submitter, naming the owner of the
// colliding reservation and its time window.
func (c Conflict) Message() string {
	return fmt.Sprintf("vehicle already reserved by %s (%s - %s)", c.OwnerName, c.StartTime, c.EndTime)
}

// MileageState is the computed position of a trip in the mileage workflow.
// Blocked is transient — derived from the vehicle's trip history, never
// persisted.
type MileageState string

const (
	MileageNoVehicle MileageState = "no_vehicle"
	MileagePending   MileageState = "pending"
	MileageBlocked   MileageState = "blocked"
	MileageReported  MileageState = "reported"
)

// MileageQueueEntry is one pending trip in the driver's mileage-report queue,
// annotated with the reconciliation results: whether reporting is blocked by
// an earlier unreported trip on the same vehicle, and the odometer value to
// pre-fill as the starting reading.
type MileageQueueEntry struct {
	Trip         Trip         `json:"trip"`
	State        MileageState `json:"state"`
	Blocked      bool         `json:"blocked"`
	ImpliedStart int64        `json:"implied_start"`
}

package domain

// ExportRow is a single row in the full trip-log export.
// It is a flat, denormalized view: one row per trip, with the vehicle and
// mileage columns empty for trips that never reserved a vehicle or have not
// reported yet.
//
// Companions holds display names, ordered as stored. Callers that need a
// joined string (e.g. CSV) should join with "|".
type ExportRow struct {
	TripID      string
	OwnerName   string
	Date        string // "2006-01-02" formatted date
	StartTime   string
	EndTime     string
	Destination string
	Purpose     string
	Category    string
	ProjectName string

	// Vehicle fields — empty strings when no vehicle was reserved.
	VehicleName  string
	VehiclePlate string

	// Mileage fields — nil when the trip has not been reported.
	StartOdometer *int64
	EndOdometer   *int64
	Distance      *int64
	Refueled      bool
	Washed        bool

	Companions []string
}

package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hclin/fleetflow/backend/internal/domain"
	"github.com/hclin/fleetflow/backend/internal/repo"
)

// ExportService assembles a full flat export of the trip log: one row per
// trip with its vehicle and mileage columns resolved, companions as display
// names.
type ExportService struct {
	trips    repo.TripRepo
	vehicles repo.VehicleRepo
	users    repo.UserRepo
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(trips repo.TripRepo, vehicles repo.VehicleRepo, users repo.UserRepo) *ExportService {
	return &ExportService{trips: trips, vehicles: vehicles, users: users}
}

// Export returns one ExportRow per trip, ordered chronologically.
// Always returns a non-nil slice.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	vehicles, err := s.vehicles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	vehicleByID := make(map[uuid.UUID]domain.Vehicle, len(vehicles))
	for _, v := range vehicles {
		vehicleByID[v.ID] = v
	}
	nameByID := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		nameByID[u.ID] = u.Name
	}

	rows := make([]domain.ExportRow, 0, len(trips))
	for _, t := range trips {
		rows = append(rows, exportRow(t, vehicleByID, nameByID))
	}
	return rows, nil
}

// exportRow flattens one trip. Companions whose account was deleted fall
// back to their raw ID so the row never silently loses a person.
func exportRow(t domain.Trip, vehicleByID map[uuid.UUID]domain.Vehicle, nameByID map[uuid.UUID]string) domain.ExportRow {
	row := domain.ExportRow{
		TripID:      t.ID.String(),
		OwnerName:   t.OwnerName,
		Date:        t.Date.Format("2006-01-02"),
		StartTime:   t.StartTime,
		EndTime:     t.EndTime,
		Destination: t.Destination,
		Purpose:     t.Purpose,
		Category:    string(t.Category),
		ProjectName: t.ProjectName,
		Refueled:    t.Mileage != nil && t.Mileage.Refueled,
		Washed:      t.Mileage != nil && t.Mileage.Washed,
		Companions:  []string{},
	}

	if t.HasVehicle() {
		if v, ok := vehicleByID[*t.VehicleID]; ok {
			row.VehicleName = v.Name
			row.VehiclePlate = v.PlateNumber
		}
	}
	if m := t.Mileage; m != nil {
		start, end, dist := m.StartOdometer, m.EndOdometer, m.Distance
		row.StartOdometer = &start
		row.EndOdometer = &end
		row.Distance = &dist
	}
	for _, id := range t.CompanionIDs {
		if name, ok := nameByID[id]; ok {
			row.Companions = append(row.Companions, name)
		} else {
			row.Companions = append(row.Companions, id.String())
		}
	}
	return row
}

package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/hclin/fleetflow/backend/internal/domain"
	"github.com/hclin/fleetflow/backend/internal/repo"
)

// StatsService computes the reporting views: a headline summary, per-project
// usage, and per-vehicle usage, each over an optional date range. All three
// operate on an in-memory snapshot of the full trip list.
type StatsService struct {
	trips    repo.TripRepo
	projects repo.ProjectRepo
	vehicles repo.VehicleRepo
}

// NewStatsService constructs a StatsService backed by the provided repos.
func NewStatsService(trips repo.TripRepo, projects repo.ProjectRepo, vehicles repo.VehicleRepo) *StatsService {
	return &StatsService{trips: trips, projects: projects, vehicles: vehicles}
}

// Summary returns the headline numbers for the period. A zero from or to
// leaves that end of the range open.
func (s *StatsService) Summary(ctx context.Context, from, to time.Time) (domain.Summary, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("service.StatsService.Summary: %w", err)
	}

	var sum domain.Summary
	for _, t := range filterPeriod(trips, from, to) {
		if t.Reported() {
			sum.TotalKm += tripDistance(t)
		}
		if t.HasVehicle() {
			sum.VehicleTrips++
		}
		if t.Category != domain.CategoryLeave {
			sum.Personnel += 1 + len(t.CompanionIDs)
		}
	}
	return sum, nil
}

// ProjectUsage returns one row per project over the period, including
// projects with no activity. Always returns a non-nil slice.
func (s *StatsService) ProjectUsage(ctx context.Context, from, to time.Time) ([]domain.ProjectUsage, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.StatsService.ProjectUsage: %w", err)
	}
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.StatsService.ProjectUsage: %w", err)
	}
	period := filterPeriod(trips, from, to)

	usage := []domain.ProjectUsage{}
	for _, p := range projects {
		row := domain.ProjectUsage{ProjectName: p.Name}
		vehicleDates := map[string]struct{}{}
		for _, t := range period {
			if t.ProjectName != p.Name {
				continue
			}
			if t.HasVehicle() {
				vehicleDates[t.Date.Format("2006-01-02")] = struct{}{}
			}
			if t.Reported() {
				row.VehicleKm += tripDistance(t)
			}
			row.ManHours += windowHours(t.StartTime, t.EndTime)
			if t.Category != domain.CategoryLeave {
				row.Headcount += 1 + len(t.CompanionIDs)
			}
		}
		row.VehicleDays = len(vehicleDates)
		usage = append(usage, row)
	}
	return usage, nil
}

// VehicleUsage returns one row per vehicle over the period, including idle
// vehicles. Always returns a non-nil slice.
func (s *StatsService) VehicleUsage(ctx context.Context, from, to time.Time) ([]domain.VehicleUsage, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.StatsService.VehicleUsage: %w", err)
	}
	vehicles, err := s.vehicles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.StatsService.VehicleUsage: %w", err)
	}
	period := filterPeriod(trips, from, to)

	usage := []domain.VehicleUsage{}
	for _, v := range vehicles {
		row := domain.VehicleUsage{VehicleID: v.ID, Name: v.Name, PlateNumber: v.PlateNumber}
		dates := map[string]struct{}{}
		for _, t := range period {
			if !t.HasVehicle() || *t.VehicleID != v.ID {
				continue
			}
			dates[t.Date.Format("2006-01-02")] = struct{}{}
			row.TripCount++
			if t.Reported() {
				row.TotalKm += tripDistance(t)
			}
		}
		row.ActiveDays = len(dates)
		usage = append(usage, row)
	}
	return usage, nil
}

// filterPeriod keeps trips whose date falls within [from, to]. A zero bound
// is open.
func filterPeriod(trips []domain.Trip, from, to time.Time) []domain.Trip {
	out := []domain.Trip{}
	for _, t := range trips {
		if !from.IsZero() && t.Date.Before(from) {
			continue
		}
		if !to.IsZero() && t.Date.After(to) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// tripDistance returns the reported distance of a trip, recomputing from
// the odometer readings when the stored delta is missing. Non-positive
// deltas count as zero, mirroring the aggregator.
func tripDistance(t domain.Trip) int64 {
	if t.Mileage == nil {
		return 0
	}
	d := t.Mileage.Distance
	if d == 0 {
		d = t.Mileage.EndOdometer - t.Mileage.StartOdometer
	}
	if d < 0 {
		return 0
	}
	return d
}

// windowHours returns the length of a same-day "HH:MM" window in hours.
// Malformed or inverted windows yield zero.
func windowHours(start, end string) float64 {
	s, okS := clockMinutes(start)
	e, okE := clockMinutes(end)
	if !okS || !okE || e <= s {
		return 0
	}
	return float64(e-s) / 60
}

// clockMinutes parses "HH:MM" into minutes since midnight.
func clockMinutes(clock string) (int, bool) {
	if !validClock(clock) {
		return 0, false
	}
	hh, _ := strconv.Atoi(clock[:2])
	mm, _ := strconv.Atoi(clock[3:])
	return hh*60 + mm, true
}

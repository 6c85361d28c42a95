package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hclin/fleetflow/backend/internal/domain"
	"github.com/hclin/fleetflow/backend/internal/repo"
	"github.com/hclin/fleetflow/backend/internal/service"
)

// Hand-written test doubles shared by the service tests. Each method is a
// function field — set only the ones your test needs. This is idiomatic Go:
// no mock generation library required for simple cases.

type mockTripRepo struct {
	create               func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID              func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	list                 func(ctx context.Context) ([]domain.Trip, error)
	listPaged            func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	listByVehicle        func(ctx context.Context, vehicleID uuid.UUID) ([]domain.Trip, error)
	listByVehicleAndDate func(ctx context.Context, vehicleID uuid.UUID, date time.Time) ([]domain.Trip, error)
	listByOwnerPending   func(ctx context.Context, ownerID uuid.UUID) ([]domain.Trip, error)
	update               func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	updateMileage        func(ctx context.Context, id uuid.UUID, m domain.TripMileage) (domain.Trip, error)
	delete               func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	return m.list(ctx)
}
func (m *mockTripRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockTripRepo) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.Trip, error) {
	return m.listByVehicle(ctx, vehicleID)
}
func (m *mockTripRepo) ListByVehicleAndDate(ctx context.Context, vehicleID uuid.UUID, date time.Time) ([]domain.Trip, error) {
	return m.listByVehicleAndDate(ctx, vehicleID, date)
}
func (m *mockTripRepo) ListByOwnerPending(ctx context.Context, ownerID uuid.UUID) ([]domain.Trip, error) {
	return m.listByOwnerPending(ctx, ownerID)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) UpdateMileage(ctx context.Context, id uuid.UUID, mi domain.TripMileage) (domain.Trip, error) {
	return m.updateMileage(ctx, id, mi)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// compile-time check: mockTripRepo must satisfy repo.TripRepo.
var _ repo.TripRepo = (*mockTripRepo)(nil)

type mockVehicleRepo struct {
	create             func(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	getByID            func(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
	list               func(ctx context.Context) ([]domain.Vehicle, error)
	update             func(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	updateTotalMileage func(ctx context.Context, id uuid.UUID, total int64) error
	delete             func(ctx context.Context, id uuid.UUID) error
}

func (m *mockVehicleRepo) Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	return m.create(ctx, v)
}
func (m *mockVehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	return m.getByID(ctx, id)
}
func (m *mockVehicleRepo) List(ctx context.Context) ([]domain.Vehicle, error) {
	return m.list(ctx)
}
func (m *mockVehicleRepo) Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	return m.update(ctx, v)
}
func (m *mockVehicleRepo) UpdateTotalMileage(ctx context.Context, id uuid.UUID, total int64) error {
	return m.updateTotalMileage(ctx, id, total)
}
func (m *mockVehicleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.VehicleRepo = (*mockVehicleRepo)(nil)

type mockUserRepo struct {
	create        func(ctx context.Context, u domain.User) (domain.User, error)
	getByID       func(ctx context.Context, id uuid.UUID) (domain.User, error)
	getByUsername func(ctx context.Context, username string) (domain.User, error)
	list          func(ctx context.Context) ([]domain.User, error)
	update        func(ctx context.Context, u domain.User) (domain.User, error)
	delete        func(ctx context.Context, id uuid.UUID) error
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	return m.create(ctx, u)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return m.getByUsername(ctx, username)
}
func (m *mockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	return m.list(ctx)
}
func (m *mockUserRepo) Update(ctx context.Context, u domain.User) (domain.User, error) {
	return m.update(ctx, u)
}
func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

type mockProjectRepo struct {
	create    func(ctx context.Context, p domain.Project) (domain.Project, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Project, error)
	getByName func(ctx context.Context, name string) (domain.Project, error)
	list      func(ctx context.Context) ([]domain.Project, error)
	update    func(ctx context.Context, p domain.Project) (domain.Project, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockProjectRepo) Create(ctx context.Context, p domain.Project) (domain.Project, error) {
	return m.create(ctx, p)
}
func (m *mockProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Project, error) {
	return m.getByID(ctx, id)
}
func (m *mockProjectRepo) GetByName(ctx context.Context, name string) (domain.Project, error) {
	return m.getByName(ctx, name)
}
func (m *mockProjectRepo) List(ctx context.Context) ([]domain.Project, error) {
	return m.list(ctx)
}
func (m *mockProjectRepo) Update(ctx context.Context, p domain.Project) (domain.Project, error) {
	return m.update(ctx, p)
}
func (m *mockProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.ProjectRepo = (*mockProjectRepo)(nil)

// mockSyncer records every vehicle resync request.
type mockSyncer struct {
	synced []uuid.UUID
	total  int64
	err    error
}

func (m *mockSyncer) SyncVehicleMileage(_ context.Context, vehicleID uuid.UUID) (int64, error) {
	m.synced = append(m.synced, vehicleID)
	return m.total, m.err
}

var _ service.VehicleSyncer = (*mockSyncer)(nil)

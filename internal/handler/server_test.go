package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/hclin/fleetflow/backend/internal/domain"
	"github.com/hclin/fleetflow/backend/internal/handler"
	"github.com/hclin/fleetflow/backend/internal/service"
)

// Test doubles for the Server's service interfaces. Each mock exposes one
// function field per method — set only the ones your test needs.

type mockTripServicer struct {
	create    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update    func(ctx context.Context, trip domain.Trip, actor service.TokenClaims) (domain.Trip, error)
	delete    func(ctx context.Context, id uuid.UUID, actor service.TokenClaims) error
}

func (m *mockTripServicer) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, t)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockTripServicer) Update(ctx context.Context, t domain.Trip, actor service.TokenClaims) (domain.Trip, error) {
	return m.update(ctx, t, actor)
}
func (m *mockTripServicer) Delete(ctx context.Context, id uuid.UUID, actor service.TokenClaims) error {
	return m.delete(ctx, id, actor)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

type mockMileageServicer struct {
	queue         func(ctx context.Context, ownerID uuid.UUID) ([]domain.MileageQueueEntry, error)
	reportMileage func(ctx context.Context, tripID uuid.UUID, start, end int64, refueled, washed bool, actor service.TokenClaims) (domain.Trip, error)
	sync          func(ctx context.Context, vehicleID uuid.UUID) (int64, error)
}

func (m *mockMileageServicer) Queue(ctx context.Context, ownerID uuid.UUID) ([]domain.MileageQueueEntry, error) {
	return m.queue(ctx, ownerID)
}
func (m *mockMileageServicer) ReportMileage(ctx context.Context, tripID uuid.UUID, start, end int64, refueled, washed bool, actor service.TokenClaims) (domain.Trip, error) {
	return m.reportMileage(ctx, tripID, start, end, refueled, washed, actor)
}
func (m *mockMileageServicer) SyncVehicleMileage(ctx context.Context, vehicleID uuid.UUID) (int64, error) {
	return m.sync(ctx, vehicleID)
}

var _ handler.MileageServicer = (*mockMileageServicer)(nil)

type mockVehicleServicer struct {
	create  func(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
	list    func(ctx context.Context) ([]domain.Vehicle, error)
	update  func(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockVehicleServicer) Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	return m.create(ctx, v)
}
func (m *mockVehicleServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	return m.getByID(ctx, id)
}
func (m *mockVehicleServicer) List(ctx context.Context) ([]domain.Vehicle, error) {
	return m.list(ctx)
}
func (m *mockVehicleServicer) Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	return m.update(ctx, v)
}
func (m *mockVehicleServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ handler.VehicleServicer = (*mockVehicleServicer)(nil)

type mockUserServicer struct {
	create  func(ctx context.Context, u domain.User, pin string) (domain.User, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.User, error)
	list    func(ctx context.Context) ([]domain.User, error)
	update  func(ctx context.Context, u domain.User, pin string) (domain.User, error)
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockUserServicer) Create(ctx context.Context, u domain.User, pin string) (domain.User, error) {
	return m.create(ctx, u, pin)
}
func (m *mockUserServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserServicer) List(ctx context.Context) ([]domain.User, error) {
	return m.list(ctx)
}
func (m *mockUserServicer) Update(ctx context.Context, u domain.User, pin string) (domain.User, error) {
	return m.update(ctx, u, pin)
}
func (m *mockUserServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ handler.UserServicer = (*mockUserServicer)(nil)

type mockProjectServicer struct {
	create func(ctx context.Context, p domain.Project) (domain.Project, error)
	list   func(ctx context.Context) ([]domain.Project, error)
	update func(ctx context.Context, p domain.Project) (domain.Project, error)
	delete func(ctx context.Context, id uuid.UUID) error
}

func (m *mockProjectServicer) Create(ctx context.Context, p domain.Project) (domain.Project, error) {
	return m.create(ctx, p)
}
func (m *mockProjectServicer) List(ctx context.Context) ([]domain.Project, error) {
	return m.list(ctx)
}
func (m *mockProjectServicer) Update(ctx context.Context, p domain.Project) (domain.Project, error) {
	return m.update(ctx, p)
}
func (m *mockProjectServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ handler.ProjectServicer = (*mockProjectServicer)(nil)

type mockAuthServicer struct {
	login  func(ctx context.Context, username, pin string) (string, domain.User, error)
	verify func(token string) (service.TokenClaims, error)
}

func (m *mockAuthServicer) Login(ctx context.Context, username, pin string) (string, domain.User, error) {
	return m.login(ctx, username, pin)
}
func (m *mockAuthServicer) Verify(token string) (service.TokenClaims, error) {
	return m.verify(token)
}

var _ handler.AuthServicer = (*mockAuthServicer)(nil)

type mockStatsServicer struct {
	summary  func(ctx context.Context, from, to time.Time) (domain.Summary, error)
	projects func(ctx context.Context, from, to time.Time) ([]domain.ProjectUsage, error)
	vehicles func(ctx context.Context, from, to time.Time) ([]domain.VehicleUsage, error)
}

func (m *mockStatsServicer) Summary(ctx context.Context, from, to time.Time) (domain.Summary, error) {
	return m.summary(ctx, from, to)
}
func (m *mockStatsServicer) ProjectUsage(ctx context.Context, from, to time.Time) ([]domain.ProjectUsage, error) {
	return m.projects(ctx, from, to)
}
func (m *mockStatsServicer) VehicleUsage(ctx context.Context, from, to time.Time) ([]domain.VehicleUsage, error) {
	return m.vehicles(ctx, from, to)
}

var _ handler.StatsServicer = (*mockStatsServicer)(nil)

type mockExportServicer struct {
	export func(ctx context.Context) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context) ([]domain.ExportRow, error) {
	return m.export(ctx)
}

var _ handler.ExportServicer = (*mockExportServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// deps bundles the mocks wired into a test Server. Zero-value fields are
// replaced by empty mocks, so tests only populate what they exercise.
type deps struct {
	trips    *mockTripServicer
	mileage  *mockMileageServicer
	vehicles *mockVehicleServicer
	users    *mockUserServicer
	projects *mockProjectServicer
	auth     *mockAuthServicer
	stats    *mockStatsServicer
	export   *mockExportServicer
}

// memberClaims/adminClaims are the identities the default test verifier
// returns for the "member-token" and "admin-token" bearer tokens.
var (
	memberClaims = service.TokenClaims{UserID: uuid.New(), Name: "Alice", Role: domain.RoleMember}
	adminClaims  = service.TokenClaims{UserID: uuid.New(), Name: "Root", Role: domain.RoleAdmin}
)

// newHTTPHandler wires a Server with the given mocks into the chi router,
// mirroring how main.go wires it in production. The auth mock (unless
// overridden) accepts "member-token" and "admin-token" and rejects all else.
func newHTTPHandler(d deps) http.Handler {
	if d.trips == nil {
		d.trips = &mockTripServicer{}
	}
	if d.mileage == nil {
		d.mileage = &mockMileageServicer{}
	}
	if d.vehicles == nil {
		d.vehicles = &mockVehicleServicer{}
	}
	if d.users == nil {
		d.users = &mockUserServicer{}
	}
	if d.projects == nil {
		d.projects = &mockProjectServicer{}
	}
	if d.auth == nil {
		d.auth = &mockAuthServicer{
			verify: func(token string) (service.TokenClaims, error) {
				switch token {
				case "member-token":
					return memberClaims, nil
				case "admin-token":
					return adminClaims, nil
				}
				return service.TokenClaims{}, domain.ErrUnauthorized
			},
		}
	}
	if d.stats == nil {
		d.stats = &mockStatsServicer{}
	}
	if d.export == nil {
		d.export = &mockExportServicer{}
	}
	srv := handler.NewServer(d.trips, d.mileage, d.vehicles, d.users, d.projects, d.auth, d.stats, d.export)
	return srv.Routes()
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, h http.Handler, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewBuffer(b)
	} else {
		buf = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

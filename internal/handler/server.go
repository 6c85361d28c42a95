// Package handler implements the HTTP handlers for the FleetFlow API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (trip.go, mileage.go, etc.) but all share the same Server struct so
// they can access its dependencies. Routes assembles the chi router,
// including the auth middleware; main.go mounts the result.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/hclin/fleetflow/backend/internal/domain"
	"github.com/hclin/fleetflow/backend/internal/middleware"
	"github.com/hclin/fleetflow/backend/internal/service"
	"github.com/hclin/fleetflow/backend/spec"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, trip domain.Trip, actor service.TokenClaims) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID, actor service.TokenClaims) error
}

// MileageServicer defines the mileage-report workflow operations.
type MileageServicer interface {
	Queue(ctx context.Context, ownerID uuid.UUID) ([]domain.MileageQueueEntry, error)
	ReportMileage(ctx context.Context, tripID uuid.UUID, start, end int64, refueled, washed bool, actor service.TokenClaims) (domain.Trip, error)
	SyncVehicleMileage(ctx context.Context, vehicleID uuid.UUID) (int64, error)
}

// VehicleServicer defines the fleet management operations.
type VehicleServicer interface {
	Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
	List(ctx context.Context) ([]domain.Vehicle, error)
	Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserServicer defines the staff account operations.
type UserServicer interface {
	Create(ctx context.Context, u domain.User, pin string) (domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, u domain.User, pin string) (domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProjectServicer defines the project management operations.
type ProjectServicer interface {
	Create(ctx context.Context, p domain.Project) (domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
	Update(ctx context.Context, p domain.Project) (domain.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AuthServicer defines login and token verification. It doubles as the
// middleware.TokenVerifier wired into the router.
type AuthServicer interface {
	Login(ctx context.Context, username, pin string) (string, domain.User, error)
	Verify(token string) (service.TokenClaims, error)
}

// StatsServicer defines the reporting views.
type StatsServicer interface {
	Summary(ctx context.Context, from, to time.Time) (domain.Summary, error)
	ProjectUsage(ctx context.Context, from, to time.Time) ([]domain.ProjectUsage, error)
	VehicleUsage(ctx context.Context, from, to time.Time) ([]domain.VehicleUsage, error)
}

// ExportServicer defines the flat trip-log export.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// Server holds the dependencies shared by every handler method.
type Server struct {
	trips    TripServicer
	mileage  MileageServicer
	vehicles VehicleServicer
	users    UserServicer
	projects ProjectServicer
	auth     AuthServicer
	stats    StatsServicer
	export   ExportServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(
	trips TripServicer,
	mileage MileageServicer,
	vehicles VehicleServicer,
	users UserServicer,
	projects ProjectServicer,
	auth AuthServicer,
	stats StatsServicer,
	export ExportServicer,
) *Server {
	return &Server{
		trips:    trips,
		mileage:  mileage,
		vehicles: vehicles,
		users:    users,
		projects: projects,
		auth:     auth,
		stats:    stats,
		export:   export,
	}
}

// Routes assembles the API router. Login and the health/spec endpoints are
// public; everything else requires a bearer token, and mutations on
// vehicles, users, and projects additionally require the admin role.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveOpenAPI)

	r.Group(func(r chi.Router) {
		// 5-token burst, one refill per second: tight enough to blunt PIN
		// guessing, loose enough for a shared office NAT.
		r.Use(middleware.NewRateLimiter(rate.Limit(1), 5))
		r.Post("/auth/login", s.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthenticator(s.auth))

		r.Route("/trips", func(r chi.Router) {
			r.Post("/", s.CreateTrip)
			r.Get("/", s.ListTrips)
			r.Get("/{id}", s.GetTrip)
			r.Put("/{id}", s.UpdateTrip)
			r.Delete("/{id}", s.DeleteTrip)
			r.Post("/{id}/mileage", s.ReportMileage)
		})

		r.Get("/mileage/queue", s.GetMileageQueue)

		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", s.ListVehicles)
			r.Get("/{id}", s.GetVehicle)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", s.CreateVehicle)
				r.Put("/{id}", s.UpdateVehicle)
				r.Delete("/{id}", s.DeleteVehicle)
				r.Post("/{id}/sync", s.SyncVehicle)
			})
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", s.ListProjects)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", s.CreateProject)
				r.Put("/{id}", s.UpdateProject)
				r.Delete("/{id}", s.DeleteProject)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Post("/", s.CreateUser)
			r.Get("/", s.ListUsers)
			r.Get("/{id}", s.GetUser)
			r.Put("/{id}", s.UpdateUser)
			r.Delete("/{id}", s.DeleteUser)
		})

		r.Route("/stats", func(r chi.Router) {
			r.Get("/summary", s.GetStatsSummary)
			r.Get("/projects", s.GetStatsProjects)
			r.Get("/vehicles", s.GetStatsVehicles)
		})

		r.Get("/export", s.GetExport)
	})

	return r
}

// serveOpenAPI serves the embedded API document.
func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New("malformed request body")
	}
	return nil
}

// idParam parses the {id} path parameter.
func idParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

// queryInt parses an optional integer query parameter. Absent or malformed
// values yield nil, which downstream defaults handle.
func queryInt(r *http.Request, key string) *int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

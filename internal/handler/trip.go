package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/hclin/fleetflow/backend/internal/domain"
	"github.com/hclin/fleetflow/backend/internal/middleware"
)

// TripRequest is the JSON body accepted by POST /trips and PUT /trips/{id}.
// Dates use the "2006-01-02" form; times are same-day "HH:MM" strings.
type TripRequest struct {
	Date         openapi_types.Date  `json:"date"`
	StartTime    string              `json:"start_time"`
	EndTime      string              `json:"end_time"`
	Destination  string              `json:"destination"`
	Purpose      string              `json:"purpose"`
	Category     string              `json:"category"`
	ProjectName  string              `json:"project_name"`
	CompanionIDs []uuid.UUID         `json:"companion_ids,omitempty"`
	VehicleID    *uuid.UUID          `json:"vehicle_id,omitempty"`
	Mileage      *TripMileageRequest `json:"mileage,omitempty"`
}

// TripMileageRequest carries odometer readings inside a trip submission.
type TripMileageRequest struct {
	StartOdometer int64 `json:"start_odometer"`
	EndOdometer   int64 `json:"end_odometer"`
	Refueled      bool  `json:"refueled"`
	Washed        bool  `json:"washed"`
}

// TripResponse is the JSON representation of a trip.
type TripResponse struct {
	ID           uuid.UUID           `json:"id"`
	OwnerID      uuid.UUID           `json:"owner_id"`
	OwnerName    string              `json:"owner_name"`
	Date         openapi_types.Date  `json:"date"`
	StartTime    string              `json:"start_time"`
	EndTime      string              `json:"end_time"`
	Destination  string              `json:"destination"`
	Purpose      string              `json:"purpose"`
	Category     string              `json:"category"`
	ProjectName  string              `json:"project_name"`
	CompanionIDs []uuid.UUID         `json:"companion_ids"`
	VehicleID    *uuid.UUID          `json:"vehicle_id,omitempty"`
	Mileage      *domain.TripMileage `json:"mileage,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// TripListResponse is one page of trips plus pagination metadata.
type TripListResponse struct {
	Data       []TripResponse `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// Pagination echoes the effective page parameters and the total row count.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// CreateTrip handles POST /trips. The authenticated user becomes the owner.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body TripRequest
	if err := decodeJSON(r, &body); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	trip := requestToTrip(body)
	if claims, ok := middleware.ClaimsFrom(r.Context()); ok {
		trip.OwnerID = claims.UserID
		trip.OwnerName = claims.Name
	}

	created, err := s.trips.Create(r.Context(), trip)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))
	trips, total, err := s.trips.ListPaged(r.Context(), params)
	if err != nil {
		respondError(w, err)
		return
	}

	data := make([]TripResponse, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, TripListResponse{
		Data: data,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondNotFound(w, "trip not found")
		return
	}
	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(w, "trip not found")
			return
		}
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /trips/{id}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondNotFound(w, "trip not found")
		return
	}
	var body TripRequest
	if err := decodeJSON(r, &body); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	trip := requestToTrip(body)
	trip.ID = id

	// The service enforces owner-or-admin and keeps the stored owner; the
	// claims only identify the caller.
	claims, _ := middleware.ClaimsFrom(r.Context())
	updated, err := s.trips.Update(r.Context(), trip, claims)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(w, "trip not found")
			return
		}
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondNotFound(w, "trip not found")
		return
	}
	claims, _ := middleware.ClaimsFrom(r.Context())
	if err := s.trips.Delete(r.Context(), id, claims); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(w, "trip not found")
			return
		}
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// requestToTrip converts a TripRequest body into a domain.Trip. Owner fields
// are filled from the token claims by the caller.
func requestToTrip(body TripRequest) domain.Trip {
	t := domain.Trip{
		Date:         body.Date.Time,
		StartTime:    body.StartTime,
		EndTime:      body.EndTime,
		Destination:  body.Destination,
		Purpose:      body.Purpose,
		Category:     domain.TripCategory(body.Category),
		ProjectName:  body.ProjectName,
		CompanionIDs: body.CompanionIDs,
		VehicleID:    body.VehicleID,
	}
	if m := body.Mileage; m != nil {
		t.Mileage = &domain.TripMileage{
			StartOdometer: m.StartOdometer,
			EndOdometer:   m.EndOdometer,
			Refueled:      m.Refueled,
			Washed:        m.Washed,
		}
	}
	return t
}

// tripToResponse converts a domain.Trip into its JSON representation.
func tripToResponse(t domain.Trip) TripResponse {
	companions := t.CompanionIDs
	if companions == nil {
		companions = []uuid.UUID{}
	}
	return TripResponse{
		ID:           t.ID,
		OwnerID:      t.OwnerID,
		OwnerName:    t.OwnerName,
		Date:         openapi_types.Date{Time: t.Date},
		StartTime:    t.StartTime,
		EndTime:      t.EndTime,
		Destination:  t.Destination,
		Purpose:      t.Purpose,
		Category:     string(t.Category),
		ProjectName:  t.ProjectName,
		CompanionIDs: companions,
		VehicleID:    t.VehicleID,
		Mileage:      t.Mileage,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

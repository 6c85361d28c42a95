package handler

import (
	"errors"
	"net/http"

	"github.com/hclin/fleetflow/backend/internal/domain"
)

// VehicleRequest is the JSON body accepted by POST /vehicles and
// PUT /vehicles/{id}. TotalMileage is absent: it is derived and only the
// aggregator writes it.
type VehicleRequest struct {
	PlateNumber      string `json:"plate_number"`
	Name             string `json:"name"`
	Type             string `json:"type,omitempty"`
	Status           string `json:"status"`
	StartingOdometer int64  `json:"starting_odometer"`
}

// SyncResponse is the body returned by POST /vehicles/{id}/sync.
type SyncResponse struct {
	TotalMileage int64 `json:"total_mileage"`
}

// CreateVehicle handles POST /vehicles (admin).
func (s *Server) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var body VehicleRequest
	if err := decodeJSON(r, &body); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	created, err := s.vehicles.Create(r.Context(), requestToVehicle(body))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListVehicles handles GET /vehicles.
func (s *Server) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := s.vehicles.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

// GetVehicle handles GET /vehicles/{id}.
func (s *Server) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondNotFound(w, "vehicle not found")
		return
	}
	v, err := s.vehicles.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(w, "vehicle not found")
			return
		}
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// UpdateVehicle handles PUT /vehicles/{id} (admin).
func (s *Server) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondNotFound(w, "vehicle not found")
		return
	}
	var body VehicleRequest
	if err := decodeJSON(r, &body); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	v := requestToVehicle(body)
	v.ID = id

	updated, err := s.vehicles.Update(r.Context(), v)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(w, "vehicle not found")
			return
		}
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteVehicle handles DELETE /vehicles/{id} (admin).
func (s *Server) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondNotFound(w, "vehicle not found")
		return
	}
	if err := s.vehicles.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(w, "vehicle not found")
			return
		}
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SyncVehicle handles POST /vehicles/{id}/sync (admin). Forces a full
// recompute of the vehicle's total mileage and returns the new value.
func (s *Server) SyncVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondNotFound(w, "vehicle not found")
		return
	}
	total, err := s.mileage.SyncVehicleMileage(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(w, "vehicle not found")
			return
		}
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SyncResponse{TotalMileage: total})
}

func requestToVehicle(body VehicleRequest) domain.Vehicle {
	return domain.Vehicle{
		PlateNumber:      body.PlateNumber,
		Name:             body.Name,
		Type:             body.Type,
		Status:           domain.VehicleStatus(body.Status),
		StartingOdometer: body.StartingOdometer,
	}
}

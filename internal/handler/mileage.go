package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/hclin/fleetflow/backend/internal/domain"
	"github.com/hclin/fleetflow/backend/internal/middleware"
)

// MileageReportRequest is the JSON body accepted by POST /trips/{id}/mileage.
type MileageReportRequest struct {
	StartOdometer int64 `json:"start_odometer"`
	EndOdometer   int64 `json:"end_odometer"`
	Refueled      bool  `json:"refueled"`
	Washed        bool  `json:"washed"`
}

// MileageQueueEntryResponse is one row of the pending-report queue. State is
// the trip's position in the mileage workflow ("pending" or "blocked" here;
// reported trips never appear in the queue).
type MileageQueueEntryResponse struct {
	Trip         TripResponse `json:"trip"`
	State        string       `json:"state"`
	Blocked      bool         `json:"blocked"`
	ImpliedStart int64        `json:"implied_start"`
}

// GetMileageQueue handles GET /mileage/queue. The queue belongs to the
// authenticated user unless ?owner_id= overrides it (used by admins checking
// on outstanding reports).
func (s *Server) GetMileageQueue(w http.ResponseWriter, r *http.Request) {
	ownerID := uuid.Nil
	if claims, ok := middleware.ClaimsFrom(r.Context()); ok {
		ownerID = claims.UserID
	}
	if raw := r.URL.Query().Get("owner_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondBadRequest(w, "owner_id must be a UUID")
			return
		}
		ownerID = id
	}

	entries, err := s.mileage.Queue(r.Context(), ownerID)
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]MileageQueueEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = MileageQueueEntryResponse{
			Trip:         tripToResponse(e.Trip),
			State:        string(e.State),
			Blocked:      e.Blocked,
			ImpliedStart: e.ImpliedStart,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// ReportMileage handles POST /trips/{id}/mileage.
func (s *Server) ReportMileage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondNotFound(w, "trip not found")
		return
	}
	var body MileageReportRequest
	if err := decodeJSON(r, &body); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	claims, _ := middleware.ClaimsFrom(r.Context())
	updated, err := s.mileage.ReportMileage(r.Context(), id,
		body.StartOdometer, body.EndOdometer, body.Refueled, body.Washed, claims)
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

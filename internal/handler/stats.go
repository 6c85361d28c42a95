package handler

import (
	"net/http"
	"time"
)

// GetStatsSummary handles GET /stats/summary.
// Accepts optional ?from= and ?to= date bounds in "2006-01-02" form.
func (s *Server) GetStatsSummary(w http.ResponseWriter, r *http.Request) {
	from, to, ok := periodParams(w, r)
	if !ok {
		return
	}
	summary, err := s.stats.Summary(r.Context(), from, to)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GetStatsProjects handles GET /stats/projects.
func (s *Server) GetStatsProjects(w http.ResponseWriter, r *http.Request) {
	from, to, ok := periodParams(w, r)
	if !ok {
		return
	}
	usage, err := s.stats.ProjectUsage(r.Context(), from, to)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, usage)
}

// GetStatsVehicles handles GET /stats/vehicles.
func (s *Server) GetStatsVehicles(w http.ResponseWriter, r *http.Request) {
	from, to, ok := periodParams(w, r)
	if !ok {
		return
	}
	usage, err := s.stats.VehicleUsage(r.Context(), from, to)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, usage)
}

// periodParams parses the optional ?from= and ?to= bounds. A missing
// parameter leaves that end of the range open (zero time). On a malformed
// date it writes a 422 and returns ok=false.
func periodParams(w http.ResponseWriter, r *http.Request) (from, to time.Time, ok bool) {
	parse := func(key string) (time.Time, bool) {
		raw := r.URL.Query().Get(key)
		if raw == "" {
			return time.Time{}, true
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondBadRequest(w, key+" must be a date in YYYY-MM-DD form")
			return time.Time{}, false
		}
		return t, true
	}
	if from, ok = parse("from"); !ok {
		return
	}
	to, ok = parse("to")
	return
}

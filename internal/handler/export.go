// Package handler — export.go implements GET /export.
// Returns the full trip log as a flat table, one row per trip.
// Supports content negotiation via ?format=csv (CSV) or default (JSON).
package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"github.com/hclin/fleetflow/backend/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "owner", "date", "start_time", "end_time",
	"destination", "purpose", "category", "project",
	"vehicle", "plate", "start_odometer", "end_odometer", "distance",
	"refueled", "washed", "companions",
}

// ExportRowResponse is the JSON form of one export row.
type ExportRowResponse struct {
	TripID        string   `json:"trip_id"`
	OwnerName     string   `json:"owner_name"`
	Date          string   `json:"date"`
	StartTime     string   `json:"start_time"`
	EndTime       string   `json:"end_time"`
	Destination   string   `json:"destination"`
	Purpose       string   `json:"purpose"`
	Category      string   `json:"category"`
	ProjectName   string   `json:"project_name"`
	VehicleName   string   `json:"vehicle_name,omitempty"`
	VehiclePlate  string   `json:"vehicle_plate,omitempty"`
	StartOdometer *int64   `json:"start_odometer,omitempty"`
	EndOdometer   *int64   `json:"end_odometer,omitempty"`
	Distance      *int64   `json:"distance,omitempty"`
	Refueled      bool     `json:"refueled"`
	Washed        bool     `json:"washed"`
	Companions    []string `json:"companions"`
}

// GetExport handles GET /export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	rows, err := s.export.Export(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSVExport(w, rows)
		return
	}

	out := make([]ExportRowResponse, len(rows))
	for i, row := range rows {
		out[i] = rowToResponse(row)
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSVExport encodes rows as CSV. Companions within a row are
// pipe-separated ("|") to keep each trip on a single CSV line.
func writeCSVExport(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck — bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write(rowToCSVRecord(r))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="trips.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func rowToResponse(r domain.ExportRow) ExportRowResponse {
	companions := r.Companions
	if companions == nil {
		companions = []string{}
	}
	return ExportRowResponse{
		TripID:        r.TripID,
		OwnerName:     r.OwnerName,
		Date:          r.Date,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Destination:   r.Destination,
		Purpose:       r.Purpose,
		Category:      r.Category,
		ProjectName:   r.ProjectName,
		VehicleName:   r.VehicleName,
		VehiclePlate:  r.VehiclePlate,
		StartOdometer: r.StartOdometer,
		EndOdometer:   r.EndOdometer,
		Distance:      r.Distance,
		Refueled:      r.Refueled,
		Washed:        r.Washed,
		Companions:    companions,
	}
}

// rowToCSVRecord encodes an ExportRow as a flat string slice.
// Nil odometer pointers become empty strings.
func rowToCSVRecord(r domain.ExportRow) []string {
	return []string{
		r.TripID,
		r.OwnerName,
		r.Date,
		r.StartTime,
		r.EndTime,
		r.Destination,
		r.Purpose,
		r.Category,
		r.ProjectName,
		r.VehicleName,
		r.VehiclePlate,
		formatOptionalInt(r.StartOdometer),
		formatOptionalInt(r.EndOdometer),
		formatOptionalInt(r.Distance),
		strconv.FormatBool(r.Refueled),
		strconv.FormatBool(r.Washed),
		strings.Join(r.Companions, "|"),
	}
}

// formatOptionalInt returns the decimal representation of n, or "" if n is nil.
func formatOptionalInt(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}

package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hclin/fleetflow/backend/internal/domain"
	"github.com/hclin/fleetflow/backend/internal/handler"
	"github.com/hclin/fleetflow/backend/internal/service"
)

func tripFixture() domain.Trip {
	vid := uuid.New()
	return domain.Trip{
		ID:           uuid.New(),
		OwnerID:      memberClaims.UserID,
		OwnerName:    "Alice",
		Date:         time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		StartTime:    "09:00",
		EndTime:      "11:00",
		Destination:  "client site",
		Purpose:      "site visit",
		Category:     domain.CategoryFieldwork,
		ProjectName:  "Survey 2024",
		CompanionIDs: []uuid.UUID{},
		VehicleID:    &vid,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
}

func tripBody(fixture domain.Trip) map[string]any {
	body := map[string]any{
		"date":         fixture.Date.Format("2006-01-02"),
		"start_time":   fixture.StartTime,
		"end_time":     fixture.EndTime,
		"destination":  fixture.Destination,
		"purpose":      fixture.Purpose,
		"category":     string(fixture.Category),
		"project_name": fixture.ProjectName,
	}
	if fixture.VehicleID != nil {
		body["vehicle_id"] = fixture.VehicleID.String()
	}
	return body
}

// ---- POST /trips -----------------------------------------------------------

func TestCreateTrip_201(t *testing.T) {
	fixture := tripFixture()
	var received domain.Trip
	trips := &mockTripServicer{
		create: func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
			received = trip
			return fixture, nil
		},
	}
	h := newHTTPHandler(deps{trips: trips})

	rec := doJSON(t, h, http.MethodPost, "/trips", "member-token", tripBody(fixture))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, memberClaims.UserID, received.OwnerID, "owner comes from the token")
	assert.Equal(t, "Alice", received.OwnerName)

	resp := decodeBody[handler.TripResponse](t, rec)
	assert.Equal(t, fixture.ID, resp.ID)
	assert.Equal(t, "09:00", resp.StartTime)
	assert.Equal(t, "2024-03-01", resp.Date.Format("2006-01-02"))
}

func TestCreateTrip_401_NoToken(t *testing.T) {
	h := newHTTPHandler(deps{})

	rec := doJSON(t, h, http.MethodPost, "/trips", "", tripBody(tripFixture()))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateTrip_422_ValidationError(t *testing.T) {
	trips := &mockTripServicer{
		create: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("%w: destination is required", domain.ErrValidation)
		},
	}
	h := newHTTPHandler(deps{trips: trips})

	rec := doJSON(t, h, http.MethodPost, "/trips", "member-token", tripBody(tripFixture()))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeBody[handler.ErrorResponse](t, rec)
	assert.Equal(t, "validation_error", resp.Error.Code)
	assert.Equal(t, "destination is required", resp.Error.Message)
}

func TestCreateTrip_409_Collision(t *testing.T) {
	trips := &mockTripServicer{
		create: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("%w: vehicle already reserved by Bob (09:00 - 11:00)", domain.ErrConflict)
		},
	}
	h := newHTTPHandler(deps{trips: trips})

	rec := doJSON(t, h, http.MethodPost, "/trips", "member-token", tripBody(tripFixture()))

	require.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeBody[handler.ErrorResponse](t, rec)
	assert.Equal(t, "conflict", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "Bob")
}

func TestCreateTrip_422_MalformedBody(t *testing.T) {
	h := newHTTPHandler(deps{trips: &mockTripServicer{}})

	rec := doJSON(t, h, http.MethodPost, "/trips", "member-token", map[string]any{"date": "not-a-date"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ---- GET /trips ------------------------------------------------------------

func TestListTrips_200_Paginated(t *testing.T) {
	fixture := tripFixture()
	var gotParams domain.PaginationParams
	trips := &mockTripServicer{
		listPaged: func(_ context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
			gotParams = p
			return []domain.Trip{fixture}, 42, nil
		},
	}
	h := newHTTPHandler(deps{trips: trips})

	rec := doJSON(t, h, http.MethodGet, "/trips?page=2&limit=10", "member-token", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.PaginationParams{Page: 2, Limit: 10}, gotParams)

	resp := decodeBody[handler.TripListResponse](t, rec)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, 42, resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.Page)
}

func TestListTrips_200_DefaultPagination(t *testing.T) {
	trips := &mockTripServicer{
		listPaged: func(_ context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
			assert.Equal(t, domain.PaginationParams{Page: 1, Limit: 20}, p)
			return []domain.Trip{}, 0, nil
		},
	}
	h := newHTTPHandler(deps{trips: trips})

	rec := doJSON(t, h, http.MethodGet, "/trips", "member-token", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

// ---- GET /trips/{id} -------------------------------------------------------

func TestGetTrip_200(t *testing.T) {
	fixture := tripFixture()
	trips := &mockTripServicer{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			require.Equal(t, fixture.ID, id)
			return fixture, nil
		},
	}
	h := newHTTPHandler(deps{trips: trips})

	rec := doJSON(t, h, http.MethodGet, "/trips/"+fixture.ID.String(), "member-token", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[handler.TripResponse](t, rec)
	assert.Equal(t, fixture.ID, resp.ID)
}

func TestGetTrip_404(t *testing.T) {
	trips := &mockTripServicer{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	}
	h := newHTTPHandler(deps{trips: trips})

	rec := doJSON(t, h, http.MethodGet, "/trips/"+uuid.NewString(), "member-token", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeBody[handler.ErrorResponse](t, rec)
	assert.Equal(t, "not_found", resp.Error.Code)
}

func TestGetTrip_404_BadUUID(t *testing.T) {
	h := newHTTPHandler(deps{trips: &mockTripServicer{}})

	rec := doJSON(t, h, http.MethodGet, "/trips/not-a-uuid", "member-token", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- PUT /trips/{id} -------------------------------------------------------

func TestUpdateTrip_200(t *testing.T) {
	fixture := tripFixture()
	trips := &mockTripServicer{
		update: func(_ context.Context, trip domain.Trip, actor service.TokenClaims) (domain.Trip, error) {
			assert.Equal(t, fixture.ID, trip.ID, "path id wins over any body id")
			assert.Equal(t, memberClaims.UserID, actor.UserID, "caller identity passed through")
			assert.Equal(t, uuid.Nil, trip.OwnerID, "handler must not set ownership from the token")
			return fixture, nil
		},
	}
	h := newHTTPHandler(deps{trips: trips})

	rec := doJSON(t, h, http.MethodPut, "/trips/"+fixture.ID.String(), "member-token", tripBody(fixture))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateTrip_404(t *testing.T) {
	trips := &mockTripServicer{
		update: func(_ context.Context, _ domain.Trip, _ service.TokenClaims) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	}
	h := newHTTPHandler(deps{trips: trips})

	rec := doJSON(t, h, http.MethodPut, "/trips/"+uuid.NewString(), "member-token", tripBody(tripFixture()))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateTrip_403_NotOwner(t *testing.T) {
	trips := &mockTripServicer{
		update: func(_ context.Context, _ domain.Trip, _ service.TokenClaims) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("%w: only the trip owner or an admin may edit a trip", domain.ErrForbidden)
		},
	}
	h := newHTTPHandler(deps{trips: trips})

	rec := doJSON(t, h, http.MethodPut, "/trips/"+uuid.NewString(), "member-token", tripBody(tripFixture()))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeBody[handler.ErrorResponse](t, rec)
	assert.Equal(t, "forbidden", body.Error.Code)
}

// ---- DELETE /trips/{id} ----------------------------------------------------

func TestDeleteTrip_204(t *testing.T) {
	fixture := tripFixture()
	trips := &mockTripServicer{
		delete: func(_ context.Context, id uuid.UUID, actor service.TokenClaims) error {
			require.Equal(t, fixture.ID, id)
			require.Equal(t, memberClaims.UserID, actor.UserID)
			return nil
		},
	}
	h := newHTTPHandler(deps{trips: trips})

	rec := doJSON(t, h, http.MethodDelete, "/trips/"+fixture.ID.String(), "member-token", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeleteTrip_404(t *testing.T) {
	trips := &mockTripServicer{
		delete: func(_ context.Context, _ uuid.UUID, _ service.TokenClaims) error { return domain.ErrNotFound },
	}
	h := newHTTPHandler(deps{trips: trips})

	rec := doJSON(t, h, http.MethodDelete, "/trips/"+uuid.NewString(), "member-token", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTrip_403_NotOwner(t *testing.T) {
	trips := &mockTripServicer{
		delete: func(_ context.Context, _ uuid.UUID, _ service.TokenClaims) error {
			return fmt.Errorf("%w: only the trip owner or an admin may delete a trip", domain.ErrForbidden)
		},
	}
	h := newHTTPHandler(deps{trips: trips})

	rec := doJSON(t, h, http.MethodDelete, "/trips/"+uuid.NewString(), "member-token", nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

package flights

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/flight-tracker/internal/apperr"
	"github.com/ayush/flight-tracker/internal/models"
)

type stubLookup struct {
	records []Record
	err     error

	gotIATA, gotDate string
}

func (s *stubLookup) Lookup(_ context.Context, iata, date string) ([]Record, error) {
	s.gotIATA, s.gotDate = iata, date
	return s.records, s.err
}

func str(s string) *string { return &s }

func search(h http.HandlerFunc, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/public-flights"+query, nil)
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestHandler_PublicAndProtectedViews(t *testing.T) {
	stub := &stubLookup{records: []Record{{
		FlightStatus: str("scheduled"),
		Flight:       &flightID{IATA: str("AA123")},
		Departure:    &endpoint{Airport: str("JFK")},
	}}}
	h := NewHandler(stub)

	rec := search(h.Public, "?flightNumber=AA123&flightDate=2026-03-01")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "AA123", stub.gotIATA)
	assert.Equal(t, "2026-03-01", stub.gotDate)

	var public []models.FlightInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &public))
	require.Len(t, public, 1)
	assert.Equal(t, "scheduled", public[0].Status)
	assert.Empty(t, public[0].DepartureAirport)

	rec = search(h.Protected, "?flightNumber=AA123")
	require.Equal(t, http.StatusOK, rec.Code)
	var detailed []models.FlightInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detailed))
	require.Len(t, detailed, 1)
	assert.Equal(t, "JFK", detailed[0].DepartureAirport)
	assert.Equal(t, "Unknown", detailed[0].ArrivalAirport)
}

func TestHandler_RequiresFlightNumber(t *testing.T) {
	stub := &stubLookup{}
	h := NewHandler(stub)

	for _, q := range []string{"", "?flightNumber=", "?flightNumber=%20%20"} {
		rec := search(h.Public, q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.Contains(t, rec.Body.String(), "Flight number is required")
	}
	assert.Empty(t, stub.gotIATA, "upstream must not be called")
}

func TestHandler_RejectsBadInput(t *testing.T) {
	h := NewHandler(&stubLookup{})

	for _, q := range []string{
		"?flightNumber=AA123&flightDate=03/01/2026",
		"?flightNumber=AA-123",
		"?flightNumber=AAAAAAAAAAAAAAAAAAAAAA",
	} {
		rec := search(h.Public, q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestHandler_ErrorStatuses(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{apperr.NotFound("No flight found for the given number"), http.StatusNotFound},
		{apperr.Upstream("Failed to fetch flight data", errors.New("dial tcp: refused")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := search(NewHandler(&stubLookup{err: tt.err}).Public, "?flightNumber=AA123")
		assert.Equal(t, tt.status, rec.Code)
		assert.NotContains(t, rec.Body.String(), "refused")
	}
}

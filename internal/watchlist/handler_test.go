package watchlist

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/flight-tracker/internal/auth"
	"github.com/ayush/flight-tracker/internal/models"
	"github.com/ayush/flight-tracker/internal/store"
)

func call(h http.HandlerFunc, method, body string, id *auth.Identity) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/api/my-flights", nil)
	} else {
		req = httptest.NewRequest(method, "/api/my-flights", strings.NewReader(body))
	}
	if id != nil {
		req = req.WithContext(auth.WithIdentity(req.Context(), *id))
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	if msg, ok := out["message"]; ok {
		return msg
	}
	return out["error"]
}

func TestHandler_Lifecycle(t *testing.T) {
	h := NewHandler(NewService(store.NewMemoryStore()))
	entry := `{"flightNumber":"AA123","status":"scheduled","departure":"08:00","arrival":"11:00","airline":"American Airlines"}`

	rec := call(h.Add, http.MethodPost, entry, &alice)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Flight added successfully to your list", message(t, rec))

	rec = call(h.Add, http.MethodPost, entry, &alice)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Flight is already in your list", message(t, rec))

	rec = call(h.Update, http.MethodPut, `{"flightNumber":"AA123","status":"landed"}`, &alice)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Flight updated successfully", message(t, rec))

	rec = call(h.List, http.MethodGet, "", &alice)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Flights []models.WatchlistEntry `json:"flights"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Flights, 1)
	assert.Equal(t, "landed", list.Flights[0].Status)

	rec = call(h.Remove, http.MethodDelete, `{"flightNumber":"AA123"}`, &alice)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Flight removed successfully from your list", message(t, rec))

	rec = call(h.List, http.MethodGet, "", &alice)
	assert.JSONEq(t, `{"flights":[]}`, rec.Body.String())
}

func TestHandler_UpdateMissingFlight(t *testing.T) {
	h := NewHandler(NewService(store.NewMemoryStore()))

	rec := call(h.Update, http.MethodPut, `{"flightNumber":"ZZ999","status":"landed"}`, &alice)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Flight not found in your list", message(t, rec))
}

func TestHandler_Validation(t *testing.T) {
	h := NewHandler(NewService(store.NewMemoryStore()))

	for _, tc := range []struct {
		name string
		h    http.HandlerFunc
		body string
	}{
		{"add without number", h.Add, `{"status":"scheduled"}`},
		{"add bad json", h.Add, `{`},
		{"remove without number", h.Remove, `{}`},
		{"update without number", h.Update, `{"status":"landed"}`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := call(tc.h, http.MethodPost, tc.body, &alice)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandler_StorageFailure(t *testing.T) {
	h := NewHandler(NewService(failingStore{err: errors.New("boom")}))

	rec := call(h.List, http.MethodGet, "", &alice)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch your flights", message(t, rec))
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestHandler_RequiresIdentity(t *testing.T) {
	h := NewHandler(NewService(store.NewMemoryStore()))

	rec := call(h.List, http.MethodGet, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

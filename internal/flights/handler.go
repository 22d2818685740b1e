package flights

import (
	"context"
	"net/http"
	"strings"

	"github.com/ayush/flight-tracker/internal/apperr"
	"github.com/ayush/flight-tracker/internal/httpx"
	"github.com/ayush/flight-tracker/internal/models"
)

// Lookuper is satisfied by *Client.
type Lookuper interface {
	Lookup(ctx context.Context, flightIATA, flightDate string) ([]Record, error)
}

type searchQuery struct {
	FlightNumber string `json:"flightNumber" validate:"required,max=16,alphanum"`
	FlightDate   string `json:"flightDate"   validate:"omitempty,datetime=2006-01-02"`
}

// Handler serves the flight search endpoints.
type Handler struct {
	client Lookuper
}

func NewHandler(client Lookuper) *Handler {
	return &Handler{client: client}
}

// Public returns basic records; no authentication.
func (h *Handler) Public(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, Basic)
}

// Protected returns detailed records; mounted behind RequireAuth.
func (h *Handler) Protected(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, Detailed)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request, view func(Record) models.FlightInfo) {
	q := searchQuery{
		FlightNumber: strings.TrimSpace(r.URL.Query().Get("flightNumber")),
		FlightDate:   strings.TrimSpace(r.URL.Query().Get("flightDate")),
	}
	if q.FlightNumber == "" {
		httpx.WriteError(w, r, apperr.Validation("Flight number is required"))
		return
	}
	if err := httpx.Validate(&q); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	records, err := h.client.Lookup(r.Context(), q.FlightNumber, q.FlightDate)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	out := make([]models.FlightInfo, 0, len(records))
	for _, rec := range records {
		out = append(out, view(rec))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

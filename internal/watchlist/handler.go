package watchlist

import (
	"net/http"

	"github.com/ayush/flight-tracker/internal/apperr"
	"github.com/ayush/flight-tracker/internal/auth"
	"github.com/ayush/flight-tracker/internal/httpx"
	"github.com/ayush/flight-tracker/internal/logging"
	"github.com/ayush/flight-tracker/internal/models"
)

// Handler serves /api/my-flights. All routes sit behind RequireAuth.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func identity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		httpx.WriteError(w, r, apperr.New(apperr.CodeMissingToken, "Access denied, no token provided"))
	}
	return id, ok
}

// Add puts a flight on the caller's list: 201 if new, 200 if already there.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var entry models.WatchlistEntry
	if err := httpx.DecodeJSON(r, &entry); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	added, err := h.svc.AddFlight(r.Context(), id, entry)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	if !added {
		httpx.WriteMessage(w, http.StatusOK, "Flight is already in your list")
		return
	}
	logging.Info().Str("user", id.Username).Str("flight", entry.FlightNumber).Msg("flight added to watchlist")
	httpx.WriteMessage(w, http.StatusCreated, "Flight added successfully to your list")
}

// List returns {"flights": [...]}.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	flights, err := h.svc.ListFlights(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"flights": flights})
}

// Remove deletes the flight named in the body.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req models.RemoveFlightRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	if err := h.svc.RemoveFlight(r.Context(), id, req.FlightNumber); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Flight removed successfully from your list")
}

// Update overwrites the mutable fields of a listed flight.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var entry models.WatchlistEntry
	if err := httpx.DecodeJSON(r, &entry); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	err := h.svc.UpdateFlight(r.Context(), id, entry.FlightNumber, models.FlightUpdate{
		Status:    entry.Status,
		Departure: entry.Departure,
		Arrival:   entry.Arrival,
		Airline:   entry.Airline,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Flight updated successfully")
}

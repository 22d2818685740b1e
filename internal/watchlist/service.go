// Package watchlist manages each user's "My Flights" list. The list is a set
// keyed by flight number: adding a number that is already present changes
// nothing.
package watchlist

import (
	"context"
	"errors"
	"strings"

	"github.com/ayush/flight-tracker/internal/apperr"
	"github.com/ayush/flight-tracker/internal/auth"
	"github.com/ayush/flight-tracker/internal/metrics"
	"github.com/ayush/flight-tracker/internal/models"
	"github.com/ayush/flight-tracker/internal/store"
)

// Store is the persistence contract. Each mutation must be a single atomic
// operation on the user's list.
type Store interface {
	AddFlight(ctx context.Context, username string, entry models.WatchlistEntry) (bool, error)
	ListFlights(ctx context.Context, username string) ([]models.WatchlistEntry, error)
	RemoveFlight(ctx context.Context, username, flightNumber string) error
	UpdateFlight(ctx context.Context, username, flightNumber string, upd models.FlightUpdate) error
}

type Service struct {
	store Store
}

func NewService(s Store) *Service {
	return &Service{store: s}
}

// AddFlight reports whether the entry was new.
func (s *Service) AddFlight(ctx context.Context, id auth.Identity, entry models.WatchlistEntry) (bool, error) {
	entry.FlightNumber = normalize(entry.FlightNumber)
	if entry.FlightNumber == "" {
		return false, apperr.Validation("flightNumber is required")
	}

	added, err := s.store.AddFlight(ctx, id.Username, entry)
	record("add", err)
	if err != nil {
		return false, apperr.Storage("Failed to add flight", err)
	}
	return added, nil
}

// ListFlights never returns nil on success.
func (s *Service) ListFlights(ctx context.Context, id auth.Identity) ([]models.WatchlistEntry, error) {
	flights, err := s.store.ListFlights(ctx, id.Username)
	record("list", err)
	if err != nil {
		return nil, apperr.Storage("Failed to fetch your flights", err)
	}
	if flights == nil {
		flights = []models.WatchlistEntry{}
	}
	return flights, nil
}

// RemoveFlight is a no-op when the flight is not in the list.
func (s *Service) RemoveFlight(ctx context.Context, id auth.Identity, flightNumber string) error {
	flightNumber = normalize(flightNumber)
	if flightNumber == "" {
		return apperr.Validation("flightNumber is required")
	}

	err := s.store.RemoveFlight(ctx, id.Username, flightNumber)
	record("remove", err)
	if err != nil {
		return apperr.Storage("Failed to remove flight", err)
	}
	return nil
}

// UpdateFlight overwrites status, departure, arrival and airline of the
// matching entry. A flight that is not in the list is reported as not found.
func (s *Service) UpdateFlight(ctx context.Context, id auth.Identity, flightNumber string, upd models.FlightUpdate) error {
	flightNumber = normalize(flightNumber)
	if flightNumber == "" {
		return apperr.Validation("flightNumber is required")
	}

	err := s.store.UpdateFlight(ctx, id.Username, flightNumber, upd)
	if errors.Is(err, store.ErrNotFound) {
		record("update", nil)
		return apperr.NotFound("Flight not found in your list")
	}
	record("update", err)
	if err != nil {
		return apperr.Storage("Failed to update flight", err)
	}
	return nil
}

// normalize makes "aa123" and " AA123 " the same key.
func normalize(flightNumber string) string {
	return strings.ToUpper(strings.TrimSpace(flightNumber))
}

func record(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.WatchlistOperationsTotal.WithLabelValues(op, result).Inc()
}

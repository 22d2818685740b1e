package store

import (
	"context"
	"sync"
	"time"

	"github.com/ayush/flight-tracker/internal/models"
)

// MemoryStore is a process-local store with the same semantics as
// MongoStore. Used with USER_STORE=memory and in tests.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[string]models.User
	watchlists map[string][]models.WatchlistEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[string]models.User),
		watchlists: make(map[string][]models.WatchlistEntry),
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.Username]; ok {
		return ErrDuplicateUser
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	s.users[u.Username] = *u
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) AddFlight(_ context.Context, username string, entry models.WatchlistEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.watchlists[username] {
		if f.FlightNumber == entry.FlightNumber {
			return false, nil
		}
	}
	s.watchlists[username] = append(s.watchlists[username], entry)
	return true, nil
}

func (s *MemoryStore) ListFlights(_ context.Context, username string) ([]models.WatchlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.WatchlistEntry, len(s.watchlists[username]))
	copy(out, s.watchlists[username])
	return out, nil
}

func (s *MemoryStore) RemoveFlight(_ context.Context, username, flightNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	flights, ok := s.watchlists[username]
	if !ok {
		return nil
	}
	kept := flights[:0]
	for _, f := range flights {
		if f.FlightNumber != flightNumber {
			kept = append(kept, f)
		}
	}
	s.watchlists[username] = kept
	return nil
}

func (s *MemoryStore) UpdateFlight(_ context.Context, username, flightNumber string, upd models.FlightUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	flights := s.watchlists[username]
	for i := range flights {
		if flights[i].FlightNumber == flightNumber {
			flights[i].Status = upd.Status
			flights[i].Departure = upd.Departure
			flights[i].Arrival = upd.Arrival
			flights[i].Airline = upd.Airline
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

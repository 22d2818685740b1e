package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/flight-tracker/internal/models"
)

// MongoStore keeps accounts in the "user" collection and watchlists in
// "myFlights", one document per username.
type MongoStore struct {
	users   *mongo.Collection
	flights *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		users:   db.Collection("user"),
		flights: db.Collection("myFlights"),
	}
}

// EnsureIndexes creates the unique username indexes. AddFlight depends on
// the myFlights one to stay atomic under concurrent upserts.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	unique := mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.users.Indexes().CreateOne(ctx, unique); err != nil {
		return fmt.Errorf("mongo users index: %w", err)
	}
	if _, err := s.flights.Indexes().CreateOne(ctx, unique); err != nil {
		return fmt.Errorf("mongo myFlights index: %w", err)
	}
	return nil
}

func (s *MongoStore) CreateUser(ctx context.Context, u *models.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if _, err := s.users.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("mongo insert user: %w", err)
	}
	return nil
}

func (s *MongoStore) GetUser(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find user: %w", err)
	}
	return &u, nil
}

// AddFlight pushes entry unless the list already holds its flight number.
// The upsert collides with the unique username index when the user's
// document already exists and the filter missed it: either the number is
// present, or a concurrent first add created the document. The push is
// retried once without upsert to tell the two apart.
func (s *MongoStore) AddFlight(ctx context.Context, username string, entry models.WatchlistEntry) (bool, error) {
	filter := bson.M{
		"username":             username,
		"flights.flightNumber": bson.M{"$ne": entry.FlightNumber},
	}
	update := bson.M{"$push": bson.M{"flights": entry}}

	res, err := s.flights.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		res, err = s.flights.UpdateOne(ctx, filter, update)
	}
	if err != nil {
		return false, fmt.Errorf("mongo add flight: %w", err)
	}
	return res.ModifiedCount > 0 || res.UpsertedCount > 0, nil
}

func (s *MongoStore) ListFlights(ctx context.Context, username string) ([]models.WatchlistEntry, error) {
	var wl models.Watchlist
	err := s.flights.FindOne(ctx, bson.M{"username": username}).Decode(&wl)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []models.WatchlistEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongo list flights: %w", err)
	}
	if wl.Flights == nil {
		wl.Flights = []models.WatchlistEntry{}
	}
	return wl.Flights, nil
}

func (s *MongoStore) RemoveFlight(ctx context.Context, username, flightNumber string) error {
	_, err := s.flights.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$pull": bson.M{"flights": bson.M{"flightNumber": flightNumber}}},
	)
	if err != nil {
		return fmt.Errorf("mongo remove flight: %w", err)
	}
	return nil
}

func (s *MongoStore) UpdateFlight(ctx context.Context, username, flightNumber string, upd models.FlightUpdate) error {
	res, err := s.flights.UpdateOne(ctx,
		bson.M{"username": username, "flights.flightNumber": flightNumber},
		bson.M{"$set": bson.M{
			"flights.$.status":    upd.Status,
			"flights.$.departure": upd.Departure,
			"flights.$.arrival":   upd.Arrival,
			"flights.$.airline":   upd.Airline,
		}},
	)
	if err != nil {
		return fmt.Errorf("mongo update flight: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping checks connectivity for the health endpoint.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.users.Database().Client().Ping(ctx, nil)
}

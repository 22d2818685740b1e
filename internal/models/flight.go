package models

// WatchlistEntry is one tracked flight in a user's "My Flights" list.
// FlightNumber is unique within a single user's list.
type WatchlistEntry struct {
	FlightNumber     string `json:"flightNumber"               bson:"flightNumber"     validate:"required,max=16"`
	Status           string `json:"status"                     bson:"status"`
	Departure        string `json:"departure"                  bson:"departure"`
	Arrival          string `json:"arrival"                    bson:"arrival"`
	Airline          string `json:"airline"                    bson:"airline"`
	DepartureAirport string `json:"departureAirport,omitempty" bson:"departureAirport,omitempty"`
	ArrivalAirport   string `json:"arrivalAirport,omitempty"   bson:"arrivalAirport,omitempty"`
}

// FlightUpdate holds the fields PUT /api/my-flights overwrites.
type FlightUpdate struct {
	Status    string `json:"status"    bson:"status"`
	Departure string `json:"departure" bson:"departure"`
	Arrival   string `json:"arrival"   bson:"arrival"`
	Airline   string `json:"airline"   bson:"airline"`
}

// RemoveFlightRequest is the JSON body for DELETE /api/my-flights.
type RemoveFlightRequest struct {
	FlightNumber string `json:"flightNumber" validate:"required"`
}

// Watchlist is the per-user document in the myFlights collection.
type Watchlist struct {
	Username string           `json:"username" bson:"username"`
	Flights  []WatchlistEntry `json:"flights"  bson:"flights"`
}

// FlightInfo is a flight record as returned by the search endpoints.
// Coordinates are nil when the upstream has no live position.
type FlightInfo struct {
	FlightNumber     string   `json:"flightNumber"`
	Departure        string   `json:"departure"`
	Arrival          string   `json:"arrival"`
	Status           string   `json:"status"`
	Airline          string   `json:"airline"`
	DepartureAirport string   `json:"departureAirport,omitempty"`
	ArrivalAirport   string   `json:"arrivalAirport,omitempty"`
	Longitude        *float64 `json:"longitude"`
	Latitude         *float64 `json:"latitude"`
}

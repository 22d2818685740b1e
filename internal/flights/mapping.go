package flights

import "github.com/ayush/flight-tracker/internal/models"

const unknown = "Unknown"

// Basic is the public view of a record.
func Basic(rec Record) models.FlightInfo {
	info := models.FlightInfo{
		FlightNumber: unknown,
		Departure:    unknown,
		Arrival:      unknown,
		Status:       orUnknown(rec.FlightStatus),
		Airline:      unknown,
	}
	if rec.Flight != nil {
		info.FlightNumber = orUnknown(rec.Flight.IATA)
	}
	if rec.Departure != nil {
		info.Departure = orUnknown(rec.Departure.Scheduled)
	}
	if rec.Arrival != nil {
		info.Arrival = orUnknown(rec.Arrival.Scheduled)
	}
	if rec.Airline != nil {
		info.Airline = orUnknown(rec.Airline.Name)
	}
	if rec.Live != nil {
		info.Latitude = rec.Live.Latitude
		info.Longitude = rec.Live.Longitude
	}
	return info
}

// Detailed adds the departure and arrival airports for signed-in users.
func Detailed(rec Record) models.FlightInfo {
	info := Basic(rec)
	info.DepartureAirport = unknown
	info.ArrivalAirport = unknown
	if rec.Departure != nil {
		info.DepartureAirport = orUnknown(rec.Departure.Airport)
	}
	if rec.Arrival != nil {
		info.ArrivalAirport = orUnknown(rec.Arrival.Airport)
	}
	return info
}

func orUnknown(s *string) string {
	if s == nil || *s == "" {
		return unknown
	}
	return *s
}

package models

import (
	"fmt"
	"time"
)

// FlightStatus represents the lifecycle state of a flight
type FlightStatus string

const (
	FlightStatusUpcoming   FlightStatus = "upcoming"
	FlightStatusDelayed    FlightStatus = "delayed"
	FlightStatusInProgress FlightStatus = "in-progress"
	FlightStatusCompleted  FlightStatus = "completed"
	FlightStatusCancelled  FlightStatus = "cancelled"
)

// AllFlightStatuses lists every status in display order
var AllFlightStatuses = []FlightStatus{
	FlightStatusUpcoming,
	FlightStatusDelayed,
	FlightStatusInProgress,
	FlightStatusCompleted,
	FlightStatusCancelled,
}

// Valid reports whether s is a known status
func (s FlightStatus) Valid() bool {
	for _, known := range AllFlightStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Flight is a scheduled departure of one airplane
type Flight struct {
	AirlineName      string       `json:"airline_name" db:"airline_name"`
	FlightNum        int          `json:"flight_num" db:"flight_num"`
	DepartureAirport string       `json:"departure_airport" db:"departure_airport"`
	DepartureTime    time.Time    `json:"departure_time" db:"departure_time"`
	ArrivalAirport   string       `json:"arrival_airport" db:"arrival_airport"`
	ArrivalTime      time.Time    `json:"arrival_time" db:"arrival_time"`
	BasePrice        float64      `json:"base_price" db:"base_price"`
	Status           FlightStatus `json:"status" db:"status"`
	AirplaneID       int          `json:"airplane_id" db:"airplane_id"`
}

// FlightSearchRequest is the body of the public and role search pages.
// Date is YYYY-MM-DD and matches the departure day.
type FlightSearchRequest struct {
	Origin      string `json:"origin" form:"origin"`
	Destination string `json:"destination" form:"destination"`
	Date        string `json:"date" form:"date"`
}

// FlightSearchFilter is a parsed search. Empty fields do not constrain.
type FlightSearchFilter struct {
	Origin      string
	Destination string
	Date        *time.Time
	Airlines    []string // restricts an agent's search to authorized airlines
}

// CacheKey renders the filter deterministically for the search cache.
// Text fields are quoted so separators inside them cannot collide, and a
// nil airline list (every airline) is kept apart from an empty one.
func (f FlightSearchFilter) CacheKey() string {
	date := ""
	if f.Date != nil {
		date = f.Date.Format("2006-01-02")
	}
	airlines := "*"
	if f.Airlines != nil {
		airlines = fmt.Sprintf("%q", f.Airlines)
	}
	return fmt.Sprintf("%q|%q|%s|%s", f.Origin, f.Destination, date, airlines)
}

// CreateFlightRequest is the /staff/create_flight payload. Times accept
// RFC3339, "2006-01-02T15:04" or "2006-01-02 15:04:05".
type CreateFlightRequest struct {
	FlightNum        int     `json:"flight_num" form:"flight_num"`
	DepartureAirport string  `json:"departure_airport" form:"departure_airport"`
	DepartureTime    string  `json:"departure_time" form:"departure_time"`
	ArrivalAirport   string  `json:"arrival_airport" form:"arrival_airport"`
	ArrivalTime      string  `json:"arrival_time" form:"arrival_time"`
	BasePrice        float64 `json:"base_price" form:"base_price"`
	AirplaneID       int     `json:"airplane_id" form:"airplane_id"`
}

// UpdateStatusRequest is the /staff/update_status payload
type UpdateStatusRequest struct {
	FlightNum int    `json:"flight_num" form:"flight_num"`
	Status    string `json:"status" form:"status"`
}

// BookedFlightFilter narrows a customer's or agent's purchased flights.
// Dates are inclusive departure days.
type BookedFlightFilter struct {
	StartDate     *time.Time
	EndDate       *time.Time
	Origin        string
	Destination   string
	CustomerEmail string
	UpcomingOnly  bool
}

// AgentBookingsRequest is the raw filter form posted to /agent/bookings
type AgentBookingsRequest struct {
	CustomerEmail string `json:"customer_email" form:"customer_email"`
	Origin        string `json:"origin" form:"origin"`
	Destination   string `json:"destination" form:"destination"`
	StartDate     string `json:"start_date" form:"start_date"`
}

// Customer dashboard form types
const (
	FormTypeFlightFilter   = "flight_filter"
	FormTypeCustomSpending = "custom_spending"
)

// CustomerDashboardRequest is the /customer POST body. FormType selects
// which of the two forms was submitted.
type CustomerDashboardRequest struct {
	FormType          string `json:"form_type" form:"form_type"`
	FilterStart       string `json:"filter_start" form:"filter_start"`
	FilterEnd         string `json:"filter_end" form:"filter_end"`
	FilterOrigin      string `json:"filter_origin" form:"filter_origin"`
	FilterDestination string `json:"filter_destination" form:"filter_destination"`
	StartDate         string `json:"start_date" form:"start_date"`
	EndDate           string `json:"end_date" form:"end_date"`
}

package models

import "time"

// CommissionRate is the share of a purchase price credited to the booking agent
const CommissionRate = 0.10

// Ticket is one seat sold on a flight
type Ticket struct {
	TicketID    int    `json:"ticket_id" db:"ticket_id"`
	AirlineName string `json:"airline_name" db:"airline_name"`
	FlightNum   int    `json:"flight_num" db:"flight_num"`
	AirplaneID  int    `json:"airplane_id" db:"airplane_id"`
	SeatClassID int    `json:"seat_class_id" db:"seat_class_id"`
}

// Purchase records who paid for a ticket and through which agent
type Purchase struct {
	TicketID          int       `json:"ticket_id" db:"ticket_id"`
	CustomerEmail     string    `json:"customer_email" db:"customer_email"`
	BookingAgentEmail *string   `json:"booking_agent_email,omitempty" db:"booking_agent_email"`
	PurchaseDate      time.Time `json:"purchase_date" db:"purchase_date"`
	PurchasePrice     float64   `json:"purchase_price" db:"purchase_price"`
}

// Commission is the agent's cut of this purchase, zero for direct sales
func (p Purchase) Commission() float64 {
	if p.BookingAgentEmail == nil {
		return 0
	}
	return p.PurchasePrice * CommissionRate
}

// PurchaseRequest is the POST body of both purchase routes. CustomerEmail is
// only read on the agent route.
type PurchaseRequest struct {
	SeatClassID   int    `json:"seat_class_id" form:"seat_class_id"`
	CustomerEmail string `json:"customer_email" form:"customer_email"`
}

// TicketAllocation is everything the ticket store needs to sell one seat
type TicketAllocation struct {
	AirlineName   string
	FlightNum     int
	AirplaneID    int
	SeatClassID   int
	CustomerEmail string
	AgentEmail    *string
	PurchasePrice float64
	PurchaseDate  time.Time
}

// PurchaseResult describes a successful sale
type PurchaseResult struct {
	TicketID      int     `json:"ticket_id"`
	AirlineName   string  `json:"airline_name"`
	FlightNum     int     `json:"flight_num"`
	SeatClassID   int     `json:"seat_class_id"`
	CustomerEmail string  `json:"customer_email"`
	AgentEmail    *string `json:"booking_agent_email,omitempty"`
	PurchasePrice float64 `json:"purchase_price"`
	PurchaseDate  string  `json:"purchase_date"`
}

// SeatClassAvailability is a seat class row on the purchase page
type SeatClassAvailability struct {
	SeatClassID  int     `json:"seat_class_id" db:"seat_class_id"`
	SeatCapacity int     `json:"seat_capacity" db:"seat_capacity"`
	SeatsSold    int     `json:"seats_sold" db:"seats_sold"`
	SeatsLeft    int     `json:"seats_left" db:"-"`
	Price        float64 `json:"price" db:"-"`
}

// PurchaseOptions is the GET view of a purchase route
type PurchaseOptions struct {
	Flight      Flight                  `json:"flight"`
	SeatClasses []SeatClassAvailability `json:"seat_classes"`
}

// BookedFlight is a flight joined to one of the tickets sold on it
type BookedFlight struct {
	Flight
	TicketID      int       `json:"ticket_id" db:"ticket_id"`
	SeatClassID   int       `json:"seat_class_id" db:"seat_class_id"`
	CustomerEmail string    `json:"customer_email" db:"customer_email"`
	PurchaseDate  time.Time `json:"purchase_date" db:"purchase_date"`
	PurchasePrice float64   `json:"purchase_price" db:"purchase_price"`
}

// Passenger is a customer holding a ticket on a flight
type Passenger struct {
	Name     string `json:"name" db:"name"`
	Email    string `json:"email" db:"email"`
	TicketID int    `json:"ticket_id" db:"ticket_id"`
}

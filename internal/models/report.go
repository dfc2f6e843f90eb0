package models

// MonthlyAmount is a spending total for one calendar month, labelled YYYY-MM
type MonthlyAmount struct {
	Month  string  `json:"month" db:"month"`
	Amount float64 `json:"amount" db:"amount"`
}

// MonthlyCount is a ticket count for one calendar month, labelled YYYY-MM
type MonthlyCount struct {
	Month   string `json:"month" db:"month"`
	Tickets int    `json:"tickets" db:"tickets"`
}

// CustomerSpending is the default spending panel of the customer dashboard
type CustomerSpending struct {
	TotalLast12Months float64         `json:"total_last_12_months"`
	LastSixMonths     []MonthlyAmount `json:"last_six_months"`
}

// CustomSpending is the optional date-range panel
type CustomSpending struct {
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Total     float64         `json:"total"`
	Months    []MonthlyAmount `json:"months"`
}

// CustomerDashboard is returned by GET and POST /customer
type CustomerDashboard struct {
	Flights  []BookedFlight   `json:"flights"`
	Filtered bool             `json:"filtered"`
	Spending CustomerSpending `json:"spending"`
	Custom   *CustomSpending  `json:"custom_spending,omitempty"`
}

// CommissionSummary covers the agent's last 30 days
type CommissionSummary struct {
	TotalCommission   float64 `json:"total_commission" db:"total_commission"`
	AverageCommission float64 `json:"avg_commission" db:"avg_commission"`
	NumTickets        int     `json:"num_tickets" db:"num_tickets"`
}

// CustomerTicketCount ranks customers by tickets bought through an agent
type CustomerTicketCount struct {
	CustomerEmail string `json:"customer_email" db:"customer_email"`
	NumTickets    int    `json:"num_tickets" db:"num_tickets"`
}

// CustomerCommission ranks customers by commission earned from them
type CustomerCommission struct {
	CustomerEmail   string  `json:"customer_email" db:"customer_email"`
	TotalCommission float64 `json:"total_commission" db:"total_commission"`
}

// AgentDashboard is returned by GET /agent
type AgentDashboard struct {
	CommissionSummary        CommissionSummary     `json:"commission_summary"`
	TopCustomersByTickets    []CustomerTicketCount `json:"top_customers_by_tickets"`
	TopCustomersByCommission []CustomerCommission  `json:"top_customers_by_commission"`
	AuthorizedAirlines       []string              `json:"authorized_airlines"`
}

// StaffDashboard is returned by GET /staff
type StaffDashboard struct {
	AirlineName     string         `json:"airline_name"`
	Role            StaffRole      `json:"role"`
	IsAdmin         bool           `json:"is_admin"`
	IsOperator      bool           `json:"is_operator"`
	Flights         []Flight       `json:"flights"`
	TicketsPerMonth []MonthlyCount `json:"tickets_per_month"`
}

// AgentTicketCount ranks agents by tickets sold
type AgentTicketCount struct {
	AgentEmail string `json:"booking_agent_email" db:"booking_agent_email"`
	Tickets    int    `json:"tickets" db:"tickets"`
}

// AgentCommission ranks agents by commission earned
type AgentCommission struct {
	AgentEmail string  `json:"booking_agent_email" db:"booking_agent_email"`
	Commission float64 `json:"commission" db:"commission"`
}

// FrequentCustomer is the airline's most active customer
type FrequentCustomer struct {
	CustomerEmail string `json:"customer_email" db:"customer_email"`
	Flights       int    `json:"flights" db:"flights"`
}

// StatusCount is the number of flights in one status
type StatusCount struct {
	Status FlightStatus `json:"status" db:"status"`
	Count  int          `json:"count" db:"count"`
}

// DestinationCount ranks arrival airports by tickets sold
type DestinationCount struct {
	ArrivalAirport string `json:"arrival_airport" db:"arrival_airport"`
	Trips          int    `json:"trips" db:"trips"`
}

// StaffAnalytics is returned by GET /staff/analytics
type StaffAnalytics struct {
	TopAgentsMonth      []AgentTicketCount `json:"top_agents_month"`
	TopAgentsYear       []AgentCommission  `json:"top_agents_year"`
	MostFrequent        *FrequentCustomer  `json:"most_frequent"`
	TicketsPerMonth     []MonthlyCount     `json:"tickets_per_month"`
	StatusCounts        []StatusCount      `json:"status_counts"`
	TopDestinations3M   []DestinationCount `json:"top_dest_3_months"`
	TopDestinationsYear []DestinationCount `json:"top_dest_year"`
}

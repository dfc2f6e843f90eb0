package models

// Airline owns airplanes and flights. StaffRegHash is the hex SHA-256 of the
// registration code handed to new staff.
type Airline struct {
	AirlineName  string `json:"airline_name" db:"airline_name"`
	StaffRegHash string `json:"-" db:"staff_reg_hash"`
}

// Airport is a departure or arrival point
type Airport struct {
	AirportName string `json:"airport_name" db:"airport_name" form:"airport_name"`
	AirportCity string `json:"airport_city" db:"airport_city" form:"airport_city"`
}

// Airplane is identified by its airline and a per-airline id
type Airplane struct {
	AirlineName string `json:"airline_name" db:"airline_name"`
	AirplaneID  int    `json:"airplane_id" db:"airplane_id"`
}

// SeatClass is one cabin of an airplane
type SeatClass struct {
	AirlineName  string `json:"airline_name" db:"airline_name"`
	AirplaneID   int    `json:"airplane_id" db:"airplane_id"`
	SeatClassID  int    `json:"seat_class_id" db:"seat_class_id"`
	SeatCapacity int    `json:"seat_capacity" db:"seat_capacity"`
}

// Seat class ids
const (
	SeatClassEconomy  = 1
	SeatClassBusiness = 2
	SeatClassFirst    = 3
)

var seatClassMultipliers = map[int]float64{
	SeatClassEconomy:  1.0,
	SeatClassBusiness: 1.5,
	SeatClassFirst:    2.0,
}

// PriceMultiplier returns the fare multiplier applied to a flight's base price
func PriceMultiplier(seatClassID int) (float64, bool) {
	m, ok := seatClassMultipliers[seatClassID]
	return m, ok
}

// SeatClassInput describes a cabin created together with its airplane
type SeatClassInput struct {
	SeatClassID  int `json:"seat_class_id" form:"seat_class_id"`
	SeatCapacity int `json:"seat_capacity" form:"seat_capacity"`
}

// AddAirplaneRequest is the /staff/add_airplane payload
type AddAirplaneRequest struct {
	AirplaneID  int              `json:"airplane_id" form:"airplane_id"`
	SeatClasses []SeatClassInput `json:"seat_classes"`
}

// AddAgentAuthRequest is the /staff/add_agent_auth payload
type AddAgentAuthRequest struct {
	AgentEmail string `json:"agent_email" form:"agent_email" binding:"required,email"`
}

func (AddAgentAuthRequest) RequiredMessage() string {
	return "Please provide the agent's email."
}

// AgentAuthorization grants an agent the right to sell an airline's tickets
type AgentAuthorization struct {
	AgentEmail  string `json:"agent_email" db:"agent_email"`
	AirlineName string `json:"airline_name" db:"airline_name"`
}

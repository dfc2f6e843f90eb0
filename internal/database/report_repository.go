package database

import (
	"context"
	"fmt"
	"time"

	"github.com/skyline/air-reservation/internal/models"
)

// ReportRepository runs the aggregate queries behind the dashboards.
// Month labels are rendered as YYYY-MM. Ties in ranked lists are broken by
// the grouping key so results are stable.
type ReportRepository struct {
	db DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// CustomerSpendingTotal sums a customer's purchases dated in [from, to]
func (r *ReportRepository) CustomerSpendingTotal(ctx context.Context, email string, from, to time.Time) (float64, error) {
	var total float64
	err := r.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(purchase_price), 0)
		FROM purchases
		WHERE customer_email = $1
		  AND purchase_date BETWEEN $2::date AND $3::date`,
		email, dateArg(from), dateArg(to),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to sum customer spending: %w", err)
	}
	return total, nil
}

// CustomerSpendingByMonth returns per-month totals for months with purchases in [from, to]
func (r *ReportRepository) CustomerSpendingByMonth(ctx context.Context, email string, from, to time.Time) ([]models.MonthlyAmount, error) {
	rows := []models.MonthlyAmount{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT to_char(purchase_date, 'YYYY-MM') AS month, SUM(purchase_price) AS amount
		FROM purchases
		WHERE customer_email = $1
		  AND purchase_date BETWEEN $2::date AND $3::date
		GROUP BY month
		ORDER BY month`,
		email, dateArg(from), dateArg(to),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly customer spending: %w", err)
	}
	return rows, nil
}

// AgentCommissionSummary totals the commission on an agent's sales dated in [from, to]
func (r *ReportRepository) AgentCommissionSummary(ctx context.Context, agentEmail string, from, to time.Time) (models.CommissionSummary, error) {
	var summary models.CommissionSummary
	err := r.db.GetContext(ctx, &summary, `
		SELECT COALESCE(SUM(purchase_price * $4), 0) AS total_commission,
		       COALESCE(AVG(purchase_price * $4), 0) AS avg_commission,
		       COUNT(*) AS num_tickets
		FROM purchases
		WHERE booking_agent_email = $1
		  AND purchase_date BETWEEN $2::date AND $3::date`,
		agentEmail, dateArg(from), dateArg(to), models.CommissionRate,
	)
	if err != nil {
		return models.CommissionSummary{}, fmt.Errorf("failed to get commission summary: %w", err)
	}
	return summary, nil
}

// AgentTopCustomersByTickets ranks the agent's customers by tickets bought since a day
func (r *ReportRepository) AgentTopCustomersByTickets(ctx context.Context, agentEmail string, since time.Time, limit int) ([]models.CustomerTicketCount, error) {
	rows := []models.CustomerTicketCount{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT customer_email, COUNT(*) AS num_tickets
		FROM purchases
		WHERE booking_agent_email = $1
		  AND purchase_date >= $2::date
		GROUP BY customer_email
		ORDER BY num_tickets DESC, customer_email
		LIMIT $3`,
		agentEmail, dateArg(since), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to rank customers by tickets: %w", err)
	}
	return rows, nil
}

// AgentTopCustomersByCommission ranks the agent's customers by commission earned since a day
func (r *ReportRepository) AgentTopCustomersByCommission(ctx context.Context, agentEmail string, since time.Time, limit int) ([]models.CustomerCommission, error) {
	rows := []models.CustomerCommission{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT customer_email, SUM(purchase_price * $3) AS total_commission
		FROM purchases
		WHERE booking_agent_email = $1
		  AND purchase_date >= $2::date
		GROUP BY customer_email
		ORDER BY total_commission DESC, customer_email
		LIMIT $4`,
		agentEmail, dateArg(since), models.CommissionRate, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to rank customers by commission: %w", err)
	}
	return rows, nil
}

// AirlineTicketsByMonth counts an airline's tickets per purchase month since a day
func (r *ReportRepository) AirlineTicketsByMonth(ctx context.Context, airlineName string, since time.Time) ([]models.MonthlyCount, error) {
	rows := []models.MonthlyCount{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT to_char(p.purchase_date, 'YYYY-MM') AS month, COUNT(*) AS tickets
		FROM purchases p
		JOIN ticket t ON t.ticket_id = p.ticket_id
		WHERE t.airline_name = $1
		  AND p.purchase_date >= $2::date
		GROUP BY month
		ORDER BY month`,
		airlineName, dateArg(since),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets by month: %w", err)
	}
	return rows, nil
}

// TopAgentsByTickets ranks agents by tickets sold for the airline since a day.
// Direct customer purchases are not attributed to any agent.
func (r *ReportRepository) TopAgentsByTickets(ctx context.Context, airlineName string, since time.Time, limit int) ([]models.AgentTicketCount, error) {
	rows := []models.AgentTicketCount{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT p.booking_agent_email, COUNT(*) AS tickets
		FROM purchases p
		JOIN ticket t ON t.ticket_id = p.ticket_id
		WHERE t.airline_name = $1
		  AND p.booking_agent_email IS NOT NULL
		  AND p.purchase_date >= $2::date
		GROUP BY p.booking_agent_email
		ORDER BY tickets DESC, p.booking_agent_email
		LIMIT $3`,
		airlineName, dateArg(since), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to rank agents by tickets: %w", err)
	}
	return rows, nil
}

// TopAgentsByCommission ranks agents by commission earned on the airline since a day
func (r *ReportRepository) TopAgentsByCommission(ctx context.Context, airlineName string, since time.Time, limit int) ([]models.AgentCommission, error) {
	rows := []models.AgentCommission{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT p.booking_agent_email, SUM(p.purchase_price * $3) AS commission
		FROM purchases p
		JOIN ticket t ON t.ticket_id = p.ticket_id
		WHERE t.airline_name = $1
		  AND p.booking_agent_email IS NOT NULL
		  AND p.purchase_date >= $2::date
		GROUP BY p.booking_agent_email
		ORDER BY commission DESC, p.booking_agent_email
		LIMIT $4`,
		airlineName, dateArg(since), models.CommissionRate, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to rank agents by commission: %w", err)
	}
	return rows, nil
}

// MostFrequentCustomer returns the customer with the most tickets on the
// airline since a day, or nil if nothing was sold
func (r *ReportRepository) MostFrequentCustomer(ctx context.Context, airlineName string, since time.Time) (*models.FrequentCustomer, error) {
	var fc models.FrequentCustomer
	err := r.db.GetContext(ctx, &fc, `
		SELECT p.customer_email, COUNT(*) AS flights
		FROM purchases p
		JOIN ticket t ON t.ticket_id = p.ticket_id
		WHERE t.airline_name = $1
		  AND p.purchase_date >= $2::date
		GROUP BY p.customer_email
		ORDER BY flights DESC, p.customer_email
		LIMIT 1`,
		airlineName, dateArg(since),
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find most frequent customer: %w", err)
	}
	return &fc, nil
}

// FlightStatusCounts counts the airline's flights per status
func (r *ReportRepository) FlightStatusCounts(ctx context.Context, airlineName string) ([]models.StatusCount, error) {
	rows := []models.StatusCount{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT status, COUNT(*) AS count
		FROM flight
		WHERE airline_name = $1
		GROUP BY status
		ORDER BY status`,
		airlineName,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count flight statuses: %w", err)
	}
	return rows, nil
}

// TopDestinations ranks arrival airports by tickets sold on the airline since a day
func (r *ReportRepository) TopDestinations(ctx context.Context, airlineName string, since time.Time, limit int) ([]models.DestinationCount, error) {
	rows := []models.DestinationCount{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT f.arrival_airport, COUNT(*) AS trips
		FROM ticket t
		JOIN purchases p ON p.ticket_id = t.ticket_id
		JOIN flight f ON f.airline_name = t.airline_name AND f.flight_num = t.flight_num
		WHERE t.airline_name = $1
		  AND p.purchase_date >= $2::date
		GROUP BY f.arrival_airport
		ORDER BY trips DESC, f.arrival_airport
		LIMIT $3`,
		airlineName, dateArg(since), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to rank destinations: %w", err)
	}
	return rows, nil
}

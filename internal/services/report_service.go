package services

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/skyline/air-reservation/internal/database"
	"github.com/skyline/air-reservation/internal/models"
)

const topN = 5

// ReportService builds the dashboards. Every window is relative to today.
type ReportService struct {
	flights *database.FlightRepository
	tickets *database.TicketRepository
	reports *database.ReportRepository
	auths   *database.AuthorizationRepository
	logger  *logrus.Logger
	now     func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(
	flights *database.FlightRepository,
	tickets *database.TicketRepository,
	reports *database.ReportRepository,
	auths *database.AuthorizationRepository,
	logger *logrus.Logger,
) *ReportService {
	return &ReportService{
		flights: flights,
		tickets: tickets,
		reports: reports,
		auths:   auths,
		logger:  logger,
		now:     time.Now,
	}
}

// CustomerDashboard returns the customer's flights and spending. A nil request
// is the default view: upcoming flights and no custom range.
func (s *ReportService) CustomerDashboard(ctx context.Context, email string, req *models.CustomerDashboardRequest) (*models.CustomerDashboard, error) {
	today := s.today()
	dashboard := &models.CustomerDashboard{}

	filter := models.BookedFlightFilter{UpcomingOnly: true}
	if req != nil {
		switch req.FormType {
		case models.FormTypeFlightFilter:
			start, err := parseOptionalDate(req.FilterStart)
			if err != nil {
				return nil, err
			}
			end, err := parseOptionalDate(req.FilterEnd)
			if err != nil {
				return nil, err
			}
			filter = models.BookedFlightFilter{
				StartDate:   start,
				EndDate:     end,
				Origin:      strings.TrimSpace(req.FilterOrigin),
				Destination: strings.TrimSpace(req.FilterDestination),
			}
			dashboard.Filtered = true
		case models.FormTypeCustomSpending:
			custom, err := s.customSpending(ctx, email, req.StartDate, req.EndDate)
			if err != nil {
				return nil, err
			}
			dashboard.Custom = custom
		case "":
		default:
			return nil, validationError("Unknown form type.")
		}
	}

	flights, err := s.tickets.ListCustomerFlights(ctx, email, filter)
	if err != nil {
		return nil, err
	}
	dashboard.Flights = flights

	total, err := s.reports.CustomerSpendingTotal(ctx, email, today.AddDate(0, 0, -365), today)
	if err != nil {
		return nil, err
	}
	monthly, err := s.reports.CustomerSpendingByMonth(ctx, email, today.AddDate(0, 0, -180), today)
	if err != nil {
		return nil, err
	}
	dashboard.Spending = models.CustomerSpending{
		TotalLast12Months: total,
		LastSixMonths:     fillAmounts(monthLabels(today, 6), monthly),
	}

	return dashboard, nil
}

func (s *ReportService) customSpending(ctx context.Context, email, startValue, endValue string) (*models.CustomSpending, error) {
	start, err := parseOptionalDate(startValue)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDate(endValue)
	if err != nil {
		return nil, err
	}
	if start == nil || end == nil {
		return nil, validationError("Please provide both a start date and an end date.")
	}
	if end.Before(*start) {
		return nil, validationError("The start date must not be after the end date.")
	}

	total, err := s.reports.CustomerSpendingTotal(ctx, email, *start, *end)
	if err != nil {
		return nil, err
	}
	months, err := s.reports.CustomerSpendingByMonth(ctx, email, *start, *end)
	if err != nil {
		return nil, err
	}

	return &models.CustomSpending{
		StartDate: start.Format(dateLayout),
		EndDate:   end.Format(dateLayout),
		Total:     total,
		Months:    months,
	}, nil
}

// AgentDashboard returns commission figures and the agent's best customers
func (s *ReportService) AgentDashboard(ctx context.Context, agentEmail string) (*models.AgentDashboard, error) {
	today := s.today()

	summary, err := s.reports.AgentCommissionSummary(ctx, agentEmail, today.AddDate(0, 0, -30), today)
	if err != nil {
		return nil, err
	}
	byTickets, err := s.reports.AgentTopCustomersByTickets(ctx, agentEmail, today.AddDate(0, 0, -180), topN)
	if err != nil {
		return nil, err
	}
	byCommission, err := s.reports.AgentTopCustomersByCommission(ctx, agentEmail, today.AddDate(0, 0, -365), topN)
	if err != nil {
		return nil, err
	}
	airlines, err := s.auths.ListAirlines(ctx, agentEmail)
	if err != nil {
		return nil, err
	}

	return &models.AgentDashboard{
		CommissionSummary:        summary,
		TopCustomersByTickets:    byTickets,
		TopCustomersByCommission: byCommission,
		AuthorizedAirlines:       airlines,
	}, nil
}

// AgentBookings lists the tickets an agent sold, optionally filtered
func (s *ReportService) AgentBookings(ctx context.Context, agentEmail string, req *models.AgentBookingsRequest) ([]models.BookedFlight, error) {
	filter := models.BookedFlightFilter{}
	if req != nil {
		start, err := parseOptionalDate(req.StartDate)
		if err != nil {
			return nil, err
		}
		filter = models.BookedFlightFilter{
			StartDate:     start,
			Origin:        strings.TrimSpace(req.Origin),
			Destination:   strings.TrimSpace(req.Destination),
			CustomerEmail: strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		}
	}
	return s.tickets.ListAgentBookings(ctx, agentEmail, filter)
}

// StaffDashboard returns the airline's next 30 days of departures and its
// ticket sales per month
func (s *ReportService) StaffDashboard(ctx context.Context, airlineName string, role models.StaffRole) (*models.StaffDashboard, error) {
	today := s.today()

	flights, err := s.flights.ListDepartingBetween(ctx, airlineName, today, today.AddDate(0, 0, 30))
	if err != nil {
		return nil, err
	}
	perMonth, err := s.ticketsPerMonth(ctx, airlineName, today)
	if err != nil {
		return nil, err
	}

	return &models.StaffDashboard{
		AirlineName:     airlineName,
		Role:            role,
		IsAdmin:         role.IsAdmin(),
		IsOperator:      role.IsOperator(),
		Flights:         flights,
		TicketsPerMonth: perMonth,
	}, nil
}

// StaffAnalytics returns the airline's agent, customer and route rankings
func (s *ReportService) StaffAnalytics(ctx context.Context, airlineName string) (*models.StaffAnalytics, error) {
	today := s.today()
	lastMonth := today.AddDate(0, -1, 0)
	lastYear := today.AddDate(-1, 0, 0)
	analytics := &models.StaffAnalytics{}
	var err error

	if analytics.TopAgentsMonth, err = s.reports.TopAgentsByTickets(ctx, airlineName, lastMonth, topN); err != nil {
		return nil, err
	}
	if analytics.TopAgentsYear, err = s.reports.TopAgentsByCommission(ctx, airlineName, lastYear, topN); err != nil {
		return nil, err
	}
	if analytics.MostFrequent, err = s.reports.MostFrequentCustomer(ctx, airlineName, lastYear); err != nil {
		return nil, err
	}
	if analytics.TicketsPerMonth, err = s.ticketsPerMonth(ctx, airlineName, today); err != nil {
		return nil, err
	}
	if analytics.StatusCounts, err = s.reports.FlightStatusCounts(ctx, airlineName); err != nil {
		return nil, err
	}
	if analytics.TopDestinations3M, err = s.reports.TopDestinations(ctx, airlineName, today.AddDate(0, -3, 0), topN); err != nil {
		return nil, err
	}
	if analytics.TopDestinationsYear, err = s.reports.TopDestinations(ctx, airlineName, lastYear, topN); err != nil {
		return nil, err
	}

	return analytics, nil
}

// ticketsPerMonth covers the last 12 calendar months, current month included
func (s *ReportService) ticketsPerMonth(ctx context.Context, airlineName string, today time.Time) ([]models.MonthlyCount, error) {
	labels := monthLabels(today, 12)
	since := firstOfMonth(today).AddDate(0, -11, 0)
	rows, err := s.reports.AirlineTicketsByMonth(ctx, airlineName, since)
	if err != nil {
		return nil, err
	}
	return fillCounts(labels, rows), nil
}

func (s *ReportService) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// monthLabels returns n YYYY-MM labels ending with today's month, oldest first
func monthLabels(today time.Time, n int) []string {
	first := firstOfMonth(today)
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		labels[i] = first.AddDate(0, i-n+1, 0).Format("2006-01")
	}
	return labels
}

func fillAmounts(labels []string, rows []models.MonthlyAmount) []models.MonthlyAmount {
	byMonth := make(map[string]float64, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r.Amount
	}
	filled := make([]models.MonthlyAmount, len(labels))
	for i, label := range labels {
		filled[i] = models.MonthlyAmount{Month: label, Amount: byMonth[label]}
	}
	return filled
}

func fillCounts(labels []string, rows []models.MonthlyCount) []models.MonthlyCount {
	byMonth := make(map[string]int, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r.Tickets
	}
	filled := make([]models.MonthlyCount, len(labels))
	for i, label := range labels {
		filled[i] = models.MonthlyCount{Month: label, Tickets: byMonth[label]}
	}
	return filled
}

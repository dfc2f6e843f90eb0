package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/skyline/air-reservation/internal/config"
	"github.com/skyline/air-reservation/internal/database"
	"github.com/skyline/air-reservation/internal/models"
	"github.com/skyline/air-reservation/internal/services"
	"github.com/skyline/air-reservation/internal/utils"
	"github.com/skyline/air-reservation/pkg/jwt"
)

// seed-demo fills an empty database with one airline, two airports, an
// airplane and a flight, then walks a customer through a purchase. Every
// step goes through the services so the data obeys the same rules as the API.
func main() {
	airline := flag.String("airline", "AIRX", "airline to create")
	flightNum := flag.Int("flight", 100, "flight number to schedule")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	fmt.Println("Database connected")

	ctx := context.Background()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	code, hash, err := utils.GenerateRegistrationCode()
	if err != nil {
		log.Fatalf("Failed to generate registration code: %v", err)
	}
	airlines := database.NewAirlineRepository(db)
	if err := airlines.Upsert(ctx, &models.Airline{AirlineName: *airline, StaffRegHash: hash}); err != nil {
		log.Fatalf("Failed to provision airline: %v", err)
	}
	fmt.Printf("Airline %s provisioned, staff registration code: %s\n", *airline, code)

	flights := database.NewFlightRepository(db)
	tickets := database.NewTicketRepository(db)
	customers := database.NewCustomerRepository(db)
	agents := database.NewBookingAgentRepository(db)
	auths := database.NewAuthorizationRepository(db)

	authService := services.NewAuthService(customers, agents, database.NewAirlineStaffRepository(db), airlines,
		database.NewSessionRepository(db), jwt.NewService(cfg.JWT.Secret, cfg.JWT.SessionExpiry),
		cfg.Security.BcryptCost, logger)
	searchService := services.NewSearchService(flights, auths, nil, logger)
	staffService := services.NewStaffService(flights, database.NewFleetRepository(db), tickets, agents,
		airlines, auths, searchService, nil, logger)
	ticketService := services.NewTicketService(flights, tickets, customers, auths, nil, nil, logger)

	step("Register staff", authService.RegisterStaff(ctx, &models.StaffSignupRequest{
		Username: "demo-admin", Password: "demo-password", AirlineName: *airline, RegCode: code, Role: "both",
	}))
	actor := services.StaffActor{Username: "demo-admin", AirlineName: *airline, Role: models.StaffRoleBoth}

	step("Add airport JFK", staffService.AddAirport(ctx, actor, &models.Airport{AirportName: "JFK", AirportCity: "New York"}))
	step("Add airport LAX", staffService.AddAirport(ctx, actor, &models.Airport{AirportName: "LAX", AirportCity: "Los Angeles"}))
	step("Add airplane 1", staffService.AddAirplane(ctx, actor, &models.AddAirplaneRequest{
		AirplaneID: 1,
		SeatClasses: []models.SeatClassInput{
			{SeatClassID: models.SeatClassEconomy, SeatCapacity: 120},
			{SeatClassID: models.SeatClassBusiness, SeatCapacity: 24},
			{SeatClassID: models.SeatClassFirst, SeatCapacity: 8},
		},
	}))

	departure := time.Now().AddDate(0, 0, 14).Truncate(time.Hour)
	_, err = staffService.CreateFlight(ctx, actor, &models.CreateFlightRequest{
		FlightNum:        *flightNum,
		DepartureAirport: "JFK",
		DepartureTime:    departure.Format(time.RFC3339),
		ArrivalAirport:   "LAX",
		ArrivalTime:      departure.Add(6 * time.Hour).Format(time.RFC3339),
		BasePrice:        200,
		AirplaneID:       1,
	})
	step(fmt.Sprintf("Create flight %s %d", *airline, *flightNum), err)

	step("Register customer", authService.RegisterCustomer(ctx, &models.CustomerRegistrationRequest{
		Email: "demo@example.com", Name: "Demo Customer", Password: "demo-password",
	}))

	result, err := ticketService.Purchase(ctx, services.PurchaseInput{
		AirlineName: *airline, FlightNum: *flightNum, SeatClassID: models.SeatClassBusiness, CustomerEmail: "demo@example.com",
	})
	step("Buy business class ticket", err)
	if result != nil {
		fmt.Printf("  ticket %d sold for %.2f\n", result.TicketID, result.PurchasePrice)
	}

	fmt.Println("Demo data ready")
}

// step reports one seeding action. Conflicts mean the row is already there
// from an earlier run.
func step(name string, err error) {
	switch {
	case err == nil:
		fmt.Printf("  ok   %s\n", name)
	case errors.Is(err, services.ErrConflict):
		fmt.Printf("  skip %s: %v\n", name, err)
	default:
		log.Fatalf("  fail %s: %v", name, err)
	}
}

package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/skyline/air-reservation/internal/config"
	"github.com/skyline/air-reservation/internal/database"
	"github.com/skyline/air-reservation/internal/models"
	"github.com/skyline/air-reservation/internal/utils"
)

func main() {
	var (
		dbURLFlag string
		airline   string
		regHash   string
		regCode   string
	)
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.StringVar(&airline, "airline", "", "airline to provision after applying the schema")
	flag.StringVar(&regHash, "reg-hash", "", "hex sha256 of the airline's staff registration code")
	flag.StringVar(&regCode, "reg-code", "", "staff registration code, hashed before storing")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	db, err := database.NewConnection(config.DatabaseConfig{
		URL:                dbURL,
		Driver:             os.Getenv("DATABASE_DRIVER"),
		MaxConnections:     2,
		MaxIdleConnections: 1,
	})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatalf("Migration failed: %v", err)
	}
	logger.Info("Schema is up to date")

	airline = strings.TrimSpace(airline)
	if airline == "" {
		return
	}

	switch {
	case regCode != "":
		regHash = utils.HashRegistrationCode(regCode)
	case regHash == "":
		logger.Fatal("-airline needs either -reg-code or -reg-hash")
	}

	airlines := database.NewAirlineRepository(db)
	if err := airlines.Upsert(ctx, &models.Airline{AirlineName: airline, StaffRegHash: strings.ToLower(regHash)}); err != nil {
		logger.Fatalf("Failed to provision airline: %v", err)
	}
	logger.WithField("airline", airline).Info("Airline provisioned")
}

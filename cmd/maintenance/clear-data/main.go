package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/skyline/air-reservation/internal/config"
	"github.com/skyline/air-reservation/internal/database"
)

// clear-data empties every reservation table so a dev or staging database
// can be reseeded. Airline rows can be kept so registration codes survive.
func main() {
	var (
		databaseURL  string
		keepAirlines bool
		confirmed    bool
	)
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.BoolVar(&keepAirlines, "keep-airlines", false, "keep airline rows and their registration hashes")
	flag.BoolVar(&confirmed, "yes", false, "skip the confirmation prompt")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	_ = godotenv.Load()
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		logger.Fatal("Set DATABASE_URL or pass -database-url")
	}

	tables := resetTables(keepAirlines)
	if !confirmed && !confirm(tables) {
		logger.Info("Aborted, nothing was changed")
		return
	}

	db, err := database.NewConnection(config.DatabaseConfig{
		URL:                databaseURL,
		Driver:             os.Getenv("DATABASE_DRIVER"),
		MaxConnections:     2,
		MaxIdleConnections: 1,
	})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	stmt := "TRUNCATE TABLE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE"
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		logger.Fatalf("Truncate failed: %v", err)
	}
	logger.WithField("tables", len(tables)).Info("Reservation data cleared")

	for _, table := range tables {
		var rows int
		entry := logger.WithField("table", table)
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&rows); err != nil {
			entry.WithError(err).Warn("Could not count rows")
			continue
		}
		entry.WithField("rows", rows).Info("Table checked")
	}
}

func resetTables(keepAirlines bool) []string {
	tables := make([]string, 0, len(database.ResetTables))
	for _, t := range database.ResetTables {
		if keepAirlines && t == "airline" {
			continue
		}
		tables = append(tables, t)
	}
	return tables
}

func confirm(tables []string) bool {
	fmt.Printf("This removes every row from: %s\nType 'yes' to continue: ", strings.Join(tables, ", "))
	var answer string
	if _, err := fmt.Scanln(&answer); err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(answer), "yes")
}

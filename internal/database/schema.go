package database

import (
	"context"
	"fmt"
)

// schemaStatements creates the reservation schema. Every statement is idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS airline (
		airline_name    VARCHAR(64) PRIMARY KEY,
		staff_reg_hash  CHAR(64)    NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS airport (
		airport_name    VARCHAR(64) PRIMARY KEY,
		airport_city    VARCHAR(64) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS airplane (
		airline_name    VARCHAR(64) NOT NULL REFERENCES airline(airline_name),
		airplane_id     INTEGER     NOT NULL,
		PRIMARY KEY (airline_name, airplane_id)
	)`,
	`CREATE TABLE IF NOT EXISTS seat_class (
		airline_name    VARCHAR(64) NOT NULL,
		airplane_id     INTEGER     NOT NULL,
		seat_class_id   INTEGER     NOT NULL,
		seat_capacity   INTEGER     NOT NULL CHECK (seat_capacity >= 0),
		PRIMARY KEY (airline_name, airplane_id, seat_class_id),
		FOREIGN KEY (airline_name, airplane_id) REFERENCES airplane(airline_name, airplane_id)
	)`,
	`CREATE TABLE IF NOT EXISTS flight (
		airline_name        VARCHAR(64)   NOT NULL REFERENCES airline(airline_name),
		flight_num          INTEGER       NOT NULL,
		departure_airport   VARCHAR(64)   NOT NULL REFERENCES airport(airport_name),
		departure_time      TIMESTAMP     NOT NULL,
		arrival_airport     VARCHAR(64)   NOT NULL REFERENCES airport(airport_name),
		arrival_time        TIMESTAMP     NOT NULL,
		base_price          NUMERIC(10,2) NOT NULL,
		status              VARCHAR(16)   NOT NULL DEFAULT 'upcoming',
		airplane_id         INTEGER       NOT NULL,
		PRIMARY KEY (airline_name, flight_num),
		FOREIGN KEY (airline_name, airplane_id) REFERENCES airplane(airline_name, airplane_id)
	)`,
	`CREATE TABLE IF NOT EXISTS customer (
		email               VARCHAR(128) PRIMARY KEY,
		name                VARCHAR(128) NOT NULL,
		password_hash       VARCHAR(255) NOT NULL,
		building_number     VARCHAR(32),
		street              VARCHAR(128),
		city                VARCHAR(64),
		state               VARCHAR(64),
		phone_number        VARCHAR(32),
		passport_number     VARCHAR(32),
		passport_expiration DATE,
		passport_country    VARCHAR(64),
		date_of_birth       DATE
	)`,
	`CREATE TABLE IF NOT EXISTS booking_agent (
		email           VARCHAR(128) PRIMARY KEY,
		password_hash   VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS airline_staff (
		username        VARCHAR(64)  PRIMARY KEY,
		password_hash   VARCHAR(255) NOT NULL,
		first_name      VARCHAR(64),
		last_name       VARCHAR(64),
		date_of_birth   DATE,
		airline_name    VARCHAR(64)  NOT NULL REFERENCES airline(airline_name),
		role            VARCHAR(16)  NOT NULL DEFAULT 'admin' CHECK (role IN ('admin', 'operator', 'both'))
	)`,
	`CREATE TABLE IF NOT EXISTS agent_airline_authorization (
		agent_email     VARCHAR(128) NOT NULL REFERENCES booking_agent(email),
		airline_name    VARCHAR(64)  NOT NULL REFERENCES airline(airline_name),
		PRIMARY KEY (agent_email, airline_name)
	)`,
	`CREATE TABLE IF NOT EXISTS ticket (
		ticket_id       INTEGER     PRIMARY KEY,
		airline_name    VARCHAR(64) NOT NULL,
		flight_num      INTEGER     NOT NULL,
		airplane_id     INTEGER     NOT NULL,
		seat_class_id   INTEGER     NOT NULL,
		FOREIGN KEY (airline_name, flight_num) REFERENCES flight(airline_name, flight_num),
		FOREIGN KEY (airline_name, airplane_id, seat_class_id)
			REFERENCES seat_class(airline_name, airplane_id, seat_class_id)
	)`,
	`CREATE TABLE IF NOT EXISTS purchases (
		ticket_id           INTEGER       PRIMARY KEY REFERENCES ticket(ticket_id),
		customer_email      VARCHAR(128)  NOT NULL REFERENCES customer(email),
		booking_agent_email VARCHAR(128)  REFERENCES booking_agent(email),
		purchase_date       DATE          NOT NULL,
		purchase_price      NUMERIC(10,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id              UUID         PRIMARY KEY,
		principal_type  VARCHAR(16)  NOT NULL,
		principal_id    VARCHAR(128) NOT NULL,
		airline_name    VARCHAR(64),
		staff_role      VARCHAR(16),
		ip_address      VARCHAR(64),
		device_type     VARCHAR(16),
		user_agent      TEXT,
		created_at      TIMESTAMPTZ  NOT NULL DEFAULT now(),
		expires_at      TIMESTAMPTZ  NOT NULL,
		revoked_at      TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ticket_flight_class
		ON ticket (airline_name, flight_num, airplane_id, seat_class_id)`,
	`CREATE INDEX IF NOT EXISTS idx_purchases_customer_date ON purchases (customer_email, purchase_date)`,
	`CREATE INDEX IF NOT EXISTS idx_purchases_agent_date ON purchases (booking_agent_email, purchase_date)`,
	`CREATE INDEX IF NOT EXISTS idx_flight_search ON flight (status, departure_airport, arrival_airport)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions (expires_at)`,
}

// Migrate applies the schema in order
func Migrate(ctx context.Context, db DB) error {
	for i, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}

// ResetTables lists every table cleared by the maintenance tool, children first
var ResetTables = []string{
	"sessions",
	"purchases",
	"ticket",
	"agent_airline_authorization",
	"flight",
	"seat_class",
	"airplane",
	"airline_staff",
	"booking_agent",
	"customer",
	"airport",
	"airline",
}

package config

import (
	"fmt"
	"os"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const (
	// AVERAGE_SERVICE_MINUTES drives the naive linear wait estimate:
	// estimated wait = position * AVERAGE_SERVICE_MINUTES.
	AVERAGE_SERVICE_MINUTES = 10

	// TICKET_CODE_MAX_ATTEMPTS bounds regeneration when a generated code
	// collides with an existing one.
	TICKET_CODE_MAX_ATTEMPTS = 5

	MAX_PARTY_SIZE = 20
)

package main

import (
	"os"
	"time"

	"github.com/pevans/horoscrape/horoscope"
)

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// resolveDay parses a --date flag value. Empty means today.
func resolveDay(date string) (time.Time, error) {
	if date == "" {
		return time.Now(), nil
	}
	return horoscope.ParseDate(date)
}

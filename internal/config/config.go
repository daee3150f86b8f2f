package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Sheets   SheetsConfig
	Line     LineConfig
	Reminder ReminderConfig
}

// ServerConfig holds the server configuration
type ServerConfig struct {
	Port int
}

// SheetsConfig holds the row store configuration
type SheetsConfig struct {
	SpreadsheetID      string
	ServiceAccountJSON string
}

// LineConfig holds the messaging channel configuration
type LineConfig struct {
	ChannelAccessToken string
	ChannelSecret      string
}

// ReminderConfig holds the daily reminder job configuration
type ReminderConfig struct {
	Schedule     string // five-field cron expression, evaluated in Timezone
	Timezone     string
	PauseSeconds int // delay between consecutive dispatches
}

// Location resolves the reminder timezone, which is also the locale for
// recorded dates and times
func (c *ReminderConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Pause returns the inter-dispatch delay as a duration
func (c *ReminderConfig) Pause() time.Duration {
	return time.Duration(c.PauseSeconds) * time.Second
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnvAsInt("PORT", 3000),
		},
		Sheets: SheetsConfig{
			SpreadsheetID:      getEnv("SPREADSHEET_ID", ""),
			ServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		},
		Line: LineConfig{
			ChannelAccessToken: getEnv("LINE_CHANNEL_ACCESS_TOKEN", ""),
			ChannelSecret:      getEnv("LINE_CHANNEL_SECRET", ""),
		},
		Reminder: ReminderConfig{
			Schedule:     getEnv("REMINDER_SCHEDULE", "0 6 * * *"),
			Timezone:     getEnv("REMINDER_TIMEZONE", "Asia/Bangkok"),
			PauseSeconds: getEnvAsInt("REMINDER_PAUSE_SECONDS", 1),
		},
	}
}

// Helper functions to read environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

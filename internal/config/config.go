package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// Backend selection
	DataBackend string
	SeedDir     string

	// AMQP
	AMQPURL          string
	AMQPExchange     string
	AMQPRequestQueue string
	AMQPAlertQueue   string

	// Google Sheets
	GoogleSpreadsheetID string

	// Analysis defaults
	WindowMonths     int
	AnomalyThreshold float64
	HorizonMonths    int

	// Score factor weights, must sum to a positive total
	SavingsWeight         float64
	DiversificationWeight float64
	ConsistencyWeight     float64

	// Worker
	AnalysisCron string

	// Report cache
	CacheSize int
	CacheTTL  time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/fintrack.db"),

		DataBackend: getEnv("DATA_BACKEND", "memory"),
		SeedDir:     getEnv("SEED_DIR", "./data"),

		AMQPURL:          getEnv("AMQP_URL", ""),
		AMQPExchange:     getEnv("AMQP_EXCHANGE", "fintrack"),
		AMQPRequestQueue: getEnv("AMQP_REQUEST_QUEUE", "analysis_requests"),
		AMQPAlertQueue:   getEnv("AMQP_ALERT_QUEUE", "anomaly_alerts"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),

		WindowMonths:     getEnvInt("ANALYSIS_WINDOW_MONTHS", 12),
		AnomalyThreshold: getEnvFloat("ANOMALY_THRESHOLD", 2.0),
		HorizonMonths:    getEnvInt("PROJECTION_HORIZON_MONTHS", 12),

		SavingsWeight:         getEnvFloat("SCORE_SAVINGS_WEIGHT", 40),
		DiversificationWeight: getEnvFloat("SCORE_DIVERSIFICATION_WEIGHT", 30),
		ConsistencyWeight:     getEnvFloat("SCORE_CONSISTENCY_WEIGHT", 30),

		AnalysisCron: getEnv("ANALYSIS_CRON", "0 6 * * *"),

		CacheSize: getEnvInt("REPORT_CACHE_SIZE", 100),
		CacheTTL:  getEnvDuration("REPORT_CACHE_TTL", 5*time.Minute),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"memory", "sheets", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate Google Sheets configuration if backend is sheets
	if c.DataBackend == "sheets" && c.GoogleSpreadsheetID == "" {
		errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPRequestQueue == "" {
			errors = append(errors, "AMQP request queue name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPAlertQueue == "" {
			errors = append(errors, "AMQP alert queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate analysis parameters
	if c.WindowMonths < 1 || c.WindowMonths > 120 {
		errors = append(errors, fmt.Sprintf("invalid analysis window %d: must be between 1 and 120 months", c.WindowMonths))
	}
	if c.AnomalyThreshold <= 0 {
		errors = append(errors, fmt.Sprintf("invalid anomaly threshold %v: must be positive", c.AnomalyThreshold))
	}
	if c.HorizonMonths < 1 || c.HorizonMonths > 60 {
		errors = append(errors, fmt.Sprintf("invalid projection horizon %d: must be between 1 and 60 months", c.HorizonMonths))
	}

	// Validate score weights
	if c.SavingsWeight < 0 || c.DiversificationWeight < 0 || c.ConsistencyWeight < 0 {
		errors = append(errors, "score weights must be non-negative")
	}
	if c.SavingsWeight+c.DiversificationWeight+c.ConsistencyWeight <= 0 {
		errors = append(errors, "score weights must sum to a positive total")
	}

	// Validate worker schedule
	if _, err := cron.ParseStandard(c.AnalysisCron); err != nil {
		errors = append(errors, fmt.Sprintf("invalid analysis cron '%s': %v", c.AnalysisCron, err))
	}

	// Validate cache settings
	if c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid report cache size %d: must be at least 1", c.CacheSize))
	}
	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid report cache TTL %v: must be at least 1 second", c.CacheTTL))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

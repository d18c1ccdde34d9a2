package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load builds the configuration from an optional .env file and the process
// environment. A missing .env file is not an error; a malformed one is.
func Load(envPath ...string) (*Config, error) {
	var err error
	if len(envPath) > 0 && envPath[0] != "" {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		if len(envPath) > 0 && envPath[0] != "" {
			return nil, fmt.Errorf("could not load env file %q: %w", envPath[0], err)
		}
		log.Println("No .env file found, using environment variables")
	}

	cfg := Default()
	if getEnvAsBool("LISTINGS_DEV", false) {
		cfg = Dev()
	}

	cfg.Server.Addr = getEnv("LISTINGS_ADDR", cfg.Server.Addr)
	cfg.Server.RequestTimeout = getEnvAsDuration("REQUEST_TIMEOUT", cfg.Server.RequestTimeout)
	if origins := getEnv("CORS_ORIGINS", ""); origins != "" {
		cfg.Server.CORSOrigins = splitList(origins)
	}

	cfg.Data.Source = strings.ToLower(getEnv("DATA_SOURCE", cfg.Data.Source))
	cfg.Data.Path = getEnv("DATA_PATH", cfg.Data.Path)
	cfg.Data.URL = getEnv("DATA_URL", cfg.Data.URL)
	cfg.Data.PostgresDSN = getEnv("PG_DSN", cfg.Data.PostgresDSN)
	cfg.Data.FetchTimeout = getEnvAsDuration("FETCH_TIMEOUT", cfg.Data.FetchTimeout)

	cfg.Page.Locale = getEnv("PAGE_LOCALE", cfg.Page.Locale)
	cfg.Page.CopyConfirm = getEnvAsDuration("COPY_CONFIRM", cfg.Page.CopyConfirm)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
	cfg.Log.File = getEnv("LOG_FILE", cfg.Log.File)
	cfg.Log.FileMaxSize = getEnvAsInt("LOG_FILE_MAX_SIZE", cfg.Log.FileMaxSize)
	cfg.Log.AppName = getEnv("APP_NAME", cfg.Log.AppName)

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", cfg.FluentBit.Port)
		cfg.FluentBit.Level = getEnv("FLUENTBIT_LOG_LEVEL", cfg.FluentBit.Level)
	}

	cfg.Browser.Headless = getEnvAsBool("CHROME_HEADLESS", cfg.Browser.Headless)
	cfg.Timing.CheckTimeout = getEnvAsDuration("CHECK_TIMEOUT", cfg.Timing.CheckTimeout)
	cfg.Retry.MaxRetries = getEnvAsInt("CHECK_RETRIES", cfg.Retry.MaxRetries)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected data source has what it needs.
func (c *Config) Validate() error {
	switch c.Data.Source {
	case "file":
		if c.Data.Path == "" {
			return fmt.Errorf("DATA_PATH is required for the file data source")
		}
	case "http":
		if c.Data.URL == "" {
			return fmt.Errorf("DATA_URL is required for the http data source")
		}
	case "postgres":
		if c.Data.PostgresDSN == "" {
			return fmt.Errorf("PG_DSN is required for the postgres data source")
		}
	default:
		return fmt.Errorf("unknown DATA_SOURCE %q", c.Data.Source)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as duration: %v. Using default value: %s\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

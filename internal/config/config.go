package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds application configuration
type Config struct {
	Shots             int
	MaxQubits         int
	Seed              *uint64 // nil means seed from the clock
	Workers           int
	ParallelMinQubits int
	NormTolerance     float64
	StrictNorm        bool
	LogLevel          string
	LogPretty         bool
	LogFile           string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Shots:             getEnvAsInt("QARITH_SHOTS", 1),
		MaxQubits:         getEnvAsInt("QARITH_MAX_QUBITS", 24),
		Seed:              getEnvAsUint64Ptr("QARITH_SEED"),
		Workers:           getEnvAsInt("QARITH_WORKERS", runtime.NumCPU()),
		ParallelMinQubits: getEnvAsInt("QARITH_PARALLEL_MIN_QUBITS", 14),
		NormTolerance:     getEnvAsFloat("QARITH_NORM_TOLERANCE", 1e-6),
		StrictNorm:        getEnvAsBool("QARITH_STRICT_NORM", false),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogPretty:         getEnvAsBool("LOG_PRETTY", true),
		LogFile:           getEnv("LOG_FILE", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that every setting is usable
func (c *Config) Validate() error {
	if c.Shots <= 0 {
		return fmt.Errorf("%w: QARITH_SHOTS must be positive, got %d", ErrInvalidConfig, c.Shots)
	}
	if c.MaxQubits < 2 || c.MaxQubits > 30 {
		return fmt.Errorf("%w: QARITH_MAX_QUBITS must be in [2,30], got %d", ErrInvalidConfig, c.MaxQubits)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: QARITH_WORKERS must be positive, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.ParallelMinQubits < 0 {
		return fmt.Errorf("%w: QARITH_PARALLEL_MIN_QUBITS must not be negative, got %d", ErrInvalidConfig, c.ParallelMinQubits)
	}
	if !(c.NormTolerance > 0) {
		return fmt.Errorf("%w: QARITH_NORM_TOLERANCE must be positive, got %g", ErrInvalidConfig, c.NormTolerance)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsUint64Ptr(key string) *uint64 {
	if value := os.Getenv(key); value != "" {
		if uintVal, err := strconv.ParseUint(value, 10, 64); err == nil {
			return &uintVal
		}
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"quizclash/database"
)

// Config holds all application configuration
type Config struct {
	// HTTP server
	ListenAddr string

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Auth configuration
	JWTSecret string

	// Payment gateway (Razorpay) configuration
	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayBaseURL   string

	// Trivia supplier configuration
	TriviaAPIURL string

	// Wallet configuration (smallest currency unit)
	WelcomeBonus        int64
	ReferralBonus       int64
	MinRechargeAmount   int64
	MinWithdrawalAmount int64

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated), empty disables forwarding

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// GatewayConfigured reports whether payment gateway credentials are present
func (c *Config) GatewayConfigured() bool {
	return c.RazorpayKeyID != "" && c.RazorpayKeySecret != ""
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		ListenAddr: getEnvWithDefault("LISTEN_ADDR", ":8080"),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		RazorpayBaseURL:   getEnvWithDefault("RAZORPAY_BASE_URL", "https://api.razorpay.com/v1"),

		TriviaAPIURL: getEnvWithDefault("TRIVIA_API_URL", "https://opentdb.com/api.php"),

		WelcomeBonus:        10,
		ReferralBonus:       10,
		MinRechargeAmount:   1000, // ₹10 in paise
		MinWithdrawalAmount: 100,

		NATSServers: os.Getenv("NATS_SERVERS"),

		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override money defaults if environment variables are set
	if v := os.Getenv("WELCOME_BONUS"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.WelcomeBonus = parsed
		}
	}
	if v := os.Getenv("REFERRAL_BONUS"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.ReferralBonus = parsed
		}
	}
	if v := os.Getenv("MIN_RECHARGE_AMOUNT"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.MinRechargeAmount = parsed
		}
	}
	if v := os.Getenv("MIN_WITHDRAWAL_AMOUNT"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.MinWithdrawalAmount = parsed
		}
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET is required")
		}
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:         "test",
		JWTSecret:           "test-secret",
		RazorpayKeyID:       "rzp_test_key",
		RazorpayKeySecret:   "rzp_test_secret",
		WelcomeBonus:        10,
		ReferralBonus:       10,
		MinRechargeAmount:   1000,
		MinWithdrawalAmount: 100,
	}
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds application configuration
type Config struct {
	// Server
	Env                string
	Port               string
	LogLevel           string
	CORSAllowedOrigins []string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Auth: tokens are issued by the external identity provider and
	// verified here with its shared HS256 secret.
	JWTSecret      string
	JWTAudience    string
	PipelineAPIKey string

	// Reconciliation
	FoodKeywordsFile            string
	DefaultFoodBudget           decimal.Decimal
	BudgetCacheInvalidateSeries bool

	// Messaging; reconciliation runs inline when AMQPURL is empty.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Env:                getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", ""),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "budgetmaster"),
		DBPassword: getEnv("DB_PASSWORD", "budgetmaster"),
		DBName:     getEnv("DB_NAME", "budgetmaster"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Auth
		JWTSecret:      getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		JWTAudience:    getEnv("JWT_AUDIENCE", "authenticated"),
		PipelineAPIKey: getEnv("PIPELINE_API_KEY", ""),

		// Reconciliation
		FoodKeywordsFile: getEnv("FOOD_KEYWORDS_FILE", ""),

		// Messaging
		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "budgetmaster"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "food-reconcile"),
	}

	budgetStr := getEnv("DEFAULT_FOOD_BUDGET", "4000")
	budget, err := decimal.NewFromString(budgetStr)
	if err != nil || budget.IsNegative() {
		return nil, fmt.Errorf("invalid DEFAULT_FOOD_BUDGET value %q", budgetStr)
	}
	config.DefaultFoodBudget = budget

	seriesStr := getEnv("BUDGET_CACHE_INVALIDATE_SERIES", "false")
	series, err := strconv.ParseBool(seriesStr)
	if err != nil {
		log.Printf("Warning: invalid BUDGET_CACHE_INVALIDATE_SERIES value '%s', falling back to false\n", seriesStr)
	}
	config.BudgetCacheInvalidateSeries = series

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// DSN returns the PostgreSQL connection string for gorm.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// MigrationURL returns the PostgreSQL URL used by golang-migrate.
func (c *Config) MigrationURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// QueueEnabled reports whether reconciliation requests go through RabbitMQ.
func (c *Config) QueueEnabled() bool {
	return c.AMQPURL != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
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

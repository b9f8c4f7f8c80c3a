package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"labflow/internal/sheet"
)

// Remote endpoint names. Each maps to a {URL, token} pair in the environment;
// nothing in the codebase carries a URL or token literal.
const (
	EndpointOrders         = "orders"
	EndpointOrdersDesigner = "orders_designer"
	EndpointIncome         = "income"
	EndpointExpense        = "expense"
	EndpointEvidence       = "evidence"
	EndpointInventory      = "inventory"
	EndpointReceipt        = "receipt"
)

var endpointEnvPrefixes = map[string]string{
	EndpointOrders:         "SHEET_ORDERS",
	EndpointOrdersDesigner: "SHEET_ORDERS_DESIGNER",
	EndpointIncome:         "SHEET_INCOME",
	EndpointExpense:        "SHEET_EXPENSE",
	EndpointEvidence:       "SHEET_EVIDENCE",
	EndpointInventory:      "SHEET_INVENTORY",
	EndpointReceipt:        "SHEET_RECEIPT",
}

// Config is resolved once at startup and handed to the wiring in main.
type Config struct {
	Port        string
	DatabaseDSN string
	RedisURL    string // optional; empty disables the snapshot cache

	Endpoints map[string]sheet.Endpoint

	RequestTimeout           time.Duration
	InventoryRefreshInterval time.Duration
}

// Load reads configs/.env (when present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load("configs/.env"); err != nil {
		// Running from env vars alone is fine (containers, CI).
	}

	cfg := &Config{
		Port:                     getEnv("PORT", "8080"),
		RedisURL:                 os.Getenv("REDIS_URL"),
		Endpoints:                make(map[string]sheet.Endpoint, len(endpointEnvPrefixes)),
		RequestTimeout:           getDurationEnv("SHEET_TIMEOUT_SECONDS", 20) * time.Second,
		InventoryRefreshInterval: getDurationEnv("INVENTORY_REFRESH_SECONDS", 300) * time.Second,
	}

	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "labflow")
	dbSslMode := getEnv("DB_SSLMODE", "disable")
	cfg.DatabaseDSN = "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	for name, prefix := range endpointEnvPrefixes {
		url := os.Getenv(prefix + "_URL")
		if url == "" {
			return nil, fmt.Errorf("missing required environment variable %s_URL", prefix)
		}
		cfg.Endpoints[name] = sheet.Endpoint{
			URL:   url,
			Token: os.Getenv(prefix + "_TOKEN"),
		}
	}

	return cfg, nil
}

// Endpoint returns the named endpoint; unknown names panic at wiring time
// rather than surfacing as confusing request failures later.
func (c *Config) Endpoint(name string) sheet.Endpoint {
	e, ok := c.Endpoints[name]
	if !ok {
		panic("unknown endpoint name: " + name)
	}
	return e
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationEnv(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n)
		}
	}
	return time.Duration(fallback)
}

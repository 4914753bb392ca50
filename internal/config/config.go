package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP server
	Port            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	ReloadRateLimit int // reload requests per minute per client
	// CIDRs whose X-Forwarded-For / X-Real-IP headers are believed
	TrustedProxies []string

	// Dataset
	DataPath         string
	DataSource       string
	DatasetCacheSize int

	// Presentation
	TopMerchants   int
	CurrencySymbol string

	LogLevel string

	// Reload events, disabled when AMQPURL is empty
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string
}

var validSources = []string{"auto", "csv", "sqlite", "sheets"}

var validLogLevels = []string{"debug", "info", "warn", "warning", "error"}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8501"),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 7*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		ReloadRateLimit: getEnvInt("RELOAD_RATE_LIMIT", 6),
		TrustedProxies:  getEnvList("TRUSTED_PROXIES"),

		DataPath:         getEnv("DATA_PATH", "./data/upi_transactions_synthetic.csv"),
		DataSource:       strings.ToLower(getEnv("DATA_SOURCE", "auto")),
		DatasetCacheSize: getEnvInt("DATASET_CACHE_SIZE", 16),

		TopMerchants:   getEnvInt("TOP_MERCHANTS", 10),
		CurrencySymbol: getEnv("CURRENCY_SYMBOL", "₹"),

		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),

		AMQPURL:        getEnv("AMQP_URL", ""),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "upidash"),
		AMQPRoutingKey: getEnv("AMQP_ROUTING_KEY", "dataset.reloaded"),
	}
}

// Validate returns every problem with the configuration in one error.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if strings.TrimSpace(c.DataPath) == "" {
		errors = append(errors, "data path cannot be empty")
	}

	if !contains(validSources, c.DataSource) {
		errors = append(errors, fmt.Sprintf("invalid data source '%s': must be one of %v", c.DataSource, validSources))
	}

	if c.DatasetCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid dataset cache size %d: must be at least 1", c.DatasetCacheSize))
	}

	if c.TopMerchants < 1 {
		errors = append(errors, fmt.Sprintf("invalid top merchants %d: must be at least 1", c.TopMerchants))
	} else if c.TopMerchants > 100 {
		errors = append(errors, fmt.Sprintf("invalid top merchants %d: must be at most 100", c.TopMerchants))
	}

	if c.ReloadRateLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid reload rate limit %d: must be at least 1 per minute", c.ReloadRateLimit))
	}

	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			errors = append(errors, fmt.Sprintf("invalid trusted proxy '%s': must be a CIDR", cidr))
		}
	}

	if c.RequestTimeout < 100*time.Millisecond {
		errors = append(errors, fmt.Sprintf("invalid request timeout %v: must be at least 100ms", c.RequestTimeout))
	}

	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	}

	if !contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLogLevels))
	}

	if c.AMQPURL != "" {
		if !strings.HasPrefix(c.AMQPURL, "amqp://") && !strings.HasPrefix(c.AMQPURL, "amqps://") {
			errors = append(errors, "invalid AMQP URL: must start with amqp:// or amqps://")
		}
		if strings.TrimSpace(c.AMQPExchange) == "" {
			errors = append(errors, "AMQP exchange cannot be empty when AMQP_URL is set")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping empty items.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
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

package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP server
	Port string

	// Upstream collaborators
	APIBaseURL     string
	APITimeout     time.Duration
	APIMaxRetries  int

	// Local statement archive
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Snapshot polling
	PollInterval time.Duration

	// Backend selection: "rest" or "memory"
	DataBackend string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		APIBaseURL:    getEnv("API_BASE_URL", "http://localhost:5000/api/v1"),
		APITimeout:    getEnvDuration("API_TIMEOUT", 10*time.Second),
		APIMaxRetries: getEnvInt("API_MAX_RETRIES", 3),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/crewfin.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "crewfin"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "finance_events"),

		PollInterval: getEnvDuration("POLL_INTERVAL", 30*time.Second),

		DataBackend: getEnv("DATA_BACKEND", "memory"),
	}
}

// Validate checks the configuration and returns an error listing every
// problem found.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "rest", "memory":
	default:
		problems = append(problems, fmt.Sprintf("invalid data backend %q: must be rest or memory", c.DataBackend))
	}

	if c.DataBackend == "rest" {
		if u, err := url.Parse(c.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			problems = append(problems, fmt.Sprintf("invalid API base URL %q", c.APIBaseURL))
		}
	}

	if c.PollInterval < time.Second {
		problems = append(problems, fmt.Sprintf("poll interval %s too short: minimum 1s", c.PollInterval))
	}

	if c.APIMaxRetries < 0 {
		problems = append(problems, fmt.Sprintf("negative API max retries %d", c.APIMaxRetries))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

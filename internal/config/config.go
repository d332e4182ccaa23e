package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
)

type Config struct {
	Addr     string
	LogLevel string
	AppEnv   string

	WordsFile   string
	DatabaseURL string

	StartDelay      time.Duration
	DecisiveTurnGap time.Duration
	PartialTurnGap  time.Duration
	TickInterval    time.Duration

	ClientRate  float64
	ClientBurst int

	PingInterval time.Duration
	PingTimeout  time.Duration

	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

func (c Config) Development() bool { return c.AppEnv != "production" }

// Load reads an optional .env file and then the environment. Malformed values
// are reported together.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var errs error
	c := Config{
		Addr:        getEnv("ADDR", ":8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		AppEnv:      getEnv("APP_ENV", "development"),
		WordsFile:   os.Getenv("WORDS_FILE"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}
	c.StartDelay = getDuration("START_DELAY", 3*time.Second, &errs)
	c.DecisiveTurnGap = getDuration("DECISIVE_TURN_GAP", 3*time.Second, &errs)
	c.PartialTurnGap = getDuration("PARTIAL_TURN_GAP", 5*time.Second, &errs)
	c.TickInterval = getDuration("TICK_INTERVAL", time.Second, &errs)
	c.ShutdownTimeout = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second, &errs)
	c.ClientRate = getFloat("CLIENT_RATE", 20, &errs)
	c.ClientBurst = getInt("CLIENT_BURST", 40, &errs)
	c.PingInterval = getDuration("PING_INTERVAL", 30*time.Second, &errs)
	c.PingTimeout = getDuration("PING_TIMEOUT", 10*time.Second, &errs)

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, o)
			}
		}
	}

	if errs != nil {
		return Config{}, errs
	}
	return c, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, def time.Duration, errs *error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err == nil && d <= 0 {
		err = errors.New("must be positive")
	}
	if err != nil {
		*errs = multierr.Append(*errs, fmt.Errorf("%s=%q: %w", key, v, err))
		return def
	}
	return d
}

func getInt(key string, def int, errs *error) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err == nil && n <= 0 {
		err = errors.New("must be positive")
	}
	if err != nil {
		*errs = multierr.Append(*errs, fmt.Errorf("%s=%q: %w", key, v, err))
		return def
	}
	return n
}

func getFloat(key string, def float64, errs *error) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err == nil && f <= 0 {
		err = errors.New("must be positive")
	}
	if err != nil {
		*errs = multierr.Append(*errs, fmt.Errorf("%s=%q: %w", key, v, err))
		return def
	}
	return f
}

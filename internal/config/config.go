package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultBackendURL  = "http://localhost:8000"
	DefaultTrackingURL = "http://localhost:5000"
)

var ErrInvalidBackendURL = errors.New("config: invalid backend url")

// Config is built once at startup and passed by value; nothing mutates it afterwards.
type Config struct {
	Addr             string        // dashboard bind address, e.g. "127.0.0.1:8501"
	LogDir           string        // logs directory
	LogLevel         string        // zap level name: debug, info, warn, error
	BackendURL       string        // base URL for /health and /api/data
	TrackingURL      string        // experiment tracking UI, display only
	RequestTimeout   time.Duration // bound for every outbound call
	MaxDocumentBytes int           // largest user document accepted by the panel
	PanelAPIKeys     []string      // empty means the panel is open
	SubmitRPM        int           // per-IP submissions per minute, 0 disables
	SubmitBurst      int
	TrustProxy       bool // take the client address from X-Forwarded-For / X-Real-IP
}

// FromEnv reads the process environment. A .env file is loaded first when
// present; variables already set in the environment take precedence.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		Addr:             getEnv("API_ADDR", "127.0.0.1:8501"),
		LogDir:           getEnv("LOG_DIR", "logs"),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", "info")),
		BackendURL:       trimURL(getEnv("BACKEND_URL", DefaultBackendURL)),
		TrackingURL:      trimURL(getEnv("MLFLOW_TRACKING_URI", DefaultTrackingURL)),
		RequestTimeout:   getMillis("REQUEST_TIMEOUT_MS", 5*time.Second),
		MaxDocumentBytes: getPositiveInt("MAX_DOCUMENT_BYTES", 1<<20),
		PanelAPIKeys:     splitList(os.Getenv("PANEL_API_KEYS")),
		SubmitRPM:        getNonNegativeInt("SUBMIT_RPM", 60),
		SubmitBurst:      getPositiveInt("SUBMIT_BURST", 10),
		TrustProxy:       getBool("TRUST_PROXY", false),
	}
}

// Validate reports configuration that would make every backend call fail.
func (c Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackendURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBackendURL, c.BackendURL)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("config: request timeout must be positive")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getMillis(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}

func getPositiveInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getNonNegativeInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func trimURL(s string) string {
	return strings.TrimRight(s, "/")
}

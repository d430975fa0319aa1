// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/hamed0406/demodash/internal/config"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg := config.FromEnv()

	if err := cfg.Validate(); err != nil {
		fail(err.Error())
	}
	if strings.TrimSpace(os.Getenv("BACKEND_URL")) == "" {
		warn("BACKEND_URL empty; using default " + config.DefaultBackendURL)
	} else {
		ok("BACKEND_URL=" + cfg.BackendURL)
	}
	ok("MLFLOW_TRACKING_URI=" + cfg.TrackingURL + " (display only)")
	ok(fmt.Sprintf("request timeout %s", cfg.RequestTimeout))

	if len(cfg.PanelAPIKeys) == 0 {
		warn("PANEL_API_KEYS empty; panel routes are open to anyone who can reach " + cfg.Addr)
	} else {
		ok(fmt.Sprintf("%d panel key(s) configured", len(cfg.PanelAPIKeys)))
	}
	if raw := os.Getenv("PANEL_API_KEYS"); strings.Contains(raw, " ") {
		warn("PANEL_API_KEYS contains spaces; use comma-separated with no spaces, e.g. key1,key2")
	}
	if cfg.SubmitRPM == 0 {
		warn("SUBMIT_RPM=0; submit rate limiting disabled")
	}

	ok("preflight passed")
}

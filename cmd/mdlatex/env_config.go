package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-mdlatex/internal/config"
)

// envPrefix is shared by every recognized environment variable.
const envPrefix = "MDLATEX_"

// envConfig holds configuration from environment variables.
// Provides container-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string        // MDLATEX_CONFIG: config file name or path
	Addr       string        // MDLATEX_ADDR: listen address
	Timeout    time.Duration // MDLATEX_TIMEOUT: PDF export timeout

	// Tier 2 - Storage
	StoreDir string // MDLATEX_STORE_DIR: document directory
	Watch    *bool  // MDLATEX_WATCH: reload on external changes

	// Tier 3 - Extended
	PageSize    string // MDLATEX_PAGE_SIZE: a4, letter, legal
	Orientation string // MDLATEX_ORIENTATION: portrait, landscape
	Highlight   string // MDLATEX_HIGHLIGHT: chroma style name
	AssetPath   string // MDLATEX_ASSET_PATH: custom asset directory
	Filename    string // MDLATEX_FILENAME: PDF download name
	Workers     int    // MDLATEX_WORKERS: pooled browsers
}

// knownEnvVars lists valid MDLATEX_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"MDLATEX_CONFIG":  true,
	"MDLATEX_ADDR":    true,
	"MDLATEX_TIMEOUT": true,
	// Tier 2 - Storage
	"MDLATEX_STORE_DIR": true,
	"MDLATEX_WATCH":     true,
	// Tier 3 - Extended
	"MDLATEX_PAGE_SIZE":   true,
	"MDLATEX_ORIENTATION": true,
	"MDLATEX_HIGHLIGHT":   true,
	"MDLATEX_ASSET_PATH":  true,
	"MDLATEX_FILENAME":    true,
	"MDLATEX_WORKERS":     true,
	// Read by doctor
	"MDLATEX_CONTAINER": true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers, durations and booleans are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:  os.Getenv("MDLATEX_CONFIG"),
		Addr:        os.Getenv("MDLATEX_ADDR"),
		StoreDir:    os.Getenv("MDLATEX_STORE_DIR"),
		PageSize:    os.Getenv("MDLATEX_PAGE_SIZE"),
		Orientation: os.Getenv("MDLATEX_ORIENTATION"),
		Highlight:   os.Getenv("MDLATEX_HIGHLIGHT"),
		AssetPath:   os.Getenv("MDLATEX_ASSET_PATH"),
		Filename:    os.Getenv("MDLATEX_FILENAME"),
	}

	if timeout := os.Getenv("MDLATEX_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("MDLATEX_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	if watch := os.Getenv("MDLATEX_WATCH"); watch != "" {
		if b, err := strconv.ParseBool(watch); err == nil {
			cfg.Watch = &b
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MDLATEX_* variables.
// Helps catch typos like MDLATEX_STOREDIR instead of MDLATEX_STORE_DIR.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values over the loaded config.
// Priority: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards by the merge functions).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
	if env.Timeout > 0 {
		cfg.Export.Timeout = env.Timeout.String()
	}

	if env.StoreDir != "" {
		cfg.Store.Dir = env.StoreDir
	}
	if env.Watch != nil {
		cfg.Store.Watch = *env.Watch
	}

	if env.PageSize != "" {
		cfg.Page.Size = env.PageSize
	}
	if env.Orientation != "" {
		cfg.Page.Orientation = env.Orientation
	}
	if env.Highlight != "" {
		cfg.Style.Highlight = env.Highlight
	}
	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.Filename != "" {
		cfg.Export.Filename = env.Filename
	}
	if env.Workers > 0 {
		cfg.Export.Workers = env.Workers
	}
}

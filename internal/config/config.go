package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdlatex/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxAddrLength        = 255
	MaxPathLength        = 4096
	MaxFilenameLength    = 255
	MaxPageSizeLength    = 10 // "letter", "a4", "legal"
	MaxOrientationLength = 10 // "portrait", "landscape"
	MaxStyleNameLength   = 50 // chroma style name
	MaxTimeoutLength     = 20 // "30s", "2m"
)

// Layout bounds in pixels.
const (
	DefaultMinWidth     = 200
	DefaultEditorWidth  = 600
	DefaultPreviewWidth = 600
)

// appDirName is the directory under os.UserConfigDir() holding config and data.
const appDirName = "go-mdlatex"

// Config holds all configuration for the editor.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Layout LayoutConfig `yaml:"layout"`
	Page   PageConfig   `yaml:"page"`
	Export ExportConfig `yaml:"export"`
	Style  StyleConfig  `yaml:"style"`
	Assets AssetsConfig `yaml:"assets"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"` // host:port (default: 127.0.0.1:8080)
}

// StoreConfig defines where the document is persisted.
type StoreConfig struct {
	Dir   string `yaml:"dir"`   // Empty = os.UserConfigDir()/go-mdlatex
	Watch bool   `yaml:"watch"` // Reload when the stored document changes on disk
}

// LayoutConfig defines the initial split-pane geometry.
type LayoutConfig struct {
	EditorWidth  float64 `yaml:"editorWidth"`
	PreviewWidth float64 `yaml:"previewWidth"`
	MinWidth     float64 `yaml:"minWidth"`
}

// PageConfig defines PDF and print page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal" (default: "a4")
	Orientation string  `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
	Margin      float64 `yaml:"margin"`      // millimeters (default: 10)
}

// ExportConfig defines PDF export options.
type ExportConfig struct {
	Filename string `yaml:"filename"` // Download name (default: document.pdf)
	Timeout  string `yaml:"timeout"`  // Go duration (default: 30s)
	Workers  int    `yaml:"workers"`  // Browser instances, 0 = auto
}

// StyleConfig defines code highlighting appearance.
type StyleConfig struct {
	Highlight string `yaml:"highlight"` // chroma style name (default: github)
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// Validate checks field lengths and numeric ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if err := validateFieldLength("store.dir", c.Store.Dir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.size", c.Page.Size, MaxPageSizeLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.orientation", c.Page.Orientation, MaxOrientationLength); err != nil {
		return err
	}
	if err := validateFieldLength("export.filename", c.Export.Filename, MaxFilenameLength); err != nil {
		return err
	}
	if err := validateFieldLength("export.timeout", c.Export.Timeout, MaxTimeoutLength); err != nil {
		return err
	}
	if err := validateFieldLength("style.highlight", c.Style.Highlight, MaxStyleNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}

	if strings.ContainsAny(c.Export.Filename, "/\\\"") {
		return fmt.Errorf("%w: export.filename must be a bare file name, got %q", ErrInvalidValue, c.Export.Filename)
	}
	if c.Export.Timeout != "" {
		d, err := time.ParseDuration(c.Export.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: export.timeout must be a positive duration, got %q", ErrInvalidValue, c.Export.Timeout)
		}
	}
	if c.Export.Workers < 0 {
		return fmt.Errorf("%w: export.workers must be >= 0, got %d", ErrInvalidValue, c.Export.Workers)
	}

	if c.Layout.MinWidth < 0 {
		return fmt.Errorf("%w: layout.minWidth must be >= 0, got %.0f", ErrInvalidValue, c.Layout.MinWidth)
	}
	minWidth := c.Layout.MinWidth
	if minWidth == 0 {
		minWidth = DefaultMinWidth
	}
	if c.Layout.EditorWidth != 0 && c.Layout.EditorWidth < minWidth {
		return fmt.Errorf("%w: layout.editorWidth %.0f is below minWidth %.0f", ErrInvalidValue, c.Layout.EditorWidth, minWidth)
	}
	if c.Layout.PreviewWidth != 0 && c.Layout.PreviewWidth < minWidth {
		return fmt.Errorf("%w: layout.previewWidth %.0f is below minWidth %.0f", ErrInvalidValue, c.Layout.PreviewWidth, minWidth)
	}

	return nil
}

// ExportTimeout returns the parsed export timeout, or zero if unset.
// Assumes Validate has passed.
func (c *Config) ExportTimeout() time.Duration {
	if c.Export.Timeout == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.Export.Timeout)
	return d
}

// StoreDir returns the configured store directory, or the default one under
// the user config directory.
func (c *Config) StoreDir() (string, error) {
	if c.Store.Dir != "" {
		return c.Store.Dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: "127.0.0.1:8080"},
		Store:  StoreConfig{Dir: "", Watch: false},
		Layout: LayoutConfig{
			EditorWidth:  DefaultEditorWidth,
			PreviewWidth: DefaultPreviewWidth,
			MinWidth:     DefaultMinWidth,
		},
		Page:   PageConfig{Size: "a4", Orientation: "portrait", Margin: 10},
		Export: ExportConfig{Filename: "document.pdf", Timeout: "30s"},
		Style:  StyleConfig{Highlight: "github"},
		Assets: AssetsConfig{BasePath: ""},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- user-provided config path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yamlutil.Marshal(c)
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-mdlatex/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, appDirName, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// Package config loads the akcfg settings file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/Norgate-AV/akcfg/internal/apps"
	"github.com/Norgate-AV/akcfg/internal/logger"
	"github.com/Norgate-AV/akcfg/internal/scanner"
	"github.com/Norgate-AV/akcfg/internal/timeouts"
)

const (
	// PathEnv overrides the settings file location.
	PathEnv = "AKCFG_CONFIG"

	// RegistryRootEnv overrides registry.root from the settings file.
	RegistryRootEnv = "AKCFG_REGISTRY_ROOT"

	FileName = "config.toml"
)

type Settings struct {
	Registry RegistrySettings `toml:"registry"`
	Log      LogSettings      `toml:"log"`
	UI       UISettings       `toml:"ui"`
	Scan     ScanSettings     `toml:"scan"`
}

type RegistrySettings struct {
	Root string `toml:"root"`
}

type LogSettings struct {
	Dir        string `toml:"dir"`
	MaxSize    int    `toml:"max_size"`
	MaxBackups int    `toml:"max_backups"`
	MaxAge     int    `toml:"max_age"`
	Compress   bool   `toml:"compress"`
}

type UISettings struct {
	IconSize       int `toml:"icon_size"`
	RemovalDelayMs int `toml:"removal_delay_ms"`
	PickDelayMs    int `toml:"pick_delay_ms"`
}

type ScanSettings struct {
	DescriptionCacheSize int `toml:"description_cache_size"`
}

// Default returns the settings used when no file exists.
func Default() Settings {
	return Settings{
		Registry: RegistrySettings{Root: apps.DefaultRoot},
		Log: LogSettings{
			MaxSize:    logger.DefaultLogMaxSize,
			MaxBackups: logger.DefaultLogMaxBackups,
			MaxAge:     logger.DefaultLogMaxAge,
			Compress:   true,
		},
		UI: UISettings{
			IconSize:       apps.DefaultIconSize,
			RemovalDelayMs: int(timeouts.RemovalAnimationDelay / time.Millisecond),
			PickDelayMs:    int(timeouts.PickCountdown / time.Millisecond),
		},
		Scan: ScanSettings{DescriptionCacheSize: scanner.DefaultDescriptionCacheSize},
	}
}

// DefaultPath returns $AKCFG_CONFIG, or config.toml in the roaming
// application data directory.
func DefaultPath() string {
	if p := os.Getenv(PathEnv); p != "" {
		return p
	}

	appData := os.Getenv("APPDATA")
	if appData == "" {
		appData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
	}

	return filepath.Join(appData, logger.AppName, FileName)
}

// Load reads the settings at path, or DefaultPath when path is empty. Keys
// missing from the file keep their defaults and a missing file yields the
// defaults. Environment overrides are applied last.
func Load(path string) (*Settings, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if root := strings.TrimSpace(os.Getenv(RegistryRootEnv)); root != "" {
		cfg.Registry.Root = root
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the settings to path, creating its directory.
func Save(cfg *Settings, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// Encode writes the settings as TOML.
func (c *Settings) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

func (c *Settings) Validate() error {
	if strings.TrimSpace(c.Registry.Root) == "" {
		return errors.New("registry.root must not be empty")
	}

	if c.UI.IconSize < 8 || c.UI.IconSize > 256 {
		return fmt.Errorf("invalid ui.icon_size: %d (must be 8-256)", c.UI.IconSize)
	}

	if c.UI.RemovalDelayMs < 0 || c.UI.RemovalDelayMs > 5000 {
		return fmt.Errorf("invalid ui.removal_delay_ms: %d (must be 0-5000)", c.UI.RemovalDelayMs)
	}

	if c.UI.PickDelayMs < 0 || c.UI.PickDelayMs > 60000 {
		return fmt.Errorf("invalid ui.pick_delay_ms: %d (must be 0-60000)", c.UI.PickDelayMs)
	}

	if c.Scan.DescriptionCacheSize < 1 {
		return fmt.Errorf("invalid scan.description_cache_size: %d (must be at least 1)", c.Scan.DescriptionCacheSize)
	}

	if c.Log.MaxSize < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAge < 0 {
		return errors.New("log rotation limits must not be negative")
	}

	return nil
}

// RemovalDelay is how long a removed entry lingers in the interactive UI.
func (c *Settings) RemovalDelay() time.Duration {
	if c.UI.RemovalDelayMs == 0 {
		return 0
	}

	return timeouts.FromMillis(c.UI.RemovalDelayMs, timeouts.RemovalAnimationDelay)
}

// PickDelay is the countdown before the pick command samples the cursor.
// Zero samples immediately.
func (c *Settings) PickDelay() time.Duration {
	if c.UI.PickDelayMs == 0 {
		return 0
	}

	return timeouts.FromMillis(c.UI.PickDelayMs, timeouts.PickCountdown)
}

// LoggerOptions maps the [log] section onto logger options.
func (c *Settings) LoggerOptions(verbose bool) logger.LoggerOptions {
	return logger.LoggerOptions{
		Verbose:    verbose,
		LogDir:     c.Log.Dir,
		MaxSize:    c.Log.MaxSize,
		MaxBackups: c.Log.MaxBackups,
		MaxAge:     c.Log.MaxAge,
		Compress:   c.Log.Compress,
	}
}

// RepositoryOptions maps the settings onto repository options.
func (c *Settings) RepositoryOptions() apps.RepositoryOptions {
	return apps.RepositoryOptions{
		Root:     c.Registry.Root,
		IconSize: c.UI.IconSize,
	}
}

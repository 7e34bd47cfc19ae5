package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/tapedeck/internal/content"
	"github.com/llehouerou/tapedeck/internal/logging"
)

const appName = "tapedeck"

type Config struct {
	// Listing host (album and track directory listings)
	Content ContentConfig `koanf:"content"`

	// Where audio files are loaded from
	Media MediaConfig `koanf:"media"`

	Player PlayerConfig `koanf:"player"`

	// Local content host (tapedeck serve)
	Server ServerConfig `koanf:"server"`

	Log LogConfig `koanf:"log"`
}

// ContentConfig configures the listing client and its retry policy.
type ContentConfig struct {
	Host     string        `koanf:"host"`     // e.g., "http://localhost:8080"
	Attempts int           `koanf:"attempts"` // listing attempts (default: 3)
	Timeout  time.Duration `koanf:"timeout"`  // per attempt (default: "10s")
	Backoff  time.Duration `koanf:"backoff"`  // linear backoff step (default: "1s")
	Reserved []string      `koanf:"reserved"` // folders never listed as albums (default: ["css", "js"])
}

// MediaConfig locates audio files.
type MediaConfig struct {
	Root       string `koanf:"root"`        // co-located media directory
	MirrorBase string `koanf:"mirror_base"` // remote mirror, tried when the local file fails
	Strategy   string `koanf:"strategy"`    // "auto", "stream" or "buffer" (default: "auto")
}

// PlayerConfig holds playback preferences.
type PlayerConfig struct {
	Volume *float64      `koanf:"volume"` // 0.0-1.0 (default: 1.0)
	Tick   time.Duration `koanf:"tick"`   // progress cadence (default: "16ms")
}

// ServerConfig configures the local content host.
type ServerConfig struct {
	Addr string `koanf:"addr"` // listen address (default: ":8080")
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `koanf:"level"`  // logrus level (default: "info")
	Format string `koanf:"format"` // "text" or "json" (default: "text")
	File   string `koanf:"file"`   // empty logs to stderr
}

// Load reads the standard config files, then explicit if non-empty. Later files override
// earlier ones. A missing explicit file is an error; missing standard files are skipped.
func Load(explicit string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}
	if explicit != "" {
		explicit = expandPath(explicit)
		if _, err := os.Stat(explicit); err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(explicit), toml.Parser()); err != nil {
			return nil, fmt.Errorf("%s: %w", explicit, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Content.Host = strings.TrimSuffix(cfg.Content.Host, "/")
	cfg.Media.MirrorBase = strings.TrimSuffix(cfg.Media.MirrorBase, "/")
	if cfg.Media.Root != "" {
		cfg.Media.Root = expandPath(cfg.Media.Root)
	}
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/tapedeck/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// HasContentHost returns true if a listing host is configured.
func (c *Config) HasContentHost() bool {
	return c.Content.Host != ""
}

// HasMirror returns true if a mirror base URL is configured.
func (c *Config) HasMirror() bool {
	return c.Media.MirrorBase != ""
}

// GetContentConfig returns the listing configuration with defaults applied.
func (c *Config) GetContentConfig() ContentConfig {
	cfg := c.Content
	if cfg.Attempts <= 0 {
		cfg.Attempts = content.DefaultAttempts
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = content.DefaultTimeout
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = content.DefaultBackoff
	}
	if cfg.Reserved == nil {
		cfg.Reserved = append([]string(nil), content.DefaultReserved...)
	}
	return cfg
}

// Policy converts the listing configuration to a content.Policy.
func (c ContentConfig) Policy() content.Policy {
	return content.Policy{Attempts: c.Attempts, Timeout: c.Timeout, Backoff: c.Backoff}
}

// GetMediaConfig returns the media configuration with defaults applied.
func (c *Config) GetMediaConfig() MediaConfig {
	cfg := c.Media
	if cfg.Strategy == "" {
		cfg.Strategy = "auto"
	}
	cfg.Strategy = strings.ToLower(cfg.Strategy)
	return cfg
}

// GetPlayerConfig returns the player configuration with defaults applied.
func (c *Config) GetPlayerConfig() PlayerConfig {
	cfg := c.Player
	if cfg.Volume == nil || *cfg.Volume < 0 || *cfg.Volume > 1 {
		v := 1.0
		cfg.Volume = &v
	}
	if cfg.Tick <= 0 {
		cfg.Tick = 16 * time.Millisecond
	}
	return cfg
}

// GetServerConfig returns the server configuration with defaults applied.
func (c *Config) GetServerConfig() ServerConfig {
	cfg := c.Server
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	return cfg
}

// LogSettings returns the logging settings with defaults applied.
func (c *Config) LogSettings() logging.Settings {
	s := logging.Settings{Level: c.Log.Level, Format: c.Log.Format, File: c.Log.File}
	if s.Level == "" {
		s.Level = "info"
	}
	if s.Format == "" {
		s.Format = "text"
	}
	return s
}

// Validate rejects values that have no sensible default.
func (c *Config) Validate() error {
	var errs []error
	if c.Content.Host != "" {
		if err := validateURL(c.Content.Host); err != nil {
			errs = append(errs, fmt.Errorf("content.host: %w", err))
		}
	}
	if c.Media.MirrorBase != "" {
		if err := validateURL(c.Media.MirrorBase); err != nil {
			errs = append(errs, fmt.Errorf("media.mirror_base: %w", err))
		}
	}
	switch strings.ToLower(c.Media.Strategy) {
	case "", "auto", "stream", "buffer":
	default:
		errs = append(errs, fmt.Errorf("media.strategy: unknown strategy %q", c.Media.Strategy))
	}
	if v := c.Player.Volume; v != nil && (*v < 0 || *v > 1) {
		errs = append(errs, fmt.Errorf("player.volume: %v out of range [0,1]", *v))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q is not an http(s) URL", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}

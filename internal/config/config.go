package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed sample_config.toml
var sampleConfig string

// SampleConfig returns an annotated configuration file with every default.
func SampleConfig() string { return sampleConfig }

// EnvConfig names the variable that overrides the config file location.
const EnvConfig = "REELSTACK_CONFIG"

// EnvMongoURI overrides store.mongo_uri so credentials stay out of files.
const EnvMongoURI = "REELSTACK_MONGO_URI"

// EnvRedisPassword overrides cache.redis_password.
const EnvRedisPassword = "REELSTACK_REDIS_PASSWORD"

// Duration is a time.Duration written as a string such as "30m".
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Compositor holds compositing settings.
type Compositor struct {
	PrimaryTrack  string  `toml:"primary_track"`
	SeekTolerance float64 `toml:"seek_tolerance"`
}

// Store selects where projects are persisted.
type Store struct {
	Backend       string `toml:"backend"`
	Path          string `toml:"path"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Cache selects where fetched sources and rendered artifacts are cached.
type Cache struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	TTL           Duration `toml:"ttl"`
}

// Server holds HTTP API settings.
type Server struct {
	Addr       string   `toml:"addr"`
	SessionTTL Duration `toml:"session_ttl"`
}

// Render holds output defaults.
type Render struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Background string `toml:"background"`
}

// Media controls how layer sources are resolved.
type Media struct {
	BaseDir       string `toml:"base_dir"`
	FetchAttempts int    `toml:"fetch_attempts"`
}

// Config is the full configuration.
type Config struct {
	Compositor Compositor `toml:"compositor"`
	Store      Store      `toml:"store"`
	Cache      Cache      `toml:"cache"`
	Server     Server     `toml:"server"`
	Render     Render     `toml:"render"`
	Media      Media      `toml:"media"`
}

// Load locates, parses and validates the configuration. It also returns the
// resolved file path and whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolvePath(path)
	if err != nil {
		return nil, "", false, err
	}
	if exists {
		if _, err := toml.DecodeFile(resolved, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Store.MongoURI = v
	}
	if v := os.Getenv(EnvRedisPassword); v != "" {
		c.Cache.RedisPassword = v
	}
}

func resolvePath(path string) (string, bool, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	local, err := filepath.Abs(appName + ".toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(local); err == nil && !info.IsDir() {
		return local, true, nil
	}
	return defaultPath, false, nil
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// CacheDir returns $XDG_CACHE_HOME/reelstack or ~/.cache/reelstack.
func CacheDir() (string, error) { return xdgDir("XDG_CACHE_HOME", ".cache") }

// DataDir returns $XDG_DATA_HOME/reelstack or ~/.local/share/reelstack.
func DataDir() (string, error) { return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share")) }

func xdgDir(env, fallback string) (string, error) {
	if base := strings.TrimSpace(os.Getenv(env)); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, fallback, appName), nil
}

// ExpandPath expands a leading ~ and returns an absolute, cleaned path.
func ExpandPath(p string) (string, error) {
	if p == "" {
		return p, nil
	}
	if strings.HasPrefix(p, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if p == "~" {
			p = home
		} else if len(p) > 1 && (p[1] == '/' || p[1] == '\\') {
			p = filepath.Join(home, p[2:])
		}
	}
	abs, err := filepath.Abs(filepath.Clean(p))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", p, err)
	}
	return abs, nil
}

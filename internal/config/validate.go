package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/reelstack/pkg/errors"
	"github.com/matzehuels/reelstack/pkg/render"
)

func (c *Config) normalize() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))

	var err error
	if c.Store.Path == "" && (c.Store.Backend == "file" || c.Store.Backend == "sqlite") {
		if c.Store.Path, err = defaultStorePath(c.Store.Backend); err != nil {
			return err
		}
	}
	if c.Store.Path, err = ExpandPath(c.Store.Path); err != nil {
		return fmt.Errorf("store.path: %w", err)
	}
	if c.Cache.Dir == "" && c.Cache.Backend == "file" {
		if c.Cache.Dir, err = CacheDir(); err != nil {
			return err
		}
	}
	if c.Cache.Dir, err = ExpandPath(c.Cache.Dir); err != nil {
		return fmt.Errorf("cache.dir: %w", err)
	}
	if c.Media.BaseDir, err = ExpandPath(c.Media.BaseDir); err != nil {
		return fmt.Errorf("media.base_dir: %w", err)
	}
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := errors.ValidateTrackID(c.Compositor.PrimaryTrack); err != nil {
		return fmt.Errorf("compositor.primary_track: %w", err)
	}
	if t := c.Compositor.SeekTolerance; t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return invalid("compositor.seek_tolerance must be a non-negative number")
	}

	switch c.Store.Backend {
	case "memory", "file", "sqlite":
	case "mongo":
		if c.Store.MongoURI == "" {
			return invalid("store.mongo_uri is required for the mongo backend")
		}
	default:
		return invalid("store.backend must be one of memory, file, sqlite, mongo (got %q)", c.Store.Backend)
	}

	switch c.Cache.Backend {
	case "null", "file":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return invalid("cache.redis_addr is required for the redis backend")
		}
	default:
		return invalid("cache.backend must be one of null, file, redis (got %q)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration <= 0 {
		return invalid("cache.ttl must be positive")
	}

	if c.Server.Addr == "" {
		return invalid("server.addr is required")
	}
	if c.Server.SessionTTL.Duration <= 0 {
		return invalid("server.session_ttl must be positive")
	}

	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return invalid("render.width and render.height must be positive")
	}
	if _, err := render.ParseColor(c.Render.Background); err != nil {
		return fmt.Errorf("render.background: %w", err)
	}
	if c.Media.FetchAttempts < 1 {
		return invalid("media.fetch_attempts must be at least 1")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidInput, format, args...)
}

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/reelstack/internal/config"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvMongoURI, "")
	t.Setenv(config.EnvRedisPassword, "")
	t.Chdir(home)
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected no config file in temp HOME")
	}
	if want := filepath.Join(home, ".config", "reelstack", "config.toml"); resolved != want {
		t.Errorf("resolved = %q, want %q", resolved, want)
	}
	if cfg.Compositor.PrimaryTrack != "V1" || cfg.Compositor.SeekTolerance != 0.1 {
		t.Errorf("compositor = %+v", cfg.Compositor)
	}
	if want := filepath.Join(home, ".local", "share", "reelstack", "projects"); cfg.Store.Path != want {
		t.Errorf("store path = %q, want %q", cfg.Store.Path, want)
	}
	if want := filepath.Join(home, ".cache", "reelstack"); cfg.Cache.Dir != want {
		t.Errorf("cache dir = %q, want %q", cfg.Cache.Dir, want)
	}
	if cfg.Server.SessionTTL.Duration != 30*time.Minute {
		t.Errorf("session ttl = %v", cfg.Server.SessionTTL)
	}
}

func TestLoadFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "custom.toml")
	data := `
[compositor]
primary_track = "MAIN"

[store]
backend = "sqlite"

[cache]
backend = "redis"
redis_addr = "localhost:6379"
ttl = "1h"

[server]
session_ttl = "5m"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvConfig, path)
	t.Setenv(config.EnvRedisPassword, "secret")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q (exists %v), want %q", resolved, exists, path)
	}
	if cfg.Compositor.PrimaryTrack != "MAIN" {
		t.Errorf("primary track = %q", cfg.Compositor.PrimaryTrack)
	}
	if !strings.HasSuffix(cfg.Store.Path, "projects.db") {
		t.Errorf("sqlite path = %q", cfg.Store.Path)
	}
	if cfg.Cache.TTL.Duration != time.Hour || cfg.Server.SessionTTL.Duration != 5*time.Minute {
		t.Errorf("durations = %v, %v", cfg.Cache.TTL, cfg.Server.SessionTTL)
	}
	if cfg.Cache.RedisPassword != "secret" {
		t.Errorf("redis password not taken from env")
	}
	if cfg.Render.Width != 1920 {
		t.Errorf("unset sections should keep defaults, width = %d", cfg.Render.Width)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"unknown store", func(c *config.Config) { c.Store.Backend = "etcd" }, "store.backend"},
		{"mongo without uri", func(c *config.Config) { c.Store.Backend = "mongo" }, "mongo_uri"},
		{"redis without addr", func(c *config.Config) { c.Cache.Backend = "redis" }, "redis_addr"},
		{"negative tolerance", func(c *config.Config) { c.Compositor.SeekTolerance = -1 }, "seek_tolerance"},
		{"empty track", func(c *config.Config) { c.Compositor.PrimaryTrack = "" }, "primary_track"},
		{"bad background", func(c *config.Config) { c.Render.Background = "teal-ish" }, "render.background"},
		{"zero width", func(c *config.Config) { c.Render.Width = 0 }, "render.width"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.want)
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestSampleConfigMatchesDefaults(t *testing.T) {
	var cfg config.Config
	if _, err := toml.Decode(config.SampleConfig(), &cfg); err != nil {
		t.Fatalf("decode sample: %v", err)
	}
	def := config.Default()
	if cfg.Compositor != def.Compositor {
		t.Errorf("compositor = %+v, want %+v", cfg.Compositor, def.Compositor)
	}
	if cfg.Render != def.Render {
		t.Errorf("render = %+v, want %+v", cfg.Render, def.Render)
	}
	if cfg.Server != def.Server {
		t.Errorf("server = %+v, want %+v", cfg.Server, def.Server)
	}
	if cfg.Cache.TTL != def.Cache.TTL {
		t.Errorf("cache ttl = %v, want %v", cfg.Cache.TTL, def.Cache.TTL)
	}
}

func TestExpandPath(t *testing.T) {
	home := isolate(t)
	got, err := config.ExpandPath("~/media")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, "media"); got != want {
		t.Errorf("ExpandPath(~/media) = %q, want %q", got, want)
	}
	if got, _ := config.ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(\"\") = %q", got)
	}
}

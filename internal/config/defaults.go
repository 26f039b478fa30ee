package config

import (
	"path/filepath"
	"time"
)

const appName = "reelstack"

const (
	defaultPrimaryTrack  = "V1"
	defaultSeekTolerance = 0.1
	defaultStoreBackend  = "file"
	defaultMongoDatabase = "reelstack"
	defaultCacheBackend  = "file"
	defaultCacheTTL      = 7 * 24 * time.Hour
	defaultServerAddr    = "127.0.0.1:8740"
	defaultSessionTTL    = 30 * time.Minute
	defaultWidth         = 1920
	defaultHeight        = 1080
	defaultBackground    = "#000000"
	defaultFetchAttempts = 3
)

// Default returns a Config populated with defaults. Directory fields are
// left empty and resolved against the XDG directories on Load.
func Default() Config {
	return Config{
		Compositor: Compositor{
			PrimaryTrack:  defaultPrimaryTrack,
			SeekTolerance: defaultSeekTolerance,
		},
		Store: Store{
			Backend:       defaultStoreBackend,
			MongoDatabase: defaultMongoDatabase,
		},
		Cache: Cache{
			Backend: defaultCacheBackend,
			TTL:     Duration{defaultCacheTTL},
		},
		Server: Server{
			Addr:       defaultServerAddr,
			SessionTTL: Duration{defaultSessionTTL},
		},
		Render: Render{
			Width:      defaultWidth,
			Height:     defaultHeight,
			Background: defaultBackground,
		},
		Media: Media{
			FetchAttempts: defaultFetchAttempts,
		},
	}
}

func defaultStorePath(backend string) (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if backend == "sqlite" {
		return filepath.Join(dir, "projects.db"), nil
	}
	return filepath.Join(dir, "projects"), nil
}

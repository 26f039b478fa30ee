package project

import (
	"context"
	"path/filepath"

	"github.com/matzehuels/reelstack/pkg/errors"
)

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// Options selects and configures a store backend.
type Options struct {
	Backend string

	// Path is the project directory for the file backend and the database
	// file for sqlite.
	Path string

	MongoURI      string
	MongoDatabase string
}

// Open returns the configured store wrapped with observability hooks.
func Open(ctx context.Context, opts Options) (Store, error) {
	var (
		s   Store
		err error
	)
	switch opts.Backend {
	case BackendMemory:
		s = NewMemoryStore()
	case "", BackendFile:
		s, err = NewFileStore(opts.Path)
	case BackendSQLite:
		path := opts.Path
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "projects.db")
		}
		s, err = OpenSQLite(ctx, path)
	case BackendMongo:
		s, err = OpenMongo(ctx, MongoConfig{URI: opts.MongoURI, Database: opts.MongoDatabase})
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown store backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	backend := opts.Backend
	if backend == "" {
		backend = BackendFile
	}
	return Observe(s, backend), nil
}

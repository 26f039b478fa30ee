package project

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/matzehuels/reelstack/pkg/errors"
)

// FileStore keeps each project in <dir>/<id>.json. Writes take an exclusive
// lock on <dir>/.lock so that an editor and a render in another process
// never interleave.
type FileStore struct {
	dir  string
	lock *flock.Flock

	// LockTimeout bounds how long Put and Delete wait for the lock.
	LockTimeout time.Duration
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create project dir: %w", err)
	}
	return &FileStore{
		dir:         dir,
		lock:        flock.New(filepath.Join(dir, ".lock")),
		LockTimeout: 5 * time.Second,
	}, nil
}

// Dir returns the project directory.
func (s *FileStore) Dir() string { return s.dir }

// Path returns the file that holds project id.
func (s *FileStore) Path(id string) string { return filepath.Join(s.dir, id+".json") }

func (s *FileStore) Get(_ context.Context, id string) (*Project, error) {
	if err := errors.ValidateProjectID(id); err != nil {
		return nil, err
	}
	return ReadFile(s.Path(id))
}

func (s *FileStore) Put(ctx context.Context, p *Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.withLock(ctx, func() error {
		p.UpdatedAt = time.Now().UTC()
		return WriteFile(s.Path(p.ID), p)
	})
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateProjectID(id); err != nil {
		return err
	}
	return s.withLock(ctx, func() error {
		err := os.Remove(s.Path(id))
		if os.IsNotExist(err) {
			return notFound(id)
		}
		return err
	})
}

func (s *FileStore) List(context.Context) ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read project dir: %w", err)
	}
	var out []Summary
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		p, err := ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		out = append(out, summarize(p))
	}
	sortSummaries(out)
	return out, nil
}

func (s *FileStore) Close() error { return s.lock.Unlock() }

func (s *FileStore) withLock(ctx context.Context, fn func() error) error {
	lctx, cancel := context.WithTimeout(ctx, s.LockTimeout)
	defer cancel()
	ok, err := s.lock.TryLockContext(lctx, 50*time.Millisecond)
	if err != nil || !ok {
		return errors.Wrap(errors.ErrCodeStoreLocked, err, "project store %s is locked", s.dir)
	}
	defer func() { _ = s.lock.Unlock() }()
	return fn()
}

// ReadFile loads a project document from path. The project ID defaults to
// the file name without extension.
func ReadFile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, notFound(strings.TrimSuffix(filepath.Base(path), ".json"))
	}
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	if p.ID == "" {
		p.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if p.Clips == nil {
		p.Clips = []Clip{}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// WriteFile writes p to path atomically.
func WriteFile(path string, p *Project) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write project: %w", err)
	}
	return os.Rename(tmp, path)
}

var _ Store = (*FileStore)(nil)

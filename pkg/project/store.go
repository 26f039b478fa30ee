package project

import (
	"context"
	"time"

	"github.com/matzehuels/reelstack/pkg/errors"
	"github.com/matzehuels/reelstack/pkg/observability"
)

// Store persists projects.
type Store interface {
	// Get returns the project or a PROJECT_NOT_FOUND error.
	Get(ctx context.Context, id string) (*Project, error)

	// Put creates or replaces the project.
	Put(ctx context.Context, p *Project) error

	// Delete removes the project. Deleting a missing project is an error.
	Delete(ctx context.Context, id string) error

	// List returns summaries of every project ordered by name.
	List(ctx context.Context) ([]Summary, error)

	Close() error
}

// Summary is the listing form of a project.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Clips     int       `json:"clips" bson:"-"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func summarize(p *Project) Summary {
	return Summary{ID: p.ID, Name: p.Name, Clips: len(p.Clips), UpdatedAt: p.UpdatedAt}
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeProjectNotFound, "project %q not found", id)
}

// observed wraps a Store and reports loads and saves to the store hooks.
type observed struct {
	Store
	backend string
}

// Observe returns s with [observability.StoreHooks] reporting under backend.
func Observe(s Store, backend string) Store { return &observed{Store: s, backend: backend} }

func (o *observed) Get(ctx context.Context, id string) (*Project, error) {
	start := time.Now()
	p, err := o.Store.Get(ctx, id)
	observability.Store().OnLoad(ctx, o.backend, id, time.Since(start), err)
	return p, err
}

func (o *observed) Put(ctx context.Context, p *Project) error {
	start := time.Now()
	err := o.Store.Put(ctx, p)
	observability.Store().OnSave(ctx, o.backend, p.ID, time.Since(start), err)
	return err
}

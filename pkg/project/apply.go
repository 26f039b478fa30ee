package project

import (
	"context"
	"sync"

	"github.com/enriquebris/goconcurrentqueue"

	"github.com/matzehuels/reelstack/pkg/errors"
	"github.com/matzehuels/reelstack/pkg/observability"
	"github.com/matzehuels/reelstack/pkg/timeline"
)

// Apply mutates p according to req, which must be a [timeline.MoveRequest]
// or a [timeline.SelectRequest]. Moves replace the clip's translate
// position and keep every other transform field.
func Apply(p *Project, req any) error {
	switch r := req.(type) {
	case timeline.MoveRequest:
		c, ok := p.Clip(r.LayerID)
		if !ok {
			return errors.New(errors.ErrCodeLayerNotFound, "move: layer %q not found", r.LayerID)
		}
		c.Transform = c.Transform.WithPosition(r.X, r.Y)
	case timeline.SelectRequest:
		if _, ok := p.Clip(r.LayerID); !ok {
			return errors.New(errors.ErrCodeLayerNotFound, "select: layer %q not found", r.LayerID)
		}
		p.SelectedLayerID = r.LayerID
	default:
		return errors.New(errors.ErrCodeInvalidEvent, "unknown request %T", req)
	}
	return nil
}

// Applier is a [timeline.Emitter] that queues requests first-in first-out
// until Flush applies them. It is safe for concurrent use.
type Applier struct {
	mu    sync.Mutex
	queue *goconcurrentqueue.FIFO
}

// NewApplier returns an empty Applier.
func NewApplier() *Applier {
	return &Applier{queue: goconcurrentqueue.NewFIFO()}
}

// Enqueue on an unbounded FIFO only fails for a locked queue, which Applier
// never locks.

func (a *Applier) OnLayerMove(layerID string, x, y float64) {
	_ = a.queue.Enqueue(timeline.MoveRequest{LayerID: layerID, X: x, Y: y})
}

func (a *Applier) OnLayerSelect(layerID string) {
	_ = a.queue.Enqueue(timeline.SelectRequest{LayerID: layerID})
}

// Pending returns the number of queued requests.
func (a *Applier) Pending() int { return a.queue.GetLen() }

// Flush applies every queued request to p in arrival order and returns how
// many were applied. Requests for unknown layers are dropped and the first
// such error is returned after the queue is drained.
func (a *Applier) Flush(ctx context.Context, p *Project) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	applied, err := a.apply(ctx, p, a.drain())
	return len(applied), err
}

// FlushTo loads the project from s, flushes into it and saves it back. The
// project is not saved when nothing was applied. When the save fails the
// applied requests go back to the head of the queue so the next flush
// retries them.
func (a *Applier) FlushTo(ctx context.Context, s Store, projectID string) (*Project, error) {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	applied, applyErr := a.apply(ctx, p, a.drain())
	if len(applied) > 0 {
		if err := s.Put(ctx, p); err != nil {
			a.requeue(applied)
			return nil, err
		}
	}
	return p, applyErr
}

func (a *Applier) drain() []any {
	var reqs []any
	for a.queue.GetLen() > 0 {
		req, err := a.queue.Dequeue()
		if err != nil {
			break
		}
		reqs = append(reqs, req)
	}
	return reqs
}

// requeue puts reqs ahead of anything enqueued since they were drained.
func (a *Applier) requeue(reqs []any) {
	later := a.drain()
	for _, req := range append(reqs, later...) {
		_ = a.queue.Enqueue(req)
	}
}

func (a *Applier) apply(ctx context.Context, p *Project, reqs []any) ([]any, error) {
	var (
		applied  []any
		firstErr error
	)
	for _, req := range reqs {
		if err := Apply(p, req); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		applied = append(applied, req)
		observability.Store().OnApply(ctx, p.ID, requestKind(req))
	}
	return applied, firstErr
}

func requestKind(req any) string {
	switch req.(type) {
	case timeline.MoveRequest:
		return "move"
	case timeline.SelectRequest:
		return "select"
	}
	return "unknown"
}

var _ timeline.Emitter = (*Applier)(nil)

package errors_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"github.com/matzehuels/reelstack/pkg/errors"
	"github.com/matzehuels/reelstack/pkg/project"
	"github.com/matzehuels/reelstack/pkg/timeline"
)

func sampleProject() *project.Project {
	p := project.New("intro")
	p.Clips = append(p.Clips, project.Clip{
		ClipLayer: timeline.ClipLayer{ID: "A", TrackID: "V1", MediaKind: timeline.KindVideo, SourceURL: "a.mp4"},
	})
	return p
}

func TestDomainCodes(t *testing.T) {
	ctx := context.Background()
	badJSON := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(badJSON, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		run  func() error
		want errors.Code
	}{
		{"move on missing layer", func() error {
			return project.Apply(sampleProject(), timeline.MoveRequest{LayerID: "gone", X: 1, Y: 2})
		}, errors.ErrCodeLayerNotFound},
		{"select on missing layer", func() error {
			return project.Apply(sampleProject(), timeline.SelectRequest{LayerID: "gone"})
		}, errors.ErrCodeLayerNotFound},
		{"unknown request", func() error {
			return project.Apply(sampleProject(), "bogus")
		}, errors.ErrCodeInvalidEvent},
		{"duplicate clip", func() error {
			p := sampleProject()
			_, err := p.AddClip(p.Clips[0])
			return err
		}, errors.ErrCodeInvalidLayer},
		{"remove missing clip", func() error {
			return sampleProject().RemoveClip("gone")
		}, errors.ErrCodeLayerNotFound},
		{"unsupported backend", func() error {
			_, err := project.Open(ctx, project.Options{Backend: "etcd"})
			return err
		}, errors.ErrCodeUnsupported},
		{"missing project", func() error {
			_, err := project.NewMemoryStore().Get(ctx, "nope")
			return err
		}, errors.ErrCodeProjectNotFound},
		{"unparseable project file", func() error {
			_, err := project.ReadFile(badJSON)
			return err
		}, errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.want {
				t.Errorf("GetCode = %q, want %q (%v)", got, tt.want, err)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Is(%v, %q) = false", err, tt.want)
			}
		})
	}
}

func TestStoreLockedWrapsCause(t *testing.T) {
	dir := t.TempDir()
	store, err := project.NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	store.LockTimeout = 100 * time.Millisecond

	holder := flock.New(filepath.Join(dir, ".lock"))
	if err := holder.Lock(); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = holder.Unlock() }()

	err = store.Put(context.Background(), project.New("x"))
	if got := errors.GetCode(err); got != errors.ErrCodeStoreLocked {
		t.Fatalf("GetCode = %q, want STORE_LOCKED (%v)", got, err)
	}
	if !stderrors.Is(err, context.DeadlineExceeded) {
		t.Errorf("cause not preserved: %v", err)
	}
	if msg := errors.UserMessage(err); !strings.Contains(msg, "locked") || strings.Contains(msg, "STORE_LOCKED") {
		t.Errorf("UserMessage = %q", msg)
	}
}

func TestUserMessageOnWrappedLayerError(t *testing.T) {
	cause := errors.ValidateTrackID("")
	err := errors.Wrap(errors.ErrCodeInvalidLayer, cause, "layer %s: bad track", "A")

	if got := errors.UserMessage(err); got != "layer A: bad track" {
		t.Errorf("UserMessage = %q", got)
	}
	full := err.Error()
	if !strings.HasPrefix(full, "INVALID_LAYER: layer A: bad track: ") || !strings.Contains(full, cause.Error()) {
		t.Errorf("Error() = %q", full)
	}

	// Outer wrapping keeps the domain code reachable.
	outer := fmt.Errorf("save: %w", err)
	if !errors.Is(outer, errors.ErrCodeInvalidLayer) || errors.GetCode(outer) != errors.ErrCodeInvalidLayer {
		t.Errorf("code lost through fmt wrapping: %v", outer)
	}
	if errors.UserMessage(stderrors.New("plain")) != "plain" {
		t.Error("UserMessage on plain error should return Error()")
	}
}

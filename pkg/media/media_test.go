package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/reelstack/pkg/cache"
	"github.com/matzehuels/reelstack/pkg/errors"
	"github.com/matzehuels/reelstack/pkg/timeline"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestElementClock(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClock{t: time.Unix(0, 0)}
	e := NewElement("a.mp4", WithNow(fc.now), WithDuration(10))

	e.SetCurrentTime(2)
	fc.advance(time.Second)
	if got := e.CurrentTime(); got != 2 {
		t.Errorf("paused time = %v, want 2", got)
	}

	if err := e.Play(ctx); err != nil {
		t.Fatalf("Play: %v", err)
	}
	fc.advance(1500 * time.Millisecond)
	if got := e.CurrentTime(); got != 3.5 {
		t.Errorf("playing time = %v, want 3.5", got)
	}

	e.Pause()
	fc.advance(time.Second)
	if got := e.CurrentTime(); got != 3.5 || e.Playing() {
		t.Errorf("after pause time = %v playing = %v", got, e.Playing())
	}

	e.SetCurrentTime(50)
	if got := e.CurrentTime(); got != 10 {
		t.Errorf("clamped time = %v, want 10", got)
	}
	if e.Seeks() != 2 {
		t.Errorf("Seeks = %d, want 2", e.Seeks())
	}
}

func TestElementAutoplayBlocked(t *testing.T) {
	ctx := context.Background()
	e := NewElement("a.mp4", WithAutoplayBlocked())
	if err := e.Play(ctx); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Fatalf("Play err = %v, want blocked", err)
	}
	if e.Playing() {
		t.Error("blocked element is playing")
	}
	e.AllowPlayback()
	if err := e.Play(ctx); err != nil || !e.Playing() {
		t.Errorf("Play after AllowPlayback: %v", err)
	}
}

func TestElementMarkReadyOnce(t *testing.T) {
	e := NewElement("a.mp4")
	if !e.MarkReady() {
		t.Error("first MarkReady returned false")
	}
	if e.MarkReady() || !e.Ready() {
		t.Error("second MarkReady returned true")
	}
}

func TestLibrary(t *testing.T) {
	lib := NewLibrary()
	a := timeline.ClipLayer{ID: "A", SourceURL: "one.mp4"}
	if lib.Get(a) != lib.Get(a) {
		t.Error("same layer got different elements")
	}
	a.SourceURL = "two.mp4"
	if e := lib.Get(a); e.Source() != "two.mp4" {
		t.Errorf("source = %s", e.Source())
	}
	if lib.Len() != 2 {
		t.Errorf("Len = %d, want 2", lib.Len())
	}
}

func TestResolverLocalFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "logo.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewResolver(WithBaseDir(dir))
	ctx := context.Background()

	for _, src := range []string{"logo.png", filepath.Join(dir, "logo.png"), "file://" + filepath.Join(dir, "logo.png")} {
		data, err := r.Open(ctx, src)
		if err != nil || string(data) != "png" {
			t.Errorf("Open(%s) = %q, %v", src, data, err)
		}
	}
	if _, err := r.Open(ctx, "missing.png"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing file err = %v", err)
	}
	if _, err := r.Open(ctx, "ftp://host/x"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ftp err = %v", err)
	}
}

func TestResolverFetchRetriesAndCaches(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("remote"))
	}))
	defer srv.Close()

	fc, _ := cache.NewFileCache(t.TempDir())
	r := NewResolver(WithCache(fc, nil), WithRetry(3, time.Millisecond))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		data, err := r.Open(ctx, srv.URL+"/a.png")
		if err != nil || string(data) != "remote" {
			t.Fatalf("Open #%d = %q, %v", i, data, err)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server calls = %d, want 2 (one retry, then cached)", got)
	}
}

func TestResolverFetchNotFound(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	r := NewResolver(WithRetry(3, time.Millisecond))
	if _, err := r.Open(context.Background(), srv.URL+"/x"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
	if calls.Load() != 1 {
		t.Errorf("404 retried %d times", calls.Load())
	}
}

package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/reelstack/pkg/cache"
	"github.com/matzehuels/reelstack/pkg/errors"
	"github.com/matzehuels/reelstack/pkg/observability"
)

// maxSourceBytes bounds a single fetched source.
const maxSourceBytes = 64 << 20

// Resolver loads the bytes behind a layer's SourceURL.
type Resolver struct {
	cache    cache.Cache
	keyer    cache.Keyer
	client   *http.Client
	logger   *log.Logger
	baseDir  string
	attempts int
	delay    time.Duration
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithCache stores fetched remote sources in c.
func WithCache(c cache.Cache, k cache.Keyer) ResolverOption {
	return func(r *Resolver) {
		r.cache = c
		if k != nil {
			r.keyer = k
		}
	}
}

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) ResolverOption { return func(r *Resolver) { r.client = c } }

// WithBaseDir resolves relative paths against dir, usually the directory of
// the project file.
func WithBaseDir(dir string) ResolverOption { return func(r *Resolver) { r.baseDir = dir } }

// WithRetry sets the attempts and initial backoff for remote fetches.
func WithRetry(attempts int, delay time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.attempts = attempts
		r.delay = delay
	}
}

// WithResolverLogger sets the logger.
func WithResolverLogger(l *log.Logger) ResolverOption { return func(r *Resolver) { r.logger = l } }

// NewResolver returns a Resolver with no cache and a 30 second HTTP timeout.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		cache:    cache.NewNullCache(),
		keyer:    cache.NewDefaultKeyer(),
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   log.Default(),
		attempts: 3,
		delay:    time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open returns the content of source.
func (r *Resolver) Open(ctx context.Context, source string) ([]byte, error) {
	if err := errors.ValidateSourceURL(source); err != nil {
		return nil, err
	}
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return r.fetch(ctx, source)
	case strings.HasPrefix(source, "file://"):
		u, err := url.Parse(source)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", source)
		}
		return r.readFile(u.Path)
	default:
		return r.readFile(source)
	}
}

func (r *Resolver) readFile(path string) ([]byte, error) {
	if !filepath.IsAbs(path) && r.baseDir != "" {
		path = filepath.Join(r.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "media source %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	return data, nil
}

func (r *Resolver) fetch(ctx context.Context, source string) ([]byte, error) {
	key := r.keyer.SourceKey(source)
	if data, ok, err := r.cache.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, "source")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "source")

	var data []byte
	err := cache.Retry(ctx, r.attempts, r.delay, func() error {
		var err error
		data, err = r.get(ctx, source)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, errors.ErrCodeNotFound):
			return nil, err
		case ctx.Err() != nil:
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s", source)
		default:
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", source)
		}
	}

	if err := r.cache.Set(ctx, key, data, cache.TTLSource); err != nil {
		r.logger.Warn("cache source", "url", source, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "source", len(data))
	}
	return data, nil
}

func (r *Resolver) get(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "request %s", source)
	}
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		return nil, cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.ErrCodeNotFound, "media source %s not found", source)
	case resp.StatusCode >= 500, resp.StatusCode == http.StatusTooManyRequests:
		return nil, cache.Retryable(fmt.Errorf("%w: status %d", cache.ErrNetwork, resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", cache.ErrNetwork, resp.StatusCode)
	}

	r.logger.Debug("fetched media source", "url", source)
	return io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes))
}

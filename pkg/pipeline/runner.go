package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/reelstack/pkg/cache"
	"github.com/matzehuels/reelstack/pkg/compositor"
	"github.com/matzehuels/reelstack/pkg/compositor/drag"
	"github.com/matzehuels/reelstack/pkg/observability"
	renderjson "github.com/matzehuels/reelstack/pkg/render/json"
	"github.com/matzehuels/reelstack/pkg/render/png"
	"github.com/matzehuels/reelstack/pkg/timeline"
)

// Runner executes the pipeline with artifact caching. It keeps no per-run
// state, so one Runner may serve concurrent runs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Loader supplies image bytes to the PNG sink. Optional.
	Loader png.Loader

	// ArtifactTTL overrides cache.TTLArtifact when positive.
	ArtifactTTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// selects the default key layout.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute composes the project at the playhead and renders every format.
func (r *Runner) Execute(ctx context.Context, opts Options) (result *Result, err error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Project.ID, opts.Formats)
	defer func() {
		observability.Pipeline().OnRenderComplete(ctx, opts.Project.ID, opts.Formats, time.Since(start), err)
	}()

	result = &Result{}

	composeStart := time.Now()
	result.Frame = r.Compose(ctx, opts)
	result.Stats.ComposeTime = time.Since(composeStart)
	result.Stats.LayerCount = result.Frame.Count

	result.FrameHash, err = cache.HashJSON(renderjson.Build(result.Frame, renderjson.WithCanvas(opts.Canvas)))
	if err != nil {
		return nil, fmt.Errorf("hash frame: %w", err)
	}

	r.Logger.Info("composed frame",
		"project", opts.Project.ID,
		"playhead", opts.At(),
		"layers", result.Frame.Count,
		"base", result.Frame.BaseLayerID,
		"duration", result.Stats.ComposeTime)

	renderStart := time.Now()
	result.Artifacts, result.CacheInfo, err = r.RenderWithCacheInfo(ctx, result.Frame, result.FrameHash, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", len(result.CacheInfo.Hits),
		"duration", result.Stats.RenderTime)
	return result, nil
}

// Compose runs a fresh compositor over the project at the run's playhead.
// Nothing is bound to the clock and no interaction is possible, so the
// frame depends only on the project.
func (r *Runner) Compose(ctx context.Context, opts Options) compositor.Frame {
	c := compositor.New(drag.NewWindow(), timeline.EmitterFuncs{},
		compositor.WithPrimaryTrack(opts.PrimaryTrack),
		compositor.WithLogger(opts.Logger))
	defer c.Close()
	return c.Render(ctx, opts.Input())
}

// RenderWithCacheInfo renders each format, serving cached artifacts where
// possible, and reports which formats hit the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, f compositor.Frame, frameHash string, opts Options) (map[string][]byte, CacheInfo, error) {
	var info CacheInfo
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(frameHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[format] = data
				info.Hits = append(info.Hits, format)
				observability.Cache().OnCacheHit(ctx, "artifact")
				continue
			}
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")

		data, err := RenderFormat(ctx, f, format, opts, r.Loader)
		if err != nil {
			return nil, info, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
		info.Misses = append(info.Misses, format)

		if err := r.Cache.Set(ctx, key, data, r.artifactTTL()); err != nil {
			r.Logger.Warn("cache artifact", "format", format, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, info, nil
}

func (r *Runner) artifactTTL() time.Duration {
	if r.ArtifactTTL > 0 {
		return r.ArtifactTTL
	}
	return cache.TTLArtifact
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

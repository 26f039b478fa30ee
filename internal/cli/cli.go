// Package cli implements the reelstack command-line interface.
//
// Commands:
//   - render: compose a project at a playhead and write svg, png, json or dot
//   - inspect: print the composed layer stack as a table
//   - edit: interactive terminal editor with mouse dragging
//   - serve: run the HTTP API
//   - project: create and edit stored projects
//   - cache, config, completion: housekeeping
//
// All commands accept --verbose (-v) for debug logging and --config to
// select a configuration file.
package cli

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/reelstack/internal/config"
	"github.com/matzehuels/reelstack/pkg/buildinfo"
	"github.com/matzehuels/reelstack/pkg/cache"
	"github.com/matzehuels/reelstack/pkg/media"
	"github.com/matzehuels/reelstack/pkg/pipeline"
	"github.com/matzehuels/reelstack/pkg/project"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "reelstack"

	// fetchRetryDelay is the initial backoff between source fetch attempts.
	fetchRetryDelay = 500 * time.Millisecond
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any command runs.
	Config *config.Config

	configPath string

	// configFile is the resolved config location and whether it exists.
	configFile   string
	configExists bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Reelstack composes multi-track media timelines",
		Long:         `Reelstack stacks the layers of a media timeline into a single frame, keeps the primary video in sync with the playhead, and lets overlays be dragged into place.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $REELSTACK_CONFIG or ~/.config/reelstack/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.projectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig(cmd *cobra.Command) error {
	cfg, path, exists, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.configFile, c.configExists = path, exists
	if exists {
		c.Logger.Debug("loaded config", "path", path)
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// config returns the loaded configuration, or defaults when commands run
// without the root pre-run (tests).
func (c *CLI) config() *config.Config {
	if c.Config == nil {
		cfg := config.Default()
		c.Config = &cfg
	}
	return c.Config
}

// =============================================================================
// Factories
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cc, nil, c.Logger)
	runner.Loader = c.newResolver(cc)
	runner.ArtifactTTL = c.config().Cache.TTL.Duration
	return runner, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.config().Cache
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case "redis":
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   appName + ":",
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	case "file":
		if cfg.Dir == "" {
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	default:
		return cache.NewNullCache(), nil
	}
}

func (c *CLI) newResolver(cc cache.Cache) *media.Resolver {
	cfg := c.config().Media
	return media.NewResolver(
		media.WithCache(cc, nil),
		media.WithBaseDir(cfg.BaseDir),
		media.WithRetry(cfg.FetchAttempts, fetchRetryDelay),
		media.WithResolverLogger(c.Logger),
	)
}

// openStore opens the configured project store.
func (c *CLI) openStore(ctx context.Context) (project.Store, error) {
	cfg := c.config().Store
	return project.Open(ctx, project.Options{
		Backend:       cfg.Backend,
		Path:          cfg.Path,
		MongoURI:      cfg.MongoURI,
		MongoDatabase: cfg.MongoDatabase,
	})
}

// loadProject reads a project from a JSON file when ref names one, and
// from the store otherwise. The returned store is nil for files.
func (c *CLI) loadProject(ctx context.Context, ref string) (*project.Project, project.Store, error) {
	if looksLikeFile(ref) {
		p, err := project.ReadFile(ref)
		return p, nil, err
	}
	store, err := c.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	p, err := store.Get(ctx, ref)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return p, store, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// setCLIDefaults applies configured defaults to pipeline options.
func (c *CLI) setCLIDefaults(opts *pipeline.Options) {
	cfg := c.config()
	opts.PrimaryTrack = cfg.Compositor.PrimaryTrack
	opts.Canvas.Background = cfg.Render.Background
	opts.Logger = c.Logger
}

func looksLikeFile(ref string) bool {
	return strings.HasSuffix(strings.ToLower(ref), ".json") || strings.ContainsAny(ref, `/\`)
}

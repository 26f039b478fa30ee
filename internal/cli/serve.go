package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/matzehuels/reelstack/pkg/compositor"
	"github.com/matzehuels/reelstack/pkg/render"
	"github.com/matzehuels/reelstack/pkg/server"
	"github.com/matzehuels/reelstack/pkg/session"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API for projects, frame rendering and live editing sessions.

Each session owns its own compositor and media clock, so concurrent editors
never see each other's drags. Idle sessions expire after server.session_ttl.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.config().Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	cfg := c.config()

	store, err := c.openStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	sessions := session.NewManager(store,
		session.WithTTL(cfg.Server.SessionTTL.Duration),
		session.WithLogger(c.Logger),
		session.WithCompositorOptions(
			compositor.WithPrimaryTrack(cfg.Compositor.PrimaryTrack),
			compositor.WithTolerance(cfg.Compositor.SeekTolerance),
		))

	srv := server.New(server.Config{
		Store:    store,
		Sessions: sessions,
		Runner:   runner,
		Logger:   c.Logger,
		Canvas: render.Canvas{
			Width:      cfg.Render.Width,
			Height:     cfg.Render.Height,
			Background: cfg.Render.Background,
		},
		PrimaryTrack: cfg.Compositor.PrimaryTrack,
	})

	printInfo("Serving on %s", StyleHighlight.Render("http://"+addr))
	printDetail("Store: %s  Cache: %s", cfg.Store.Backend, cfg.Cache.Backend)
	prog := newProgress(loggerFromContext(ctx))
	if err := srv.ListenAndServe(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	prog.done("server stopped")
	return nil
}

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/launchdash/internal/engine"
	"github.com/roach88/launchdash/internal/server"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	DatasetOptions
	Addr string

	// SessionIDs allows overriding the session ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	SessionIDs engine.SessionIDGenerator
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over local HTTP",
		Long: `Load the dataset and serve the dashboard.

The dataset is loaded once at startup; any load error aborts before the
listener starts. Each browser tab gets its own session.

Example:
  launchdash serve --data spacex_launch_dash.csv
  launchdash serve --config launchdash.yaml --addr :8050 --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default from config, 127.0.0.1:8050)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}

	d, err := loadDashboard(parentCtx, opts.RootOptions, &opts.DatasetOptions, cmd)
	if err != nil {
		return startupError(formatter, err)
	}

	eng, err := engine.New(d.Table, engine.DefaultSelection(d.Slider), opts.SessionIDs)
	if err != nil {
		return startupError(formatter, err)
	}
	registry := engine.NewRegistry(eng, d.Config.SessionIdle)

	srv, err := server.New(server.Config{
		Address:   d.Config.Addr,
		Registry:  registry,
		Selector:  d.Selector,
		Slider:    d.Slider,
		Title:     d.Config.Title,
		ChartSize: d.Config.Chart,
	})
	if err != nil {
		return startupError(formatter, err)
	}

	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})
	g.Go(func() error {
		watchSignals(gctx, cancel)
		return nil
	})

	slog.Info("dashboard starting",
		"addr", d.Config.Addr,
		"dataset", d.Config.Dataset,
		"rows", d.Table.Len(),
		"sites", len(d.Table.Sites()),
		"slider", d.Slider.Full().String(),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Dashboard on http://%s\n", d.Config.Addr)
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl-C to stop.")

	if err := g.Wait(); err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitFailure, "server error", err)
	}

	slog.Info("dashboard stopped gracefully")
	return nil
}

// watchSignals cancels on SIGINT or SIGTERM and returns when ctx is done.
func watchSignals(ctx context.Context, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	select {
	case sig := <-sigChan:
		slog.Info("received signal, shutting down", "signal", sig)
		cancel()
	case <-ctx.Done():
	}
}

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/SravanthiSinha/SmartClip/handlers"
	"github.com/SravanthiSinha/SmartClip/internal/health"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.serve(cmd.Context())
		},
	}
	return cmd
}

func (rt *runtime) serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	if err := rt.cfg.RequireCredentials(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := rt.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ded, closeDedupe := rt.openDeduper(ctx)
	defer closeDedupe()

	svc := rt.newServices(st, ded)
	checker := health.NewChecker(st)
	h := handlers.NewApplicationHandler(svc.videos, svc.clips, checker, rt.log, rt.cfg.Mux.WebhookSecret)
	app := handlers.NewApp(h, handlers.AppConfig{CORSOrigins: rt.cfg.CORSOrigins})

	g, gctx := errgroup.WithContext(ctx)
	if rt.cfg.GRPCHealthAddr != "" {
		gs, err := health.NewGRPCServer(rt.cfg.GRPCHealthAddr, checker, rt.log)
		if err != nil {
			return err
		}
		g.Go(func() error { return gs.Serve(gctx) })
	}
	g.Go(func() error {
		rt.log.Infof("Starting SmartClip API on %s", rt.cfg.Addr())
		return app.Listen(rt.cfg.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		rt.log.Info("Shutting down SmartClip API")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	rt.log.Info("SmartClip API shut down gracefully")
	return nil
}

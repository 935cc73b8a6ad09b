// Package health reports whether the service can reach its store, over HTTP
// through Checker and over gRPC through the standard health service.
package health

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name registered with the gRPC health service.
const ServiceName = "smartclip"

const (
	defaultInterval = 15 * time.Second
	pingTimeout     = 3 * time.Second
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker pings the store with a short timeout.
type Checker struct {
	store Pinger
}

func NewChecker(store Pinger) *Checker {
	return &Checker{store: store}
}

func (c *Checker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("store unreachable: %w", err)
	}
	return nil
}

// GRPCServer serves grpc.health.v1.Health and keeps its status in step with
// the Checker.
type GRPCServer struct {
	srv      *grpc.Server
	hs       *health.Server
	lis      net.Listener
	checker  *Checker
	interval time.Duration
	log      *logrus.Logger
}

func NewGRPCServer(addr string, checker *Checker, log *logrus.Logger) (*GRPCServer, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	return &GRPCServer{
		srv:      srv,
		hs:       hs,
		lis:      lis,
		checker:  checker,
		interval: defaultInterval,
		log:      log,
	}, nil
}

func (g *GRPCServer) Addr() net.Addr { return g.lis.Addr() }

// Serve blocks until ctx is cancelled, then stops gracefully.
func (g *GRPCServer) Serve(ctx context.Context) error {
	g.update(ctx)
	go g.watch(ctx)
	go func() {
		<-ctx.Done()
		g.hs.Shutdown()
		g.srv.GracefulStop()
	}()
	g.log.WithField("addr", g.lis.Addr().String()).Info("gRPC health server listening")
	if err := g.srv.Serve(g.lis); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	return nil
}

func (g *GRPCServer) watch(ctx context.Context) {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.update(ctx)
		}
	}
}

func (g *GRPCServer) update(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if err := g.checker.Check(ctx); err != nil {
		g.log.WithError(err).Warn("Health check failed")
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	g.hs.SetServingStatus("", status)
	g.hs.SetServingStatus(ServiceName, status)
}

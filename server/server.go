package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spacemeshos/datverify/beacon"
	"github.com/spacemeshos/datverify/logging"
	"github.com/spacemeshos/datverify/registry"
	"github.com/spacemeshos/datverify/scheduler"
	"github.com/spacemeshos/datverify/service"
	"github.com/spacemeshos/datverify/transport"
)

type svc interface {
	Run(ctx context.Context) error
}

// Server wires the registry, the beacon and the scheduler to the round loop
// and exposes the scheduler to callers through a Client.
type Server struct {
	cfg    Config
	db     *registry.DB
	sched  *scheduler.Scheduler
	worker svc
	client *transport.Client

	metricsListener net.Listener
}

type newServerOptions struct {
	schedOpts []scheduler.OptionFunc
}

type newServerOptionFunc func(*newServerOptions)

// WithSchedulerOptions are passed to the scheduler after the configured ones.
func WithSchedulerOptions(opts ...scheduler.OptionFunc) newServerOptionFunc {
	return func(o *newServerOptions) {
		o.schedOpts = append(o.schedOpts, opts...)
	}
}

func New(ctx context.Context, cfg Config, opts ...newServerOptionFunc) (*Server, error) {
	options := newServerOptions{}
	for _, fn := range opts {
		fn(&options)
	}
	logger := logging.FromContext(ctx)

	if _, err := os.Stat(cfg.DataDir); os.IsNotExist(err) {
		if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
			return nil, err
		}
	}
	s, err := loadState(ctx, cfg.DataDir, cfg.Beacon.Seed)
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	if err := saveState(cfg.DataDir, s); err != nil {
		return nil, fmt.Errorf("saving state: %w", err)
	}

	db, err := registry.Open(
		cfg.DbDir,
		registry.WithCacheSize(cfg.Registry.CacheSize),
		registry.WithSync(!cfg.Registry.NoSync),
	)
	if err != nil {
		return nil, err
	}

	var metricsListener net.Listener
	if cfg.MetricsPort != nil {
		l, err := net.Listen("tcp", fmt.Sprintf(":%d", *cfg.MetricsPort))
		if err != nil {
			return nil, errors.Join(fmt.Errorf("failed to listen: %w", err), db.Close())
		}
		metricsListener = l
	}

	b := beacon.New(s.BeaconSeed)
	schedOpts := append([]scheduler.OptionFunc{scheduler.WithConfig(cfg.Scheduler)}, options.schedOpts...)
	sched := scheduler.New(db, b, schedOpts...)

	queue := transport.NewInMemory(cfg.QueueSize)
	worker := service.New(cfg.Genesis.Time(), &cfg.Round, sched, b, queue)

	logger.Info("created server", zap.Object("config", cfg))
	return &Server{
		cfg:             cfg,
		db:              db,
		sched:           sched,
		worker:          worker,
		client:          transport.NewClient(queue, sched),
		metricsListener: metricsListener,
	}, nil
}

func (s *Server) Close() error {
	return s.db.Close()
}

// Client calls the scheduler from any goroutine. Calls block until the
// server is started.
func (s *Server) Client() *transport.Client {
	return s.client
}

// Scheduler gives access to the read accessors of the scheduler.
func (s *Server) Scheduler() *scheduler.Scheduler {
	return s.sched
}

// MetricsAddr returns the address that metrics are served on, or nil if
// metrics are disabled.
func (s *Server) MetricsAddr() net.Addr {
	if s.metricsListener == nil {
		return nil
	}
	return s.metricsListener.Addr()
}

// Start runs the round loop and the metrics listener until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()
	serverGroup, ctx := errgroup.WithContext(ctx)

	logger := logging.FromContext(ctx)

	logger.Info("starting round service")
	serverGroup.Go(func() error {
		return s.worker.Run(ctx)
	})

	var server *http.Server
	if s.metricsListener != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		server = &http.Server{Handler: mux, ReadHeaderTimeout: time.Second * 5}
		serverGroup.Go(func() error {
			logger.Sugar().Infof("metrics server listening on %s", s.metricsListener.Addr())
			err := server.Serve(s.metricsListener)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		})
	}

	// Wait for the server to shut down gracefully
	<-ctx.Done()
	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Sugar().Errorf("failed to shutdown server: %s", err)
		}
	}
	if err := serverGroup.Wait(); err != nil {
		logger.Sugar().Errorf("error when waiting to shutdown servers: %s", err)
		return err
	}
	return nil
}

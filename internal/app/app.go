// Package app wires the realdesk server together with fx: store, sessions,
// event publisher, auth service, router and HTTP server, each started and
// stopped through the fx lifecycle.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/realdesk/internal/api"
	"github.com/mesh-intelligence/realdesk/internal/auth"
	"github.com/mesh-intelligence/realdesk/internal/config"
	"github.com/mesh-intelligence/realdesk/internal/events"
	"github.com/mesh-intelligence/realdesk/internal/session"
	"github.com/mesh-intelligence/realdesk/pkg/realdesk"
	"github.com/mesh-intelligence/realdesk/pkg/types"
)

// openTimeout bounds connecting to the store and the brokers at startup.
const openTimeout = 30 * time.Second

// Options returns the fx options of the server.
func Options(cfg config.Config, log *zap.Logger) fx.Option {
	return fx.Options(
		fx.Supply(cfg, log),
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Provide(
			newPublisher,
			newStore,
			newSessions,
			newAuth,
			newHealth,
			newRouter,
			newServer,
		),
		fx.Invoke(registerServerHooks),
	)
}

// Run starts the server and blocks until ctx is cancelled or the process
// receives SIGINT or SIGTERM, then stops it gracefully.
func Run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	a := fx.New(Options(cfg, log))
	if err := a.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, openTimeout)
	defer cancel()
	if err := a.Start(startCtx); err != nil {
		return err
	}

	select {
	case sig := <-a.Done():
		log.Info("received signal", zap.String("signal", sig.String()))
	case <-ctx.Done():
	}

	stopCtx, stop := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout+5*time.Second)
	defer stop()
	return a.Stop(stopCtx)
}

func newPublisher(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (events.Publisher, error) {
	if cfg.Events.URL == "" {
		log.Info("activity events disabled")
		return events.Nop{}, nil
	}
	p, err := events.DialRabbitMQ(cfg.Events.URL, cfg.Events.Exchange)
	if err != nil {
		return nil, err
	}
	log.Info("publishing activity events", zap.String("exchange", cfg.Events.Exchange))
	lc.Append(fx.StopHook(p.Close))
	return p, nil
}

func newStore(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, pub events.Publisher) (types.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	defer cancel()

	s, err := realdesk.Open(ctx, cfg.Store,
		realdesk.WithLogger(log.Named("store")),
		realdesk.WithActivityHook(api.RecordActivity),
		realdesk.WithActivityHook(events.Hook(pub, log)),
	)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	log.Info("store opened",
		zap.String("backend", cfg.Store.Backend),
		zap.String("data_dir", cfg.Store.DataDir),
		zap.Bool("seed", cfg.Store.Seed))
	lc.Append(fx.StopHook(s.Close))
	return s, nil
}

func newSessions(lc fx.Lifecycle, cfg config.Config) (session.Store, error) {
	if cfg.Sessions.Backend != config.SessionsRedis {
		return session.NewMemory(), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	defer cancel()

	r, err := session.DialRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(r.Close))
	return r, nil
}

func newAuth(s types.Store, sessions session.Store, cfg config.Config, log *zap.Logger) *auth.Service {
	return auth.NewService(s.Users(), sessions, cfg.Sessions.TTL, log.Named("auth"))
}

func newHealth(s types.Store, sessions session.Store, pub events.Publisher) *api.HealthHandler {
	h := api.NewHealthHandler(realdesk.Version)
	h.Register("store", s.Ping)
	if r, ok := sessions.(*session.Redis); ok {
		h.Register("redis", r.Ping)
	}
	if p, ok := pub.(*events.RabbitMQ); ok {
		h.Register("rabbitmq", func(context.Context) error {
			if !p.Connected() {
				return fmt.Errorf("connection closed")
			}
			return nil
		})
	}
	return h
}

func newRouter(s types.Store, svc *auth.Service, health *api.HealthHandler, cfg config.Config, log *zap.Logger) http.Handler {
	return api.NewRouter(api.RouterConfig{
		Store:        s,
		Auth:         svc,
		AuthRequired: cfg.Auth.Required,
		CORSOrigins:  cfg.HTTP.CORSOrigins,
		Health:       health,
		Log:          log.Named("http"),
	})
}

func newServer(cfg config.Config, h http.Handler, log *zap.Logger) *api.Server {
	return api.NewServer(cfg.HTTP.Addr, h, cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout, log.Named("http"))
}

func registerServerHooks(lc fx.Lifecycle, srv *api.Server, cfg config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return srv.Start()
		},
		OnStop: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, cfg.HTTP.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	})
}

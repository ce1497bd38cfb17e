// Package realdesk is the public entry point to the back-office store.
// Open selects a backend from a Config, wraps it in the entity store and
// seeds demo data when asked.
//
// Example:
//
//	s, err := realdesk.Open(ctx, types.Config{Backend: types.BackendMemory, Seed: true})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
package realdesk

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/realdesk/internal/auth"
	"github.com/mesh-intelligence/realdesk/internal/backend"
	"github.com/mesh-intelligence/realdesk/internal/store"
	"github.com/mesh-intelligence/realdesk/pkg/types"
)

// Version is the release version reported by the CLI and the health check.
const Version = "0.3.0"

type options struct {
	log   *zap.Logger
	clock func() time.Time
	hooks []func(context.Context, types.Activity)
}

// Option configures Open.
type Option func(*options)

// WithLogger routes store logging to log.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// WithActivityHook registers fn to observe each committed activity.
func WithActivityHook(fn func(ctx context.Context, a types.Activity)) Option {
	return func(o *options) { o.hooks = append(o.hooks, fn) }
}

// Open returns a ready Store for cfg. With cfg.Seed set, an empty store gets
// the demo admin account and the sample workflows.
func Open(ctx context.Context, cfg types.Config, opts ...Option) (types.Store, error) {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	b, err := backend.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	storeOpts := []store.Option{store.WithLogger(o.log)}
	if o.clock != nil {
		storeOpts = append(storeOpts, store.WithClock(o.clock))
	}
	for _, h := range o.hooks {
		storeOpts = append(storeOpts, store.WithActivityHook(h))
	}
	s := store.New(b, storeOpts...)

	if cfg.Seed {
		if err := store.Seed(ctx, s, auth.HashPassword, o.log); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

// Package backend opens the store backend named by a Config.
package backend

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/realdesk/internal/memory"
	"github.com/mesh-intelligence/realdesk/internal/sqldb"
	"github.com/mesh-intelligence/realdesk/internal/store"
	"github.com/mesh-intelligence/realdesk/pkg/types"
)

// Open validates cfg and returns the selected backend, ready for use.
func Open(ctx context.Context, cfg types.Config) (store.Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	switch cfg.Backend {
	case types.BackendMemory:
		return memory.NewBackend(), nil
	case types.BackendSQLite:
		b, err := sqldb.OpenSQLite(ctx, cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		return b, nil
	case types.BackendPostgres:
		b, err := sqldb.OpenPostgres(ctx, cfg.DSN, cfg.MaxConns)
		if err != nil {
			return nil, fmt.Errorf("open postgres backend: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("backend %q: %w", cfg.Backend, types.ErrBackendUnknown)
	}
}

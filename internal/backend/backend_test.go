package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/realdesk/internal/memory"
	"github.com/mesh-intelligence/realdesk/internal/sqldb"
	"github.com/mesh-intelligence/realdesk/pkg/types"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		b, err := Open(ctx, types.Config{Backend: types.BackendMemory})
		require.NoError(t, err)
		defer b.Close()
		assert.IsType(t, &memory.Backend{}, b)
	})

	t.Run("sqlite creates the database file", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "data")
		b, err := Open(ctx, types.Config{Backend: types.BackendSQLite, DataDir: dir})
		require.NoError(t, err)
		defer b.Close()
		assert.IsType(t, &sqldb.Backend{}, b)
		assert.FileExists(t, filepath.Join(dir, sqldb.DBFileName))
	})

	t.Run("invalid config is rejected before opening", func(t *testing.T) {
		_, err := Open(ctx, types.Config{Backend: types.BackendPostgres})
		assert.ErrorIs(t, err, types.ErrDSNRequired)

		_, err = Open(ctx, types.Config{Backend: "mongo"})
		assert.ErrorIs(t, err, types.ErrBackendUnknown)
	})
}

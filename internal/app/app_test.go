package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/realdesk/internal/api"
	"github.com/mesh-intelligence/realdesk/internal/config"
	"github.com/mesh-intelligence/realdesk/pkg/types"
)

func testConfig(t *testing.T, backend string) config.Config {
	return config.Config{
		Store: types.Config{Backend: backend, DataDir: t.TempDir(), Seed: true},
		HTTP: config.HTTP{
			Addr:            "127.0.0.1:0",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Sessions: config.Sessions{Backend: config.SessionsMemory, TTL: time.Hour},
	}
}

func TestAppServesSeededStore(t *testing.T) {
	for _, backend := range []string{types.BackendMemory, types.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			var srv *api.Server
			a := fxtest.New(t, Options(testConfig(t, backend), zap.NewNop()), fx.Populate(&srv))
			a.RequireStart()
			defer a.RequireStop()

			resp, err := http.Get(fmt.Sprintf("http://%s/api/workflows", srv.Addr()))
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var workflows []types.Workflow
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&workflows))
			assert.Len(t, workflows, 4)

			health, err := http.Get(fmt.Sprintf("http://%s/healthz", srv.Addr()))
			require.NoError(t, err)
			health.Body.Close()
			assert.Equal(t, http.StatusOK, health.StatusCode)
		})
	}
}

func TestAppFailsOnInvalidStoreConfig(t *testing.T) {
	cfg := testConfig(t, types.BackendPostgres)
	a := fx.New(Options(cfg, zap.NewNop()))
	require.Error(t, a.Err())
	assert.Contains(t, a.Err().Error(), types.ErrDSNRequired.Error())
}

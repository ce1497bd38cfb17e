package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/realdesk/internal/memory"
	"github.com/mesh-intelligence/realdesk/internal/store"
	"github.com/mesh-intelligence/realdesk/internal/store/storetest"
	"github.com/mesh-intelligence/realdesk/pkg/types"
)

func TestExportWritesEveryTable(t *testing.T) {
	ctx := context.Background()
	clock := storetest.NewClock()
	s := store.New(memory.NewBackend(), store.WithClock(clock.Now))
	defer s.Close()

	p, err := s.Properties().Create(ctx, storetest.PropertyPatch().New())
	require.NoError(t, err)
	l, err := s.Leads().Create(ctx, storetest.LeadPatch().New())
	require.NoError(t, err)
	_, err = s.Appointments().Create(ctx, storetest.AppointmentPatch(l.ID, p.ID).New())
	require.NoError(t, err)
	_, err = s.Properties().Delete(ctx, p.ID)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "backup")
	counts, err := Export(ctx, s, dir)
	require.NoError(t, err)
	assert.Equal(t, Counts{Properties: 0, Leads: 1, Appointments: 1, Workflows: 0, Activities: 4}, counts)

	leads, err := Load[types.Lead](filepath.Join(dir, LeadsFile))
	require.NoError(t, err)
	require.Len(t, leads, 1)
	if diff := cmp.Diff(l, leads[0]); diff != "" {
		t.Errorf("lead mismatch (-want +got):\n%s", diff)
	}

	acts, err := Load[types.Activity](filepath.Join(dir, ActivitiesFile))
	require.NoError(t, err)
	require.Len(t, acts, 4)
	assert.Equal(t, "property-deleted", acts[0].Type)

	props, err := Load[types.Property](filepath.Join(dir, PropertiesFile))
	require.NoError(t, err)
	assert.Empty(t, props)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 5, "no temp files left behind")
}

func TestLoadSkipsBlankAndMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), WorkflowsFile)
	content := `{"id":1,"name":"Sync","status":"active","progress":100,"type":"portal-sync"}

not json
{"id":2,"name":"Notify","status":"paused","progress":60,"type":"notification"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := Load[types.Workflow](path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Notify", got[1].Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load[types.Lead](filepath.Join(t.TempDir(), "absent.jsonl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

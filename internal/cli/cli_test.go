package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/realdesk/pkg/types"
)

// env is an isolated configuration and data directory pair.
type env struct {
	configDir string
	dataDir   string
}

func newEnv(t *testing.T) env {
	t.Helper()
	for _, k := range []string{"REALDESK_STORE_BACKEND", "REALDESK_STORE_SEED", "REALDESK_DATA_DIR", "REALDESK_CONFIG_DIR"} {
		t.Setenv(k, "")
	}
	return env{configDir: t.TempDir(), dataDir: t.TempDir()}
}

// run executes the root command and returns stdout and the exit code.
func (e env) run(t *testing.T, stdin string, args ...string) (string, int) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir, "--backend", "sqlite", "--json"}, args...))
	err := root.Execute()
	return out.String(), exitCode(err)
}

const leadJSON = `{"name":"Lucía Pérez","email":"lucia@example.com","interest":"apartment"}`

func TestInitWritesConfigAndDatabase(t *testing.T) {
	e := newEnv(t)
	_, code := e.run(t, "", "init")
	require.Equal(t, exitSuccess, code)

	assert.FileExists(t, filepath.Join(e.configDir, "config.yaml"))
	assert.FileExists(t, filepath.Join(e.dataDir, "realdesk.db"))
}

func TestCreateGetUpdateDelete(t *testing.T) {
	e := newEnv(t)

	out, code := e.run(t, "", "create", "lead", leadJSON)
	require.Equal(t, exitSuccess, code)
	var created types.Lead
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, types.LeadNew, created.Stage)

	out, code = e.run(t, "", "get", "leads", "1")
	require.Equal(t, exitSuccess, code)
	var got types.Lead
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Lucía Pérez", got.Name)

	out, code = e.run(t, `{"stage":"qualified"}`, "update", "lead", "1", "-")
	require.Equal(t, exitSuccess, code)
	var updated types.Lead
	require.NoError(t, json.Unmarshal([]byte(out), &updated))
	assert.Equal(t, types.LeadQualified, updated.Stage)
	assert.Equal(t, "lucia@example.com", updated.Email)

	out, code = e.run(t, "", "delete", "lead", "1")
	require.Equal(t, exitSuccess, code)
	assert.Equal(t, "Deleted leads/1\n", out)

	_, code = e.run(t, "", "get", "lead", "1")
	assert.Equal(t, exitUserError, code)
}

func TestListReturnsEmptyArray(t *testing.T) {
	e := newEnv(t)
	out, code := e.run(t, "", "list", "properties")
	require.Equal(t, exitSuccess, code)
	assert.Equal(t, "[]\n", out)
}

func TestActivitiesNewestFirst(t *testing.T) {
	e := newEnv(t)
	_, code := e.run(t, "", "create", "lead", leadJSON)
	require.Equal(t, exitSuccess, code)
	_, code = e.run(t, "", "delete", "lead", "1")
	require.Equal(t, exitSuccess, code)

	out, code := e.run(t, "", "activities", "--limit", "1")
	require.Equal(t, exitSuccess, code)
	var acts []types.Activity
	require.NoError(t, json.Unmarshal([]byte(out), &acts))
	require.Len(t, acts, 1)
	assert.Equal(t, "lead-deleted", acts[0].Type)
}

func TestExportWritesSnapshot(t *testing.T) {
	e := newEnv(t)
	_, code := e.run(t, "", "create", "lead", leadJSON)
	require.Equal(t, exitSuccess, code)

	dir := t.TempDir()
	out, code := e.run(t, "", "export", dir)
	require.Equal(t, exitSuccess, code)
	assert.Contains(t, out, `"leads":1`)
	assert.FileExists(t, filepath.Join(dir, "leads.jsonl"))
}

func TestUserErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown kind", []string{"list", "houses"}},
		{"bad id", []string{"get", "lead", "abc"}},
		{"zero id", []string{"delete", "lead", "0"}},
		{"missing record", []string{"get", "property", "42"}},
		{"malformed json", []string{"create", "lead", "{"}},
		{"missing required field", []string{"create", "lead", `{"name":"X"}`}},
		{"update missing record", []string{"update", "workflow", "9", `{"progress":10}`}},
		{"negative limit", []string{"activities", "--limit", "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			_, code := e.run(t, "", tt.args...)
			assert.Equal(t, exitUserError, code)
		})
	}
}

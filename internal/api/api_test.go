package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/realdesk/internal/auth"
	"github.com/mesh-intelligence/realdesk/internal/memory"
	"github.com/mesh-intelligence/realdesk/internal/session"
	"github.com/mesh-intelligence/realdesk/internal/store"
	"github.com/mesh-intelligence/realdesk/internal/store/storetest"
	"github.com/mesh-intelligence/realdesk/pkg/types"
)

type testServer struct {
	t     *testing.T
	store *store.Store
	h     http.Handler
}

func newTestServer(t *testing.T, authRequired bool) *testServer {
	t.Helper()
	clock := storetest.NewClock()
	s := store.New(memory.NewBackend(), store.WithClock(clock.Now))
	t.Cleanup(func() { s.Close() })

	svc := auth.NewService(s.Users(), session.NewMemory(), time.Hour, nil)
	health := NewHealthHandler("test")
	health.Register("store", s.Ping)

	h := NewRouter(RouterConfig{
		Store:        s,
		Auth:         svc,
		AuthRequired: authRequired,
		Health:       health,
	})
	return &testServer{t: t, store: s, h: h}
}

func (ts *testServer) do(method, path, body string, header ...string) *httptest.ResponseRecorder {
	ts.t.Helper()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	ts.h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const flatA = `{
	"title": "Flat A",
	"description": "Bright two-bedroom flat",
	"type": "apartment",
	"price": 250000,
	"location": "Madrid",
	"address": "Calle Mayor 1",
	"bedrooms": 2,
	"features": ["lift"]
}`

func TestPropertyLifecycle(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(http.MethodPost, "/api/properties", flatA)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[types.Property](t, rec)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, types.PropertyAvailable, created.Status)
	assert.Equal(t, []string{"lift"}, created.Features)
	assert.Equal(t, []string{}, created.Images)

	rec = ts.do(http.MethodGet, "/api/properties/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Flat A", decode[types.Property](t, rec).Title)

	rec = ts.do(http.MethodPatch, "/api/properties/1", `{"price": 240000}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[types.Property](t, rec)
	assert.Equal(t, int64(240000), updated.Price)
	assert.Equal(t, "Flat A", updated.Title)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	rec = ts.do(http.MethodDelete, "/api/properties/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = ts.do(http.MethodGet, "/api/properties/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Property not found", decode[ErrorResponse](t, rec).Message)

	rec = ts.do(http.MethodGet, "/api/activities", "")
	require.Equal(t, http.StatusOK, rec.Code)
	acts := decode[[]types.Activity](t, rec)
	require.Len(t, acts, 3)
	assert.Equal(t, "property-deleted", acts[0].Type)
	assert.Equal(t, "Deleted property Flat A", acts[0].Description)
	assert.Equal(t, "property-created", acts[2].Type)
}

func TestCreateValidationErrors(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(http.MethodPost, "/api/leads", `{"name": "", "email": "not-an-email"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "Invalid lead data", resp.Message)

	fields := map[string]bool{}
	for _, e := range resp.Errors {
		fields[e.Field] = true
	}
	assert.True(t, fields["name"])
	assert.True(t, fields["email"])
	assert.True(t, fields["interest"])

	acts, err := ts.store.Activities().List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, acts, "rejected requests log nothing")
}

func TestMalformedRequests(t *testing.T) {
	ts := newTestServer(t, false)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"non-numeric id", http.MethodGet, "/api/leads/abc", "", http.StatusBadRequest},
		{"zero id", http.MethodDelete, "/api/workflows/0", "", http.StatusBadRequest},
		{"broken json", http.MethodPost, "/api/workflows", `{"name":`, http.StatusBadRequest},
		{"update missing id", http.MethodPut, "/api/appointments/42", `{"status":"completed"}`, http.StatusNotFound},
		{"delete missing id", http.MethodDelete, "/api/leads/42", "", http.StatusNotFound},
		{"bad enum on update", http.MethodPatch, "/api/workflows/1", `{"status":"sleeping"}`, http.StatusBadRequest},
		{"negative limit", http.MethodGet, "/api/activities?limit=-1", "", http.StatusBadRequest},
		{"non-numeric limit", http.MethodGet, "/api/activities?limit=ten", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestActivitiesLimit(t *testing.T) {
	ts := newTestServer(t, false)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := ts.store.Workflows().Create(ctx, storetest.WorkflowPatch().New())
		require.NoError(t, err)
	}

	rec := ts.do(http.MethodGet, "/api/activities?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	acts := decode[[]types.Activity](t, rec)
	require.Len(t, acts, 2)
	assert.Equal(t, int64(5), acts[0].ID)
	assert.Equal(t, int64(4), acts[1].ID)
}

func TestAppointmentWithoutUpdatedAt(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(http.MethodPost, "/api/appointments", `{"leadId": 7, "propertyId": 9, "date": "2024-05-17T16:30:00Z"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Equal(t, "scheduled", raw["status"])
	assert.NotContains(t, raw, "updatedAt")
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t, true)
	ctx := context.Background()
	require.NoError(t, store.Seed(ctx, ts.store, auth.HashPassword, nil))

	rec := ts.do(http.MethodGet, "/api/properties", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(http.MethodPost, "/api/auth/login", `{"username":"admin","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(http.MethodPost, "/api/auth/login", `{"username":"admin","password":"admin123"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode[loginResponse](t, rec)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, "Ana García", login.User.FullName)
	assert.NotContains(t, rec.Body.String(), "passwordHash")

	bearer := "Bearer " + login.Token
	rec = ts.do(http.MethodGet, "/api/workflows", "", "Authorization", bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]types.Workflow](t, rec), 4)

	rec = ts.do(http.MethodGet, "/api/auth/me", "", "Authorization", bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", decode[types.User](t, rec).Username)

	rec = ts.do(http.MethodPost, "/api/auth/logout", "", "Authorization", bearer)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(http.MethodGet, "/api/workflows", "", "Authorization", bearer)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[HealthResponse](t, rec)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "healthy", resp.Dependencies["store"])

	require.NoError(t, ts.store.Close())
	rec = ts.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", decode[HealthResponse](t, rec).Status)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, false)
	RecordActivity(context.Background(), types.Activity{Type: "lead-created"})

	ts.do(http.MethodGet, "/api/leads", "")
	rec := ts.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `realdesk_http_requests_total{method="GET",route="/api/leads`)
	assert.Contains(t, body, `realdesk_activities_total{type="lead-created"}`)
}

// brokenTable fails every read to exercise the 500 path.
type brokenTable struct {
	types.Table[types.Lead, types.LeadPatch]
}

func (brokenTable) List(context.Context) ([]types.Lead, error) {
	return nil, errors.New("connection reset")
}

type brokenStore struct {
	*store.Store
}

func (s brokenStore) Leads() types.Table[types.Lead, types.LeadPatch] {
	return brokenTable{Table: s.Store.Leads()}
}

func TestBackendFailureIs500(t *testing.T) {
	s := store.New(memory.NewBackend())
	defer s.Close()
	h := NewRouter(RouterConfig{Store: brokenStore{Store: s}})

	req := httptest.NewRequest(http.MethodGet, "/api/leads", bytes.NewReader(nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error fetching leads", decode[ErrorResponse](t, rec).Message)
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/realdesk/pkg/types"
)

// ActivityHook observes every activity after its unit of work committed.
// Hooks cannot fail a mutation; they report their own errors.
type ActivityHook func(ctx context.Context, a types.Activity)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger. The default discards output.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithClock replaces time.Now. Timestamps are truncated to microseconds so
// every backend round-trips them unchanged.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.clock = now }
}

// WithActivityHook registers a hook called after each committed mutation.
func WithActivityHook(h ActivityHook) Option {
	return func(s *Store) { s.hooks = append(s.hooks, h) }
}

// Store implements types.Store over a Backend.
type Store struct {
	backend Backend
	log     *zap.Logger
	clock   func() time.Time
	hooks   []ActivityHook

	properties   *Table[types.Property, types.PropertyPatch]
	leads        *Table[types.Lead, types.LeadPatch]
	appointments *Table[types.Appointment, types.AppointmentPatch]
	workflows    *Table[types.Workflow, types.WorkflowPatch]

	closeOnce sync.Once
	closeErr  error
}

// New creates a Store over b.
func New(b Backend, opts ...Option) *Store {
	s := &Store{
		backend: b,
		log:     zap.NewNop(),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.properties = NewTable(s, PropertyKind, b.Properties())
	s.leads = NewTable(s, LeadKind, b.Leads())
	s.appointments = NewTable(s, AppointmentKind, b.Appointments())
	s.workflows = NewTable(s, WorkflowKind, b.Workflows())
	return s
}

var _ types.Store = (*Store)(nil)

func (s *Store) Properties() types.Table[types.Property, types.PropertyPatch] {
	return s.properties
}

func (s *Store) Leads() types.Table[types.Lead, types.LeadPatch] {
	return s.leads
}

func (s *Store) Appointments() types.Table[types.Appointment, types.AppointmentPatch] {
	return s.appointments
}

func (s *Store) Workflows() types.Table[types.Workflow, types.WorkflowPatch] {
	return s.workflows
}

// Activities returns the activity log.
func (s *Store) Activities() types.ActivityLog {
	return activityLog{backend: s.backend}
}

// Users returns the user directory.
func (s *Store) Users() types.UserDirectory {
	return s.backend.Users()
}

// Ping checks that the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

// Close releases the backend. Close is idempotent.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.backend.Close()
	})
	return s.closeErr
}

func (s *Store) now() time.Time {
	return types.StoredTime(s.clock())
}

// committed reports a committed activity to the log and the hooks.
func (s *Store) committed(ctx context.Context, a types.Activity) {
	fields := []zap.Field{zap.String("type", a.Type), zap.Int64("activity_id", a.ID)}
	if a.EntityID != nil {
		fields = append(fields, zap.Int64("entity_id", *a.EntityID))
	}
	s.log.Debug("activity recorded", fields...)

	for _, h := range s.hooks {
		h(ctx, a)
	}
}

// activityLog adapts the backend query to types.ActivityLog.
type activityLog struct {
	backend Backend
}

func (l activityLog) List(ctx context.Context, limit int) ([]types.Activity, error) {
	if limit < 0 {
		limit = 0
	}
	return l.backend.Activities(ctx, limit)
}

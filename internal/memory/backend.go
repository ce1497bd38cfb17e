// Package memory implements a volatile store backend. Records live in maps
// keyed by id for the lifetime of the process. One RWMutex guards every
// table and the activity log, so a unit of work is observed atomically.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mesh-intelligence/realdesk/internal/store"
	"github.com/mesh-intelligence/realdesk/pkg/types"
)

// Backend is the in-memory store backend.
type Backend struct {
	mu     sync.RWMutex
	closed bool

	properties   *rows[types.Property]
	leads        *rows[types.Lead]
	appointments *rows[types.Appointment]
	workflows    *rows[types.Workflow]

	activities   []types.Activity
	nextActivity int64

	users *users
}

// NewBackend returns an empty backend. Every id sequence starts at 1.
func NewBackend() *Backend {
	b := &Backend{nextActivity: 1}
	b.properties = newRows(b, func(p *types.Property) *int64 { return &p.ID }, cloneProperty)
	b.leads = newRows(b, func(l *types.Lead) *int64 { return &l.ID }, cloneLead)
	b.appointments = newRows(b, func(a *types.Appointment) *int64 { return &a.ID }, cloneAppointment)
	b.workflows = newRows(b, func(w *types.Workflow) *int64 { return &w.ID }, cloneWorkflow)
	b.users = &users{b: b, byID: map[int64]types.User{}, next: 1}
	return b
}

var _ store.Backend = (*Backend)(nil)

func (b *Backend) Properties() store.Rows[types.Property] { return b.properties }
func (b *Backend) Leads() store.Rows[types.Lead] { return b.leads }
func (b *Backend) Appointments() store.Rows[types.Appointment] { return b.appointments }
func (b *Backend) Workflows() store.Rows[types.Workflow] { return b.workflows }
func (b *Backend) Users() types.UserDirectory { return b.users }

// Activities returns activities newest first with the id as tie-break.
func (b *Backend) Activities(ctx context.Context, limit int) ([]types.Activity, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, types.ErrStoreClosed
	}

	out := make([]types.Activity, len(b.activities))
	for i, a := range b.activities {
		out[i] = cloneActivity(a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// Ping reports ErrStoreClosed after Close.
func (b *Backend) Ping(ctx context.Context) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return types.ErrStoreClosed
	}
	return nil
}

// Close marks the backend closed. Close is idempotent.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	return nil
}

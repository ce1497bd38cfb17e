package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/realdesk/pkg/types"
)

// Table implements types.Table for one kind over a backend's rows.
type Table[E any, P types.Patch[E]] struct {
	kind  Kind[E, P]
	rows  Rows[E]
	store *Store
}

// NewTable binds kind to rows. Mutations report their activities to s.
func NewTable[E any, P types.Patch[E]](s *Store, kind Kind[E, P], rows Rows[E]) *Table[E, P] {
	return &Table[E, P]{kind: kind, rows: rows, store: s}
}

// List returns every record in id order.
func (t *Table[E, P]) List(ctx context.Context) ([]E, error) {
	records, err := t.rows.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.kind.Name, err)
	}
	return records, nil
}

// Get returns the record with the given id.
func (t *Table[E, P]) Get(ctx context.Context, id int64) (E, bool, error) {
	e, ok, err := t.rows.Find(ctx, id)
	if err != nil {
		var zero E
		return zero, false, fmt.Errorf("get %s %d: %w", t.kind.Name, id, err)
	}
	return e, ok, nil
}

// Create assigns an id, stamps the record and appends a "{kind}-created"
// activity in the same unit of work.
func (t *Table[E, P]) Create(ctx context.Context, e E) (E, error) {
	now := t.store.now()
	t.kind.Stamp(&e, now)

	var (
		stored E
		act    types.Activity
	)
	err := t.rows.Atomically(ctx, func(w Writer[E]) error {
		var err error
		stored, err = w.Insert(ctx, e)
		if err != nil {
			return fmt.Errorf("insert: %w", err)
		}
		act, err = w.Append(ctx, t.activity(stored, types.ActionCreated, now))
		if err != nil {
			return fmt.Errorf("append activity: %w", err)
		}
		return nil
	})
	if err != nil {
		var zero E
		return zero, fmt.Errorf("create %s: %w", t.kind.Name, err)
	}

	t.store.committed(ctx, act)
	return stored, nil
}

// Update merges patch over the stored record, refreshes updatedAt where the
// kind has one and appends a "{kind}-updated" activity. A missing id
// returns ok == false and writes nothing.
func (t *Table[E, P]) Update(ctx context.Context, id int64, patch P) (E, bool, error) {
	now := t.store.now()

	var (
		updated E
		found   bool
		act     types.Activity
	)
	err := t.rows.Atomically(ctx, func(w Writer[E]) error {
		cur, ok, err := w.Find(ctx, id)
		if err != nil {
			return fmt.Errorf("find: %w", err)
		}
		if !ok {
			return nil
		}
		found = true

		patch.Apply(&cur)
		if t.kind.Touch != nil {
			t.kind.Touch(&cur, now)
		}
		if err := w.Replace(ctx, cur); err != nil {
			return fmt.Errorf("replace: %w", err)
		}
		act, err = w.Append(ctx, t.activity(cur, types.ActionUpdated, now))
		if err != nil {
			return fmt.Errorf("append activity: %w", err)
		}
		updated = cur
		return nil
	})
	if err != nil {
		var zero E
		return zero, false, fmt.Errorf("update %s %d: %w", t.kind.Name, id, err)
	}
	if !found {
		t.store.log.Debug("update of missing record", zap.String("kind", t.kind.Name), zap.Int64("id", id))
		var zero E
		return zero, false, nil
	}

	t.store.committed(ctx, act)
	return updated, true, nil
}

// Delete removes the record and appends a "{kind}-deleted" activity that
// describes the record as it was before deletion. A missing id returns false
// and writes nothing.
func (t *Table[E, P]) Delete(ctx context.Context, id int64) (bool, error) {
	now := t.store.now()

	var (
		found bool
		act   types.Activity
	)
	err := t.rows.Atomically(ctx, func(w Writer[E]) error {
		cur, ok, err := w.Find(ctx, id)
		if err != nil {
			return fmt.Errorf("find: %w", err)
		}
		if !ok {
			return nil
		}
		found = true

		if err := w.Remove(ctx, id); err != nil {
			return fmt.Errorf("remove: %w", err)
		}
		act, err = w.Append(ctx, t.activity(cur, types.ActionDeleted, now))
		if err != nil {
			return fmt.Errorf("append activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete %s %d: %w", t.kind.Name, id, err)
	}
	if !found {
		t.store.log.Debug("delete of missing record", zap.String("kind", t.kind.Name), zap.Int64("id", id))
		return false, nil
	}

	t.store.committed(ctx, act)
	return true, nil
}

// activity builds the log entry for action on e.
func (t *Table[E, P]) activity(e E, action string, now time.Time) types.Activity {
	id := t.kind.ID(e)
	kind := t.kind.Name
	return types.Activity{
		Type:        types.ActivityType(kind, action),
		Description: t.kind.Describe(e, action),
		EntityID:    &id,
		EntityType:  &kind,
		CreatedAt:   now,
	}
}

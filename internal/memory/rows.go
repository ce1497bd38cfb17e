package memory

import (
	"context"
	"sort"

	"github.com/mesh-intelligence/realdesk/internal/store"
	"github.com/mesh-intelligence/realdesk/pkg/types"
)

// rows holds one entity table.
type rows[E any] struct {
	b       *Backend
	idOf    func(*E) *int64
	clone   func(E) E
	records map[int64]E
	next    int64
}

func newRows[E any](b *Backend, idOf func(*E) *int64, clone func(E) E) *rows[E] {
	return &rows[E]{b: b, idOf: idOf, clone: clone, records: map[int64]E{}, next: 1}
}

// All returns every record in id order.
func (r *rows[E]) All(ctx context.Context) ([]E, error) {
	r.b.mu.RLock()
	defer r.b.mu.RUnlock()

	if r.b.closed {
		return nil, types.ErrStoreClosed
	}

	ids := make([]int64, 0, len(r.records))
	for id := range r.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]E, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.clone(r.records[id]))
	}
	return out, nil
}

// Find returns the record with the given id.
func (r *rows[E]) Find(ctx context.Context, id int64) (E, bool, error) {
	r.b.mu.RLock()
	defer r.b.mu.RUnlock()

	var zero E
	if r.b.closed {
		return zero, false, types.ErrStoreClosed
	}
	e, ok := r.records[id]
	if !ok {
		return zero, false, nil
	}
	return r.clone(e), true, nil
}

// Atomically runs fn under the backend write lock. Writes are staged and
// applied only when fn returns nil.
func (r *rows[E]) Atomically(ctx context.Context, fn func(w store.Writer[E]) error) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()

	if r.b.closed {
		return types.ErrStoreClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	w := &writer[E]{
		rows:    r,
		puts:    map[int64]E{},
		dels:    map[int64]bool{},
		next:    r.next,
		nextAct: r.b.nextActivity,
	}
	if err := fn(w); err != nil {
		return err
	}
	w.commit()
	return nil
}

// writer stages the writes of one unit of work.
type writer[E any] struct {
	rows    *rows[E]
	puts    map[int64]E
	dels    map[int64]bool
	acts    []types.Activity
	next    int64
	nextAct int64
}

func (w *writer[E]) Find(ctx context.Context, id int64) (E, bool, error) {
	var zero E
	if w.dels[id] {
		return zero, false, nil
	}
	if e, ok := w.puts[id]; ok {
		return w.rows.clone(e), true, nil
	}
	e, ok := w.rows.records[id]
	if !ok {
		return zero, false, nil
	}
	return w.rows.clone(e), true, nil
}

func (w *writer[E]) Insert(ctx context.Context, e E) (E, error) {
	id := w.next
	w.next++
	*w.rows.idOf(&e) = id
	w.puts[id] = w.rows.clone(e)
	delete(w.dels, id)
	return e, nil
}

func (w *writer[E]) Replace(ctx context.Context, e E) error {
	id := *w.rows.idOf(&e)
	w.puts[id] = w.rows.clone(e)
	delete(w.dels, id)
	return nil
}

func (w *writer[E]) Remove(ctx context.Context, id int64) error {
	delete(w.puts, id)
	w.dels[id] = true
	return nil
}

func (w *writer[E]) Append(ctx context.Context, a types.Activity) (types.Activity, error) {
	a.ID = w.nextAct
	w.nextAct++
	w.acts = append(w.acts, cloneActivity(a))
	return a, nil
}

// commit applies the staged writes. The caller holds the write lock.
func (w *writer[E]) commit() {
	r := w.rows
	for id, e := range w.puts {
		r.records[id] = e
	}
	for id := range w.dels {
		delete(r.records, id)
	}
	r.next = w.next
	r.b.activities = append(r.b.activities, w.acts...)
	r.b.nextActivity = w.nextAct
}

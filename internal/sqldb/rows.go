package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/realdesk/internal/store"
	"github.com/mesh-intelligence/realdesk/pkg/types"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queries holds the statements of one table, already rebound.
type queries struct {
	selectAll string
	selectOne string
	insert    string
	update    string
	remove    string
}

func buildQueries(d Dialect, table string, columns []string) queries {
	cols := strings.Join(columns, ", ")
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	sets := make([]string, len(columns))
	for i, c := range columns {
		sets[i] = c + " = ?"
	}
	return queries{
		selectAll: d.rebind(fmt.Sprintf("SELECT id, %s FROM %s ORDER BY id", cols, table)),
		selectOne: d.rebind(fmt.Sprintf("SELECT id, %s FROM %s WHERE id = ?", cols, table)),
		insert:    d.rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id", table, cols, marks)),
		update:    d.rebind(fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(sets, ", "))),
		remove:    d.rebind(fmt.Sprintf("DELETE FROM %s WHERE id = ?", table)),
	}
}

// rows implements store.Rows for one table.
type rows[E any] struct {
	b *Backend
	c codec[E]
	q queries
}

func newRows[E any](b *Backend, c codec[E]) *rows[E] {
	return &rows[E]{b: b, c: c, q: buildQueries(b.dialect, c.table, c.columns)}
}

// All returns every record in id order.
func (r *rows[E]) All(ctx context.Context) ([]E, error) {
	rs, err := r.b.db.QueryContext(ctx, r.q.selectAll)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", r.c.table, err)
	}
	defer rs.Close()

	out := []E{}
	for rs.Next() {
		e, err := r.c.scan(rs)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", r.c.table, err)
		}
		out = append(out, e)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", r.c.table, err)
	}
	return out, nil
}

// Find returns the record with the given id.
func (r *rows[E]) Find(ctx context.Context, id int64) (E, bool, error) {
	return r.find(ctx, r.b.db, id)
}

func (r *rows[E]) find(ctx context.Context, q querier, id int64) (E, bool, error) {
	e, err := r.c.scan(q.QueryRowContext(ctx, r.q.selectOne, id))
	if errors.Is(err, sql.ErrNoRows) {
		var zero E
		return zero, false, nil
	}
	if err != nil {
		var zero E
		return zero, false, fmt.Errorf("reading %s %d: %w", r.c.table, id, err)
	}
	return e, true, nil
}

// Atomically runs fn inside one transaction. The transaction commits only
// when fn returns nil.
func (r *rows[E]) Atomically(ctx context.Context, fn func(w store.Writer[E]) error) error {
	tx, err := r.b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&writer[E]{rows: r, tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// writer runs the writes of one unit of work on its transaction.
type writer[E any] struct {
	rows *rows[E]
	tx   *sql.Tx
}

func (w *writer[E]) Find(ctx context.Context, id int64) (E, bool, error) {
	return w.rows.find(ctx, w.tx, id)
}

func (w *writer[E]) Insert(ctx context.Context, e E) (E, error) {
	c := w.rows.c
	args, err := c.values(w.rows.b.dialect, e)
	if err != nil {
		return e, err
	}
	var id int64
	if err := w.tx.QueryRowContext(ctx, w.rows.q.insert, args...).Scan(&id); err != nil {
		return e, fmt.Errorf("inserting into %s: %w", c.table, err)
	}
	c.setID(&e, id)
	return e, nil
}

func (w *writer[E]) Replace(ctx context.Context, e E) error {
	c := w.rows.c
	args, err := c.values(w.rows.b.dialect, e)
	if err != nil {
		return err
	}
	args = append(args, c.id(e))
	if _, err := w.tx.ExecContext(ctx, w.rows.q.update, args...); err != nil {
		return fmt.Errorf("updating %s %d: %w", c.table, c.id(e), err)
	}
	return nil
}

func (w *writer[E]) Remove(ctx context.Context, id int64) error {
	if _, err := w.tx.ExecContext(ctx, w.rows.q.remove, id); err != nil {
		return fmt.Errorf("deleting from %s %d: %w", w.rows.c.table, id, err)
	}
	return nil
}

func (w *writer[E]) Append(ctx context.Context, a types.Activity) (types.Activity, error) {
	return w.rows.b.appendActivity(ctx, w.tx, a)
}

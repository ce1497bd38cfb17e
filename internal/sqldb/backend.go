// Package sqldb implements the persistent store backend over database/sql.
// One implementation serves SQLite (modernc.org/sqlite, a file in the data
// directory) and PostgreSQL (the pgx stdlib driver); a Dialect captures the
// differences. Every unit of work runs in one transaction, so an entity
// write and its activity commit or fail together.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/realdesk/internal/store"
	"github.com/mesh-intelligence/realdesk/pkg/types"
)

// DBFileName is the SQLite database file inside the data directory.
const DBFileName = "realdesk.db"

// Default postgres pool size.
const defaultMaxConns = 10

// Backend implements store.Backend over a *sql.DB.
type Backend struct {
	db      *sql.DB
	dialect Dialect

	properties   *rows[types.Property]
	leads        *rows[types.Lead]
	appointments *rows[types.Appointment]
	workflows    *rows[types.Workflow]
	users        *users

	appendQuery string

	closeOnce sync.Once
	closeErr  error
}

// New wraps an open database. Call Migrate before first use of a new
// database.
func New(db *sql.DB, d Dialect) *Backend {
	b := &Backend{db: db, dialect: d}
	b.properties = newRows(b, propertyCodec)
	b.leads = newRows(b, leadCodec)
	b.appointments = newRows(b, appointmentCodec)
	b.workflows = newRows(b, workflowCodec)
	b.users = newUsers(b)
	b.appendQuery = d.rebind("INSERT INTO activities (type, description, entity_id, entity_type, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id")
	return b
}

// OpenSQLite opens or creates the database file in dataDir and applies the
// schema. Existing data is kept across restarts.
func OpenSQLite(ctx context.Context, dataDir string) (*Backend, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dsn := filepath.Join(dataDir, DBFileName) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open(SQLite.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// A single connection serialises writers.
	db.SetMaxOpenConns(1)

	b := New(db, SQLite)
	if err := b.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

// OpenPostgres connects with the pgx driver, sizes the pool, pings and
// applies the schema.
func OpenPostgres(ctx context.Context, dsn string, maxConns int) (*Backend, error) {
	db, err := sql.Open(Postgres.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns / 2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	b := New(db, Postgres)
	if err := b.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

// Migrate creates missing tables and indexes.
func (b *Backend) Migrate(ctx context.Context) error {
	for _, ddl := range b.dialect.Schema {
		if _, err := b.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}

var _ store.Backend = (*Backend)(nil)

func (b *Backend) Properties() store.Rows[types.Property] { return b.properties }
func (b *Backend) Leads() store.Rows[types.Lead] { return b.leads }
func (b *Backend) Appointments() store.Rows[types.Appointment] { return b.appointments }
func (b *Backend) Workflows() store.Rows[types.Workflow] { return b.workflows }
func (b *Backend) Users() types.UserDirectory { return b.users }

// Activities returns activities newest first with the id as tie-break.
func (b *Backend) Activities(ctx context.Context, limit int) ([]types.Activity, error) {
	query := "SELECT " + activityColumns + " FROM activities ORDER BY created_at DESC, id DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rs, err := b.db.QueryContext(ctx, b.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("querying activities: %w", err)
	}
	defer rs.Close()

	out := []types.Activity{}
	for rs.Next() {
		a, err := scanActivity(rs)
		if err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		out = append(out, a)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("iterating activities: %w", err)
	}
	return out, nil
}

// appendActivity inserts a within the caller's transaction.
func (b *Backend) appendActivity(ctx context.Context, q querier, a types.Activity) (types.Activity, error) {
	err := q.QueryRowContext(ctx, b.appendQuery,
		a.Type, a.Description, nullInt(a.EntityID), nullString(a.EntityType), b.dialect.timeArg(a.CreatedAt),
	).Scan(&a.ID)
	if err != nil {
		return a, fmt.Errorf("inserting activity: %w", err)
	}
	return a, nil
}

// Ping checks the database connection.
func (b *Backend) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

// Close closes the database. Close is idempotent.
func (b *Backend) Close() error {
	b.closeOnce.Do(func() {
		b.closeErr = b.db.Close()
	})
	return b.closeErr
}

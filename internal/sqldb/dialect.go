package sqldb

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect captures what differs between the SQL engines: driver name,
// schema, placeholder style, time encoding and unique-violation detection.
type Dialect struct {
	Name   string
	Driver string
	Schema []string

	numbered bool
	encTime  func(time.Time) any
	conflict func(error) bool
}

// sqliteTimeLayout is fixed-width UTC so text order matches time order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000Z"

// pgUniqueViolation is the postgres SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// SQLite stores timestamps as fixed-width UTC text and lists as JSON text.
var SQLite = Dialect{
	Name:   "sqlite",
	Driver: "sqlite",
	Schema: sqliteSchema,
	encTime: func(t time.Time) any {
		return t.UTC().Format(sqliteTimeLayout)
	},
	conflict: func(err error) bool {
		var se *sqlite.Error
		return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	},
}

// Postgres uses the pgx stdlib driver, TIMESTAMPTZ and JSONB.
var Postgres = Dialect{
	Name:     "postgres",
	Driver:   "pgx",
	Schema:   postgresSchema,
	numbered: true,
	encTime: func(t time.Time) any {
		return t.UTC()
	},
	conflict: func(err error) bool {
		var pgErr *pgconn.PgError
		return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
	},
}

// rebind rewrites ? placeholders to $n for dialects that number them.
func (d Dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d Dialect) timeArg(t time.Time) any {
	return d.encTime(t)
}

func (d Dialect) nullTimeArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return d.encTime(*t)
}

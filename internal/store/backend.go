// Package store implements the entity CRUD and activity-logging protocol
// shared by every entity kind. One generic table, parameterised by a Kind
// descriptor, runs over the rows a Backend exposes; every successful
// mutation writes the entity and appends its activity in one unit of work.
package store

import (
	"context"

	"github.com/mesh-intelligence/realdesk/pkg/types"
)

// Rows is a backend's view of one entity table.
type Rows[E any] interface {
	// All returns every record in id order.
	All(ctx context.Context) ([]E, error)

	// Find returns the record with the given id.
	Find(ctx context.Context, id int64) (E, bool, error)

	// Atomically runs fn as one unit of work. Nothing fn wrote through w is
	// visible to other callers until fn returns nil; a non-nil error
	// discards every write.
	Atomically(ctx context.Context, fn func(w Writer[E]) error) error
}

// Writer performs the writes of one unit of work.
type Writer[E any] interface {
	Find(ctx context.Context, id int64) (E, bool, error)

	// Insert stores e under a new id and returns the stored record. Ids are
	// never reused, including ids of deleted records.
	Insert(ctx context.Context, e E) (E, error)

	// Replace overwrites the stored record with the same id.
	Replace(ctx context.Context, e E) error

	// Remove deletes the record with the given id.
	Remove(ctx context.Context, id int64) error

	// Append adds an entry to the activity log and returns it with its id.
	Append(ctx context.Context, a types.Activity) (types.Activity, error)
}

// Backend is a storage medium for the store.
type Backend interface {
	Properties() Rows[types.Property]
	Leads() Rows[types.Lead]
	Appointments() Rows[types.Appointment]
	Workflows() Rows[types.Workflow]

	// Activities returns activities newest first, createdAt descending with
	// the id as tie-break. A limit of zero or less returns every entry.
	Activities(ctx context.Context, limit int) ([]types.Activity, error)

	Users() types.UserDirectory
	Ping(ctx context.Context) error
	Close() error
}

package types

import (
	"context"
	"errors"
)

// Table provides uniform CRUD operations for a single entity kind. E is the
// stored record and P the typed patch merged over it by Update.
//
// A missing id is not an error: Get and Update report it through ok == false
// and Delete through a false result, and none of them has side effects in that
// case. Every successful Create, Update and Delete appends exactly one
// Activity in the same unit of work as the entity write.
type Table[E any, P any] interface {
	// List returns every record of the kind in id order.
	List(ctx context.Context) ([]E, error)

	// Get returns the record with the given id.
	Get(ctx context.Context, id int64) (E, bool, error)

	// Create assigns an id, stamps the timestamps and stores e.
	Create(ctx context.Context, e E) (E, error)

	// Update merges patch over the stored record. Nil patch fields leave the
	// corresponding record fields unchanged.
	Update(ctx context.Context, id int64, patch P) (E, bool, error)

	// Delete removes the record with the given id.
	Delete(ctx context.Context, id int64) (bool, error)
}

// Patch is implemented by the typed patch of every entity kind.
type Patch[E any] interface {
	// Apply copies every non-nil field onto e.
	Apply(e *E)

	// New builds a record from the patch with defaults for absent fields.
	New() E

	// Validate checks field values. When create is true the fields required
	// for a new record must be present.
	Validate(create bool) error
}

// ActivityLog is the read side of the append-only audit trail.
type ActivityLog interface {
	// List returns activities newest first. A limit of zero or less returns
	// every entry.
	List(ctx context.Context, limit int) ([]Activity, error)
}

// UserDirectory stores back-office accounts. Users are not audited.
type UserDirectory interface {
	// Create stores u and returns it with its id. Returns ErrConflict when
	// the username is taken.
	Create(ctx context.Context, u User) (User, error)

	// Get returns ErrNotFound if no user has the given id.
	Get(ctx context.Context, id int64) (User, error)

	// ByUsername returns ErrNotFound if no user has the given username.
	ByUsername(ctx context.Context, username string) (User, error)

	// Count returns the number of stored users.
	Count(ctx context.Context) (int, error)
}

// Store bundles the entity tables, the activity log and the user directory
// of one backend.
type Store interface {
	Properties() Table[Property, PropertyPatch]
	Leads() Table[Lead, LeadPatch]
	Appointments() Table[Appointment, AppointmentPatch]
	Workflows() Table[Workflow, WorkflowPatch]
	Activities() ActivityLog
	Users() UserDirectory

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend. Close is idempotent.
	Close() error
}

// Store errors.
var (
	ErrNotFound    = errors.New("entity not found")
	ErrInvalidID   = errors.New("invalid entity ID")
	ErrInvalidData = errors.New("invalid entity data")
	ErrConflict    = errors.New("entity already exists")
	ErrStoreClosed = errors.New("store is closed")
)

package sqldb

import (
	"database/sql"

	"github.com/mesh-intelligence/realdesk/pkg/types"
)

// codec maps one entity kind to its table. Columns exclude id; scan reads
// id followed by the columns in order.
type codec[E any] struct {
	table   string
	columns []string
	id      func(e E) int64
	setID   func(e *E, id int64)
	values  func(d Dialect, e E) ([]any, error)
	scan    func(sc scanner) (E, error)
}

var propertyCodec = codec[types.Property]{
	table: "properties",
	columns: []string{
		"title", "description", "type", "price", "location", "address",
		"bedrooms", "bathrooms", "area", "features", "images", "status",
		"created_at", "updated_at",
	},
	id:    func(p types.Property) int64 { return p.ID },
	setID: func(p *types.Property, id int64) { p.ID = id },
	values: func(d Dialect, p types.Property) ([]any, error) {
		features, err := listArg(p.Features)
		if err != nil {
			return nil, err
		}
		images, err := listArg(p.Images)
		if err != nil {
			return nil, err
		}
		return []any{
			p.Title, p.Description, p.Type, p.Price, p.Location, p.Address,
			nullInt(p.Bedrooms), nullInt(p.Bathrooms), nullInt(p.Area), features, images, p.Status,
			d.timeArg(p.CreatedAt), d.timeArg(p.UpdatedAt),
		}, nil
	},
	scan: func(sc scanner) (types.Property, error) {
		var (
			p                         types.Property
			bedrooms, bathrooms, area sql.NullInt64
			features, images          jsonList
			createdAt, updatedAt      sqlTime
		)
		err := sc.Scan(
			&p.ID, &p.Title, &p.Description, &p.Type, &p.Price, &p.Location, &p.Address,
			&bedrooms, &bathrooms, &area, &features, &images, &p.Status,
			&createdAt, &updatedAt,
		)
		if err != nil {
			return types.Property{}, err
		}
		p.Bedrooms = int64Ptr(bedrooms)
		p.Bathrooms = int64Ptr(bathrooms)
		p.Area = int64Ptr(area)
		p.Features = features
		p.Images = images
		p.CreatedAt = createdAt.Time
		p.UpdatedAt = updatedAt.Time
		return p, nil
	},
}

var leadCodec = codec[types.Lead]{
	table: "leads",
	columns: []string{
		"name", "email", "phone", "interest", "budget", "preferred_location",
		"stage", "notes", "created_at", "updated_at", "last_contact_date",
	},
	id:    func(l types.Lead) int64 { return l.ID },
	setID: func(l *types.Lead, id int64) { l.ID = id },
	values: func(d Dialect, l types.Lead) ([]any, error) {
		return []any{
			l.Name, l.Email, nullString(l.Phone), l.Interest, nullInt(l.Budget), nullString(l.PreferredLocation),
			l.Stage, nullString(l.Notes), d.timeArg(l.CreatedAt), d.timeArg(l.UpdatedAt), d.nullTimeArg(l.LastContactDate),
		}, nil
	},
	scan: func(sc scanner) (types.Lead, error) {
		var (
			l                                   types.Lead
			phone, preferredLocation, notes     sql.NullString
			budget                              sql.NullInt64
			createdAt, updatedAt, lastContacted sqlTime
		)
		err := sc.Scan(
			&l.ID, &l.Name, &l.Email, &phone, &l.Interest, &budget, &preferredLocation,
			&l.Stage, &notes, &createdAt, &updatedAt, &lastContacted,
		)
		if err != nil {
			return types.Lead{}, err
		}
		l.Phone = stringPtr(phone)
		l.Budget = int64Ptr(budget)
		l.PreferredLocation = stringPtr(preferredLocation)
		l.Notes = stringPtr(notes)
		l.CreatedAt = createdAt.Time
		l.UpdatedAt = updatedAt.Time
		l.LastContactDate = lastContacted.ptr()
		return l, nil
	},
}

var appointmentCodec = codec[types.Appointment]{
	table:   "appointments",
	columns: []string{"lead_id", "property_id", "date", "status", "notes", "created_at"},
	id:      func(a types.Appointment) int64 { return a.ID },
	setID:   func(a *types.Appointment, id int64) { a.ID = id },
	values: func(d Dialect, a types.Appointment) ([]any, error) {
		return []any{
			a.LeadID, a.PropertyID, d.timeArg(a.Date), a.Status, nullString(a.Notes), d.timeArg(a.CreatedAt),
		}, nil
	},
	scan: func(sc scanner) (types.Appointment, error) {
		var (
			a               types.Appointment
			notes           sql.NullString
			date, createdAt sqlTime
		)
		if err := sc.Scan(&a.ID, &a.LeadID, &a.PropertyID, &date, &a.Status, &notes, &createdAt); err != nil {
			return types.Appointment{}, err
		}
		a.Date = date.Time
		a.Notes = stringPtr(notes)
		a.CreatedAt = createdAt.Time
		return a, nil
	},
}

var workflowCodec = codec[types.Workflow]{
	table:   "workflows",
	columns: []string{"name", "description", "status", "progress", "type", "created_at", "updated_at"},
	id:      func(w types.Workflow) int64 { return w.ID },
	setID:   func(w *types.Workflow, id int64) { w.ID = id },
	values: func(d Dialect, w types.Workflow) ([]any, error) {
		return []any{
			w.Name, nullString(w.Description), w.Status, w.Progress, w.Type, d.timeArg(w.CreatedAt), d.timeArg(w.UpdatedAt),
		}, nil
	},
	scan: func(sc scanner) (types.Workflow, error) {
		var (
			w                    types.Workflow
			description          sql.NullString
			createdAt, updatedAt sqlTime
		)
		if err := sc.Scan(&w.ID, &w.Name, &description, &w.Status, &w.Progress, &w.Type, &createdAt, &updatedAt); err != nil {
			return types.Workflow{}, err
		}
		w.Description = stringPtr(description)
		w.CreatedAt = createdAt.Time
		w.UpdatedAt = updatedAt.Time
		return w, nil
	},
}

const activityColumns = "id, type, description, entity_id, entity_type, created_at"

func scanActivity(sc scanner) (types.Activity, error) {
	var (
		a          types.Activity
		entityID   sql.NullInt64
		entityType sql.NullString
		createdAt  sqlTime
	)
	if err := sc.Scan(&a.ID, &a.Type, &a.Description, &entityID, &entityType, &createdAt); err != nil {
		return types.Activity{}, err
	}
	a.EntityID = int64Ptr(entityID)
	a.EntityType = stringPtr(entityType)
	a.CreatedAt = createdAt.Time
	return a, nil
}

package store

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/realdesk/pkg/types"
)

// Kind describes one entity kind to the generic table.
type Kind[E any, P types.Patch[E]] struct {
	// Name is the activity entity type, for example "property".
	Name string

	// ID returns the record id.
	ID func(e E) int64

	// Stamp prepares a new record: defaults, createdAt and updatedAt.
	Stamp func(e *E, now time.Time)

	// Touch refreshes updatedAt. Nil for kinds without one.
	Touch func(e *E, now time.Time)

	// Describe renders the activity description of action on e.
	Describe func(e E, action string) string
}

// dateLayout formats appointment dates in activity descriptions.
const dateLayout = "2006-01-02"

// PropertyKind describes properties.
var PropertyKind = Kind[types.Property, types.PropertyPatch]{
	Name: types.KindProperty,
	ID:   func(p types.Property) int64 { return p.ID },
	Stamp: func(p *types.Property, now time.Time) {
		p.Normalize()
		p.CreatedAt, p.UpdatedAt = now, now
	},
	Touch: func(p *types.Property, now time.Time) { p.UpdatedAt = now },
	Describe: func(p types.Property, action string) string {
		switch action {
		case types.ActionCreated:
			return fmt.Sprintf("Added property %s", p.Title)
		case types.ActionUpdated:
			return fmt.Sprintf("Updated property %s", p.Title)
		default:
			return fmt.Sprintf("Deleted property %s", p.Title)
		}
	},
}

// LeadKind describes leads.
var LeadKind = Kind[types.Lead, types.LeadPatch]{
	Name: types.KindLead,
	ID:   func(l types.Lead) int64 { return l.ID },
	Stamp: func(l *types.Lead, now time.Time) {
		l.Normalize()
		l.CreatedAt, l.UpdatedAt = now, now
	},
	Touch: func(l *types.Lead, now time.Time) { l.UpdatedAt = now },
	Describe: func(l types.Lead, action string) string {
		switch action {
		case types.ActionCreated:
			return fmt.Sprintf("New lead interested: %s", l.Name)
		case types.ActionUpdated:
			return fmt.Sprintf("Updated lead %s", l.Name)
		default:
			return fmt.Sprintf("Deleted lead %s", l.Name)
		}
	},
}

// AppointmentKind describes appointments. Appointments have no updatedAt.
var AppointmentKind = Kind[types.Appointment, types.AppointmentPatch]{
	Name: types.KindAppointment,
	ID:   func(a types.Appointment) int64 { return a.ID },
	Stamp: func(a *types.Appointment, now time.Time) {
		a.Normalize()
		a.CreatedAt = now
	},
	Describe: func(a types.Appointment, action string) string {
		date := a.Date.UTC().Format(dateLayout)
		switch action {
		case types.ActionCreated:
			return fmt.Sprintf("New appointment scheduled for %s", date)
		case types.ActionUpdated:
			return fmt.Sprintf("Updated appointment for %s", date)
		default:
			return fmt.Sprintf("Deleted appointment scheduled for %s", date)
		}
	},
}

// WorkflowKind describes workflows.
var WorkflowKind = Kind[types.Workflow, types.WorkflowPatch]{
	Name: types.KindWorkflow,
	ID:   func(w types.Workflow) int64 { return w.ID },
	Stamp: func(w *types.Workflow, now time.Time) {
		w.Normalize()
		w.CreatedAt, w.UpdatedAt = now, now
	},
	Touch: func(w *types.Workflow, now time.Time) { w.UpdatedAt = now },
	Describe: func(w types.Workflow, action string) string {
		switch action {
		case types.ActionCreated:
			return fmt.Sprintf("Created workflow: %s", w.Name)
		case types.ActionUpdated:
			return fmt.Sprintf("Updated workflow: %s", w.Name)
		default:
			return fmt.Sprintf("Deleted workflow: %s", w.Name)
		}
	},
}

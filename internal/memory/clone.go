package memory

import (
	"slices"

	"github.com/mesh-intelligence/realdesk/pkg/types"
)

// Records cross the backend boundary as deep copies so callers never share
// slices or optional fields with the stored state.

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneProperty(p types.Property) types.Property {
	p.Bedrooms = clonePtr(p.Bedrooms)
	p.Bathrooms = clonePtr(p.Bathrooms)
	p.Area = clonePtr(p.Area)
	p.Features = slices.Clone(p.Features)
	p.Images = slices.Clone(p.Images)
	return p
}

func cloneLead(l types.Lead) types.Lead {
	l.Phone = clonePtr(l.Phone)
	l.Budget = clonePtr(l.Budget)
	l.PreferredLocation = clonePtr(l.PreferredLocation)
	l.Notes = clonePtr(l.Notes)
	l.LastContactDate = clonePtr(l.LastContactDate)
	return l
}

func cloneAppointment(a types.Appointment) types.Appointment {
	a.Notes = clonePtr(a.Notes)
	return a
}

func cloneWorkflow(w types.Workflow) types.Workflow {
	w.Description = clonePtr(w.Description)
	return w
}

func cloneActivity(a types.Activity) types.Activity {
	a.EntityID = clonePtr(a.EntityID)
	a.EntityType = clonePtr(a.EntityType)
	return a
}

func cloneUser(u types.User) types.User {
	u.Avatar = clonePtr(u.Avatar)
	return u
}

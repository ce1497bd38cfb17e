package types

import "time"

// Appointment statuses.
const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// AppointmentStatuses lists the accepted appointment statuses.
var AppointmentStatuses = []string{AppointmentScheduled, AppointmentCompleted, AppointmentCancelled}

// Appointment is a viewing of a property by a lead. LeadID and PropertyID
// are not checked against the lead and property tables, so a dangling
// reference is stored as given. Appointments carry no UpdatedAt.
type Appointment struct {
	ID         int64     `json:"id"`
	LeadID     int64     `json:"leadId"`
	PropertyID int64     `json:"propertyId"`
	Date       time.Time `json:"date"`
	Status     string    `json:"status"`
	Notes      *string   `json:"notes"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Normalize fills the defaults of a new record.
func (a *Appointment) Normalize() {
	if a.Status == "" {
		a.Status = AppointmentScheduled
	}
	a.Date = StoredTime(a.Date)
}

// AppointmentPatch carries the caller-supplied fields of an Appointment.
type AppointmentPatch struct {
	LeadID     *int64     `json:"leadId,omitempty"`
	PropertyID *int64     `json:"propertyId,omitempty"`
	Date       *time.Time `json:"date,omitempty"`
	Status     *string    `json:"status,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
}

// Apply copies every non-nil field onto a.
func (ap AppointmentPatch) Apply(a *Appointment) {
	if ap.LeadID != nil {
		a.LeadID = *ap.LeadID
	}
	if ap.PropertyID != nil {
		a.PropertyID = *ap.PropertyID
	}
	if ap.Date != nil {
		a.Date = StoredTime(*ap.Date)
	}
	if ap.Status != nil {
		a.Status = *ap.Status
	}
	if ap.Notes != nil {
		a.Notes = Ptr(*ap.Notes)
	}
}

// New builds a record from the patch with defaults for absent fields.
func (ap AppointmentPatch) New() Appointment {
	a := Appointment{}
	ap.Apply(&a)
	a.Normalize()
	return a
}

// Validate checks the patch. Lead, property and date are required on create.
// Any date is accepted, past dates included.
func (ap AppointmentPatch) Validate(create bool) error {
	var v validator
	v.required("leadId", ap.LeadID != nil, create)
	v.positive("leadId", ap.LeadID)
	v.required("propertyId", ap.PropertyID != nil, create)
	v.positive("propertyId", ap.PropertyID)
	v.required("date", ap.Date != nil, create)
	v.oneOf("status", ap.Status, AppointmentStatuses)
	return v.err()
}

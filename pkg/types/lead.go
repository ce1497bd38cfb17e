package types

import "time"

// InterestAny marks a lead open to every property type.
const InterestAny = "any"

// Lead pipeline stages.
const (
	LeadNew        = "new"
	LeadQualified  = "qualified"
	LeadInterested = "interested"
	LeadScheduled  = "scheduled"
	LeadClosed     = "closed"
	LeadLost       = "lost"
)

// LeadStages lists the pipeline stages in order.
var LeadStages = []string{LeadNew, LeadQualified, LeadInterested, LeadScheduled, LeadClosed, LeadLost}

// LeadInterests lists the accepted values of Lead.Interest.
var LeadInterests = append(append([]string{}, PropertyTypes...), InterestAny)

// Lead is a prospective buyer or tenant. Optional fields are nil when
// absent, so an omitted budget is distinguishable from a zero budget.
type Lead struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Phone             *string    `json:"phone"`
	Interest          string     `json:"interest"`
	Budget            *int64     `json:"budget"`
	PreferredLocation *string    `json:"preferredLocation"`
	Stage             string     `json:"stage"`
	Notes             *string    `json:"notes"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	LastContactDate   *time.Time `json:"lastContactDate"`
}

// Normalize fills the defaults of a new record.
func (l *Lead) Normalize() {
	if l.Stage == "" {
		l.Stage = LeadNew
	}
	if l.LastContactDate != nil {
		l.LastContactDate = Ptr(StoredTime(*l.LastContactDate))
	}
}

// LeadPatch carries the caller-supplied fields of a Lead. A JSON null decodes
// to a nil field, so it leaves the stored value unchanged.
type LeadPatch struct {
	Name              *string    `json:"name,omitempty"`
	Email             *string    `json:"email,omitempty"`
	Phone             *string    `json:"phone,omitempty"`
	Interest          *string    `json:"interest,omitempty"`
	Budget            *int64     `json:"budget,omitempty"`
	PreferredLocation *string    `json:"preferredLocation,omitempty"`
	Stage             *string    `json:"stage,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
	LastContactDate   *time.Time `json:"lastContactDate,omitempty"`
}

// Apply copies every non-nil field onto l.
func (lp LeadPatch) Apply(l *Lead) {
	if lp.Name != nil {
		l.Name = *lp.Name
	}
	if lp.Email != nil {
		l.Email = *lp.Email
	}
	if lp.Phone != nil {
		l.Phone = Ptr(*lp.Phone)
	}
	if lp.Interest != nil {
		l.Interest = *lp.Interest
	}
	if lp.Budget != nil {
		l.Budget = Ptr(*lp.Budget)
	}
	if lp.PreferredLocation != nil {
		l.PreferredLocation = Ptr(*lp.PreferredLocation)
	}
	if lp.Stage != nil {
		l.Stage = *lp.Stage
	}
	if lp.Notes != nil {
		l.Notes = Ptr(*lp.Notes)
	}
	if lp.LastContactDate != nil {
		l.LastContactDate = Ptr(StoredTime(*lp.LastContactDate))
	}
}

// New builds a record from the patch with defaults for absent fields.
func (lp LeadPatch) New() Lead {
	l := Lead{}
	lp.Apply(&l)
	l.Normalize()
	return l
}

// Validate checks the patch. Name, email and interest are required on create.
func (lp LeadPatch) Validate(create bool) error {
	var v validator
	v.text("name", lp.Name, create)
	v.text("email", lp.Email, create)
	v.email("email", lp.Email)
	v.required("interest", lp.Interest != nil, create)
	v.oneOf("interest", lp.Interest, LeadInterests)
	v.nonNegative("budget", lp.Budget)
	v.oneOf("stage", lp.Stage, LeadStages)
	return v.err()
}

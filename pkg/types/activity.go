package types

import "time"

// Entity kinds recorded on activities.
const (
	KindProperty    = "property"
	KindLead        = "lead"
	KindAppointment = "appointment"
	KindWorkflow    = "workflow"
)

// Mutation actions recorded on activities.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Activity is one immutable audit-trail entry. Type is "{kind}-{action}",
// for example "property-created". Description is generated by the store.
type Activity struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	EntityID    *int64    `json:"entityId"`
	EntityType  *string   `json:"entityType"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ActivityType joins an entity kind and an action into an activity type.
func ActivityType(kind, action string) string {
	return kind + "-" + action
}

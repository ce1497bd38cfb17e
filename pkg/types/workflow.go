package types

import "time"

// Workflow statuses.
const (
	WorkflowActive = "active"
	WorkflowPaused = "paused"
	WorkflowError  = "error"
)

// WorkflowStatuses lists the accepted workflow statuses.
var WorkflowStatuses = []string{WorkflowActive, WorkflowPaused, WorkflowError}

// DefaultWorkflowProgress is the progress of a workflow created without one.
const DefaultWorkflowProgress = 100

// Workflow is an automation record. Type is a free-text category.
type Workflow struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	Progress    int       `json:"progress"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// WorkflowPatch carries the caller-supplied fields of a Workflow.
type WorkflowPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Progress    *int    `json:"progress,omitempty"`
	Type        *string `json:"type,omitempty"`
}

// Apply copies every non-nil field onto w.
func (wp WorkflowPatch) Apply(w *Workflow) {
	if wp.Name != nil {
		w.Name = *wp.Name
	}
	if wp.Description != nil {
		w.Description = Ptr(*wp.Description)
	}
	if wp.Status != nil {
		w.Status = *wp.Status
	}
	if wp.Progress != nil {
		w.Progress = *wp.Progress
	}
	if wp.Type != nil {
		w.Type = *wp.Type
	}
}

// New builds a record from the patch. An absent progress defaults to
// DefaultWorkflowProgress and an absent status to WorkflowActive.
func (wp WorkflowPatch) New() Workflow {
	w := Workflow{Status: WorkflowActive, Progress: DefaultWorkflowProgress}
	wp.Apply(&w)
	return w
}

// Validate checks the patch. Name and type are required on create.
func (wp WorkflowPatch) Validate(create bool) error {
	var v validator
	v.text("name", wp.Name, create)
	v.text("type", wp.Type, create)
	v.oneOf("status", wp.Status, WorkflowStatuses)
	v.between("progress", wp.Progress, 0, 100)
	return v.err()
}

// Normalize fills the defaults of a new record.
func (w *Workflow) Normalize() {
	if w.Status == "" {
		w.Status = WorkflowActive
	}
}

package types

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyPatchValidate(t *testing.T) {
	full := PropertyPatch{
		Title:       Ptr("Flat A"),
		Description: Ptr("Two rooms near the park"),
		Type:        Ptr(PropertyTypeApartment),
		Price:       Ptr(int64(100000)),
		Location:    Ptr("Madrid"),
		Address:     Ptr("Calle Mayor 1"),
	}

	tests := []struct {
		name       string
		patch      PropertyPatch
		create     bool
		wantFields []string
	}{
		{name: "complete create is valid", patch: full, create: true},
		{name: "empty update is valid", patch: PropertyPatch{}, create: false},
		{
			name:       "empty create lists required fields",
			patch:      PropertyPatch{},
			create:     true,
			wantFields: []string{"title", "description", "type", "price", "location", "address"},
		},
		{
			name:       "unknown type is rejected",
			patch:      PropertyPatch{Type: Ptr("castle")},
			wantFields: []string{"type"},
		},
		{
			name:       "negative price and bedrooms are rejected",
			patch:      PropertyPatch{Price: Ptr(int64(-1)), Bedrooms: Ptr(int64(-2))},
			wantFields: []string{"price", "bedrooms"},
		},
		{
			name:       "blank title is rejected on update",
			patch:      PropertyPatch{Title: Ptr("  ")},
			wantFields: []string{"title"},
		},
		{
			name:       "unknown status is rejected",
			patch:      PropertyPatch{Status: Ptr("demolished")},
			wantFields: []string{"status"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate(tt.create)
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidData))

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			var fields []string
			for _, e := range verrs {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestLeadPatchValidate(t *testing.T) {
	tests := []struct {
		name    string
		patch   LeadPatch
		create  bool
		wantErr bool
	}{
		{
			name:   "minimal lead",
			patch:  LeadPatch{Name: Ptr("Lucía"), Email: Ptr("lucia@example.com"), Interest: Ptr(InterestAny)},
			create: true,
		},
		{
			name:    "malformed email",
			patch:   LeadPatch{Email: Ptr("not-an-email")},
			wantErr: true,
		},
		{
			name:    "interest outside property types",
			patch:   LeadPatch{Interest: Ptr("boat")},
			wantErr: true,
		},
		{
			name:    "unknown stage",
			patch:   LeadPatch{Stage: Ptr("won")},
			wantErr: true,
		},
		{
			name:    "missing email on create",
			patch:   LeadPatch{Name: Ptr("Lucía"), Interest: Ptr(InterestAny)},
			create:  true,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate(tt.create)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidData)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAppointmentPatchValidate(t *testing.T) {
	past := time.Date(2001, 1, 1, 10, 0, 0, 0, time.UTC)

	assert.NoError(t, AppointmentPatch{LeadID: Ptr(int64(1)), PropertyID: Ptr(int64(2)), Date: &past}.Validate(true),
		"past dates are accepted")
	assert.ErrorIs(t, AppointmentPatch{LeadID: Ptr(int64(0))}.Validate(false), ErrInvalidData)
	assert.ErrorIs(t, AppointmentPatch{Status: Ptr("late")}.Validate(false), ErrInvalidData)
	assert.ErrorIs(t, AppointmentPatch{LeadID: Ptr(int64(1))}.Validate(true), ErrInvalidData)
}

func TestWorkflowPatchValidate(t *testing.T) {
	assert.NoError(t, WorkflowPatch{Name: Ptr("Sync"), Type: Ptr("portal-sync")}.Validate(true))
	assert.ErrorIs(t, WorkflowPatch{Progress: Ptr(101)}.Validate(false), ErrInvalidData)
	assert.ErrorIs(t, WorkflowPatch{Progress: Ptr(-1)}.Validate(false), ErrInvalidData)
	assert.ErrorIs(t, WorkflowPatch{Status: Ptr("stopped")}.Validate(false), ErrInvalidData)
}

func TestPatchNewAppliesDefaults(t *testing.T) {
	p := PropertyPatch{Title: Ptr("Flat A")}.New()
	assert.Equal(t, PropertyAvailable, p.Status)
	assert.Equal(t, []string{}, p.Features)
	assert.Equal(t, []string{}, p.Images)

	l := LeadPatch{Name: Ptr("Lucía")}.New()
	assert.Equal(t, LeadNew, l.Stage)
	assert.Nil(t, l.Budget)

	a := AppointmentPatch{LeadID: Ptr(int64(3))}.New()
	assert.Equal(t, AppointmentScheduled, a.Status)

	w := WorkflowPatch{Name: Ptr("Sync")}.New()
	assert.Equal(t, WorkflowActive, w.Status)
	assert.Equal(t, DefaultWorkflowProgress, w.Progress)

	w = WorkflowPatch{Name: Ptr("Sync"), Progress: Ptr(0)}.New()
	assert.Equal(t, 0, w.Progress, "explicit zero progress is kept")
}

func TestPatchApplyLeavesOmittedFields(t *testing.T) {
	p := Property{
		Title:    "Flat A",
		Price:    100000,
		Status:   PropertyAvailable,
		Features: []string{"lift"},
	}
	PropertyPatch{Status: Ptr(PropertySold)}.Apply(&p)

	assert.Equal(t, "Flat A", p.Title)
	assert.Equal(t, int64(100000), p.Price)
	assert.Equal(t, PropertySold, p.Status)
	assert.Equal(t, []string{"lift"}, p.Features)
}

func TestPatchApplyCopiesSlices(t *testing.T) {
	features := []string{"lift", "terrace"}
	var p Property
	PropertyPatch{Features: &features}.Apply(&p)
	features[0] = "garage"

	assert.Equal(t, []string{"lift", "terrace"}, p.Features)
}

func TestLeadPatchDecodesOmittedBudgetAsNil(t *testing.T) {
	var lp LeadPatch
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Lucía","email":"l@example.com","interest":"any"}`), &lp))
	assert.Nil(t, lp.Budget)

	l := lp.New()
	data, err := json.Marshal(l)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"budget":null`)
}

func TestActivityType(t *testing.T) {
	assert.Equal(t, "property-created", ActivityType(KindProperty, ActionCreated))
	assert.Equal(t, "workflow-deleted", ActivityType(KindWorkflow, ActionDeleted))
}

func TestUserHidesPasswordHash(t *testing.T) {
	data, err := json.Marshal(User{Username: "admin", PasswordHash: "secret"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
}

func TestStoredTime(t *testing.T) {
	in := time.Date(2024, 5, 17, 16, 30, 0, 123456789, time.FixedZone("CEST", 2*3600))
	want := time.Date(2024, 5, 17, 14, 30, 0, 123456000, time.UTC)
	assert.Equal(t, want, StoredTime(in))
}

func TestPatchesStoreCallerTimesInUTC(t *testing.T) {
	in := time.Date(2024, 5, 17, 16, 30, 0, 123456789, time.FixedZone("CEST", 2*3600))
	want := StoredTime(in)

	a := AppointmentPatch{Date: &in}.New()
	assert.Equal(t, want, a.Date)

	var l Lead
	LeadPatch{LastContactDate: &in}.Apply(&l)
	require.NotNil(t, l.LastContactDate)
	assert.Equal(t, want, *l.LastContactDate)
}

func TestExplicitNullLeavesOptionalFieldUnchanged(t *testing.T) {
	var lp LeadPatch
	require.NoError(t, json.Unmarshal([]byte(`{"budget":null,"notes":null}`), &lp))

	l := Lead{Budget: Ptr(int64(150000)), Notes: Ptr("call after 6pm")}
	lp.Apply(&l)
	require.NotNil(t, l.Budget)
	assert.Equal(t, int64(150000), *l.Budget)
	require.NotNil(t, l.Notes)
	assert.Equal(t, "call after 6pm", *l.Notes)
}

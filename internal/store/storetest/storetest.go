// Package storetest holds the behaviour every store backend must share.
// Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/realdesk/internal/store"
	"github.com/mesh-intelligence/realdesk/pkg/types"
)

// OpenFunc returns a fresh, empty backend for one test.
type OpenFunc func(t *testing.T) store.Backend

// Clock is a deterministic clock that advances one second per reading.
type Clock struct {
	mu  sync.Mutex
	cur time.Time
}

// NewClock starts a clock at a fixed instant.
func NewClock() *Clock {
	return &Clock{cur: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

// Now returns the current reading and advances the clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.cur
	c.cur = c.cur.Add(time.Second)
	return now
}

// PropertyPatch returns a complete, valid property patch with fake values.
func PropertyPatch() types.PropertyPatch {
	return types.PropertyPatch{
		Title:       types.Ptr(gofakeit.Street()),
		Description: types.Ptr(gofakeit.Sentence(8)),
		Type:        types.Ptr(types.PropertyTypeApartment),
		Price:       types.Ptr(int64(gofakeit.Number(50000, 900000))),
		Location:    types.Ptr(gofakeit.City()),
		Address:     types.Ptr(gofakeit.Address().Address),
		Bedrooms:    types.Ptr(int64(gofakeit.Number(1, 5))),
		Features:    &[]string{"lift", "terrace"},
		Images:      &[]string{gofakeit.URL()},
	}
}

// LeadPatch returns a valid lead patch without a budget.
func LeadPatch() types.LeadPatch {
	return types.LeadPatch{
		Name:     types.Ptr(gofakeit.Name()),
		Email:    types.Ptr(gofakeit.Email()),
		Phone:    types.Ptr(gofakeit.Phone()),
		Interest: types.Ptr(types.InterestAny),
	}
}

// AppointmentPatch returns a valid appointment patch for the given ids.
func AppointmentPatch(leadID, propertyID int64) types.AppointmentPatch {
	date := time.Date(2024, 5, 17, 16, 30, 0, 0, time.UTC)
	return types.AppointmentPatch{
		LeadID:     &leadID,
		PropertyID: &propertyID,
		Date:       &date,
		Notes:      types.Ptr(gofakeit.Sentence(5)),
	}
}

// WorkflowPatch returns a valid workflow patch.
func WorkflowPatch() types.WorkflowPatch {
	return types.WorkflowPatch{
		Name: types.Ptr(gofakeit.BuzzWord()),
		Type: types.Ptr("notification"),
	}
}

// Run exercises the store contract against backends produced by open.
func Run(t *testing.T, open OpenFunc) {
	t.Helper()

	newStore := func(t *testing.T, opts ...store.Option) (*store.Store, *Clock) {
		clock := NewClock()
		s := store.New(open(t), append([]store.Option{store.WithClock(clock.Now)}, opts...)...)
		t.Cleanup(func() { s.Close() })
		return s, clock
	}

	t.Run("create then get returns stored record and one created activity", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()

		checkCreate(t, s, s.Properties(), PropertyPatch(), types.KindProperty, func(p types.Property) int64 { return p.ID })
		checkCreate(t, s, s.Leads(), LeadPatch(), types.KindLead, func(l types.Lead) int64 { return l.ID })
		checkCreate(t, s, s.Appointments(), AppointmentPatch(1, 1), types.KindAppointment, func(a types.Appointment) int64 { return a.ID })
		checkCreate(t, s, s.Workflows(), WorkflowPatch(), types.KindWorkflow, func(w types.Workflow) int64 { return w.ID })

		acts, err := s.Activities().List(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, acts, 4)
	})

	t.Run("empty update refreshes updatedAt and logs once", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()

		created, err := s.Properties().Create(ctx, PropertyPatch().New())
		require.NoError(t, err)

		updated, ok, err := s.Properties().Update(ctx, created.ID, types.PropertyPatch{})
		require.NoError(t, err)
		require.True(t, ok)

		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
		assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
		want := created
		want.UpdatedAt = updated.UpdatedAt
		assert.Empty(t, cmp.Diff(want, updated))

		acts, err := s.Activities().List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, acts, 2)
		assert.Equal(t, "property-updated", acts[0].Type)
		assert.Equal(t, created.ID, *acts[0].EntityID)
	})

	t.Run("appointment update keeps createdAt and has no updatedAt", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()

		created, err := s.Appointments().Create(ctx, AppointmentPatch(1, 2).New())
		require.NoError(t, err)

		updated, ok, err := s.Appointments().Update(ctx, created.ID, types.AppointmentPatch{Status: types.Ptr(types.AppointmentCompleted)})
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, types.AppointmentCompleted, updated.Status)
		assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	})

	t.Run("update of missing id reports absent and logs nothing", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()

		_, ok, err := s.Leads().Update(ctx, 42, types.LeadPatch{Name: types.Ptr("Nobody")})
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = s.Workflows().Update(ctx, 42, types.WorkflowPatch{})
		require.NoError(t, err)
		assert.False(t, ok)

		acts, err := s.Activities().List(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, acts)
	})

	t.Run("delete of missing id returns false and logs nothing", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()

		ok, err := s.Appointments().Delete(ctx, 7)
		require.NoError(t, err)
		assert.False(t, ok)

		acts, err := s.Activities().List(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, acts)
	})

	t.Run("get of missing id reports absent without error", func(t *testing.T) {
		s, _ := newStore(t)

		_, ok, err := s.Properties().Get(context.Background(), 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("deleted ids are never reused", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()

		first, err := s.Workflows().Create(ctx, WorkflowPatch().New())
		require.NoError(t, err)
		second, err := s.Workflows().Create(ctx, WorkflowPatch().New())
		require.NoError(t, err)

		ok, err := s.Workflows().Delete(ctx, second.ID)
		require.NoError(t, err)
		require.True(t, ok)

		_, found, err := s.Workflows().Get(ctx, second.ID)
		require.NoError(t, err)
		assert.False(t, found)

		third, err := s.Workflows().Create(ctx, WorkflowPatch().New())
		require.NoError(t, err)
		assert.Greater(t, third.ID, second.ID)
		assert.Greater(t, second.ID, first.ID)
	})

	t.Run("ids are independent per kind", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()

		p, err := s.Properties().Create(ctx, PropertyPatch().New())
		require.NoError(t, err)
		l, err := s.Leads().Create(ctx, LeadPatch().New())
		require.NoError(t, err)
		assert.Equal(t, int64(1), p.ID)
		assert.Equal(t, int64(1), l.ID)
	})

	t.Run("list returns records in id order", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			_, err := s.Leads().Create(ctx, LeadPatch().New())
			require.NoError(t, err)
		}
		leads, err := s.Leads().List(ctx)
		require.NoError(t, err)
		require.Len(t, leads, 3)
		for i, l := range leads {
			assert.Equal(t, int64(i+1), l.ID)
		}
	})

	t.Run("activity limit returns most recent first", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()

		p, err := s.Properties().Create(ctx, PropertyPatch().New())
		require.NoError(t, err)
		l, err := s.Leads().Create(ctx, LeadPatch().New())
		require.NoError(t, err)
		_, _, err = s.Properties().Update(ctx, p.ID, types.PropertyPatch{Price: types.Ptr(int64(1))})
		require.NoError(t, err)
		_, err = s.Workflows().Create(ctx, WorkflowPatch().New())
		require.NoError(t, err)
		_, err = s.Leads().Delete(ctx, l.ID)
		require.NoError(t, err)

		acts, err := s.Activities().List(ctx, 2)
		require.NoError(t, err)
		require.Len(t, acts, 2)
		assert.Equal(t, "lead-deleted", acts[0].Type)
		assert.Equal(t, "workflow-created", acts[1].Type)
		assert.True(t, acts[0].CreatedAt.After(acts[1].CreatedAt))

		all, err := s.Activities().List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, all, 5)
		for i := 1; i < len(all); i++ {
			assert.True(t, all[i-1].CreatedAt.After(all[i].CreatedAt), "activities must be strictly newest first")
		}

		more, err := s.Activities().List(ctx, 50)
		require.NoError(t, err)
		assert.Len(t, more, 5)
	})

	t.Run("activities with equal timestamps fall back to id order", func(t *testing.T) {
		fixed := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		s := store.New(open(t), store.WithClock(func() time.Time { return fixed }))
		t.Cleanup(func() { s.Close() })
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			_, err := s.Workflows().Create(ctx, WorkflowPatch().New())
			require.NoError(t, err)
		}
		acts, err := s.Activities().List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, acts, 3)
		assert.Greater(t, acts[0].ID, acts[1].ID)
		assert.Greater(t, acts[1].ID, acts[2].ID)
	})

	t.Run("full update round trips every mutable field", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()

		created, err := s.Leads().Create(ctx, LeadPatch().New())
		require.NoError(t, err)

		contact := time.Date(2024, 4, 2, 12, 0, 0, 0, time.UTC)
		full := types.LeadPatch{
			Name:              types.Ptr("María López"),
			Email:             types.Ptr("maria@example.com"),
			Phone:             types.Ptr("+34 600 000 000"),
			Interest:          types.Ptr(types.PropertyTypeLoft),
			Budget:            types.Ptr(int64(250000)),
			PreferredLocation: types.Ptr("Valencia"),
			Stage:             types.Ptr(types.LeadQualified),
			Notes:             types.Ptr("Prefers high floors"),
			LastContactDate:   &contact,
		}
		_, ok, err := s.Leads().Update(ctx, created.ID, full)
		require.NoError(t, err)
		require.True(t, ok)

		got, ok, err := s.Leads().Get(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, ok)

		want := created
		full.Apply(&want)
		want.UpdatedAt = got.UpdatedAt
		assert.Empty(t, cmp.Diff(want, got))
	})

	t.Run("full property update round trips every mutable field", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()

		created, err := s.Properties().Create(ctx, PropertyPatch().New())
		require.NoError(t, err)

		full := types.PropertyPatch{
			Title:       types.Ptr("Ático en Ruzafa"),
			Description: types.Ptr("Top floor with terrace"),
			Type:        types.Ptr(types.PropertyTypePenthouse),
			Price:       types.Ptr(int64(420000)),
			Location:    types.Ptr("Valencia"),
			Address:     types.Ptr("Calle Sueca 12"),
			Bedrooms:    types.Ptr(int64(3)),
			Bathrooms:   types.Ptr(int64(2)),
			Area:        types.Ptr(int64(110)),
			Features:    &[]string{"terrace", "air conditioning", "lift"},
			Images:      &[]string{"https://img.example.com/1.jpg", "https://img.example.com/2.jpg"},
			Status:      types.Ptr(types.PropertyReserved),
		}
		_, ok, err := s.Properties().Update(ctx, created.ID, full)
		require.NoError(t, err)
		require.True(t, ok)

		got, ok, err := s.Properties().Get(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, ok)

		want := created
		full.Apply(&want)
		want.UpdatedAt = got.UpdatedAt
		assert.Empty(t, cmp.Diff(want, got))
	})

	t.Run("full appointment update round trips every mutable field", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()

		created, err := s.Appointments().Create(ctx, AppointmentPatch(1, 1).New())
		require.NoError(t, err)

		date := time.Date(2024, 7, 9, 11, 15, 0, 0, time.UTC)
		full := types.AppointmentPatch{
			LeadID:     types.Ptr(int64(7)),
			PropertyID: types.Ptr(int64(8)),
			Date:       &date,
			Status:     types.Ptr(types.AppointmentCompleted),
			Notes:      types.Ptr("Client wants a second visit"),
		}
		_, ok, err := s.Appointments().Update(ctx, created.ID, full)
		require.NoError(t, err)
		require.True(t, ok)

		got, ok, err := s.Appointments().Get(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, ok)

		want := created
		full.Apply(&want)
		assert.Empty(t, cmp.Diff(want, got))
	})

	t.Run("full workflow update round trips every mutable field", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()

		created, err := s.Workflows().Create(ctx, WorkflowPatch().New())
		require.NoError(t, err)

		full := types.WorkflowPatch{
			Name:        types.Ptr("Portal sync"),
			Description: types.Ptr("Publishes listings to portals"),
			Status:      types.Ptr(types.WorkflowPaused),
			Progress:    types.Ptr(40),
			Type:        types.Ptr("integration"),
		}
		_, ok, err := s.Workflows().Update(ctx, created.ID, full)
		require.NoError(t, err)
		require.True(t, ok)

		got, ok, err := s.Workflows().Get(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, ok)

		want := created
		full.Apply(&want)
		want.UpdatedAt = got.UpdatedAt
		assert.Empty(t, cmp.Diff(want, got))
	})

	t.Run("stored records do not alias caller values", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()

		in := types.Property{
			Title:    "Flat A",
			Bedrooms: types.Ptr(int64(2)),
			Features: []string{"lift"},
		}
		created, err := s.Properties().Create(ctx, in)
		require.NoError(t, err)

		in.Features[0] = "changed input"
		*in.Bedrooms = 7
		created.Features[0] = "changed result"
		*created.Bedrooms = 8

		got, ok, err := s.Properties().Get(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, ok)
		_ = append(got.Features[:0], "changed get")
		*got.Bedrooms = 99

		all, err := s.Properties().List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		all[0].Features[0] = "changed list"

		again, ok, err := s.Properties().Get(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []string{"lift"}, again.Features)
		require.NotNil(t, again.Bedrooms)
		assert.Equal(t, int64(2), *again.Bedrooms)

		acts, err := s.Activities().List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, acts, 1)
		require.NotNil(t, acts[0].EntityID)
		*acts[0].EntityID = 42

		acts, err = s.Activities().List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, acts, 1)
		assert.Equal(t, created.ID, *acts[0].EntityID)
	})

	t.Run("caller supplied times are stored in UTC at microsecond precision", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()

		cest := time.FixedZone("CEST", 2*3600)
		date := time.Date(2024, 5, 17, 16, 30, 0, 123456789, cest)
		patch := AppointmentPatch(1, 1)
		patch.Date = &date
		created, err := s.Appointments().Create(ctx, patch.New())
		require.NoError(t, err)

		want := time.Date(2024, 5, 17, 14, 30, 0, 123456000, time.UTC)
		assert.Equal(t, want, created.Date)

		got, ok, err := s.Appointments().Get(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, created.Date, got.Date)

		raw, err := s.Appointments().Create(ctx, types.Appointment{LeadID: 1, PropertyID: 1, Date: date})
		require.NoError(t, err)
		assert.Equal(t, want, raw.Date)

		lead, err := s.Leads().Create(ctx, LeadPatch().New())
		require.NoError(t, err)
		updated, ok, err := s.Leads().Update(ctx, lead.ID, types.LeadPatch{LastContactDate: &date})
		require.NoError(t, err)
		require.True(t, ok)
		require.NotNil(t, updated.LastContactDate)
		assert.Equal(t, want, *updated.LastContactDate)

		stored, ok, err := s.Leads().Get(ctx, lead.ID)
		require.NoError(t, err)
		require.True(t, ok)
		require.NotNil(t, stored.LastContactDate)
		assert.Equal(t, want, *stored.LastContactDate)
	})

	t.Run("property lifecycle scenario", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()

		patch := PropertyPatch()
		patch.Title = types.Ptr("Flat A")
		patch.Price = types.Ptr(int64(100000))
		patch.Status = types.Ptr(types.PropertyAvailable)

		created, err := s.Properties().Create(ctx, patch.New())
		require.NoError(t, err)
		assert.Equal(t, types.PropertyAvailable, created.Status)

		acts, err := s.Activities().List(ctx, 1)
		require.NoError(t, err)
		require.Len(t, acts, 1)
		assert.Equal(t, "property-created", acts[0].Type)
		assert.Contains(t, acts[0].Description, "Flat A")

		_, ok, err := s.Properties().Update(ctx, created.ID, types.PropertyPatch{Status: types.Ptr(types.PropertySold)})
		require.NoError(t, err)
		require.True(t, ok)

		acts, err = s.Activities().List(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "property-updated", acts[0].Type)

		got, ok, err := s.Properties().Get(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, types.PropertySold, got.Status)
		assert.Equal(t, int64(100000), got.Price)

		deleted, err := s.Properties().Delete(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, deleted)

		_, ok, err = s.Properties().Get(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		acts, err = s.Activities().List(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "property-deleted", acts[0].Type)
		assert.Equal(t, created.ID, *acts[0].EntityID)
		assert.Equal(t, types.KindProperty, *acts[0].EntityType)
		assert.Contains(t, acts[0].Description, "Flat A")
	})

	t.Run("lead created without budget keeps it absent", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()

		created, err := s.Leads().Create(ctx, LeadPatch().New())
		require.NoError(t, err)

		got, ok, err := s.Leads().Get(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Nil(t, got.Budget)
		assert.Equal(t, types.LeadNew, got.Stage)
	})

	t.Run("appointments may reference missing leads and properties", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()

		created, err := s.Appointments().Create(ctx, AppointmentPatch(999, 998).New())
		require.NoError(t, err)
		assert.Equal(t, int64(999), created.LeadID)
		assert.Equal(t, int64(998), created.PropertyID)
	})

	t.Run("appointment activity mentions the date", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()

		_, err := s.Appointments().Create(ctx, AppointmentPatch(1, 1).New())
		require.NoError(t, err)

		acts, err := s.Activities().List(ctx, 1)
		require.NoError(t, err)
		require.Len(t, acts, 1)
		assert.Equal(t, "New appointment scheduled for 2024-05-17", acts[0].Description)
	})

	t.Run("hooks see each committed activity once", func(t *testing.T) {
		var mu sync.Mutex
		var seen []string
		s, _ := newStore(t, store.WithActivityHook(func(_ context.Context, a types.Activity) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, a.Type)
		}))
		ctx := context.Background()

		w, err := s.Workflows().Create(ctx, WorkflowPatch().New())
		require.NoError(t, err)
		_, _, err = s.Workflows().Update(ctx, w.ID, types.WorkflowPatch{Progress: types.Ptr(50)})
		require.NoError(t, err)
		_, _, err = s.Workflows().Update(ctx, w.ID+100, types.WorkflowPatch{})
		require.NoError(t, err)
		_, err = s.Workflows().Delete(ctx, w.ID)
		require.NoError(t, err)

		assert.Equal(t, []string{"workflow-created", "workflow-updated", "workflow-deleted"}, seen)
	})

	t.Run("concurrent creates get distinct ids and one activity each", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()

		const n = 16
		ids := make(chan int64, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				p, err := s.Properties().Create(ctx, PropertyPatch().New())
				if assert.NoError(t, err) {
					ids <- p.ID
				}
			}()
		}
		wg.Wait()
		close(ids)

		unique := map[int64]bool{}
		for id := range ids {
			unique[id] = true
		}
		assert.Len(t, unique, n)

		acts, err := s.Activities().List(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, acts, n)
	})

	t.Run("users enforce unique usernames", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()

		u, err := s.Users().Create(ctx, types.User{Username: "carla", PasswordHash: "x", FullName: "Carla Ruiz", Role: types.RoleUser})
		require.NoError(t, err)
		assert.Positive(t, u.ID)

		_, err = s.Users().Create(ctx, types.User{Username: "carla", PasswordHash: "y", FullName: "Other", Role: types.RoleUser})
		assert.ErrorIs(t, err, types.ErrConflict)

		got, err := s.Users().ByUsername(ctx, "carla")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, "x", got.PasswordHash)

		byID, err := s.Users().Get(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Carla Ruiz", byID.FullName)

		_, err = s.Users().Get(ctx, u.ID+1)
		assert.ErrorIs(t, err, types.ErrNotFound)
		_, err = s.Users().ByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, types.ErrNotFound)

		count, err := s.Users().Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		acts, err := s.Activities().List(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, acts, "users are not audited")
	})

	t.Run("seed creates admin and sample workflows once", func(t *testing.T) {
		s, _ := newStore(t)
		ctx := context.Background()
		hash := func(pw string) (string, error) { return "hashed:" + pw, nil }

		require.NoError(t, store.Seed(ctx, s, hash, nil))
		require.NoError(t, store.Seed(ctx, s, hash, nil))

		admin, err := s.Users().ByUsername(ctx, store.SeedAdminUsername)
		require.NoError(t, err)
		assert.Equal(t, types.RoleAdmin, admin.Role)
		assert.Equal(t, "Ana García", admin.FullName)
		assert.Equal(t, "hashed:"+store.SeedAdminPassword, admin.PasswordHash)

		workflows, err := s.Workflows().List(ctx)
		require.NoError(t, err)
		require.Len(t, workflows, 4)
		assert.Equal(t, "Respuesta automática a leads", workflows[0].Name)
		assert.Equal(t, types.WorkflowPaused, workflows[2].Status)
		assert.Equal(t, 60, workflows[2].Progress)
		assert.Equal(t, types.WorkflowError, workflows[3].Status)

		acts, err := s.Activities().List(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, acts, 4)
	})

	t.Run("ping succeeds on an open backend", func(t *testing.T) {
		s, _ := newStore(t)
		assert.NoError(t, s.Ping(context.Background()))
	})
}

// checkCreate creates a record from patch and checks the stored record and
// its activity.
func checkCreate[E any, P types.Patch[E]](t *testing.T, s types.Store, table types.Table[E, P], patch P, kind string, id func(E) int64) {
	t.Helper()
	ctx := context.Background()

	created, err := table.Create(ctx, patch.New())
	require.NoError(t, err)
	require.Positive(t, id(created))

	got, ok, err := table.Get(ctx, id(created))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, cmp.Diff(created, got), "stored %s differs from created record", kind)

	acts, err := s.Activities().List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, fmt.Sprintf("%s-created", kind), acts[0].Type)
	require.NotNil(t, acts[0].EntityID)
	assert.Equal(t, id(created), *acts[0].EntityID)
	require.NotNil(t, acts[0].EntityType)
	assert.Equal(t, kind, *acts[0].EntityType)
}

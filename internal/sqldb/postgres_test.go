package sqldb

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/realdesk/internal/store"
	"github.com/mesh-intelligence/realdesk/pkg/types"
)

const insertActivitySQL = "INSERT INTO activities (type, description, entity_id, entity_type, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id"

func newMockPostgres(t *testing.T) (*Backend, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, Postgres), mock
}

func flatA() types.Property {
	return types.PropertyPatch{
		Title:       types.Ptr("Flat A"),
		Description: types.Ptr("Bright two-bedroom flat"),
		Type:        types.Ptr(types.PropertyTypeApartment),
		Price:       types.Ptr(int64(250000)),
		Location:    types.Ptr("Madrid"),
		Address:     types.Ptr("Calle Mayor 1"),
	}.New()
}

func TestPostgresCreateCommitsEntityAndActivityTogether(t *testing.T) {
	b, mock := newMockPostgres(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO properties (title, description, type")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta(insertActivitySQL)).
		WithArgs("property-created", "Added property Flat A", int64(7), "property", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectCommit()

	s := store.New(b)
	p, err := s.Properties().Create(context.Background(), flatA())
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFailedActivityRollsBack(t *testing.T) {
	b, mock := newMockPostgres(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO properties")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta(insertActivitySQL)).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	s := store.New(b)
	_, err := s.Properties().Create(context.Background(), flatA())
	require.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetMissingIDReportsAbsent(t *testing.T) {
	b, mock := newMockPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM leads WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, ok, err := b.Leads().Find(context.Background(), 9)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresActivitiesAppliesLimit(t *testing.T) {
	b, mock := newMockPostgres(t)
	at := time.Date(2024, 5, 17, 16, 30, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM activities ORDER BY created_at DESC, id DESC LIMIT $1")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "description", "entity_id", "entity_type", "created_at"}).
			AddRow(2, "lead-created", "New lead interested: Lucía", 4, "lead", at).
			AddRow(1, "property-deleted", "Deleted property Flat A", nil, nil, at.Add(-time.Minute)))

	acts, err := b.Activities(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, acts, 2)
	assert.Equal(t, "lead-created", acts[0].Type)
	require.NotNil(t, acts[0].EntityID)
	assert.Equal(t, int64(4), *acts[0].EntityID)
	assert.Nil(t, acts[1].EntityType)
	assert.True(t, acts[1].CreatedAt.Equal(at.Add(-time.Minute)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUniqueViolationIsConflict(t *testing.T) {
	b, mock := newMockPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, Message: "duplicate key value"})

	_, err := b.Users().Create(context.Background(), types.User{Username: "admin"})
	assert.ErrorIs(t, err, types.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMissingUserIsNotFound(t *testing.T) {
	b, mock := newMockPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := b.Users().ByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestRebind(t *testing.T) {
	q := "UPDATE leads SET name = ?, email = ? WHERE id = ?"
	assert.Equal(t, q, SQLite.rebind(q))
	assert.Equal(t, "UPDATE leads SET name = $1, email = $2 WHERE id = $3", Postgres.rebind(q))
}

func TestSQLTimeScan(t *testing.T) {
	want := time.Date(2024, 5, 17, 16, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		src  any
	}{
		{"fixed-width text", "2024-05-17T16:30:00.000000Z"},
		{"rfc3339 bytes", []byte("2024-05-17T18:30:00+02:00")},
		{"native", want.In(time.FixedZone("CEST", 2*3600))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var st sqlTime
			require.NoError(t, st.Scan(tt.src))
			assert.True(t, st.Valid)
			assert.True(t, st.Time.Equal(want))
			assert.Equal(t, time.UTC, st.Time.Location())
		})
	}

	var st sqlTime
	require.NoError(t, st.Scan(nil))
	assert.Nil(t, st.ptr())
	assert.Error(t, st.Scan("yesterday"))
}

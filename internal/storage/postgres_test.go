package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeDesignAi/internal/design"
)

type execCall struct {
	sql  string
	args []any
}

type fakeRow struct {
	payload   []byte
	updatedAt time.Time
	err       error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*[]byte) = r.payload
	*dest[1].(*time.Time) = r.updatedAt
	return nil
}

type fakeDB struct {
	execs    []execCall
	affected string
	row      fakeRow
	queried  []any
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag(f.affected), nil
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	f.queried = args
	return f.row
}

func newFakeStore(db *fakeDB, ttl time.Duration, now time.Time) *PostgresStore {
	return &PostgresStore{db: db, ttl: ttl, now: func() time.Time { return now }}
}

func TestPostgresSaveUpsertsAndPurges(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	db := &fakeDB{}
	store := newFakeStore(db, time.Hour, now)

	saved, err := store.Save(context.Background(), Session{
		Style:    "Modern",
		Document: design.Document{Markdown: "# plan", Source: design.SourceAPI},
	})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	assert.Equal(t, now, saved.UpdatedAt)

	require.Len(t, db.execs, 2)
	assert.True(t, strings.HasPrefix(db.execs[0].sql, "INSERT INTO design_sessions"))
	assert.Equal(t, saved.ID, db.execs[0].args[0])
	assert.Contains(t, string(db.execs[0].args[1].([]byte)), `"markdown":"# plan"`)
	assert.True(t, strings.HasPrefix(db.execs[1].sql, "DELETE FROM design_sessions WHERE updated_at"))
	assert.Equal(t, now.Add(-time.Hour), db.execs[1].args[0])
}

func TestPostgresGetDecodesPayload(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	db := &fakeDB{row: fakeRow{
		payload:   []byte(`{"style":"Rustic","document":{"markdown":"# cabin","source":"cache"},"image":"https://x/y.png"}`),
		updatedAt: now.Add(-time.Minute),
	}}
	store := newFakeStore(db, 0, now)

	got, err := store.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", got.ID)
	assert.Equal(t, "Rustic", got.Style)
	assert.Equal(t, design.SourceCache, got.Document.Source)
	assert.Equal(t, now.Add(-time.Minute), got.UpdatedAt)
	assert.Equal(t, []any{"abc", time.Time{}}, db.queried)
}

func TestPostgresMissingRows(t *testing.T) {
	db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}, affected: "DELETE 0"}
	store := newFakeStore(db, time.Hour, time.Now())

	_, err := store.Get(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(context.Background(), "gone"), ErrNotFound)

	db.affected = "DELETE 1"
	assert.NoError(t, store.Delete(context.Background(), "present"))

	db.row = fakeRow{err: errors.New("connection reset")}
	_, err = store.Get(context.Background(), "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestMigrationsAreEmbedded(t *testing.T) {
	up, err := migrationsFS.ReadFile("migrations/000001_design_sessions.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "CREATE TABLE IF NOT EXISTS design_sessions")
}

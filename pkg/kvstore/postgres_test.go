package kvstore

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresMock(t *testing.T) (*Postgres, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresWithDB(sqlx.NewDb(db, "sqlmock")), mock, func() { db.Close() }
}

func TestPostgresGet(t *testing.T) {
	store, mock, cleanup := newPostgresMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_entries WHERE key = $1")).
		WithArgs("periods").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`[]`))

	value, err := store.Get(context.Background(), "periods")
	require.NoError(t, err)
	assert.Equal(t, `[]`, value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetMissingKey(t *testing.T) {
	store, mock, cleanup := newPostgresMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_entries WHERE key = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSetUpserts(t *testing.T) {
	store, mock, cleanup := newPostgresMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO kv_entries").
		WithArgs("lecturers", `[{"id":1}]`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Set(context.Background(), "lecturers", `[{"id":1}]`))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRemove(t *testing.T) {
	store, mock, cleanup := newPostgresMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv_entries WHERE key IN ($1, $2)")).
		WithArgs("evaluations_lecturer", "evaluations_facility").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, store.Remove(context.Background(), "evaluations_lecturer", "evaluations_facility"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

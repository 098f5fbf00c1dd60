package postgres

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yugash007/nexel-api/internal/store"
)

func newStoreMock(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return New(sqlx.NewDb(db, "sqlmock")), mock, func() { db.Close() }
}

func TestGetDecodesDocument(t *testing.T) {
	s, mock, cleanup := newStoreMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{"id":"c1","title":"Go Basics"}`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM records WHERE collection = $1 AND id = $2")).
		WithArgs("courses", "c1").
		WillReturnRows(rows)

	var got struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	require.NoError(t, s.Get(context.Background(), "courses", "c1", &got))
	assert.Equal(t, "Go Basics", got.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotFound(t *testing.T) {
	s, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT data FROM records").
		WithArgs("courses", "missing").
		WillReturnRows(sqlmock.NewRows([]string{"data"}))

	var got map[string]interface{}
	err := s.Get(context.Background(), "courses", "missing", &got)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFindUsesContainmentFilter(t *testing.T) {
	s, mock, cleanup := newStoreMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"data"}).
		AddRow([]byte(`{"id":"a1","course_id":"c1"}`)).
		AddRow([]byte(`{"id":"a2","course_id":"c1"}`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM records WHERE collection = $1 AND data @> $2::jsonb ORDER BY seq")).
		WithArgs("assignments", []byte(`{"course_id":"c1"}`)).
		WillReturnRows(rows)

	var got []struct {
		ID       string `json:"id"`
		CourseID string `json:"course_id"`
	}
	require.NoError(t, s.Find(context.Background(), "assignments", store.Filter{"course_id": "c1"}, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "a1", got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertMapsUniqueViolation(t *testing.T) {
	s, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO records").
		WithArgs("submissions", "s1", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505"})

	err := s.Insert(context.Background(), "submissions", "s1", map[string]string{"assignment_id": "a1"})
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestInsertSucceeds(t *testing.T) {
	s, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO records").
		WithArgs("courses", "c1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, s.Insert(context.Background(), "courses", "c1", map[string]string{"title": "Go"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMergesAndReportsMissing(t *testing.T) {
	s, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE records SET data = data || $3::jsonb WHERE collection = $1 AND id = $2")).
		WithArgs("users", "u1", []byte(`{"name":"renamed"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Update(context.Background(), "users", "u1", map[string]interface{}{"name": "renamed"}))

	mock.ExpectExec("UPDATE records SET data").
		WithArgs("users", "missing", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Update(context.Background(), "users", "missing", map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendUsesJSONBSet(t *testing.T) {
	s, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectExec("UPDATE records").
		WithArgs("courses", "c1", "students_enrolled", []byte(`"stu-1"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Append(context.Background(), "courses", "c1", "students_enrolled", "stu-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendNotFound(t *testing.T) {
	s, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectExec("UPDATE records").
		WithArgs("courses", "missing", "modules", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Append(context.Background(), "courses", "missing", "modules", map[string]string{"id": "m1"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

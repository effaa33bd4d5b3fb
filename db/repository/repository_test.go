package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"streamvault_agent/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*DBRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewDBRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestAddNotification(t *testing.T) {
	repo, mock := setupMockDB(t)
	ctx := context.Background()
	created := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	n := models.Notification{
		ID:            "6f1c",
		Type:          models.EventStreamOnline,
		StreamerID:    42,
		StreamerName:  "Alpha",
		StreamerLogin: "alpha",
		Message:       "Alpha is live",
		CreatedAt:     created,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`insert into notification_history`)).
		WithArgs("6f1c", models.EventStreamOnline, int64(42), "Alpha", "alpha", "Alpha is live", false, created).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`delete from notification_history`)).
		WithArgs(100).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	tx, err := repo.BeginTransaction(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.AddNotification(ctx, tx, n))
	removed, err := repo.TrimNotifications(ctx, tx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	require.NoError(t, tx.Commit())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotifications_UsesDollarPlaceholders(t *testing.T) {
	repo, mock := setupMockDB(t)
	created := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "event_type", "streamer_id", "streamer_name", "streamer_login", "message", "is_read", "created_at",
	}).AddRow("a", "stream.offline", 42, "Alpha", "alpha", "Alpha went offline", true, created)

	mock.ExpectQuery(regexp.QuoteMeta(`limit $1;`)).
		WithArgs(10).
		WillReturnRows(rows)

	got, err := repo.GetNotifications(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.EventStreamOffline, got[0].Type)
	assert.True(t, got[0].Read)
	assert.Equal(t, created, got[0].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkNotificationRead_NotFound(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`update notification_history`)).
		WithArgs(true, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkNotificationRead(context.Background(), "missing")
	assert.Equal(t, models.ErrNotFound, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCleanupPolicy(t *testing.T) {
	repo, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{
		"streamer_id", "policy_type", "threshold", "preserve_favorites", "preserve_categories",
		"start_date", "end_date", "weekdays", "time_of_day", "updated_at",
	}).AddRow(7, "size", 20.0, true, "{Chess,\"Just Chatting\"}", "2026-01-01", "2026-02-01", "{0,6}", "", time.Now())

	mock.ExpectQuery(regexp.QuoteMeta(`where cp.streamer_id = $1;`)).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	policy, err := repo.GetCleanupPolicy(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, policy)
	assert.Equal(t, models.CleanupBySize, policy.Type)
	assert.Equal(t, []string{"Chess", "Just Chatting"}, policy.PreserveCategories)
	assert.Equal(t, []int{0, 6}, policy.PreserveTimeframe.Weekdays)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCleanupPolicy_NoRows(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`from cleanup_policies`)).
		WithArgs(int64(0)).
		WillReturnError(sql.ErrNoRows)

	policy, err := repo.GetCleanupPolicy(context.Background(), 0)
	assert.NoError(t, err)
	assert.Nil(t, policy)
}

func TestSaveCleanupPolicy(t *testing.T) {
	repo, mock := setupMockDB(t)

	policy := models.CleanupPolicy{
		Type:               models.CleanupByAge,
		Threshold:          30,
		PreserveCategories: []string{"Chess"},
		PreserveTimeframe:  models.PreserveTimeframe{Weekdays: []int{1, 2}},
	}

	mock.ExpectExec(regexp.QuoteMeta(`on conflict (streamer_id) do update set`)).
		WithArgs(int64(0), "age", 30.0, false, pq.StringArray{"Chess"}, "", "", pq.Int64Array{1, 2}, "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.SaveCleanupPolicy(context.Background(), 0, policy))
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tierbot/internal/models"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestHasPending(t *testing.T) {
	db, mock := newMock(t)
	repo := NewApplicationPostgres(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM applications WHERE discord_id = $1 AND status = $2)")).
		WithArgs("u1", "pending").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.HasPending(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateApplication(t *testing.T) {
	db, mock := newMock(t)
	repo := NewApplicationPostgres(db)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO applications").
		WithArgs("u1", "g1", "123", "Nick", "", "", "T3", "pending", now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := repo.CreateApplication(context.Background(), &models.Application{
		ApplicantID: "u1",
		GuildID:     "g1",
		GameID:      "123",
		Nickname:    "Nick",
		DesiredTier: models.TierT3,
		CreatedAt:   now,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetApplicationNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewApplicationPostgres(db)

	mock.ExpectQuery("FROM applications WHERE id = \\$1").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	app, err := repo.GetApplication(context.Background(), 9)
	require.NoError(t, err)
	assert.Nil(t, app)
}

func TestGetApplicationNullableColumns(t *testing.T) {
	db, mock := newMock(t)
	repo := NewApplicationPostgres(db)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cols := []string{"id", "discord_id", "guild_id", "game_id", "game_nickname", "current_clan", "page_info",
		"desired_tier", "status", "channel_id", "message_id", "created_at", "processed_at", "processed_by"}
	mock.ExpectQuery("FROM applications WHERE id = \\$1").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			int64(3), "u1", "g1", "123", "Nick", "Clan", "", "T2", "pending", nil, nil, created, nil, nil,
		))

	app, err := repo.GetApplication(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, models.TierT2, app.DesiredTier)
	assert.Equal(t, models.StatusPending, app.Status)
	assert.False(t, app.HasPanel())
	assert.Nil(t, app.ProcessedAt)
}

func TestApproveCommitsPlayerAndLog(t *testing.T) {
	db, mock := newMock(t)
	repo := NewApplicationPostgres(db)
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE applications").
		WithArgs(int64(7), "approved", at, "mod", "pending").
		WillReturnRows(sqlmock.NewRows([]string{"discord_id", "game_id", "game_nickname", "current_clan", "page_info"}).
			AddRow("u1", "123", "Nick", "Clan", "link"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT tier FROM players WHERE discord_id = $1 FOR UPDATE")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"tier"}).AddRow("T4"))
	mock.ExpectExec("INSERT INTO players").
		WithArgs("u1", "123", "Nick", "Clan", "link", "T3", at, "mod").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO tier_assignments").
		WithArgs("u1", "T4", "T3", "mod", at, int64(7)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	old, err := repo.Approve(context.Background(), 7, models.TierT3, "mod", at)
	require.NoError(t, err)
	assert.Equal(t, models.TierT4, old)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveFirstTierLogsNullOldTier(t *testing.T) {
	db, mock := newMock(t)
	repo := NewApplicationPostgres(db)
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE applications").
		WillReturnRows(sqlmock.NewRows([]string{"discord_id", "game_id", "game_nickname", "current_clan", "page_info"}).
			AddRow("u1", "123", "Nick", "", ""))
	mock.ExpectQuery("SELECT tier FROM players").
		WillReturnRows(sqlmock.NewRows([]string{"tier"}))
	mock.ExpectExec("INSERT INTO players").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO tier_assignments").
		WithArgs("u1", nil, "T1", "mod", at, int64(7)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	old, err := repo.Approve(context.Background(), 7, models.TierT1, "mod", at)
	require.NoError(t, err)
	assert.Equal(t, models.Tier(""), old)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveAlreadyDecidedRollsBack(t *testing.T) {
	db, mock := newMock(t)
	repo := NewApplicationPostgres(db)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE applications").
		WillReturnRows(sqlmock.NewRows([]string{"discord_id", "game_id", "game_nickname", "current_clan", "page_info"}))
	mock.ExpectRollback()

	_, err := repo.Approve(context.Background(), 7, models.TierT1, "mod", time.Now())
	assert.ErrorIs(t, err, ErrNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectAlreadyDecided(t *testing.T) {
	db, mock := newMock(t)
	repo := NewApplicationPostgres(db)

	mock.ExpectExec("UPDATE applications").
		WithArgs(int64(7), "rejected", sqlmock.AnyArg(), "mod", "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Reject(context.Background(), 7, "mod", time.Now())
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestAttachMessage(t *testing.T) {
	db, mock := newMock(t)
	repo := NewApplicationPostgres(db)

	mock.ExpectExec("UPDATE applications SET channel_id").
		WithArgs(int64(7), "c1", "m1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.AttachMessage(context.Background(), 7, "c1", "m1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

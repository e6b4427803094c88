package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCleanExpired(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer dbMock.Close()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectExec("DELETE FROM revoked_tokens").
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM password_resets").
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	removed, err := CleanExpired(context.Background(), dbMock, now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCleanExpired_Error(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer dbMock.Close()

	mock.ExpectExec("DELETE FROM revoked_tokens").
		WithArgs(sqlmock.AnyArg()).
		WillReturnError(errors.New("db fail"))

	_, err = CleanExpired(context.Background(), dbMock, time.Now())
	assert.ErrorContains(t, err, "clean expired")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStartExpiredTokenCleaner_ErrorLogged(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer dbMock.Close()

	mock.ExpectExec("DELETE FROM revoked_tokens").
		WithArgs(sqlmock.AnyArg()).
		WillReturnError(errors.New("db fail"))

	core, logs := observer.New(zap.ErrorLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartExpiredTokenCleaner(ctx, dbMock, 10*time.Millisecond, zap.New(core))

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("failed to clean expired tokens").Len() > 0
	}, time.Second, 10*time.Millisecond)
	cancel()
}

func TestStartExpiredTokenCleaner_CancelBeforeTicker(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer dbMock.Close()

	ctx, cancel := context.WithCancel(context.Background())
	StartExpiredTokenCleaner(ctx, dbMock, 100*time.Millisecond, zap.NewNop())
	cancel()

	time.Sleep(50 * time.Millisecond)
	assert.NoError(t, mock.ExpectationsWereMet())
}

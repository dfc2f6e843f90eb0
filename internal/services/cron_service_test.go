package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/skyline/air-reservation/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurgeSessions(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewCronService(database.NewSessionRepository(db), "0 0 3 * * *", testLogger())
	svc.now = fixedClock

	mock.ExpectExec("DELETE FROM sessions WHERE expires_at < \\$1 OR revoked_at IS NOT NULL").
		WithArgs(testNow).
		WillReturnResult(sqlmock.NewResult(0, 4))

	deleted, err := svc.PurgeSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCronService_StartStop(t *testing.T) {
	db, _ := setupMockDB(t)

	svc := NewCronService(database.NewSessionRepository(db), "0 0 3 * * *", testLogger())
	require.NoError(t, svc.Start())
	assert.Equal(t, 1, svc.JobCount())
	svc.Stop()

	bad := NewCronService(database.NewSessionRepository(db), "every night", testLogger())
	assert.Error(t, bad.Start())
}

package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/skyline/air-reservation/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFleetRepository_CreateAirplane(t *testing.T) {
	ctx := context.Background()
	airplane := models.Airplane{AirlineName: "AIRX", AirplaneID: 7}

	t.Run("With Seat Classes", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewFleetRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO airplane`).
			WithArgs("AIRX", 7).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO seat_class`).
			WithArgs("AIRX", 7, 1, 120).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO seat_class`).
			WithArgs("AIRX", 7, 2, 20).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.CreateAirplane(ctx, airplane, []models.SeatClassInput{
			{SeatClassID: 1, SeatCapacity: 120},
			{SeatClassID: 2, SeatCapacity: 20},
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate Airplane", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewFleetRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO airplane`).WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		err := repo.CreateAirplane(ctx, airplane, nil)
		assert.ErrorIs(t, err, ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAuthorizationRepository(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuthorizationRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`FROM agent_airline_authorization WHERE agent_email = \$1 AND airline_name = \$2`).
		WithArgs("agent@x.com", "AIRX").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	ok, err := repo.IsAuthorized(ctx, "agent@x.com", "AIRX")
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectExec(`INSERT INTO agent_airline_authorization`).
		WithArgs("agent@x.com", "AIRX").
		WillReturnError(&pq.Error{Code: "23505"})
	assert.ErrorIs(t, repo.Create(ctx, "agent@x.com", "AIRX"), ErrDuplicate)

	mock.ExpectQuery(`SELECT airline_name FROM agent_airline_authorization`).
		WithArgs("agent@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"airline_name"}).AddRow("AIRX").AddRow("SKY"))
	airlines, err := repo.ListAirlines(ctx, "agent@x.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"AIRX", "SKY"}, airlines)

	assert.NoError(t, mock.ExpectationsWereMet())
}

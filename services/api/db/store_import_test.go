package db

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seabook/divelog/services/api/models"
)

func TestImportTxDiveExists(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("Blue Hole", "2023-06-15", 28.5723, 34.537, coordTolerance).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	tx, err := store.BeginImport(context.Background())
	require.NoError(t, err)

	exists, err := tx.DiveExists(context.Background(), models.DuplicateKey{
		Location:  "Blue Hole",
		Date:      "2023-06-15",
		Latitude:  28.5723,
		Longitude: 34.537,
	})
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, tx.Rollback(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportTxDiveExistsWithTime(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("Blue Hole", "2023-06-15", 28.5723, 34.537, coordTolerance, "09:30:00").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	tx, err := store.BeginImport(context.Background())
	require.NoError(t, err)

	exists, err := tx.DiveExists(context.Background(), models.DuplicateKey{
		Location:  "Blue Hole",
		Date:      "2023-06-15",
		Latitude:  28.5723,
		Longitude: 34.537,
		DiveTime:  "09:30:00",
	})
	require.NoError(t, err)
	assert.False(t, exists, "same place and date but a different time is a new dive")

	require.NoError(t, tx.Rollback(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportTxInsertDive(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO dives`).
		WithArgs(
			"Blue Hole", nil, 28.5723, 34.537, "2023-06-15", "09:30:00",
			nil, nil, 31.5, nil, nil, nil, nil,
			nil, nil, 5, nil, nil, nil, nil,
			"other", nil,
		).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectCommit()

	tx, err := store.BeginImport(context.Background())
	require.NoError(t, err)

	id, err := tx.InsertDive(context.Background(), models.DiveRecord{
		Location:  "Blue Hole",
		Latitude:  28.5723,
		Longitude: 34.537,
		Date:      "2023-06-15",
		DiveTime:  "09:30:00",
		Depth:     "31.5",
		Rating:    "5",
		SuitType:  "chainmail", // coerced immediately before the write
		WaterType: "lava",      // dropped entirely
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)

	require.NoError(t, tx.Commit(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNullHelpers(t *testing.T) {
	assert.Nil(t, nullText("  "))
	assert.Equal(t, "x", nullText("x"))

	assert.Nil(t, nullFloat(""))
	assert.Nil(t, nullFloat("abc"))
	assert.Equal(t, 1.5, nullFloat("1.5"))

	assert.Nil(t, nullInt(""))
	assert.Nil(t, nullInt("1.5"))
	assert.Equal(t, 3, nullInt("3"))
}

package db

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seabook/divelog/services/api/models"
)

var diveRowColumns = []string{
	"id", "location", "dive_site", "latitude", "longitude", "date", "time",
	"description", "comments", "depth", "duration", "water_temp", "air_temp",
	"visibility", "buddy", "dive_site_type", "rating", "fish_sightings",
	"air_consumption_start", "air_consumption_end", "weight", "suit_type",
	"water_type", "created_at", "updated_at",
}

func sampleDiveRow(id int64) []any {
	now := time.Date(2023, 6, 16, 12, 0, 0, 0, time.UTC)
	site := "The Arch"
	diveTime := "09:30:00"
	depth := 31.5
	suit := "wetsuit"
	return []any{
		id, "Blue Hole", &site, 28.5723, 34.537, "2023-06-15", &diveTime,
		(*string)(nil), (*string)(nil), &depth, (*float64)(nil), (*float64)(nil),
		(*float64)(nil), (*float64)(nil), (*string)(nil), (*string)(nil),
		(*int)(nil), (*string)(nil), (*int)(nil), (*int)(nil), (*float64)(nil),
		&suit, (*string)(nil), now, now,
	}
}

func newMockStore(t *testing.T) (pgxmock.PgxPoolIface, *Store) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewWithPool(mock)
}

func TestListDivesFilters(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectQuery(`SELECT .* FROM dives WHERE location ILIKE \$1 AND date >= \$2 ORDER BY date DESC`).
		WithArgs("%Blue%", "2023-01-01").
		WillReturnRows(pgxmock.NewRows(diveRowColumns).AddRow(sampleDiveRow(7)...))

	dives, err := store.ListDives(context.Background(), DiveQuery{
		Location: "Blue",
		From:     "2023-01-01",
	})
	require.NoError(t, err)

	require.Len(t, dives, 1)
	assert.Equal(t, int64(7), dives[0].ID)
	assert.Equal(t, "Blue Hole", dives[0].Location)
	require.NotNil(t, dives[0].Depth)
	assert.InDelta(t, 31.5, *dives[0].Depth, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDivesLimit(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectQuery(`SELECT .* FROM dives ORDER BY date DESC, time DESC NULLS LAST, id DESC LIMIT 5`).
		WillReturnRows(pgxmock.NewRows(diveRowColumns))

	dives, err := store.ListDives(context.Background(), DiveQuery{Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, dives)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDiveNotFound(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectQuery(`SELECT .* FROM dives WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	dive, err := store.GetDive(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, dive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDiveFound(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectQuery(`SELECT .* FROM dives WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(diveRowColumns).AddRow(sampleDiveRow(7)...))

	dive, err := store.GetDive(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, dive)
	assert.Equal(t, "2023-06-15", dive.Date)
	require.NotNil(t, dive.DiveTime)
	assert.Equal(t, "09:30:00", *dive.DiveTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDive(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO dives`).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(12)))

	suit := "Chainmail" // coerced to other on the way in
	id, err := store.CreateDive(context.Background(), models.Dive{
		Location:  "Blue Hole",
		Latitude:  28.5723,
		Longitude: 34.537,
		Date:      "2023-06-15",
		SuitType:  &suit,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDiveNotFound(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectExec(`UPDATE dives SET`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	updated, err := store.UpdateDive(context.Background(), 99, models.Dive{Location: "X", Date: "2023-06-15"})
	require.NoError(t, err)
	assert.False(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteDive(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectExec(`DELETE FROM dives WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	deleted, err := store.DeleteDive(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStats(t *testing.T) {
	mock, store := newMockStore(t)

	maxDepth := 42.0
	avgDepth := 18.3
	last := "2023-08-20"
	mock.ExpectQuery(`SELECT COUNT\(\*\), MAX\(depth\)`).
		WillReturnRows(pgxmock.NewRows([]string{"count", "max", "avg", "sum", "last"}).
			AddRow(int64(15), &maxDepth, &avgDepth, 780.0, &last))

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(15), stats.TotalDives)
	require.NotNil(t, stats.MaxDepth)
	assert.InDelta(t, 42.0, *stats.MaxDepth, 1e-9)
	assert.InDelta(t, 780.0, stats.TotalDuration, 1e-9)
	require.NotNil(t, stats.LastDiveDate)
	assert.Equal(t, "2023-08-20", *stats.LastDiveDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package db

import (
	"context"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"github.com/seabook/divelog/services/api/models"
)

// ImportTx is one import transaction: the duplicate check and insert the
// orchestrator runs per row, plus the batch commit/rollback boundary.
type ImportTx interface {
	DiveExists(ctx context.Context, key models.DuplicateKey) (bool, error)
	InsertDive(ctx context.Context, rec models.DiveRecord) (int64, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// BeginImport opens a transaction for a batch of imported rows.
func (s *Store) BeginImport(ctx context.Context) (ImportTx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "begin import transaction")
	}
	return &importTx{tx: tx}, nil
}

type importTx struct {
	tx pgx.Tx
}

// coordTolerance is the window within which two coordinate pairs count as the
// same place for dedup purposes.
const coordTolerance = 0.0001

const diveExistsSQL = `
SELECT EXISTS (
    SELECT 1 FROM dives
    WHERE location = $1 AND date = $2
      AND abs(latitude - $3) <= $5
      AND abs(longitude - $4) <= $5
)`

const diveExistsWithTimeSQL = `
SELECT EXISTS (
    SELECT 1 FROM dives
    WHERE location = $1 AND date = $2
      AND abs(latitude - $3) <= $5
      AND abs(longitude - $4) <= $5
      AND time = $6
)`

// DiveExists reports whether a dive matching the key is already stored.
// With a time in the key, the time must match exactly, so two dives at the
// same place and date but different times both import.
func (t *importTx) DiveExists(ctx context.Context, key models.DuplicateKey) (bool, error) {
	var exists bool
	var err error
	if key.DiveTime != "" {
		err = t.tx.QueryRow(ctx, diveExistsWithTimeSQL,
			key.Location, key.Date, key.Latitude, key.Longitude, coordTolerance, key.DiveTime,
		).Scan(&exists)
	} else {
		err = t.tx.QueryRow(ctx, diveExistsSQL,
			key.Location, key.Date, key.Latitude, key.Longitude, coordTolerance,
		).Scan(&exists)
	}
	if err != nil {
		return false, errors.Wrap(err, "duplicate check")
	}
	return exists, nil
}

// InsertDive writes a validated record, converting empty text fields to NULL
// and re-coercing the enum fields right before the write.
func (t *importTx) InsertDive(ctx context.Context, rec models.DiveRecord) (int64, error) {
	suit, _ := models.NormalizeSuitType(rec.SuitType)
	water, _ := models.NormalizeWaterType(rec.WaterType)

	var id int64
	err := t.tx.QueryRow(ctx, insertDiveSQL,
		rec.Location,
		nullText(rec.DiveSite),
		rec.Latitude,
		rec.Longitude,
		rec.Date,
		nullText(rec.DiveTime),
		nullText(rec.Description),
		nullText(rec.Comments),
		nullFloat(rec.Depth),
		nullFloat(rec.Duration),
		nullFloat(rec.WaterTemp),
		nullFloat(rec.AirTemp),
		nullFloat(rec.Visibility),
		nullText(rec.Buddy),
		nullText(rec.DiveSiteType),
		nullInt(rec.Rating),
		nullText(rec.FishSightings),
		nullInt(rec.AirStart),
		nullInt(rec.AirEnd),
		nullFloat(rec.Weight),
		nullText(suit),
		nullText(water),
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "insert dive")
	}
	return id, nil
}

func (t *importTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *importTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func nullText(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func nullFloat(s string) any {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return f
}

func nullInt(s string) any {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return n
}

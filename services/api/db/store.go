package db

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seabook/divelog/services/api/models"
)

// Pool is the subset of pgxpool.Pool the store depends on. pgxmock satisfies
// it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// Store wraps database access helpers.
type Store struct {
	pool Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "connect to database")
	}
	return &Store{pool: pool}, nil
}

// NewWithPool creates a Store over an existing pool (used by tests).
func NewWithPool(pool Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const diveColumns = `id, location, dive_site, latitude, longitude,
    to_char(date, 'YYYY-MM-DD'), to_char(time, 'HH24:MI:SS'),
    description, comments, depth, duration, water_temp, air_temp, visibility,
    buddy, dive_site_type, rating, fish_sightings,
    air_consumption_start, air_consumption_end, weight, suit_type, water_type,
    created_at, updated_at`

// DiveQuery holds optional filters for listing dives.
type DiveQuery struct {
	Location string
	From     string
	To       string
	Limit    int
}

// ListDives returns dives, most recent first, applying the query filters.
func (s *Store) ListDives(ctx context.Context, q DiveQuery) ([]models.Dive, error) {
	builder := psql.Select(diveColumns).From("dives").
		OrderBy("date DESC", "time DESC NULLS LAST", "id DESC")
	if q.Location != "" {
		builder = builder.Where(sq.ILike{"location": "%" + q.Location + "%"})
	}
	if q.From != "" {
		builder = builder.Where(sq.GtOrEq{"date": q.From})
	}
	if q.To != "" {
		builder = builder.Where(sq.LtOrEq{"date": q.To})
	}
	if q.Limit > 0 {
		builder = builder.Limit(uint64(q.Limit))
	}

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build dive list query")
	}

	rows, err := s.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dives := make([]models.Dive, 0)
	for rows.Next() {
		d, err := scanDive(rows)
		if err != nil {
			return nil, err
		}
		dives = append(dives, d)
	}
	return dives, rows.Err()
}

const getDiveSQL = `SELECT ` + diveColumns + ` FROM dives WHERE id = $1`

// GetDive returns a single dive, or nil when it does not exist.
func (s *Store) GetDive(ctx context.Context, id int64) (*models.Dive, error) {
	d, err := scanDive(s.pool.QueryRow(ctx, getDiveSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

const insertDiveSQL = `
INSERT INTO dives (location, dive_site, latitude, longitude, date, time,
    description, comments, depth, duration, water_temp, air_temp, visibility,
    buddy, dive_site_type, rating, fish_sightings,
    air_consumption_start, air_consumption_end, weight, suit_type, water_type,
    created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,NOW(),NOW())
RETURNING id`

// CreateDive inserts a new dive and returns its identifier.
func (s *Store) CreateDive(ctx context.Context, d models.Dive) (int64, error) {
	var id int64
	if err := s.pool.QueryRow(ctx, insertDiveSQL, diveArgs(d)...).Scan(&id); err != nil {
		return 0, errors.Wrap(err, "insert dive")
	}
	return id, nil
}

const updateDiveSQL = `
UPDATE dives SET location=$1, dive_site=$2, latitude=$3, longitude=$4, date=$5,
    time=$6, description=$7, comments=$8, depth=$9, duration=$10,
    water_temp=$11, air_temp=$12, visibility=$13, buddy=$14,
    dive_site_type=$15, rating=$16, fish_sightings=$17,
    air_consumption_start=$18, air_consumption_end=$19, weight=$20,
    suit_type=$21, water_type=$22, updated_at=NOW()
WHERE id=$23`

// UpdateDive replaces an existing dive. The bool reports whether a row
// matched.
func (s *Store) UpdateDive(ctx context.Context, id int64, d models.Dive) (bool, error) {
	tag, err := s.pool.Exec(ctx, updateDiveSQL, append(diveArgs(d), id)...)
	if err != nil {
		return false, errors.Wrap(err, "update dive")
	}
	return tag.RowsAffected() > 0, nil
}

const deleteDiveSQL = `DELETE FROM dives WHERE id = $1`

// DeleteDive removes a dive. The bool reports whether a row matched.
func (s *Store) DeleteDive(ctx context.Context, id int64) (bool, error) {
	tag, err := s.pool.Exec(ctx, deleteDiveSQL, id)
	if err != nil {
		return false, errors.Wrap(err, "delete dive")
	}
	return tag.RowsAffected() > 0, nil
}

const statsSQL = `
SELECT COUNT(*), MAX(depth), AVG(depth), COALESCE(SUM(duration), 0),
       to_char(MAX(date), 'YYYY-MM-DD')
FROM dives`

// Stats computes aggregate statistics over the whole logbook.
func (s *Store) Stats(ctx context.Context) (*models.DiveStats, error) {
	var st models.DiveStats
	err := s.pool.QueryRow(ctx, statsSQL).Scan(
		&st.TotalDives,
		&st.MaxDepth,
		&st.AvgDepth,
		&st.TotalDuration,
		&st.LastDiveDate,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func scanDive(row pgx.Row) (models.Dive, error) {
	var d models.Dive
	err := row.Scan(
		&d.ID,
		&d.Location,
		&d.DiveSite,
		&d.Latitude,
		&d.Longitude,
		&d.Date,
		&d.DiveTime,
		&d.Description,
		&d.Comments,
		&d.Depth,
		&d.Duration,
		&d.WaterTemp,
		&d.AirTemp,
		&d.Visibility,
		&d.Buddy,
		&d.DiveSiteType,
		&d.Rating,
		&d.FishSightings,
		&d.AirStart,
		&d.AirEnd,
		&d.Weight,
		&d.SuitType,
		&d.WaterType,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

// diveArgs orders the insert/update parameters. Enum fields are re-coerced
// immediately before the write, whatever the caller handed in.
func diveArgs(d models.Dive) []any {
	return []any{
		d.Location, d.DiveSite, d.Latitude, d.Longitude, d.Date, d.DiveTime,
		d.Description, d.Comments, d.Depth, d.Duration, d.WaterTemp, d.AirTemp,
		d.Visibility, d.Buddy, d.DiveSiteType, d.Rating, d.FishSightings,
		d.AirStart, d.AirEnd, d.Weight, coerceSuit(d.SuitType), coerceWater(d.WaterType),
	}
}

func coerceSuit(p *string) *string {
	if p == nil {
		return nil
	}
	v, _ := models.NormalizeSuitType(*p)
	if v == "" {
		return nil
	}
	return &v
}

func coerceWater(p *string) *string {
	if p == nil {
		return nil
	}
	v, _ := models.NormalizeWaterType(*p)
	if v == "" {
		return nil
	}
	return &v
}

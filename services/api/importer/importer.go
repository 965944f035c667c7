package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/seabook/divelog/services/api/db"
	"github.com/seabook/divelog/services/api/models"
)

// defaultBatchSize bounds transaction size during import: every N processed
// rows the current transaction commits and a new one opens.
const defaultBatchSize = 10

// Store is the persistence surface the importer drives.
type Store interface {
	BeginImport(ctx context.Context) (db.ImportTx, error)
}

// Importer runs delimited dive-log files through parse, validate, dedup and
// insert, publishing progress after every row.
type Importer struct {
	store     Store
	validator *Validator
	progress  *ProgressStore
	batchSize int
	log       *slog.Logger
}

// Options control a single run.
type Options struct {
	RunID   string
	Geocode bool // permit geocoding of rows without usable coordinates
	DryRun  bool // process everything but roll back instead of committing
}

// New constructs an importer. A batchSize of 0 or less uses the default.
func New(store Store, geo Geocoder, progress *ProgressStore, batchSize int, log *slog.Logger) *Importer {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Importer{
		store:     store,
		validator: &Validator{Geo: geo},
		progress:  progress,
		batchSize: batchSize,
		log:       log,
	}
}

// Run imports the file at path and returns the aggregate report. Anticipated
// per-row failures land in the report; only a file-level failure is also
// returned as an error.
func (imp *Importer) Run(ctx context.Context, path string, opts Options) (models.Report, error) {
	var report models.Report

	imp.progress.Start(opts.RunID)

	data, err := os.ReadFile(path)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("cannot open import file: %v", err))
		imp.progress.Complete(opts.RunID)
		return report, errors.Wrap(err, "open import file")
	}

	delim := detectDelimiter(data)
	total := countRows(data, delim)
	report.Total = total
	imp.progress.SetTotal(opts.RunID, total)

	imp.log.Info("starting import", "run_id", opts.RunID, "rows", total,
		"delimiter", string(delim), "geocode", opts.Geocode, "dry_run", opts.DryRun)

	tx, err := imp.store.BeginImport(ctx)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("database error: %v", err))
		imp.progress.Complete(opts.RunID)
		return report, nil
	}

	reader := newRowReader(data, delim)
	_, _ = reader.Read() // header

	rowNum := 0
	processed := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		rowNum++

		nonBlank := nonBlankCells(row)
		if nonBlank == 0 {
			continue
		}
		if len(row) <= 1 {
			// Counted during the pre-pass but carries no usable fields.
			processed++
			imp.progress.Advance(opts.RunID, processed)
			continue
		}

		rec := ParseRow(row)
		res := imp.validator.Validate(ctx, &rec, opts.Geocode)

		for _, w := range res.Warnings {
			report.Warnings = append(report.Warnings, fmt.Sprintf("row %d: %s", rowNum, w))
		}
		// Auto-corrected enum values surface as errors in the report but do
		// not block the row.
		for _, n := range res.Notices {
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %s", rowNum, n))
		}

		if len(res.Errors) > 0 {
			for _, e := range res.Errors {
				report.Errors = append(report.Errors, fmt.Sprintf("row %d: %s", rowNum, e))
			}
			processed++
			imp.progress.Advance(opts.RunID, processed)
			continue
		}

		dup, err := tx.DiveExists(ctx, models.DuplicateKey{
			Location:  rec.Location,
			Date:      rec.Date,
			Latitude:  rec.Latitude,
			Longitude: rec.Longitude,
			DiveTime:  rec.DiveTime,
		})
		switch {
		case err != nil:
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: database error: %v", rowNum, err))
		case dup:
			report.Skipped++
			report.Success = append(report.Success, fmt.Sprintf(
				"row %d: skipped, dive at %q on %s already exists", rowNum, rec.Location, rec.Date))
		default:
			id, err := tx.InsertDive(ctx, rec)
			if err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("row %d: database error: %v", rowNum, err))
			} else {
				report.Imported++
				report.Success = append(report.Success, fmt.Sprintf(
					"row %d: imported dive at %q on %s (id %d)", rowNum, rec.Location, rec.Date, id))
			}
		}

		processed++
		imp.progress.Advance(opts.RunID, processed)

		if !opts.DryRun && processed%imp.batchSize == 0 {
			if err := tx.Commit(ctx); err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("database error: commit failed: %v", err))
			}
			next, err := imp.store.BeginImport(ctx)
			if err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("database error: %v", err))
				imp.progress.Complete(opts.RunID)
				return report, nil
			}
			tx = next
		}
	}

	imp.progress.Complete(opts.RunID)

	// The final partial batch only survives an error-free run; an error
	// anywhere in the file discards rows still waiting in it, while earlier
	// committed batches stay persisted.
	if opts.DryRun || len(report.Errors) > 0 {
		if err := tx.Rollback(ctx); err != nil {
			imp.log.Warn("rollback failed", "run_id", opts.RunID, "error", err)
		}
	} else if err := tx.Commit(ctx); err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("database error: commit failed: %v", err))
	}

	imp.log.Info("import finished", "run_id", opts.RunID, "imported", report.Imported,
		"skipped", report.Skipped, "errors", len(report.Errors))

	return report, nil
}

// detectDelimiter picks ';' or ',' by whichever occurs more often in the
// first line, defaulting to ',' on a tie. The delimiter is fixed for the
// whole file.
func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

// countRows pre-counts data rows with at least one non-blank cell so the
// progress endpoint can report a percentage before processing starts.
func countRows(data []byte, delim rune) int {
	reader := newRowReader(data, delim)
	if _, err := reader.Read(); err != nil { // header
		return 0
	}
	total := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if nonBlankCells(row) > 0 {
			total++
		}
	}
	return total
}

func newRowReader(data []byte, delim rune) *csv.Reader {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r
}

func nonBlankCells(row []string) int {
	n := 0
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			n++
		}
	}
	return n
}

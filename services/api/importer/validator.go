package importer

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/seabook/divelog/services/api/geocode"
	"github.com/seabook/divelog/services/api/models"
)

// Geocoder resolves a place name to coordinates.
type Geocoder interface {
	Lookup(ctx context.Context, place string) (geocode.Point, error)
}

// Result of validating one row. Errors block persistence; Warnings never do.
// Notices record auto-corrected enum values: they surface in the run report
// but the row still proceeds.
type Result struct {
	Errors   []string
	Warnings []string
	Notices  []string
}

// coordEpsilon: coordinates within this of zero count as unset.
const coordEpsilon = 0.0001

var timePattern = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)

// Validator applies the row-level rules and, when permitted, falls back to
// geocoding for rows without usable coordinates.
type Validator struct {
	Geo Geocoder
}

// Validate checks rec in place. Geocoded coordinates, the normalized time and
// coerced enum values are written back to the record.
func (v *Validator) Validate(ctx context.Context, rec *models.DiveRecord, allowGeocode bool) Result {
	var res Result

	if rec.Location == "" {
		res.Errors = append(res.Errors, "location is required")
	}

	datePart, embedded := splitDate(rec.Date)
	switch {
	case rec.Date == "":
		res.Errors = append(res.Errors, "date is required")
	case !isISODate(datePart):
		res.Errors = append(res.Errors, fmt.Sprintf("invalid date %q (expected YYYY-MM-DD)", datePart))
	default:
		rec.Date = datePart
	}

	switch {
	case rec.DiveTime != "":
		if norm, ok := normalizeTime(rec.DiveTime); ok {
			rec.DiveTime = norm
		} else {
			res.Errors = append(res.Errors, fmt.Sprintf("invalid time %q (expected HH:MM or HH:MM:SS)", rec.DiveTime))
		}
	case embedded != "":
		// Time carried inside the date column.
		if norm, ok := normalizeTime(embedded); ok {
			rec.DiveTime = norm
		}
	default:
		res.Errors = append(res.Errors, "time is required")
	}

	if !validCoordinates(rec.Latitude, rec.Longitude) {
		if allowGeocode {
			pt, err := v.Geo.Lookup(ctx, rec.Location)
			if err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("geocoding failed for %q: %v", rec.Location, err))
			} else {
				rec.Latitude = pt.Lat
				rec.Longitude = pt.Lon
				res.Warnings = append(res.Warnings, fmt.Sprintf(
					"coordinates for %q resolved via geocoding (%.6f, %.6f)", rec.Location, pt.Lat, pt.Lon))
			}
		} else {
			res.Errors = append(res.Errors, "valid coordinates are required and geocoding is disabled")
		}
	}
	// Re-checked deliberately: the branch above may already have recorded an
	// error for the same condition.
	if !validCoordinates(rec.Latitude, rec.Longitude) {
		res.Errors = append(res.Errors, "valid coordinates are required")
	}

	numeric := []struct {
		name  string
		value string
	}{
		{"depth", rec.Depth},
		{"duration", rec.Duration},
		{"water temperature", rec.WaterTemp},
		{"air temperature", rec.AirTemp},
		{"visibility", rec.Visibility},
	}
	for _, f := range numeric {
		if f.value == "" {
			continue
		}
		if _, err := strconv.ParseFloat(f.value, 64); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s must be numeric, got %q", f.name, f.value))
		}
	}

	if rec.Rating != "" {
		if n, err := strconv.Atoi(rec.Rating); err != nil || n < 1 || n > 5 {
			res.Errors = append(res.Errors, fmt.Sprintf("rating must be an integer between 1 and 5, got %q", rec.Rating))
		}
	}

	if norm, ok := models.NormalizeSuitType(rec.SuitType); ok {
		rec.SuitType = norm
	} else {
		res.Notices = append(res.Notices, fmt.Sprintf("unknown suit type %q, recorded as %q", rec.SuitType, norm))
		rec.SuitType = norm
	}
	if norm, ok := models.NormalizeWaterType(rec.WaterType); ok {
		rec.WaterType = norm
	} else {
		res.Notices = append(res.Notices, fmt.Sprintf("unknown water type %q, ignored", rec.WaterType))
		rec.WaterType = norm
	}

	return res
}

func splitDate(s string) (datePart, timePart string) {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i], strings.TrimSpace(s[i+1:])
	}
	return s, ""
}

// isISODate requires an exact YYYY-MM-DD round-trip, which rejects both bad
// formats and impossible dates like 2023-02-30.
func isISODate(s string) bool {
	t, err := time.Parse("2006-01-02", s)
	return err == nil && t.Format("2006-01-02") == s
}

// normalizeTime accepts HH:MM or HH:MM:SS and returns the HH:MM:SS form.
func normalizeTime(s string) (string, bool) {
	if !timePattern.MatchString(s) {
		return "", false
	}
	if len(s) == 5 {
		s += ":00"
	}
	if _, err := time.Parse("15:04:05", s); err != nil {
		return "", false
	}
	return s, true
}

func validCoordinates(lat, lon float64) bool {
	return math.Abs(lat) > coordEpsilon && math.Abs(lon) > coordEpsilon &&
		lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

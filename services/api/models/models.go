package models

import (
	"strings"
	"time"
)

// SuitTypes lists the accepted suit type values.
var SuitTypes = map[string]struct{}{
	"wetsuit":  {},
	"drysuit":  {},
	"shortie":  {},
	"swimsuit": {},
	"other":    {},
}

// WaterTypes lists the accepted water type values.
var WaterTypes = map[string]struct{}{
	"salt":     {},
	"fresh":    {},
	"brackish": {},
}

// NormalizeSuitType lower-cases and trims the input; anything outside the
// accepted set is coerced to "other". The second return reports whether the
// input was already acceptable (empty counts as acceptable).
func NormalizeSuitType(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", true
	}
	if _, ok := SuitTypes[s]; ok {
		return s, true
	}
	return "other", false
}

// NormalizeWaterType lower-cases and trims the input; anything outside the
// accepted set is dropped entirely.
func NormalizeWaterType(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", true
	}
	if _, ok := WaterTypes[s]; ok {
		return s, true
	}
	return "", false
}

// Dive represents a persisted dive log entry.
type Dive struct {
	ID            int64     `json:"id"`
	Location      string    `json:"location"`
	DiveSite      *string   `json:"dive_site,omitempty"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Date          string    `json:"date"`
	DiveTime      *string   `json:"time,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Comments      *string   `json:"comments,omitempty"`
	Depth         *float64  `json:"depth,omitempty"`
	Duration      *float64  `json:"duration,omitempty"`
	WaterTemp     *float64  `json:"water_temp,omitempty"`
	AirTemp       *float64  `json:"air_temp,omitempty"`
	Visibility    *float64  `json:"visibility,omitempty"`
	Buddy         *string   `json:"buddy,omitempty"`
	DiveSiteType  *string   `json:"dive_site_type,omitempty"`
	Rating        *int      `json:"rating,omitempty"`
	FishSightings *string   `json:"fish_sightings,omitempty"`
	AirStart      *int      `json:"air_consumption_start,omitempty"`
	AirEnd        *int      `json:"air_consumption_end,omitempty"`
	Weight        *float64  `json:"weight,omitempty"`
	SuitType      *string   `json:"suit_type,omitempty"`
	WaterType     *string   `json:"water_type,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DiveRecord is one row of an import file after parsing, before validation.
// Measurement fields stay text so the validator can tell an absent value from
// non-numeric garbage; coordinates are float-coerced at parse time (garbage
// parses to 0 and is judged invalid later).
type DiveRecord struct {
	Location      string
	DiveSite      string
	Latitude      float64
	Longitude     float64
	Date          string
	DiveTime      string
	Description   string
	Comments      string
	Depth         string
	Duration      string
	WaterTemp     string
	AirTemp       string
	Visibility    string
	Buddy         string
	DiveSiteType  string
	Rating        string
	FishSightings string
	AirStart      string
	AirEnd        string
	Weight        string
	SuitType      string
	WaterType     string
}

// DiveStats aggregates the whole logbook for the stats endpoint.
type DiveStats struct {
	TotalDives    int64    `json:"total_dives"`
	MaxDepth      *float64 `json:"max_depth,omitempty"`
	AvgDepth      *float64 `json:"avg_depth,omitempty"`
	TotalDuration float64  `json:"total_duration_min"`
	LastDiveDate  *string  `json:"last_dive_date,omitempty"`
}

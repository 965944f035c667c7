package importer

import (
	"strconv"
	"strings"

	"github.com/seabook/divelog/services/api/models"
)

// Fixed positional layout of an import file. Column 0 carries the exporting
// system's row id and is ignored on import; column 15 is a historical gap.
const (
	colID = iota
	colLocation
	colDiveSite
	colLatitude
	colLongitude
	colDate
	colTime
	colDescription
	colDepth
	colDuration
	colWaterTemp
	colAirTemp
	colVisibility
	colBuddy
	colDiveSiteType
	colUnused
	colRating
	colComments
	colFishSightings
	colAirStart
	colAirEnd
	colWeight
	colSuitType
	colWaterType
	columnCount
)

// ParseRow maps one pre-split row onto a DiveRecord. It never rejects:
// missing columns stay empty, decimal commas become dots, enum fields are
// lower-cased, and coordinates are float-coerced (garbage parses to 0 and is
// left for the validator to judge).
func ParseRow(row []string) models.DiveRecord {
	return models.DiveRecord{
		Location:      cell(row, colLocation),
		DiveSite:      cell(row, colDiveSite),
		Latitude:      coerceFloat(cell(row, colLatitude)),
		Longitude:     coerceFloat(cell(row, colLongitude)),
		Date:          cell(row, colDate),
		DiveTime:      cell(row, colTime),
		Description:   cell(row, colDescription),
		Comments:      cell(row, colComments),
		Depth:         decimal(cell(row, colDepth)),
		Duration:      decimal(cell(row, colDuration)),
		WaterTemp:     decimal(cell(row, colWaterTemp)),
		AirTemp:       decimal(cell(row, colAirTemp)),
		Visibility:    decimal(cell(row, colVisibility)),
		Buddy:         cell(row, colBuddy),
		DiveSiteType:  cell(row, colDiveSiteType),
		Rating:        cell(row, colRating),
		FishSightings: cell(row, colFishSightings),
		AirStart:      cell(row, colAirStart),
		AirEnd:        cell(row, colAirEnd),
		Weight:        decimal(cell(row, colWeight)),
		SuitType:      strings.ToLower(cell(row, colSuitType)),
		WaterType:     strings.ToLower(cell(row, colWaterType)),
	}
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// decimal normalizes a locale-flexible number: a decimal comma becomes a dot.
func decimal(s string) string {
	return strings.ReplaceAll(s, ",", ".")
}

// coerceFloat parses s after decimal normalization, yielding 0 on garbage.
func coerceFloat(s string) float64 {
	f, err := strconv.ParseFloat(decimal(s), 64)
	if err != nil {
		return 0
	}
	return f
}

package importer

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/seabook/divelog/services/api/models"
)

// exportHeader matches the positional import layout, so an exported file can
// be re-imported as-is.
var exportHeader = []string{
	"id", "location", "dive_site", "latitude", "longitude", "date", "time",
	"description", "depth", "duration", "water_temp", "air_temp", "visibility",
	"buddy", "dive_site_type", "", "rating", "comments", "fish_sightings",
	"air_consumption_start", "air_consumption_end", "weight", "suit_type",
	"water_type",
}

// WriteCSV writes dives in the import column order.
func WriteCSV(w io.Writer, dives []models.Dive) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, d := range dives {
		row := make([]string, columnCount)
		row[colID] = strconv.FormatInt(d.ID, 10)
		row[colLocation] = d.Location
		row[colDiveSite] = strText(d.DiveSite)
		row[colLatitude] = formatFloat(d.Latitude)
		row[colLongitude] = formatFloat(d.Longitude)
		row[colDate] = d.Date
		row[colTime] = strText(d.DiveTime)
		row[colDescription] = strText(d.Description)
		row[colDepth] = floatText(d.Depth)
		row[colDuration] = floatText(d.Duration)
		row[colWaterTemp] = floatText(d.WaterTemp)
		row[colAirTemp] = floatText(d.AirTemp)
		row[colVisibility] = floatText(d.Visibility)
		row[colBuddy] = strText(d.Buddy)
		row[colDiveSiteType] = strText(d.DiveSiteType)
		row[colRating] = intText(d.Rating)
		row[colComments] = strText(d.Comments)
		row[colFishSightings] = strText(d.FishSightings)
		row[colAirStart] = intText(d.AirStart)
		row[colAirEnd] = intText(d.AirEnd)
		row[colWeight] = floatText(d.Weight)
		row[colSuitType] = strText(d.SuitType)
		row[colWaterType] = strText(d.WaterType)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func strText(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func floatText(p *float64) string {
	if p == nil {
		return ""
	}
	return formatFloat(*p)
}

func intText(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Package view derives display-ready values from backend payloads. Every
// transform is total: missing numbers render as an em-dash, bad timestamps as
// an empty label, never a panic.
package view

import (
	"fmt"
	"math"
	"time"

	"github.com/gridsight/forecast-dashboard/internal/backend"
)

// Placeholder is rendered wherever a numeric field is absent.
const Placeholder = "—"

// ChartPoint is one plotted sample. Power carries one-decimal precision.
type ChartPoint struct {
	Label string  `json:"label"`
	Power float64 `json:"power"`
}

// TableRow is one formatted row of the historical table.
type TableRow struct {
	Time        string
	Power       string
	Voltage     string
	Frequency   string
	PowerFactor string
}

// FormatNumber renders a value with two decimals, or the placeholder glyph.
func FormatNumber(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return fmt.Sprintf("%.2f", *v)
}

// RoundPower rounds to one decimal for charting; nil stays nil.
func RoundPower(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v*10) / 10
	return &r
}

// TimeLabel parses an RFC 3339-ish timestamp and formats it with layout.
// Absent or unparsable input yields an empty label.
func TimeLabel(ts, layout string) string {
	t, ok := parseTimestamp(ts)
	if !ok {
		return ""
	}
	return t.Format(layout)
}

func parseTimestamp(ts string) (time.Time, bool) {
	if ts == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ForecastSeries builds the chart series for the hourly forecast. Points with
// no predicted power are excluded, not plotted as zero.
func ForecastSeries(points []backend.ForecastPoint) []ChartPoint {
	out := make([]ChartPoint, 0, len(points))
	for _, p := range points {
		rounded := RoundPower(p.PredictedPower)
		if rounded == nil {
			continue
		}
		out = append(out, ChartPoint{
			Label: TimeLabel(p.Timestamp, "15:04"),
			Power: *rounded,
		})
	}
	return out
}

// HistoricalSeries builds the chart series for the historical explorer.
func HistoricalSeries(points []backend.HistoricalPoint) []ChartPoint {
	out := make([]ChartPoint, 0, len(points))
	for _, p := range points {
		rounded := RoundPower(p.Power)
		if rounded == nil {
			continue
		}
		out = append(out, ChartPoint{
			Label: TimeLabel(p.Time, "01-02 15:04"),
			Power: *rounded,
		})
	}
	return out
}

// HistoricalRows formats the table slice for one page.
func HistoricalRows(points []backend.HistoricalPoint) []TableRow {
	rows := make([]TableRow, 0, len(points))
	for _, p := range points {
		rows = append(rows, TableRow{
			Time:        TimeLabel(p.Time, "2006-01-02 15:04"),
			Power:       FormatNumber(p.Power),
			Voltage:     FormatNumber(p.Voltage),
			Frequency:   FormatNumber(p.Frequency),
			PowerFactor: FormatNumber(p.PowerFactor),
		})
	}
	return rows
}

// PeakPower returns the maximum predicted power across the forecast, if any
// point carries one.
func PeakPower(points []backend.ForecastPoint) *float64 {
	var peak *float64
	for _, p := range points {
		if p.PredictedPower == nil {
			continue
		}
		if peak == nil || *p.PredictedPower > *peak {
			v := *p.PredictedPower
			peak = &v
		}
	}
	return peak
}

// NextHour returns the first forecast point's power, the "next hour" KPI.
func NextHour(points []backend.ForecastPoint) *float64 {
	if len(points) == 0 {
		return nil
	}
	return points[0].PredictedPower
}

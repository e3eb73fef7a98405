package dataprocessing

import "strings"

// SummaryStats aggregates the final report table. Availability flags are
// distinct from zero values: a metric whose column is absent, or whose cells
// are all missing, is reported unavailable rather than 0.
type SummaryStats struct {
	// Shipments is the count of distinct shipment identifiers, or the plain
	// row count when the identifier column is absent.
	Shipments int `json:"shipments"`

	PingCoverageMean      float64 `json:"ping_coverage_mean"`
	PingCoverageAvailable bool    `json:"ping_coverage_available"`

	TotalPredictions          float64 `json:"total_predictions"`
	TotalPredictionsAvailable bool    `json:"total_predictions_available"`
}

// Summarize computes summary statistics over a table. It accepts either a
// projected output table (columns already renamed to display names) or a raw
// table paired with its field map; display-name columns take precedence.
// Non-numeric and missing cells are excluded from the mean and sum without
// causing failure.
func Summarize(t Table, fm FieldMap) SummaryStats {
	var stats SummaryStats

	if idCol, ok := columnFor(t, fm, FieldShipmentID); ok {
		distinct := make(map[string]bool)
		for _, row := range t.Rows {
			id := strings.TrimSpace(row[idCol])
			if id != "" {
				distinct[id] = true
			}
		}
		stats.Shipments = len(distinct)
	} else {
		stats.Shipments = len(t.Rows)
	}

	if col, ok := columnFor(t, fm, FieldPingCoverage); ok {
		var sum float64
		var n int
		for _, row := range t.Rows {
			if v, ok := parseNumber(row[col]); ok {
				sum += v
				n++
			}
		}
		if n > 0 {
			stats.PingCoverageMean = sum / float64(n)
			stats.PingCoverageAvailable = true
		}
	}

	if col, ok := columnFor(t, fm, FieldTotalPredictions); ok {
		var sum float64
		var n int
		for _, row := range t.Rows {
			if v, ok := parseNumber(row[col]); ok {
				sum += v
				n++
			}
		}
		if n > 0 {
			stats.TotalPredictions = sum
			stats.TotalPredictionsAvailable = true
		}
	}

	return stats
}

// columnFor locates the table column holding a canonical field, preferring
// the fixed display name (present after projection) over the field map's
// matched input column.
func columnFor(t Table, fm FieldMap, f Field) (string, bool) {
	for _, h := range t.Headers {
		if h == string(f) {
			return h, true
		}
	}
	return fm.Column(f)
}

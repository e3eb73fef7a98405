package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"
)

// Field identifies a canonical semantic column of the shipment report.
// The string value doubles as the fixed display name used in output headers,
// independent of whichever alias matched in the input file.
type Field string

const (
	FieldShipmentID       Field = "BILL_OF_LADING"
	FieldCarrierName      Field = "CARRIER_NAME"
	FieldLane             Field = "SHIPMENT_LANE"
	FieldStopNumber       Field = "STOP_NUMBER"
	FieldPingCoverage     Field = "PING_COVERAGE"
	FieldArrivalWindow    Field = "ARRIVAL_WITHIN_APPOINTMENT_WINDOW"
	FieldTotalPredictions Field = "TOTAL_PREDICTIONS"
)

// BucketThresholds lists the accuracy bucket thresholds in minutes,
// ascending. Each threshold carries a prediction-count column and an
// accuracy-percentage column.
var BucketThresholds = []int{30, 45, 60, 90, 120}

// BucketCountField returns the canonical count field for a bucket threshold.
func BucketCountField(mins int) Field {
	return Field(fmt.Sprintf("COUNT_OF_ACCURATE_PREDICTIONS_%d_MINS", mins))
}

// BucketAccuracyField returns the canonical accuracy-percentage field for a
// bucket threshold.
func BucketAccuracyField(mins int) Field {
	return Field(fmt.Sprintf("ACCURACY_%d_MINS", mins))
}

// AllFields returns every canonical field in fixed output order.
func AllFields() []Field {
	fields := []Field{
		FieldShipmentID,
		FieldCarrierName,
		FieldLane,
		FieldStopNumber,
		FieldPingCoverage,
		FieldArrivalWindow,
		FieldTotalPredictions,
	}
	for _, mins := range BucketThresholds {
		fields = append(fields, BucketCountField(mins), BucketAccuracyField(mins))
	}
	return fields
}

// Row maps an input column name to the raw cell value for one record.
type Row map[string]string

// Table is an ordered sequence of rows with a header row. Tables are never
// mutated after construction; every pipeline stage returns a derived table.
type Table struct {
	Headers []string
	Rows    []Row
}

// CellState classifies a numeric cell lookup.
type CellState int

const (
	// CellNotApplicable means the canonical field has no matching input
	// column for this table.
	CellNotApplicable CellState = iota
	// CellMissing means the column exists but the cell is empty or not
	// coercible to a number.
	CellMissing
	// CellPresent means a numeric value was parsed.
	CellPresent
)

// NumericCell is the tri-state result of reading a numeric field from a row.
// Coercion failures become CellMissing rather than errors.
type NumericCell struct {
	Value float64
	State CellState
}

// Present reports whether the cell holds a usable numeric value.
func (c NumericCell) Present() bool {
	return c.State == CellPresent
}

// parseNumber coerces a raw cell value to a float, tolerating surrounding
// whitespace and thousands separators.
func parseNumber(raw string) (float64, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Diagnostics collects the non-fatal conditions observed while building one
// report. The host surfaces these to the end user verbatim.
type Diagnostics struct {
	// Unresolved lists canonical fields with no matching input column.
	Unresolved []Field `json:"unresolved_fields,omitempty"`
	// DedupApplied is false when the shipment identifier column was
	// unresolved and identifier-based dedup had to be skipped.
	DedupApplied bool `json:"dedup_applied"`
	// DroppedMissingID counts rows excluded during deduplication because
	// they lacked a shipment identifier.
	DroppedMissingID int `json:"dropped_missing_id"`
	// OmittedColumns lists canonical fields left out of the projection.
	OmittedColumns []Field `json:"omitted_columns,omitempty"`
}

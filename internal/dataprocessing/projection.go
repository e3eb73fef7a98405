package dataprocessing

import (
	"errors"
	"sort"
)

// ErrEmptyProjection signals that no output columns remain after omitting
// unresolved fields. This is the only condition under which a report cannot
// proceed; the host must render guidance instead of a table.
var ErrEmptyProjection = errors.New("no displayable columns after schema resolution")

// projectionFields returns the canonical fields of the output projection in
// their fixed order: the identity and metric columns, then for each selected
// bucket (ascending) the count column followed by the accuracy column.
func projectionFields(selectedBuckets []int) []Field {
	fields := []Field{
		FieldShipmentID,
		FieldCarrierName,
		FieldLane,
		FieldPingCoverage,
		FieldArrivalWindow,
		FieldTotalPredictions,
	}

	buckets := make([]int, 0, len(selectedBuckets))
	seen := make(map[int]bool)
	for _, mins := range selectedBuckets {
		if seen[mins] {
			continue
		}
		for _, known := range BucketThresholds {
			if mins == known {
				buckets = append(buckets, mins)
				seen[mins] = true
				break
			}
		}
	}
	sort.Ints(buckets)

	for _, mins := range buckets {
		fields = append(fields, BucketCountField(mins), BucketAccuracyField(mins))
	}
	return fields
}

// Project builds the output table: the projection fields resolved for this
// table, renamed to their fixed display names, in stable order. Unresolved
// fields are silently omitted from the output and reported in omitted so the
// host can display which columns were skipped. Cell values are carried over
// verbatim from the matched input columns.
func Project(t Table, fm FieldMap, selectedBuckets []int) (Table, []Field, error) {
	var (
		headers []string
		sources []string
		omitted []Field
	)
	for _, f := range projectionFields(selectedBuckets) {
		col, ok := fm.Column(f)
		if !ok {
			omitted = append(omitted, f)
			continue
		}
		headers = append(headers, string(f))
		sources = append(sources, col)
	}

	if len(headers) == 0 {
		return Table{}, omitted, ErrEmptyProjection
	}

	out := Table{Headers: headers, Rows: make([]Row, 0, len(t.Rows))}
	for _, row := range t.Rows {
		projected := make(Row, len(headers))
		for i, col := range sources {
			projected[headers[i]] = row[col]
		}
		out.Rows = append(out.Rows, projected)
	}
	return out, omitted, nil
}

package dataprocessing

import (
	"fmt"
	"strings"
)

// fieldAliases holds the ordered alias lists for canonical fields that vary
// across upstream files. The first alias present in the input wins. Identity
// fields (shipment id, carrier, lane) accept only their canonical name and
// are not listed here.
var fieldAliases = map[Field][]string{
	FieldStopNumber: {
		"STOP_NUMBER",
		"STOP_NUM",
		"STOP_SEQUENCE",
		"STOP",
	},
	FieldPingCoverage: {
		"PING_COVERAGE",
		"PING_COVERAGE_PCT",
		"PING_PCT",
	},
	FieldArrivalWindow: {
		"ARRIVAL_WITHIN_APPOINTMENT_WINDOW",
		"ARRIVAL_WITHIN_WINDOW",
		"ON_TIME_ARRIVAL",
	},
	FieldTotalPredictions: {
		"TOTAL_PREDICTIONS",
		"TOTAL_PREDICTION_COUNT",
		"PREDICTION_COUNT",
	},
}

// bucketAliasPatterns are alias formats per bucket threshold; %d is the
// threshold in minutes.
var (
	bucketCountAliases = []string{
		"COUNT_OF_ACCURATE_PREDICTIONS_%d_MINS",
		"ACCURATE_PREDICTIONS_%d_MINS",
		"COUNT_ACCURATE_%d_MINS",
	}
	bucketAccuracyAliases = []string{
		"ACCURACY_%d_MINS",
		"ACCURACY_%d_MIN",
		"PCT_ACCURATE_%d_MINS",
	}
)

// aliasesFor returns the ordered alias list for a canonical field. Fields
// without an alias list match their canonical name only.
func aliasesFor(f Field) []string {
	if aliases, ok := fieldAliases[f]; ok {
		return aliases
	}
	for _, mins := range BucketThresholds {
		if f == BucketCountField(mins) {
			return formatAliases(bucketCountAliases, mins)
		}
		if f == BucketAccuracyField(mins) {
			return formatAliases(bucketAccuracyAliases, mins)
		}
	}
	return []string{string(f)}
}

func formatAliases(patterns []string, mins int) []string {
	aliases := make([]string, len(patterns))
	for i, p := range patterns {
		aliases[i] = fmt.Sprintf(p, mins)
	}
	return aliases
}

// FieldMap records which input column satisfies each canonical field.
// Unresolved fields are simply absent. A FieldMap is built once per input
// table and treated as immutable afterwards.
type FieldMap struct {
	columns map[Field]string
}

// Resolve maps the input header set onto the canonical schema. Header
// comparison trims surrounding whitespace and ignores case; for each
// canonical field the first alias (in priority order) found in the input
// wins. Resolution never fails: fields with no matching column are left
// unresolved and downstream stages treat them as unavailable.
func Resolve(headers []string) FieldMap {
	lookup := make(map[string]string, len(headers))
	for _, h := range headers {
		key := strings.ToUpper(strings.TrimSpace(h))
		if key == "" {
			continue
		}
		// first occurrence wins for duplicated headers
		if _, seen := lookup[key]; !seen {
			lookup[key] = h
		}
	}

	columns := make(map[Field]string)
	for _, f := range AllFields() {
		for _, alias := range aliasesFor(f) {
			if col, ok := lookup[strings.ToUpper(alias)]; ok {
				columns[f] = col
				break
			}
		}
	}
	return FieldMap{columns: columns}
}

// Column returns the input column matched to a canonical field.
func (m FieldMap) Column(f Field) (string, bool) {
	col, ok := m.columns[f]
	return col, ok
}

// Resolved reports whether a canonical field matched an input column.
func (m FieldMap) Resolved(f Field) bool {
	_, ok := m.columns[f]
	return ok
}

// Unresolved lists the canonical fields with no matching input column, in
// fixed field order.
func (m FieldMap) Unresolved() []Field {
	var missing []Field
	for _, f := range AllFields() {
		if !m.Resolved(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// Value reads the trimmed cell for a canonical field from a row. The second
// return is false when the field is unresolved.
func (m FieldMap) Value(row Row, f Field) (string, bool) {
	col, ok := m.columns[f]
	if !ok {
		return "", false
	}
	return strings.TrimSpace(row[col]), true
}

// Number reads a numeric canonical field from a row as a tri-state cell.
func (m FieldMap) Number(row Row, f Field) NumericCell {
	raw, ok := m.Value(row, f)
	if !ok {
		return NumericCell{State: CellNotApplicable}
	}
	v, ok := parseNumber(raw)
	if !ok {
		return NumericCell{State: CellMissing}
	}
	return NumericCell{Value: v, State: CellPresent}
}

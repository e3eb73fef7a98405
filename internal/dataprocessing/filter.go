package dataprocessing

import "sort"

// StopMode selects how the stop-number filter is applied.
type StopMode string

const (
	// StopNone disables stop-number filtering.
	StopNone StopMode = "none"
	// StopExact keeps rows whose stop number equals Value.
	StopExact StopMode = "exact"
	// StopRange keeps rows with Low <= stop number <= High, inclusive.
	StopRange StopMode = "range"
)

// FilterCriteria is the immutable per-request filter selection. Range bounds
// come from the caller (populated from Facets) and are treated as opaque
// numeric bounds; the engine never recomputes them.
type FilterCriteria struct {
	StopMode StopMode `json:"stop_mode" validate:"omitempty,oneof=none exact range"`
	// Value is the exact stop number when StopMode is StopExact.
	Value float64 `json:"value"`
	// Low and High bound the inclusive range when StopMode is StopRange.
	Low  float64 `json:"low"`
	High float64 `json:"high" validate:"omitempty,gtefield=Low"`
	// Lanes is the selected lane set. A nil slice disables lane filtering;
	// an empty-string member is the sentinel admitting rows with a missing
	// lane value.
	Lanes []string `json:"lanes"`
	// Buckets lists the selected accuracy thresholds in minutes. Bucket
	// selection only affects which columns Project emits.
	Buckets []int `json:"buckets" validate:"omitempty,dive,oneof=30 45 60 90 120"`
}

func (c FilterCriteria) laneSet() map[string]bool {
	if c.Lanes == nil {
		return nil
	}
	set := make(map[string]bool, len(c.Lanes))
	for _, lane := range c.Lanes {
		set[lane] = true
	}
	return set
}

// ApplyFilter returns the rows of t that satisfy the criteria. Filters
// compose by logical AND. A filter whose canonical field is unresolved is an
// always-true predicate: it never reduces the row set. The input table is not
// modified; rows are shared with the derived table and must not be mutated.
func ApplyFilter(t Table, fm FieldMap, c FilterCriteria) Table {
	stopActive := c.StopMode == StopExact || c.StopMode == StopRange
	stopActive = stopActive && fm.Resolved(FieldStopNumber)

	lanes := c.laneSet()
	laneActive := lanes != nil && fm.Resolved(FieldLane)

	out := Table{Headers: t.Headers}
	for _, row := range t.Rows {
		if stopActive && !stopMatches(row, fm, c) {
			continue
		}
		if laneActive {
			lane, _ := fm.Value(row, FieldLane)
			if !lanes[lane] {
				continue
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// stopMatches evaluates the active stop-number selection for one row. Rows
// with a missing stop value are excluded whenever a selection is active.
func stopMatches(row Row, fm FieldMap, c FilterCriteria) bool {
	cell := fm.Number(row, FieldStopNumber)
	if !cell.Present() {
		return false
	}
	switch c.StopMode {
	case StopExact:
		return cell.Value == c.Value
	case StopRange:
		return cell.Value >= c.Low && cell.Value <= c.High
	}
	return true
}

// Facets describes the filter-control population data for one table: the
// distinct lane values, the observed stop-number bounds, and the bucket
// thresholds whose count and accuracy columns both resolved. The host feeds
// these back into FilterCriteria; the engine treats the bounds as opaque.
type Facets struct {
	Lanes    []string `json:"lanes,omitempty"`
	StopMin  float64  `json:"stop_min"`
	StopMax  float64  `json:"stop_max"`
	HasStops bool     `json:"has_stops"`
	Buckets  []int    `json:"buckets,omitempty"`
}

// ComputeFacets scans a table once and derives the available filter options.
func ComputeFacets(t Table, fm FieldMap) Facets {
	var f Facets

	if fm.Resolved(FieldLane) {
		seen := make(map[string]bool)
		for _, row := range t.Rows {
			lane, _ := fm.Value(row, FieldLane)
			if lane != "" && !seen[lane] {
				seen[lane] = true
				f.Lanes = append(f.Lanes, lane)
			}
		}
		sort.Strings(f.Lanes)
	}

	if fm.Resolved(FieldStopNumber) {
		for _, row := range t.Rows {
			cell := fm.Number(row, FieldStopNumber)
			if !cell.Present() {
				continue
			}
			if !f.HasStops || cell.Value < f.StopMin {
				f.StopMin = cell.Value
			}
			if !f.HasStops || cell.Value > f.StopMax {
				f.StopMax = cell.Value
			}
			f.HasStops = true
		}
	}

	for _, mins := range BucketThresholds {
		if fm.Resolved(BucketCountField(mins)) && fm.Resolved(BucketAccuracyField(mins)) {
			f.Buckets = append(f.Buckets, mins)
		}
	}

	return f
}

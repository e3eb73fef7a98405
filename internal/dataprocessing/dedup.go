package dataprocessing

import "sort"

// Deduplicate collapses a table to one row per distinct shipment identifier.
// Rows are ordered by identifier ascending (stable, so ties keep their input
// order) and the first row per identifier is kept. Rows with a missing
// identifier are dropped entirely; the drop count is returned for
// diagnostics.
//
// Assumption, carried from the upstream report definition: duplicate rows
// sharing a shipment identifier repeat identical shipment-level metrics, so
// which duplicate survives does not matter. This is not verified.
//
// When the shipment identifier column is unresolved, deduplication cannot be
// applied; the table is returned unchanged and applied is false so the host
// can warn that duplicates may remain.
func Deduplicate(t Table, fm FieldMap) (out Table, dropped int, applied bool) {
	if !fm.Resolved(FieldShipmentID) {
		return t, 0, false
	}

	rows := make([]Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		id, _ := fm.Value(row, FieldShipmentID)
		if id == "" {
			dropped++
			continue
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, _ := fm.Value(rows[i], FieldShipmentID)
		b, _ := fm.Value(rows[j], FieldShipmentID)
		return a < b
	})

	out = Table{Headers: t.Headers}
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		id, _ := fm.Value(row, FieldShipmentID)
		if seen[id] {
			continue
		}
		seen[id] = true
		out.Rows = append(out.Rows, row)
	}
	return out, dropped, true
}

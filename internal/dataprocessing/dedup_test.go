package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduplicate(t *testing.T) {
	table := testTable([]string{"Bill_of_Lading", "Stop_Number", "Accuracy_30_Mins"},
		map[string]string{"Bill_of_Lading": "Z9", "Stop_Number": "1", "Accuracy_30_Mins": "0.9"},
		map[string]string{"Bill_of_Lading": "X1", "Stop_Number": "2", "Accuracy_30_Mins": "0.8"},
		map[string]string{"Bill_of_Lading": "X1", "Stop_Number": "2", "Accuracy_30_Mins": "0.8"},
	)
	fm := Resolve(table.Headers)

	got, dropped, applied := Deduplicate(table, fm)

	require.True(t, applied)
	assert.Zero(t, dropped)
	require.Len(t, got.Rows, 2)

	// sorted by identifier ascending, first occurrence kept
	idA, _ := fm.Value(got.Rows[0], FieldShipmentID)
	idB, _ := fm.Value(got.Rows[1], FieldShipmentID)
	assert.Equal(t, "X1", idA)
	assert.Equal(t, "Z9", idB)

	stop, _ := fm.Value(got.Rows[0], FieldStopNumber)
	assert.Equal(t, "2", stop)
}

func TestDeduplicateDropsMissingIdentifiers(t *testing.T) {
	table := testTable([]string{"BILL_OF_LADING"},
		map[string]string{"BILL_OF_LADING": "A"},
		map[string]string{"BILL_OF_LADING": ""},
		map[string]string{"BILL_OF_LADING": "   "},
		map[string]string{"BILL_OF_LADING": "A"},
	)
	fm := Resolve(table.Headers)

	got, dropped, applied := Deduplicate(table, fm)

	require.True(t, applied)
	assert.Equal(t, 2, dropped)
	assert.Len(t, got.Rows, 1)
}

func TestDeduplicateSkippedWhenIdentifierUnresolved(t *testing.T) {
	table := testTable([]string{"STOP_NUMBER"},
		map[string]string{"STOP_NUMBER": "1"},
		map[string]string{"STOP_NUMBER": "1"},
	)
	fm := Resolve(table.Headers)

	got, dropped, applied := Deduplicate(table, fm)

	assert.False(t, applied)
	assert.Zero(t, dropped)
	assert.Len(t, got.Rows, 2, "rows must be preserved when dedup cannot be applied")
}

func TestDeduplicateCardinalityBound(t *testing.T) {
	table := testTable([]string{"BILL_OF_LADING"},
		map[string]string{"BILL_OF_LADING": "B"},
		map[string]string{"BILL_OF_LADING": "A"},
		map[string]string{"BILL_OF_LADING": "B"},
		map[string]string{"BILL_OF_LADING": "C"},
		map[string]string{"BILL_OF_LADING": "A"},
	)
	fm := Resolve(table.Headers)

	got, _, _ := Deduplicate(table, fm)

	assert.LessOrEqual(t, len(got.Rows), len(table.Rows))
	seen := make(map[string]int)
	for _, row := range got.Rows {
		id, _ := fm.Value(row, FieldShipmentID)
		seen[id]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "identifier %s appears more than once", id)
	}
	assert.Len(t, seen, 3)
}

package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		headers    []string
		field      Field
		wantColumn string
		wantOK     bool
	}{
		{
			name:       "exact canonical name",
			headers:    []string{"BILL_OF_LADING", "CARRIER_NAME"},
			field:      FieldShipmentID,
			wantColumn: "BILL_OF_LADING",
			wantOK:     true,
		},
		{
			name:       "case insensitive match",
			headers:    []string{"Bill_of_Lading", "Stop_Number"},
			field:      FieldShipmentID,
			wantColumn: "Bill_of_Lading",
			wantOK:     true,
		},
		{
			name:       "surrounding whitespace trimmed",
			headers:    []string{"  STOP_NUMBER  "},
			field:      FieldStopNumber,
			wantColumn: "  STOP_NUMBER  ",
			wantOK:     true,
		},
		{
			name:       "secondary alias matches",
			headers:    []string{"STOP_NUM"},
			field:      FieldStopNumber,
			wantColumn: "STOP_NUM",
			wantOK:     true,
		},
		{
			name:       "first alias wins over later alias",
			headers:    []string{"STOP_NUM", "STOP_NUMBER"},
			field:      FieldStopNumber,
			wantColumn: "STOP_NUMBER",
			wantOK:     true,
		},
		{
			name:       "bucket accuracy column",
			headers:    []string{"Accuracy_30_Mins"},
			field:      BucketAccuracyField(30),
			wantColumn: "Accuracy_30_Mins",
			wantOK:     true,
		},
		{
			name:       "bucket count column",
			headers:    []string{"COUNT_OF_ACCURATE_PREDICTIONS_45_MINS"},
			field:      BucketCountField(45),
			wantColumn: "COUNT_OF_ACCURATE_PREDICTIONS_45_MINS",
			wantOK:     true,
		},
		{
			name:    "identity fields take no aliases",
			headers: []string{"LANE", "SHIPMENT_LANE_NAME"},
			field:   FieldLane,
			wantOK:  false,
		},
		{
			name:    "unresolved field",
			headers: []string{"BILL_OF_LADING"},
			field:   FieldPingCoverage,
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm := Resolve(tt.headers)
			col, ok := fm.Column(tt.field)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantColumn, col)
			}
		})
	}
}

func TestResolveDeterministic(t *testing.T) {
	headers := []string{"Bill_of_Lading", "Stop_Number", "Accuracy_30_Mins", "SHIPMENT_LANE", "ping_coverage"}

	first := Resolve(headers)
	second := Resolve(headers)

	for _, f := range AllFields() {
		colA, okA := first.Column(f)
		colB, okB := second.Column(f)
		assert.Equal(t, okA, okB, "field %s", f)
		assert.Equal(t, colA, colB, "field %s", f)
	}
	assert.Equal(t, first.Unresolved(), second.Unresolved())
}

func TestResolveDuplicateHeaderKeepsFirst(t *testing.T) {
	fm := Resolve([]string{"STOP_NUMBER", "stop_number"})
	col, ok := fm.Column(FieldStopNumber)
	require.True(t, ok)
	assert.Equal(t, "STOP_NUMBER", col)
}

func TestFieldMapUnresolved(t *testing.T) {
	fm := Resolve([]string{"BILL_OF_LADING", "STOP_NUMBER"})
	unresolved := fm.Unresolved()

	assert.NotContains(t, unresolved, FieldShipmentID)
	assert.NotContains(t, unresolved, FieldStopNumber)
	assert.Contains(t, unresolved, FieldCarrierName)
	assert.Contains(t, unresolved, FieldPingCoverage)
	assert.Contains(t, unresolved, BucketAccuracyField(120))
}

func TestFieldMapNumber(t *testing.T) {
	fm := Resolve([]string{"STOP_NUMBER"})

	tests := []struct {
		name      string
		row       Row
		wantState CellState
		wantValue float64
	}{
		{"numeric value", Row{"STOP_NUMBER": "3"}, CellPresent, 3},
		{"whitespace tolerated", Row{"STOP_NUMBER": " 2 "}, CellPresent, 2},
		{"thousands separator", Row{"STOP_NUMBER": "1,250"}, CellPresent, 1250},
		{"empty cell is missing", Row{"STOP_NUMBER": ""}, CellMissing, 0},
		{"absent cell is missing", Row{}, CellMissing, 0},
		{"garbage is missing", Row{"STOP_NUMBER": "n/a"}, CellMissing, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := fm.Number(tt.row, FieldStopNumber)
			assert.Equal(t, tt.wantState, cell.State)
			assert.Equal(t, tt.wantValue, cell.Value)
		})
	}

	t.Run("unresolved field is not applicable", func(t *testing.T) {
		cell := fm.Number(Row{"PING_COVERAGE": "0.9"}, FieldPingCoverage)
		assert.Equal(t, CellNotApplicable, cell.State)
	})
}

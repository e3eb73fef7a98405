package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectColumnOrderAndRenaming(t *testing.T) {
	table := testTable([]string{"Bill_of_Lading", "carrier_name", "SHIPMENT_LANE", "ping_pct", "TOTAL_PREDICTIONS", "Accuracy_30_Mins", "COUNT_OF_ACCURATE_PREDICTIONS_30_MINS", "ACCURACY_60_MINS", "COUNT_ACCURATE_60_MINS"},
		map[string]string{
			"Bill_of_Lading":    "X1",
			"carrier_name":      "ACME",
			"SHIPMENT_LANE":     "DAL-HOU",
			"ping_pct":          "0.95",
			"TOTAL_PREDICTIONS": "12",
			"Accuracy_30_Mins":  "0.5",
			"COUNT_OF_ACCURATE_PREDICTIONS_30_MINS": "6",
			"ACCURACY_60_MINS":                      "0.8",
			"COUNT_ACCURATE_60_MINS":                "10",
		},
	)
	fm := Resolve(table.Headers)

	// buckets deliberately out of order and duplicated
	got, omitted, err := Project(table, fm, []int{60, 30, 60})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"BILL_OF_LADING",
		"CARRIER_NAME",
		"SHIPMENT_LANE",
		"PING_COVERAGE",
		"TOTAL_PREDICTIONS",
		"COUNT_OF_ACCURATE_PREDICTIONS_30_MINS",
		"ACCURACY_30_MINS",
		"COUNT_OF_ACCURATE_PREDICTIONS_60_MINS",
		"ACCURACY_60_MINS",
	}, got.Headers)

	// arrival window had no matching column
	assert.Equal(t, []Field{FieldArrivalWindow}, omitted)

	require.Len(t, got.Rows, 1)
	row := got.Rows[0]
	assert.Equal(t, "X1", row["BILL_OF_LADING"])
	assert.Equal(t, "0.95", row["PING_COVERAGE"], "alias column renamed to display name")
	assert.Equal(t, "10", row["COUNT_OF_ACCURATE_PREDICTIONS_60_MINS"])
}

func TestProjectOmitsUnselectedBuckets(t *testing.T) {
	table := testTable([]string{"BILL_OF_LADING", "ACCURACY_30_MINS", "COUNT_OF_ACCURATE_PREDICTIONS_30_MINS"},
		map[string]string{"BILL_OF_LADING": "A"},
	)
	fm := Resolve(table.Headers)

	got, _, err := Project(table, fm, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"BILL_OF_LADING"}, got.Headers)
}

func TestProjectUnknownBucketIgnored(t *testing.T) {
	table := testTable([]string{"BILL_OF_LADING"},
		map[string]string{"BILL_OF_LADING": "A"},
	)
	fm := Resolve(table.Headers)

	got, _, err := Project(table, fm, []int{15, 999})
	require.NoError(t, err)
	assert.Equal(t, []string{"BILL_OF_LADING"}, got.Headers)
}

func TestProjectEmptyProjection(t *testing.T) {
	table := testTable([]string{"SOMETHING", "ELSE"},
		map[string]string{"SOMETHING": "x", "ELSE": "y"},
	)
	fm := Resolve(table.Headers)

	_, omitted, err := Project(table, fm, []int{30})
	require.ErrorIs(t, err, ErrEmptyProjection)
	assert.NotEmpty(t, omitted)
}

func TestProjectColumnCountProperty(t *testing.T) {
	table := testTable([]string{"BILL_OF_LADING", "CARRIER_NAME", "PING_COVERAGE"},
		map[string]string{"BILL_OF_LADING": "A", "CARRIER_NAME": "ACME", "PING_COVERAGE": "1"},
	)
	fm := Resolve(table.Headers)

	selected := []int{30, 45}
	got, omitted, err := Project(table, fm, selected)
	require.NoError(t, err)

	// fixed fields (6) + 2 columns per selected bucket, minus omissions
	want := 6 + 2*len(selected) - len(omitted)
	assert.Equal(t, want, len(got.Headers))
}

package exporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etacli/internal/dataprocessing"
)

func TestWriteTable(t *testing.T) {
	table := dataprocessing.Table{
		Headers: []string{"BILL_OF_LADING", "CARRIER_NAME"},
		Rows: []dataprocessing.Row{
			{"BILL_OF_LADING": "X1", "CARRIER_NAME": "ACME"},
			{"BILL_OF_LADING": "X2"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, table, WriteOptions{}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "BILL_OF_LADING,CARRIER_NAME", lines[0])
	assert.Equal(t, "X1,ACME", lines[1])
	assert.Equal(t, "X2,", lines[2], "absent cells are written empty")
}

func TestWriteTableBOMPrefix(t *testing.T) {
	table := dataprocessing.Table{Headers: []string{"A"}}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, table, WriteOptions{BOMPrefix: true}))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF}))
}

func TestWriteTableRoundTrip(t *testing.T) {
	table := dataprocessing.Table{
		Headers: []string{"BILL_OF_LADING", "STOP_NUMBER"},
		Rows: []dataprocessing.Row{
			{"BILL_OF_LADING": "X1", "STOP_NUMBER": "1"},
			{"BILL_OF_LADING": "X2", "STOP_NUMBER": "2"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, table, WriteOptions{BOMPrefix: true}))

	// a downloaded export must be ingestible again without losing the schema
	reparsed, err := dataprocessing.ParseCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, table.Headers, reparsed.Headers)

	fm := dataprocessing.Resolve(reparsed.Headers)
	assert.True(t, fm.Resolved(dataprocessing.FieldShipmentID))
	assert.True(t, fm.Resolved(dataprocessing.FieldStopNumber))
}

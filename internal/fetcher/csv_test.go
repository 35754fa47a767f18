package fetcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamCSV(t *testing.T) {
	input := "Pcode,Locality,State\n2000,SYDNEY,NSW\n800,DARWIN,NT\n"

	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{})

	var rows [][]string
	for row := range rowCh {
		rows = append(rows, row)
	}
	for err := range errCh {
		require.NoError(t, err)
	}

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Pcode", "Locality", "State"}, rows[0])
	assert.Equal(t, []string{"2000", "SYDNEY", "NSW"}, rows[1])
	assert.Equal(t, []string{"800", "DARWIN", "NT"}, rows[2])
}

func TestReadCSV_Options(t *testing.T) {
	input := "# exported 2024\nPcode| Locality |State\n2000|  SYDNEY |NSW\n"

	rows, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{
		Delimiter: '|',
		Comment:   '#',
		TrimSpace: true,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Pcode", "Locality", "State"}, rows[0])
	assert.Equal(t, []string{"2000", "SYDNEY", "NSW"}, rows[1])
}

func TestReadCSV_VariableFields(t *testing.T) {
	rows, err := ReadCSV(context.Background(), strings.NewReader("a,b,c\n1,2\n"), CSVOptions{})
	require.NoError(t, err)
	assert.Len(t, rows[1], 2)
}

func TestReadCSV_Malformed(t *testing.T) {
	_, err := ReadCSV(context.Background(), strings.NewReader("a,\"b\nc"), CSVOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv: read row")
}

func TestReadCSV_ContextCancelled(t *testing.T) {
	var sb strings.Builder
	for range 1000 {
		sb.WriteString("2000,SYDNEY,NSW\n")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rowCh, errCh := StreamCSV(ctx, strings.NewReader(sb.String()), CSVOptions{})
	for range rowCh { //nolint:revive // drain
	}
	var gotErr error
	for err := range errCh {
		gotErr = err
	}
	require.Error(t, gotErr)
	assert.Contains(t, gotErr.Error(), "context cancelled")
}

func TestHeaderIndex(t *testing.T) {
	idx, err := HeaderIndex([]string{"\ufeffpcode", " Locality ", "STATE", "Extra"}, "Pcode", "Locality", "State")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Pcode": 0, "Locality": 1, "State": 2}, idx)
}

func TestHeaderIndex_Missing(t *testing.T) {
	_, err := HeaderIndex([]string{"Pcode"}, "Pcode", "Locality", "State")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Locality, State")
}

package collector

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_OuterJoin(t *testing.T) {
	table := NewTable()
	table.AddColumnValues(Column{Name: "crypto_fear_greed", Values: map[string]string{
		"2024-01-02": "30",
		"2024-01-01": "20",
	}})
	table.AddColumnValues(Column{Name: "btc", Values: map[string]string{
		"2024-01-01": "42000",
		"2024-01-03": "43000",
	}})

	assert.Equal(t, []string{"date", "crypto_fear_greed", "btc"}, table.Header())
	assert.Equal(t, [][]string{
		{"2024-01-01", "20", "42000"},
		{"2024-01-02", "30", ""},
		{"2024-01-03", "", "43000"},
	}, table.Records())
}

func TestTable_MergeOverwritesCells(t *testing.T) {
	base := NewTable()
	base.Set("2024-01-01", "sp500", "4700")
	base.Set("2024-01-01", "fear_greed", "50")

	update := NewTable()
	update.Set("2024-01-01", "fear_greed", "55")
	update.Set("2024-01-02", "fear_greed", "60")

	base.Merge(update)

	assert.Equal(t, [][]string{
		{"2024-01-01", "4700", "55"},
		{"2024-01-02", "", "60"},
	}, base.Records())
}

func TestTable_OnlyAndWithout(t *testing.T) {
	table := NewTable()
	table.Set("2024-01-01", "a", "1")
	table.Set("2024-01-02", "a", "2")
	table.Set("2024-01-02", "b", "3")

	only := table.Only("2024-01-02")
	assert.Equal(t, [][]string{{"2024-01-02", "2", "3"}}, only.Records())

	missing := table.Only("2024-02-01")
	assert.Equal(t, 0, missing.Len())
	assert.Equal(t, []string{"a", "b"}, missing.Columns())

	without := table.Without("a")
	assert.Equal(t, []string{"b"}, without.Columns())
	// dates survive even when every remaining cell is empty
	assert.Equal(t, [][]string{{"2024-01-01", ""}, {"2024-01-02", "3"}}, without.Records())
}

func TestReadTable(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantColumns []string
		wantRecords [][]string
		wantErr     bool
	}{
		{
			name:        "stock file",
			content:     "date,nasdaq,sp500,fear_greed\n2024-01-01,15000,4700,50\n2024-01-02,15100,,60\n",
			wantColumns: []string{"nasdaq", "sp500", "fear_greed"},
			wantRecords: [][]string{
				{"2024-01-01", "15000", "4700", "50"},
				{"2024-01-02", "15100", "", "60"},
			},
		},
		{
			name:        "bom and short rows",
			content:     "\ufeffdate,a,b\n2024-01-01,1\n,9,9\n",
			wantColumns: []string{"a", "b"},
			wantRecords: [][]string{{"2024-01-01", "1", ""}},
		},
		{
			name:        "date not first",
			content:     "a,date\n1,2024-01-01\n",
			wantColumns: []string{"a"},
			wantRecords: [][]string{{"2024-01-01", "1"}},
		},
		{
			name:        "empty file",
			content:     "",
			wantColumns: nil,
			wantRecords: [][]string{},
		},
		{
			name:    "no date column",
			content: "a,b\n1,2\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := readTable(strings.NewReader(tt.content))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantColumns, table.Columns())
			assert.Equal(t, tt.wantRecords, table.Records())
		})
	}
}

func TestReadTable_MissingFile(t *testing.T) {
	table, err := ReadTable(filepath.Join(t.TempDir(), "none.csv"))
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestReadTable_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gold.csv")
	require.NoError(t, os.WriteFile(path, []byte("date,premium_percent\n2024-01-03,1.2\n"), 0644))

	table, err := ReadTable(path)
	require.NoError(t, err)
	v, ok := table.Get("2024-01-03", "premium_percent")
	assert.True(t, ok)
	assert.Equal(t, "1.2", v)
}

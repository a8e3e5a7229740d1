package exporter

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feargreed/internal/shared/testutil"
)

func TestCSVWriter_WriteCSV(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		options  WriteOptions
		expected string
	}{
		{
			name: "headers and records",
			path: "coin.csv",
			options: WriteOptions{
				Headers: []string{"date", "btc"},
				Records: [][]string{{"2024-01-01", "42000"}, {"2024-01-02", ""}},
			},
			expected: "date,btc\n2024-01-01,42000\n2024-01-02,\n",
		},
		{
			name: "nested directory is created",
			path: "as-is/btc_premium.csv",
			options: WriteOptions{
				Headers: []string{"date", "btc_premium"},
				Records: [][]string{{"2024-01-02", "2.5"}},
			},
			expected: "date,btc_premium\n2024-01-02,2.5\n",
		},
		{
			name: "bom prefix",
			path: "excel.csv",
			options: WriteOptions{
				Headers:   []string{"date"},
				BOMPrefix: true,
			},
			expected: "\xEF\xBB\xBFdate\n",
		},
		{
			name: "values with commas are quoted",
			path: "quoted.csv",
			options: WriteOptions{
				Headers: []string{"date", "note"},
				Records: [][]string{{"2024-01-01", "a,b"}},
			},
			expected: "date,note\n2024-01-01,\"a,b\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			logger, _ := testutil.NewTestLogger(t)
			w := NewCSVWriter(dir, logger)

			require.NoError(t, w.WriteCSV(tt.path, tt.options))

			data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(tt.path)))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(data))
		})
	}
}

func TestCSVWriter_ReplacesExistingFile(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir, nil)

	require.NoError(t, w.WriteSimpleCSV("gold.csv", []string{"date", "gold_premium"},
		[][]string{{"2024-01-03", "1.2"}, {"2024-01-04", "1.5"}}))
	require.NoError(t, w.WriteSimpleCSV("gold.csv", []string{"date", "gold_premium"},
		[][]string{{"2024-01-05", "1.7"}}))

	data, err := os.ReadFile(filepath.Join(dir, "gold.csv"))
	require.NoError(t, err)
	assert.Equal(t, "date,gold_premium\n2024-01-05,1.7\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestCSVWriter_Path(t *testing.T) {
	w := NewCSVWriter(filepath.Join("base", "data"), nil)

	assert.Equal(t, filepath.Join("base", "data", "as-is", "x.csv"), w.Path("as-is/x.csv"))

	abs, err := filepath.Abs("elsewhere.csv")
	require.NoError(t, err)
	assert.Equal(t, abs, w.Path(abs))
}

func TestCSVWriter_LogsWrite(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	w := NewCSVWriter(t.TempDir(), logger)

	require.NoError(t, w.WriteSimpleCSV("stock.csv", []string{"date"}, [][]string{{"2024-01-01"}}))

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Writing CSV file")
	testutil.AssertLogAttr(t, handler, "component", "csv_writer")
}

package dataprocessing

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feargreed/pkg/contracts/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    domain.Series
		wantErr error
	}{
		{
			name:  "drops record with empty date",
			input: "date,value\n2024-01-01,5\n,9\n",
			want: domain.Series{
				{"date": "2024-01-01", "value": "5"},
			},
		},
		{
			name:  "trims headers and values",
			input: "  date , fear_greed ,sp500\n 2024-01-02 , 41 , 4700.5 \n",
			want: domain.Series{
				{"date": "2024-01-02", "fear_greed": "41", "sp500": "4700.5"},
			},
		},
		{
			name:  "missing trailing fields are empty",
			input: "date,btc,eth\n2024-01-03,42000\n",
			want: domain.Series{
				{"date": "2024-01-03", "btc": "42000", "eth": ""},
			},
		},
		{
			name:  "extra values are ignored",
			input: "date,value\n2024-01-03,1,2,3\n",
			want: domain.Series{
				{"date": "2024-01-03", "value": "1"},
			},
		},
		{
			name:  "carriage returns are trimmed",
			input: "date,value\r\n2024-01-01,5\r\n2024-01-02,6\r\n",
			want: domain.Series{
				{"date": "2024-01-01", "value": "5"},
				{"date": "2024-01-02", "value": "6"},
			},
		},
		{
			name:  "keeps source order",
			input: "date,v\n2024-01-05,1\n2024-01-01,2\n2024-01-03,3",
			want: domain.Series{
				{"date": "2024-01-05", "v": "1"},
				{"date": "2024-01-01", "v": "2"},
				{"date": "2024-01-03", "v": "3"},
			},
		},
		{
			name:  "no date column drops everything",
			input: "day,v\n2024-01-01,1\n",
			want:  domain.Series{},
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: ErrEmptyInput,
		},
		{
			name:    "whitespace only",
			input:   " \n\n ",
			wantErr: ErrEmptyInput,
		},
		{
			name:    "header only",
			input:   "date,value\n",
			wantErr: ErrEmptyInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_RecordCountMatchesNonEmptyDates(t *testing.T) {
	lines := []string{"date,a,b"}
	dated := 0
	for i := 0; i < 50; i++ {
		if i%7 == 0 {
			lines = append(lines, ",x,y")
			continue
		}
		lines = append(lines, "2024-02-01,x,y")
		dated++
	}

	got, err := Parse(strings.Join(lines, "\n"))
	require.NoError(t, err)
	assert.Len(t, got, dated)
	for _, rec := range got {
		assert.Equal(t, "x", rec["a"])
		assert.Equal(t, "y", rec["b"])
	}
}

func TestParseReader(t *testing.T) {
	got, err := ParseReader(strings.NewReader("date,v\n2024-01-01,3\n"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-01-01", got[0].Date())
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw  string
		want *float64
	}{
		{"42", Float(42)},
		{" 4700.25 ", Float(4700.25)},
		{"-3.5", Float(-3.5)},
		{"", nil},
		{"n/a", nil},
		{"NaN", nil},
		{"Inf", nil},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseValue(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.False(t, math.IsNaN(*got))
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

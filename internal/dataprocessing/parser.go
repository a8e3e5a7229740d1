package dataprocessing

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"feargreed/pkg/contracts/domain"
)

// ErrEmptyInput is returned by Parse when the text has no data lines.
var ErrEmptyInput = errors.New("empty csv input")

// Parse splits comma separated text into records keyed by the header row.
//
// Lines are split positionally on ',' with no quote handling. A line with
// fewer values than headers gets "" for the missing trailing columns; extra
// values are ignored. Records without a date are dropped. Zero-length or
// header-only text returns ErrEmptyInput.
func Parse(text string) (domain.Series, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: header only", ErrEmptyInput)
	}

	headers := strings.Split(lines[0], ",")
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	series := make(domain.Series, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := strings.Split(line, ",")
		rec := make(domain.Record, len(headers))
		for i, h := range headers {
			if i < len(values) {
				rec[h] = strings.TrimSpace(values[i])
			} else {
				rec[h] = ""
			}
		}
		if rec.Date() == "" {
			continue
		}
		series = append(series, rec)
	}

	return series, nil
}

// ParseReader reads r fully and parses it with Parse.
func ParseReader(r io.Reader) (domain.Series, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return Parse(string(data))
}

// ParseValue converts a raw field into a nullable number.
// Empty, non-numeric, NaN and infinite fields yield nil.
func ParseValue(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Float is a convenience constructor for nullable values.
func Float(v float64) *float64 {
	return &v
}

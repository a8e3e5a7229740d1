package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"

	"feargreed/pkg/contracts/domain"
)

// PeriodAll selects the whole domain.
const PeriodAll = "all"

// Index maps a date to the first record carrying it.
type Index map[string]domain.Record

// NewIndex builds a first-match lookup for series. When column is not
// empty, a date only counts as present if that column has a value on the
// record, so blank cells in a combined file do not widen the domain.
func NewIndex(series domain.Series, column string) Index {
	idx := make(Index, len(series))
	for _, rec := range series {
		if column != "" && strings.TrimSpace(rec[column]) == "" {
			continue
		}
		d := rec.Date()
		if _, seen := idx[d]; seen {
			continue
		}
		idx[d] = rec
	}
	return idx
}

// Has reports whether date is present.
func (idx Index) Has(date string) bool {
	_, ok := idx[date]
	return ok
}

// Aligned is one series taking part in an intersection.
type Aligned struct {
	Series   domain.Series
	Column   string
	Required bool
}

// IntersectDomain returns the primary series' dates, in the primary's own
// order, that are also present in every required series in others.
// Series not marked Required do not constrain the result. Repeated dates in
// the primary are kept, one domain position per record; lookups still see
// only the first record of a date.
func IntersectDomain(primary domain.Series, others ...Aligned) domain.Domain {
	var required []Index
	for _, o := range others {
		if o.Required {
			required = append(required, NewIndex(o.Series, o.Column))
		}
	}

	out := make(domain.Domain, 0, len(primary))
	for _, rec := range primary {
		d := rec.Date()
		keep := true
		for _, idx := range required {
			if !idx.Has(d) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, d)
		}
	}
	return out
}

// SuffixWindow returns the last days entries of d. days <= 0 returns d
// unchanged.
func SuffixWindow(d domain.Domain, days int) domain.Domain {
	if days <= 0 || days >= len(d) {
		return d
	}
	return d[len(d)-days:]
}

// ParsePeriod converts "all" or a day count into a window size for
// SuffixWindow. "all" and "" map to 0.
func ParsePeriod(period string) (int, error) {
	period = strings.TrimSpace(period)
	if period == "" || strings.EqualFold(period, PeriodAll) {
		return 0, nil
	}
	days, err := strconv.Atoi(period)
	if err != nil {
		return 0, fmt.Errorf("invalid period %q: %w", period, err)
	}
	return days, nil
}

// Project returns column's value at every date of d using first-match
// lookup. Missing dates and non-numeric cells are nil.
func Project(idx Index, column string, d domain.Domain) []*float64 {
	values := make([]*float64, len(d))
	for i, date := range d {
		rec, ok := idx[date]
		if !ok {
			continue
		}
		values[i] = ParseValue(rec[column])
	}
	return values
}

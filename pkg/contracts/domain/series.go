package domain

// DateColumn is the join key shared by every source file.
const DateColumn = "date"

// DateLayout is the format of every date key.
const DateLayout = "2006-01-02"

// Record is one parsed CSV line keyed by header name.
type Record map[string]string

// Date returns the record's join key, or "" when absent.
func (r Record) Date() string {
	return r[DateColumn]
}

// Get returns the raw value of a column and whether the column exists.
func (r Record) Get(column string) (string, bool) {
	v, ok := r[column]
	return v, ok
}

// Series is an ordered sequence of records in source-file order.
// A Series is never mutated after parsing.
type Series []Record

// Dates returns the date key of every record, duplicates included.
func (s Series) Dates() Domain {
	dates := make(Domain, 0, len(s))
	for _, rec := range s {
		dates = append(dates, rec.Date())
	}
	return dates
}

// Domain is the ordered sequence of date keys a chart is plotted against.
type Domain []string

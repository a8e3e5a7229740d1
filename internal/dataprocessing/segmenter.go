package dataprocessing

import "feargreed/pkg/contracts/domain"

// Segment splits values into maximal runs of the same category. values is
// index-aligned with d; extra values are ignored and missing ones count as
// nil. A nil or NaN value closes the open run and belongs to no segment.
//
// Every returned segment carries a Points slice of len(d) holding the run's
// values at their original index and nil elsewhere.
func Segment(values []*float64, d domain.Domain) []domain.Segment {
	segments := make([]domain.Segment, 0)

	open := false
	var cur domain.Segment

	flush := func() {
		if !open {
			return
		}
		points := make([]*float64, len(d))
		for i := cur.Start; i <= cur.End; i++ {
			points[i] = Float(*values[i])
		}
		cur.Points = points
		segments = append(segments, cur)
		open = false
	}

	for i := 0; i < len(d); i++ {
		var v *float64
		if i < len(values) {
			v = values[i]
		}
		if !valid(v) {
			flush()
			continue
		}

		c := Categorize(*v)
		if open && c == cur.Category {
			cur.End = i
			continue
		}
		flush()
		cur = domain.Segment{Category: c, Value: *v, Start: i, End: i}
		open = true
	}
	flush()

	return segments
}

package domain

import "fmt"

// Category is an ordered fear & greed bucket.
type Category int

const (
	ExtremeFear Category = iota
	Fear
	Neutral
	Greed
	ExtremeGreed
)

var categoryNames = [...]string{
	ExtremeFear:  "extreme-fear",
	Fear:         "fear",
	Neutral:      "neutral",
	Greed:        "greed",
	ExtremeGreed: "extreme-greed",
}

// String returns the slug form, e.g. "extreme-fear".
func (c Category) String() string {
	if c < ExtremeFear || c > ExtremeGreed {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory converts a slug back into a Category.
func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if name == s {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Segment is a maximal run of consecutive same-category points.
// Points has the length of the domain it was cut from; entries
// outside [Start, End] are nil.
type Segment struct {
	Category Category   `json:"category"`
	Value    float64    `json:"value"`
	Start    int        `json:"start"`
	End      int        `json:"end"`
	Points   []*float64 `json:"points"`
}

// Len returns the number of points in the run.
func (s Segment) Len() int {
	return s.End - s.Start + 1
}

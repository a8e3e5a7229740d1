package dataprocessing

import (
	"fmt"
	"math"
	"strings"
)

// Normalization policy names accepted by NewPolicy.
const (
	PolicyBaseline = "baseline"
	PolicyMinMax   = "minmax"
	PolicyIdentity = "none"
)

// Policy rescales a nullable series. Implementations keep nil entries nil
// at the same index and never fail.
type Policy interface {
	Name() string
	apply(values []*float64) []*float64
}

// Normalize applies p to values and returns a fresh slice.
func Normalize(values []*float64, p Policy) []*float64 {
	if p == nil {
		p = Identity{}
	}
	return p.apply(values)
}

// Baseline maps each value to 50 plus its percent change from the first
// non-null value, scaled by Sensitivity and clamped to [0,100].
type Baseline struct {
	Sensitivity float64
}

func (Baseline) Name() string { return PolicyBaseline }

func (b Baseline) apply(values []*float64) []*float64 {
	out := make([]*float64, len(values))

	var base *float64
	for _, v := range values {
		if valid(v) {
			base = v
			break
		}
	}
	if base == nil || *base == 0 {
		return out
	}

	for i, v := range values {
		if !valid(v) {
			continue
		}
		pct := (*v - *base) / *base * 100
		out[i] = Float(clamp(50+pct*b.Sensitivity, 0, 100))
	}
	return out
}

// MinMax maps the observed [min,max] linearly onto [Lo,Hi]. A series with
// a single distinct value maps every point to the midpoint of [Lo,Hi].
type MinMax struct {
	Lo float64
	Hi float64
}

func (MinMax) Name() string { return PolicyMinMax }

func (m MinMax) apply(values []*float64) []*float64 {
	out := make([]*float64, len(values))

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if !valid(v) {
			continue
		}
		lo = math.Min(lo, *v)
		hi = math.Max(hi, *v)
	}

	for i, v := range values {
		if !valid(v) {
			continue
		}
		if hi == lo {
			out[i] = Float((m.Lo + m.Hi) / 2)
			continue
		}
		out[i] = Float(m.Lo + (*v-lo)/(hi-lo)*(m.Hi-m.Lo))
	}
	return out
}

// Identity copies values unchanged, turning NaN into nil.
type Identity struct{}

func (Identity) Name() string { return PolicyIdentity }

func (Identity) apply(values []*float64) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		if valid(v) {
			out[i] = Float(*v)
		}
	}
	return out
}

// NewPolicy builds a policy by name. Zero lo/hi for minmax default to
// [10,90]; zero sensitivity for baseline defaults to 1.
func NewPolicy(name string, sensitivity, lo, hi float64) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PolicyBaseline:
		if sensitivity == 0 {
			sensitivity = 1
		}
		return Baseline{Sensitivity: sensitivity}, nil
	case PolicyMinMax:
		if lo == 0 && hi == 0 {
			lo, hi = 10, 90
		}
		if lo > hi {
			return nil, fmt.Errorf("minmax range [%g,%g] is inverted", lo, hi)
		}
		return MinMax{Lo: lo, Hi: hi}, nil
	case PolicyIdentity, "", "identity":
		return Identity{}, nil
	default:
		return nil, fmt.Errorf("unknown normalization policy %q", name)
	}
}

func valid(v *float64) bool {
	return v != nil && !math.IsNaN(*v)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

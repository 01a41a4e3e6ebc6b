/*
	Copyright 2023 Google Inc.
	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at
		https://www.apache.org/licenses/LICENSE-2.0
	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

// Package scale provides pure mappings from data domains to pixel ranges,
// colors, or radii.  Scales are built fresh for each render from resolved
// domains and are never shared mutable state.
//
// Continuous scales (Linear, Sqrt) map a domainresolver.Extent onto a pixel
// range [R0, R1]; R1 may be less than R0, as is usual for y axes whose pixel
// coordinates grow downward.  Discrete scales (Band, Ordinal, Threshold,
// Bivariate) map keys or buckets to positions or colors.
package scale

import (
	"math"

	domainresolver "github.com/UNDP-Data/undp-visualization-library-sub001/domain_resolver"
	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
	"github.com/aclements/go-moremath/scale"
)

// Linear linearly maps a domain onto a pixel range.
type Linear struct {
	s      scale.Linear
	R0, R1 float64
}

// NewLinear returns a Linear scale over the provided domain and range.
func NewLinear(domain domainresolver.Extent, r0, r1 float64) *Linear {
	return &Linear{
		s:  scale.Linear{Min: domain.Min, Max: domain.Max},
		R0: r0,
		R1: r1,
	}
}

// Domain returns the receiver's domain.
func (l *Linear) Domain() domainresolver.Extent {
	return domainresolver.Extent{Min: l.s.Min, Max: l.s.Max}
}

// WithClamp sets whether mapped values are clamped to the range.
func (l *Linear) WithClamp(clamp bool) *Linear {
	l.s.Clamp = clamp
	return l
}

// Map maps v into the receiver's range.  A degenerate domain maps every
// value to R0, and a non-finite v maps to R0, so Map never returns NaN.
func (l *Linear) Map(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || !(l.s.Max != l.s.Min) {
		return l.R0
	}
	t := l.s.Map(v)
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return l.R0
	}
	return l.R0 + t*(l.R1-l.R0)
}

// MapNumber maps n, returning false if n is absent or non-finite.
func (l *Linear) MapNumber(n nullguard.Number) (float64, bool) {
	if !n.Finite() {
		return 0, false
	}
	v, _ := n.Get()
	return l.Map(v), true
}

// Zero returns the pixel position of the domain value 0, clamped to the
// range.  Bars grow from this line.
func (l *Linear) Zero() float64 {
	lo, hi := math.Min(l.R0, l.R1), math.Max(l.R0, l.R1)
	return math.Max(lo, math.Min(hi, l.Map(0)))
}

// Ticks returns at most max major tick values within the domain.  A
// degenerate domain yields its single value.
func (l *Linear) Ticks(max int) []float64 {
	if max < 1 {
		return nil
	}
	if !(l.s.Max > l.s.Min) {
		return []float64{l.s.Min}
	}
	major, _ := l.s.Ticks(scale.TickOptions{Max: max})
	return major
}

// Nice extends the domain outward to the nearest tick boundaries for at
// most max major ticks.
func (l *Linear) Nice(max int) *Linear {
	if max >= 1 && l.s.Max > l.s.Min {
		l.s.Nice(scale.TickOptions{Max: max})
	}
	return l
}

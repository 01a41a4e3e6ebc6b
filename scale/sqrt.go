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

package scale

import (
	"math"

	domainresolver "github.com/UNDP-Data/undp-visualization-library-sub001/domain_resolver"
	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
)

// Sqrt is a square-root scale, used for area-proportional radii.  Inputs
// are clamped to the domain, so the output always lies within [R0, R1].
type Sqrt struct {
	domain domainresolver.Extent
	R0, R1 float64
}

// NewSqrt returns a Sqrt scale over the provided domain.  Negative domain
// bounds are treated as 0.
func NewSqrt(domain domainresolver.Extent, r0, r1 float64) *Sqrt {
	return &Sqrt{
		domain: domainresolver.Extent{
			Min: math.Max(0, domain.Min),
			Max: math.Max(0, domain.Max),
		},
		R0: r0,
		R1: r1,
	}
}

// Map maps v into the receiver's range.
func (s *Sqrt) Map(v float64) float64 {
	if math.IsNaN(v) {
		return s.R0
	}
	lo, hi := math.Sqrt(s.domain.Min), math.Sqrt(s.domain.Max)
	if !(hi > lo) {
		return s.R0
	}
	v = math.Max(s.domain.Min, math.Min(s.domain.Max, v))
	t := (math.Sqrt(v) - lo) / (hi - lo)
	return s.R0 + t*(s.R1-s.R0)
}

// MapNumber maps n, returning false if n is absent or NaN.
func (s *Sqrt) MapNumber(n nullguard.Number) (float64, bool) {
	v, ok := n.Get()
	if !ok || math.IsNaN(v) {
		return 0, false
	}
	return s.Map(v), true
}

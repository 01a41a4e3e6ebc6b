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

// Package domainresolver computes scale domains from Record data.
//
// All resolvers share the same rules: absent and non-finite values are
// ignored, an explicit override bound is used verbatim, and an empty set of
// values falls back to zero rather than to an infinite extent.  Value-axis
// domains additionally always include zero, unless overridden.
package domainresolver

import (
	"math"

	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
	"github.com/UNDP-Data/undp-visualization-library-sub001/record"
)

// Extent is a closed [Min, Max] domain.
type Extent struct {
	Min, Max float64
}

// Width returns Max-Min.
func (e Extent) Width() float64 {
	return e.Max - e.Min
}

// Degenerate returns true if the receiver has no width.
func (e Extent) Degenerate() bool {
	return !(e.Max > e.Min)
}

// Override holds optional explicit domain bounds.
type Override struct {
	Min, Max nullguard.Number
}

func (o Override) apply(e Extent) Extent {
	if v, ok := o.Min.Get(); ok {
		e.Min = v
	}
	if v, ok := o.Max.Get(); ok {
		e.Max = v
	}
	return e
}

// Natural returns the extent of the finite values among the provided
// Numbers.  It returns false if there are none.
func Natural(values []nullguard.Number) (Extent, bool) {
	present := nullguard.Present(values)
	if len(present) == 0 {
		return Extent{}, false
	}
	ret := Extent{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, v := range present {
		ret.Min = math.Min(ret.Min, v)
		ret.Max = math.Max(ret.Max, v)
	}
	return ret, true
}

// Collect returns all values yielded by the accessor across the provided
// records.
func Collect(records []record.Record, acc record.Accessor) []nullguard.Number {
	ret := make([]nullguard.Number, 0, len(records))
	for idx := range records {
		ret = append(ret, acc(&records[idx])...)
	}
	return ret
}

// Value returns a value-axis domain over the provided values.  The natural
// extent is widened to include zero: a negative maximum becomes 0, and a
// positive minimum becomes 0.  Override bounds then replace the computed
// bounds verbatim.  With no finite values the computed domain is [0, 0].
func Value(values []nullguard.Number, o Override) Extent {
	e, ok := Natural(values)
	if !ok {
		return o.apply(Extent{})
	}
	if e.Max < 0 {
		e.Max = 0
	}
	if e.Min > 0 {
		e.Min = 0
	}
	return o.apply(e)
}

// ForRecords returns the value-axis domain of the accessor's values across
// the provided records.
func ForRecords(records []record.Record, acc record.Accessor, o Override) Extent {
	return Value(Collect(records, acc), o)
}

// Radius returns a radius domain [0, max], where max is maxOverride if
// present, and otherwise the largest finite value (or 0).  A shared
// maxOverride keeps bubble sizes comparable across separately rendered
// charts.
func Radius(values []nullguard.Number, maxOverride nullguard.Number) Extent {
	if v, ok := maxOverride.Get(); ok {
		return Extent{Min: 0, Max: v}
	}
	e, ok := Natural(values)
	if !ok || e.Max < 0 {
		return Extent{}
	}
	return Extent{Min: 0, Max: e.Max}
}

// Span returns the natural extent of the provided values with overrides
// applied, without zero clamping; [0, 0] if there are no finite values.
func Span(values []nullguard.Number, o Override) Extent {
	e, _ := Natural(values)
	return o.apply(e)
}

// Thresholds returns buckets-1 evenly spaced thresholds splitting the span
// of the provided values (see Span) into the requested number of buckets.
// Fewer than two buckets yield no thresholds.
func Thresholds(values []nullguard.Number, o Override, buckets int) []float64 {
	if buckets < 2 {
		return nil
	}
	e := Span(values, o)
	step := e.Width() / float64(buckets)
	ret := make([]float64, buckets-1)
	for idx := range ret {
		ret[idx] = e.Min + step*float64(idx+1)
	}
	return ret
}

// Categories returns the distinct non-empty color keys of the provided
// records, in first-seen order.
func Categories(records []record.Record) []string {
	seen := map[string]struct{}{}
	ret := []string{}
	for _, r := range records {
		if r.Color == "" {
			continue
		}
		if _, ok := seen[r.Color]; !ok {
			seen[r.Color] = struct{}{}
			ret = append(ret, r.Color)
		}
	}
	return ret
}

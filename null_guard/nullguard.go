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

// Package nullguard distinguishes 'no value' from zero, negative, or empty
// values.  Every domain computation and every geometry decision in the chart
// pipeline is gated on IsAbsent, so that a missing value never silently
// turns into a zero-height bar or a NaN path coordinate.
//
// Numeric fields are carried as Number, an optional float64 whose zero value
// is absent:
//
//	var n nullguard.Number      // absent
//	n = nullguard.Of(0)         // present, and zero
//	if v, ok := n.Get(); ok { ... }
//
// Note that NaN is not absent: Of(math.NaN()) is a present Number.  Callers
// that care about NaN (domain resolution, for instance) must check for it
// separately, e.g. via Present.
package nullguard

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"strconv"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Number is an optional float64.  The zero Number is absent.
type Number struct {
	v       float64
	present bool
}

// Absent is the absent Number.
var Absent = Number{}

// Of returns a present Number holding v.
func Of(v float64) Number {
	return Number{v: v, present: true}
}

// FromPtr returns a Number holding *v, or Absent if v is nil.
func FromPtr(v *float64) Number {
	if v == nil {
		return Absent
	}
	return Of(*v)
}

// IsAbsent returns true if the receiver holds no value.
func (n Number) IsAbsent() bool {
	return !n.present
}

// Get returns the receiver's value and whether it is present.
func (n Number) Get() (float64, bool) {
	return n.v, n.present
}

// Or returns the receiver's value if present, and def otherwise.
func (n Number) Or(def float64) float64 {
	if !n.present {
		return def
	}
	return n.v
}

// Finite returns true if the receiver is present and neither NaN nor
// infinite.
func (n Number) Finite() bool {
	return n.present && !math.IsNaN(n.v) && !math.IsInf(n.v, 0)
}

// String returns the receiver's value, or "absent".
func (n Number) String() string {
	if !n.present {
		return "absent"
	}
	return strconv.FormatFloat(n.v, 'g', -1, 64)
}

// MarshalJSON encodes an absent Number as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.present {
		return []byte("null"), nil
	}
	if math.IsNaN(n.v) || math.IsInf(n.v, 0) {
		// JSON has no encoding for these; keep them distinguishable from null.
		return json.Marshal(strconv.FormatFloat(n.v, 'g', -1, 64))
	}
	return json.Marshal(n.v)
}

// UnmarshalJSON decodes null as absent, and a JSON number (or a quoted
// number, as produced by MarshalJSON for non-finite values) as present.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = Absent
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*n = Of(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Of(v)
	return nil
}

// UnmarshalYAML decodes a YAML null as absent and a YAML number as present.
func (n *Number) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*n = Absent
		return nil
	}
	var v float64
	if err := node.Decode(&v); err != nil {
		return err
	}
	*n = Of(v)
	return nil
}

// UnmarshalTOML decodes a TOML integer or float as present.  TOML has no
// null, so absent Numbers are simply omitted.
func (n *Number) UnmarshalTOML(data any) error {
	v, err := cast.ToFloat64E(data)
	if err != nil {
		return err
	}
	*n = Of(v)
	return nil
}

// Numbers returns the provided values as present Numbers.
func Numbers(vs ...float64) []Number {
	ret := make([]Number, len(vs))
	for idx, v := range vs {
		ret[idx] = Of(v)
	}
	return ret
}

// Repeat returns n absent Numbers.
func Repeat(n int) []Number {
	if n <= 0 {
		return nil
	}
	return make([]Number, n)
}

// Present returns the finite values among the provided Numbers, in order.
func Present(values []Number) []float64 {
	ret := make([]float64, 0, len(values))
	for _, n := range values {
		if n.Finite() {
			ret = append(ret, n.v)
		}
	}
	return ret
}

// IsAbsent returns true if v is 'no value': an untyped nil, a nil pointer,
// map, slice, interface, channel or func, or an absent Number.  It returns
// false for zero, negative numbers, empty strings and NaN.
func IsAbsent(v any) bool {
	switch tv := v.(type) {
	case nil:
		return true
	case Number:
		return tv.IsAbsent()
	case *Number:
		return tv == nil || tv.IsAbsent()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}

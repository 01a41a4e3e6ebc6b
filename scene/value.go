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

// Package scene defines the declarative scene graph handed to rendering
// surfaces, and the requests that produce it.
//
// A Response holds one Scene per requested chart.  Each Scene is a tree of
// Nodes, and each Node carries a set of typed properties (V) keyed by
// string.  All strings, keys and values alike, are interned in a single
// string table shared by the whole Response, which keeps the JSON encoding
// compact when the same color, key or role recurs across thousands of
// shapes.
//
// Scenes are assembled through the Builder interface:
//
//	rb := scene.NewResponseBuilder()
//	root := rb.Scene(&scene.Request{SceneName: "population"})
//	root.With(scene.IntegerProperty("frame_count", 3))
//	root.Child().With(
//	  scene.StringProperty("kind", "rect"),
//	  scene.DoubleProperty("x", 10),
//	)
//	resp, err := rb.Response()
//
// The first error raised by any PropertyUpdate aborts all further updates,
// and is returned from ResponseBuilder.Response.
package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValueType enumerates the types a V may hold.
type ValueType int

// Enumerated value types.  Their numbering is part of the wire encoding.
const (
	UnsetValueType ValueType = iota
	StringValueType
	StringIndexValueType
	StringsValueType
	StringIndicesValueType
	IntegerValueType
	IntegersValueType
	DoubleValueType
	DoublesValueType
	DurationValueType
	TimestampValueType
)

// V is a typed value within a scene or a request.
type V struct {
	V any
	T ValueType
}

// timestamp is the wire form of a TimestampValueType.
type timestamp struct {
	UnixSeconds int64
	UnixNanos   int64
}

func (ts timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int64{ts.UnixSeconds, ts.UnixNanos})
}

// StringValue returns a V holding str.
func StringValue(str string) *V {
	return &V{V: str, T: StringValueType}
}

// StringIndexValue returns a V holding a string table index.
func StringIndexValue(idx int64) *V {
	return &V{V: idx, T: StringIndexValueType}
}

// StringsValue returns a V holding strs.
func StringsValue(strs ...string) *V {
	return &V{V: strs, T: StringsValueType}
}

// StringIndicesValue returns a V holding string table indices.
func StringIndicesValue(idxs ...int64) *V {
	return &V{V: idxs, T: StringIndicesValueType}
}

// IntegerValue returns a V holding i.
func IntegerValue(i int64) *V {
	return &V{V: i, T: IntegerValueType}
}

// IntegersValue returns a V holding ints.
func IntegersValue(ints ...int64) *V {
	return &V{V: ints, T: IntegersValueType}
}

// DoubleValue returns a V holding f.
func DoubleValue(f float64) *V {
	return &V{V: f, T: DoubleValueType}
}

// DoublesValue returns a V holding fs.
func DoublesValue(fs ...float64) *V {
	return &V{V: fs, T: DoublesValueType}
}

// DurationValue returns a V holding dur.
func DurationValue(dur time.Duration) *V {
	return &V{V: dur, T: DurationValueType}
}

// TimestampValue returns a V holding t.
func TimestampValue(t time.Time) *V {
	return &V{
		V: timestamp{
			UnixSeconds: t.Unix(),
			UnixNanos:   int64(t.Nanosecond()),
		},
		T: TimestampValueType,
	}
}

func typeErr(want string, v *V) error {
	if v == nil {
		return fmt.Errorf("expected value type '%s', got nil", want)
	}
	return fmt.Errorf("expected value type '%s', got type %d", want, v.T)
}

// ExpectStringValue returns the string held by v, or an error if v holds
// something else.
func ExpectStringValue(v *V) (string, error) {
	if v == nil || v.T != StringValueType {
		return "", typeErr("str", v)
	}
	return v.V.(string), nil
}

func expectStringIndexValue(v *V) (int64, error) {
	if v == nil || v.T != StringIndexValueType {
		return 0, typeErr("str_idx", v)
	}
	return v.V.(int64), nil
}

// ExpectStringsValue returns the strings held by v, or an error if v holds
// something else.
func ExpectStringsValue(v *V) ([]string, error) {
	if v == nil || v.T != StringsValueType {
		return nil, typeErr("strs", v)
	}
	return v.V.([]string), nil
}

func expectStringIndicesValue(v *V) ([]int64, error) {
	if v == nil || v.T != StringIndicesValueType {
		return nil, typeErr("str_idxs", v)
	}
	return v.V.([]int64), nil
}

// ExpectIntegerValue returns the integer held by v, or an error if v holds
// something else.
func ExpectIntegerValue(v *V) (int64, error) {
	if v == nil || v.T != IntegerValueType {
		return 0, typeErr("int", v)
	}
	return v.V.(int64), nil
}

// ExpectIntegersValue returns the integers held by v, or an error if v
// holds something else.
func ExpectIntegersValue(v *V) ([]int64, error) {
	if v == nil || v.T != IntegersValueType {
		return nil, typeErr("ints", v)
	}
	return v.V.([]int64), nil
}

// ExpectDoubleValue returns the float held by v, or an error if v holds
// something else.  Integers are accepted and converted.
func ExpectDoubleValue(v *V) (float64, error) {
	if v != nil && v.T == IntegerValueType {
		return float64(v.V.(int64)), nil
	}
	if v == nil || v.T != DoubleValueType {
		return 0, typeErr("dbl", v)
	}
	return v.V.(float64), nil
}

// ExpectDoublesValue returns the floats held by v, or an error if v holds
// something else.
func ExpectDoublesValue(v *V) ([]float64, error) {
	if v == nil || v.T != DoublesValueType {
		return nil, typeErr("dbls", v)
	}
	return v.V.([]float64), nil
}

// ExpectDurationValue returns the duration held by v, or an error if v
// holds something else.
func ExpectDurationValue(v *V) (time.Duration, error) {
	if v == nil || v.T != DurationValueType {
		return 0, typeErr("dur", v)
	}
	return v.V.(time.Duration), nil
}

// ExpectTimestampValue returns the time held by v, or an error if v holds
// something else.
func ExpectTimestampValue(v *V) (time.Time, error) {
	if v == nil || v.T != TimestampValueType {
		return time.Time{}, typeErr("ts", v)
	}
	ts := v.V.(timestamp)
	return time.Unix(ts.UnixSeconds, ts.UnixNanos), nil
}

func formatDouble(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

// PrettyPrint returns the receiver, deterministically prettyprinted, with
// string indices resolved against st.  String-index values print the same
// as the corresponding literal strings.  Only for use in tests.
func (v *V) PrettyPrint(st []string) string {
	quote := func(strs []string) string {
		return "[ '" + strings.Join(strs, "', '") + "' ]"
	}
	lookup := func(idx int64) string {
		if idx < 0 || int(idx) >= len(st) {
			return fmt.Sprintf("<bad index %d>", idx)
		}
		return st[idx]
	}
	switch v.T {
	case UnsetValueType:
		return "unset"
	case StringValueType:
		return "'" + v.V.(string) + "'"
	case StringIndexValueType:
		return "'" + lookup(v.V.(int64)) + "'"
	case StringsValueType:
		return quote(v.V.([]string))
	case StringIndicesValueType:
		idxs := v.V.([]int64)
		strs := make([]string, len(idxs))
		for i, idx := range idxs {
			strs[i] = lookup(idx)
		}
		return quote(strs)
	case IntegerValueType:
		return strconv.FormatInt(v.V.(int64), 10)
	case IntegersValueType:
		ints := v.V.([]int64)
		strs := make([]string, len(ints))
		for i, n := range ints {
			strs[i] = strconv.FormatInt(n, 10)
		}
		return "[ " + strings.Join(strs, ", ") + " ]"
	case DoubleValueType:
		return formatDouble(v.V.(float64))
	case DoublesValueType:
		fs := v.V.([]float64)
		strs := make([]string, len(fs))
		for i, f := range fs {
			strs[i] = formatDouble(f)
		}
		return "[ " + strings.Join(strs, ", ") + " ]"
	case DurationValueType:
		return v.V.(time.Duration).String()
	case TimestampValueType:
		ts, _ := ExpectTimestampValue(v)
		return ts.UTC().Format(time.RFC3339Nano)
	}
	return fmt.Sprintf("unknown type %d", v.T)
}

// MarshalJSON encodes a V as the two-element array [type, value]:
//
//	type V = [number,     ; the ValueType
//	  null      |         ; if unset
//	  string    |         ; if string
//	  number    |         ; if integer, string index, double, or duration (ns)
//	  string[]  |         ; if strings
//	  number[]  |         ; if integers, string indices, or doubles
//	  [number, number]    ; if timestamp ([secs, nanos] from epoch)
//	]
func (v *V) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{v.T, v.V})
}

func toInt(x any) (int64, error) {
	n, ok := x.(json.Number)
	if !ok {
		return 0, fmt.Errorf("expected a number, got %T", x)
	}
	return n.Int64()
}

func toFloat(x any) (float64, error) {
	n, ok := x.(json.Number)
	if !ok {
		return 0, fmt.Errorf("expected a number, got %T", x)
	}
	return n.Float64()
}

func toList(x any) ([]any, error) {
	l, ok := x.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list, got %T", x)
	}
	return l, nil
}

func (v *V) fromAny(got []any) error {
	if len(got) != 2 {
		return fmt.Errorf("value must be a [type, value] pair")
	}
	t, err := toInt(got[0])
	if err != nil {
		return err
	}
	v.T = ValueType(t)
	raw := got[1]
	switch v.T {
	case UnsetValueType:
		v.V = nil
	case StringValueType:
		s, ok := raw.(string)
		if !ok {
			return fmt.Errorf("expected a string, got %T", raw)
		}
		v.V = s
	case StringIndexValueType, IntegerValueType:
		v.V, err = toInt(raw)
	case DoubleValueType:
		v.V, err = toFloat(raw)
	case DurationValueType:
		var ns int64
		ns, err = toInt(raw)
		v.V = time.Duration(ns)
	case StringsValueType:
		var l []any
		if l, err = toList(raw); err != nil {
			return err
		}
		strs := make([]string, len(l))
		for idx, e := range l {
			s, ok := e.(string)
			if !ok {
				return fmt.Errorf("expected a string, got %T", e)
			}
			strs[idx] = s
		}
		v.V = strs
	case StringIndicesValueType, IntegersValueType:
		var l []any
		if l, err = toList(raw); err != nil {
			return err
		}
		ints := make([]int64, len(l))
		for idx, e := range l {
			if ints[idx], err = toInt(e); err != nil {
				return err
			}
		}
		v.V = ints
	case DoublesValueType:
		var l []any
		if l, err = toList(raw); err != nil {
			return err
		}
		fs := make([]float64, len(l))
		for idx, e := range l {
			if fs[idx], err = toFloat(e); err != nil {
				return err
			}
		}
		v.V = fs
	case TimestampValueType:
		var l []any
		if l, err = toList(raw); err != nil {
			return err
		}
		if len(l) != 2 {
			return fmt.Errorf("timestamp value is improperly formed")
		}
		var ts timestamp
		if ts.UnixSeconds, err = toInt(l[0]); err != nil {
			return err
		}
		if ts.UnixNanos, err = toInt(l[1]); err != nil {
			return err
		}
		v.V = ts
	default:
		return fmt.Errorf("unknown value type %d", v.T)
	}
	return err
}

// UnmarshalJSON decodes a V from its [type, value] encoding.
func (v *V) UnmarshalJSON(data []byte) error {
	var got []any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&got); err != nil {
		return err
	}
	return v.fromAny(got)
}

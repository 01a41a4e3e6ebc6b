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

// Package record defines Record, a single chart data point, and Accessors
// used to pull value fields out of Records generically.
//
// A Record always carries a Label, the primary key of the record within a
// frame.  Which value fields are populated depends on the chart family:
//
//   - simple bar and donut charts use Size;
//   - grouped and stacked bar charts use Sizes;
//   - scatter, line and map charts use X and Y (and optionally Radius);
//   - dumbbell charts use Xs;
//   - butterfly charts use LeftBar and RightBar;
//   - strip charts use Position;
//   - dot density maps use Lat and Long.
//
// In JSON, 'size' and 'x' may each be either a number or an array of numbers;
// arrays decode into Sizes and Xs respectively.  Unset or null value fields
// are absent, never zero.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"

	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
	"github.com/spf13/cast"
)

// JSON keys.
const (
	LabelKey       = "label"
	DateKey        = "date"
	ColorKey       = "color"
	CountryCodeKey = "countryCode"
	SizeKey        = "size"
	XKey           = "x"
	YKey           = "y"
	LeftBarKey     = "leftBar"
	RightBarKey    = "rightBar"
	RadiusKey      = "radius"
	PositionKey    = "position"
	LatKey         = "lat"
	LongKey        = "long"
	DataKey        = "data"
)

// Record is one chart data point.
type Record struct {
	Label string
	// Date is the raw, unparsed date key.  Empty if the record is undated.
	Date string
	// Color is a key into the chart's color domain.
	Color string
	// CountryCode is the join key for map features.
	CountryCode string

	Size              nullguard.Number
	Sizes             []nullguard.Number
	X, Y              nullguard.Number
	Xs                []nullguard.Number
	LeftBar, RightBar nullguard.Number
	Radius            nullguard.Number
	Position          nullguard.Number
	Lat, Long         nullguard.Number

	// Data is an opaque payload, carried untouched for tooltip and detail
	// rendering.
	Data map[string]any
}

// Clone returns a copy of the receiver.  Value slices are copied; the Data
// payload is shared, as it is never mutated.
func (r Record) Clone() Record {
	ret := r
	if r.Sizes != nil {
		ret.Sizes = append([]nullguard.Number(nil), r.Sizes...)
	}
	if r.Xs != nil {
		ret.Xs = append([]nullguard.Number(nil), r.Xs...)
	}
	return ret
}

// Placeholder returns a Record for the provided label and date with every
// value field absent.  If sizesLen or xsLen are positive, Sizes or Xs
// respectively are populated with that many absent values.
func Placeholder(label, date, color string, sizesLen, xsLen int) Record {
	return Record{
		Label: label,
		Date:  date,
		Color: color,
		Sizes: nullguard.Repeat(sizesLen),
		Xs:    nullguard.Repeat(xsLen),
	}
}

func numberOrNil(n nullguard.Number) any {
	if v, ok := n.Get(); ok {
		return v
	}
	return nil
}

func numbersOrNil(ns []nullguard.Number) any {
	if ns == nil {
		return nil
	}
	ret := make([]any, len(ns))
	for idx, n := range ns {
		ret[idx] = numberOrNil(n)
	}
	return ret
}

// TemplateData returns the receiver as a generic map, suitable for template
// path resolution.  Absent values map to nil.  'size' and 'x' hold arrays if
// the receiver carries Sizes or Xs.
func (r Record) TemplateData() map[string]any {
	ret := map[string]any{
		LabelKey:       r.Label,
		DateKey:        r.Date,
		ColorKey:       r.Color,
		CountryCodeKey: r.CountryCode,
		SizeKey:        numberOrNil(r.Size),
		XKey:           numberOrNil(r.X),
		YKey:           numberOrNil(r.Y),
		LeftBarKey:     numberOrNil(r.LeftBar),
		RightBarKey:    numberOrNil(r.RightBar),
		RadiusKey:      numberOrNil(r.Radius),
		PositionKey:    numberOrNil(r.Position),
		LatKey:         numberOrNil(r.Lat),
		LongKey:        numberOrNil(r.Long),
	}
	if r.Sizes != nil {
		ret[SizeKey] = numbersOrNil(r.Sizes)
	}
	if r.Xs != nil {
		ret[XKey] = numbersOrNil(r.Xs)
	}
	if r.Data != nil {
		ret[DataKey] = r.Data
	} else {
		ret[DataKey] = nil
	}
	return ret
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

// decodeString accepts a JSON string, number or boolean, returning its
// string form.  null decodes to "".
func decodeString(raw json.RawMessage) (string, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	return cast.ToStringE(v)
}

// UnmarshalJSON decodes a Record from its JSON object form.
func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*r = Record{}
	for key, raw := range fields {
		var err error
		switch key {
		case LabelKey:
			r.Label, err = decodeString(raw)
		case DateKey:
			r.Date, err = decodeString(raw)
		case ColorKey:
			r.Color, err = decodeString(raw)
		case CountryCodeKey:
			r.CountryCode, err = decodeString(raw)
		case SizeKey:
			if isArray(raw) {
				err = json.Unmarshal(raw, &r.Sizes)
			} else {
				err = json.Unmarshal(raw, &r.Size)
			}
		case XKey:
			if isArray(raw) {
				err = json.Unmarshal(raw, &r.Xs)
			} else {
				err = json.Unmarshal(raw, &r.X)
			}
		case YKey:
			err = json.Unmarshal(raw, &r.Y)
		case LeftBarKey:
			err = json.Unmarshal(raw, &r.LeftBar)
		case RightBarKey:
			err = json.Unmarshal(raw, &r.RightBar)
		case RadiusKey:
			err = json.Unmarshal(raw, &r.Radius)
		case PositionKey:
			err = json.Unmarshal(raw, &r.Position)
		case LatKey:
			err = json.Unmarshal(raw, &r.Lat)
		case LongKey:
			err = json.Unmarshal(raw, &r.Long)
		case DataKey:
			err = json.Unmarshal(raw, &r.Data)
		}
		if err != nil {
			return fmt.Errorf("field '%s': %w", key, err)
		}
	}
	return nil
}

// MarshalJSON encodes the receiver as a JSON object.  Absent scalar value
// fields are omitted.
func (r Record) MarshalJSON() ([]byte, error) {
	ret := map[string]any{
		LabelKey: r.Label,
	}
	setStr := func(key, val string) {
		if val != "" {
			ret[key] = val
		}
	}
	setNum := func(key string, n nullguard.Number) {
		if !n.IsAbsent() {
			ret[key] = n
		}
	}
	setStr(DateKey, r.Date)
	setStr(ColorKey, r.Color)
	setStr(CountryCodeKey, r.CountryCode)
	setNum(SizeKey, r.Size)
	if r.Sizes != nil {
		ret[SizeKey] = r.Sizes
	}
	setNum(XKey, r.X)
	if r.Xs != nil {
		ret[XKey] = r.Xs
	}
	setNum(YKey, r.Y)
	setNum(LeftBarKey, r.LeftBar)
	setNum(RightBarKey, r.RightBar)
	setNum(RadiusKey, r.Radius)
	setNum(PositionKey, r.Position)
	setNum(LatKey, r.Lat)
	setNum(LongKey, r.Long)
	if r.Data != nil {
		ret[DataKey] = r.Data
	}
	return json.Marshal(ret)
}

// Decode decodes a JSON array of Records.
func Decode(data []byte) ([]Record, error) {
	var ret []Record
	if err := json.Unmarshal(data, &ret); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return ret, nil
}

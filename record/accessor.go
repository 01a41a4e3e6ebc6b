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

package record

import (
	"fmt"

	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
)

// Accessor extracts zero or more value fields from a Record.  Scalar fields
// yield a single Number; array fields yield one Number per entry.
type Accessor func(r *Record) []nullguard.Number

func scalar(get func(r *Record) nullguard.Number) Accessor {
	return func(r *Record) []nullguard.Number {
		return []nullguard.Number{get(r)}
	}
}

// Predefined Accessors for each value field.
var (
	SizeField     = scalar(func(r *Record) nullguard.Number { return r.Size })
	XField        = scalar(func(r *Record) nullguard.Number { return r.X })
	YField        = scalar(func(r *Record) nullguard.Number { return r.Y })
	LeftBarField  = scalar(func(r *Record) nullguard.Number { return r.LeftBar })
	RightBarField = scalar(func(r *Record) nullguard.Number { return r.RightBar })
	RadiusField   = scalar(func(r *Record) nullguard.Number { return r.Radius })
	PositionField = scalar(func(r *Record) nullguard.Number { return r.Position })
	LatField      = scalar(func(r *Record) nullguard.Number { return r.Lat })
	LongField     = scalar(func(r *Record) nullguard.Number { return r.Long })

	SizesField Accessor = func(r *Record) []nullguard.Number { return r.Sizes }
	XsField    Accessor = func(r *Record) []nullguard.Number { return r.Xs }
)

// StackTotal yields the sum of a Record's present Sizes, or absent if none is
// present.
var StackTotal Accessor = func(r *Record) []nullguard.Number {
	return []nullguard.Number{Sum(r.Sizes)}
}

// Sum returns the sum of the present values, or absent if no value is
// present.
func Sum(values []nullguard.Number) nullguard.Number {
	var total float64
	found := false
	for _, n := range values {
		if v, ok := n.Get(); ok {
			total += v
			found = true
		}
	}
	if !found {
		return nullguard.Absent
	}
	return nullguard.Of(total)
}

// Concat returns an Accessor yielding the values of all provided Accessors in
// order.
func Concat(accessors ...Accessor) Accessor {
	return func(r *Record) []nullguard.Number {
		var ret []nullguard.Number
		for _, acc := range accessors {
			ret = append(ret, acc(r)...)
		}
		return ret
	}
}

// Field returns the predefined Accessor for the provided JSON key.
func Field(key string) (Accessor, error) {
	switch key {
	case SizeKey:
		return Concat(SizeField, SizesField), nil
	case XKey:
		return Concat(XField, XsField), nil
	case YKey:
		return YField, nil
	case LeftBarKey:
		return LeftBarField, nil
	case RightBarKey:
		return RightBarField, nil
	case RadiusKey:
		return RadiusField, nil
	case PositionKey:
		return PositionField, nil
	case LatKey:
		return LatField, nil
	case LongKey:
		return LongField, nil
	}
	return nil, fmt.Errorf("no value field '%s'", key)
}

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

package geometry

import (
	"strconv"

	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
)

// Formatter formats a value for display in a label.
type Formatter func(v float64) string

// Format formats n, returning the empty string if n is absent.  A nil
// Formatter formats with strconv.
func (f Formatter) Format(n nullguard.Number) string {
	v, ok := n.Get()
	if !ok {
		return ""
	}
	if f == nil {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return f(v)
}

// Colorer maps a color key to a color.
type Colorer interface {
	Map(key string) string
}

// Fill returns c's color for key, or def if c is nil.
func Fill(c Colorer, key, def string) string {
	if c == nil {
		return def
	}
	return c.Map(key)
}

// Visible returns a full opacity if ok, and zero otherwise.
func Visible(ok bool) float64 {
	if ok {
		return 1
	}
	return 0
}

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

// Package style supports specifying SVG or CSS styling of scene nodes.
//
// A Style comprises a mapping from style attribute name to value, both
// represented as strings, and is attached to a scene node via Define().
// Attributes should have the names and expected values of SVG presentation
// attributes, e.g. https://developer.mozilla.org/en-US/docs/Web/SVG/Attribute.
package style

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/UNDP-Data/undp-visualization-library-sub001/scene"
)

const (
	keyPrefix = "style_"
)

// Style defines a set of styles that can be attached to a scene node.
type Style struct {
	attrs map[string]string
}

// New returns a new, empty Style.
func New() *Style {
	return &Style{
		attrs: map[string]string{},
	}
}

// Define returns a PropertyUpdate defining the receiver into a node.
// Attributes are interned in name order, so equal Styles produce equal
// string tables.
func (s *Style) Define() scene.PropertyUpdate {
	names := make([]string, 0, len(s.attrs))
	for attr := range s.attrs {
		names = append(names, attr)
	}
	sort.Strings(names)
	ret := make([]scene.PropertyUpdate, 0, len(names))
	for _, attr := range names {
		ret = append(ret, scene.StringProperty(keyPrefix+attr, s.attrs[attr]))
	}
	return scene.Chain(ret...)
}

// Len returns the number of attributes set in the receiver.
func (s *Style) Len() int {
	return len(s.attrs)
}

// Px formats the provided value as a pixel specifier.
func Px(valPx float64) string {
	return fmt.Sprintf("%.2fpx", valPx)
}

// With sets the specified attribute type and value in the receiver.  An
// empty value removes the attribute.
func (s *Style) With(attrType string, attrVal string) *Style {
	if attrVal == "" {
		delete(s.attrs, attrType)
		return s
	}
	s.attrs[attrType] = attrVal
	return s
}

// FontSize sets the font size, in pixels.
func (s *Style) FontSize(px float64) *Style {
	return s.With("font-size", Px(px))
}

// TextAnchor sets the text anchor ("start", "middle" or "end").
func (s *Style) TextAnchor(anchor string) *Style {
	return s.With("text-anchor", anchor)
}

// StrokeWidth sets the stroke width, in pixels.  Nonpositive widths are
// omitted.
func (s *Style) StrokeWidth(px float64) *Style {
	if !(px > 0) {
		return s.With("stroke-width", "")
	}
	return s.With("stroke-width", Px(px))
}

// Dash sets the stroke dash pattern, in pixels.
func (s *Style) Dash(dashes ...float64) *Style {
	if len(dashes) == 0 {
		return s.With("stroke-dasharray", "")
	}
	v := ""
	for idx, d := range dashes {
		if idx > 0 {
			v += " "
		}
		v += strconv.FormatFloat(d, 'f', -1, 64)
	}
	return s.With("stroke-dasharray", v)
}

// MarkerEnd sets the marker drawn at the end of a line to the element with
// the provided ID.
func (s *Style) MarkerEnd(id string) *Style {
	if id == "" {
		return s.With("marker-end", "")
	}
	return s.With("marker-end", "url(#"+id+")")
}

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

// Package color annotates scene nodes with colors, and defines color spaces
// for continuous color legends and animated color transitions.
//
// A node may carry up to three colors:
//
//   - its fill, the dominant color of a mark, which usually encodes data;
//   - its stroke, used for outlines, connectors and text;
//   - its highlight, used to call out a hovered or pinned mark.
//
// Each may be given directly, as an HTML color string:
//
//	node.With(color.Fill("#006eb5"), color.Stroke("white"))
//
// or as a position along a Space, a continuum of colors defined once
// elsewhere in the scene:
//
//	sequential := color.NewSpace("sequential", "#e7f1f9", "#006eb5")
//	root.With(sequential.Define())
//	mark.With(sequential.FillAt(.25))
//
// Hex colors can also be interpolated directly with Mix, or with a Space's
// At method.
package color

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/UNDP-Data/undp-visualization-library-sub001/scene"
)

const (
	spaceNamePrefix = "color_space_"

	fillKey           = "fill"
	fillSpaceKey      = "fill_space"
	fillSpaceValueKey = "fill_space_value"

	strokeKey           = "stroke"
	strokeSpaceKey      = "stroke_space"
	strokeSpaceValueKey = "stroke_space_value"

	highlightKey = "highlight"
)

// RGB is an opaque color with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// Hex returns the receiver as a #rrggbb string.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Parse parses #rgb, #rrggbb, and rgb(r, g, b) color strings.  It returns
// false for anything else, including color names.
func Parse(s string) (RGB, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "#"):
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return RGB{}, false
		}
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return RGB{}, false
		}
		return RGB{uint8(n >> 16), uint8(n >> 8), uint8(n)}, true
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		parts := strings.Split(s[4:len(s)-1], ",")
		if len(parts) != 3 {
			return RGB{}, false
		}
		var ch [3]uint8
		for idx, p := range parts {
			n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
			if err != nil {
				return RGB{}, false
			}
			ch[idx] = uint8(n)
		}
		return RGB{ch[0], ch[1], ch[2]}, true
	}
	return RGB{}, false
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

// Mix interpolates between colors a and b, with t in [0, 1].  If either
// color can't be parsed, Mix returns a for t < .5 and b otherwise.
func Mix(a, b string, t float64) string {
	t = math.Max(0, math.Min(1, t))
	ca, okA := Parse(a)
	cb, okB := Parse(b)
	if !okA || !okB {
		if t < .5 {
			return a
		}
		return b
	}
	return RGB{lerp(ca.R, cb.R, t), lerp(ca.G, cb.G, t), lerp(ca.B, cb.B, t)}.Hex()
}

// Space is a continuum of colors, linearly interpolated between its stops.
type Space struct {
	name   string
	colors []string
}

// NewSpace returns a new Space with the provided color stops.
func NewSpace(name string, colors ...string) *Space {
	return &Space{name: name, colors: colors}
}

// Name returns the receiver's name.
func (s *Space) Name() string {
	return s.name
}

// Colors returns the receiver's color stops.
func (s *Space) Colors() []string {
	return s.colors
}

// At returns the color at position v, in [0, 1], along the receiver.
func (s *Space) At(v float64) string {
	switch len(s.colors) {
	case 0:
		return ""
	case 1:
		return s.colors[0]
	}
	if math.IsNaN(v) {
		v = 0
	}
	v = math.Max(0, math.Min(1, v))
	pos := v * float64(len(s.colors)-1)
	lo := int(math.Floor(pos))
	if lo >= len(s.colors)-1 {
		return s.colors[len(s.colors)-1]
	}
	return Mix(s.colors[lo], s.colors[lo+1], pos-float64(lo))
}

// Define annotates a node with the receiver's definition.
func (s *Space) Define() scene.PropertyUpdate {
	return scene.StringsProperty(spaceNamePrefix+s.name, s.colors...)
}

// FillAt annotates a node with a fill at position v along the receiver.
func (s *Space) FillAt(v float64) scene.PropertyUpdate {
	return scene.Chain(
		scene.StringProperty(fillSpaceKey, spaceNamePrefix+s.name),
		scene.DoubleProperty(fillSpaceValueKey, v),
	)
}

// StrokeAt annotates a node with a stroke at position v along the receiver.
func (s *Space) StrokeAt(v float64) scene.PropertyUpdate {
	return scene.Chain(
		scene.StringProperty(strokeSpaceKey, spaceNamePrefix+s.name),
		scene.DoubleProperty(strokeSpaceValueKey, v),
	)
}

// Fill annotates a node with a fill color.  An empty color sets nothing.
func Fill(c string) scene.PropertyUpdate {
	return scene.If(c != "", scene.StringProperty(fillKey, c))
}

// Stroke annotates a node with a stroke color.  An empty color sets
// nothing.
func Stroke(c string) scene.PropertyUpdate {
	return scene.If(c != "", scene.StringProperty(strokeKey, c))
}

// Highlight annotates a node with a highlight color.
func Highlight(c string) scene.PropertyUpdate {
	return scene.If(c != "", scene.StringProperty(highlightKey, c))
}

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
	"math"

	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
)

// Axis identifies a plot axis.
type Axis int

// Axes.
const (
	XAxis Axis = iota
	YAxis
)

// ReferenceMarker is a line drawn across the plot at a fixed value on one
// axis, such as a target or an average.
type ReferenceMarker struct {
	Value float64 `json:"value" yaml:"value" toml:"value"`
	Text  string  `json:"text" yaml:"text" toml:"text"`
	Color string  `json:"color" yaml:"color" toml:"color"`
}

// Shapes returns the receiver's line and label.  It returns nothing if the
// value can't be mapped.
func (r ReferenceMarker) Shapes(key string, m Mapper, axis Axis, plot Rect) []Shape {
	px, ok := m.MapNumber(nullguard.Of(r.Value))
	if !ok || !Finite(px) {
		return nil
	}
	line := Shape{
		Kind:        LineKind,
		Role:        ReferenceRole,
		Key:         key,
		Stroke:      r.Color,
		StrokeWidth: 1,
		Opacity:     1,
	}
	text := Shape{
		Kind:    TextKind,
		Role:    ReferenceRole,
		Key:     key + "-text",
		Text:    r.Text,
		Fill:    r.Color,
		Opacity: 1,
	}
	if axis == XAxis {
		line.X, line.Y, line.X2, line.Y2 = px, plot.Y, px, plot.Bottom()
		text.X, text.Y, text.Anchor = px+4, plot.Y, "start"
	} else {
		line.X, line.Y, line.X2, line.Y2 = plot.X, px, plot.Right(), px
		text.X, text.Y, text.Anchor = plot.Right(), px-4, "end"
	}
	ret := []Shape{line}
	if r.Text != "" {
		ret = append(ret, text)
	}
	return ret
}

// Annotation is a text note placed at a data coordinate, offset by a pixel
// distance, and optionally connected to its anchor point.
type Annotation struct {
	Text      string           `json:"text" yaml:"text" toml:"text"`
	X         nullguard.Number `json:"x" yaml:"x" toml:"x"`
	Y         nullguard.Number `json:"y" yaml:"y" toml:"y"`
	DX        float64          `json:"dx" yaml:"dx" toml:"dx"`
	DY        float64          `json:"dy" yaml:"dy" toml:"dy"`
	Color     string           `json:"color" yaml:"color" toml:"color"`
	Connector bool             `json:"connector" yaml:"connector" toml:"connector"`
}

// Shapes returns the receiver's text and connector.  It returns nothing if
// either coordinate is absent.
func (a Annotation) Shapes(key string, xm, ym Mapper) []Shape {
	x, xok := xm.MapNumber(a.X)
	y, yok := ym.MapNumber(a.Y)
	if !xok || !yok || !Finite(x, y) {
		return nil
	}
	anchor := "start"
	if a.DX < 0 {
		anchor = "end"
	}
	ret := []Shape{{
		Kind:    TextKind,
		Role:    AnnotationRole,
		Key:     key,
		X:       x + a.DX,
		Y:       y + a.DY,
		Text:    a.Text,
		Anchor:  anchor,
		Fill:    a.Color,
		Opacity: 1,
	}}
	if a.Connector && (a.DX != 0 || a.DY != 0) {
		ret = append(ret, Shape{
			Kind:        LineKind,
			Role:        AnnotationRole,
			Key:         key + "-connector",
			X:           x,
			Y:           y,
			X2:          x + a.DX,
			Y2:          y + a.DY,
			Stroke:      a.Color,
			StrokeWidth: 1,
			Opacity:     1,
		})
	}
	return ret
}

// HighlightArea shades a band of the plot between two values on one axis.
// An absent bound extends the band to the edge of the plot.
type HighlightArea struct {
	Start   nullguard.Number `json:"start" yaml:"start" toml:"start"`
	End     nullguard.Number `json:"end" yaml:"end" toml:"end"`
	Color   string           `json:"color" yaml:"color" toml:"color"`
	Opacity float64          `json:"opacity" yaml:"opacity" toml:"opacity"`
}

// Shapes returns the receiver's shading rectangle.
func (h HighlightArea) Shapes(key string, m Mapper, axis Axis, plot Rect) []Shape {
	lo, hi := plot.X, plot.Right()
	if axis == YAxis {
		lo, hi = plot.Bottom(), plot.Y
	}
	start, ok := m.MapNumber(h.Start)
	if !ok || !Finite(start) {
		start = lo
	}
	end, ok := m.MapNumber(h.End)
	if !ok || !Finite(end) {
		end = hi
	}
	opacity := h.Opacity
	if opacity == 0 {
		opacity = 0.2
	}
	s := Shape{
		Kind:    RectKind,
		Role:    HighlightRole,
		Key:     key,
		Fill:    h.Color,
		Opacity: opacity,
	}
	if axis == XAxis {
		s.X, s.Width = math.Min(start, end), math.Abs(end-start)
		s.Y, s.Height = plot.Y, plot.Height
	} else {
		s.Y, s.Height = math.Min(start, end), math.Abs(end-start)
		s.X, s.Width = plot.X, plot.Width
	}
	return []Shape{s}
}

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

// Package geometry defines the shape descriptors that chart families
// produce, and the helpers they share for mapping scaled values to pixels.
//
// A Shape is a rendering-surface-neutral description of one rectangle,
// circle, line, path or text run.  Every coordinate a mapper places in a
// Shape is finite: values that are absent are rendered as zero-extent or
// zero-opacity shapes instead, so that shapes remain addressable (by Key)
// across animation frames.
package geometry

import (
	"math"

	frameindexer "github.com/UNDP-Data/undp-visualization-library-sub001/frame_indexer"
	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
)

// Kind is the type of a Shape.
type Kind string

// Shape kinds.
const (
	RectKind   Kind = "rect"
	CircleKind Kind = "circle"
	LineKind   Kind = "line"
	PathKind   Kind = "path"
	TextKind   Kind = "text"
)

// Role distinguishes the purpose of shapes of the same Kind.
type Role string

// Shape roles.
const (
	MarkRole       Role = "mark"
	ConnectorRole  Role = "connector"
	ValueLabelRole Role = "value-label"
	LabelRole      Role = "label"
	ReferenceRole  Role = "reference"
	AnnotationRole Role = "annotation"
	HighlightRole  Role = "highlight"
)

// Shape describes one drawable element.
type Shape struct {
	Kind Kind
	Role Role
	// Key identifies the shape across frames for enter/update/exit
	// transitions.  Keys are unique within one frame's shapes.
	Key string
	// Rects use X, Y, Width and Height; circles use X, Y and R; lines use X,
	// Y, X2 and Y2; text uses X, Y, Text and Anchor; paths use D.
	X, Y, Width, Height float64
	X2, Y2, R           float64
	D                   string
	Text                string
	Anchor              string
	Fill, Stroke        string
	StrokeWidth         float64
	Opacity             float64
	// The marker (e.g. an arrowhead) drawn at the end of a line, if any.
	Marker string
	// ColorKey is the legend category of the shape, or empty.
	ColorKey string
	// The datum the shape represents, or nil for decorations.
	Datum *frameindexer.Datum
}

// Rect is a pixel rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// Right returns the receiver's right edge.
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Bottom returns the receiver's bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Margin holds the space left around a plot area for axes and labels.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// Inner returns the plot area left within a width x height canvas after
// the receiver's margins are removed.  Degenerate areas have zero size.
func (m Margin) Inner(width, height float64) Rect {
	return Rect{
		X:      m.Left,
		Y:      m.Top,
		Width:  math.Max(0, width-m.Left-m.Right),
		Height: math.Max(0, height-m.Top-m.Bottom),
	}
}

// Finite returns true if all provided values are finite.
func Finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func finiteOr(v, def float64) float64 {
	if Finite(v) {
		return v
	}
	return def
}

// Sanitize replaces every non-finite coordinate in s with zero, hiding the
// shape if any replacement was needed.
func Sanitize(s Shape) Shape {
	if !Finite(s.X, s.Y, s.Width, s.Height, s.X2, s.Y2, s.R, s.StrokeWidth, s.Opacity) {
		s.X, s.Y = finiteOr(s.X, 0), finiteOr(s.Y, 0)
		s.Width, s.Height = finiteOr(s.Width, 0), finiteOr(s.Height, 0)
		s.X2, s.Y2 = finiteOr(s.X2, 0), finiteOr(s.Y2, 0)
		s.R, s.StrokeWidth = finiteOr(s.R, 0), finiteOr(s.StrokeWidth, 0)
		s.Opacity = 0
	}
	if s.Width < 0 {
		s.X += s.Width
		s.Width = -s.Width
	}
	if s.Height < 0 {
		s.Y += s.Height
		s.Height = -s.Height
	}
	if s.R < 0 {
		s.R = 0
	}
	return s
}

// Mapper maps an optional domain value to a pixel coordinate.
type Mapper interface {
	MapNumber(n nullguard.Number) (float64, bool)
}

// Span returns the pixel start and signed length of a bar growing from
// zero (the pixel position of the domain's zero line) to n.  An absent n
// yields a zero-length span at the zero line.  The returned start is
// always the lesser pixel coordinate.
func Span(m Mapper, zero float64, n nullguard.Number) (start, length float64) {
	px, ok := m.MapNumber(n)
	if !ok || !Finite(px) {
		return zero, 0
	}
	if px < zero {
		return px, zero - px
	}
	return zero, px - zero
}

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

// Package donutchart maps a frame of Records to the sectors of a donut (or,
// with no inner radius, pie) chart.  Each Datum's Size determines the sweep
// of its sector; sectors are laid out clockwise from twelve o'clock in
// frame order.
package donutchart

import (
	"math"

	frameindexer "github.com/UNDP-Data/undp-visualization-library-sub001/frame_indexer"
	"github.com/UNDP-Data/undp-visualization-library-sub001/geometry"
	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
)

// Settings is a collection of rendering settings for a donut chart.
type Settings struct {
	CenterX, CenterY float64
	Radius           float64
	// The width of the ring.  Zero, or a width of at least Radius, yields a
	// pie.
	StrokeWidth float64
	// The angle, in radians, left empty between adjacent sectors.
	PadAngle     float64
	KeyBy        frameindexer.KeyBy
	Colors       geometry.Colorer
	DefaultColor string
	ShowLabels   bool
	Format       geometry.Formatter
}

// Sweep returns the fraction of the circle each value occupies.  Absent,
// non-finite and negative values occupy nothing; if nothing is positive,
// every fraction is zero.
func Sweep(values []nullguard.Number) []float64 {
	ret := make([]float64, len(values))
	var total float64
	for _, n := range values {
		if v, ok := n.Get(); ok && n.Finite() && v > 0 {
			total += v
		}
	}
	if total <= 0 {
		return ret
	}
	for idx, n := range values {
		if v, ok := n.Get(); ok && n.Finite() && v > 0 {
			ret[idx] = v / total
		}
	}
	return ret
}

// Arcs returns one sector per Datum of the provided frame, plus, if
// ShowLabels is set, a label at each visible sector's centroid.  Empty
// sectors have no path and zero opacity, but keep their start angle so
// that they grow in place when a later frame gives them a value.
func Arcs(frame *frameindexer.Frame, s Settings) []geometry.Shape {
	if frame == nil || len(frame.Data) == 0 {
		return []geometry.Shape{}
	}
	values := make([]nullguard.Number, len(frame.Data))
	for idx, d := range frame.Data {
		values[idx] = d.Size
	}
	fractions := Sweep(values)
	inner := 0.0
	if s.StrokeWidth > 0 && s.StrokeWidth < s.Radius {
		inner = s.Radius - s.StrokeWidth
	}
	nonEmpty := 0
	for _, f := range fractions {
		if f > 0 {
			nonEmpty++
		}
	}
	pad := s.PadAngle
	if nonEmpty < 2 || pad*float64(nonEmpty) >= 2*math.Pi {
		pad = 0
	}
	available := 2*math.Pi - pad*float64(nonEmpty)
	ret := make([]geometry.Shape, 0, 2*len(frame.Data))
	angle := 0.0
	for idx := range frame.Data {
		d := &frame.Data[idx]
		key := d.Key(s.KeyBy)
		start := angle
		end := start + fractions[idx]*available
		visible := fractions[idx] > 0
		if visible {
			angle = end + pad
		}
		cx, cy := geometry.Centroid(s.CenterX, s.CenterY, inner, s.Radius, start, end)
		ret = append(ret, geometry.Sanitize(geometry.Shape{
			Kind:     geometry.PathKind,
			Role:     geometry.MarkRole,
			Key:      "arc-" + key,
			X:        cx,
			Y:        cy,
			D:        geometry.ArcPath(s.CenterX, s.CenterY, inner, s.Radius, start, end),
			Fill:     geometry.Fill(s.Colors, d.Color, s.DefaultColor),
			ColorKey: d.Color,
			Opacity:  geometry.Visible(visible),
			Datum:    d,
		}))
		if s.ShowLabels {
			text := d.Label
			if v := s.Format.Format(d.Size); v != "" {
				text = d.Label + ": " + v
			}
			ret = append(ret, geometry.Sanitize(geometry.Shape{
				Kind:    geometry.TextKind,
				Role:    geometry.ValueLabelRole,
				Key:     "label-" + key,
				X:       cx,
				Y:       cy,
				Text:    text,
				Anchor:  "middle",
				Opacity: geometry.Visible(visible),
				Datum:   d,
			}))
		}
	}
	return ret
}

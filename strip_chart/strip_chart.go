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

// Package stripchart maps frames of Records to marks along a single value
// axis, placed by each Record's Position.  Marks are either dots or thin
// strips spanning the plot's cross axis.
package stripchart

import (
	domainresolver "github.com/UNDP-Data/undp-visualization-library-sub001/domain_resolver"
	frameindexer "github.com/UNDP-Data/undp-visualization-library-sub001/frame_indexer"
	"github.com/UNDP-Data/undp-visualization-library-sub001/geometry"
	"github.com/UNDP-Data/undp-visualization-library-sub001/scale"
)

// Orientation specifies the direction of the value axis.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// Mark specifies the shape drawn for each Datum.
type Mark string

const (
	// DotMark draws a circle.
	DotMark Mark = "dot"
	// StripMark draws a line across the cross axis.
	StripMark Mark = "strip"
)

// Settings is a collection of rendering settings for a strip chart.
type Settings struct {
	Orientation  Orientation
	Plot         geometry.Rect
	Domain       domainresolver.Extent
	KeyBy        frameindexer.KeyBy
	Mark         Mark
	Radius       float64
	StripWidth   float64
	Colors       geometry.Colorer
	DefaultColor string
	// Marks are drawn translucent so that overlapping marks read as density.
	Opacity    float64
	ShowLabels bool
}

func (s *Settings) opacity() float64 {
	if s.Opacity <= 0 || s.Opacity > 1 {
		return 1
	}
	return s.Opacity
}

// Strip returns one mark per Datum of the provided frame.  Datums with an
// absent Position are hidden at the value axis' start.
func Strip(frame *frameindexer.Frame, s Settings) []geometry.Shape {
	if frame == nil || len(frame.Data) == 0 {
		return []geometry.Shape{}
	}
	var vs *scale.Linear
	var center float64
	if s.Orientation == Vertical {
		vs = scale.NewLinear(s.Domain, s.Plot.Bottom(), s.Plot.Y)
		center = s.Plot.X + s.Plot.Width/2
	} else {
		vs = scale.NewLinear(s.Domain, s.Plot.X, s.Plot.Right())
		center = s.Plot.Y + s.Plot.Height/2
	}
	radius := s.Radius
	if radius <= 0 {
		radius = 5
	}
	stripWidth := s.StripWidth
	if stripWidth <= 0 {
		stripWidth = 1
	}
	ret := make([]geometry.Shape, 0, len(frame.Data))
	for idx := range frame.Data {
		d := &frame.Data[idx]
		key := d.Key(s.KeyBy)
		px, ok := vs.MapNumber(d.Position)
		if !ok {
			px = vs.R0
		}
		opacity := 0.0
		if ok {
			opacity = s.opacity()
		}
		mark := geometry.Shape{
			Role:     geometry.MarkRole,
			Key:      "mark-" + key,
			Fill:     geometry.Fill(s.Colors, d.Color, s.DefaultColor),
			ColorKey: d.Color,
			Opacity:  opacity,
			Datum:    d,
		}
		if s.Mark == StripMark {
			mark.Kind = geometry.LineKind
			mark.Stroke, mark.StrokeWidth = mark.Fill, stripWidth
			if s.Orientation == Vertical {
				mark.X, mark.Y, mark.X2, mark.Y2 = s.Plot.X, px, s.Plot.Right(), px
			} else {
				mark.X, mark.Y, mark.X2, mark.Y2 = px, s.Plot.Y, px, s.Plot.Bottom()
			}
		} else {
			mark.Kind = geometry.CircleKind
			mark.R = radius
			if s.Orientation == Vertical {
				mark.X, mark.Y = center, px
			} else {
				mark.X, mark.Y = px, center
			}
		}
		ret = append(ret, geometry.Sanitize(mark))
		if s.ShowLabels {
			label := geometry.Shape{
				Kind:    geometry.TextKind,
				Role:    geometry.LabelRole,
				Key:     "label-" + key,
				Text:    d.Label,
				Anchor:  "middle",
				Opacity: geometry.Visible(ok),
				Datum:   d,
			}
			if s.Orientation == Vertical {
				label.X, label.Y, label.Anchor = s.Plot.Right()+4, px, "start"
			} else {
				label.X, label.Y = px, s.Plot.Y-4
			}
			ret = append(ret, geometry.Sanitize(label))
		}
	}
	return ret
}

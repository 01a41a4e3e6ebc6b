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

// Package dumbbellchart maps frames of Records carrying an Xs array to
// dumbbells: one dot per Xs entry, joined by a connector spanning the
// entry values.  With arrows enabled, the connector runs from the first
// present entry to the last and carries an arrowhead.
package dumbbellchart

import (
	"math"
	"strconv"

	domainresolver "github.com/UNDP-Data/undp-visualization-library-sub001/domain_resolver"
	frameindexer "github.com/UNDP-Data/undp-visualization-library-sub001/frame_indexer"
	"github.com/UNDP-Data/undp-visualization-library-sub001/geometry"
	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
	"github.com/UNDP-Data/undp-visualization-library-sub001/scale"
)

// ArrowMarker names the arrowhead marker placed on arrow connectors.
const ArrowMarker = "arrow"

// Orientation specifies the direction of the value axis.
type Orientation int

const (
	// Horizontal dumbbells lie along a horizontal value axis, one row per
	// Datum.
	Horizontal Orientation = iota
	// Vertical dumbbells stand along a vertical value axis, one column per
	// Datum.
	Vertical
)

// Settings is a collection of rendering settings for a dumbbell chart.
type Settings struct {
	Orientation  Orientation
	Plot         geometry.Rect
	Domain       domainresolver.Extent
	KeyBy        frameindexer.KeyBy
	PaddingInner float64
	Radius       float64
	// SeriesColors colors the Xs entries, cycling as needed.
	SeriesColors   []string
	ConnectorColor string
	Arrow          bool
	ShowLabels     bool
	ShowValues     bool
	Format         geometry.Formatter
}

func (s *Settings) seriesColor(idx int) string {
	if len(s.SeriesColors) == 0 {
		return s.ConnectorColor
	}
	return s.SeriesColors[idx%len(s.SeriesColors)]
}

// place returns the pixel coordinates of value position v in the band
// centered at c.
func (s *Settings) place(v, c float64) (x, y float64) {
	if s.Orientation == Vertical {
		return c, v
	}
	return v, c
}

// Dumbbell returns each Datum's connector, dots, and labels.  Absent Xs
// entries yield hidden dots; a Datum with fewer than two present entries
// yields a hidden, zero-length connector.
func Dumbbell(frame *frameindexer.Frame, s Settings) []geometry.Shape {
	if frame == nil || len(frame.Data) == 0 {
		return []geometry.Shape{}
	}
	keys := make([]string, len(frame.Data))
	width := 0
	for idx, d := range frame.Data {
		keys[idx] = d.Key(s.KeyBy)
		if len(d.Xs) > width {
			width = len(d.Xs)
		}
	}
	var band *scale.Band
	var vs *scale.Linear
	if s.Orientation == Vertical {
		band = scale.NewBand(keys, s.Plot.X, s.Plot.Right(), s.PaddingInner, 0)
		vs = scale.NewLinear(s.Domain, s.Plot.Bottom(), s.Plot.Y)
	} else {
		band = scale.NewBand(keys, s.Plot.Y, s.Plot.Bottom(), s.PaddingInner, 0)
		vs = scale.NewLinear(s.Domain, s.Plot.X, s.Plot.Right())
	}
	radius := s.Radius
	if radius <= 0 {
		radius = 5
	}
	ret := make([]geometry.Shape, 0, len(frame.Data)*(2*width+2))
	for idx := range frame.Data {
		d := &frame.Data[idx]
		center := band.At(idx) + band.Bandwidth()/2
		// Pixel positions of the present entries, in entry order.
		var present []float64
		dots := make([]geometry.Shape, 0, width)
		for xIdx := 0; xIdx < width; xIdx++ {
			val := nullguard.Absent
			if xIdx < len(d.Xs) {
				val = d.Xs[xIdx]
			}
			px, ok := vs.MapNumber(val)
			if ok {
				present = append(present, px)
			} else {
				px = vs.Zero()
			}
			x, y := s.place(px, center)
			dots = append(dots, geometry.Sanitize(geometry.Shape{
				Kind:     geometry.CircleKind,
				Role:     geometry.MarkRole,
				Key:      "dot-" + keys[idx] + "-" + strconv.Itoa(xIdx),
				X:        x,
				Y:        y,
				R:        radius,
				Fill:     s.seriesColor(xIdx),
				ColorKey: strconv.Itoa(xIdx),
				Opacity:  geometry.Visible(ok),
				Datum:    d,
			}))
			if s.ShowValues {
				vx, vy := x, y-radius-4
				if s.Orientation == Vertical {
					vx, vy = x+radius+4, y
				}
				text := s.Format.Format(val)
				dots = append(dots, geometry.Sanitize(geometry.Shape{
					Kind:    geometry.TextKind,
					Role:    geometry.ValueLabelRole,
					Key:     "value-" + keys[idx] + "-" + strconv.Itoa(xIdx),
					X:       vx,
					Y:       vy,
					Text:    text,
					Anchor:  "middle",
					Fill:    s.seriesColor(xIdx),
					Opacity: geometry.Visible(ok && text != ""),
					Datum:   d,
				}))
			}
		}
		ret = append(ret, s.connector("connector-"+keys[idx], d, present, vs.Zero(), center, radius))
		ret = append(ret, dots...)
		if s.ShowLabels {
			label := geometry.Shape{
				Kind:    geometry.TextKind,
				Role:    geometry.LabelRole,
				Key:     "label-" + keys[idx],
				Text:    d.Label,
				Opacity: 1,
				Datum:   d,
			}
			if s.Orientation == Vertical {
				label.X, label.Y, label.Anchor = center, s.Plot.Bottom()+16, "middle"
			} else {
				label.X, label.Y, label.Anchor = s.Plot.X-4, center, "end"
			}
			ret = append(ret, geometry.Sanitize(label))
		}
	}
	return ret
}

// connector returns the line joining the present dot positions.  Arrow
// connectors run from the first position to the last, stopping short of the
// final dot so the arrowhead stays visible.
func (s *Settings) connector(key string, d *frameindexer.Datum, present []float64, zero, center, radius float64) geometry.Shape {
	ret := geometry.Shape{
		Kind:        geometry.LineKind,
		Role:        geometry.ConnectorRole,
		Key:         key,
		Stroke:      s.ConnectorColor,
		StrokeWidth: 1,
		Opacity:     geometry.Visible(len(present) >= 2),
		Datum:       d,
	}
	from, to := zero, zero
	switch {
	case len(present) == 0:
	case s.Arrow:
		from, to = present[0], present[len(present)-1]
		if math.Abs(to-from) > radius {
			to -= math.Copysign(radius, to-from)
		}
		ret.Marker = ArrowMarker
	default:
		from, to = present[0], present[0]
		for _, p := range present[1:] {
			from, to = math.Min(from, p), math.Max(to, p)
		}
	}
	ret.X, ret.Y = s.place(from, center)
	ret.X2, ret.Y2 = s.place(to, center)
	return geometry.Sanitize(ret)
}

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

// Package xychart maps frames of Records to shapes on two continuous axes.
//
// Scatter places one circle per Datum of a frame at (X, Y), optionally
// sized by Radius on a square-root scale.  Line draws one path per label
// through an entire Series, with the frame date on the x axis and Y on the
// y axis; absent values break the path instead of dropping it to zero.
package xychart

import (
	"math"

	domainresolver "github.com/UNDP-Data/undp-visualization-library-sub001/domain_resolver"
	frameindexer "github.com/UNDP-Data/undp-visualization-library-sub001/frame_indexer"
	"github.com/UNDP-Data/undp-visualization-library-sub001/geometry"
	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
	"github.com/UNDP-Data/undp-visualization-library-sub001/scale"
)

// DefaultRadius is the radius of a scatter point with no radius scale.
const DefaultRadius = 5

// ScatterSettings is a collection of rendering settings for a scatter
// plot.
type ScatterSettings struct {
	Plot             geometry.Rect
	XDomain, YDomain domainresolver.Extent
	KeyBy            frameindexer.KeyBy
	// If RadiusDomain is non-nil, points are sized by Radius on a sqrt scale
	// onto [MinRadius, MaxRadius], and points with no Radius are hidden.
	// Otherwise every point has radius Radius.
	RadiusDomain *domainresolver.Extent
	MinRadius    float64
	MaxRadius    float64
	Radius       float64
	Colors       geometry.Colorer
	DefaultColor string
	ShowLabels   bool
}

func (s *ScatterSettings) radius() float64 {
	if s.Radius <= 0 {
		return DefaultRadius
	}
	return s.Radius
}

// minRadius returns MinRadius clamped into [0, MaxRadius].
func (s *ScatterSettings) minRadius() float64 {
	return math.Max(0, math.Min(s.MinRadius, s.MaxRadius))
}

// Scales returns the x and y scales for the receiver.
func (s *ScatterSettings) Scales() (x, y *scale.Linear) {
	return scale.NewLinear(s.XDomain, s.Plot.X, s.Plot.Right()),
		scale.NewLinear(s.YDomain, s.Plot.Bottom(), s.Plot.Y)
}

// Scatter returns one circle, and optionally one label, per Datum of the
// provided frame.  Points with an absent coordinate are hidden at the
// plot's origin.
func Scatter(frame *frameindexer.Frame, s ScatterSettings) []geometry.Shape {
	if frame == nil || len(frame.Data) == 0 {
		return []geometry.Shape{}
	}
	xs, ys := s.Scales()
	var rs *scale.Sqrt
	if s.RadiusDomain != nil {
		rs = scale.NewSqrt(*s.RadiusDomain, s.minRadius(), s.MaxRadius)
	}
	ret := make([]geometry.Shape, 0, len(frame.Data)*2)
	for idx := range frame.Data {
		d := &frame.Data[idx]
		key := d.Key(s.KeyBy)
		x, xok := xs.MapNumber(d.X)
		y, yok := ys.MapNumber(d.Y)
		visible := xok && yok
		if !visible {
			x, y = s.Plot.X, s.Plot.Bottom()
		}
		r := s.radius()
		if rs != nil {
			var rok bool
			r, rok = rs.MapNumber(d.Radius)
			visible = visible && rok
		}
		circle := geometry.Shape{
			Kind:     geometry.CircleKind,
			Role:     geometry.MarkRole,
			Key:      "point-" + key,
			X:        x,
			Y:        y,
			R:        r,
			Fill:     geometry.Fill(s.Colors, d.Color, s.DefaultColor),
			ColorKey: d.Color,
			Opacity:  geometry.Visible(visible),
			Datum:    d,
		}
		if !visible {
			circle.R = 0
		}
		ret = append(ret, geometry.Sanitize(circle))
		if s.ShowLabels {
			ret = append(ret, geometry.Sanitize(geometry.Shape{
				Kind:    geometry.TextKind,
				Role:    geometry.LabelRole,
				Key:     "label-" + key,
				X:       x + circle.R + 2,
				Y:       y,
				Text:    d.Label,
				Anchor:  "start",
				Opacity: geometry.Visible(visible),
				Datum:   d,
			}))
		}
	}
	return ret
}

// LineSettings is a collection of rendering settings for a line chart.
type LineSettings struct {
	Plot    geometry.Rect
	YDomain domainresolver.Extent
	// Colors maps labels to line colors.
	Colors       geometry.Colorer
	DefaultColor string
	StrokeWidth  float64
	// If positive, a marker of this radius is drawn at every defined point.
	MarkerRadius float64
	// If true, each line is labeled at its last defined point.
	ShowLabels bool
	Format     geometry.Formatter
}

// TimeDomain returns the extent of the series' parsed frame dates, in Unix
// milliseconds.
func TimeDomain(series *frameindexer.Series) domainresolver.Extent {
	var times []nullguard.Number
	for idx := 0; idx < series.Len(); idx++ {
		f, _ := series.At(idx)
		if f.Parsed {
			times = append(times, nullguard.Of(float64(f.Time.UnixMilli())))
		}
	}
	return domainresolver.Span(times, domainresolver.Override{})
}

// Line returns, for each label of the provided series, a path through its
// Y values at each frame date, with optional point markers and an end
// label.  Frames with unparseable dates are skipped.
func Line(series *frameindexer.Series, s LineSettings) []geometry.Shape {
	if series.Len() == 0 {
		return []geometry.Shape{}
	}
	xs := scale.NewLinear(TimeDomain(series), s.Plot.X, s.Plot.Right())
	ys := scale.NewLinear(s.YDomain, s.Plot.Bottom(), s.Plot.Y)
	strokeWidth := s.StrokeWidth
	if strokeWidth <= 0 {
		strokeWidth = 2
	}
	ret := []geometry.Shape{}
	var markers []geometry.Shape
	for _, label := range series.Labels {
		var points []geometry.Point
		var last *frameindexer.Datum
		var lastPoint geometry.Point
		color := geometry.Fill(s.Colors, label, s.DefaultColor)
		for fIdx := 0; fIdx < series.Len(); fIdx++ {
			f, _ := series.At(fIdx)
			if !f.Parsed {
				continue
			}
			d := find(f, label)
			if d == nil {
				continue
			}
			x := xs.Map(float64(f.Time.UnixMilli()))
			y, ok := ys.MapNumber(d.Y)
			if !ok {
				y = s.Plot.Bottom()
			}
			p := geometry.Point{X: x, Y: y, Defined: ok}
			points = append(points, p)
			if ok {
				last, lastPoint = d, p
			}
			if s.MarkerRadius > 0 {
				markers = append(markers, geometry.Sanitize(geometry.Shape{
					Kind:     geometry.CircleKind,
					Role:     geometry.MarkRole,
					Key:      "point-" + label + "-" + f.Date,
					X:        x,
					Y:        y,
					R:        s.MarkerRadius,
					Fill:     color,
					ColorKey: label,
					Opacity:  geometry.Visible(ok),
					Datum:    d,
				}))
			}
		}
		ret = append(ret, geometry.Shape{
			Kind:        geometry.PathKind,
			Role:        geometry.ConnectorRole,
			Key:         "line-" + label,
			D:           geometry.LinePath(points),
			Stroke:      color,
			StrokeWidth: strokeWidth,
			ColorKey:    label,
			Opacity:     geometry.Visible(last != nil),
		})
		if s.ShowLabels && last != nil {
			text := label
			if v := s.Format.Format(last.Y); v != "" {
				text = label + ": " + v
			}
			ret = append(ret, geometry.Sanitize(geometry.Shape{
				Kind:    geometry.TextKind,
				Role:    geometry.LabelRole,
				Key:     "label-" + label,
				X:       lastPoint.X + 4,
				Y:       lastPoint.Y,
				Text:    text,
				Anchor:  "start",
				Fill:    color,
				Opacity: 1,
				Datum:   last,
			}))
		}
	}
	return append(ret, markers...)
}

func find(f *frameindexer.Frame, label string) *frameindexer.Datum {
	for idx := range f.Data {
		if f.Data[idx].Label == label {
			return &f.Data[idx]
		}
	}
	return nil
}

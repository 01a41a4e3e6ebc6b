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

// Package barchart maps frames of bar-chart Records to shapes.
//
// Four layouts are supported, all sharing one discrete category axis (one
// band per Datum, in frame order) and one continuous value axis:
//
//	shapes := barchart.Bar(frame, settings)      // one bar per Datum, Size
//	shapes := barchart.Grouped(frame, settings)  // one bar per Sizes entry
//	shapes := barchart.Stacked(frame, settings)  // Sizes stacked end to end
//	shapes := barchart.Butterfly(frame, settings) // LeftBar and RightBar
//
// Bars grow from the value axis' zero line.  A Datum whose value is absent
// still yields its shapes, with zero extent and zero opacity, so that it can
// animate in when a later frame supplies the value.
package barchart

import (
	"math"
	"strconv"

	domainresolver "github.com/UNDP-Data/undp-visualization-library-sub001/domain_resolver"
	frameindexer "github.com/UNDP-Data/undp-visualization-library-sub001/frame_indexer"
	"github.com/UNDP-Data/undp-visualization-library-sub001/geometry"
	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
	"github.com/UNDP-Data/undp-visualization-library-sub001/scale"
)

// Orientation specifies the direction bars grow in.
type Orientation int

const (
	// Vertical bars grow up from a horizontal category axis.
	Vertical Orientation = iota
	// Horizontal bars grow right from a vertical category axis.
	Horizontal
)

// Settings is a collection of rendering settings for a bar chart.
type Settings struct {
	Orientation Orientation
	// The plot area, inside margins.
	Plot geometry.Rect
	// The value-axis domain.  For Stacked, this should span stack totals;
	// for Butterfly, it should span both sides.
	Domain domainresolver.Extent
	KeyBy  frameindexer.KeyBy
	// Padding between bands, and at either end of the category axis, as
	// fractions of a band step.
	PaddingInner, PaddingOuter float64
	// Padding between bars within a group, as a fraction of a sub-band step.
	GroupPadding float64
	// Colors maps Record color keys to bar colors (Bar, Butterfly).
	Colors       geometry.Colorer
	DefaultColor string
	// SeriesColors colors the Sizes entries of Grouped and Stacked charts,
	// cycling as needed.
	SeriesColors []string
	// ButterflyColors holds the left and right bar colors.
	ButterflyColors [2]string
	// The gap between the two halves of a butterfly chart, in pixels.
	CenterGap  float64
	ShowValues bool
	ShowLabels bool
	FontSize   float64
	Format     geometry.Formatter
	// Values at or below which value labels and bars are suppressed.
	// Absent disables the check.
	TruncateBelow nullguard.Number
}

func (s *Settings) fontSize() float64 {
	if s.FontSize <= 0 {
		return 12
	}
	return s.FontSize
}

func (s *Settings) valueScale() *scale.Linear {
	if s.Orientation == Horizontal {
		return scale.NewLinear(s.Domain, s.Plot.X, s.Plot.Right())
	}
	return scale.NewLinear(s.Domain, s.Plot.Bottom(), s.Plot.Y)
}

func (s *Settings) categoryBand(keys []string) *scale.Band {
	if s.Orientation == Horizontal {
		return scale.NewBand(keys, s.Plot.Y, s.Plot.Bottom(), s.PaddingInner, s.PaddingOuter)
	}
	return scale.NewBand(keys, s.Plot.X, s.Plot.Right(), s.PaddingInner, s.PaddingOuter)
}

func (s *Settings) seriesColor(idx int) string {
	if len(s.SeriesColors) == 0 {
		return s.DefaultColor
	}
	return s.SeriesColors[idx%len(s.SeriesColors)]
}

func keys(frame *frameindexer.Frame, keyBy frameindexer.KeyBy) []string {
	if frame == nil {
		return nil
	}
	ret := make([]string, len(frame.Data))
	for idx, d := range frame.Data {
		ret[idx] = d.Key(keyBy)
	}
	return ret
}

// bar returns a bar shape spanning [valStart, valStart+valLength] on the
// value axis and [catStart, catStart+catWidth] on the category axis.
func (s *Settings) bar(key string, d *frameindexer.Datum, catStart, catWidth, valStart, valLength float64) geometry.Shape {
	ret := geometry.Shape{
		Kind:  geometry.RectKind,
		Role:  geometry.MarkRole,
		Key:   key,
		Datum: d,
	}
	if s.Orientation == Horizontal {
		ret.X, ret.Width = valStart, valLength
		ret.Y, ret.Height = catStart, catWidth
	} else {
		ret.X, ret.Width = catStart, catWidth
		ret.Y, ret.Height = valStart, valLength
	}
	return ret
}

func (s *Settings) truncated(n nullguard.Number) bool {
	limit, ok := s.TruncateBelow.Get()
	if !ok {
		return false
	}
	v, ok := n.Get()
	return ok && math.Abs(v) <= limit
}

// valueLabel returns a label for n placed just beyond the end of bar b.
func (s *Settings) valueLabel(key string, b geometry.Shape, n nullguard.Number, negative bool) geometry.Shape {
	text := s.Format.Format(n)
	ret := geometry.Shape{
		Kind:    geometry.TextKind,
		Role:    geometry.ValueLabelRole,
		Key:     key,
		Text:    text,
		Fill:    b.Fill,
		Opacity: geometry.Visible(text != "" && !s.truncated(n)),
		Datum:   b.Datum,
	}
	const offset = 4
	if s.Orientation == Horizontal {
		ret.Y = b.Y + b.Height/2
		if negative {
			ret.X, ret.Anchor = b.X-offset, "end"
		} else {
			ret.X, ret.Anchor = b.X+b.Width+offset, "start"
		}
	} else {
		ret.X, ret.Anchor = b.X+b.Width/2, "middle"
		if negative {
			ret.Y = b.Y + b.Height + offset + s.fontSize()
		} else {
			ret.Y = b.Y - offset
		}
	}
	return ret
}

// segmentLabel returns a label for n centered within stack segment b,
// hidden if the segment is too small to hold it.
func (s *Settings) segmentLabel(key string, b geometry.Shape, n nullguard.Number) geometry.Shape {
	text := s.Format.Format(n)
	fits := geometry.FitsLabel(text, s.fontSize(), b.Width, 2) && b.Height >= s.fontSize()+4
	return geometry.Shape{
		Kind:    geometry.TextKind,
		Role:    geometry.ValueLabelRole,
		Key:     key,
		X:       b.X + b.Width/2,
		Y:       b.Y + b.Height/2,
		Text:    text,
		Anchor:  "middle",
		Opacity: geometry.Visible(text != "" && b.Opacity > 0 && fits && !s.truncated(n)),
		Datum:   b.Datum,
	}
}

// categoryLabel returns d's label, placed alongside its band.
func (s *Settings) categoryLabel(key string, d *frameindexer.Datum, catStart, catWidth float64) geometry.Shape {
	ret := geometry.Shape{
		Kind:    geometry.TextKind,
		Role:    geometry.LabelRole,
		Key:     key,
		Text:    d.Label,
		Opacity: 1,
		Datum:   d,
	}
	if s.Orientation == Horizontal {
		ret.X, ret.Y, ret.Anchor = s.Plot.X-4, catStart+catWidth/2, "end"
	} else {
		ret.X, ret.Y, ret.Anchor = catStart+catWidth/2, s.Plot.Bottom()+s.fontSize()+4, "middle"
		if !geometry.FitsLabel(d.Label, s.fontSize(), catWidth, 0) {
			// Labels too wide for their band are hidden rather than overlap.
			ret.Opacity = 0
		}
	}
	return ret
}

func isNegative(n nullguard.Number) bool {
	v, ok := n.Get()
	return ok && v < 0
}

// Bar returns one bar per Datum, sized by its Size.
func Bar(frame *frameindexer.Frame, s Settings) []geometry.Shape {
	ks := keys(frame, s.KeyBy)
	if len(ks) == 0 {
		return []geometry.Shape{}
	}
	band := s.categoryBand(ks)
	vs := s.valueScale()
	zero := vs.Zero()
	ret := make([]geometry.Shape, 0, len(ks)*3)
	for idx := range frame.Data {
		d := &frame.Data[idx]
		catStart := band.At(idx)
		start, length := geometry.Span(vs, zero, d.Size)
		b := s.bar("bar-"+ks[idx], d, catStart, band.Bandwidth(), start, length)
		b.Fill = geometry.Fill(s.Colors, d.Color, s.DefaultColor)
		b.ColorKey = d.Color
		b.Opacity = geometry.Visible(d.Size.Finite() && !s.truncated(d.Size))
		ret = append(ret, geometry.Sanitize(b))
		if s.ShowValues {
			ret = append(ret, geometry.Sanitize(s.valueLabel("value-"+ks[idx], b, d.Size, isNegative(d.Size))))
		}
		if s.ShowLabels {
			ret = append(ret, geometry.Sanitize(s.categoryLabel("label-"+ks[idx], d, catStart, band.Bandwidth())))
		}
	}
	return ret
}

func groupWidth(frame *frameindexer.Frame) int {
	n := 0
	for _, d := range frame.Data {
		if len(d.Sizes) > n {
			n = len(d.Sizes)
		}
	}
	return n
}

func subKey(prefix, key string, idx int) string {
	return prefix + key + "-" + strconv.Itoa(idx)
}

// Grouped returns, for each Datum, one side-by-side bar per Sizes entry.
func Grouped(frame *frameindexer.Frame, s Settings) []geometry.Shape {
	ks := keys(frame, s.KeyBy)
	if len(ks) == 0 {
		return []geometry.Shape{}
	}
	band := s.categoryBand(ks)
	vs := s.valueScale()
	zero := vs.Zero()
	n := groupWidth(frame)
	subKeys := make([]string, n)
	for idx := range subKeys {
		subKeys[idx] = strconv.Itoa(idx)
	}
	sub := scale.NewBand(subKeys, 0, band.Bandwidth(), s.GroupPadding, 0)
	ret := make([]geometry.Shape, 0, len(ks)*(n+1))
	for idx := range frame.Data {
		d := &frame.Data[idx]
		catStart := band.At(idx)
		for sIdx := 0; sIdx < n; sIdx++ {
			val := nullguard.Absent
			if sIdx < len(d.Sizes) {
				val = d.Sizes[sIdx]
			}
			start, length := geometry.Span(vs, zero, val)
			b := s.bar(subKey("bar-", ks[idx], sIdx), d, catStart+sub.At(sIdx), sub.Bandwidth(), start, length)
			b.Fill = s.seriesColor(sIdx)
			b.ColorKey = strconv.Itoa(sIdx)
			b.Opacity = geometry.Visible(val.Finite() && !s.truncated(val))
			ret = append(ret, geometry.Sanitize(b))
			if s.ShowValues {
				ret = append(ret, geometry.Sanitize(s.valueLabel(subKey("value-", ks[idx], sIdx), b, val, isNegative(val))))
			}
		}
		if s.ShowLabels {
			ret = append(ret, geometry.Sanitize(s.categoryLabel("label-"+ks[idx], d, catStart, band.Bandwidth())))
		}
	}
	return ret
}

// Stacked returns, for each Datum, its Sizes entries stacked end to end.
// Positive values stack away from zero in one direction and negative values
// in the other; absent values contribute zero-extent segments.
func Stacked(frame *frameindexer.Frame, s Settings) []geometry.Shape {
	ks := keys(frame, s.KeyBy)
	if len(ks) == 0 {
		return []geometry.Shape{}
	}
	band := s.categoryBand(ks)
	vs := s.valueScale()
	zero := vs.Zero()
	n := groupWidth(frame)
	ret := make([]geometry.Shape, 0, len(ks)*(n+2))
	for idx := range frame.Data {
		d := &frame.Data[idx]
		catStart := band.At(idx)
		var pos, neg float64
		var total nullguard.Number
		for sIdx := 0; sIdx < n; sIdx++ {
			val := nullguard.Absent
			if sIdx < len(d.Sizes) {
				val = d.Sizes[sIdx]
			}
			base := pos
			v, ok := val.Get()
			if !ok || !val.Finite() {
				v = 0
			}
			if v < 0 {
				base = neg
				neg += v
			} else {
				pos += v
			}
			if ok && val.Finite() {
				total = nullguard.Of(total.Or(0) + v)
			}
			p0, p1 := vs.Map(base), vs.Map(base+v)
			b := s.bar(subKey("bar-", ks[idx], sIdx), d, catStart, band.Bandwidth(), math.Min(p0, p1), math.Abs(p1-p0))
			b.Fill = s.seriesColor(sIdx)
			b.ColorKey = strconv.Itoa(sIdx)
			b.Opacity = geometry.Visible(ok && val.Finite() && v != 0)
			ret = append(ret, geometry.Sanitize(b))
			if s.ShowValues {
				ret = append(ret, geometry.Sanitize(s.segmentLabel(subKey("segment-", ks[idx], sIdx), b, val)))
			}
		}
		if s.ShowValues {
			start, length := geometry.Span(vs, zero, total)
			whole := s.bar("", d, catStart, band.Bandwidth(), start, length)
			ret = append(ret, geometry.Sanitize(s.valueLabel("value-"+ks[idx], whole, total, isNegative(total))))
		}
		if s.ShowLabels {
			ret = append(ret, geometry.Sanitize(s.categoryLabel("label-"+ks[idx], d, catStart, band.Bandwidth())))
		}
	}
	return ret
}

// Butterfly returns, for each Datum, a LeftBar growing left from the center
// of the plot and a RightBar growing right from it.  Butterfly charts are
// always horizontal.
func Butterfly(frame *frameindexer.Frame, s Settings) []geometry.Shape {
	s.Orientation = Horizontal
	ks := keys(frame, s.KeyBy)
	if len(ks) == 0 {
		return []geometry.Shape{}
	}
	band := s.categoryBand(ks)
	center := s.Plot.X + s.Plot.Width/2
	halfGap := math.Min(s.CenterGap, s.Plot.Width) / 2
	domain := domainresolver.Extent{Min: 0, Max: math.Max(math.Abs(s.Domain.Min), math.Abs(s.Domain.Max))}
	left := scale.NewLinear(domain, center-halfGap, s.Plot.X)
	right := scale.NewLinear(domain, center+halfGap, s.Plot.Right())
	ret := make([]geometry.Shape, 0, len(ks)*5)
	for idx := range frame.Data {
		d := &frame.Data[idx]
		catStart := band.At(idx)
		for side, half := range []struct {
			prefix string
			val    nullguard.Number
			scale  *scale.Linear
		}{
			{"left-", d.LeftBar, left},
			{"right-", d.RightBar, right},
		} {
			start, length := geometry.Span(half.scale, half.scale.R0, half.val)
			b := s.bar("bar-"+half.prefix+ks[idx], d, catStart, band.Bandwidth(), start, length)
			b.Fill = s.ButterflyColors[side]
			if b.Fill == "" {
				b.Fill = s.DefaultColor
			}
			b.ColorKey = half.prefix[:len(half.prefix)-1]
			b.Opacity = geometry.Visible(half.val.Finite() && !s.truncated(half.val))
			ret = append(ret, geometry.Sanitize(b))
			if s.ShowValues {
				ret = append(ret, geometry.Sanitize(s.valueLabel("value-"+half.prefix+ks[idx], b, half.val, side == 0)))
			}
		}
		if s.ShowLabels {
			ret = append(ret, geometry.Sanitize(geometry.Shape{
				Kind:    geometry.TextKind,
				Role:    geometry.LabelRole,
				Key:     "label-" + ks[idx],
				X:       center,
				Y:       catStart + band.Bandwidth()/2,
				Text:    d.Label,
				Anchor:  "middle",
				Opacity: 1,
				Datum:   d,
			}))
		}
	}
	return ret
}

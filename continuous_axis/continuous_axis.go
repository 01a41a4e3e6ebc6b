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

// Package continuousaxis provides decorator helpers for defining continuous
// axes.  An axis has a category, a type which describes that axis' domain,
// minimum and maximum points along that domain, the pixel range it spans,
// and optionally a set of labeled ticks.
package continuousaxis

import (
	"math"
	"strconv"
	"time"

	"github.com/UNDP-Data/undp-visualization-library-sub001/category"
	"github.com/UNDP-Data/undp-visualization-library-sub001/scale"
	"github.com/UNDP-Data/undp-visualization-library-sub001/scene"
)

const (
	axisTypeKey       = "axis_type"
	axisMinKey        = "axis_min"
	axisMaxKey        = "axis_max"
	axisPxStartKey    = "axis_px_start"
	axisPxEndKey      = "axis_px_end"
	axisTicksKey      = "axis_ticks"
	axisTickPxKey     = "axis_tick_px"
	axisTickLabelsKey = "axis_tick_labels"

	timestampAxisType = "timestamp"
	durationAxisType  = "duration"
	doubleAxisType    = "double"

	xAxisRenderLabelHeightPxKey   = "x_axis_render_label_height_px"
	xAxisRenderMarkersHeightPxKey = "x_axis_render_markers_height_px"
	yAxisRenderLabelWidthPxKey    = "y_axis_render_label_width_px"
	yAxisRenderMarkersWidthPxKey  = "y_axis_render_markers_width_px"

	// DefaultMaxTicks is the tick budget used when none is specified.
	DefaultMaxTicks = 5
)

// XAxisRenderSettings contains settings for rendering an X axis.
type XAxisRenderSettings struct {
	LabelHeightPx   int64
	MarkersHeightPx int64
}

// Apply annotates with the receiving XAxisRenderSettings.
func (x XAxisRenderSettings) Apply() scene.PropertyUpdate {
	return scene.Chain(
		scene.IntegerProperty(xAxisRenderLabelHeightPxKey, x.LabelHeightPx),
		scene.IntegerProperty(xAxisRenderMarkersHeightPxKey, x.MarkersHeightPx),
	)
}

// YAxisRenderSettings contains settings for rendering a Y axis.
type YAxisRenderSettings struct {
	LabelWidthPx   int64
	MarkersWidthPx int64
}

// Apply annotates with the receiving YAxisRenderSettings.
func (y YAxisRenderSettings) Apply() scene.PropertyUpdate {
	return scene.Chain(
		scene.IntegerProperty(yAxisRenderLabelWidthPxKey, y.LabelWidthPx),
		scene.IntegerProperty(yAxisRenderMarkersWidthPxKey, y.MarkersWidthPx),
	)
}

type tick[T any] struct {
	v     T
	px    float64
	label string
}

// Axis is a continuous axis over values of type T.
type Axis[T float64 | time.Duration | time.Time] struct {
	axisType   string
	cat        *category.Category
	Value      func(key string, v T) scene.PropertyUpdate
	values     func(key string, vs ...T) scene.PropertyUpdate
	min, max   T
	px0, px1   float64
	hasPxRange bool
	ticks      []tick[T]
}

func newAxis[T float64 | time.Duration | time.Time](
	axisType string,
	cat *category.Category,
	valueFn func(key string, v T) scene.PropertyUpdate,
	valuesFn func(key string, vs ...T) scene.PropertyUpdate,
	min, max T) *Axis[T] {
	return &Axis[T]{
		axisType: axisType,
		cat:      cat,
		Value:    valueFn,
		values:   valuesFn,
		min:      min,
		max:      max,
	}
}

// WithPixelRange records the pixel span of the receiver.
func (a *Axis[T]) WithPixelRange(px0, px1 float64) *Axis[T] {
	a.px0, a.px1, a.hasPxRange = px0, px1, true
	return a
}

// WithTick adds a labeled tick at v, drawn at pixel px.
func (a *Axis[T]) WithTick(v T, px float64, label string) *Axis[T] {
	a.ticks = append(a.ticks, tick[T]{v, px, label})
	return a
}

// Ticks returns the number of ticks on the receiver.
func (a *Axis[T]) Ticks() int {
	return len(a.ticks)
}

// Define annotates with a definition of the receiver.
func (a *Axis[T]) Define() scene.PropertyUpdate {
	var tickUpdate scene.PropertyUpdate
	if len(a.ticks) > 0 {
		vs := make([]T, len(a.ticks))
		pxs := make([]float64, len(a.ticks))
		labels := make([]string, len(a.ticks))
		for idx, t := range a.ticks {
			vs[idx], pxs[idx], labels[idx] = t.v, t.px, t.label
		}
		tickUpdate = scene.Chain(
			a.values(axisTicksKey, vs...),
			scene.DoublesProperty(axisTickPxKey, pxs...),
			scene.StringsProperty(axisTickLabelsKey, labels...),
		)
	}
	return scene.Chain(
		a.cat.Define(),
		scene.StringProperty(axisTypeKey, a.axisType),
		a.Value(axisMinKey, a.min),
		a.Value(axisMaxKey, a.max),
		scene.If(a.hasPxRange, scene.Chain(
			scene.DoubleProperty(axisPxStartKey, a.px0),
			scene.DoubleProperty(axisPxEndKey, a.px1),
		)),
		tickUpdate,
	)
}

// CategoryID returns the category ID of the receiving Axis.
func (a *Axis[T]) CategoryID() string {
	return a.cat.ID()
}

// NewTimestampAxis returns a new timestamp Axis with the specified category.
// If the optional extents are provided, the axis' minimum and maximum extents
// will be initialized to the lowest and highest of those extents.
func NewTimestampAxis(cat *category.Category, extents ...time.Time) *Axis[time.Time] {
	var min, max time.Time
	for _, extent := range extents {
		if min.IsZero() || min.After(extent) {
			min = extent
		}
		if max.IsZero() || max.Before(extent) {
			max = extent
		}
	}
	return newAxis[time.Time](
		timestampAxisType, cat,
		scene.TimestampProperty,
		func(key string, vs ...time.Time) scene.PropertyUpdate {
			ds := make([]float64, len(vs))
			for idx, v := range vs {
				ds[idx] = float64(v.UnixNano()) / float64(time.Second)
			}
			return scene.DoublesProperty(key, ds...)
		}, min, max)
}

// NewDurationAxis returns a new duration Axis with the specified category.
// If the optional extents are provided, the axis' minimum and maximum extents
// will be initialized to the lowest and highest of those extents.
func NewDurationAxis(cat *category.Category, extents ...time.Duration) *Axis[time.Duration] {
	var min, max time.Duration = time.Duration(math.MaxInt64), time.Duration(math.MinInt64)
	for _, extent := range extents {
		if extent < min {
			min = extent
		}
		if extent > max {
			max = extent
		}
	}
	return newAxis[time.Duration](
		durationAxisType, cat,
		scene.DurationProperty,
		func(key string, vs ...time.Duration) scene.PropertyUpdate {
			is := make([]int64, len(vs))
			for idx, v := range vs {
				is[idx] = int64(v)
			}
			return scene.IntegersProperty(key, is...)
		}, min, max)
}

// NewDoubleAxis returns a new double Axis with the specified category.
// If the optional extents are provided, the axis' minimum and maximum extents
// will be initialized to the lowest and highest of those extents.
func NewDoubleAxis(cat *category.Category, extents ...float64) *Axis[float64] {
	var min, max float64 = math.MaxFloat64, -math.MaxFloat64
	for _, extent := range extents {
		if min > extent {
			min = extent
		}
		if max < extent {
			max = extent
		}
	}
	return newAxis[float64](
		doubleAxisType, cat,
		scene.DoubleProperty,
		scene.DoublesProperty,
		min, max)
}

// ForLinear returns a double Axis spanning l's domain and pixel range, with
// at most maxTicks ticks labeled by format.  A nil format labels ticks
// with their plain decimal value.
func ForLinear(cat *category.Category, l *scale.Linear, maxTicks int, format func(float64) string) *Axis[float64] {
	d := l.Domain()
	a := NewDoubleAxis(cat, d.Min, d.Max).WithPixelRange(l.R0, l.R1)
	if maxTicks <= 0 {
		maxTicks = DefaultMaxTicks
	}
	for _, v := range l.Ticks(maxTicks) {
		label := strconv.FormatFloat(v, 'f', -1, 64)
		if format != nil {
			label = format(v)
		}
		a.WithTick(v, l.Map(v), label)
	}
	return a
}

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

package chart

import (
	"math"

	"github.com/UNDP-Data/undp-visualization-library-sub001/category"
	categoryaxis "github.com/UNDP-Data/undp-visualization-library-sub001/category_axis"
	"github.com/UNDP-Data/undp-visualization-library-sub001/color"
	continuousaxis "github.com/UNDP-Data/undp-visualization-library-sub001/continuous_axis"
	"github.com/UNDP-Data/undp-visualization-library-sub001/geometry"
	"github.com/UNDP-Data/undp-visualization-library-sub001/interaction"
	"github.com/UNDP-Data/undp-visualization-library-sub001/label"
	"github.com/UNDP-Data/undp-visualization-library-sub001/payload"
	"github.com/UNDP-Data/undp-visualization-library-sub001/scene"
	"github.com/UNDP-Data/undp-visualization-library-sub001/style"
)

// Scene property keys.
const (
	nodeTypeKey   = "node_type"
	chartKindKey  = "chart_kind"
	widthKey      = "width"
	heightKey     = "height"
	frameCountKey = "frame_count"
	frameIndexKey = "frame_index"
	frameDatesKey = "frame_dates"
	durationKey   = "duration_ms"

	shapeKindKey = "shape"
	shapeRoleKey = "role"
	shapeKeyKey  = "key"
	xKey         = "x"
	yKey         = "y"
	x2Key        = "x2"
	y2Key        = "y2"
	rKey         = "r"
	pathKey      = "d"
	opacityKey   = "opacity"
	panelXKey    = "panel_x"
	panelYKey    = "panel_y"

	axesNodeType    = "axes"
	legendNodeType  = "legend"
	marksNodeType   = "marks"
	tooltipNodeType = "tooltip"
	detailNodeType  = "detail"
)

// TooltipSize is the panel size tooltips are placed for.
var TooltipSize = interaction.Size{Width: 240, Height: 120}

var (
	xAxisSettings = continuousaxis.XAxisRenderSettings{LabelHeightPx: 16, MarkersHeightPx: 6}
	yAxisSettings = continuousaxis.YAxisRenderSettings{LabelWidthPx: 48, MarkersWidthPx: 6}
	bandSettings  = categoryaxis.RenderSettings{LabelPaddingValPx: 4, LabelWidthValPx: 80, TruncateLabels: true}
)

// Render writes the frame at idx of in, under the provided interaction
// state, to b.  The scene root carries the chart's frame scrubber metadata;
// its children are, in order, the axes, the legend, the marks, and the
// tooltip and detail panels when they are showing.  An empty series yields
// a scene with a zero frame count and no marks.
func (r *Renderer) Render(b scene.Builder, in Input, idx int, state interaction.State) error {
	l, series, err := r.layout(in, idx, state)
	if err != nil {
		return err
	}
	b.With(
		scene.StringProperty(chartKindKey, string(r.spec.Kind)),
		scene.DoubleProperty(widthKey, r.spec.Width),
		scene.DoubleProperty(heightKey, r.spec.Height),
		scene.IntegerProperty(frameCountKey, int64(series.Len())),
		scene.IntegerProperty(frameIndexKey, int64(series.Clamp(idx))),
		scene.If(series.Len() > 0, scene.StringsProperty(frameDatesKey, series.Dates()...)),
		scene.IntegerProperty(durationKey, r.Duration().Milliseconds()),
		color.Fill(r.theme.Background),
		color.Highlight(r.theme.Highlight),
	)
	r.renderAxes(b.Child().With(scene.StringProperty(nodeTypeKey, axesNodeType)), l)
	legend := b.Child().With(
		scene.StringProperty(nodeTypeKey, legendNodeType),
		label.Text(r.spec.ColorLegendTitle),
	)
	category.Legend(legend, l.legend, state.SelectedColor, r.theme.DimOpacity)
	marks := b.Child().With(scene.StringProperty(nodeTypeKey, marksNodeType))
	for _, s := range l.shapes {
		renderShape(marks.Child(), s)
	}
	if state.Hovered != nil && r.tooltip != nil {
		at := interaction.TooltipPosition(state.Pointer, TooltipSize,
			interaction.Size{Width: r.spec.Width, Height: r.spec.Height})
		b.Child().With(
			scene.StringProperty(nodeTypeKey, tooltipNodeType),
			scene.DoubleProperty(panelXKey, at.X),
			scene.DoubleProperty(panelYKey, at.Y),
			label.Tooltip(r.tooltip.Execute(*state.Hovered)),
		)
	}
	if state.Pinned != nil && r.detail != nil {
		b.Child().With(
			scene.StringProperty(nodeTypeKey, detailNodeType),
			label.Detail(r.detail.Execute(*state.Pinned)),
		)
	}
	return nil
}

func (r *Renderer) renderAxes(b scene.Builder, l *layout) {
	if l.band != nil {
		b.Child().With(categoryaxis.Band(bandCategory, l.band, nil), bandSettings.Define())
	}
	if l.timeAxis != nil {
		b.Child().With(l.timeAxis.Define(), xAxisSettings.Apply())
	}
	if l.crossAxis != nil {
		b.Child().With(l.crossAxis.Define(), xAxisSettings.Apply())
	}
	if l.valueAxis != nil {
		settings := yAxisSettings.Apply()
		if l.crossAxis == nil && l.timeAxis == nil && r.valueAxisHorizontal() {
			settings = xAxisSettings.Apply()
		}
		b.Child().With(l.valueAxis.Define(), settings)
	}
}

// valueAxisHorizontal returns true if the single value axis of a
// one-dimensional chart runs along x.
func (r *Renderer) valueAxisHorizontal() bool {
	switch r.spec.Kind {
	case BarKind, GroupedBarKind, StackedBarKind:
		return r.horizontal(false)
	case DumbbellKind, StripKind:
		return r.horizontal(true)
	}
	return false
}

// renderShape writes s, and the datum it represents, to b.
func renderShape(b scene.Builder, s geometry.Shape) {
	st := style.New().
		StrokeWidth(s.StrokeWidth).
		MarkerEnd(s.Marker)
	var geom scene.PropertyUpdate
	switch s.Kind {
	case geometry.RectKind:
		geom = scene.Chain(
			scene.DoubleProperty(xKey, s.X),
			scene.DoubleProperty(yKey, s.Y),
			scene.DoubleProperty(widthKey, s.Width),
			scene.DoubleProperty(heightKey, s.Height),
		)
	case geometry.CircleKind:
		geom = scene.Chain(
			scene.DoubleProperty(xKey, s.X),
			scene.DoubleProperty(yKey, s.Y),
			scene.DoubleProperty(rKey, s.R),
		)
	case geometry.LineKind:
		geom = scene.Chain(
			scene.DoubleProperty(xKey, s.X),
			scene.DoubleProperty(yKey, s.Y),
			scene.DoubleProperty(x2Key, s.X2),
			scene.DoubleProperty(y2Key, s.Y2),
		)
	case geometry.PathKind:
		geom = scene.StringProperty(pathKey, s.D)
	case geometry.TextKind:
		st.TextAnchor(s.Anchor)
		geom = scene.Chain(
			scene.DoubleProperty(xKey, s.X),
			scene.DoubleProperty(yKey, s.Y),
			label.Text(s.Text),
		)
	}
	b.With(
		scene.StringProperty(shapeKindKey, string(s.Kind)),
		scene.If(s.Role != "", scene.StringProperty(shapeRoleKey, string(s.Role))),
		scene.StringProperty(shapeKeyKey, s.Key),
		geom,
		color.Fill(s.Fill),
		color.Stroke(s.Stroke),
		scene.DoubleProperty(opacityKey, s.Opacity),
		st.Define(),
		scene.If(s.ColorKey != "", category.New(s.ColorKey, "", "").Tag()),
	)
	payload.Datum(payload.Builder{Builder: b}, s.Datum)
}

const (
	fromFrameKey = "from_frame"
	toFrameKey   = "to_frame"
	progressKey  = "progress"
)

// RenderTransition writes the in-between frame at progress (0 to 1) of the
// transition from frame `from` to frame `to` of in.  Entering and exiting
// marks are included, fading in and out.
func (r *Renderer) RenderTransition(b scene.Builder, in Input, from, to int, progress float64) error {
	if math.IsNaN(progress) {
		progress = 0
	}
	progress = math.Max(0, math.Min(1, progress))
	series, err := r.Frames(in.Records)
	if err != nil {
		return err
	}
	tr, err := r.Transition(in, from, to)
	if err != nil {
		return err
	}
	b.With(
		scene.StringProperty(chartKindKey, string(r.spec.Kind)),
		scene.DoubleProperty(widthKey, r.spec.Width),
		scene.DoubleProperty(heightKey, r.spec.Height),
		scene.IntegerProperty(frameCountKey, int64(series.Len())),
		scene.IntegerProperty(fromFrameKey, int64(series.Clamp(from))),
		scene.IntegerProperty(toFrameKey, int64(series.Clamp(to))),
		scene.DoubleProperty(progressKey, progress),
		scene.IntegerProperty(durationKey, tr.Duration.Milliseconds()),
	)
	marks := b.Child().With(scene.StringProperty(nodeTypeKey, marksNodeType))
	for _, s := range tr.At(progress) {
		renderShape(marks.Child(), s)
	}
	return nil
}

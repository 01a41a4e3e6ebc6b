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

// Package chart runs the chart pipeline: it completes and indexes a raw
// record series into frames, resolves domains and scales, maps the active
// frame to shapes with the configured chart family, applies interaction
// state, and writes the result as a scene.
//
// A Renderer is immutable once built and safe for concurrent use; all
// per-render state (scales, palettes) is rebuilt on every call.
package chart

import (
	"fmt"
	"strconv"
	"time"

	"github.com/UNDP-Data/undp-visualization-library-sub001/animation"
	barchart "github.com/UNDP-Data/undp-visualization-library-sub001/bar_chart"
	"github.com/UNDP-Data/undp-visualization-library-sub001/category"
	continuousaxis "github.com/UNDP-Data/undp-visualization-library-sub001/continuous_axis"
	domainresolver "github.com/UNDP-Data/undp-visualization-library-sub001/domain_resolver"
	donutchart "github.com/UNDP-Data/undp-visualization-library-sub001/donut_chart"
	dumbbellchart "github.com/UNDP-Data/undp-visualization-library-sub001/dumbbell_chart"
	frameindexer "github.com/UNDP-Data/undp-visualization-library-sub001/frame_indexer"
	"github.com/UNDP-Data/undp-visualization-library-sub001/geometry"
	"github.com/UNDP-Data/undp-visualization-library-sub001/interaction"
	mapchart "github.com/UNDP-Data/undp-visualization-library-sub001/map_chart"
	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
	numberformat "github.com/UNDP-Data/undp-visualization-library-sub001/number_format"
	"github.com/UNDP-Data/undp-visualization-library-sub001/record"
	"github.com/UNDP-Data/undp-visualization-library-sub001/scale"
	stripchart "github.com/UNDP-Data/undp-visualization-library-sub001/strip_chart"
	templaterenderer "github.com/UNDP-Data/undp-visualization-library-sub001/template_renderer"
	"github.com/UNDP-Data/undp-visualization-library-sub001/theme"
	xychart "github.com/UNDP-Data/undp-visualization-library-sub001/xy_chart"
	"github.com/golang/glog"
	"github.com/paulmach/orb/geojson"
)

const (
	// frameCacheSize bounds the number of distinct inputs whose frames are
	// memoized per Renderer.
	frameCacheSize = 8
	defaultBuckets = 4
	maxTicks       = 5
	// highlightStrokeWidth outlines hovered and pinned marks.
	highlightStrokeWidth = 2
)

// Input is the data a chart is drawn from.
type Input struct {
	Records []record.Record
	// Features holds the map features of map charts.  Other charts ignore
	// it.
	Features *geojson.FeatureCollection
}

// Renderer draws charts of a single Spec.
type Renderer struct {
	spec      Spec
	theme     *theme.Theme
	formatter *numberformat.Formatter
	tooltip   *templaterenderer.Template
	detail    *templaterenderer.Template
	frames    *frameindexer.Cache
	keyBy     frameindexer.KeyBy
}

// New returns a Renderer for the provided spec and theme.  A nil theme is
// the default light theme.
func New(spec *Spec, th *theme.Theme) (*Renderer, error) {
	if spec == nil {
		return nil, fmt.Errorf("no chart spec provided")
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if th == nil {
		th = theme.Default(theme.Light)
	}
	if err := th.Validate(); err != nil {
		return nil, err
	}
	r := &Renderer{
		spec:      *spec,
		theme:     th,
		formatter: numberformat.New(spec.Language),
	}
	if spec.KeyBy == "id" {
		r.keyBy = frameindexer.ByID
	}
	opts := frameindexer.Options{
		DateFormat: spec.DateFormat,
		AutoSort:   spec.AutoSort,
		Value:      r.sortValue(),
		KeyBy:      r.keyBy,
	}
	if spec.SortOrder == "ascending" {
		opts.Order = frameindexer.Ascending
	}
	cache, err := frameindexer.NewCache(frameCacheSize, opts)
	if err != nil {
		return nil, err
	}
	r.frames = cache
	if spec.Tooltip != "" {
		r.tooltip = r.compile(spec.Tooltip)
	}
	if spec.DetailsOnClick != "" {
		r.detail = r.compile(spec.DetailsOnClick)
	}
	return r, nil
}

func (r *Renderer) compile(src string) *templaterenderer.Template {
	t := templaterenderer.Compile(src).WithFormatter(r.formatter)
	if n := t.Stripped(); n > 0 {
		glog.Warningf("chart template: stripped %d unsafe fragment(s)", n)
	}
	return t
}

// sortValue returns the accessor auto-sorting orders frames by.
func (r *Renderer) sortValue() record.Accessor {
	switch r.spec.Kind {
	case GroupedBarKind, StackedBarKind:
		return record.StackTotal
	case ButterflyKind:
		return record.Concat(record.LeftBarField, record.RightBarField)
	case ScatterKind:
		return record.YField
	case ChoroplethKind, BivariateKind:
		return record.XField
	case StripKind:
		return record.PositionField
	}
	return record.SizeField
}

// Spec returns a copy of the receiver's spec.
func (r *Renderer) Spec() Spec {
	return r.spec
}

// Theme returns the theme the chart is drawn with.
func (r *Renderer) Theme() *theme.Theme {
	return r.theme
}

// Interaction returns an interaction Config carrying the receiver's
// templates and selection settings.  Callers add their own callbacks.
func (r *Renderer) Interaction() interaction.Config {
	return interaction.Config{
		KeyBy:                       r.keyBy,
		ResetSelectionOnDoubleClick: r.spec.ResetSelectionOnDoubleClick,
		DimOpacity:                  r.theme.DimOpacity,
		Tooltip:                     r.tooltip,
		Detail:                      r.detail,
	}
}

// Duration returns the frame transition duration.
func (r *Renderer) Duration() time.Duration {
	if r.spec.Duration <= 0 {
		return animation.DefaultDuration
	}
	return time.Duration(r.spec.Duration) * time.Millisecond
}

// Frames completes and indexes the provided records.
func (r *Renderer) Frames(records []record.Record) (*frameindexer.Series, error) {
	s, err := r.frames.Build(records)
	if err != nil {
		return nil, fmt.Errorf("failed to index frames: %w", err)
	}
	return s, nil
}

func (r *Renderer) plot() geometry.Rect {
	m := geometry.Margin{
		Top:    r.spec.Margin.Top,
		Right:  r.spec.Margin.Right,
		Bottom: r.spec.Margin.Bottom,
		Left:   r.spec.Margin.Left,
	}
	return m.Inner(r.spec.Width, r.spec.Height)
}

func (r *Renderer) format() geometry.Formatter {
	return func(v float64) string {
		return r.formatter.Format(v, r.spec.Prefix, r.spec.Suffix)
	}
}

func (r *Renderer) horizontal(def bool) bool {
	switch r.spec.Orientation {
	case "horizontal":
		return true
	case "vertical":
		return false
	}
	return def
}

func (r *Renderer) palette(domain []string) *scale.Ordinal {
	if len(r.spec.Colors) > 0 {
		return scale.NewOrdinal(domain, r.spec.Colors, r.theme.Primary)
	}
	return r.theme.Palette(domain...)
}

func (r *Renderer) seriesColors() []string {
	if len(r.spec.Colors) > 0 {
		return r.spec.Colors
	}
	return r.theme.Categorical
}

func (r *Renderer) seriesName(idx int) string {
	if idx < len(r.spec.Series) && r.spec.Series[idx] != "" {
		return r.spec.Series[idx]
	}
	return "Series " + strconv.Itoa(idx+1)
}

// layout is the result of mapping one frame: its shapes, and the axes and
// legend that explain them.
type layout struct {
	shapes []geometry.Shape
	// valueAxis and crossAxis are the continuous axes, if any.
	valueAxis *continuousaxis.Axis[float64]
	crossAxis *continuousaxis.Axis[float64]
	timeAxis  *continuousaxis.Axis[time.Time]
	// band is the category axis, if any.
	band   *scale.Band
	legend []category.Entry
}

var (
	valueCategory = category.New("value_axis", "Value", "")
	xCategory     = category.New("x_axis", "X", "")
	yCategory     = category.New("y_axis", "Y", "")
	timeCategory  = category.New("time_axis", "Date", "")
	bandCategory  = category.New("category_axis", "Category", "")
)

func allRecords(series *frameindexer.Series) []record.Record {
	var ret []record.Record
	for _, f := range series.Frames {
		for _, d := range f.Data {
			ret = append(ret, d.Record)
		}
	}
	return ret
}

func frameKeys(frame *frameindexer.Frame, keyBy frameindexer.KeyBy) []string {
	ret := make([]string, len(frame.Data))
	for idx, d := range frame.Data {
		ret[idx] = d.Key(keyBy)
	}
	return ret
}

func (r *Renderer) colorLegend(domain []string, palette *scale.Ordinal) []category.Entry {
	ret := make([]category.Entry, 0, len(domain))
	for _, key := range domain {
		ret = append(ret, category.Entry{
			Category: category.New(key, key, ""),
			Color:    palette.Map(key),
		})
	}
	return ret
}

func (r *Renderer) seriesLegend(n int) []category.Entry {
	colors := r.seriesColors()
	ret := make([]category.Entry, 0, n)
	for idx := 0; idx < n; idx++ {
		ret = append(ret, category.Entry{
			Category: category.New(strconv.Itoa(idx), r.seriesName(idx), ""),
			Color:    colors[idx%len(colors)],
		})
	}
	return ret
}

func maxLen(records []record.Record, acc record.Accessor) int {
	ret := 0
	for idx := range records {
		if n := len(acc(&records[idx])); n > ret {
			ret = n
		}
	}
	return ret
}

func override(min, max nullguard.Number) domainresolver.Override {
	return domainresolver.Override{Min: min, Max: max}
}

// mapFrame maps the frame at idx of series with the configured family.
func (r *Renderer) mapFrame(in Input, series *frameindexer.Series, frame *frameindexer.Frame) (*layout, error) {
	s := r.spec
	plot := r.plot()
	all := allRecords(series)
	colorDomain := s.ColorDomain
	if len(colorDomain) == 0 {
		colorDomain = domainresolver.Categories(all)
	}
	palette := r.palette(colorDomain)
	ret := &layout{}
	switch s.Kind {
	case BarKind, GroupedBarKind, StackedBarKind, ButterflyKind:
		bs := barchart.Settings{
			Plot:            plot,
			KeyBy:           r.keyBy,
			PaddingInner:    s.BarPadding,
			PaddingOuter:    s.BarPadding / 2,
			GroupPadding:    0.1,
			Colors:          palette,
			DefaultColor:    r.theme.Primary,
			SeriesColors:    r.seriesColors(),
			ButterflyColors: [2]string{r.seriesColors()[0], r.seriesColors()[1%len(r.seriesColors())]},
			CenterGap:       20,
			ShowValues:      s.ShowValues,
			ShowLabels:      s.ShowLabels,
			FontSize:        s.FontSize,
			Format:          r.format(),
			TruncateBelow:   s.TruncateBelow,
		}
		if r.horizontal(s.Kind == ButterflyKind) {
			bs.Orientation = barchart.Horizontal
		}
		o := override(s.MinValue, s.MaxValue)
		switch s.Kind {
		case BarKind:
			bs.Domain = domainresolver.ForRecords(all, record.SizeField, o)
			ret.shapes = barchart.Bar(frame, bs)
			if len(colorDomain) > 0 {
				ret.legend = r.colorLegend(colorDomain, palette)
			}
		case GroupedBarKind:
			bs.Domain = domainresolver.ForRecords(all, record.SizesField, o)
			ret.shapes = barchart.Grouped(frame, bs)
			ret.legend = r.seriesLegend(maxLen(all, record.SizesField))
		case StackedBarKind:
			bs.Domain = domainresolver.ForRecords(all, record.StackTotal, o)
			ret.shapes = barchart.Stacked(frame, bs)
			ret.legend = r.seriesLegend(maxLen(all, record.SizesField))
		case ButterflyKind:
			bs.Domain = domainresolver.ForRecords(all, record.Concat(record.LeftBarField, record.RightBarField), o)
			ret.shapes = barchart.Butterfly(frame, bs)
			ret.legend = []category.Entry{
				{Category: category.New("left", r.seriesName(0), ""), Color: bs.ButterflyColors[0]},
				{Category: category.New("right", r.seriesName(1), ""), Color: bs.ButterflyColors[1]},
			}
		}
		catStart, catEnd := plot.X, plot.Right()
		valStart, valEnd := plot.Bottom(), plot.Y
		if bs.Orientation == barchart.Horizontal {
			catStart, catEnd = plot.Y, plot.Bottom()
			valStart, valEnd = plot.X, plot.Right()
		}
		ret.band = scale.NewBand(frameKeys(frame, r.keyBy), catStart, catEnd, bs.PaddingInner, bs.PaddingOuter)
		if s.Kind != ButterflyKind {
			vs := scale.NewLinear(bs.Domain, valStart, valEnd)
			ret.valueAxis = continuousaxis.ForLinear(valueCategory, vs, maxTicks, r.format())
			ret.shapes = append(ret.shapes, r.valueOverlays(vs, plot, bs.Orientation == barchart.Horizontal)...)
		}
	case ScatterKind:
		ss := xychart.ScatterSettings{
			Plot:         plot,
			XDomain:      domainresolver.ForRecords(all, record.XField, override(s.MinX, s.MaxX)),
			YDomain:      domainresolver.ForRecords(all, record.YField, override(s.MinY, s.MaxY)),
			KeyBy:        r.keyBy,
			Radius:       s.Radius,
			Colors:       palette,
			DefaultColor: r.theme.Primary,
			ShowLabels:   s.ShowLabels,
		}
		if s.MaxRadius > 0 {
			rd := domainresolver.Radius(domainresolver.Collect(all, record.RadiusField), s.MaxRadiusValue)
			ss.RadiusDomain = &rd
			ss.MinRadius = s.MinRadius
			ss.MaxRadius = s.MaxRadius
		}
		ret.shapes = xychart.Scatter(frame, ss)
		xs, ys := ss.Scales()
		ret.crossAxis = continuousaxis.ForLinear(xCategory, xs, maxTicks, r.format())
		ret.valueAxis = continuousaxis.ForLinear(yCategory, ys, maxTicks, r.format())
		ret.shapes = append(ret.shapes, r.overlays(xs, ys, plot, true)...)
		if len(colorDomain) > 0 {
			ret.legend = r.colorLegend(colorDomain, palette)
		}
	case LineKind:
		lineColors := r.palette(series.Labels)
		ls := xychart.LineSettings{
			Plot:         plot,
			YDomain:      domainresolver.ForRecords(all, record.YField, override(s.MinValue, s.MaxValue)),
			Colors:       lineColors,
			DefaultColor: r.theme.Primary,
			MarkerRadius: s.Radius,
			ShowLabels:   s.ShowLabels,
			Format:       r.format(),
		}
		ret.shapes = xychart.Line(series, ls)
		td := xychart.TimeDomain(series)
		xs := scale.NewLinear(td, plot.X, plot.Right())
		ys := scale.NewLinear(ls.YDomain, plot.Bottom(), plot.Y)
		ret.valueAxis = continuousaxis.ForLinear(valueCategory, ys, maxTicks, r.format())
		ret.timeAxis = continuousaxis.NewTimestampAxis(timeCategory,
			time.UnixMilli(int64(td.Min)), time.UnixMilli(int64(td.Max))).
			WithPixelRange(plot.X, plot.Right())
		for _, f := range series.Frames {
			if f.Parsed {
				ret.timeAxis.WithTick(f.Time, xs.Map(float64(f.Time.UnixMilli())), f.Date)
			}
		}
		ret.shapes = append(ret.shapes, r.overlays(xs, ys, plot, true)...)
		ret.legend = r.colorLegend(series.Labels, lineColors)
	case DumbbellKind:
		ds := dumbbellchart.Settings{
			Plot:           plot,
			Domain:         domainresolver.ForRecords(all, record.XsField, override(s.MinValue, s.MaxValue)),
			KeyBy:          r.keyBy,
			PaddingInner:   s.BarPadding,
			Radius:         s.Radius,
			SeriesColors:   r.seriesColors(),
			ConnectorColor: r.theme.Gray,
			Arrow:          s.Arrow,
			ShowLabels:     s.ShowLabels,
			ShowValues:     s.ShowValues,
			Format:         r.format(),
		}
		catStart, catEnd := plot.Y, plot.Bottom()
		valStart, valEnd := plot.X, plot.Right()
		if !r.horizontal(true) {
			ds.Orientation = dumbbellchart.Vertical
			catStart, catEnd = plot.X, plot.Right()
			valStart, valEnd = plot.Bottom(), plot.Y
		}
		ret.shapes = dumbbellchart.Dumbbell(frame, ds)
		ret.band = scale.NewBand(frameKeys(frame, r.keyBy), catStart, catEnd, ds.PaddingInner, 0)
		vs := scale.NewLinear(ds.Domain, valStart, valEnd)
		ret.valueAxis = continuousaxis.ForLinear(valueCategory, vs, maxTicks, r.format())
		ret.shapes = append(ret.shapes, r.valueOverlays(vs, plot, ds.Orientation == dumbbellchart.Horizontal)...)
		ret.legend = r.seriesLegend(maxLen(all, record.XsField))
	case DonutKind:
		radius := s.Radius
		if radius <= 0 {
			radius = min(plot.Width, plot.Height) / 2
		}
		ret.shapes = donutchart.Arcs(frame, donutchart.Settings{
			CenterX:      plot.X + plot.Width/2,
			CenterY:      plot.Y + plot.Height/2,
			Radius:       radius,
			StrokeWidth:  s.StrokeWidth,
			KeyBy:        r.keyBy,
			Colors:       palette,
			DefaultColor: r.theme.Primary,
			ShowLabels:   s.ShowLabels,
			Format:       r.format(),
		})
		if len(colorDomain) > 0 {
			ret.legend = r.colorLegend(colorDomain, palette)
		}
	case StripKind:
		ss := stripchart.Settings{
			Plot:         plot,
			Domain:       domainresolver.ForRecords(all, record.PositionField, override(s.MinValue, s.MaxValue)),
			KeyBy:        r.keyBy,
			Mark:         stripchart.DotMark,
			Radius:       s.Radius,
			Colors:       palette,
			DefaultColor: r.theme.Primary,
			Opacity:      0.8,
			ShowLabels:   s.ShowLabels,
		}
		if s.Mark == "strip" {
			ss.Mark = stripchart.StripMark
		}
		valStart, valEnd := plot.X, plot.Right()
		if !r.horizontal(true) {
			ss.Orientation = stripchart.Vertical
			valStart, valEnd = plot.Bottom(), plot.Y
		}
		ret.shapes = stripchart.Strip(frame, ss)
		vs := scale.NewLinear(ss.Domain, valStart, valEnd)
		ret.valueAxis = continuousaxis.ForLinear(valueCategory, vs, maxTicks, r.format())
		ret.shapes = append(ret.shapes, r.valueOverlays(vs, plot, ss.Orientation == stripchart.Horizontal)...)
		if len(colorDomain) > 0 {
			ret.legend = r.colorLegend(colorDomain, palette)
		}
	case ChoroplethKind, BivariateKind, DotDensityKind:
		if in.Features == nil && s.Kind != DotDensityKind {
			return nil, fmt.Errorf("%s charts require map features", s.Kind)
		}
		ms := mapchart.Settings{
			Plot:         plot,
			MapProperty:  s.MapProperty,
			KeyBy:        r.keyBy,
			NoDataColor:  r.theme.NoData,
			MapColor:     r.theme.NoData,
			BorderColor:  r.theme.Background,
			Radius:       s.Radius,
			Colors:       palette,
			DefaultColor: r.theme.Primary,
			ShowLabels:   s.ShowLabels,
		}
		switch s.Kind {
		case ChoroplethKind:
			if s.Buckets == 0 && len(s.Thresholds) == 0 && len(colorDomain) > 0 {
				ms.Categorical = palette
				ret.legend = r.colorLegend(colorDomain, palette)
			} else {
				ret.legend = r.thresholdScale(&ms, all)
			}
			ret.shapes = mapchart.Choropleth(in.Features, frame, ms)
		case BivariateKind:
			ret.legend = r.bivariateScale(&ms, all)
			ret.shapes = mapchart.Bivariate(in.Features, frame, ms)
		case DotDensityKind:
			if s.MaxRadius > 0 {
				rd := domainresolver.Radius(domainresolver.Collect(all, record.RadiusField), s.MaxRadiusValue)
				ms.RadiusScale = scale.NewSqrt(rd, s.MinRadius, s.MaxRadius)
			}
			ret.shapes = mapchart.DotDensity(in.Features, frame, ms)
			if len(colorDomain) > 0 {
				ret.legend = r.colorLegend(colorDomain, palette)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported chart kind '%s'", s.Kind)
	}
	return ret, nil
}

// thresholdScale sets the choropleth threshold scale of ms, returning its
// legend.
func (r *Renderer) thresholdScale(ms *mapchart.Settings, all []record.Record) []category.Entry {
	thresholds := r.spec.Thresholds
	if len(thresholds) == 0 {
		buckets := r.spec.Buckets
		if buckets == 0 {
			buckets = defaultBuckets
		}
		thresholds = domainresolver.Thresholds(domainresolver.Collect(all, record.XField),
			override(r.spec.MinValue, r.spec.MaxValue), buckets)
	}
	colors := r.theme.Buckets(len(thresholds) + 1)
	ms.Thresholds = scale.NewThreshold(thresholds, colors)
	f := r.format()
	ret := make([]category.Entry, len(colors))
	for idx, c := range colors {
		var name string
		switch {
		case len(thresholds) == 0:
			name = "All"
		case idx == 0:
			name = "< " + f(thresholds[0])
		case idx == len(thresholds):
			name = ">= " + f(thresholds[idx-1])
		default:
			name = f(thresholds[idx-1]) + " - " + f(thresholds[idx])
		}
		ret[idx] = category.Entry{Category: category.New(strconv.Itoa(idx), name, ""), Color: c}
	}
	return ret
}

// bivariateScale sets the bivariate scale of ms, returning its legend.
func (r *Renderer) bivariateScale(ms *mapchart.Settings, all []record.Record) []category.Entry {
	matrix := r.theme.Bivariate
	if len(matrix) == 0 {
		return nil
	}
	xt, yt := r.spec.XThresholds, r.spec.YThresholds
	if len(xt) == 0 {
		xt = domainresolver.Thresholds(domainresolver.Collect(all, record.XField),
			override(r.spec.MinX, r.spec.MaxX), len(matrix[0]))
	}
	if len(yt) == 0 {
		yt = domainresolver.Thresholds(domainresolver.Collect(all, record.YField),
			override(r.spec.MinY, r.spec.MaxY), len(matrix))
	}
	ms.Bivariate = scale.NewBivariate(xt, yt, matrix)
	var ret []category.Entry
	for row, cols := range matrix {
		for col, c := range cols {
			id := strconv.Itoa(row) + "-" + strconv.Itoa(col)
			ret = append(ret, category.Entry{Category: category.New(id, id, ""), Color: c})
		}
	}
	return ret
}

// overlays returns the reference markers, highlight areas and (if
// annotated) annotations of a chart with x and y scales.
func (r *Renderer) overlays(xs, ys geometry.Mapper, plot geometry.Rect, annotated bool) []geometry.Shape {
	o := r.spec.Overlays
	var ret []geometry.Shape
	for idx, h := range o.HighlightX {
		ret = append(ret, h.Shapes("highlight-x-"+strconv.Itoa(idx), xs, geometry.XAxis, plot)...)
	}
	for idx, h := range o.HighlightY {
		ret = append(ret, h.Shapes("highlight-y-"+strconv.Itoa(idx), ys, geometry.YAxis, plot)...)
	}
	for idx, m := range o.ReferenceX {
		ret = append(ret, m.Shapes("ref-x-"+strconv.Itoa(idx), xs, geometry.XAxis, plot)...)
	}
	for idx, m := range o.ReferenceY {
		ret = append(ret, m.Shapes("ref-y-"+strconv.Itoa(idx), ys, geometry.YAxis, plot)...)
	}
	if annotated {
		for idx, a := range o.Annotations {
			ret = append(ret, a.Shapes("annotation-"+strconv.Itoa(idx), xs, ys)...)
		}
	}
	return ret
}

// valueOverlays returns the overlays along a single value axis, which runs
// along x if horizontal.
func (r *Renderer) valueOverlays(vs geometry.Mapper, plot geometry.Rect, horizontal bool) []geometry.Shape {
	o := r.spec.Overlays
	refs, highlights, axis := o.ReferenceY, o.HighlightY, geometry.YAxis
	if horizontal {
		refs, highlights, axis = o.ReferenceX, o.HighlightX, geometry.XAxis
	}
	var ret []geometry.Shape
	for idx, h := range highlights {
		ret = append(ret, h.Shapes("highlight-"+strconv.Itoa(idx), vs, axis, plot)...)
	}
	for idx, m := range refs {
		ret = append(ret, m.Shapes("ref-"+strconv.Itoa(idx), vs, axis, plot)...)
	}
	return ret
}

// applyState dims shapes outside the selected legend color and outlines
// hovered and pinned marks.
func (r *Renderer) applyState(shapes []geometry.Shape, state interaction.State) {
	for idx := range shapes {
		s := &shapes[idx]
		if s.Role != geometry.MarkRole && s.Role != geometry.ValueLabelRole && s.Role != geometry.LabelRole {
			continue
		}
		if s.ColorKey != "" || state.SelectedColor != "" {
			s.Opacity = state.Opacity(s.ColorKey, s.Opacity, r.theme.DimOpacity)
		}
		if s.Role == geometry.MarkRole && s.Datum != nil && s.Opacity > 0 &&
			(state.IsHovered(*s.Datum, r.keyBy) || state.IsPinned(*s.Datum, r.keyBy)) {
			s.Stroke = r.theme.Highlight
			s.StrokeWidth = highlightStrokeWidth
		}
	}
}

// frame returns the series of in and its frame at idx.  It returns a nil
// frame, and no error, for an empty series.
func (r *Renderer) frame(in Input, idx int) (*frameindexer.Series, *frameindexer.Frame, error) {
	series, err := r.Frames(in.Records)
	if err != nil {
		return nil, nil, err
	}
	f, ok := series.At(series.Clamp(idx))
	if !ok {
		return series, nil, nil
	}
	return series, f, nil
}

// Shapes returns the shapes of the frame at idx of in, clamped to the
// series' frames, under the provided interaction state.  An empty series
// yields no shapes.
func (r *Renderer) Shapes(in Input, idx int, state interaction.State) ([]geometry.Shape, error) {
	l, _, err := r.layout(in, idx, state)
	if err != nil {
		return nil, err
	}
	return l.shapes, nil
}

func (r *Renderer) layout(in Input, idx int, state interaction.State) (*layout, *frameindexer.Series, error) {
	series, f, err := r.frame(in, idx)
	if err != nil {
		return nil, nil, err
	}
	if f == nil {
		glog.V(2).Infof("chart %s: empty series, rendering nothing", r.spec.Kind)
		return &layout{shapes: []geometry.Shape{}}, series, nil
	}
	l, err := r.mapFrame(in, series, f)
	if err != nil {
		return nil, nil, err
	}
	r.applyState(l.shapes, state)
	glog.V(2).Infof("chart %s: frame %d/%d mapped to %d shapes", r.spec.Kind, series.Clamp(idx), series.Len(), len(l.shapes))
	return l, series, nil
}

// Transition returns the animation from frame `from` to frame `to` of in.
func (r *Renderer) Transition(in Input, from, to int) (animation.Transition, error) {
	a, err := r.Shapes(in, from, interaction.State{})
	if err != nil {
		return animation.Transition{}, err
	}
	b, err := r.Shapes(in, to, interaction.State{})
	if err != nil {
		return animation.Transition{}, err
	}
	return animation.Plan(a, b, r.Duration()), nil
}

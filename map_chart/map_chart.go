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

// Package mapchart maps frames of geo-tagged Records onto GeoJSON features.
//
// Choropleth and Bivariate charts color each feature by the Record whose
// CountryCode matches the feature's MapProperty; features with no matching
// Record, or whose Record has absent values, get the no-data color.
// DotDensity charts draw the features as a base map and place one circle
// per Record at its (Long, Lat).
package mapchart

import (
	"fmt"
	"strconv"

	frameindexer "github.com/UNDP-Data/undp-visualization-library-sub001/frame_indexer"
	"github.com/UNDP-Data/undp-visualization-library-sub001/geometry"
	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
	"github.com/UNDP-Data/undp-visualization-library-sub001/scale"
	"github.com/golang/glog"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// DefaultMapProperty is the feature property matched against Record
// country codes when none is configured.
const DefaultMapProperty = "ISO3"

// Settings is a collection of rendering settings shared by the map
// families.
type Settings struct {
	Plot geometry.Rect
	// If nil, FitEquirectangular over the features' bound is used.
	Projection  Projection
	MapProperty string
	KeyBy       frameindexer.KeyBy
	NoDataColor string
	// The fill of base-map features in dot density charts.
	MapColor    string
	BorderColor string
	// Thresholds colors choropleth values.  If Categorical is set instead,
	// features are colored by their Record's color key.
	Thresholds  *scale.Threshold
	Categorical geometry.Colorer
	Bivariate   *scale.Bivariate
	// Dot density radius settings: a fixed Radius, or, if RadiusScale is
	// set, sqrt-scaled Radius values.
	Radius       float64
	RadiusScale  *scale.Sqrt
	Colors       geometry.Colorer
	DefaultColor string
	ShowLabels   bool
}

func (s *Settings) mapProperty() string {
	if s.MapProperty == "" {
		return DefaultMapProperty
	}
	return s.MapProperty
}

func (s *Settings) projection(fc *geojson.FeatureCollection) Projection {
	if s.Projection != nil {
		return s.Projection
	}
	return FitEquirectangular(Bound(fc), s.Plot)
}

// Bound returns the union of the bounds of all features in fc.
func Bound(fc *geojson.FeatureCollection) orb.Bound {
	var ret orb.Bound
	first := true
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		b := f.Geometry.Bound()
		if first {
			ret, first = b, false
			continue
		}
		ret = ret.Union(b)
	}
	return ret
}

// FeatureKey returns the value of the provided property of f, as a string.
func FeatureKey(f *geojson.Feature, property string) string {
	v, ok := f.Properties[property]
	if !ok || v == nil {
		return ""
	}
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func index(frame *frameindexer.Frame) map[string]*frameindexer.Datum {
	ret := map[string]*frameindexer.Datum{}
	if frame == nil {
		return ret
	}
	for idx := range frame.Data {
		d := &frame.Data[idx]
		if d.CountryCode == "" {
			continue
		}
		if _, ok := ret[d.CountryCode]; ok {
			glog.Warningf("multiple records for country code '%s' in frame '%s'; using the first", d.CountryCode, frame.Date)
			continue
		}
		ret[d.CountryCode] = d
	}
	return ret
}

// regions returns one feature shape per feature in fc, each colored by fill
// given the feature's matching Datum (or nil).
func (s *Settings) regions(fc *geojson.FeatureCollection, frame *frameindexer.Frame, fill func(d *frameindexer.Datum) (color, colorKey string)) []geometry.Shape {
	if fc == nil {
		return []geometry.Shape{}
	}
	proj := s.projection(fc)
	byCode := index(frame)
	ret := make([]geometry.Shape, 0, len(fc.Features))
	for idx, f := range fc.Features {
		code := FeatureKey(f, s.mapProperty())
		key := code
		if key == "" {
			key = "#" + strconv.Itoa(idx)
		}
		d := byCode[code]
		color, colorKey := fill(d)
		cx, cy := Centroid(f.Geometry, proj)
		ret = append(ret, geometry.Sanitize(geometry.Shape{
			Kind:        geometry.PathKind,
			Role:        geometry.MarkRole,
			Key:         "region-" + key,
			X:           cx,
			Y:           cy,
			D:           Path(f.Geometry, proj),
			Fill:        color,
			Stroke:      s.BorderColor,
			StrokeWidth: 0.5,
			ColorKey:    colorKey,
			Opacity:     1,
			Datum:       d,
		}))
	}
	return ret
}

// Choropleth returns one region per feature, colored by its Record's X
// value through Thresholds, or by its color key through Categorical.
func Choropleth(fc *geojson.FeatureCollection, frame *frameindexer.Frame, s Settings) []geometry.Shape {
	return s.regions(fc, frame, func(d *frameindexer.Datum) (string, string) {
		if d == nil {
			return s.NoDataColor, ""
		}
		if s.Categorical != nil {
			if d.Color == "" {
				return s.NoDataColor, ""
			}
			return s.Categorical.Map(d.Color), d.Color
		}
		if s.Thresholds == nil || !d.X.Finite() {
			return s.NoDataColor, ""
		}
		v, _ := d.X.Get()
		return s.Thresholds.MapNumber(d.X, s.NoDataColor), strconv.Itoa(s.Thresholds.Index(v))
	})
}

// Bivariate returns one region per feature, colored by its Record's X and
// Y values through the Bivariate scale.
func Bivariate(fc *geojson.FeatureCollection, frame *frameindexer.Frame, s Settings) []geometry.Shape {
	return s.regions(fc, frame, func(d *frameindexer.Datum) (string, string) {
		if d == nil || s.Bivariate == nil {
			return s.NoDataColor, ""
		}
		row, col, ok := s.Bivariate.Cell(d.X, d.Y)
		if !ok {
			return s.NoDataColor, ""
		}
		return s.Bivariate.Map(d.X, d.Y, s.NoDataColor), strconv.Itoa(row) + "-" + strconv.Itoa(col)
	})
}

// DotDensity returns the features as an unshaded base map, followed by one
// circle per Datum at its projected (Long, Lat).  Datums with an absent
// coordinate are hidden.
func DotDensity(fc *geojson.FeatureCollection, frame *frameindexer.Frame, s Settings) []geometry.Shape {
	base := s.regions(fc, nil, func(*frameindexer.Datum) (string, string) {
		return s.MapColor, ""
	})
	if frame == nil {
		return base
	}
	proj := s.Projection
	if proj == nil {
		if fc != nil {
			proj = s.projection(fc)
		} else {
			proj = FitEquirectangular(orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}, s.Plot)
		}
	}
	radius := s.Radius
	if radius <= 0 {
		radius = 5
	}
	ret := base
	for idx := range frame.Data {
		d := &frame.Data[idx]
		key := d.Key(s.KeyBy)
		lon, lonOK := d.Long.Get()
		lat, latOK := d.Lat.Get()
		visible := lonOK && latOK
		var x, y float64
		if visible {
			x, y = proj(lon, lat)
			visible = geometry.Finite(x, y)
		}
		r := radius
		if s.RadiusScale != nil {
			var ok bool
			r, ok = s.RadiusScale.MapNumber(d.Radius)
			visible = visible && ok
		}
		if !visible {
			r = 0
		}
		ret = append(ret, geometry.Sanitize(geometry.Shape{
			Kind:     geometry.CircleKind,
			Role:     geometry.MarkRole,
			Key:      "dot-" + key,
			X:        x,
			Y:        y,
			R:        r,
			Fill:     geometry.Fill(s.Colors, d.Color, s.DefaultColor),
			ColorKey: d.Color,
			Opacity:  geometry.Visible(visible),
			Datum:    d,
		}))
		if s.ShowLabels {
			ret = append(ret, geometry.Sanitize(geometry.Shape{
				Kind:    geometry.TextKind,
				Role:    geometry.LabelRole,
				Key:     "label-" + key,
				X:       x + r + 2,
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

// Values returns the values colored by a choropleth: each Datum's X.
func Values(frame *frameindexer.Frame) []nullguard.Number {
	if frame == nil {
		return nil
	}
	ret := make([]nullguard.Number, len(frame.Data))
	for idx, d := range frame.Data {
		ret[idx] = d.X
	}
	return ret
}

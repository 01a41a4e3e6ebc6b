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

package mapchart

import (
	"math"
	"testing"

	domainresolver "github.com/UNDP-Data/undp-visualization-library-sub001/domain_resolver"
	frameindexer "github.com/UNDP-Data/undp-visualization-library-sub001/frame_indexer"
	"github.com/UNDP-Data/undp-visualization-library-sub001/geometry"
	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
	"github.com/UNDP-Data/undp-visualization-library-sub001/record"
	"github.com/UNDP-Data/undp-visualization-library-sub001/scale"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const squares = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"ISO3": "AAA"},
     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[10,0],[10,10],[0,10],[0,0]]]}},
    {"type": "Feature", "properties": {"ISO3": "BBB", "code": 7},
     "geometry": {"type": "Polygon", "coordinates": [[[10,0],[20,0],[20,10],[10,10],[10,0]]]}}
  ]
}`

func features(t *testing.T) *geojson.FeatureCollection {
	t.Helper()
	fc, err := geojson.UnmarshalFeatureCollection([]byte(squares))
	if err != nil {
		t.Fatalf("failed to parse features: %s", err)
	}
	return fc
}

type summary struct {
	Key, D, Fill, ColorKey string
	HasDatum               bool
}

func summarize(shapes []geometry.Shape) []summary {
	ret := []summary{}
	for _, s := range shapes {
		ret = append(ret, summary{s.Key, s.D, s.Fill, s.ColorKey, s.Datum != nil})
	}
	return ret
}

func TestChoropleth(t *testing.T) {
	fc := features(t)
	frame := &frameindexer.Frame{Data: []frameindexer.Datum{
		{Record: record.Record{Label: "A", CountryCode: "AAA", X: nullguard.Of(5), Color: "north"}},
		{Record: record.Record{Label: "C", CountryCode: "CCC", X: nullguard.Of(1)}},
	}}
	base := Settings{
		Projection:  Equirectangular(1, 0, 0),
		NoDataColor: "none",
	}
	for _, test := range []struct {
		description string
		settings    func() Settings
		want        []summary
	}{{
		description: "threshold colors",
		settings: func() Settings {
			s := base
			s.Thresholds = scale.NewThreshold([]float64{3}, []string{"light", "dark"})
			return s
		},
		want: []summary{
			{"region-AAA", "M0,0L10,0L10,-10L0,-10L0,0Z", "dark", "1", true},
			{"region-BBB", "M10,0L20,0L20,-10L10,-10L10,0Z", "none", "", false},
		},
	}, {
		description: "categorical colors",
		settings: func() Settings {
			s := base
			s.Categorical = scale.NewOrdinal([]string{"north"}, []string{"blue"}, "gray")
			return s
		},
		want: []summary{
			{"region-AAA", "M0,0L10,0L10,-10L0,-10L0,0Z", "blue", "north", true},
			{"region-BBB", "M10,0L20,0L20,-10L10,-10L10,0Z", "none", "", false},
		},
	}, {
		description: "custom map property",
		settings: func() Settings {
			s := base
			s.MapProperty = "code"
			s.Thresholds = scale.NewThreshold([]float64{3}, []string{"light", "dark"})
			return s
		},
		want: []summary{
			{"region-#0", "M0,0L10,0L10,-10L0,-10L0,0Z", "none", "", false},
			{"region-7", "M10,0L20,0L20,-10L10,-10L10,0Z", "none", "", false},
		},
	}} {
		t.Run(test.description, func(t *testing.T) {
			got := summarize(Choropleth(fc, frame, test.settings()))
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Choropleth() diff (-want +got):\n%s", diff)
			}
		})
	}
	if got := Choropleth(nil, frame, base); len(got) != 0 {
		t.Errorf("Choropleth(nil features) = %v, wanted no shapes", got)
	}
}

func TestBivariate(t *testing.T) {
	fc := features(t)
	frame := &frameindexer.Frame{Data: []frameindexer.Datum{
		{Record: record.Record{Label: "A", CountryCode: "AAA", X: nullguard.Of(5), Y: nullguard.Of(1)}},
		{Record: record.Record{Label: "B", CountryCode: "BBB", X: nullguard.Of(5)}},
	}}
	s := Settings{
		Projection:  Equirectangular(1, 0, 0),
		NoDataColor: "none",
		Bivariate: scale.NewBivariate([]float64{3}, []float64{3}, [][]string{
			{"lowY-lowX", "lowY-highX"},
			{"highY-lowX", "highY-highX"},
		}),
	}
	var fills, keys []string
	for _, shape := range Bivariate(fc, frame, s) {
		fills = append(fills, shape.Fill)
		keys = append(keys, shape.ColorKey)
	}
	if diff := cmp.Diff([]string{"lowY-highX", "none"}, fills); diff != "" {
		t.Errorf("fills diff (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"0-1", ""}, keys); diff != "" {
		t.Errorf("color keys diff (-want +got):\n%s", diff)
	}
}

func TestDotDensity(t *testing.T) {
	fc := features(t)
	frame := &frameindexer.Frame{Data: []frameindexer.Datum{
		{Record: record.Record{Label: "P", Long: nullguard.Of(5), Lat: nullguard.Of(5), Radius: nullguard.Of(100)}, ID: "0"},
		{Record: record.Record{Label: "Q", Long: nullguard.Of(5)}, ID: "1"},
	}}
	s := Settings{
		Projection:   Equirectangular(2, 0, 100),
		MapColor:     "beige",
		DefaultColor: "black",
		RadiusScale:  scale.NewSqrt(domainresolver.Extent{Min: 0, Max: 100}, 0, 8),
	}
	got := DotDensity(fc, frame, s)
	if len(got) != 4 {
		t.Fatalf("DotDensity() returned %d shapes, wanted 2 regions and 2 dots", len(got))
	}
	if got[0].Fill != "beige" || got[0].Datum != nil {
		t.Errorf("base map region = %+v, wanted an unbound beige region", got[0])
	}
	want := []geometry.Shape{{
		Kind: geometry.CircleKind, Role: geometry.MarkRole, Key: "dot-P",
		X: 10, Y: 90, R: 8, Fill: "black", Opacity: 1,
	}, {
		Kind: geometry.CircleKind, Role: geometry.MarkRole, Key: "dot-Q",
		Fill: "black", Opacity: 0,
	}}
	if diff := cmp.Diff(want, got[2:], cmpopts.IgnoreFields(geometry.Shape{}, "Datum")); diff != "" {
		t.Errorf("DotDensity() dots diff (-want +got):\n%s", diff)
	}
}

func TestFitEquirectangular(t *testing.T) {
	plot := geometry.Rect{X: 0, Y: 0, Width: 200, Height: 100}
	p := FitEquirectangular(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{20, 10}}, plot)
	corners := [][2]float64{}
	for _, pt := range [][2]float64{{0, 10}, {20, 0}, {10, 5}} {
		x, y := p(pt[0], pt[1])
		corners = append(corners, [2]float64{x, y})
	}
	want := [][2]float64{{0, 0}, {200, 100}, {100, 50}}
	if diff := cmp.Diff(want, corners, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("projected corners diff (-want +got):\n%s", diff)
	}
	// A degenerate bound projects to the plot's center.
	x, y := FitEquirectangular(orb.Bound{}, plot)(0, 0)
	if x != 100 || y != 50 {
		t.Errorf("degenerate projection = (%v, %v), wanted (100, 50)", x, y)
	}
}

func TestMercator(t *testing.T) {
	p := Mercator(100, 0, 0)
	if x, y := p(0, 0); x != 0 || math.Abs(y) > 1e-9 {
		t.Errorf("Mercator(0, 0) = (%v, %v), wanted origin", x, y)
	}
	if _, y := p(0, 90); !geometry.Finite(y) {
		t.Errorf("Mercator(0, 90) y = %v, wanted a finite clamp", y)
	}
}

func TestValues(t *testing.T) {
	frame := &frameindexer.Frame{Data: []frameindexer.Datum{
		{Record: record.Record{X: nullguard.Of(2)}},
		{},
	}}
	if diff := cmp.Diff("[2 absent]", fmtNumbers(Values(frame))); diff != "" {
		t.Errorf("Values() diff (-want +got):\n%s", diff)
	}
}

func fmtNumbers(ns []nullguard.Number) string {
	ret := "["
	for idx, n := range ns {
		if idx > 0 {
			ret += " "
		}
		ret += n.String()
	}
	return ret + "]"
}

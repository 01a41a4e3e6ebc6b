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

package xychart

import (
	"testing"

	domainresolver "github.com/UNDP-Data/undp-visualization-library-sub001/domain_resolver"
	frameindexer "github.com/UNDP-Data/undp-visualization-library-sub001/frame_indexer"
	"github.com/UNDP-Data/undp-visualization-library-sub001/geometry"
	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
	"github.com/UNDP-Data/undp-visualization-library-sub001/record"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var (
	ignoreDatum = cmpopts.IgnoreFields(geometry.Shape{}, "Datum")
	plot        = geometry.Rect{X: 0, Y: 0, Width: 100, Height: 100}
	unit        = domainresolver.Extent{Min: 0, Max: 10}
)

func TestScatter(t *testing.T) {
	f := &frameindexer.Frame{Data: []frameindexer.Datum{
		{Record: record.Record{Label: "A", X: nullguard.Of(5), Y: nullguard.Of(5), Radius: nullguard.Of(25), Color: "c"}, ID: "0"},
		{Record: record.Record{Label: "B", Y: nullguard.Of(5)}, ID: "1"},
	}}
	for _, test := range []struct {
		description string
		settings    ScatterSettings
		want        []geometry.Shape
	}{{
		description: "fixed radius",
		settings:    ScatterSettings{Plot: plot, XDomain: unit, YDomain: unit, DefaultColor: "gray"},
		want: []geometry.Shape{{
			Kind: geometry.CircleKind, Role: geometry.MarkRole, Key: "point-A",
			X: 50, Y: 50, R: 5, Fill: "gray", ColorKey: "c", Opacity: 1,
		}, {
			Kind: geometry.CircleKind, Role: geometry.MarkRole, Key: "point-B",
			X: 0, Y: 100, R: 0, Fill: "gray", Opacity: 0,
		}},
	}, {
		description: "sqrt radius keyed by ID",
		settings: ScatterSettings{
			Plot: plot, XDomain: unit, YDomain: unit, DefaultColor: "gray",
			KeyBy:        frameindexer.ByID,
			RadiusDomain: &domainresolver.Extent{Min: 0, Max: 100},
			MaxRadius:    10,
		},
		want: []geometry.Shape{{
			Kind: geometry.CircleKind, Role: geometry.MarkRole, Key: "point-0",
			X: 50, Y: 50, R: 5, Fill: "gray", ColorKey: "c", Opacity: 1,
		}, {
			Kind: geometry.CircleKind, Role: geometry.MarkRole, Key: "point-1",
			X: 0, Y: 100, R: 0, Fill: "gray", Opacity: 0,
		}},
	}} {
		t.Run(test.description, func(t *testing.T) {
			got := Scatter(f, test.settings)
			if diff := cmp.Diff(test.want, got, ignoreDatum, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Errorf("Scatter() diff (-want +got):\n%s", diff)
			}
		})
	}
	if got := Scatter(nil, ScatterSettings{}); len(got) != 0 {
		t.Errorf("Scatter(nil) = %v, wanted no shapes", got)
	}
}

func TestScatterMinRadius(t *testing.T) {
	f := &frameindexer.Frame{Data: []frameindexer.Datum{
		{Record: record.Record{Label: "small", X: nullguard.Of(0), Y: nullguard.Of(0), Radius: nullguard.Of(0)}},
		{Record: record.Record{Label: "mid", X: nullguard.Of(5), Y: nullguard.Of(5), Radius: nullguard.Of(25)}},
		{Record: record.Record{Label: "big", X: nullguard.Of(10), Y: nullguard.Of(10), Radius: nullguard.Of(100)}},
	}}
	for _, test := range []struct {
		description string
		minRadius   float64
		wantRadii   map[string]float64
	}{{
		description: "zero values get the minimum radius",
		minRadius:   3,
		wantRadii:   map[string]float64{"point-small": 3, "point-mid": 8, "point-big": 13},
	}, {
		description: "no minimum radius",
		wantRadii:   map[string]float64{"point-small": 0, "point-mid": 6.5, "point-big": 13},
	}, {
		description: "minimum radius clamped to the maximum",
		minRadius:   20,
		wantRadii:   map[string]float64{"point-small": 13, "point-mid": 13, "point-big": 13},
	}} {
		t.Run(test.description, func(t *testing.T) {
			got := map[string]float64{}
			for _, shape := range Scatter(f, ScatterSettings{
				Plot: plot, XDomain: unit, YDomain: unit,
				RadiusDomain: &domainresolver.Extent{Min: 0, Max: 100},
				MinRadius:    test.minRadius,
				MaxRadius:    13,
			}) {
				if shape.Opacity != 1 {
					t.Errorf("shape %s has opacity %v, want 1", shape.Key, shape.Opacity)
				}
				got[shape.Key] = shape.R
			}
			if diff := cmp.Diff(test.wantRadii, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Errorf("Scatter() radii diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLine(t *testing.T) {
	series := frameindexer.Build([]record.Record{
		{Label: "A", Date: "2020", Y: nullguard.Of(0)},
		{Label: "A", Date: "2021", Y: nullguard.Of(10)},
		{Label: "B", Date: "2021", Y: nullguard.Of(5)},
	}, frameindexer.Options{})
	got := Line(series, LineSettings{Plot: plot, YDomain: unit, DefaultColor: "black", ShowLabels: true})
	want := []geometry.Shape{{
		Kind: geometry.PathKind, Role: geometry.ConnectorRole, Key: "line-A",
		D: "M0,100L100,0", Stroke: "black", StrokeWidth: 2, ColorKey: "A", Opacity: 1,
	}, {
		Kind: geometry.TextKind, Role: geometry.LabelRole, Key: "label-A",
		X: 104, Y: 0, Text: "A: 10", Anchor: "start", Fill: "black", Opacity: 1,
	}, {
		Kind: geometry.PathKind, Role: geometry.ConnectorRole, Key: "line-B",
		D: "M100,50", Stroke: "black", StrokeWidth: 2, ColorKey: "B", Opacity: 1,
	}, {
		Kind: geometry.TextKind, Role: geometry.LabelRole, Key: "label-B",
		X: 104, Y: 50, Text: "B: 5", Anchor: "start", Fill: "black", Opacity: 1,
	}}
	if diff := cmp.Diff(want, got, ignoreDatum); diff != "" {
		t.Errorf("Line() diff (-want +got):\n%s", diff)
	}
}

func TestLineMarkersAndGaps(t *testing.T) {
	series := frameindexer.Build([]record.Record{
		{Label: "A", Date: "2020", Y: nullguard.Of(0)},
		{Label: "A", Date: "2021"},
		{Label: "A", Date: "2022", Y: nullguard.Of(10)},
	}, frameindexer.Options{})
	got := Line(series, LineSettings{Plot: plot, YDomain: unit, MarkerRadius: 3})
	if len(got) != 4 {
		t.Fatalf("Line() returned %d shapes, wanted a path and 3 markers", len(got))
	}
	if got[0].D == "" || got[0].D[0] != 'M' {
		t.Errorf("Line() path = %q, wanted a move-to", got[0].D)
	}
	var opacities []float64
	for _, marker := range got[1:] {
		opacities = append(opacities, marker.Opacity)
	}
	if diff := cmp.Diff([]float64{1, 0, 1}, opacities); diff != "" {
		t.Errorf("marker opacities diff (-want +got):\n%s", diff)
	}
	if got := Line(frameindexer.Build(nil, frameindexer.Options{}), LineSettings{}); len(got) != 0 {
		t.Errorf("Line() of an empty series = %v, wanted no shapes", got)
	}
}

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

package dumbbellchart

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

var ignoreDatum = cmpopts.IgnoreFields(geometry.Shape{}, "Datum")

func settings() Settings {
	return Settings{
		Plot:           geometry.Rect{Width: 100, Height: 100},
		Domain:         domainresolver.Extent{Min: 0, Max: 10},
		SeriesColors:   []string{"red", "blue"},
		ConnectorColor: "gray",
	}
}

func TestDumbbell(t *testing.T) {
	one := &frameindexer.Frame{Data: []frameindexer.Datum{
		{Record: record.Record{Label: "A", Xs: nullguard.Numbers(8, 2)}, ID: "0"},
	}}
	for _, test := range []struct {
		description string
		settings    func() Settings
		want        []geometry.Shape
	}{{
		description: "horizontal connector spans the extremes",
		settings:    settings,
		want: []geometry.Shape{{
			Kind: geometry.LineKind, Role: geometry.ConnectorRole, Key: "connector-A",
			X: 20, Y: 50, X2: 80, Y2: 50, Stroke: "gray", StrokeWidth: 1, Opacity: 1,
		}, {
			Kind: geometry.CircleKind, Role: geometry.MarkRole, Key: "dot-A-0",
			X: 80, Y: 50, R: 5, Fill: "red", ColorKey: "0", Opacity: 1,
		}, {
			Kind: geometry.CircleKind, Role: geometry.MarkRole, Key: "dot-A-1",
			X: 20, Y: 50, R: 5, Fill: "blue", ColorKey: "1", Opacity: 1,
		}},
	}, {
		description: "arrow runs first to last and stops short",
		settings: func() Settings {
			s := settings()
			s.Arrow = true
			return s
		},
		want: []geometry.Shape{{
			Kind: geometry.LineKind, Role: geometry.ConnectorRole, Key: "connector-A",
			X: 80, Y: 50, X2: 25, Y2: 50, Stroke: "gray", StrokeWidth: 1, Opacity: 1, Marker: ArrowMarker,
		}, {
			Kind: geometry.CircleKind, Role: geometry.MarkRole, Key: "dot-A-0",
			X: 80, Y: 50, R: 5, Fill: "red", ColorKey: "0", Opacity: 1,
		}, {
			Kind: geometry.CircleKind, Role: geometry.MarkRole, Key: "dot-A-1",
			X: 20, Y: 50, R: 5, Fill: "blue", ColorKey: "1", Opacity: 1,
		}},
	}, {
		description: "vertical orientation",
		settings: func() Settings {
			s := settings()
			s.Orientation = Vertical
			return s
		},
		want: []geometry.Shape{{
			Kind: geometry.LineKind, Role: geometry.ConnectorRole, Key: "connector-A",
			X: 50, Y: 20, X2: 50, Y2: 80, Stroke: "gray", StrokeWidth: 1, Opacity: 1,
		}, {
			Kind: geometry.CircleKind, Role: geometry.MarkRole, Key: "dot-A-0",
			X: 50, Y: 20, R: 5, Fill: "red", ColorKey: "0", Opacity: 1,
		}, {
			Kind: geometry.CircleKind, Role: geometry.MarkRole, Key: "dot-A-1",
			X: 50, Y: 80, R: 5, Fill: "blue", ColorKey: "1", Opacity: 1,
		}},
	}} {
		t.Run(test.description, func(t *testing.T) {
			got := Dumbbell(one, test.settings())
			if diff := cmp.Diff(test.want, got, ignoreDatum); diff != "" {
				t.Errorf("Dumbbell() diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDumbbellAbsent(t *testing.T) {
	f := &frameindexer.Frame{Data: []frameindexer.Datum{
		{Record: record.Record{Label: "B", Xs: []nullguard.Number{nullguard.Absent, nullguard.Of(4)}}, ID: "0"},
	}}
	got := Dumbbell(f, settings())
	var opacities []float64
	for _, shape := range got {
		opacities = append(opacities, shape.Opacity)
		if !geometry.Finite(shape.X, shape.Y, shape.X2, shape.Y2) {
			t.Errorf("shape %s has non-finite coordinates", shape.Key)
		}
	}
	if diff := cmp.Diff([]float64{0, 0, 1}, opacities); diff != "" {
		t.Errorf("opacities diff (-want +got):\n%s", diff)
	}
	if got := Dumbbell(&frameindexer.Frame{}, settings()); len(got) != 0 {
		t.Errorf("Dumbbell() of an empty frame = %v, wanted no shapes", got)
	}
}

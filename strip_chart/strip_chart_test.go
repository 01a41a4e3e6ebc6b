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

package stripchart

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

func TestStrip(t *testing.T) {
	f := &frameindexer.Frame{Data: []frameindexer.Datum{
		{Record: record.Record{Label: "A", Position: nullguard.Of(25)}, ID: "0"},
		{Record: record.Record{Label: "B"}, ID: "1"},
	}}
	base := Settings{
		Plot:         geometry.Rect{Width: 100, Height: 20},
		Domain:       domainresolver.Extent{Min: 0, Max: 100},
		DefaultColor: "black",
		Opacity:      0.5,
	}
	for _, test := range []struct {
		description string
		settings    func() Settings
		want        []geometry.Shape
	}{{
		description: "horizontal dots",
		settings:    func() Settings { return base },
		want: []geometry.Shape{{
			Kind: geometry.CircleKind, Role: geometry.MarkRole, Key: "mark-A",
			X: 25, Y: 10, R: 5, Fill: "black", Opacity: 0.5,
		}, {
			Kind: geometry.CircleKind, Role: geometry.MarkRole, Key: "mark-B",
			X: 0, Y: 10, R: 5, Fill: "black", Opacity: 0,
		}},
	}, {
		description: "vertical strips",
		settings: func() Settings {
			s := base
			s.Orientation = Vertical
			s.Mark = StripMark
			s.Plot = geometry.Rect{Width: 20, Height: 100}
			return s
		},
		want: []geometry.Shape{{
			Kind: geometry.LineKind, Role: geometry.MarkRole, Key: "mark-A",
			X: 0, Y: 75, X2: 20, Y2: 75, Fill: "black", Stroke: "black", StrokeWidth: 1, Opacity: 0.5,
		}, {
			Kind: geometry.LineKind, Role: geometry.MarkRole, Key: "mark-B",
			X: 0, Y: 100, X2: 20, Y2: 100, Fill: "black", Stroke: "black", StrokeWidth: 1, Opacity: 0,
		}},
	}} {
		t.Run(test.description, func(t *testing.T) {
			got := Strip(f, test.settings())
			if diff := cmp.Diff(test.want, got, cmpopts.IgnoreFields(geometry.Shape{}, "Datum")); diff != "" {
				t.Errorf("Strip() diff (-want +got):\n%s", diff)
			}
		})
	}
	if got := Strip(nil, base); len(got) != 0 {
		t.Errorf("Strip(nil) = %v, wanted no shapes", got)
	}
}

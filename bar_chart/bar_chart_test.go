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

package barchart

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
)

var ignoreDatum = cmpopts.IgnoreFields(geometry.Shape{}, "Datum")

func frame(data ...record.Record) *frameindexer.Frame {
	f := &frameindexer.Frame{Date: "2020"}
	for idx, r := range data {
		f.Data = append(f.Data, frameindexer.Datum{Record: r, ID: string(rune('0' + idx))})
	}
	return f
}

func settings() Settings {
	return Settings{
		Plot:         geometry.Rect{X: 0, Y: 0, Width: 100, Height: 100},
		Domain:       domainresolver.Extent{Min: 0, Max: 10},
		DefaultColor: "gray",
		SeriesColors: []string{"red", "blue"},
	}
}

func TestBar(t *testing.T) {
	f := frame(
		record.Record{Label: "A", Size: nullguard.Of(5), Color: "c1"},
		record.Record{Label: "B"},
	)
	for _, test := range []struct {
		description string
		settings    func() Settings
		want        []geometry.Shape
	}{{
		description: "vertical bars with an absent value",
		settings:    settings,
		want: []geometry.Shape{{
			Kind: geometry.RectKind, Role: geometry.MarkRole, Key: "bar-A",
			X: 0, Y: 50, Width: 50, Height: 50, Fill: "gray", ColorKey: "c1", Opacity: 1,
		}, {
			Kind: geometry.RectKind, Role: geometry.MarkRole, Key: "bar-B",
			X: 50, Y: 100, Width: 50, Height: 0, Fill: "gray", Opacity: 0,
		}},
	}, {
		description: "horizontal bars keyed by ID with palette colors",
		settings: func() Settings {
			s := settings()
			s.Orientation = Horizontal
			s.KeyBy = frameindexer.ByID
			s.Colors = scale.NewOrdinal(nil, []string{"green"}, "gray")
			return s
		},
		want: []geometry.Shape{{
			Kind: geometry.RectKind, Role: geometry.MarkRole, Key: "bar-0",
			X: 0, Y: 0, Width: 50, Height: 50, Fill: "green", ColorKey: "c1", Opacity: 1,
		}, {
			Kind: geometry.RectKind, Role: geometry.MarkRole, Key: "bar-1",
			X: 0, Y: 50, Width: 0, Height: 50, Fill: "gray", Opacity: 0,
		}},
	}} {
		t.Run(test.description, func(t *testing.T) {
			got := Bar(f, test.settings())
			if diff := cmp.Diff(test.want, got, ignoreDatum); diff != "" {
				t.Errorf("Bar() diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBarNegative(t *testing.T) {
	s := settings()
	s.Domain = domainresolver.Extent{Min: -10, Max: 10}
	s.ShowValues = true
	got := Bar(frame(record.Record{Label: "A", Size: nullguard.Of(-5)}), s)
	want := []geometry.Shape{{
		Kind: geometry.RectKind, Role: geometry.MarkRole, Key: "bar-A",
		X: 0, Y: 50, Width: 100, Height: 25, Fill: "gray", Opacity: 1,
	}, {
		Kind: geometry.TextKind, Role: geometry.ValueLabelRole, Key: "value-A",
		X: 50, Y: 50 + 25 + 4 + 12, Text: "-5", Anchor: "middle", Fill: "gray", Opacity: 1,
	}}
	if diff := cmp.Diff(want, got, ignoreDatum); diff != "" {
		t.Errorf("Bar() diff (-want +got):\n%s", diff)
	}
}

func TestBarEmptyFrame(t *testing.T) {
	for _, f := range []*frameindexer.Frame{nil, {}} {
		for name, mapper := range map[string]func(*frameindexer.Frame, Settings) []geometry.Shape{
			"Bar": Bar, "Grouped": Grouped, "Stacked": Stacked, "Butterfly": Butterfly,
		} {
			if got := mapper(f, settings()); len(got) != 0 {
				t.Errorf("%s() of an empty frame = %v, wanted no shapes", name, got)
			}
		}
	}
}

func TestGrouped(t *testing.T) {
	f := frame(
		record.Record{Label: "A", Sizes: nullguard.Numbers(10, 5)},
		record.Record{Label: "B", Sizes: []nullguard.Number{nullguard.Absent, nullguard.Of(2)}},
	)
	got := Grouped(f, settings())
	want := []geometry.Shape{{
		Kind: geometry.RectKind, Role: geometry.MarkRole, Key: "bar-A-0",
		X: 0, Y: 0, Width: 25, Height: 100, Fill: "red", ColorKey: "0", Opacity: 1,
	}, {
		Kind: geometry.RectKind, Role: geometry.MarkRole, Key: "bar-A-1",
		X: 25, Y: 50, Width: 25, Height: 50, Fill: "blue", ColorKey: "1", Opacity: 1,
	}, {
		Kind: geometry.RectKind, Role: geometry.MarkRole, Key: "bar-B-0",
		X: 50, Y: 100, Width: 25, Height: 0, Fill: "red", ColorKey: "0", Opacity: 0,
	}, {
		Kind: geometry.RectKind, Role: geometry.MarkRole, Key: "bar-B-1",
		X: 75, Y: 80, Width: 25, Height: 20, Fill: "blue", ColorKey: "1", Opacity: 1,
	}}
	if diff := cmp.Diff(want, got, ignoreDatum); diff != "" {
		t.Errorf("Grouped() diff (-want +got):\n%s", diff)
	}
}

func TestStacked(t *testing.T) {
	s := settings()
	s.ShowValues = true
	f := frame(record.Record{Label: "A", Sizes: []nullguard.Number{nullguard.Of(2), nullguard.Absent, nullguard.Of(6)}})
	got := Stacked(f, s)
	want := []geometry.Shape{{
		Kind: geometry.RectKind, Role: geometry.MarkRole, Key: "bar-A-0",
		X: 0, Y: 80, Width: 100, Height: 20, Fill: "red", ColorKey: "0", Opacity: 1,
	}, {
		Kind: geometry.TextKind, Role: geometry.ValueLabelRole, Key: "segment-A-0",
		X: 50, Y: 90, Text: "2", Anchor: "middle", Opacity: 1,
	}, {
		Kind: geometry.RectKind, Role: geometry.MarkRole, Key: "bar-A-1",
		X: 0, Y: 80, Width: 100, Height: 0, Fill: "blue", ColorKey: "1", Opacity: 0,
	}, {
		Kind: geometry.TextKind, Role: geometry.ValueLabelRole, Key: "segment-A-1",
		X: 50, Y: 80, Anchor: "middle", Opacity: 0,
	}, {
		Kind: geometry.RectKind, Role: geometry.MarkRole, Key: "bar-A-2",
		X: 0, Y: 20, Width: 100, Height: 60, Fill: "red", ColorKey: "2", Opacity: 1,
	}, {
		Kind: geometry.TextKind, Role: geometry.ValueLabelRole, Key: "segment-A-2",
		X: 50, Y: 50, Text: "6", Anchor: "middle", Opacity: 1,
	}, {
		Kind: geometry.TextKind, Role: geometry.ValueLabelRole, Key: "value-A",
		X: 50, Y: 16, Text: "8", Anchor: "middle", Opacity: 1,
	}}
	if diff := cmp.Diff(want, got, ignoreDatum, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Stacked() diff (-want +got):\n%s", diff)
	}
}

func TestStackedSegmentLabelTooSmall(t *testing.T) {
	s := settings()
	s.ShowValues = true
	s.Domain = domainresolver.Extent{Min: 0, Max: 100}
	f := frame(record.Record{Label: "A", Sizes: nullguard.Numbers(5, 95)})
	for _, shape := range Stacked(f, s) {
		if shape.Key == "segment-A-0" && shape.Opacity != 0 {
			t.Errorf("label for a 5px segment is visible, wanted hidden")
		}
		if shape.Key == "segment-A-1" && shape.Opacity != 1 {
			t.Errorf("label for a 95px segment is hidden, wanted visible")
		}
	}
}

func TestButterfly(t *testing.T) {
	s := settings()
	s.CenterGap = 20
	s.ButterflyColors = [2]string{"left", "right"}
	f := frame(record.Record{Label: "A", LeftBar: nullguard.Of(10), RightBar: nullguard.Of(5)})
	got := Butterfly(f, s)
	want := []geometry.Shape{{
		Kind: geometry.RectKind, Role: geometry.MarkRole, Key: "bar-left-A",
		X: 0, Y: 0, Width: 40, Height: 100, Fill: "left", ColorKey: "left", Opacity: 1,
	}, {
		Kind: geometry.RectKind, Role: geometry.MarkRole, Key: "bar-right-A",
		X: 60, Y: 0, Width: 20, Height: 100, Fill: "right", ColorKey: "right", Opacity: 1,
	}}
	if diff := cmp.Diff(want, got, ignoreDatum); diff != "" {
		t.Errorf("Butterfly() diff (-want +got):\n%s", diff)
	}
}

func TestNoNaNCoordinates(t *testing.T) {
	s := settings()
	s.ShowValues = true
	s.ShowLabels = true
	s.Domain = domainresolver.Extent{}
	f := frame(
		record.Record{Label: "A", Size: nullguard.Of(math.NaN()), Sizes: []nullguard.Number{nullguard.Of(math.Inf(1))}},
		record.Record{Label: "B", LeftBar: nullguard.Of(math.NaN())},
	)
	for _, shapes := range [][]geometry.Shape{Bar(f, s), Grouped(f, s), Stacked(f, s), Butterfly(f, s)} {
		for _, shape := range shapes {
			if !geometry.Finite(shape.X, shape.Y, shape.Width, shape.Height, shape.Opacity) {
				t.Errorf("shape %s has non-finite coordinates: %+v", shape.Key, shape)
			}
		}
	}
}

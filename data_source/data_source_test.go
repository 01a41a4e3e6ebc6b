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

package datasource

import (
	"context"
	"fmt"
	"testing"

	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
	"github.com/UNDP-Data/undp-visualization-library-sub001/record"
	"github.com/UNDP-Data/undp-visualization-library-sub001/scene"
	"github.com/google/go-cmp/cmp"
)

type testFetcher struct {
	datasets map[string]*Dataset
	fetches  map[string]int
}

func (tf *testFetcher) Fetch(ctx context.Context, name string) (*Dataset, error) {
	tf.fetches[name]++
	ds, ok := tf.datasets[name]
	if !ok {
		return nil, fmt.Errorf("no dataset '%s'", name)
	}
	return ds, nil
}

func newTestDataSource(t *testing.T) (*DataSource, *testFetcher) {
	t.Helper()
	tf := &testFetcher{
		datasets: map[string]*Dataset{
			"gdp": {Records: []record.Record{
				{Label: "X", Date: "2020", Size: nullguard.Of(10), Color: "north"},
				{Label: "Y", Date: "2021", Size: nullguard.Of(-5), Color: "south"},
			}},
		},
		fetches: map[string]int{},
	}
	ds, err := New(4, tf, nil)
	if err != nil {
		t.Fatalf("New() yielded unexpected error %s", err)
	}
	return ds, tf
}

const barSpec = `{"kind": "bar", "width": 400, "height": 300, "tooltip": "<b>{{label}}</b>", "detailsOnClick": "<p>{{size}}</p>"}`

func globals(extra map[string]*scene.V) map[string]*scene.V {
	ret := map[string]*scene.V{
		CollectionNameKey: scene.StringValue("gdp"),
		SpecKey:           scene.StringValue(barSpec),
	}
	for k, v := range extra {
		ret[k] = v
	}
	return ret
}

func handle(t *testing.T, ds *DataSource, global map[string]*scene.V, reqs ...*scene.Request) (*scene.Response, error) {
	t.Helper()
	rb := scene.NewResponseBuilder()
	if err := ds.HandleRequests(context.Background(), global, rb, reqs); err != nil {
		return nil, err
	}
	return rb.Response()
}

// nodeTypes returns the node_type of each child of the named scene's root.
func nodeTypes(resp *scene.Response, name string) []string {
	var ret []string
	for _, child := range resp.Scene(name).Root.Children {
		nt, _ := child.String(resp.StringTable, "node_type")
		ret = append(ret, nt)
	}
	return ret
}

func TestSupportedQueries(t *testing.T) {
	ds, _ := newTestDataSource(t)
	want := []string{RenderQuery, FramesQuery, TableQuery, TransitionQuery}
	if diff := cmp.Diff(want, ds.SupportedQueries()); diff != "" {
		t.Errorf("SupportedQueries() diff (-want +got):\n%s", diff)
	}
}

func TestHandleRequests(t *testing.T) {
	ds, tf := newTestDataSource(t)
	resp, err := handle(t, ds, globals(nil),
		&scene.Request{Query: RenderQuery, SceneName: "chart", Options: map[string]*scene.V{
			FrameKey:   scene.IntegerValue(0),
			HoveredKey: scene.StringValue("X"),
			PointerKey: scene.DoublesValue(10, 20),
			PinnedKey:  scene.StringValue("X"),
		}},
		&scene.Request{Query: FramesQuery, SceneName: "frames"},
		&scene.Request{Query: TableQuery, SceneName: "table", Options: map[string]*scene.V{
			FrameKey: scene.IntegerValue(1),
		}},
		&scene.Request{Query: TransitionQuery, SceneName: "transition", Options: map[string]*scene.V{
			ProgressKey: scene.DoubleValue(0.5),
		}},
	)
	if err != nil {
		t.Fatalf("HandleRequests() yielded unexpected error %s", err)
	}
	if diff := cmp.Diff([]string{"axes", "legend", "marks", "tooltip", "detail"}, nodeTypes(resp, "chart")); diff != "" {
		t.Errorf("chart children diff (-want +got):\n%s", diff)
	}
	frames := resp.Scene("frames").Root
	dates, ok := frames.Strings(resp.StringTable, frameDatesKey)
	if !ok {
		t.Fatalf("frames scene has no %s", frameDatesKey)
	}
	if diff := cmp.Diff([]string{"2020", "2021"}, dates); diff != "" {
		t.Errorf("frame dates diff (-want +got):\n%s", diff)
	}
	// One column group and two rows.
	if got := len(resp.Scene("table").Root.Children); got != 3 {
		t.Errorf("table has %d children, want 3", got)
	}
	if got, _ := resp.Scene("transition").Root.Double(resp.StringTable, "progress"); got != 0.5 {
		t.Errorf("transition progress = %v, want 0.5", got)
	}
	// A second request reuses the cached dataset.
	if _, err := handle(t, ds, globals(nil), &scene.Request{Query: FramesQuery, SceneName: "again"}); err != nil {
		t.Fatalf("HandleRequests() yielded unexpected error %s", err)
	}
	if tf.fetches["gdp"] != 1 {
		t.Errorf("dataset fetched %d times, want 1", tf.fetches["gdp"])
	}
}

func TestHandleRequestsUnknownHover(t *testing.T) {
	ds, _ := newTestDataSource(t)
	resp, err := handle(t, ds, globals(map[string]*scene.V{
		HoveredKey: scene.StringValue("Atlantis"),
	}), &scene.Request{Query: RenderQuery, SceneName: "chart"})
	if err != nil {
		t.Fatalf("HandleRequests() yielded unexpected error %s", err)
	}
	if diff := cmp.Diff([]string{"axes", "legend", "marks"}, nodeTypes(resp, "chart")); diff != "" {
		t.Errorf("chart children diff (-want +got):\n%s", diff)
	}
}

func TestHandleRequestsErrors(t *testing.T) {
	for _, test := range []struct {
		description string
		global      map[string]*scene.V
		options     map[string]*scene.V
	}{{
		description: "missing collection",
		global:      map[string]*scene.V{SpecKey: scene.StringValue(barSpec)},
	}, {
		description: "missing spec",
		global:      map[string]*scene.V{CollectionNameKey: scene.StringValue("gdp")},
	}, {
		description: "invalid spec",
		global:      globals(map[string]*scene.V{SpecKey: scene.StringValue(`{"kind": "bar"}`)}),
	}, {
		description: "unknown theme",
		global:      globals(map[string]*scene.V{ThemeKey: scene.StringValue("sepia")}),
	}, {
		description: "unknown collection",
		global:      globals(map[string]*scene.V{CollectionNameKey: scene.StringValue("nope")}),
	}, {
		description: "mistyped frame",
		global:      globals(nil),
		options:     map[string]*scene.V{FrameKey: scene.StringValue("first")},
	}, {
		description: "malformed pointer",
		global:      globals(map[string]*scene.V{HoveredKey: scene.StringValue("X")}),
		options:     map[string]*scene.V{PointerKey: scene.DoublesValue(1)},
	}} {
		t.Run(test.description, func(t *testing.T) {
			ds, _ := newTestDataSource(t)
			if _, err := handle(t, ds, test.global, &scene.Request{Query: RenderQuery, SceneName: "chart", Options: test.options}); err == nil {
				t.Errorf("HandleRequests() yielded no error")
			}
		})
	}
}

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

package querydispatcher

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/UNDP-Data/undp-visualization-library-sub001/scene"
	"github.com/google/go-cmp/cmp"
)

type testDataSource struct {
	supportedQueries []string
	handledQueries   map[string]int
}

func newTestDataSource(supportedQueries []string) *testDataSource {
	return &testDataSource{
		supportedQueries: supportedQueries,
		handledQueries:   map[string]int{},
	}
}

func (tds *testDataSource) SupportedQueries() []string {
	return tds.supportedQueries
}

const datasetKey = "dataset"

func (tds *testDataSource) HandleRequests(ctx context.Context, globalOptions map[string]*scene.V, rb *scene.ResponseBuilder, reqs []*scene.Request) error {
	datasetVal, ok := globalOptions[datasetKey]
	if !ok {
		panic("missing required dataset")
	}
	dataset, err := scene.ExpectStringValue(datasetVal)
	if err != nil {
		panic("required dataset wasn't a string")
	}
	if dataset == "error" {
		return errors.New("oops")
	}
	for _, req := range reqs {
		rb.Scene(req).With(
			scene.StringProperty(datasetKey, dataset),
			scene.StringProperty("query", req.Query),
		)
		tds.handledQueries[req.Query]++
	}
	return nil
}

var (
	queries = [][]string{
		{"charts.bar", "charts.line"},
		{"maps.choropleth"},
	}
)

func TestQueryDispatcherCreation(t *testing.T) {
	for _, test := range []struct {
		description string
		dataSources []dataSource
		wantErr     bool
	}{{
		description: "single data source",
		dataSources: []dataSource{
			newTestDataSource(queries[0]),
		},
	}, {
		description: "multiple data sources",
		dataSources: []dataSource{
			newTestDataSource(queries[0]),
			newTestDataSource(queries[1]),
		},
	}, {
		description: "supported query conflict",
		dataSources: []dataSource{
			newTestDataSource(queries[0]),
			newTestDataSource(queries[0]),
		},
		wantErr: true,
	}} {
		t.Run(test.description, func(t *testing.T) {
			_, err := New(test.dataSources...)
			if test.wantErr != (err != nil) {
				t.Fatalf("Unexpected error creating QueryDispatcher: %s", err)
			}
		})
	}
}

// wantScene describes one expected scene.
type wantScene struct {
	name, query, dataset string
}

func wantResponse(t *testing.T, scenes ...wantScene) *scene.Response {
	t.Helper()
	rb := scene.NewResponseBuilder()
	for _, s := range scenes {
		rb.Scene(&scene.Request{SceneName: s.name}).With(
			scene.StringProperty(datasetKey, s.dataset),
			scene.StringProperty("query", s.query),
		)
	}
	resp, err := rb.Response()
	if err != nil {
		t.Fatalf("failed to build wanted response: %s", err)
	}
	return resp
}

func sortScenes(resp *scene.Response) {
	sort.Slice(resp.Scenes, func(a, b int) bool {
		return resp.Scenes[a].SceneName < resp.Scenes[b].SceneName
	})
}

func TestHandleRenderRequest(t *testing.T) {
	for _, test := range []struct {
		description        string
		dataSources        []dataSource
		req                *scene.RenderRequest
		wantErr            bool
		wantScenes         []wantScene
		wantHandledQueries [][]string
	}{{
		description: "single data source",
		dataSources: []dataSource{
			newTestDataSource(queries[0]),
		},
		req: &scene.RenderRequest{
			GlobalOptions: map[string]*scene.V{
				datasetKey: scene.StringValue("gdp.json"),
			},
			Requests: []*scene.Request{{
				Query:     "charts.bar",
				SceneName: "1",
			}},
		},
		wantScenes: []wantScene{
			{"1", "charts.bar", "gdp.json"},
		},
		wantHandledQueries: [][]string{
			{"charts.bar"},
		},
	}, {
		description: "multiple data sources",
		dataSources: []dataSource{
			newTestDataSource(queries[0]),
			newTestDataSource(queries[1]),
		},
		req: &scene.RenderRequest{
			GlobalOptions: map[string]*scene.V{
				datasetKey: scene.StringValue("gdp.json"),
			},
			Requests: []*scene.Request{{
				Query:     "charts.line",
				SceneName: "1",
				Options:   map[string]*scene.V{},
			}, {
				Query:     "maps.choropleth",
				SceneName: "2",
				Options:   map[string]*scene.V{},
			}, {
				Query:     "charts.bar",
				SceneName: "3",
			}},
		},
		wantScenes: []wantScene{
			{"1", "charts.line", "gdp.json"},
			{"2", "maps.choropleth", "gdp.json"},
			{"3", "charts.bar", "gdp.json"},
		},
		wantHandledQueries: [][]string{
			{"charts.line", "charts.bar"},
			{"maps.choropleth"},
		},
	}, {
		description: "data source failure",
		dataSources: []dataSource{
			newTestDataSource(queries[0]),
		},
		req: &scene.RenderRequest{
			GlobalOptions: map[string]*scene.V{
				datasetKey: scene.StringValue("error"),
			},
			Requests: []*scene.Request{{
				Query:     "charts.bar",
				SceneName: "1",
			}},
		},
		wantErr: true,
	}, {
		description: "unknown query",
		dataSources: []dataSource{
			newTestDataSource(queries[0]),
		},
		req: &scene.RenderRequest{
			GlobalOptions: map[string]*scene.V{
				datasetKey: scene.StringValue("gdp.json"),
			},
			Requests: []*scene.Request{{
				Query:     "charts.sankey",
				SceneName: "1",
			}},
		},
		wantErr: true,
	}} {
		t.Run(test.description, func(t *testing.T) {
			qd, err := New(test.dataSources...)
			if err != nil {
				t.Fatalf("Unexpected error creating QueryDispatcher: %s", err)
			}
			got, err := qd.HandleRenderRequest(context.Background(), test.req)
			if test.wantErr != (err != nil) {
				t.Fatalf("HandleRenderRequest() yielded unexpected error %s", err)
			}
			if err != nil {
				return
			}
			want := wantResponse(t, test.wantScenes...)
			sortScenes(got)
			sortScenes(want)
			if diff := cmp.Diff(want.PrettyPrint(), got.PrettyPrint()); diff != "" {
				t.Errorf("Got response %s, diff (-want +got):\n%s", got.PrettyPrint(), diff)
			}
			for idx, handledQueries := range test.wantHandledQueries {
				ds := test.dataSources[idx].(*testDataSource)
				for _, query := range handledQueries {
					if _, ok := ds.handledQueries[query]; !ok {
						t.Fatalf("Expected query '%s' was not handled by data source %d", query, idx)
					}
					ds.handledQueries[query]--
					if ds.handledQueries[query] == 0 {
						delete(ds.handledQueries, query)
					}
				}
			}
			for idx, ds := range test.dataSources {
				tds := ds.(*testDataSource)
				if len(tds.handledQueries) > 0 {
					qs := []string{}
					for query, count := range tds.handledQueries {
						for i := 0; i < count; i++ {
							qs = append(qs, query)
						}
					}
					t.Errorf("Queries [%s] were handled by data source %d, but not expected to be.", strings.Join(qs, ", "), idx)
				}
			}
		})
	}
}

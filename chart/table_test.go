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
	"testing"

	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
	"github.com/UNDP-Data/undp-visualization-library-sub001/record"
	"github.com/UNDP-Data/undp-visualization-library-sub001/scene"
	"github.com/google/go-cmp/cmp"
)

// tableCells returns the label and the formatted and raw value cells of
// each row of a rendered table.
func tableCells(t *testing.T, resp *scene.Response) (labels []string, values [][]string, raws [][]float64) {
	t.Helper()
	root := resp.Scenes[0].Root
	for _, row := range root.Children[1:] {
		label, _ := row.Children[0].String(resp.StringTable, "table_cell")
		labels = append(labels, label)
		var vs []string
		var rs []float64
		for _, cell := range row.Children[3:] {
			if v, ok := cell.String(resp.StringTable, "table_cell"); ok {
				vs = append(vs, v)
			}
			if r, ok := cell.Double(resp.StringTable, "table_raw_value"); ok {
				rs = append(rs, r)
			}
		}
		values = append(values, vs)
		raws = append(raws, rs)
	}
	return labels, values, raws
}

func TestRenderTable(t *testing.T) {
	for _, test := range []struct {
		description string
		spec        *Spec
		records     []record.Record
		frame       int
		wantColumns int
		wantLabels  []string
		wantValues  [][]string
		wantRaws    [][]float64
	}{{
		description: "bar frame with placeholder",
		spec:        barSpec(),
		records:     scenario(),
		frame:       0,
		wantColumns: 4,
		wantLabels:  []string{"X", "Y"},
		wantValues:  [][]string{{"10"}, {""}},
		wantRaws:    [][]float64{{10}, nil},
	}, {
		description: "grouped bars get a column per series",
		spec:        &Spec{Kind: GroupedBarKind, Width: 100, Height: 100, Series: []string{"Men", "Women"}},
		records: []record.Record{
			{Label: "A", Sizes: nullguard.Numbers(1, 2)},
			{Label: "B", Sizes: nullguard.Numbers(1500000)},
		},
		wantColumns: 5,
		wantLabels:  []string{"A", "B"},
		wantValues:  [][]string{{"1", "2"}, {"1.5M", ""}},
		wantRaws:    [][]float64{{1, 2}, {1500000}},
	}, {
		description: "empty series has columns only",
		spec:        barSpec(),
		wantColumns: 4,
	}} {
		t.Run(test.description, func(t *testing.T) {
			r := newRenderer(t, test.spec)
			rb := scene.NewResponseBuilder()
			if err := r.RenderTable(rb.Scene(&scene.Request{SceneName: "table"}), Input{Records: test.records}, test.frame); err != nil {
				t.Fatalf("RenderTable() yielded unexpected error %s", err)
			}
			resp, err := rb.Response()
			if err != nil {
				t.Fatalf("Response() yielded unexpected error %s", err)
			}
			if got := len(resp.Scenes[0].Root.Children[0].Children); got != test.wantColumns {
				t.Errorf("got %d columns, want %d", got, test.wantColumns)
			}
			labels, values, raws := tableCells(t, resp)
			if diff := cmp.Diff(test.wantLabels, labels); diff != "" {
				t.Errorf("row labels diff (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.wantValues, values); diff != "" {
				t.Errorf("row values diff (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.wantRaws, raws); diff != "" {
				t.Errorf("row raw values diff (-want +got):\n%s", diff)
			}
		})
	}
}

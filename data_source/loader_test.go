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
	"os"
	"path/filepath"
	"testing"

	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
	"github.com/UNDP-Data/undp-visualization-library-sub001/record"
	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
)

var numberComparer = cmp.Comparer(func(a, b nullguard.Number) bool {
	av, aok := a.Get()
	bv, bok := b.Get()
	return aok == bok && av == bv
})

func TestDecodeRecords(t *testing.T) {
	for _, test := range []struct {
		description string
		ext         string
		data        string
		want        []record.Record
		wantErr     bool
	}{{
		description: "json",
		ext:         ".json",
		data:        `[{"label": "Kenya", "date": "2021", "size": 12}, {"label": "Chad", "size": null}]`,
		want: []record.Record{
			{Label: "Kenya", Date: "2021", Size: nullguard.Of(12)},
			{Label: "Chad"},
		},
	}, {
		description: "csv with blank cells and rows",
		ext:         ".csv",
		data:        "label,date,size,region\nKenya,2021,12,East\n,,,\nChad,2021,,Central\n",
		want: []record.Record{
			{Label: "Kenya", Date: "2021", Size: nullguard.Of(12), Data: map[string]any{"region": "East"}},
			{Label: "Chad", Date: "2021", Data: map[string]any{"region": "Central"}},
		},
	}, {
		description: "csv list cells",
		ext:         ".CSV",
		data:        "label,size,x,population\nA,1;;3,4;5,100\n",
		want: []record.Record{{
			Label: "A",
			Sizes: []nullguard.Number{nullguard.Of(1), nullguard.Absent, nullguard.Of(3)},
			Xs:    nullguard.Numbers(4, 5),
			Data:  map[string]any{"population": 100.0},
		}},
	}, {
		description: "csv header only",
		ext:         ".csv",
		data:        "label,size\n",
		want:        []record.Record{},
	}, {
		description: "csv bad number",
		ext:         ".csv",
		data:        "label,size\nA,lots\n",
		wantErr:     true,
	}, {
		description: "unsupported",
		ext:         ".parquet",
		wantErr:     true,
	}} {
		t.Run(test.description, func(t *testing.T) {
			got, err := Decode(test.ext, []byte(test.data))
			if (err != nil) != test.wantErr {
				t.Fatalf("Decode() yielded error %v, wanted error: %t", err, test.wantErr)
			}
			if err != nil {
				return
			}
			if diff := cmp.Diff(test.want, got.Records, numberComparer); diff != "" {
				t.Errorf("Decode() diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for cell, v := range map[string]any{
		"A1": "label", "B1": "date", "C1": "size",
		"A2": "Kenya", "B2": "2021", "C2": 100,
		"A3": "Chad", "B3": "2021", "C3": 200.5,
	} {
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatalf("SetCellValue(%s) yielded unexpected error %s", cell, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer() yielded unexpected error %s", err)
	}
	got, err := Decode(".xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("Decode() yielded unexpected error %s", err)
	}
	want := []record.Record{
		{Label: "Kenya", Date: "2021", Size: nullguard.Of(100)},
		{Label: "Chad", Date: "2021", Size: nullguard.Of(200.5)},
	}
	if diff := cmp.Diff(want, got.Records, numberComparer); diff != "" {
		t.Errorf("Decode() diff (-want +got):\n%s", diff)
	}
}

const testFeatures = `{"type": "FeatureCollection", "features": [
	{"type": "Feature", "properties": {"iso": "KEN"},
	 "geometry": {"type": "Polygon", "coordinates": [[[34, -4], [41, -4], [41, 5], [34, 5], [34, -4]]]}}
]}`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "africa.geojson")
	if err := os.WriteFile(path, []byte(testFeatures), 0o644); err != nil {
		t.Fatalf("WriteFile() yielded unexpected error %s", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() yielded unexpected error %s", err)
	}
	if got.Features == nil || len(got.Features.Features) != 1 {
		t.Fatalf("Load() = %v, wanted one feature", got)
	}
	if iso := got.Features.Features[0].Properties.MustString("iso"); iso != "KEN" {
		t.Errorf("feature iso = %q, want KEN", iso)
	}
	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Errorf("Load(missing) yielded no error")
	}
}

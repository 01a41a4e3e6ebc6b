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

package frameindexer

import (
	"fmt"
	"testing"

	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
	"github.com/UNDP-Data/undp-visualization-library-sub001/record"
	"github.com/google/go-cmp/cmp"
)

// summarize renders each frame as its date followed by 'label#id=size'
// entries.
func summarize(s *Series) [][]string {
	ret := [][]string{}
	for _, f := range s.Frames {
		row := []string{f.Date}
		for _, d := range f.Data {
			row = append(row, fmt.Sprintf("%s#%s=%s", d.Label, d.ID, d.Size))
		}
		ret = append(ret, row)
	}
	return ret
}

func rec(label, date string, size float64) record.Record {
	return record.Record{Label: label, Date: date, Size: nullguard.Of(size)}
}

func TestBuild(t *testing.T) {
	for _, test := range []struct {
		description string
		raw         []record.Record
		opts        Options
		want        [][]string
		wantLabels  []string
	}{{
		description: "empty series",
		want:        [][]string{},
		wantLabels:  []string{},
	}, {
		description: "sparse series is completed and ordered",
		raw: []record.Record{
			rec("Y", "2021", 3),
			rec("X", "2020", 1),
			rec("Y", "2020", 2),
		},
		want: [][]string{
			{"2020", "Y#0=2", "X#1=1"},
			{"2021", "Y#0=3", "X#1=absent"},
		},
		wantLabels: []string{"Y", "X"},
	}, {
		description: "autosort descending puts absent last",
		raw: []record.Record{
			rec("X", "2020", 1),
			rec("Y", "2020", 2),
			rec("Y", "2021", 3),
		},
		opts: Options{AutoSort: true},
		want: [][]string{
			{"2020", "Y#0=2", "X#1=1"},
			{"2021", "Y#0=3", "X#1=absent"},
		},
		wantLabels: []string{"X", "Y"},
	}, {
		description: "autosort ascending puts absent last",
		raw: []record.Record{
			rec("X", "2021", 9),
			rec("Y", "2020", 2),
			rec("Z", "2021", 1),
		},
		opts: Options{AutoSort: true, Order: Ascending},
		want: [][]string{
			{"2020", "Y#0=2", "X#1=absent", "Z#2=absent"},
			{"2021", "Z#0=1", "X#1=9", "Y#2=absent"},
		},
		wantLabels: []string{"X", "Y", "Z"},
	}, {
		description: "autosort ties keep label order",
		raw: []record.Record{
			rec("A", "2020", 5),
			rec("B", "2020", 5),
			rec("C", "2020", 7),
		},
		opts: Options{AutoSort: true},
		want: [][]string{
			{"2020", "C#0=7", "A#1=5", "B#2=5"},
		},
		wantLabels: []string{"A", "B", "C"},
	}, {
		description: "custom date format",
		raw: []record.Record{
			rec("A", "02/2020", 1),
			rec("A", "01/2021", 2),
			rec("A", "01/2020", 3),
		},
		opts: Options{DateFormat: "MM/yyyy"},
		want: [][]string{
			{"01/2020", "A#0=3"},
			{"02/2020", "A#0=1"},
			{"01/2021", "A#0=2"},
		},
		wantLabels: []string{"A"},
	}, {
		description: "unparseable dates sort last",
		raw: []record.Record{
			rec("A", "someday", 1),
			rec("A", "2021", 2),
			rec("A", "2020", 3),
		},
		want: [][]string{
			{"2020", "A#0=3"},
			{"2021", "A#0=2"},
			{"someday", "A#0=1"},
		},
		wantLabels: []string{"A"},
	}, {
		description: "undated series is a single frame",
		raw: []record.Record{
			rec("A", "", 1),
			rec("B", "", 2),
		},
		want: [][]string{
			{"", "A#0=1", "B#1=2"},
		},
		wantLabels: []string{"A", "B"},
	}} {
		t.Run(test.description, func(t *testing.T) {
			s := Build(test.raw, test.opts)
			if diff := cmp.Diff(test.want, summarize(s)); diff != "" {
				t.Errorf("Build() frames diff (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.wantLabels, s.Labels); diff != "" {
				t.Errorf("Build() labels diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFramesHaveAllLabels(t *testing.T) {
	s := Build([]record.Record{
		rec("A", "2019", 1),
		rec("B", "2020", 2),
		rec("C", "2021", 3),
		rec("A", "2021", 4),
	}, Options{})
	for _, f := range s.Frames {
		seen := map[string]int{}
		for _, d := range f.Data {
			seen[d.Label]++
		}
		if len(seen) != len(s.Labels) || len(f.Data) != len(s.Labels) {
			t.Errorf("frame %s has labels %v, wanted each of %v once", f.Date, seen, s.Labels)
		}
	}
}

func TestSeriesAccess(t *testing.T) {
	empty := Build(nil, Options{})
	if empty.Len() != 0 {
		t.Errorf("empty Len() = %d, wanted 0", empty.Len())
	}
	if _, ok := empty.At(0); ok {
		t.Errorf("empty At(0) was ok, wanted not ok")
	}
	if got := empty.Clamp(3); got != 0 {
		t.Errorf("empty Clamp(3) = %d, wanted 0", got)
	}
	var nilSeries *Series
	if nilSeries.Len() != 0 {
		t.Errorf("nil Len() = %d, wanted 0", nilSeries.Len())
	}

	s := Build([]record.Record{rec("A", "2020", 1), rec("A", "2021", 2)}, Options{})
	for _, test := range []struct {
		idx       int
		wantOK    bool
		wantClamp int
	}{
		{-1, false, 0},
		{0, true, 0},
		{1, true, 1},
		{2, false, 1},
	} {
		if _, ok := s.At(test.idx); ok != test.wantOK {
			t.Errorf("At(%d) ok = %t, wanted %t", test.idx, ok, test.wantOK)
		}
		if got := s.Clamp(test.idx); got != test.wantClamp {
			t.Errorf("Clamp(%d) = %d, wanted %d", test.idx, got, test.wantClamp)
		}
	}
	if diff := cmp.Diff([]string{"2020", "2021"}, s.Dates()); diff != "" {
		t.Errorf("Dates() diff (-want +got):\n%s", diff)
	}
}

func TestDatumKey(t *testing.T) {
	d := Datum{Record: record.Record{Label: "A"}, ID: "3"}
	if got := d.Key(ByLabel); got != "A" {
		t.Errorf("Key(ByLabel) = %q, wanted A", got)
	}
	if got := d.Key(ByID); got != "3" {
		t.Errorf("Key(ByID) = %q, wanted 3", got)
	}
}

func TestCache(t *testing.T) {
	c, err := NewCache(2, Options{})
	if err != nil {
		t.Fatalf("NewCache() yielded unexpected error %s", err)
	}
	raw := []record.Record{rec("A", "2020", 1), rec("B", "2021", 2)}
	first, err := c.Build(raw)
	if err != nil {
		t.Fatalf("Build() yielded unexpected error %s", err)
	}
	second, err := c.Build([]record.Record{rec("A", "2020", 1), rec("B", "2021", 2)})
	if err != nil {
		t.Fatalf("Build() yielded unexpected error %s", err)
	}
	if first != second {
		t.Errorf("Build() of equal input was not served from the cache")
	}
	if _, err := c.Build([]record.Record{rec("C", "2020", 1)}); err != nil {
		t.Fatalf("Build() yielded unexpected error %s", err)
	}
	if got := c.Len(); got != 2 {
		t.Errorf("Len() = %d, wanted 2", got)
	}
	if _, err := NewCache(0, Options{}); err == nil {
		t.Errorf("NewCache(0) yielded no error, wanted one")
	}
}

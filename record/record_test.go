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

package record

import (
	"testing"

	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
	"github.com/google/go-cmp/cmp"
)

var numberComparer = cmp.Comparer(func(a, b nullguard.Number) bool {
	av, aok := a.Get()
	bv, bok := b.Get()
	return aok == bok && av == bv
})

func TestDecode(t *testing.T) {
	for _, test := range []struct {
		description string
		input       string
		want        []Record
		wantErr     bool
	}{{
		description: "scalar fields",
		input:       `[{"label": "X", "date": "2020", "size": 10, "color": "a"}]`,
		want: []Record{{
			Label: "X", Date: "2020", Color: "a", Size: nullguard.Of(10),
		}},
	}, {
		description: "numeric label and date",
		input:       `[{"label": 7, "date": 2021, "size": null}]`,
		want: []Record{{
			Label: "7", Date: "2021",
		}},
	}, {
		description: "array fields",
		input:       `[{"label": "X", "size": [1, null, 3], "x": [4, 5]}]`,
		want: []Record{{
			Label: "X",
			Sizes: []nullguard.Number{nullguard.Of(1), nullguard.Absent, nullguard.Of(3)},
			Xs:    nullguard.Numbers(4, 5),
		}},
	}, {
		description: "payload",
		input:       `[{"label": "X", "data": {"a": {"b": 5}}}]`,
		want: []Record{{
			Label: "X",
			Data:  map[string]any{"a": map[string]any{"b": float64(5)}},
		}},
	}, {
		description: "bad value",
		input:       `[{"label": "X", "size": "big"}]`,
		wantErr:     true,
	}} {
		t.Run(test.description, func(t *testing.T) {
			got, err := Decode([]byte(test.input))
			if (err != nil) != test.wantErr {
				t.Fatalf("Decode() error = %v, wantErr %t", err, test.wantErr)
			}
			if err != nil {
				return
			}
			if diff := cmp.Diff(test.want, got, numberComparer); diff != "" {
				t.Errorf("Decode() diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	in := []Record{{
		Label: "X", Date: "2020", Sizes: []nullguard.Number{nullguard.Of(1), nullguard.Absent},
		LeftBar: nullguard.Of(-2),
	}}
	data, err := (in[0]).MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %s", err)
	}
	got, err := Decode([]byte("[" + string(data) + "]"))
	if err != nil {
		t.Fatalf("Decode: %s", err)
	}
	if diff := cmp.Diff(in, got, numberComparer); diff != "" {
		t.Errorf("round trip diff (-want +got):\n%s", diff)
	}
}

func TestAccessors(t *testing.T) {
	r := &Record{
		Size:  nullguard.Of(2),
		Sizes: []nullguard.Number{nullguard.Of(1), nullguard.Absent, nullguard.Of(-4)},
	}
	if diff := cmp.Diff([]nullguard.Number{nullguard.Of(-3)}, StackTotal(r), numberComparer); diff != "" {
		t.Errorf("StackTotal diff (-want +got):\n%s", diff)
	}
	acc, err := Field("size")
	if err != nil {
		t.Fatalf("Field: %s", err)
	}
	if got := len(acc(r)); got != 4 {
		t.Errorf("Field(size) yielded %d values, want 4", got)
	}
	if !Sum(nil).IsAbsent() {
		t.Errorf("Sum(nil) should be absent")
	}
	if _, err := Field("nope"); err == nil {
		t.Errorf("Field(nope) should fail")
	}
}

func TestTemplateData(t *testing.T) {
	r := Record{Label: "X", Size: nullguard.Of(3), Data: map[string]any{"k": "v"}}
	got := r.TemplateData()
	if got["size"] != 3.0 {
		t.Errorf("size = %v, want 3", got["size"])
	}
	if got["x"] != nil {
		t.Errorf("absent x = %v, want nil", got["x"])
	}
	if diff := cmp.Diff(map[string]any{"k": "v"}, got["data"]); diff != "" {
		t.Errorf("data diff (-want +got):\n%s", diff)
	}
}

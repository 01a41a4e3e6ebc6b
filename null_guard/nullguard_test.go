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

package nullguard

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestIsAbsent(t *testing.T) {
	var nilPtr *float64
	var nilMap map[string]any
	var nilSlice []int
	var nilNumPtr *Number
	for _, test := range []struct {
		description string
		v           any
		want        bool
	}{
		{"untyped nil", nil, true},
		{"nil pointer", nilPtr, true},
		{"nil map", nilMap, true},
		{"nil slice", nilSlice, true},
		{"nil Number pointer", nilNumPtr, true},
		{"absent Number", Absent, true},
		{"zero", 0, false},
		{"zero float", 0.0, false},
		{"negative", -3, false},
		{"empty string", "", false},
		{"NaN", math.NaN(), false},
		{"NaN Number", Of(math.NaN()), false},
		{"present zero Number", Of(0), false},
		{"empty map", map[string]any{}, false},
		{"false", false, false},
	} {
		t.Run(test.description, func(t *testing.T) {
			if got := IsAbsent(test.v); got != test.want {
				t.Errorf("IsAbsent(%v) = %t, want %t", test.v, got, test.want)
			}
		})
	}
}

func TestNumberJSON(t *testing.T) {
	type wrapper struct {
		A Number `json:"a"`
		B Number `json:"b"`
		C Number `json:"c"`
	}
	var got wrapper
	if err := json.Unmarshal([]byte(`{"a": 0, "b": null}`), &got); err != nil {
		t.Fatalf("Unmarshal: %s", err)
	}
	if v, ok := got.A.Get(); !ok || v != 0 {
		t.Errorf("a = %v, want present 0", got.A)
	}
	if !got.B.IsAbsent() {
		t.Errorf("b = %v, want absent", got.B)
	}
	if !got.C.IsAbsent() {
		t.Errorf("c = %v, want absent", got.C)
	}
	out, err := json.Marshal(wrapper{A: Of(-1.5)})
	if err != nil {
		t.Fatalf("Marshal: %s", err)
	}
	if diff := cmp.Diff(`{"a":-1.5,"b":null,"c":null}`, string(out)); diff != "" {
		t.Errorf("Marshal diff (-want +got):\n%s", diff)
	}
}

func TestPresent(t *testing.T) {
	got := Present([]Number{Of(1), Absent, Of(math.NaN()), Of(-2), Of(math.Inf(1)), Of(0)})
	if diff := cmp.Diff([]float64{1, -2, 0}, got); diff != "" {
		t.Errorf("Present() diff (-want +got):\n%s", diff)
	}
}

func TestNumberConfig(t *testing.T) {
	type bounds struct {
		Min Number `yaml:"min" toml:"min"`
		Max Number `yaml:"max" toml:"max"`
	}
	var fromYAML bounds
	if err := yaml.Unmarshal([]byte("min: null\nmax: 12.5\n"), &fromYAML); err != nil {
		t.Fatalf("yaml.Unmarshal() yielded unexpected error %s", err)
	}
	if !fromYAML.Min.IsAbsent() || fromYAML.Max.Or(0) != 12.5 {
		t.Errorf("YAML decoded %v, %v; wanted absent, 12.5", fromYAML.Min, fromYAML.Max)
	}
	var fromTOML bounds
	if _, err := toml.Decode("max = 7\n", &fromTOML); err != nil {
		t.Fatalf("toml.Decode() yielded unexpected error %s", err)
	}
	if !fromTOML.Min.IsAbsent() || fromTOML.Max.Or(0) != 7 {
		t.Errorf("TOML decoded %v, %v; wanted absent, 7", fromTOML.Min, fromTOML.Max)
	}
}

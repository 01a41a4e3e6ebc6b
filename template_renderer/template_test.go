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

package templaterenderer

import (
	"strings"
	"testing"

	frameindexer "github.com/UNDP-Data/undp-visualization-library-sub001/frame_indexer"
	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
	numberformat "github.com/UNDP-Data/undp-visualization-library-sub001/number_format"
	"github.com/UNDP-Data/undp-visualization-library-sub001/record"
	"github.com/google/go-cmp/cmp"
)

func TestRender(t *testing.T) {
	datum := map[string]any{
		"a":      map[string]any{"b": 5},
		"label":  "<script>alert(1)</script>",
		"url":    "javascript:alert(1)",
		"good":   "https://example.org/a?b=1&c=2",
		"color":  "red",
		"evil":   "red; background: url(http://x)",
		"big":    1500000.0,
		"list":   []any{1.0, nil, "x"},
		"nested": map[string]any{"key with space": "spaced"},
		"absent": nil,
		"flag":   true,
		"scheme": "script:alert(1)",
	}
	for _, test := range []struct {
		description string
		template    string
		want        string
	}{{
		description: "field resolution",
		template:    "{{a.b}}",
		want:        "5",
	}, {
		description: "missing field",
		template:    "{{a.c}}",
		want:        "NA",
	}, {
		description: "nil field",
		template:    "{{absent}}",
		want:        "NA",
	}, {
		description: "spaces inside braces",
		template:    "{{ a.b }}",
		want:        "5",
	}, {
		description: "bracketed paths",
		template:    `{{list[0]}} {{list[1]}} {{nested["key with space"]}}`,
		want:        "1 NA spaced",
	}, {
		description: "arrays join",
		template:    "{{list}}",
		want:        "1, NA, x",
	}, {
		description: "numbers use SI notation",
		template:    "{{big}}",
		want:        "1.5M",
	}, {
		description: "booleans",
		template:    "{{flag}}",
		want:        "true",
	}, {
		description: "scripts are removed with their content",
		template:    "<p>hi</p><script>alert(1)</script>",
		want:        "<p>hi</p>",
	}, {
		description: "event handlers are removed",
		template:    `<img src="x.png" onerror="alert(1)">`,
		want:        `<img src="x.png">`,
	}, {
		description: "script URLs are removed",
		template:    `<a href="javascript:alert(1)">x</a>`,
		want:        `<a>x</a>`,
	}, {
		description: "interpolated text is escaped",
		template:    "<b>{{label}}</b>",
		want:        "<b>&lt;script&gt;alert(1)&lt;/script&gt;</b>",
	}, {
		description: "interpolated unsafe URL is dropped",
		template:    `<a href="{{url}}">link</a>`,
		want:        `<a>link</a>`,
	}, {
		description: "interpolated safe URL is kept",
		template:    `<a href="{{good}}">link</a>`,
		want:        `<a href="https://example.org/a?b=1&amp;c=2">link</a>`,
	}, {
		description: "disallowed CSS is removed",
		template:    `<span style="color: blue; position: fixed; background-color: url(x)">s</span>`,
		want:        `<span style="color: blue">s</span>`,
	}, {
		description: "interpolated CSS is validated",
		template:    `<span style="color: {{evil}}">s</span><span style="color: {{color}}">t</span>`,
		want:        `<span style="color: red">s</span><span style="color: red">t</span>`,
	}, {
		description: "unknown tags keep their text",
		template:    "<blink>x</blink>",
		want:        "x",
	}, {
		description: "unclosed tags are closed",
		template:    "<b><i>bold",
		want:        "<b><i>bold</i></b>",
	}, {
		description: "comments are removed",
		template:    "a<!-- {{label}} -->b",
		want:        "ab",
	}, {
		description: "literal text and values are defanged together",
		template:    "<p>java{{scheme}}</p>",
		want:        "<p>javascript&#58;alert(1)</p>",
	}, {
		description: "entities survive",
		template:    "a &amp; b &lt; c",
		want:        "a &amp; b &lt; c",
	}} {
		t.Run(test.description, func(t *testing.T) {
			got := Render(test.template, datum).String()
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Render(%q) diff (-want +got):\n%s", test.template, diff)
			}
		})
	}
}

func TestRenderNeverContainsExecutableContent(t *testing.T) {
	datum := map[string]any{
		"x": `"><script>alert(1)</script>`,
		"y": "javascript:alert(1)",
		"z": `x" onerror="alert(1)`,
		"s": "script:alert(1)",
		"h": "error=alert(1)",
	}
	for _, template := range []string{
		"<script>alert(1)</script>",
		"<SCRIPT SRC=//evil></SCRIPT>",
		`<img src=x onerror=alert(1)>`,
		`<a href="JaVaScRiPt:alert(1)">x</a>`,
		`<a href=" javascript:alert(1)">x</a>`,
		`<div style="background:url(javascript:alert(1))">x</div>`,
		`<svg onload=alert(1)><script>alert(1)</script></svg>`,
		"<p>javascript:alert(1) onerror=alert(1)</p>",
		`<img src="{{y}}" title="{{z}}">{{x}}`,
		`<a href="{{y}}">{{x}}</a>`,
		"<scr<script>ipt>alert(1)</script>",
		"<iframe src=javascript:alert(1)></iframe>",
		"java{{s}}",
		"<b>on{{h}}</b>",
		"{{y}}{{h}}",
	} {
		got := strings.ToLower(Render(template, datum).String())
		for _, bad := range []string{"<script", "onerror=", "onload=", "javascript:"} {
			if strings.Contains(got, bad) {
				t.Errorf("Render(%q) = %q contains %q", template, got, bad)
			}
		}
	}
}

func TestResolve(t *testing.T) {
	r := record.Record{Label: "A", Size: nullguard.Of(3), Data: map[string]any{"extra": map[string]any{"n": 2.0}}}
	d := frameindexer.Datum{Record: r, ID: "0"}
	for _, test := range []struct {
		description string
		datum       any
		path        string
		want        any
		wantOK      bool
	}{
		{"record field", r, "label", "A", true},
		{"record number", r, "size", 3.0, true},
		{"record payload", r, "data.extra.n", 2.0, true},
		{"datum embeds record", d, "label", "A", true},
		{"record pointer", &r, "label", "A", true},
		{"nil record pointer", (*record.Record)(nil), "label", nil, false},
		{"missing", r, "data.nope", nil, false},
		{"empty path", r, "", nil, false},
		{"typed map", map[string]int{"k": 4}, "k", 4, true},
		{"typed slice", map[string]any{"s": []string{"p", "q"}}, "s[1]", "q", true},
		{"out of range", map[string]any{"s": []any{1}}, "s[3]", nil, false},
		{"struct field", struct{ Name string }{"n"}, "name", "n", true},
	} {
		t.Run(test.description, func(t *testing.T) {
			got, ok := Resolve(test.datum, test.path)
			if ok != test.wantOK {
				t.Fatalf("Resolve(%q) ok = %t, wanted %t", test.path, ok, test.wantOK)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Resolve(%q) diff (-want +got):\n%s", test.path, diff)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	tmpl := Compile(`<p onclick="x()">{{size}}</p>`)
	if tmpl.Stripped() != 1 {
		t.Errorf("Stripped() = %d, wanted 1", tmpl.Stripped())
	}
	rec := record.Record{Size: nullguard.Of(2500)}
	if got, want := tmpl.Execute(rec).String(), "<p>2.5k</p>"; got != want {
		t.Errorf("Execute() = %q, wanted %q", got, want)
	}
	de := tmpl.WithFormatter(numberformat.New("de"))
	if got, want := de.Execute(rec).String(), "<p>2,5k</p>"; got != want {
		t.Errorf("German Execute() = %q, wanted %q", got, want)
	}
	if got, want := tmpl.Execute(record.Record{}).String(), "<p>NA</p>"; got != want {
		t.Errorf("Execute() of an absent size = %q, wanted %q", got, want)
	}
}

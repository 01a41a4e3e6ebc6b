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

// Package templaterenderer renders author-supplied HTML templates against
// a datum for tooltip bodies and detail panels.
//
// Templates are sanitized once, at Compile time, against a fixed allow-list
// of elements, attributes and CSS properties: scripts, event handlers, and
// unsafe URLs never survive.  Placeholders of the form {{path.to.field}} are
// then filled in at Execute time:
//
//	t := templaterenderer.Compile(`<b>{{label}}</b>: {{data.population}}`)
//	body := t.Execute(datum.TemplateData())
//
// Values interpolated into text are HTML-escaped and never re-parsed as
// markup.  Values interpolated into URL or style attributes are validated
// after substitution, and the attribute is dropped if the result is unsafe.
// Numeric values are formatted with numberformat; missing paths and absent
// values render as "NA".
package templaterenderer

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"

	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
	numberformat "github.com/UNDP-Data/undp-visualization-library-sub001/number_format"
	"github.com/google/safehtml"
	"github.com/google/safehtml/uncheckedconversions"
	"github.com/spf13/cast"
)

// Missing is substituted for placeholders that don't resolve to a value.
const Missing = "NA"

// Template is a sanitized, compiled template.  It is immutable and safe for
// concurrent use.
type Template struct {
	src       string
	segments  []segment
	stripped  int
	formatter *numberformat.Formatter
}

// Compile sanitizes and compiles the provided template source.
func Compile(src string) *Template {
	segments, stripped := sanitize(src)
	return &Template{
		src:       src,
		segments:  segments,
		stripped:  stripped,
		formatter: numberformat.Default(),
	}
}

// WithFormatter returns a copy of the receiver formatting numbers with the
// provided Formatter.
func (t *Template) WithFormatter(f *numberformat.Formatter) *Template {
	ret := *t
	ret.formatter = f
	return &ret
}

// Source returns the unsanitized template source.
func (t *Template) Source() string {
	return t.src
}

// Stripped returns the number of disallowed items removed from the source.
func (t *Template) Stripped() int {
	return t.stripped
}

// Execute renders the receiver against the provided datum.
func (t *Template) Execute(datum any) safehtml.HTML {
	var sb, run strings.Builder
	// Adjacent literal text and placeholder values are defanged together.
	flushRun := func() {
		sb.WriteString(defang(run.String()))
		run.Reset()
	}
	for _, seg := range t.segments {
		switch {
		case seg.text != "":
			run.WriteString(seg.text)
			continue
		case seg.isPath:
			run.WriteString(safehtml.HTMLEscaped(t.lookup(datum, seg.path)).String())
			continue
		}
		flushRun()
		switch {
		case seg.attrName != "":
			var vb strings.Builder
			for _, p := range seg.attrValue {
				if p.isPath {
					vb.WriteString(t.lookup(datum, p.path))
				} else {
					vb.WriteString(p.literal)
				}
			}
			if val, ok := attrValue(seg.attrKind, vb.String()); ok {
				writeAttr(&sb, seg.attrName, val)
			}
		default:
			sb.WriteString(seg.markup)
		}
	}
	flushRun()
	return uncheckedconversions.HTMLFromStringKnownToSatisfyTypeContract(sb.String())
}

func (t *Template) lookup(datum any, path string) string {
	v, ok := Resolve(datum, path)
	if !ok {
		return Missing
	}
	return t.format(v)
}

// Render compiles and executes src against datum.
func Render(src string, datum any) safehtml.HTML {
	return Compile(src).Execute(datum)
}

// format renders a resolved value as text.
func (t *Template) format(v any) string {
	if nullguard.IsAbsent(v) {
		return Missing
	}
	switch v := v.(type) {
	case nullguard.Number:
		f, _ := v.Get()
		return t.formatNumber(f)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return t.formatNumber(f)
		}
		return v.String()
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return t.formatNumber(cast.ToFloat64(v))
	case []any:
		parts := make([]string, len(v))
		for idx, e := range v {
			parts[idx] = t.format(e)
		}
		return strings.Join(parts, ", ")
	case []nullguard.Number:
		parts := make([]string, len(v))
		for idx, e := range v {
			parts[idx] = t.format(e)
		}
		return strings.Join(parts, ", ")
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return Missing
}

func (t *Template) formatNumber(f float64) string {
	if math.IsNaN(f) {
		return Missing
	}
	return t.formatter.Format(f, "", "")
}

// splitPath splits an accessor path such as `a.b[0]["c d"]` into its keys.
func splitPath(path string) []string {
	var ret []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			ret = append(ret, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(path); i++ {
		switch c := path[i]; c {
		case '.':
			flush()
		case '[':
			flush()
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				cur.WriteString(path[i+1:])
				i = len(path)
				continue
			}
			key := strings.TrimSpace(path[i+1 : i+end])
			if len(key) >= 2 && (key[0] == '"' || key[0] == '\'') && key[len(key)-1] == key[0] {
				key = key[1 : len(key)-1]
			}
			ret = append(ret, key)
			i += end
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return ret
}

// templateDataer is implemented by Records, and by anything embedding one.
type templateDataer interface {
	TemplateData() map[string]any
}

// Resolve looks up a dotted or bracketed accessor path within datum.  It
// returns false if any step of the path doesn't exist.  Records resolve
// through their template data.
func Resolve(datum any, path string) (any, bool) {
	keys := splitPath(strings.TrimSpace(path))
	if len(keys) == 0 {
		return nil, false
	}
	cur := datum
	for _, key := range keys {
		next, ok := step(cur, key)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func step(cur any, key string) (any, bool) {
	switch c := cur.(type) {
	case nil:
		return nil, false
	case map[string]any:
		v, ok := c[key]
		return v, ok
	case templateDataer:
		if rv := reflect.ValueOf(c); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil, false
		}
		return step(c.TemplateData(), key)
	case []any:
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	}
	rv := reflect.ValueOf(cur)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Slice, reflect.Array:
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= rv.Len() {
			return nil, false
		}
		return rv.Index(idx).Interface(), true
	case reflect.Struct:
		f := rv.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, key)
		})
		if !f.IsValid() || !f.CanInterface() {
			return nil, false
		}
		return f.Interface(), true
	}
	return nil, false
}

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

package scale

// Ordinal maps categorical keys to colors.  Keys in the domain map to the
// color at the same position, cycling through the palette; the empty key
// maps to the fallback color.  Keys outside the domain are appended to it
// on first use, so a given Ordinal assigns colors deterministically in
// first-use order.
type Ordinal struct {
	domain   []string
	index    map[string]int
	palette  []string
	fallback string
}

// NewOrdinal returns an Ordinal scale.
func NewOrdinal(domain, palette []string, fallback string) *Ordinal {
	o := &Ordinal{
		index:    map[string]int{},
		palette:  palette,
		fallback: fallback,
	}
	for _, key := range domain {
		o.add(key)
	}
	return o
}

func (o *Ordinal) add(key string) int {
	if idx, ok := o.index[key]; ok {
		return idx
	}
	idx := len(o.domain)
	o.domain = append(o.domain, key)
	o.index[key] = idx
	return idx
}

// Domain returns the receiver's keys in order.
func (o *Ordinal) Domain() []string {
	return o.domain
}

// Map returns the color for key.
func (o *Ordinal) Map(key string) string {
	if key == "" || len(o.palette) == 0 {
		return o.fallback
	}
	return o.palette[o.add(key)%len(o.palette)]
}

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

import "math"

// Band divides a pixel range into equal bands, one per key, separated by
// padding.  PaddingInner is the fraction of each step left empty between
// bands; PaddingOuter is the fraction of a step left empty at each end.
type Band struct {
	keys      []string
	index     map[string]int
	start     float64
	step      float64
	bandwidth float64
}

// NewBand returns a Band scale laying the provided keys out across
// [r0, r1].
func NewBand(keys []string, r0, r1, paddingInner, paddingOuter float64) *Band {
	b := &Band{
		keys:  keys,
		index: make(map[string]int, len(keys)),
	}
	for idx, key := range keys {
		if _, ok := b.index[key]; !ok {
			b.index[key] = idx
		}
	}
	paddingInner = math.Max(0, math.Min(1, paddingInner))
	paddingOuter = math.Max(0, paddingOuter)
	n := float64(len(keys))
	b.step = (r1 - r0) / math.Max(1, n-paddingInner+2*paddingOuter)
	b.start = r0 + ((r1-r0)-b.step*(n-paddingInner))/2
	b.bandwidth = b.step * (1 - paddingInner)
	return b
}

// Keys returns the receiver's keys, in order.
func (b *Band) Keys() []string {
	return b.keys
}

// Bandwidth returns the width of a single band.
func (b *Band) Bandwidth() float64 {
	return b.bandwidth
}

// Step returns the distance between the starts of adjacent bands.
func (b *Band) Step() float64 {
	return b.step
}

// Position returns the start of the band for key, and false if key is not
// in the receiver.
func (b *Band) Position(key string) (float64, bool) {
	idx, ok := b.index[key]
	if !ok {
		return 0, false
	}
	return b.At(idx), true
}

// At returns the start of the band at the provided index.
func (b *Band) At(idx int) float64 {
	return b.start + b.step*float64(idx)
}

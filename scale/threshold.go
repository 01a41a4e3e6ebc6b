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

import (
	"math"
	"sort"

	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
)

// Threshold maps values to one of len(thresholds)+1 buckets: values below
// thresholds[0] fall into bucket 0, values at or above thresholds[i] and
// below thresholds[i+1] fall into bucket i+1.
type Threshold struct {
	thresholds []float64
	outputs    []string
}

// NewThreshold returns a Threshold scale.  thresholds must be ascending.
// outputs should have len(thresholds)+1 entries; missing outputs map to "".
func NewThreshold(thresholds []float64, outputs []string) *Threshold {
	return &Threshold{
		thresholds: thresholds,
		outputs:    outputs,
	}
}

// Index returns the bucket index for v.
func (t *Threshold) Index(v float64) int {
	return sort.Search(len(t.thresholds), func(i int) bool {
		return t.thresholds[i] > v
	})
}

// Map returns the output for v's bucket.
func (t *Threshold) Map(v float64) string {
	idx := t.Index(v)
	if idx >= len(t.outputs) {
		return ""
	}
	return t.outputs[idx]
}

// MapNumber returns the output for n's bucket, or noData if n is absent or
// NaN.
func (t *Threshold) MapNumber(n nullguard.Number, noData string) string {
	v, ok := n.Get()
	if !ok || math.IsNaN(v) {
		return noData
	}
	return t.Map(v)
}

// Bivariate is a two-level threshold scale: the x value selects a column
// and the y value selects a row of a color matrix.
type Bivariate struct {
	x, y   *Threshold
	matrix [][]string
}

// NewBivariate returns a Bivariate scale.  matrix is indexed [row][column],
// with len(yThresholds)+1 rows of len(xThresholds)+1 columns.
func NewBivariate(xThresholds, yThresholds []float64, matrix [][]string) *Bivariate {
	return &Bivariate{
		x:      NewThreshold(xThresholds, nil),
		y:      NewThreshold(yThresholds, nil),
		matrix: matrix,
	}
}

// Cell returns the row and column for the provided values, and false if
// either value is absent or NaN.
func (b *Bivariate) Cell(x, y nullguard.Number) (row, col int, ok bool) {
	xv, xok := x.Get()
	yv, yok := y.Get()
	if !xok || !yok || math.IsNaN(xv) || math.IsNaN(yv) {
		return 0, 0, false
	}
	return b.y.Index(yv), b.x.Index(xv), true
}

// Map returns the matrix color for the provided values, or noData if either
// is absent or the matrix has no such cell.
func (b *Bivariate) Map(x, y nullguard.Number, noData string) string {
	row, col, ok := b.Cell(x, y)
	if !ok || row >= len(b.matrix) || col >= len(b.matrix[row]) {
		return noData
	}
	return b.matrix[row][col]
}

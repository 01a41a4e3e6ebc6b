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

package geometry

import (
	"math"
	"strconv"
	"strings"
)

// Point is a pixel position on a line.  Undefined points break the line.
type Point struct {
	X, Y    float64
	Defined bool
}

// Num formats a pixel coordinate to two decimal places, as it appears in
// path data.
func Num(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		// No negative zero.
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// LinePath returns the SVG path data for a polyline through the provided
// points.  Undefined or non-finite points split the line into separate
// segments; a segment of a single point is drawn as a zero-length line so
// that round line caps render it as a dot.
func LinePath(points []Point) string {
	var sb strings.Builder
	inSegment := false
	for _, p := range points {
		if !p.Defined || !Finite(p.X, p.Y) {
			inSegment = false
			continue
		}
		if sb.Len() > 0 && !inSegment {
			sb.WriteByte(' ')
		}
		if inSegment {
			sb.WriteString("L")
		} else {
			sb.WriteString("M")
		}
		sb.WriteString(Num(p.X))
		sb.WriteByte(',')
		sb.WriteString(Num(p.Y))
		inSegment = true
	}
	return sb.String()
}

// Segments returns the runs of consecutive defined points.
func Segments(points []Point) [][]Point {
	var ret [][]Point
	var cur []Point
	for _, p := range points {
		if !p.Defined || !Finite(p.X, p.Y) {
			if len(cur) > 0 {
				ret = append(ret, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, p)
	}
	if len(cur) > 0 {
		ret = append(ret, cur)
	}
	return ret
}

func polar(cx, cy, r, angle float64) (float64, float64) {
	// Angles are clockwise from twelve o'clock.
	return cx + r*math.Sin(angle), cy - r*math.Cos(angle)
}

// ArcPath returns the SVG path data for an annular sector centered at
// (cx, cy) between the provided radii, sweeping clockwise from start to end
// radians (zero is twelve o'clock).  An inner radius of zero yields a pie
// slice.  Empty or non-finite sweeps yield the empty string.
func ArcPath(cx, cy, inner, outer, start, end float64) string {
	if !Finite(cx, cy, inner, outer, start, end) || !(end > start) || !(outer > 0) {
		return ""
	}
	inner = math.Max(0, math.Min(inner, outer))
	sweep := end - start
	if sweep >= 2*math.Pi {
		// A full ring can't be drawn as a single arc.
		mid := start + math.Pi
		return ArcPath(cx, cy, inner, outer, start, mid) + " " + ArcPath(cx, cy, inner, outer, mid, start+2*math.Pi)
	}
	large := "0"
	if sweep > math.Pi {
		large = "1"
	}
	ox0, oy0 := polar(cx, cy, outer, start)
	ox1, oy1 := polar(cx, cy, outer, end)
	var sb strings.Builder
	sb.WriteString("M" + Num(ox0) + "," + Num(oy0))
	sb.WriteString(" A" + Num(outer) + "," + Num(outer) + " 0 " + large + " 1 " + Num(ox1) + "," + Num(oy1))
	if inner > 0 {
		ix1, iy1 := polar(cx, cy, inner, end)
		ix0, iy0 := polar(cx, cy, inner, start)
		sb.WriteString(" L" + Num(ix1) + "," + Num(iy1))
		sb.WriteString(" A" + Num(inner) + "," + Num(inner) + " 0 " + large + " 0 " + Num(ix0) + "," + Num(iy0))
	} else {
		sb.WriteString(" L" + Num(cx) + "," + Num(cy))
	}
	sb.WriteString(" Z")
	return sb.String()
}

// Centroid returns the midpoint of an annular sector, where its label sits.
func Centroid(cx, cy, inner, outer, start, end float64) (float64, float64) {
	return polar(cx, cy, (inner+outer)/2, (start+end)/2)
}

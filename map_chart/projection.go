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

package mapchart

import (
	"math"
	"strings"

	"github.com/UNDP-Data/undp-visualization-library-sub001/geometry"
	"github.com/paulmach/orb"
)

// Projection maps a (longitude, latitude) pair in degrees to a pixel
// position.
type Projection func(lon, lat float64) (x, y float64)

// Equirectangular returns a plate carrée projection scaling degrees by
// scale and translating the origin to (tx, ty).  Latitude grows upward.
func Equirectangular(scale, tx, ty float64) Projection {
	return func(lon, lat float64) (float64, float64) {
		return tx + lon*scale, ty - lat*scale
	}
}

const maxMercatorLat = 85.05112878

func mercatorY(lat float64) float64 {
	lat = math.Max(-maxMercatorLat, math.Min(maxMercatorLat, lat))
	return math.Log(math.Tan(math.Pi/4 + lat*math.Pi/360))
}

// Mercator returns a spherical Mercator projection scaling radians by
// scale and translating the origin to (tx, ty).  Latitudes are clamped to
// the usual web-map limit.
func Mercator(scale, tx, ty float64) Projection {
	return func(lon, lat float64) (float64, float64) {
		return tx + lon*math.Pi/180*scale, ty - mercatorY(lat)*scale
	}
}

// FitEquirectangular returns the equirectangular projection that fits the
// provided bound within the plot, centered, preserving aspect ratio.  An
// empty or degenerate bound is centered at the plot's midpoint.
func FitEquirectangular(bound orb.Bound, plot geometry.Rect) Projection {
	w := bound.Max.Lon() - bound.Min.Lon()
	h := bound.Max.Lat() - bound.Min.Lat()
	scale := 1.0
	switch {
	case w > 0 && h > 0:
		scale = math.Min(plot.Width/w, plot.Height/h)
	case w > 0:
		scale = plot.Width / w
	case h > 0:
		scale = plot.Height / h
	}
	cx, cy := plot.X+plot.Width/2, plot.Y+plot.Height/2
	midLon := (bound.Min.Lon() + bound.Max.Lon()) / 2
	midLat := (bound.Min.Lat() + bound.Max.Lat()) / 2
	return Equirectangular(scale, cx-midLon*scale, cy+midLat*scale)
}

func writeLine(sb *strings.Builder, p Projection, pts []orb.Point, closed bool) {
	moved := false
	for _, pt := range pts {
		x, y := p(pt.Lon(), pt.Lat())
		if !geometry.Finite(x, y) {
			continue
		}
		if moved {
			sb.WriteByte('L')
		} else {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteByte('M')
			moved = true
		}
		sb.WriteString(geometry.Num(x))
		sb.WriteByte(',')
		sb.WriteString(geometry.Num(y))
	}
	if closed && moved {
		sb.WriteByte('Z')
	}
}

// Path returns the SVG path data for the provided geometry under the
// provided projection.  Points are drawn as nothing; use Centroid to place
// marks at them.
func Path(g orb.Geometry, p Projection) string {
	var sb strings.Builder
	var walk func(g orb.Geometry)
	walk = func(g orb.Geometry) {
		switch g := g.(type) {
		case orb.LineString:
			writeLine(&sb, p, g, false)
		case orb.MultiLineString:
			for _, ls := range g {
				writeLine(&sb, p, ls, false)
			}
		case orb.Ring:
			writeLine(&sb, p, g, true)
		case orb.Polygon:
			for _, r := range g {
				writeLine(&sb, p, r, true)
			}
		case orb.MultiPolygon:
			for _, poly := range g {
				walk(poly)
			}
		case orb.Collection:
			for _, child := range g {
				walk(child)
			}
		}
	}
	walk(g)
	return sb.String()
}

// Centroid returns the projected center of the provided geometry's bound.
func Centroid(g orb.Geometry, p Projection) (x, y float64) {
	if g == nil {
		return 0, 0
	}
	c := g.Bound().Center()
	return p(c.Lon(), c.Lat())
}

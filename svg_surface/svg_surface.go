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

// Package svgsurface draws chart shapes as a standalone SVG document, for
// offline rendering of a single frame.
package svgsurface

import (
	"fmt"
	"html"
	"io"
	"math"

	"github.com/UNDP-Data/undp-visualization-library-sub001/geometry"
	svg "github.com/ajstarks/svgo"
)

// Settings configures a drawing.
type Settings struct {
	Width, Height float64
	// Background fills the whole surface, if set.
	Background string
	// FontSize is the text size in pixels; zero uses DefaultFontSize.
	FontSize float64
	// Title is the document title, if set.
	Title string
}

// DefaultFontSize is the text size used when none is set.
const DefaultFontSize = 12

func px(v float64) int {
	return int(math.Round(v))
}

func attr(name, value string) string {
	return fmt.Sprintf(`%s="%s"`, name, html.EscapeString(value))
}

func num(name string, v float64) string {
	return fmt.Sprintf(`%s="%s"`, name, geometry.Num(v))
}

// paint returns the presentation attributes of s.
func paint(s geometry.Shape) []string {
	fill := s.Fill
	if fill == "" || s.Kind == geometry.LineKind {
		fill = "none"
	}
	ret := []string{attr("fill", fill)}
	if s.Stroke != "" {
		ret = append(ret, attr("stroke", s.Stroke))
		if s.StrokeWidth > 0 {
			ret = append(ret, num("stroke-width", s.StrokeWidth))
		}
	}
	if s.Opacity < 1 {
		ret = append(ret, num("opacity", s.Opacity))
	}
	if s.Marker != "" {
		ret = append(ret, attr("marker-end", "url(#"+s.Marker+")"))
	}
	return ret
}

func markers(shapes []geometry.Shape) []string {
	seen := map[string]bool{}
	var ret []string
	for _, s := range shapes {
		if s.Marker != "" && !seen[s.Marker] {
			seen[s.Marker] = true
			ret = append(ret, s.Marker)
		}
	}
	return ret
}

// Draw writes shapes to w as an SVG document.  Fully transparent shapes,
// such as the placeholders of absent values, are skipped.  Coordinates are
// rounded to whole pixels; path data is written as is.
func Draw(w io.Writer, settings Settings, shapes []geometry.Shape) {
	fontSize := settings.FontSize
	if fontSize <= 0 {
		fontSize = DefaultFontSize
	}
	canvas := svg.New(w)
	canvas.Start(px(settings.Width), px(settings.Height),
		num("font-size", fontSize), `font-family="ProximaNova,sans-serif"`)
	defer canvas.End()
	if settings.Title != "" {
		canvas.Title(settings.Title)
	}
	if ms := markers(shapes); len(ms) > 0 {
		canvas.Def()
		for _, id := range ms {
			canvas.Marker(id, 5, 5, 10, 10, `orient="auto-start-reverse"`, `markerUnits="strokeWidth"`, `viewBox="0 0 10 10"`)
			canvas.Path("M0,0 L10,5 L0,10 Z", `fill="context-stroke"`)
			canvas.MarkerEnd()
		}
		canvas.DefEnd()
	}
	if settings.Background != "" {
		canvas.Rect(0, 0, px(settings.Width), px(settings.Height), attr("fill", settings.Background))
	}
	for _, s := range shapes {
		if s.Opacity <= 0 {
			continue
		}
		drawShape(canvas, s)
	}
}

func drawShape(canvas *svg.SVG, s geometry.Shape) {
	p := paint(s)
	switch s.Kind {
	case geometry.RectKind:
		canvas.Rect(px(s.X), px(s.Y), px(s.Width), px(s.Height), p...)
	case geometry.CircleKind:
		canvas.Circle(px(s.X), px(s.Y), px(s.R), p...)
	case geometry.LineKind:
		canvas.Line(px(s.X), px(s.Y), px(s.X2), px(s.Y2), p...)
	case geometry.PathKind:
		if s.D != "" {
			canvas.Path(s.D, p...)
		}
	case geometry.TextKind:
		if s.Anchor != "" {
			p = append(p, attr("text-anchor", s.Anchor))
		}
		canvas.Text(px(s.X), px(s.Y), s.Text, p...)
	}
}

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

package style

import (
	"testing"

	"github.com/UNDP-Data/undp-visualization-library-sub001/scene"
	testutil "github.com/UNDP-Data/undp-visualization-library-sub001/test_util"
)

func TestStyle(t *testing.T) {
	for _, test := range []struct {
		description string
		style       *Style
		want        []scene.PropertyUpdate
	}{{
		description: "empty",
		style:       New(),
	}, {
		description: "text",
		style:       New().FontSize(12).TextAnchor("middle"),
		want: []scene.PropertyUpdate{
			scene.StringProperty("style_font-size", "12.00px"),
			scene.StringProperty("style_text-anchor", "middle"),
		},
	}, {
		description: "dashed connector with arrow",
		style:       New().StrokeWidth(1.5).Dash(4, 2).MarkerEnd("arrow"),
		want: []scene.PropertyUpdate{
			scene.StringProperty("style_stroke-width", "1.50px"),
			scene.StringProperty("style_stroke-dasharray", "4 2"),
			scene.StringProperty("style_marker-end", "url(#arrow)"),
		},
	}, {
		description: "cleared attributes",
		style:       New().StrokeWidth(2).StrokeWidth(0).Dash(1).Dash().With("fill", "red"),
		want: []scene.PropertyUpdate{
			scene.StringProperty("style_fill", "red"),
		},
	}} {
		t.Run(test.description, func(t *testing.T) {
			if msg, failed := testutil.NewUpdateComparator().
				WithTestUpdates(test.style.Define()).
				WithWantUpdates(test.want...).
				Compare(t); failed {
				t.Fatal(msg)
			}
		})
	}
}

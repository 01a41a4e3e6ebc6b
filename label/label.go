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

// Package label supports labeling renderable items.
package label

import (
	"github.com/UNDP-Data/undp-visualization-library-sub001/scene"
	"github.com/google/safehtml"
)

const (
	// labelFormatKey specifies the label format string used to label nodes.
	labelFormatKey = "label_format"
	labelTextKey   = "label_text"
	tooltipKey     = "tooltip_html"
	detailKey      = "detail_html"
)

// Format returns a PropertyUpdate that labels with the provided label
// format.  labelFormat is a template whose {{path}} placeholders are
// resolved against each labeled datum by the client.
func Format(labelFormat string) scene.PropertyUpdate {
	return scene.StringProperty(labelFormatKey, labelFormat)
}

// Text returns a PropertyUpdate that labels with already-rendered text.
// Empty text leaves the node unlabeled.
func Text(text string) scene.PropertyUpdate {
	return scene.If(text != "", scene.StringProperty(labelTextKey, text))
}

// Tooltip attaches sanitized tooltip markup.
func Tooltip(h safehtml.HTML) scene.PropertyUpdate {
	return scene.If(h.String() != "", scene.StringProperty(tooltipKey, h.String()))
}

// Detail attaches sanitized detail-panel markup.
func Detail(h safehtml.HTML) scene.PropertyUpdate {
	return scene.If(h.String() != "", scene.StringProperty(detailKey, h.String()))
}

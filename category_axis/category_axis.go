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

// Package categoryaxis provides helpers for defining category axis data.
//
// A category axis divides its extent into one band per category, as the
// bars of a bar chart or the rows of a dumbbell chart are laid out.  The
// axis along which bands are placed is termed the category ('Cat') axis;
// the other axis is the value ('Val') axis.
package categoryaxis

import (
	"github.com/UNDP-Data/undp-visualization-library-sub001/category"
	"github.com/UNDP-Data/undp-visualization-library-sub001/scale"
	"github.com/UNDP-Data/undp-visualization-library-sub001/scene"
)

const (
	axisTypeKey        = "axis_type"
	bandAxisType       = "band"
	bandKeysKey        = "band_keys"
	bandStartsPxKey    = "band_starts_px"
	bandWidthPxKey     = "band_width_px"
	bandLabelsKey      = "band_labels"
	labelPaddingValKey = "category_label_padding_val_px"
	labelWidthValKey   = "category_label_width_val_px"
	truncateLabelsKey  = "category_truncate_labels"
)

// RenderSettings is a collection of rendering settings for category axes.
// Settings are pixel extents, suffixed 'ValPx' for an extent along the value
// axis.
type RenderSettings struct {
	// The gap between a category label and its band, along the value axis.
	LabelPaddingValPx int64
	// The space reserved for category labels along the value axis.  If y is
	// the category axis, this is the width of the label gutter at the left.
	LabelWidthValPx int64
	// Whether labels that don't fit LabelWidthValPx are truncated.
	TruncateLabels bool
}

// Define applies the receiver as a set of properties.
func (rs *RenderSettings) Define() scene.PropertyUpdate {
	return scene.Chain(
		scene.IntegerProperty(labelPaddingValKey, rs.LabelPaddingValPx),
		scene.IntegerProperty(labelWidthValKey, rs.LabelWidthValPx),
		scene.If(rs.TruncateLabels, scene.IntegerProperty(truncateLabelsKey, 1)),
	)
}

// Band annotates with a definition of a category axis laid out by b.
// labels maps band keys to their display text; keys missing from labels are
// displayed as themselves.
func Band(cat *category.Category, b *scale.Band, labels map[string]string) scene.PropertyUpdate {
	keys := b.Keys()
	starts := make([]float64, len(keys))
	texts := make([]string, len(keys))
	for idx, key := range keys {
		starts[idx] = b.At(idx)
		texts[idx] = key
		if label, ok := labels[key]; ok {
			texts[idx] = label
		}
	}
	return scene.Chain(
		cat.Define(),
		scene.StringProperty(axisTypeKey, bandAxisType),
		scene.StringsProperty(bandKeysKey, keys...),
		scene.DoublesProperty(bandStartsPxKey, starts...),
		scene.DoubleProperty(bandWidthPxKey, b.Bandwidth()),
		scene.StringsProperty(bandLabelsKey, texts...),
	)
}

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

// Package category declares data categories, such as the series of a
// grouped bar chart or the color classes of a legend, and tags scene nodes
// as belonging to them.  A node may define one Category; any number of
// nodes elsewhere in the scene may then be tagged with it.
package category

import (
	"github.com/UNDP-Data/undp-visualization-library-sub001/color"
	"github.com/UNDP-Data/undp-visualization-library-sub001/scene"
)

const (
	definedIDKey   = "category_defined_id"
	displayNameKey = "category_display_name"
	descriptionKey = "category_description"
	idsKey         = "category_ids"

	opacityKey  = "opacity"
	selectedKey = "selected"
)

// Category is a data category.
type Category struct {
	id, displayName, description string
}

// New returns a new Category.
func New(id, displayName, description string) *Category {
	return &Category{
		id:          id,
		displayName: displayName,
		description: description,
	}
}

// ID returns the receiver's ID.
func (c *Category) ID() string {
	return c.id
}

// DisplayName returns the receiver's display name.
func (c *Category) DisplayName() string {
	return c.displayName
}

// Define annotates a node with the receiver's definition.  Only the last
// Category defined on a node takes effect.
func (c *Category) Define() scene.PropertyUpdate {
	return scene.Chain(
		scene.StringProperty(definedIDKey, c.id),
		scene.StringProperty(displayNameKey, c.displayName),
		scene.StringProperty(descriptionKey, c.description),
	)
}

// Tag annotates a node as belonging to the receiver.  Successive Tags
// accumulate.
func (c *Category) Tag() scene.PropertyUpdate {
	return scene.StringsPropertyExtended(idsKey, c.id)
}

// Tag annotates a node as belonging to all provided Categories.
func Tag(cats ...*Category) scene.PropertyUpdate {
	ids := make([]string, len(cats))
	for idx, cat := range cats {
		ids[idx] = cat.id
	}
	return scene.StringsPropertyExtended(idsKey, ids...)
}

// Entry is one legend entry: a category and its color.
type Entry struct {
	Category *Category
	Color    string
}

// Legend adds one child to b per entry.  If selected names one of the
// entries, every other entry is drawn at dimOpacity.
func Legend(b scene.Builder, entries []Entry, selected string, dimOpacity float64) {
	for _, e := range entries {
		opacity := 1.0
		if selected != "" && selected != e.Category.id {
			opacity = dimOpacity
		}
		b.Child().With(
			e.Category.Define(),
			color.Fill(e.Color),
			scene.DoubleProperty(opacityKey, opacity),
			scene.If(selected == e.Category.id, scene.IntegerProperty(selectedKey, 1)),
		)
	}
}

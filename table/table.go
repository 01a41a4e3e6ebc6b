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

// Package table describes data tables, such as the tabular view of one
// chart frame, in a scene.  A table owns the scene.Builder it is created
// in:
//
//	t := table.New(b, layout, columns...)
//	t.Row(table.Text(labelCol, "Kenya"), table.Number(gdpCol, "110B", gdp))
//
// In the scene, the table node's first child lists the column definitions
// and each later child is a row.  A row's children are its cells, in the
// order given, followed by any payloads attached to the row.
package table

import (
	"math"

	"github.com/UNDP-Data/undp-visualization-library-sub001/category"
	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
	"github.com/UNDP-Data/undp-visualization-library-sub001/scene"
)

const (
	cellKey     = "table_cell"
	rawValueKey = "table_raw_value"

	rowHeightPxKey = "table_row_height_px"
	fontSizePxKey  = "table_font_size_px"

	sortByKey         = "table_sort_by"
	sortDescendingKey = "table_sort_descending"
)

// Layout sizes a table's rows and text.
type Layout struct {
	RowHeightPx int64
	FontSizePx  int64
}

func (l *Layout) define() scene.PropertyUpdate {
	if l == nil {
		return scene.EmptyUpdate
	}
	return scene.Chain(
		scene.IntegerProperty(rowHeightPxKey, l.RowHeightPx),
		scene.IntegerProperty(fontSizePxKey, l.FontSizePx),
	)
}

// Column is a table column, identified by its category.
type Column struct {
	cat        *category.Category
	properties []scene.PropertyUpdate
}

// NewColumn returns a column for the provided category.  The provided
// properties decorate the column's definition.
func NewColumn(cat *category.Category, properties ...scene.PropertyUpdate) *Column {
	return &Column{
		cat:        cat,
		properties: properties,
	}
}

// ID returns the column's category ID.
func (c *Column) ID() string {
	return c.cat.ID()
}

// Cell is the content of one cell in a row.
type Cell struct {
	column *Column
	update scene.PropertyUpdate
}

// Value returns a cell of the provided column holding v.
func Value(column *Column, v scene.Value) Cell {
	return Cell{column, v(cellKey)}
}

// Text returns a cell of the provided column displaying s.
func Text(column *Column, s string) Cell {
	return Value(column, scene.String(s))
}

// Number returns a cell of the provided column displaying formatted, the
// display form of n.  If n is present and finite, it also carries n's raw
// value, so that clients can sort and compare by it.
func Number(column *Column, formatted string, n nullguard.Number) Cell {
	v, ok := n.Get()
	return Cell{column, scene.Chain(
		scene.StringProperty(cellKey, formatted),
		scene.If(ok && !math.IsNaN(v) && !math.IsInf(v, 0), scene.DoubleProperty(rawValueKey, v)),
	)}
}

// Table is a table embedded in a scene.
type Table struct {
	b scene.Builder
}

// New defines a table with the provided columns in b.  A nil layout leaves
// sizing to the client.
func New(b scene.Builder, layout *Layout, columns ...*Column) *Table {
	defs := b.Child()
	for _, c := range columns {
		defs.Child().With(c.cat.Define()).With(c.properties...)
	}
	b.With(layout.define())
	return &Table{b: b}
}

// With annotates the table with the provided properties.
func (t *Table) With(properties ...scene.PropertyUpdate) *Table {
	t.b.With(properties...)
	return t
}

// SortedBy records that the table's rows are ordered by the provided
// column.
func (t *Table) SortedBy(column *Column, descending bool) *Table {
	return t.With(
		scene.StringProperty(sortByKey, column.ID()),
		scene.If(descending, scene.IntegerProperty(sortDescendingKey, 1)),
	)
}

// Row is a table row.  Payloads, such as the datum a row shows, may be
// attached to it.
type Row struct {
	b scene.Builder
}

// Row appends a row holding the provided cells.
func (t *Table) Row(cells ...Cell) *Row {
	rb := t.b.Child()
	for _, c := range cells {
		rb.Child().With(c.column.cat.Tag(), c.update)
	}
	return &Row{b: rb}
}

// Payload allows Row to implement payload.Payloader.
func (r *Row) Payload() scene.Builder {
	return r.b.Child()
}

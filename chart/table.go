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

package chart

import (
	"strconv"

	"github.com/UNDP-Data/undp-visualization-library-sub001/category"
	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
	"github.com/UNDP-Data/undp-visualization-library-sub001/payload"
	"github.com/UNDP-Data/undp-visualization-library-sub001/record"
	"github.com/UNDP-Data/undp-visualization-library-sub001/scene"
	"github.com/UNDP-Data/undp-visualization-library-sub001/table"
)

var (
	tableLayout = &table.Layout{RowHeightPx: 20, FontSizePx: 14}

	labelColumn = table.NewColumn(category.New(record.LabelKey, "Label", "The record label"))
	dateColumn  = table.NewColumn(category.New(record.DateKey, "Date", "The frame date"))
	colorColumn = table.NewColumn(category.New(record.ColorKey, "Color", "The color key"))
)

// valueColumn is a numeric table column.
type valueColumn struct {
	column *table.Column
	value  func(r *record.Record) nullguard.Number
}

func scalarColumn(id, name string, acc record.Accessor) valueColumn {
	return valueColumn{
		column: table.NewColumn(category.New(id, name, "")),
		value: func(r *record.Record) nullguard.Number {
			if vs := acc(r); len(vs) > 0 {
				return vs[0]
			}
			return nullguard.Absent
		},
	}
}

func (r *Renderer) arrayColumns(prefix string, n int, acc record.Accessor) []valueColumn {
	ret := make([]valueColumn, n)
	for i := range ret {
		idx := i
		ret[i] = valueColumn{
			column: table.NewColumn(category.New(prefix+"_"+strconv.Itoa(idx), r.seriesName(idx), "")),
			value: func(rec *record.Record) nullguard.Number {
				if vs := acc(rec); idx < len(vs) {
					return vs[idx]
				}
				return nullguard.Absent
			},
		}
	}
	return ret
}

// valueColumns returns the value columns of the receiver's chart kind.
func (r *Renderer) valueColumns(all []record.Record) []valueColumn {
	switch r.spec.Kind {
	case GroupedBarKind, StackedBarKind:
		return r.arrayColumns(record.SizeKey, maxLen(all, record.SizesField), record.SizesField)
	case DumbbellKind:
		return r.arrayColumns(record.XKey, maxLen(all, record.XsField), record.XsField)
	case ButterflyKind:
		return []valueColumn{
			scalarColumn(record.LeftBarKey, "Left", record.LeftBarField),
			scalarColumn(record.RightBarKey, "Right", record.RightBarField),
		}
	case ScatterKind:
		return []valueColumn{
			scalarColumn(record.XKey, "X", record.XField),
			scalarColumn(record.YKey, "Y", record.YField),
			scalarColumn(record.RadiusKey, "Radius", record.RadiusField),
		}
	case LineKind:
		return []valueColumn{scalarColumn(record.YKey, "Value", record.YField)}
	case ChoroplethKind:
		return []valueColumn{scalarColumn(record.XKey, "Value", record.XField)}
	case BivariateKind:
		return []valueColumn{
			scalarColumn(record.XKey, "X", record.XField),
			scalarColumn(record.YKey, "Y", record.YField),
		}
	case DotDensityKind:
		return []valueColumn{
			scalarColumn(record.LatKey, "Latitude", record.LatField),
			scalarColumn(record.LongKey, "Longitude", record.LongField),
			scalarColumn(record.RadiusKey, "Radius", record.RadiusField),
		}
	case StripKind:
		return []valueColumn{scalarColumn(record.PositionKey, "Position", record.PositionField)}
	}
	return []valueColumn{scalarColumn(record.SizeKey, "Value", record.SizeField)}
}

// RenderTable writes the frame at idx of in to b as a data table, one row
// per datum in frame order.  Values are formatted as chart labels are; the
// raw value of each present cell rides along.  An empty series yields a
// table with columns but no rows.
func (r *Renderer) RenderTable(b scene.Builder, in Input, idx int) error {
	series, f, err := r.frame(in, idx)
	if err != nil {
		return err
	}
	values := r.valueColumns(allRecords(series))
	columns := []*table.Column{labelColumn, dateColumn, colorColumn}
	for _, vc := range values {
		columns = append(columns, vc.column)
	}
	t := table.New(b, tableLayout, columns...).With(
		scene.IntegerProperty(frameCountKey, int64(series.Len())),
		scene.IntegerProperty(frameIndexKey, int64(series.Clamp(idx))),
	)
	if r.spec.AutoSort && len(values) > 0 {
		t.SortedBy(values[0].column, r.spec.SortOrder != "ascending")
	}
	if f == nil {
		return nil
	}
	format := r.format()
	for i := range f.Data {
		d := &f.Data[i]
		cells := []table.Cell{
			table.Text(labelColumn, d.Label),
			table.Text(dateColumn, d.Date),
			table.Text(colorColumn, d.Color),
		}
		for _, vc := range values {
			n := vc.value(&d.Record)
			cells = append(cells, table.Number(vc.column, format.Format(n), n))
		}
		payload.Datum(t.Row(cells...), d)
	}
	return nil
}

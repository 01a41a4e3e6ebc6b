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

package datasource

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
	"github.com/UNDP-Data/undp-visualization-library-sub001/record"
	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// listSeparator separates the entries of array-valued cells, such as the
// sizes of a grouped bar, in tabular datasets.
const listSeparator = ";"

// Dataset is a fetched collection: chart records, map features, or both.
type Dataset struct {
	Records  []record.Record
	Features *geojson.FeatureCollection
}

// Load reads the dataset at path, decoding it by its extension: .json holds
// a record array, .csv and .xlsx hold one record per row under a header
// row, and .geojson holds a feature collection.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return Decode(filepath.Ext(path), data)
}

// Decode decodes a dataset of the type named by ext.
func Decode(ext string, data []byte) (*Dataset, error) {
	switch strings.ToLower(ext) {
	case ".json":
		records, err := record.Decode(data)
		if err != nil {
			return nil, err
		}
		return &Dataset{Records: records}, nil
	case ".csv":
		rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		if err != nil {
			return nil, fmt.Errorf("failed to decode CSV dataset: %w", err)
		}
		records, err := recordsFromRows(rows)
		if err != nil {
			return nil, err
		}
		return &Dataset{Records: records}, nil
	case ".xlsx":
		rows, err := xlsxRows(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		records, err := recordsFromRows(rows)
		if err != nil {
			return nil, err
		}
		return &Dataset{Records: records}, nil
	case ".geojson":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode map features: %w", err)
		}
		return &Dataset{Features: fc}, nil
	}
	return nil, fmt.Errorf("unsupported dataset type '%s'", ext)
}

// xlsxRows returns the rows of the first sheet of a workbook.
func xlsxRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet '%s': %w", sheets[0], err)
	}
	return rows, nil
}

// recordsFromRows converts tabular rows to records.  The first row names
// each column by its record field; unrecognized columns land in the
// record's Data payload.  Blank rows are skipped.
func recordsFromRows(rows [][]string) ([]record.Record, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	header := make([]string, len(rows[0]))
	for idx, h := range rows[0] {
		header[idx] = strings.TrimSpace(h)
	}
	ret := make([]record.Record, 0, len(rows)-1)
	for rowIdx, row := range rows[1:] {
		if blank(row) {
			continue
		}
		var r record.Record
		for col, cell := range row {
			if col >= len(header) || header[col] == "" {
				continue
			}
			if err := setField(&r, header[col], strings.TrimSpace(cell)); err != nil {
				// Row numbers are 1-based and count the header.
				return nil, fmt.Errorf("row %d, column '%s': %w", rowIdx+2, header[col], err)
			}
		}
		ret = append(ret, r)
	}
	return ret, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func number(cell string) (nullguard.Number, error) {
	if cell == "" {
		return nullguard.Absent, nil
	}
	v, err := cast.ToFloat64E(cell)
	if err != nil {
		return nullguard.Absent, err
	}
	return nullguard.Of(v), nil
}

func numbers(cell string) ([]nullguard.Number, error) {
	parts := strings.Split(cell, listSeparator)
	ret := make([]nullguard.Number, len(parts))
	for idx, p := range parts {
		n, err := number(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		ret[idx] = n
	}
	return ret, nil
}

// setField sets the field of r named key from a tabular cell.  'size' and
// 'x' cells holding a separated list populate Sizes and Xs.
func setField(r *record.Record, key, cell string) error {
	var err error
	switch key {
	case record.LabelKey:
		r.Label = cell
	case record.DateKey:
		r.Date = cell
	case record.ColorKey:
		r.Color = cell
	case record.CountryCodeKey:
		r.CountryCode = cell
	case record.SizeKey:
		if strings.Contains(cell, listSeparator) {
			r.Sizes, err = numbers(cell)
		} else {
			r.Size, err = number(cell)
		}
	case record.XKey:
		if strings.Contains(cell, listSeparator) {
			r.Xs, err = numbers(cell)
		} else {
			r.X, err = number(cell)
		}
	case record.YKey:
		r.Y, err = number(cell)
	case record.LeftBarKey:
		r.LeftBar, err = number(cell)
	case record.RightBarKey:
		r.RightBar, err = number(cell)
	case record.RadiusKey:
		r.Radius, err = number(cell)
	case record.PositionKey:
		r.Position, err = number(cell)
	case record.LatKey:
		r.Lat, err = number(cell)
	case record.LongKey:
		r.Long, err = number(cell)
	default:
		if cell == "" {
			return nil
		}
		if r.Data == nil {
			r.Data = map[string]any{}
		}
		if v, err := cast.ToFloat64E(cell); err == nil {
			r.Data[key] = v
		} else {
			r.Data[key] = cell
		}
	}
	return err
}

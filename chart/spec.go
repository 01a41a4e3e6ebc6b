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
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/UNDP-Data/undp-visualization-library-sub001/geometry"
	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
	"gopkg.in/yaml.v3"
)

// Kind is a chart family.
type Kind string

// Supported chart kinds.
const (
	BarKind        Kind = "bar"
	GroupedBarKind Kind = "grouped-bar"
	StackedBarKind Kind = "stacked-bar"
	ButterflyKind  Kind = "butterfly"
	ScatterKind    Kind = "scatter"
	LineKind       Kind = "line"
	DumbbellKind   Kind = "dumbbell"
	DonutKind      Kind = "donut"
	ChoroplethKind Kind = "choropleth"
	BivariateKind  Kind = "bivariate-map"
	DotDensityKind Kind = "dot-density"
	StripKind      Kind = "strip"
)

var kinds = map[Kind]bool{
	BarKind: true, GroupedBarKind: true, StackedBarKind: true, ButterflyKind: true,
	ScatterKind: true, LineKind: true, DumbbellKind: true, DonutKind: true,
	ChoroplethKind: true, BivariateKind: true, DotDensityKind: true, StripKind: true,
}

// IsMap returns true for chart kinds drawn over map features.
func (k Kind) IsMap() bool {
	return k == ChoroplethKind || k == BivariateKind || k == DotDensityKind
}

// Margin is the space around the plot area, in pixels.
type Margin struct {
	Top    float64 `json:"top" yaml:"top" toml:"top"`
	Right  float64 `json:"right" yaml:"right" toml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom" toml:"bottom"`
	Left   float64 `json:"left" yaml:"left" toml:"left"`
}

// Overlays holds the declarative decorations drawn over a chart.
type Overlays struct {
	ReferenceX  []geometry.ReferenceMarker `json:"refX" yaml:"refX" toml:"refX"`
	ReferenceY  []geometry.ReferenceMarker `json:"refY" yaml:"refY" toml:"refY"`
	Annotations []geometry.Annotation      `json:"annotations" yaml:"annotations" toml:"annotations"`
	HighlightX  []geometry.HighlightArea   `json:"highlightAreaX" yaml:"highlightAreaX" toml:"highlightAreaX"`
	HighlightY  []geometry.HighlightArea   `json:"highlightAreaY" yaml:"highlightAreaY" toml:"highlightAreaY"`
}

// Spec is the complete configuration of one chart.
type Spec struct {
	Kind   Kind    `json:"kind" yaml:"kind" toml:"kind"`
	Width  float64 `json:"width" yaml:"width" toml:"width"`
	Height float64 `json:"height" yaml:"height" toml:"height"`
	Margin Margin  `json:"margin" yaml:"margin" toml:"margin"`
	// "vertical" or "horizontal"; each family has its own default.
	Orientation string `json:"orientation" yaml:"orientation" toml:"orientation"`

	DateFormat string `json:"dateFormat" yaml:"dateFormat" toml:"dateFormat"`
	AutoSort   bool   `json:"autoSort" yaml:"autoSort" toml:"autoSort"`
	// "descending" (the default) or "ascending".
	SortOrder string `json:"sortOrder" yaml:"sortOrder" toml:"sortOrder"`
	// "label" (the default) or "id".
	KeyBy string `json:"keyBy" yaml:"keyBy" toml:"keyBy"`

	MinValue nullguard.Number `json:"minValue" yaml:"minValue" toml:"minValue"`
	MaxValue nullguard.Number `json:"maxValue" yaml:"maxValue" toml:"maxValue"`
	// Scatter and bivariate charts have a second value axis.
	MinX nullguard.Number `json:"minXValue" yaml:"minXValue" toml:"minXValue"`
	MaxX nullguard.Number `json:"maxXValue" yaml:"maxXValue" toml:"maxXValue"`
	MinY nullguard.Number `json:"minYValue" yaml:"minYValue" toml:"minYValue"`
	MaxY nullguard.Number `json:"maxYValue" yaml:"maxYValue" toml:"maxYValue"`

	// Radius is the fixed mark radius.  If MaxRadius is set, marks are
	// sized by their radius field up to it instead.
	Radius         float64          `json:"radius" yaml:"radius" toml:"radius"`
	MaxRadius      float64          `json:"maxRadius" yaml:"maxRadius" toml:"maxRadius"`
	MinRadius      float64          `json:"minRadius" yaml:"minRadius" toml:"minRadius"`
	MaxRadiusValue nullguard.Number `json:"maxRadiusValue" yaml:"maxRadiusValue" toml:"maxRadiusValue"`

	// Colors overrides the theme's categorical palette, and ColorDomain
	// fixes the order in which color keys take palette entries.
	Colors      []string `json:"colors" yaml:"colors" toml:"colors"`
	ColorDomain []string `json:"colorDomain" yaml:"colorDomain" toml:"colorDomain"`
	// ColorLegendTitle titles the legend.
	ColorLegendTitle string `json:"colorLegendTitle" yaml:"colorLegendTitle" toml:"colorLegendTitle"`
	// Thresholds are the choropleth color breaks.  If empty, evenly spaced
	// breaks for Buckets colors are derived from the data.
	Thresholds []float64 `json:"thresholds" yaml:"thresholds" toml:"thresholds"`
	Buckets    int       `json:"buckets" yaml:"buckets" toml:"buckets"`
	// XThresholds and YThresholds are the bivariate color breaks.
	XThresholds []float64 `json:"xThresholds" yaml:"xThresholds" toml:"xThresholds"`
	YThresholds []float64 `json:"yThresholds" yaml:"yThresholds" toml:"yThresholds"`
	// MapProperty is the feature property joined to record country codes.
	MapProperty string `json:"mapProperty" yaml:"mapProperty" toml:"mapProperty"`

	Prefix     string  `json:"prefix" yaml:"prefix" toml:"prefix"`
	Suffix     string  `json:"suffix" yaml:"suffix" toml:"suffix"`
	Language   string  `json:"language" yaml:"language" toml:"language"`
	FontSize   float64 `json:"fontSize" yaml:"fontSize" toml:"fontSize"`
	ShowValues bool    `json:"showValues" yaml:"showValues" toml:"showValues"`
	ShowLabels bool    `json:"showLabels" yaml:"showLabels" toml:"showLabels"`
	// TruncateBelow hides bars whose magnitude is at or below it.
	TruncateBelow nullguard.Number `json:"truncateBy" yaml:"truncateBy" toml:"truncateBy"`
	BarPadding    float64          `json:"barPadding" yaml:"barPadding" toml:"barPadding"`
	// Series names the entries of array-valued records (grouped and stacked
	// bars, dumbbells) in the legend.
	Series []string `json:"series" yaml:"series" toml:"series"`
	Arrow  bool     `json:"arrowConnector" yaml:"arrowConnector" toml:"arrowConnector"`
	// Donut ring width; zero draws a pie.
	StrokeWidth float64 `json:"strokeWidth" yaml:"strokeWidth" toml:"strokeWidth"`
	// Strip chart mark: "dot" or "strip".
	Mark string `json:"mark" yaml:"mark" toml:"mark"`

	Overlays Overlays `json:"overlays" yaml:"overlays" toml:"overlays"`

	Tooltip                     string `json:"tooltip" yaml:"tooltip" toml:"tooltip"`
	DetailsOnClick              string `json:"detailsOnClick" yaml:"detailsOnClick" toml:"detailsOnClick"`
	ResetSelectionOnDoubleClick bool   `json:"resetSelectionOnDoubleClick" yaml:"resetSelectionOnDoubleClick" toml:"resetSelectionOnDoubleClick"`
	// Duration is the frame transition time, in milliseconds.
	Duration int64 `json:"duration" yaml:"duration" toml:"duration"`
}

// Validate checks the receiver for settings no chart could draw.
func (s *Spec) Validate() error {
	if !kinds[s.Kind] {
		return fmt.Errorf("unknown chart kind '%s'", s.Kind)
	}
	if !(s.Width > 0) || !(s.Height > 0) {
		return fmt.Errorf("chart size %vx%v must be positive", s.Width, s.Height)
	}
	switch s.Orientation {
	case "", "vertical", "horizontal":
	default:
		return fmt.Errorf("unknown orientation '%s'", s.Orientation)
	}
	switch s.SortOrder {
	case "", "ascending", "descending":
	default:
		return fmt.Errorf("unknown sort order '%s'", s.SortOrder)
	}
	switch s.KeyBy {
	case "", "label", "id":
	default:
		return fmt.Errorf("unknown key '%s'", s.KeyBy)
	}
	switch s.Mark {
	case "", "dot", "strip":
	default:
		return fmt.Errorf("unknown strip mark '%s'", s.Mark)
	}
	if s.Buckets < 0 || s.Duration < 0 {
		return fmt.Errorf("buckets and duration must not be negative")
	}
	return nil
}

// Format is a spec encoding.
type Format string

// Supported formats.
const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// FormatOf returns the format of a file by its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return "", fmt.Errorf("unsupported spec file type '%s'", filepath.Ext(path))
}

// DecodeSpec decodes and validates a Spec in the provided format.
func DecodeSpec(data []byte, format Format) (*Spec, error) {
	s := &Spec{}
	var err error
	switch format {
	case JSON:
		err = json.Unmarshal(data, s)
	case YAML:
		err = yaml.Unmarshal(data, s)
	case TOML:
		_, err = toml.NewDecoder(bytes.NewReader(data)).Decode(s)
	default:
		err = fmt.Errorf("unsupported format '%s'", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode chart spec: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadSpec reads a Spec from a .json, .yaml, .yml or .toml file.
func LoadSpec(path string) (*Spec, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart spec: %w", err)
	}
	return DecodeSpec(data, format)
}

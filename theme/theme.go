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

// Package theme holds the colors and opacities a chart is drawn with.
//
// A Theme is passed explicitly down the rendering pipeline; nothing reads
// colors from package state.  Themes load from YAML or TOML files, and
// any field a file leaves out keeps its Default value for the file's mode.
package theme

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/UNDP-Data/undp-visualization-library-sub001/color"
	"github.com/UNDP-Data/undp-visualization-library-sub001/scale"
	"gopkg.in/yaml.v3"
)

// Mode is a light or dark color scheme.
type Mode string

// Modes.
const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// Theme is a complete set of chart colors.
type Theme struct {
	Mode Mode `json:"mode" yaml:"mode" toml:"mode"`
	// Categorical colors series and legend categories, cycling if there are
	// more categories than colors.
	Categorical []string `json:"categorical" yaml:"categorical" toml:"categorical"`
	// Sequential and Diverging are the color stops of choropleth scales.
	Sequential []string `json:"sequential" yaml:"sequential" toml:"sequential"`
	Diverging  []string `json:"diverging" yaml:"diverging" toml:"diverging"`
	// Bivariate is a matrix of colors indexed by [y class][x class].
	Bivariate [][]string `json:"bivariate" yaml:"bivariate" toml:"bivariate"`
	// Primary colors single-series marks.
	Primary string `json:"primary" yaml:"primary" toml:"primary"`
	// NoData colors map features and marks without data.
	NoData string `json:"noData" yaml:"noData" toml:"noData"`
	// Gray colors connectors, axes and reference lines.
	Gray       string `json:"gray" yaml:"gray" toml:"gray"`
	Text       string `json:"text" yaml:"text" toml:"text"`
	Background string `json:"background" yaml:"background" toml:"background"`
	// Highlight colors hovered and pinned marks.
	Highlight string `json:"highlight" yaml:"highlight" toml:"highlight"`
	// DimOpacity is applied to marks outside a selected legend color.
	DimOpacity float64 `json:"dimOpacity" yaml:"dimOpacity" toml:"dimOpacity"`
}

var categorical = []string{
	"#006eb5", "#5dd4f0", "#02a38a", "#e78625", "#e0529e",
	"#ec5063", "#a3ba00", "#ffc10e", "#b3b3b3", "#3c3c3c",
}

// Default returns the default theme for a mode.  Unknown modes are light.
func Default(mode Mode) *Theme {
	t := &Theme{
		Mode:        Light,
		Categorical: append([]string(nil), categorical...),
		Sequential:  []string{"#e5f1f9", "#99c5e3", "#4d9acd", "#006eb5", "#004a7a"},
		Diverging:   []string{"#d12800", "#f28e6f", "#f7f7f7", "#6fb8dd", "#006eb5"},
		Bivariate: [][]string{
			{"#e8e8e8", "#dfb0d6", "#be64ac"},
			{"#ace4e4", "#a5add3", "#8c62aa"},
			{"#5ac8c8", "#5698b9", "#3b4994"},
		},
		Primary:    "#006eb5",
		NoData:     "#d4d6d8",
		Gray:       "#a9b1b7",
		Text:       "#212121",
		Background: "#ffffff",
		Highlight:  "#ffc10e",
		DimOpacity: 0.3,
	}
	if mode == Dark {
		t.Mode = Dark
		t.NoData = "#55606e"
		t.Gray = "#7c8a96"
		t.Text = "#f7f7f7"
		t.Background = "#0d0d0d"
	}
	return t
}

// Palette returns an ordinal color scale over the Categorical colors.
// Categories in domain take the first colors, in order.
func (t *Theme) Palette(domain ...string) *scale.Ordinal {
	return scale.NewOrdinal(domain, t.Categorical, t.Primary)
}

// SequentialSpace returns the Sequential colors as a color space.
func (t *Theme) SequentialSpace() *color.Space {
	return color.NewSpace("sequential", t.Sequential...)
}

// Buckets returns n colors evenly sampled along the Sequential colors.
func (t *Theme) Buckets(n int) []string {
	if n <= 0 {
		return nil
	}
	space := t.SequentialSpace()
	if n == 1 {
		return []string{space.At(1)}
	}
	ret := make([]string, n)
	for idx := range ret {
		ret[idx] = space.At(float64(idx) / float64(n-1))
	}
	return ret
}

// Validate checks that the receiver has the colors charts require.
func (t *Theme) Validate() error {
	if t.Mode != Light && t.Mode != Dark {
		return fmt.Errorf("unknown theme mode '%s'", t.Mode)
	}
	if len(t.Categorical) == 0 {
		return fmt.Errorf("theme has no categorical colors")
	}
	for idx, row := range t.Bivariate {
		if len(row) != len(t.Bivariate[0]) {
			return fmt.Errorf("bivariate row %d has %d colors, wanted %d", idx, len(row), len(t.Bivariate[0]))
		}
	}
	if t.DimOpacity < 0 || t.DimOpacity > 1 {
		return fmt.Errorf("dim opacity %v is outside [0, 1]", t.DimOpacity)
	}
	return nil
}

// Format is a configuration file format.
type Format string

// Supported formats.
const (
	YAML Format = "yaml"
	TOML Format = "toml"
)

// FormatOf returns the format of a file by its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return "", fmt.Errorf("unsupported config file type '%s'", filepath.Ext(path))
}

// modeOf peeks at the mode a file declares, so that defaults can be chosen
// before the rest of the file is applied.
func modeOf(data []byte, format Format) (Mode, error) {
	var peek struct {
		Mode Mode `yaml:"mode" toml:"mode"`
	}
	switch format {
	case YAML:
		if err := yaml.Unmarshal(data, &peek); err != nil {
			return "", err
		}
	case TOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&peek); err != nil {
			return "", err
		}
	}
	return peek.Mode, nil
}

// Decode decodes a theme in the provided format.
func Decode(data []byte, format Format) (*Theme, error) {
	mode, err := modeOf(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode theme: %w", err)
	}
	t := Default(mode)
	switch format {
	case YAML:
		err = yaml.Unmarshal(data, t)
	case TOML:
		_, err = toml.NewDecoder(bytes.NewReader(data)).Decode(t)
	default:
		err = fmt.Errorf("unsupported format '%s'", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode theme: %w", err)
	}
	if t.Mode == "" {
		t.Mode = Light
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Load reads a theme from a .yaml, .yml or .toml file.
func Load(path string) (*Theme, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme: %w", err)
	}
	return Decode(data, format)
}

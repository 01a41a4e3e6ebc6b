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

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/UNDP-Data/undp-visualization-library-sub001/chart"
	datasource "github.com/UNDP-Data/undp-visualization-library-sub001/data_source"
	"github.com/UNDP-Data/undp-visualization-library-sub001/interaction"
	"github.com/UNDP-Data/undp-visualization-library-sub001/scene"
	"github.com/UNDP-Data/undp-visualization-library-sub001/service"
	svgsurface "github.com/UNDP-Data/undp-visualization-library-sub001/svg_surface"
	"github.com/UNDP-Data/undp-visualization-library-sub001/theme"
	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Output formats of the render command.
const (
	sceneFormat = "scene"
	tableFormat = "table"
	svgFormat   = "svg"
)

// chartFlags are the flags shared by commands drawing one chart.
type chartFlags struct {
	specPath, dataPath, featuresPath, themePath string
}

func (cf *chartFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&cf.specPath, "spec", "", "Chart spec file (.json, .yaml, .yml or .toml)")
	fs.StringVar(&cf.dataPath, "data", "", "Dataset file (.json, .csv or .xlsx)")
	fs.StringVar(&cf.featuresPath, "features", "", "Map features file (.geojson), for map charts")
	fs.StringVar(&cf.themePath, "theme", "", "Theme file (.json, .yaml, .yml or .toml); defaults to the light theme")
}

// load returns the renderer and input described by the receiver.
func (cf *chartFlags) load() (*chart.Renderer, chart.Input, error) {
	if cf.specPath == "" || cf.dataPath == "" {
		return nil, chart.Input{}, fmt.Errorf("--spec and --data are required")
	}
	spec, err := chart.LoadSpec(cf.specPath)
	if err != nil {
		return nil, chart.Input{}, err
	}
	var th *theme.Theme
	if cf.themePath != "" {
		if th, err = theme.Load(cf.themePath); err != nil {
			return nil, chart.Input{}, err
		}
	}
	r, err := chart.New(spec, th)
	if err != nil {
		return nil, chart.Input{}, err
	}
	data, err := datasource.Load(cf.dataPath)
	if err != nil {
		return nil, chart.Input{}, err
	}
	in := chart.Input{Records: data.Records, Features: data.Features}
	if cf.featuresPath != "" {
		features, err := datasource.Load(cf.featuresPath)
		if err != nil {
			return nil, chart.Input{}, err
		}
		in.Features = features.Features
	}
	return r, in, nil
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chartviz",
		Short: "Render frame-animated charts",
		Long: `chartviz renders bar, line, scatter, dumbbell, donut, strip and map
charts, animated over the dates of their records, from chart specs and
datasets on disk.`,
		SilenceUsage: true,
	}
	addGlogFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(newRenderCmd(), newFramesCmd(), newServeCmd())
	return rootCmd
}

// addGlogFlags exposes glog's flags, such as -v and -logtostderr, on fs.
func addGlogFlags(fs *pflag.FlagSet) {
	fs.AddGoFlagSet(flag.CommandLine)
}

func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func newRenderCmd() *cobra.Command {
	var (
		cf         chartFlags
		frame      int
		format     string
		outputPath string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one frame of a chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, in, err := cf.load()
			if err != nil {
				return err
			}
			w, closeFn, err := output(cmd, outputPath)
			if err != nil {
				return err
			}
			if err := render(w, r, in, frame, format); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}
	cf.register(cmd.Flags())
	cmd.Flags().IntVar(&frame, "frame", 0, "Frame index to render; out-of-range indices are clamped")
	cmd.Flags().StringVar(&format, "format", sceneFormat, "Output format, one of "+formats())
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	return cmd
}

func render(w io.Writer, r *chart.Renderer, in chart.Input, frame int, format string) error {
	switch format {
	case sceneFormat, tableFormat:
		rb := scene.NewResponseBuilder()
		b := rb.Scene(&scene.Request{SceneName: string(r.Spec().Kind)})
		var err error
		if format == tableFormat {
			err = r.RenderTable(b, in, frame)
		} else {
			err = r.Render(b, in, frame, interaction.State{Frame: frame})
		}
		if err != nil {
			return err
		}
		resp, err := rb.Response()
		if err != nil {
			return err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case svgFormat:
		shapes, err := r.Shapes(in, frame, interaction.State{Frame: frame})
		if err != nil {
			return err
		}
		spec := r.Spec()
		svgsurface.Draw(w, svgsurface.Settings{
			Width:      spec.Width,
			Height:     spec.Height,
			Background: r.Theme().Background,
			FontSize:   spec.FontSize,
			Title:      spec.ColorLegendTitle,
		}, shapes)
		return nil
	}
	return fmt.Errorf("unsupported format '%s'; want one of %s", format, formats())
}

func newFramesCmd() *cobra.Command {
	var cf chartFlags
	cmd := &cobra.Command{
		Use:   "frames",
		Short: "List the frame dates of a chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, in, err := cf.load()
			if err != nil {
				return err
			}
			series, err := r.Frames(in.Records)
			if err != nil {
				return err
			}
			for idx, date := range series.Dates() {
				if date == "" {
					date = "(undated)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", idx, date)
			}
			return nil
		},
	}
	cf.register(cmd.Flags())
	return cmd
}

func newServeCmd() *cobra.Command {
	var (
		port           int
		resourceRoot   string
		collectionRoot string
		cacheSize      int
		themePath      string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve chart scenes over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var th *theme.Theme
			if themePath != "" {
				var err error
				if th, err = theme.Load(themePath); err != nil {
					return err
				}
			}
			s, err := service.New(collectionRoot, cacheSize, th)
			if err != nil {
				return fmt.Errorf("failed to create chartviz service: %w", err)
			}
			mux := http.NewServeMux()
			s.RegisterHandlers(mux)
			if resourceRoot != "" {
				mux.Handle("/", http.FileServer(http.Dir(resourceRoot)))
			}
			hostname, err := os.Hostname()
			if err != nil {
				return fmt.Errorf("failed to get hostname: %w", err)
			}
			// Provide OSC 8 (https://en.wikipedia.org/wiki/ANSI_escape_code#OSC) link for
			// compatible terminals.
			fmt.Fprintf(cmd.OutOrStdout(), "Serving chartviz at \x1B]8;;http://%[1]s:%[2]d\x07http://%[1]s:%[2]d\x1B]8;;\x07\n", hostname, port)
			glog.Infof("Serving collections under %s on port %d", collectionRoot, port)
			return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
		},
	}
	cmd.Flags().IntVar(&port, "port", 7410, "Port to serve chartviz clients on")
	cmd.Flags().StringVar(&resourceRoot, "resource_root", "", "The path to the chartviz client resources")
	cmd.Flags().StringVar(&collectionRoot, "collection_root", ".", "The root path for chart datasets")
	cmd.Flags().IntVar(&cacheSize, "cache_size", 10, "The number of datasets and chart renderers to cache")
	cmd.Flags().StringVar(&themePath, "theme", "", "Default theme file; defaults to the light theme")
	return cmd
}

// formats lists the supported render formats.
func formats() string {
	return strings.Join([]string{sceneFormat, tableFormat, svgFormat}, ", ")
}

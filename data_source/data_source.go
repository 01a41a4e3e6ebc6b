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

// Package datasource provides a chart data source: it fetches datasets by
// name and renders them, under chart specs carried in request options, into
// scenes.
package datasource

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/UNDP-Data/undp-visualization-library-sub001/chart"
	frameindexer "github.com/UNDP-Data/undp-visualization-library-sub001/frame_indexer"
	"github.com/UNDP-Data/undp-visualization-library-sub001/interaction"
	"github.com/UNDP-Data/undp-visualization-library-sub001/scene"
	"github.com/UNDP-Data/undp-visualization-library-sub001/theme"
	"github.com/golang/glog"
	"github.com/hashicorp/golang-lru/simplelru"
)

// Supported queries.
const (
	RenderQuery     = "chart.render"
	FramesQuery     = "chart.frames"
	TableQuery      = "chart.table"
	TransitionQuery = "chart.transition"
)

// Option keys.  Each may appear in the global options or in a request's own
// options; request options take precedence.
const (
	CollectionNameKey = "collection_name"
	FeaturesNameKey   = "features_name"
	SpecKey           = "spec"
	ThemeKey          = "theme"
	FrameKey          = "frame"
	FromFrameKey      = "from_frame"
	ToFrameKey        = "to_frame"
	ProgressKey       = "progress"
	HoveredKey        = "hovered"
	PointerKey        = "pointer"
	PinnedKey         = "pinned"
	SelectedColorKey  = "selected_color"

	frameDatesKey = "frame_dates"
	frameCountKey = "frame_count"
)

// Fetcher describes types capable of fetching datasets by name.
type Fetcher interface {
	// Fetch fetches the dataset specified by name, returning an error if a
	// failure is encountered.
	Fetch(ctx context.Context, name string) (*Dataset, error)
}

// DataSource implements querydispatcher.dataSource for chart datasets.  It
// caches the most recently used datasets and chart renderers.
type DataSource struct {
	mu sync.Mutex
	// An LRU cache holding the most recently-accessed datasets.
	datasets *simplelru.LRU
	// An LRU cache holding renderers by spec source and theme.
	renderers *simplelru.LRU
	// A dataset fetcher used to fetch uncached datasets.
	fetcher Fetcher
	// themes holds the themes requests may name, by mode.
	themes map[theme.Mode]*theme.Theme
}

// New returns a new DataSource with the specified cache capacity, and using
// the provided dataset fetcher.  Requests naming no theme use defaultTheme,
// or the default light theme if it is nil.
func New(cap int, fetcher Fetcher, defaultTheme *theme.Theme) (*DataSource, error) {
	datasets, err := simplelru.NewLRU(cap, nil /* no onEvict policy */)
	if err != nil {
		return nil, err
	}
	renderers, err := simplelru.NewLRU(cap, nil /* no onEvict policy */)
	if err != nil {
		return nil, err
	}
	if defaultTheme == nil {
		defaultTheme = theme.Default(theme.Light)
	}
	themes := map[theme.Mode]*theme.Theme{
		theme.Light: theme.Default(theme.Light),
		theme.Dark:  theme.Default(theme.Dark),
		"":          defaultTheme,
	}
	themes[defaultTheme.Mode] = defaultTheme
	return &DataSource{
		datasets:  datasets,
		renderers: renderers,
		fetcher:   fetcher,
		themes:    themes,
	}, nil
}

// SupportedQueries returns the Request query names supported by DataSource.
func (ds *DataSource) SupportedQueries() []string {
	return []string{
		RenderQuery,
		FramesQuery,
		TableQuery,
		TransitionQuery,
	}
}

// fetchDataset returns the named dataset from the LRU if it's present there.
// If it isn't already in the LRU, it is fetched and added to the LRU before
// being returned.
func (ds *DataSource) fetchDataset(ctx context.Context, name string) (*Dataset, error) {
	ds.mu.Lock()
	dsIf, ok := ds.datasets.Get(name)
	ds.mu.Unlock()
	if ok {
		dataset, ok := dsIf.(*Dataset)
		if !ok {
			return nil, fmt.Errorf("cached collection '%s' wasn't a Dataset", name)
		}
		return dataset, nil
	}
	dataset, err := ds.fetcher.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	ds.mu.Lock()
	ds.datasets.Add(name, dataset)
	ds.mu.Unlock()
	return dataset, nil
}

// renderer returns a Renderer for the provided JSON spec and theme mode,
// from the LRU if it's there.  Renderers carry the frame memo, so reusing
// them across requests avoids re-indexing unchanged datasets.
func (ds *DataSource) renderer(specSrc, mode string) (*chart.Renderer, error) {
	th, ok := ds.themes[theme.Mode(mode)]
	if !ok {
		return nil, fmt.Errorf("unknown theme '%s'", mode)
	}
	key := mode + "\x00" + specSrc
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if rIf, ok := ds.renderers.Get(key); ok {
		r, ok := rIf.(*chart.Renderer)
		if !ok {
			return nil, fmt.Errorf("cached renderer wasn't a Renderer")
		}
		return r, nil
	}
	spec, err := chart.DecodeSpec([]byte(specSrc), chart.JSON)
	if err != nil {
		return nil, err
	}
	r, err := chart.New(spec, th)
	if err != nil {
		return nil, err
	}
	ds.renderers.Add(key, r)
	return r, nil
}

// options resolves request options over global options.
type options struct {
	global, local map[string]*scene.V
}

func (o options) get(key string) (*scene.V, bool) {
	if v, ok := o.local[key]; ok {
		return v, true
	}
	v, ok := o.global[key]
	return v, ok
}

func (o options) str(key string, required bool) (string, error) {
	v, ok := o.get(key)
	if !ok {
		if required {
			return "", fmt.Errorf("missing required option '%s'", key)
		}
		return "", nil
	}
	s, err := scene.ExpectStringValue(v)
	if err != nil {
		return "", fmt.Errorf("option '%s' must be a string", key)
	}
	return s, nil
}

func (o options) integer(key string, def int) (int, error) {
	v, ok := o.get(key)
	if !ok {
		return def, nil
	}
	i, err := scene.ExpectIntegerValue(v)
	if err != nil {
		return 0, fmt.Errorf("option '%s' must be an integer", key)
	}
	return int(i), nil
}

func (o options) double(key string, def float64) (float64, error) {
	v, ok := o.get(key)
	if !ok {
		return def, nil
	}
	f, err := scene.ExpectDoubleValue(v)
	if err != nil {
		return 0, fmt.Errorf("option '%s' must be a double", key)
	}
	return f, nil
}

// input fetches the dataset, and any map features, named by o.
func (ds *DataSource) input(ctx context.Context, o options) (chart.Input, error) {
	collectionName, err := o.str(CollectionNameKey, true)
	if err != nil {
		return chart.Input{}, err
	}
	dataset, err := ds.fetchDataset(ctx, collectionName)
	if err != nil {
		return chart.Input{}, err
	}
	in := chart.Input{
		Records:  dataset.Records,
		Features: dataset.Features,
	}
	featuresName, err := o.str(FeaturesNameKey, false)
	if err != nil {
		return chart.Input{}, err
	}
	if featuresName != "" {
		features, err := ds.fetchDataset(ctx, featuresName)
		if err != nil {
			return chart.Input{}, err
		}
		in.Features = features.Features
	}
	return in, nil
}

// HandleRequests handles the provided set of Requests, with the provided
// global options.  It assembles its responses in the provided
// ResponseBuilder.
func (ds *DataSource) HandleRequests(ctx context.Context, globalOptions map[string]*scene.V, rb *scene.ResponseBuilder, reqs []*scene.Request) error {
	// Log how long it takes to handle each RenderRequest.
	start := time.Now()
	queryNames := make([]string, 0, len(reqs))
	for _, req := range reqs {
		queryNames = append(queryNames, req.Query)
	}
	defer func() {
		glog.Infof("Handled [%s] queries in %s", strings.Join(queryNames, ", "), time.Since(start))
	}()
	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			return err
		}
		o := options{global: globalOptions, local: req.Options}
		if err := ds.handleRequest(ctx, o, rb, req); err != nil {
			return fmt.Errorf("error handling query %s: %w", req.Query, err)
		}
	}
	return nil
}

func (ds *DataSource) handleRequest(ctx context.Context, o options, rb *scene.ResponseBuilder, req *scene.Request) error {
	specSrc, err := o.str(SpecKey, true)
	if err != nil {
		return err
	}
	mode, err := o.str(ThemeKey, false)
	if err != nil {
		return err
	}
	r, err := ds.renderer(specSrc, mode)
	if err != nil {
		return err
	}
	in, err := ds.input(ctx, o)
	if err != nil {
		return err
	}
	frame, err := o.integer(FrameKey, 0)
	if err != nil {
		return err
	}
	switch req.Query {
	case RenderQuery:
		state, err := ds.state(r, in, frame, o)
		if err != nil {
			return err
		}
		return r.Render(rb.Scene(req), in, frame, state)
	case FramesQuery:
		series, err := r.Frames(in.Records)
		if err != nil {
			return err
		}
		rb.Scene(req).With(
			scene.IntegerProperty(frameCountKey, int64(series.Len())),
			scene.StringsProperty(frameDatesKey, series.Dates()...),
		)
		return nil
	case TableQuery:
		return r.RenderTable(rb.Scene(req), in, frame)
	case TransitionQuery:
		from, err := o.integer(FromFrameKey, frame)
		if err != nil {
			return err
		}
		to, err := o.integer(ToFrameKey, from+1)
		if err != nil {
			return err
		}
		progress, err := o.double(ProgressKey, 1)
		if err != nil {
			return err
		}
		return r.RenderTransition(rb.Scene(req), in, from, to, progress)
	}
	return fmt.Errorf("unsupported query")
}

// find returns the datum of f keyed key, or nil if there is none.
func find(f *frameindexer.Frame, key string, keyBy frameindexer.KeyBy) *frameindexer.Datum {
	for i := range f.Data {
		if f.Data[i].Key(keyBy) == key {
			return &f.Data[i]
		}
	}
	return nil
}

// state replays the interaction options of a request through an
// interaction.Controller and returns the resulting state.  Hovered and
// pinned datums are named by their animation key; keys absent from the
// frame are ignored.
func (ds *DataSource) state(r *chart.Renderer, in chart.Input, frame int, o options) (interaction.State, error) {
	cfg := r.Interaction()
	c := interaction.New(cfg)
	series, err := r.Frames(in.Records)
	if err != nil {
		return interaction.State{}, err
	}
	c.SetFrame(series.Clamp(frame))
	f, ok := series.At(series.Clamp(frame))
	if !ok {
		return c.Snapshot(), nil
	}
	selected, err := o.str(SelectedColorKey, false)
	if err != nil {
		return interaction.State{}, err
	}
	if selected != "" {
		c.SelectColor(selected)
	}
	pinned, err := o.str(PinnedKey, false)
	if err != nil {
		return interaction.State{}, err
	}
	if d := find(f, pinned, cfg.KeyBy); pinned != "" && d != nil {
		c.Click(d)
	}
	hovered, err := o.str(HoveredKey, false)
	if err != nil {
		return interaction.State{}, err
	}
	if d := find(f, hovered, cfg.KeyBy); hovered != "" && d != nil {
		var x, y float64
		if v, ok := o.get(PointerKey); ok {
			pt, err := scene.ExpectDoublesValue(v)
			if err != nil || len(pt) != 2 {
				return interaction.State{}, fmt.Errorf("option '%s' must be two doubles", PointerKey)
			}
			x, y = pt[0], pt[1]
		}
		c.Enter(d, x, y)
	}
	return c.Snapshot(), nil
}

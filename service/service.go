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

// Package service wires chart datasets on disk to the HTTP render handlers.
package service

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	datasource "github.com/UNDP-Data/undp-visualization-library-sub001/data_source"
	"github.com/UNDP-Data/undp-visualization-library-sub001/handlers"
	querydispatcher "github.com/UNDP-Data/undp-visualization-library-sub001/query_dispatcher"
	"github.com/UNDP-Data/undp-visualization-library-sub001/theme"
	"github.com/golang/glog"
)

// collectionFetcher loads datasets from files under a root directory.
type collectionFetcher struct {
	collectionRoot string
}

func newCollectionFetcher(collectionRoot string) *collectionFetcher {
	return &collectionFetcher{
		collectionRoot: collectionRoot,
	}
}

// Fetch loads the dataset at the provided path, relative to the fetcher's
// root.  Paths escaping the root are refused.
func (cf *collectionFetcher) Fetch(ctx context.Context, collectionName string) (*datasource.Dataset, error) {
	if !filepath.IsLocal(collectionName) {
		return nil, fmt.Errorf("collection '%s' is outside the collection root", collectionName)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	glog.V(1).Infof("Loading collection %s", collectionName)
	return datasource.Load(filepath.Join(cf.collectionRoot, collectionName))
}

// Service serves chart scenes over HTTP.
type Service struct {
	queryHandler    handlers.QueryHandler
	templateHandler handlers.Handler
}

// New returns a Service rendering datasets under collectionRoot, caching up
// to cap datasets and renderers.  Charts use th unless a request names
// another theme; a nil th is the default light theme.
func New(collectionRoot string, cap int, th *theme.Theme) (*Service, error) {
	ds, err := datasource.New(cap, newCollectionFetcher(collectionRoot), th)
	if err != nil {
		return nil, err
	}
	qd, err := querydispatcher.New(ds)
	if err != nil {
		return nil, err
	}
	return &Service{
		queryHandler:    handlers.NewQueryHandler(qd),
		templateHandler: handlers.NewTemplateHandler(),
	}, nil
}

// RegisterHandlers registers the receiver's handlers on mux, wrapping the
// render handlers in the provided wrappers.
func (s *Service) RegisterHandlers(mux *http.ServeMux, wrappers ...handlers.WrapFunc) {
	for _, h := range []handlers.Handler{s.queryHandler.Wrap(wrappers...), s.templateHandler} {
		for path, handler := range h.HandlersByPath() {
			mux.HandleFunc(path, handler)
		}
	}
}

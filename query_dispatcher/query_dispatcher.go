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

// Package querydispatcher provides QueryDispatcher, a type for multiplexing
// multiple chart data sources behind a single render endpoint.
package querydispatcher

import (
	"context"
	"fmt"

	"github.com/UNDP-Data/undp-visualization-library-sub001/scene"
	"golang.org/x/sync/errgroup"
)

// dataSource represents a single source of chart scenes.  dataSource
// instances must support concurrent HandleRequests calls.
type dataSource interface {
	// SupportedQueries returns the list of scene.Request.Query names this
	// dataSource is able to handle.  Query names should be unique to their
	// dataSource: e.g., they may be prefixed with the dataSource's name.
	SupportedQueries() []string
	// HandleRequests handles a set of Requests with the supplied global
	// options.  dataSource implementations should use the provided
	// ResponseBuilder to add and populate a new Scene per Request.  Any
	// returned error will cancel the entire RenderRequest and surface to the
	// client.
	HandleRequests(ctx context.Context, globalOptions map[string]*scene.V, rb *scene.ResponseBuilder, reqs []*scene.Request) error
}

// QueryDispatcher multiplexes multiple data sources, which may draw from
// entirely different datasets, allowing one RenderRequest to gather scenes
// from all of them.
type QueryDispatcher struct {
	dataSources []dataSource
	// Maps query names to indices (in dataSources) of the dataSources that
	// handle those queries.
	queryHandlers map[string]int
}

// New returns a *QueryDispatcher wrapping the provided dataSources.
func New(dss ...dataSource) (*QueryDispatcher, error) {
	qd := &QueryDispatcher{
		queryHandlers: map[string]int{},
	}
	for dsIdx, ds := range dss {
		qd.dataSources = append(qd.dataSources, ds)
		for _, queryName := range ds.SupportedQueries() {
			if _, ok := qd.queryHandlers[queryName]; ok {
				return nil, fmt.Errorf(
					"multiple dataSources handle query `%s`", queryName)
			}
			qd.queryHandlers[queryName] = dsIdx
		}
	}
	return qd, nil
}

// HandleRenderRequest distributes the provided RenderRequest's constituent
// Requests to their appropriate dataSources for processing, then assembles
// the resulting Scenes into a single Response.  Data sources run
// concurrently.
func (qd *QueryDispatcher) HandleRenderRequest(ctx context.Context, req *scene.RenderRequest) (*scene.Response, error) {
	rb := scene.NewResponseBuilder()
	// A mapping from dataSource index to the set of Requests that source can
	// handle.
	groupedReqs := map[int][]*scene.Request{}
	for _, r := range req.Requests {
		dsIdx, ok := qd.queryHandlers[r.Query]
		if !ok {
			return nil, fmt.Errorf("unsupported query `%s`", r.Query)
		}
		groupedReqs[dsIdx] = append(groupedReqs[dsIdx], r)
	}
	errg, ctx := errgroup.WithContext(ctx)
	for dsIdx, reqs := range groupedReqs {
		ds := qd.dataSources[dsIdx]
		reqs := reqs
		errg.Go(func() error {
			return ds.HandleRequests(ctx, req.GlobalOptions, rb, reqs)
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}
	return rb.Response()
}

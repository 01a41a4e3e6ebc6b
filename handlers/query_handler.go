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

// Package handlers provides the HTTP handlers serving chart scenes.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/UNDP-Data/undp-visualization-library-sub001/scene"
	"github.com/golang/glog"
)

// HandlerFunc is a HTTP handler function.
type HandlerFunc func(http.ResponseWriter, *http.Request)

// WrapFunc is a function that rewrites a HandlerFunc.
type WrapFunc func(HandlerFunc) HandlerFunc

// Handler describes a chart HTTP handler.
type Handler interface {
	HandlersByPath() map[string]func(http.ResponseWriter, *http.Request)
}

// QueryHandler is a Handler for render queries.  It supports a Wrap method
// that wraps all handlers, e.g. adding cookies.
type QueryHandler interface {
	Handler
	Wrap(...WrapFunc) Handler
}

// renderer renders a RenderRequest.  It is satisfied by
// *querydispatcher.QueryDispatcher.
type renderer interface {
	HandleRenderRequest(ctx context.Context, req *scene.RenderRequest) (*scene.Response, error)
}

// sendJSON serializes the provided value and sends it along the provided
// http.ResponseWriter.  Any failures during serialization yield an HTTP
// internal status error.
func sendJSON(v any, w http.ResponseWriter) {
	respStr, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Failed to marshal response: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	fmt.Fprint(w, string(respStr))
}

// queryHandler is an http.Handler serving render queries.
type queryHandler struct {
	r        renderer
	wrappers []WrapFunc
}

// NewQueryHandler returns a new Handler serving render requests using the
// provided renderer.
func NewQueryHandler(r renderer) QueryHandler {
	return &queryHandler{
		r: r,
	}
}

const (
	renderMethod = "/Render"
)

type contextKey string

var (
	httpReqKey contextKey = "chartviz_http_req"
)

// RequestOf returns the http Request attached to the provided Context, or nil
// if no Request is attached.  Returns an error if something other than a
// Request is stored in the Context.
func RequestOf(ctx context.Context) (*http.Request, error) {
	reqIf := ctx.Value(httpReqKey)
	if reqIf == nil {
		return nil, nil
	}
	req, ok := reqIf.(*http.Request)
	if !ok {
		return nil, fmt.Errorf("expected *http.Request to be stored in context, but got something else")
	}
	return req, nil
}

func (qh *queryHandler) Wrap(wrappers ...WrapFunc) Handler {
	qh.wrappers = append(qh.wrappers, wrappers...)
	return qh
}

func wrap(h HandlerFunc, wrappers []WrapFunc) func(http.ResponseWriter, *http.Request) {
	for _, wrapper := range wrappers {
		h = wrapper(h)
	}
	return h
}

// HandlersByPath returns a mapping of HTTP request path to HTTP handler for
// this Handler.
func (qh *queryHandler) HandlersByPath() map[string]func(http.ResponseWriter, *http.Request) {
	return map[string]func(http.ResponseWriter, *http.Request){
		renderMethod: wrap(qh.renderHandler, qh.wrappers),
	}
}

func (qh *queryHandler) renderHandler(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}
	renderReq, err := scene.RenderRequestFromJSON([]byte(req.Form.Get("req")))
	if err != nil {
		http.Error(w, "Failed to parse RenderRequest: "+err.Error(), http.StatusBadRequest)
		return
	}
	start := time.Now()
	ctx := req.Context()
	resp, err := qh.r.HandleRenderRequest(context.WithValue(ctx, httpReqKey, req), renderReq)
	if err != nil {
		http.Error(w, "RenderRequest failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	glog.V(1).Infof("Rendered %d scene(s) in %s", len(resp.Scenes), time.Since(start))
	sendJSON(resp, w)
}

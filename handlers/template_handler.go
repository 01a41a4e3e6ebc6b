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

package handlers

import (
	"fmt"
	"net/http"

	numberformat "github.com/UNDP-Data/undp-visualization-library-sub001/number_format"
	"github.com/UNDP-Data/undp-visualization-library-sub001/record"
	templaterenderer "github.com/UNDP-Data/undp-visualization-library-sub001/template_renderer"
	"github.com/golang/glog"
)

const (
	renderTemplateMethod = "/RenderTemplate"

	templateFormKey = "template"
	datumFormKey    = "datum"
	languageFormKey = "lang"
)

// templateHandler renders sanitized tooltip and detail templates against a
// single record, for clients previewing their templates.
type templateHandler struct {
	wrappers []WrapFunc
}

// NewTemplateHandler returns a Handler rendering templates.  Its
// /RenderTemplate method takes the template source in the 'template' form
// field and a JSON-encoded record in the 'datum' field, and responds with
// the sanitized HTML.
func NewTemplateHandler(wrappers ...WrapFunc) Handler {
	return &templateHandler{
		wrappers: wrappers,
	}
}

func (th *templateHandler) HandlersByPath() map[string]func(http.ResponseWriter, *http.Request) {
	return map[string]func(http.ResponseWriter, *http.Request){
		renderTemplateMethod: wrap(th.renderTemplateHandler, th.wrappers),
	}
}

func (th *templateHandler) renderTemplateHandler(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}
	var datum record.Record
	if raw := req.Form.Get(datumFormKey); raw != "" {
		if err := datum.UnmarshalJSON([]byte(raw)); err != nil {
			http.Error(w, "Failed to parse datum: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	t := templaterenderer.Compile(req.Form.Get(templateFormKey)).
		WithFormatter(numberformat.New(req.Form.Get(languageFormKey)))
	if n := t.Stripped(); n > 0 {
		glog.Warningf("RenderTemplate: stripped %d unsafe fragment(s)", n)
	}
	w.Header().Add("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, t.Execute(datum).String())
}

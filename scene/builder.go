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

package scene

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// stringTable interns strings as small integers.  It is safe for concurrent
// use.
type stringTable struct {
	mu      sync.RWMutex
	indices map[string]int64
	strs    []string
}

func newStringTable() *stringTable {
	return &stringTable{indices: map[string]int64{}}
}

func (st *stringTable) index(str string) int64 {
	st.mu.RLock()
	idx, ok := st.indices[str]
	st.mu.RUnlock()
	if ok {
		return idx
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	// Another writer may have interned str since the read lock was dropped.
	if idx, ok := st.indices[str]; ok {
		return idx
	}
	idx = int64(len(st.strs))
	st.strs = append(st.strs, str)
	st.indices[str] = idx
	return idx
}

func (st *stringTable) snapshot() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	ret := make([]string, len(st.strs))
	copy(ret, st.strs)
	return ret
}

// errorSet accumulates errors raised while building a Response.
type errorSet struct {
	mu   sync.Mutex
	errs []error
}

func (es *errorSet) add(err error) {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.errs = append(es.errs, err)
}

func (es *errorSet) failed() bool {
	es.mu.Lock()
	defer es.mu.Unlock()
	return len(es.errs) > 0
}

func (es *errorSet) err() error {
	es.mu.Lock()
	defer es.mu.Unlock()
	return errors.Join(es.errs...)
}

// Builder assembles a scene Node.
type Builder interface {
	// With applies the provided updates in order.
	With(updates ...PropertyUpdate) Builder
	// Child appends a new child Node, returning a Builder for it.
	Child() Builder
}

// ResponseBuilder assembles a Response.  It is safe for concurrent use:
// separate goroutines may each build their own Scenes.
type ResponseBuilder struct {
	st   *stringTable
	errs *errorSet

	mu     sync.Mutex
	scenes []*Scene
}

// NewResponseBuilder returns a new, empty ResponseBuilder.
func NewResponseBuilder() *ResponseBuilder {
	return &ResponseBuilder{
		st:   newStringTable(),
		errs: &errorSet{},
	}
}

// Scene adds a new Scene answering req, and returns a Builder for its root.
func (rb *ResponseBuilder) Scene(req *Request) Builder {
	root := newNodeBuilder(rb.errs, rb.st)
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.scenes = append(rb.scenes, &Scene{
		SceneName: req.SceneName,
		Root:      root.n,
	})
	return root
}

// Response completes and returns the Response, or the errors raised while
// building it.
func (rb *ResponseBuilder) Response() (*Response, error) {
	if err := rb.errs.err(); err != nil {
		return nil, err
	}
	rb.mu.Lock()
	defer rb.mu.Unlock()
	scenes := make([]*Scene, len(rb.scenes))
	copy(scenes, rb.scenes)
	return &Response{
		StringTable: rb.st.snapshot(),
		Scenes:      scenes,
	}, nil
}

// PropertyUpdate updates the Node under construction.  A nil PropertyUpdate
// does nothing.
type PropertyUpdate func(nb *nodeBuilder) error

// Value is a property value whose key isn't yet known.
type Value func(key string) PropertyUpdate

// EmptyUpdate does nothing.
var EmptyUpdate PropertyUpdate

type nodeBuilder struct {
	errs *errorSet
	st   *stringTable
	n    *Node
}

func newNodeBuilder(errs *errorSet, st *stringTable) *nodeBuilder {
	return &nodeBuilder{
		errs: errs,
		st:   st,
		n: &Node{
			Properties: map[int64]*V{},
			Children:   []*Node{},
		},
	}
}

func (nb *nodeBuilder) With(updates ...PropertyUpdate) Builder {
	if nb.errs.failed() {
		return nb
	}
	for _, update := range updates {
		if update == nil {
			continue
		}
		if err := update(nb); err != nil {
			nb.errs.add(err)
			break
		}
	}
	return nb
}

func (nb *nodeBuilder) Child() Builder {
	child := newNodeBuilder(nb.errs, nb.st)
	nb.n.Children = append(nb.n.Children, child.n)
	return child
}

func (nb *nodeBuilder) set(key string, v *V) {
	nb.n.Properties[nb.st.index(key)] = v
}

func (nb *nodeBuilder) get(key string) (*V, bool) {
	v, ok := nb.n.Properties[nb.st.index(key)]
	return v, ok
}

// If returns update if predicate holds, and EmptyUpdate otherwise.
func If(predicate bool, update PropertyUpdate) PropertyUpdate {
	if predicate {
		return update
	}
	return EmptyUpdate
}

// IfElse returns t if predicate holds, and f otherwise.
func IfElse(predicate bool, t, f PropertyUpdate) PropertyUpdate {
	if predicate {
		return t
	}
	return f
}

// Chain applies the provided updates in order.
func Chain(updates ...PropertyUpdate) PropertyUpdate {
	return func(nb *nodeBuilder) error {
		for _, update := range updates {
			if update == nil {
				continue
			}
			if err := update(nb); err != nil {
				return err
			}
		}
		return nil
	}
}

// ErrorProperty fails the Response under construction with err.
func ErrorProperty(err error) PropertyUpdate {
	return func(*nodeBuilder) error {
		return err
	}
}

// StringProperty sets a string property.  The value is interned.
func StringProperty(key, value string) PropertyUpdate {
	return func(nb *nodeBuilder) error {
		// Keys are interned before their values.
		k := nb.st.index(key)
		nb.n.Properties[k] = StringIndexValue(nb.st.index(value))
		return nil
	}
}

// StringsProperty sets a string-list property.  The values are interned.
func StringsProperty(key string, values ...string) PropertyUpdate {
	return func(nb *nodeBuilder) error {
		k := nb.st.index(key)
		idxs := make([]int64, len(values))
		for i, v := range values {
			idxs[i] = nb.st.index(v)
		}
		nb.n.Properties[k] = StringIndicesValue(idxs...)
		return nil
	}
}

// StringsPropertyExtended appends values to a string-list property, creating
// it if necessary.
func StringsPropertyExtended(key string, values ...string) PropertyUpdate {
	return func(nb *nodeBuilder) error {
		existing, ok := nb.get(key)
		if !ok {
			return StringsProperty(key, values...)(nb)
		}
		idxs, err := expectStringIndicesValue(existing)
		if err != nil {
			return fmt.Errorf("can't extend property '%s': %w", key, err)
		}
		for _, v := range values {
			idxs = append(idxs, nb.st.index(v))
		}
		existing.V = idxs
		return nil
	}
}

// IntegerProperty sets an integer property.
func IntegerProperty(key string, value int64) PropertyUpdate {
	return func(nb *nodeBuilder) error {
		nb.set(key, IntegerValue(value))
		return nil
	}
}

// IntegersProperty sets an integer-list property.
func IntegersProperty(key string, values ...int64) PropertyUpdate {
	return func(nb *nodeBuilder) error {
		nb.set(key, IntegersValue(values...))
		return nil
	}
}

// DoubleProperty sets a float property.
func DoubleProperty(key string, value float64) PropertyUpdate {
	return func(nb *nodeBuilder) error {
		nb.set(key, DoubleValue(value))
		return nil
	}
}

// DoublesProperty sets a float-list property.
func DoublesProperty(key string, values ...float64) PropertyUpdate {
	return func(nb *nodeBuilder) error {
		nb.set(key, DoublesValue(values...))
		return nil
	}
}

// DurationProperty sets a duration property.
func DurationProperty(key string, value time.Duration) PropertyUpdate {
	return func(nb *nodeBuilder) error {
		nb.set(key, DurationValue(value))
		return nil
	}
}

// TimestampProperty sets a timestamp property.
func TimestampProperty(key string, value time.Time) PropertyUpdate {
	return func(nb *nodeBuilder) error {
		nb.set(key, TimestampValue(value))
		return nil
	}
}

// Nothing is a Value setting nothing.
var Nothing Value = func(string) PropertyUpdate {
	return EmptyUpdate
}

// String returns a Value setting a string.
func String(value string) Value {
	return func(key string) PropertyUpdate {
		return StringProperty(key, value)
	}
}

// Strings returns a Value setting a string list.
func Strings(values ...string) Value {
	return func(key string) PropertyUpdate {
		return StringsProperty(key, values...)
	}
}

// Integer returns a Value setting an integer.
func Integer(value int64) Value {
	return func(key string) PropertyUpdate {
		return IntegerProperty(key, value)
	}
}

// Double returns a Value setting a float.
func Double(value float64) Value {
	return func(key string) PropertyUpdate {
		return DoubleProperty(key, value)
	}
}

// Doubles returns a Value setting a float list.
func Doubles(values ...float64) Value {
	return func(key string) PropertyUpdate {
		return DoublesProperty(key, values...)
	}
}

// Timestamp returns a Value setting a timestamp.
func Timestamp(value time.Time) Value {
	return func(key string) PropertyUpdate {
		return TimestampProperty(key, value)
	}
}

// Error returns a Value failing the Response under construction.
func Error(err error) Value {
	return func(string) PropertyUpdate {
		return ErrorProperty(err)
	}
}

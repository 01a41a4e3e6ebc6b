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
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Node is one element of a scene: a shape, a group of shapes, an axis, a
// legend entry, and so on.  Its properties are keyed by string table index.
type Node struct {
	Properties map[int64]*V
	Children   []*Node
}

// PrettyPrint returns the receiver deterministically prettyprinted, with
// properties in increasing key order.  Only for use in tests.
func (n *Node) PrettyPrint(indent string, st []string) string {
	keys := make([]int64, 0, len(n.Properties))
	for k := range n.Properties {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		return st[keys[a]] < st[keys[b]]
	})
	lines := make([]string, 0, len(keys)+2*len(n.Children))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%sProp '%s': %s", indent, st[k], n.Properties[k].PrettyPrint(st)))
	}
	for _, child := range n.Children {
		lines = append(lines, indent+"Child:", child.PrettyPrint(indent+"  ", st))
	}
	return strings.Join(lines, "\n")
}

// MarshalJSON encodes a Node as:
//
//	type KV = [number, V]   ; string table index of the key, and the value
//	type Node = [
//	  KV[],                 ; its Properties, in increasing key order
//	  Node[],               ; its Children
//	]
func (n *Node) MarshalJSON() ([]byte, error) {
	keys := make([]int64, 0, len(n.Properties))
	for k := range n.Properties {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool { return keys[a] < keys[b] })
	props := make([]any, len(keys))
	for idx, k := range keys {
		props[idx] = []any{k, n.Properties[k]}
	}
	children := n.Children
	if children == nil {
		children = []*Node{}
	}
	return json.Marshal([]any{props, children})
}

func (n *Node) fromAny(raw []any) error {
	if len(raw) != 2 {
		return fmt.Errorf("node must be a [properties, children] pair")
	}
	props, err := toList(raw[0])
	if err != nil {
		return err
	}
	children, err := toList(raw[1])
	if err != nil {
		return err
	}
	n.Properties = make(map[int64]*V, len(props))
	n.Children = make([]*Node, len(children))
	for _, p := range props {
		kv, err := toList(p)
		if err != nil {
			return err
		}
		if len(kv) != 2 {
			return fmt.Errorf("property must be a [key, value] pair")
		}
		k, err := toInt(kv[0])
		if err != nil {
			return err
		}
		rawV, err := toList(kv[1])
		if err != nil {
			return err
		}
		v := &V{}
		if err := v.fromAny(rawV); err != nil {
			return err
		}
		n.Properties[k] = v
	}
	for idx, c := range children {
		rawChild, err := toList(c)
		if err != nil {
			return err
		}
		child := &Node{}
		if err := child.fromAny(rawChild); err != nil {
			return err
		}
		n.Children[idx] = child
	}
	return nil
}

// UnmarshalJSON decodes a Node from its compact encoding.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw []any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	return n.fromAny(raw)
}

// Property returns the value of the named property of n, resolving keys
// against st.
func (n *Node) Property(st []string, key string) (*V, bool) {
	for k, v := range n.Properties {
		if int(k) < len(st) && st[k] == key {
			return v, true
		}
	}
	return nil, false
}

// String returns the string value of the named property, resolving string
// indices against st.  It returns false if the property is missing or isn't
// a string.
func (n *Node) String(st []string, key string) (string, bool) {
	v, ok := n.Property(st, key)
	if !ok {
		return "", false
	}
	switch v.T {
	case StringValueType:
		return v.V.(string), true
	case StringIndexValueType:
		idx := v.V.(int64)
		if int(idx) < len(st) {
			return st[idx], true
		}
	}
	return "", false
}

// Strings returns the string-list value of the named property, resolving
// string indices against st.  It returns false if the property is missing
// or isn't a string list.
func (n *Node) Strings(st []string, key string) ([]string, bool) {
	v, ok := n.Property(st, key)
	if !ok {
		return nil, false
	}
	switch v.T {
	case StringsValueType:
		return v.V.([]string), true
	case StringIndicesValueType:
		idxs := v.V.([]int64)
		ret := make([]string, len(idxs))
		for i, idx := range idxs {
			if int(idx) >= len(st) {
				return nil, false
			}
			ret[i] = st[idx]
		}
		return ret, true
	}
	return nil, false
}

// Double returns the numeric value of the named property.  It returns false
// if the property is missing or isn't numeric.
func (n *Node) Double(st []string, key string) (float64, bool) {
	v, ok := n.Property(st, key)
	if !ok {
		return 0, false
	}
	f, err := ExpectDoubleValue(v)
	return f, err == nil
}

// Request asks for one scene, produced by the named query.
type Request struct {
	// Query names the query producing the scene; each query is handled by
	// exactly one data source.
	Query string
	// SceneName names the resulting Scene.
	SceneName string
	// Options carries per-request parameters, such as the chart spec or
	// the active frame.
	Options map[string]*V
}

// Scene is the rendered response to a single Request.
type Scene struct {
	SceneName string
	Root      *Node
}

// PrettyPrint returns the receiver deterministically prettyprinted.  Only
// for use in tests.
func (s *Scene) PrettyPrint(indent string, st []string) string {
	return strings.Join([]string{
		fmt.Sprintf("%sScene %s", indent, s.SceneName),
		indent + "  Root:",
		s.Root.PrettyPrint(indent+"    ", st),
	}, "\n")
}

// RenderRequest asks for one or more scenes.  GlobalOptions apply to every
// Request; a Request's own Options take precedence.
type RenderRequest struct {
	GlobalOptions map[string]*V
	Requests      []*Request
}

// RenderRequestFromJSON decodes a RenderRequest.
func RenderRequestFromJSON(j []byte) (*RenderRequest, error) {
	ret := &RenderRequest{}
	if err := json.Unmarshal(j, ret); err != nil {
		return nil, fmt.Errorf("failed to decode render request: %w", err)
	}
	return ret, nil
}

// Response is a complete response to a RenderRequest.
type Response struct {
	StringTable []string
	Scenes      []*Scene
}

// PrettyPrint returns the receiver deterministically prettyprinted.  Only
// for use in tests.
func (r *Response) PrettyPrint() string {
	lines := []string{"Response:"}
	for _, s := range r.Scenes {
		lines = append(lines, s.PrettyPrint("  ", r.StringTable))
	}
	return strings.Join(lines, "\n")
}

// Scene returns the named scene, or nil if there is none.
func (r *Response) Scene(name string) *Scene {
	for _, s := range r.Scenes {
		if s.SceneName == name {
			return s
		}
	}
	return nil
}

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

// Package testutil provides helpers for testing scene construction.
package testutil

import (
	"fmt"
	"testing"

	"github.com/UNDP-Data/undp-visualization-library-sub001/scene"
	"github.com/google/go-cmp/cmp"
)

// UpdateComparator checks that two sets of PropertyUpdates produce the same
// Node.  Property order and string table order don't matter.
type UpdateComparator struct {
	got, want []scene.PropertyUpdate
}

// NewUpdateComparator returns a new, empty UpdateComparator.
func NewUpdateComparator() *UpdateComparator {
	return &UpdateComparator{}
}

// WithTestUpdates sets the updates under test.
func (uc *UpdateComparator) WithTestUpdates(got ...scene.PropertyUpdate) *UpdateComparator {
	uc.got = got
	return uc
}

// WithWantUpdates sets the expected updates.
func (uc *UpdateComparator) WithWantUpdates(want ...scene.PropertyUpdate) *UpdateComparator {
	uc.want = want
	return uc
}

// Compare applies both sets of updates to sibling Nodes, returning a diff
// message and true if they differ.
func (uc *UpdateComparator) Compare(t *testing.T) (string, bool) {
	t.Helper()
	rb := scene.NewResponseBuilder()
	root := rb.Scene(&scene.Request{})
	root.Child().With(uc.got...)
	root.Child().With(uc.want...)
	resp, err := rb.Response()
	if err != nil {
		t.Fatalf("failed to build response: %s", err)
	}
	children := resp.Scenes[0].Root.Children
	diff := cmp.Diff(
		children[1].PrettyPrint("", resp.StringTable),
		children[0].PrettyPrint("", resp.StringTable))
	if diff != "" {
		return fmt.Sprintf("Got scene %s, diff (-want +got):\n%s",
			resp.Scenes[0].PrettyPrint("", resp.StringTable), diff), true
	}
	return "", false
}

// TestBuilder is a scene.Builder that can also walk back up the tree, for
// writing expected scenes fluently.
type TestBuilder interface {
	With(updates ...scene.PropertyUpdate) TestBuilder
	Child() TestBuilder
	AndChild() TestBuilder
	Parent() TestBuilder
}

type testBuilder struct {
	b      scene.Builder
	parent *testBuilder
}

func (tb *testBuilder) With(updates ...scene.PropertyUpdate) TestBuilder {
	tb.b.With(updates...)
	return tb
}

func (tb *testBuilder) Child() TestBuilder {
	return &testBuilder{b: tb.b.Child(), parent: tb}
}

// AndChild adds a sibling of the receiver, or a child if the receiver is
// the root.
func (tb *testBuilder) AndChild() TestBuilder {
	if tb.parent == nil {
		return tb.Child()
	}
	return tb.parent.Child()
}

// Parent returns the receiver's parent, or the receiver if it is the root.
func (tb *testBuilder) Parent() TestBuilder {
	if tb.parent == nil {
		return tb
	}
	return tb.parent
}

func build(t *testing.T, fn any) *scene.ResponseBuilder {
	t.Helper()
	rb := scene.NewResponseBuilder()
	root := rb.Scene(&scene.Request{})
	switch f := fn.(type) {
	case func(scene.Builder):
		f(root)
	case func(TestBuilder):
		f(&testBuilder{b: root})
	case func(scene.Builder) error:
		if err := f(root); err != nil {
			t.Fatalf("failed to build scene: %s", err)
		}
	default:
		t.Fatalf("expected a func(scene.Builder), func(scene.Builder) error, or func(testutil.TestBuilder), got %T", fn)
	}
	return rb
}

// CompareResponses builds a scene with each of buildGot and buildWant, and
// reports any difference between them on t.  Each may be a
// func(scene.Builder), a func(scene.Builder) error, or a
// func(TestBuilder).
func CompareResponses(t *testing.T, buildGot, buildWant any) {
	t.Helper()
	got, err := build(t, buildGot).Response()
	if err != nil {
		t.Fatalf("failed to build 'got' response: %s", err)
	}
	want, err := build(t, buildWant).Response()
	if err != nil {
		t.Fatalf("failed to build 'want' response: %s", err)
	}
	if diff := cmp.Diff(want.PrettyPrint(), got.PrettyPrint()); diff != "" {
		t.Errorf("Got scene %s, diff (-want +got):\n%s", got.PrettyPrint(), diff)
	}
}

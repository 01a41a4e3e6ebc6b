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

// Package payload facilitates attaching payloads of arbitrary data to
// elements in scenes.
//
// A mark in a chart scene (a bar, a dot, a map region) describes only how
// it is drawn; the datum it represents travels alongside it as a payload
// child, so that hover and click handlers on the client can recover the
// underlying record without a second lookup.  Any scene element able to
// host payloads should implement the Payloader interface.
package payload

import (
	frameindexer "github.com/UNDP-Data/undp-visualization-library-sub001/frame_indexer"
	"github.com/UNDP-Data/undp-visualization-library-sub001/magnitude"
	"github.com/UNDP-Data/undp-visualization-library-sub001/scene"
)

const (
	// TypeKey, if present in a node's properties, indicates that that node
	// is an embedded payload.  properties[TypeKey] is a string naming the
	// type of the payload.
	TypeKey = "payload_type"

	// DatumType is the payload type of a mark's underlying datum.
	DatumType = "datum"

	datumLabelKey = "datum_label"
	datumDateKey  = "datum_date"
	datumColorKey = "datum_color"
	datumIDKey    = "datum_id"
)

// Payloader is implemented by types able to accept payloads.
type Payloader interface {
	// Payload implementations should add a child to the receiver and return
	// that child.
	Payload() scene.Builder
}

// New creates and returns a payload of the specified type under the provided
// parent.
func New(parent Payloader, payloadType string) scene.Builder {
	return parent.Payload().With(
		scene.StringProperty(TypeKey, payloadType),
	)
}

// Builder adapts a scene.Builder into a Payloader that adds payloads as its
// children.
type Builder struct {
	scene.Builder
}

// Payload adds a child to the receiver.
func (b Builder) Payload() scene.Builder {
	return b.Child()
}

// Datum attaches d to parent as a datum payload.  A nil d attaches nothing.
func Datum(parent Payloader, d *frameindexer.Datum) {
	if d == nil {
		return
	}
	New(parent, DatumType).With(
		scene.StringProperty(datumLabelKey, d.Label),
		scene.If(d.Date != "", scene.StringProperty(datumDateKey, d.Date)),
		scene.If(d.Color != "", scene.StringProperty(datumColorKey, d.Color)),
		scene.StringProperty(datumIDKey, d.ID),
		magnitude.Of(d.Size),
	)
}

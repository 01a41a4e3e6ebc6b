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

// Package interaction tracks per-chart hover, pin and legend selection
// state.
//
// A Controller is a small state machine driven by pointer events from the
// rendering surface.  Hover state (the hovered datum and pointer position)
// is set on Enter, updated on Move, and cleared atomically on Leave.  Pin
// state is toggled by Click.  Legend color selection is orthogonal to both.
// Handlers never block; configured callbacks fire synchronously once the
// state change has been applied.
package interaction

import (
	"sync"

	frameindexer "github.com/UNDP-Data/undp-visualization-library-sub001/frame_indexer"
	templaterenderer "github.com/UNDP-Data/undp-visualization-library-sub001/template_renderer"
	"github.com/google/safehtml"
)

// DefaultDimOpacity is the opacity of shapes not matching a selected legend
// color.
const DefaultDimOpacity = 0.3

// Point is a position in the surface's pixel space.
type Point struct {
	X, Y float64
}

// Size is the extent of a panel or viewport.
type Size struct {
	Width, Height float64
}

// Callback receives the datum affected by an interaction, or nil when the
// interaction cleared it.
type Callback func(d *frameindexer.Datum)

// Config configures a Controller.
type Config struct {
	// KeyBy determines how two datums are judged to be the same.
	KeyBy frameindexer.KeyBy
	// If true, clicking the pinned datum again unpins it.  Otherwise a click
	// always pins the clicked datum.
	ResetSelectionOnDoubleClick bool
	// DimOpacity is applied to shapes outside the selected color.  Zero
	// means DefaultDimOpacity.
	DimOpacity float64
	OnHover    Callback
	OnClick    Callback
	// Tooltip and Detail render the hovered and pinned datums, respectively.
	// Either may be nil.
	Tooltip *templaterenderer.Template
	Detail  *templaterenderer.Template
}

// State is a snapshot of a Controller's interaction state.
type State struct {
	// Hovered is the datum under the pointer, if any.  Pointer is only
	// meaningful while Hovered is non-nil.
	Hovered *frameindexer.Datum
	Pointer Point
	// Pinned is the clicked datum, if any.
	Pinned *frameindexer.Datum
	// SelectedColor is the selected legend color key, or "" if none is.
	SelectedColor string
	// Frame is the active frame index.
	Frame int
}

// IsHovered returns true if d is the hovered datum.
func (s State) IsHovered(d frameindexer.Datum, keyBy frameindexer.KeyBy) bool {
	return s.Hovered != nil && s.Hovered.Key(keyBy) == d.Key(keyBy)
}

// IsPinned returns true if d is the pinned datum.
func (s State) IsPinned(d frameindexer.Datum, keyBy frameindexer.KeyBy) bool {
	return s.Pinned != nil && s.Pinned.Key(keyBy) == d.Key(keyBy)
}

// Controller holds the interaction state of one chart instance.  It is safe
// for concurrent use.
type Controller struct {
	cfg Config

	mu     sync.Mutex
	state  State
	closed bool
}

// New returns a new, idle Controller.
func New(cfg Config) *Controller {
	if cfg.DimOpacity <= 0 {
		cfg.DimOpacity = DefaultDimOpacity
	}
	return &Controller{cfg: cfg}
}

func clone(d *frameindexer.Datum) *frameindexer.Datum {
	if d == nil {
		return nil
	}
	ret := *d
	return &ret
}

// Enter marks d as hovered, with the pointer at (x, y).
func (c *Controller) Enter(d *frameindexer.Datum, x, y float64) {
	if d == nil {
		c.Leave()
		return
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state.Hovered = clone(d)
	c.state.Pointer = Point{x, y}
	hovered := c.state.Hovered
	c.mu.Unlock()
	if c.cfg.OnHover != nil {
		c.cfg.OnHover(hovered)
	}
}

// Move updates the pointer position.  It has no effect unless a datum is
// hovered.
func (c *Controller) Move(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Hovered != nil {
		c.state.Pointer = Point{x, y}
	}
}

// Leave clears the hovered datum and pointer position together.
func (c *Controller) Leave() {
	c.mu.Lock()
	wasHovering := c.state.Hovered != nil
	c.state.Hovered = nil
	c.state.Pointer = Point{}
	c.mu.Unlock()
	if wasHovering && c.cfg.OnHover != nil {
		c.cfg.OnHover(nil)
	}
}

// Click handles a click on d.  A nil d, or a repeated click on the pinned
// datum when ResetSelectionOnDoubleClick is set, unpins; any other click
// pins d.
func (c *Controller) Click(d *frameindexer.Datum) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	switch {
	case d == nil:
		c.state.Pinned = nil
	case c.cfg.ResetSelectionOnDoubleClick && c.state.IsPinned(*d, c.cfg.KeyBy):
		c.state.Pinned = nil
	default:
		c.state.Pinned = clone(d)
	}
	pinned := c.state.Pinned
	c.mu.Unlock()
	if c.cfg.OnClick != nil {
		c.cfg.OnClick(pinned)
	}
}

// SelectColor selects a legend color; shapes of other colors are dimmed.
// Selecting the already-selected color clears the selection.
func (c *Controller) SelectColor(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.SelectedColor == key {
		c.state.SelectedColor = ""
		return
	}
	c.state.SelectedColor = key
}

// ClearColor clears any legend color selection.
func (c *Controller) ClearColor() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SelectedColor = ""
}

// SetFrame changes the active frame.  Hover state refers to the previous
// frame's datum, so it is dropped.
func (c *Controller) SetFrame(idx int) {
	c.mu.Lock()
	changed := c.state.Frame != idx
	wasHovering := c.state.Hovered != nil
	c.state.Frame = idx
	if changed {
		c.state.Hovered = nil
		c.state.Pointer = Point{}
	}
	c.mu.Unlock()
	if changed && wasHovering && c.cfg.OnHover != nil {
		c.cfg.OnHover(nil)
	}
}

// Close drops all hover and pin state.  Further pointer events are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.state = State{Frame: c.state.Frame}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	ret := c.state
	ret.Hovered = clone(ret.Hovered)
	ret.Pinned = clone(ret.Pinned)
	return ret
}

// Opacity returns base, or the dim opacity if a legend color other than
// colorKey is selected.
func (c *Controller) Opacity(colorKey string, base float64) float64 {
	return c.Snapshot().Opacity(colorKey, base, c.cfg.DimOpacity)
}

// Opacity returns base, or dim if a legend color other than colorKey is
// selected.
func (s State) Opacity(colorKey string, base, dim float64) float64 {
	if s.SelectedColor == "" || s.SelectedColor == colorKey {
		return base
	}
	return dim
}

// DimOpacity returns the configured dim opacity.
func (c *Controller) DimOpacity() float64 {
	return c.cfg.DimOpacity
}

// Tooltip renders the tooltip body for the hovered datum.  It returns false
// if nothing is hovered or no tooltip template is configured.
func (c *Controller) Tooltip() (safehtml.HTML, Point, bool) {
	s := c.Snapshot()
	if s.Hovered == nil || c.cfg.Tooltip == nil {
		return safehtml.HTML{}, Point{}, false
	}
	return c.cfg.Tooltip.Execute(*s.Hovered), s.Pointer, true
}

// Detail renders the detail panel body for the pinned datum.  It returns
// false if nothing is pinned or no detail template is configured.
func (c *Controller) Detail() (safehtml.HTML, bool) {
	s := c.Snapshot()
	if s.Pinned == nil || c.cfg.Detail == nil {
		return safehtml.HTML{}, false
	}
	return c.cfg.Detail.Execute(*s.Pinned), true
}

// TooltipOffset is the distance between the pointer and a tooltip panel.
const TooltipOffset = 10

// TooltipPosition returns the top-left corner of a panel of the provided
// size near pointer.  The panel sits below and to the right of the pointer,
// flipping to the other side along either axis where it would overflow the
// viewport, and is finally clamped into the viewport.
func TooltipPosition(pointer Point, panel Size, viewport Size) Point {
	return Point{
		X: place(pointer.X, panel.Width, viewport.Width),
		Y: place(pointer.Y, panel.Height, viewport.Height),
	}
}

func place(at, extent, limit float64) float64 {
	ret := at + TooltipOffset
	if ret+extent > limit {
		ret = at - TooltipOffset - extent
	}
	if ret+extent > limit {
		ret = limit - extent
	}
	if ret < 0 {
		ret = 0
	}
	return ret
}

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

// Package frameindexer groups completed Records into chronologically-ordered
// animation frames.  A caller-held frame index selects which frame to
// render; Series.At never panics for an out-of-range index, so scrubbing
// past either end, or rendering an empty series, is always safe.
package frameindexer

import (
	"sort"
	"strconv"
	"time"

	datacompleter "github.com/UNDP-Data/undp-visualization-library-sub001/data_completer"
	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
	"github.com/UNDP-Data/undp-visualization-library-sub001/record"
	"github.com/golang/glog"
)

// Order specifies the direction of an automatic sort.
type Order int

const (
	// Descending sorts largest values first.
	Descending Order = iota
	// Ascending sorts smallest values first.
	Ascending
)

// KeyBy selects the property by which Datums are keyed for animation
// continuity.
type KeyBy int

const (
	// ByLabel keys Datums by their label, so a bar follows its label across
	// frames.
	ByLabel KeyBy = iota
	// ByID keys Datums by their rank within the frame, so positions stay put
	// while labels change.
	ByID
)

// Options configures Index and Build.
type Options struct {
	// The date pattern used to parse date keys.  Defaults to "yyyy".
	DateFormat string
	// If true, each frame's Datums are sorted by Value.
	AutoSort bool
	// The autosort direction.
	Order Order
	// The sort value of a Record.  Multiple values are summed.  Defaults to
	// record.SizeField.
	Value record.Accessor
	KeyBy KeyBy
}

func (o Options) value() record.Accessor {
	if o.Value == nil {
		return record.SizeField
	}
	return o.Value
}

// Datum is a Record placed within a Frame.  ID is the Datum's zero-based
// position within its frame, which after an automatic sort is its rank.
type Datum struct {
	record.Record
	ID string
}

// Key returns the receiver's animation key under the provided KeyBy.
func (d Datum) Key(keyBy KeyBy) string {
	if keyBy == ByID {
		return d.ID
	}
	return d.Label
}

// Frame is the set of Datums sharing one date key.
type Frame struct {
	// The raw date key.  Empty for an undated series.
	Date string
	// The parsed date, valid only if Parsed is true.
	Time   time.Time
	Parsed bool
	Data   []Datum
}

// Series is an ordered sequence of Frames.
type Series struct {
	Frames []*Frame
	// All labels in the series, in first-seen order.
	Labels []string
	KeyBy  KeyBy
}

// Len returns the number of frames in the receiver.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Frames)
}

// At returns the frame at the provided index, or false if there is no such
// frame.
func (s *Series) At(idx int) (*Frame, bool) {
	if idx < 0 || idx >= s.Len() {
		return nil, false
	}
	return s.Frames[idx], true
}

// Clamp returns the provided index clamped to the receiver's valid frame
// indices.  It returns 0 for an empty series.
func (s *Series) Clamp(idx int) int {
	if idx >= s.Len() {
		idx = s.Len() - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// Dates returns the date keys of the receiver's frames, in frame order.
func (s *Series) Dates() []string {
	ret := make([]string, s.Len())
	for idx := 0; idx < s.Len(); idx++ {
		ret[idx] = s.Frames[idx].Date
	}
	return ret
}

// Index groups the provided completed records into frames.  Frames are
// ordered by parsed date (unparseable dates last, ties in input order).
// Within a frame Datums follow the series' first-seen label order, unless
// AutoSort is set.
func Index(completed []record.Record, o Options) *Series {
	return index(completed, datacompleter.Labels(completed), o)
}

func index(completed []record.Record, labels []string, o Options) *Series {
	s := &Series{
		Frames: []*Frame{},
		Labels: labels,
		KeyBy:  o.KeyBy,
	}
	if len(completed) == 0 {
		return s
	}
	labelRank := make(map[string]int, len(s.Labels))
	for idx, label := range s.Labels {
		labelRank[label] = idx
	}
	dates := datacompleter.DateKeys(completed)
	parsed := map[string]datacompleter.ParsedDate{}
	if len(dates) > 1 || dates[0] != "" {
		parsed = datacompleter.ParseDates(dates, o.DateFormat)
	}
	framesByDate := make(map[string]*Frame, len(dates))
	for _, date := range dates {
		pd := parsed[date]
		f := &Frame{
			Date:   date,
			Time:   pd.Time,
			Parsed: pd.Valid,
		}
		framesByDate[date] = f
		s.Frames = append(s.Frames, f)
	}
	for _, r := range completed {
		f := framesByDate[r.Date]
		f.Data = append(f.Data, Datum{Record: r})
	}
	sort.SliceStable(s.Frames, func(a, b int) bool {
		return datacompleter.Before(parsed[s.Frames[a].Date], parsed[s.Frames[b].Date])
	})
	value := o.value()
	for _, f := range s.Frames {
		sort.SliceStable(f.Data, func(a, b int) bool {
			return labelRank[f.Data[a].Label] < labelRank[f.Data[b].Label]
		})
		if o.AutoSort {
			sortData(f.Data, value, o.Order)
		}
		for idx := range f.Data {
			f.Data[idx].ID = strconv.Itoa(idx)
		}
	}
	glog.V(2).Infof("indexed %d records into %d frames of %d labels", len(completed), len(s.Frames), len(s.Labels))
	return s
}

// sortData stably sorts data by value in the provided order.  Datums with
// no finite value sort last in either order.
func sortData(data []Datum, value record.Accessor, order Order) {
	keys := make(map[int]nullguard.Number, len(data))
	for idx := range data {
		keys[idx] = record.Sum(value(&data[idx].Record))
	}
	perm := make([]int, len(data))
	for idx := range perm {
		perm[idx] = idx
	}
	sort.SliceStable(perm, func(a, b int) bool {
		ka, kb := keys[perm[a]], keys[perm[b]]
		if !ka.Finite() {
			return false
		}
		if !kb.Finite() {
			return true
		}
		va, _ := ka.Get()
		vb, _ := kb.Get()
		if order == Ascending {
			return va < vb
		}
		return va > vb
	})
	sorted := make([]Datum, len(data))
	for idx, p := range perm {
		sorted[idx] = data[p]
	}
	copy(data, sorted)
}

// Build completes the provided raw records and indexes them into frames.
// Label order is the first-seen order of the raw records.
func Build(raw []record.Record, o Options) *Series {
	return index(datacompleter.Complete(raw, o.DateFormat), datacompleter.Labels(raw), o)
}

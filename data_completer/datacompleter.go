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

// Package datacompleter expands a sparse, date-keyed series of Records into
// the full cross-product of label and date, so that every animation frame
// has the same set of labels.
//
// Missing (label, date) cells are synthesized as placeholder Records whose
// value fields are absent (not zero), and whose color is that of the first
// Record bearing the label.  The result is sorted by parsed date, ascending;
// the sort is stable, so ties keep their input order.
package datacompleter

import (
	"sort"
	"time"

	dateformat "github.com/UNDP-Data/undp-visualization-library-sub001/date_format"
	"github.com/UNDP-Data/undp-visualization-library-sub001/record"
	"github.com/golang/glog"
)

type cellKey struct {
	label, date string
}

// DateKeys returns the distinct date keys of the provided records, in
// first-seen order.
func DateKeys(records []record.Record) []string {
	seen := map[string]struct{}{}
	ret := []string{}
	for _, r := range records {
		if _, ok := seen[r.Date]; !ok {
			seen[r.Date] = struct{}{}
			ret = append(ret, r.Date)
		}
	}
	return ret
}

// Labels returns the distinct labels of the provided records, in first-seen
// order.
func Labels(records []record.Record) []string {
	seen := map[string]struct{}{}
	ret := []string{}
	for _, r := range records {
		if _, ok := seen[r.Label]; !ok {
			seen[r.Label] = struct{}{}
			ret = append(ret, r.Label)
		}
	}
	return ret
}

func dated(records []record.Record) bool {
	for _, r := range records {
		if r.Date != "" {
			return true
		}
	}
	return false
}

// ParsedDate couples a raw date key with its parsed time.  Valid is false if
// the key could not be parsed with the configured pattern.
type ParsedDate struct {
	Key   string
	Time  time.Time
	Valid bool
}

// ParseDates parses each provided date key with the provided pattern.
// Unparseable keys are logged and marked invalid.
func ParseDates(keys []string, dateFormat string) map[string]ParsedDate {
	ret := make(map[string]ParsedDate, len(keys))
	for _, key := range keys {
		t, err := dateformat.Parse(key, dateFormat)
		if err != nil {
			glog.Warningf("date key '%s' is unparseable and will sort last: %s", key, err)
		}
		ret[key] = ParsedDate{Key: key, Time: t, Valid: err == nil}
	}
	return ret
}

// Before reports whether a sorts strictly before b: valid dates sort
// chronologically, and invalid dates sort after all valid ones.
func Before(a, b ParsedDate) bool {
	switch {
	case a.Valid && b.Valid:
		return a.Time.Before(b.Time)
	case a.Valid:
		return true
	}
	return false
}

// keep records r's (label, date) pair in seen, returning false if it was
// already there.
func keep(seen map[cellKey]struct{}, r record.Record) bool {
	key := cellKey{r.Label, r.Date}
	if _, ok := seen[key]; ok {
		glog.Warningf("dropping duplicate record for label '%s' at date '%s'", r.Label, r.Date)
		return false
	}
	seen[key] = struct{}{}
	return true
}

// Complete returns the completion of the provided records: for every label
// and every date key observed anywhere in the series, exactly one Record.
// Records are never mutated; the returned Records are clones.
//
// A series in which no record is dated has no date dimension to complete,
// and is returned in order (cloned).  In either case, if multiple records
// share a (label, date) pair, only the first is kept.  Placeholder Sizes and
// Xs arrays have the length of the longest such array in the series.
func Complete(records []record.Record, dateFormat string) []record.Record {
	if len(records) == 0 {
		return []record.Record{}
	}
	existing := make(map[cellKey]struct{}, len(records))
	if !dated(records) {
		ret := make([]record.Record, 0, len(records))
		for _, r := range records {
			if !keep(existing, r) {
				continue
			}
			ret = append(ret, r.Clone())
		}
		return ret
	}
	labels := Labels(records)
	dates := DateKeys(records)
	colors := map[string]string{}
	sizesLen, xsLen := 0, 0
	ret := make([]record.Record, 0, len(labels)*len(dates))
	for _, r := range records {
		if !keep(existing, r) {
			continue
		}
		if _, ok := colors[r.Label]; !ok {
			colors[r.Label] = r.Color
		}
		if len(r.Sizes) > sizesLen {
			sizesLen = len(r.Sizes)
		}
		if len(r.Xs) > xsLen {
			xsLen = len(r.Xs)
		}
		ret = append(ret, r.Clone())
	}
	synthesized := 0
	for _, label := range labels {
		for _, date := range dates {
			if _, ok := existing[cellKey{label, date}]; ok {
				continue
			}
			ret = append(ret, record.Placeholder(label, date, colors[label], sizesLen, xsLen))
			synthesized++
		}
	}
	glog.V(2).Infof("completed %d labels x %d dates; synthesized %d placeholders", len(labels), len(dates), synthesized)
	parsed := ParseDates(dates, dateFormat)
	sort.SliceStable(ret, func(a, b int) bool {
		return Before(parsed[ret[a].Date], parsed[ret[b].Date])
	})
	return ret
}

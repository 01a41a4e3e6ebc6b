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

// Package animation describes transitions between two frames' shapes.
//
// A Transition pairs the shapes of the outgoing and incoming frames by Key:
// shapes present in both are updated, shapes only in the incoming frame
// enter, and shapes only in the outgoing frame exit.  The rendering surface
// owns the clock; it asks a Transition for the shapes at some progress
// between 0 and 1 as often as it likes.
package animation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/UNDP-Data/undp-visualization-library-sub001/color"
	"github.com/UNDP-Data/undp-visualization-library-sub001/geometry"
)

// DefaultDuration is the transition duration used when none is configured.
const DefaultDuration = 500 * time.Millisecond

// Phase is the part a shape plays in a Transition.
type Phase int

// Transition phases.
const (
	Update Phase = iota
	Enter
	Exit
)

func (p Phase) String() string {
	switch p {
	case Enter:
		return "enter"
	case Exit:
		return "exit"
	}
	return "update"
}

// Easing maps linear progress in [0, 1] to eased progress.
type Easing func(float64) float64

// Linear is the identity Easing.
func Linear(t float64) float64 {
	return t
}

// CubicInOut accelerates through the first half of a transition, and
// decelerates through the second.
func CubicInOut(t float64) float64 {
	if t < .5 {
		return 4 * t * t * t
	}
	u := 2*t - 2
	return 1 + u*u*u/2
}

// Pair is one shape's start and end state.
type Pair struct {
	Key      string
	Phase    Phase
	From, To geometry.Shape
}

// Transition is a declarative animation between two sets of shapes.
type Transition struct {
	Duration time.Duration
	Ease     Easing
	Pairs    []Pair
}

// occurrenceKeys returns a key for each shape, disambiguating repeated Keys
// by their occurrence count.
func occurrenceKeys(shapes []geometry.Shape) []string {
	seen := map[string]int{}
	ret := make([]string, len(shapes))
	for idx, s := range shapes {
		n := seen[s.Key]
		seen[s.Key] = n + 1
		if n == 0 {
			ret[idx] = s.Key
		} else {
			ret[idx] = s.Key + "#" + strconv.Itoa(n)
		}
	}
	return ret
}

// hidden returns s as it appears before entering or after exiting.
func hidden(s geometry.Shape) geometry.Shape {
	s.Opacity = 0
	if s.Kind == geometry.CircleKind {
		s.R = 0
	}
	return s
}

// Plan pairs from and to by Key.  Pairs follow the order of to, with
// exiting shapes last in the order of from.  A non-positive duration means
// DefaultDuration.
func Plan(from, to []geometry.Shape, duration time.Duration) Transition {
	if duration <= 0 {
		duration = DefaultDuration
	}
	fromKeys := occurrenceKeys(from)
	toKeys := occurrenceKeys(to)
	fromByKey := make(map[string]int, len(from))
	for idx, k := range fromKeys {
		fromByKey[k] = idx
	}
	matched := make([]bool, len(from))
	pairs := make([]Pair, 0, len(to)+len(from))
	for idx, s := range to {
		k := toKeys[idx]
		if fIdx, ok := fromByKey[k]; ok {
			matched[fIdx] = true
			pairs = append(pairs, Pair{Key: k, Phase: Update, From: from[fIdx], To: s})
			continue
		}
		pairs = append(pairs, Pair{Key: k, Phase: Enter, From: hidden(s), To: s})
	}
	for idx, s := range from {
		if !matched[idx] {
			pairs = append(pairs, Pair{Key: fromKeys[idx], Phase: Exit, From: s, To: hidden(s)})
		}
	}
	return Transition{
		Duration: duration,
		Ease:     CubicInOut,
		Pairs:    pairs,
	}
}

// Counts returns the number of entering, updating and exiting shapes.
func (t Transition) Counts() (enter, update, exit int) {
	for _, p := range t.Pairs {
		switch p.Phase {
		case Enter:
			enter++
		case Exit:
			exit++
		default:
			update++
		}
	}
	return enter, update, exit
}

// At returns the shapes at the provided linear progress, clamped to [0, 1].
// At 1 exiting shapes are gone, and the result equals the incoming frame's
// shapes.
func (t Transition) At(progress float64) []geometry.Shape {
	if math.IsNaN(progress) {
		progress = 0
	}
	progress = math.Max(0, math.Min(1, progress))
	eased := progress
	if t.Ease != nil {
		eased = t.Ease(progress)
	}
	ret := make([]geometry.Shape, 0, len(t.Pairs))
	for _, p := range t.Pairs {
		if progress == 1 {
			if p.Phase != Exit {
				ret = append(ret, p.To)
			}
			continue
		}
		ret = append(ret, Interpolate(p.From, p.To, eased))
	}
	return ret
}

// AtElapsed returns the shapes after elapsed time.
func (t Transition) AtElapsed(elapsed time.Duration) []geometry.Shape {
	if t.Duration <= 0 {
		return t.At(1)
	}
	return t.At(float64(elapsed) / float64(t.Duration))
}

func mix(a, b, p float64) float64 {
	return a + (b-a)*p
}

// Interpolate returns the shape part way, p in [0, 1], from a to b.
// Numeric attributes and parseable colors are interpolated; other
// attributes switch halfway.
func Interpolate(a, b geometry.Shape, p float64) geometry.Shape {
	if p <= 0 {
		return a
	}
	if p >= 1 {
		return b
	}
	ret := a
	if p >= .5 {
		ret = b
	}
	if a.Kind != b.Kind {
		return ret
	}
	ret.X = mix(a.X, b.X, p)
	ret.Y = mix(a.Y, b.Y, p)
	ret.Width = mix(a.Width, b.Width, p)
	ret.Height = mix(a.Height, b.Height, p)
	ret.X2 = mix(a.X2, b.X2, p)
	ret.Y2 = mix(a.Y2, b.Y2, p)
	ret.R = mix(a.R, b.R, p)
	ret.StrokeWidth = mix(a.StrokeWidth, b.StrokeWidth, p)
	ret.Opacity = mix(a.Opacity, b.Opacity, p)
	ret.Fill = color.Mix(a.Fill, b.Fill, p)
	ret.Stroke = color.Mix(a.Stroke, b.Stroke, p)
	if d, ok := interpolatePath(a.D, b.D, p); ok {
		ret.D = d
	}
	return geometry.Sanitize(ret)
}

var pathNumberRE = regexp.MustCompile(`-?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)

// interpolatePath interpolates the coordinates of two paths with the same
// commands.  It returns false if the paths' commands differ.
func interpolatePath(a, b string, p float64) (string, bool) {
	if a == b {
		return a, true
	}
	aLocs := pathNumberRE.FindAllStringIndex(a, -1)
	bLocs := pathNumberRE.FindAllStringIndex(b, -1)
	if len(aLocs) != len(bLocs) || len(aLocs) == 0 {
		return "", false
	}
	// The text between numbers must match exactly.
	aLast, bLast := 0, 0
	for idx := range aLocs {
		if a[aLast:aLocs[idx][0]] != b[bLast:bLocs[idx][0]] {
			return "", false
		}
		aLast, bLast = aLocs[idx][1], bLocs[idx][1]
	}
	if a[aLast:] != b[bLast:] {
		return "", false
	}
	out := make([]byte, 0, len(b))
	last := 0
	var cmd byte
	param := 0
	for idx, loc := range aLocs {
		between := a[last:loc[0]]
		if c := strings.LastIndexFunc(between, unicode.IsLetter); c >= 0 {
			cmd, param = between[c], 0
		}
		out = append(out, between...)
		av, errA := strconv.ParseFloat(a[loc[0]:loc[1]], 64)
		bv, errB := strconv.ParseFloat(b[bLocs[idx][0]:bLocs[idx][1]], 64)
		if errA != nil || errB != nil {
			return "", false
		}
		// Arc flags can't be interpolated.
		if (cmd == 'A' || cmd == 'a') && (param%7 == 3 || param%7 == 4) {
			if av != bv {
				return "", false
			}
			out = append(out, a[loc[0]:loc[1]]...)
		} else {
			out = append(out, geometry.Num(mix(av, bv, p))...)
		}
		param++
		last = loc[1]
	}
	out = append(out, a[last:]...)
	return string(out), true
}

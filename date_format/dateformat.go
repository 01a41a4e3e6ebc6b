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

// Package dateformat parses and formats dates using Unicode-style date
// patterns, such as "yyyy", "MM-yyyy" or "dd MMM yyyy", as supplied by chart
// configuration.  Patterns are translated into Go time layouts.
//
// Supported pattern letters are:
//
//	yyyy yy y      year
//	MMMM MMM MM M  month (name, abbreviation, padded, unpadded)
//	dd d           day of month
//	EEEE EEE       weekday
//	HH H hh h      hour (24h, 12h)
//	mm m           minute
//	ss s           second
//	S...           fractional second (must follow a '.')
//	a              AM/PM marker
//	X xxx          zone offset
//
// Text within single quotes is literal; two single quotes produce one.
// Other letters are rejected.
package dateformat

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultPattern is the pattern used when none is configured.
const DefaultPattern = "yyyy"

var layouts sync.Map // pattern -> layout

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func translate(letter byte, count int) (string, error) {
	switch letter {
	case 'y':
		if count == 2 {
			return "06", nil
		}
		return "2006", nil
	case 'M':
		switch {
		case count >= 4:
			return "January", nil
		case count == 3:
			return "Jan", nil
		case count == 2:
			return "01", nil
		}
		return "1", nil
	case 'd':
		if count >= 2 {
			return "02", nil
		}
		return "2", nil
	case 'E':
		if count >= 4 {
			return "Monday", nil
		}
		return "Mon", nil
	case 'H':
		return "15", nil
	case 'h':
		if count >= 2 {
			return "03", nil
		}
		return "3", nil
	case 'm':
		if count >= 2 {
			return "04", nil
		}
		return "4", nil
	case 's':
		if count >= 2 {
			return "05", nil
		}
		return "5", nil
	case 'S':
		return strings.Repeat("0", count), nil
	case 'a':
		return "PM", nil
	case 'X':
		return "Z07:00", nil
	case 'x':
		return "-07:00", nil
	}
	return "", fmt.Errorf("unsupported date pattern letter '%c'", letter)
}

// Layout returns the Go time layout equivalent to the provided pattern.  An
// empty pattern is DefaultPattern.
func Layout(pattern string) (string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if l, ok := layouts.Load(pattern); ok {
		return l.(string), nil
	}
	var sb strings.Builder
	for i := 0; i < len(pattern); {
		c := pattern[i]
		switch {
		case c == '\'':
			// Quoted literal.
			j := i + 1
			if j < len(pattern) && pattern[j] == '\'' {
				sb.WriteByte('\'')
				i = j + 1
				continue
			}
			for ; j < len(pattern); j++ {
				if pattern[j] == '\'' {
					if j+1 < len(pattern) && pattern[j+1] == '\'' {
						sb.WriteByte('\'')
						j++
						continue
					}
					break
				}
				sb.WriteByte(pattern[j])
			}
			if j >= len(pattern) {
				return "", fmt.Errorf("unterminated literal in date pattern '%s'", pattern)
			}
			i = j + 1
		case isLetter(c):
			j := i
			for j < len(pattern) && pattern[j] == c {
				j++
			}
			tok, err := translate(c, j-i)
			if err != nil {
				return "", fmt.Errorf("%w in '%s'", err, pattern)
			}
			sb.WriteString(tok)
			i = j
		default:
			sb.WriteByte(c)
			i++
		}
	}
	layout := sb.String()
	layouts.Store(pattern, layout)
	return layout, nil
}

// Parse parses value according to the provided pattern.  Times without a
// zone are UTC.
func Parse(value, pattern string) (time.Time, error) {
	layout, err := Layout(pattern)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(layout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("date '%s' does not match pattern '%s': %w", value, pattern, err)
	}
	return t, nil
}

// Format formats t according to the provided pattern.  If the pattern is
// invalid, t is formatted as RFC 3339.
func Format(t time.Time, pattern string) string {
	layout, err := Layout(pattern)
	if err != nil {
		return t.Format(time.RFC3339)
	}
	return t.Format(layout)
}

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

// Package numberformat formats values for chart labels, tooltips, and
// templates, using SI prefixes for large magnitudes.
//
// Values whose magnitude is below 1 are rendered as-is, so that 0.5 never
// becomes "500m".  Larger values are rounded to three significant digits
// and scaled by the largest SI prefix not exceeding them, with giga written
// "B" (billion) rather than "G":
//
//	Format(0.5, "", "")       // "0.5"
//	Format(1500000, "$", "")  // "$1.5M"
//	Format(2e9, "", " USD")   // "2B USD"
//
// The mantissa is rendered with the decimal separator of the formatter's
// language.
package numberformat

import (
	"math"
	"strconv"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// SignificantDigits is the number of significant digits kept for values of
// magnitude at least 1.
const SignificantDigits = 3

var prefixes = []string{"", "k", "M", "B", "T", "P", "E", "Z", "Y"}

// Formatter formats numbers for one language.  It is safe for concurrent
// use.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Formatter for the provided BCP 47 language tag.  An
// unparseable tag falls back to English.
func New(lang string) *Formatter {
	tag, err := language.Parse(lang)
	if err != nil || lang == "" {
		tag = language.English
	}
	return &Formatter{
		tag:     tag,
		printer: message.NewPrinter(tag),
	}
}

// Language returns the receiver's language tag.
func (f *Formatter) Language() language.Tag {
	return f.tag
}

// Mantissa returns v rounded to SignificantDigits significant digits and
// scaled down by a power of 1000, along with the SI prefix for that power
// and the number of fraction digits left in the mantissa.  ok is false if
// v is beyond the largest prefix, or has magnitude below 1.
func Mantissa(v float64) (mantissa float64, prefix string, fractionDigits int, ok bool) {
	abs := math.Abs(v)
	if !(abs >= 1) || math.IsInf(v, 0) {
		return 0, "", 0, false
	}
	exp := int(math.Floor(math.Log10(abs)))
	// Rounding can carry into the next power of ten (999.6 -> 1000).
	rounded := roundSignificant(abs, exp)
	if rounded >= math.Pow(10, float64(exp+1)) {
		exp++
	}
	group := exp / 3
	if group >= len(prefixes) {
		return 0, "", 0, false
	}
	intDigits := exp - 3*group + 1
	fractionDigits = SignificantDigits - intDigits
	if fractionDigits < 0 {
		fractionDigits = 0
	}
	mantissa = rounded / math.Pow(1000, float64(group))
	scale := math.Pow(10, float64(fractionDigits))
	mantissa = math.Round(mantissa*scale) / scale
	return math.Copysign(mantissa, v), prefixes[group], fractionDigits, true
}

func roundSignificant(abs float64, exp int) float64 {
	// Dividing by an exact power of ten avoids 0.1-style representation
	// error when rounding large values.
	if shift := exp - (SignificantDigits - 1); shift > 0 {
		factor := math.Pow(10, float64(shift))
		return math.Round(abs/factor) * factor
	}
	scale := math.Pow(10, float64(SignificantDigits-1-exp))
	return math.Round(abs*scale) / scale
}

// Format formats v with the provided prefix and suffix.
func (f *Formatter) Format(v float64, prefix, suffix string) string {
	return prefix + f.format(v) + suffix
}

func (f *Formatter) format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if math.Abs(v) < 1 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	mantissa, si, fractionDigits, ok := Mantissa(v)
	if !ok {
		return strconv.FormatFloat(v, 'g', SignificantDigits, 64)
	}
	return f.printer.Sprint(number.Decimal(mantissa, number.MaxFractionDigits(fractionDigits))) + si
}

var (
	defaultOnce sync.Once
	defaultFmt  *Formatter
)

// Default returns the shared English Formatter.
func Default() *Formatter {
	defaultOnce.Do(func() {
		defaultFmt = New("en")
	})
	return defaultFmt
}

// Format formats v with the provided prefix and suffix, in English.
func Format(v float64, prefix, suffix string) string {
	return Default().Format(v, prefix, suffix)
}

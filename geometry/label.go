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

package geometry

import "unicode/utf8"

// CharWidth is the estimated width of one character, as a fraction of the
// font size.
const CharWidth = 0.6

// TextWidth estimates the pixel width of text at the provided font size.
func TextWidth(text string, fontSize float64) float64 {
	return float64(utf8.RuneCountInString(text)) * fontSize * CharWidth
}

// FitsLabel returns true if text at the provided font size fits within the
// available width, with padding on either side.
func FitsLabel(text string, fontSize, available, padding float64) bool {
	if text == "" {
		return true
	}
	return TextWidth(text, fontSize)+2*padding <= available
}

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

// Package magnitude supports attaching magnitudes to items.
package magnitude

import (
	nullguard "github.com/UNDP-Data/undp-visualization-library-sub001/null_guard"
	"github.com/UNDP-Data/undp-visualization-library-sub001/scene"
)

const (
	selfMagnitudeKey = "self_magnitude"
)

// SelfMagnitude returns a PropertyUpdate that annotates with the provided
// self-magnitude.
func SelfMagnitude(selfMagnitude float64) scene.PropertyUpdate {
	return scene.DoubleProperty(selfMagnitudeKey, selfMagnitude)
}

// Of annotates with n as the self-magnitude, or does nothing if n is absent
// or non-finite.
func Of(n nullguard.Number) scene.PropertyUpdate {
	if !n.Finite() {
		return scene.EmptyUpdate
	}
	v, _ := n.Get()
	return SelfMagnitude(v)
}

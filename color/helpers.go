// seehuhn.de/go/raster - streaming PNG encoding with colour management
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package color

import (
	"math"

	"golang.org/x/exp/constraints"
)

func clamp[T constraints.Float | constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func isPosVec3(x []float64) bool {
	return len(x) == 3 && x[0] > 0 && x[1] > 0 && x[2] > 0
}

func isValidWhitePoint(x []float64) bool {
	return isPosVec3(x) && math.Abs(x[1]-1) <= ε
}

func isValidBlackPoint(x []float64) bool {
	return len(x) == 3 && x[0] >= 0 && x[1] >= 0 && x[2] >= 0
}

const ε = 1e-6

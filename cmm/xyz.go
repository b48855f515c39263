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

package cmm

import "math"

// D50 is the white point of the profile connection space.
var D50 = [3]float64{0.9642, 1.0, 0.8249}

// XYZToSRGB converts CIE XYZ (D50) to gamma encoded sRGB.
// The result is clamped to [0,1].
func XYZToSRGB(X, Y, Z float64) (r, g, b float64) {
	// Bradford chromatic adaptation D50 to D65
	X2 := 0.9555766*X - 0.0230393*Y + 0.0631636*Z
	Y2 := -0.0282895*X + 1.0099416*Y + 0.0210077*Z
	Z2 := 0.0122982*X - 0.0204830*Y + 1.3299098*Z

	// XYZ (D65) to linear sRGB
	rLin := 3.2404542*X2 - 1.5371385*Y2 - 0.4985314*Z2
	gLin := -0.9692660*X2 + 1.8760108*Y2 + 0.0415560*Z2
	bLin := 0.0556434*X2 - 0.2040259*Y2 + 1.0572252*Z2

	r = srgbGamma(rLin)
	g = srgbGamma(gLin)
	b = srgbGamma(bLin)
	return clamp01(r), clamp01(g), clamp01(b)
}

// SRGBToXYZ converts gamma encoded sRGB values in [0,1] to CIE XYZ (D50).
func SRGBToXYZ(r, g, b float64) (X, Y, Z float64) {
	rLin := srgbGammaInv(r)
	gLin := srgbGammaInv(g)
	bLin := srgbGammaInv(b)

	// linear sRGB to XYZ (D65)
	X2 := 0.4124564*rLin + 0.3575761*gLin + 0.1804375*bLin
	Y2 := 0.2126729*rLin + 0.7151522*gLin + 0.0721750*bLin
	Z2 := 0.0193339*rLin + 0.1191920*gLin + 0.9503041*bLin

	// Bradford chromatic adaptation D65 to D50
	X = 1.0478112*X2 + 0.0228866*Y2 - 0.0501270*Z2
	Y = 0.0295424*X2 + 0.9904844*Y2 - 0.0170491*Z2
	Z = -0.0092345*X2 + 0.0150436*Y2 + 0.7521316*Z2
	return X, Y, Z
}

// LabToXYZ converts CIE L*a*b* to CIE XYZ, relative to the D50 white point.
func LabToXYZ(L, a, b float64) (X, Y, Z float64) {
	fy := (L + 16) / 116
	fx := fy + a/500
	fz := fy - b/200
	return D50[0] * labFInv(fx), D50[1] * labFInv(fy), D50[2] * labFInv(fz)
}

// XYZToLab converts CIE XYZ (D50) to CIE L*a*b*.
func XYZToLab(X, Y, Z float64) (L, a, b float64) {
	fx := labF(X / D50[0])
	fy := labF(Y / D50[1])
	fz := labF(Z / D50[2])
	return 116*fy - 16, 500 * (fx - fy), 200 * (fy - fz)
}

const (
	labEpsilon = 216.0 / 24389.0
	labKappa   = 24389.0 / 27.0
)

func labF(t float64) float64 {
	if t > labEpsilon {
		return math.Cbrt(t)
	}
	return (labKappa*t + 16) / 116
}

func labFInv(f float64) float64 {
	t := f * f * f
	if t > labEpsilon {
		return t
	}
	return (116*f - 16) / labKappa
}

func srgbGamma(v float64) float64 {
	if v <= 0.0031308 {
		return 12.92 * v
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}

func srgbGammaInv(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Invert3 returns the inverse of the row-major 3x3 matrix m.
// The second return value is false if m is singular.
func Invert3(m [9]float64) ([9]float64, bool) {
	det := m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
	if math.Abs(det) < 1e-12 {
		return [9]float64{}, false
	}
	inv := 1 / det
	return [9]float64{
		(m[4]*m[8] - m[5]*m[7]) * inv,
		(m[2]*m[7] - m[1]*m[8]) * inv,
		(m[1]*m[5] - m[2]*m[4]) * inv,
		(m[5]*m[6] - m[3]*m[8]) * inv,
		(m[0]*m[8] - m[2]*m[6]) * inv,
		(m[2]*m[3] - m[0]*m[5]) * inv,
		(m[3]*m[7] - m[4]*m[6]) * inv,
		(m[1]*m[6] - m[0]*m[7]) * inv,
		(m[0]*m[4] - m[1]*m[3]) * inv,
	}, true
}

func mul3(m *[9]float64, x, y, z float64) (float64, float64, float64) {
	return m[0]*x + m[1]*y + m[2]*z,
		m[3]*x + m[4]*y + m[5]*z,
		m[6]*x + m[7]*y + m[8]*z
}

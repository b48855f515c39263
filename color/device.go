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

import "seehuhn.de/go/raster/cmm"

// The device colour spaces are created during package initialisation and
// are read-only afterwards, so they can be used from any goroutine.
var (
	deviceGray = newStatic("DeviceGray", 1, false, grayToRGB, rgbToGray, nil)
	deviceRGB  = newStatic("DeviceRGB", 3, false, rgbToRGB, rgbToRGB, nil)
	deviceBGR  = newStatic("DeviceBGR", 3, false, bgrToRGB, rgbToBGR, nil)
	deviceCMYK = newStatic("DeviceCMYK", 4, true, cmykToRGB, rgbToCMYK, nil)
	deviceLab  = newStatic("DeviceLab", 3, false, labToRGB, rgbToLab, clampLab)
)

// DeviceGray returns the device gray colour space.
func DeviceGray() *Space { return deviceGray }

// DeviceRGB returns the device RGB colour space.
func DeviceRGB() *Space { return deviceRGB }

// DeviceBGR returns the device RGB colour space with the components stored
// in reverse order.
func DeviceBGR() *Space { return deviceBGR }

// DeviceCMYK returns the device CMYK colour space.
func DeviceCMYK() *Space { return deviceCMYK }

// DeviceLab returns the CIE L*a*b* colour space, relative to a D50 white
// point.  The L component ranges over [0, 100], a and b over [-128, 127].
func DeviceLab() *Space { return deviceLab }

func grayToRGB(_ *Space, src, dst []float64) {
	dst[0] = src[0]
	dst[1] = src[0]
	dst[2] = src[0]
}

func rgbToGray(_ *Space, src, dst []float64) {
	dst[0] = src[0]*0.3 + src[1]*0.59 + src[2]*0.11
}

func rgbToRGB(_ *Space, src, dst []float64) {
	dst[0] = src[0]
	dst[1] = src[1]
	dst[2] = src[2]
}

func bgrToRGB(_ *Space, src, dst []float64) {
	dst[0] = src[2]
	dst[1] = src[1]
	dst[2] = src[0]
}

func rgbToBGR(_ *Space, src, dst []float64) {
	dst[0] = src[2]
	dst[1] = src[1]
	dst[2] = src[0]
}

func cmykToRGB(_ *Space, src, dst []float64) {
	c, m, y, k := src[0], src[1], src[2], src[3]
	dst[0] = 1 - min(c+k, 1)
	dst[1] = 1 - min(m+k, 1)
	dst[2] = 1 - min(y+k, 1)
}

func rgbToCMYK(_ *Space, src, dst []float64) {
	c := 1 - src[0]
	m := 1 - src[1]
	y := 1 - src[2]
	k := min(c, m, y)
	dst[0] = c - k
	dst[1] = m - k
	dst[2] = y - k
	dst[3] = k
}

func labToRGB(_ *Space, src, dst []float64) {
	X, Y, Z := cmm.LabToXYZ(src[0], src[1], src[2])
	dst[0], dst[1], dst[2] = cmm.XYZToSRGB(X, Y, Z)
}

func rgbToLab(_ *Space, src, dst []float64) {
	X, Y, Z := cmm.SRGBToXYZ(clamp01(src[0]), clamp01(src[1]), clamp01(src[2]))
	dst[0], dst[1], dst[2] = cmm.XYZToLab(X, Y, Z)
}

func clampLab(_ *Space, src, dst []float64) {
	dst[0] = clamp(src[0], 0, 100)
	dst[1] = clamp(src[1], -128, 127)
	dst[2] = clamp(src[2], -128, 127)
}

// Fast paths between the device spaces, avoiding the detour through RGB.

func grayToCMYK(_, _ *Space, dst, src []float64) {
	dst[0] = 0
	dst[1] = 0
	dst[2] = 0
	dst[3] = 1 - src[0]
}

func cmykToGray(_, _ *Space, dst, src []float64) {
	c := src[0] * 0.3
	m := src[1] * 0.59
	y := src[2] * 0.11
	dst[0] = 1 - min(c+m+y+src[3], 1)
}

func fastConverter(ss, ds *Space) func(ss, ds *Space, dst, src []float64) {
	switch {
	case ss == deviceGray && ds == deviceCMYK:
		return grayToCMYK
	case ss == deviceCMYK && ds == deviceGray:
		return cmykToGray
	}

	isDevice := func(s *Space) bool {
		return s == deviceGray || s == deviceRGB || s == deviceBGR || s == deviceCMYK
	}
	if !isDevice(ss) || !isDevice(ds) {
		return nil
	}
	if ss == deviceRGB {
		return func(_, ds *Space, dst, src []float64) {
			ds.fromRGB(ds, src, dst)
		}
	}
	if ds == deviceRGB {
		return func(ss, _ *Space, dst, src []float64) {
			ss.toRGB(ss, src, dst)
		}
	}
	return nil
}

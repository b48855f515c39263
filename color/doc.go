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

// Package color implements colour spaces and conversions between them.
//
// The following kinds of colour spaces are supported:
//   - The device spaces [DeviceGray], [DeviceRGB], [DeviceBGR],
//     [DeviceCMYK] and [DeviceLab].  These are created once, when the
//     package is initialised.
//   - Generic colour spaces, defined by a pair of conversion functions,
//     see [NewSpace].
//   - Indexed colour spaces, see [NewIndexed].
//   - ICC based colour spaces, see [NewICC] and [SRGB].
//   - Calibrated CIE based colour spaces, see [NewCal].
//
// All conversions go through device RGB, with components in the range
// [0, 1].  ICC based and calibrated colour spaces convert via CIE XYZ,
// using the transforms from package [seehuhn.de/go/raster/cmm].
//
// Colour values are slices of float64, one entry per component.
// Components normally range over [0, 1]; the exceptions are Lab spaces
// and indexed spaces, see [Space.Range].
package color

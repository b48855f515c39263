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

// Package raster writes raster images as PNG files, one band of rows at a
// time, with colour management for the pixel data.
//
// The functionality is split over several sub-packages:
//   - [seehuhn.de/go/raster/color] implements colour spaces and the
//     conversions between them.
//   - [seehuhn.de/go/raster/cmm] implements transforms between ICC
//     profiles.
//   - [seehuhn.de/go/raster/pixmap] holds rectangular arrays of samples.
//   - [seehuhn.de/go/raster/band] defines the protocol which feeds images
//     to an encoder, band by band.
//   - [seehuhn.de/go/raster/png] implements this protocol for PNG files.
//
// This package itself only holds the logger shared by the sub-packages,
// see [SetLogger].
package raster

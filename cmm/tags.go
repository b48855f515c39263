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

import (
	"encoding/binary"
	"errors"
	"math"

	"seehuhn.de/go/icc"
)

// Tag signatures read and written by this package.
const (
	TagWhitePoint    icc.TagType = 0x77747074 // "wtpt"
	TagRedColorant   icc.TagType = 0x7258595A // "rXYZ"
	TagGreenColorant icc.TagType = 0x6758595A // "gXYZ"
	TagBlueColorant  icc.TagType = 0x6258595A // "bXYZ"
	TagRedTRC        icc.TagType = 0x72545243 // "rTRC"
	TagGreenTRC      icc.TagType = 0x67545243 // "gTRC"
	TagBlueTRC       icc.TagType = 0x62545243 // "bTRC"
	TagGrayTRC       icc.TagType = 0x6B545243 // "kTRC"
	TagAToB0         icc.TagType = 0x41324230 // "A2B0"
	TagDescription   icc.TagType = 0x64657363 // "desc"
	TagCopyright     icc.TagType = 0x63707274 // "cprt"
)

// EncodeGammaCurve returns the data of a "curv" tag for y = x^gamma.
func EncodeGammaCurve(gamma float64) []byte {
	buf := make([]byte, 14)
	copy(buf, "curv")
	binary.BigEndian.PutUint32(buf[8:], 1)
	binary.BigEndian.PutUint16(buf[12:], uint16(math.Round(gamma*256)))
	return buf
}

// EncodeXYZ returns the data of an "XYZ " tag.
func EncodeXYZ(X, Y, Z float64) []byte {
	buf := make([]byte, 20)
	copy(buf, "XYZ ")
	for i, v := range []float64{X, Y, Z} {
		binary.BigEndian.PutUint32(buf[8+4*i:], uint32(int32(math.Round(v*65536))))
	}
	return buf
}

func decodeXYZ(data []byte) ([3]float64, error) {
	if len(data) < 20 || string(data[:4]) != "XYZ " {
		return [3]float64{}, errMalformedTag
	}
	return [3]float64{
		s15Fixed16(data[8:]),
		s15Fixed16(data[12:]),
		s15Fixed16(data[16:]),
	}, nil
}

func s15Fixed16(b []byte) float64 {
	return float64(int32(binary.BigEndian.Uint32(b))) / 65536
}

var errMalformedTag = errors.New("cmm: malformed tag data")

// evalCurve applies a tone reproduction curve to x, restricting input and
// output to [0, 1].
func evalCurve(c *icc.Curve, x float64) float64 {
	return clamp01(c.Evaluate(clamp01(x)))
}

// invertCurve returns x such that evalCurve(c, x) is approximately y.
// The curve must be monotonic.
func invertCurve(c *icc.Curve, y float64) float64 {
	y = clamp01(y)
	lo, hi := 0.0, 1.0
	increasing := evalCurve(c, 1) >= evalCurve(c, 0)
	for range 48 {
		mid := (lo + hi) / 2
		if (evalCurve(c, mid) < y) == increasing {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

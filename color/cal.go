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
	"encoding/binary"
	"errors"
	"math"
	"time"
	"unicode/utf16"

	"seehuhn.de/go/icc"

	"seehuhn.de/go/raster"
	"seehuhn.de/go/raster/cmm"
)

// CalColor holds the parameters of a calibrated (CIE based) colour space.
//
// The matrix maps the linearised components A, B, C to CIE XYZ:
// X = Matrix[0]*A + Matrix[3]*B + Matrix[6]*C, and similarly for Y and Z
// with offsets 1 and 2.
type CalColor struct {
	WhitePoint [3]float64
	BlackPoint [3]float64
	Gamma      [3]float64
	Matrix     [9]float64

	// N is 1 for CalGray and 3 for CalRGB.
	N int
}

type calData struct {
	CalColor
	inv     [9]float64
	icc     []byte
	profile *cmm.Profile
}

func (d *calData) release() {
	d.profile = nil
}

// NewCal returns a new calibrated colour space.
//
// WhitePoint is the diffuse white point in CIE 1931 XYZ coordinates.  This
// must be a slice of length 3, with positive entries, and Y=1.
//
// BlackPoint (optional) is the diffuse black point in CIE 1931 XYZ
// coordinates.  If non-nil, this must be a slice of three non-negative
// numbers.  The default is [0 0 0].
//
// If matrix is nil, a CalGray space is created and gamma must have exactly
// one positive entry.  Otherwise matrix must have 9 entries, gamma must
// have 3 positive entries, and a CalRGB space is created.
//
// An ICC profile equivalent to the calibration is generated, so that the
// colour space can be embedded into output files.
func NewCal(whitePoint, blackPoint, gamma, matrix []float64) (*Space, error) {
	if !isValidWhitePoint(whitePoint) {
		return nil, errors.New("Cal: invalid white point")
	}
	if blackPoint == nil {
		blackPoint = []float64{0, 0, 0}
	} else if !isValidBlackPoint(blackPoint) {
		return nil, errors.New("Cal: invalid black point")
	}

	cal := CalColor{N: 1}
	copy(cal.WhitePoint[:], whitePoint)
	copy(cal.BlackPoint[:], blackPoint)

	name := "CalGray"
	if matrix == nil {
		if len(gamma) != 1 || gamma[0] <= 0 {
			return nil, errors.New("CalGray: invalid gamma")
		}
		cal.Gamma = [3]float64{gamma[0], gamma[0], gamma[0]}
		cal.Matrix = [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	} else {
		name = "CalRGB"
		if len(gamma) != 3 || !isPosVec3(gamma) {
			return nil, errors.New("CalRGB: invalid gamma")
		}
		if len(matrix) != 9 {
			return nil, errors.New("CalRGB: invalid matrix")
		}
		cal.N = 3
		copy(cal.Gamma[:], gamma)
		copy(cal.Matrix[:], matrix)
	}

	data := &calData{CalColor: cal}
	if cal.N == 3 {
		inv, ok := cmm.Invert3(transpose(cal.Matrix))
		if !ok {
			return nil, errors.New("CalRGB: singular matrix")
		}
		data.inv = inv
	}

	profile, err := CreateICCFromCal(&cal)
	if err == nil {
		data.profile, err = cmm.NewProfile(profile)
	}
	if err != nil {
		raster.Logger().Warn("cannot create ICC profile for calibrated colour space",
			"space", name, "error", err)
	} else {
		data.icc = profile
	}

	s := &Space{
		name:    name,
		n:       cal.N,
		toRGB:   calToRGB,
		fromRGB: rgbToCal,
		data:    data,
	}
	s.refs.Store(1)
	return s, nil
}

// Cal returns the calibration parameters of a calibrated colour space.
func (s *Space) Cal() (CalColor, bool) {
	d, ok := s.data.(*calData)
	if !ok {
		return CalColor{}, false
	}
	return d.CalColor, true
}

// toD50 rescales an XYZ value from the white point of the colour space to
// the D50 white point.
func (d *calData) toD50(X, Y, Z float64) (float64, float64, float64) {
	wp := d.WhitePoint
	return X * cmm.D50[0] / wp[0], Y, Z * cmm.D50[2] / wp[2]
}

func calToRGB(cs *Space, src, dst []float64) {
	d := cs.data.(*calData)
	var X, Y, Z float64
	if d.N == 1 {
		y := math.Pow(clamp01(src[0]), d.Gamma[0])
		X, Y, Z = d.WhitePoint[0]*y, y, d.WhitePoint[2]*y
	} else {
		a := math.Pow(clamp01(src[0]), d.Gamma[0])
		b := math.Pow(clamp01(src[1]), d.Gamma[1])
		c := math.Pow(clamp01(src[2]), d.Gamma[2])
		m := &d.Matrix
		X = m[0]*a + m[3]*b + m[6]*c
		Y = m[1]*a + m[4]*b + m[7]*c
		Z = m[2]*a + m[5]*b + m[8]*c
	}
	X, Y, Z = d.toD50(X, Y, Z)
	dst[0], dst[1], dst[2] = cmm.XYZToSRGB(X, Y, Z)
}

func rgbToCal(cs *Space, src, dst []float64) {
	d := cs.data.(*calData)
	X, Y, Z := cmm.SRGBToXYZ(clamp01(src[0]), clamp01(src[1]), clamp01(src[2]))
	wp := d.WhitePoint
	X = X * wp[0] / cmm.D50[0]
	Z = Z * wp[2] / cmm.D50[2]

	if d.N == 1 {
		dst[0] = math.Pow(clamp01(Y), 1/d.Gamma[0])
		return
	}
	m := &d.inv
	a := m[0]*X + m[1]*Y + m[2]*Z
	b := m[3]*X + m[4]*Y + m[5]*Z
	c := m[6]*X + m[7]*Y + m[8]*Z
	dst[0] = math.Pow(clamp01(a), 1/d.Gamma[0])
	dst[1] = math.Pow(clamp01(b), 1/d.Gamma[1])
	dst[2] = math.Pow(clamp01(c), 1/d.Gamma[2])
}

// CreateICCFromCal returns an ICC display profile which describes the same
// colours as the calibrated colour space with parameters cal.
//
// The colorants are rescaled from the white point of cal to the D50
// illuminant of the profile connection space.  The black point is not
// represented in the profile.
func CreateICCFromCal(cal *CalColor) ([]byte, error) {
	if cal == nil || (cal.N != 1 && cal.N != 3) {
		return nil, errors.New("invalid calibration parameters")
	}
	if !isValidWhitePoint(cal.WhitePoint[:]) {
		return nil, errors.New("invalid white point")
	}

	tags := map[icc.TagType][]byte{
		cmm.TagWhitePoint: cmm.EncodeXYZ(cmm.D50[0], cmm.D50[1], cmm.D50[2]),
		cmm.TagCopyright:  encodeMLUC("No copyright, use freely"),
	}

	sx := cmm.D50[0] / cal.WhitePoint[0]
	sz := cmm.D50[2] / cal.WhitePoint[2]
	if cal.N == 1 {
		tags[cmm.TagDescription] = encodeMLUC("CalGray")
		tags[cmm.TagGrayTRC] = cmm.EncodeGammaCurve(cal.Gamma[0])
	} else {
		tags[cmm.TagDescription] = encodeMLUC("CalRGB")
		colorants := []icc.TagType{cmm.TagRedColorant, cmm.TagGreenColorant, cmm.TagBlueColorant}
		curves := []icc.TagType{cmm.TagRedTRC, cmm.TagGreenTRC, cmm.TagBlueTRC}
		for i := range 3 {
			m := cal.Matrix[3*i : 3*i+3]
			tags[colorants[i]] = cmm.EncodeXYZ(m[0]*sx, m[1], m[2]*sz)
			tags[curves[i]] = cmm.EncodeGammaCurve(cal.Gamma[i])
		}
	}

	space := icc.GraySpace
	if cal.N == 3 {
		space = icc.RGBSpace
	}
	p := &icc.Profile{
		Version:      icc.Version4_2_0,
		Class:        icc.DisplayDeviceProfile,
		ColorSpace:   space,
		PCS:          icc.PCSXYZSpace,
		CreationDate: profileDate,
		TagData:      tags,
	}
	return p.Encode()
}

// profileDate is the creation date recorded in generated profiles.  A fixed
// date keeps the output reproducible.
var profileDate = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// encodeMLUC returns the data of a multiLocalizedUnicodeType tag holding a
// single en-US string.
func encodeMLUC(s string) []byte {
	text := utf16.Encode([]rune(s))
	buf := make([]byte, 28+2*len(text))
	copy(buf, "mluc")
	binary.BigEndian.PutUint32(buf[8:], 1)  // number of records
	binary.BigEndian.PutUint32(buf[12:], 12) // record size
	copy(buf[16:], "enUS")
	binary.BigEndian.PutUint32(buf[20:], uint32(2*len(text)))
	binary.BigEndian.PutUint32(buf[24:], 28)
	for i, c := range text {
		binary.BigEndian.PutUint16(buf[28+2*i:], c)
	}
	return buf
}

func transpose(m [9]float64) [9]float64 {
	return [9]float64{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

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

// Package cmm implements the colour transforms used by ICC based and
// calibrated colour spaces.
//
// Profiles are decoded using [seehuhn.de/go/icc].  RGB matrix/TRC profiles
// and gray TRC profiles are evaluated directly from their tags.  Profiles
// which describe colours through lookup tables, for example CMYK printer
// profiles, are evaluated using the transforms of the icc package.
// Profiles which are not understood fall back to the device conversion
// formulas for their colour space.
package cmm

import (
	"errors"
	"fmt"
	"sync"

	"seehuhn.de/go/icc"

	"seehuhn.de/go/raster"
)

// MaxComponents is the largest number of device components supported.
const MaxComponents = 32

type model int

const (
	modelDevice model = iota
	modelMatrix
	modelGray
	modelLab
	modelLUT
)

// lutIntents is the number of rendering intents with their own tables.
// Absolute colorimetric rendering uses the media-relative tables.
const lutIntents = 3

// Profile is an ICC profile, prepared for colour conversion.
// Profiles are immutable and can be shared between goroutines.
type Profile struct {
	data  []byte
	space icc.ColorSpace
	n     int
	white [3]float64

	model  model
	trc    [3]*icc.Curve
	matrix [9]float64
	inv    [9]float64

	// device to PCS and PCS to device conversions of LUT based
	// profiles, indexed by rendering intent
	toPCS   [lutIntents]func([]float64) (float64, float64, float64)
	fromPCS [lutIntents]func(float64, float64, float64) []float64
}

// NewProfile decodes an ICC profile.
func NewProfile(data []byte) (*Profile, error) {
	if len(data) == 0 {
		return nil, errors.New("cmm: missing profile data")
	}
	p, err := icc.Decode(data)
	if err != nil {
		return nil, err
	}

	n := p.ColorSpace.NumComponents()
	if n < 1 || n > MaxComponents {
		return nil, fmt.Errorf("cmm: unsupported colour space %v", p.ColorSpace)
	}

	res := &Profile{
		data:  data,
		space: p.ColorSpace,
		n:     n,
		white: D50,
	}
	if w, ok := p.TagData[TagWhitePoint]; ok {
		if xyz, err := decodeXYZ(w); err == nil && xyz[1] > 0 {
			res.white = xyz
		}
	}

	switch p.ColorSpace {
	case icc.RGBSpace:
		if err := res.setMatrixTRC(p.TagData); err != nil {
			raster.Logger().Debug("RGB profile without matrix/TRC tags",
				"error", err)
			res.setLUT(p)
		}
	case icc.GraySpace:
		data, ok := p.TagData[TagGrayTRC]
		if !ok {
			res.setLUT(p)
			break
		}
		c, err := icc.DecodeCurve(data)
		if err != nil {
			return nil, fmt.Errorf("cmm: gray TRC: %w", err)
		}
		res.trc[0] = c
		res.model = modelGray
	case icc.CIELabSpace:
		res.model = modelLab
	default:
		res.setLUT(p)
	}

	return res, nil
}

func (p *Profile) setMatrixTRC(tags map[icc.TagType][]byte) error {
	colorants := []icc.TagType{TagRedColorant, TagGreenColorant, TagBlueColorant}
	curves := []icc.TagType{TagRedTRC, TagGreenTRC, TagBlueTRC}
	for i := range 3 {
		xyz, err := decodeXYZ(tags[colorants[i]])
		if err != nil {
			return fmt.Errorf("colorant %d: %w", i, err)
		}
		p.matrix[i] = xyz[0]
		p.matrix[3+i] = xyz[1]
		p.matrix[6+i] = xyz[2]

		c, err := icc.DecodeCurve(tags[curves[i]])
		if err != nil {
			return fmt.Errorf("TRC %d: %w", i, err)
		}
		p.trc[i] = c
	}
	inv, ok := Invert3(p.matrix)
	if !ok {
		return errors.New("cmm: singular colorant matrix")
	}
	p.inv = inv
	p.model = modelMatrix
	return nil
}

// setLUT prepares the lookup table transforms of ip.  If the profile has no
// usable device to PCS table, the device formulas are used instead.
func (p *Profile) setLUT(ip *icc.Profile) {
	p.model = modelDevice

	lut, err := icc.DecodeLut(ip.TagData[TagAToB0])
	if err == nil && lut.InputChannels() != p.n {
		err = fmt.Errorf("table has %d inputs, expected %d", lut.InputChannels(), p.n)
	}
	if err != nil {
		raster.Logger().Debug("no usable A2B0 table, using device formulas",
			"space", p.space, "error", err)
		return
	}

	found := -1
	for i := range lutIntents {
		ri := icc.RenderingIntent(i)
		fwd, err := icc.NewTransform(ip, icc.DeviceToPCS, ri)
		if err != nil {
			continue
		}
		bwd, err := icc.NewTransform(ip, icc.PCSToDevice, ri)
		if err != nil {
			continue
		}
		p.toPCS[i] = fwd.ToXYZ
		p.fromPCS[i] = bwd.FromXYZ
		if found < 0 || i == int(RelativeColorimetric) {
			found = i
		}
	}
	if found < 0 {
		raster.Logger().Debug("cannot create LUT transforms, using device formulas",
			"space", p.space)
		return
	}
	for i := range lutIntents {
		if p.toPCS[i] == nil {
			p.toPCS[i] = p.toPCS[found]
			p.fromPCS[i] = p.fromPCS[found]
		}
	}
	p.model = modelLUT
}

// N returns the number of device components.
func (p *Profile) N() int {
	return p.n
}

// ColorSpace returns the device colour space of the profile.
func (p *Profile) ColorSpace() icc.ColorSpace {
	return p.space
}

// Bytes returns the encoded profile.  The returned slice must not be
// modified.
func (p *Profile) Bytes() []byte {
	return p.data
}

// WhitePoint returns the media white point of the profile.
func (p *Profile) WhitePoint() [3]float64 {
	return p.white
}

// IsLUT reports whether the profile is evaluated using lookup tables.
func (p *Profile) IsLUT() bool {
	return p.model == modelLUT
}

// ToXYZ converts device values to the D50 profile connection space,
// using the relative colorimetric intent.
func (p *Profile) ToXYZ(in []float64) (X, Y, Z float64) {
	return p.toXYZ(in, RelativeColorimetric)
}

// FromXYZ converts a colour in the D50 profile connection space to device
// values, using the relative colorimetric intent.  The slice out must have
// length at least p.N().
func (p *Profile) FromXYZ(X, Y, Z float64, out []float64) {
	p.fromXYZ(X, Y, Z, out, RelativeColorimetric)
}

func lutIndex(intent Intent) int {
	if int(intent) >= lutIntents {
		return int(RelativeColorimetric)
	}
	return int(intent)
}

func (p *Profile) toXYZ(in []float64, intent Intent) (X, Y, Z float64) {
	switch p.model {
	case modelMatrix:
		r := evalCurve(p.trc[0], in[0])
		g := evalCurve(p.trc[1], in[1])
		b := evalCurve(p.trc[2], in[2])
		return mul3(&p.matrix, r, g, b)
	case modelGray:
		y := evalCurve(p.trc[0], in[0])
		return D50[0] * y, D50[1] * y, D50[2] * y
	case modelLab:
		return LabToXYZ(in[0], in[1], in[2])
	case modelLUT:
		var buf [MaxComponents]float64
		for i := range p.n {
			buf[i] = clamp01(in[i])
		}
		return p.toPCS[lutIndex(intent)](buf[:p.n])
	}

	switch {
	case p.space == icc.CMYKSpace:
		c, m, y, k := in[0], in[1], in[2], in[3]
		return SRGBToXYZ((1-c)*(1-k), (1-m)*(1-k), (1-y)*(1-k))
	case p.n >= 3:
		return SRGBToXYZ(clamp01(in[0]), clamp01(in[1]), clamp01(in[2]))
	default:
		v := srgbGammaInv(clamp01(in[0]))
		return D50[0] * v, D50[1] * v, D50[2] * v
	}
}

func (p *Profile) fromXYZ(X, Y, Z float64, out []float64, intent Intent) {
	switch p.model {
	case modelMatrix:
		r, g, b := mul3(&p.inv, X, Y, Z)
		out[0] = invertCurve(p.trc[0], r)
		out[1] = invertCurve(p.trc[1], g)
		out[2] = invertCurve(p.trc[2], b)
		return
	case modelGray:
		out[0] = invertCurve(p.trc[0], Y/D50[1])
		return
	case modelLab:
		out[0], out[1], out[2] = XYZToLab(X, Y, Z)
		return
	case modelLUT:
		res := p.fromPCS[lutIndex(intent)](X, Y, Z)
		for i := range p.n {
			out[i] = 0
			if i < len(res) {
				out[i] = clamp01(res[i])
			}
		}
		return
	}

	switch {
	case p.space == icc.CMYKSpace:
		r, g, b := XYZToSRGB(X, Y, Z)
		k := 1 - max(r, g, b)
		out[0], out[1], out[2], out[3] = 0, 0, 0, k
		if k < 1 {
			out[0] = (1 - r - k) / (1 - k)
			out[1] = (1 - g - k) / (1 - k)
			out[2] = (1 - b - k) / (1 - k)
		}
	case p.n >= 3:
		out[0], out[1], out[2] = XYZToSRGB(X, Y, Z)
		for i := 3; i < p.n; i++ {
			out[i] = 0
		}
	default:
		out[0] = srgbGamma(clamp01(Y / D50[1]))
		for i := 1; i < p.n; i++ {
			out[i] = 0
		}
	}
}

// blackPoint returns the XYZ value of the darkest colour of the profile.
func (p *Profile) blackPoint(intent Intent) [3]float64 {
	if p.model == modelLab {
		return [3]float64{}
	}
	var in [MaxComponents]float64
	if p.space == icc.CMYKSpace {
		for i := range 4 {
			in[i] = 1
		}
	}
	X, Y, Z := p.toXYZ(in[:p.n], intent)
	return [3]float64{X, Y, Z}
}

// SRGB returns the profile of the sRGB colour space.
func SRGB() *Profile {
	return srgb()
}

var srgb = sync.OnceValue(func() *Profile {
	p, err := NewProfile(icc.SRGBv4Profile)
	if err != nil {
		raster.Logger().Warn("cannot decode built-in sRGB profile", "error", err)
		return &Profile{
			data:  icc.SRGBv4Profile,
			space: icc.RGBSpace,
			n:     3,
			white: D50,
			model: modelDevice,
		}
	}
	return p
})

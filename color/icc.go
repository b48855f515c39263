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
	"fmt"
	"sync"

	"seehuhn.de/go/icc"

	"seehuhn.de/go/raster/cmm"
)

// iccData holds the decoded profile of an ICC based colour space, together
// with the transforms to and from the reference space.
type iccData struct {
	profile  *cmm.Profile
	toSRGB   *cmm.Transform
	fromSRGB *cmm.Transform
}

func (d *iccData) release() {
	d.toSRGB = nil
	d.fromSRGB = nil
}

// NewICC returns a colour space defined by an ICC profile.
//
// The number of components n must match the device colour space of the
// profile.  If name is empty, "ICCBased" is used.  Static colour spaces
// ignore reference counting and are never destroyed.
func NewICC(name string, n int, profile []byte, static bool) (*Space, error) {
	if name == "" {
		name = "ICCBased"
	}
	p, err := cmm.NewProfile(profile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if p.N() != n {
		return nil, fmt.Errorf("%s: profile has %d components, expected %d", name, p.N(), n)
	}
	if n > MaxColors {
		return nil, fmt.Errorf("%s: too many components (%d)", name, n)
	}

	srgb := cmm.SRGB()
	toSRGB, err := cmm.NewTransform(p, srgb, cmm.RelativeColorimetric, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	fromSRGB, err := cmm.NewTransform(srgb, p, cmm.RelativeColorimetric, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	var clampFn ClampFunc
	if p.ColorSpace() == icc.CIELabSpace {
		clampFn = clampLab
	}

	s := &Space{
		name:        name,
		n:           n,
		subtractive: p.ColorSpace() == icc.CMYKSpace || n >= 4,
		toRGB:       iccToRGB,
		fromRGB:     rgbToICC,
		clamp:       clampFn,
		data: &iccData{
			profile:  p,
			toSRGB:   toSRGB,
			fromSRGB: fromSRGB,
		},
		static: static,
	}
	s.refs.Store(1)
	return s, nil
}

func iccToRGB(cs *Space, src, dst []float64) {
	cs.data.(*iccData).toSRGB.Apply(dst, src)
}

func rgbToICC(cs *Space, src, dst []float64) {
	cs.data.(*iccData).fromSRGB.Apply(dst, src)
}

// SRGB returns a static colour space for sRGB, defined by the built-in
// ICC profile.  Unlike [DeviceRGB], pixmaps using this space carry their
// profile into output files.
func SRGB() *Space {
	return srgbSpace()
}

var srgbSpace = sync.OnceValue(func() *Space {
	s, err := NewICC("sRGB", 3, icc.SRGBv4Profile, true)
	if err != nil {
		// The built-in profile is known to be valid.
		panic(err)
	}
	return s
})

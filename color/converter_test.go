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
	"math"
	"testing"

	"seehuhn.de/go/icc"

	"seehuhn.de/go/raster/cmm"
)

func TestCachedMatchesLookup(t *testing.T) {
	for i, ss := range testColorSpaces {
		for j, ds := range testColorSpaces {
			t.Run(fmt.Sprintf("%02d-%02d", i, j), func(t *testing.T) {
				src := sampleColor(ss)

				want := make([]float64, ds.N())
				lc := LookupConverter(nil, ds, ss, nil)
				lc.Convert(want, src)
				lc.Discard()

				cc, err := NewCachedConverter(nil, ds, ss, nil)
				if err != nil {
					t.Fatal(err)
				}
				defer cc.Close()
				if cc.Src() != ss || cc.Dst() != ds {
					t.Fatal("wrong colour spaces")
				}
				got := make([]float64, ds.N())
				cc.Convert(got, src)

				// Linked profiles may differ slightly from the detour via RGB.
				wantRGB := make([]float64, 3)
				gotRGB := make([]float64, 3)
				ds.ToRGB(wantRGB, want)
				ds.ToRGB(gotRGB, got)
				if !closeTo(gotRGB, wantRGB, 0.02) {
					t.Errorf("cached %v (rgb %v), lookup %v (rgb %v)", got, gotRGB, want, wantRGB)
				}
			})
		}
	}
}

func TestConvertNoAlloc(t *testing.T) {
	pairs := []struct{ ss, ds *Space }{
		{DeviceCMYK(), DeviceRGB()},
		{DeviceGray(), DeviceCMYK()},
		{DeviceLab(), DeviceCMYK()},
		{testColorSpaces[6], DeviceGray()},
		{SRGB(), DeviceRGB()},
		{testColorSpaces[8], DeviceRGB()},
	}
	for _, p := range pairs {
		cc, err := NewCachedConverter(nil, p.ds, p.ss, nil)
		if err != nil {
			t.Fatal(err)
		}
		src := sampleColor(p.ss)
		dst := make([]float64, p.ds.N())
		allocs := testing.AllocsPerRun(100, func() {
			cc.Convert(dst, src)
		})
		if allocs != 0 {
			t.Errorf("%s to %s: %g allocations per conversion", p.ss, p.ds, allocs)
		}
		cc.Close()
	}
}

func TestConverterClose(t *testing.T) {
	cc, err := NewCachedConverter(nil, DeviceRGB(), SRGB(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := cc.Close(); err != nil {
		t.Fatal(err)
	}
	if err := cc.Close(); err != nil {
		t.Fatal(err)
	}

	// a closed converter leaves the output untouched
	dst := []float64{7, 7, 7}
	cc.Convert(dst, []float64{0, 0, 0})
	if dst[0] != 7 {
		t.Error("closed converter still converts")
	}

	var nilConverter *Converter
	nilConverter.Discard()
	if err := nilConverter.Close(); err != nil {
		t.Error(err)
	}
}

func TestCachedConverterParams(t *testing.T) {
	params := &Params{Intent: AbsoluteColorimetric}
	cc, err := NewCachedConverter(nil, DeviceRGB(), SRGB(), params)
	if err != nil {
		t.Fatal(err)
	}
	defer cc.Close()

	// identical profiles are linked by an identity transform
	src := []float64{0.25, 0.5, 0.75}
	dst := make([]float64, 3)
	cc.Convert(dst, src)
	if !closeTo(dst, src, 0) {
		t.Errorf("got %v, want %v", dst, src)
	}
}

// linearGray returns a gray ICC colour space with a linear tone curve and
// the given media white point.
func linearGray(t *testing.T, name string, white [3]float64) *Space {
	t.Helper()
	p := &icc.Profile{
		Version:    icc.Version4_2_0,
		Class:      icc.DisplayDeviceProfile,
		ColorSpace: icc.GraySpace,
		PCS:        icc.PCSXYZSpace,
		TagData: map[icc.TagType][]byte{
			cmm.TagWhitePoint: cmm.EncodeXYZ(white[0], white[1], white[2]),
			cmm.TagGrayTRC:    cmm.EncodeGammaCurve(1),
		},
	}
	data, err := p.Encode()
	if err != nil {
		t.Fatal(err)
	}
	cs, err := NewICC(name, 1, data, false)
	if err != nil {
		t.Fatal(err)
	}
	return cs
}

func TestLookupUsesParams(t *testing.T) {
	ss := linearGray(t, "bright", cmm.D50)
	ds := linearGray(t, "dim", [3]float64{0.8 * cmm.D50[0], 0.8, 0.8 * cmm.D50[2]})

	cases := []struct {
		intent RenderingIntent
		want   float64
	}{
		{Perceptual, 0.5},
		{RelativeColorimetric, 0.5},
		{Saturation, 0.5},
		{AbsoluteColorimetric, 0.625},
	}
	for _, c := range cases {
		t.Run(c.intent.String(), func(t *testing.T) {
			params := &Params{Intent: c.intent}
			src := []float64{0.5}

			lookup := make([]float64, 1)
			ConvertColor(params, nil, ds, lookup, ss, src)

			cc, err := NewCachedConverter(nil, ds, ss, params)
			if err != nil {
				t.Fatal(err)
			}
			defer cc.Close()
			cached := make([]float64, 1)
			cc.Convert(cached, src)

			if lookup[0] != cached[0] {
				t.Errorf("lookup %g, cached %g", lookup[0], cached[0])
			}
			if math.Abs(lookup[0]-c.want) > 1e-3 {
				t.Errorf("got %g, want %g", lookup[0], c.want)
			}
		})
	}
}

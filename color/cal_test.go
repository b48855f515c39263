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
	"bytes"
	"math"
	"testing"

	"seehuhn.de/go/icc"

	"seehuhn.de/go/raster/cmm"
)

func TestCreateICCFromCal(t *testing.T) {
	cases := []struct {
		name  string
		space *Space
		want  icc.ColorSpace
	}{
		{"CalGray", testColorSpaces[7], icc.GraySpace},
		{"CalRGB", testColorSpaces[8], icc.RGBSpace},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cal, ok := c.space.Cal()
			if !ok {
				t.Fatal("missing calibration")
			}
			data, err := CreateICCFromCal(&cal)
			if err != nil {
				t.Fatal(err)
			}

			p, err := icc.Decode(data)
			if err != nil {
				t.Fatal(err)
			}
			if p.ColorSpace != c.want {
				t.Errorf("colour space %v, want %v", p.ColorSpace, c.want)
			}
			for _, tag := range []icc.TagType{cmm.TagWhitePoint, cmm.TagDescription, cmm.TagCopyright} {
				if _, ok := p.TagData[tag]; !ok {
					t.Errorf("tag %08x missing", uint32(tag))
				}
			}
			trc := cmm.TagGrayTRC
			if cal.N == 3 {
				trc = cmm.TagRedTRC
			}
			curve, err := icc.DecodeCurve(p.TagData[trc])
			if err != nil {
				t.Fatal(err)
			}
			if y, want := curve.Evaluate(0.5), math.Pow(0.5, cal.Gamma[0]); math.Abs(y-want) > 5e-3 {
				t.Errorf("TRC(0.5) = %g, want %g", y, want)
			}

			again, err := CreateICCFromCal(&cal)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(data, again) {
				t.Error("profile generation is not reproducible")
			}

			prof, err := cmm.NewProfile(data)
			if err != nil {
				t.Fatal(err)
			}
			if prof.N() != cal.N {
				t.Errorf("profile has %d components, want %d", prof.N(), cal.N)
			}
		})
	}
}

func TestCreateICCFromCalErrors(t *testing.T) {
	if _, err := CreateICCFromCal(nil); err == nil {
		t.Error("nil parameters accepted")
	}
	if _, err := CreateICCFromCal(&CalColor{N: 2, WhitePoint: [3]float64{1, 1, 1}}); err == nil {
		t.Error("invalid component count accepted")
	}
	if _, err := CreateICCFromCal(&CalColor{N: 1}); err == nil {
		t.Error("missing white point accepted")
	}
}

func TestCalProfileMatches(t *testing.T) {
	cal, _ := testColorSpaces[8].Cal()
	data, err := CreateICCFromCal(&cal)
	if err != nil {
		t.Fatal(err)
	}
	prof, err := cmm.NewProfile(data)
	if err != nil {
		t.Fatal(err)
	}

	for _, src := range [][]float64{{0, 0, 0}, {1, 1, 1}, {0.5, 0.25, 0.75}} {
		want := make([]float64, 3)
		testColorSpaces[8].ToRGB(want, src)

		X, Y, Z := prof.ToXYZ(src)
		r, g, b := cmm.XYZToSRGB(X, Y, Z)
		got := []float64{r, g, b}
		if !closeTo(got, want, 5e-3) {
			t.Errorf("%v: profile gives %v, direct conversion %v", src, got, want)
		}
	}
}

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
	"testing"

	"seehuhn.de/go/icc"
)

func must(space *Space, err error) *Space {
	if err != nil {
		panic(err)
	}
	return space
}

var testPalette = []byte{
	0, 0, 0,
	255, 0, 0,
	0, 255, 0,
	0, 0, 255,
	255, 255, 255,
}

// testColorSpaces contains one example of each kind of colour space.
var testColorSpaces = []*Space{
	DeviceGray(),
	DeviceRGB(),
	DeviceBGR(),
	DeviceCMYK(),
	DeviceLab(),
	SRGB(),
	must(NewIndexed(DeviceRGB(), 4, testPalette)),
	must(NewCal([]float64{0.9505, 1, 1.089}, nil, []float64{2.2}, nil)),
	must(NewCal([]float64{0.9505, 1, 1.089}, nil, []float64{1.8, 1.8, 1.8},
		[]float64{0.4497, 0.2446, 0.0252, 0.3163, 0.672, 0.1412, 0.1845, 0.0833, 0.9227})),
	must(NewSpace("Inverted", 1, true, Funcs{
		ToRGB: func(_ *Space, src, dst []float64) {
			dst[0] = 1 - src[0]
			dst[1] = 1 - src[0]
			dst[2] = 1 - src[0]
		},
		FromRGB: func(_ *Space, src, dst []float64) {
			dst[0] = 1 - (src[0]+src[1]+src[2])/3
		},
	})),
}

func TestDeviceSpaces(t *testing.T) {
	cases := []struct {
		space       *Space
		name        string
		n           int
		subtractive bool
	}{
		{DeviceGray(), "DeviceGray", 1, false},
		{DeviceRGB(), "DeviceRGB", 3, false},
		{DeviceBGR(), "DeviceBGR", 3, false},
		{DeviceCMYK(), "DeviceCMYK", 4, true},
		{DeviceLab(), "DeviceLab", 3, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := c.space
			if s.Name() != c.name {
				t.Errorf("name %q, want %q", s.Name(), c.name)
			}
			if s.N() != c.n {
				t.Errorf("N() = %d, want %d", s.N(), c.n)
			}
			if s.IsSubtractive() != c.subtractive {
				t.Errorf("IsSubtractive() = %t", s.IsSubtractive())
			}
			if s.IsIndexed() || s.IsICC() || s.Base() != nil || s.ICCData() != nil {
				t.Error("device space reports a variant")
			}
			if s.Kind() != KindGeneric {
				t.Errorf("kind %s", s.Kind())
			}

			// static spaces survive any number of drops
			s.Drop()
			s.Drop()
			if s.Keep() != s {
				t.Error("Keep returned a different space")
			}
		})
	}
}

func TestNewSpaceErrors(t *testing.T) {
	f := func(_ *Space, src, dst []float64) {}
	cases := []struct {
		name  string
		n     int
		funcs Funcs
	}{
		{"zero components", 0, Funcs{ToRGB: f, FromRGB: f}},
		{"too many components", MaxColors + 1, Funcs{ToRGB: f, FromRGB: f}},
		{"missing to", 1, Funcs{FromRGB: f}},
		{"missing from", 1, Funcs{ToRGB: f}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewSpace(c.name, c.n, false, c.funcs)
			if err == nil {
				t.Error("expected an error")
			}
		})
	}

	s, err := NewSpace("ok", MaxColors, true, Funcs{ToRGB: f, FromRGB: f})
	if err != nil {
		t.Fatal(err)
	}
	if s.N() != MaxColors || !s.IsSubtractive() {
		t.Errorf("unexpected space %s: n=%d", s, s.N())
	}
}

func TestDestroyOnce(t *testing.T) {
	calls := 0
	f := func(_ *Space, src, dst []float64) {}
	s, err := NewSpace("counted", 1, false, Funcs{
		ToRGB:   f,
		FromRGB: f,
		Destroy: func() { calls++ },
	})
	if err != nil {
		t.Fatal(err)
	}

	s.Keep()
	s.Keep()
	s.Drop()
	s.Drop()
	if calls != 0 {
		t.Fatalf("destroyed while still referenced")
	}
	s.Drop()
	if calls != 1 {
		t.Fatalf("destroy called %d times, want 1", calls)
	}
	s.Drop()
	s.Drop()
	if calls != 1 {
		t.Fatalf("destroy called %d times after extra drops", calls)
	}

	var nilSpace *Space
	nilSpace.Drop()
	if nilSpace.Keep() != nil {
		t.Error("Keep on nil returned non-nil")
	}
}

func TestIndexedKeepsBase(t *testing.T) {
	destroyed := false
	f := func(_ *Space, src, dst []float64) {
		for i := range dst {
			dst[i] = src[0]
		}
	}
	base, err := NewSpace("base", 1, false, Funcs{
		ToRGB:   f,
		FromRGB: f,
		Destroy: func() { destroyed = true },
	})
	if err != nil {
		t.Fatal(err)
	}

	idx, err := NewIndexed(base, 1, []byte{0, 255})
	if err != nil {
		t.Fatal(err)
	}
	base.Drop()
	if destroyed {
		t.Fatal("base destroyed while the indexed space is alive")
	}
	if idx.Base() != base {
		t.Error("wrong base space")
	}
	idx.Drop()
	if !destroyed {
		t.Error("base not destroyed together with the indexed space")
	}
}

func TestIndexedQueries(t *testing.T) {
	s := must(NewIndexed(DeviceRGB(), 4, testPalette))
	if !s.IsIndexed() || s.Kind() != KindIndexed {
		t.Error("not reported as indexed")
	}
	if s.N() != 1 || s.High() != 4 || len(s.Lookup()) != 15 {
		t.Errorf("n=%d high=%d lookup=%d", s.N(), s.High(), len(s.Lookup()))
	}
	if s.Base() != DeviceRGB() {
		t.Error("wrong base")
	}
	if DeviceRGB().High() != -1 || DeviceRGB().Lookup() != nil {
		t.Error("device space reports a colour table")
	}
}

func TestNewIndexedErrors(t *testing.T) {
	idx := must(NewIndexed(DeviceGray(), 1, []byte{0, 255}))
	cases := []struct {
		name   string
		base   *Space
		high   int
		lookup []byte
	}{
		{"nil base", nil, 0, []byte{0}},
		{"indexed base", idx, 0, []byte{0}},
		{"negative high", DeviceGray(), -1, nil},
		{"high too large", DeviceGray(), 256, make([]byte, 257)},
		{"short table", DeviceRGB(), 2, make([]byte, 8)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewIndexed(c.base, c.high, c.lookup)
			if err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestICCSpaces(t *testing.T) {
	for i, profile := range [][]byte{icc.SRGBv2Profile, icc.SRGBv4Profile} {
		t.Run(fmt.Sprintf("profile%d", i), func(t *testing.T) {
			s, err := NewICC("", 3, profile, false)
			if err != nil {
				t.Fatal(err)
			}
			if !s.IsICC() || s.Kind() != KindICC {
				t.Error("not reported as ICC based")
			}
			if s.Name() != "ICCBased" {
				t.Errorf("name %q", s.Name())
			}
			if s.N() != 3 || s.IsSubtractive() {
				t.Errorf("n=%d subtractive=%t", s.N(), s.IsSubtractive())
			}
			if len(s.ICCData()) != len(profile) {
				t.Error("wrong profile data")
			}
			s.Drop()
		})
	}

	_, err := NewICC("wrong", 4, icc.SRGBv4Profile, false)
	if err == nil {
		t.Error("component count mismatch not detected")
	}
	_, err = NewICC("empty", 3, nil, false)
	if err == nil {
		t.Error("missing profile not detected")
	}
}

func TestNewCalErrors(t *testing.T) {
	wp := []float64{0.9505, 1, 1.089}
	id := []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	cases := []struct {
		name                  string
		wp, bp, gamma, matrix []float64
	}{
		{"white point Y", []float64{0.9505, 0.9, 1.089}, nil, []float64{1}, nil},
		{"white point length", []float64{1, 1}, nil, []float64{1}, nil},
		{"black point", wp, []float64{-1, 0, 0}, []float64{1}, nil},
		{"gray gamma", wp, nil, []float64{0}, nil},
		{"gray gamma length", wp, nil, []float64{1, 1, 1}, nil},
		{"rgb gamma", wp, nil, []float64{1}, id},
		{"matrix length", wp, nil, []float64{1, 1, 1}, id[:8]},
		{"singular", wp, nil, []float64{1, 1, 1}, make([]float64, 9)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewCal(c.wp, c.bp, c.gamma, c.matrix)
			if err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestCalQueries(t *testing.T) {
	gray := testColorSpaces[7]
	rgb := testColorSpaces[8]

	if gray.Name() != "CalGray" || gray.N() != 1 || gray.Kind() != KindCal {
		t.Errorf("CalGray: name=%q n=%d kind=%s", gray.Name(), gray.N(), gray.Kind())
	}
	if rgb.Name() != "CalRGB" || rgb.N() != 3 || rgb.Kind() != KindCal {
		t.Errorf("CalRGB: name=%q n=%d kind=%s", rgb.Name(), rgb.N(), rgb.Kind())
	}
	if gray.IsICC() || rgb.IsICC() {
		t.Error("calibrated spaces reported as ICC based")
	}

	cal, ok := rgb.Cal()
	if !ok || cal.N != 3 || cal.Gamma[1] != 1.8 {
		t.Errorf("unexpected parameters %v", cal)
	}
	if _, ok := DeviceRGB().Cal(); ok {
		t.Error("device space reports calibration")
	}
}

func TestRange(t *testing.T) {
	type r struct{ lo, hi float64 }
	cases := []struct {
		space *Space
		want  []r
	}{
		{DeviceCMYK(), []r{{0, 1}, {0, 1}, {0, 1}, {0, 1}}},
		{DeviceLab(), []r{{0, 100}, {-128, 127}, {-128, 127}}},
		{testColorSpaces[6], []r{{0, 4.0 / 255}}},
	}
	for _, c := range cases {
		for i, want := range c.want {
			lo, hi := c.space.Range(i)
			if lo != want.lo || hi != want.hi {
				t.Errorf("%s[%d]: range [%g, %g], want [%g, %g]",
					c.space, i, lo, hi, want.lo, want.hi)
			}
		}
	}
}

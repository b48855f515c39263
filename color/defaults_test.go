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

import "testing"

func TestDefaultSpaces(t *testing.T) {
	d := NewDefaultSpaces()
	defer d.Drop()

	if d.Gray() != DeviceGray() || d.RGB() != DeviceRGB() || d.CMYK() != DeviceCMYK() {
		t.Error("unset slots must fall back to the device spaces")
	}
	if d.OutputIntent() != nil {
		t.Error("unexpected output intent")
	}

	d.SetRGB(SRGB())
	d.SetOutputIntent(SRGB())
	if d.RGB() != SRGB() || d.OutputIntent() != SRGB() {
		t.Error("setters have no effect")
	}

	cases := []struct{ in, out *Space }{
		{DeviceGray(), DeviceGray()},
		{DeviceRGB(), SRGB()},
		{DeviceCMYK(), DeviceCMYK()},
		{DeviceLab(), DeviceLab()},
		{testColorSpaces[6], testColorSpaces[6]},
	}
	for _, c := range cases {
		if got := d.Resolve(c.in); got != c.out {
			t.Errorf("Resolve(%s) = %s, want %s", c.in, got, c.out)
		}
	}
}

func TestNilDefaultSpaces(t *testing.T) {
	var d *DefaultSpaces
	d.SetGray(SRGB())
	if d.Resolve(DeviceRGB()) != DeviceRGB() || d.Gray() != DeviceGray() {
		t.Error("nil defaults must resolve to the device spaces")
	}
	if d.OutputIntent() != nil {
		t.Error("unexpected output intent")
	}
	d.Keep()
	d.Drop()
}

func TestDefaultSpacesRefs(t *testing.T) {
	destroyed := 0
	newSpace := func() *Space {
		s, err := NewSpace("test", 1, false, Funcs{
			ToRGB:   grayToRGB,
			FromRGB: rgbToGray,
			Destroy: func() { destroyed++ },
		})
		if err != nil {
			t.Fatal(err)
		}
		return s
	}

	d := NewDefaultSpaces()
	a := newSpace()
	d.SetGray(a)
	a.Drop()
	if destroyed != 0 {
		t.Fatal("space destroyed while in use as a default")
	}

	// replacing a slot releases the old space
	b := newSpace()
	d.SetGray(b)
	b.Drop()
	if destroyed != 1 {
		t.Fatalf("%d spaces destroyed, want 1", destroyed)
	}

	d.Keep()
	d.Drop()
	if destroyed != 1 {
		t.Fatal("defaults released while still referenced")
	}
	d.Drop()
	if destroyed != 2 {
		t.Fatalf("%d spaces destroyed, want 2", destroyed)
	}
}

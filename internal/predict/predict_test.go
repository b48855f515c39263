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

package predict

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSubRow(t *testing.T) {
	row := []byte{10, 20, 30, 15, 25, 5}
	dst := make([]byte, len(row)+1)
	EncodeRow(dst, row, nil, 3, Sub)

	want := []byte{1, 10, 20, 30, 5, 5, 231}
	if d := cmp.Diff(want, dst); d != "" {
		t.Errorf("unexpected filtered row (-want +got):\n%s", d)
	}
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, f := range []Filter{None, Sub, Up, Average, Paeth} {
		for _, bpp := range []int{1, 2, 3, 4} {
			t.Run(fmt.Sprintf("%s-%d", f, bpp), func(t *testing.T) {
				const width, height = 7, 5
				rowBytes := width * bpp

				raw := make([]byte, rowBytes*height)
				rng.Read(raw)

				filtered := make([]byte, (rowBytes+1)*height)
				var prev []byte
				for y := range height {
					row := raw[y*rowBytes : (y+1)*rowBytes]
					EncodeRow(filtered[y*(rowBytes+1):], row, prev, bpp, f)
					prev = row
				}

				got, filters, err := DecodeImage(filtered, rowBytes, height, bpp)
				if err != nil {
					t.Fatal(err)
				}
				if d := cmp.Diff(raw, got); d != "" {
					t.Errorf("round trip failed (-want +got):\n%s", d)
				}
				for y, g := range filters {
					if g != f {
						t.Errorf("row %d: filter %s, want %s", y, g, f)
					}
				}
			})
		}
	}
}

func TestDecodeImageErrors(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"short", []byte{1, 2, 3}},
		{"bad filter", []byte{9, 1, 2, 0, 1, 2}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, _, err := DecodeImage(c.data, 2, 2, 1)
			if err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestPaethPredictor(t *testing.T) {
	cases := []struct {
		a, b, c, want byte
	}{
		{0, 0, 0, 0},
		{10, 20, 10, 20},
		{20, 10, 10, 20},
		{10, 10, 20, 10},
		{100, 50, 200, 50},
	}
	for _, c := range cases {
		got := paethPredictor(c.a, c.b, c.c)
		if got != c.want {
			t.Errorf("paethPredictor(%d, %d, %d) = %d, want %d",
				c.a, c.b, c.c, got, c.want)
		}
	}
}

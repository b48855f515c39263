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

package memfile

import (
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReadWrite(t *testing.T) {
	f := New()
	if _, err := f.Write([]byte("hello world")); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Seek(6, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte("there!")); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff("hello there!", string(f.Data)); d != "" {
		t.Errorf("contents (-want +got):\n%s", d)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello there!" {
		t.Errorf("read %q", data)
	}
}

func TestSeekBeyondEnd(t *testing.T) {
	f := New()
	if _, err := f.Seek(3, io.SeekEnd); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte{1}); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]byte{0, 0, 0, 1}, f.Data); d != "" {
		t.Errorf("contents (-want +got):\n%s", d)
	}
	if _, err := f.Seek(-10, io.SeekCurrent); err == nil {
		t.Error("negative offset accepted")
	}
	if _, err := f.Seek(0, 7); err == nil {
		t.Error("invalid whence accepted")
	}
}

func TestLimit(t *testing.T) {
	f := NewLimited(5)
	n, err := f.Write([]byte("abc"))
	if n != 3 || err != nil {
		t.Fatalf("n=%d err=%v", n, err)
	}
	n, err = f.Write([]byte("defg"))
	if n != 2 || !errors.Is(err, ErrFull) {
		t.Errorf("n=%d err=%v", n, err)
	}
	n, err = f.Write([]byte("h"))
	if n != 0 || !errors.Is(err, ErrFull) {
		t.Errorf("n=%d err=%v", n, err)
	}
	if string(f.Data) != "abcde" || f.Writes != 3 {
		t.Errorf("data %q after %d writes", f.Data, f.Writes)
	}
}

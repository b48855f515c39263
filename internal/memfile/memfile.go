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

// Package memfile implements an in-memory file for use in tests.
//
// A [File] can be limited to a maximum size, after which writes fail.
// This is used to exercise the error paths of encoders.
package memfile

import (
	"errors"
	"io"
)

// File is an in-memory file, implementing [io.ReadWriteSeeker].
type File struct {
	// Data holds the file contents.
	Data []byte

	// Offset is the current file offset.
	Offset int64

	// Limit, if positive, is the maximum file size.  Writes which would
	// grow the file beyond Limit write as much as fits and return
	// [ErrFull].
	Limit int64

	// Writes counts the calls to Write.
	Writes int
}

// New returns an empty file without size limit.
func New() *File {
	return &File{}
}

// NewLimited returns an empty file which holds at most limit bytes.
func NewLimited(limit int64) *File {
	return &File{Limit: limit}
}

// ErrFull is returned when a write exceeds the size limit of a File.
var ErrFull = errors.New("memfile: file size limit reached")

// Write writes p at the current offset, growing the file as needed.
func (f *File) Write(p []byte) (int, error) {
	f.Writes++

	var err error
	if f.Limit > 0 && f.Offset+int64(len(p)) > f.Limit {
		p = p[:max(f.Limit-f.Offset, 0)]
		err = ErrFull
	}

	if f.Offset > int64(len(f.Data)) {
		f.Data = append(f.Data, make([]byte, f.Offset-int64(len(f.Data)))...)
	}
	n := copy(f.Data[f.Offset:], p)
	f.Data = append(f.Data, p[n:]...)
	f.Offset += int64(len(p))
	return len(p), err
}

// Read reads from the current offset.
func (f *File) Read(p []byte) (int, error) {
	if f.Offset >= int64(len(f.Data)) {
		return 0, io.EOF
	}
	n := copy(p, f.Data[f.Offset:])
	f.Offset += int64(n)
	return n, nil
}

// Seek sets the offset for the next Read or Write.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = f.Offset + offset
	case io.SeekEnd:
		pos = int64(len(f.Data)) + offset
	default:
		return 0, errWhence
	}
	if pos < 0 {
		return 0, errOffset
	}
	f.Offset = pos
	return pos, nil
}

var (
	errWhence = errors.New("memfile: invalid whence")
	errOffset = errors.New("memfile: negative offset")
)

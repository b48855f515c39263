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

// Package chunk reads and writes the chunk framing of PNG files.
//
// A PNG file consists of an 8-byte signature, followed by a sequence of
// chunks.  Each chunk is stored as a 4-byte big-endian payload length, a
// 4-byte type, the payload and a 4-byte big-endian CRC-32 computed over the
// type and the payload.
package chunk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
)

// Signature is the magic number at the start of every PNG file.
var Signature = [8]byte{137, 80, 78, 71, 13, 10, 26, 10}

// MaxLength is the largest payload length allowed by PNG.
const MaxLength = 1<<31 - 1

// Type is a chunk type.
type Type uint32

// Chunk types used by this module.
const (
	TypeIHDR Type = 0x49484452 // "IHDR" - image header
	TypeICCP Type = 0x69434350 // "iCCP" - embedded ICC profile
	TypeIDAT Type = 0x49444154 // "IDAT" - image data
	TypeIEND Type = 0x49454E44 // "IEND" - image trailer
)

func (t Type) String() string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(t))
	return string(b[:])
}

// Chunk is a decoded chunk.
type Chunk struct {
	Type Type
	Data []byte
	CRC  uint32
}

// Checksum returns the CRC-32 of the chunk type followed by data.
func Checksum(t Type, data []byte) uint32 {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(t))
	sum := crc32.Update(0, crc32.IEEETable, b[:])
	return crc32.Update(sum, crc32.IEEETable, data)
}

// Writer writes chunks to an underlying io.Writer.
type Writer struct {
	w   io.Writer
	buf [8]byte
	pos int64
}

// NewWriter returns a new Writer which writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteSignature writes the PNG file signature.
func (w *Writer) WriteSignature() error {
	n, err := w.w.Write(Signature[:])
	w.pos += int64(n)
	return err
}

// WriteChunk writes a chunk with the given type and payload.
func (w *Writer) WriteChunk(t Type, data []byte) error {
	if len(data) > MaxLength {
		return fmt.Errorf("chunk %s: payload too large (%d bytes)", t, len(data))
	}

	binary.BigEndian.PutUint32(w.buf[0:4], uint32(len(data)))
	binary.BigEndian.PutUint32(w.buf[4:8], uint32(t))
	if err := w.write(w.buf[:8]); err != nil {
		return err
	}
	if err := w.write(data); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(w.buf[0:4], Checksum(t, data))
	return w.write(w.buf[:4])
}

func (w *Writer) write(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	n, err := w.w.Write(b)
	w.pos += int64(n)
	return err
}

// Offset returns the number of bytes written so far.
func (w *Writer) Offset() int64 {
	return w.pos
}

// ErrNoSignature is returned by [Reader.ReadSignature] if the input does not
// start with the PNG signature.
var ErrNoSignature = errors.New("chunk: missing PNG signature")

// ChecksumError is returned when the stored CRC of a chunk does not match
// its contents.
type ChecksumError struct {
	Type      Type
	Got, Want uint32
}

func (err *ChecksumError) Error() string {
	return fmt.Sprintf("chunk %s: checksum mismatch (stored %08x, computed %08x)",
		err.Type, err.Got, err.Want)
}

// Reader reads chunks from an underlying io.Reader.
type Reader struct {
	r   io.Reader
	pos int64
}

// NewReader returns a new Reader which reads from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadSignature reads and checks the PNG file signature.
func (r *Reader) ReadSignature() error {
	var sig [8]byte
	n, err := io.ReadFull(r.r, sig[:])
	r.pos += int64(n)
	if err != nil {
		return fmt.Errorf("reading signature: %w", err)
	}
	if !bytes.Equal(sig[:], Signature[:]) {
		return ErrNoSignature
	}
	return nil
}

// ReadChunk reads the next chunk.  At the end of input, io.EOF is returned.
// If the CRC does not match, the chunk is returned together with a
// *ChecksumError.
func (r *Reader) ReadChunk() (*Chunk, error) {
	var head [8]byte
	n, err := io.ReadFull(r.r, head[:])
	r.pos += int64(n)
	if err == io.EOF {
		return nil, io.EOF
	} else if err != nil {
		return nil, fmt.Errorf("reading chunk header: %w", err)
	}

	length := binary.BigEndian.Uint32(head[0:4])
	t := Type(binary.BigEndian.Uint32(head[4:8]))
	if length > MaxLength {
		return nil, fmt.Errorf("chunk %s: invalid length %d", t, length)
	}

	body := make([]byte, int(length)+4)
	n, err = io.ReadFull(r.r, body)
	r.pos += int64(n)
	if err != nil {
		return nil, fmt.Errorf("reading chunk %s: %w", t, err)
	}

	c := &Chunk{
		Type: t,
		Data: body[:length],
		CRC:  binary.BigEndian.Uint32(body[length:]),
	}
	if want := Checksum(t, c.Data); want != c.CRC {
		return c, &ChecksumError{Type: t, Got: c.CRC, Want: want}
	}
	return c, nil
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int64 {
	return r.pos
}

// ReadAll reads the signature and all chunks from r.
func ReadAll(r io.Reader) ([]*Chunk, error) {
	cr := NewReader(r)
	if err := cr.ReadSignature(); err != nil {
		return nil, err
	}
	var res []*Chunk
	for {
		c, err := cr.ReadChunk()
		if err == io.EOF {
			return res, nil
		} else if err != nil {
			return res, err
		}
		res = append(res, c)
	}
}

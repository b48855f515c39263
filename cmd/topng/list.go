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

package main

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zlib"

	"seehuhn.de/go/raster/internal/chunk"
	"seehuhn.de/go/raster/internal/predict"
)

var errBadFile = errors.New("file has errors")

// listFile prints the chunks of a PNG file, together with the row filters
// used in the image data.  All checksums are verified.
func listFile(w io.Writer, fname string) error {
	f, err := os.Open(fname)
	if err != nil {
		return err
	}
	defer f.Close()

	r := chunk.NewReader(bufio.NewReader(f))
	if err := r.ReadSignature(); err != nil {
		return fmt.Errorf("%s: %w", fname, err)
	}

	var ihdr []byte
	idat := &bytes.Buffer{}
	bad := false
	fmt.Fprintf(w, "%8s  %-4s  %8s  %s\n", "offset", "type", "length", "crc")
	for {
		offset := r.Offset()
		c, err := r.ReadChunk()
		if err == io.EOF {
			break
		}
		crcErr := &chunk.ChecksumError{}
		if errors.As(err, &crcErr) {
			bad = true
		} else if err != nil {
			return fmt.Errorf("%s: %w", fname, err)
		}

		status := "ok"
		if c.CRC != chunk.Checksum(c.Type, c.Data) {
			status = "MISMATCH"
		}
		fmt.Fprintf(w, "%8d  %-4s  %8d  %08x %s\n", offset, c.Type, len(c.Data), c.CRC, status)

		switch c.Type {
		case chunk.TypeIHDR:
			ihdr = c.Data
		case chunk.TypeIDAT:
			idat.Write(c.Data)
		}
	}

	if err := listFilters(w, ihdr, idat.Bytes()); err != nil {
		fmt.Fprintln(w, "image data:", err)
		bad = true
	}
	if bad {
		return errBadFile
	}
	return nil
}

func listFilters(w io.Writer, ihdr, idat []byte) error {
	if len(ihdr) != 13 {
		return errors.New("missing or malformed IHDR chunk")
	}
	width := int(binary.BigEndian.Uint32(ihdr[0:]))
	height := int(binary.BigEndian.Uint32(ihdr[4:]))
	depth, colorType, interlace := ihdr[8], ihdr[9], ihdr[12]

	var channels int
	switch colorType {
	case 0:
		channels = 1
	case 2:
		channels = 3
	case 4:
		channels = 2
	case 6:
		channels = 4
	}
	fmt.Fprintf(w, "\n%dx%d, bit depth %d, colour type %d\n", width, height, depth, colorType)
	if channels == 0 || depth != 8 || interlace != 0 {
		fmt.Fprintln(w, "row filters not checked for this pixel format")
		return nil
	}

	zr, err := zlib.NewReader(bytes.NewReader(idat))
	if err != nil {
		return err
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		return err
	}
	_, filters, err := predict.DecodeImage(data, width*channels, height, channels)
	if err != nil {
		return err
	}

	counts := map[predict.Filter]int{}
	for _, f := range filters {
		counts[f]++
	}
	for f := predict.None; f <= predict.Paeth; f++ {
		if counts[f] > 0 {
			fmt.Fprintf(w, "%8d rows with filter %s\n", counts[f], f)
		}
	}
	return nil
}

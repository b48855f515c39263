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

// Package predict implements the PNG scanline filters.
//
// Every filtered row starts with a tag byte giving the filter type,
// followed by the filtered sample bytes.  Prediction works bytewise, with
// the left neighbour taken bpp bytes earlier in the row.
package predict

import (
	"errors"
	"fmt"
)

// Filter is a PNG filter type.
type Filter byte

// These are the filter types defined by PNG.
const (
	None    Filter = 0
	Sub     Filter = 1
	Up      Filter = 2
	Average Filter = 3
	Paeth   Filter = 4
)

func (f Filter) String() string {
	switch f {
	case None:
		return "None"
	case Sub:
		return "Sub"
	case Up:
		return "Up"
	case Average:
		return "Average"
	case Paeth:
		return "Paeth"
	default:
		return fmt.Sprintf("Filter(%d)", byte(f))
	}
}

// EncodeRow applies filter f to row and stores the tagged result in dst,
// which must have length at least len(row)+1.  The previous raw row is
// given by prev, which is nil for the first row of an image.
func EncodeRow(dst, row, prev []byte, bpp int, f Filter) {
	dst[0] = byte(f)
	out := dst[1 : len(row)+1]

	switch f {
	case Sub:
		k := min(bpp, len(row))
		copy(out[:k], row[:k])
		for i := k; i < len(row); i++ {
			out[i] = row[i] - row[i-bpp]
		}
	case Up:
		if prev == nil {
			copy(out, row)
			break
		}
		for i := range row {
			out[i] = row[i] - prev[i]
		}
	case Average:
		for i := range row {
			var left, up int
			if i >= bpp {
				left = int(row[i-bpp])
			}
			if prev != nil {
				up = int(prev[i])
			}
			out[i] = row[i] - byte((left+up)/2)
		}
	case Paeth:
		for i := range row {
			var left, up, upperLeft byte
			if i >= bpp {
				left = row[i-bpp]
			}
			if prev != nil {
				up = prev[i]
				if i >= bpp {
					upperLeft = prev[i-bpp]
				}
			}
			out[i] = row[i] - paethPredictor(left, up, upperLeft)
		}
	default:
		copy(out, row)
	}
}

// DecodeRow reverses the filter of a row in place.  The argument row holds
// the filtered bytes without the tag byte, prev holds the previous decoded
// row or nil for the first row.
func DecodeRow(row, prev []byte, bpp int, f Filter) error {
	switch f {
	case None:
	case Sub:
		for i := bpp; i < len(row); i++ {
			row[i] += row[i-bpp]
		}
	case Up:
		if prev != nil {
			for i := range row {
				row[i] += prev[i]
			}
		}
	case Average:
		for i := range row {
			var left, up int
			if i >= bpp {
				left = int(row[i-bpp])
			}
			if prev != nil {
				up = int(prev[i])
			}
			row[i] += byte((left + up) / 2)
		}
	case Paeth:
		for i := range row {
			var left, up, upperLeft byte
			if i >= bpp {
				left = row[i-bpp]
			}
			if prev != nil {
				up = prev[i]
				if i >= bpp {
					upperLeft = prev[i-bpp]
				}
			}
			row[i] += paethPredictor(left, up, upperLeft)
		}
	default:
		return fmt.Errorf("predict: invalid filter type %d", byte(f))
	}
	return nil
}

// DecodeImage removes the row filters from the decompressed image data of
// a PNG file.  Each of the height rows occupies rowBytes+1 bytes in data.
// The filters used are returned alongside the raw sample data.
func DecodeImage(data []byte, rowBytes, height, bpp int) ([]byte, []Filter, error) {
	if rowBytes < 1 || height < 1 || bpp < 1 {
		return nil, nil, errors.New("predict: invalid image geometry")
	}
	if len(data) != (rowBytes+1)*height {
		return nil, nil, fmt.Errorf("predict: expected %d bytes of image data, got %d",
			(rowBytes+1)*height, len(data))
	}

	res := make([]byte, rowBytes*height)
	filters := make([]Filter, height)
	var prev []byte
	for y := range height {
		in := data[y*(rowBytes+1):]
		row := res[y*rowBytes : (y+1)*rowBytes]
		copy(row, in[1:rowBytes+1])
		filters[y] = Filter(in[0])
		err := DecodeRow(row, prev, bpp, filters[y])
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", y, err)
		}
		prev = row
	}
	return res, filters, nil
}

// paethPredictor implements the Paeth prediction algorithm
func paethPredictor(a, b, c byte) byte {
	// a = left, b = above, c = upper left
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))

	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

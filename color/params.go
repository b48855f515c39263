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

	"golang.org/x/text/cases"

	"seehuhn.de/go/raster/cmm"
)

// RenderingIntent selects how colours outside the gamut of the destination
// are mapped.  The values use the same order as ICC profiles.
type RenderingIntent uint8

// These are the rendering intents defined by ICC.
const (
	Perceptual RenderingIntent = iota
	RelativeColorimetric
	Saturation
	AbsoluteColorimetric
)

var intentNames = [...]string{
	Perceptual:           "Perceptual",
	RelativeColorimetric: "RelativeColorimetric",
	Saturation:           "Saturation",
	AbsoluteColorimetric: "AbsoluteColorimetric",
}

// LookupRenderingIntent returns the rendering intent with the given name.
// Names are compared case-insensitively.  Unknown names map to
// [Perceptual].
func LookupRenderingIntent(name string) RenderingIntent {
	fold := cases.Fold()
	key := fold.String(name)
	for i, n := range intentNames {
		if fold.String(n) == key {
			return RenderingIntent(i)
		}
	}
	return Perceptual
}

func (ri RenderingIntent) String() string {
	if int(ri) < len(intentNames) {
		return intentNames[ri]
	}
	return fmt.Sprintf("RenderingIntent(%d)", uint8(ri))
}

func (ri RenderingIntent) cmm() cmm.Intent {
	if ri > AbsoluteColorimetric {
		return cmm.Perceptual
	}
	return cmm.Intent(ri)
}

// Params controls colour conversions.
type Params struct {
	Intent RenderingIntent

	// BlackPoint enables black point compensation.
	BlackPoint bool

	// Overprint and OverprintMode are passed through to the conversion;
	// they are used by callers which simulate overprinting.
	Overprint     bool
	OverprintMode bool
}

// Init resets p to the default conversion parameters: relative
// colorimetric rendering with black point compensation.
func (p *Params) Init() {
	*p = Params{
		Intent:     RelativeColorimetric,
		BlackPoint: true,
	}
}

var defaultParams = func() Params {
	var p Params
	p.Init()
	return p
}()

// DefaultParams returns a copy of the default conversion parameters.
func DefaultParams() *Params {
	p := defaultParams
	return &p
}

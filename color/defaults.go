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

import "sync/atomic"

// DefaultSpaces records which colour spaces stand in for the device
// spaces on one page, together with an optional output intent.
//
// Slots which were never set fall back to the corresponding device space.
// A nil *DefaultSpaces behaves like one with no slots set.  The setters
// must not be called concurrently with other methods.
type DefaultSpaces struct {
	refs atomic.Int32

	gray, rgb, cmyk, oi *Space
}

// NewDefaultSpaces returns a new, empty set of default colour spaces.
func NewDefaultSpaces() *DefaultSpaces {
	d := &DefaultSpaces{}
	d.refs.Store(1)
	return d
}

// Keep acquires a new reference to d and returns d.
func (d *DefaultSpaces) Keep() *DefaultSpaces {
	if d != nil {
		d.refs.Add(1)
	}
	return d
}

// Drop releases a reference to d.  Dropping the last reference releases
// the colour spaces held by d.
func (d *DefaultSpaces) Drop() {
	if d == nil || d.refs.Add(-1) != 0 {
		return
	}
	for _, p := range []**Space{&d.gray, &d.rgb, &d.cmyk, &d.oi} {
		(*p).Drop()
		*p = nil
	}
}

func replace(slot **Space, cs *Space) {
	old := *slot
	*slot = cs.Keep()
	old.Drop()
}

// SetGray sets the colour space used in place of device gray.
func (d *DefaultSpaces) SetGray(cs *Space) {
	if d != nil {
		replace(&d.gray, cs)
	}
}

// SetRGB sets the colour space used in place of device RGB.
func (d *DefaultSpaces) SetRGB(cs *Space) {
	if d != nil {
		replace(&d.rgb, cs)
	}
}

// SetCMYK sets the colour space used in place of device CMYK.
func (d *DefaultSpaces) SetCMYK(cs *Space) {
	if d != nil {
		replace(&d.cmyk, cs)
	}
}

// SetOutputIntent sets the output intent.
func (d *DefaultSpaces) SetOutputIntent(cs *Space) {
	if d != nil {
		replace(&d.oi, cs)
	}
}

// Gray returns the default gray colour space.
func (d *DefaultSpaces) Gray() *Space {
	if d == nil || d.gray == nil {
		return deviceGray
	}
	return d.gray
}

// RGB returns the default RGB colour space.
func (d *DefaultSpaces) RGB() *Space {
	if d == nil || d.rgb == nil {
		return deviceRGB
	}
	return d.rgb
}

// CMYK returns the default CMYK colour space.
func (d *DefaultSpaces) CMYK() *Space {
	if d == nil || d.cmyk == nil {
		return deviceCMYK
	}
	return d.cmyk
}

// OutputIntent returns the output intent, or nil if none has been set.
func (d *DefaultSpaces) OutputIntent() *Space {
	if d == nil {
		return nil
	}
	return d.oi
}

// Resolve maps the device spaces to the corresponding defaults.
// All other colour spaces are returned unchanged.
func (d *DefaultSpaces) Resolve(cs *Space) *Space {
	switch cs {
	case deviceGray:
		return d.Gray()
	case deviceRGB:
		return d.RGB()
	case deviceCMYK:
		return d.CMYK()
	default:
		return cs
	}
}

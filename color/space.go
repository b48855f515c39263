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
	"errors"
	"fmt"
	"sync/atomic"

	"seehuhn.de/go/icc"

	"seehuhn.de/go/raster/cmm"
)

// MaxColors is the maximal number of components of a colour space.
const MaxColors = 32

// ConvertFunc converts a colour between a colour space and device RGB.
// When converting to RGB, src has cs.N() elements and dst has 3.  When
// converting from RGB, src has 3 elements and dst has cs.N().
type ConvertFunc func(cs *Space, src, dst []float64)

// ClampFunc forces the components of a colour into the valid range
// for the colour space.  Both slices have cs.N() elements.
type ClampFunc func(cs *Space, src, dst []float64)

// Kind identifies the variant of a colour space.
type Kind int

// These are the supported kinds of colour spaces.
const (
	KindGeneric Kind = iota
	KindIndexed
	KindICC
	KindCal
)

func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindIndexed:
		return "indexed"
	case KindICC:
		return "ICC"
	case KindCal:
		return "calibrated"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Space describes how colour values map to and from device RGB, which is
// used as the common reference space for all conversions.
//
// A Space is immutable after construction.  Spaces are reference counted
// using [Space.Keep] and [Space.Drop]; the device spaces returned by
// [DeviceGray] and friends are static and never destroyed.
type Space struct {
	name        string
	n           int
	subtractive bool

	toRGB   ConvertFunc
	fromRGB ConvertFunc
	clamp   ClampFunc
	destroy func()

	base *Space
	data payload

	static bool
	refs   atomic.Int32
}

// payload is the variant specific part of a colour space.
type payload interface {
	release()
}

// Funcs collects the functions which define a generic colour space.
type Funcs struct {
	// ToRGB and FromRGB convert between the colour space and device RGB.
	// Both are required.
	ToRGB, FromRGB ConvertFunc

	// Clamp (optional) restricts colour values to their valid range.
	// If this is nil, all components are clamped to [0, 1].
	Clamp ClampFunc

	// Destroy (optional) is called once the last reference to the colour
	// space has been dropped.
	Destroy func()
}

// NewSpace returns a new colour space with n components, defined by the
// given conversion functions.
func NewSpace(name string, n int, subtractive bool, f Funcs) (*Space, error) {
	if n < 1 || n > MaxColors {
		return nil, fmt.Errorf("color space %q: invalid number of components %d", name, n)
	}
	if f.ToRGB == nil || f.FromRGB == nil {
		return nil, fmt.Errorf("color space %q: missing conversion function", name)
	}
	s := &Space{
		name:        name,
		n:           n,
		subtractive: subtractive,
		toRGB:       f.ToRGB,
		fromRGB:     f.FromRGB,
		clamp:       f.Clamp,
		destroy:     f.Destroy,
	}
	s.refs.Store(1)
	return s, nil
}

// newStatic returns a colour space which ignores reference counting.
func newStatic(name string, n int, subtractive bool, toRGB, fromRGB ConvertFunc, clamp ClampFunc) *Space {
	return &Space{
		name:        name,
		n:           n,
		subtractive: subtractive,
		toRGB:       toRGB,
		fromRGB:     fromRGB,
		clamp:       clamp,
		static:      true,
	}
}

// Keep acquires a new reference to s and returns s.
func (s *Space) Keep() *Space {
	if s == nil || s.static {
		return s
	}
	s.refs.Add(1)
	return s
}

// Drop releases a reference to s.  When the last reference is dropped, the
// variant specific resources are released and then the Destroy function of
// the colour space, if any, is called.  Calls to Drop after the colour
// space has been destroyed have no effect.
func (s *Space) Drop() {
	if s == nil || s.static {
		return
	}
	for {
		r := s.refs.Load()
		if r <= 0 {
			return
		}
		if s.refs.CompareAndSwap(r, r-1) {
			if r == 1 {
				s.free()
			}
			return
		}
	}
}

func (s *Space) free() {
	if s.data != nil {
		s.data.release()
	}
	if s.destroy != nil {
		s.destroy()
	}
}

// N returns the number of colour components.
func (s *Space) N() int {
	return s.n
}

// Name returns a human readable name for the colour space.
func (s *Space) Name() string {
	return s.name
}

func (s *Space) String() string {
	return s.name
}

// IsSubtractive reports whether the colour space is subtractive.
// This is true for CMYK, Separation and DeviceN colour spaces.
func (s *Space) IsSubtractive() bool {
	return s.subtractive
}

// Kind returns the variant of the colour space.
func (s *Space) Kind() Kind {
	switch s.data.(type) {
	case *indexedData:
		return KindIndexed
	case *iccData:
		return KindICC
	case *calData:
		return KindCal
	default:
		return KindGeneric
	}
}

// IsIndexed reports whether s is an indexed colour space.
func (s *Space) IsIndexed() bool {
	_, ok := s.data.(*indexedData)
	return ok
}

// IsGrayOrRGB reports whether the components of s are gray or rgb values.
// This holds for device gray and device rgb, and for ICC based and
// calibrated spaces with a gray or rgb device space.
func (s *Space) IsGrayOrRGB() bool {
	switch d := s.data.(type) {
	case *iccData:
		cs := d.profile.ColorSpace()
		return cs == icc.GraySpace || cs == icc.RGBSpace
	case *calData:
		return d.N == 1 || d.N == 3
	}
	return s == deviceGray || s == deviceRGB
}

// IsICC reports whether s is defined by an ICC profile.
func (s *Space) IsICC() bool {
	_, ok := s.data.(*iccData)
	return ok
}

// Base returns the base space of an indexed colour space,
// and nil for all other colour spaces.
func (s *Space) Base() *Space {
	return s.base
}

// ICCData returns the ICC profile of the colour space.  For calibrated
// colour spaces this is a profile synthesised from the calibration
// parameters.  If the colour space has no profile, nil is returned.
// The returned slice must not be modified.
func (s *Space) ICCData() []byte {
	switch d := s.data.(type) {
	case *iccData:
		return d.profile.Bytes()
	case *calData:
		return d.icc
	default:
		return nil
	}
}

// profile returns the ICC profile used for linked conversions, or nil.
func (s *Space) profile() *cmm.Profile {
	switch d := s.data.(type) {
	case *iccData:
		return d.profile
	case *calData:
		return d.profile
	}
	if s == deviceRGB {
		return cmm.SRGB()
	}
	return nil
}

// isLab reports whether the components of s are CIE L*a*b* values.
func (s *Space) isLab() bool {
	if s == deviceLab {
		return true
	}
	if d, ok := s.data.(*iccData); ok {
		return d.profile.ColorSpace() == icc.CIELabSpace
	}
	return false
}

// Range returns the valid range of component i.
func (s *Space) Range(i int) (lo, hi float64) {
	if d, ok := s.data.(*indexedData); ok {
		return 0, float64(d.high) / 255
	}
	if s.isLab() && i < 3 {
		if i == 0 {
			return 0, 100
		}
		return -128, 127
	}
	return 0, 1
}

// ToRGB converts a colour from s to device RGB.
// The slice rgb must have length at least 3.
func (s *Space) ToRGB(rgb, src []float64) {
	s.toRGB(s, src, rgb)
}

// FromRGB converts a device RGB colour to s.
// The slice dst must have length at least s.N().
func (s *Space) FromRGB(dst, rgb []float64) {
	s.fromRGB(s, rgb, dst)
}

var errNilSpace = errors.New("missing color space")

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

	"seehuhn.de/go/raster"
	"seehuhn.de/go/raster/cmm"
)

// Converter converts colours from a source to a destination colour space.
//
// A converter is obtained either by [LookupConverter], for a short burst of
// conversions, or by [NewCachedConverter], which reports an error if the
// profiles of the colour spaces cannot be linked.  Convert does not
// allocate memory.
// A Converter must not be used concurrently.
type Converter struct {
	convert func(cc *Converter, dst, src []float64)

	ds, ss, is *Space
	params     Params

	fast func(ss, ds *Space, dst, src []float64)
	sub  *Converter
	link *cmm.Transform

	stage [MaxColors]float64
	rgb   [3]float64
}

// LookupConverter returns a converter from ss to ds.
//
// If the intermediate space is is non-nil and differs from both ss and
// ds, colours are converted to is first.  If params is nil, the default
// parameters are used.  Both ss and ds must be non-nil.
//
// When both colour spaces are defined by profiles, the colours are
// converted using a direct transform between the profiles, with the
// rendering intent and black point compensation given by params.
func LookupConverter(is, ds, ss *Space, params *Params) *Converter {
	cc, err := lookupConverter(is, ds, ss, params)
	if err != nil {
		raster.Logger().Debug("cannot link colour profiles, converting via RGB",
			"src", ss.name, "dst", ds.name, "error", err)
	}
	return cc
}

// NewCachedConverter returns a converter from ss to ds for use in a long
// sequence of conversions.  The conversions are the same as for
// [LookupConverter], but an error is returned if the profiles of the two
// colour spaces cannot be linked.  The converter should be released using
// [Converter.Close].
func NewCachedConverter(is, ds, ss *Space, params *Params) (*Converter, error) {
	cc, err := lookupConverter(is, ds, ss, params)
	if err != nil {
		return nil, err
	}
	return cc, nil
}

// lookupConverter constructs the converter used by LookupConverter.
// If the profiles of ss and ds cannot be linked, the returned converter
// converts via RGB and the linking error is returned alongside.
func lookupConverter(is, ds, ss *Space, params *Params) (*Converter, error) {
	if params == nil {
		params = &defaultParams
	}
	cc := &Converter{
		ds:     ds,
		ss:     ss,
		is:     is,
		params: *params,
	}

	var err error
	switch {
	case ss == ds:
		cc.convert = convertCopy
	case ss.IsIndexed():
		cc.sub, err = lookupConverter(is, ds, ss.base, params)
		cc.convert = convertIndexed
	case is != nil && is != ss && is != ds:
		cc.sub, err = lookupConverter(nil, ds, is, params)
		cc.convert = convertPivot
	default:
		if f := fastConverter(ss, ds); f != nil {
			cc.fast = f
			cc.convert = convertFast
		} else {
			cc.convert = convertGeneric
		}
		err = cc.linkProfiles()
	}
	return cc, err
}

// linkProfiles replaces the conversion by a direct transform, if both
// colour spaces are defined by profiles.
func (cc *Converter) linkProfiles() error {
	src, dst := cc.ss.profile(), cc.ds.profile()
	if src == nil || dst == nil {
		return nil
	}
	link, err := cmm.NewTransform(src, dst, cc.params.Intent.cmm(), cc.params.BlackPoint)
	if err != nil {
		return fmt.Errorf("%s to %s: %w", cc.ss.name, cc.ds.name, err)
	}
	cc.link = link
	cc.fast = nil
	cc.convert = convertLink
	return nil
}

// Convert converts the colour src, given in the source space, and stores
// the result in dst.  The slice dst must have at least as many elements as
// the destination space has components.
func (cc *Converter) Convert(dst, src []float64) {
	if cc.convert == nil {
		return
	}
	cc.convert(cc, dst, src)
}

// Src returns the source colour space.
func (cc *Converter) Src() *Space {
	return cc.ss
}

// Dst returns the destination colour space.
func (cc *Converter) Dst() *Space {
	return cc.ds
}

// Discard ends the use of a converter obtained from [LookupConverter].
// It is safe to call Discard more than once.
func (cc *Converter) Discard() {
	if cc == nil {
		return
	}
	if cc.sub != nil {
		cc.sub.Discard()
	}
	cc.convert = nil
}

// Close releases the profile transform held by a converter.
// It is safe to call Close more than once.
func (cc *Converter) Close() error {
	if cc == nil {
		return nil
	}
	cc.link = nil
	cc.Discard()
	return nil
}

func convertCopy(cc *Converter, dst, src []float64) {
	copy(dst[:cc.ss.n], src[:cc.ss.n])
}

func convertFast(cc *Converter, dst, src []float64) {
	cc.fast(cc.ss, cc.ds, dst, src)
}

func convertGeneric(cc *Converter, dst, src []float64) {
	cc.ss.toRGB(cc.ss, src, cc.rgb[:])
	cc.ds.fromRGB(cc.ds, cc.rgb[:], dst)
}

func convertIndexed(cc *Converter, dst, src []float64) {
	d := cc.ss.data.(*indexedData)
	d.expand(cc.stage[:], src[0])
	cc.sub.Convert(dst, cc.stage[:d.base.n])
}

func convertPivot(cc *Converter, dst, src []float64) {
	cc.ss.toRGB(cc.ss, src, cc.rgb[:])
	cc.is.fromRGB(cc.is, cc.rgb[:], cc.stage[:])
	cc.sub.Convert(dst, cc.stage[:cc.is.n])
}

func convertLink(cc *Converter, dst, src []float64) {
	cc.link.Apply(dst, src)
}

// ConvertColor converts a single colour from ss to ds, optionally via the
// intermediate space is.
func ConvertColor(params *Params, is, ds *Space, dst []float64, ss *Space, src []float64) {
	cc := LookupConverter(is, ds, ss, params)
	cc.Convert(dst, src)
	cc.Discard()
}

// ClampColor forces the colour in into the valid range for cs and stores
// the result in out.  Colour spaces without a clamp function have all
// components clamped to [0, 1].
func ClampColor(cs *Space, in, out []float64) {
	if cs.clamp != nil {
		cs.clamp(cs, in, out)
		return
	}
	for i := range cs.n {
		out[i] = clamp01(in[i])
	}
}

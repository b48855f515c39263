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

// Topng converts raster images to PNG, writing the output in bands.
//
// Usage:
//
//	topng [flags] input
//	topng -list file.png
//
// Input images can be in PNG, JPEG, GIF, BMP, TIFF or WebP format.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/term"

	"seehuhn.de/go/raster"
	"seehuhn.de/go/raster/band"
	"seehuhn.de/go/raster/color"
	"seehuhn.de/go/raster/internal/buildinfo"
	"seehuhn.de/go/raster/internal/profile"
	"seehuhn.de/go/raster/pixmap"
	"seehuhn.de/go/raster/png"
)

type options struct {
	out       string
	bandRows  int
	level     int
	gray      bool
	srgb      bool
	intent    string
	overwrite bool
}

func main() {
	opt := &options{}
	flag.StringVar(&opt.out, "o", "", "output file name (\"-\" for standard output)")
	flag.IntVar(&opt.bandRows, "band", 64, "number of rows per band (0 for the whole image)")
	flag.IntVar(&opt.level, "level", -1, "zlib compression level (-2 to 9, -1 for the default)")
	flag.BoolVar(&opt.gray, "gray", false, "convert the image to grayscale")
	flag.BoolVar(&opt.srgb, "srgb", false, "embed the sRGB profile into rgb output")
	flag.StringVar(&opt.intent, "intent", "RelativeColorimetric", "rendering intent for colour conversions")
	flag.BoolVar(&opt.overwrite, "f", false, "overwrite the output file if it exists")
	list := flag.Bool("list", false, "list the chunks of a PNG file")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")
	version := flag.Bool("version", false, "print version information and exit")
	verbose := flag.Bool("v", false, "show debug output")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options] input\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if *version {
		fmt.Println(buildinfo.Short("topng"))
		return
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		raster.SetLogger(slog.New(h))
	}

	stop, err := profile.Start(*cpuprofile, *memprofile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "topng:", err)
		os.Exit(1)
	}

	if *list {
		err = listFile(os.Stdout, flag.Arg(0))
	} else {
		err = run(opt, flag.Arg(0))
	}
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "topng:", err)
		os.Exit(1)
	}
}

func run(opt *options, in string) error {
	out := opt.out
	if out == "" {
		out = strings.TrimSuffix(in, filepath.Ext(in)) + ".png"
		if out == in {
			return fmt.Errorf("%s: refusing to overwrite the input file", in)
		}
	}
	if out == "-" && term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("not writing binary data to a terminal")
	}
	if out != "-" && !opt.overwrite {
		if _, err := os.Stat(out); !os.IsNotExist(err) {
			return fmt.Errorf("output file %q already exists", out)
		}
	}

	pix, err := loadPixmap(in)
	if err != nil {
		return err
	}
	defer pix.Drop()

	pix, err = prepare(pix, opt)
	if err != nil {
		return err
	}
	defer pix.Drop()

	if out == "-" {
		w := bufio.NewWriter(os.Stdout)
		err = encode(w, pix, opt)
		if err2 := w.Flush(); err == nil {
			err = err2
		}
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	err = encode(w, pix, opt)
	if err2 := w.Flush(); err == nil {
		err = err2
	}
	if err2 := f.Close(); err == nil {
		err = err2
	}
	if err != nil {
		os.Remove(out)
	}
	return err
}

func loadPixmap(fname string) (*pixmap.Pixmap, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	raster.Logger().Debug("decoded input image",
		"file", fname, "format", format, "size", img.Bounds().Size())
	return pixmap.FromImage(img), nil
}

// prepare applies the colour options to pix.  The returned pixmap holds
// its own reference to its colour space.
func prepare(pix *pixmap.Pixmap, opt *options) (*pixmap.Pixmap, error) {
	params := color.DefaultParams()
	params.Intent = color.LookupRenderingIntent(opt.intent)

	if opt.gray && pix.Space != nil && pix.Space != color.DeviceGray() {
		return pix.Convert(color.DeviceGray(), params)
	}

	res := *pix
	res.Space = pix.Space.Keep()
	if opt.srgb && res.Space == color.DeviceRGB() {
		res.Space.Drop()
		res.Space = color.SRGB().Keep()
	}
	return &res, nil
}

func encode(w io.Writer, pix *pixmap.Pixmap, opt *options) error {
	bw := png.NewWriter(w, &png.Options{Level: opt.level})
	defer bw.Close()

	err := bw.WriteHeader(&band.Header{
		Width:  pix.W,
		Height: pix.H,
		N:      pix.N,
		Alpha:  pix.Alpha,
		XRes:   pix.XRes,
		YRes:   pix.YRes,
	})
	if err != nil {
		return err
	}
	if pix.Space != nil {
		if err := bw.WriteICC(pix.Space); err != nil {
			return err
		}
	}

	rows := opt.bandRows
	if rows <= 0 {
		rows = pix.H
	}
	for !bw.Done() {
		y := bw.Line()
		err := bw.WriteBand(pix.Stride, min(rows, pix.H-y), pix.Samples[y*pix.Stride:])
		if err != nil {
			return err
		}
	}
	return nil
}

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

package raster

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestDefaultLogger(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("no default logger")
	}
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger produces output")
	}
}

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	buf := &bytes.Buffer{}
	SetLogger(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	Logger().Debug("band written", "rows", 16)
	if !strings.Contains(buf.String(), "rows=16") {
		t.Errorf("unexpected log output %q", buf.String())
	}

	SetLogger(nil)
	Logger().Warn("dropped")
	if strings.Contains(buf.String(), "dropped") {
		t.Error("message logged after reset")
	}
	if Logger().Handler() != slog.DiscardHandler {
		t.Errorf("reset logger uses %T", Logger().Handler())
	}
}

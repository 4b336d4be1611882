// This file is part of c64io.
//
// c64io is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// c64io is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with c64io.  If not, see <https://www.gnu.org/licenses/>.


package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/c64io/hardware/tapeport/tapecart/tcrt"
	"github.com/jetsetilly/c64io/test"
)

func TestLaunchErrors(t *testing.T) {
	out := &strings.Builder{}
	test.ExpectEquality(t, launch([]string{"-nosuchflag"}, strings.NewReader(""), out), exitParseError)
	test.ExpectSuccess(t, strings.HasPrefix(out.String(), "* error:"))

	out.Reset()
	test.ExpectEquality(t, launch([]string{"-help"}, strings.NewReader(""), out), exitOK)
	test.ExpectSuccess(t, strings.Contains(out.String(), "MONITOR"))

	out.Reset()
	test.ExpectEquality(t, launch([]string{"-version"}, strings.NewReader(""), out), exitOK)
	test.ExpectSuccess(t, strings.HasPrefix(out.String(), "c64io "))

	out.Reset()
	test.ExpectEquality(t, launch([]string{"monitor", "-cart", "floppy"}, strings.NewReader(""), out), exitModeError)
	test.ExpectSuccess(t, strings.HasPrefix(out.String(), "* error in MONITOR mode:"))

	out.Reset()
	test.ExpectEquality(t, launch([]string{"tcrt", "info"}, strings.NewReader(""), out), exitModeError)
}

func TestMonitorMode(t *testing.T) {
	out := &strings.Builder{}
	script := "w $de0a 0\nw $de0b 0\nr $de0c\nquit\n"
	test.ExpectEquality(t, launch([]string{"monitor", "-cart", "tfe"}, strings.NewReader(script), out), exitOK)
	test.ExpectEquality(t, out.String(), "$de0c: $0e\n")

	out.Reset()
	script = "w $de02 0\nw $de03 0\nr $de04\n"
	test.ExpectEquality(t, launch([]string{"monitor", "-cart", "rrnet"}, strings.NewReader(script), out), exitOK)
	test.ExpectEquality(t, out.String(), "$de04: $0e\n")
}

func TestTCRTTools(t *testing.T) {
	dir := t.TempDir()

	prg := filepath.Join(dir, "demo.prg")
	test.DemandSuccess(t, os.WriteFile(prg, []byte{0x01, 0x08, 0xa9, 0x00, 0x60}, 0o644))

	// create
	fn := filepath.Join(dir, "demo.tcrt")
	out := &strings.Builder{}
	test.DemandEquality(t, launch([]string{"tcrt", "create", "-call", "$0810", prg, fn}, strings.NewReader(""), out), exitOK)

	img, err := tcrt.LoadFile(fn, nil)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, img.FilenameString(), "DEMO")
	test.ExpectEquality(t, img.CallAddress, uint16(0x0810))
	load, data, ok := img.Program()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, load, uint16(0x0801))
	test.ExpectEquality(t, len(data), 3)

	// info
	out.Reset()
	test.DemandEquality(t, launch([]string{"tcrt", "info", fn}, strings.NewReader(""), out), exitOK)
	test.ExpectEquality(t, out.String(), "filename: DEMO\n"+
		"data: $0000 ($0005 bytes)\n"+
		"call: $0810\n"+
		"program: $0801-$0804\n")

	// wav
	wav := filepath.Join(dir, "demo.wav")
	out.Reset()
	test.DemandEquality(t, launch([]string{"tcrt", "wav", "-rate", "22050", fn, wav}, strings.NewReader(""), out), exitOK)
	st, err := os.Stat(wav)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, st.Size() > 44)

	// playing the stream must not change the file
	after, err := tcrt.LoadFile(fn, nil)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, after.FilenameString(), "DEMO")

	// a PRG that is too short
	short := filepath.Join(dir, "short.prg")
	test.DemandSuccess(t, os.WriteFile(short, []byte{0x01, 0x08}, 0o644))
	out.Reset()
	test.ExpectEquality(t, launch([]string{"tcrt", "create", short, fn}, strings.NewReader(""), out), exitModeError)
}

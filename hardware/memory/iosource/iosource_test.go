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

package iosource_test

import (
	"io"
	"strings"
	"testing"

	"github.com/jetsetilly/c64io/curated"
	"github.com/jetsetilly/c64io/environment"
	"github.com/jetsetilly/c64io/hardware/memory/iosource"
	"github.com/jetsetilly/c64io/test"
)

type device struct {
	name       string
	start, end uint16
	mask       uint16
	value      uint8
	drive      bool
	stored     []uint16
	resets     int
}

func (d *device) Name() string { return d.name }
func (d *device) Range() (uint16, uint16, uint16) { return d.start, d.end, d.mask }
func (d *device) Read(addr uint16) (uint8, bool) { return d.value, d.drive }
func (d *device) Peek(addr uint16) uint8 { return d.value }
func (d *device) Store(addr uint16, data uint8) { d.stored = append(d.stored, addr) }
func (d *device) Dump(w io.Writer) { io.WriteString(w, d.name) }
func (d *device) Reset() { d.resets++ }

func TestRegistry(t *testing.T) {
	r := iosource.NewRegistry()

	_, ok := r.Read(0xde00)
	test.ExpectFailure(t, ok)

	a := &device{name: "a", start: 0xde00, end: 0xde0f, mask: 0x0f, value: 0xf3, drive: true}
	b := &device{name: "b", start: 0xde08, end: 0xdeff, mask: 0xff, value: 0x3f, drive: true}
	ea := r.Register(a)
	eb := r.Register(b)
	test.ExpectEquality(t, r.Len(), 2)

	v, ok := r.Read(0xde01)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, 0xf3)

	// two devices driving the bus
	v, ok = r.Read(0xde09)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, 0x33)

	// a device that does not drive the bus is not a conflict
	a.drive = false
	v, ok = r.Read(0xde09)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, 0x3f)

	// stores go to every device with the masked address
	r.Store(0xde0a, 0x00)
	test.ExpectEquality(t, len(a.stored), 1)
	test.ExpectEquality(t, a.stored[0], 0x0a)
	test.ExpectEquality(t, b.stored[0], 0x0a)

	test.ExpectEquality(t, r.Peek(0xde0a), 0xf3)
	test.ExpectEquality(t, r.Peek(0xdf00), 0x00)

	w := &strings.Builder{}
	test.ExpectSuccess(t, r.Dump(0xde20, w))
	test.ExpectEquality(t, w.String(), "b")
	test.ExpectSuccess(t, curated.Is(r.Dump(0xdf00, w), iosource.NoDevice))

	r.Reset()
	test.ExpectEquality(t, a.resets, 1)
	test.ExpectEquality(t, b.resets, 1)

	r.Unregister(ea)
	r.Unregister(ea)
	r.Unregister(nil)
	test.ExpectEquality(t, r.Len(), 1)
	test.ExpectEquality(t, eb.Device().Name(), "b")
	test.ExpectEquality(t, r.String(), "$de08-$deff (mask $00ff): b\n")
}

func TestExports(t *testing.T) {
	var x iosource.Exports

	test.ExpectSuccess(t, x.Add(iosource.Export{Name: "tfe"}))
	test.ExpectSuccess(t, x.Add(iosource.Export{Name: "rrnetmk3", Game: true}))
	test.ExpectSuccess(t, curated.Is(x.Add(iosource.Export{Name: "tfe"}), iosource.ExportConflict))
	test.ExpectSuccess(t, curated.Is(x.Add(iosource.Export{Name: "other", Game: true}), iosource.ExportConflict))
	test.ExpectSuccess(t, x.Add(iosource.Export{Name: "other", ExROM: true}))
	test.ExpectEquality(t, len(x.List()), 3)

	x.Remove("rrnetmk3")
	test.ExpectSuccess(t, x.Add(iosource.Export{Name: "another", Game: true}))
	test.ExpectEquality(t, len(x.List()), 3)
}

func TestMapAddress(t *testing.T) {
	test.ExpectEquality(t, iosource.MapAddress(environment.C64, 0xde00), iosource.IO1)
	test.ExpectEquality(t, iosource.MapAddress(environment.C64, 0xdfff), iosource.IO2)
	test.ExpectEquality(t, iosource.MapAddress(environment.C64, 0x9800), iosource.Undefined)
	test.ExpectEquality(t, iosource.MapAddress(environment.VIC20, 0x9800), iosource.IO2)
	test.ExpectEquality(t, iosource.MapAddress(environment.VIC20, 0x9c00), iosource.IO3)
	test.ExpectEquality(t, iosource.MapAddress(environment.VIC20, 0xde00), iosource.Undefined)
	test.ExpectEquality(t, iosource.IO3.String(), "IO3")
}

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

package cs8900io_test

import (
	"io"
	"testing"

	"github.com/jetsetilly/c64io/curated"
	"github.com/jetsetilly/c64io/hardware/ethernet/cs8900io"
	"github.com/jetsetilly/c64io/hardware/memory/iosource"
	"github.com/jetsetilly/c64io/test"
)

type nullDevice struct{}

func (nullDevice) Name() string                    { return "null" }
func (nullDevice) Range() (uint16, uint16, uint16) { return 0xde00, 0xde0f, 0x0f }
func (nullDevice) Read(uint16) (uint8, bool)       { return 0, false }
func (nullDevice) Peek(uint16) uint8               { return 0 }
func (nullDevice) Store(uint16, uint8)             {}
func (nullDevice) Dump(io.Writer)                  {}
func (nullDevice) Reset()                          {}

func TestSlot(t *testing.T) {
	cio, _ := newIO(t, "null")
	test.DemandSuccess(t, cio.Init())

	reg := iosource.NewRegistry()
	exp := &iosource.Exports{}

	a := cs8900io.NewSlot(cio, reg, exp, iosource.Export{Name: "a"})
	b := cs8900io.NewSlot(cio, reg, exp, iosource.Export{Name: "b"})

	test.DemandSuccess(t, a.Attach(nullDevice{}))
	test.ExpectSuccess(t, a.Attached())
	test.ExpectEquality(t, reg.Len(), 1)
	test.ExpectEquality(t, cio.Owner(), "a")

	// the chip is already owned
	err := b.Attach(nullDevice{})
	test.ExpectSuccess(t, curated.Is(err, cs8900io.OwnerConflict))
	test.ExpectFailure(t, b.Attached())
	test.ExpectEquality(t, reg.Len(), 1)

	a.Rebind(nullDevice{})
	test.ExpectEquality(t, reg.Len(), 1)

	test.DemandSuccess(t, a.Detach())
	test.ExpectSuccess(t, a.Detach())
	test.ExpectEquality(t, reg.Len(), 0)
	test.ExpectEquality(t, len(exp.List()), 0)
	test.ExpectFailure(t, cio.Enabled())

	// an export conflict releases the chip
	test.DemandSuccess(t, exp.Add(iosource.Export{Name: "b"}))
	err = b.Attach(nullDevice{})
	test.ExpectSuccess(t, curated.Is(err, iosource.ExportConflict))
	test.ExpectFailure(t, cio.Enabled())
}

func TestRRNetAddress(t *testing.T) {
	_, ok := cs8900io.RRNetAddress(0x00)
	test.ExpectFailure(t, ok)
	_, ok = cs8900io.RRNetAddress(0x11)
	test.ExpectFailure(t, ok)

	a, ok := cs8900io.RRNetAddress(0x02)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, a, 0x0a)

	a, _ = cs8900io.RRNetAddress(0x0c)
	test.ExpectEquality(t, a, 0x04)

	a, _ = cs8900io.RRNetAddress(0xde08)
	test.ExpectEquality(t, a, 0x00)
}

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

package rrnetmk3_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/c64io/curated"
	"github.com/jetsetilly/c64io/environment"
	"github.com/jetsetilly/c64io/hardware/ethernet/cs8900io"
	"github.com/jetsetilly/c64io/hardware/ethernet/rawnet"
	"github.com/jetsetilly/c64io/hardware/memory/cartridge/rrnetmk3"
	"github.com/jetsetilly/c64io/hardware/memory/iosource"
	"github.com/jetsetilly/c64io/snapshot"
	"github.com/jetsetilly/c64io/test"
)

type machine struct {
	env      *environment.Environment
	cio      *cs8900io.IO
	registry *iosource.Registry
	exports  *iosource.Exports
	cart     *rrnetmk3.Cartridge
}

func newMachine(t *testing.T) *machine {
	t.Helper()
	env, err := environment.NewEnvironment(environment.C64, environment.PAL, nil)
	test.DemandSuccess(t, err)

	mc := &machine{
		env:      env,
		cio:      cs8900io.New(env, rawnet.NewBridge(nil)),
		registry: iosource.NewRegistry(),
		exports:  &iosource.Exports{},
	}
	test.DemandSuccess(t, mc.cio.Init())
	mc.cart = rrnetmk3.New(env, mc.cio, mc.registry, mc.exports)
	return mc
}

func bios() []byte {
	b := make([]byte, rrnetmk3.BIOSSize)
	for i := range b {
		b[i] = uint8(i)
	}
	return b
}

func TestAttach(t *testing.T) {
	mc := newMachine(t)

	err := mc.cart.Attach("", make([]byte, 100))
	test.ExpectSuccess(t, curated.Is(err, rrnetmk3.InvalidBIOS))
	test.ExpectFailure(t, mc.cart.Enabled())

	test.DemandSuccess(t, mc.cart.Attach("", bios()))
	test.ExpectSuccess(t, mc.cart.Enabled())
	test.ExpectEquality(t, mc.cio.Owner(), "rrnetmk3")

	// the cartridge claims EXROM
	err = mc.exports.Add(iosource.Export{Name: "other", ExROM: true})
	test.ExpectSuccess(t, curated.Is(err, iosource.ExportConflict))

	test.DemandSuccess(t, mc.cart.Detach())
	test.ExpectFailure(t, mc.cart.Enabled())
	test.ExpectEquality(t, mc.registry.Len(), 0)
}

func TestChip(t *testing.T) {
	mc := newMachine(t)
	test.DemandSuccess(t, mc.cart.Attach("", bios()))

	_, ok := mc.registry.Read(0xde00)
	test.ExpectFailure(t, ok)
	_, ok = mc.registry.Read(0xde01)
	test.ExpectFailure(t, ok)

	// PacketPage pointer is at $de02 and data at $de04
	mc.registry.Store(0xde02, 0x00)
	mc.registry.Store(0xde03, 0x00)
	v, ok := mc.registry.Read(0xde04)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, 0x0e)

	// nothing else in IO1 can be read
	_, ok = mc.registry.Read(0xde80)
	test.ExpectFailure(t, ok)
}

func TestBIOSSwitch(t *testing.T) {
	mc := newMachine(t)
	test.DemandSuccess(t, mc.cart.Attach("", bios()))

	v, ok := mc.cart.ReadROML(0x8010)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, 0x10)

	mc.registry.Store(0xde80, 0x00)
	test.ExpectFailure(t, mc.cart.BIOSEnabled())
	_, ok = mc.cart.ReadROML(0x8010)
	test.ExpectFailure(t, ok)

	mc.registry.Store(0xde88, 0x00)
	test.ExpectSuccess(t, mc.cart.BIOSEnabled())

	mc.registry.Store(0xde80, 0x00)
	mc.cart.Reset()
	test.ExpectSuccess(t, mc.cart.BIOSEnabled())
}

func TestFlash(t *testing.T) {
	mc := newMachine(t)
	pth := filepath.Join(t.TempDir(), "bios.bin")
	test.DemandSuccess(t, mc.cart.Attach(pth, bios()))

	// writes are ignored without the flash jumper
	mc.cart.StoreROML(0x8000, 0xaa)
	v, _ := mc.cart.ReadROML(0x8000)
	test.ExpectEquality(t, v, 0x00)
	test.ExpectFailure(t, mc.cart.BIOSChanged())

	test.DemandSuccess(t, mc.env.Prefs.RRNetMK3.FlashJumper.Set(true))
	mc.cart.StoreROML(0x8000, 0xaa)
	v, _ = mc.cart.ReadROML(0x8000)
	test.ExpectEquality(t, v, 0xaa)
	test.ExpectSuccess(t, mc.cart.BIOSChanged())

	// a changed BIOS is saved on detach when BIOSWrite is set
	test.DemandSuccess(t, mc.env.Prefs.RRNetMK3.BIOSWrite.Set(true))
	test.DemandSuccess(t, mc.cart.Detach())

	d, err := os.ReadFile(pth)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(d), rrnetmk3.BIOSSize)
	test.ExpectEquality(t, d[0], 0xaa)
	test.ExpectEquality(t, d[1], 0x01)
}

func TestSaveBIOS(t *testing.T) {
	mc := newMachine(t)

	err := mc.cart.SaveBIOS("")
	test.ExpectSuccess(t, curated.Is(err, rrnetmk3.NotAttached))

	test.DemandSuccess(t, mc.cart.Attach("", bios()))
	err = mc.cart.SaveBIOS("")
	test.ExpectSuccess(t, curated.Is(err, rrnetmk3.NoBIOSFile))

	test.DemandSuccess(t, mc.env.Prefs.RRNetMK3.FlashJumper.Set(true))
	mc.cart.StoreROML(0x9fff, 0x00)
	test.ExpectSuccess(t, mc.cart.BIOSChanged())

	pth := filepath.Join(t.TempDir(), "saved.bin")
	test.DemandSuccess(t, mc.cart.SaveBIOS(pth))
	test.ExpectFailure(t, mc.cart.BIOSChanged())
}

func TestSnapshot(t *testing.T) {
	mc := newMachine(t)
	test.DemandSuccess(t, mc.cart.Attach("", bios()))
	mc.registry.Store(0xde80, 0x00)

	s := snapshot.New("C64")
	err := mc.cart.WriteSnapshot(s)
	test.ExpectSuccess(t, curated.Is(err, snapshot.ModuleNotImplemented))
	test.ExpectEquality(t, s.Modules()[0], "CARTRRNETMK3")

	mc = newMachine(t)
	b := make([]byte, rrnetmk3.BIOSSize)
	test.DemandSuccess(t, mc.cart.Attach("", b))
	err = mc.cart.ReadSnapshot(s)
	test.ExpectSuccess(t, curated.Is(err, snapshot.ModuleNotImplemented))
	test.ExpectFailure(t, mc.cart.BIOSEnabled())

	mc.registry.Store(0xde88, 0x00)
	v, _ := mc.cart.ReadROML(0x80ff)
	test.ExpectEquality(t, v, 0xff)
}

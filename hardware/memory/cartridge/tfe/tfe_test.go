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

package tfe_test

import (
	"testing"

	"github.com/jetsetilly/c64io/curated"
	"github.com/jetsetilly/c64io/environment"
	"github.com/jetsetilly/c64io/hardware/ethernet/cs8900io"
	"github.com/jetsetilly/c64io/hardware/ethernet/rawnet"
	"github.com/jetsetilly/c64io/hardware/memory/cartridge/tfe"
	"github.com/jetsetilly/c64io/hardware/memory/iosource"
	"github.com/jetsetilly/c64io/snapshot"
	"github.com/jetsetilly/c64io/test"
)

type hosts struct {
	mmc64          bool
	mmc64Clockport uint16
	retroReplay    bool
	mmcReplay      bool
}

func (h *hosts) MMC64() (bool, uint16, bool) {
	return h.mmc64, h.mmc64Clockport, h.mmc64
}

func (h *hosts) RetroReplay() (bool, bool) {
	return h.retroReplay, h.retroReplay
}

func (h *hosts) MMCReplay() (bool, bool) {
	return h.mmcReplay, h.mmcReplay
}

type machine struct {
	env      *environment.Environment
	cio      *cs8900io.IO
	registry *iosource.Registry
	hosts    *hosts
	cart     *tfe.Cartridge
}

func newMachine(t *testing.T, m environment.Machine) *machine {
	t.Helper()
	env, err := environment.NewEnvironment(m, environment.PAL, nil)
	test.DemandSuccess(t, err)

	mc := &machine{
		env:      env,
		cio:      cs8900io.New(env, rawnet.NewBridge(nil)),
		registry: iosource.NewRegistry(),
		hosts:    &hosts{},
	}
	test.DemandSuccess(t, mc.cio.Init())
	mc.cart = tfe.New(env, mc.cio, mc.registry, &iosource.Exports{}, mc.hosts)
	return mc
}

// reads the low byte of the product ID through the registry
func productID(mc *machine, base uint16, rr bool) uint8 {
	ptr := uint16(0x0a)
	data := uint16(0x0c)
	if rr {
		ptr ^= 0x08
		data ^= 0x08
	}
	mc.registry.Store(base+ptr, 0x00)
	mc.registry.Store(base+ptr+1, 0x00)
	v, _ := mc.registry.Read(base + data)
	return v
}

func expectRange(t *testing.T, cart *tfe.Cartridge, start uint16, end uint16) {
	t.Helper()
	s, e, m := cart.Range()
	test.ExpectEquality(t, s, start)
	test.ExpectEquality(t, e, end)
	test.ExpectEquality(t, m, 0x0f)
}

func TestTFE(t *testing.T) {
	mc := newMachine(t, environment.C64)
	test.ExpectFailure(t, mc.cart.Enabled())

	test.DemandSuccess(t, mc.env.Prefs.Ethernet.Active.Set(true))
	test.ExpectSuccess(t, mc.cart.Enabled())
	test.ExpectEquality(t, mc.cio.Owner(), "tfe")
	expectRange(t, mc.cart, 0xde00, 0xdeff)

	test.ExpectEquality(t, productID(mc, 0xde00, false), 0x0e)

	// the registers are mirrored throughout IO1
	test.ExpectEquality(t, productID(mc, 0xdef0, false), 0x0e)

	// every register belongs to the chip in TFE mode
	_, ok := mc.registry.Read(0xde00)
	test.ExpectSuccess(t, ok)

	test.DemandSuccess(t, mc.env.Prefs.Ethernet.Active.Set(false))
	test.ExpectFailure(t, mc.cart.Enabled())
	test.ExpectEquality(t, mc.registry.Len(), 0)
}

func TestRRNet(t *testing.T) {
	mc := newMachine(t, environment.C64)
	test.DemandSuccess(t, mc.cart.SetEnabled(true))

	test.DemandSuccess(t, mc.env.Prefs.Ethernet.AsRR.Set(true))
	test.ExpectSuccess(t, mc.cart.RRNet())
	test.ExpectEquality(t, mc.cart.Name(), "RRNET")
	expectRange(t, mc.cart, 0xde00, 0xde0f)
	test.ExpectEquality(t, mc.registry.Len(), 1)

	_, ok := mc.registry.Read(0xde01)
	test.ExpectFailure(t, ok)
	test.ExpectEquality(t, productID(mc, 0xde00, true), 0x0e)

	// the register layout of the RR-Net differs from the TFE
	test.ExpectInequality(t, productID(mc, 0xde00, false), 0x0e)
}

func TestClockportPrecedence(t *testing.T) {
	mc := newMachine(t, environment.C64)
	test.DemandSuccess(t, mc.cart.SetRRNet(true))
	test.DemandSuccess(t, mc.cart.SetEnabled(true))

	mc.hosts.mmc64 = true
	mc.hosts.mmc64Clockport = 0xde02
	mc.cart.ClockportChanged()
	test.ExpectEquality(t, mc.cart.Name(), "RRNET on MMC64 clockport")
	expectRange(t, mc.cart, 0xde02, 0xde0f)

	mc.hosts.mmc64Clockport = 0xdf12
	mc.cart.ClockportChanged()
	expectRange(t, mc.cart, 0xdf22, 0xdf2f)
	test.ExpectEquality(t, productID(mc, 0xdf20, true), 0x0e)

	mc.hosts.retroReplay = true
	mc.cart.ClockportChanged()
	test.ExpectEquality(t, mc.cart.Name(), "RRNET on Retro Replay clockport")

	mc.hosts.mmcReplay = true
	mc.cart.ClockportChanged()
	test.ExpectEquality(t, mc.cart.Name(), "RRNET on MMC Replay clockport")

	// clockports have no effect on the TFE
	test.DemandSuccess(t, mc.cart.SetRRNet(false))
	test.ExpectEquality(t, mc.cart.Name(), "TFE")
	test.ExpectEquality(t, mc.registry.Len(), 1)
}

func TestVIC20(t *testing.T) {
	mc := newMachine(t, environment.VIC20)
	test.DemandSuccess(t, mc.cart.SetEnabled(true))
	expectRange(t, mc.cart, 0x9800, 0x9bff)
	test.ExpectEquality(t, productID(mc, 0x9800, false), 0x0e)

	test.DemandSuccess(t, mc.env.Prefs.Ethernet.IOSwap.Set(true))
	test.ExpectSuccess(t, mc.cart.IOSwap())
	test.ExpectSuccess(t, mc.cart.Enabled())
	expectRange(t, mc.cart, 0x9c00, 0x9fff)
	test.ExpectEquality(t, productID(mc, 0x9c00, false), 0x0e)
	test.ExpectEquality(t, mc.registry.Len(), 1)
}

func TestInterface(t *testing.T) {
	mc := newMachine(t, environment.C64)
	test.DemandSuccess(t, mc.cart.SetEnabled(true))
	test.DemandSuccess(t, mc.cart.SetInterface("loopback"))
	test.ExpectEquality(t, mc.cio.Interface(), "loopback")
	test.ExpectFailure(t, mc.cio.CannotUse())
}

func TestSnapshot(t *testing.T) {
	mc := newMachine(t, environment.C64)
	test.DemandSuccess(t, mc.cart.SetRRNet(true))

	s := snapshot.New("C64")
	err := mc.cart.WriteSnapshot(s)
	test.ExpectSuccess(t, curated.Is(err, snapshot.ModuleNotImplemented))

	mc = newMachine(t, environment.C64)
	err = mc.cart.ReadSnapshot(s)
	test.ExpectSuccess(t, curated.Is(err, snapshot.ModuleNotImplemented))
	test.ExpectSuccess(t, mc.cart.RRNet())
	test.ExpectFailure(t, mc.cart.IOSwap())
}

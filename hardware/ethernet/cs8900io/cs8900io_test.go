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
	"strings"
	"testing"

	"github.com/jetsetilly/c64io/curated"
	"github.com/jetsetilly/c64io/environment"
	"github.com/jetsetilly/c64io/hardware/ethernet/cs8900"
	"github.com/jetsetilly/c64io/hardware/ethernet/cs8900io"
	"github.com/jetsetilly/c64io/hardware/ethernet/rawnet"
	"github.com/jetsetilly/c64io/test"
)

func newIO(t *testing.T, iface string) (*cs8900io.IO, *environment.Environment) {
	t.Helper()
	env, err := environment.NewEnvironment(environment.C64, environment.PAL, nil)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, env.Prefs.Ethernet.Interface.Set(iface))
	return cs8900io.New(env, rawnet.NewBridge(nil)), env
}

func writePP(cio *cs8900io.IO, addr uint16, v uint16) {
	cio.Store(cs8900.PortPPPtr, uint8(addr))
	cio.Store(cs8900.PortPPPtr+1, uint8(addr>>8))
	cio.Store(cs8900.PortPPData, uint8(v))
	cio.Store(cs8900.PortPPData+1, uint8(v>>8))
}

func readPP(cio *cs8900io.IO, addr uint16) uint16 {
	cio.Store(cs8900.PortPPPtr, uint8(addr))
	cio.Store(cs8900.PortPPPtr+1, uint8(addr>>8))
	return uint16(cio.Read(cs8900.PortPPData)) | uint16(cio.Read(cs8900.PortPPData+1))<<8
}

func TestDeferredActivation(t *testing.T) {
	cio, _ := newIO(t, "null")

	// enabling before initialisation is allowed
	test.DemandSuccess(t, cio.Enable("test"))
	test.ExpectSuccess(t, cio.Enabled())
	test.ExpectFailure(t, cio.Chip().IsActive())
	test.ExpectEquality(t, readPP(cio, cs8900.PPIOBase), 0)

	test.DemandSuccess(t, cio.Init())
	test.ExpectSuccess(t, cio.Chip().IsActive())
	test.ExpectEquality(t, readPP(cio, cs8900.PPIOBase), 0x0300)

	// a second call to Init() does nothing
	test.ExpectSuccess(t, cio.Init())
	test.ExpectSuccess(t, cio.Chip().IsActive())
}

func TestOwnership(t *testing.T) {
	cio, _ := newIO(t, "null")
	test.DemandSuccess(t, cio.Init())

	test.DemandSuccess(t, cio.Enable("tfe"))
	test.ExpectEquality(t, cio.Owner(), "tfe")

	err := cio.Enable("ethernetcart")
	test.ExpectSuccess(t, curated.Is(err, cs8900io.OwnerConflict))
	test.ExpectEquality(t, cio.Owner(), "tfe")

	// enabling again for the same owner is fine
	test.ExpectSuccess(t, cio.Enable("tfe"))

	test.ExpectSuccess(t, cio.Disable())
	test.ExpectSuccess(t, cio.Disable())
	test.ExpectEquality(t, cio.Owner(), "")
	test.ExpectFailure(t, cio.Enabled())
	test.ExpectFailure(t, cio.Chip().IsActive())

	// the chip is not visible when disabled
	test.ExpectEquality(t, readPP(cio, cs8900.PPIOBase), 0)

	test.DemandSuccess(t, cio.Enable("ethernetcart"))
	test.ExpectEquality(t, cio.Owner(), "ethernetcart")
}

func TestCannotUse(t *testing.T) {
	cio, env := newIO(t, "nosuchinterface:x")
	test.DemandSuccess(t, cio.Init())

	err := cio.Enable("tfe")
	test.ExpectSuccess(t, curated.Is(err, cs8900.InterfaceBindFailed))
	test.ExpectSuccess(t, cio.CannotUse())
	test.ExpectFailure(t, cio.Enabled())

	// a further attempt fails without trying the interface again
	err = cio.Enable("tfe")
	test.ExpectSuccess(t, curated.Is(err, cs8900io.CannotUse))

	// changing the preference changes the interface
	test.DemandSuccess(t, env.Prefs.Ethernet.Interface.Set("loopback"))
	test.ExpectEquality(t, cio.Interface(), "loopback")
	test.ExpectFailure(t, cio.CannotUse())
	test.DemandSuccess(t, cio.Enable("tfe"))
	test.ExpectSuccess(t, cio.Chip().IsActive())
}

func TestInterfaceChangeResets(t *testing.T) {
	cio, _ := newIO(t, "null")
	test.DemandSuccess(t, cio.Init())
	test.DemandSuccess(t, cio.Enable("tfe"))

	writePP(cio, cs8900.PPIOBase, 0x0320)
	test.ExpectEquality(t, readPP(cio, cs8900.PPIOBase), 0x0320)

	test.DemandSuccess(t, cio.SetInterface("loopback"))
	test.ExpectSuccess(t, cio.Enabled())
	test.ExpectEquality(t, readPP(cio, cs8900.PPIOBase), 0x0300)
}

func TestLoopbackFrame(t *testing.T) {
	cio, _ := newIO(t, "loopback")
	test.DemandSuccess(t, cio.Init())
	test.DemandSuccess(t, cio.Enable("tfe"))

	// promiscuous with RxOK, transmitter and receiver on
	writePP(cio, cs8900.PPRxCtl, 0x0185)
	writePP(cio, cs8900.PPLineCtl, 0x00d3)

	frame := make([]byte, 64)
	for i := range frame {
		frame[i] = uint8(i + 0x10)
	}

	cio.Store(cs8900.PortTxCmd, 0xc9)
	cio.Store(cs8900.PortTxCmd+1, 0x00)
	cio.Store(cs8900.PortTxLength, uint8(len(frame)))
	cio.Store(cs8900.PortTxLength+1, 0x00)
	test.ExpectEquality(t, readPP(cio, cs8900.PPBusSt)&0x0100, 0x0100)

	for i, b := range frame {
		cio.Store(cs8900.PortRxTxData+uint8(i&1), b)
	}

	test.ExpectEquality(t, readPP(cio, cs8900.PPRxEvent), 0x0104)

	// skip status and length
	for i := 0; i < 4; i++ {
		cio.Read(cs8900.PortRxTxData + uint8(1-i&1))
	}
	for i, b := range frame {
		test.ExpectEquality(t, cio.Read(cs8900.PortRxTxData+uint8(i&1)), b, i)
	}

	w := &strings.Builder{}
	cio.Dump(w)
	test.ExpectSuccess(t, strings.Contains(w.String(), "Receiver: on (idle)"))
}

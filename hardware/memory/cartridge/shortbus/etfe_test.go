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

package shortbus_test

import (
	"testing"

	"github.com/jetsetilly/c64io/curated"
	"github.com/jetsetilly/c64io/environment"
	"github.com/jetsetilly/c64io/hardware/ethernet/cs8900io"
	"github.com/jetsetilly/c64io/hardware/ethernet/rawnet"
	"github.com/jetsetilly/c64io/hardware/memory/cartridge/shortbus"
	"github.com/jetsetilly/c64io/hardware/memory/iosource"
	"github.com/jetsetilly/c64io/snapshot"
	"github.com/jetsetilly/c64io/test"
)

func newETFE(t *testing.T) (*shortbus.ETFE, *iosource.Registry, *environment.Environment) {
	t.Helper()
	env, err := environment.NewEnvironment(environment.C64, environment.PAL, nil)
	test.DemandSuccess(t, err)
	cio := cs8900io.New(env, rawnet.NewBridge(nil))
	test.DemandSuccess(t, cio.Init())
	reg := iosource.NewRegistry()
	return shortbus.NewETFE(env, cio, reg, &iosource.Exports{}), reg, env
}

func TestETFE(t *testing.T) {
	etfe, reg, env := newETFE(t)
	test.ExpectEquality(t, etfe.Base(), 0xde00)
	test.DemandSuccess(t, etfe.Enable())
	test.ExpectSuccess(t, etfe.Enabled())

	for _, base := range []uint16{0xde00, 0xde10, 0xdf00} {
		test.DemandSuccess(t, env.Prefs.Ethernet.ShortbusBase.Set(int(base)))
		test.ExpectEquality(t, etfe.Base(), base)

		// the ETFE has the TFE register layout
		reg.Store(base+0x0a, 0x00)
		reg.Store(base+0x0b, 0x00)
		v, ok := reg.Read(base + 0x0c)
		test.ExpectSuccess(t, ok)
		test.ExpectEquality(t, v, 0x0e)

		// every register belongs to the chip
		_, ok = reg.Read(base)
		test.ExpectSuccess(t, ok)
	}

	err := etfe.SetBase(0xde20)
	test.ExpectSuccess(t, curated.Is(err, shortbus.InvalidBase))
	test.ExpectEquality(t, etfe.Base(), 0xdf00)

	test.DemandSuccess(t, etfe.Disable())
	test.ExpectEquality(t, reg.Len(), 0)
}

func TestSnapshot(t *testing.T) {
	etfe, _, _ := newETFE(t)
	test.DemandSuccess(t, etfe.SetBase(0xde10))

	s := snapshot.New("C64")
	err := etfe.WriteSnapshot(s)
	test.ExpectSuccess(t, curated.Is(err, snapshot.ModuleNotImplemented))

	etfe, _, _ = newETFE(t)
	err = etfe.ReadSnapshot(s)
	test.ExpectSuccess(t, curated.Is(err, snapshot.ModuleNotImplemented))
	test.ExpectEquality(t, etfe.Base(), 0xde10)
}

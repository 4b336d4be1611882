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

// Package tfe implements The Final Ethernet cartridge and the RR-Net
// clockport module. Both contain the CS8900A. The RR-Net can be plugged into
// the clockport of a number of host cartridges, which changes where in the
// I/O area the chip appears.
package tfe

import (
	"fmt"
	"io"

	"github.com/jetsetilly/c64io/environment"
	"github.com/jetsetilly/c64io/hardware/ethernet/cs8900io"
	"github.com/jetsetilly/c64io/hardware/memory/iosource"
	"github.com/jetsetilly/c64io/logger"
	"github.com/jetsetilly/c64io/prefs"
	"github.com/jetsetilly/c64io/snapshot"
)

const (
	owner     = "tfe"
	mappingID = "CARTTFE"
	snapMajor = 0
	snapMinor = 0
)

// ClockportHosts reports the state of the cartridges that have a clockport
// that the RR-Net can be plugged into.
type ClockportHosts interface {
	// clockport is the address of the MMC64 clockport. either $de02 or $df12
	MMC64() (enabled bool, clockport uint16, clockportEnabled bool)
	RetroReplay() (enabled bool, clockportEnabled bool)
	MMCReplay() (enabled bool, clockportEnabled bool)
}

// where in the I/O area the chip appears
type binding struct {
	name  string
	start uint16
	end   uint16
	mask  uint16
}

var (
	tfeIO1         = binding{name: "TFE", start: 0xde00, end: 0xdeff, mask: 0x0f}
	rrnetIO1       = binding{name: "RRNET", start: 0xde00, end: 0xde0f, mask: 0x0f}
	rrnetMMC64IO1  = binding{name: "RRNET on MMC64 clockport", start: 0xde02, end: 0xde0f, mask: 0x0f}
	rrnetMMC64IO2  = binding{name: "RRNET on MMC64 clockport", start: 0xdf22, end: 0xdf2f, mask: 0x0f}
	rrnetRetro     = binding{name: "RRNET on Retro Replay clockport", start: 0xde02, end: 0xde0f, mask: 0x0f}
	rrnetMMCReplay = binding{name: "RRNET on MMC Replay clockport", start: 0xde02, end: 0xde0f, mask: 0x0f}
)

// Cartridge is The Final Ethernet, or an RR-Net.
type Cartridge struct {
	env   *environment.Environment
	slot  *cs8900io.Slot
	hosts ClockportHosts

	current binding
	asRR    bool
	ioSwap  bool
}

// New is the preferred method of initialisation for the Cartridge type. The
// hosts argument can be nil if the machine has no clockport cartridges.
//
// The cartridge is bound to the Ethernet preferences. Setting the Active
// preference enables the cartridge.
func New(env *environment.Environment, cio *cs8900io.IO, registry *iosource.Registry, exports *iosource.Exports, hosts ClockportHosts) *Cartridge {
	cart := &Cartridge{
		env:    env,
		slot:   cs8900io.NewSlot(cio, registry, exports, iosource.Export{Name: owner}),
		hosts:  hosts,
		asRR:   env.Prefs.Ethernet.AsRR.Bool(),
		ioSwap: env.Prefs.Ethernet.IOSwap.Bool(),
	}
	cart.selectBinding()

	env.Prefs.Ethernet.Active.SetHookPre(func(v prefs.Value) error {
		return cart.SetEnabled(v.(bool))
	})
	env.Prefs.Ethernet.AsRR.SetHookPre(func(v prefs.Value) error {
		return cart.SetRRNet(v.(bool))
	})
	env.Prefs.Ethernet.IOSwap.SetHookPre(func(v prefs.Value) error {
		return cart.SetIOSwap(v.(bool))
	})

	return cart
}

// MappingID returns the identifier used for the cartridge in snapshots.
func (cart *Cartridge) MappingID() string {
	return mappingID
}

// the last matching clockport takes precedence
func (cart *Cartridge) selectBinding() {
	if !cart.asRR {
		cart.current = tfeIO1
		return
	}

	cart.current = rrnetIO1
	if cart.hosts == nil {
		return
	}

	if enabled, clockport, cpEnabled := cart.hosts.MMC64(); enabled && cpEnabled {
		switch clockport {
		case 0xde02:
			cart.current = rrnetMMC64IO1
		case 0xdf12:
			cart.current = rrnetMMC64IO2
		}
	}
	if enabled, cpEnabled := cart.hosts.RetroReplay(); enabled && cpEnabled {
		cart.current = rrnetRetro
	}
	if enabled, cpEnabled := cart.hosts.MMCReplay(); enabled && cpEnabled {
		cart.current = rrnetMMCReplay
	}
}

// ClockportChanged should be called whenever the clockport of a host
// cartridge is enabled or disabled. If the cartridge is enabled the chip is
// moved to the new location and reset.
func (cart *Cartridge) ClockportChanged() {
	cart.selectBinding()
	cart.slot.Rebind(cart)
	logger.Logf(cart.env, owner, "using %s", cart.current.name)
}

// SetEnabled enables or disables the cartridge.
func (cart *Cartridge) SetEnabled(enable bool) error {
	if enable {
		return cart.slot.Attach(cart)
	}
	return cart.slot.Detach()
}

// Enabled returns true if the cartridge is enabled.
func (cart *Cartridge) Enabled() bool {
	return cart.slot.Attached()
}

// SetRRNet selects between TFE and RR-Net.
func (cart *Cartridge) SetRRNet(rr bool) error {
	if rr == cart.asRR {
		return nil
	}
	cart.asRR = rr
	cart.ClockportChanged()
	return nil
}

// RRNet returns true if the cartridge is an RR-Net.
func (cart *Cartridge) RRNet() bool {
	return cart.asRR
}

// SetIOSwap swaps the I/O areas used on the VIC-20. An enabled cartridge is
// disabled and enabled again around the change.
func (cart *Cartridge) SetIOSwap(swap bool) error {
	if swap == cart.ioSwap {
		return nil
	}

	if !cart.Enabled() {
		cart.ioSwap = swap
		return nil
	}

	if err := cart.slot.Detach(); err != nil {
		return err
	}
	cart.ioSwap = swap
	return cart.slot.Attach(cart)
}

// IOSwap returns true if the VIC-20 I/O areas are swapped.
func (cart *Cartridge) IOSwap() bool {
	return cart.ioSwap
}

// SetInterface changes the host interface used by the chip.
func (cart *Cartridge) SetInterface(name string) error {
	return cart.slot.IO().SetInterface(name)
}

// chip address for the offset. the boolean is false if the offset is not
// passed to the chip
func (cart *Cartridge) chipAddress(addr uint16) (uint8, bool) {
	if cart.asRR {
		return cs8900io.RRNetAddress(addr)
	}
	return uint8(addr & 0x0f), true
}

// Name implements the iosource.Device interface.
func (cart *Cartridge) Name() string {
	return cart.current.name
}

// Range implements the iosource.Device interface.
func (cart *Cartridge) Range() (uint16, uint16, uint16) {
	if cart.env.Machine == environment.VIC20 {
		if cart.ioSwap {
			return iosource.OriginVIC20IO3, iosource.MemtopVIC20IO3, cart.current.mask
		}
		return iosource.OriginVIC20IO2, iosource.MemtopVIC20IO2, cart.current.mask
	}
	return cart.current.start, cart.current.end, cart.current.mask
}

// Read implements the iosource.Device interface.
func (cart *Cartridge) Read(addr uint16) (uint8, bool) {
	a, ok := cart.chipAddress(addr)
	if !ok {
		return 0, false
	}
	return cart.slot.IO().Read(a), true
}

// Peek implements the iosource.Device interface.
func (cart *Cartridge) Peek(addr uint16) uint8 {
	a, ok := cart.chipAddress(addr)
	if !ok {
		return 0
	}
	return cart.slot.IO().Peek(a)
}

// Store implements the iosource.Device interface.
func (cart *Cartridge) Store(addr uint16, data uint8) {
	a, ok := cart.chipAddress(addr)
	if !ok {
		return
	}
	cart.slot.IO().Store(a, data)
}

// Dump implements the iosource.Device interface.
func (cart *Cartridge) Dump(w io.Writer) {
	start, end, _ := cart.Range()
	fmt.Fprintf(w, "%s at $%04x-$%04x\n", cart.current.name, start, end)
	cart.slot.IO().Dump(w)
}

// Reset implements the iosource.Device interface.
func (cart *Cartridge) Reset() {
	cart.slot.IO().Reset()
}

// WriteSnapshot adds the cartridge to the snapshot. The chip state can not
// be saved yet so the function always returns an error.
func (cart *Cartridge) WriteSnapshot(s *snapshot.Snapshot) error {
	m := s.CreateModule(mappingID, snapMajor, snapMinor)
	if err := m.WriteBool(cart.asRR); err != nil {
		return err
	}
	if err := m.WriteBool(cart.ioSwap); err != nil {
		return err
	}
	return cart.slot.IO().WriteSnapshot(s)
}

// ReadSnapshot restores the cartridge from the snapshot. The chip state can
// not be restored yet so the function always returns an error.
func (cart *Cartridge) ReadSnapshot(s *snapshot.Snapshot) error {
	m, err := s.OpenModule(mappingID, snapMajor, snapMinor)
	if err != nil {
		return err
	}
	rr, err := m.ReadBool()
	if err != nil {
		return err
	}
	swap, err := m.ReadBool()
	if err != nil {
		return err
	}
	if err := cart.SetIOSwap(swap); err != nil {
		return err
	}
	if err := cart.SetRRNet(rr); err != nil {
		return err
	}
	return cart.slot.IO().ReadSnapshot(s)
}

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

// Package ethernetcart implements the generic ethernet cartridge. The
// cartridge places the CS8900A at a selectable base address in the I/O area
// and can present the chip either as a TFE or as an RR-Net.
package ethernetcart

import (
	"fmt"
	"io"

	"github.com/jetsetilly/c64io/curated"
	"github.com/jetsetilly/c64io/environment"
	"github.com/jetsetilly/c64io/hardware/ethernet/cs8900io"
	"github.com/jetsetilly/c64io/hardware/memory/iosource"
	"github.com/jetsetilly/c64io/logger"
	"github.com/jetsetilly/c64io/prefs"
	"github.com/jetsetilly/c64io/snapshot"
)

// Sentinal error patterns.
const (
	InvalidBase = "ethernetcart: invalid base address ($%04x)"
	InvalidMode = "ethernetcart: invalid mode (%d)"
)

// Mode selects how the chip registers are presented.
type Mode int

// List of valid Mode values.
const (
	TFE Mode = iota
	RRNet
)

func (m Mode) String() string {
	switch m {
	case TFE:
		return "TFE"
	case RRNet:
		return "RR-Net"
	}
	return "unknown mode"
}

const (
	name       = "Ethernet Cartridge"
	mappingID  = "CARTETHERNET"
	logTag     = "ethernetcart"
	snapMajor  = 0
	snapMinor  = 0
	deviceSize = 0x10
)

// ValidBase returns true if the base address is allowed for the machine.
// Any 16 byte aligned address in the I/O area is allowed.
func ValidBase(machine environment.Machine, base uint16) bool {
	if base&(deviceSize-1) != 0 {
		return false
	}
	switch machine {
	case environment.VIC20:
		return base >= iosource.OriginVIC20IO2 && base <= iosource.MemtopVIC20IO3-deviceSize+1
	}
	return base >= iosource.OriginC64IO1 && base <= iosource.MemtopC64IO2-deviceSize+1
}

// Cartridge is the generic ethernet cartridge.
type Cartridge struct {
	env  *environment.Environment
	slot *cs8900io.Slot

	base uint16
	mode Mode
}

// New is the preferred method of initialisation for the Cartridge type. The
// base address and mode are taken from the preferences, which are then
// bound to the cartridge.
func New(env *environment.Environment, cio *cs8900io.IO, registry *iosource.Registry, exports *iosource.Exports) *Cartridge {
	cart := &Cartridge{
		env:  env,
		slot: cs8900io.NewSlot(cio, registry, exports, iosource.Export{Name: logTag}),
		mode: Mode(env.Prefs.Ethernet.CartMode.Int()),
	}

	cart.base = uint16(env.Prefs.Ethernet.CartBase.Int())
	if !ValidBase(env.Machine, cart.base) {
		cart.base = cart.defaultBase()
	}

	env.Prefs.Ethernet.CartBase.SetHookPre(func(v prefs.Value) error {
		return cart.SetBase(uint16(v.(int)))
	})
	env.Prefs.Ethernet.CartMode.SetHookPre(func(v prefs.Value) error {
		return cart.SetMode(Mode(v.(int)))
	})

	return cart
}

func (cart *Cartridge) defaultBase() uint16 {
	if cart.env.Machine == environment.VIC20 {
		return iosource.OriginVIC20IO2
	}
	return iosource.OriginC64IO1
}

// MappingID returns the identifier used for the cartridge in snapshots.
func (cart *Cartridge) MappingID() string {
	return mappingID
}

// SetBase changes the base address of the cartridge. An invalid address
// leaves the current base address unchanged.
func (cart *Cartridge) SetBase(base uint16) error {
	if !ValidBase(cart.env.Machine, base) {
		return curated.Errorf(InvalidBase, base)
	}
	if base == cart.base {
		return nil
	}
	cart.base = base
	cart.slot.Rebind(cart)
	logger.Logf(cart.env, logTag, "base address is now $%04x", base)
	return nil
}

// Base returns the current base address.
func (cart *Cartridge) Base() uint16 {
	return cart.base
}

// SetMode changes how the chip is presented.
func (cart *Cartridge) SetMode(mode Mode) error {
	if mode != TFE && mode != RRNet {
		return curated.Errorf(InvalidMode, int(mode))
	}
	cart.mode = mode
	return nil
}

// Mode returns the current mode.
func (cart *Cartridge) Mode() Mode {
	return cart.mode
}

// Enable the cartridge.
func (cart *Cartridge) Enable() error {
	return cart.slot.Attach(cart)
}

// Disable the cartridge.
func (cart *Cartridge) Disable() error {
	return cart.slot.Detach()
}

// Enabled returns true if the cartridge is enabled.
func (cart *Cartridge) Enabled() bool {
	return cart.slot.Attached()
}

// chip address for the offset. the boolean is false if the offset is not
// passed to the chip
func (cart *Cartridge) chipAddress(addr uint16) (uint8, bool) {
	if cart.mode == RRNet {
		return cs8900io.RRNetAddress(addr)
	}
	return uint8(addr & 0x0f), true
}

// Name implements the iosource.Device interface.
func (cart *Cartridge) Name() string {
	return name
}

// Range implements the iosource.Device interface.
func (cart *Cartridge) Range() (uint16, uint16, uint16) {
	return cart.base, cart.base + deviceSize - 1, deviceSize - 1
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
	fmt.Fprintf(w, "%s at $%04x (%s mode)\n", name, cart.base, cart.mode)
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
	if err := m.WriteWord(cart.base); err != nil {
		return err
	}
	if err := m.WriteByte(uint8(cart.mode)); err != nil {
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
	base, err := m.ReadWord()
	if err != nil {
		return err
	}
	mode, err := m.ReadByte()
	if err != nil {
		return err
	}
	if err := cart.SetBase(base); err != nil {
		return err
	}
	if err := cart.SetMode(Mode(mode)); err != nil {
		return err
	}
	return cart.slot.IO().ReadSnapshot(s)
}

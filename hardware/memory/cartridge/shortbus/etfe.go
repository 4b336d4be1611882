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

// Package shortbus implements the ETFE, the ethernet expansion that plugs
// into the shortbus of the IDE64 cartridge.
package shortbus

import (
	"fmt"
	"io"

	"github.com/jetsetilly/c64io/curated"
	"github.com/jetsetilly/c64io/environment"
	"github.com/jetsetilly/c64io/hardware/ethernet/cs8900io"
	"github.com/jetsetilly/c64io/hardware/memory/iosource"
	"github.com/jetsetilly/c64io/prefs"
	"github.com/jetsetilly/c64io/snapshot"
)

// Sentinal error patterns.
const (
	InvalidBase = "shortbus: invalid ETFE base address ($%04x)"
)

const (
	name      = "ETFE"
	owner     = "shortbus_etfe"
	mappingID = "SHORTBUSETFE"
	snapMajor = 0
	snapMinor = 0
)

// the addresses the ETFE can be jumpered to
var bases = []uint16{0xde00, 0xde10, 0xdf00}

// ETFE is the shortbus ethernet expansion.
type ETFE struct {
	env  *environment.Environment
	slot *cs8900io.Slot
	base uint16
}

// NewETFE is the preferred method of initialisation for the ETFE type.
func NewETFE(env *environment.Environment, cio *cs8900io.IO, registry *iosource.Registry, exports *iosource.Exports) *ETFE {
	etfe := &ETFE{
		env:  env,
		slot: cs8900io.NewSlot(cio, registry, exports, iosource.Export{Name: owner}),
		base: bases[0],
	}

	if b := uint16(env.Prefs.Ethernet.ShortbusBase.Int()); validBase(b) {
		etfe.base = b
	}

	env.Prefs.Ethernet.ShortbusBase.SetHookPre(func(v prefs.Value) error {
		return etfe.SetBase(uint16(v.(int)))
	})

	return etfe
}

func validBase(base uint16) bool {
	for _, b := range bases {
		if b == base {
			return true
		}
	}
	return false
}

// MappingID returns the identifier used for the expansion in snapshots.
func (etfe *ETFE) MappingID() string {
	return mappingID
}

// SetBase changes the base address. An invalid address leaves the current
// address unchanged.
func (etfe *ETFE) SetBase(base uint16) error {
	if !validBase(base) {
		return curated.Errorf(InvalidBase, base)
	}
	if base != etfe.base {
		etfe.base = base
		etfe.slot.Rebind(etfe)
	}
	return nil
}

// Base returns the current base address.
func (etfe *ETFE) Base() uint16 {
	return etfe.base
}

// Enable the expansion.
func (etfe *ETFE) Enable() error {
	return etfe.slot.Attach(etfe)
}

// Disable the expansion.
func (etfe *ETFE) Disable() error {
	return etfe.slot.Detach()
}

// Enabled returns true if the expansion is enabled.
func (etfe *ETFE) Enabled() bool {
	return etfe.slot.Attached()
}

// Name implements the iosource.Device interface.
func (etfe *ETFE) Name() string {
	return name
}

// Range implements the iosource.Device interface.
func (etfe *ETFE) Range() (uint16, uint16, uint16) {
	return etfe.base, etfe.base + 0x0f, 0x0f
}

// Read implements the iosource.Device interface.
func (etfe *ETFE) Read(addr uint16) (uint8, bool) {
	return etfe.slot.IO().Read(uint8(addr & 0x0f)), true
}

// Peek implements the iosource.Device interface.
func (etfe *ETFE) Peek(addr uint16) uint8 {
	return etfe.slot.IO().Peek(uint8(addr & 0x0f))
}

// Store implements the iosource.Device interface.
func (etfe *ETFE) Store(addr uint16, data uint8) {
	etfe.slot.IO().Store(uint8(addr&0x0f), data)
}

// Dump implements the iosource.Device interface.
func (etfe *ETFE) Dump(w io.Writer) {
	fmt.Fprintf(w, "%s at $%04x\n", name, etfe.base)
	etfe.slot.IO().Dump(w)
}

// Reset implements the iosource.Device interface.
func (etfe *ETFE) Reset() {
	etfe.slot.IO().Reset()
}

// WriteSnapshot adds the expansion to the snapshot. The chip state can not
// be saved yet so the function always returns an error.
func (etfe *ETFE) WriteSnapshot(s *snapshot.Snapshot) error {
	m := s.CreateModule(mappingID, snapMajor, snapMinor)
	if err := m.WriteWord(etfe.base); err != nil {
		return err
	}
	return etfe.slot.IO().WriteSnapshot(s)
}

// ReadSnapshot restores the expansion from the snapshot. The chip state can
// not be restored yet so the function always returns an error.
func (etfe *ETFE) ReadSnapshot(s *snapshot.Snapshot) error {
	m, err := s.OpenModule(mappingID, snapMajor, snapMinor)
	if err != nil {
		return err
	}
	base, err := m.ReadWord()
	if err != nil {
		return err
	}
	if err := etfe.SetBase(base); err != nil {
		return err
	}
	return etfe.slot.IO().ReadSnapshot(s)
}

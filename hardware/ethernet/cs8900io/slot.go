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

package cs8900io

import (
	"github.com/jetsetilly/c64io/hardware/memory/iosource"
)

// Slot attaches a cartridge device to the I/O area. Attaching enables the
// chip for the cartridge, claims the cartridge's exports and registers the
// device. Detaching reverses the steps.
type Slot struct {
	cio      *IO
	registry *iosource.Registry
	exports  *iosource.Exports
	export   iosource.Export

	entry *iosource.Entry
}

// NewSlot is the preferred method of initialisation for the Slot type. The
// name of the export is used as the owner of the chip.
func NewSlot(cio *IO, registry *iosource.Registry, exports *iosource.Exports, export iosource.Export) *Slot {
	return &Slot{
		cio:      cio,
		registry: registry,
		exports:  exports,
		export:   export,
	}
}

// Attach the device. Attaching an attached slot does nothing.
func (s *Slot) Attach(dev iosource.Device) error {
	if s.entry != nil {
		return nil
	}

	if err := s.cio.Enable(s.export.Name); err != nil {
		return err
	}

	if err := s.exports.Add(s.export); err != nil {
		_ = s.cio.Disable()
		return err
	}

	s.entry = s.registry.Register(dev)

	return nil
}

// Detach the device. Detaching a detached slot does nothing.
func (s *Slot) Detach() error {
	if s.entry == nil {
		return nil
	}

	s.registry.Unregister(s.entry)
	s.exports.Remove(s.export.Name)
	s.entry = nil

	return s.cio.Disable()
}

// Rebind registers the device again so that a change to its address range
// takes effect. The chip is reset. Does nothing if the slot is detached.
func (s *Slot) Rebind(dev iosource.Device) {
	if s.entry == nil {
		return
	}
	s.registry.Unregister(s.entry)
	s.entry = s.registry.Register(dev)
	s.cio.Reset()
}

// Attached returns true if the device is attached.
func (s *Slot) Attached() bool {
	return s.entry != nil
}

// IO returns the chip owner that the slot attaches to.
func (s *Slot) IO() *IO {
	return s.cio
}

// RRNetAddress translates an offset in the I/O area of an RR-Net compatible
// cartridge to a chip address. The first two offsets belong to the
// cartridge and are not passed to the chip, in which case the function
// returns false. Otherwise bit 3 of the offset is inverted.
func RRNetAddress(offset uint16) (uint8, bool) {
	offset &= 0x0f
	if offset < 0x02 {
		return 0, false
	}
	return uint8(offset ^ 0x08), true
}

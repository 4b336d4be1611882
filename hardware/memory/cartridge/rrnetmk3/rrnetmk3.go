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

// Package rrnetmk3 implements the RR-Net MK3 cartridge. The cartridge
// contains the CS8900A, presented in the same way as the RR-Net, and an 8K
// flash BIOS in the ROML area.
//
// The BIOS is switched off by a write to $DE80 and back on by a write to
// $DE88. It can only be written to when the flash jumper is set.
package rrnetmk3

import (
	"fmt"
	"io"
	"os"

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
	InvalidBIOS = "rrnetmk3: BIOS must be %d bytes (%d bytes)"
	NoBIOSFile  = "rrnetmk3: no file to save BIOS to"
	SaveFailed  = "rrnetmk3: cannot save BIOS: %v"
	NotAttached = "rrnetmk3: no BIOS attached"
)

// BIOSSize is the size of the flash BIOS.
const BIOSSize = 0x2000

const (
	name      = "RR-Net MK3"
	owner     = "rrnetmk3"
	mappingID = "CARTRRNETMK3"
	snapMajor = 0
	snapMinor = 0

	// BIOS control registers, as offsets into IO1
	regBIOSOff = 0x80
	regBIOSOn  = 0x88
)

// Cartridge is the RR-Net MK3.
type Cartridge struct {
	env  *environment.Environment
	slot *cs8900io.Slot

	filename    string
	bios        []byte
	biosEnabled bool
	biosChanged bool
	flashJumper bool
}

// New is the preferred method of initialisation for the Cartridge type.
func New(env *environment.Environment, cio *cs8900io.IO, registry *iosource.Registry, exports *iosource.Exports) *Cartridge {
	cart := &Cartridge{
		env:         env,
		slot:        cs8900io.NewSlot(cio, registry, exports, iosource.Export{Name: owner, ExROM: true}),
		biosEnabled: true,
		flashJumper: env.Prefs.RRNetMK3.FlashJumper.Bool(),
	}

	env.Prefs.RRNetMK3.FlashJumper.SetHookPost(func(v prefs.Value) error {
		cart.flashJumper = v.(bool)
		return nil
	})

	return cart
}

// MappingID returns the identifier used for the cartridge in snapshots.
func (cart *Cartridge) MappingID() string {
	return mappingID
}

// Attach the BIOS image and enable the cartridge. The filename is where
// changes to the BIOS are saved. It can be empty.
func (cart *Cartridge) Attach(filename string, bios []byte) error {
	if len(bios) != BIOSSize {
		return curated.Errorf(InvalidBIOS, BIOSSize, len(bios))
	}

	if err := cart.slot.Attach(cart); err != nil {
		return err
	}

	cart.filename = filename
	cart.bios = make([]byte, BIOSSize)
	copy(cart.bios, bios)
	cart.biosChanged = false
	cart.biosEnabled = true

	return nil
}

// Detach the cartridge. A changed BIOS is saved first if the BIOSWrite
// preference is set.
func (cart *Cartridge) Detach() error {
	if !cart.slot.Attached() {
		return nil
	}

	if cart.biosChanged && cart.env.Prefs.RRNetMK3.BIOSWrite.Bool() {
		if err := cart.SaveBIOS(""); err != nil {
			logger.Log(cart.env, owner, err.Error())
		}
	}

	cart.bios = nil
	return cart.slot.Detach()
}

// Enabled returns true if the cartridge is attached.
func (cart *Cartridge) Enabled() bool {
	return cart.slot.Attached()
}

// SaveBIOS writes the BIOS to the named file. If the filename is empty then
// the file the BIOS was attached with is used.
func (cart *Cartridge) SaveBIOS(filename string) error {
	if cart.bios == nil {
		return curated.Errorf(NotAttached)
	}
	if filename == "" {
		filename = cart.filename
	}
	if filename == "" {
		return curated.Errorf(NoBIOSFile)
	}

	if err := os.WriteFile(filename, cart.bios, 0o644); err != nil {
		return curated.Errorf(SaveFailed, err)
	}
	cart.biosChanged = false

	logger.Logf(cart.env, owner, "BIOS saved to %s", filename)
	return nil
}

// BIOSChanged returns true if the BIOS has been written to since it was
// attached or saved.
func (cart *Cartridge) BIOSChanged() bool {
	return cart.biosChanged
}

// BIOSEnabled returns true if the BIOS is visible in ROML.
func (cart *Cartridge) BIOSEnabled() bool {
	return cart.biosEnabled
}

// ReadROML returns the BIOS byte at the address. The boolean is false if the
// BIOS is switched off.
func (cart *Cartridge) ReadROML(addr uint16) (uint8, bool) {
	if !cart.biosEnabled || cart.bios == nil {
		return 0, false
	}
	return cart.bios[addr&(BIOSSize-1)], true
}

// StoreROML writes to the BIOS. The write is ignored unless the flash jumper
// is set and the BIOS is switched on.
func (cart *Cartridge) StoreROML(addr uint16, data uint8) {
	if !cart.flashJumper || !cart.biosEnabled || cart.bios == nil {
		return
	}
	a := addr & (BIOSSize - 1)
	if cart.bios[a] != data {
		cart.bios[a] = data
		cart.biosChanged = true
	}
}

// Name implements the iosource.Device interface.
func (cart *Cartridge) Name() string {
	return name
}

// Range implements the iosource.Device interface.
func (cart *Cartridge) Range() (uint16, uint16, uint16) {
	return iosource.OriginC64IO1, iosource.MemtopC64IO1, 0xff
}

// Read implements the iosource.Device interface. Only the chip can be read.
func (cart *Cartridge) Read(addr uint16) (uint8, bool) {
	if addr > 0x0f {
		return 0, false
	}
	a, ok := cs8900io.RRNetAddress(addr)
	if !ok {
		return 0, false
	}
	return cart.slot.IO().Read(a), true
}

// Peek implements the iosource.Device interface.
func (cart *Cartridge) Peek(addr uint16) uint8 {
	if addr > 0x0f {
		return 0
	}
	a, ok := cs8900io.RRNetAddress(addr)
	if !ok {
		return 0
	}
	return cart.slot.IO().Peek(a)
}

// Store implements the iosource.Device interface.
func (cart *Cartridge) Store(addr uint16, data uint8) {
	switch addr {
	case regBIOSOff:
		cart.biosEnabled = false
		return
	case regBIOSOn:
		cart.biosEnabled = true
		return
	}

	if addr > 0x0f {
		return
	}
	a, ok := cs8900io.RRNetAddress(addr)
	if !ok {
		return
	}
	cart.slot.IO().Store(a, data)
}

// Dump implements the iosource.Device interface.
func (cart *Cartridge) Dump(w io.Writer) {
	fmt.Fprintf(w, "%s: BIOS %s", name, onOff(cart.biosEnabled))
	if cart.flashJumper {
		fmt.Fprint(w, " (flash jumper set)")
	}
	if cart.biosChanged {
		fmt.Fprint(w, " (changed)")
	}
	fmt.Fprintln(w)
	cart.slot.IO().Dump(w)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Reset implements the iosource.Device interface. The BIOS is switched on.
func (cart *Cartridge) Reset() {
	cart.biosEnabled = true
	cart.slot.IO().Reset()
}

// WriteSnapshot adds the cartridge to the snapshot. The chip state can not
// be saved yet so the function always returns an error, after the BIOS state
// has been written.
func (cart *Cartridge) WriteSnapshot(s *snapshot.Snapshot) error {
	if cart.bios == nil {
		return curated.Errorf(NotAttached)
	}

	m := s.CreateModule(mappingID, snapMajor, snapMinor)
	if err := m.WriteBool(cart.biosEnabled); err != nil {
		return err
	}
	if err := m.WriteBool(cart.flashJumper); err != nil {
		return err
	}
	if err := m.WriteBytes(cart.bios); err != nil {
		return err
	}
	return cart.slot.IO().WriteSnapshot(s)
}

// ReadSnapshot restores the BIOS state from the snapshot. The chip state can
// not be restored yet so the function always returns an error.
func (cart *Cartridge) ReadSnapshot(s *snapshot.Snapshot) error {
	m, err := s.OpenModule(mappingID, snapMajor, snapMinor)
	if err != nil {
		return err
	}

	enabled, err := m.ReadBool()
	if err != nil {
		return err
	}
	jumper, err := m.ReadBool()
	if err != nil {
		return err
	}
	bios := make([]byte, BIOSSize)
	if err := m.ReadBytes(bios); err != nil {
		return err
	}

	cart.biosEnabled = enabled
	cart.flashJumper = jumper
	cart.bios = bios

	return cart.slot.IO().ReadSnapshot(s)
}

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

// Package cs8900io attaches the CS8900A to the cartridge port. Only one
// cartridge can own the chip at a time.
//
// A cartridge calls Enable() with its name when it is inserted and Disable()
// when it is removed. Bus accesses are forwarded to the chip only while the
// chip is enabled and usable.
package cs8900io

import (
	"io"

	"github.com/jetsetilly/c64io/curated"
	"github.com/jetsetilly/c64io/environment"
	"github.com/jetsetilly/c64io/hardware/ethernet/cs8900"
	"github.com/jetsetilly/c64io/hardware/ethernet/rawnet"
	"github.com/jetsetilly/c64io/logger"
	"github.com/jetsetilly/c64io/prefs"
	"github.com/jetsetilly/c64io/snapshot"
)

// Sentinal error patterns.
const (
	OwnerConflict = "cs8900io: %s cannot use the chip: already in use by %s"
	CannotUse     = "cs8900io: interface cannot be used (%s)"
)

const logTag = "cs8900io"

// IO is the owner of the CS8900A chip.
type IO struct {
	env  *environment.Environment
	chip *cs8900.CS8900

	initialised bool

	// activation was requested before Init() was called
	shouldActivate bool

	enabled   bool
	cannotUse bool
	owner     string
	iface     string
}

// New is the preferred method of initialisation for the IO type. The
// interface name is taken from the ETHERNET_INTERFACE preference and follows
// any change to it.
func New(env *environment.Environment, host rawnet.Host) *IO {
	cio := &IO{
		env:   env,
		chip:  cs8900.New(env, host),
		iface: env.Prefs.Ethernet.Interface.String(),
	}

	env.Prefs.Ethernet.Interface.SetHookPost(func(v prefs.Value) error {
		return cio.SetInterface(v.(string))
	})

	return cio
}

// Init the chip. Any activation requested before the call to Init() happens
// now.
func (cio *IO) Init() error {
	if cio.initialised {
		return nil
	}

	if err := cio.chip.Init(); err != nil {
		return err
	}
	cio.initialised = true

	if cio.shouldActivate {
		cio.shouldActivate = false
		if err := cio.activate(); err != nil {
			cio.enabled = false
			cio.owner = ""
			return err
		}
	}

	return nil
}

// activate the chip. activation is deferred if Init() has not been called.
func (cio *IO) activate() error {
	if !cio.initialised {
		cio.shouldActivate = true
		return nil
	}

	if cio.cannotUse {
		return curated.Errorf(CannotUse, cio.iface)
	}

	err := cio.chip.Activate(cio.iface)
	if err != nil {
		if curated.Is(err, cs8900.InterfaceBindFailed) {
			cio.cannotUse = true
			logger.Logf(logger.Allow, logTag, "interface %q cannot be used: %v", cio.iface, err)
		}
		return err
	}

	return nil
}

func (cio *IO) deactivate() {
	if !cio.initialised {
		cio.shouldActivate = false
		return
	}
	if err := cio.chip.Deactivate(); err != nil {
		logger.Log(logger.Allow, logTag, err.Error())
	}
}

// Enable the chip for the named owner. It is an error to enable the chip for
// a second owner.
func (cio *IO) Enable(owner string) error {
	if cio.enabled {
		if cio.owner != owner {
			return curated.Errorf(OwnerConflict, owner, cio.owner)
		}
		return nil
	}

	if err := cio.activate(); err != nil {
		return err
	}

	cio.enabled = true
	cio.owner = owner
	logger.Logf(cio.env, logTag, "enabled by %s", owner)

	return nil
}

// Disable the chip. It is safe to disable a chip that is not enabled.
func (cio *IO) Disable() error {
	if !cio.enabled {
		return nil
	}

	cio.deactivate()
	logger.Logf(cio.env, logTag, "disabled by %s", cio.owner)
	cio.enabled = false
	cio.owner = ""

	return nil
}

// Reset the chip if it is enabled.
func (cio *IO) Reset() {
	if cio.usable() {
		cio.chip.Reset()
	}
}

// Shutdown releases the chip and the host interface.
func (cio *IO) Shutdown() {
	cio.chip.Shutdown()
	cio.enabled = false
	cio.owner = ""
	cio.shouldActivate = false
}

// SetInterface changes the host interface. If the chip is enabled then it is
// reactivated on the new interface. Reactivation resets the chip.
func (cio *IO) SetInterface(name string) error {
	if name == cio.iface && !cio.cannotUse {
		return nil
	}

	cio.iface = name
	cio.cannotUse = false

	if !cio.enabled {
		return nil
	}

	cio.deactivate()
	if err := cio.activate(); err != nil {
		return err
	}

	return nil
}

func (cio *IO) usable() bool {
	return cio.enabled && !cio.cannotUse && cio.chip.IsActive()
}

// Read a byte from the chip. Returns zero if the chip can not be used.
func (cio *IO) Read(addr uint8) uint8 {
	if !cio.usable() {
		return 0
	}
	return cio.chip.Read(addr)
}

// Peek a byte from the chip. Returns zero if the chip can not be used.
func (cio *IO) Peek(addr uint8) uint8 {
	if !cio.usable() {
		return 0
	}
	return cio.chip.Peek(addr)
}

// Store a byte in the chip. The byte is dropped if the chip can not be used.
func (cio *IO) Store(addr uint8, data uint8) {
	if !cio.usable() {
		return
	}
	cio.chip.Store(addr, data)
}

// Dump writes the state of the chip to io.Writer.
func (cio *IO) Dump(w io.Writer) {
	if !cio.usable() {
		io.WriteString(w, "CS8900 not enabled\n")
		return
	}
	cio.chip.Dump(w)
}

// WriteSnapshot adds the state of the chip to the snapshot.
func (cio *IO) WriteSnapshot(s *snapshot.Snapshot) error {
	return cio.chip.WriteSnapshot(s)
}

// ReadSnapshot restores the state of the chip from the snapshot.
func (cio *IO) ReadSnapshot(s *snapshot.Snapshot) error {
	return cio.chip.ReadSnapshot(s)
}

// Owner returns the name of the cartridge that owns the chip, or the empty
// string.
func (cio *IO) Owner() string {
	return cio.owner
}

// Enabled returns true if the chip is enabled.
func (cio *IO) Enabled() bool {
	return cio.enabled
}

// CannotUse returns true if the host interface could not be bound.
func (cio *IO) CannotUse() bool {
	return cio.cannotUse
}

// Interface returns the name of the host interface.
func (cio *IO) Interface() string {
	return cio.iface
}

// Chip returns the CS8900A. Used by the monitor.
func (cio *IO) Chip() *cs8900.CS8900 {
	return cio.chip
}

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


package hardware

import (
	"fmt"
	"io"
	"strings"

	"github.com/jetsetilly/c64io/curated"
	"github.com/jetsetilly/c64io/environment"
	"github.com/jetsetilly/c64io/hardware/alarm"
	"github.com/jetsetilly/c64io/hardware/ethernet/cs8900io"
	"github.com/jetsetilly/c64io/hardware/ethernet/rawnet"
	"github.com/jetsetilly/c64io/hardware/memory/cartridge/ethernetcart"
	"github.com/jetsetilly/c64io/hardware/memory/cartridge/rrnetmk3"
	"github.com/jetsetilly/c64io/hardware/memory/cartridge/shortbus"
	"github.com/jetsetilly/c64io/hardware/memory/cartridge/tfe"
	"github.com/jetsetilly/c64io/hardware/memory/iosource"
	"github.com/jetsetilly/c64io/hardware/tapeport"
	"github.com/jetsetilly/c64io/hardware/tapeport/tapecart"
	"github.com/jetsetilly/c64io/imageloader"
	"github.com/jetsetilly/c64io/logger"
	"github.com/jetsetilly/c64io/snapshot"
)

// Sentinal error patterns.
const (
	UnknownCartridge = "machine: unknown cartridge type (%s)"
	UnsupportedCart  = "machine: %s cartridge not supported by %s"
	NoBIOSSupport    = "machine: cartridge has no BIOS"
)

// List of valid cartridge types.
const (
	CartNone         = ""
	CartTFE          = "tfe"
	CartRRNet        = "rrnet"
	CartEthernetCart = "ethernetcart"
	CartETFE         = "etfe"
	CartRRNetMK3     = "rrnetmk3"
)

// CartTypes lists the cartridge types in the order they should be presented
// to the user.
var CartTypes = []string{CartTFE, CartRRNet, CartEthernetCart, CartETFE, CartRRNetMK3}

const logTag = "machine"

// the ROML area on the C64 expansion port
const (
	romlOrigin = 0x8000
	romlMemtop = 0x9fff
)

// Cartridge is an Ethernet cartridge fitted to the machine.
type Cartridge interface {
	iosource.Device
	MappingID() string
	Enabled() bool
	WriteSnapshot(s *snapshot.Snapshot) error
	ReadSnapshot(s *snapshot.Snapshot) error
}

// romlCartridge is implemented by cartridges that also respond in the ROML
// area.
type romlCartridge interface {
	ReadROML(addr uint16) (uint8, bool)
	StoreROML(addr uint16, data uint8)
}

// Machine is the main container for the emulated devices.
type Machine struct {
	Env   *environment.Environment
	Clock *alarm.Context

	Registry *iosource.Registry
	Exports  *iosource.Exports

	// the CS8900A and the host network it is bridged to
	Bridge   *rawnet.Bridge
	Ethernet *cs8900io.IO

	// the fitted cartridge. nil if there is no cartridge
	Cart     Cartridge
	CartType string

	// the tape port and the device plugged into it
	Tape     *tapeport.Lines
	Tapecart *tapecart.Tapecart
}

// NewMachine creates a machine with the specified cartridge fitted and
// enabled. The cartType argument should be one of the Cart* constants.
func NewMachine(env *environment.Environment, cartType string) (*Machine, error) {
	m := &Machine{
		Env:      env,
		Clock:    alarm.NewContext(env.Machine.String()),
		Registry: iosource.NewRegistry(),
		Exports:  &iosource.Exports{},
		Bridge:   rawnet.NewBridge(nil),
		Tape:     tapeport.NewLines(),
	}

	m.Ethernet = cs8900io.New(env, m.Bridge)
	if err := m.Ethernet.Init(); err != nil {
		return nil, err
	}

	m.Tapecart = tapecart.New(env, m.Clock, m.Tape)

	if err := m.fitCartridge(strings.ToLower(cartType)); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Machine) fitCartridge(cartType string) error {
	var err error

	switch cartType {
	case CartNone:
		return nil

	case CartTFE, CartRRNet:
		cart := tfe.New(m.Env, m.Ethernet, m.Registry, m.Exports, nil)
		if err = cart.SetRRNet(cartType == CartRRNet); err == nil {
			err = cart.SetEnabled(true)
		}
		m.Cart = cart

	case CartEthernetCart:
		cart := ethernetcart.New(m.Env, m.Ethernet, m.Registry, m.Exports)
		err = cart.Enable()
		m.Cart = cart

	case CartETFE:
		if m.Env.Machine != environment.C64 {
			return curated.Errorf(UnsupportedCart, cartType, m.Env.Machine)
		}
		cart := shortbus.NewETFE(m.Env, m.Ethernet, m.Registry, m.Exports)
		err = cart.Enable()
		m.Cart = cart

	case CartRRNetMK3:
		if m.Env.Machine != environment.C64 {
			return curated.Errorf(UnsupportedCart, cartType, m.Env.Machine)
		}

		// the cartridge starts with an erased BIOS. a BIOS image can be
		// attached later with AttachBIOS()
		bios := make([]byte, rrnetmk3.BIOSSize)
		for i := range bios {
			bios[i] = 0xff
		}
		cart := rrnetmk3.New(m.Env, m.Ethernet, m.Registry, m.Exports)
		err = cart.Attach("", bios)
		m.Cart = cart

	default:
		return curated.Errorf(UnknownCartridge, cartType)
	}

	if err != nil {
		m.Cart = nil
		return err
	}

	m.CartType = cartType
	logger.Logf(m.Env, logTag, "%s fitted to %s", m.Cart.MappingID(), m.Env.Machine)

	return nil
}

// AttachBIOS loads a BIOS image for the RR-Net MK3. The filename can name an
// archive. Changes to the BIOS are written back to the file.
func (m *Machine) AttachBIOS(filename string) error {
	cart, ok := m.Cart.(*rrnetmk3.Cartridge)
	if !ok {
		return curated.Errorf(NoBIOSSupport)
	}

	ld := imageloader.NewLoader(filename, ".bin", ".rom")
	if err := ld.Load(); err != nil {
		return err
	}
	if len(ld.Data) != rrnetmk3.BIOSSize {
		return curated.Errorf(rrnetmk3.InvalidBIOS, rrnetmk3.BIOSSize, len(ld.Data))
	}

	// the BIOS is only written back to plain files
	save := filename
	if ld.Name != "" && !strings.HasSuffix(filename, ld.Name) {
		save = ""
	}

	if err := cart.Detach(); err != nil {
		return err
	}
	return cart.Attach(save, ld.Data)
}

// AttachTCRT attaches a TCRT file to the tapecart, enabling the tapecart if
// necessary. The empty string detaches the file.
func (m *Machine) AttachTCRT(filename string) error {
	if err := m.Tapecart.AttachTCRT(filename); err != nil {
		return err
	}
	if !m.Tapecart.Enabled() {
		m.Tapecart.Enable()
	}
	return nil
}

// Read a byte from the I/O area or ROML. The boolean is false if nothing
// drives the data bus at the address.
func (m *Machine) Read(addr uint16) (uint8, bool) {
	if r, ok := m.roml(addr); ok {
		return r.ReadROML(addr)
	}
	return m.Registry.Read(addr)
}

// Peek a byte without side effects.
func (m *Machine) Peek(addr uint16) uint8 {
	if r, ok := m.roml(addr); ok {
		v, _ := r.ReadROML(addr)
		return v
	}
	return m.Registry.Peek(addr)
}

// Store a byte in the I/O area or ROML.
func (m *Machine) Store(addr uint16, data uint8) {
	if r, ok := m.roml(addr); ok {
		r.StoreROML(addr, data)
		return
	}
	m.Registry.Store(addr, data)
}

func (m *Machine) roml(addr uint16) (romlCartridge, bool) {
	if addr < romlOrigin || addr > romlMemtop || m.Cart == nil {
		return nil, false
	}
	r, ok := m.Cart.(romlCartridge)
	return r, ok
}

// Reset every device in the machine.
func (m *Machine) Reset() {
	m.Registry.Reset()
	m.Tapecart.Reset()
	logger.Log(m.Env, logTag, "reset")
}

// Shutdown the machine. Files attached to devices are updated if the
// preferences ask for it.
func (m *Machine) Shutdown() {
	if cart, ok := m.Cart.(*rrnetmk3.Cartridge); ok {
		if err := cart.Detach(); err != nil {
			logger.Log(m.Env, logTag, err.Error())
		}
	}
	m.Tapecart.Shutdown()
	m.Ethernet.Shutdown()
}

// Dump writes the state of the cartridge, the chip and the tapecart to
// io.Writer.
func (m *Machine) Dump(w io.Writer) {
	fmt.Fprintf(w, "%s at clock %d\n", m.Env.Machine, m.Clock.Clock())
	if m.Cart != nil {
		m.Cart.Dump(w)
	} else {
		io.WriteString(w, "no cartridge\n")
	}
	m.Ethernet.Dump(w)
	if m.Tapecart.Enabled() {
		fmt.Fprintf(w, "tapecart: %s mode (%s)\n", m.Tapecart.Mode(), m.Tapecart.Filename())
	}
}

func (m *Machine) String() string {
	s := strings.Builder{}
	s.WriteString(m.Env.Machine.String())
	if m.Cart != nil {
		s.WriteString(fmt.Sprintf(" with %s", m.Cart.Name()))
	}
	if m.Tapecart.Enabled() {
		s.WriteString(" and tapecart")
	}
	return s.String()
}

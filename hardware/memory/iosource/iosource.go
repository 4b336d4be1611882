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

package iosource

import (
	"fmt"
	"io"
	"strings"

	"github.com/jetsetilly/c64io/curated"
	"github.com/jetsetilly/c64io/logger"
)

// Sentinal error patterns.
const (
	NoDevice = "iosource: no device at $%04x"
)

// Device is implemented by anything that occupies an address range in the
// I/O area.
type Device interface {
	// the name of the device, as shown in conflict messages
	Name() string

	// the address range occupied by the device. the address passed to Read(),
	// Peek() and Store() is masked by the mask value
	Range() (start uint16, end uint16, mask uint16)

	// read returns false if the device did not drive the bus
	Read(addr uint16) (uint8, bool)

	// read without side effects
	Peek(addr uint16) uint8

	Store(addr uint16, data uint8)
	Dump(w io.Writer)
	Reset()
}

// Entry is a registered Device. It is returned by Register() and is used to
// unregister the device.
type Entry struct {
	dev Device
}

// Device returns the registered device.
func (e *Entry) Device() Device {
	return e.dev
}

func (e *Entry) contains(addr uint16) bool {
	start, end, _ := e.dev.Range()
	return addr >= start && addr <= end
}

func (e *Entry) mask(addr uint16) uint16 {
	_, _, m := e.dev.Range()
	return addr & m
}

// Registry is the list of devices in the I/O area.
type Registry struct {
	entries []*Entry
}

// NewRegistry is the preferred method of initialisation for the Registry
// type.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds the device to the registry. Devices are accessed in the order
// they were registered.
func (r *Registry) Register(dev Device) *Entry {
	e := &Entry{dev: dev}
	r.entries = append(r.entries, e)
	start, end, _ := dev.Range()
	logger.Logf(logger.Allow, "iosource", "registered %s at $%04x-$%04x", dev.Name(), start, end)
	return e
}

// Unregister removes the entry from the registry. Removing an entry that is
// not registered (or is nil) is safe.
func (r *Registry) Unregister(e *Entry) {
	if e == nil {
		return
	}
	for i := range r.entries {
		if r.entries[i] == e {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return
		}
	}
}

// Read the address from the devices that contain it. Returns false if no
// device drove the bus.
func (r *Registry) Read(addr uint16) (uint8, bool) {
	var data uint8
	var drivers []string

	for _, e := range r.entries {
		if !e.contains(addr) {
			continue
		}
		v, ok := e.dev.Read(e.mask(addr))
		if !ok {
			continue
		}
		if len(drivers) == 0 {
			data = v
		} else {
			data &= v
		}
		drivers = append(drivers, e.dev.Name())
	}

	if len(drivers) > 1 {
		logger.Logf(logger.Allow, "iosource", "I/O read conflict at $%04x between %s", addr, strings.Join(drivers, ", "))
	}

	return data, len(drivers) > 0
}

// Peek the address from the first device that contains it.
func (r *Registry) Peek(addr uint16) uint8 {
	for _, e := range r.entries {
		if e.contains(addr) {
			return e.dev.Peek(e.mask(addr))
		}
	}
	return 0
}

// Store the data in every device that contains the address.
func (r *Registry) Store(addr uint16, data uint8) {
	for _, e := range r.entries {
		if e.contains(addr) {
			e.dev.Store(e.mask(addr), data)
		}
	}
}

// Dump the state of the first device that contains the address.
func (r *Registry) Dump(addr uint16, w io.Writer) error {
	for _, e := range r.entries {
		if e.contains(addr) {
			e.dev.Dump(w)
			return nil
		}
	}
	return curated.Errorf(NoDevice, addr)
}

// Reset every registered device.
func (r *Registry) Reset() {
	for _, e := range r.entries {
		e.dev.Reset()
	}
}

// Len returns the number of registered devices.
func (r *Registry) Len() int {
	return len(r.entries)
}

func (r *Registry) String() string {
	s := strings.Builder{}
	for _, e := range r.entries {
		start, end, mask := e.dev.Range()
		s.WriteString(fmt.Sprintf("$%04x-$%04x (mask $%04x): %s\n", start, end, mask, e.dev.Name()))
	}
	return s.String()
}

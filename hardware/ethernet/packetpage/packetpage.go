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

// Package packetpage implements the two register memories of the CS8900A.
// The IORegisters type is the 16 byte bank visible on the host bus and the
// PacketPage type is the 4KB internal memory, reached through the
// PacketPage pointer.
//
// All multi-byte values are little endian. Word accesses must be on even
// addresses.
//
// Accessors return errors for out of range and misaligned addresses. The
// Must* variants are used by the chip core. In the default mode they log
// the problem and mask the address back into range. In strict mode (see
// SetStrict()) they panic.
package packetpage

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"

	"github.com/jetsetilly/c64io/curated"
	"github.com/jetsetilly/c64io/logger"
)

// Sentinal error patterns.
const (
	OutOfRange = "packetpage: address out of range ($%04x)"
	Misaligned = "packetpage: misaligned address ($%04x)"
)

// Sizes of the two register memories.
const (
	IOSize   = 0x10
	PageSize = 0x1000
)

var strict atomic.Bool

// SetStrict sets whether the Must* functions panic on an invalid address.
func SetStrict(s bool) {
	strict.Store(s)
}

// check address for an access of the given width in a memory of the given
// size.
func check(addr int, width int, size int) error {
	if addr < 0 || addr+width > size {
		return curated.Errorf(OutOfRange, addr)
	}
	if width > 1 && addr&1 != 0 {
		return curated.Errorf(Misaligned, addr)
	}
	return nil
}

// mask the address so that it is valid for the width and size. only used
// after a failed check.
func mask(addr int, width int, size int, err error) int {
	if strict.Load() {
		panic(err)
	}
	logger.Log(logger.Allow, "packetpage", err.Error())
	addr &= size - 1
	if width > 1 {
		addr &^= 1
	}
	if addr+width > size {
		addr = size - width
	}
	return addr
}

// IORegisters is the bank of 16 bytes visible to the host bus.
type IORegisters struct {
	data [IOSize]byte
}

// Get8 returns the byte at addr.
func (r *IORegisters) Get8(addr uint8) (uint8, error) {
	if err := check(int(addr), 1, IOSize); err != nil {
		return 0, err
	}
	return r.data[addr], nil
}

// Set8 sets the byte at addr.
func (r *IORegisters) Set8(addr uint8, v uint8) error {
	if err := check(int(addr), 1, IOSize); err != nil {
		return err
	}
	r.data[addr] = v
	return nil
}

// Get16 returns the word at addr.
func (r *IORegisters) Get16(addr uint8) (uint16, error) {
	if err := check(int(addr), 2, IOSize); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(r.data[addr:]), nil
}

// Set16 sets the word at addr.
func (r *IORegisters) Set16(addr uint8, v uint16) error {
	if err := check(int(addr), 2, IOSize); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(r.data[addr:], v)
	return nil
}

// MustGet8 is the same as Get8 except that an invalid address is masked
// (or panics in strict mode).
func (r *IORegisters) MustGet8(addr uint8) uint8 {
	a := int(addr)
	if err := check(a, 1, IOSize); err != nil {
		a = mask(a, 1, IOSize, err)
	}
	return r.data[a]
}

// MustSet16 is the same as Set16 except that an invalid address is masked
// (or panics in strict mode).
func (r *IORegisters) MustSet16(addr uint8, v uint16) {
	a := int(addr)
	if err := check(a, 2, IOSize); err != nil {
		a = mask(a, 2, IOSize, err)
	}
	binary.LittleEndian.PutUint16(r.data[a:], v)
}

// Clear sets every register to zero.
func (r *IORegisters) Clear() {
	clear(r.data[:])
}

func (r *IORegisters) String() string {
	return fmt.Sprintf("% 02x", r.data[:])
}

// PacketPage is the 4KB internal memory of the CS8900A.
type PacketPage struct {
	data [PageSize]byte
}

// Get8 returns the byte at addr.
func (pp *PacketPage) Get8(addr uint16) (uint8, error) {
	if err := check(int(addr), 1, PageSize); err != nil {
		return 0, err
	}
	return pp.data[addr], nil
}

// Set8 sets the byte at addr.
func (pp *PacketPage) Set8(addr uint16, v uint8) error {
	if err := check(int(addr), 1, PageSize); err != nil {
		return err
	}
	pp.data[addr] = v
	return nil
}

// Get16 returns the word at addr.
func (pp *PacketPage) Get16(addr uint16) (uint16, error) {
	if err := check(int(addr), 2, PageSize); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(pp.data[addr:]), nil
}

// Set16 sets the word at addr.
func (pp *PacketPage) Set16(addr uint16, v uint16) error {
	if err := check(int(addr), 2, PageSize); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(pp.data[addr:], v)
	return nil
}

// Get32 returns the double word at addr.
func (pp *PacketPage) Get32(addr uint16) (uint32, error) {
	if err := check(int(addr), 4, PageSize); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(pp.data[addr:]), nil
}

// Set32 sets the double word at addr.
func (pp *PacketPage) Set32(addr uint16, v uint32) error {
	if err := check(int(addr), 4, PageSize); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(pp.data[addr:], v)
	return nil
}

// Bytes returns a slice of n bytes starting at addr. The slice refers to the
// PacketPage memory directly.
func (pp *PacketPage) Bytes(addr uint16, n int) ([]byte, error) {
	if n < 0 {
		return nil, curated.Errorf(OutOfRange, int(addr)+n)
	}
	if err := check(int(addr), n, PageSize); err != nil {
		return nil, err
	}
	return pp.data[addr : int(addr)+n], nil
}

// MustGet8 is the same as Get8 except that an invalid address is masked (or
// panics in strict mode).
func (pp *PacketPage) MustGet8(addr uint16) uint8 {
	a := int(addr)
	if err := check(a, 1, PageSize); err != nil {
		a = mask(a, 1, PageSize, err)
	}
	return pp.data[a]
}

// MustSet8 is the same as Set8 except that an invalid address is masked (or
// panics in strict mode).
func (pp *PacketPage) MustSet8(addr uint16, v uint8) {
	a := int(addr)
	if err := check(a, 1, PageSize); err != nil {
		a = mask(a, 1, PageSize, err)
	}
	pp.data[a] = v
}

// MustGet16 is the same as Get16 except that an invalid address is masked
// (or panics in strict mode).
func (pp *PacketPage) MustGet16(addr uint16) uint16 {
	a := int(addr)
	if err := check(a, 2, PageSize); err != nil {
		a = mask(a, 2, PageSize, err)
	}
	return binary.LittleEndian.Uint16(pp.data[a:])
}

// MustSet16 is the same as Set16 except that an invalid address is masked
// (or panics in strict mode).
func (pp *PacketPage) MustSet16(addr uint16, v uint16) {
	a := int(addr)
	if err := check(a, 2, PageSize); err != nil {
		a = mask(a, 2, PageSize, err)
	}
	binary.LittleEndian.PutUint16(pp.data[a:], v)
}

// MustSet32 is the same as Set32 except that an invalid address is masked
// (or panics in strict mode).
func (pp *PacketPage) MustSet32(addr uint16, v uint32) {
	a := int(addr)
	if err := check(a, 4, PageSize); err != nil {
		a = mask(a, 4, PageSize, err)
	}
	binary.LittleEndian.PutUint32(pp.data[a:], v)
}

// MustGet32 is the same as Get32 except that an invalid address is masked
// (or panics in strict mode).
func (pp *PacketPage) MustGet32(addr uint16) uint32 {
	a := int(addr)
	if err := check(a, 4, PageSize); err != nil {
		a = mask(a, 4, PageSize, err)
	}
	return binary.LittleEndian.Uint32(pp.data[a:])
}

// Clear sets the entire PacketPage to zero.
func (pp *PacketPage) Clear() {
	clear(pp.data[:])
}

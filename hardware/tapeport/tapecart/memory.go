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

package tapecart

import (
	"github.com/jetsetilly/c64io/hardware/tapeport/tapecart/tcrt"
)

// flash geometry of the W25Q16
const (
	flashPageSize  = 256
	flashEraseSize = 4096
	flash64K       = 0x10000
)

// Memory is the non-volatile content of the tapecart. The Image fields are
// the load-info visible to the loader.
type Memory struct {
	tcrt.Image

	// the memory has changed since it was last loaded or saved
	Changed bool

	// the number of bytes written to flash that were not erased at the
	// time of the write
	NonErasedWrites int
}

func newMemory() *Memory {
	return &Memory{Image: *tcrt.NewImage()}
}

// clear the memory to the erased state.
func (mem *Memory) clear() {
	mem.Image = *tcrt.NewImage()
	mem.Changed = false
	mem.NonErasedWrites = 0
}

// validRange returns true if the range lies inside the flash. A zero length
// range at the end of the flash is not valid.
func (mem *Memory) validRange(addr uint32, length uint32) bool {
	return addr < tcrt.FlashSize && addr+length <= tcrt.FlashSize
}

// WriteFlash writes data to the flash starting at addr. Flash cells can only
// be cleared by a write so the new value of each byte is the old value ANDed
// with the written value. Returns the address of the first non-erased byte in
// the range, or -1 if every byte was erased.
func (mem *Memory) WriteFlash(addr uint32, data []byte) int {
	first := -1
	for i, v := range data {
		a := addr + uint32(i)
		if mem.Flash[a] != 0xff {
			mem.NonErasedWrites++
			if first == -1 {
				first = int(a)
			}
		}
		mem.Flash[a] &= v
	}
	if len(data) > 0 {
		mem.Changed = true
	}
	return first
}

// Erase sets size bytes to 0xff starting at addr, which is aligned to size.
// Returns the aligned address.
func (mem *Memory) Erase(addr uint32, size uint32) uint32 {
	addr &^= size - 1
	for i := addr; i < addr+size; i++ {
		mem.Flash[i] = 0xff
	}
	mem.Changed = true
	return addr
}

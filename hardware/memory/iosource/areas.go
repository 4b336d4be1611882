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
	"github.com/jetsetilly/c64io/environment"
)

// Area is an I/O area of the machine.
type Area int

// List of valid Area values.
const (
	Undefined Area = iota
	IO1
	IO2
	IO3
)

func (a Area) String() string {
	switch a {
	case IO1:
		return "IO1"
	case IO2:
		return "IO2"
	case IO3:
		return "IO3"
	}
	return "undefined"
}

// The origin and memtop of the I/O areas of the C64.
const (
	OriginC64IO1 = uint16(0xde00)
	MemtopC64IO1 = uint16(0xdeff)
	OriginC64IO2 = uint16(0xdf00)
	MemtopC64IO2 = uint16(0xdfff)
)

// The origin and memtop of the I/O areas of the VIC-20. There is no IO1 on
// the VIC-20 that can be used by an ethernet cartridge.
const (
	OriginVIC20IO2 = uint16(0x9800)
	MemtopVIC20IO2 = uint16(0x9bff)
	OriginVIC20IO3 = uint16(0x9c00)
	MemtopVIC20IO3 = uint16(0x9fff)
)

// MapAddress returns the I/O area of the address for the machine.
func MapAddress(machine environment.Machine, address uint16) Area {
	switch machine {
	case environment.VIC20:
		switch {
		case address >= OriginVIC20IO2 && address <= MemtopVIC20IO2:
			return IO2
		case address >= OriginVIC20IO3 && address <= MemtopVIC20IO3:
			return IO3
		}
	default:
		switch {
		case address >= OriginC64IO1 && address <= MemtopC64IO1:
			return IO1
		case address >= OriginC64IO2 && address <= MemtopC64IO2:
			return IO2
		}
	}
	return Undefined
}

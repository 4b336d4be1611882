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

// Package snapshot implements a binary snapshot file made up of named and
// versioned modules. Each device writes its state to a module of its own
// and reads it back by name, so the order of modules in the file does not
// matter.
//
// The file starts with a fixed header:
//
//	magic    [16]byte  "c64io Snapshot\x1a\x00"
//	major    uint8
//	minor    uint8
//	machine  [16]byte  zero padded
//
// Each module is made up of a header and the module data:
//
//	name     [16]byte  zero padded
//	major    uint8
//	minor    uint8
//	size     uint32    little endian, size of the module data
//
// All multi-byte values in the module data are little endian.
package snapshot

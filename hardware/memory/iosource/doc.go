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

// Package iosource dispatches accesses to the I/O areas of the C64 and VIC-20
// to the cartridges that have registered an address range.
//
// A cartridge registers a Device with the Registry when it is enabled and
// unregisters it when disabled. The Registry passes each access to every
// device whose range contains the address, with the address masked by the
// device's address mask. More than one device driving the bus on a read is
// a conflict: the values are ANDed together and the conflict is logged.
//
// Cartridges that use the GAME and EXROM lines must also claim them through
// the Exports table, which rejects a second claim.
package iosource

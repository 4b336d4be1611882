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

// Package cs8900 emulates the Cirrus Logic CS8900A ethernet controller, as
// found in The Final Ethernet, RR-Net and similar cartridges.
//
// The chip is operated in I/O mode. The host sees sixteen bytes of I/O
// registers, through which the 4KB PacketPage is reached using the
// PacketPage pointer and the two PacketPage data ports. Frames are read
// from and written to the chip through the RxTxData ports.
//
// Cartridges do not normally use this package directly. The cs8900io
// package handles activation and ownership of the chip.
package cs8900

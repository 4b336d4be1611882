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

// Package rawnet connects the emulated ethernet chip to the host. The Host
// interface is the contract between the chip and the host network and the
// Bridge type implements it on top of one of several links, selected by the
// interface name given to Activate():
//
//	null                      frames are discarded and nothing is received
//	loopback                  transmitted frames are received again
//	udp:GROUP:PORT[:IFACE]    frames are bridged over a UDP multicast group
//	serial:DEVICE[:BAUD]      SLIP framed ethernet over a serial line
//	pcap:DEVICE               a real network interface (requires the pcap build tag)
//
// Links that touch real I/O run a receive goroutine. Received frames are
// handed to the emulation through a buffered channel which is polled,
// without blocking, by the Receive() function. Frames that arrive when the
// channel is full are dropped, in the same way that a real network card
// drops frames when its buffers are full.
//
// The Bridge does not filter received frames. All frames are reported as
// received correctly and it is left to the chip to decide whether to accept
// them.
package rawnet

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


// Package monitor is a line based interface to a hardware.Machine. It takes
// the place of the CPU and allows the I/O area to be read and written by
// hand. Commands are read from an io.Reader and results written to an
// io.Writer, so the monitor can be driven by a terminal or by a script.
//
// The commands are:
//
//	r ADDR          read a byte (with side effects)
//	p ADDR          peek at a byte (without side effects)
//	w ADDR VAL      write a byte
//	run [CYCLES]    advance the clock. without CYCLES, run until a key is pressed
//	dump            show the state of the devices
//	spew [DEVICE]   show the internal state of a device (chip, cart or tapecart)
//	memviz FILE     write a graph of the chip's memory layout in dot format
//	save FILE       write a snapshot
//	load FILE       read a snapshot
//	reset           reset the devices
//	log [OPTION]    show new log entries. "all" shows every entry, "clear"
//	                empties the log and "tag TAG" shows the entries for TAG
//	help            list the commands
//	quit            leave the monitor
//
// Addresses and values are decimal or hexadecimal with either the "$" or
// "0x" prefix.
package monitor

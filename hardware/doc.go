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


// Package hardware is the base package for the emulated I/O devices. The
// Machine type is the container for the devices and connects them to the
// I/O area registry, the tape port and the alarm context that drives them.
//
// Only one Ethernet cartridge can be fitted to a machine. The cartridge is
// chosen when the machine is created and is identified by one of the
// Cart* constants.
//
// The machine has no CPU. Accesses to the I/O area are made with the Read(),
// Peek() and Store() functions and the clock is moved forward with Run() and
// RunFor(). A monitor or test harness takes the place of the CPU.
package hardware

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

// Package clocks defines the CPU clock rates of the supported machines, in
// cycles per second.
package clocks

// Clock rates in cycles per second.
const (
	C64_PAL    = 985248
	C64_NTSC   = 1022727
	VIC20_PAL  = 1108405
	VIC20_NTSC = 1022727
)

// Convenience durations, as fractions of a second, used when converting
// real-time delays into cycle counts.
const (
	Millisecond = 1000
	Microsecond = 1000000
)

// Cycles converts a duration expressed in units of the given fraction of a
// second into a number of cycles at the given clock rate. For example, the
// number of cycles in 700µs at the PAL C64 clock rate is:
//
//	Cycles(C64_PAL, 700, Microsecond)
func Cycles(rate uint64, n uint64, fraction uint64) uint64 {
	return rate * n / fraction
}

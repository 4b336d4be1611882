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


// Package modalflag wraps the flag package of the standard library. It adds
// program modes, with each mode having its own set of flags.
//
// Arguments are given with NewArgs() and parsed one layer at a time with
// Parse(). Flags and sub-modes for the next layer are added before each call
// to Parse():
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	logEcho := md.AddBool("log", false, "echo log to stdout")
//	md.AddSubModes("MONITOR", "TCRT")
//
//	switch r, err := md.Parse(); r {
//	case modalflag.ParseHelp:
//		return nil
//	case modalflag.ParseError:
//		return err
//	}
//
//	switch md.Mode() {
//	case "MONITOR":
//		md.NewMode()
//		cart := md.AddString("cart", "tfe", "cartridge type")
//		...
//	}
//
// The first sub-mode in the list is the default and is selected if the next
// argument is not a sub-mode. Sub-mode comparisons are case insensitive and
// the Mode() function returns sub-modes in upper case.
//
// The modes selected by each call to Parse() are recorded and returned as a
// single string by the Path() function. This is useful for help messages.
package modalflag

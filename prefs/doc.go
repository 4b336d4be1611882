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

// Package prefs facilitates the storage of preferential values. The package
// provides typed values (Bool, String and Int) which can be registered with a
// Disk instance and saved to or loaded from a preferences file.
//
// Values that are registered with a Disk and are also present in a file
// written by another Disk instance are preserved on Save(). This means that
// more than one package can share the same preferences file, each adding
// only the values it knows about.
//
// The command line stack allows preference values to be overridden for the
// duration of a single session, without the override being saved to disk.
// Overrides are specified with the following syntax:
//
//	key::value; key::value
package prefs

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

// Package preferences contains the preferences for the emulated hardware.
// Each value is stored in the prefs file under the name used by the
// equivalent VICE resource.
//
// Devices install prefs hooks on the values they care about. Pre-hooks are
// used to validate a new value and post-hooks to apply the value to the
// running device.
package preferences

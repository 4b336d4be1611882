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


//go:build !statsview

package statsview

import "io"

// Launch does nothing without the statsview build tag. The stop function
// can still be called.
func Launch(_ io.Writer) func() {
	return func() {}
}

// Available returns true if the statistics server can be launched.
func Available() bool {
	return false
}

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


// Package statsview offers runtime statistics over HTTP. It is only
// available when the program is built with the statsview build tag:
//
//	go build -tags statsview
//
// After launch, graphical statistics are available at:
//
//	localhost:12600/debug/statsview
//
// And the standard Go pprof statistics at:
//
//	localhost:12600/debug/pprof/
//
// Without the build tag, Launch() does nothing and Available() returns
// false.
package statsview

// Address is the address of the statistics server.
const Address = "localhost:12600"

const url = "/debug/statsview"

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


// Package version reports the version of the program, as set by the linker
// or as found in the build information embedded by the Go toolchain.
package version

import (
	"fmt"
	"runtime/debug"
)

// ApplicationName is the name to use when referring to the program.
const ApplicationName = "c64io"

// number can be set with the linker flag:
//
//	-ldflags "-X github.com/jetsetilly/c64io/version.number=v0.1.0"
var number string

// Info describes the build.
type Info struct {
	// the version number. "unreleased" if the version has not been set
	Number string

	// the vcs revision. suffixed with "+dirty" if the source had been
	// modified since the last commit
	Revision string

	// the Go toolchain used to build the program
	GoVersion string
}

// Release returns true if this is a numbered release.
func (inf Info) Release() bool {
	return inf.Number != "unreleased"
}

func (inf Info) String() string {
	if inf.Release() {
		return fmt.Sprintf("%s %s", ApplicationName, inf.Number)
	}
	return fmt.Sprintf("%s %s (%s) %s", ApplicationName, inf.Number, inf.Revision, inf.GoVersion)
}

// Version returns information about the build.
func Version() Info {
	return fromBuildInfo(number, debug.ReadBuildInfo)
}

func fromBuildInfo(num string, read func() (*debug.BuildInfo, bool)) Info {
	inf := Info{
		Number:    num,
		Revision:  "no revision information",
		GoVersion: "unknown",
	}
	if inf.Number == "" {
		inf.Number = "unreleased"
	}

	bi, ok := read()
	if !ok {
		return inf
	}

	inf.GoVersion = bi.GoVersion

	var modified bool
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			inf.Revision = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	if modified {
		inf.Revision = fmt.Sprintf("%s+dirty", inf.Revision)
	}

	return inf
}

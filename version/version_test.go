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


package version

import (
	"runtime/debug"
	"testing"

	"github.com/jetsetilly/c64io/test"
)

func TestVersion(t *testing.T) {
	none := func() (*debug.BuildInfo, bool) { return nil, false }
	inf := fromBuildInfo("", none)
	test.ExpectFailure(t, inf.Release())
	test.ExpectEquality(t, inf.String(), "c64io unreleased (no revision information) unknown")

	inf = fromBuildInfo("v1.0.0", none)
	test.ExpectSuccess(t, inf.Release())
	test.ExpectEquality(t, inf.String(), "c64io v1.0.0")

	dirty := func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			GoVersion: "go1.25.7",
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc123"},
				{Key: "vcs.modified", Value: "true"},
			},
		}, true
	}
	inf = fromBuildInfo("", dirty)
	test.ExpectEquality(t, inf.Revision, "abc123+dirty")
	test.ExpectEquality(t, inf.GoVersion, "go1.25.7")
}

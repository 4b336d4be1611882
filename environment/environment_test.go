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

package environment_test

import (
	"testing"

	"github.com/jetsetilly/c64io/environment"
	"github.com/jetsetilly/c64io/hardware/clocks"
	"github.com/jetsetilly/c64io/test"
)

func TestClockRate(t *testing.T) {
	env, err := environment.NewEnvironment(environment.C64, environment.PAL, nil)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, env.ClockRate(), uint64(clocks.C64_PAL))
	test.ExpectSuccess(t, env.IsMainEmulation())
	test.ExpectSuccess(t, env.Prefs != nil)

	env, err = environment.NewEnvironment(environment.VIC20, environment.NTSC, nil)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, env.ClockRate(), uint64(clocks.VIC20_NTSC))
	test.ExpectEquality(t, env.Machine.String(), "VIC20")
}

func TestLoggingPermission(t *testing.T) {
	env, err := environment.NewEnvironment(environment.C64, environment.PAL, nil)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, env.AllowLogging())

	env.Label = environment.Label("thumbnail")
	test.ExpectFailure(t, env.AllowLogging())
	test.ExpectSuccess(t, env.IsEmulation("thumbnail"))
}

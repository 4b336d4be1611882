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

package tapeport_test

import (
	"testing"

	"github.com/jetsetilly/c64io/hardware/tapeport"
	"github.com/jetsetilly/c64io/test"
)

func TestTrace(t *testing.T) {
	tr := tapeport.NewTrace("test")
	test.ExpectSuccess(t, tr.Hi())
	test.ExpectFailure(t, tr.Changed())

	tr.Tick(false)
	test.ExpectSuccess(t, tr.Falling())
	test.ExpectSuccess(t, tr.Lo())

	tr.Tick(false)
	test.ExpectFailure(t, tr.Changed())

	tr.Tick(true)
	test.ExpectSuccess(t, tr.Rising())

	s := tr.Snapshot()
	tr.Tick(false)
	test.ExpectSuccess(t, s.Hi())
	test.ExpectEquality(t, s.Activity[len(s.Activity)-1], true)
	test.ExpectEquality(t, tr.Activity[len(tr.Activity)-1], false)
	test.ExpectEquality(t, len(tr.Activity), 64)
}

func TestLines(t *testing.T) {
	l := tapeport.NewLines()

	var p tapeport.Port = l
	p.SetSense(false)
	test.ExpectSuccess(t, l.Sense.Lo())
	p.SetWriteIn(false)
	test.ExpectSuccess(t, l.WriteIn.Falling())

	var n int
	l.OnFlux = func() { n++ }
	p.TriggerFluxChange()
	p.TriggerFluxChange()
	test.ExpectEquality(t, l.Flux, 2)
	test.ExpectEquality(t, n, 2)
}

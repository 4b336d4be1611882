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


package hardware

import (
	"github.com/jetsetilly/c64io/curated"
	"github.com/jetsetilly/c64io/logger"
)

// Sentinal error patterns.
const (
	NoTapecart    = "machine: tapecart not enabled"
	StreamTimeout = "machine: tape stream did not end within %d cycles"
	StreamStalled = "machine: tape stream stalled at clock %d"
)

// Slice is the number of cycles the clock is advanced between calls to the
// continueCheck function in Run().
const Slice = 1000

// RunFor advances the clock by the number of cycles.
func (m *Machine) RunFor(cycles uint64) {
	m.Clock.Advance(cycles)
}

// Run the machine until the continueCheck function returns false or an
// error. The function is called after every Slice cycles.
func (m *Machine) Run(continueCheck func() (bool, error)) error {
	if continueCheck == nil {
		continueCheck = func() (bool, error) { return true, nil }
	}

	for {
		m.Clock.Advance(Slice)
		cont, err := continueCheck()
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
}

// PlayStream switches the tape motor on and runs the machine until the
// tapecart has sent its stream once. The clock of every flux change is sent
// to the onFlux function, which can be nil. The limit is the maximum number
// of cycles the stream can take.
//
// The motor is switched off at the end of the stream.
func (m *Machine) PlayStream(limit uint64, onFlux func(clk uint64)) error {
	if !m.Tapecart.Enabled() {
		return curated.Errorf(NoTapecart)
	}

	prev := m.Tape.OnFlux
	defer func() {
		m.Tape.OnFlux = prev
		m.Tapecart.StoreMotor(false)
	}()

	if onFlux != nil {
		m.Tape.OnFlux = func() {
			onFlux(m.Clock.Clock())
		}
	}

	start := m.Clock.Clock()
	flux := m.Tape.Flux

	m.Tapecart.StoreMotor(true)

	// the tapecart holds the sense line low for as long as the stream is
	// being sent
	for m.Tape.Sense.Lo() {
		clk, ok := m.Clock.Next()
		if !ok {
			return curated.Errorf(StreamStalled, m.Clock.Clock())
		}
		if clk-start > limit {
			return curated.Errorf(StreamTimeout, limit)
		}
		m.Clock.RunUntil(clk)
	}

	logger.Logf(m.Env, logTag, "stream of %d pulses played in %d cycles", m.Tape.Flux-flux, m.Clock.Clock()-start)

	return nil
}

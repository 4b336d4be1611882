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

// Package tapeport connects devices to the cassette port of the C64.
//
// The values passed across the port are the electrical levels of the lines.
// A value of true is a high level. The sense line, for example, is low when
// a button on the cassette deck is pressed.
package tapeport

// Port is the computer side of the tape port, as seen by a device.
type Port interface {
	// drive the cassette sense line
	SetSense(v bool)

	// drive the write line back towards the computer. the tapecart uses the
	// write line in both directions
	SetWriteIn(v bool)

	// a flux change on the read line
	TriggerFluxChange()
}

// Device is plugged into the tape port.
type Device interface {
	// the computer has changed the state of one of the lines
	StoreMotor(on bool)
	StoreWrite(v bool)
	StoreSense(v bool)

	Reset()

	// the emulation is ending
	Shutdown()
}

// Lines is an implementation of Port that records the lines driven by a
// device.
type Lines struct {
	Sense   Trace
	WriteIn Trace

	// number of flux changes on the read line
	Flux int

	// called on every flux change if not nil
	OnFlux func()
}

// NewLines is the preferred method of initialisation for the Lines type.
func NewLines() *Lines {
	return &Lines{
		Sense:   NewTrace("sense"),
		WriteIn: NewTrace("write"),
	}
}

// SetSense implements the Port interface.
func (l *Lines) SetSense(v bool) {
	l.Sense.Tick(v)
}

// SetWriteIn implements the Port interface.
func (l *Lines) SetWriteIn(v bool) {
	l.WriteIn.Tick(v)
}

// TriggerFluxChange implements the Port interface.
func (l *Lines) TriggerFluxChange() {
	l.Flux++
	if l.OnFlux != nil {
		l.OnFlux()
	}
}

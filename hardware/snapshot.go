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
	"io"

	"github.com/jetsetilly/c64io/curated"
	"github.com/jetsetilly/c64io/logger"
	"github.com/jetsetilly/c64io/snapshot"
)

// Sentinal error patterns.
const (
	WrongMachine = "machine: snapshot is for %s not %s"
)

// WriteSnapshot writes the state of the cartridge and the tapecart to
// io.Writer. Devices that can not yet save their state are noted in the log
// but do not prevent the snapshot from being written.
func (m *Machine) WriteSnapshot(w io.Writer) error {
	s := snapshot.New(m.Env.Machine.String())

	if m.Cart != nil {
		if err := tolerate(m.Cart.WriteSnapshot(s)); err != nil {
			return err
		}
	}

	if m.Tapecart.Enabled() {
		if err := m.Tapecart.WriteSnapshot(s); err != nil {
			return err
		}
	}

	return s.Write(w)
}

// ReadSnapshot restores the state of the cartridge and the tapecart from
// io.Reader. The snapshot must have been written by the same type of
// machine with the same cartridge fitted.
func (m *Machine) ReadSnapshot(r io.Reader) error {
	s, err := snapshot.Read(r)
	if err != nil {
		return err
	}

	if s.Machine != m.Env.Machine.String() {
		return curated.Errorf(WrongMachine, s.Machine, m.Env.Machine)
	}

	if m.Cart != nil {
		if err := tolerate(m.Cart.ReadSnapshot(s)); err != nil {
			return err
		}
	}

	if m.Tapecart.Enabled() {
		if err := m.Tapecart.ReadSnapshot(s); err != nil {
			return err
		}
	}

	return nil
}

// tolerate snapshot errors from modules that are not implemented.
func tolerate(err error) error {
	if err != nil && curated.Has(err, snapshot.ModuleNotImplemented) {
		logger.Log(logger.Allow, logTag, err.Error())
		return nil
	}
	return err
}

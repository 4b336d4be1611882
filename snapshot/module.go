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

package snapshot

import (
	"encoding/binary"

	"github.com/jetsetilly/c64io/curated"
)

// WriteByte writes a single byte to the module.
func (m *Module) WriteByte(v uint8) error {
	return m.data.WriteByte(v)
}

// WriteWord writes a 16 bit value to the module.
func (m *Module) WriteWord(v uint16) error {
	return binary.Write(&m.data, binary.LittleEndian, v)
}

// WriteDWord writes a 32 bit value to the module.
func (m *Module) WriteDWord(v uint32) error {
	return binary.Write(&m.data, binary.LittleEndian, v)
}

// WriteBool writes a boolean value to the module as a single byte.
func (m *Module) WriteBool(v bool) error {
	if v {
		return m.WriteByte(1)
	}
	return m.WriteByte(0)
}

// WriteBytes writes the byte slice to the module. The length of the slice
// is not written.
func (m *Module) WriteBytes(v []byte) error {
	_, err := m.data.Write(v)
	return err
}

// Close the module. There is no need to close a module before it is
// written but doing so rewinds the read position.
func (m *Module) Close() error {
	m.pos = 0
	return nil
}

// Len returns the number of bytes in the module.
func (m *Module) Len() int {
	return m.data.Len()
}

func (m *Module) take(n int) ([]byte, error) {
	b := m.data.Bytes()
	if m.pos+n > len(b) {
		return nil, curated.Errorf(Truncated, m.Name)
	}
	v := b[m.pos : m.pos+n]
	m.pos += n
	return v, nil
}

// ReadByte reads a single byte from the module.
func (m *Module) ReadByte() (uint8, error) {
	b, err := m.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadWord reads a 16 bit value from the module.
func (m *Module) ReadWord() (uint16, error) {
	b, err := m.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadDWord reads a 32 bit value from the module.
func (m *Module) ReadDWord() (uint32, error) {
	b, err := m.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadBool reads a boolean value from the module.
func (m *Module) ReadBool() (bool, error) {
	v, err := m.ReadByte()
	return v != 0, err
}

// ReadBytes reads exactly len(v) bytes from the module into v.
func (m *Module) ReadBytes(v []byte) error {
	b, err := m.take(len(v))
	if err != nil {
		return err
	}
	copy(v, b)
	return nil
}

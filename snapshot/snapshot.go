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
	"bytes"
	"encoding/binary"
	"io"

	"github.com/jetsetilly/c64io/curated"
)

// Sentinal error patterns.
const (
	ModuleNotFound       = "snapshot: module not found (%s)"
	ModuleHigherVersion  = "snapshot: module version %d.%d is higher than supported %d.%d (%s)"
	ModuleNotImplemented = "snapshot: module not implemented (%s)"
	Truncated            = "snapshot: truncated (%s)"
	InvalidFile          = "snapshot: invalid file (%v)"
	InvalidModuleName    = "snapshot: invalid module name (%s)"
)

// Version of the snapshot file format.
const (
	VersionMajor = 1
	VersionMinor = 0
)

const (
	magic   = "c64io Snapshot\x1a\x00"
	nameLen = 16
)

// Snapshot is a collection of modules.
type Snapshot struct {
	Machine string
	Major   uint8
	Minor   uint8

	modules []*Module
}

// New is the preferred method of initialisation for the Snapshot type.
func New(machine string) *Snapshot {
	return &Snapshot{
		Machine: machine,
		Major:   VersionMajor,
		Minor:   VersionMinor,
	}
}

// Module is a named and versioned section of the snapshot.
type Module struct {
	Name  string
	Major uint8
	Minor uint8

	data bytes.Buffer

	// read position in data
	pos int
}

// CreateModule adds a new module to the snapshot. A module with the same
// name as an existing module replaces the existing module.
func (s *Snapshot) CreateModule(name string, major uint8, minor uint8) *Module {
	m := &Module{
		Name:  name,
		Major: major,
		Minor: minor,
	}
	for i := range s.modules {
		if s.modules[i].Name == name {
			s.modules[i] = m
			return m
		}
	}
	s.modules = append(s.modules, m)
	return m
}

// Modules returns the names of the modules in the snapshot, in the order
// they were created or read.
func (s *Snapshot) Modules() []string {
	n := make([]string, 0, len(s.modules))
	for _, m := range s.modules {
		n = append(n, m.Name)
	}
	return n
}

// OpenModule returns the named module for reading. ModuleHigherVersion is
// returned if the module was written by a newer version than the caller
// supports.
func (s *Snapshot) OpenModule(name string, maxMajor uint8, maxMinor uint8) (*Module, error) {
	for _, m := range s.modules {
		if m.Name != name {
			continue
		}
		if m.Major > maxMajor || (m.Major == maxMajor && m.Minor > maxMinor) {
			return nil, curated.Errorf(ModuleHigherVersion, m.Major, m.Minor, maxMajor, maxMinor, name)
		}
		m.pos = 0
		return m, nil
	}
	return nil, curated.Errorf(ModuleNotFound, name)
}

func writeName(w *bytes.Buffer, name string) {
	var b [nameLen]byte
	copy(b[:], name)
	w.Write(b[:])
}

func readName(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// Write the snapshot to io.Writer.
func (s *Snapshot) Write(w io.Writer) error {
	var buf bytes.Buffer

	buf.WriteString(magic)
	buf.WriteByte(s.Major)
	buf.WriteByte(s.Minor)
	if len(s.Machine) > nameLen {
		return curated.Errorf(InvalidModuleName, s.Machine)
	}
	writeName(&buf, s.Machine)

	for _, m := range s.modules {
		if len(m.Name) == 0 || len(m.Name) > nameLen {
			return curated.Errorf(InvalidModuleName, m.Name)
		}
		writeName(&buf, m.Name)
		buf.WriteByte(m.Major)
		buf.WriteByte(m.Minor)
		binary.Write(&buf, binary.LittleEndian, uint32(m.data.Len()))
		buf.Write(m.data.Bytes())
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// Read a snapshot from io.Reader.
func Read(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, curated.Errorf(InvalidFile, err)
	}

	hdrLen := len(magic) + 2 + nameLen
	if len(data) < hdrLen {
		return nil, curated.Errorf(Truncated, "header")
	}
	if string(data[:len(magic)]) != magic {
		return nil, curated.Errorf(InvalidFile, "bad magic")
	}

	s := &Snapshot{
		Major:   data[len(magic)],
		Minor:   data[len(magic)+1],
		Machine: readName(data[len(magic)+2 : hdrLen]),
	}
	if s.Major > VersionMajor {
		return nil, curated.Errorf(InvalidFile, "unsupported file version")
	}

	data = data[hdrLen:]
	for len(data) > 0 {
		const modHdrLen = nameLen + 6
		if len(data) < modHdrLen {
			return nil, curated.Errorf(Truncated, "module header")
		}

		m := &Module{
			Name:  readName(data[:nameLen]),
			Major: data[nameLen],
			Minor: data[nameLen+1],
		}
		size := binary.LittleEndian.Uint32(data[nameLen+2:])
		data = data[modHdrLen:]

		if uint64(len(data)) < uint64(size) {
			return nil, curated.Errorf(Truncated, m.Name)
		}
		m.data.Write(data[:size])
		data = data[size:]

		s.modules = append(s.modules, m)
	}

	return s, nil
}

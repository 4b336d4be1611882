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

package tapecart

import (
	"fmt"

	"github.com/jetsetilly/c64io/curated"
	"github.com/jetsetilly/c64io/hardware/tapeport/tapecart/tcrt"
	"github.com/jetsetilly/c64io/logger"
	"github.com/jetsetilly/c64io/snapshot"
)

const (
	snapshotModule = "TAPECART"
	snapshotMajor  = 0
	snapshotMinor  = 0
)

// WriteSnapshot adds the TAPECART module to the snapshot. The progress of a
// fastload or command mode transfer is not saved.
func (tc *Tapecart) WriteSnapshot(s *snapshot.Snapshot) error {
	if !tc.enabled {
		return curated.Errorf(NotEnabled)
	}

	m := s.CreateModule(snapshotModule, snapshotMajor, snapshotMinor)

	for _, f := range []func() error{
		func() error { return m.WriteByte(uint8(tc.mode)) },
		func() error { return m.WriteByte(uint8(tc.requested)) },
		func() error { return m.WriteBool(tc.motor) },
		func() error { return m.WriteBool(tc.writeIn) },
		func() error { return m.WriteBool(tc.senseIn) },
		func() error { return m.WriteWord(tc.shiftReg) },
		func() error { return m.WriteBool(tc.mem.Changed) },
		func() error { return m.WriteWord(tc.mem.DataOffset) },
		func() error { return m.WriteWord(tc.mem.DataLength) },
		func() error { return m.WriteWord(tc.mem.CallAddress) },
		func() error { return m.WriteBytes(tc.mem.Filename[:]) },
		func() error { return m.WriteBytes(tc.mem.Loader[:]) },
		func() error { return m.WriteBytes(tc.debugFlags[:]) },
		func() error { return m.WriteDWord(tc.dir.base) },
		func() error { return m.WriteDWord(tc.dir.entries) },
		func() error { return m.WriteByte(uint8(tc.dir.nameLen)) },
		func() error { return m.WriteByte(uint8(tc.dir.dataLen)) },
		func() error { return m.WriteBytes(tc.mem.Flash) },
	} {
		if err := f(); err != nil {
			return err
		}
	}

	return nil
}

// ReadSnapshot restores the TAPECART module. The tapecart restarts in stream
// mode from the beginning of the stream.
func (tc *Tapecart) ReadSnapshot(s *snapshot.Snapshot) error {
	if !tc.enabled {
		return curated.Errorf(NotEnabled)
	}

	m, err := s.OpenModule(snapshotModule, snapshotMajor, snapshotMinor)
	if err != nil {
		return err
	}

	var mode, requested, nameLen, dataLen uint8
	var motor, writeIn, senseIn bool
	var shiftReg uint16
	var flags [2]byte
	var dir directory

	mem := &Memory{Image: tcrt.Image{Flash: make([]byte, tcrt.FlashSize)}}

	for _, f := range []func() error{
		func() (err error) { mode, err = m.ReadByte(); return },
		func() (err error) { requested, err = m.ReadByte(); return },
		func() (err error) { motor, err = m.ReadBool(); return },
		func() (err error) { writeIn, err = m.ReadBool(); return },
		func() (err error) { senseIn, err = m.ReadBool(); return },
		func() (err error) { shiftReg, err = m.ReadWord(); return },
		func() (err error) { mem.Changed, err = m.ReadBool(); return },
		func() (err error) { mem.DataOffset, err = m.ReadWord(); return },
		func() (err error) { mem.DataLength, err = m.ReadWord(); return },
		func() (err error) { mem.CallAddress, err = m.ReadWord(); return },
		func() error { return m.ReadBytes(mem.Filename[:]) },
		func() error { return m.ReadBytes(mem.Loader[:]) },
		func() error { return m.ReadBytes(flags[:]) },
		func() (err error) { dir.base, err = m.ReadDWord(); return },
		func() (err error) { dir.entries, err = m.ReadDWord(); return },
		func() (err error) { nameLen, err = m.ReadByte(); return },
		func() (err error) { dataLen, err = m.ReadByte(); return },
		func() error { return m.ReadBytes(mem.Flash) },
	} {
		if err := f(); err != nil {
			return err
		}
	}

	dir.nameLen = uint32(nameLen)
	dir.dataLen = uint32(dataLen)

	if dir.nameLen > tcrt.FilenameSize || dir.entries > 0xffff {
		return curated.Errorf(BadSnapshot, fmt.Sprintf("invalid directory: entries %d name length %d", dir.entries, dir.nameLen))
	}
	if !mem.validRange(dir.base, dir.entries*(dir.nameLen+dir.dataLen)) {
		return curated.Errorf(BadSnapshot, fmt.Sprintf("directory beyond end of flash memory: base %#x entries %d", dir.base, dir.entries))
	}

	tc.mem = mem
	tc.motor = motor
	tc.writeIn = writeIn
	tc.senseIn = senseIn
	tc.shiftReg = shiftReg
	tc.debugFlags = flags
	tc.dir = dir

	logger.Logf(tc.verbosity(1), logTag, "restored from %s mode (requested %s)", Mode(mode), Mode(requested))

	tc.setMode(ModeReinit)

	return nil
}

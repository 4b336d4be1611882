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
	"bytes"
	"encoding/binary"
	"hash/crc32"

	"github.com/jetsetilly/c64io/hardware/tapeport/tapecart/tcrt"
	"github.com/jetsetilly/c64io/logger"
)

// command mode commands
const (
	cmdExit             = 0x00
	cmdReadDeviceInfo   = 0x01
	cmdReadDeviceSizes  = 0x02
	cmdReadCapabilities = 0x03

	cmdReadFlash       = 0x10
	cmdReadFlashFast   = 0x11
	cmdWriteFlash      = 0x12
	cmdEraseFlash64K   = 0x14
	cmdEraseFlashBlock = 0x15
	cmdCRC32Flash      = 0x16

	cmdReadLoader    = 0x20
	cmdReadLoadInfo  = 0x21
	cmdWriteLoader   = 0x22
	cmdWriteLoadInfo = 0x23

	cmdLEDOff          = 0x30
	cmdLEDOn           = 0x31
	cmdReadDebugFlags  = 0x32
	cmdWriteDebugFlags = 0x33

	cmdDirSetParams = 0x40
	cmdDirLookup    = 0x41
)

// reply to cmdReadDeviceInfo, including the terminating zero
var deviceInfo = []byte("TAPECART V1.0 W25QFLASH\x00")

// size of the load-info block sent and received by the loadinfo commands
const loadInfoSize = 6 + tcrt.FilenameSize

// directory lookup parameters
type directory struct {
	base    uint32
	entries uint32
	nameLen uint32
	dataLen uint32
}

func u24(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

func putU24(b []byte, v uint32) {
	b[0] = uint8(v)
	b[1] = uint8(v >> 8)
	b[2] = uint8(v >> 16)
}

// commandInit is the first step of command mode. The computer acknowledges
// the mode change by raising the write line.
func (tc *Tapecart) commandInit() uint64 {
	tc.setSense(true)
	tc.waitOp = opSendPulses
	tc.wait = waitWriteHigh
	return 0
}

// flux changes are sent until the computer lowers the write line.
func (tc *Tapecart) sendPulses() uint64 {
	tc.waitOp = opReceiveCommand
	tc.wait = waitWriteLow
	tc.alarmOp = opSendPulses
	tc.port.TriggerFluxChange()
	return pulseShort * pulseCycles
}

func (tc *Tapecart) receiveCommand() uint64 {
	tc.logic.Unset()
	return tc.receive1Bit(0, tc.buf[:1], opDispatchCommand)
}

func (tc *Tapecart) dispatchCommand() uint64 {
	cmd := tc.buf[0]
	logger.Logf(tc.verbosity(1), logTag, "received command %#02x", cmd)

	switch cmd {
	case cmdExit:
		tc.setMode(ModeStream)

	case cmdReadDeviceInfo:
		return tc.transmit1Bit(0, deviceInfo, opReceiveCommand)

	case cmdReadDeviceSizes:
		putU24(tc.buf[0:], tcrt.FlashSize)
		binary.LittleEndian.PutUint16(tc.buf[3:], flashPageSize)
		binary.LittleEndian.PutUint16(tc.buf[5:], flashEraseSize/flashPageSize)
		return tc.transmit1Bit(0, tc.buf[:7], opReceiveCommand)

	case cmdReadCapabilities:
		// no extended capabilities
		clear(tc.buf[:4])
		return tc.transmit1Bit(0, tc.buf[:4], opReceiveCommand)

	case cmdReadFlash:
		return tc.receive1Bit(0, tc.buf[:5], opReadFlash)

	case cmdReadFlashFast:
		return tc.receive1Bit(0, tc.buf[:5], opReadFlashFast)

	case cmdWriteFlash:
		return tc.receive1Bit(0, tc.buf[:5], opWriteFlash)

	case cmdEraseFlash64K:
		return tc.receive1Bit(0, tc.buf[:3], opErase64K)

	case cmdEraseFlashBlock:
		return tc.receive1Bit(0, tc.buf[:3], opEraseBlock)

	case cmdCRC32Flash:
		return tc.receive1Bit(0, tc.buf[:6], opCRC32)

	case cmdReadLoader:
		return tc.transmit1Bit(0, tc.mem.Loader[:], opReceiveCommand)

	case cmdReadLoadInfo:
		binary.LittleEndian.PutUint16(tc.buf[0:], tc.mem.DataOffset)
		binary.LittleEndian.PutUint16(tc.buf[2:], tc.mem.DataLength)
		binary.LittleEndian.PutUint16(tc.buf[4:], tc.mem.CallAddress)
		copy(tc.buf[6:], tc.mem.Filename[:])
		return tc.transmit1Bit(0, tc.buf[:loadInfoSize], opReceiveCommand)

	case cmdWriteLoader:
		tc.mem.Changed = true
		return tc.receive1Bit(0, tc.mem.Loader[:], opReceiveCommand)

	case cmdWriteLoadInfo:
		return tc.receive1Bit(0, tc.buf[:loadInfoSize], opWriteLoadInfo)

	case cmdLEDOff, cmdLEDOn:
		// no parameters and no reply
		return tc.receiveCommand()

	case cmdReadDebugFlags:
		// debug flags are stored but otherwise ignored
		return tc.transmit1Bit(0, tc.debugFlags[:], opReceiveCommand)

	case cmdWriteDebugFlags:
		return tc.receive1Bit(0, tc.debugFlags[:], opReceiveCommand)

	case cmdDirSetParams:
		return tc.receive1Bit(0, tc.buf[:7], opDirSetParams)

	case cmdDirLookup:
		if tc.dir.nameLen > 0 {
			return tc.receive1Bit(0, tc.buf[:tc.dir.nameLen], opDirLookup)
		}
		return tc.cmdDirLookup()

	default:
		logger.Logf(tc.verbosity(1), logTag, "unknown command %#02x: switching to stream mode", cmd)
		tc.setMode(ModeStream)
	}

	return 0
}

// the address and length parameters of the read commands. an invalid range
// is logged and the address is reset to zero
func (tc *Tapecart) flashRange(what string, length uint32) uint32 {
	addr := u24(tc.buf[0:])
	if !tc.mem.validRange(addr, length) {
		logger.Logf(tc.env, logTag, "%s beyond end of flash memory: address %#x length %#04x", what, addr, length)
		return 0
	}
	return addr
}

func (tc *Tapecart) cmdReadFlash(fast bool) uint64 {
	length := uint32(binary.LittleEndian.Uint16(tc.buf[3:]))
	addr := tc.flashRange("read", length)
	logger.Logf(tc.verbosity(2), logTag, "reading %d bytes from flash address %#x", length, addr)

	data := tc.mem.Flash[addr : addr+length]
	if fast {
		return tc.transmitFast(1, data, opReceiveCommand)
	}
	return tc.transmit1Bit(4, data, opReceiveCommand)
}

func (tc *Tapecart) cmdWriteFlash() uint64 {
	tc.flashLength = uint32(binary.LittleEndian.Uint16(tc.buf[3:]))
	tc.flashAddress = tc.flashRange("write", tc.flashLength)
	logger.Logf(tc.verbosity(2), logTag, "writing %d bytes to flash address %#x", tc.flashLength, tc.flashAddress)

	// the first block ends at a page boundary
	block := uint32(flashPageSize) - tc.flashAddress&(flashPageSize-1)
	tc.blockLength = min(block, tc.flashLength)

	return tc.receive1Bit(tc.pageWriteTime, tc.buf[:tc.blockLength], opWriteFlashPage)
}

func (tc *Tapecart) cmdWriteFlashPage() uint64 {
	if a := tc.mem.WriteFlash(tc.flashAddress, tc.buf[:tc.blockLength]); a >= 0 {
		logger.Logf(tc.verbosity(1), logTag, "write to non-erased address at %#x", a)
	}

	tc.flashAddress += tc.blockLength
	tc.flashLength -= tc.blockLength

	if tc.flashLength > 0 {
		tc.blockLength = min(flashPageSize, tc.flashLength)
		return tc.receive1Bit(tc.pageWriteTime, tc.buf[:tc.blockLength], opWriteFlashPage)
	}

	tc.alarmOp = opReceiveCommand
	return tc.pageWriteTime
}

func (tc *Tapecart) cmdErase(size uint32, delay uint64) uint64 {
	addr := u24(tc.buf[0:])
	if !tc.mem.validRange(addr, 0) {
		logger.Logf(tc.env, logTag, "erase beyond end of flash memory: address %#x", addr)
	} else {
		addr = tc.mem.Erase(addr, size)
		logger.Logf(tc.verbosity(2), logTag, "erasing %d bytes from flash address %#x", size, addr)
	}

	// typical erase time of the flash
	tc.alarmOp = opReceiveCommand
	return delay
}

func (tc *Tapecart) cmdCRC32() uint64 {
	addr := u24(tc.buf[0:])
	length := u24(tc.buf[3:])
	if !tc.mem.validRange(addr, length) {
		logger.Logf(tc.env, logTag, "CRC32 beyond end of flash memory: address %#x length %#x", addr, length)
		addr = 0
		length = 1
	}
	logger.Logf(tc.verbosity(2), logTag, "calculating CRC32 from flash address %#x length %d", addr, length)

	crc := crc32.ChecksumIEEE(tc.mem.Flash[addr : addr+length])
	binary.LittleEndian.PutUint32(tc.buf[0:], crc)

	return tc.transmit1Bit(4*uint64(length), tc.buf[:4], opReceiveCommand)
}

func (tc *Tapecart) cmdWriteLoadInfo() uint64 {
	tc.mem.DataOffset = binary.LittleEndian.Uint16(tc.buf[0:])
	tc.mem.DataLength = binary.LittleEndian.Uint16(tc.buf[2:])
	tc.mem.CallAddress = binary.LittleEndian.Uint16(tc.buf[4:])
	copy(tc.mem.Filename[:], tc.buf[6:loadInfoSize])
	tc.mem.Changed = true

	logger.Logf(tc.verbosity(2), logTag, "write loadinfo: offset %#04x length %d call %#04x",
		tc.mem.DataOffset, tc.mem.DataLength, tc.mem.CallAddress)

	return tc.receiveCommand()
}

func (tc *Tapecart) cmdDirSetParams() uint64 {
	tc.dir = directory{
		base:    u24(tc.buf[0:]),
		entries: uint32(binary.LittleEndian.Uint16(tc.buf[3:])),
		nameLen: min(uint32(tc.buf[5]), tcrt.FilenameSize),
		dataLen: uint32(tc.buf[6]),
	}

	if !tc.mem.validRange(tc.dir.base, tc.dir.entries*(tc.dir.nameLen+tc.dir.dataLen)) {
		logger.Logf(tc.env, logTag, "directory beyond end of flash memory: base %#x name length %d data length %d",
			tc.dir.base, tc.dir.nameLen, tc.dir.dataLen)
		tc.dir.base = 0
		tc.dir.entries = 1
	}

	logger.Logf(tc.verbosity(2), logTag, "directory: base %#x entries %d name length %d data length %d",
		tc.dir.base, tc.dir.entries, tc.dir.nameLen, tc.dir.dataLen)

	return tc.receiveCommand()
}

// the processing delays of the directory lookup are a rough estimate.
func (tc *Tapecart) cmdDirLookup() uint64 {
	d := tc.dir
	stride := d.nameLen + d.dataLen

	for i := range d.entries {
		p := d.base + i*stride
		if bytes.Equal(tc.buf[:d.nameLen], tc.mem.Flash[p:p+d.nameLen]) {
			tc.buf[0] = 0
			copy(tc.buf[1:], tc.mem.Flash[p+d.nameLen:p+stride])
			logger.Logf(tc.verbosity(2), logTag, "directory lookup found entry %d", i)
			return tc.transmit1Bit(uint64(stride*(i+1)), tc.buf[:1+d.dataLen], opReceiveCommand)
		}
	}

	logger.Log(tc.verbosity(2), logTag, "directory lookup failed")
	tc.buf[0] = 1
	return tc.transmit1Bit(uint64(stride*d.entries), tc.buf[:1], opReceiveCommand)
}

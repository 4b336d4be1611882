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
	"github.com/jetsetilly/c64io/logger"
)

// operation is a step in one of the protocols that is waiting to be resumed,
// either by the logic alarm or by a change on one of the tape port lines.
type operation int

const (
	opNone operation = iota

	// 2-bit transfer, used by fastload and READ_FLASH_FAST
	opNibbleAdvance
	opByteAdvance
	opFastloadPostDelay
	opFastloadComplete

	// 1-bit transfer
	opReceiveBit
	opReceiveDelayed
	opTransmitBit
	opTransmitDelayed

	// command mode
	opCommandInit
	opSendPulses
	opReceiveCommand
	opDispatchCommand
	opReadFlash
	opReadFlashFast
	opWriteFlash
	opWriteFlashPage
	opErase64K
	opEraseBlock
	opCRC32
	opWriteLoadInfo
	opDirSetParams
	opDirLookup
)

// wait is a line condition that resumes an operation.
type wait int

const (
	waitNone wait = iota
	waitWriteLow
	waitWriteHigh
	waitSenseLow
	waitSenseHigh
)

// the states of the 2-bit transfer. the order is important
type fastState int

const (
	fastInit fastState = iota
	fastWaitWriteHigh
	fastBits54
	fastBits76
	fastBits10
	fastBits32
	fastHoldDone
	fastWaitWriteLow
	fastBusyDelay
)

type rxState int

const (
	rxReceive rxState = iota
	rxWaitWriteLow
	rxWaitSenseHigh
	rxWaitSenseLow
	rxDelay
	rxProcessing
)

type txState int

const (
	txPrepareSend txState = iota
	txSend
	txWaitWriteHigh
	txWaitWriteLow
	txProcessing
)

// transfer is the state of a transfer of a buffer in either direction.
type transfer struct {
	// buffer being sent or received into. the buffer may be a slice of the
	// tapecart memory
	buf []byte
	pos int
	bit int

	// the byte being shifted in or out
	b uint8

	// operation to resume when the transfer is complete
	complete operation

	fast fastState
	rx   rxState
	tx   txState
}

func (x *transfer) remaining() int {
	return len(x.buf) - x.pos
}

// resume the operation. Returns the number of cycles before the logic alarm
// should be triggered, or zero if no alarm is required.
func (tc *Tapecart) resume(op operation) uint64 {
	switch op {
	case opNibbleAdvance:
		return tc.nibbleAdvance()
	case opByteAdvance:
		return tc.byteAdvance()
	case opFastloadPostDelay:
		tc.alarmOp = opFastloadComplete
		return tc.env.ClockRate() / 5
	case opFastloadComplete:
		tc.setMode(ModeStream)
		return 0
	case opReceiveBit:
		return tc.receiveBit()
	case opReceiveDelayed, opTransmitDelayed:
		tc.setSense(true)
		tc.wait = waitWriteHigh
		return 0
	case opTransmitBit:
		return tc.transmitBit()
	case opCommandInit:
		return tc.commandInit()
	case opSendPulses:
		return tc.sendPulses()
	case opReceiveCommand:
		return tc.receiveCommand()
	case opDispatchCommand:
		return tc.dispatchCommand()
	case opReadFlash:
		return tc.cmdReadFlash(false)
	case opReadFlashFast:
		return tc.cmdReadFlash(true)
	case opWriteFlash:
		return tc.cmdWriteFlash()
	case opWriteFlashPage:
		return tc.cmdWriteFlashPage()
	case opErase64K:
		return tc.cmdErase(flash64K, tc.erase64KTime)
	case opEraseBlock:
		return tc.cmdErase(flashEraseSize, tc.eraseBlockTime)
	case opCRC32:
		return tc.cmdCRC32()
	case opWriteLoadInfo:
		return tc.cmdWriteLoadInfo()
	case opDirSetParams:
		return tc.cmdDirSetParams()
	case opDirLookup:
		return tc.cmdDirLookup()
	}

	logger.Logf(tc.env, logTag, "resuming unhandled operation %d in %s mode", op, tc.mode)
	return 0
}

// transmitFast starts a 2-bit transfer of the buffer after the delay.
func (tc *Tapecart) transmitFast(delay uint64, buf []byte, complete operation) uint64 {
	if len(buf) == 0 {
		tc.alarmOp = complete
		return max(delay, 1)
	}

	tc.xfer = transfer{
		buf:      buf,
		complete: complete,
		fast:     fastInit,
	}
	tc.alarmOp = opNibbleAdvance
	return delay
}

// the delays in the 2-bit transfer assume that one cycle is one microsecond.
func (tc *Tapecart) nibbleAdvance() uint64 {
	x := &tc.xfer
	x.fast++

	switch x.fast {
	case fastWaitWriteHigh:
		tc.waitOp = opNibbleAdvance
		tc.wait = waitWriteHigh
		x.b = x.buf[x.pos]
		x.pos++

		// clear busy indication
		tc.setSense(tc.mode != ModeFastload)
		return 0

	case fastBits54:
		tc.setSense(x.b&0x20 == 0x20)
		tc.setWrite(x.b&0x10 == 0x10)
		tc.alarmOp = opNibbleAdvance
		return 9

	case fastBits76:
		tc.setSense(x.b&0x80 == 0x80)
		tc.setWrite(x.b&0x40 == 0x40)
		return 9

	case fastBits10:
		tc.setSense(x.b&0x02 == 0x02)
		tc.setWrite(x.b&0x01 == 0x01)
		return 9

	case fastBits32:
		tc.setSense(x.b&0x08 == 0x08)
		tc.setWrite(x.b&0x04 == 0x04)
		return 10

	case fastHoldDone:
		tc.setSense(true)
		tc.setWrite(true)
		return 1

	case fastWaitWriteLow:
		tc.waitOp = opNibbleAdvance
		tc.wait = waitWriteLow
		return 0

	case fastBusyDelay:
		// set busy indication
		tc.setSense(tc.mode == ModeFastload)
		tc.alarmOp = opByteAdvance
		return 1
	}

	logger.Logf(tc.env, logTag, "2-bit transfer in unhandled state %d", x.fast)
	return 0
}

func (tc *Tapecart) byteAdvance() uint64 {
	if tc.xfer.remaining() > 0 {
		tc.xfer.fast = fastInit
		return tc.nibbleAdvance()
	}
	return tc.resume(tc.xfer.complete)
}

// receive1Bit starts receiving len(buf) bytes. Bits are clocked by the write
// line and the data is on the sense line.
func (tc *Tapecart) receive1Bit(delay uint64, buf []byte, complete operation) uint64 {
	if len(buf) == 0 {
		logger.Log(tc.env, logTag, "1-bit receive of zero length")
		return tc.resume(complete)
	}

	tc.xfer = transfer{
		buf:      buf,
		complete: complete,
		rx:       rxReceive,
	}
	tc.waitOp = opReceiveBit

	if delay > 0 {
		tc.alarmOp = opReceiveDelayed
		return delay
	}

	tc.setSense(true)
	tc.wait = waitWriteHigh
	return 0
}

func (tc *Tapecart) receiveBit() uint64 {
	x := &tc.xfer

	switch x.rx {
	case rxReceive:
		x.b <<= 1
		if tc.senseIn {
			x.b |= 0x01
		}
		x.bit++

		if x.bit == 8 {
			x.buf[x.pos] = x.b
			x.pos++
			x.bit = 0
			x.b = 0
			tc.wait = waitWriteLow
			x.rx = rxWaitWriteLow
		} else {
			tc.wait = waitWriteHigh
		}

	case rxWaitWriteLow:
		// waits only trigger on a change so sense may already be high
		if !tc.senseIn {
			tc.wait = waitSenseHigh
			x.rx = rxWaitSenseHigh
			break
		}
		tc.wait = waitSenseLow
		x.rx = rxWaitSenseLow

	case rxWaitSenseHigh:
		tc.wait = waitSenseLow
		x.rx = rxWaitSenseLow

	case rxWaitSenseLow:
		x.rx = rxDelay
		tc.alarmOp = opReceiveBit
		return tc.env.ClockRate() / 100000

	case rxDelay:
		tc.setSense(false)
		x.rx = rxProcessing
		return 5

	case rxProcessing:
		if x.remaining() > 0 {
			tc.wait = waitWriteHigh
			x.rx = rxReceive
			tc.setSense(true)
			break
		}
		return tc.resume(x.complete)
	}

	return 0
}

// transmit1Bit starts sending the buffer. Bits are clocked by the write line
// and the data is on the sense line.
func (tc *Tapecart) transmit1Bit(delay uint64, buf []byte, complete operation) uint64 {
	if len(buf) == 0 {
		logger.Log(tc.env, logTag, "1-bit transmit of zero length")
		return tc.resume(complete)
	}

	tc.xfer = transfer{
		buf:      buf,
		complete: complete,
		tx:       txPrepareSend,
	}
	tc.waitOp = opTransmitBit

	if delay > 0 {
		tc.alarmOp = opTransmitDelayed
		return delay
	}

	tc.setSense(true)
	tc.wait = waitWriteHigh
	return 0
}

func (tc *Tapecart) transmitBit() uint64 {
	x := &tc.xfer

	switch x.tx {
	case txPrepareSend:
		tc.wait = waitWriteLow
		x.tx = txSend
		x.b = x.buf[x.pos]

	case txSend:
		tc.setSense(x.b&0x80 == 0x80)
		x.b <<= 1
		x.bit++

		if x.bit == 8 {
			x.pos++
			x.bit = 0
			tc.wait = waitWriteHigh
			x.tx = txWaitWriteHigh
		} else {
			tc.wait = waitWriteLow
		}

	case txWaitWriteHigh:
		tc.wait = waitWriteLow
		x.tx = txWaitWriteLow

	case txWaitWriteLow:
		tc.setSense(false)
		x.tx = txProcessing
		tc.alarmOp = opTransmitBit
		return 5

	case txProcessing:
		if x.remaining() > 0 {
			tc.wait = waitWriteHigh
			x.tx = txPrepareSend
			tc.setSense(true)
			break
		}
		return tc.resume(x.complete)
	}

	return 0
}

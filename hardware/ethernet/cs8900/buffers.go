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

package cs8900

import (
	"github.com/jetsetilly/c64io/hardware/ethernet/rawnet"
	"github.com/jetsetilly/c64io/logger"
)

// readRxBuffer returns the next byte of the received frame.
//
// RxStatus and RxLength are read high byte first. The frame data that follows
// is read low byte first.
func (c *CS8900) readRxBuffer(odd bool) uint8 {
	if c.rx.state != RxGotFrame {
		return 0
	}

	var addr uint16
	if odd {
		addr = 1
	}

	var v uint8
	if c.rx.count < 4 {
		v = c.pp.MustGet8(c.rx.buffer + addr)
		c.rx.count++
		if !odd {
			c.rx.buffer += 2
		}
	} else {
		// the first word of frame data is at the address left by the header
		if c.rx.count >= 6 && !odd {
			c.rx.buffer += 2
		}
		v = c.pp.MustGet8(c.rx.buffer + addr)
		c.rx.count++
	}

	if c.rx.count >= c.rx.length+4 {
		c.rx.state = RxIdle
	}

	return v
}

// writeTxBuffer adds the byte to the frame being transmitted. the frame is
// sent to the host once the number of bytes given by TxLength have been
// written.
func (c *CS8900) writeTxBuffer(v uint8, odd bool) {
	if c.tx.state != TxReadBusST {
		// a transmission that was refused still needs the status cleared
		c.setTxStatus(false, false)
		return
	}

	addr := c.tx.buffer
	if odd {
		addr++
		c.tx.buffer += 2
	}
	c.tx.count++
	c.pp.MustSet8(addr, v)

	if c.tx.count != c.tx.length {
		return
	}

	if c.tx.enabled {
		cmd := c.pp.MustGet16(PPCCTxCmd)
		flags := rawnet.TxFlags{
			Force:      cmd&txCmdForce == txCmdForce,
			OneColl:    cmd&txCmdOneColl == txCmdOneColl,
			InhibitCRC: cmd&txCmdInhibitCRC == txCmdInhibitCRC,
			TxPadDis:   cmd&txCmdTxPadDis == txCmdTxPadDis,
		}
		frame, err := c.pp.Bytes(PPTxFrame, c.tx.length)
		if err != nil {
			logger.Logf(logger.Allow, logTag, "transmit: %v", err)
		} else {
			c.host.Transmit(flags, frame)
		}
	} else {
		logger.Log(c.env, logTag, "frame not sent: transmitter is not enabled")
	}

	c.tx.state = TxIdle
	c.setTxStatus(false, false)
}

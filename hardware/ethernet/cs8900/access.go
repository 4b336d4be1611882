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
	"fmt"

	"github.com/jetsetilly/c64io/hardware/ethernet/packetpage"
	"github.com/jetsetilly/c64io/hardware/ethernet/rawnet"
	"github.com/jetsetilly/c64io/logger"
)

func checkAddr(addr uint8) {
	if addr >= packetpage.IOSize {
		panic(fmt.Sprintf("cs8900: I/O address out of range ($%02x)", addr))
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// the PacketPage pointer is incremented by one after every access through
// the data ports if the auto-increment flag is set.
func (c *CS8900) autoIncrement() {
	if c.ptr&ppPtrAutoIncr == ppPtrAutoIncr {
		c.ptr = ((c.ptr & ppPtrAddrMask) + 1) | (c.ptr & ppPtrFlagMask)
	}
}

// ppAddress returns the PacketPage address that a port refers to. the
// pointer is incremented for the data ports.
func (c *CS8900) ppAddress(base uint8) uint16 {
	switch base {
	case PortPPData, PortPPData2:
		addr := (c.ptr & ppPtrAddrMask) &^ 1
		c.autoIncrement()
		return addr
	case PortISQ:
		return PPISQ
	case PortTxCmd:
		return PPTxCmd
	case PortTxLength:
		return PPTxLength
	}
	panic(fmt.Sprintf("cs8900: no PacketPage address for port $%02x", base))
}

// Read a byte from the I/O registers. Reading may have side effects on the
// state of the chip.
func (c *CS8900) Read(addr uint8) uint8 {
	checkAddr(addr)
	if !c.IsActive() {
		return 0
	}

	base := addr &^ 1
	odd := addr&1 == 1

	// reading the data port reads directly from the receive buffer
	if base == PortRxTxData || base == PortRxTxData2 {
		return c.readRxBuffer(odd)
	}

	var v uint16
	if base == PortPPPtr {
		v = c.ptr
	} else {
		pp := c.ppAddress(base)
		c.readSideEffects(pp, odd)
		v = c.readRegister(pp)
	}

	c.io.MustSet16(base, v)

	if odd {
		return uint8(v >> 8)
	}
	return uint8(v)
}

// Peek is the same as Read except that it has no side effects, except that a
// peek of the PacketPage data ports still increments the PacketPage pointer.
func (c *CS8900) Peek(addr uint8) uint8 {
	checkAddr(addr)
	if !c.IsActive() {
		return 0
	}

	base := addr &^ 1

	if base == PortRxTxData || base == PortRxTxData2 {
		return 0
	}

	var v uint16
	if base == PortPPPtr {
		v = c.ptr
	} else {
		v = c.readRegister(c.ppAddress(base))
	}

	if addr&1 == 1 {
		return uint8(v >> 8)
	}
	return uint8(v)
}

// Store a byte in the I/O registers. The byte is combined with the other half
// of the 16 bit register before being written to the PacketPage.
func (c *CS8900) Store(addr uint8, data uint8) {
	checkAddr(addr)
	if !c.IsActive() {
		return
	}

	base := addr &^ 1
	odd := addr&1 == 1

	// writing the data port writes directly to the transmit buffer
	if base == PortRxTxData || base == PortRxTxData2 {
		c.writeTxBuffer(data, odd)
		return
	}

	var v uint16
	if odd {
		v = uint16(c.io.MustGet8(base)) | uint16(data)<<8
	} else {
		v = uint16(data) | uint16(c.io.MustGet8(base+1))<<8
	}

	if base == PortPPPtr {
		// odd pointer values are allowed. only the accesses through the
		// data ports are word aligned
		v |= ppPtrFixed
		c.ptr = v
	} else {
		pp := c.ppAddress(base)
		c.writeRegister(pp, v)
		c.writeSideEffects(pp, odd)

		// the register may have been changed by the write rules or by a side
		// effect
		v = c.pp.MustGet16(pp)
	}

	c.io.MustSet16(base, v)
}

// readRegister returns the value of the PacketPage register. reserved
// registers read as 0x0300 and the frame buffers read as zero.
func (c *CS8900) readRegister(pp uint16) uint16 {
	v := c.pp.MustGet16(pp)

	switch {
	case pp < 0x0100:
		if pp >= 0x0004 && pp < 0x0020 {
			return reserved
		}
	case pp < 0x0120:
		reg := ((pp - 0x0100) &^ 1) + 1
		if reg == 0x01 || reg == 0x11 || reg > 0x19 {
			return reserved
		}
	case pp < 0x0140:
		switch (pp - 0x0120) &^ 1 {
		case 0x02, 0x06, 0x0a, 0x0e, 0x1a, 0x1e:
			return reserved
		}
	case pp < 0x0150:
		if pp != PPTxCmd && pp != PPTxLength {
			return reserved
		}
	case pp < 0x0160:
		if pp >= 0x015e {
			return reserved
		}
	case pp < PPRxStatus:
		return reserved
	default:
		return 0
	}

	return v
}

// writeRegister writes the value to the PacketPage register. writes to
// read-only and reserved registers are ignored.
func (c *CS8900) writeRegister(pp uint16, v uint16) {
	switch {
	case pp < 0x0100:
		if pp < 0x0020 || (pp >= 0x0026 && pp < 0x002c) || pp == 0x0038 || pp >= 0x0044 {
			return
		}
	case pp < 0x0120:
		// the low six bits of a control register are the register number
		reg := ((pp - 0x0100) &^ 1) + 1
		v = (v &^ 0x3f) | reg
		if reg == 0x01 || reg == 0x11 || reg > 0x19 {
			return
		}
	case pp < 0x0140:
		// status registers
		return
	case pp < 0x0150:
		switch {
		case pp == PPTxCmd:
			v = (v &^ 0x3f) | txCmdRegister
			v &= 0x33ff
		case pp == PPTxLength:
			v &= 0x0fff
		case pp < PPTxCmd || pp > PPTxLength+1:
			return
		}
	case pp < 0x0160:
		if pp >= 0x015e {
			return
		}
	default:
		return
	}

	c.pp.MustSet16(pp, v)
}

// writeSideEffects is called after the PacketPage register has been written.
func (c *CS8900) writeSideEffects(pp uint16, odd bool) {
	content := c.pp.MustGet16(pp)

	var oddByte uint16
	if odd {
		oddByte = 1
	}

	switch pp {
	case PPRxCfg:
		// remove the current transmission and restore the state
		if content&rxCfgSkip1 == rxCfgSkip1 {
			c.tx.state = TxIdle
			c.setTransmitter(c.tx.enabled)

			// the bit acts once
			c.pp.MustSet16(pp, content&^rxCfgSkip1)
		}

	case PPRxCtl:
		if c.recvControl == content {
			return
		}
		c.recvControl = content

		f := &c.filter
		f.broadcast = content&rxCtlBroadcast == rxCtlBroadcast
		f.ia = content&rxCtlIA == rxCtlIA
		f.multicast = content&rxCtlMulticast == rxCtlMulticast
		f.correct = content&rxCtlCorrect == rxCtlCorrect
		f.promiscuous = content&rxCtlPromiscuous == rxCtlPromiscuous
		f.hashfilter = content&rxCtlIAHash == rxCtlIAHash

		logger.Logf(c.env, logTag, "setup receiver: broadcast=%s, mac=%s, multicast=%s, correct=%s, promisc=%s, hashfilter=%s",
			onOff(f.broadcast), onOff(f.ia), onOff(f.multicast), onOff(f.correct), onOff(f.promiscuous), onOff(f.hashfilter))

		c.host.RecvCtl(rawnet.RecvCtl{
			Broadcast:   f.broadcast,
			IA:          f.ia,
			Multicast:   f.multicast,
			Correct:     f.correct,
			Promiscuous: f.promiscuous,
			IAHash:      f.hashfilter,
		})

	case PPLineCtl:
		tx := content&lineCtlSerTxOn == lineCtlSerTxOn
		rx := content&lineCtlSerRxOn == lineCtlSerRxOn
		if tx != c.tx.enabled || rx != c.rx.enabled {
			c.host.LineCtl(tx, rx)
			c.setTransmitter(tx)
			c.setReceiver(rx)
			logger.Logf(c.env, logTag, "line control: transmitter %s, receiver %s", onOff(tx), onOff(rx))
		}

	case PPSelfCtl:
		if content&selfCtlReset == selfCtlReset {
			c.Reset()
		}

	case PPTxCmd:
		if !odd {
			return
		}
		if c.tx.state == TxReadBusST {
			logger.Log(c.env, logTag, "transmit command while transmission in progress")
		}

		// the transmit status command holds the last transmit command
		c.pp.MustSet16(PPCCTxCmd, content)
		c.tx.state = TxGotCmd
		c.setTxStatus(false, false)

	case PPTxLength:
		if !odd || c.tx.state != TxGotCmd {
			return
		}

		cmd := c.pp.MustGet16(PPCCTxCmd)
		length := int(content)

		switch {
		case length < MinTxLength:
			// space is available but the frame is not committed
			c.tx.state = TxIdle
			c.setTxStatus(true, false)
		case length > MaxTxLength || (length > MaxTxLength-4 && cmd&txCmdInhibitCRC == 0):
			c.tx.state = TxIdle
			c.setTxStatus(false, true)
		default:
			c.tx.buffer = PPTxFrame
			c.tx.count = 0
			c.tx.length = length
			c.tx.state = TxGotLen
			c.setTxStatus(true, false)
		}

	case PPAddrFilter, PPAddrFilter + 2, PPAddrFilter + 4, PPAddrFilter + 6:
		pos := 8 * (pp - PPAddrFilter + oddByte)
		m := &c.filter.hashMask[pos/32]
		*m &^= uint32(0xff) << (pos % 32)
		*m |= uint32(c.pp.MustGet8(pp+oddByte)) << (pos % 32)
		c.host.SetHashFilter(c.filter.hashMask)

		if odd && pp == PPAddrFilter+6 {
			logger.Logf(c.env, logTag, "set hash filter: %08x %08x", c.filter.hashMask[0], c.filter.hashMask[1])
		}

	case PPMAC, PPMAC + 2, PPMAC + 4:
		c.filter.mac[pp-PPMAC+oddByte] = c.pp.MustGet8(pp + oddByte)
		c.host.SetMAC(c.filter.mac)

		if odd && pp == PPMAC+4 {
			m := c.filter.mac
			logger.Logf(c.env, logTag, "set MAC address: %02x:%02x:%02x:%02x:%02x:%02x", m[0], m[1], m[2], m[3], m[4], m[5])
		}
	}
}

// readSideEffects is called before the PacketPage register is read.
func (c *CS8900) readSideEffects(pp uint16, odd bool) {
	switch pp {
	case PPRxEvent:
		// a new frame is only pulled from the host once both bytes of the
		// previous event have been read, in either order
		access := uint8(0x02)
		if odd {
			access = 0x01
		}

		if access&c.rx.eventMask != 0 {
			if c.rx.enabled {
				status := c.receive()

				// RxStatus keeps the value until the next frame is pulled
				c.pp.MustSet16(PPRxStatus, status)
				c.pp.MustSet16(PPRxEvent, status)
			} else {
				logger.Log(c.env, logTag, "RxEvent read while receiver is disabled")
			}
			c.rx.eventMask = access
		} else {
			c.rx.eventMask |= access
		}

	case PPBusSt:
		if odd && c.tx.state == TxGotLen {
			if c.pp.MustGet16(PPBusSt)&busStRdy4TxNow == busStRdy4TxNow {
				c.tx.state = TxReadBusST
			}
		}
	}
}

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
	"hash/crc32"

	"github.com/jetsetilly/c64io/hardware/ethernet/rawnet"
	"github.com/jetsetilly/c64io/logger"
)

// length of a destination address.
const daLength = 6

// hashIndex returns the index into the logical address filter for the
// destination address.
func hashIndex(da []byte) int {
	return int((^crc32.ChecksumIEEE(da[:daLength]) >> 26) & 0x3f)
}

// ShouldAccept checks the destination address of the frame against the
// receive filter. It implements the rawnet.ShouldAcceptFunc type.
func (c *CS8900) ShouldAccept(frame []byte) rawnet.Acceptance {
	var acc rawnet.Acceptance

	if len(frame) < daLength {
		return acc
	}

	f := &c.filter

	if [daLength]byte(frame[:daLength]) == f.mac {
		// an exact match is never tested against the hash filter
		acc.CorrectMAC = true
		acc.Accept = f.ia || f.promiscuous
		return acc
	}

	if [daLength]byte(frame[:daLength]) == [daLength]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff} {
		// broadcasts are never accepted by the hash filter
		acc.Broadcast = true
		acc.Accept = f.broadcast || f.promiscuous
		return acc
	}

	idx := hashIndex(frame)
	if f.hashMask[idx>>5]&(1<<(idx&0x1f)) != 0 {
		acc.HashIndex = idx

		if frame[0]&0x01 == 0x01 {
			// a multicast address that passes the filter does not set the
			// hashed bit
			acc.Multicast = true
			acc.Accept = f.multicast || f.promiscuous
			return acc
		}

		acc.Hashed = true
		acc.Accept = f.hashfilter || f.promiscuous
		return acc
	}

	acc.Accept = f.promiscuous
	return acc
}

// receive pulls frames from the host until one is accepted or there are no
// more frames. returns the value for RxStatus and RxEvent.
func (c *CS8900) receive() uint16 {
	status := uint16(rxEventBase)

	for {
		frm, ok := c.host.Receive()
		if !ok {
			return status
		}

		data := frm.Data
		if len(data)&1 == 1 {
			data = append(data, 0)
		}

		var multicast bool

		// the host may already know what type of frame this is
		if !frm.Hashed && !frm.CorrectMAC && !frm.Broadcast {
			acc := c.ShouldAccept(data)
			if !acc.Accept {
				continue
			}
			frm.Hashed = acc.Hashed
			frm.HashIndex = acc.HashIndex
			frm.CorrectMAC = acc.CorrectMAC
			frm.Broadcast = acc.Broadcast
			multicast = acc.Multicast
		}

		if frm.RxOK {
			status |= rxEventRxOK
		}
		if multicast {
			status |= rxEventMulticast
		} else if frm.Hashed {
			status |= rxEventHashed
		}

		if frm.Hashed && frm.RxOK {
			status |= uint16(frm.HashIndex&0x3f) << rxEventHashIndex
		} else {
			if frm.CorrectMAC {
				status |= rxEventIA
			}
			if frm.Broadcast {
				status |= rxEventBroadcast
			}
			if frm.CRCError {
				status |= rxEventCRCError
			}
			if len(data) < MinRxLength {
				status |= rxEventRunt
			}
			if len(data) > MaxRxLength {
				status |= rxEventExtra
			}
		}

		// octets beyond the maximum length are discarded
		if len(data) > MaxRxLength {
			data = data[:MaxRxLength]
		}

		if frm.RxOK {
			c.pp.MustSet16(PPRxLength, uint16(len(data)))
			for i, b := range data {
				c.pp.MustSet8(PPRxFrame+uint16(i), b)
			}

			if c.rx.state != RxIdle {
				logger.Log(c.env, logTag, "new frame overwrites pending frame")
			}

			// reading starts with RxStatus and RxLength
			c.rx.buffer = PPRxStatus
			c.rx.length = len(data)
			c.rx.count = 0
			c.rx.state = RxGotFrame
		}

		return status
	}
}

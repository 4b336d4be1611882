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
	"io"
)

// Dump writes a summary of the chip state to io.Writer.
func (c *CS8900) Dump(w io.Writer) {
	if !c.IsActive() {
		io.WriteString(w, "CS8900 not active\n")
		return
	}

	link := "no link"
	if c.pp.MustGet16(PPLineSt)&lineStLinkOK == lineStLinkOK {
		link = "up"
	}
	fmt.Fprintf(w, "Link status: %s\n", link)

	incr := "disabled"
	if c.ptr&ppPtrAutoIncr == ppPtrAutoIncr {
		incr = "enabled"
	}
	fmt.Fprintf(w, "Package Page Ptr: $%04X (autoincrement %s)\n", c.ptr&ppPtrAddrMask, incr)

	f := c.filter
	fmt.Fprintf(w, "MAC: %02X:%02X:%02X:%02X:%02X:%02X\n", f.mac[0], f.mac[1], f.mac[2], f.mac[3], f.mac[4], f.mac[5])
	fmt.Fprintf(w, "Hash filter: $%08X%08X\n", f.hashMask[1], f.hashMask[0])
	fmt.Fprintf(w, "Receive: broadcast=%s mac=%s multicast=%s correct=%s promisc=%s hashfilter=%s\n",
		onOff(f.broadcast), onOff(f.ia), onOff(f.multicast), onOff(f.correct), onOff(f.promiscuous), onOff(f.hashfilter))
	fmt.Fprintf(w, "Transmitter: %s (%s) %d/%d\n", onOff(c.tx.enabled), c.tx.state, c.tx.count, c.tx.length)
	fmt.Fprintf(w, "Receiver: %s (%s) %d/%d\n", onOff(c.rx.enabled), c.rx.state, c.rx.count, c.rx.length)
}

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

package rawnet

import (
	"fmt"
	"strings"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// Describe returns a one line summary of an ethernet frame, suitable for
// logging.
func Describe(frame []byte) string {
	packet := gopacket.NewPacket(frame, layers.LayerTypeEthernet, gopacket.NoCopy)

	l := packet.Layer(layers.LayerTypeEthernet)
	if l == nil {
		return fmt.Sprintf("%d bytes (not ethernet)", len(frame))
	}
	eth := l.(*layers.Ethernet)

	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s > %s %s", eth.SrcMAC, eth.DstMAC, eth.EthernetType))

	if nl := packet.NetworkLayer(); nl != nil {
		src, dst := nl.NetworkFlow().Endpoints()
		s.WriteString(fmt.Sprintf(" %s > %s", src, dst))
	}
	if tl := packet.TransportLayer(); tl != nil {
		s.WriteString(fmt.Sprintf(" %s", tl.LayerType()))
		src, dst := tl.TransportFlow().Endpoints()
		s.WriteString(fmt.Sprintf(" %s > %s", src, dst))
	}

	s.WriteString(fmt.Sprintf(" (%d bytes)", len(frame)))

	return s.String()
}

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

// SLIP special characters (RFC 1055).
const (
	slipEnd    = 0xc0
	slipEsc    = 0xdb
	slipEscEnd = 0xdc
	slipEscEsc = 0xdd
)

// slipEncode returns the frame as a SLIP packet. the packet starts and ends
// with the END character.
func slipEncode(frame []byte) []byte {
	p := make([]byte, 0, len(frame)+len(frame)/8+2)
	p = append(p, slipEnd)
	for _, b := range frame {
		switch b {
		case slipEnd:
			p = append(p, slipEsc, slipEscEnd)
		case slipEsc:
			p = append(p, slipEsc, slipEscEsc)
		default:
			p = append(p, b)
		}
	}
	return append(p, slipEnd)
}

// slipDecoder reassembles frames from a stream of SLIP encoded bytes.
type slipDecoder struct {
	frame   []byte
	escaped bool

	// frames longer than the limit are discarded
	limit    int
	overflow bool
}

// decode the byte. a completed frame is returned when the END character is
// seen. empty frames are ignored.
func (d *slipDecoder) decode(b byte) ([]byte, bool) {
	if d.escaped {
		d.escaped = false
		switch b {
		case slipEscEnd:
			b = slipEnd
		case slipEscEsc:
			b = slipEsc
		}
		d.add(b)
		return nil, false
	}

	switch b {
	case slipEnd:
		f := d.frame
		overflow := d.overflow
		d.frame = nil
		d.overflow = false
		if len(f) == 0 || overflow {
			return nil, false
		}
		return f, true
	case slipEsc:
		d.escaped = true
	default:
		d.add(b)
	}

	return nil, false
}

func (d *slipDecoder) add(b byte) {
	if d.limit > 0 && len(d.frame) >= d.limit {
		d.overflow = true
		return
	}
	d.frame = append(d.frame, b)
}

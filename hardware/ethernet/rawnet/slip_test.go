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
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/jetsetilly/c64io/test"
)

func TestSlipRoundTrip(t *testing.T) {
	frame := []byte{0x01, slipEnd, 0x02, slipEsc, 0x03}
	p := slipEncode(frame)
	test.ExpectEquality(t, len(p), len(frame)+2+2)
	test.ExpectEquality(t, p[0], uint8(slipEnd))
	test.ExpectEquality(t, p[len(p)-1], uint8(slipEnd))

	var d slipDecoder
	var out [][]byte
	for _, b := range p {
		if f, ok := d.decode(b); ok {
			out = append(out, f)
		}
	}
	test.DemandEquality(t, len(out), 1)
	test.ExpectSuccess(t, bytes.Equal(out[0], frame))
}

func TestSlipLimit(t *testing.T) {
	d := slipDecoder{limit: 4}
	var out [][]byte
	for _, b := range slipEncode([]byte{1, 2, 3, 4, 5, 6}) {
		if f, ok := d.decode(b); ok {
			out = append(out, f)
		}
	}
	test.ExpectEquality(t, len(out), 0)

	// the decoder recovers after an oversized frame
	for _, b := range slipEncode([]byte{1, 2}) {
		if f, ok := d.decode(b); ok {
			out = append(out, f)
		}
	}
	test.DemandEquality(t, len(out), 1)
	test.ExpectEquality(t, len(out[0]), 2)
}

func TestSerialLink(t *testing.T) {
	local, remote := net.Pipe()

	rx := make(chan []byte, rxQueueLen)
	l := newSerialLink(local, rx)

	// frame from the remote end
	go remote.Write(slipEncode([]byte{0xaa, 0xbb, slipEnd}))

	select {
	case f := <-rx:
		test.ExpectSuccess(t, bytes.Equal(f, []byte{0xaa, 0xbb, slipEnd}))
	case <-time.After(time.Second):
		t.Fatalf("frame not received")
	}

	// frame to the remote end
	go l.write([]byte{0x11, 0x22})
	buf := make([]byte, 16)
	n, err := remote.Read(buf)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, bytes.Equal(buf[:n], []byte{slipEnd, 0x11, 0x22, slipEnd}))

	test.ExpectSuccess(t, l.close())
	remote.Close()
}

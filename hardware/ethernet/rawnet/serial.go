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
	"io"
	"strconv"
	"strings"

	"github.com/jacobsa/go-serial/serial"
	"gopkg.in/tomb.v2"
)

func init() {
	register("serial", "SLIP framed ethernet over a serial line (serial:DEVICE[:BAUD])", openSerial)
}

const defaultBaudRate = 115200

type serialLink struct {
	t    tomb.Tomb
	port io.ReadWriteCloser
}

func parseSerialAddr(addr string) (string, uint, error) {
	dev, baud, ok := strings.Cut(addr, ":")
	if dev == "" {
		return "", 0, fmt.Errorf("serial address should be DEVICE[:BAUD]")
	}
	if !ok {
		return dev, defaultBaudRate, nil
	}
	n, err := strconv.ParseUint(baud, 10, 32)
	if err != nil || n == 0 {
		return "", 0, fmt.Errorf("invalid baud rate (%s)", baud)
	}
	return dev, uint(n), nil
}

func openSerial(addr string, rx chan []byte) (link, error) {
	dev, baud, err := parseSerialAddr(addr)
	if err != nil {
		return nil, err
	}

	options := serial.OpenOptions{
		PortName:        dev,
		BaudRate:        baud,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
	}

	port, err := serial.Open(options)
	if err != nil {
		return nil, err
	}

	return newSerialLink(port, rx), nil
}

// newSerialLink starts the receive goroutine on an open port.
func newSerialLink(port io.ReadWriteCloser, rx chan []byte) *serialLink {
	s := &serialLink{port: port}
	s.t.Go(func() error {
		return s.receive(rx)
	})
	return s
}

func (s *serialLink) receive(rx chan []byte) error {
	dec := slipDecoder{limit: maxFrameLen}
	buf := make([]byte, 256)
	for {
		n, err := s.port.Read(buf)
		for _, b := range buf[:n] {
			if f, ok := dec.decode(b); ok {
				push(rx, f)
			}
		}
		if err != nil {
			// reading from a closed port is the normal way for the
			// goroutine to end
			if !s.t.Alive() || err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func (s *serialLink) write(frame []byte) error {
	_, err := s.port.Write(slipEncode(frame))
	return err
}

func (s *serialLink) close() error {
	s.t.Kill(nil)
	s.port.Close()
	return s.t.Wait()
}

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
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/ipv4"
	"gopkg.in/tomb.v2"
)

func init() {
	register("udp", "bridge frames over a UDP multicast group (udp:GROUP:PORT[:IFACE])", openUDP)
}

// how often the receive goroutine checks whether it should stop.
const udpPollInterval = 100 * time.Millisecond

type udp struct {
	t tomb.Tomb

	sock      *net.UDPConn
	mcsock    *ipv4.PacketConn
	groupaddr *net.UDPAddr
	iface     *net.Interface
}

// parse the address part of a udp interface name: GROUP:PORT[:IFACE]
func parseUDPAddr(addr string) (net.IP, int, *net.Interface, error) {
	p := strings.Split(addr, ":")
	if len(p) < 2 || len(p) > 3 {
		return nil, 0, nil, fmt.Errorf("udp address should be GROUP:PORT[:IFACE]")
	}

	group := net.ParseIP(p[0]).To4()
	if group == nil || !group.IsMulticast() {
		return nil, 0, nil, fmt.Errorf("not an IPv4 multicast group (%s)", p[0])
	}

	port, err := strconv.Atoi(p[1])
	if err != nil || port <= 0 || port > 0xffff {
		return nil, 0, nil, fmt.Errorf("invalid port (%s)", p[1])
	}

	var iface *net.Interface
	if len(p) == 3 && p[2] != "" {
		iface, err = net.InterfaceByName(p[2])
		if err != nil {
			return nil, 0, nil, err
		}
	}

	return group, port, iface, nil
}

func openUDP(addr string, rx chan []byte) (link, error) {
	group, port, iface, err := parseUDPAddr(addr)
	if err != nil {
		return nil, err
	}

	u := &udp{
		groupaddr: &net.UDPAddr{IP: group, Port: port},
		iface:     iface,
	}

	u.sock, err = net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: port})
	if err != nil {
		return nil, err
	}

	u.mcsock = ipv4.NewPacketConn(u.sock)

	if iface != nil {
		if err := u.mcsock.SetMulticastInterface(iface); err != nil {
			u.sock.Close()
			return nil, err
		}
	}

	if err := u.mcsock.JoinGroup(iface, &net.UDPAddr{IP: group}); err != nil {
		u.sock.Close()
		return nil, err
	}

	// we don't want to receive our own frames
	if err := u.mcsock.SetMulticastLoopback(false); err != nil {
		u.sock.Close()
		return nil, err
	}

	u.t.Go(func() error {
		return u.receive(rx)
	})

	return u, nil
}

func (u *udp) receive(rx chan []byte) error {
	buf := make([]byte, maxFrameLen)
	for {
		select {
		case <-u.t.Dying():
			return nil
		default:
		}

		u.sock.SetReadDeadline(time.Now().Add(udpPollInterval))
		n, _, err := u.sock.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			if !u.t.Alive() {
				return nil
			}
			return err
		}

		frame := make([]byte, n)
		copy(frame, buf[:n])
		push(rx, frame)
	}
}

func (u *udp) write(frame []byte) error {
	_, err := u.sock.WriteToUDP(frame, u.groupaddr)
	return err
}

func (u *udp) close() error {
	u.t.Kill(nil)
	u.mcsock.LeaveGroup(u.iface, &net.UDPAddr{IP: u.groupaddr.IP})
	u.sock.Close()
	return u.t.Wait()
}

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

//go:build pcap

package rawnet

import (
	"errors"
	"fmt"

	"github.com/google/gopacket/pcap"
	"gopkg.in/tomb.v2"
)

func init() {
	register("pcap", "a host network device, opened with libpcap (pcap:DEVICE)", openPcap)
}

type pcapLink struct {
	t      tomb.Tomb
	handle *pcap.Handle
}

// PcapDevices returns the names and descriptions of the devices that can be
// opened with the pcap interface type.
func PcapDevices() ([]Interface, error) {
	devs, err := pcap.FindAllDevs()
	if err != nil {
		return nil, err
	}
	l := make([]Interface, 0, len(devs))
	for _, d := range devs {
		l = append(l, Interface{Name: fmt.Sprintf("pcap:%s", d.Name), Description: d.Description})
	}
	return l, nil
}

func openPcap(dev string, rx chan []byte) (link, error) {
	// the first device is the default device
	if dev == "" {
		devs, err := pcap.FindAllDevs()
		if err != nil {
			return nil, err
		}
		if len(devs) == 0 {
			return nil, fmt.Errorf("no pcap devices")
		}
		dev = devs[0].Name
	}

	handle, err := pcap.OpenLive(dev, maxFrameLen, true, udpPollInterval)
	if err != nil {
		return nil, err
	}

	p := &pcapLink{handle: handle}
	p.t.Go(func() error {
		return p.receive(rx)
	})

	return p, nil
}

func (p *pcapLink) receive(rx chan []byte) error {
	for {
		select {
		case <-p.t.Dying():
			return nil
		default:
		}

		data, _, err := p.handle.ReadPacketData()
		if err != nil {
			if errors.Is(err, pcap.NextErrorTimeoutExpired) {
				continue
			}
			return err
		}

		frame := make([]byte, len(data))
		copy(frame, data)
		push(rx, frame)
	}
}

func (p *pcapLink) write(frame []byte) error {
	return p.handle.WritePacketData(frame)
}

func (p *pcapLink) close() error {
	p.t.Kill(nil)
	err := p.t.Wait()
	p.handle.Close()
	return err
}

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

// Sentinal error patterns.
const (
	BindFailed       = "rawnet: cannot bind interface (%s): %v"
	UnknownInterface = "rawnet: unknown interface type (%s)"
	NotActive        = "rawnet: not active"
)

// Acceptance is the result of checking a frame's destination address
// against the receive filter.
type Acceptance struct {
	Accept     bool
	Hashed     bool
	HashIndex  int
	CorrectMAC bool
	Broadcast  bool
	Multicast  bool
}

// ShouldAcceptFunc checks a frame against the receive filter of the chip.
type ShouldAcceptFunc func(frame []byte) Acceptance

// Frame is a received frame and the filter information known about it.
// Hosts that do not filter frames (which is all of them at the moment) leave
// Hashed, CorrectMAC and Broadcast unset, in which case the chip will run
// its own filter.
type Frame struct {
	Data       []byte
	Hashed     bool
	HashIndex  int
	RxOK       bool
	CorrectMAC bool
	Broadcast  bool
	CRCError   bool
}

// TxFlags are the options from the TxCMD register that accompany a
// transmission.
type TxFlags struct {
	// delete waiting frames in the transmit buffer
	Force bool

	// terminate after just one collision
	OneColl bool

	// do not append the CRC to the transmission
	InhibitCRC bool

	// disable padding to 60 bytes
	TxPadDis bool
}

// RecvCtl is the state of the RxCTL register, as passed to the host.
type RecvCtl struct {
	Broadcast   bool
	IA          bool
	Multicast   bool
	Correct     bool
	Promiscuous bool
	IAHash      bool
}

// Host is the host network, as seen by the chip.
type Host interface {
	// bind the receive filter of the chip
	SetShouldAccept(f ShouldAcceptFunc)

	// open and close the named interface
	Activate(iface string) error
	Deactivate()

	// called either side of a chip reset
	PreReset()
	PostReset()

	// filter settings. hosts may use these to configure a hardware filter
	SetMAC(mac [6]byte)
	SetHashFilter(mask [2]uint32)
	RecvCtl(ctl RecvCtl)
	LineCtl(tx bool, rx bool)

	// send a frame
	Transmit(flags TxFlags, frame []byte)

	// receive a frame. must not block. the boolean is false if there is no
	// frame waiting
	Receive() (Frame, bool)
}

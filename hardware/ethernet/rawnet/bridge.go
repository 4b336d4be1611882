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
	"sort"
	"strings"
	"sync"

	"github.com/jetsetilly/c64io/curated"
	"github.com/jetsetilly/c64io/logger"
)

// the number of frames that can be waiting in the receive channel.
const rxQueueLen = 64

// maximum size of a frame that will be read from a link.
const maxFrameLen = 1518 + 4

// a link is the transport underneath the bridge.
type link interface {
	write(frame []byte) error
	close() error
}

// opener functions create a link from the address part of the interface
// name. received frames are sent to the rx channel.
type opener func(addr string, rx chan []byte) (link, error)

var (
	openersCrit sync.Mutex
	openers     = map[string]opener{}
	describers  = map[string]string{}
)

// register an opener for the named interface type.
func register(scheme string, description string, o opener) {
	openersCrit.Lock()
	defer openersCrit.Unlock()
	openers[scheme] = o
	describers[scheme] = description
}

// Interface describes a type of interface supported by the bridge.
type Interface struct {
	Name        string
	Description string
}

// Interfaces returns the list of interface types available.
func Interfaces() []Interface {
	openersCrit.Lock()
	defer openersCrit.Unlock()

	l := make([]Interface, 0, len(openers))
	for k := range openers {
		l = append(l, Interface{Name: k, Description: describers[k]})
	}
	sort.Slice(l, func(i, j int) bool {
		return l[i].Name < l[j].Name
	})
	return l
}

// push a frame onto the receive channel without blocking. the frame is
// dropped if the channel is full.
func push(rx chan []byte, frame []byte) {
	select {
	case rx <- frame:
	default:
		logger.Log(logger.Allow, "rawnet", "receive queue full: frame dropped")
	}
}

// Bridge implements the Host interface.
type Bridge struct {
	trace logger.Permission

	shouldAccept ShouldAcceptFunc

	iface string
	link  link
	rx    chan []byte

	mac      [6]byte
	hash     [2]uint32
	ctl      RecvCtl
	txEnable bool
	rxEnable bool
}

// NewBridge is the preferred method of initialisation for the Bridge type.
// The trace permission controls the logging of every frame that passes
// through the bridge.
func NewBridge(trace logger.Permission) *Bridge {
	if trace == nil {
		trace = logger.Verbosity{}
	}
	return &Bridge{
		trace: trace,
	}
}

// SetShouldAccept implements the Host interface.
func (b *Bridge) SetShouldAccept(f ShouldAcceptFunc) {
	b.shouldAccept = f
}

// Activate implements the Host interface.
func (b *Bridge) Activate(iface string) error {
	if b.link != nil {
		b.Deactivate()
	}

	if iface == "" {
		iface = "null"
	}

	scheme, addr, _ := strings.Cut(iface, ":")

	openersCrit.Lock()
	o, ok := openers[scheme]
	openersCrit.Unlock()
	if !ok {
		return curated.Errorf(BindFailed, iface, curated.Errorf(UnknownInterface, scheme))
	}

	rx := make(chan []byte, rxQueueLen)
	l, err := o(addr, rx)
	if err != nil {
		return curated.Errorf(BindFailed, iface, err)
	}

	b.iface = iface
	b.link = l
	b.rx = rx

	logger.Logf(logger.Allow, "rawnet", "activated %s", iface)

	return nil
}

// Deactivate implements the Host interface.
func (b *Bridge) Deactivate() {
	if b.link == nil {
		return
	}
	if err := b.link.close(); err != nil {
		logger.Logf(logger.Allow, "rawnet", "deactivate: %v", err)
	}
	logger.Logf(logger.Allow, "rawnet", "deactivated %s", b.iface)
	b.link = nil
	b.rx = nil
	b.iface = ""
}

// PreReset implements the Host interface.
func (b *Bridge) PreReset() {
	logger.Log(b.trace, "rawnet", "pre reset")
}

// PostReset implements the Host interface.
func (b *Bridge) PostReset() {
	logger.Log(b.trace, "rawnet", "post reset")
}

// SetMAC implements the Host interface.
func (b *Bridge) SetMAC(mac [6]byte) {
	b.mac = mac
}

// SetHashFilter implements the Host interface.
func (b *Bridge) SetHashFilter(mask [2]uint32) {
	b.hash = mask
}

// RecvCtl implements the Host interface.
func (b *Bridge) RecvCtl(ctl RecvCtl) {
	b.ctl = ctl
}

// LineCtl implements the Host interface.
func (b *Bridge) LineCtl(tx bool, rx bool) {
	b.txEnable = tx
	b.rxEnable = rx
}

// Transmit implements the Host interface.
func (b *Bridge) Transmit(flags TxFlags, frame []byte) {
	if b.link == nil {
		return
	}
	if b.trace.AllowLogging() {
		logger.Logf(logger.Allow, "rawnet", "tx %s", Describe(frame))
	}

	// the link may keep the frame so it must be a copy
	f := make([]byte, len(frame))
	copy(f, frame)
	if err := b.link.write(f); err != nil {
		logger.Logf(logger.Allow, "rawnet", "could not send frame: %v", err)
	}
}

// Receive implements the Host interface.
func (b *Bridge) Receive() (Frame, bool) {
	if b.link == nil {
		return Frame{}, false
	}

	select {
	case d := <-b.rx:
		// received frames are always an even number of bytes
		if len(d)&1 == 1 {
			d = append(d, 0)
		}

		if b.trace.AllowLogging() {
			var acc Acceptance
			if b.shouldAccept != nil {
				acc = b.shouldAccept(d)
			}
			logger.Logf(logger.Allow, "rawnet", "rx %s (accept=%v)", Describe(d), acc.Accept)
		}

		return Frame{Data: d, RxOK: true}, true
	default:
	}

	return Frame{}, false
}

// Active returns the name of the active interface, or the empty string.
func (b *Bridge) Active() string {
	return b.iface
}

// Dump writes the state of the bridge to io.Writer.
func (b *Bridge) Dump(w io.Writer) {
	if b.link == nil {
		io.WriteString(w, "Interface: not active\n")
		return
	}
	fmt.Fprintf(w, "Interface: %s\n", b.iface)
	fmt.Fprintf(w, "MAC: %02x:%02x:%02x:%02x:%02x:%02x\n", b.mac[0], b.mac[1], b.mac[2], b.mac[3], b.mac[4], b.mac[5])
	fmt.Fprintf(w, "Hash filter: %08x%08x\n", b.hash[1], b.hash[0])
	fmt.Fprintf(w, "Line: tx=%v rx=%v\n", b.txEnable, b.rxEnable)
	fmt.Fprintf(w, "Queued frames: %d\n", len(b.rx))
}

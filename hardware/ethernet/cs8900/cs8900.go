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
	"github.com/jetsetilly/c64io/curated"
	"github.com/jetsetilly/c64io/environment"
	"github.com/jetsetilly/c64io/hardware/ethernet/packetpage"
	"github.com/jetsetilly/c64io/hardware/ethernet/rawnet"
	"github.com/jetsetilly/c64io/logger"
)

// Sentinal error patterns.
const (
	InitFailed          = "cs8900: init failed: %v"
	ActivateFailed      = "cs8900: activation failed: %v"
	InterfaceBindFailed = "cs8900: cannot bind interface: %v"
)

const logTag = "cs8900"

// TxState is the state of the transmitter.
type TxState int

// List of valid TxState values.
const (
	TxIdle TxState = iota
	TxGotCmd
	TxGotLen
	TxReadBusST
)

func (s TxState) String() string {
	switch s {
	case TxIdle:
		return "idle"
	case TxGotCmd:
		return "got command"
	case TxGotLen:
		return "got length"
	case TxReadBusST:
		return "read BusST"
	}
	return "unknown"
}

// RxState is the state of the receiver.
type RxState int

// List of valid RxState values.
const (
	RxIdle RxState = iota
	RxGotFrame
)

func (s RxState) String() string {
	switch s {
	case RxIdle:
		return "idle"
	case RxGotFrame:
		return "got frame"
	}
	return "unknown"
}

// the receive filter. the fields are set by writes to RxCTL, the logical
// address filter and the individual address registers.
type filter struct {
	mac      [6]byte
	hashMask [2]uint32

	broadcast   bool
	ia          bool
	multicast   bool
	correct     bool
	promiscuous bool
	hashfilter  bool
}

type transmitter struct {
	enabled bool
	state   TxState

	// address in the PacketPage of the next byte
	buffer uint16

	count  int
	length int
}

type receiver struct {
	enabled bool
	state   RxState

	// address in the PacketPage of the next word
	buffer uint16

	count  int
	length int

	// records which bytes of RxEvent have been read since the last frame was
	// pulled from the host. bit 0 is the high byte and bit 1 is the low byte
	eventMask uint8
}

// CS8900 is the CS8900A chip.
type CS8900 struct {
	env  *environment.Environment
	host rawnet.Host

	initialised bool

	// io and pp are nil when the chip is not active
	io *packetpage.IORegisters
	pp *packetpage.PacketPage

	// the PacketPage pointer including the flag bits
	ptr uint16

	filter filter

	// the value of RxCTL as of the last change
	recvControl uint16

	tx transmitter
	rx receiver
}

// New is the preferred method of initialisation for the CS8900 type.
func New(env *environment.Environment, host rawnet.Host) *CS8900 {
	return &CS8900{
		env:  env,
		host: host,
	}
}

// Init prepares the chip for use. It does not activate the chip.
func (c *CS8900) Init() error {
	if c.host == nil {
		return curated.Errorf(InitFailed, "no host network")
	}
	c.host.SetShouldAccept(c.ShouldAccept)
	c.initialised = true
	return nil
}

// Activate allocates the chip's memory, binds the host interface and resets
// the chip.
func (c *CS8900) Activate(iface string) error {
	if !c.initialised {
		return curated.Errorf(ActivateFailed, "chip not initialised")
	}

	c.io = &packetpage.IORegisters{}
	c.pp = &packetpage.PacketPage{}

	if err := c.host.Activate(iface); err != nil {
		c.io = nil
		c.pp = nil
		return curated.Errorf(InterfaceBindFailed, err)
	}

	logger.Logf(c.env, logTag, "activated on %q", iface)
	c.Reset()

	return nil
}

// Deactivate releases the host interface and frees the chip's memory.
func (c *CS8900) Deactivate() error {
	if !c.IsActive() {
		return nil
	}
	c.host.Deactivate()
	c.io = nil
	c.pp = nil
	logger.Log(c.env, logTag, "deactivated")
	return nil
}

// Shutdown deactivates the chip if it is active.
func (c *CS8900) Shutdown() {
	_ = c.Deactivate()
}

// IsActive returns true if the chip has been activated.
func (c *CS8900) IsActive() bool {
	return c.pp != nil
}

// Reset the chip to the power on state. The MAC address survives the reset.
func (c *CS8900) Reset() {
	if !c.IsActive() {
		return
	}

	c.host.PreReset()

	c.io.Clear()
	c.pp.Clear()

	c.pp.MustSet32(PPProductID, 0x0900630e)
	c.pp.MustSet16(PPIOBase, 0x0300)
	c.pp.MustSet16(PPIntNo, 0x0004)
	c.pp.MustSet16(PPDMAChan, 0x0003)

	// the low six bits of each control and status register identify the
	// register
	c.pp.MustSet16(PPRxCfg, 0x0003)
	c.pp.MustSet16(PPRxCtl, 0x0005)
	c.pp.MustSet16(PPTxCfg, 0x0007)
	c.pp.MustSet16(PPCCTxCmd, 0x0009)
	c.pp.MustSet16(PPBufCfg, 0x000b)
	c.pp.MustSet16(PPLineCtl, 0x0013)
	c.pp.MustSet16(PPSelfCtl, 0x0015)
	c.pp.MustSet16(PPBusCtl, 0x0017)
	c.pp.MustSet16(PPTestCtl, 0x0019)

	c.pp.MustSet16(PPISQ, 0x0000)
	c.pp.MustSet16(PPRxEvent, 0x0004)
	c.pp.MustSet16(PPTxEvent, 0x0008)
	c.pp.MustSet16(PPBufEvent, 0x000c)
	c.pp.MustSet16(PPRxMiss, 0x0010)
	c.pp.MustSet16(PPTxCol, 0x0012)
	c.pp.MustSet16(PPLineSt, 0x1294)
	c.pp.MustSet16(PPSelfSt, 0x0896)
	c.pp.MustSet16(PPBusSt, 0x0018)
	c.pp.MustSet16(PPTDR, 0x001c)
	c.pp.MustSet16(PPTxCmd, txCmdRegister)

	c.recvControl = c.pp.MustGet16(PPRxCtl)

	for i, b := range c.filter.mac {
		c.pp.MustSet8(PPMAC+uint16(i), b)
	}

	c.setTransmitter(false)
	c.setReceiver(false)

	c.host.PostReset()

	logger.Log(c.env, logTag, "CS8900a rev.D reset")
}

// MAC returns the current individual address of the chip.
func (c *CS8900) MAC() [6]byte {
	return c.filter.mac
}

// TxState returns the current state of the transmitter.
func (c *CS8900) TxState() TxState {
	return c.tx.state
}

// RxState returns the current state of the receiver.
func (c *CS8900) RxState() RxState {
	return c.rx.state
}

func (c *CS8900) setTxStatus(ready bool, bidError bool) {
	v := c.pp.MustGet16(PPBusSt)
	v &^= busStRdy4TxNow | busStTxBidErr
	if ready {
		v |= busStRdy4TxNow
	}
	if bidError {
		v |= busStTxBidErr
	}
	c.pp.MustSet16(PPBusSt, v)
}

func (c *CS8900) setReceiver(enabled bool) {
	c.rx.enabled = enabled
	c.rx.state = RxIdle

	// a frame is pulled on the first read of RxEvent
	c.rx.eventMask = 0x03
}

func (c *CS8900) setTransmitter(enabled bool) {
	c.tx.enabled = enabled
	c.tx.state = TxIdle
	c.setTxStatus(false, false)
}

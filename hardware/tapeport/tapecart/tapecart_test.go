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

package tapecart_test

import (
	"fmt"
	"hash/crc32"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/c64io/curated"
	"github.com/jetsetilly/c64io/environment"
	"github.com/jetsetilly/c64io/hardware/alarm"
	"github.com/jetsetilly/c64io/hardware/tapeport"
	"github.com/jetsetilly/c64io/hardware/tapeport/tapecart"
	"github.com/jetsetilly/c64io/hardware/tapeport/tapecart/tcrt"
	"github.com/jetsetilly/c64io/logger"
	"github.com/jetsetilly/c64io/snapshot"
	"github.com/jetsetilly/c64io/test"
)

// the computer side of the tape port
type computer struct {
	t     *testing.T
	env   *environment.Environment
	ctx   *alarm.Context
	lines *tapeport.Lines
	tc    *tapecart.Tapecart
	rate  uint64
}

func newComputer(t *testing.T) *computer {
	t.Helper()

	env, err := environment.NewEnvironment(environment.C64, environment.PAL, nil)
	test.DemandSuccess(t, err)

	c := &computer{
		t:     t,
		env:   env,
		ctx:   alarm.NewContext("test"),
		lines: tapeport.NewLines(),
		rate:  env.ClockRate(),
	}
	c.tc = tapecart.New(env, c.ctx, c.lines)
	c.tc.Enable()

	return c
}

// shift the magic value into the tapecart and wait for the end of the
// stream
func (c *computer) magic(v uint16) {
	c.tc.StoreMotor(true)
	for i := 15; i >= 0; i-- {
		c.tc.StoreWrite(v>>i&0x01 == 0x01)
		c.tc.StoreMotor(false)
		c.tc.StoreMotor(true)
	}
	c.ctx.Advance(20 + c.rate/1000)
}

// enter command mode and perform the handshake
func (c *computer) command() {
	c.t.Helper()

	c.magic(0xfce2)
	test.DemandEquality(c.t, c.tc.Mode(), tapecart.ModeCommand)

	c.ctx.Advance(c.rate / 1000)
	test.ExpectSuccess(c.t, c.lines.Sense.Hi())

	// the tapecart sends pulses until the write line is lowered
	flux := c.lines.Flux
	c.tc.StoreWrite(true)
	c.ctx.Advance(0x30 * 8)
	test.ExpectEquality(c.t, c.lines.Flux-flux, 2)

	c.tc.StoreWrite(false)
	c.ctx.Advance(0x30 * 8)
	test.ExpectEquality(c.t, c.lines.Flux-flux, 2)
}

// send a byte using the 1-bit protocol. the data is on the sense line and
// is clocked by the write line
func (c *computer) send(data ...uint8) {
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			c.tc.StoreSense(b>>i&0x01 == 0x01)
			c.tc.StoreWrite(true)
			c.tc.StoreWrite(false)
		}
		c.tc.StoreSense(true)
		c.tc.StoreSense(false)

		// long enough for the processing delay and for the page write delay
		c.ctx.Advance(1000)
	}
}

// receive bytes using the 1-bit protocol
func (c *computer) recv(n int) []uint8 {
	r := make([]uint8, n)
	for j := range r {
		c.tc.StoreWrite(true)
		for range 8 {
			c.tc.StoreWrite(false)
			r[j] <<= 1
			if c.lines.Sense.Hi() {
				r[j] |= 0x01
			}
			c.tc.StoreWrite(true)
		}
		c.tc.StoreWrite(false)
		c.ctx.Advance(1000)
	}
	return r
}

// receive a byte using the 2-bit fastload protocol
func (c *computer) recvFast() uint8 {
	var b uint8

	bits := func(sense uint8, write uint8) {
		if c.lines.Sense.Hi() {
			b |= sense
		}
		if c.lines.WriteIn.Hi() {
			b |= write
		}
	}

	c.tc.StoreWrite(true)
	bits(0x20, 0x10)
	c.ctx.Advance(9)
	bits(0x80, 0x40)
	c.ctx.Advance(9)
	bits(0x02, 0x01)
	c.ctx.Advance(9)
	bits(0x08, 0x04)
	c.ctx.Advance(10)
	c.ctx.Advance(1)
	c.tc.StoreWrite(false)
	c.ctx.Advance(1)

	return b
}

func TestStream(t *testing.T) {
	c := newComputer(t)
	test.ExpectEquality(t, c.tc.Mode(), tapecart.ModeUninitialised)

	// the motor starts the stream
	c.tc.StoreMotor(true)
	test.ExpectEquality(t, c.tc.Mode(), tapecart.ModeStream)
	test.ExpectSuccess(t, c.lines.Sense.Lo())

	for c.lines.Sense.Lo() {
		clk, ok := c.ctx.Next()
		test.DemandSuccess(t, ok)
		c.ctx.RunUntil(clk)
	}

	// every pulse after the first is a flux change
	test.ExpectEquality(t, c.lines.Flux, 11907)

	// the sense line is released at the end of the stream for a little
	// over 200ms
	c.ctx.Advance(c.rate / 5)
	test.ExpectSuccess(t, c.lines.Sense.Hi())
	c.ctx.Advance(c.rate / 50)
	test.ExpectSuccess(t, c.lines.Sense.Lo())
	test.ExpectEquality(t, c.tc.Mode(), tapecart.ModeStream)
}

func TestStreamMotorOff(t *testing.T) {
	c := newComputer(t)
	c.tc.StoreMotor(true)
	c.ctx.Advance(10000)
	flux := c.lines.Flux
	test.ExpectInequality(t, flux, 0)

	c.tc.StoreMotor(false)
	c.ctx.Advance(10000)
	test.ExpectEquality(t, c.lines.Flux, flux)
}

func TestMagicValues(t *testing.T) {
	c := newComputer(t)
	c.magic(0x1234)
	test.ExpectEquality(t, c.tc.RequestedMode(), tapecart.ModeStream)
	test.ExpectEquality(t, c.tc.Mode(), tapecart.ModeStream)

	c = newComputer(t)
	c.magic(0xca65)
	test.ExpectEquality(t, c.tc.Mode(), tapecart.ModeFastload)

	c = newComputer(t)
	c.magic(0xfce2)
	test.ExpectEquality(t, c.tc.Mode(), tapecart.ModeCommand)

	// the motor returns the tapecart to stream mode
	c.tc.StoreMotor(false)
	c.tc.StoreMotor(true)
	test.ExpectEquality(t, c.tc.Mode(), tapecart.ModeStream)
}

func TestFastload(t *testing.T) {
	c := newComputer(t)

	mem := c.tc.Memory()
	mem.DataOffset = 0x1000
	mem.DataLength = 5
	mem.CallAddress = 0x080d
	copy(mem.Flash[0x1000:], []byte{0x01, 0x08, 0xa9, 0x00, 0x60})

	c.magic(0xca65)
	test.DemandEquality(t, c.tc.Mode(), tapecart.ModeFastload)

	c.ctx.Advance(c.rate / 10)

	// not busy
	test.ExpectSuccess(t, c.lines.Sense.Lo())

	expected := []uint8{0x0d, 0x08, 0x04, 0x08, 0x01, 0x08, 0xa9, 0x00, 0x60}
	for i, e := range expected {
		test.ExpectEquality(t, c.recvFast(), e, i)
	}

	// stream mode after the post delay
	test.ExpectEquality(t, c.tc.Mode(), tapecart.ModeFastload)
	c.ctx.Advance(c.rate / 5)
	test.ExpectEquality(t, c.tc.Mode(), tapecart.ModeStream)
}

func TestCommandDeviceInfo(t *testing.T) {
	c := newComputer(t)
	c.command()

	c.send(0x01)
	test.ExpectEquality(t, string(c.recv(24)), "TAPECART V1.0 W25QFLASH\x00")

	c.send(0x02)
	test.ExpectEquality(t, string(c.recv(7)), "\x00\x00\x20\x00\x01\x10\x00")

	c.send(0x03)
	test.ExpectEquality(t, string(c.recv(4)), "\x00\x00\x00\x00")

	c.send(0x00)
	test.ExpectEquality(t, c.tc.Mode(), tapecart.ModeStream)
}

func TestCommandFlash(t *testing.T) {
	c := newComputer(t)
	c.command()
	mem := c.tc.Memory()

	// write three bytes to $000100
	c.send(0x12, 0x00, 0x01, 0x00, 0x03, 0x00)
	c.send(0x12, 0x34, 0x56)
	test.ExpectEquality(t, mem.Flash[0x100], 0x12)
	test.ExpectEquality(t, mem.Flash[0x101], 0x34)
	test.ExpectEquality(t, mem.Flash[0x102], 0x56)
	test.ExpectSuccess(t, mem.Changed)

	c.send(0x10, 0x00, 0x01, 0x00, 0x03, 0x00)
	test.ExpectEquality(t, string(c.recv(3)), "\x12\x34\x56")

	// writing to programmed flash
	c.send(0x12, 0x00, 0x01, 0x00, 0x01, 0x00)
	c.send(0x0f)
	test.ExpectEquality(t, mem.Flash[0x100], 0x02)
	test.ExpectEquality(t, mem.NonErasedWrites, 1)

	c.send(0x16, 0x00, 0x01, 0x00, 0x03, 0x00, 0x00)
	crc := c.recv(4)
	v := uint32(crc[0]) | uint32(crc[1])<<8 | uint32(crc[2])<<16 | uint32(crc[3])<<24
	test.ExpectEquality(t, v, crc32.ChecksumIEEE([]byte{0x02, 0x34, 0x56}))

	// erase the first block
	c.send(0x15, 0x23, 0x01, 0x00)
	c.ctx.Advance(c.rate * 60 / 1000)
	test.ExpectEquality(t, mem.Flash[0x100], 0xff)

	c.send(0x10, 0x00, 0x01, 0x00, 0x01, 0x00)
	test.ExpectEquality(t, c.recv(1)[0], 0xff)

	// a read beyond the end of the flash reads from address zero
	mem.Flash[0] = 0xaa
	c.send(0x10, 0xff, 0xff, 0x1f, 0x02, 0x00)
	test.ExpectEquality(t, string(c.recv(2)), "\xaa\xff")
}

func TestCommandLoadInfo(t *testing.T) {
	c := newComputer(t)
	c.command()
	mem := c.tc.Memory()

	info := []uint8{0x00, 0x10, 0x05, 0x00, 0x0d, 0x08}
	info = append(info, []uint8("LOADINFO        ")...)
	c.send(0x23)
	c.send(info...)
	test.ExpectEquality(t, mem.DataOffset, 0x1000)
	test.ExpectEquality(t, mem.DataLength, 5)
	test.ExpectEquality(t, mem.CallAddress, 0x080d)
	test.ExpectEquality(t, mem.FilenameString(), "LOADINFO")
	test.ExpectSuccess(t, mem.Changed)

	c.send(0x21)
	test.ExpectEquality(t, string(c.recv(len(info))), string(info))

	c.send(0x33, 0x5a, 0xa5)
	c.send(0x32)
	test.ExpectEquality(t, string(c.recv(2)), "\x5a\xa5")

	// LED commands have no parameters or reply
	c.send(0x31)
	c.send(0x30)
	c.send(0x02)
	test.ExpectEquality(t, len(c.recv(7)), 7)
}

func TestCommandDirectory(t *testing.T) {
	c := newComputer(t)
	c.command()
	mem := c.tc.Memory()

	// two entries with a four byte name and two bytes of data
	copy(mem.Flash[0x2000:], []byte("ONE\x00\x11\x22TWO\x00\x33\x44"))

	c.send(0x40, 0x00, 0x20, 0x00, 0x02, 0x00, 0x04, 0x02)
	c.send(0x41)
	c.send([]byte("TWO\x00")...)
	test.ExpectEquality(t, string(c.recv(3)), "\x00\x33\x44")

	c.send(0x41)
	c.send([]byte("SIX\x00")...)
	test.ExpectEquality(t, c.recv(1)[0], 0x01)
}

func TestCommandUnknown(t *testing.T) {
	c := newComputer(t)
	c.command()
	c.send(0x99)
	test.ExpectEquality(t, c.tc.Mode(), tapecart.ModeStream)
}

func exampleTCRT(t *testing.T) string {
	t.Helper()

	img := tcrt.NewImage()
	img.DataOffset = 0
	img.DataLength = 5
	img.CallAddress = 0x080d
	img.SetFilename("EXAMPLE")
	copy(img.Flash, []byte{0x01, 0x08, 0xa9, 0x00, 0x60})

	fn := filepath.Join(t.TempDir(), "example.tcrt")
	test.DemandSuccess(t, tcrt.SaveFile(fn, img, true))
	return fn
}

func TestAttach(t *testing.T) {
	fn := exampleTCRT(t)

	env, err := environment.NewEnvironment(environment.C64, environment.PAL, nil)
	test.DemandSuccess(t, err)
	tc := tapecart.New(env, alarm.NewContext("test"), tapeport.NewLines())

	// the filename is remembered while the tapecart is disabled
	test.DemandSuccess(t, env.Prefs.Tapecart.TCRTFilename.Set(fn))
	test.ExpectEquality(t, tc.Filename(), fn)
	test.ExpectSuccess(t, tc.Memory() == nil)

	tc.Enable()
	test.DemandSuccess(t, tc.Memory() != nil)
	test.ExpectEquality(t, tc.Memory().FilenameString(), "EXAMPLE")
	test.ExpectEquality(t, tc.Memory().CallAddress, 0x080d)
	test.ExpectFailure(t, tc.Memory().Changed)

	// attaching a bad file leaves everything as it was
	err = env.Prefs.Tapecart.TCRTFilename.Set(filepath.Join(t.TempDir(), "missing.tcrt"))
	test.ExpectSuccess(t, curated.Is(err, tapecart.AttachFailed))
	test.ExpectEquality(t, env.Prefs.Tapecart.TCRTFilename.String(), fn)
	test.ExpectEquality(t, tc.Filename(), fn)
	test.ExpectEquality(t, tc.Memory().FilenameString(), "EXAMPLE")

	// detaching erases the memory
	test.DemandSuccess(t, env.Prefs.Tapecart.TCRTFilename.Set(""))
	test.ExpectEquality(t, tc.Filename(), "")
	test.ExpectEquality(t, tc.Memory().Flash[0], 0xff)
	test.ExpectEquality(t, tc.Mode(), tapecart.ModeStream)
}

func TestFlush(t *testing.T) {
	fn := exampleTCRT(t)

	echo, err := test.NewRingWriter(256)
	test.DemandSuccess(t, err)
	logger.SetEcho(echo, false)
	defer logger.SetEcho(nil, false)

	c := newComputer(t)
	test.DemandSuccess(t, c.env.Prefs.Tapecart.LogLevel.Set(1))
	test.DemandSuccess(t, c.tc.AttachTCRT(fn))
	c.tc.Memory().WriteFlash(0x10, []byte{0x42})

	flash := func(addr int) uint8 {
		t.Helper()
		img, err := tcrt.LoadFile(fn, nil)
		test.DemandSuccess(t, err)
		return img.Flash[addr]
	}

	// an explicit flush ignores the preference
	test.DemandSuccess(t, c.env.Prefs.Tapecart.UpdateTCRT.Set(false))
	test.DemandSuccess(t, c.tc.FlushTCRT())
	test.ExpectFailure(t, c.tc.Memory().Changed)
	test.ExpectEquality(t, flash(0x10), 0x42)
	test.ExpectSuccess(t, strings.HasSuffix(echo.String(), fmt.Sprintf("tapecart: updated %s\n", fn)))

	// an unchanged memory is still written
	echo.Reset()
	test.DemandSuccess(t, c.tc.FlushTCRT())
	test.ExpectSuccess(t, strings.Contains(echo.String(), "tapecart: updated"))

	// disabling the tapecart does not update the file if the preference
	// is not set
	c.tc.Memory().WriteFlash(0x11, []byte{0x43})
	c.tc.Disable()
	test.ExpectEquality(t, flash(0x11), 0xff)
	test.ExpectSuccess(t, c.lines.Sense.Hi())

	// the file is reloaded on enable
	c.tc.Enable()
	test.ExpectEquality(t, c.tc.Memory().Flash[0x10], 0x42)
	test.ExpectEquality(t, c.tc.Memory().Flash[0x11], 0xff)

	// disabling the tapecart updates the file if the preference is set
	test.DemandSuccess(t, c.env.Prefs.Tapecart.UpdateTCRT.Set(true))
	c.tc.Memory().WriteFlash(0x12, []byte{0x44})
	c.tc.Disable()
	test.ExpectEquality(t, flash(0x12), 0x44)

	// flushing a disabled tapecart
	err = c.tc.FlushTCRT()
	test.ExpectSuccess(t, curated.Is(err, tapecart.NotEnabled))

	// flushing without an attached file
	c.tc.Enable()
	test.DemandSuccess(t, c.tc.AttachTCRT(""))
	err = c.tc.FlushTCRT()
	test.ExpectSuccess(t, curated.Is(err, tapecart.NoTCRT))
}

func TestSnapshot(t *testing.T) {
	c := newComputer(t)
	c.tc.Memory().WriteFlash(0x1234, []byte{0x56})
	c.tc.Memory().CallAddress = 0x1000

	s := snapshot.New("C64")
	test.DemandSuccess(t, c.tc.WriteSnapshot(s))

	d := newComputer(t)
	test.DemandSuccess(t, d.tc.ReadSnapshot(s))
	test.ExpectEquality(t, d.tc.Memory().Flash[0x1234], 0x56)
	test.ExpectEquality(t, d.tc.Memory().CallAddress, 0x1000)
	test.ExpectSuccess(t, d.tc.Memory().Changed)
	test.ExpectEquality(t, d.tc.Mode(), tapecart.ModeStream)

	d.tc.Disable()
	err := d.tc.WriteSnapshot(s)
	test.ExpectSuccess(t, curated.Is(err, tapecart.NotEnabled))
}

// a TAPECART module with the given directory parameters and an otherwise
// blank tapecart.
func directorySnapshot(base, entries uint32, nameLen, dataLen uint8) *snapshot.Snapshot {
	s := snapshot.New("C64")
	m := s.CreateModule("TAPECART", 0, 0)
	m.WriteBytes([]byte{uint8(tapecart.ModeStream), uint8(tapecart.ModeStream), 0, 0, 1})
	m.WriteWord(0)
	m.WriteBool(false)
	m.WriteWord(0)
	m.WriteWord(0)
	m.WriteWord(0)
	m.WriteBytes(make([]byte, tcrt.FilenameSize))
	m.WriteBytes(make([]byte, tcrt.LoaderSize))
	m.WriteBytes(make([]byte, 2))
	m.WriteDWord(base)
	m.WriteDWord(entries)
	m.WriteByte(nameLen)
	m.WriteByte(dataLen)
	m.WriteBytes(make([]byte, tcrt.FlashSize))
	return s
}

func TestSnapshotDirectory(t *testing.T) {
	c := newComputer(t)
	c.tc.Memory().WriteFlash(0x10, []byte{0x42})

	// the largest directory that fits in the flash memory
	test.ExpectSuccess(t, c.tc.ReadSnapshot(directorySnapshot(tcrt.FlashSize-0x100, 0x10, 0x10, 0x00)))
	test.ExpectEquality(t, c.tc.Memory().Flash[0x10], 0x00)

	c.tc.Memory().Flash[0x10] = 0x42

	for _, s := range []*snapshot.Snapshot{
		directorySnapshot(tcrt.FlashSize, 0, 0x10, 0x02),
		directorySnapshot(tcrt.FlashSize-0x100, 0x11, 0x10, 0x00),
		directorySnapshot(0, 0x10000, 0x01, 0x00),
		directorySnapshot(0, 0x10, 0x11, 0x00),
		directorySnapshot(0, 0xffffffff, 0xff, 0xff),
	} {
		err := c.tc.ReadSnapshot(s)
		test.ExpectSuccess(t, curated.Is(err, tapecart.BadSnapshot))

		// the memory is untouched by a rejected snapshot
		test.ExpectEquality(t, c.tc.Memory().Flash[0x10], 0x42)
	}
}

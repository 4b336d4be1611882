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

// Package tapecart emulates the tapecart, a flash memory device for the
// cassette port of the C64.
//
// In stream mode the tapecart plays a standard CBM tape file containing a
// small loader. The loader switches the tapecart into fastload mode, in which
// the program is transferred two bits at a time using the sense and write
// lines. Command mode is a 1-bit protocol used by tools to read and write the
// flash memory.
//
// All timing is driven by two alarms in the alarm.Context of the CPU. The
// state of a protocol that is waiting for an alarm or for a line change is
// an operation value that is resumed when the alarm triggers or the line
// changes.
package tapecart

import (
	"bytes"
	"os"

	"github.com/jetsetilly/c64io/curated"
	"github.com/jetsetilly/c64io/environment"
	"github.com/jetsetilly/c64io/hardware/alarm"
	"github.com/jetsetilly/c64io/hardware/tapeport"
	"github.com/jetsetilly/c64io/hardware/tapeport/tapecart/tcrt"
	"github.com/jetsetilly/c64io/imageloader"
	"github.com/jetsetilly/c64io/logger"
	"github.com/jetsetilly/c64io/prefs"
)

// Sentinal error patterns.
const (
	AttachFailed = "tapecart: cannot attach %s: %v"
	UpdateFailed = "tapecart: cannot update %s: %v"
	NotEnabled   = "tapecart: not enabled"
	NoTCRT       = "tapecart: no TCRT file attached"
	BadSnapshot  = "tapecart: snapshot: %v"
)

const logTag = "tapecart"

// Mode is the operating mode of the tapecart.
type Mode int

// List of valid Mode values. ModeReinit is never the current mode. Setting it
// restarts stream mode from the beginning of the stream.
const (
	ModeUninitialised Mode = iota
	ModeStream
	ModeFastload
	ModeCommand
	ModeReinit
)

func (m Mode) String() string {
	switch m {
	case ModeUninitialised:
		return "uninitialised"
	case ModeStream:
		return "stream"
	case ModeFastload:
		return "fastload"
	case ModeCommand:
		return "command"
	case ModeReinit:
		return "reinit"
	}
	return "unknown mode"
}

// Tapecart implements the tapeport.Device interface.
type Tapecart struct {
	env  *environment.Environment
	ctx  *alarm.Context
	port tapeport.Port

	// the logic alarm drives the protocols and the pulse alarm plays the
	// stream
	logic *alarm.Alarm
	pulse *alarm.Alarm

	enabled bool

	// the attached TCRT file. may be set while the tapecart is disabled, in
	// which case it is loaded when the tapecart is enabled
	filename string

	// the TCRT file was taken from an archive and can not be updated
	archived bool

	// nil while disabled
	mem *Memory

	stream stream

	// fastload payload
	data []byte

	mode      Mode
	requested Mode

	// state of the lines as last stored by the computer
	motor   bool
	writeIn bool
	senseIn bool

	// the write line is shifted in whenever the motor is switched on in
	// stream mode. the magic values change the requested mode
	shiftReg uint16

	// number of 1ms ticks remaining in the pause at the end of the stream
	pauseTicks int

	// operations resumed by the logic alarm and by the wait condition
	alarmOp operation
	waitOp  operation
	wait    wait

	xfer transfer

	buf        [256]byte
	debugFlags [2]byte
	dir        directory

	// progress of a WRITE_FLASH command
	flashAddress uint32
	flashLength  uint32
	blockLength  uint32

	// typical flash timings from the W25Q16 datasheet, in cycles
	pageWriteTime  uint64
	erase64KTime   uint64
	eraseBlockTime uint64
}

// New is the preferred method of initialisation for the Tapecart type. The
// tapecart is disabled until Enable() is called.
func New(env *environment.Environment, ctx *alarm.Context, port tapeport.Port) *Tapecart {
	tc := &Tapecart{
		env:       env,
		ctx:       ctx,
		port:      port,
		filename:  env.Prefs.Tapecart.TCRTFilename.String(),
		mode:      ModeUninitialised,
		requested: ModeStream,
	}

	tc.logic = ctx.New("tapecart_logic", tc.logicAlarm)
	tc.pulse = ctx.New("tapecart_pulse", tc.pulseAlarm)

	env.Prefs.Tapecart.TCRTFilename.SetHookPre(func(v prefs.Value) error {
		return tc.AttachTCRT(v.(string))
	})

	return tc
}

func (tc *Tapecart) verbosity(level int) logger.Permission {
	return logger.Verbosity{Level: tc.env.Prefs.Tapecart.LogLevel.Int, Required: level}
}

// Enable the tapecart. If a TCRT file has been attached it is loaded.
func (tc *Tapecart) Enable() {
	if tc.enabled {
		return
	}

	tc.mem = newMemory()

	rate := tc.env.ClockRate()
	tc.pageWriteTime = rate * 700 / 1000000
	tc.erase64KTime = rate * 180 / 1000
	tc.eraseBlockTime = rate * 60 / 1000

	tc.enabled = true

	if tc.filename != "" {
		if err := tc.load(tc.filename); err != nil {
			logger.Logf(tc.env, logTag, "%v", err)
		}
	}

	logger.Log(tc.verbosity(1), logTag, "enabled")
}

// Disable the tapecart. The TCRT file is updated if necessary and the
// memory is discarded.
func (tc *Tapecart) Disable() {
	if !tc.enabled {
		return
	}

	tc.update()

	tc.logic.Unset()
	tc.pulse.Unset()
	tc.setSense(true)

	tc.mem = nil
	tc.mode = ModeUninitialised
	tc.requested = ModeStream
	tc.wait = waitNone
	tc.enabled = false

	logger.Log(tc.verbosity(1), logTag, "disabled")
}

// Enabled returns true if the tapecart is enabled.
func (tc *Tapecart) Enabled() bool {
	return tc.enabled
}

// Memory returns the memory of the tapecart. Returns nil if the tapecart is
// not enabled.
func (tc *Tapecart) Memory() *Memory {
	return tc.mem
}

// Mode returns the current mode.
func (tc *Tapecart) Mode() Mode {
	return tc.mode
}

// RequestedMode returns the mode that will be entered at the end of the
// stream.
func (tc *Tapecart) RequestedMode() Mode {
	return tc.requested
}

// Filename returns the name of the attached TCRT file.
func (tc *Tapecart) Filename() string {
	return tc.filename
}

// AttachTCRT attaches the named TCRT file. The previously attached file is
// updated first. An empty filename detaches the file and erases the memory.
// If the file can not be loaded the previous file remains attached.
//
// If the tapecart is disabled the filename is remembered and the file is
// loaded when the tapecart is enabled.
func (tc *Tapecart) AttachTCRT(filename string) error {
	if !tc.enabled {
		tc.filename = filename
		return nil
	}

	tc.update()

	if filename == "" {
		tc.mem.clear()
		tc.archived = false
	} else if err := tc.load(filename); err != nil {
		return err
	}

	tc.filename = filename
	tc.setMode(ModeReinit)

	return nil
}

// load the named file. the file can be a TCRT file or an archive containing
// a file with the .tcrt extension.
func (tc *Tapecart) load(filename string) error {
	var img *tcrt.Image
	var err error

	archived := !tcrt.IsValid(filename)
	if archived {
		ld := imageloader.NewLoader(filename, ".tcrt")
		if err = ld.Load(); err == nil {
			img, err = tcrt.Load(bytes.NewReader(ld.Data), tc.defaultLoader())
		}
	} else {
		img, err = tcrt.LoadFile(filename, tc.defaultLoader())
	}
	if err != nil {
		return curated.Errorf(AttachFailed, filename, err)
	}

	tc.archived = archived
	tc.mem.Image = *img
	tc.mem.Changed = false
	tc.mem.NonErasedWrites = 0

	logger.Logf(tc.verbosity(1), logTag, "attached %s", filename)
	return nil
}

// the loader used for TCRT files that do not contain one.
func (tc *Tapecart) defaultLoader() []byte {
	fn := tc.env.Prefs.Tapecart.DefaultLoader.String()
	if fn == "" {
		return nil
	}

	b, err := os.ReadFile(fn)
	if err != nil {
		logger.Logf(tc.env, logTag, "default loader: %v", err)
		return nil
	}
	if len(b) != tcrt.LoaderSize {
		logger.Logf(tc.env, logTag, "default loader: %s is %d bytes long (should be %d)", fn, len(b), tcrt.LoaderSize)
	}

	return b
}

// FlushTCRT writes the memory to the attached TCRT file. The file is written
// even if the memory is unchanged. TCRT files inside an archive are never
// written.
func (tc *Tapecart) FlushTCRT() error {
	if !tc.enabled {
		return curated.Errorf(NotEnabled)
	}
	if tc.filename == "" {
		return curated.Errorf(NoTCRT)
	}
	return tc.save()
}

// update writes the memory to the attached TCRT file if the memory has changed
// and the UpdateTCRT preference is set. called when the file is detached or
// the tapecart is shutdown.
func (tc *Tapecart) update() {
	if !tc.enabled || tc.filename == "" || !tc.mem.Changed {
		return
	}
	if !tc.env.Prefs.Tapecart.UpdateTCRT.Bool() {
		return
	}
	if err := tc.save(); err != nil {
		logger.Logf(tc.env, logTag, "%v", err)
	}
}

func (tc *Tapecart) save() error {
	if tc.archived {
		logger.Logf(tc.verbosity(1), logTag, "not updating %s: TCRT is in an archive", tc.filename)
		return nil
	}

	err := tcrt.SaveFile(tc.filename, &tc.mem.Image, tc.env.Prefs.Tapecart.OptimizeTCRT.Bool())
	if err != nil {
		return curated.Errorf(UpdateFailed, tc.filename, err)
	}
	tc.mem.Changed = false

	logger.Logf(tc.verbosity(1), logTag, "updated %s", tc.filename)
	return nil
}

// Reset implements the tapeport.Device interface. The tapecart is not
// connected to the reset line.
func (tc *Tapecart) Reset() {
}

// Shutdown implements the tapeport.Device interface.
func (tc *Tapecart) Shutdown() {
	tc.update()
}

func (tc *Tapecart) setSense(v bool) {
	tc.port.SetSense(v)
}

func (tc *Tapecart) setWrite(v bool) {
	tc.port.SetWriteIn(v)
}

func (tc *Tapecart) setMode(mode Mode) {
	if tc.mode == mode {
		return
	}

	tc.logic.Unset()
	tc.pulse.Unset()

	tc.mode = mode
	tc.alarmOp = opNone
	tc.waitOp = opNone
	tc.wait = waitNone

	var delay uint64

	switch mode {
	case ModeReinit, ModeStream:
		tc.mode = ModeStream
		tc.requested = ModeStream
		tc.stream.construct(tc.mem)
		tc.setSense(false)
		tc.pauseTicks = 0
		p, _ := tc.nextPulse()
		tc.pulse.Set(tc.ctx.Clock() + p)
		return

	case ModeFastload:
		delay = tc.fastloadInit()

	case ModeCommand:
		tc.alarmOp = opCommandInit
		delay = tc.env.ClockRate() / 1000
	}

	if delay > 0 {
		tc.logic.Set(tc.ctx.Clock() + delay)
	}
}

// the fastload payload is the call address, the end address and the load
// address followed by the program. the transfer starts after 100ms to give
// the computer time to turn off the motor.
func (tc *Tapecart) fastloadInit() uint64 {
	delay := tc.env.ClockRate() / 10

	load, prg, ok := tc.mem.Program()
	if !ok {
		logger.Log(tc.env, logTag, "load-info does not describe a program in flash")
		tc.alarmOp = opFastloadPostDelay
		return delay
	}
	end := load + uint16(len(prg))

	tc.data = append(tc.data[:0],
		uint8(tc.mem.CallAddress), uint8(tc.mem.CallAddress>>8),
		uint8(end), uint8(end>>8),
		uint8(load), uint8(load>>8))
	tc.data = append(tc.data, prg...)

	return tc.transmitFast(delay, tc.data, opFastloadPostDelay)
}

func (tc *Tapecart) nextPulse() (uint64, bool) {
	// the stream ends immediately if a mode change has been requested
	if tc.requested != ModeStream {
		tc.stream.rewind()
		return 0, false
	}
	return tc.stream.next()
}

func (tc *Tapecart) pulseAlarm(offset uint64) {
	// pulses are only sent while the motor is on
	if tc.mode != ModeStream || !tc.motor {
		return
	}

	p, ok := tc.nextPulse()
	if !ok {
		// release the sense line for 200ms at the end of the stream. the
		// extra ticks allow for rounding
		tc.setSense(true)
		tc.pauseTicks = 210
		tc.logic.Set(tc.ctx.Clock() + tc.env.ClockRate()/1000)
		return
	}

	tc.port.TriggerFluxChange()
	tc.pulse.Set(tc.ctx.Clock() + p - offset)
}

func (tc *Tapecart) logicAlarm(offset uint64) {
	switch tc.mode {
	case ModeStream:
		if tc.pauseTicks == 0 {
			return
		}

		tc.pauseTicks--
		if tc.pauseTicks == 0 {
			tc.setSense(false)
			if tc.motor {
				tc.pulse.Set(tc.ctx.Clock() + 10)
			}
			return
		}

		switch tc.requested {
		case ModeFastload, ModeCommand:
			logger.Logf(tc.verbosity(1), logTag, "entering %s mode", tc.requested)
			tc.setMode(tc.requested)
		default:
			tc.logic.Set(tc.ctx.Clock() + tc.env.ClockRate()/1000)
		}

	case ModeFastload, ModeCommand:
		if next := tc.resume(tc.alarmOp); next > 0 {
			tc.logic.Set(tc.ctx.Clock() + next - offset)
		}

	default:
		logger.Logf(tc.env, logTag, "alarm in %s mode", tc.mode)
	}
}

// StoreMotor implements the tapeport.Device interface.
func (tc *Tapecart) StoreMotor(on bool) {
	if !tc.enabled {
		return
	}

	tc.motor = on
	if !on {
		return
	}

	if tc.mode != ModeStream {
		logger.Log(tc.verbosity(1), logTag, "switching to stream mode because the motor is on")
		tc.setMode(ModeStream)
		return
	}

	tc.shiftReg <<= 1
	if tc.writeIn {
		tc.shiftReg |= 0x0001
	}
	logger.Logf(tc.verbosity(3), logTag, "shift register: %#04x", tc.shiftReg)

	// start sending pulses. the delay is not important
	tc.pulse.Set(tc.ctx.Clock() + 10)

	switch tc.shiftReg {
	case magicFastload:
		logger.Log(tc.verbosity(2), logTag, "fastload requested")
		tc.requested = ModeFastload
	case magicCommand:
		logger.Log(tc.verbosity(2), logTag, "command mode requested")
		tc.requested = ModeCommand
	}
}

// StoreWrite implements the tapeport.Device interface.
func (tc *Tapecart) StoreWrite(v bool) {
	if !tc.enabled {
		return
	}

	tc.writeIn = v
	if (v && tc.wait == waitWriteHigh) || (!v && tc.wait == waitWriteLow) {
		tc.resumeWait()
	}
}

// StoreSense implements the tapeport.Device interface.
func (tc *Tapecart) StoreSense(v bool) {
	if !tc.enabled {
		return
	}

	tc.senseIn = v
	if (v && tc.wait == waitSenseHigh) || (!v && tc.wait == waitSenseLow) {
		tc.resumeWait()
	}
}

func (tc *Tapecart) resumeWait() {
	tc.wait = waitNone
	if d := tc.resume(tc.waitOp); d > 0 {
		tc.logic.Set(tc.ctx.Clock() + d)
	}
}

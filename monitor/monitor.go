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


package monitor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"github.com/davecgh/go-spew/spew"
	"github.com/jetsetilly/c64io/curated"
	"github.com/jetsetilly/c64io/hardware"
	"github.com/jetsetilly/c64io/logger"
	"github.com/jetsetilly/c64io/modalflag"
)

// Sentinal error patterns.
const (
	UnknownCommand = "monitor: unknown command (%s)"
	BadArguments   = "monitor: %s: %v"
	NotInteractive = "monitor: run without a cycle count needs a terminal"
)

const prompt = "> "

// Monitor reads commands and applies them to the machine.
type Monitor struct {
	mc     *hardware.Machine
	input  *bufio.Scanner
	output io.Writer

	// prompts are only written if the monitor is interactive. run without a
	// cycle count is only allowed if keys is not nil
	interactive bool
	keys        Keyboard

	spew spew.ConfigState
}

// Keyboard is used by the run command to stop the machine when a key is
// pressed.
type Keyboard interface {
	// WaitForKey returns a channel that is closed when a key is pressed.
	// The stop function must be called once the channel is no longer
	// needed.
	WaitForKey() (pressed <-chan struct{}, stop func(), err error)
}

// New is the preferred method of initialisation for the Monitor type. The
// keyboard can be nil, in which case run must always be given a cycle count.
func New(mc *hardware.Machine, input io.Reader, output io.Writer, keys Keyboard) *Monitor {
	return &Monitor{
		mc:          mc,
		input:       bufio.NewScanner(input),
		output:      output,
		interactive: keys != nil,
		keys:        keys,
		spew: spew.ConfigState{
			Indent:                  "  ",
			MaxDepth:                3,
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		},
	}
}

// Run reads and executes commands until the quit command or the end of the
// input. Errors from commands are written to the output and do not end the
// loop.
func (mon *Monitor) Run() error {
	for {
		if mon.interactive {
			io.WriteString(mon.output, prompt)
		}

		if !mon.input.Scan() {
			return mon.input.Err()
		}

		quit, err := mon.Execute(mon.input.Text())
		if err != nil {
			fmt.Fprintln(mon.output, err)
		}
		if quit {
			return nil
		}
	}
}

type command struct {
	args  string
	help  string
	nargs []int
	fn    func(mon *Monitor, args []string) (bool, error)
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"r":      {"ADDR", "read a byte", []int{1}, (*Monitor).read},
		"p":      {"ADDR", "peek at a byte", []int{1}, (*Monitor).peek},
		"w":      {"ADDR VAL", "write a byte", []int{2}, (*Monitor).write},
		"run":    {"[CYCLES]", "advance the clock", []int{0, 1}, (*Monitor).run},
		"dump":   {"", "show the state of the devices", []int{0}, (*Monitor).dump},
		"spew":   {"[chip|cart|tapecart]", "show the internal state of a device", []int{0, 1}, (*Monitor).spewDevice},
		"memviz": {"FILE", "write a graph of the chip in dot format", []int{1}, (*Monitor).memviz},
		"save":   {"FILE", "write a snapshot", []int{1}, (*Monitor).save},
		"load":   {"FILE", "read a snapshot", []int{1}, (*Monitor).load},
		"reset":  {"", "reset the devices", []int{0}, (*Monitor).reset},
		"log":    {"[all|clear|tag TAG]", "show new log entries", []int{0, 1, 2}, (*Monitor).log},
		"help":   {"", "list the commands", []int{0}, (*Monitor).help},
		"quit":   {"", "leave the monitor", []int{0}, func(_ *Monitor, _ []string) (bool, error) { return true, nil }},
	}
}

// Execute a single command line. Returns true if the monitor should quit.
func (mon *Monitor) Execute(line string) (bool, error) {
	f := strings.Fields(line)
	if len(f) == 0 {
		return false, nil
	}

	name := strings.ToLower(f[0])
	cmd, ok := commands[name]
	if !ok {
		return false, curated.Errorf(UnknownCommand, f[0])
	}

	args := f[1:]
	for _, n := range cmd.nargs {
		if len(args) == n {
			return cmd.fn(mon, args)
		}
	}

	return false, curated.Errorf(BadArguments, name, fmt.Sprintf("usage: %s %s", name, cmd.args))
}

func parseByte(s string) (uint8, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "$") {
		s = "0x" + s[1:]
	}
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("not a byte value: %s", s)
	}
	return uint8(v), nil
}

func (mon *Monitor) read(args []string) (bool, error) {
	addr, err := modalflag.ParseAddress(args[0])
	if err != nil {
		return false, curated.Errorf(BadArguments, "r", err)
	}
	if v, ok := mon.mc.Read(addr); ok {
		fmt.Fprintf(mon.output, "$%04x: $%02x\n", addr, v)
	} else {
		fmt.Fprintf(mon.output, "$%04x: --\n", addr)
	}
	return false, nil
}

func (mon *Monitor) peek(args []string) (bool, error) {
	addr, err := modalflag.ParseAddress(args[0])
	if err != nil {
		return false, curated.Errorf(BadArguments, "p", err)
	}
	fmt.Fprintf(mon.output, "$%04x: $%02x\n", addr, mon.mc.Peek(addr))
	return false, nil
}

func (mon *Monitor) write(args []string) (bool, error) {
	addr, err := modalflag.ParseAddress(args[0])
	if err != nil {
		return false, curated.Errorf(BadArguments, "w", err)
	}
	v, err := parseByte(args[1])
	if err != nil {
		return false, curated.Errorf(BadArguments, "w", err)
	}
	mon.mc.Store(addr, v)
	return false, nil
}

func (mon *Monitor) run(args []string) (bool, error) {
	start := mon.mc.Clock.Clock()

	if len(args) == 1 {
		n, err := strconv.ParseUint(args[0], 0, 64)
		if err != nil {
			return false, curated.Errorf(BadArguments, "run", err)
		}
		mon.mc.RunFor(n)
	} else {
		if mon.keys == nil {
			return false, curated.Errorf(NotInteractive)
		}

		pressed, stop, err := mon.keys.WaitForKey()
		if err != nil {
			return false, curated.Errorf(BadArguments, "run", err)
		}
		defer stop()

		io.WriteString(mon.output, "running (press any key to stop)\n")
		err = mon.mc.Run(func() (bool, error) {
			select {
			case <-pressed:
				return false, nil
			default:
				return true, nil
			}
		})
		if err != nil {
			return false, err
		}
	}

	fmt.Fprintf(mon.output, "clock: %d (+%d)\n", mon.mc.Clock.Clock(), mon.mc.Clock.Clock()-start)
	return false, nil
}

func (mon *Monitor) dump(_ []string) (bool, error) {
	mon.mc.Dump(mon.output)
	return false, nil
}

func (mon *Monitor) spewDevice(args []string) (bool, error) {
	dev := "chip"
	if len(args) == 1 {
		dev = strings.ToLower(args[0])
	}

	switch dev {
	case "chip":
		mon.spew.Fdump(mon.output, mon.mc.Ethernet.Chip())
	case "cart":
		if mon.mc.Cart == nil {
			return false, curated.Errorf(BadArguments, "spew", "no cartridge")
		}
		mon.spew.Fdump(mon.output, mon.mc.Cart)
	case "tapecart":
		if !mon.mc.Tapecart.Enabled() {
			return false, curated.Errorf(BadArguments, "spew", "tapecart not enabled")
		}
		mem := mon.mc.Tapecart.Memory()
		mon.spew.Fdump(mon.output, struct {
			Filename    string
			Mode        string
			Requested   string
			DataOffset  uint16
			DataLength  uint16
			CallAddress uint16
			Changed     bool
		}{
			Filename:    mon.mc.Tapecart.Filename(),
			Mode:        mon.mc.Tapecart.Mode().String(),
			Requested:   mon.mc.Tapecart.RequestedMode().String(),
			DataOffset:  mem.DataOffset,
			DataLength:  mem.DataLength,
			CallAddress: mem.CallAddress,
			Changed:     mem.Changed,
		})
	default:
		return false, curated.Errorf(BadArguments, "spew", fmt.Sprintf("unknown device (%s)", dev))
	}

	return false, nil
}

func (mon *Monitor) memviz(args []string) (bool, error) {
	f, err := os.Create(args[0])
	if err != nil {
		return false, curated.Errorf(BadArguments, "memviz", err)
	}
	defer f.Close()

	memviz.Map(f, mon.mc.Ethernet.Chip())
	fmt.Fprintf(mon.output, "memory graph written to %s\n", args[0])

	return false, nil
}

func (mon *Monitor) save(args []string) (bool, error) {
	f, err := os.Create(args[0])
	if err != nil {
		return false, curated.Errorf(BadArguments, "save", err)
	}
	defer f.Close()

	if err := mon.mc.WriteSnapshot(f); err != nil {
		return false, err
	}
	fmt.Fprintf(mon.output, "snapshot saved to %s\n", args[0])

	return false, nil
}

func (mon *Monitor) load(args []string) (bool, error) {
	f, err := os.Open(args[0])
	if err != nil {
		return false, curated.Errorf(BadArguments, "load", err)
	}
	defer f.Close()

	if err := mon.mc.ReadSnapshot(f); err != nil {
		return false, err
	}
	fmt.Fprintf(mon.output, "snapshot loaded from %s\n", args[0])

	return false, nil
}

func (mon *Monitor) reset(_ []string) (bool, error) {
	mon.mc.Reset()
	return false, nil
}

func (mon *Monitor) log(args []string) (bool, error) {
	if len(args) == 0 {
		logger.WriteRecent(mon.output)
		return false, nil
	}

	opt := strings.ToLower(args[0])
	if len(args) == 2 && opt != "tag" {
		return false, curated.Errorf(BadArguments, "log", fmt.Sprintf("too many arguments for %s", opt))
	}

	switch opt {
	case "all":
		logger.Write(mon.output)
	case "clear":
		logger.Clear()
	case "tag":
		if len(args) != 2 {
			return false, curated.Errorf(BadArguments, "log", "tag requires a tag name")
		}
		logger.BorrowLog(func(entries []logger.Entry) {
			for _, e := range entries {
				if strings.EqualFold(e.Tag, args[1]) {
					io.WriteString(mon.output, e.String())
				}
			}
		})
	default:
		return false, curated.Errorf(BadArguments, "log", fmt.Sprintf("unknown option (%s)", args[0]))
	}

	return false, nil
}

func (mon *Monitor) help(_ []string) (bool, error) {
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		cmd := commands[n]
		fmt.Fprintf(mon.output, "%-22s %s\n", strings.TrimSpace(n+" "+cmd.args), cmd.help)
	}

	return false, nil
}

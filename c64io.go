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


package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jetsetilly/c64io/curated"
	"github.com/jetsetilly/c64io/environment"
	"github.com/jetsetilly/c64io/hardware"
	"github.com/jetsetilly/c64io/hardware/tapeport/tapecart/tcrt"
	"github.com/jetsetilly/c64io/imageloader"
	"github.com/jetsetilly/c64io/logger"
	"github.com/jetsetilly/c64io/modalflag"
	"github.com/jetsetilly/c64io/monitor"
	"github.com/jetsetilly/c64io/prefs"
	"github.com/jetsetilly/c64io/statsview"
	"github.com/jetsetilly/c64io/version"
	"github.com/jetsetilly/c64io/wavwriter"
	xterm "golang.org/x/term"
)

// exit values.
const (
	exitOK         = 0
	exitParseError = 10
	exitModeError  = 20
)

func main() {
	os.Exit(launch(os.Args[1:], os.Stdin, os.Stdout))
}

// launch parses the arguments and runs the selected mode. returns the value
// to use with os.Exit().
func launch(args []string, input io.Reader, output io.Writer) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("MONITOR", "TCRT")

	echo := md.AddBool("log", false, "echo log to stdout")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))
	cmdline := md.AddString("prefs", "", "preferences for this session (key::value; ...)")
	showVersion := md.AddBool("version", false, "show version information and exit")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return exitOK
	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return exitParseError
	}

	if *showVersion {
		fmt.Fprintln(output, version.Version())
		return exitOK
	}

	if *echo {
		logger.SetEcho(output, false)
		defer logger.SetEcho(nil, false)
	}

	if *stats {
		if statsview.Available() {
			stop := statsview.Launch(output)
			defer stop()
		} else {
			fmt.Fprintln(output, "* statsview not available in this build")
		}
	}

	if *cmdline != "" {
		prefs.PushCommandLineStack(*cmdline)
		defer prefs.PopCommandLineStack()
	}

	switch md.Mode() {
	case "MONITOR":
		err = runMonitor(md, input)
	case "TCRT":
		err = tapecartTools(md)
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md.String(), err)
		return exitModeError
	}

	return exitOK
}

func parseMachine(machine string, standard string) (*environment.Environment, error) {
	var m environment.Machine
	switch strings.ToUpper(machine) {
	case "C64":
		m = environment.C64
	case "VIC20":
		m = environment.VIC20
	default:
		return nil, fmt.Errorf("unknown machine (%s)", machine)
	}

	var s environment.Standard
	switch strings.ToUpper(standard) {
	case "PAL":
		s = environment.PAL
	case "NTSC":
		s = environment.NTSC
	default:
		return nil, fmt.Errorf("unknown television standard (%s)", standard)
	}

	return environment.NewEnvironment(m, s, nil)
}

func runMonitor(md *modalflag.Modes, input io.Reader) error {
	md.NewMode()
	md.AdditionalHelp(fmt.Sprintf("cartridge types: %s", strings.Join(hardware.CartTypes, ", ")))

	machine := md.AddString("machine", "C64", "machine type: C64, VIC20")
	standard := md.AddString("tv", "PAL", "television standard: PAL, NTSC")
	cart := md.AddString("cart", hardware.CartTFE, "ethernet cartridge to fit")
	iface := md.AddString("if", "", "host network interface")
	bios := md.AddString("bios", "", "BIOS file (rrnetmk3 only)")
	tcrtFile := md.AddString("tcrt", "", "TCRT file to attach to the tapecart")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	env, err := parseMachine(*machine, *standard)
	if err != nil {
		return err
	}

	if *iface != "" {
		if err := env.Prefs.Ethernet.Interface.Set(*iface); err != nil {
			return err
		}
	}

	mc, err := hardware.NewMachine(env, *cart)
	if err != nil {
		return err
	}
	defer mc.Shutdown()

	if *bios != "" {
		if err := mc.AttachBIOS(*bios); err != nil {
			return err
		}
	}

	if *tcrtFile != "" {
		if err := mc.AttachTCRT(*tcrtFile); err != nil {
			return err
		}
	}

	var keys monitor.Keyboard
	if f, ok := input.(*os.File); ok && xterm.IsTerminal(int(f.Fd())) {
		keys = monitor.NewTTY()
		fmt.Fprintf(md.Output, "%s\n", mc)
	}

	return monitor.New(mc, input, md.Output, keys).Run()
}

func tapecartTools(md *modalflag.Modes) error {
	md.NewMode()
	md.AddSubModes("INFO", "WAV", "CREATE")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch md.Mode() {
	case "INFO":
		return tcrtInfo(md)
	case "WAV":
		return tcrtWAV(md)
	case "CREATE":
		return tcrtCreate(md)
	}

	return nil
}

// loads a TCRT file, which may be inside an archive or on the network.
func loadTCRT(filename string) (*tcrt.Image, error) {
	ld := imageloader.NewLoader(filename, ".tcrt")
	if err := ld.Load(); err != nil {
		return nil, err
	}
	return tcrt.Load(bytes.NewReader(ld.Data), nil)
}

func tcrtInfo(md *modalflag.Modes) error {
	md.NewMode()

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("%s mode requires one TCRT file", md)
	}

	img, err := loadTCRT(md.GetArg(0))
	if err != nil {
		return err
	}

	fmt.Fprintf(md.Output, "filename: %s\n", img.FilenameString())
	fmt.Fprintf(md.Output, "data: $%04x ($%04x bytes)\n", img.DataOffset, img.DataLength)
	fmt.Fprintf(md.Output, "call: $%04x\n", img.CallAddress)
	if load, data, ok := img.Program(); ok {
		fmt.Fprintf(md.Output, "program: $%04x-$%04x\n", load, int(load)+len(data))
	} else {
		fmt.Fprintln(md.Output, "program: none")
	}

	return nil
}

func tcrtWAV(md *modalflag.Modes) error {
	md.NewMode()

	standard := md.AddString("tv", "PAL", "television standard: PAL, NTSC")
	rate := md.AddInt("rate", wavwriter.DefaultSampleRate, "sample rate of the WAV file")
	limit := md.AddUint64("limit", 60, "maximum length of the stream in seconds")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 2 {
		return fmt.Errorf("%s mode requires a TCRT file and a WAV file", md)
	}

	env, err := parseMachine("C64", *standard)
	if err != nil {
		return err
	}

	// the TCRT file must not be changed by playing it
	env.Prefs.Tapecart.UpdateTCRT.Set(false)

	mc, err := hardware.NewMachine(env, hardware.CartNone)
	if err != nil {
		return err
	}
	defer mc.Shutdown()

	if err := mc.AttachTCRT(md.GetArg(0)); err != nil {
		return err
	}

	ww, err := wavwriter.New(md.GetArg(1), env.ClockRate(), *rate)
	if err != nil {
		return err
	}

	if err := mc.PlayStream(*limit*env.ClockRate(), ww.Flux); err != nil {
		return err
	}

	if err := ww.Write(); err != nil {
		return err
	}

	fmt.Fprintf(md.Output, "%s written (%s)\n", md.GetArg(1), ww.Duration())

	return nil
}

// sentinal error pattern.
const createFailed = "create: %v"

func tcrtCreate(md *modalflag.Modes) error {
	md.NewMode()

	name := md.AddString("name", "", "filename shown by the loader")
	call := md.AddAddress("call", 0x080d, "address to jump to after loading")
	loader := md.AddString("loader", "", "loader to include in the TCRT file")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 2 {
		return fmt.Errorf("%s mode requires a PRG file and a TCRT file", md)
	}

	ld := imageloader.NewLoader(md.GetArg(0), ".prg")
	if err := ld.Load(); err != nil {
		return err
	}

	// the first two bytes are the load address
	if len(ld.Data) < 3 || len(ld.Data) > 0xffff {
		return curated.Errorf(createFailed, fmt.Sprintf("%s is not a usable PRG file", ld.ShortName()))
	}

	img := tcrt.NewImage()
	img.DataOffset = 0
	img.DataLength = uint16(len(ld.Data))
	img.CallAddress = *call
	copy(img.Flash, ld.Data)

	if *name == "" {
		*name = strings.ToUpper(ld.ShortName())
	}
	img.SetFilename(*name)

	if *loader != "" {
		l := imageloader.NewLoader(*loader)
		if err := l.Load(); err != nil {
			return err
		}
		if len(l.Data) != tcrt.LoaderSize {
			return curated.Errorf(createFailed, fmt.Sprintf("loader must be %d bytes", tcrt.LoaderSize))
		}
		copy(img.Loader[:], l.Data)
	}

	if err := tcrt.SaveFile(md.GetArg(1), img, true); err != nil {
		return curated.Errorf(createFailed, err)
	}

	fmt.Fprintf(md.Output, "%s written\n", md.GetArg(1))

	return nil
}

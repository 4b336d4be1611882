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

// Package environment describes the machine that an emulated device is
// attached to. Every device is given an Environment on creation.
package environment

import (
	"github.com/jetsetilly/c64io/hardware/clocks"
	"github.com/jetsetilly/c64io/hardware/preferences"
)

// Label is used to name the environment.
type Label string

// MainEmulation is the label used for the main emulation.
const MainEmulation = Label("")

// Machine is the class of the host computer.
type Machine int

// List of valid Machine values.
const (
	C64 Machine = iota
	VIC20
)

func (m Machine) String() string {
	switch m {
	case C64:
		return "C64"
	case VIC20:
		return "VIC20"
	}
	return "unknown machine"
}

// Standard is the video standard of the machine, which determines the clock
// rate.
type Standard int

// List of valid Standard values.
const (
	PAL Standard = iota
	NTSC
)

func (s Standard) String() string {
	if s == NTSC {
		return "NTSC"
	}
	return "PAL"
}

// Environment is used to provide context for an emulated device.
type Environment struct {
	Label    Label
	Machine  Machine
	Standard Standard

	// the emulation preferences
	Prefs *preferences.Preferences
}

// NewEnvironment is the preferred method of initialisation for the
// Environment type. If prefs is nil then default preferences that are not
// associated with a file are used.
func NewEnvironment(machine Machine, standard Standard, prefs *preferences.Preferences) (*Environment, error) {
	env := &Environment{
		Machine:  machine,
		Standard: standard,
	}

	if prefs == nil {
		var err error
		prefs, err = preferences.NewPreferencesFromFile("")
		if err != nil {
			return nil, err
		}
	}
	env.Prefs = prefs

	return env, nil
}

// ClockRate returns the CPU clock rate in cycles per second.
func (env *Environment) ClockRate() uint64 {
	switch env.Machine {
	case VIC20:
		if env.Standard == NTSC {
			return clocks.VIC20_NTSC
		}
		return clocks.VIC20_PAL
	}
	if env.Standard == NTSC {
		return clocks.C64_NTSC
	}
	return clocks.C64_PAL
}

// IsMainEmulation returns true if the environment is for the main
// emulation.
func (env *Environment) IsMainEmulation() bool {
	return env.Label == MainEmulation
}

// IsEmulation checks the emulation label and returns true if it matches.
func (env *Environment) IsEmulation(label Label) bool {
	return env.Label == label
}

// AllowLogging implements the logger.Permission interface. Only the main
// emulation creates log entries.
func (env *Environment) AllowLogging() bool {
	return env.IsMainEmulation()
}

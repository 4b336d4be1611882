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

package preferences

import (
	"github.com/jetsetilly/c64io/curated"
	"github.com/jetsetilly/c64io/prefs"
	"github.com/jetsetilly/c64io/resources"
)

// Preferences for the emulated hardware.
type Preferences struct {
	dsk *prefs.Disk

	Ethernet Ethernet
	RRNetMK3 RRNetMK3
	Tapecart Tapecart
}

// Ethernet preferences are shared by every cartridge that contains the
// CS8900A.
type Ethernet struct {
	// the name of the host interface used by the rawnet backend
	Interface prefs.String

	// the TFE cartridge is active
	Active prefs.Bool

	// the TFE cartridge emulates RR-Net (on a clockport) instead of TFE
	AsRR prefs.Bool

	// the VIC-20 MasC=uerade address range is swapped
	IOSwap prefs.Bool

	// the base address of the generic ethernet cartridge
	CartBase prefs.Int

	// 0 for TFE mode and 1 for RR-Net mode
	CartMode prefs.Int

	// the base address of the ETFE cartridge on the IDE64 shortbus
	ShortbusBase prefs.Int
}

// RRNetMK3 preferences.
type RRNetMK3 struct {
	// BIOS flash is writable
	FlashJumper prefs.Bool

	// BIOS changes are written back to the image file on detach
	BIOSWrite prefs.Bool
}

// Tapecart preferences.
type Tapecart struct {
	// write the TCRT image back to disk when it has changed
	UpdateTCRT prefs.Bool

	// trim trailing erased bytes from the TCRT image when writing
	OptimizeTCRT prefs.Bool

	// verbosity of tapecart logging. zero is quiet
	LogLevel prefs.Int

	// the name of the attached TCRT image
	TCRTFilename prefs.String

	// the file containing the loader used when a TCRT image has none
	DefaultLoader prefs.String
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. The preferences are loaded from the default prefs file
// in the resources directory.
func NewPreferences() (*Preferences, error) {
	pth, err := resources.JoinPath(prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}
	return NewPreferencesFromFile(pth)
}

// NewPreferencesFromFile creates the Preferences type using the named
// file. A missing file is not an error. If the path is empty then the
// preferences are not associated with any file.
func NewPreferencesFromFile(pth string) (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	if pth == "" {
		return p, nil
	}

	var err error
	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	for _, e := range []struct {
		key string
		p   prefsValue
	}{
		{"ETHERNET_INTERFACE", &p.Ethernet.Interface},
		{"ETHERNET_ACTIVE", &p.Ethernet.Active},
		{"ETHERNET_AS_RR", &p.Ethernet.AsRR},
		{"TFEIOSwap", &p.Ethernet.IOSwap},
		{"ETHERNETCARTBase", &p.Ethernet.CartBase},
		{"ETHERNETCARTMode", &p.Ethernet.CartMode},
		{"SBETFEbase", &p.Ethernet.ShortbusBase},
		{"RRNETMK3_flashjumper", &p.RRNetMK3.FlashJumper},
		{"RRNETMK3_bios_write", &p.RRNetMK3.BIOSWrite},
		{"TapecartUpdateTCRT", &p.Tapecart.UpdateTCRT},
		{"TapecartOptimizeTCRT", &p.Tapecart.OptimizeTCRT},
		{"TapecartLogLevel", &p.Tapecart.LogLevel},
		{"TapecartTCRTFilename", &p.Tapecart.TCRTFilename},
		{"TapecartDefaultLoader", &p.Tapecart.DefaultLoader},
	} {
		if err := p.dsk.Add(e.key, e.p); err != nil {
			return nil, err
		}
	}

	err = p.dsk.Load(false)
	if err != nil && !curated.Is(err, prefs.NoPrefsFile) {
		return nil, err
	}

	return p, nil
}

// the subset of the prefs types interface needed to add a value to a
// prefs.Disk.
type prefsValue interface {
	String() string
	Set(prefs.Value) error
	Get() prefs.Value
	Reset() error
}

// SetDefaults reverts all preferences to their default values.
func (p *Preferences) SetDefaults() {
	p.Ethernet.Interface.Set("")
	p.Ethernet.Active.Set(false)
	p.Ethernet.AsRR.Set(false)
	p.Ethernet.IOSwap.Set(false)
	p.Ethernet.CartBase.Set(0xde00)
	p.Ethernet.CartMode.Set(0)
	p.Ethernet.ShortbusBase.Set(0xde00)
	p.RRNetMK3.FlashJumper.Set(false)
	p.RRNetMK3.BIOSWrite.Set(false)
	p.Tapecart.UpdateTCRT.Set(true)
	p.Tapecart.OptimizeTCRT.Set(true)
	p.Tapecart.LogLevel.Set(0)
	p.Tapecart.TCRTFilename.Set("")
	p.Tapecart.DefaultLoader.Set("")
}

func (p *Preferences) String() string {
	if p.dsk == nil {
		return ""
	}
	return p.dsk.String()
}

// Load preferences from disk. Does nothing if the preferences are not
// associated with a file.
func (p *Preferences) Load() error {
	if p.dsk == nil {
		return nil
	}
	return p.dsk.Load(false)
}

// Save preferences to disk. Does nothing if the preferences are not
// associated with a file.
func (p *Preferences) Save() error {
	if p.dsk == nil {
		return nil
	}
	return p.dsk.Save()
}

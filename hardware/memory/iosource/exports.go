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

package iosource

import (
	"github.com/jetsetilly/c64io/curated"
)

// Sentinal error patterns.
const (
	ExportConflict = "iosource: %s conflicts with %s (%s)"
)

// Export describes the cartridge port lines claimed by a cartridge.
type Export struct {
	Name  string
	Game  bool
	ExROM bool
}

// Exports is the table of cartridges that are using the cartridge port.
type Exports struct {
	list []Export
}

// Add the export to the table. It is an error to add an export with the same
// name as an existing export, or to claim a line that has already been
// claimed.
func (x *Exports) Add(e Export) error {
	for _, o := range x.list {
		if o.Name == e.Name {
			return curated.Errorf(ExportConflict, e.Name, o.Name, "name")
		}
		if e.Game && o.Game {
			return curated.Errorf(ExportConflict, e.Name, o.Name, "GAME")
		}
		if e.ExROM && o.ExROM {
			return curated.Errorf(ExportConflict, e.Name, o.Name, "EXROM")
		}
	}
	x.list = append(x.list, e)
	return nil
}

// Remove the named export from the table.
func (x *Exports) Remove(name string) {
	for i, o := range x.list {
		if o.Name == name {
			x.list = append(x.list[:i], x.list[i+1:]...)
			return
		}
	}
}

// List returns a copy of the exports table.
func (x *Exports) List() []Export {
	l := make([]Export, len(x.list))
	copy(l, x.list)
	return l
}

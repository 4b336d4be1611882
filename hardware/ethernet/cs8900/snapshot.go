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
	"github.com/jetsetilly/c64io/snapshot"
)

const (
	snapshotModule = "CS8900"
	snapshotMajor  = 0
	snapshotMinor  = 0
)

// WriteSnapshot adds the CS8900 module to the snapshot. The state of the chip
// is not saved and snapshot.ModuleNotImplemented is always returned.
func (c *CS8900) WriteSnapshot(s *snapshot.Snapshot) error {
	s.CreateModule(snapshotModule, snapshotMajor, snapshotMinor)
	return curated.Errorf(snapshot.ModuleNotImplemented, snapshotModule)
}

// ReadSnapshot always returns snapshot.ModuleNotImplemented.
func (c *CS8900) ReadSnapshot(s *snapshot.Snapshot) error {
	return curated.Errorf(snapshot.ModuleNotImplemented, snapshotModule)
}

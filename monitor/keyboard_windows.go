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


//go:build windows

package monitor

import "github.com/jetsetilly/c64io/curated"

// TTY is not available on this platform. WaitForKey always fails.
type TTY struct{}

// NewTTY returns a Keyboard that always fails.
func NewTTY() *TTY {
	return &TTY{}
}

// WaitForKey implements the Keyboard interface.
func (tty *TTY) WaitForKey() (<-chan struct{}, func(), error) {
	return nil, nil, curated.Errorf(NotInteractive)
}

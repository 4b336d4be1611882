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


//go:build !windows

package monitor

import (
	"sync"
	"time"

	"github.com/pkg/term"
)

// the interval between checks for the stop signal while waiting for a key
const keyPoll = 50 * time.Millisecond

// TTY is a Keyboard that reads from the controlling terminal.
type TTY struct {
	name string
}

// NewTTY returns a Keyboard for the controlling terminal.
func NewTTY() *TTY {
	return &TTY{name: "/dev/tty"}
}

// WaitForKey implements the Keyboard interface. The terminal is put into
// cbreak mode until the stop function is called.
func (tty *TTY) WaitForKey() (<-chan struct{}, func(), error) {
	t, err := term.Open(tty.name)
	if err != nil {
		return nil, nil, err
	}

	if err := t.SetCbreak(); err != nil {
		t.Close()
		return nil, nil, err
	}

	if err := t.SetReadTimeout(keyPoll); err != nil {
		t.Restore()
		t.Close()
		return nil, nil, err
	}

	pressed := make(chan struct{})
	quit := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		b := make([]byte, 1)
		for {
			select {
			case <-quit:
				return
			default:
			}

			n, err := t.Read(b)
			if err != nil && n == 0 {
				// a timeout is not an error worth stopping for
				continue
			}
			if n > 0 {
				close(pressed)
				return
			}
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(quit)
			<-done
			t.Restore()
			t.Close()
		})
	}

	return pressed, stop, nil
}

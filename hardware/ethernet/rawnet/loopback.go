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

package rawnet

func init() {
	register("null", "discard all frames", openNull)
	register("loopback", "receive every transmitted frame", openLoopback)
}

type null struct{}

func openNull(_ string, _ chan []byte) (link, error) {
	return null{}, nil
}

func (null) write(_ []byte) error {
	return nil
}

func (null) close() error {
	return nil
}

type loopback struct {
	rx chan []byte
}

func openLoopback(_ string, rx chan []byte) (link, error) {
	return &loopback{rx: rx}, nil
}

func (l *loopback) write(frame []byte) error {
	push(l.rx, frame)
	return nil
}

func (l *loopback) close() error {
	return nil
}

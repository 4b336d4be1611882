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


package test

import "strings"

// CompareWriter collects everything written to it so that it can be compared
// with the expected output of a test.
type CompareWriter struct {
	b strings.Builder
}

func (cw *CompareWriter) Write(p []byte) (int, error) {
	return cw.b.Write(p)
}

// Clear the collected output.
func (cw *CompareWriter) Clear() {
	cw.b.Reset()
}

// Compare returns true if the collected output is exactly s.
func (cw *CompareWriter) Compare(s string) bool {
	return cw.b.String() == s
}

// Lines returns the collected output split into lines. A trailing newline
// does not produce an empty final line.
func (cw *CompareWriter) Lines() []string {
	s := strings.TrimSuffix(cw.b.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func (cw *CompareWriter) String() string {
	return cw.b.String()
}

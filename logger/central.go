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


package logger

import "io"

// the central log is shared by every package in the program
var central = NewLogger(256)

// Log adds an entry to the central log.
func Log(perm Permission, tag, detail string) {
	central.Log(perm, tag, detail)
}

// Logf adds a formatted entry to the central log.
func Logf(perm Permission, tag, detail string, args ...any) {
	central.Logf(perm, tag, detail, args...)
}

// Clear the central log.
func Clear() {
	central.Clear()
}

// Write the central log to output.
func Write(output io.Writer) {
	central.Write(output)
}

// WriteRecent writes the central log entries added since the previous call.
func WriteRecent(output io.Writer) {
	central.WriteRecent(output)
}

// Tail writes the last number entries of the central log.
func Tail(output io.Writer, number int) {
	central.Tail(output, number)
}

// SetEcho writes new central log entries to output as they are added. See
// Logger.SetEcho().
func SetEcho(output io.Writer, writeRecent bool) {
	central.SetEcho(output, writeRecent)
}

// BorrowLog gives f access to the central log entries.
func BorrowLog(f func([]Entry)) {
	central.BorrowLog(f)
}

// Len returns the number of entries in the central log.
func Len() int {
	return central.Len()
}
